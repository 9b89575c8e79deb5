package http

import (
	"net/http"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/policydesk/polgw/internal/reminder"
)

func triggerRemindersHandler(sweeper *reminder.Sweeper) echo.HandlerFunc {
	return func(c echo.Context) error {
		results, err := sweeper.Run(c.Request().Context())
		if err != nil {
			log.Errorf("reminder sweep failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "sweep failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"triggered": len(results),
			"details":   results,
		})
	}
}
