package http

import (
	"net/http"

	echo "github.com/labstack/echo/v4"

	"github.com/policydesk/polgw/internal/repository"
)

const recentLogLimit = 10

func statsHandler(stats repository.StatsRepository, reminders repository.RemindersRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		counts, err := stats.Counts(c.Request().Context())
		if err != nil {
			c.Logger().Errorf("stats counts failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		recent, err := reminders.ListRecent(c.Request().Context(), recentLogLimit)
		if err != nil {
			c.Logger().Errorf("recent logs failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"totalPolicies": counts.TotalPolicies,
			"expiringSoon":  counts.ExpiringSoon,
			"expiredCount":  counts.ExpiredCount,
			"recentLogs":    recent,
		})
	}
}
