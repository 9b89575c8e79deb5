package http

import (
	"net/http"

	echo "github.com/labstack/echo/v4"

	"github.com/policydesk/polgw/internal/repository"
)

func listPoliciesHandler(policies repository.PoliciesRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := policies.ListWithCustomers(c.Request().Context())
		if err != nil {
			c.Logger().Errorf("list policies failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, list)
	}
}
