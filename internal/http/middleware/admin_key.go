package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"
)

// AdminKeyMiddleware authenticates requests using the X-API-Key header
// against the single configured admin key. An empty configured key
// disables the check (local dev).
func AdminKeyMiddleware(adminKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if adminKey == "" {
				return next(c)
			}
			key := strings.TrimSpace(c.Request().Header.Get("X-API-Key"))
			if key == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing api key"})
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
			}
			return next(c)
		}
	}
}
