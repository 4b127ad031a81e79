package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	corsAllowHeaders = "Content-Type"
	corsAllowMethods = "GET, POST, PUT, OPTIONS"
)

// CORS attaches CORS headers to every response and answers any OPTIONS
// request itself. Register it with echo.Pre so it runs before routing.
func CORS(allowOrigins []string) echo.MiddlewareFunc {
	wildcard := len(allowOrigins) == 0
	for _, o := range allowOrigins {
		if strings.TrimSpace(o) == "*" {
			wildcard = true
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			if wildcard {
				h.Set(echo.HeaderAccessControlAllowOrigin, "*")
			} else if origin := c.Request().Header.Get(echo.HeaderOrigin); allowed(allowOrigins, origin) {
				h.Set(echo.HeaderAccessControlAllowOrigin, origin)
				h.Add(echo.HeaderVary, echo.HeaderOrigin)
			}
			h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
			h.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)

			if c.Request().Method == http.MethodOptions {
				return c.JSON(http.StatusOK, map[string]string{"message": "CORS preflight"})
			}
			return next(c)
		}
	}
}

func allowed(origins []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, o := range origins {
		if strings.EqualFold(strings.TrimSpace(o), origin) {
			return true
		}
	}
	return false
}
