package middleware

import (
	"net/http"
	"strings"
	"time"

	"sofida/pkg/logger"
	"sofida/pkg/utils"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuth guards the admin route group. It accepts either a service JWT with
// the ADMIN role or an X-API-Key matching the configured bcrypt hash, so both
// service-to-service callers and ops tooling can reach the reload endpoint.
func AdminAuth(adminAPIKeyHash string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if apiKey := c.Request().Header.Get("X-API-Key"); apiKey != "" && adminAPIKeyHash != "" {
				if err := bcrypt.CompareHashAndPassword([]byte(adminAPIKeyHash), []byte(apiKey)); err == nil {
					c.Set("role", "ADMIN")
					return next(c)
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid api key"})
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing authorization header"})
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid authorization format"})
			}

			claims, err := utils.ParseJWT(tokenParts[1])
			if err != nil {
				logger.Debug("admin token rejected", "error", err)
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
			}

			expAt, err := claims.GetExpirationTime()
			if err != nil || time.Now().After(expAt.Time) {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "token expired"})
			}

			if strings.ToUpper(claims.Role) != "ADMIN" {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "admin access required"})
			}

			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}
