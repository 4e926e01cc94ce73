// Package middleware contains reusable HTTP middleware: session-token
// authentication and rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/portapro/portapro-api/internal/response"
)

// JWTAuth validates a Bearer session token and injects the subject id and
// email claims into the request context. The secret must match the one the
// workflow engine signs with. Handlers read the identity back via
// c.Get("user_id") and c.Get("email").
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, response.New("Unauthorized", http.StatusUnauthorized, nil))
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, response.New("Unauthorized", http.StatusUnauthorized, nil))
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, response.New("Unauthorized", http.StatusUnauthorized, nil))
			}

			// Leave type assertions to downstream consumers; JWT numbers
			// decode as float64.
			c.Set("user_id", claims["sub"])
			c.Set("email", claims["email"])
			return next(c)
		}
	}
}
