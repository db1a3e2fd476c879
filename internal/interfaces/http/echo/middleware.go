package echo

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alirezamp/audio-batch-service/internal/auth"
)

const identityContextKey = "identity"

// InternalSecretHeader carries the shared secret on internal endpoints.
const InternalSecretHeader = "X-Internal-Secret"

// Authenticate validates the bearer token and stores the caller identity in
// the request context. Handlers behind it read the subject via
// identityFrom and never see the token.
func Authenticate(validator *auth.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			}

			identity, err := validator.Validate(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			}

			c.Set(identityContextKey, identity)
			return next(c)
		}
	}
}

// RequireInternalSecret gates internal endpoints. The check runs before any
// body parsing or validation, so a wrong secret learns nothing about the
// request it carried.
func RequireInternalSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			provided := c.Request().Header.Get(InternalSecretHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				return c.JSON(http.StatusForbidden, errorResponse{Error: "forbidden"})
			}
			return next(c)
		}
	}
}

func identityFrom(c echo.Context) (auth.Identity, bool) {
	identity, ok := c.Get(identityContextKey).(auth.Identity)
	return identity, ok
}
