package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/nats-io/nuid"
)

func newRequestID() string {
	return nuid.Next()
}

// profesorMiddleware loads the authenticated profesor into the context; it must run after the JWT middleware.
func profesorMiddleware(auth *authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if _, err := auth.contextProfesor(ctx); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}
