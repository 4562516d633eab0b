package echoapi

import (
	"net/http"

	"github.com/dgrijalva/jwt-go"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/profesor"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "DNI/Nombre o contraseña incorrectos")
	errRefreshExpired       = echo.NewHTTPError(http.StatusUnauthorized, "La sesión ha expirado, inicie sesión nuevamente")
)

// isAuthError reports whether err was raised by the JWT middleware.
func isAuthError(err *echo.HTTPError) bool {
	if err == middleware.ErrJWTMissing {
		return true
	}
	_, ok := err.Internal.(*jwt.ValidationError)
	return ok
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Every error body is `{"detail": <message | {field: message}>}`.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(
	logger core.Logger,
	translator ut.Translator,
	signalShutdown func(),
) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if isAuthError(origErr) {
				code = errUnauthorized.Code
				message = errUnauthorized.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *core.NotFoundError:
			code = http.StatusNotFound
			message = origErr.Message
		case *core.BadRequestError:
			code = http.StatusBadRequest
			message = origErr.Message
		case *core.InternalError:
			code = http.StatusInternalServerError
			message = origErr.Message
			logger.Error(origErr.Message, err, loggedProfesor(ctx))
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			if ctx.Echo().Debug {
				message = err.Error()
			}
			logger.Error(msg, errors.Wrap(err, msg), loggedProfesor(ctx))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, echo.Map{"detail": message})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// loggedProfesor identifies the profesor of the request for the logs.
func loggedProfesor(ctx echo.Context) profesor.Profesor {
	var p profesor.Profesor
	if cached, ok := ctx.Get(contextProfesorKey).(profesor.Profesor); ok {
		return cached
	}
	if claims, err := getContextClaims(ctx); err == nil {
		p.ID = claims.ProfesorID
		p.DNI = claims.Subject
		p.Nombre = claims.Nombre
	}
	return p
}
