package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
	"github.com/trezcool/personal/core/training"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errSessionClosed = echo.NewHTTPError(http.StatusUnauthorized, "session expired or logged out")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// authErrorStatus maps identity provider failures: bad credentials are the caller's fault,
// the rest are upstream failures.
func authErrorStatus(kind identity.AuthErrorKind) int {
	switch kind {
	case identity.InvalidCredentials:
		return http.StatusBadRequest
	case identity.Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func dataErrorStatus(kind training.DataErrorKind) int {
	switch kind {
	case training.ConstraintViolation:
		return http.StatusConflict
	case training.ConnectionError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}
		var report bool

		cause := errors.Cause(err)
		var authErr *identity.AuthError
		var dataErr *training.DataError

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
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
			code = http.StatusBadRequest
			message = core.TranslateErrors(origErr, translator)
		case *core.ValidationError:
			if flds := origErr.FieldMap(); flds != nil {
				message = flds
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			switch {
			case cause == training.ErrForbidden:
				code = http.StatusForbidden
				message = cause.Error()
			case errors.As(err, &authErr):
				code = authErrorStatus(authErr.Kind)
				message = authErr.Error()
				report = authErr.Kind != identity.InvalidCredentials
			case errors.As(err, &dataErr):
				code = dataErrorStatus(dataErr.Kind)
				message = dataErr.Kind.String()
				report = dataErr.Kind != training.ConstraintViolation
			default: // any other error is a server error
				code = http.StatusInternalServerError
				message = http.StatusText(http.StatusInternalServerError)
				report = true
			}
		}

		if report {
			msg := fmt.Sprintf("%s %s: %d", ctx.Request().Method, ctx.Path(), code)
			logger.Error(msg, errors.Wrap(err, msg), getContextIdentity(ctx))
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
