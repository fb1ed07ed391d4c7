package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// teacherMiddleware must run after authenticator.required.
func teacherMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sess, err := getContextSession(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context session")
		}
		if sess.Identity.IsTeacher() {
			return next(ctx)
		}
		return errHttpForbidden
	}
}
