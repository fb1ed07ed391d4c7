package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
)

type sessionApi struct {
	conf *core.Config
	svc  *identity.Service
}

type loginResponse struct {
	Token    string            `json:"token"`
	Identity identity.Identity `json:"identity"`
}

func registerSessionAPI(g *echo.Group, auth *authenticator, conf *core.Config, svc *identity.Service) {
	api := sessionApi{conf: conf, svc: svc}

	sg := g.Group("/session")
	sg.POST("", api.login)
	sg.GET("", api.current, auth.required)
	sg.DELETE("", api.logout, auth.required)
}

// Handlers

func (api *sessionApi) login(ctx echo.Context) error {
	var creds identity.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	sess, err := api.svc.Login(ctx.Request().Context(), creds)
	if err != nil {
		return err
	}

	token, err := GenerateToken(api.conf, NewClaims(api.conf, sess))
	if err != nil {
		api.svc.Logout(sess.ID)
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, loginResponse{Token: token, Identity: sess.Identity})
}

func (api *sessionApi) current(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.Identity)
}

func (api *sessionApi) logout(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	api.svc.Logout(sess.ID)
	return ctx.NoContent(http.StatusNoContent)
}
