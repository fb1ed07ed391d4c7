package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
)

const (
	contextTokenKey   = "sessionToken"
	contextSessionKey = "session"
	tokenAudience     = "Personal"
)

var nowFunc = time.Now // mockable

// Claims represents the authorization claims transmitted via a JWT.
// The token ID (jti) is the session ID: a token outlives its session only until logout.
type Claims struct {
	jwt.StandardClaims
	Role identity.Role `json:"role,omitempty"`
	Name string        `json:"name,omitempty"`
}

func NewClaims(conf *core.Config, sess identity.Session) *Claims {
	now := nowFunc()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        sess.ID,
			Issuer:    conf.AppName,
			Subject:   sess.Identity.UserID,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Role: sess.Identity.Role,
		Name: sess.Identity.DisplayName,
	}
}

// GenerateToken generates a signed JWT token string representing the session Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// authenticator guards the authed endpoints: a valid JWT whose session is still open.
type authenticator struct {
	jwt echo.MiddlewareFunc
	svc *identity.Service
}

func newAuthenticator(conf *core.Config, svc *identity.Service) *authenticator {
	return &authenticator{
		jwt: middleware.JWTWithConfig(middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		}),
		svc: svc,
	}
}

// required is the middleware for authed endpoints.
func (a *authenticator) required(next echo.HandlerFunc) echo.HandlerFunc {
	return a.jwt(a.sessionMiddleware(next))
}

func (a *authenticator) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return err
		}
		sess, err := a.svc.Session(claims.Id)
		if err != nil {
			return errSessionClosed
		}
		ctx.Set(contextSessionKey, sess)
		return next(ctx)
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextSession(ctx echo.Context) (identity.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(identity.Session); ok {
		return sess, nil
	}
	return identity.Session{}, errUnauthorized
}

// getContextIdentity returns the acting identity, or a zero Identity for anonymous requests.
func getContextIdentity(ctx echo.Context) identity.Identity {
	sess, _ := getContextSession(ctx)
	return sess.Identity
}
