package identity

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/personal/core"
)

type (
	// Provider is the external identity service.
	Provider interface {
		// Authenticate exchanges credentials for a Grant. Failures are *AuthError.
		Authenticate(ctx context.Context, email, password string) (Grant, error)
		// FetchProfile returns ErrProfileNotFound when the identity has no profile row.
		FetchProfile(ctx context.Context, userID string, token AccessToken) (Profile, error)
	}

	Service struct {
		provider Provider
		sessions *SessionStore
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(provider Provider, sessions *SessionStore, validate *validator.Validate, logger core.Logger) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(provider, "provider"),
		vala.IsNotNil(sessions, "sessions"),
		vala.IsNotNil(validate, "validate"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Service{
		provider: provider,
		sessions: sessions,
		validate: validate,
		logger:   logger,
	}
}

// Login authenticates creds and opens a Session.
// The session is only registered once the profile is resolved: a failure leaves nothing behind.
func (svc *Service) Login(ctx context.Context, creds Credentials) (Session, error) {
	if err := creds.Validate(svc.validate); err != nil {
		return Session{}, err
	}

	grant, err := svc.provider.Authenticate(ctx, creds.Email, creds.Password)
	if err != nil {
		return Session{}, errors.Wrap(err, "authenticating")
	}

	prof, err := svc.ResolveProfile(ctx, grant.UserID, grant.AccessToken)
	if err != nil {
		return Session{}, errors.Wrap(err, "resolving profile")
	}

	id := Identity{
		UserID:      grant.UserID,
		Email:       creds.Email,
		Role:        prof.Role,
		DisplayName: prof.Name,
	}
	sess := svc.sessions.Create(id, grant.AccessToken)
	svc.logger.Info(fmt.Sprintf("session opened (role %s)", id.Role), id)
	return sess, nil
}

// ResolveProfile looks up the profile of userID.
// A missing profile row is not an error: the identity is treated as an under-provisioned student.
func (svc *Service) ResolveProfile(ctx context.Context, userID string, token AccessToken) (Profile, error) {
	prof, err := svc.provider.FetchProfile(ctx, userID, token)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			svc.logger.Warn("no profile row, using default", Identity{UserID: userID})
			return DefaultProfile(userID), nil
		}
		return Profile{}, errors.Wrap(err, "fetching profile")
	}
	return prof.normalize(userID), nil
}

func (svc *Service) Session(id string) (Session, error) {
	return svc.sessions.Get(id)
}

// Logout invalidates the session. Logging out twice is not an error.
func (svc *Service) Logout(id string) {
	if sess, err := svc.sessions.Get(id); err == nil {
		svc.sessions.Delete(id)
		svc.logger.Info("session closed", sess.Identity)
	}
}
