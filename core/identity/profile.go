package identity

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/personal/core"
)

type (
	// ProfileRepository manages profile rows in the application database.
	ProfileRepository interface {
		// GetProfile returns ErrProfileNotFound when userID has no row.
		GetProfile(ctx context.Context, userID string) (Profile, error)
		// SaveProfile inserts the profile or replaces the role and name of an existing one.
		SaveProfile(ctx context.Context, prof Profile) (Profile, error)
	}

	// NewProfile is the form used to provision an identity.
	NewProfile struct {
		UserID string `json:"user_id" validate:"required,notblank,max=64"`
		Role   Role   `json:"role" validate:"required,oneof=teacher student"`
		Name   string `json:"nome" validate:"required,notblank,max=120"`
	}

	ProfileService struct {
		repo     ProfileRepository
		validate *validator.Validate
	}
)

// normalize applies the defaults of a stored profile: unknown roles are students, blank names are DefaultName.
func (p Profile) normalize(userID string) Profile {
	p.UserID = userID
	if !p.Role.Valid() {
		p.Role = RoleStudent
	}
	if core.CleanString(p.Name) == "" {
		p.Name = DefaultName
	}
	return p
}

func (np *NewProfile) Validate(validate *validator.Validate) error {
	np.UserID = core.CleanString(np.UserID)
	np.Role = Role(core.CleanString(string(np.Role), true /* lower */))
	np.Name = core.CleanString(np.Name)
	return validate.Struct(np)
}

func NewProfileService(repo ProfileRepository, validate *validator.Validate) *ProfileService {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(validate, "validate"),
	).CheckAndPanic()

	return &ProfileService{repo: repo, validate: validate}
}

func (svc *ProfileService) Get(ctx context.Context, userID string) (Profile, error) {
	return svc.repo.GetProfile(ctx, core.CleanString(userID))
}

// mirroringProvider copies every profile it serves into a local ProfileRepository.
type mirroringProvider struct {
	Provider
	repo ProfileRepository
}

// MirrorProfiles returns a Provider that saves each fetched profile into repo, so that
// identities which logged in at least once show up in local queries. Identities without a
// profile row are saved with their DefaultProfile.
func MirrorProfiles(provider Provider, repo ProfileRepository) Provider {
	vala.BeginValidation().Validate(
		vala.IsNotNil(provider, "provider"),
		vala.IsNotNil(repo, "repo"),
	).CheckAndPanic()

	return &mirroringProvider{Provider: provider, repo: repo}
}

func (p *mirroringProvider) FetchProfile(ctx context.Context, userID string, token AccessToken) (Profile, error) {
	prof, err := p.Provider.FetchProfile(ctx, userID, token)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		prof = DefaultProfile(userID)
	case err != nil:
		return Profile{}, err
	}

	prof = prof.normalize(userID)
	if _, err = p.repo.SaveProfile(ctx, prof); err != nil {
		return Profile{}, errors.Wrap(err, "mirroring profile")
	}
	return prof, nil
}

// Save provisions np. Saving an existing user id updates its role and name.
func (svc *ProfileService) Save(ctx context.Context, np NewProfile) (Profile, error) {
	if err := np.Validate(svc.validate); err != nil {
		return Profile{}, err
	}
	prof, err := svc.repo.SaveProfile(ctx, Profile{UserID: np.UserID, Role: np.Role, Name: np.Name})
	if err != nil {
		return Profile{}, errors.Wrap(err, "saving profile")
	}
	return prof, nil
}
