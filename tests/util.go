package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
	"github.com/trezcool/personal/core/training"
	"github.com/trezcool/personal/services/logger"
)

// NewValidator returns a validator with every application validator registered,
// and the translator holding their messages.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	training.InitValidators(validate, translator)
	return validate, translator
}

func NewLogger() *logsvc.RollbarLogger {
	l := logsvc.NewRollbarLogger(zap.NewNop(), &core.Config{Env: "TEST"})
	l.Enable(false)
	return l
}

func Float(f float64) *float64 { return &f }

func Int(i int) *int { return &i }

// Date parses a YYYY-MM-DD date.
func Date(t *testing.T, s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("Date() failed: %v", err)
	}
	return d
}

func CreateProfile(t *testing.T, repo identity.ProfileRepository, userID string, role identity.Role, name string) identity.Profile {
	prof, err := repo.SaveProfile(context.Background(), identity.Profile{UserID: userID, Role: role, Name: name})
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	return prof
}

func CreateAssessment(t *testing.T, repo training.Repository, userID string, date time.Time, weight, fat, lean *float64, createdAt ...time.Time) training.Assessment {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	a, err := repo.CreateAssessment(context.Background(), training.Assessment{
		UserID:      userID,
		Date:        date,
		WeightKg:    weight,
		BodyFatPct:  fat,
		LeanMassPct: lean,
		CreatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("CreateAssessment() failed: %v", err)
	}
	return a
}

func CreateWorkout(t *testing.T, repo training.Repository, userID string, date time.Time, exercise string, createdAt ...time.Time) training.WorkoutSet {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	w, err := repo.CreateWorkout(context.Background(), training.WorkoutSet{
		UserID:       userID,
		Date:         date,
		MuscleGroup:  "Peito",
		ExerciseName: exercise,
		Sets:         training.DefaultSets,
		Reps:         training.DefaultReps,
		LoadKg:       40,
		CreatedAt:    tstamp,
	})
	if err != nil {
		t.Fatalf("CreateWorkout() failed: %v", err)
	}
	return w
}

// ProviderAccount is one identity known to a FakeProvider.
type ProviderAccount struct {
	UserID   string
	Password string
	Token    identity.AccessToken
	Profile  *identity.Profile // nil: no profile row
}

// FakeProvider is an in-process identity.Provider.
// Err and ProfileErr, when set, fail Authenticate and FetchProfile respectively.
type FakeProvider struct {
	mu         sync.Mutex
	accounts   map[string]ProviderAccount // keyed by email
	Err        error
	ProfileErr error
	Calls      int
}

var _ identity.Provider = (*FakeProvider)(nil)

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{accounts: make(map[string]ProviderAccount)}
}

func (p *FakeProvider) AddAccount(email string, acc ProviderAccount) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[email] = acc
}

func (p *FakeProvider) Authenticate(_ context.Context, email, password string) (identity.Grant, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Calls++
	if p.Err != nil {
		return identity.Grant{}, p.Err
	}
	acc, ok := p.accounts[email]
	if !ok || acc.Password != password {
		return identity.Grant{}, &identity.AuthError{Kind: identity.InvalidCredentials, Message: "Invalid login credentials"}
	}
	return identity.Grant{AccessToken: acc.Token, UserID: acc.UserID}, nil
}

func (p *FakeProvider) FetchProfile(_ context.Context, userID string, token identity.AccessToken) (identity.Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ProfileErr != nil {
		return identity.Profile{}, p.ProfileErr
	}
	for _, acc := range p.accounts {
		if acc.UserID != userID {
			continue
		}
		if acc.Token != token {
			return identity.Profile{}, &identity.AuthError{Kind: identity.InvalidCredentials, Message: "invalid token"}
		}
		if acc.Profile == nil {
			return identity.Profile{}, identity.ErrProfileNotFound
		}
		return *acc.Profile, nil
	}
	return identity.Profile{}, identity.ErrProfileNotFound
}
