package training

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
)

// WorkoutHistoryLimit caps the number of workout entries returned per query.
const WorkoutHistoryLimit = 50

type (
	// Repository is the training data store. Every query is scoped to a single user.
	Repository interface {
		// QueryStudents returns the profiles with role student, ordered by name.
		QueryStudents(ctx context.Context) ([]Student, error)
		// QueryStudentByID returns ErrStudentNotFound unless userID has a student profile.
		QueryStudentByID(ctx context.Context, userID string) (Student, error)
		// QueryAssessments returns every assessment of userID, most recent first.
		QueryAssessments(ctx context.Context, userID string) ([]Assessment, error)
		// QueryWorkouts returns at most limit workout entries of userID, most recent first.
		QueryWorkouts(ctx context.Context, userID string, limit int) ([]WorkoutSet, error)
		CreateAssessment(ctx context.Context, a Assessment) (Assessment, error)
		CreateWorkout(ctx context.Context, w WorkoutSet) (WorkoutSet, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		nowFunc  func() time.Time
	}

	// Dashboard is everything the progress view of one user needs.
	Dashboard struct {
		UserID      string       `json:"user_id"`
		Summary     Summary      `json:"summary"`
		Chart       []ChartPoint `json:"chart"`
		Assessments []Assessment `json:"assessments"`
		Workouts    []WorkoutSet `json:"workouts"`
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(validate, "validate"),
	).CheckAndPanic()

	return &Service{
		repo:     repo,
		validate: validate,
		nowFunc:  time.Now,
	}
}

// resolveTarget returns the user whose data caller is acting on.
// An empty target means the caller itself. Only teachers may act on someone else, and only on students.
func (svc *Service) resolveTarget(ctx context.Context, caller identity.Identity, target string) (string, error) {
	target = core.CleanString(target)
	if target == "" || target == caller.UserID {
		return caller.UserID, nil
	}
	if !caller.IsTeacher() {
		return "", ErrForbidden
	}

	student, err := svc.repo.QueryStudentByID(ctx, target)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return "", core.NewValidationError(nil, core.FieldError{Field: "user_id", Error: "unknown student"})
		}
		return "", errors.Wrap(err, "querying student")
	}
	return student.UserID, nil
}

// ListStudents is only available to teachers.
func (svc *Service) ListStudents(ctx context.Context, caller identity.Identity) ([]Student, error) {
	if !caller.IsTeacher() {
		return nil, ErrForbidden
	}
	students, err := svc.repo.QueryStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (svc *Service) Assessments(ctx context.Context, caller identity.Identity, target string) ([]Assessment, error) {
	userID, err := svc.resolveTarget(ctx, caller, target)
	if err != nil {
		return nil, err
	}
	history, err := svc.repo.QueryAssessments(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying assessments")
	}
	return history, nil
}

func (svc *Service) Workouts(ctx context.Context, caller identity.Identity, target string) ([]WorkoutSet, error) {
	userID, err := svc.resolveTarget(ctx, caller, target)
	if err != nil {
		return nil, err
	}
	workouts, err := svc.repo.QueryWorkouts(ctx, userID, WorkoutHistoryLimit)
	if err != nil {
		return nil, errors.Wrap(err, "querying workouts")
	}
	return workouts, nil
}

// RecordAssessment is only available to teachers, for themselves or any student.
func (svc *Service) RecordAssessment(ctx context.Context, caller identity.Identity, target string, na NewAssessment) (Assessment, error) {
	if !caller.IsTeacher() {
		return Assessment{}, ErrForbidden
	}
	userID, err := svc.resolveTarget(ctx, caller, target)
	if err != nil {
		return Assessment{}, err
	}
	if err = na.Validate(svc.validate); err != nil {
		return Assessment{}, err
	}

	now := svc.nowFunc()
	date, err := parseDate(na.Date, now)
	if err != nil {
		return Assessment{}, errors.Wrap(err, "parsing date")
	}
	a := Assessment{
		UserID:      userID,
		Date:        date,
		WeightKg:    na.WeightKg,
		HeightM:     na.HeightM,
		BodyFatPct:  na.BodyFatPct,
		LeanMassPct: na.LeanMassPct,
		CreatedAt:   now.UTC(),
	}
	if a, err = svc.repo.CreateAssessment(ctx, a); err != nil {
		return Assessment{}, errors.Wrap(err, "creating assessment")
	}
	return a, nil
}

// LogWorkout records a workout entry for the caller, or for any user when the caller is a teacher.
func (svc *Service) LogWorkout(ctx context.Context, caller identity.Identity, target string, nw NewWorkout) (WorkoutSet, error) {
	userID, err := svc.resolveTarget(ctx, caller, target)
	if err != nil {
		return WorkoutSet{}, err
	}
	if err = nw.Validate(svc.validate); err != nil {
		return WorkoutSet{}, err
	}

	now := svc.nowFunc()
	date, err := parseDate(nw.Date, now)
	if err != nil {
		return WorkoutSet{}, errors.Wrap(err, "parsing date")
	}
	w := WorkoutSet{
		UserID:       userID,
		Date:         date,
		MuscleGroup:  nw.MuscleGroup,
		ExerciseName: nw.ExerciseName,
		Sets:         *nw.Sets,
		Reps:         *nw.Reps,
		LoadKg:       nw.LoadKg,
		Notes:        nw.Notes,
		CreatedAt:    now.UTC(),
	}
	if w, err = svc.repo.CreateWorkout(ctx, w); err != nil {
		return WorkoutSet{}, errors.Wrap(err, "creating workout")
	}
	return w, nil
}

func (svc *Service) Dashboard(ctx context.Context, caller identity.Identity, target string) (Dashboard, error) {
	userID, err := svc.resolveTarget(ctx, caller, target)
	if err != nil {
		return Dashboard{}, err
	}

	history, err := svc.repo.QueryAssessments(ctx, userID)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying assessments")
	}
	workouts, err := svc.repo.QueryWorkouts(ctx, userID, WorkoutHistoryLimit)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying workouts")
	}

	return Dashboard{
		UserID:      userID,
		Summary:     Summarize(history),
		Chart:       EvolutionChart(history),
		Assessments: history,
		Workouts:    workouts,
	}, nil
}
