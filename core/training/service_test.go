package training_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
	"github.com/trezcool/personal/core/training"
	"github.com/trezcool/personal/storage/database/inmem"
	"github.com/trezcool/personal/tests"
)

var (
	teacher  = identity.Identity{UserID: "t-1", Role: identity.RoleTeacher, DisplayName: "Prof"}
	teacher2 = identity.Identity{UserID: "t-2", Role: identity.RoleTeacher, DisplayName: "Prof 2"}
	student  = identity.Identity{UserID: "s-1", Role: identity.RoleStudent, DisplayName: "Ana"}
	student2 = identity.Identity{UserID: "s-2", Role: identity.RoleStudent, DisplayName: "Bruno"}
)

func setup(t *testing.T) (*training.Service, training.Repository, *inmemdb.DB) {
	db := inmemdb.Open()
	repo := inmemdb.NewTrainingRepository(db)
	profRepo := inmemdb.NewProfileRepository(db)
	testutil.CreateProfile(t, profRepo, teacher.UserID, teacher.Role, teacher.DisplayName)
	testutil.CreateProfile(t, profRepo, teacher2.UserID, teacher2.Role, teacher2.DisplayName)
	testutil.CreateProfile(t, profRepo, student2.UserID, student2.Role, student2.DisplayName)
	testutil.CreateProfile(t, profRepo, student.UserID, student.Role, student.DisplayName)
	validate, _ := testutil.NewValidator()
	return training.NewService(repo, validate), repo, db
}

func TestService_ListStudents(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.ListStudents(ctx, student)
	assert.True(t, errors.Is(err, training.ErrForbidden))

	students, err := svc.ListStudents(ctx, teacher)
	require.NoError(t, err)
	assert.Equal(t, []training.Student{
		{UserID: student.UserID, DisplayName: "Ana"},
		{UserID: student2.UserID, DisplayName: "Bruno"},
	}, students)
}

func TestService_targetResolution(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	testutil.CreateAssessment(t, repo, student.UserID, testutil.Date(t, "2024-01-10"), testutil.Float(80), nil, nil)
	testutil.CreateAssessment(t, repo, student2.UserID, testutil.Date(t, "2024-01-11"), testutil.Float(70), nil, nil)

	tests := []struct {
		name    string
		caller  identity.Identity
		target  string
		wantLen int
		wantErr error
	}{
		{name: "self (implicit)", caller: student, wantLen: 1},
		{name: "self (explicit)", caller: student, target: student.UserID, wantLen: 1},
		{name: "student reading another student", caller: student, target: student2.UserID, wantErr: training.ErrForbidden},
		{name: "teacher reading a student", caller: teacher, target: student2.UserID, wantLen: 1},
		{name: "teacher reading self", caller: teacher, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := svc.Assessments(ctx, tt.caller, tt.target)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, history, tt.wantLen)
			for _, a := range history {
				want := tt.target
				if want == "" {
					want = tt.caller.UserID
				}
				assert.Equal(t, want, a.UserID)
			}
		})
	}

	_, err := svc.Workouts(ctx, student2, student.UserID)
	assert.True(t, errors.Is(err, training.ErrForbidden))
	_, err = svc.Dashboard(ctx, student2, student.UserID)
	assert.True(t, errors.Is(err, training.ErrForbidden))
}

func TestService_targetMustBeStudent(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	testutil.CreateAssessment(t, repo, teacher.UserID, testutil.Date(t, "2024-01-10"), testutil.Float(75), nil, nil)

	checkUnknownStudent := func(t *testing.T, err error) {
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr), "err = %v", err)
		assert.Equal(t, map[string]string{"user_id": "unknown student"}, vErr.FieldMap())
	}

	na := training.NewAssessment{Date: "2024-02-01", WeightKg: testutil.Float(80)}
	nw := training.NewWorkout{MuscleGroup: "Pernas", ExerciseName: "Agachamento"}

	for _, target := range []string{"ghost-user", teacher.UserID} {
		t.Run(target, func(t *testing.T) {
			_, err := svc.RecordAssessment(ctx, teacher2, target, na)
			checkUnknownStudent(t, err)
			_, err = svc.LogWorkout(ctx, teacher2, target, nw)
			checkUnknownStudent(t, err)
			_, err = svc.Assessments(ctx, teacher2, target)
			checkUnknownStudent(t, err)
			_, err = svc.Workouts(ctx, teacher2, target)
			checkUnknownStudent(t, err)
			_, err = svc.Dashboard(ctx, teacher2, target)
			checkUnknownStudent(t, err)

			history, err := repo.QueryAssessments(ctx, target)
			require.NoError(t, err)
			for _, a := range history {
				assert.NotEqual(t, 80.0, *a.WeightKg, "nothing recorded for %s", target)
			}
			workouts, err := repo.QueryWorkouts(ctx, target, training.WorkoutHistoryLimit)
			require.NoError(t, err)
			assert.Empty(t, workouts)
		})
	}
}

func TestService_RecordAssessment(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	na := training.NewAssessment{Date: "2024-02-01", WeightKg: testutil.Float(84.5), BodyFatPct: testutil.Float(20)}

	_, err := svc.RecordAssessment(ctx, student, "", na)
	assert.True(t, errors.Is(err, training.ErrForbidden), "students cannot record assessments")

	a, err := svc.RecordAssessment(ctx, teacher, student.UserID, na)
	require.NoError(t, err)
	assert.Equal(t, student.UserID, a.UserID)
	assert.Equal(t, testutil.Date(t, "2024-02-01"), a.Date)
	assert.Nil(t, a.HeightM, "absent metrics stay absent")
	assert.Nil(t, a.LeanMassPct)

	history, err := svc.Assessments(ctx, student, "")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 84.5, *history[0].WeightKg)
	assert.Equal(t, 20.0, *history[0].BodyFatPct)
	assert.Nil(t, history[0].LeanMassPct)

	t.Run("default date is today", func(t *testing.T) {
		y, m, d := time.Now().Date()
		a, err := svc.RecordAssessment(ctx, teacher, "", training.NewAssessment{WeightKg: testutil.Float(90)})
		require.NoError(t, err)
		assert.Equal(t, time.Date(y, m, d, 0, 0, 0, 0, time.UTC), a.Date)
		assert.Equal(t, teacher.UserID, a.UserID)
	})

	t.Run("invalid", func(t *testing.T) {
		invalid := []training.NewAssessment{
			{Date: "01/02/2024"},
			{WeightKg: testutil.Float(-1)},
			{HeightM: testutil.Float(3.5)},
			{BodyFatPct: testutil.Float(101)},
		}
		for i, in := range invalid {
			_, err := svc.RecordAssessment(ctx, teacher, student.UserID, in)
			var vErrs validator.ValidationErrors
			assert.True(t, errors.As(err, &vErrs), fmt.Sprintf("case %d: err = %v", i, err))
		}
	})
}

func TestService_LogWorkout(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	nw := training.NewWorkout{Date: "2024-02-01", MuscleGroup: "peito", ExerciseName: "  Supino  ", LoadKg: 40}

	w, err := svc.LogWorkout(ctx, student, "", nw)
	require.NoError(t, err)
	assert.Equal(t, student.UserID, w.UserID)
	assert.Equal(t, "Peito", w.MuscleGroup)
	assert.Equal(t, "Supino", w.ExerciseName)
	assert.Equal(t, training.DefaultSets, w.Sets)
	assert.Equal(t, training.DefaultReps, w.Reps)

	w, err = svc.LogWorkout(ctx, student, "", training.NewWorkout{MuscleGroup: "Costas", ExerciseName: "Remada", Sets: testutil.Int(4), Reps: testutil.Int(8)})
	require.NoError(t, err)
	assert.Equal(t, 4, w.Sets)
	assert.Equal(t, 8, w.Reps)

	_, err = svc.LogWorkout(ctx, student, student2.UserID, nw)
	assert.True(t, errors.Is(err, training.ErrForbidden))

	w, err = svc.LogWorkout(ctx, teacher, student2.UserID, nw)
	require.NoError(t, err)
	assert.Equal(t, student2.UserID, w.UserID)

	invalid := []training.NewWorkout{
		{MuscleGroup: "Pescoço", ExerciseName: "x"},
		{MuscleGroup: "Costas", ExerciseName: "   "},
		{MuscleGroup: "Costas", ExerciseName: "Remada", Sets: testutil.Int(11)},
		{MuscleGroup: "Costas", ExerciseName: "Remada", Reps: testutil.Int(51)},
		{MuscleGroup: "Costas", ExerciseName: "Remada", Sets: testutil.Int(0)},
		{MuscleGroup: "Costas", ExerciseName: "Remada", Reps: testutil.Int(0)},
		{MuscleGroup: "Costas", ExerciseName: "Remada", LoadKg: 501},
		{MuscleGroup: "Costas", ExerciseName: "Remada", LoadKg: -1},
	}
	for i, in := range invalid {
		_, err := svc.LogWorkout(ctx, student, "", in)
		var vErrs validator.ValidationErrors
		assert.True(t, errors.As(err, &vErrs), fmt.Sprintf("case %d: err = %v", i, err))
	}
}

func TestService_Workouts_limit(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	start := testutil.Date(t, "2024-01-01")
	for i := 0; i <= training.WorkoutHistoryLimit; i++ { // one more than the limit
		testutil.CreateWorkout(t, repo, student.UserID, start.AddDate(0, 0, i), fmt.Sprintf("ex-%02d", i))
	}
	testutil.CreateWorkout(t, repo, student2.UserID, start.AddDate(1, 0, 0), "other")

	workouts, err := svc.Workouts(ctx, student, "")
	require.NoError(t, err)
	require.Len(t, workouts, training.WorkoutHistoryLimit)
	assert.Equal(t, fmt.Sprintf("ex-%02d", training.WorkoutHistoryLimit), workouts[0].ExerciseName, "most recent first")
	assert.Equal(t, "ex-01", workouts[len(workouts)-1].ExerciseName, "oldest entry dropped")
	for _, w := range workouts {
		assert.Equal(t, student.UserID, w.UserID)
	}
}

func TestService_Dashboard(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	t.Run("no assessments", func(t *testing.T) {
		dash, err := svc.Dashboard(ctx, student, "")
		require.NoError(t, err)
		assert.Equal(t, student.UserID, dash.UserID)
		assert.False(t, dash.Summary.HasAssessments)
		assert.Nil(t, dash.Chart)
		assert.Empty(t, dash.Assessments)
		assert.Empty(t, dash.Workouts)
	})

	testutil.CreateAssessment(t, repo, student.UserID, testutil.Date(t, "2024-01-10"), testutil.Float(84.5), testutil.Float(20.0), nil)

	t.Run("one assessment", func(t *testing.T) {
		dash, err := svc.Dashboard(ctx, teacher, student.UserID)
		require.NoError(t, err)
		assert.True(t, dash.Summary.HasAssessments)
		assert.Nil(t, dash.Summary.Previous)
		assert.Nil(t, dash.Summary.Weight.Delta)
		assert.Nil(t, dash.Chart)
	})

	testutil.CreateAssessment(t, repo, student.UserID, testutil.Date(t, "2024-02-10"), testutil.Float(82.0), testutil.Float(18.0), nil)
	testutil.CreateWorkout(t, repo, student.UserID, testutil.Date(t, "2024-02-11"), "Supino")

	t.Run("two assessments", func(t *testing.T) {
		dash, err := svc.Dashboard(ctx, student, "")
		require.NoError(t, err)
		assert.Equal(t, testutil.Date(t, "2024-02-10"), dash.Summary.Current.Date)
		assert.InDelta(t, -2.5, *dash.Summary.Weight.Delta, 1e-9)
		assert.InDelta(t, -2.0, *dash.Summary.BodyFat.Delta, 1e-9)
		assert.Nil(t, dash.Summary.LeanMass.Delta)
		assert.Len(t, dash.Chart, 2)
		assert.Len(t, dash.Assessments, 2)
		assert.Len(t, dash.Workouts, 1)
	})
}

func TestService_sameDayOrdering(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	d := testutil.Date(t, "2024-03-01")
	now := time.Now()
	testutil.CreateAssessment(t, repo, student.UserID, d, testutil.Float(80), nil, nil, now)
	testutil.CreateAssessment(t, repo, student.UserID, d, testutil.Float(81), nil, nil, now.Add(time.Minute))

	history, err := svc.Assessments(ctx, student, "")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 81.0, *history[0].WeightKg, "later insert wins the tie")
}
