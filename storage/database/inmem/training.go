package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/personal/core/identity"
	"github.com/trezcool/personal/core/training"
)

type trainingRepository struct {
	profiles    *profileTable
	assessments *assessmentTable
	workouts    *workoutTable
}

func NewTrainingRepository(db *DB) training.Repository {
	return &trainingRepository{
		profiles:    db.profiles,
		assessments: db.assessments,
		workouts:    db.workouts,
	}
}

func (repo *trainingRepository) QueryStudents(_ context.Context) ([]training.Student, error) {
	repo.profiles.mutex.RLock()
	defer repo.profiles.mutex.RUnlock()

	students := make([]training.Student, 0)
	for _, prof := range repo.profiles.table {
		if prof.Role == identity.RoleStudent {
			students = append(students, training.Student{UserID: prof.UserID, DisplayName: prof.Name})
		}
	}
	sort.Slice(students, func(i, j int) bool {
		ni, nj := strings.ToLower(students[i].DisplayName), strings.ToLower(students[j].DisplayName)
		if ni == nj {
			return students[i].UserID < students[j].UserID
		}
		return ni < nj
	})
	return students, nil
}

func (repo *trainingRepository) QueryStudentByID(_ context.Context, userID string) (training.Student, error) {
	repo.profiles.mutex.RLock()
	defer repo.profiles.mutex.RUnlock()

	prof, ok := repo.profiles.table[userID]
	if !ok || prof.Role != identity.RoleStudent {
		return training.Student{}, training.ErrStudentNotFound
	}
	return training.Student{UserID: prof.UserID, DisplayName: prof.Name}, nil
}

func (repo *trainingRepository) QueryAssessments(_ context.Context, userID string) ([]training.Assessment, error) {
	repo.assessments.mutex.RLock()
	defer repo.assessments.mutex.RUnlock()

	history := make([]training.Assessment, 0)
	for _, a := range repo.assessments.table {
		if a.UserID == userID {
			history = append(history, *a)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		if history[i].Date.Equal(history[j].Date) {
			return history[i].CreatedAt.After(history[j].CreatedAt)
		}
		return history[i].Date.After(history[j].Date)
	})
	return history, nil
}

func (repo *trainingRepository) QueryWorkouts(_ context.Context, userID string, limit int) ([]training.WorkoutSet, error) {
	repo.workouts.mutex.RLock()
	defer repo.workouts.mutex.RUnlock()

	workouts := make([]training.WorkoutSet, 0)
	for _, w := range repo.workouts.table {
		if w.UserID == userID {
			workouts = append(workouts, *w)
		}
	}
	sort.SliceStable(workouts, func(i, j int) bool {
		if workouts[i].Date.Equal(workouts[j].Date) {
			return workouts[i].CreatedAt.After(workouts[j].CreatedAt)
		}
		return workouts[i].Date.After(workouts[j].Date)
	})
	if limit > 0 && len(workouts) > limit {
		workouts = workouts[:limit]
	}
	return workouts, nil
}

func (repo *trainingRepository) CreateAssessment(_ context.Context, a training.Assessment) (training.Assessment, error) {
	if a.UserID == "" {
		return training.Assessment{}, training.NewDataError(training.ConstraintViolation, "creating assessment", errMissingUserID)
	}

	repo.assessments.mutex.Lock()
	defer repo.assessments.mutex.Unlock()

	repo.assessments.table = append(repo.assessments.table, &a)
	return a, nil
}

func (repo *trainingRepository) CreateWorkout(_ context.Context, w training.WorkoutSet) (training.WorkoutSet, error) {
	if w.UserID == "" {
		return training.WorkoutSet{}, training.NewDataError(training.ConstraintViolation, "creating workout", errMissingUserID)
	}

	repo.workouts.mutex.Lock()
	defer repo.workouts.mutex.Unlock()

	repo.workouts.table = append(repo.workouts.table, &w)
	return w, nil
}
