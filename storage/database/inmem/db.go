package inmemdb

import (
	"errors"
	"sync"

	"github.com/trezcool/personal/core/identity"
	"github.com/trezcool/personal/core/training"
)

type (
	// DB is a process-local store with the same semantics as the postgres repositories.
	DB struct {
		profiles    *profileTable
		assessments *assessmentTable
		workouts    *workoutTable
	}

	profileTable struct {
		table map[string]*identity.Profile
		mutex sync.RWMutex
	}

	assessmentTable struct {
		table []*training.Assessment
		mutex sync.RWMutex
	}

	workoutTable struct {
		table []*training.WorkoutSet
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		profiles:    &profileTable{table: make(map[string]*identity.Profile)},
		assessments: &assessmentTable{},
		workouts:    &workoutTable{},
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.profiles.mutex.Lock()
	db.profiles.table = make(map[string]*identity.Profile)
	db.profiles.mutex.Unlock()

	db.assessments.mutex.Lock()
	db.assessments.table = nil
	db.assessments.mutex.Unlock()

	db.workouts.mutex.Lock()
	db.workouts.table = nil
	db.workouts.mutex.Unlock()
}

var errMissingUserID = errors.New("user_id must not be empty")
