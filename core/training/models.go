package training

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/personal/core"
)

const dateLayout = "2006-01-02"

// workout form defaults
const (
	DefaultSets = 3
	DefaultReps = 10
)

// MuscleGroups are the groups a WorkoutSet can target.
var MuscleGroups = []string{"Peito", "Costas", "Pernas", "Ombros", "Bíceps", "Tríceps", "Abdômen", "Cardio"}

type Student struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Assessment is one body-composition measurement. Metrics are nil when not measured.
type Assessment struct {
	UserID      string    `json:"user_id"`
	Date        time.Time `json:"date"`
	WeightKg    *float64  `json:"weight_kg"`
	HeightM     *float64  `json:"height_m"`
	BodyFatPct  *float64  `json:"body_fat_pct"`
	LeanMassPct *float64  `json:"lean_mass_pct"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// WorkoutSet is one logged exercise entry.
type WorkoutSet struct {
	UserID       string    `json:"user_id"`
	Date         time.Time `json:"date"`
	MuscleGroup  string    `json:"muscle_group"`
	ExerciseName string    `json:"exercise_name"`
	Sets         int       `json:"sets"`
	Reps         int       `json:"reps"`
	LoadKg       float64   `json:"load_kg"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// NewAssessment contains information needed to record an Assessment.
type NewAssessment struct {
	Date        string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	WeightKg    *float64 `json:"weight_kg" validate:"omitempty,gte=0,lte=500"`
	HeightM     *float64 `json:"height_m" validate:"omitempty,gte=0,lte=3"`
	BodyFatPct  *float64 `json:"body_fat_pct" validate:"omitempty,gte=0,lte=100"`
	LeanMassPct *float64 `json:"lean_mass_pct" validate:"omitempty,gte=0,lte=100"`
}

func (na *NewAssessment) Validate(validate *validator.Validate) error {
	na.Date = core.CleanString(na.Date)
	return validate.Struct(na)
}

// NewWorkout contains information needed to log a WorkoutSet.
// Sets and Reps are nil when omitted; an explicit zero is rejected.
type NewWorkout struct {
	Date         string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	MuscleGroup  string  `json:"muscle_group" validate:"required,musclegroup"`
	ExerciseName string  `json:"exercise_name" validate:"required,notblank,max=120"`
	Sets         *int    `json:"sets" validate:"min=1,max=10"`
	Reps         *int    `json:"reps" validate:"min=1,max=50"`
	LoadKg       float64 `json:"load_kg" validate:"gte=0,lte=500"`
	Notes        string  `json:"notes" validate:"max=1000"`
}

func (nw *NewWorkout) Validate(validate *validator.Validate) error {
	nw.Date = core.CleanString(nw.Date)
	nw.MuscleGroup = canonicalMuscleGroup(core.CleanString(nw.MuscleGroup))
	nw.ExerciseName = core.CleanString(nw.ExerciseName)
	nw.Notes = core.CleanString(nw.Notes)
	if nw.Sets == nil {
		sets := DefaultSets
		nw.Sets = &sets
	}
	if nw.Reps == nil {
		reps := DefaultReps
		nw.Reps = &reps
	}
	return validate.Struct(nw)
}

func canonicalMuscleGroup(group string) string {
	for _, g := range MuscleGroups {
		if strings.EqualFold(g, group) {
			return g
		}
	}
	return group
}

// parseDate reads a YYYY-MM-DD date; an empty string means today.
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, s)
}
