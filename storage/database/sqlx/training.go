package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/training"
)

type (
	trainingRepository struct {
		db core.DBExecutor
	}

	studentRow struct {
		UserID string `db:"user_id"`
		Nome   string `db:"nome"`
	}

	assessmentRow struct {
		UserID               string       `db:"user_id"`
		Data                 time.Time    `db:"data"`
		Peso                 null.Float64 `db:"peso"`
		Altura               null.Float64 `db:"altura"`
		PercentualGordura    null.Float64 `db:"percentual_gordura"`
		PercentualMassaMagra null.Float64 `db:"percentual_massa_magra"`
		CreatedAt            time.Time    `db:"created_at"`
	}

	workoutRow struct {
		UserID        string    `db:"user_id"`
		Data          time.Time `db:"data"`
		GrupoMuscular string    `db:"grupo_muscular"`
		Exercicio     string    `db:"exercicio"`
		Series        int       `db:"series"`
		Repeticoes    int       `db:"repeticoes"`
		CargaKg       float64   `db:"carga_kg"`
		Observacoes   string    `db:"observacoes"`
		CreatedAt     time.Time `db:"created_at"`
	}
)

func NewTrainingRepository(db core.DBExecutor) training.Repository {
	return &trainingRepository{db: db}
}

// dateOnly drops the clock and zone the driver attaches to DATE columns.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r assessmentRow) toAssessment() training.Assessment {
	return training.Assessment{
		UserID:      r.UserID,
		Date:        dateOnly(r.Data),
		WeightKg:    r.Peso.Ptr(),
		HeightM:     r.Altura.Ptr(),
		BodyFatPct:  r.PercentualGordura.Ptr(),
		LeanMassPct: r.PercentualMassaMagra.Ptr(),
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

func newAssessmentRow(a training.Assessment) assessmentRow {
	return assessmentRow{
		UserID:               a.UserID,
		Data:                 dateOnly(a.Date),
		Peso:                 null.Float64FromPtr(a.WeightKg),
		Altura:               null.Float64FromPtr(a.HeightM),
		PercentualGordura:    null.Float64FromPtr(a.BodyFatPct),
		PercentualMassaMagra: null.Float64FromPtr(a.LeanMassPct),
		CreatedAt:            a.CreatedAt.UTC(),
	}
}

func (r workoutRow) toWorkout() training.WorkoutSet {
	return training.WorkoutSet{
		UserID:       r.UserID,
		Date:         dateOnly(r.Data),
		MuscleGroup:  r.GrupoMuscular,
		ExerciseName: r.Exercicio,
		Sets:         r.Series,
		Reps:         r.Repeticoes,
		LoadKg:       r.CargaKg,
		Notes:        r.Observacoes,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

func newWorkoutRow(w training.WorkoutSet) workoutRow {
	return workoutRow{
		UserID:        w.UserID,
		Data:          dateOnly(w.Date),
		GrupoMuscular: w.MuscleGroup,
		Exercicio:     w.ExerciseName,
		Series:        w.Sets,
		Repeticoes:    w.Reps,
		CargaKg:       w.LoadKg,
		Observacoes:   w.Notes,
		CreatedAt:     w.CreatedAt.UTC(),
	}
}

func (repo *trainingRepository) QueryStudents(ctx context.Context) ([]training.Student, error) {
	var rows []studentRow
	q := `SELECT user_id, nome FROM profiles WHERE role = 'student' ORDER BY lower(nome), user_id`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, trapErr("querying students", err)
	}

	students := make([]training.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, training.Student{UserID: r.UserID, DisplayName: r.Nome})
	}
	return students, nil
}

func (repo *trainingRepository) QueryStudentByID(ctx context.Context, userID string) (training.Student, error) {
	var row studentRow
	q := `SELECT user_id, nome FROM profiles WHERE user_id = $1 AND role = 'student'`
	if err := repo.db.GetContext(ctx, &row, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return training.Student{}, training.ErrStudentNotFound
		}
		return training.Student{}, trapErr("querying student", err)
	}
	return training.Student{UserID: row.UserID, DisplayName: row.Nome}, nil
}

func (repo *trainingRepository) QueryAssessments(ctx context.Context, userID string) ([]training.Assessment, error) {
	var rows []assessmentRow
	q := `SELECT user_id, data, peso, altura, percentual_gordura, percentual_massa_magra, created_at
		FROM avaliacoes WHERE user_id = $1 ORDER BY data DESC, created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, trapErr("querying assessments", err)
	}

	history := make([]training.Assessment, 0, len(rows))
	for _, r := range rows {
		history = append(history, r.toAssessment())
	}
	return history, nil
}

func (repo *trainingRepository) QueryWorkouts(ctx context.Context, userID string, limit int) ([]training.WorkoutSet, error) {
	var rows []workoutRow
	q := `SELECT user_id, data, grupo_muscular, exercicio, series, repeticoes, carga_kg, observacoes, created_at
		FROM treinos WHERE user_id = $1 ORDER BY data DESC, created_at DESC LIMIT $2`
	if err := repo.db.SelectContext(ctx, &rows, q, userID, limit); err != nil {
		return nil, trapErr("querying workouts", err)
	}

	workouts := make([]training.WorkoutSet, 0, len(rows))
	for _, r := range rows {
		workouts = append(workouts, r.toWorkout())
	}
	return workouts, nil
}

func (repo *trainingRepository) CreateAssessment(ctx context.Context, a training.Assessment) (training.Assessment, error) {
	row := newAssessmentRow(a)
	q := `INSERT INTO avaliacoes (user_id, data, peso, altura, percentual_gordura, percentual_massa_magra, created_at)
		VALUES (:user_id, :data, :peso, :altura, :percentual_gordura, :percentual_massa_magra, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return training.Assessment{}, trapErr("creating assessment", err)
	}
	return row.toAssessment(), nil
}

func (repo *trainingRepository) CreateWorkout(ctx context.Context, w training.WorkoutSet) (training.WorkoutSet, error) {
	row := newWorkoutRow(w)
	q := `INSERT INTO treinos (user_id, data, grupo_muscular, exercicio, series, repeticoes, carga_kg, observacoes, created_at)
		VALUES (:user_id, :data, :grupo_muscular, :exercicio, :series, :repeticoes, :carga_kg, :observacoes, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return training.WorkoutSet{}, trapErr("creating workout", err)
	}
	return row.toWorkout(), nil
}
