package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

type CreateWeeklyProgramInput struct {
	UserID        int64
	Category      string
	FitnessLevel  string
	PeriodStart   time.Time
	Name          string
	DurationWeeks int
	Goals         []string
}

type WeeklyProgramRepository struct {
	db DBTX
}

func NewWeeklyProgramRepository(db DBTX) *WeeklyProgramRepository {
	return &WeeklyProgramRepository{db: db}
}

func (r *WeeklyProgramRepository) Create(
	ctx context.Context,
	input CreateWeeklyProgramInput,
) (*models.WeeklyProgram, error) {
	query := `
		INSERT INTO weekly_programs (user_id, category, fitness_level, period_start, name, duration_weeks, goals)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, category, fitness_level, period_start, name, duration_weeks, goals, created_at
	`
	var program models.WeeklyProgram
	err := r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.Category,
		input.FitnessLevel,
		input.PeriodStart,
		input.Name,
		input.DurationWeeks,
		input.Goals,
	).Scan(
		&program.ID,
		&program.UserID,
		&program.Category,
		&program.FitnessLevel,
		&program.PeriodStart,
		&program.Name,
		&program.DurationWeeks,
		&program.Goals,
		&program.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &program, nil
}

// FindLatest returns the most recent program for (user, category, fitness
// level) created at or after the given instant, or nil when none exists.
func (r *WeeklyProgramRepository) FindLatest(
	ctx context.Context,
	userID int64,
	category string,
	fitnessLevel string,
	createdAfter time.Time,
) (*models.WeeklyProgram, error) {
	query := `
		SELECT id, user_id, category, fitness_level, period_start, name, duration_weeks, goals, created_at
		FROM weekly_programs
		WHERE user_id = $1 AND category = $2 AND fitness_level = $3 AND created_at >= $4
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var program models.WeeklyProgram
	err := r.db.QueryRow(ctx, query, userID, category, fitnessLevel, createdAfter).Scan(
		&program.ID,
		&program.UserID,
		&program.Category,
		&program.FitnessLevel,
		&program.PeriodStart,
		&program.Name,
		&program.DurationWeeks,
		&program.Goals,
		&program.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &program, nil
}

func (r *WeeklyProgramRepository) GetByKey(
	ctx context.Context,
	userID int64,
	category string,
	periodStart time.Time,
) (*models.WeeklyProgram, error) {
	query := `
		SELECT id, user_id, category, fitness_level, period_start, name, duration_weeks, goals, created_at
		FROM weekly_programs
		WHERE user_id = $1 AND category = $2 AND period_start = $3
		ORDER BY id DESC
		LIMIT 1
	`
	var program models.WeeklyProgram
	err := r.db.QueryRow(ctx, query, userID, category, periodStart).Scan(
		&program.ID,
		&program.UserID,
		&program.Category,
		&program.FitnessLevel,
		&program.PeriodStart,
		&program.Name,
		&program.DurationWeeks,
		&program.Goals,
		&program.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *WeeklyProgramRepository) CountExercises(ctx context.Context, programID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM exercises e
		JOIN daily_workouts w ON w.id = e.workout_id
		WHERE w.program_id = $1
	`
	var count int
	if err := r.db.QueryRow(ctx, query, programID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *WeeklyProgramRepository) ListWorkouts(ctx context.Context, programID int64) ([]models.DailyWorkout, error) {
	query := `
		SELECT id, program_id, week_number, day_number, title, focus, order_number
		FROM daily_workouts
		WHERE program_id = $1
		ORDER BY order_number ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]models.DailyWorkout, 0)
	for rows.Next() {
		var workout models.DailyWorkout
		if err := rows.Scan(
			&workout.ID,
			&workout.ProgramID,
			&workout.WeekNumber,
			&workout.DayNumber,
			&workout.Title,
			&workout.Focus,
			&workout.OrderNumber,
		); err != nil {
			return nil, err
		}
		workouts = append(workouts, workout)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *WeeklyProgramRepository) ListExercises(ctx context.Context, workoutID int64) ([]models.Exercise, error) {
	query := `
		SELECT id, workout_id, name, sets, reps, rest_seconds, muscle_groups, equipment, instructions, order_number
		FROM exercises
		WHERE workout_id = $1
		ORDER BY order_number ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]models.Exercise, 0)
	for rows.Next() {
		var exercise models.Exercise
		if err := rows.Scan(
			&exercise.ID,
			&exercise.WorkoutID,
			&exercise.Name,
			&exercise.Sets,
			&exercise.Reps,
			&exercise.RestSeconds,
			&exercise.MuscleGroups,
			&exercise.Equipment,
			&exercise.Instructions,
			&exercise.OrderNumber,
		); err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

// DeleteByKey removes every program row for (user, category, periodStart)
// together with its workouts and exercises, children first.
func (r *WeeklyProgramRepository) DeleteByKey(
	ctx context.Context,
	userID int64,
	category string,
	periodStart time.Time,
) error {
	deleteExercises := `
		DELETE FROM exercises
		WHERE workout_id IN (
			SELECT w.id FROM daily_workouts w
			JOIN weekly_programs p ON p.id = w.program_id
			WHERE p.user_id = $1 AND p.category = $2 AND p.period_start = $3
		)
	`
	if _, err := r.db.Exec(ctx, deleteExercises, userID, category, periodStart); err != nil {
		return err
	}

	deleteWorkouts := `
		DELETE FROM daily_workouts
		WHERE program_id IN (
			SELECT id FROM weekly_programs
			WHERE user_id = $1 AND category = $2 AND period_start = $3
		)
	`
	if _, err := r.db.Exec(ctx, deleteWorkouts, userID, category, periodStart); err != nil {
		return err
	}

	deletePrograms := `
		DELETE FROM weekly_programs
		WHERE user_id = $1 AND category = $2 AND period_start = $3
	`
	_, err := r.db.Exec(ctx, deletePrograms, userID, category, periodStart)
	return err
}

func (r *WeeklyProgramRepository) CreateWorkout(
	ctx context.Context,
	workout models.DailyWorkout,
) (int64, error) {
	query := `
		INSERT INTO daily_workouts (program_id, week_number, day_number, title, focus, order_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var workoutID int64
	err := r.db.QueryRow(
		ctx,
		query,
		workout.ProgramID,
		workout.WeekNumber,
		workout.DayNumber,
		workout.Title,
		workout.Focus,
		workout.OrderNumber,
	).Scan(&workoutID)
	if err != nil {
		return 0, err
	}
	return workoutID, nil
}

// CreateExercises batch-inserts the exercises of one workout in a single
// round trip, preserving the given order numbers.
func (r *WeeklyProgramRepository) CreateExercises(
	ctx context.Context,
	exercises []models.Exercise,
) error {
	if len(exercises) == 0 {
		return nil
	}

	query := `
		INSERT INTO exercises (workout_id, name, sets, reps, rest_seconds, muscle_groups, equipment, instructions, order_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	batch := &pgx.Batch{}
	for _, exercise := range exercises {
		batch.Queue(
			query,
			exercise.WorkoutID,
			exercise.Name,
			exercise.Sets,
			exercise.Reps,
			exercise.RestSeconds,
			exercise.MuscleGroups,
			exercise.Equipment,
			exercise.Instructions,
			exercise.OrderNumber,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range exercises {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}
