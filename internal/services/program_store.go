package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/repository"
)

// ReplaceResult reports what Replace persisted.
type ReplaceResult struct {
	ProgramID        int64
	WorkoutsCreated  int
	ExercisesCreated int
}

// ProgramStore persists a validated program with replace semantics: the
// entire prior record tree for (user, category, period start) is deleted,
// children first, before the new tree is inserted. The whole sequence runs
// in one transaction so a reader never observes zero or duplicate programs
// for the key mid-replace.
type ProgramStore struct {
	db *pgxpool.Pool
}

func NewProgramStore(db *pgxpool.Pool) *ProgramStore {
	return &ProgramStore{db: db}
}

func (s *ProgramStore) Replace(
	ctx context.Context,
	userID int64,
	prefs models.GenerationPreferences,
	program *models.GeneratedProgram,
) (*ReplaceResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, NewPipelineError(CodeDatabaseError, "begin replace tx: "+err.Error())
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txRepo := repository.NewWeeklyProgramRepository(tx)

	if err := txRepo.DeleteByKey(ctx, userID, prefs.Category, prefs.PeriodStart); err != nil {
		return nil, NewPipelineError(CodeDatabaseError, "delete existing program: "+err.Error())
	}

	record, err := txRepo.Create(ctx, repository.CreateWeeklyProgramInput{
		UserID:        userID,
		Category:      prefs.Category,
		FitnessLevel:  prefs.FitnessLevel,
		PeriodStart:   prefs.PeriodStart,
		Name:          program.Overview.Name,
		DurationWeeks: program.Overview.DurationWeeks,
		Goals:         program.Overview.Goals,
	})
	if err != nil {
		return nil, NewPipelineError(CodeDatabaseError, "insert program: "+err.Error())
	}

	result := &ReplaceResult{ProgramID: record.ID}
	workoutOrder := 0
	for _, week := range program.Weeks {
		for _, workout := range week.Workouts {
			workoutOrder++
			workoutID, err := txRepo.CreateWorkout(ctx, models.DailyWorkout{
				ProgramID:   record.ID,
				WeekNumber:  week.WeekNumber,
				DayNumber:   workout.DayNumber,
				Title:       workout.Title,
				Focus:       workout.Focus,
				OrderNumber: workoutOrder,
			})
			if err != nil {
				return nil, NewPipelineError(CodeDatabaseError, "insert workout: "+err.Error())
			}
			result.WorkoutsCreated++

			exercises := make([]models.Exercise, 0, len(workout.Exercises))
			for exerciseIdx, exercise := range workout.Exercises {
				exercises = append(exercises, models.Exercise{
					WorkoutID:    workoutID,
					Name:         exercise.Name,
					Sets:         exercise.Sets,
					Reps:         exercise.Reps,
					RestSeconds:  exercise.RestSeconds,
					MuscleGroups: exercise.MuscleGroups,
					Equipment:    exercise.Equipment,
					Instructions: exercise.Instructions,
					OrderNumber:  exerciseIdx + 1,
				})
			}
			if err := txRepo.CreateExercises(ctx, exercises); err != nil {
				return nil, NewPipelineError(CodeDatabaseError, "insert exercises: "+err.Error())
			}
			result.ExercisesCreated += len(exercises)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, NewPipelineError(CodeDatabaseError, "commit replace tx: "+err.Error())
	}
	return result, nil
}
