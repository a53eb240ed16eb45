package services

import (
	"context"
	"sort"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

const (
	reuseWindowDays      = 30
	minReusableExercises = 15
)

type reusableProgramSource interface {
	FindLatest(ctx context.Context, userID int64, category, fitnessLevel string, createdAfter time.Time) (*models.WeeklyProgram, error)
	CountExercises(ctx context.Context, programID int64) (int, error)
	ListWorkouts(ctx context.Context, programID int64) ([]models.DailyWorkout, error)
	ListExercises(ctx context.Context, workoutID int64) ([]models.Exercise, error)
}

// ProgramReuseService avoids a provider call when a sufficiently complete
// recent program already exists for the same (user, category, level). It is
// purely an optimization: a miss or failure only costs a generation.
type ProgramReuseService struct {
	programRepo reusableProgramSource
	now         func() time.Time
}

func NewProgramReuseService(programRepo reusableProgramSource) *ProgramReuseService {
	return &ProgramReuseService{programRepo: programRepo, now: time.Now}
}

// FindReusable returns the most recent qualifying program rebuilt as an
// in-memory GeneratedProgram, or nil when nothing qualifies.
func (s *ProgramReuseService) FindReusable(
	ctx context.Context,
	userID int64,
	category string,
	fitnessLevel string,
) (*models.GeneratedProgram, error) {
	windowStart := s.now().AddDate(0, 0, -reuseWindowDays)
	record, err := s.programRepo.FindLatest(ctx, userID, category, fitnessLevel, windowStart)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	count, err := s.programRepo.CountExercises(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if count < minReusableExercises {
		return nil, nil
	}

	return s.loadProgramTree(ctx, record)
}

func (s *ProgramReuseService) loadProgramTree(
	ctx context.Context,
	record *models.WeeklyProgram,
) (*models.GeneratedProgram, error) {
	workouts, err := s.programRepo.ListWorkouts(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	weekWorkouts := make(map[int][]models.ProgramWorkout)
	for _, workout := range workouts {
		exercises, err := s.programRepo.ListExercises(ctx, workout.ID)
		if err != nil {
			return nil, err
		}
		programExercises := make([]models.ProgramExercise, 0, len(exercises))
		for _, exercise := range exercises {
			programExercises = append(programExercises, models.ProgramExercise{
				Name:         exercise.Name,
				Sets:         exercise.Sets,
				Reps:         exercise.Reps,
				RestSeconds:  exercise.RestSeconds,
				MuscleGroups: exercise.MuscleGroups,
				Equipment:    exercise.Equipment,
				Instructions: exercise.Instructions,
			})
		}
		weekWorkouts[workout.WeekNumber] = append(weekWorkouts[workout.WeekNumber], models.ProgramWorkout{
			DayNumber: workout.DayNumber,
			Title:     workout.Title,
			Focus:     workout.Focus,
			Exercises: programExercises,
		})
	}

	weekNumbers := make([]int, 0, len(weekWorkouts))
	for weekNumber := range weekWorkouts {
		weekNumbers = append(weekNumbers, weekNumber)
	}
	sort.Ints(weekNumbers)

	weeks := make([]models.ProgramWeek, 0, len(weekNumbers))
	for _, weekNumber := range weekNumbers {
		weeks = append(weeks, models.ProgramWeek{
			WeekNumber: weekNumber,
			Workouts:   weekWorkouts[weekNumber],
		})
	}

	return &models.GeneratedProgram{
		Overview: models.ProgramOverview{
			Name:          record.Name,
			DurationWeeks: record.DurationWeeks,
			Goals:         record.Goals,
		},
		Weeks: weeks,
	}, nil
}
