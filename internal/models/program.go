package models

import "time"

// GeneratedProgram is the in-memory shape of a validated provider response.
// It exists only for the duration of one generation request; the persisted
// form is the WeeklyProgram/DailyWorkout/Exercise record triple.
type GeneratedProgram struct {
	Overview ProgramOverview `json:"overview"`
	Weeks    []ProgramWeek   `json:"weeks"`
}

type ProgramOverview struct {
	Name          string   `json:"name"`
	DurationWeeks int      `json:"duration_weeks"`
	Goals         []string `json:"goals"`
}

type ProgramWeek struct {
	WeekNumber int              `json:"week_number"`
	Workouts   []ProgramWorkout `json:"workouts"`
}

type ProgramWorkout struct {
	DayNumber int               `json:"day_number"`
	Title     string            `json:"title"`
	Focus     string            `json:"focus"`
	Exercises []ProgramExercise `json:"exercises"`
}

type ProgramExercise struct {
	Name         string   `json:"name"`
	Sets         int      `json:"sets"`
	Reps         string   `json:"reps"`
	RestSeconds  int      `json:"rest_seconds"`
	MuscleGroups []string `json:"muscle_groups"`
	Equipment    string   `json:"equipment"`
	Instructions string   `json:"instructions"`
}

// ExerciseCount is the total number of exercises across all weeks and
// workouts of the program.
func (p *GeneratedProgram) ExerciseCount() int {
	count := 0
	for _, week := range p.Weeks {
		for _, workout := range week.Workouts {
			count += len(workout.Exercises)
		}
	}
	return count
}

type WeeklyProgram struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Category      string    `json:"category"`
	FitnessLevel  string    `json:"fitness_level"`
	PeriodStart   time.Time `json:"period_start"`
	Name          string    `json:"name"`
	DurationWeeks int       `json:"duration_weeks"`
	Goals         []string  `json:"goals"`
	CreatedAt     time.Time `json:"created_at"`
}

type DailyWorkout struct {
	ID          int64  `json:"id"`
	ProgramID   int64  `json:"program_id"`
	WeekNumber  int    `json:"week_number"`
	DayNumber   int    `json:"day_number"`
	Title       string `json:"title"`
	Focus       string `json:"focus"`
	OrderNumber int    `json:"order_number"`
}

type Exercise struct {
	ID           int64    `json:"id"`
	WorkoutID    int64    `json:"workout_id"`
	Name         string   `json:"name"`
	Sets         int      `json:"sets"`
	Reps         string   `json:"reps"`
	RestSeconds  int      `json:"rest_seconds"`
	MuscleGroups []string `json:"muscle_groups"`
	Equipment    string   `json:"equipment"`
	Instructions string   `json:"instructions"`
	OrderNumber  int      `json:"order_number"`
}

// ProgramSummary is the success payload returned to the caller after a
// program has been persisted.
type ProgramSummary struct {
	ProgramID        int64     `json:"program_id"`
	Category         string    `json:"category"`
	PeriodStart      time.Time `json:"period_start"`
	WorkoutsCreated  int       `json:"workouts_created"`
	ExercisesCreated int       `json:"exercises_created"`
	CreditsRemaining int       `json:"credits_remaining"`
	Message          string    `json:"message"`
}
