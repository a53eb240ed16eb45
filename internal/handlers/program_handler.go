package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

type programCatalog interface {
	GetByKey(ctx context.Context, userID int64, category string, periodStart time.Time) (*models.WeeklyProgram, error)
	ListWorkouts(ctx context.Context, programID int64) ([]models.DailyWorkout, error)
	ListExercises(ctx context.Context, workoutID int64) ([]models.Exercise, error)
}

type workoutDetailResponse struct {
	models.DailyWorkout
	Exercises []models.Exercise `json:"exercises"`
}

type ProgramHandler struct {
	programRepo programCatalog
}

func NewProgramHandler(programRepo programCatalog) *ProgramHandler {
	return &ProgramHandler{programRepo: programRepo}
}

// GetCurrentProgram returns the active program tree for the caller's
// (category, period_start) key.
func (h *ProgramHandler) GetCurrentProgram(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category is required"})
	}

	periodStart, err := time.Parse("2006-01-02", strings.TrimSpace(c.Query("period_start")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "period_start must be a date in YYYY-MM-DD format"})
	}

	program, err := h.programRepo.GetByKey(c.Context(), userID, category, periodStart)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No program for this period"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load program"})
	}

	workouts, err := h.programRepo.ListWorkouts(c.Context(), program.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load program"})
	}

	details := make([]workoutDetailResponse, 0, len(workouts))
	for _, workout := range workouts {
		exercises, err := h.programRepo.ListExercises(c.Context(), workout.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to load program"})
		}
		details = append(details, workoutDetailResponse{DailyWorkout: workout, Exercises: exercises})
	}

	return c.JSON(fiber.Map{
		"program":  program,
		"workouts": details,
	})
}
