package handlers

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/services"
)

type programGenerationService interface {
	GenerateProgram(
		ctx context.Context,
		userID int64,
		prefs models.GenerationPreferences,
	) (*models.ProgramSummary, *services.PipelineError)
}

type generateProgramRequest struct {
	Category       string `json:"category"`
	FitnessLevel   string `json:"fitness_level"`
	Goal           string `json:"goal"`
	SessionMinutes int    `json:"session_minutes"`
	PeriodStart    string `json:"period_start"`
}

type GenerationHandler struct {
	service programGenerationService
}

func NewGenerationHandler(service programGenerationService) *GenerationHandler {
	return &GenerationHandler{service: service}
}

func (h *GenerationHandler) GenerateProgram(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req generateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":  services.CodeValidationError,
			"error": "invalid request body",
		})
	}

	periodStart, err := time.Parse("2006-01-02", strings.TrimSpace(req.PeriodStart))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":  services.CodeValidationError,
			"error": "period_start must be a date in YYYY-MM-DD format",
		})
	}

	summary, pErr := h.service.GenerateProgram(c.Context(), userID, models.GenerationPreferences{
		Category:       strings.TrimSpace(req.Category),
		FitnessLevel:   strings.TrimSpace(req.FitnessLevel),
		Goal:           strings.TrimSpace(req.Goal),
		SessionMinutes: req.SessionMinutes,
		PeriodStart:    periodStart,
	})
	if pErr != nil {
		return writeGenerationError(c, pErr)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"program": summary})
}

// writeGenerationError maps a classified pipeline error onto its HTTP status
// and localized message. Internal detail goes to the server log only.
func writeGenerationError(c *fiber.Ctx, pErr *services.PipelineError) error {
	log.Printf("program generation failed: %v", pErr)

	body := fiber.Map{
		"code":  pErr.Code,
		"error": services.LocalizedMessage(pErr.Code, pErr.Locale),
	}
	if !pErr.ResetAt.IsZero() {
		body["reset_at"] = pErr.ResetAt
	}
	return c.Status(services.HTTPStatus(pErr.Code)).JSON(body)
}

func parseAuthUserID(c *fiber.Ctx) (int64, error) {
	userIDValue := c.Locals("user_id")
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}
