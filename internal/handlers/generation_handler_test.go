package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/services"
)

type stubGenerationService struct {
	summary   *models.ProgramSummary
	pErr      *services.PipelineError
	lastUser  int64
	lastPrefs models.GenerationPreferences
}

func (s *stubGenerationService) GenerateProgram(
	_ context.Context,
	userID int64,
	prefs models.GenerationPreferences,
) (*models.ProgramSummary, *services.PipelineError) {
	s.lastUser = userID
	s.lastPrefs = prefs
	return s.summary, s.pErr
}

func newGenerationTestApp(service *stubGenerationService, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user_id", userID)
			c.Locals("role", "user")
		}
		return c.Next()
	})
	handler := NewGenerationHandler(service)
	app.Post("/api/v1/programs/generate", handler.GenerateProgram)
	return app
}

func postGenerate(t *testing.T, app *fiber.App, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/programs/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func validRequestBody() map[string]any {
	return map[string]any{
		"category":        models.CategoryUnequipped,
		"fitness_level":   models.FitnessLevelBeginner,
		"goal":            "general_fitness",
		"session_minutes": 45,
		"period_start":    "2025-06-02",
	}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestGenerateProgramSuccess(t *testing.T) {
	service := &stubGenerationService{
		summary: &models.ProgramSummary{
			ProgramID:        5,
			Category:         models.CategoryUnequipped,
			PeriodStart:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			WorkoutsCreated:  2,
			ExercisesCreated: 12,
			CreditsRemaining: models.UnlimitedCredits,
			Message:          "Your program is ready.",
		},
	}
	app := newGenerationTestApp(service, "42")

	resp := postGenerate(t, app, validRequestBody())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	program, ok := body["program"].(map[string]any)
	if !ok {
		t.Fatalf("missing program object: %v", body)
	}
	if program["exercises_created"].(float64) != 12 {
		t.Errorf("unexpected exercises_created: %v", program["exercises_created"])
	}
	if service.lastUser != 42 {
		t.Errorf("expected user 42, got %d", service.lastUser)
	}
	if service.lastPrefs.SessionMinutes != 45 {
		t.Errorf("preferences not forwarded: %+v", service.lastPrefs)
	}
}

func TestGenerateProgramRequiresAuth(t *testing.T) {
	app := newGenerationTestApp(&stubGenerationService{}, "")
	resp := postGenerate(t, app, validRequestBody())
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestGenerateProgramRejectsBadPeriodStart(t *testing.T) {
	app := newGenerationTestApp(&stubGenerationService{}, "42")
	body := validRequestBody()
	body["period_start"] = "next monday"

	resp := postGenerate(t, app, body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	decoded := decodeBody(t, resp)
	if decoded["code"] != services.CodeValidationError {
		t.Errorf("expected %s, got %v", services.CodeValidationError, decoded["code"])
	}
}

func TestGenerateProgramMapsTaxonomyToHTTP(t *testing.T) {
	cases := []struct {
		code       string
		wantStatus int
	}{
		{services.CodeInsufficientCredits, http.StatusPaymentRequired},
		{services.CodeWorkoutTypeInvalid, http.StatusBadRequest},
		{services.CodeProviderOverloaded, http.StatusServiceUnavailable},
		{services.CodeAIGenerationFailed, http.StatusBadGateway},
		{services.CodeDatabaseError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			service := &stubGenerationService{pErr: services.NewPipelineError(tc.code, "internal detail")}
			app := newGenerationTestApp(service, "42")

			resp := postGenerate(t, app, validRequestBody())
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.StatusCode)
			}
			body := decodeBody(t, resp)
			if body["code"] != tc.code {
				t.Errorf("expected code %s, got %v", tc.code, body["code"])
			}
			if body["error"] == "internal detail" {
				t.Errorf("internal detail must not leak to the caller")
			}
		})
	}
}

func TestGenerateProgramLocalizedError(t *testing.T) {
	pErr := services.NewPipelineError(services.CodeInsufficientCredits, "credits exhausted")
	pErr.Locale = "es"
	service := &stubGenerationService{pErr: pErr}
	app := newGenerationTestApp(service, "42")

	resp := postGenerate(t, app, validRequestBody())
	body := decodeBody(t, resp)
	if body["error"] != services.LocalizedMessage(services.CodeInsufficientCredits, "es") {
		t.Errorf("expected Spanish message, got %v", body["error"])
	}
}

func TestGenerateProgramRateLimitIncludesReset(t *testing.T) {
	pErr := services.NewPipelineError(services.CodeRateLimitExceeded, "daily cap reached")
	pErr.ResetAt = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	service := &stubGenerationService{pErr: pErr}
	app := newGenerationTestApp(service, "42")

	resp := postGenerate(t, app, validRequestBody())
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if _, ok := body["reset_at"]; !ok {
		t.Errorf("rate-limit response must carry reset_at")
	}
}
