package services

import (
	"strings"
	"testing"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

func TestValidateGenerationRequestAcceptsValidInput(t *testing.T) {
	warnings, err := ValidateGenerationRequest(testProfile(), testPrefs())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings for a healthy profile, got %v", warnings)
	}
}

func TestValidateGenerationRequestRejections(t *testing.T) {
	age12 := 12
	age101 := 101
	empty := "  "

	cases := []struct {
		name     string
		mutate   func(profile *models.UserProfile, prefs *models.GenerationPreferences)
		wantCode string
	}{
		{
			name:     "nil profile is rejected",
			mutate:   func(profile *models.UserProfile, _ *models.GenerationPreferences) { profile.UserID = 0 },
			wantCode: CodeInvalidUserProfile,
		},
		{
			name:     "missing name",
			mutate:   func(profile *models.UserProfile, _ *models.GenerationPreferences) { profile.FullName = &empty },
			wantCode: CodeInvalidUserProfile,
		},
		{
			name:     "missing age",
			mutate:   func(profile *models.UserProfile, _ *models.GenerationPreferences) { profile.Age = nil },
			wantCode: CodeInvalidUserProfile,
		},
		{
			name:     "age below minimum",
			mutate:   func(profile *models.UserProfile, _ *models.GenerationPreferences) { profile.Age = &age12 },
			wantCode: CodeInvalidUserProfile,
		},
		{
			name:     "age above maximum",
			mutate:   func(profile *models.UserProfile, _ *models.GenerationPreferences) { profile.Age = &age101 },
			wantCode: CodeInvalidUserProfile,
		},
		{
			name:     "unknown category",
			mutate:   func(_ *models.UserProfile, prefs *models.GenerationPreferences) { prefs.Category = "crossfit" },
			wantCode: CodeWorkoutTypeInvalid,
		},
		{
			name:     "unknown fitness level",
			mutate:   func(_ *models.UserProfile, prefs *models.GenerationPreferences) { prefs.FitnessLevel = "elite" },
			wantCode: CodeValidationError,
		},
		{
			name:     "unknown goal",
			mutate:   func(_ *models.UserProfile, prefs *models.GenerationPreferences) { prefs.Goal = "get huge" },
			wantCode: CodeValidationError,
		},
		{
			name:     "session too short",
			mutate:   func(_ *models.UserProfile, prefs *models.GenerationPreferences) { prefs.SessionMinutes = 10 },
			wantCode: CodeValidationError,
		},
		{
			name:     "session too long",
			mutate:   func(_ *models.UserProfile, prefs *models.GenerationPreferences) { prefs.SessionMinutes = 240 },
			wantCode: CodeValidationError,
		},
		{
			name: "missing period start",
			mutate: func(_ *models.UserProfile, prefs *models.GenerationPreferences) {
				prefs.PeriodStart = time.Time{}
			},
			wantCode: CodeValidationError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := testProfile()
			prefs := testPrefs()
			tc.mutate(profile, &prefs)

			_, err := ValidateGenerationRequest(profile, prefs)
			assertPipelineCode(t, err, tc.wantCode)
		})
	}
}

func TestValidateGenerationRequestHealthWarnings(t *testing.T) {
	profile := testProfile()
	conditions := []string{"Hypertension", "heart_disease"}
	profile.HealthConditions = &conditions

	warnings, err := ValidateGenerationRequest(profile, testPrefs())
	if err != nil {
		t.Fatalf("health conditions must warn, not reject: %v", err)
	}
	if len(warnings) != 3 {
		t.Fatalf("expected pair warning plus two condition cautions, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "hypertension") || !strings.Contains(warnings[0], "heart_disease") {
		t.Errorf("pair warning missing: %v", warnings[0])
	}
}
