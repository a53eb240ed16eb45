package services

import (
	"fmt"
	"strings"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

const (
	minAge            = 13
	maxAge            = 100
	minSessionMinutes = 15
	maxSessionMinutes = 180
)

var allowedCategories = map[string]struct{}{
	models.CategoryUnequipped: {},
	models.CategoryEquipped:   {},
}

var allowedFitnessLevels = map[string]struct{}{
	models.FitnessLevelBeginner:     {},
	models.FitnessLevelIntermediate: {},
	models.FitnessLevelAdvanced:     {},
}

var allowedGoals = map[string]struct{}{
	"weight_loss":     {},
	"muscle_gain":     {},
	"strength":        {},
	"endurance":       {},
	"flexibility":     {},
	"general_fitness": {},
}

// Health-condition pairs that require extra caution in the generated
// program. Matches produce prompt constraints, never rejections.
var riskyConditionPairs = [][2]string{
	{"hypertension", "heart_disease"},
	{"diabetes", "heart_disease"},
	{"asthma", "heart_disease"},
}

// Ordered so the resulting warnings, and therefore the built prompt, are
// deterministic for a given profile.
var cautionConditions = []struct {
	condition string
	caution   string
}{
	{"hypertension", "avoid breath-holding and heavy isometric holds"},
	{"heart_disease", "keep intensity moderate and include extended warm-ups"},
	{"diabetes", "include steady-state work and avoid long fasted sessions"},
	{"asthma", "allow longer rest periods and gradual intensity ramps"},
	{"back_pain", "avoid heavy spinal loading and high-impact movements"},
	{"knee_injury", "avoid deep knee flexion under load and jumping movements"},
}

// ValidateGenerationRequest checks the profile and preferences before any
// paid work happens. It has no side effects. The returned warnings describe
// health constraints to thread into the prompt.
func ValidateGenerationRequest(
	profile *models.UserProfile,
	prefs models.GenerationPreferences,
) ([]string, error) {
	if profile == nil || profile.UserID <= 0 {
		return nil, NewPipelineError(CodeInvalidUserProfile, "profile is missing")
	}
	if profile.FullName == nil || strings.TrimSpace(*profile.FullName) == "" {
		return nil, NewPipelineError(CodeInvalidUserProfile, "full_name is required")
	}
	if profile.Age == nil {
		return nil, NewPipelineError(CodeInvalidUserProfile, "age is required")
	}
	if *profile.Age < minAge || *profile.Age > maxAge {
		return nil, NewPipelineError(
			CodeInvalidUserProfile,
			fmt.Sprintf("age must be between %d and %d", minAge, maxAge),
		)
	}

	if _, ok := allowedCategories[prefs.Category]; !ok {
		return nil, NewPipelineError(
			CodeWorkoutTypeInvalid,
			fmt.Sprintf("unknown category %q", prefs.Category),
		)
	}
	if _, ok := allowedFitnessLevels[prefs.FitnessLevel]; !ok {
		return nil, NewPipelineError(
			CodeValidationError,
			fmt.Sprintf("unknown fitness level %q", prefs.FitnessLevel),
		)
	}
	if _, ok := allowedGoals[prefs.Goal]; !ok {
		return nil, NewPipelineError(
			CodeValidationError,
			fmt.Sprintf("unknown goal %q", prefs.Goal),
		)
	}
	if prefs.SessionMinutes < minSessionMinutes || prefs.SessionMinutes > maxSessionMinutes {
		return nil, NewPipelineError(
			CodeValidationError,
			fmt.Sprintf("session_minutes must be between %d and %d", minSessionMinutes, maxSessionMinutes),
		)
	}
	if prefs.PeriodStart.IsZero() {
		return nil, NewPipelineError(CodeValidationError, "period_start is required")
	}

	return healthWarnings(profile), nil
}

func healthWarnings(profile *models.UserProfile) []string {
	if profile.HealthConditions == nil {
		return nil
	}

	present := make(map[string]struct{}, len(*profile.HealthConditions))
	for _, condition := range *profile.HealthConditions {
		key := strings.ToLower(strings.TrimSpace(condition))
		if key != "" {
			present[key] = struct{}{}
		}
	}

	var warnings []string
	for _, pair := range riskyConditionPairs {
		if _, first := present[pair[0]]; !first {
			continue
		}
		if _, second := present[pair[1]]; !second {
			continue
		}
		warnings = append(warnings, fmt.Sprintf(
			"user reports both %s and %s; prioritize low-intensity progressions and medical-clearance level caution",
			pair[0], pair[1],
		))
	}
	for _, entry := range cautionConditions {
		if _, ok := present[entry.condition]; ok {
			warnings = append(warnings, fmt.Sprintf("user reports %s: %s", entry.condition, entry.caution))
		}
	}
	return warnings
}
