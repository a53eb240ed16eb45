package services

import (
	"fmt"
	"strings"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

// Prompt is the provider-agnostic output of the builder.
type Prompt struct {
	System     string
	User       string
	SchemaHint string
}

// Equipment allowed for unequipped programs.
var homeEquipmentAllowList = []string{
	"bodyweight movements",
	"resistance bands",
	"light dumbbells",
	"a sturdy chair",
	"a wall",
}

// Equipment terms forbidden in unequipped programs. The structural validator
// enforces the same list on the provider's output; the prompt alone is never
// trusted.
var machineDenyList = []string{
	"leg press",
	"bench press machine",
	"cable machine",
	"smith machine",
	"barbell",
	"lat pulldown",
	"leg extension machine",
	"leg curl machine",
	"pec deck",
	"hack squat",
	"treadmill",
	"rowing machine",
	"elliptical",
}

const programSchemaHint = `Respond with a single JSON object and nothing else:
{
  "overview": {"name": string, "duration_weeks": number, "goals": [string]},
  "weeks": [
    {
      "week_number": number,
      "workouts": [
        {
          "day_number": number (1-7),
          "title": string,
          "focus": string,
          "exercises": [
            {
              "name": string,
              "sets": number,
              "reps": string,
              "rest_seconds": number,
              "muscle_groups": [string],
              "equipment": string,
              "instructions": string
            }
          ]
        }
      ]
    }
  ]
}`

// BuildPrompt assembles the system and user prompts for one generation
// request. It is pure and deterministic given its inputs.
func BuildPrompt(
	profile *models.UserProfile,
	prefs models.GenerationPreferences,
	healthWarnings []string,
) Prompt {
	var system strings.Builder
	system.WriteString("You are an experienced personal trainer designing a multi-week exercise program. ")
	system.WriteString("Programs must be safe, progressive, and tailored to the user. ")

	if prefs.Category == models.CategoryUnequipped {
		system.WriteString("This is a home program with NO gym access. ")
		system.WriteString("Only use: " + strings.Join(homeEquipmentAllowList, ", ") + ". ")
		system.WriteString("Never include any of the following: " + strings.Join(machineDenyList, ", ") + ". ")
	} else {
		system.WriteString("The user has full gym access. ")
		system.WriteString("Apply progressive overload week over week: increase load, volume, or density gradually. ")
	}

	for _, warning := range healthWarnings {
		system.WriteString("Safety constraint: " + warning + ". ")
	}

	var user strings.Builder
	user.WriteString("Create a personalized exercise program for this user:\n")
	if profile.Age != nil {
		fmt.Fprintf(&user, "Age: %d\n", *profile.Age)
	}
	if profile.Gender != nil {
		fmt.Fprintf(&user, "Gender: %s\n", *profile.Gender)
	}
	if profile.HeightCM != nil {
		fmt.Fprintf(&user, "Height: %.0f cm\n", *profile.HeightCM)
	}
	if profile.WeightKG != nil {
		fmt.Fprintf(&user, "Weight: %.0f kg\n", *profile.WeightKG)
	}
	if profile.ActivityLevel != nil {
		fmt.Fprintf(&user, "Activity level: %s\n", *profile.ActivityLevel)
	}
	fmt.Fprintf(&user, "Fitness level: %s\n", prefs.FitnessLevel)
	fmt.Fprintf(&user, "Primary goal: %s\n", prefs.Goal)
	fmt.Fprintf(&user, "Session length: %d minutes\n", prefs.SessionMinutes)
	user.WriteString("\n" + programSchemaHint)

	return Prompt{
		System:     system.String(),
		User:       user.String(),
		SchemaHint: programSchemaHint,
	}
}
