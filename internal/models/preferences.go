package models

import "time"

// Program categories. "unequipped" programs are restricted to bodyweight and
// light household equipment; "equipped" programs assume full gym access.
const (
	CategoryUnequipped = "unequipped"
	CategoryEquipped   = "equipped"
)

const (
	FitnessLevelBeginner     = "beginner"
	FitnessLevelIntermediate = "intermediate"
	FitnessLevelAdvanced     = "advanced"
)

// GenerationPreferences is the immutable per-request input describing the
// program the user wants generated.
type GenerationPreferences struct {
	Category       string    `json:"category"`
	FitnessLevel   string    `json:"fitness_level"`
	Goal           string    `json:"goal"`
	SessionMinutes int       `json:"session_minutes"`
	PeriodStart    time.Time `json:"period_start"`
}
