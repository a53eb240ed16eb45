package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

const (
	minProgramExercises = 10
	maxNameLength       = 200
	maxRepsLength       = 50
	maxEquipmentLength  = 100
	maxInstructionsLen  = 500
	maxMuscleGroups     = 5
	minSets             = 1
	maxSets             = 10
	minRestSeconds      = 10
	maxRestSeconds      = 600
	maxDurationWeeks    = 12
)

// ParseProgram turns raw provider output into a validated, sanitized
// GeneratedProgram. The content is untrusted input: structure, ranges, and
// equipment safety are all enforced here regardless of what the prompt asked
// for.
func ParseProgram(rawContent, category string) (*models.GeneratedProgram, error) {
	payload := isolateJSONObject(stripCodeFences(rawContent))
	if payload == "" {
		return nil, NewPipelineError(CodeAIGenerationFailed, "no JSON object found in provider output")
	}

	var program models.GeneratedProgram
	if err := json.Unmarshal([]byte(payload), &program); err != nil {
		return nil, NewPipelineError(CodeAIGenerationFailed, "malformed provider JSON: "+err.Error())
	}

	if err := validateStructure(&program); err != nil {
		return nil, err
	}
	sanitizeProgram(&program)
	if category == models.CategoryUnequipped {
		if err := rejectDeniedEquipment(&program); err != nil {
			return nil, err
		}
	}

	if count := program.ExerciseCount(); count < minProgramExercises {
		return nil, NewPipelineError(
			CodeAIGenerationFailed,
			fmt.Sprintf("program too thin: %d exercises, need at least %d", count, minProgramExercises),
		)
	}

	return &program, nil
}

// stripCodeFences removes markdown fence lines such as ```json that
// providers frequently wrap JSON responses in.
func stripCodeFences(content string) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// isolateJSONObject returns the substring between the first '{' and the last
// '}', discarding any prose around the object.
func isolateJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

func validateStructure(program *models.GeneratedProgram) error {
	if strings.TrimSpace(program.Overview.Name) == "" {
		return NewPipelineError(CodeAIGenerationFailed, "overview.name is missing")
	}
	if len(program.Weeks) == 0 {
		return NewPipelineError(CodeAIGenerationFailed, "program has no weeks")
	}
	for weekIdx, week := range program.Weeks {
		if len(week.Workouts) == 0 {
			return NewPipelineError(
				CodeAIGenerationFailed,
				fmt.Sprintf("week %d has no workouts", weekIdx+1),
			)
		}
		for workoutIdx, workout := range week.Workouts {
			if workout.DayNumber < 1 || workout.DayNumber > 7 {
				return NewPipelineError(
					CodeAIGenerationFailed,
					fmt.Sprintf("week %d workout %d has day_number %d outside 1-7", weekIdx+1, workoutIdx+1, workout.DayNumber),
				)
			}
			if len(workout.Exercises) == 0 {
				return NewPipelineError(
					CodeAIGenerationFailed,
					fmt.Sprintf("week %d day %d has no exercises", weekIdx+1, workout.DayNumber),
				)
			}
			for _, exercise := range workout.Exercises {
				name := strings.TrimSpace(exercise.Name)
				if name == "" {
					return NewPipelineError(
						CodeAIGenerationFailed,
						fmt.Sprintf("week %d day %d has an unnamed exercise", weekIdx+1, workout.DayNumber),
					)
				}
				if utf8.RuneCountInString(name) > maxNameLength {
					return NewPipelineError(
						CodeAIGenerationFailed,
						fmt.Sprintf("exercise name exceeds %d characters", maxNameLength),
					)
				}
			}
		}
	}
	return nil
}

func sanitizeProgram(program *models.GeneratedProgram) {
	program.Overview.Name = capString(program.Overview.Name, maxNameLength)
	program.Overview.DurationWeeks = clampInt(program.Overview.DurationWeeks, 1, maxDurationWeeks)
	if len(program.Overview.Goals) > maxMuscleGroups {
		program.Overview.Goals = program.Overview.Goals[:maxMuscleGroups]
	}

	for weekIdx := range program.Weeks {
		week := &program.Weeks[weekIdx]
		if week.WeekNumber <= 0 {
			week.WeekNumber = weekIdx + 1
		}
		for workoutIdx := range week.Workouts {
			workout := &week.Workouts[workoutIdx]
			workout.Title = capString(workout.Title, maxNameLength)
			workout.Focus = capString(workout.Focus, maxNameLength)
			for exerciseIdx := range workout.Exercises {
				exercise := &workout.Exercises[exerciseIdx]
				exercise.Name = capString(exercise.Name, maxNameLength)
				exercise.Reps = capString(exercise.Reps, maxRepsLength)
				exercise.Equipment = capString(exercise.Equipment, maxEquipmentLength)
				exercise.Instructions = capString(exercise.Instructions, maxInstructionsLen)
				exercise.Sets = clampInt(exercise.Sets, minSets, maxSets)
				exercise.RestSeconds = clampInt(exercise.RestSeconds, minRestSeconds, maxRestSeconds)
				if len(exercise.MuscleGroups) > maxMuscleGroups {
					exercise.MuscleGroups = exercise.MuscleGroups[:maxMuscleGroups]
				}
				for i := range exercise.MuscleGroups {
					exercise.MuscleGroups[i] = capString(exercise.MuscleGroups[i], maxEquipmentLength)
				}
			}
		}
	}
}

// rejectDeniedEquipment fails the whole program if any exercise references a
// deny-listed machine or barbell term. Unequipped programs must reject, not
// strip, so the user never receives a silently emptied plan.
func rejectDeniedEquipment(program *models.GeneratedProgram) error {
	for _, week := range program.Weeks {
		for _, workout := range week.Workouts {
			for _, exercise := range workout.Exercises {
				if term := matchDeniedTerm(exercise.Name); term != "" {
					return NewPipelineError(
						CodeAIGenerationFailed,
						fmt.Sprintf("exercise %q uses forbidden equipment %q", exercise.Name, term),
					)
				}
				if term := matchDeniedTerm(exercise.Equipment); term != "" {
					return NewPipelineError(
						CodeAIGenerationFailed,
						fmt.Sprintf("exercise %q lists forbidden equipment %q", exercise.Name, term),
					)
				}
			}
		}
	}
	return nil
}

func matchDeniedTerm(value string) string {
	normalized := strings.ToLower(value)
	normalized = strings.ReplaceAll(normalized, "-", " ")
	normalized = strings.ReplaceAll(normalized, "_", " ")
	for _, term := range machineDenyList {
		if strings.Contains(normalized, term) {
			return term
		}
	}
	return ""
}

// capString trims and truncates to max runes, never cutting a multi-byte
// character in half.
func capString(value string, max int) string {
	trimmed := strings.TrimSpace(value)
	if utf8.RuneCountInString(trimmed) <= max {
		return trimmed
	}
	return string([]rune(trimmed)[:max])
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
