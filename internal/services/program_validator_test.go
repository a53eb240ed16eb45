package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

func TestParseProgramStripsCodeFencesAndProse(t *testing.T) {
	raw := "Here is your program:\n```json\n" + providerProgramJSON(12) + "\n```\nEnjoy!"
	program, err := ParseProgram(raw, models.CategoryUnequipped)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if program.Overview.Name != "Home Reset" {
		t.Errorf("unexpected overview name %q", program.Overview.Name)
	}
	if program.ExerciseCount() != 12 {
		t.Errorf("expected 12 exercises, got %d", program.ExerciseCount())
	}
}

func TestParseProgramRejectsNonJSON(t *testing.T) {
	_, err := ParseProgram("I cannot help with that.", models.CategoryUnequipped)
	assertPipelineCode(t, err, CodeAIGenerationFailed)
}

func TestParseProgramRejectsMalformedJSON(t *testing.T) {
	_, err := ParseProgram(`{"overview": {"name": "x", `, models.CategoryUnequipped)
	assertPipelineCode(t, err, CodeAIGenerationFailed)
}

func TestParseProgramRejectsMissingName(t *testing.T) {
	raw := strings.Replace(providerProgramJSON(12), `"name":"Home Reset"`, `"name":"  "`, 1)
	_, err := ParseProgram(raw, models.CategoryUnequipped)
	assertPipelineCode(t, err, CodeAIGenerationFailed)
}

func TestParseProgramRejectsDayOutOfRange(t *testing.T) {
	raw := strings.Replace(providerProgramJSON(12), `"day_number":2`, `"day_number":9`, 1)
	_, err := ParseProgram(raw, models.CategoryUnequipped)
	assertPipelineCode(t, err, CodeAIGenerationFailed)
}

func TestParseProgramRejectsThinProgram(t *testing.T) {
	_, err := ParseProgram(providerProgramJSON(9), models.CategoryUnequipped)
	assertPipelineCode(t, err, CodeAIGenerationFailed)
}

func TestParseProgramRejectsDeniedEquipmentForUnequipped(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{
			name: "denied name",
			raw: strings.Replace(
				providerProgramJSON(12),
				`"name":"Push-up variation 3"`,
				`"name":"Smith-Machine Squat"`,
				1,
			),
		},
		{
			name: "denied equipment field",
			raw: strings.Replace(
				providerProgramJSON(12),
				`"equipment":"bodyweight","instructions":"Keep the core braced."}`,
				`"equipment":"barbell","instructions":"Keep the core braced."}`,
				1,
			),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseProgram(tc.raw, models.CategoryUnequipped)
			assertPipelineCode(t, err, CodeAIGenerationFailed)
		})
	}
}

func TestParseProgramAllowsMachinesForEquipped(t *testing.T) {
	raw := strings.Replace(
		providerProgramJSON(12),
		`"name":"Push-up variation 3"`,
		`"name":"Barbell Back Squat"`,
		1,
	)
	program, err := ParseProgram(raw, models.CategoryEquipped)
	if err != nil {
		t.Fatalf("equipped programs may use barbells, got %v", err)
	}
	if program.ExerciseCount() != 12 {
		t.Errorf("expected 12 exercises, got %d", program.ExerciseCount())
	}
}

func TestParseProgramSanitizesFields(t *testing.T) {
	raw := strings.Replace(
		providerProgramJSON(12),
		`"sets":3,"reps":"10-12","rest_seconds":60,"muscle_groups":["chest"]`,
		`"sets":99,"reps":"`+strings.Repeat("9", 80)+`","rest_seconds":2,"muscle_groups":["a","b","c","d","e","f","g"]`,
		1,
	)
	program, err := ParseProgram(raw, models.CategoryUnequipped)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	exercise := program.Weeks[0].Workouts[0].Exercises[0]
	if exercise.Sets != maxSets {
		t.Errorf("sets not clamped: %d", exercise.Sets)
	}
	if exercise.RestSeconds != minRestSeconds {
		t.Errorf("rest not clamped: %d", exercise.RestSeconds)
	}
	if len(exercise.Reps) != maxRepsLength {
		t.Errorf("reps not capped: %d chars", len(exercise.Reps))
	}
	if len(exercise.MuscleGroups) != maxMuscleGroups {
		t.Errorf("muscle groups not capped: %d", len(exercise.MuscleGroups))
	}
}

func TestCapStringCutsOnRuneBoundaries(t *testing.T) {
	long := strings.Repeat("é", maxNameLength+5)
	capped := capString(long, maxNameLength)
	if !utf8.ValidString(capped) {
		t.Fatal("capped string is not valid UTF-8")
	}
	if got := utf8.RuneCountInString(capped); got != maxNameLength {
		t.Errorf("expected %d runes, got %d", maxNameLength, got)
	}
}

func TestParseProgramAcceptsMultibyteNameAtLimit(t *testing.T) {
	name := strings.Repeat("é", maxNameLength)
	raw := strings.Replace(providerProgramJSON(12), "Home Reset", name, 1)

	program, err := ParseProgram(raw, models.CategoryUnequipped)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if program.Overview.Name != name {
		t.Errorf("a name of exactly %d runes must survive untruncated", maxNameLength)
	}
}

func assertPipelineCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil error", code)
	}
	pErr, ok := err.(*PipelineError)
	if !ok {
		t.Fatalf("expected *PipelineError, got %T: %v", err, err)
	}
	if pErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, pErr.Code, pErr.Detail)
	}
}
