package services

import (
	"strings"
	"testing"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

func TestBuildPromptIsDeterministic(t *testing.T) {
	profile := testProfile()
	prefs := testPrefs()
	warnings := []string{"user reports asthma: allow longer rest periods and gradual intensity ramps"}

	first := BuildPrompt(profile, prefs, warnings)
	second := BuildPrompt(profile, prefs, warnings)
	if first != second {
		t.Fatalf("prompt builder must be deterministic")
	}
}

func TestBuildPromptUnequippedConstraints(t *testing.T) {
	prompt := BuildPrompt(testProfile(), testPrefs(), nil)

	if !strings.Contains(prompt.System, "NO gym access") {
		t.Errorf("unequipped prompt must state the equipment constraint")
	}
	for _, allowed := range []string{"bodyweight movements", "resistance bands"} {
		if !strings.Contains(prompt.System, allowed) {
			t.Errorf("allow-list entry %q missing from system prompt", allowed)
		}
	}
	if !strings.Contains(prompt.System, "Never include") {
		t.Errorf("deny-list directive missing from system prompt")
	}
	for _, denied := range machineDenyList {
		if strings.Contains(prompt.User, denied) {
			t.Errorf("user prompt must not prescribe machine term %q", denied)
		}
	}
}

func TestBuildPromptEquippedGetsProgressiveOverload(t *testing.T) {
	prefs := testPrefs()
	prefs.Category = models.CategoryEquipped

	prompt := BuildPrompt(testProfile(), prefs, nil)
	if !strings.Contains(prompt.System, "progressive overload") {
		t.Errorf("equipped prompt must include progressive-overload guidance")
	}
	if strings.Contains(prompt.System, "Never include") {
		t.Errorf("equipped prompt must not carry the home deny-list")
	}
}

func TestBuildPromptThreadsHealthWarnings(t *testing.T) {
	warning := "user reports hypertension: avoid breath-holding and heavy isometric holds"
	prompt := BuildPrompt(testProfile(), testPrefs(), []string{warning})
	if !strings.Contains(prompt.System, warning) {
		t.Errorf("health warning missing from system prompt")
	}
}

func TestBuildPromptIncludesSessionDetails(t *testing.T) {
	prompt := BuildPrompt(testProfile(), testPrefs(), nil)
	if !strings.Contains(prompt.User, "Session length: 45 minutes") {
		t.Errorf("session length missing from user prompt")
	}
	if !strings.Contains(prompt.User, "Fitness level: beginner") {
		t.Errorf("fitness level missing from user prompt")
	}
	if !strings.Contains(prompt.User, `"weeks"`) {
		t.Errorf("schema hint missing from user prompt")
	}
}
