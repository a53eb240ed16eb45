package models

import "time"

type UserProfile struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	FullName           *string   `json:"full_name"`
	Age                *int      `json:"age"`
	Gender             *string   `json:"gender"`
	HeightCM           *float64  `json:"height_cm"`
	WeightKG           *float64  `json:"weight_kg"`
	ActivityLevel      *string   `json:"activity_level"`
	HealthConditions   *[]string `json:"health_conditions"`
	PreferredLanguage  *string   `json:"preferred_language"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Language returns the profile's preferred language, defaulting to English.
func (p *UserProfile) Language() string {
	if p != nil && p.PreferredLanguage != nil && *p.PreferredLanguage != "" {
		return *p.PreferredLanguage
	}
	return "en"
}
