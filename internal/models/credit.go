package models

import "time"

// UnlimitedCredits is the sentinel reported as credits_remaining for users
// with an active unlimited entitlement.
const UnlimitedCredits = -1

type CreditLedger struct {
	UserID           int64     `json:"user_id"`
	CreditsRemaining int       `json:"credits_remaining"`
	CreditsTotal     int       `json:"credits_total"`
	IsUnlimited      bool      `json:"is_unlimited"`
	UpdatedAt        time.Time `json:"updated_at"`
}
