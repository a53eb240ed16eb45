package models

import "time"

const (
	GenerationStatusPending   = "pending"
	GenerationStatusCompleted = "completed"
	GenerationStatusFailed    = "failed"
)

// GenerationLog is the audit record for one generation attempt. A row is
// inserted with status pending before any provider call; the terminal status
// is written exactly once.
type GenerationLog struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Category        string    `json:"category"`
	RequestSnapshot string    `json:"request_snapshot"`
	Status          string    `json:"status"`
	ResponseSummary *string   `json:"response_summary"`
	ErrorText       *string   `json:"error_text"`
	CreditsCharged  int       `json:"credits_charged"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
