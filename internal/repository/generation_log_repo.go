package repository

import (
	"context"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

type CreateGenerationLogInput struct {
	UserID          int64
	Category        string
	RequestSnapshot string
	CreditsCharged  int
}

type GenerationLogRepository struct {
	db DBTX
}

func NewGenerationLogRepository(db DBTX) *GenerationLogRepository {
	return &GenerationLogRepository{db: db}
}

func (r *GenerationLogRepository) Create(
	ctx context.Context,
	input CreateGenerationLogInput,
) (*models.GenerationLog, error) {
	query := `
		INSERT INTO generation_logs (user_id, category, request_snapshot, status, credits_charged)
		VALUES ($1, $2, $3, 'pending', $4)
		RETURNING id, user_id, category, request_snapshot, status, response_summary,
				  error_text, credits_charged, created_at, updated_at
	`
	var logRow models.GenerationLog
	err := r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.Category,
		input.RequestSnapshot,
		input.CreditsCharged,
	).Scan(
		&logRow.ID,
		&logRow.UserID,
		&logRow.Category,
		&logRow.RequestSnapshot,
		&logRow.Status,
		&logRow.ResponseSummary,
		&logRow.ErrorText,
		&logRow.CreditsCharged,
		&logRow.CreatedAt,
		&logRow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &logRow, nil
}

func (r *GenerationLogRepository) GetByID(ctx context.Context, logID int64) (*models.GenerationLog, error) {
	query := `
		SELECT id, user_id, category, request_snapshot, status, response_summary,
			   error_text, credits_charged, created_at, updated_at
		FROM generation_logs
		WHERE id = $1
	`
	var logRow models.GenerationLog
	err := r.db.QueryRow(ctx, query, logID).Scan(
		&logRow.ID,
		&logRow.UserID,
		&logRow.Category,
		&logRow.RequestSnapshot,
		&logRow.Status,
		&logRow.ResponseSummary,
		&logRow.ErrorText,
		&logRow.CreditsCharged,
		&logRow.CreatedAt,
		&logRow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &logRow, nil
}

// CountByCategorySince counts attempts of a category created at or after the
// given instant, regardless of their terminal status. Used for the daily cap.
func (r *GenerationLogRepository) CountByCategorySince(
	ctx context.Context,
	userID int64,
	category string,
	since time.Time,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM generation_logs
		WHERE user_id = $1 AND category = $2 AND created_at >= $3
	`
	var count int
	if err := r.db.QueryRow(ctx, query, userID, category, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GenerationLogRepository) MarkCompleted(ctx context.Context, logID int64, summary string) error {
	query := `
		UPDATE generation_logs
		SET status = 'completed', response_summary = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	_, err := r.db.Exec(ctx, query, logID, summary)
	return err
}

func (r *GenerationLogRepository) MarkFailed(ctx context.Context, logID int64, errorText string) error {
	query := `
		UPDATE generation_logs
		SET status = 'failed', error_text = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	_, err := r.db.Exec(ctx, query, logID, errorText)
	return err
}
