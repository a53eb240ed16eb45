package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

type CreditRepository struct {
	db DBTX
}

func NewCreditRepository(db DBTX) *CreditRepository {
	return &CreditRepository{db: db}
}

func (r *CreditRepository) GetByUserID(ctx context.Context, userID int64) (*models.CreditLedger, error) {
	query := `
		SELECT user_id, credits_remaining, credits_total, is_unlimited, updated_at
		FROM credit_ledgers
		WHERE user_id = $1
	`
	var ledger models.CreditLedger
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&ledger.UserID,
		&ledger.CreditsRemaining,
		&ledger.CreditsTotal,
		&ledger.IsUnlimited,
		&ledger.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// ConsumeCredit decrements one credit with a conditional update so that two
// concurrent requests cannot both observe credits > 0 and both proceed. It
// returns the remaining balance, or (0, false) when no credit was available.
func (r *CreditRepository) ConsumeCredit(ctx context.Context, userID int64) (int, bool, error) {
	query := `
		UPDATE credit_ledgers
		SET credits_remaining = credits_remaining - 1,
			updated_at = NOW()
		WHERE user_id = $1 AND credits_remaining > 0
		RETURNING credits_remaining
	`
	var remaining int
	err := r.db.QueryRow(ctx, query, userID).Scan(&remaining)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, err
	}
	return remaining, true, nil
}

// RefundCredit restores one credit, capped at the ledger's total so repeated
// refunds cannot inflate the balance.
func (r *CreditRepository) RefundCredit(ctx context.Context, userID int64) error {
	query := `
		UPDATE credit_ledgers
		SET credits_remaining = LEAST(credits_remaining + 1, credits_total),
			updated_at = NOW()
		WHERE user_id = $1
	`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}
