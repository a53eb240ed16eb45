package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/repository"
)

// DefaultDailyCategoryCap limits generation attempts per category per local
// day, independent of the credit balance.
const DefaultDailyCategoryCap = 5

type creditStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.CreditLedger, error)
	ConsumeCredit(ctx context.Context, userID int64) (int, bool, error)
	RefundCredit(ctx context.Context, userID int64) error
}

type generationLogStore interface {
	Create(ctx context.Context, input repository.CreateGenerationLogInput) (*models.GenerationLog, error)
	GetByID(ctx context.Context, logID int64) (*models.GenerationLog, error)
	CountByCategorySince(ctx context.Context, userID int64, category string, since time.Time) (int, error)
	MarkCompleted(ctx context.Context, logID int64, summary string) error
	MarkFailed(ctx context.Context, logID int64, errorText string) error
}

// entitlementTxFunc runs fn against transaction-scoped stores and commits
// only when fn returns nil.
type entitlementTxFunc func(ctx context.Context, fn func(credits creditStore, logs generationLogStore) error) error

// EntitlementGrant records the outcome of a successful Acquire: the pending
// log row and whether a credit was actually charged.
type EntitlementGrant struct {
	LogID            int64
	Charged          bool
	CreditsRemaining int
}

// EntitlementService decides whether a user may generate now and performs
// the credit accounting. The decrement, the daily-cap check, and the
// pending-log insert run in one transaction so two concurrent requests cannot
// both take the last credit or both squeeze under the cap.
type EntitlementService struct {
	credits  creditStore
	logs     generationLogStore
	inTx     entitlementTxFunc
	dailyCap int
	now      func() time.Time
}

func NewEntitlementService(
	db *pgxpool.Pool,
	creditRepo *repository.CreditRepository,
	logRepo *repository.GenerationLogRepository,
	dailyCap int,
) *EntitlementService {
	if dailyCap <= 0 {
		dailyCap = DefaultDailyCategoryCap
	}
	return &EntitlementService{
		credits: creditRepo,
		logs:    logRepo,
		inTx: func(ctx context.Context, fn func(credits creditStore, logs generationLogStore) error) error {
			tx, err := db.Begin(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = tx.Rollback(ctx)
			}()
			if err := fn(repository.NewCreditRepository(tx), repository.NewGenerationLogRepository(tx)); err != nil {
				return err
			}
			return tx.Commit(ctx)
		},
		dailyCap: dailyCap,
		now:      time.Now,
	}
}

// Acquire checks entitlement and, if allowed, atomically charges one credit
// (unless the user is unlimited), verifies the daily category cap, and
// inserts the pending generation log.
func (s *EntitlementService) Acquire(
	ctx context.Context,
	userID int64,
	prefs models.GenerationPreferences,
) (*EntitlementGrant, error) {
	ledger, err := s.credits.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NewPipelineError(CodeInsufficientCredits, "no credit ledger for user")
		}
		return nil, NewPipelineError(CodeDatabaseError, "read credit ledger: "+err.Error())
	}
	if !ledger.IsUnlimited && ledger.CreditsRemaining <= 0 {
		return nil, NewPipelineError(CodeInsufficientCredits, "credits exhausted")
	}

	snapshot, err := json.Marshal(prefs)
	if err != nil {
		return nil, NewPipelineError(CodeUnknownError, "snapshot preferences: "+err.Error())
	}

	grant := &EntitlementGrant{CreditsRemaining: models.UnlimitedCredits}
	err = s.inTx(ctx, func(credits creditStore, logs generationLogStore) error {
		if !ledger.IsUnlimited {
			// Consume first: the ledger row lock serializes concurrent
			// acquires for the same user, so the cap count below sees every
			// previously committed attempt. A cap denial rolls the decrement
			// back with the transaction.
			remaining, consumed, err := credits.ConsumeCredit(ctx, userID)
			if err != nil {
				return NewPipelineError(CodeDatabaseError, "consume credit: "+err.Error())
			}
			if !consumed {
				// Lost the race to a concurrent request.
				return NewPipelineError(CodeInsufficientCredits, "credits exhausted")
			}
			grant.Charged = true
			grant.CreditsRemaining = remaining

			count, err := logs.CountByCategorySince(ctx, userID, prefs.Category, localMidnight(s.now()))
			if err != nil {
				return NewPipelineError(CodeDatabaseError, "count daily attempts: "+err.Error())
			}
			if count >= s.dailyCap {
				pErr := NewPipelineError(
					CodeRateLimitExceeded,
					fmt.Sprintf("daily cap of %d reached for category %s", s.dailyCap, prefs.Category),
				)
				pErr.ResetAt = nextLocalMidnight(s.now())
				return pErr
			}
		}

		charged := 0
		if grant.Charged {
			charged = 1
		}
		logRow, err := logs.Create(ctx, repository.CreateGenerationLogInput{
			UserID:          userID,
			Category:        prefs.Category,
			RequestSnapshot: string(snapshot),
			CreditsCharged:  charged,
		})
		if err != nil {
			return NewPipelineError(CodeDatabaseError, "insert generation log: "+err.Error())
		}
		grant.LogID = logRow.ID
		return nil
	})
	if err != nil {
		var pErr *PipelineError
		if errors.As(err, &pErr) {
			return nil, pErr
		}
		return nil, NewPipelineError(CodeDatabaseError, "acquire entitlement: "+err.Error())
	}
	return grant, nil
}

// Release is the compensating action after a failed attempt: it marks the
// log failed and refunds the credit if one was charged. It is a no-op for
// logs that already reached a terminal status.
func (s *EntitlementService) Release(ctx context.Context, logID int64, errorText string) error {
	return s.inTx(ctx, func(credits creditStore, logs generationLogStore) error {
		logRow, err := logs.GetByID(ctx, logID)
		if err != nil {
			return err
		}
		if logRow.Status != models.GenerationStatusPending {
			return nil
		}
		if err := logs.MarkFailed(ctx, logID, errorText); err != nil {
			return err
		}
		if logRow.CreditsCharged > 0 {
			return credits.RefundCredit(ctx, logRow.UserID)
		}
		return nil
	})
}

// Complete marks the log completed with a compact response summary.
func (s *EntitlementService) Complete(ctx context.Context, logID int64, summary string) error {
	return s.logs.MarkCompleted(ctx, logID, summary)
}

func localMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func nextLocalMidnight(now time.Time) time.Time {
	return localMidnight(now).AddDate(0, 0, 1)
}
