package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

type creditLedgerReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.CreditLedger, error)
}

type CreditHandler struct {
	creditRepo creditLedgerReader
}

func NewCreditHandler(creditRepo creditLedgerReader) *CreditHandler {
	return &CreditHandler{creditRepo: creditRepo}
}

func (h *CreditHandler) GetCredits(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	ledger, err := h.creditRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No credit ledger"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load credits"})
	}

	remaining := ledger.CreditsRemaining
	if ledger.IsUnlimited {
		remaining = models.UnlimitedCredits
	}
	return c.JSON(fiber.Map{
		"credits_remaining": remaining,
		"credits_total":     ledger.CreditsTotal,
		"is_unlimited":      ledger.IsUnlimited,
	})
}
