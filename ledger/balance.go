package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marciomartinho/minhas-financas/errs"
	"github.com/marciomartinho/minhas-financas/models"
)

// This file is the single choke point through which an account's
// current_balance is ever mutated. Every adjustment is issued as a relative
// SQL expression inside the caller's transaction, so the invariant
//
//	current_balance == opening_balance + Σ(signed amounts of paid entries)
//
// cannot be broken by uncoordinated writes. Transfer legs each carry the
// effect for their own account only; the lifecycle manager transitions both
// legs inside one transaction.

// Apply records the balance effect of an entry transitioning into paid.
// Applying an already-paid entry is rejected, which makes the effect
// idempotent per entry.
func Apply(tx *gorm.DB, e *models.Entry) error {
	if e.Status == models.StatusPaid {
		return fmt.Errorf("%w: balance effect of entry %d already applied", errs.ErrInvalidState, e.ID)
	}
	if e.Status == models.StatusCancelled {
		return fmt.Errorf("%w: cancelled entry %d cannot affect balances", errs.ErrInvalidState, e.ID)
	}
	return applyEntry(tx, e, 1)
}

// Reverse undoes Apply when an entry leaves paid (unpay, edit of a paid
// amount, delete of a paid entry). Reversing a non-paid entry is rejected.
func Reverse(tx *gorm.DB, e *models.Entry) error {
	if e.Status != models.StatusPaid {
		return fmt.Errorf("%w: entry %d has no applied balance effect to reverse", errs.ErrInvalidState, e.ID)
	}
	return applyEntry(tx, e, -1)
}

// applyEntry shifts the owning account by the entry's signed amount.
// direction is 1 to apply, -1 to reverse. Callers that hold the status
// guards themselves (reverse-then-reapply on edit) use this directly.
func applyEntry(tx *gorm.DB, e *models.Entry, direction int) error {
	delta := e.BalanceDelta()
	if direction < 0 {
		delta = delta.Neg()
	}
	return shiftAccount(tx, e.AccountID, delta)
}

func shiftAccount(tx *gorm.DB, accountID uint, delta decimal.Decimal) error {
	res := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("current_balance", gorm.Expr("current_balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("update account %d balance: %w", accountID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: account %d", errs.ErrNotFound, accountID)
	}
	return nil
}

// Revalue sets an investment account's current balance to an externally
// observed value. Checking accounts only move through entry effects.
func Revalue(tx *gorm.DB, account *models.Account, balance decimal.Decimal) error {
	if account.Kind != models.AccountInvestment {
		return fmt.Errorf("%w: account %d is not an investment account", errs.ErrValidation, account.ID)
	}
	res := tx.Model(&models.Account{}).
		Where("id = ?", account.ID).
		UpdateColumn("current_balance", balance)
	if res.Error != nil {
		return fmt.Errorf("revalue account %d: %w", account.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: account %d", errs.ErrNotFound, account.ID)
	}
	account.CurrentBalance = balance
	return nil
}
