package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marciomartinho/minhas-financas/errs"
	"github.com/marciomartinho/minhas-financas/models"
)

// The lifecycle manager owns every status transition and every cascading
// mutation across a series. It is the only caller of the balance functions,
// so each logical action adjusts balances exactly once, inside the caller's
// transaction.
//
// State machine per entry: pending ⇄ paid, pending → cancelled, and
// pending|paid → deleted.

// IsConsistencyWarning reports whether err is a consistency finding the
// caller may surface as a warning instead of a failure (the located rows
// were still processed).
func IsConsistencyWarning(err error) bool {
	return errors.Is(err, errs.ErrConsistency)
}

// GetEntry loads one entry by id.
func GetEntry(tx *gorm.DB, id uint) (*models.Entry, error) {
	var e models.Entry
	if err := tx.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: entry %d", errs.ErrNotFound, id)
		}
		return nil, fmt.Errorf("load entry %d: %w", id, err)
	}
	return &e, nil
}

// MarkPaid transitions an entry (or, for a transfer, the whole leg pair)
// into paid, applying the balance effect and stamping the payment date.
func MarkPaid(tx *gorm.DB, id uint, payDate time.Time) (*models.Entry, error) {
	e, err := GetEntry(tx, id)
	if err != nil {
		return nil, err
	}
	if !models.KindRules[e.Kind].DirectlyPayable {
		return nil, fmt.Errorf("%w: card charges are settled through the card statement", errs.ErrInvalidState)
	}
	if e.Status == models.StatusPaid {
		return nil, fmt.Errorf("%w: entry %d is already paid", errs.ErrInvalidState, e.ID)
	}
	if e.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: entry %d is cancelled", errs.ErrInvalidState, e.ID)
	}

	for _, leg := range legsOf(tx, e) {
		if leg.Status != models.StatusPending {
			continue
		}
		if err := Apply(tx, leg); err != nil {
			return nil, err
		}
		if err := setStatus(tx, leg, models.StatusPaid, &payDate); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// MarkPending undoes MarkPaid: the balance effect is reversed and the
// payment date cleared. Transfers revert both legs.
func MarkPending(tx *gorm.DB, id uint) (*models.Entry, error) {
	e, err := GetEntry(tx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != models.StatusPaid {
		return nil, fmt.Errorf("%w: entry %d is not paid", errs.ErrInvalidState, e.ID)
	}

	for _, leg := range legsOf(tx, e) {
		if leg.Status != models.StatusPaid {
			continue
		}
		if err := Reverse(tx, leg); err != nil {
			return nil, err
		}
		if err := setStatus(tx, leg, models.StatusPending, nil); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Cancel moves a pending entry to the terminal cancelled state. Cancelled
// entries never affect balances. Transfers cancel both legs.
func Cancel(tx *gorm.DB, id uint) (*models.Entry, error) {
	e, err := GetEntry(tx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: only pending entries can be cancelled", errs.ErrInvalidState)
	}
	for _, leg := range legsOf(tx, e) {
		if leg.Status != models.StatusPending {
			continue
		}
		if err := setStatus(tx, leg, models.StatusCancelled, nil); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// EntryUpdate carries the editable fields. Nil means unchanged; for
// optional references a non-nil pointer to zero clears the field.
type EntryUpdate struct {
	Description   *string
	Amount        *decimal.Decimal
	DueDate       *time.Time
	AccountID     *uint
	CategoryID    *uint
	SubcategoryID *uint
	Tag           *string
}

// Edit applies upd to the entry. When a paid entry's amount or account
// changes, the old balance effect is reversed and the new one reapplied
// rather than patched by difference, which keeps the ledger auditable.
// With propagate, every series sibling with due date >= the edited entry's
// receives the amount/account/classification updates; statement months are
// deliberately left untouched to preserve each occurrence's billing period.
func Edit(tx *gorm.DB, id uint, upd EntryUpdate, propagate bool) (*models.Entry, error) {
	e, err := GetEntry(tx, id)
	if err != nil {
		return nil, err
	}
	if e.Kind == models.KindTransfer {
		return nil, fmt.Errorf("%w: transfer legs cannot be edited, delete and recreate the transfer", errs.ErrInvalidState)
	}
	// an expense with a card reference is a statement settlement; its amount
	// is derived from the underlying charges
	if e.Kind == models.KindExpense && e.CardID != nil {
		return nil, fmt.Errorf("%w: statement settlements cannot be edited, delete the settlement and settle the statement again", errs.ErrInvalidState)
	}
	if upd.Amount != nil && !upd.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", errs.ErrValidation)
	}

	anchor := e.DueDate
	if err := editOne(tx, e, upd); err != nil {
		return nil, err
	}

	if propagate && e.SeriesID != nil {
		var siblings []models.Entry
		err := tx.Where("series_id = ? AND id <> ? AND due_date >= ?", *e.SeriesID, e.ID, anchor).
			Find(&siblings).Error
		if err != nil {
			return nil, fmt.Errorf("load series siblings: %w", err)
		}
		sibUpd := upd
		sibUpd.Description = nil // installment descriptions keep their (i/n) suffix
		sibUpd.DueDate = nil
		for i := range siblings {
			if err := editOne(tx, &siblings[i], sibUpd); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

func editOne(tx *gorm.DB, e *models.Entry, upd EntryUpdate) error {
	rebalance := e.Status == models.StatusPaid &&
		((upd.Amount != nil && !upd.Amount.Equal(e.Amount)) ||
			(upd.AccountID != nil && *upd.AccountID != e.AccountID))

	if rebalance {
		if err := Reverse(tx, e); err != nil {
			return err
		}
	}

	fields := map[string]interface{}{}
	if upd.Description != nil {
		e.Description = *upd.Description
		fields["description"] = *upd.Description
	}
	if upd.Amount != nil {
		e.Amount = *upd.Amount
		fields["amount"] = *upd.Amount
	}
	if upd.DueDate != nil {
		e.DueDate = *upd.DueDate
		fields["due_date"] = *upd.DueDate
	}
	if upd.AccountID != nil {
		e.AccountID = *upd.AccountID
		fields["account_id"] = *upd.AccountID
	}
	if upd.CategoryID != nil {
		if *upd.CategoryID == 0 {
			e.CategoryID = nil
			fields["category_id"] = nil
		} else {
			e.CategoryID = upd.CategoryID
			fields["category_id"] = *upd.CategoryID
		}
	}
	if upd.SubcategoryID != nil {
		if *upd.SubcategoryID == 0 {
			e.SubcategoryID = nil
			fields["subcategory_id"] = nil
		} else {
			e.SubcategoryID = upd.SubcategoryID
			fields["subcategory_id"] = *upd.SubcategoryID
		}
	}
	if upd.Tag != nil {
		e.Tag = *upd.Tag
		fields["tag"] = *upd.Tag
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if len(fields) > 0 {
		if err := tx.Model(&models.Entry{}).Where("id = ?", e.ID).Updates(fields).Error; err != nil {
			return fmt.Errorf("update entry %d: %w", e.ID, err)
		}
	}

	if rebalance {
		// the entry still reads as paid; reapply with the new amount/account
		if err := applyEntry(tx, e, 1); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the entry, reversing its balance effect first when paid.
// With cascade, every series sibling with due date >= the entry's is removed
// the same way. The removed-entry count is returned. Deleting one leg of a
// transfer removes the partner leg too; a missing partner is reported as a
// consistency warning while the located leg is still removed.
func Delete(tx *gorm.DB, id uint, cascade bool) (int, error) {
	e, err := GetEntry(tx, id)
	if err != nil {
		return 0, err
	}

	targets := []models.Entry{*e}
	if cascade && e.SeriesID != nil {
		var siblings []models.Entry
		err := tx.Where("series_id = ? AND id <> ? AND due_date >= ?", *e.SeriesID, e.ID, e.DueDate).
			Find(&siblings).Error
		if err != nil {
			return 0, fmt.Errorf("load series siblings: %w", err)
		}
		targets = append(targets, siblings...)
	}

	var warn error
	count := 0
	for i := range targets {
		removed, werr := deleteOne(tx, &targets[i])
		if werr != nil {
			if errors.Is(werr, errs.ErrConsistency) {
				warn = werr
			} else {
				return count, werr
			}
		}
		count += removed
	}
	if warn != nil {
		// all located rows were removed; the caller surfaces the warning
		return count, warn
	}
	return count, nil
}

func deleteOne(tx *gorm.DB, e *models.Entry) (int, error) {
	count := 0
	legs, warn := transferLegs(tx, e)
	for _, leg := range legs {
		if leg.Status == models.StatusPaid {
			if err := Reverse(tx, leg); err != nil {
				return count, err
			}
		}
		if err := tx.Delete(&models.Entry{}, leg.ID).Error; err != nil {
			return count, fmt.Errorf("delete entry %d: %w", leg.ID, err)
		}
		count++
	}
	return count, warn
}

// transferLegs resolves the full set of rows one logical deletion covers:
// the entry itself plus, for transfers, the partner leg. A transfer whose
// partner cannot be located yields a consistency warning.
func transferLegs(tx *gorm.DB, e *models.Entry) ([]*models.Entry, error) {
	if e.Kind != models.KindTransfer || e.TransferGroupID == nil {
		return []*models.Entry{e}, nil
	}
	var partner models.Entry
	err := tx.Where("transfer_group_id = ? AND id <> ?", *e.TransferGroupID, e.ID).
		First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []*models.Entry{e}, fmt.Errorf("%w: transfer group %s has no partner leg for entry %d",
				errs.ErrConsistency, *e.TransferGroupID, e.ID)
		}
		return nil, fmt.Errorf("locate transfer partner: %w", err)
	}
	return []*models.Entry{e, &partner}, nil
}

// legsOf is transferLegs for status transitions, where a missing partner
// simply degrades to operating on the located leg.
func legsOf(tx *gorm.DB, e *models.Entry) []*models.Entry {
	legs, _ := transferLegs(tx, e)
	return legs
}

func setStatus(tx *gorm.DB, e *models.Entry, status string, payDate *time.Time) error {
	fields := map[string]interface{}{
		"status":       status,
		"payment_date": payDate,
	}
	if err := tx.Model(&models.Entry{}).Where("id = ?", e.ID).Updates(fields).Error; err != nil {
		return fmt.Errorf("update entry %d status: %w", e.ID, err)
	}
	e.Status = status
	e.PaymentDate = payDate
	return nil
}

// PayStatement settles a card's statement for one billing period: the sum
// of all card charges whose statement month falls in the period becomes one
// paid settlement expense on the card's owning account, dated at the card's
// due day (clamped to the period's last day). The underlying charges never
// change status; a second settlement of the same period is rejected.
func PayStatement(tx *gorm.DB, cardID uint, period time.Time, payDate time.Time) (*models.Entry, error) {
	var card models.Card
	if err := tx.First(&card, cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: card %d", errs.ErrNotFound, cardID)
		}
		return nil, fmt.Errorf("load card %d: %w", cardID, err)
	}

	start := MonthStart(period)
	end := MonthEnd(period)

	var settled int64
	err := tx.Model(&models.Entry{}).
		Where("kind = ? AND card_id = ? AND statement_month >= ? AND statement_month <= ?",
			models.KindExpense, cardID, start, end).
		Count(&settled).Error
	if err != nil {
		return nil, fmt.Errorf("check existing settlement: %w", err)
	}
	if settled > 0 {
		return nil, fmt.Errorf("%w: statement %s of card %s is already settled",
			errs.ErrInvalidState, start.Format("2006-01"), card.Name)
	}

	var total decimal.Decimal
	row := tx.Model(&models.Entry{}).
		Where("kind = ? AND card_id = ? AND statement_month >= ? AND statement_month <= ?",
			models.KindCardCharge, cardID, start, end).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return nil, fmt.Errorf("sum statement charges: %w", err)
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: card %s has no charges in statement %s",
			errs.ErrValidation, card.Name, start.Format("2006-01"))
	}

	settlement := models.Entry{
		Description:    fmt.Sprintf("%s statement %s", card.Name, start.Format("2006-01")),
		Amount:         total,
		Kind:           models.KindExpense,
		Status:         models.StatusPending,
		Recurrence:     models.RecurrenceSingle,
		DueDate:        StatementDueDate(start, card.DueDay),
		AccountID:      card.AccountID,
		CardID:         &card.ID,
		StatementMonth: &start,
	}
	if err := tx.Create(&settlement).Error; err != nil {
		return nil, fmt.Errorf("persist settlement: %w", err)
	}
	if err := Apply(tx, &settlement); err != nil {
		return nil, err
	}
	if err := setStatus(tx, &settlement, models.StatusPaid, &payDate); err != nil {
		return nil, err
	}
	return &settlement, nil
}
