package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marciomartinho/minhas-financas/errs"
	"github.com/marciomartinho/minhas-financas/models"
)

// Periodic series are materialized over a fixed horizon at creation time;
// nothing is generated lazily afterwards.
var periodicHorizons = map[string]int{
	models.RecurrenceMonthly:  60,  // 5 years
	models.RecurrenceYearly:   5,   // 5 years
	models.RecurrenceWeekly:   260, // ~5 years
	models.RecurrenceBiweekly: 130, // ~5 years
}

// SeriesRequest is one user action to be expanded into one or more entries.
type SeriesRequest struct {
	Description    string
	Amount         decimal.Decimal
	Kind           string
	AccountID      uint
	CardID         *uint
	CategoryID     *uint
	SubcategoryID  *uint
	Tag            string
	DueDate        time.Time
	StatementMonth *time.Time
	Recurrence     string
	Installments   int
}

// Generate expands req into concrete entries and persists them inside tx.
// The first returned entry is the series handle. Every occurrence of a
// multi-occurrence series, including the first, shares a generated series
// id; a single entry carries none.
func Generate(tx *gorm.DB, req SeriesRequest) ([]models.Entry, error) {
	base := models.Entry{
		Description:    req.Description,
		Amount:         req.Amount,
		Kind:           req.Kind,
		Status:         models.StatusPending,
		Recurrence:     req.Recurrence,
		DueDate:        req.DueDate,
		AccountID:      req.AccountID,
		CardID:         req.CardID,
		CategoryID:     req.CategoryID,
		SubcategoryID:  req.SubcategoryID,
		Tag:            req.Tag,
		StatementMonth: normalizeStatementMonth(req.StatementMonth),
	}
	if req.Kind == models.KindTransfer {
		return nil, fmt.Errorf("%w: transfers are created through CreateTransfer", errs.ErrValidation)
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}

	var entries []models.Entry
	switch req.Recurrence {
	case models.RecurrenceSingle:
		entries = []models.Entry{base}
	case models.RecurrenceInstallment:
		if req.Installments < 2 {
			return nil, fmt.Errorf("%w: installment count must be at least 2", errs.ErrValidation)
		}
		entries = expandInstallments(base, req.Installments)
	default:
		horizon, ok := periodicHorizons[req.Recurrence]
		if !ok {
			return nil, fmt.Errorf("%w: unknown recurrence %q", errs.ErrValidation, req.Recurrence)
		}
		entries = expandPeriodic(base, req.Recurrence, horizon)
	}

	if err := tx.Create(&entries).Error; err != nil {
		return nil, fmt.Errorf("persist series: %w", err)
	}
	return entries, nil
}

// SplitInstallments divides the total into count amounts of two decimal
// places whose sum equals the total exactly. The first installment absorbs
// the rounding drift.
func SplitInstallments(total decimal.Decimal, count int) []decimal.Decimal {
	n := decimal.NewFromInt(int64(count))
	unit := total.Div(n).Round(2)
	drift := total.Sub(unit.Mul(n))

	amounts := make([]decimal.Decimal, count)
	amounts[0] = unit.Add(drift)
	for i := 1; i < count; i++ {
		amounts[i] = unit
	}
	return amounts
}

func expandInstallments(base models.Entry, count int) []models.Entry {
	amounts := SplitInstallments(base.Amount, count)
	seriesID := uuid.NewString()

	entries := make([]models.Entry, count)
	for i := 0; i < count; i++ {
		e := base
		e.Description = fmt.Sprintf("%s (%d/%d)", base.Description, i+1, count)
		e.Amount = amounts[i]
		e.DueDate = AddMonths(base.DueDate, i)
		number := i + 1
		total := count
		e.InstallmentNumber = &number
		e.InstallmentTotal = &total
		e.SeriesID = &seriesID
		e.StatementMonth = shiftStatementMonth(base, e.DueDate)
		entries[i] = e
	}
	return entries
}

func expandPeriodic(base models.Entry, recurrence string, horizon int) []models.Entry {
	seriesID := uuid.NewString()

	entries := make([]models.Entry, horizon)
	for i := 0; i < horizon; i++ {
		e := base
		switch recurrence {
		case models.RecurrenceWeekly:
			e.DueDate = base.DueDate.AddDate(0, 0, 7*i)
		case models.RecurrenceBiweekly:
			e.DueDate = base.DueDate.AddDate(0, 0, 14*i)
		case models.RecurrenceMonthly:
			e.DueDate = AddMonths(base.DueDate, i)
		case models.RecurrenceYearly:
			e.DueDate = AddMonths(base.DueDate, 12*i)
		}
		e.SeriesID = &seriesID
		e.StatementMonth = shiftStatementMonth(base, e.DueDate)
		entries[i] = e
	}
	return entries
}

// shiftStatementMonth keeps a card charge's billing period in lockstep with
// its due date: the statement month moves by as many calendar months as the
// due date's month moved from the first occurrence.
func shiftStatementMonth(base models.Entry, due time.Time) *time.Time {
	if base.StatementMonth == nil {
		return nil
	}
	shifted := AddMonths(*base.StatementMonth, monthsBetween(base.DueDate, due))
	return &shifted
}

func normalizeStatementMonth(m *time.Time) *time.Time {
	if m == nil {
		return nil
	}
	start := MonthStart(*m)
	return &start
}

// TransferRequest describes a transfer between two accounts.
type TransferRequest struct {
	Description          string
	Amount               decimal.Decimal
	SourceAccountID      uint
	DestinationAccountID uint
	DueDate              time.Time
	Tag                  string
}

// CreateTransfer materializes a transfer as two entries, an outbound leg on
// the source account and an inbound leg on the destination account, linked
// by a shared transfer group id. The outbound leg is returned first.
func CreateTransfer(tx *gorm.DB, req TransferRequest) ([]models.Entry, error) {
	group := uuid.NewString()

	out := models.Entry{
		Description:          req.Description,
		Amount:               req.Amount,
		Kind:                 models.KindTransfer,
		Status:               models.StatusPending,
		Recurrence:           models.RecurrenceSingle,
		DueDate:              req.DueDate,
		AccountID:            req.SourceAccountID,
		DestinationAccountID: &req.DestinationAccountID,
		Tag:                  req.Tag,
		TransferGroupID:      &group,
		TransferRole:         models.TransferOutbound,
	}
	in := out
	in.AccountID = req.DestinationAccountID
	in.DestinationAccountID = &req.SourceAccountID
	in.TransferRole = models.TransferInbound

	if err := out.Validate(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	legs := []models.Entry{out, in}
	if err := tx.Create(&legs).Error; err != nil {
		return nil, fmt.Errorf("persist transfer: %w", err)
	}
	return legs, nil
}
