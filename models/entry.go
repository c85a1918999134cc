package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marciomartinho/minhas-financas/errs"
)

// Entry kinds
const (
	KindExpense    = "expense"
	KindIncome     = "income"
	KindCardCharge = "card_charge"
	KindTransfer   = "transfer"
)

// Entry statuses
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Recurrence values
const (
	RecurrenceSingle      = "single"
	RecurrenceWeekly      = "weekly"
	RecurrenceBiweekly    = "biweekly"
	RecurrenceMonthly     = "monthly"
	RecurrenceYearly      = "yearly"
	RecurrenceInstallment = "installment"
)

// Transfer leg roles. The outbound leg debits its own account, the inbound
// leg credits its own account; both share a TransferGroupID.
const (
	TransferOutbound = "outbound"
	TransferInbound  = "inbound"
)

// Entry is one ledger line item. Amount is always positive; the direction
// of the balance effect is derived from Kind (and, for transfers, the leg
// role). All occurrences of a multi-occurrence series, including the first,
// share a SeriesID.
type Entry struct {
	ID                   uint             `json:"id" gorm:"primaryKey"`
	Description          string           `json:"description" gorm:"size:255;not null"`
	Amount               decimal.Decimal  `json:"amount" gorm:"type:decimal(10,2);not null"`
	Kind                 string           `json:"kind" gorm:"size:20;not null;index"`
	Status               string           `json:"status" gorm:"size:20;not null;default:pending;index"`
	Recurrence           string           `json:"recurrence" gorm:"size:20;not null;default:single"`
	DueDate              time.Time        `json:"due_date" gorm:"type:date;not null;index"`
	PaymentDate          *time.Time       `json:"payment_date,omitempty" gorm:"type:date"`
	AccountID            uint             `json:"account_id" gorm:"not null;index"`
	DestinationAccountID *uint            `json:"destination_account_id,omitempty" gorm:"index"`
	CardID               *uint            `json:"card_id,omitempty" gorm:"index"`
	CategoryID           *uint            `json:"category_id,omitempty" gorm:"index"`
	SubcategoryID        *uint            `json:"subcategory_id,omitempty"`
	Tag                  string           `json:"tag,omitempty" gorm:"size:50;index"`
	InstallmentNumber    *int             `json:"installment_number,omitempty"`
	InstallmentTotal     *int             `json:"installment_total,omitempty"`
	SeriesID             *string          `json:"series_id,omitempty" gorm:"size:36;index"`
	TransferGroupID      *string          `json:"transfer_group_id,omitempty" gorm:"size:36;index"`
	TransferRole         string           `json:"transfer_role,omitempty" gorm:"size:10"`
	StatementMonth       *time.Time       `json:"statement_month,omitempty" gorm:"type:date;index"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
	DeletedAt            gorm.DeletedAt   `json:"-" gorm:"index"`

	Account            Account      `json:"-" gorm:"foreignKey:AccountID"`
	DestinationAccount *Account     `json:"-" gorm:"foreignKey:DestinationAccountID"`
	Card               *Card        `json:"-" gorm:"foreignKey:CardID"`
	Category           *Category    `json:"-" gorm:"foreignKey:CategoryID"`
	Subcategory        *Subcategory `json:"-" gorm:"foreignKey:SubcategoryID"`
}

// TableName sets the table name
func (Entry) TableName() string {
	return "entries"
}

// KindRule describes how one entry kind behaves. Adding a kind means adding
// one row here, not touching the operations. The Requires flags cut both
// ways: Validate rejects the reference on kinds that do not require it.
type KindRule struct {
	Sign                   int  // balance effect per paid unit: -1 debit, +1 credit, 0 per-leg (transfer)
	DirectlyPayable        bool // false for card charges, which settle via the statement
	RequiresCard           bool
	RequiresStatementMonth bool
	RequiresDestination    bool
}

// KindRules is the closed per-kind rule table.
var KindRules = map[string]KindRule{
	KindExpense:    {Sign: -1, DirectlyPayable: true},
	KindIncome:     {Sign: +1, DirectlyPayable: true},
	KindCardCharge: {Sign: -1, DirectlyPayable: false, RequiresCard: true, RequiresStatementMonth: true},
	KindTransfer:   {Sign: 0, DirectlyPayable: true, RequiresDestination: true},
}

// GetRecurrences returns the known recurrence values
func GetRecurrences() []string {
	return []string{
		RecurrenceSingle,
		RecurrenceWeekly,
		RecurrenceBiweekly,
		RecurrenceMonthly,
		RecurrenceYearly,
		RecurrenceInstallment,
	}
}

// Validate checks structural validity: positive amount, due date present,
// known kind, and the kind's required fields. The kind rules are exact: a
// reference a kind does not require must be absent. In particular a plain
// expense carrying a card and statement month would be indistinguishable
// from a statement settlement, which only the ledger itself may create.
func (e *Entry) Validate() error {
	rule, ok := KindRules[e.Kind]
	if !ok {
		return fmt.Errorf("%w: unknown entry kind %q", errs.ErrValidation, e.Kind)
	}
	if e.Description == "" {
		return fmt.Errorf("%w: description is required", errs.ErrValidation)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", errs.ErrValidation)
	}
	if e.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", errs.ErrValidation)
	}
	if e.AccountID == 0 {
		return fmt.Errorf("%w: account is required", errs.ErrValidation)
	}
	if rule.RequiresCard && e.CardID == nil {
		return fmt.Errorf("%w: card charges require a card", errs.ErrValidation)
	}
	if !rule.RequiresCard && e.CardID != nil {
		return fmt.Errorf("%w: only card charges may reference a card", errs.ErrValidation)
	}
	if rule.RequiresStatementMonth && e.StatementMonth == nil {
		return fmt.Errorf("%w: card charges require a statement month", errs.ErrValidation)
	}
	if !rule.RequiresStatementMonth && e.StatementMonth != nil {
		return fmt.Errorf("%w: only card charges carry a statement month", errs.ErrValidation)
	}
	if !rule.RequiresDestination && e.DestinationAccountID != nil {
		return fmt.Errorf("%w: only transfers carry a destination account", errs.ErrValidation)
	}
	if rule.RequiresDestination {
		if e.DestinationAccountID == nil {
			return fmt.Errorf("%w: transfers require a destination account", errs.ErrValidation)
		}
		if *e.DestinationAccountID == e.AccountID {
			return fmt.Errorf("%w: source and destination accounts must differ", errs.ErrValidation)
		}
		if e.TransferRole != TransferOutbound && e.TransferRole != TransferInbound {
			return fmt.Errorf("%w: transfer legs require a role", errs.ErrValidation)
		}
	}
	return nil
}

// BalanceDelta is the signed amount applied to the owning account when the
// entry is paid. Transfer legs debit (outbound) or credit (inbound) only
// their own account; the pair nets to zero.
func (e *Entry) BalanceDelta() decimal.Decimal {
	rule := KindRules[e.Kind]
	sign := rule.Sign
	if e.Kind == KindTransfer {
		if e.TransferRole == TransferOutbound {
			sign = -1
		} else {
			sign = +1
		}
	}
	if sign < 0 {
		return e.Amount.Neg()
	}
	return e.Amount
}
