package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marciomartinho/minhas-financas/config"
	"github.com/marciomartinho/minhas-financas/errs"
	"github.com/marciomartinho/minhas-financas/models"
)

// AlertService builds and sends the due-date digest: pending expenses and
// incomes due in alert.days_before days. It only reads ledger state; an
// external cron triggers Run through the API, there is no in-process
// scheduler.
type AlertService struct {
	db    *gorm.DB
	email *EmailService
	cfg   *config.AlertConfig
}

// NewAlertService creates an alert service
func NewAlertService(db *gorm.DB, email *EmailService, cfg *config.AlertConfig) *AlertService {
	return &AlertService{db: db, email: email, cfg: cfg}
}

// DueEntries returns the pending expense/income entries due on the given
// date, ordered by kind then description.
func (s *AlertService) DueEntries(due time.Time) ([]models.Entry, error) {
	var entries []models.Entry
	err := s.db.Preload("Account").
		Where("due_date = ? AND status = ? AND kind IN ?",
			due, models.StatusPending, []string{models.KindExpense, models.KindIncome}).
		Order("kind, description").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query due entries: %w", err)
	}
	return entries, nil
}

// Run checks for entries due in days_before days and sends one digest
// email. It returns the number of entries alerted on; zero with a nil error
// means nothing was due. Delivery failures are logged and returned but never
// touch ledger state, and are never retried.
func (s *AlertService) Run(now time.Time) (int, error) {
	if s.cfg.Recipient == "" {
		return 0, fmt.Errorf("%w: alert.recipient not configured", errs.ErrValidation)
	}

	due := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, s.cfg.DaysBefore)
	entries, err := s.DueEntries(due)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		log.Println("alerts: nothing due")
		return 0, nil
	}

	subject := fmt.Sprintf("[Finances] %d entries due on %s", len(entries), due.Format("2006-01-02"))
	body := FormatDigest(entries, due)

	if err := s.email.Send(s.cfg.Recipient, subject, body); err != nil {
		log.Printf("alerts: delivery failed: %v", err)
		return 0, err
	}
	log.Printf("alerts: digest sent, %d entries", len(entries))
	return len(entries), nil
}

// FormatDigest renders the plain-text digest, incomes first, with per-group
// totals.
func FormatDigest(entries []models.Entry, due time.Time) string {
	var incomes, expenses []models.Entry
	for _, e := range entries {
		if e.Kind == models.KindIncome {
			incomes = append(incomes, e)
		} else {
			expenses = append(expenses, e)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello!\n\n")
	fmt.Fprintf(&b, "You have %d entries due on %s:\n\n", len(entries), due.Format("2006-01-02"))

	writeGroup := func(title string, group []models.Entry) {
		if len(group) == 0 {
			return
		}
		fmt.Fprintf(&b, "=== %s ===\n", title)
		total := decimal.Zero
		for _, e := range group {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", e.Description, e.Amount.StringFixed(2), e.Account.Name)
			total = total.Add(e.Amount)
		}
		fmt.Fprintf(&b, "Total: %s\n\n", total.StringFixed(2))
	}
	writeGroup("INCOME DUE", incomes)
	writeGroup("EXPENSES DUE", expenses)

	b.WriteString("Don't forget to record the payments in the system!\n\n")
	b.WriteString("Regards,\nMinhas Finanças")
	return b.String()
}
