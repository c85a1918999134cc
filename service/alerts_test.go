package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/marciomartinho/minhas-financas/config"
	"github.com/marciomartinho/minhas-financas/models"
)

func TestFormatDigest(t *testing.T) {
	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	entries := []models.Entry{
		{
			Description: "Rent",
			Amount:      decimal.RequireFromString("1500.00"),
			Kind:        models.KindExpense,
			Account:     models.Account{Name: "Main Checking"},
		},
		{
			Description: "Internet",
			Amount:      decimal.RequireFromString("99.90"),
			Kind:        models.KindExpense,
			Account:     models.Account{Name: "Main Checking"},
		},
		{
			Description: "Salary",
			Amount:      decimal.RequireFromString("7000.00"),
			Kind:        models.KindIncome,
			Account:     models.Account{Name: "Main Checking"},
		},
	}

	body := FormatDigest(entries, due)

	assert.Contains(t, body, "3 entries due on 2026-03-15")
	assert.Contains(t, body, "=== INCOME DUE ===")
	assert.Contains(t, body, "=== EXPENSES DUE ===")
	assert.Contains(t, body, "- Rent: 1500.00 (Main Checking)")
	assert.Contains(t, body, "Total: 1599.90")
	assert.Contains(t, body, "Total: 7000.00")
}

func TestEmailServiceDisabled(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{})
	err := s.Send("someone@example.com", "subject", "body")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}
