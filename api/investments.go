package api

import (
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marciomartinho/minhas-financas/database"
	"github.com/marciomartinho/minhas-financas/ledger"
	"github.com/marciomartinho/minhas-financas/models"

	"github.com/gin-gonic/gin"
)

// InvestmentHandler manages investment accounts and their balance history
type InvestmentHandler struct{}

// NewInvestmentHandler creates an investment handler
func NewInvestmentHandler() *InvestmentHandler {
	return &InvestmentHandler{}
}

// InvestmentPosition is one investment account with its yield
type InvestmentPosition struct {
	Account      models.Account              `json:"account"`
	Yield        decimal.Decimal             `json:"yield"`
	YieldPercent decimal.Decimal             `json:"yield_percent"`
	Snapshots    []models.InvestmentSnapshot `json:"snapshots"`
}

// InvestmentOverview aggregates all investment positions
type InvestmentOverview struct {
	Total     decimal.Decimal      `json:"total"`
	Invested  decimal.Decimal      `json:"invested"`
	Yield     decimal.Decimal      `json:"yield"`
	Positions []InvestmentPosition `json:"positions"`
}

// RevalueRequest updates an investment account's balance
type RevalueRequest struct {
	Balance decimal.Decimal `json:"balance" binding:"required"`
	Date    string          `json:"date" example:"2026-08-31"`
}

// Overview lists investment accounts with yield over opening balance
// @Summary Investment overview
// @Description Lists investment accounts with current balance, yield over the opening balance and snapshot history, plus portfolio totals.
// @Tags investments
// @Produce json
// @Success 200 {object} Response{data=InvestmentOverview} "overview"
// @Router /api/v1/investments [get]
func (h *InvestmentHandler) Overview(c *gin.Context) {
	var accounts []models.Account
	err := database.DB.Where("kind = ?", models.AccountInvestment).Order("name").Find(&accounts).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	overview := InvestmentOverview{Positions: make([]InvestmentPosition, 0, len(accounts))}
	for _, account := range accounts {
		var snapshots []models.InvestmentSnapshot
		err = database.DB.Where("account_id = ?", account.ID).
			Order("date DESC, id DESC").Find(&snapshots).Error
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "query failed"))
			return
		}

		yield := account.CurrentBalance.Sub(account.OpeningBalance)
		percent := decimal.Zero
		if account.OpeningBalance.IsPositive() {
			percent = yield.Div(account.OpeningBalance).Mul(decimal.NewFromInt(100)).Round(2)
		}

		overview.Total = overview.Total.Add(account.CurrentBalance)
		overview.Invested = overview.Invested.Add(account.OpeningBalance)
		overview.Yield = overview.Yield.Add(yield)
		overview.Positions = append(overview.Positions, InvestmentPosition{
			Account:      account,
			Yield:        yield,
			YieldPercent: percent,
			Snapshots:    snapshots,
		})
	}

	Success(c, overview)
}

// Revalue sets an investment account's balance and records a snapshot
// @Summary Revalue an investment account
// @Description Sets the account's current balance to the reported value and appends a dated snapshot. Only investment accounts can be revalued.
// @Tags investments
// @Accept json
// @Produce json
// @Param id path int true "account id"
// @Param request body RevalueRequest true "new balance"
// @Success 200 {object} Response{data=models.InvestmentSnapshot} "snapshot"
// @Failure 400 {object} Response "account is not an investment account"
// @Failure 404 {object} Response "account not found"
// @Router /api/v1/investments/accounts/{id}/balance [post]
func (h *InvestmentHandler) Revalue(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid account id")
		return
	}

	var req RevalueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	date := today()
	if req.Date != "" {
		if date, err = parseDate(req.Date); err != nil {
			BadRequest(c, "date must be formatted as 2006-01-02")
			return
		}
	}

	var snapshot models.InvestmentSnapshot
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, uint(id)).Error; err != nil {
			return err
		}
		if err := ledger.Revalue(tx, &account, req.Balance); err != nil {
			return err
		}
		snapshot = models.InvestmentSnapshot{
			AccountID: account.ID,
			Date:      date,
			Balance:   req.Balance,
		}
		return tx.Create(&snapshot).Error
	})
	if err == gorm.ErrRecordNotFound {
		NotFound(c, "account not found")
		return
	}
	if err != nil {
		LedgerError(c, err)
		return
	}

	SuccessWithMessage(c, "balance updated", snapshot)
}

// DeleteSnapshot removes a snapshot and restores the previous balance
// @Summary Delete an investment snapshot
// @Description Deletes a balance snapshot. When it is the latest one for the account, the account balance falls back to the snapshot before it, or to the opening balance when none remains.
// @Tags investments
// @Produce json
// @Param id path int true "snapshot id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "snapshot not found"
// @Router /api/v1/investments/snapshots/{id} [delete]
func (h *InvestmentHandler) DeleteSnapshot(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid snapshot id")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var snapshot models.InvestmentSnapshot
		if err := tx.First(&snapshot, uint(id)).Error; err != nil {
			return err
		}

		var latest models.InvestmentSnapshot
		if err := tx.Where("account_id = ?", snapshot.AccountID).
			Order("date DESC, id DESC").First(&latest).Error; err != nil {
			return err
		}

		if err := tx.Delete(&snapshot).Error; err != nil {
			return err
		}
		if latest.ID != snapshot.ID {
			return nil
		}

		// the deleted snapshot set the current balance, roll it back
		var account models.Account
		if err := tx.First(&account, snapshot.AccountID).Error; err != nil {
			return err
		}
		restored := account.OpeningBalance
		var previous models.InvestmentSnapshot
		err := tx.Where("account_id = ? AND id <> ?", snapshot.AccountID, snapshot.ID).
			Order("date DESC, id DESC").First(&previous).Error
		if err == nil {
			restored = previous.Balance
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
		return ledger.Revalue(tx, &account, restored)
	})
	if err == gorm.ErrRecordNotFound {
		NotFound(c, "snapshot not found")
		return
	}
	if err != nil {
		LedgerError(c, err)
		return
	}

	SuccessWithMessage(c, "snapshot deleted", nil)
}
