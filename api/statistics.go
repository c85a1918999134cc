package api

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marciomartinho/minhas-financas/database"
	"github.com/marciomartinho/minhas-financas/ledger"
	"github.com/marciomartinho/minhas-financas/models"

	"github.com/gin-gonic/gin"
)

// StatisticsHandler serves aggregate views over entries
type StatisticsHandler struct{}

// NewStatisticsHandler creates a statistics handler
func NewStatisticsHandler() *StatisticsHandler {
	return &StatisticsHandler{}
}

// MonthlySummary aggregates one month of activity
type MonthlySummary struct {
	Period         string          `json:"period"`
	IncomePaid     decimal.Decimal `json:"income_paid"`
	IncomePending  decimal.Decimal `json:"income_pending"`
	ExpensePaid    decimal.Decimal `json:"expense_paid"`
	ExpensePending decimal.Decimal `json:"expense_pending"`
	CardCharges    decimal.Decimal `json:"card_charges"`
	Net            decimal.Decimal `json:"net"`
	TotalBalance   decimal.Decimal `json:"total_balance"`
}

// CategoryBreakdownItem is one category's share of the month's expenses
type CategoryBreakdownItem struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Color        string          `json:"color"`
	Amount       decimal.Decimal `json:"amount"`
	Percent      decimal.Decimal `json:"percent"`
}

func (h *StatisticsHandler) period(c *gin.Context) (time.Time, time.Time, bool) {
	now := today()
	month := int(now.Month())
	year := now.Year()
	var err error
	if v := c.Query("month"); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			BadRequest(c, "month must be between 1 and 12")
			return time.Time{}, time.Time{}, false
		}
	}
	if v := c.Query("year"); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil {
			BadRequest(c, "invalid year")
			return time.Time{}, time.Time{}, false
		}
	}
	ref := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return ref, ledger.MonthEnd(ref), true
}

func sumEntries(kind, status string, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := database.DB.Model(&models.Entry{}).
		Where("kind = ? AND status = ? AND due_date >= ? AND due_date <= ?", kind, status, start, end).
		Select("COALESCE(SUM(amount), 0)").Row()
	err := row.Scan(&total)
	return total, err
}

// Summary shows one month's totals
// @Summary Monthly summary
// @Description Totals income and expenses for the month by status, card charges by statement month, and the combined balance of all accounts.
// @Tags statistics
// @Produce json
// @Param month query int false "month 1-12, default current"
// @Param year query int false "year, default current"
// @Success 200 {object} Response{data=MonthlySummary} "summary"
// @Router /api/v1/statistics/summary [get]
func (h *StatisticsHandler) Summary(c *gin.Context) {
	start, end, ok := h.period(c)
	if !ok {
		return
	}

	summary := MonthlySummary{Period: start.Format("2006-01")}
	var err error
	if summary.IncomePaid, err = sumEntries(models.KindIncome, models.StatusPaid, start, end); err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	if summary.IncomePending, err = sumEntries(models.KindIncome, models.StatusPending, start, end); err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	if summary.ExpensePaid, err = sumEntries(models.KindExpense, models.StatusPaid, start, end); err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	if summary.ExpensePending, err = sumEntries(models.KindExpense, models.StatusPending, start, end); err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	row := database.DB.Model(&models.Entry{}).
		Where("kind = ? AND statement_month >= ? AND statement_month <= ?", models.KindCardCharge, start, end).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err = row.Scan(&summary.CardCharges); err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	row = database.DB.Model(&models.Account{}).
		Select("COALESCE(SUM(current_balance), 0)").Row()
	if err = row.Scan(&summary.TotalBalance); err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	income := summary.IncomePaid.Add(summary.IncomePending)
	expense := summary.ExpensePaid.Add(summary.ExpensePending)
	summary.Net = income.Sub(expense).Sub(summary.CardCharges)

	Success(c, summary)
}

// ByCategory breaks the month's expenses down per category
// @Summary Expenses by category
// @Description Groups the month's expenses and card charges per category with each category's share of the total.
// @Tags statistics
// @Produce json
// @Param month query int false "month 1-12, default current"
// @Param year query int false "year, default current"
// @Success 200 {object} Response{data=[]CategoryBreakdownItem} "breakdown"
// @Router /api/v1/statistics/by-category [get]
func (h *StatisticsHandler) ByCategory(c *gin.Context) {
	start, end, ok := h.period(c)
	if !ok {
		return
	}

	type bucket struct {
		CategoryID uint
		Amount     decimal.Decimal
	}
	var buckets []bucket
	err := database.DB.Model(&models.Entry{}).
		Select("category_id, COALESCE(SUM(amount), 0) AS amount").
		Where("category_id IS NOT NULL").
		Where(database.DB.
			Where("kind = ? AND due_date >= ? AND due_date <= ?", models.KindExpense, start, end).
			Or("kind = ? AND statement_month >= ? AND statement_month <= ?", models.KindCardCharge, start, end)).
		Group("category_id").
		Order("amount DESC").
		Scan(&buckets).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	var categories []models.Category
	if err := database.DB.Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	names := make(map[uint]models.Category, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat
	}

	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.Amount)
	}

	items := make([]CategoryBreakdownItem, 0, len(buckets))
	for _, b := range buckets {
		item := CategoryBreakdownItem{
			CategoryID: b.CategoryID,
			Amount:     b.Amount,
		}
		if cat, ok := names[b.CategoryID]; ok {
			item.CategoryName = cat.Name
			item.Color = cat.Color
		}
		if total.IsPositive() {
			item.Percent = b.Amount.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
		}
		items = append(items, item)
	}

	Success(c, items)
}
