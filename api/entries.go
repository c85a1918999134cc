package api

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marciomartinho/minhas-financas/database"
	"github.com/marciomartinho/minhas-financas/ledger"
	"github.com/marciomartinho/minhas-financas/models"

	"github.com/gin-gonic/gin"
)

// EntryHandler manages ledger entries
type EntryHandler struct{}

// NewEntryHandler creates an entry handler
func NewEntryHandler() *EntryHandler {
	return &EntryHandler{}
}

// CreateEntryRequest creates one entry or a whole series
type CreateEntryRequest struct {
	Description    string          `json:"description" binding:"required" example:"Groceries"`
	Amount         decimal.Decimal `json:"amount" example:"99.99"`
	Kind           string          `json:"kind" binding:"required" example:"expense"`
	AccountID      uint            `json:"account_id" binding:"required" example:"1"`
	CategoryID     *uint           `json:"category_id" example:"2"`
	SubcategoryID  *uint           `json:"subcategory_id"`
	CardID         *uint           `json:"card_id"`
	Tag            string          `json:"tag" example:"household"`
	DueDate        string          `json:"due_date" binding:"required" example:"2026-03-15"`
	StatementMonth string          `json:"statement_month" example:"2026-03"`
	Recurrence     string          `json:"recurrence" example:"single"`
	Installments   int             `json:"installments" example:"12"`
}

// UpdateEntryRequest updates an entry; absent fields stay untouched. With
// propagate=true the amount/account/classification changes broadcast to
// every series sibling due on or after this entry.
type UpdateEntryRequest struct {
	Description   *string          `json:"description"`
	Amount        *decimal.Decimal `json:"amount"`
	DueDate       *string          `json:"due_date"`
	AccountID     *uint            `json:"account_id"`
	CategoryID    *uint            `json:"category_id"`
	SubcategoryID *uint            `json:"subcategory_id"`
	Tag           *string          `json:"tag"`
	Propagate     bool             `json:"propagate"`
}

// PayEntryRequest optionally overrides the payment date (defaults to today)
type PayEntryRequest struct {
	PaymentDate string `json:"payment_date" example:"2026-03-15"`
}

// EntryListRequest filters the entry list
type EntryListRequest struct {
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" example:"10"`
	Kind       string `form:"kind" example:"expense"`
	Status     string `form:"status" example:"pending"`
	AccountID  uint   `form:"account_id"`
	CategoryID uint   `form:"category_id"`
	CardID     uint   `form:"card_id"`
	Tag        string `form:"tag"`
	StartDate  string `form:"start_date" example:"2026-01-01"`
	EndDate    string `form:"end_date" example:"2026-12-31"`
}

// parseDate parses a YYYY-MM-DD date in the local zone.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// parseMonth parses a YYYY-MM statement period in the local zone.
func parseMonth(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01", s, time.Local)
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Create creates a ledger entry
// @Summary Create an entry or series
// @Description Creates one entry, an installment series, or a periodic series depending on recurrence. All occurrences are materialized immediately.
// @Tags entries
// @Accept json
// @Produce json
// @Param request body CreateEntryRequest true "entry data"
// @Success 200 {object} Response{data=[]models.Entry} "created entries, first is the series handle"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "referenced account/category/card absent"
// @Router /api/v1/entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	if req.Recurrence == "" {
		req.Recurrence = models.RecurrenceSingle
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		BadRequest(c, "due_date must be formatted as 2006-01-02")
		return
	}
	var statementMonth *time.Time
	if req.StatementMonth != "" {
		m, err := parseMonth(req.StatementMonth)
		if err != nil {
			BadRequest(c, "statement_month must be formatted as 2006-01")
			return
		}
		statementMonth = &m
	}

	// referenced rows must exist before the series is expanded
	var account models.Account
	if err := database.DB.First(&account, req.AccountID).Error; err != nil {
		NotFound(c, "account not found")
		return
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := database.DB.First(&category, *req.CategoryID).Error; err != nil {
			NotFound(c, "category not found")
			return
		}
	}
	if req.CardID != nil {
		var card models.Card
		if err := database.DB.First(&card, *req.CardID).Error; err != nil {
			NotFound(c, "card not found")
			return
		}
	}

	var entries []models.Entry
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var genErr error
		entries, genErr = ledger.Generate(tx, ledger.SeriesRequest{
			Description:    req.Description,
			Amount:         req.Amount,
			Kind:           req.Kind,
			AccountID:      req.AccountID,
			CardID:         req.CardID,
			CategoryID:     req.CategoryID,
			SubcategoryID:  req.SubcategoryID,
			Tag:            req.Tag,
			DueDate:        dueDate,
			StatementMonth: statementMonth,
			Recurrence:     req.Recurrence,
			Installments:   req.Installments,
		})
		return genErr
	})
	if err != nil {
		LedgerError(c, err)
		return
	}

	SuccessWithMessage(c, "entries created", entries)
}

// List lists ledger entries
// @Summary List entries
// @Description Lists entries with pagination and filtering by kind, status, account, category, card, tag and due-date range.
// @Tags entries
// @Produce json
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Param kind query string false "entry kind"
// @Param status query string false "entry status"
// @Param account_id query int false "account filter"
// @Param category_id query int false "category filter"
// @Param card_id query int false "card filter"
// @Param tag query string false "tag filter"
// @Param start_date query string false "due date from (2026-01-01)"
// @Param end_date query string false "due date to (2026-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Entry}} "entries"
// @Router /api/v1/entries [get]
func (h *EntryHandler) List(c *gin.Context) {
	var req EntryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Entry{})
	if req.Kind != "" {
		query = query.Where("kind = ?", req.Kind)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.AccountID != 0 {
		query = query.Where("account_id = ?", req.AccountID)
	}
	if req.CategoryID != 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.CardID != 0 {
		query = query.Where("card_id = ?", req.CardID)
	}
	if req.Tag != "" {
		query = query.Where("tag = ?", req.Tag)
	}
	if req.StartDate != "" {
		t, err := parseDate(req.StartDate)
		if err != nil {
			BadRequest(c, "start_date must be formatted as 2006-01-02")
			return
		}
		query = query.Where("due_date >= ?", t)
	}
	if req.EndDate != "" {
		t, err := parseDate(req.EndDate)
		if err != nil {
			BadRequest(c, "end_date must be formatted as 2006-01-02")
			return
		}
		query = query.Where("due_date <= ?", t)
	}

	var total int64
	query.Count(&total)

	var entries []models.Entry
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("due_date DESC, id DESC").Offset(offset).Limit(req.PageSize).Find(&entries).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     entries,
	})
}

// Update edits an entry
// @Summary Edit an entry
// @Description Updates an entry. A paid entry's amount change reverses and reapplies its balance effect. With propagate=true the change broadcasts to series siblings due on or after this entry.
// @Tags entries
// @Accept json
// @Produce json
// @Param id path int true "entry id"
// @Param request body UpdateEntryRequest true "fields to update"
// @Success 200 {object} Response{data=models.Entry} "updated entry"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "entry not found"
// @Failure 409 {object} Response "illegal state transition"
// @Router /api/v1/entries/{id} [put]
func (h *EntryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid entry id")
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	upd := ledger.EntryUpdate{
		Description:   req.Description,
		Amount:        req.Amount,
		AccountID:     req.AccountID,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Tag:           req.Tag,
	}
	if req.DueDate != nil {
		t, err := parseDate(*req.DueDate)
		if err != nil {
			BadRequest(c, "due_date must be formatted as 2006-01-02")
			return
		}
		upd.DueDate = &t
	}

	var entry *models.Entry
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var editErr error
		entry, editErr = ledger.Edit(tx, uint(id), upd, req.Propagate)
		return editErr
	})
	if err != nil {
		LedgerError(c, err)
		return
	}

	SuccessWithMessage(c, "entry updated", entry)
}

// Delete removes an entry
// @Summary Delete an entry
// @Description Deletes an entry, reversing its balance effect when paid. With cascade=true every series sibling due on or after this entry is removed too. Deleting a transfer leg removes the partner leg.
// @Tags entries
// @Produce json
// @Param id path int true "entry id"
// @Param cascade query bool false "delete this and all future occurrences"
// @Success 200 {object} Response "number of entries removed"
// @Failure 404 {object} Response "entry not found"
// @Router /api/v1/entries/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid entry id")
		return
	}
	cascade := c.Query("cascade") == "true"

	var removed int
	var warning string
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var delErr error
		removed, delErr = ledger.Delete(tx, uint(id), cascade)
		if delErr != nil && ledger.IsConsistencyWarning(delErr) {
			// located rows were removed; surface the inconsistency without
			// failing the action
			warning = delErr.Error()
			return nil
		}
		return delErr
	})
	if err != nil {
		LedgerError(c, err)
		return
	}

	SuccessWithMessage(c, "entries deleted", gin.H{
		"removed": removed,
		"warning": warning,
	})
}

// Pay marks an entry paid
// @Summary Mark an entry paid
// @Description Transitions the entry into paid, applying its balance effect. For a transfer both legs transition together.
// @Tags entries
// @Accept json
// @Produce json
// @Param id path int true "entry id"
// @Param request body PayEntryRequest false "payment date override"
// @Success 200 {object} Response{data=models.Entry} "paid entry"
// @Failure 404 {object} Response "entry not found"
// @Failure 409 {object} Response "already paid, cancelled, or a card charge"
// @Router /api/v1/entries/{id}/pay [post]
func (h *EntryHandler) Pay(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid entry id")
		return
	}

	payDate := today()
	var req PayEntryRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.PaymentDate != "" {
		t, perr := parseDate(req.PaymentDate)
		if perr != nil {
			BadRequest(c, "payment_date must be formatted as 2006-01-02")
			return
		}
		payDate = t
	}

	var entry *models.Entry
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var payErr error
		entry, payErr = ledger.MarkPaid(tx, uint(id), payDate)
		return payErr
	})
	if err != nil {
		LedgerError(c, err)
		return
	}

	SuccessWithMessage(c, "entry paid", entry)
}

// Unpay reverts an entry to pending
// @Summary Revert an entry to pending
// @Description Reverses the balance effect and clears the payment date. For a transfer both legs revert together.
// @Tags entries
// @Produce json
// @Param id path int true "entry id"
// @Success 200 {object} Response{data=models.Entry} "pending entry"
// @Failure 404 {object} Response "entry not found"
// @Failure 409 {object} Response "entry is not paid"
// @Router /api/v1/entries/{id}/unpay [post]
func (h *EntryHandler) Unpay(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid entry id")
		return
	}

	var entry *models.Entry
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var payErr error
		entry, payErr = ledger.MarkPending(tx, uint(id))
		return payErr
	})
	if err != nil {
		LedgerError(c, err)
		return
	}

	SuccessWithMessage(c, "entry reverted to pending", entry)
}

// Cancel cancels a pending entry
// @Summary Cancel a pending entry
// @Description Moves a pending entry to the terminal cancelled state. Cancelled entries never affect balances.
// @Tags entries
// @Produce json
// @Param id path int true "entry id"
// @Success 200 {object} Response{data=models.Entry} "cancelled entry"
// @Failure 404 {object} Response "entry not found"
// @Failure 409 {object} Response "entry is not pending"
// @Router /api/v1/entries/{id}/cancel [post]
func (h *EntryHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid entry id")
		return
	}

	var entry *models.Entry
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var cErr error
		entry, cErr = ledger.Cancel(tx, uint(id))
		return cErr
	})
	if err != nil {
		LedgerError(c, err)
		return
	}

	SuccessWithMessage(c, "entry cancelled", entry)
}
