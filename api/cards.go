package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marciomartinho/minhas-financas/database"
	"github.com/marciomartinho/minhas-financas/ledger"
	"github.com/marciomartinho/minhas-financas/models"

	"github.com/gin-gonic/gin"
)

// CardHandler manages credit cards and their statements
type CardHandler struct{}

// NewCardHandler creates a card handler
func NewCardHandler() *CardHandler {
	return &CardHandler{}
}

// CardCreateRequest creates a card
type CardCreateRequest struct {
	Name      string           `json:"name" binding:"required,min=1,max=100" example:"Platinum"`
	AccountID uint             `json:"account_id" binding:"required" example:"1"`
	DueDay    int              `json:"due_day" binding:"required" example:"10"`
	Limit     *decimal.Decimal `json:"limit"`
	ImageFile string           `json:"image_file"`
}

// CardUpdateRequest updates a card
type CardUpdateRequest struct {
	Name      *string          `json:"name" binding:"omitempty,min=1,max=100"`
	AccountID *uint            `json:"account_id"`
	DueDay    *int             `json:"due_day"`
	Limit     *decimal.Decimal `json:"limit"`
	ImageFile *string          `json:"image_file"`
}

// StatementResponse is one card statement period
type StatementResponse struct {
	Card    string          `json:"card"`
	Period  string          `json:"period"`
	Total   decimal.Decimal `json:"total"`
	Settled bool            `json:"settled"`
	Charges []models.Entry  `json:"charges"`
}

// PayStatementRequest settles a statement period
type PayStatementRequest struct {
	Period      string `json:"period" binding:"required" example:"2026-03"`
	PaymentDate string `json:"payment_date" example:"2026-03-10"`
}

// List lists cards
// @Summary List cards
// @Tags cards
// @Produce json
// @Success 200 {object} Response{data=[]models.Card} "cards"
// @Router /api/v1/cards [get]
func (h *CardHandler) List(c *gin.Context) {
	var cards []models.Card
	if err := database.DB.Order("name").Find(&cards).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, cards)
}

// Create creates a card
// @Summary Create a card
// @Description Creates a credit card bound to a checking account, with a billing due day between 1 and 31.
// @Tags cards
// @Accept json
// @Produce json
// @Param request body CardCreateRequest true "card data"
// @Success 200 {object} Response{data=models.Card} "created card"
// @Failure 400 {object} Response "invalid request or duplicate name"
// @Failure 404 {object} Response "owning account not found"
// @Router /api/v1/cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	var req CardCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "name must not be empty")
		return
	}
	if req.DueDay < 1 || req.DueDay > 31 {
		BadRequest(c, "due_day must be between 1 and 31")
		return
	}

	var account models.Account
	if err := database.DB.First(&account, req.AccountID).Error; err != nil {
		NotFound(c, "owning account not found")
		return
	}
	if account.Kind != models.AccountChecking {
		BadRequest(c, "cards must be bound to a checking account")
		return
	}

	var existing models.Card
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		BadRequest(c, "a card with this name already exists")
		return
	}

	card := models.Card{
		Name:      req.Name,
		AccountID: req.AccountID,
		DueDay:    req.DueDay,
		Limit:     req.Limit,
		ImageFile: req.ImageFile,
		Active:    true,
	}
	if err := database.DB.Create(&card).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create card failed"))
		return
	}

	SuccessWithMessage(c, "card created", card)
}

// Update updates a card
// @Summary Update a card
// @Tags cards
// @Accept json
// @Produce json
// @Param id path int true "card id"
// @Param request body CardUpdateRequest true "fields to update"
// @Success 200 {object} Response{data=models.Card} "updated card"
// @Failure 404 {object} Response "card not found"
// @Router /api/v1/cards/{id} [put]
func (h *CardHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid card id")
		return
	}

	var card models.Card
	if err := database.DB.First(&card, uint(id)).Error; err != nil {
		NotFound(c, "card not found")
		return
	}

	var req CardUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			BadRequest(c, "name must not be empty")
			return
		}
		fields["name"] = name
	}
	if req.AccountID != nil {
		var account models.Account
		if err := database.DB.First(&account, *req.AccountID).Error; err != nil {
			NotFound(c, "owning account not found")
			return
		}
		fields["account_id"] = *req.AccountID
	}
	if req.DueDay != nil {
		if *req.DueDay < 1 || *req.DueDay > 31 {
			BadRequest(c, "due_day must be between 1 and 31")
			return
		}
		fields["due_day"] = *req.DueDay
	}
	if req.Limit != nil {
		fields["limit"] = *req.Limit
	}
	if req.ImageFile != nil {
		fields["image_file"] = *req.ImageFile
	}
	if len(fields) > 0 {
		if err := database.DB.Model(&card).Updates(fields).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update card failed"))
			return
		}
	}

	SuccessWithMessage(c, "card updated", card)
}

// Toggle flips a card's active flag
// @Summary Activate or deactivate a card
// @Tags cards
// @Produce json
// @Param id path int true "card id"
// @Success 200 {object} Response{data=models.Card} "card"
// @Failure 404 {object} Response "card not found"
// @Router /api/v1/cards/{id}/toggle [post]
func (h *CardHandler) Toggle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid card id")
		return
	}

	var card models.Card
	if err := database.DB.First(&card, uint(id)).Error; err != nil {
		NotFound(c, "card not found")
		return
	}

	card.Active = !card.Active
	if err := database.DB.Model(&card).Update("active", card.Active).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update card failed"))
		return
	}

	SuccessWithMessage(c, "card updated", card)
}

// Delete removes a card
// @Summary Delete a card
// @Description Deletes a card. Refused while card charges still reference it.
// @Tags cards
// @Produce json
// @Param id path int true "card id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "card not found"
// @Failure 409 {object} Response "charges still reference the card"
// @Router /api/v1/cards/{id} [delete]
func (h *CardHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid card id")
		return
	}

	var card models.Card
	if err := database.DB.First(&card, uint(id)).Error; err != nil {
		NotFound(c, "card not found")
		return
	}

	var refs int64
	database.DB.Model(&models.Entry{}).Where("card_id = ?", card.ID).Count(&refs)
	if refs > 0 {
		Conflict(c, "card still has entries, deactivate it instead")
		return
	}

	if err := database.DB.Delete(&card).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete card failed"))
		return
	}

	SuccessWithMessage(c, "card deleted", nil)
}

// Statement shows a card's statement for one period
// @Summary Card statement
// @Description Lists the card charges whose statement month falls in the period, with the total and whether a settlement entry already exists.
// @Tags cards
// @Produce json
// @Param id path int true "card id"
// @Param period query string true "statement period (2026-03)"
// @Success 200 {object} Response{data=StatementResponse} "statement"
// @Failure 404 {object} Response "card not found"
// @Router /api/v1/cards/{id}/statement [get]
func (h *CardHandler) Statement(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid card id")
		return
	}
	period, err := parseMonth(c.Query("period"))
	if err != nil {
		BadRequest(c, "period must be formatted as 2006-01")
		return
	}

	var card models.Card
	if err := database.DB.First(&card, uint(id)).Error; err != nil {
		NotFound(c, "card not found")
		return
	}

	start := ledger.MonthStart(period)
	end := ledger.MonthEnd(period)

	var charges []models.Entry
	err = database.DB.
		Where("kind = ? AND card_id = ? AND statement_month >= ? AND statement_month <= ?",
			models.KindCardCharge, card.ID, start, end).
		Order("due_date, id").Find(&charges).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	total := decimal.Zero
	for _, charge := range charges {
		total = total.Add(charge.Amount)
	}

	var settled int64
	database.DB.Model(&models.Entry{}).
		Where("kind = ? AND card_id = ? AND statement_month >= ? AND statement_month <= ?",
			models.KindExpense, card.ID, start, end).
		Count(&settled)

	Success(c, StatementResponse{
		Card:    card.Name,
		Period:  start.Format("2006-01"),
		Total:   total,
		Settled: settled > 0,
		Charges: charges,
	})
}

// PayStatement settles a card statement
// @Summary Settle a card statement
// @Description Creates one paid settlement expense for the sum of the period's charges, dated at the card's due day, and debits the owning account. The charges themselves never change status.
// @Tags cards
// @Accept json
// @Produce json
// @Param id path int true "card id"
// @Param request body PayStatementRequest true "period to settle"
// @Success 200 {object} Response{data=models.Entry} "settlement entry"
// @Failure 400 {object} Response "no charges in the period"
// @Failure 404 {object} Response "card not found"
// @Failure 409 {object} Response "period already settled"
// @Router /api/v1/cards/{id}/statement/pay [post]
func (h *CardHandler) PayStatement(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid card id")
		return
	}

	var req PayStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	period, err := parseMonth(req.Period)
	if err != nil {
		BadRequest(c, "period must be formatted as 2006-01")
		return
	}
	payDate := today()
	if req.PaymentDate != "" {
		var t time.Time
		if t, err = parseDate(req.PaymentDate); err != nil {
			BadRequest(c, "payment_date must be formatted as 2006-01-02")
			return
		}
		payDate = t
	}

	var settlement *models.Entry
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var payErr error
		settlement, payErr = ledger.PayStatement(tx, uint(id), period, payDate)
		return payErr
	})
	if err != nil {
		LedgerError(c, err)
		return
	}

	SuccessWithMessage(c, "statement settled", settlement)
}
