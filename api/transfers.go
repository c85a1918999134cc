package api

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marciomartinho/minhas-financas/database"
	"github.com/marciomartinho/minhas-financas/ledger"
	"github.com/marciomartinho/minhas-financas/models"

	"github.com/gin-gonic/gin"
)

// TransferHandler manages transfers between accounts
type TransferHandler struct{}

// NewTransferHandler creates a transfer handler
func NewTransferHandler() *TransferHandler {
	return &TransferHandler{}
}

// CreateTransferRequest creates a transfer pair
type CreateTransferRequest struct {
	Description          string          `json:"description" binding:"required" example:"Savings transfer"`
	Amount               decimal.Decimal `json:"amount" example:"50.00"`
	SourceAccountID      uint            `json:"source_account_id" binding:"required" example:"1"`
	DestinationAccountID uint            `json:"destination_account_id" binding:"required" example:"2"`
	DueDate              string          `json:"due_date" binding:"required" example:"2026-03-15"`
	Tag                  string          `json:"tag"`
}

// Create creates a transfer
// @Summary Create a transfer
// @Description Materializes a transfer as two linked legs, an outbound leg on the source account and an inbound leg on the destination account, sharing a transfer group id.
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body CreateTransferRequest true "transfer data"
// @Success 200 {object} Response{data=[]models.Entry} "both legs, outbound first"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "account not found"
// @Router /api/v1/transfers [post]
func (h *TransferHandler) Create(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		BadRequest(c, "due_date must be formatted as 2006-01-02")
		return
	}

	var source, destination models.Account
	if err := database.DB.First(&source, req.SourceAccountID).Error; err != nil {
		NotFound(c, "source account not found")
		return
	}
	if err := database.DB.First(&destination, req.DestinationAccountID).Error; err != nil {
		NotFound(c, "destination account not found")
		return
	}

	var legs []models.Entry
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var tErr error
		legs, tErr = ledger.CreateTransfer(tx, ledger.TransferRequest{
			Description:          req.Description,
			Amount:               req.Amount,
			SourceAccountID:      req.SourceAccountID,
			DestinationAccountID: req.DestinationAccountID,
			DueDate:              dueDate,
			Tag:                  req.Tag,
		})
		return tErr
	})
	if err != nil {
		LedgerError(c, err)
		return
	}

	SuccessWithMessage(c, "transfer created", legs)
}
