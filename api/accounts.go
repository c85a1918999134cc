package api

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/marciomartinho/minhas-financas/database"
	"github.com/marciomartinho/minhas-financas/models"

	"github.com/gin-gonic/gin"
)

// AccountHandler manages accounts
type AccountHandler struct{}

// NewAccountHandler creates an account handler
func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

// CreateAccountRequest creates an account
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=100" example:"Main Checking"`
	Kind           string          `json:"kind" binding:"required" example:"checking"`
	OpeningBalance decimal.Decimal `json:"opening_balance" example:"1000.00"`
	ImageFile      string          `json:"image_file"`
}

// UpdateAccountRequest updates an account's mutable fields. The opening
// balance is fixed at creation and the current balance only moves through
// the ledger.
type UpdateAccountRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	ImageFile *string `json:"image_file"`
}

// List lists accounts
// @Summary List accounts
// @Description Lists all accounts with their running balances.
// @Tags accounts
// @Produce json
// @Param kind query string false "account kind filter (checking / investment)"
// @Success 200 {object} Response{data=[]models.Account} "accounts"
// @Router /api/v1/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	query := database.DB.Model(&models.Account{})
	if kind := c.Query("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	var accounts []models.Account
	if err := query.Order("name").Find(&accounts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, accounts)
}

// Create creates an account
// @Summary Create an account
// @Description Creates a bank or investment account. The current balance starts at the opening balance.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "account data"
// @Success 200 {object} Response{data=models.Account} "created account"
// @Failure 400 {object} Response "invalid request or duplicate name"
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "name must not be empty")
		return
	}
	if req.Kind != models.AccountChecking && req.Kind != models.AccountInvestment {
		BadRequest(c, "kind must be checking or investment")
		return
	}

	// name uniqueness
	var existing models.Account
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		BadRequest(c, "an account with this name already exists")
		return
	}

	account := models.Account{
		Name:           req.Name,
		Kind:           req.Kind,
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.OpeningBalance,
		ImageFile:      req.ImageFile,
	}
	if err := database.DB.Create(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create account failed"))
		return
	}

	SuccessWithMessage(c, "account created", account)
}

// Update updates an account
// @Summary Update an account
// @Description Renames an account or changes its image. Balances are not editable here.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path int true "account id"
// @Param request body UpdateAccountRequest true "fields to update"
// @Success 200 {object} Response{data=models.Account} "updated account"
// @Failure 404 {object} Response "account not found"
// @Router /api/v1/accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid account id")
		return
	}

	var account models.Account
	if err := database.DB.First(&account, uint(id)).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	var req UpdateAccountRequest
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
	if req.ImageFile != nil {
		fields["image_file"] = *req.ImageFile
	}
	if len(fields) > 0 {
		if err := database.DB.Model(&account).Updates(fields).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update account failed"))
			return
		}
	}

	SuccessWithMessage(c, "account updated", account)
}

// Delete removes an account
// @Summary Delete an account
// @Description Deletes an account. Refused while any entry still references it as source or destination.
// @Tags accounts
// @Produce json
// @Param id path int true "account id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "account not found"
// @Failure 409 {object} Response "entries still reference the account"
// @Router /api/v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid account id")
		return
	}

	var account models.Account
	if err := database.DB.First(&account, uint(id)).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	var refs int64
	database.DB.Model(&models.Entry{}).
		Where("account_id = ? OR destination_account_id = ?", account.ID, account.ID).
		Count(&refs)
	if refs > 0 {
		Conflict(c, "account still has entries, delete them first")
		return
	}

	if err := database.DB.Delete(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete account failed"))
		return
	}

	SuccessWithMessage(c, "account deleted", nil)
}
