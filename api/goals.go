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

// GoalHandler manages budget goals
type GoalHandler struct{}

// NewGoalHandler creates a goal handler
func NewGoalHandler() *GoalHandler {
	return &GoalHandler{}
}

// GoalCreateRequest creates a goal
type GoalCreateRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=100" example:"Groceries cap"`
	Type         string          `json:"type" binding:"required" example:"category"`
	CategoryID   *uint           `json:"category_id"`
	Tag          string          `json:"tag"`
	LimitAmount  decimal.Decimal `json:"limit_amount" binding:"required"`
	Period       string          `json:"period" binding:"required" example:"monthly"`
	StartDate    string          `json:"start_date" example:"2026-01-01"`
	AlertPercent int             `json:"alert_percent" example:"80"`
	AutoRenew    bool            `json:"auto_renew"`
	IncludeCard  *bool           `json:"include_card"`
}

// GoalUpdateRequest updates a goal
type GoalUpdateRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=100"`
	LimitAmount  *decimal.Decimal `json:"limit_amount"`
	AlertPercent *int             `json:"alert_percent"`
	AutoRenew    *bool            `json:"auto_renew"`
	IncludeCard  *bool            `json:"include_card"`
}

// GoalProgressResponse is the computed spend of a goal for one period
type GoalProgressResponse struct {
	Goal        models.Goal     `json:"goal"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Spent       decimal.Decimal `json:"spent"`
	Limit       decimal.Decimal `json:"limit"`
	Percent     decimal.Decimal `json:"percent"`
	AlertFired  bool            `json:"alert_fired"`
	Projected   bool            `json:"projected"`
}

// List lists goals
// @Summary List goals
// @Tags goals
// @Produce json
// @Success 200 {object} Response{data=[]models.Goal} "goals"
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	var goals []models.Goal
	if err := database.DB.Order("name").Find(&goals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, goals)
}

// Create creates a goal
// @Summary Create a goal
// @Description Creates a spending goal for a category, a tag, or all expenses. Only one active goal per target is allowed.
// @Tags goals
// @Accept json
// @Produce json
// @Param request body GoalCreateRequest true "goal data"
// @Success 200 {object} Response{data=models.Goal} "created goal"
// @Failure 400 {object} Response "invalid request or duplicate target"
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req GoalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "name must not be empty")
		return
	}
	switch req.Type {
	case models.GoalCategory:
		if req.CategoryID == nil {
			BadRequest(c, "category goals require category_id")
			return
		}
		var category models.Category
		if err := database.DB.First(&category, *req.CategoryID).Error; err != nil {
			NotFound(c, "category not found")
			return
		}
	case models.GoalTag:
		req.Tag = strings.TrimSpace(req.Tag)
		if req.Tag == "" {
			BadRequest(c, "tag goals require a tag")
			return
		}
	case models.GoalGlobal:
	default:
		BadRequest(c, "type must be category, tag or global")
		return
	}
	switch req.Period {
	case models.PeriodMonthly, models.PeriodQuarterly, models.PeriodYearly:
	default:
		BadRequest(c, "period must be monthly, quarterly or yearly")
		return
	}
	if !req.LimitAmount.IsPositive() {
		BadRequest(c, "limit_amount must be positive")
		return
	}
	if req.AlertPercent <= 0 || req.AlertPercent > 100 {
		req.AlertPercent = 80
	}

	start := ledger.MonthStart(today())
	if req.StartDate != "" {
		t, err := parseDate(req.StartDate)
		if err != nil {
			BadRequest(c, "start_date must be formatted as 2006-01-02")
			return
		}
		start = t
	}

	// one active goal per target
	probe := database.DB.Model(&models.Goal{}).Where("active = ? AND type = ?", true, req.Type)
	switch req.Type {
	case models.GoalCategory:
		probe = probe.Where("category_id = ?", *req.CategoryID)
	case models.GoalTag:
		probe = probe.Where("tag = ?", req.Tag)
	}
	var dup int64
	probe.Count(&dup)
	if dup > 0 {
		BadRequest(c, "an active goal already exists for this target")
		return
	}

	includeCard := true
	if req.IncludeCard != nil {
		includeCard = *req.IncludeCard
	}

	goal := models.Goal{
		Name:         req.Name,
		Type:         req.Type,
		CategoryID:   req.CategoryID,
		Tag:          req.Tag,
		LimitAmount:  req.LimitAmount,
		Period:       req.Period,
		StartDate:    start,
		AlertPercent: req.AlertPercent,
		AutoRenew:    req.AutoRenew,
		IncludeCard:  includeCard,
		Active:       true,
	}
	if err := database.DB.Create(&goal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create goal failed"))
		return
	}

	SuccessWithMessage(c, "goal created", goal)
}

// Update updates a goal
// @Summary Update a goal
// @Tags goals
// @Accept json
// @Produce json
// @Param id path int true "goal id"
// @Param request body GoalUpdateRequest true "fields to update"
// @Success 200 {object} Response{data=models.Goal} "updated goal"
// @Failure 404 {object} Response "goal not found"
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid goal id")
		return
	}

	var goal models.Goal
	if err := database.DB.First(&goal, uint(id)).Error; err != nil {
		NotFound(c, "goal not found")
		return
	}

	var req GoalUpdateRequest
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
	if req.LimitAmount != nil {
		if !req.LimitAmount.IsPositive() {
			BadRequest(c, "limit_amount must be positive")
			return
		}
		fields["limit_amount"] = *req.LimitAmount
	}
	if req.AlertPercent != nil {
		if *req.AlertPercent <= 0 || *req.AlertPercent > 100 {
			BadRequest(c, "alert_percent must be between 1 and 100")
			return
		}
		fields["alert_percent"] = *req.AlertPercent
	}
	if req.AutoRenew != nil {
		fields["auto_renew"] = *req.AutoRenew
	}
	if req.IncludeCard != nil {
		fields["include_card"] = *req.IncludeCard
	}
	if len(fields) > 0 {
		if err := database.DB.Model(&goal).Updates(fields).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update goal failed"))
			return
		}
	}

	SuccessWithMessage(c, "goal updated", goal)
}

// Toggle flips a goal's active flag
// @Summary Activate or deactivate a goal
// @Tags goals
// @Produce json
// @Param id path int true "goal id"
// @Success 200 {object} Response{data=models.Goal} "goal"
// @Failure 404 {object} Response "goal not found"
// @Router /api/v1/goals/{id}/toggle [post]
func (h *GoalHandler) Toggle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid goal id")
		return
	}

	var goal models.Goal
	if err := database.DB.First(&goal, uint(id)).Error; err != nil {
		NotFound(c, "goal not found")
		return
	}

	goal.Active = !goal.Active
	if err := database.DB.Model(&goal).Update("active", goal.Active).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update goal failed"))
		return
	}

	SuccessWithMessage(c, "goal updated", goal)
}

// Delete removes a goal and its history
// @Summary Delete a goal
// @Tags goals
// @Produce json
// @Param id path int true "goal id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "goal not found"
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid goal id")
		return
	}

	var goal models.Goal
	if err := database.DB.First(&goal, uint(id)).Error; err != nil {
		NotFound(c, "goal not found")
		return
	}

	database.DB.Where("goal_id = ?", goal.ID).Delete(&models.GoalHistory{})
	if err := database.DB.Delete(&goal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete goal failed"))
		return
	}

	SuccessWithMessage(c, "goal deleted", nil)
}

// Progress computes the spend of a goal for one period
// @Summary Goal progress
// @Description Computes spend against the goal's limit for the period containing the given month. Current and past periods count paid expenses by payment date; future periods project pending expenses by due date. Card charges enter by statement month when the goal includes cards.
// @Tags goals
// @Produce json
// @Param id path int true "goal id"
// @Param month query int false "month 1-12, default current"
// @Param year query int false "year, default current"
// @Success 200 {object} Response{data=GoalProgressResponse} "progress"
// @Failure 404 {object} Response "goal not found"
// @Router /api/v1/goals/{id}/progress [get]
func (h *GoalHandler) Progress(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid goal id")
		return
	}

	var goal models.Goal
	if err := database.DB.First(&goal, uint(id)).Error; err != nil {
		NotFound(c, "goal not found")
		return
	}

	now := today()
	month := int(now.Month())
	year := now.Year()
	if v := c.Query("month"); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			BadRequest(c, "month must be between 1 and 12")
			return
		}
	}
	if v := c.Query("year"); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil {
			BadRequest(c, "invalid year")
			return
		}
	}

	ref := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	start, end := goalPeriod(&goal, ref)
	future := start.After(ledger.MonthEnd(now))
	spent, err := goalSpend(&goal, start, end, future)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	percent := decimal.Zero
	if goal.LimitAmount.IsPositive() {
		percent = spent.Div(goal.LimitAmount).Mul(decimal.NewFromInt(100)).Round(1)
	}

	Success(c, GoalProgressResponse{
		Goal:        goal,
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   end.Format("2006-01-02"),
		Spent:       spent,
		Limit:       goal.LimitAmount,
		Percent:     percent,
		AlertFired:  percent.GreaterThanOrEqual(decimal.NewFromInt(int64(goal.AlertPercent))),
		Projected:   future,
	})
}

// Close snapshots the current period into goal history
// @Summary Close a goal period
// @Description Records the period's computed spend in goal history. Auto-renewing goals roll their start date to the next period; others are deactivated.
// @Tags goals
// @Produce json
// @Param id path int true "goal id"
// @Success 200 {object} Response{data=models.GoalHistory} "history record"
// @Failure 404 {object} Response "goal not found"
// @Failure 409 {object} Response "period already closed"
// @Router /api/v1/goals/{id}/close [post]
func (h *GoalHandler) Close(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid goal id")
		return
	}

	var goal models.Goal
	if err := database.DB.First(&goal, uint(id)).Error; err != nil {
		NotFound(c, "goal not found")
		return
	}

	start, end := goalPeriod(&goal, goal.StartDate)

	var closed int64
	database.DB.Model(&models.GoalHistory{}).
		Where("goal_id = ? AND period_start = ?", goal.ID, start).
		Count(&closed)
	if closed > 0 {
		Conflict(c, "this period is already closed")
		return
	}

	spent, err := goalSpend(&goal, start, end, false)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	history := models.GoalHistory{
		GoalID:      goal.ID,
		PeriodStart: start,
		PeriodEnd:   end,
		LimitAmount: goal.LimitAmount,
		SpentAmount: spent,
	}
	// the history row and the goal roll-over stand or fall together
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		if goal.AutoRenew {
			next := ledger.AddMonths(start, goalSpanMonths(goal.Period))
			return tx.Model(&goal).Update("start_date", next).Error
		}
		return tx.Model(&goal).Update("active", false).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "close goal failed"))
		return
	}

	SuccessWithMessage(c, "goal period closed", history)
}

func goalSpanMonths(period string) int {
	switch period {
	case models.PeriodQuarterly:
		return 3
	case models.PeriodYearly:
		return 12
	default:
		return 1
	}
}

// goalPeriod returns the bounds of the goal period containing ref, aligned
// to the goal's start date.
func goalPeriod(g *models.Goal, ref time.Time) (time.Time, time.Time) {
	span := goalSpanMonths(g.Period)
	start := ledger.MonthStart(g.StartDate)
	for ref.Before(start) {
		start = ledger.AddMonths(start, -span)
	}
	for !ref.Before(ledger.AddMonths(start, span)) {
		start = ledger.AddMonths(start, span)
	}
	end := ledger.MonthEnd(ledger.AddMonths(start, span-1))
	return start, end
}

// goalSpend aggregates expenses for a goal between start and end. Settled
// periods count paid entries by payment date; future periods project pending
// entries by due date. Card charges always enter by statement month so that
// spend lands on the bill that pays it.
func goalSpend(g *models.Goal, start, end time.Time, future bool) (decimal.Decimal, error) {
	direct := database.DB.Model(&models.Entry{}).Where("kind = ?", models.KindExpense)
	if future {
		direct = direct.Where("status = ? AND due_date >= ? AND due_date <= ?", models.StatusPending, start, end)
	} else {
		direct = direct.Where("status = ? AND payment_date >= ? AND payment_date <= ?", models.StatusPaid, start, end)
	}
	if g.Type == models.GoalCategory {
		direct = direct.Where("category_id = ?", *g.CategoryID)
	} else if g.Type == models.GoalTag {
		direct = direct.Where("tag = ?", g.Tag)
	}
	// statement settlements would double count the charges they cover
	if g.IncludeCard {
		direct = direct.Where("card_id IS NULL")
	}

	var total decimal.Decimal
	row := direct.Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}

	if !g.IncludeCard {
		return total, nil
	}

	charges := database.DB.Model(&models.Entry{}).
		Where("kind = ? AND statement_month >= ? AND statement_month <= ?", models.KindCardCharge, start, end)
	if g.Type == models.GoalCategory {
		charges = charges.Where("category_id = ?", *g.CategoryID)
	} else if g.Type == models.GoalTag {
		charges = charges.Where("tag = ?", g.Tag)
	}

	var cardTotal decimal.Decimal
	row = charges.Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&cardTotal); err != nil {
		return decimal.Zero, err
	}
	return total.Add(cardTotal), nil
}
