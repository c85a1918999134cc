package api

import (
	"strconv"
	"strings"

	"github.com/marciomartinho/minhas-financas/database"
	"github.com/marciomartinho/minhas-financas/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler manages categories and subcategories
type CategoryHandler struct{}

// NewCategoryHandler creates a category handler
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoryCreateRequest creates a category
type CategoryCreateRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Kind  string `json:"kind" binding:"required" example:"expense"`
	Icon  string `json:"icon" binding:"omitempty,max=50"`
	Color string `json:"color" binding:"omitempty,max=20"` // hex code, e.g. #ef4444
}

// CategoryUpdateRequest updates a category
type CategoryUpdateRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Icon  *string `json:"icon" binding:"omitempty,max=50"`
	Color *string `json:"color" binding:"omitempty,max=20"`
}

// SubcategoryCreateRequest creates a subcategory under a category
type SubcategoryCreateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

// List lists categories
// @Summary List categories
// @Description Lists categories, optionally filtered by kind; inactive categories are included so they can be reactivated.
// @Tags categories
// @Produce json
// @Param kind query string false "category kind (expense / income)"
// @Success 200 {object} Response{data=[]models.Category} "categories"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	query := database.DB.Model(&models.Category{})
	if kind := c.Query("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	var list []models.Category
	if err := query.Order("name").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, list)
}

// Create creates a category
// @Summary Create a category
// @Description Creates an expense or income category with icon and color.
// @Tags categories
// @Accept json
// @Produce json
// @Param request body CategoryCreateRequest true "category data"
// @Success 200 {object} Response{data=models.Category} "created category"
// @Failure 400 {object} Response "invalid request or duplicate name"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "name must not be empty")
		return
	}
	if req.Kind != models.CategoryExpense && req.Kind != models.CategoryIncome {
		BadRequest(c, "kind must be expense or income")
		return
	}

	// uniqueness
	var existing models.Category
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		BadRequest(c, "a category with this name already exists")
		return
	}

	color := req.Color
	if color == "" {
		color = "#64748b"
	}
	category := models.Category{
		Name:   req.Name,
		Kind:   req.Kind,
		Icon:   req.Icon,
		Color:  color,
		Active: true,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create category failed"))
		return
	}

	SuccessWithMessage(c, "category created", category)
}

// Update updates a category
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "category id"
// @Param request body CategoryUpdateRequest true "fields to update"
// @Success 200 {object} Response{data=models.Category} "updated category"
// @Failure 404 {object} Response "category not found"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid category id")
		return
	}

	var category models.Category
	if err := database.DB.First(&category, uint(id)).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	var req CategoryUpdateRequest
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
	if req.Icon != nil {
		fields["icon"] = *req.Icon
	}
	if req.Color != nil {
		fields["color"] = *req.Color
	}
	if len(fields) > 0 {
		if err := database.DB.Model(&category).Updates(fields).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update category failed"))
			return
		}
	}

	SuccessWithMessage(c, "category updated", category)
}

// Toggle flips a category's active flag
// @Summary Activate or deactivate a category
// @Description Deactivation hides the category from entry forms without deleting it.
// @Tags categories
// @Produce json
// @Param id path int true "category id"
// @Success 200 {object} Response{data=models.Category} "category"
// @Failure 404 {object} Response "category not found"
// @Router /api/v1/categories/{id}/toggle [post]
func (h *CategoryHandler) Toggle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid category id")
		return
	}

	var category models.Category
	if err := database.DB.First(&category, uint(id)).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	category.Active = !category.Active
	if err := database.DB.Model(&category).Update("active", category.Active).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update category failed"))
		return
	}

	SuccessWithMessage(c, "category updated", category)
}

// Delete removes a category
// @Summary Delete a category
// @Description Deletes a category and its subcategories. Refused while entries still reference it.
// @Tags categories
// @Produce json
// @Param id path int true "category id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "category not found"
// @Failure 409 {object} Response "entries still reference the category"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid category id")
		return
	}

	var category models.Category
	if err := database.DB.First(&category, uint(id)).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	var refs int64
	database.DB.Model(&models.Entry{}).Where("category_id = ?", category.ID).Count(&refs)
	if refs > 0 {
		Conflict(c, "category still has entries, deactivate it instead")
		return
	}

	if err := database.DB.Where("category_id = ?", category.ID).Delete(&models.Subcategory{}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete subcategories failed"))
		return
	}
	if err := database.DB.Delete(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete category failed"))
		return
	}

	SuccessWithMessage(c, "category deleted", nil)
}

// ListSubcategories lists a category's active subcategories
// @Summary List subcategories
// @Tags categories
// @Produce json
// @Param id path int true "category id"
// @Success 200 {object} Response{data=[]models.Subcategory} "subcategories"
// @Failure 404 {object} Response "category not found"
// @Router /api/v1/categories/{id}/subcategories [get]
func (h *CategoryHandler) ListSubcategories(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid category id")
		return
	}

	var category models.Category
	if err := database.DB.First(&category, uint(id)).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	var subcategories []models.Subcategory
	if err := database.DB.Where("category_id = ? AND active = ?", category.ID, true).
		Order("name").Find(&subcategories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, subcategories)
}

// CreateSubcategory creates a subcategory
// @Summary Create a subcategory
// @Description Creates a subcategory under a category. Names are unique within the category.
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "category id"
// @Param request body SubcategoryCreateRequest true "subcategory data"
// @Success 200 {object} Response{data=models.Subcategory} "created subcategory"
// @Failure 400 {object} Response "invalid request or duplicate name"
// @Failure 404 {object} Response "category not found"
// @Router /api/v1/categories/{id}/subcategories [post]
func (h *CategoryHandler) CreateSubcategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid category id")
		return
	}

	var category models.Category
	if err := database.DB.First(&category, uint(id)).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	var req SubcategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "name must not be empty")
		return
	}

	// unique within the category
	var existing models.Subcategory
	if err := database.DB.Where("category_id = ? AND name = ?", category.ID, req.Name).
		First(&existing).Error; err == nil {
		BadRequest(c, "a subcategory with this name already exists in the category")
		return
	}

	subcategory := models.Subcategory{
		Name:        req.Name,
		CategoryID:  category.ID,
		Description: req.Description,
		Active:      true,
	}
	if err := database.DB.Create(&subcategory).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create subcategory failed"))
		return
	}

	SuccessWithMessage(c, "subcategory created", subcategory)
}
