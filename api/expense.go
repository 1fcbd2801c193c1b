package api

import (
	"strconv"
	"strings"
	"time"

	"expense-tracker/database"
	"expense-tracker/middleware"
	"expense-tracker/models"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler expense record handler
type ExpenseHandler struct{}

// NewExpenseHandler creates an expense record handler
func NewExpenseHandler() *ExpenseHandler {
	return &ExpenseHandler{}
}

// CreateExpenseRequest create-expense request
type CreateExpenseRequest struct {
	Amount      float64 `json:"amount" example:"99.99"`
	Category    string  `json:"category" example:"Food"`
	Description string  `json:"description" example:"lunch"`
	Date        string  `json:"date" example:"2024-01-15"`
}

// UpdateExpenseRequest update-expense request, all fields optional
type UpdateExpenseRequest struct {
	Amount      *float64 `json:"amount" example:"99.99"`
	Category    *string  `json:"category" example:"Food"`
	Description *string  `json:"description" example:"lunch"`
	Date        *string  `json:"date" example:"2024-01-15"`
}

// ExpenseListRequest expense list query
type ExpenseListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	Category  string `form:"category" example:"Food"`
	StartDate string `form:"start_date" example:"2024-01-01"`
	EndDate   string `form:"end_date" example:"2024-12-31"`
}

func validateExpenseCreate(req *CreateExpenseRequest) map[string]string {
	errors := make(map[string]string)
	if req.Amount <= 0 {
		errors["amount"] = "Amount must be a positive number"
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		errors["category"] = "Category is required"
	}
	if req.Date != "" {
		if _, err := time.ParseInLocation("2006-01-02", req.Date, time.Local); err != nil {
			errors["date"] = "Date must be in YYYY-MM-DD format"
		}
	}
	return errors
}

// Create creates an expense record
// @Summary Create an expense record
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "expense payload"
// @Success 201 {object} Response "created"
// @Failure 400 {object} ValidationResponse "validation failed"
// @Failure 401 {object} Response "unauthorized"
// @Failure 500 {object} Response "server error"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	if errors := validateExpenseCreate(&req); len(errors) > 0 {
		ValidationFailed(c, errors)
		return
	}

	// Date defaults to today when the caller omits it
	date := time.Now()
	if req.Date != "" {
		date, _ = time.ParseInLocation("2006-01-02", req.Date, time.Local)
	}

	expense := models.Expense{
		UserID:      userID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to create expense"))
		return
	}

	c.JSON(201, gin.H{"status": "success", "message": "Expense created", "expense": expense})
}

// List lists the caller's expense records
// @Summary List expense records
// @Description Paginated list of the caller's expenses with optional category and date range filters.
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Param category query string false "category filter"
// @Param start_date query string false "start date (2024-01-01)"
// @Param end_date query string false "end date (2024-12-31)"
// @Success 200 {object} PageResponse "list"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, "Invalid query parameters")
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

	query := database.DB.Model(&models.Expense{}).Where("user_id = ?", userID)

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.StartDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local); err == nil {
			query = query.Where("date >= ?", t)
		}
	}
	if req.EndDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local); err == nil {
			// Include the end date itself
			t = t.Add(24*time.Hour - time.Second)
			query = query.Where("date <= ?", t)
		}
	}

	var total int64
	query.Count(&total)

	var expenses []models.Expense
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("date DESC").Offset(offset).Limit(req.PageSize).Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to list expenses"))
		return
	}

	c.JSON(200, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     expenses,
	})
}

// Get fetches a single expense record
// @Summary Get an expense record
// @Description Returns 404 for rows that do not exist or belong to another user.
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Success 200 {object} models.Expense "record"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid id")
		return
	}

	// Ownership filter: a row that is not the caller's looks like a miss
	var expense models.Expense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error; err != nil {
		NotFound(c, "Expense not found")
		return
	}

	c.JSON(200, expense)
}

// Update updates an expense record
// @Summary Update an expense record
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Param request body UpdateExpenseRequest true "fields to update"
// @Success 200 {object} Response "updated"
// @Failure 400 {object} ValidationResponse "validation failed"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Failure 500 {object} Response "server error"
// @Router /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid id")
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	var expense models.Expense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error; err != nil {
		NotFound(c, "Expense not found")
		return
	}

	errors := make(map[string]string)
	updates := make(map[string]interface{})
	if req.Amount != nil {
		if *req.Amount <= 0 {
			errors["amount"] = "Amount must be a positive number"
		} else {
			updates["amount"] = *req.Amount
		}
	}
	if req.Category != nil {
		cat := strings.TrimSpace(*req.Category)
		if cat == "" {
			errors["category"] = "Category is required"
		} else {
			updates["category"] = cat
		}
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Date != nil {
		if t, err := time.ParseInLocation("2006-01-02", *req.Date, time.Local); err != nil {
			errors["date"] = "Date must be in YYYY-MM-DD format"
		} else {
			updates["date"] = t
		}
	}
	if len(errors) > 0 {
		ValidationFailed(c, errors)
		return
	}
	if len(updates) == 0 {
		Success(c, "Nothing to update")
		return
	}

	if err := database.DB.Model(&expense).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to update expense"))
		return
	}

	Success(c, "Expense updated")
}

// Delete deletes an expense record
// @Summary Delete an expense record
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Failure 500 {object} Response "server error"
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid id")
		return
	}

	var expense models.Expense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error; err != nil {
		NotFound(c, "Expense not found")
		return
	}

	if err := database.DB.Delete(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to delete expense"))
		return
	}

	Success(c, "Expense deleted")
}
