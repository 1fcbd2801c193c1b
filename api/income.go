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

// IncomeHandler income record handler. Structurally parallel to the expense
// handler; income rows carry a source label and a mandatory date.
type IncomeHandler struct{}

// NewIncomeHandler creates an income record handler
func NewIncomeHandler() *IncomeHandler {
	return &IncomeHandler{}
}

// CreateIncomeRequest create-income request
type CreateIncomeRequest struct {
	Amount      float64 `json:"amount" example:"5000.00"`
	Source      string  `json:"source" example:"Salary"`
	Description string  `json:"description" example:"January salary"`
	Date        string  `json:"date" example:"2024-01-31"`
}

// UpdateIncomeRequest update-income request, all fields optional
type UpdateIncomeRequest struct {
	Amount      *float64 `json:"amount" example:"5000.00"`
	Source      *string  `json:"source" example:"Salary"`
	Description *string  `json:"description" example:"January salary"`
	Date        *string  `json:"date" example:"2024-01-31"`
}

// IncomeListRequest income list query
type IncomeListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	Source    string `form:"source" example:"Salary"`
	StartDate string `form:"start_date" example:"2024-01-01"`
	EndDate   string `form:"end_date" example:"2024-12-31"`
}

func validateIncomeCreate(req *CreateIncomeRequest) map[string]string {
	errors := make(map[string]string)
	if req.Amount <= 0 {
		errors["amount"] = "Amount must be a positive number"
	}
	req.Source = strings.TrimSpace(req.Source)
	if req.Source == "" {
		errors["source"] = "Source is required"
	}
	if req.Date == "" {
		errors["date"] = "Date is required"
	} else if _, err := time.ParseInLocation("2006-01-02", req.Date, time.Local); err != nil {
		errors["date"] = "Date must be in YYYY-MM-DD format"
	}
	return errors
}

// Create creates an income record
// @Summary Create an income record
// @Tags incomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateIncomeRequest true "income payload"
// @Success 201 {object} Response "created"
// @Failure 400 {object} ValidationResponse "validation failed"
// @Failure 401 {object} Response "unauthorized"
// @Failure 500 {object} Response "server error"
// @Router /api/incomes [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	if errors := validateIncomeCreate(&req); len(errors) > 0 {
		ValidationFailed(c, errors)
		return
	}

	date, _ := time.ParseInLocation("2006-01-02", req.Date, time.Local)

	income := models.Income{
		UserID:      userID,
		Amount:      req.Amount,
		Source:      req.Source,
		Description: req.Description,
		Date:        date,
	}

	if err := database.DB.Create(&income).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to create income"))
		return
	}

	c.JSON(201, gin.H{"status": "success", "message": "Income created", "income": income})
}

// List lists the caller's income records
// @Summary List income records
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Param source query string false "source filter"
// @Param start_date query string false "start date (2024-01-01)"
// @Param end_date query string false "end date (2024-12-31)"
// @Success 200 {object} PageResponse "list"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/incomes [get]
func (h *IncomeHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req IncomeListRequest
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

	query := database.DB.Model(&models.Income{}).Where("user_id = ?", userID)

	if req.Source != "" {
		query = query.Where("source = ?", req.Source)
	}
	if req.StartDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local); err == nil {
			query = query.Where("date >= ?", t)
		}
	}
	if req.EndDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local); err == nil {
			t = t.Add(24*time.Hour - time.Second)
			query = query.Where("date <= ?", t)
		}
	}

	var total int64
	query.Count(&total)

	var incomes []models.Income
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("date DESC").Offset(offset).Limit(req.PageSize).Find(&incomes).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to list incomes"))
		return
	}

	c.JSON(200, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     incomes,
	})
}

// Get fetches a single income record
// @Summary Get an income record
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Param id path int true "income id"
// @Success 200 {object} models.Income "record"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/incomes/{id} [get]
func (h *IncomeHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid id")
		return
	}

	var income models.Income
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&income).Error; err != nil {
		NotFound(c, "Income not found")
		return
	}

	c.JSON(200, income)
}

// Update updates an income record
// @Summary Update an income record
// @Tags incomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "income id"
// @Param request body UpdateIncomeRequest true "fields to update"
// @Success 200 {object} Response "updated"
// @Failure 400 {object} ValidationResponse "validation failed"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Failure 500 {object} Response "server error"
// @Router /api/incomes/{id} [put]
func (h *IncomeHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid id")
		return
	}

	var req UpdateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	var income models.Income
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&income).Error; err != nil {
		NotFound(c, "Income not found")
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
	if req.Source != nil {
		src := strings.TrimSpace(*req.Source)
		if src == "" {
			errors["source"] = "Source is required"
		} else {
			updates["source"] = src
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

	if err := database.DB.Model(&income).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to update income"))
		return
	}

	Success(c, "Income updated")
}

// Delete deletes an income record
// @Summary Delete an income record
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Param id path int true "income id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Failure 500 {object} Response "server error"
// @Router /api/incomes/{id} [delete]
func (h *IncomeHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid id")
		return
	}

	var income models.Income
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&income).Error; err != nil {
		NotFound(c, "Income not found")
		return
	}

	if err := database.DB.Delete(&income).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to delete income"))
		return
	}

	Success(c, "Income deleted")
}
