package api

import (
	"time"

	"expense-tracker/database"
	"expense-tracker/middleware"
	"expense-tracker/models"

	"github.com/gin-gonic/gin"
)

// DashboardHandler dashboard aggregation handler
type DashboardHandler struct{}

// NewDashboardHandler creates a dashboard handler
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// CategoryTotal per-category spending bucket
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MonthTotal per-month spending bucket
type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// DashboardResponse aggregated dashboard summary
type DashboardResponse struct {
	Status            string          `json:"status"`
	TotalExpense      float64         `json:"total_expense"`
	TotalIncome       float64         `json:"total_income"`
	Balance           float64         `json:"balance"`
	Last30DaysExpense float64         `json:"last_30_days_expense"`
	MonthlyAverage    float64         `json:"monthly_average"`
	CategoryBreakdown []CategoryTotal `json:"category_breakdown"`
	MonthlyTrend      []MonthTotal    `json:"monthly_trend"`
}

// Summary returns the caller's aggregated dashboard
// @Summary Dashboard summary
// @Description Totals, category breakdown, six-month trend, trailing-30-days spending and the monthly average (total spent divided by two, matching the product's fixed two-month window).
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse "summary"
// @Failure 401 {object} Response "unauthorized"
// @Failure 500 {object} Response "server error"
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var totalExpense, totalIncome float64
	if err := database.DB.Model(&models.Expense{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalExpense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load dashboard"))
		return
	}
	if err := database.DB.Model(&models.Income{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalIncome).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load dashboard"))
		return
	}

	var last30 float64
	cutoff := time.Now().AddDate(0, 0, -30)
	if err := database.DB.Model(&models.Expense{}).
		Where("user_id = ? AND date >= ?", userID, cutoff).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&last30).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load dashboard"))
		return
	}

	var byCategory []CategoryTotal
	if err := database.DB.Model(&models.Expense{}).
		Where("user_id = ?", userID).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Order("total DESC").
		Scan(&byCategory).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load dashboard"))
		return
	}

	var trend []MonthTotal
	sixMonthsAgo := time.Now().AddDate(0, -6, 0)
	if err := database.DB.Model(&models.Expense{}).
		Where("user_id = ? AND date >= ?", userID, sixMonthsAgo).
		Select("DATE_FORMAT(date, '%Y-%m') AS month, COALESCE(SUM(amount), 0) AS total").
		Group("month").
		Order("month").
		Scan(&trend).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load dashboard"))
		return
	}

	// Monthly average uses a fixed two-month divisor regardless of how long
	// the account has existed; the frontend renders this value as-is.
	monthlyAverage := totalExpense / 2

	c.JSON(200, DashboardResponse{
		Status:            "success",
		TotalExpense:      totalExpense,
		TotalIncome:       totalIncome,
		Balance:           totalIncome - totalExpense,
		Last30DaysExpense: last30,
		MonthlyAverage:    monthlyAverage,
		CategoryBreakdown: byCategory,
		MonthlyTrend:      trend,
	})
}

// Health liveness probe
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} Response "alive"
// @Router /api/health [get]
func Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy", "message": "Expense Tracker API is running"})
}
