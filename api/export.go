package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"expense-tracker/database"
	"expense-tracker/middleware"
	"expense-tracker/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler record export handler
type ExportHandler struct{}

// NewExportHandler creates an export handler
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

func parseExportRange(c *gin.Context) (time.Time, time.Time, bool) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")

	if startStr == "" || endStr == "" {
		BadRequest(c, "start_date and end_date are required")
		return time.Time{}, time.Time{}, false
	}

	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		BadRequest(c, "start_date must be in YYYY-MM-DD format")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		BadRequest(c, "end_date must be in YYYY-MM-DD format")
		return time.Time{}, time.Time{}, false
	}
	// Include the end date itself
	end = end.Add(24*time.Hour - time.Second)
	return start, end, true
}

// ExportCSV exports the caller's expenses as CSV
// @Summary Export expenses as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query string true "start date (2024-01-01)"
// @Param end_date query string true "end date (2024-12-31)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} Response "bad date range"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/expenses/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := parseExportRange(c)
	if !ok {
		return
	}

	var expenses []models.Expense
	if err := database.DB.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date DESC").
		Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to query expenses"))
		return
	}

	buf := new(bytes.Buffer)
	// BOM keeps Excel happy with UTF-8 content
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"ID", "Amount", "Category", "Description", "Date", "Created At"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	for _, expense := range expenses {
		row := []string{
			fmt.Sprintf("%d", expense.ID),
			fmt.Sprintf("%.2f", expense.Amount),
			expense.Category,
			expense.Description,
			expense.Date.Format("2006-01-02"),
			expense.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "Failed to generate CSV")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("expenses_%s_%s.csv", c.Query("start_date"), c.Query("end_date"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel exports the caller's expenses and incomes as an xlsx workbook
// @Summary Export records as Excel
// @Description One sheet for expenses, one for incomes, with a totals row on each.
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string true "start date (2024-01-01)"
// @Param end_date query string true "end date (2024-12-31)"
// @Success 200 {file} file "xlsx file"
// @Failure 400 {object} Response "bad date range"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/expenses/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := parseExportRange(c)
	if !ok {
		return
	}

	var expenses []models.Expense
	if err := database.DB.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date DESC").
		Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to query expenses"))
		return
	}
	var incomes []models.Income
	if err := database.DB.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date DESC").
		Find(&incomes).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to query incomes"))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
	})

	expenseSheet := "Expenses"
	f.SetSheetName("Sheet1", expenseSheet)
	f.SetColWidth(expenseSheet, "A", "A", 8)
	f.SetColWidth(expenseSheet, "B", "B", 12)
	f.SetColWidth(expenseSheet, "C", "C", 15)
	f.SetColWidth(expenseSheet, "D", "D", 30)
	f.SetColWidth(expenseSheet, "E", "E", 12)

	expenseHeaders := []string{"ID", "Amount", "Category", "Description", "Date"}
	for i, header := range expenseHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(expenseSheet, cell, header)
		f.SetCellStyle(expenseSheet, cell, cell, headerStyle)
	}

	var expenseTotal float64
	for i, expense := range expenses {
		row := i + 2
		f.SetCellValue(expenseSheet, fmt.Sprintf("A%d", row), expense.ID)
		f.SetCellValue(expenseSheet, fmt.Sprintf("B%d", row), expense.Amount)
		f.SetCellValue(expenseSheet, fmt.Sprintf("C%d", row), expense.Category)
		f.SetCellValue(expenseSheet, fmt.Sprintf("D%d", row), expense.Description)
		f.SetCellValue(expenseSheet, fmt.Sprintf("E%d", row), expense.Date.Format("2006-01-02"))
		expenseTotal += expense.Amount
	}
	totalRow := len(expenses) + 2
	f.SetCellValue(expenseSheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(expenseSheet, fmt.Sprintf("B%d", totalRow), expenseTotal)
	f.SetCellStyle(expenseSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("E%d", totalRow), totalStyle)

	incomeSheet := "Incomes"
	f.NewSheet(incomeSheet)
	f.SetColWidth(incomeSheet, "A", "A", 8)
	f.SetColWidth(incomeSheet, "B", "B", 12)
	f.SetColWidth(incomeSheet, "C", "C", 15)
	f.SetColWidth(incomeSheet, "D", "D", 30)
	f.SetColWidth(incomeSheet, "E", "E", 12)

	incomeHeaders := []string{"ID", "Amount", "Source", "Description", "Date"}
	for i, header := range incomeHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(incomeSheet, cell, header)
		f.SetCellStyle(incomeSheet, cell, cell, headerStyle)
	}

	var incomeTotal float64
	for i, income := range incomes {
		row := i + 2
		f.SetCellValue(incomeSheet, fmt.Sprintf("A%d", row), income.ID)
		f.SetCellValue(incomeSheet, fmt.Sprintf("B%d", row), income.Amount)
		f.SetCellValue(incomeSheet, fmt.Sprintf("C%d", row), income.Source)
		f.SetCellValue(incomeSheet, fmt.Sprintf("D%d", row), income.Description)
		f.SetCellValue(incomeSheet, fmt.Sprintf("E%d", row), income.Date.Format("2006-01-02"))
		incomeTotal += income.Amount
	}
	totalRow = len(incomes) + 2
	f.SetCellValue(incomeSheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(incomeSheet, fmt.Sprintf("B%d", totalRow), incomeTotal)
	f.SetCellStyle(incomeSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("E%d", totalRow), totalStyle)

	filename := fmt.Sprintf("records_%s_%s.xlsx", c.Query("start_date"), c.Query("end_date"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "Failed to generate Excel file")
		return
	}
}
