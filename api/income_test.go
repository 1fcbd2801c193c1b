package api

import (
	"encoding/json"
	"testing"
	"time"

	"expense-tracker/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incomeColumns() []string {
	return []string{"id", "user_id", "amount", "source", "description", "date",
		"created_at", "updated_at", "deleted_at"}
}

func TestIncomeHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `incomes`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := authedRouter(1)
	router.POST("/api/incomes", NewIncomeHandler().Create)

	w := doJSON(router, "POST", "/api/incomes",
		`{"amount":5000,"source":"Salary","description":"January salary","date":"2024-01-31"}`)

	assert.Equal(t, 201, w.Code)
	assert.Contains(t, w.Body.String(), "Income created")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeHandler_Create_DateRequired(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	router := authedRouter(1)
	router.POST("/api/incomes", NewIncomeHandler().Create)

	// Unlike expenses, an income row never defaults its date
	w := doJSON(router, "POST", "/api/incomes", `{"amount":5000,"source":"Salary"}`)

	assert.Equal(t, 400, w.Code)
	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Date is required", resp.Errors["date"])
}

func TestIncomeHandler_Create_Validation(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	router := authedRouter(1)
	router.POST("/api/incomes", NewIncomeHandler().Create)

	w := doJSON(router, "POST", "/api/incomes", `{"amount":0,"source":"","date":"31-01-2024"}`)

	assert.Equal(t, 400, w.Code)
	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Amount must be a positive number", resp.Errors["amount"])
	assert.Equal(t, "Source is required", resp.Errors["source"])
	assert.Equal(t, "Date must be in YYYY-MM-DD format", resp.Errors["date"])
}

func TestIncomeHandler_Get_NotOwned(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `incomes`").
		WithArgs(3, 1).
		WillReturnRows(sqlmock.NewRows(incomeColumns()))

	router := authedRouter(1)
	router.GET("/api/incomes/:id", NewIncomeHandler().Get)

	w := doJSON(router, "GET", "/api/incomes/3", "")

	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Body.String(), "Income not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeHandler_Update(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	rows := sqlmock.NewRows(incomeColumns()).
		AddRow(3, 1, 5000.00, "Salary", "January salary", time.Now(), time.Now(), time.Now(), nil)
	mock.ExpectQuery("SELECT .* FROM `incomes`").
		WithArgs(3, 1).
		WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `incomes`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := authedRouter(1)
	router.PUT("/api/incomes/:id", NewIncomeHandler().Update)

	w := doJSON(router, "PUT", "/api/incomes/3", `{"source":"Bonus","amount":1200}`)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Income updated")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeHandler_Delete(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	rows := sqlmock.NewRows(incomeColumns()).
		AddRow(3, 1, 5000.00, "Salary", "January salary", time.Now(), time.Now(), time.Now(), nil)
	mock.ExpectQuery("SELECT .* FROM `incomes`").
		WithArgs(3, 1).
		WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `incomes`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := authedRouter(1)
	router.DELETE("/api/incomes/:id", NewIncomeHandler().Delete)

	w := doJSON(router, "DELETE", "/api/incomes/3", "")

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Income deleted")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeHandler_List_FiltersBySource(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows(incomeColumns()).
		AddRow(3, 1, 5000.00, "Salary", "January salary", time.Now(), time.Now(), time.Now(), nil)
	mock.ExpectQuery("SELECT .* FROM `incomes`").
		WillReturnRows(rows)

	router := authedRouter(1)
	router.GET("/api/incomes", NewIncomeHandler().List)

	w := doJSON(router, "GET", "/api/incomes?source=Salary", "")

	assert.Equal(t, 200, w.Code)
	var resp PageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Total)
	require.NoError(t, mock.ExpectationsWereMet())
}
