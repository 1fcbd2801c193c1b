package api

import (
	"encoding/json"
	"testing"
	"time"

	"expense-tracker/config"
	"expense-tracker/middleware"
	"expense-tracker/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResetRouter(cfg *config.Config, notifier *stubNotifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPasswordResetHandlerWithNotifier(cfg, notifier)
	router := gin.New()
	router.POST("/auth/forgot-password", h.ForgotPassword)
	router.POST("/auth/send-otp", h.SendOTP)
	router.POST("/auth/verify-otp", h.VerifyOTP)
	router.POST("/auth/reset-password-with-otp", h.ResetPassword)
	return router
}

func TestPasswordReset_ForgotPassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(1, "Jane Doe", "jane@x.com", "F", "9876543210", "hash", "", nil, nil, time.Now(), time.Now(), nil)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("jane@x.com").
		WillReturnRows(rows)

	// Reset token written into the recovery slot
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	notifier := &stubNotifier{}
	router := newResetRouter(cfg, notifier)

	w := postJSON(router, "/auth/forgot-password", `{"email":"jane@x.com"}`)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "reset link sent")

	// Mail goes out on a background goroutine
	assert.Eventually(t, func() bool {
		return notifier.resetLinkCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, notifier.resetLinks[0], cfg.Server.BaseURL+"/reset-password?token=")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordReset_ForgotPassword_UnknownEmail(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	router := newResetRouter(cfg, &stubNotifier{})
	w := postJSON(router, "/auth/forgot-password", `{"email":"nobody@x.com"}`)

	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordReset_ForgotPassword_InvalidEmail(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	router := newResetRouter(cfg, &stubNotifier{})
	w := postJSON(router, "/auth/forgot-password", `{"email":"not-an-email"}`)

	assert.Equal(t, 400, w.Code)
}

func TestPasswordReset_SendOTP(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(1, "Jane Doe", "jane@x.com", "F", "9876543210", "hash", "", nil, nil, time.Now(), time.Now(), nil)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("jane@x.com").
		WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	notifier := &stubNotifier{}
	router := newResetRouter(cfg, notifier)

	w := postJSON(router, "/auth/send-otp", `{"email":"jane@x.com"}`)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "OTP sent")

	assert.Eventually(t, func() bool {
		return notifier.otpCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Regexp(t, `^\d{6}$`, notifier.otpCodes[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordReset_VerifyOTP(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	expires := time.Now().Add(5 * time.Minute)
	rows := sqlmock.NewRows(userColumns()).
		AddRow(1, "Jane Doe", "jane@x.com", "F", "9876543210", "hash",
			models.RecoveryKindOTP, "123456", expires, time.Now(), time.Now(), nil)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("jane@x.com").
		WillReturnRows(rows)

	// The OTP is consumed: the slot now holds a reset token
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := newResetRouter(cfg, &stubNotifier{})
	w := postJSON(router, "/auth/verify-otp", `{"email":"jane@x.com","otp":"123456"}`)

	assert.Equal(t, 200, w.Code)
	var resp VerifyOTPResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ResetToken)

	// The returned token is scoped to password resets only
	claims, err := middleware.ParseToken(resp.ResetToken, middleware.PurposeReset)
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", claims.Subject)
	_, err = middleware.ParseToken(resp.ResetToken, middleware.PurposeAccess)
	assert.ErrorIs(t, err, middleware.ErrWrongPurpose)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordReset_VerifyOTP_WrongCode(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	expires := time.Now().Add(5 * time.Minute)
	rows := sqlmock.NewRows(userColumns()).
		AddRow(1, "Jane Doe", "jane@x.com", "F", "9876543210", "hash",
			models.RecoveryKindOTP, "123456", expires, time.Now(), time.Now(), nil)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("jane@x.com").
		WillReturnRows(rows)

	router := newResetRouter(cfg, &stubNotifier{})
	w := postJSON(router, "/auth/verify-otp", `{"email":"jane@x.com","otp":"654321"}`)

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired OTP")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordReset_VerifyOTP_Expired(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	// Correct code, but past its expiry
	expires := time.Now().Add(-time.Minute)
	rows := sqlmock.NewRows(userColumns()).
		AddRow(1, "Jane Doe", "jane@x.com", "F", "9876543210", "hash",
			models.RecoveryKindOTP, "123456", expires, time.Now(), time.Now(), nil)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("jane@x.com").
		WillReturnRows(rows)

	router := newResetRouter(cfg, &stubNotifier{})
	w := postJSON(router, "/auth/verify-otp", `{"email":"jane@x.com","otp":"123456"}`)

	assert.Equal(t, 401, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordReset_VerifyOTP_EmptySlot(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(1, "Jane Doe", "jane@x.com", "F", "9876543210", "hash", "", nil, nil, time.Now(), time.Now(), nil)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("jane@x.com").
		WillReturnRows(rows)

	router := newResetRouter(cfg, &stubNotifier{})
	w := postJSON(router, "/auth/verify-otp", `{"email":"jane@x.com","otp":"123456"}`)

	assert.Equal(t, 401, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordReset_ResetPassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	token, err := middleware.GenerateToken(1, "jane@x.com", middleware.PurposeReset, time.Hour)
	require.NoError(t, err)

	expires := time.Now().Add(30 * time.Minute)
	rows := sqlmock.NewRows(userColumns()).
		AddRow(1, "Jane Doe", "jane@x.com", "F", "9876543210", "oldhash",
			models.RecoveryKindResetToken, token, expires, time.Now(), time.Now(), nil)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("jane@x.com").
		WillReturnRows(rows)

	// New hash stored and slot cleared in one transaction
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := newResetRouter(cfg, &stubNotifier{})
	body, _ := json.Marshal(gin.H{"reset_token": token, "new_password": "newpass1"})
	w := postJSON(router, "/auth/reset-password-with-otp", string(body))

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Password reset successfully")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordReset_ResetPassword_AccessTokenRejected(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	// A valid access token must not authorize a password change
	token, err := middleware.GenerateToken(1, "jane@x.com", middleware.PurposeAccess, time.Hour)
	require.NoError(t, err)

	router := newResetRouter(cfg, &stubNotifier{})
	body, _ := json.Marshal(gin.H{"reset_token": token, "new_password": "newpass1"})
	w := postJSON(router, "/auth/reset-password-with-otp", string(body))

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired reset token")
}

func TestPasswordReset_ResetPassword_ConsumedToken(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	token, err := middleware.GenerateToken(1, "jane@x.com", middleware.PurposeReset, time.Hour)
	require.NoError(t, err)

	// Slot already cleared by an earlier successful reset: replay fails
	rows := sqlmock.NewRows(userColumns()).
		AddRow(1, "Jane Doe", "jane@x.com", "F", "9876543210", "hash", "", nil, nil, time.Now(), time.Now(), nil)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("jane@x.com").
		WillReturnRows(rows)

	router := newResetRouter(cfg, &stubNotifier{})
	body, _ := json.Marshal(gin.H{"reset_token": token, "new_password": "newpass1"})
	w := postJSON(router, "/auth/reset-password-with-otp", string(body))

	assert.Equal(t, 401, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordReset_ResetPassword_WeakPassword(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupTestConfig()
	defer func() { config.GlobalConfig = nil }()

	token, err := middleware.GenerateToken(1, "jane@x.com", middleware.PurposeReset, time.Hour)
	require.NoError(t, err)

	router := newResetRouter(cfg, &stubNotifier{})
	body, _ := json.Marshal(gin.H{"reset_token": token, "new_password": "short"})
	w := postJSON(router, "/auth/reset-password-with-otp", string(body))

	assert.Equal(t, 400, w.Code)
	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "new_password")
}
