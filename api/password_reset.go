package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"expense-tracker/config"
	"expense-tracker/database"
	"expense-tracker/middleware"
	"expense-tracker/models"
	"expense-tracker/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordResetHandler credential-recovery handler. The recovery slot on the
// user row moves Empty -> PendingToken | PendingOtp -> Empty; verify-otp
// overwrites a pending OTP with a reset token.
type PasswordResetHandler struct {
	cfg      *config.Config
	notifier service.Notifier
}

// NewPasswordResetHandler creates a credential-recovery handler
func NewPasswordResetHandler(cfg *config.Config) *PasswordResetHandler {
	return &PasswordResetHandler{
		cfg:      cfg,
		notifier: service.NewEmailService(&cfg.Email),
	}
}

// NewPasswordResetHandlerWithNotifier creates a credential-recovery handler
// with a custom notifier, used by tests
func NewPasswordResetHandlerWithNotifier(cfg *config.Config, notifier service.Notifier) *PasswordResetHandler {
	return &PasswordResetHandler{cfg: cfg, notifier: notifier}
}

// ForgotPasswordRequest forgot-password / send-otp request
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"jane@example.com"`
}

// VerifyOTPRequest OTP verification request
type VerifyOTPRequest struct {
	Email string `json:"email" example:"jane@example.com"`
	OTP   string `json:"otp" example:"123456"`
}

// VerifyOTPResponse OTP verification response
type VerifyOTPResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	ResetToken string `json:"reset_token"`
}

// ResetPasswordRequest token-based password reset request
type ResetPasswordRequest struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password" example:"newpass1"`
}

// dispatch sends mail on a fire-and-forget goroutine. Delivery failure never
// fails the request; it is logged and swallowed.
func dispatch(send func() error) {
	go func() {
		if err := send(); err != nil {
			log.Printf("email dispatch failed: %v", err)
		}
	}()
}

// ForgotPassword issues a reset token and emails a reset link
// @Summary Request a password-reset link
// @Description Store a one-hour reset token in the account's recovery slot and email a reset link. The response does not depend on whether the email was delivered.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "account email"
// @Success 200 {object} Response "reset link sent"
// @Failure 400 {object} Response "invalid email"
// @Failure 404 {object} Response "no such account"
// @Failure 500 {object} Response "server error"
// @Router /auth/forgot-password [post]
func (h *PasswordResetHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !ValidEmail(req.Email) {
		BadRequest(c, "Valid email is required")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, middleware.PurposeReset, h.cfg.JWT.ResetExpireTime)
	if err != nil {
		InternalError(c, "Failed to generate reset token")
		return
	}

	expiresAt := time.Now().Add(h.cfg.JWT.ResetExpireTime)
	if err := database.DB.Model(&user).
		Updates(models.PendingRecovery(models.RecoveryKindResetToken, token, expiresAt)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to store reset token"))
		return
	}

	resetLink := h.cfg.Server.BaseURL + "/reset-password?token=" + token
	dispatch(func() error {
		return h.notifier.SendResetLinkEmail(user.Email, user.Fullname, resetLink)
	})

	Success(c, "Password reset link sent to your email")
}

// SendOTP issues a 6-digit OTP and emails it
// @Summary Request a password-reset OTP
// @Description Store a 6-digit code with a 10-minute expiry in the account's recovery slot and email it. The response does not depend on whether the email was delivered.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "account email"
// @Success 200 {object} Response "OTP sent"
// @Failure 400 {object} Response "invalid email"
// @Failure 404 {object} Response "no such account"
// @Failure 500 {object} Response "server error"
// @Router /auth/send-otp [post]
func (h *PasswordResetHandler) SendOTP(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !ValidEmail(req.Email) {
		BadRequest(c, "Valid email is required")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	code, err := models.GenerateOTP()
	if err != nil {
		InternalError(c, "Failed to generate OTP")
		return
	}

	// Last write wins: a pending reset token or earlier OTP is overwritten.
	expiresAt := time.Now().Add(h.cfg.OTP.ExpireTime)
	if err := database.DB.Model(&user).
		Updates(models.PendingRecovery(models.RecoveryKindOTP, code, expiresAt)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to store OTP"))
		return
	}

	dispatch(func() error {
		return h.notifier.SendOTPEmail(user.Email, user.Fullname, code)
	})

	Success(c, "OTP sent to your email")
}

// VerifyOTP exchanges a valid OTP for a reset token
// @Summary Verify a password-reset OTP
// @Description Compare the submitted code against the pending OTP. On success the slot is overwritten with a fresh one-hour reset token, which is returned.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "email and OTP"
// @Success 200 {object} VerifyOTPResponse "OTP verified"
// @Failure 400 {object} Response "missing fields"
// @Failure 401 {object} Response "wrong, expired or missing OTP"
// @Failure 404 {object} Response "no such account"
// @Failure 500 {object} Response "server error"
// @Router /auth/verify-otp [post]
func (h *PasswordResetHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.OTP == "" {
		BadRequest(c, "Email and OTP are required")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	// The slot must hold an OTP: an empty slot or a pending reset token both
	// fail the same way as a wrong code.
	if !user.HasPendingOTP() || *user.RecoverySecret != req.OTP {
		Unauthorized(c, "Invalid or expired OTP")
		return
	}
	if user.RecoveryExpired() {
		Unauthorized(c, "Invalid or expired OTP")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, middleware.PurposeReset, h.cfg.JWT.ResetExpireTime)
	if err != nil {
		InternalError(c, "Failed to generate reset token")
		return
	}

	// The OTP is consumed: the slot now holds the reset token instead.
	expiresAt := time.Now().Add(h.cfg.JWT.ResetExpireTime)
	if err := database.DB.Model(&user).
		Updates(models.PendingRecovery(models.RecoveryKindResetToken, token, expiresAt)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to store reset token"))
		return
	}

	c.JSON(http.StatusOK, VerifyOTPResponse{
		Status:     "success",
		Message:    "OTP verified",
		ResetToken: token,
	})
}

// ResetPassword changes the password using a reset token
// @Summary Reset the password with a reset token
// @Description Verify the reset token (signature, expiry, purpose and pending slot), store the new password hash and clear the recovery slot. A reset token authorizes exactly one password change.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "reset token and new password"
// @Success 200 {object} Response "password changed"
// @Failure 400 {object} ValidationResponse "weak password or missing fields"
// @Failure 401 {object} Response "invalid, expired or consumed token"
// @Failure 404 {object} Response "no such account"
// @Failure 500 {object} Response "server error"
// @Router /auth/reset-password-with-otp [post]
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	if req.ResetToken == "" || req.NewPassword == "" {
		BadRequest(c, "Reset token and new password are required")
		return
	}

	// New password is held to the same strength rules as at signup.
	if msg := ValidatePassword(req.NewPassword); msg != "" {
		ValidationFailed(c, map[string]string{"new_password": msg})
		return
	}

	claims, err := middleware.ParseToken(req.ResetToken, middleware.PurposeReset)
	if err != nil {
		Unauthorized(c, "Invalid or expired reset token")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", claims.Subject).First(&user).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	// The token must still be the pending credential: once a reset succeeds
	// the slot is cleared, so a replayed token fails here.
	if !user.HasPendingResetToken() || *user.RecoverySecret != req.ResetToken {
		Unauthorized(c, "Invalid or expired reset token")
		return
	}
	if user.RecoveryExpired() {
		Unauthorized(c, "Invalid or expired reset token")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "Failed to hash password")
		return
	}

	// Password update and slot clearing commit atomically.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		updates := models.ClearedRecovery()
		updates["password"] = string(hashedPassword)
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to reset password"))
		return
	}

	Success(c, "Password reset successfully")
}
