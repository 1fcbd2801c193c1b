package api

import (
	"net/http"
	"strings"

	"expense-tracker/config"
	"expense-tracker/database"
	"expense-tracker/middleware"
	"expense-tracker/models"
	"expense-tracker/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler authentication handler
type AuthHandler struct {
	cfg      *config.Config
	notifier service.Notifier
}

// NewAuthHandler creates an authentication handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg:      cfg,
		notifier: service.NewEmailService(&cfg.Email),
	}
}

// NewAuthHandlerWithNotifier creates an authentication handler with a custom
// notifier, used by tests
func NewAuthHandlerWithNotifier(cfg *config.Config, notifier service.Notifier) *AuthHandler {
	return &AuthHandler{cfg: cfg, notifier: notifier}
}

// SignupRequest registration request
type SignupRequest struct {
	Fullname     string `json:"fullname" example:"Jane Doe"`
	Email        string `json:"email" example:"jane@example.com"`
	Gender       string `json:"gender" example:"F"`
	MobileNumber string `json:"mobilenumber" example:"9876543210"`
	Password     string `json:"password" example:"abc123"`
}

// SignupResponse registration response
type SignupResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	UserID  uint   `json:"user_id"`
}

// SigninRequest login request
type SigninRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"abc123"`
}

// SigninResponse login response
type SigninResponse struct {
	Status      string             `json:"status"`
	Message     string             `json:"message"`
	AccessToken string             `json:"access_token"`
	User        models.UserSummary `json:"user"`
}

// Signup registers a new user
// @Summary User registration
// @Description Create a new account. Email and mobile number must be unique; both conflicts are reported together.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "registration payload"
// @Success 201 {object} SignupResponse "registered"
// @Failure 400 {object} ValidationResponse "validation failed"
// @Failure 500 {object} Response "server error"
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	req.Fullname = strings.TrimSpace(req.Fullname)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Gender = strings.TrimSpace(req.Gender)
	req.MobileNumber = strings.TrimSpace(req.MobileNumber)

	errors := ValidateSignup(req.Fullname, req.Email, req.Gender, req.MobileNumber, req.Password)

	// Uniqueness of email and mobile are checked independently so that both
	// conflicts surface in one response, even across different rows.
	var existing []models.User
	if err := database.DB.Where("email = ? OR mobilenumber = ?", req.Email, req.MobileNumber).Find(&existing).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Registration failed"))
		return
	}
	for _, u := range existing {
		if u.Email == req.Email {
			errors["email"] = "Email already registered"
		}
		if u.MobileNumber == req.MobileNumber {
			errors["mobilenumber"] = "Mobile number already registered"
		}
	}

	if len(errors) > 0 {
		ValidationFailed(c, errors)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "Failed to hash password")
		return
	}

	user := models.User{
		Fullname:     req.Fullname,
		Email:        req.Email,
		Gender:       req.Gender,
		MobileNumber: req.MobileNumber,
		Password:     string(hashedPassword),
	}

	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Registration failed"))
		return
	}

	c.JSON(http.StatusCreated, SignupResponse{
		Status:  "success",
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

// Signin logs a user in and issues an access token
// @Summary User login
// @Description Verify credentials and return a bearer access token. The error message never reveals whether the email or the password was wrong.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SigninRequest true "login payload"
// @Success 200 {object} SigninResponse "logged in"
// @Failure 400 {object} Response "missing fields"
// @Failure 401 {object} Response "invalid credentials"
// @Failure 500 {object} Response "server error"
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		BadRequest(c, "Email and password are required")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Unauthorized(c, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "Invalid email or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, middleware.PurposeAccess, h.cfg.JWT.AccessExpireTime)
	if err != nil {
		InternalError(c, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, SigninResponse{
		Status:      "success",
		Message:     "Login successful",
		AccessToken: token,
		User:        user.Summary(),
	})
}
