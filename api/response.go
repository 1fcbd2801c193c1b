package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response generic response envelope
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ValidationResponse validation failure envelope with field-keyed errors
type ValidationResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// PageResponse paginated list envelope
type PageResponse struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	List     interface{} `json:"list"`
}

// Success 200 success response
func Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: message,
	})
}

// Error generic error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Status:  "error",
		Message: message,
	})
}

// ValidationFailed 400 response carrying a field-keyed error map
func ValidationFailed(c *gin.Context, errors map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationResponse{
		Status:  "error",
		Message: "Validation failed",
		Errors:  errors,
	})
}

// BadRequest 400 error response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401 error response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound 404 error response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500 error response
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
