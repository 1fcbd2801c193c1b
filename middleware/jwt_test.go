package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expense-tracker/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestJWT() {
	InitJWT(&config.Config{JWT: config.JWTConfig{Secret: "test-secret"}})
}

func TestGenerateAndParseToken(t *testing.T) {
	initTestJWT()

	token, err := GenerateToken(42, "jane@x.com", PurposeAccess, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "jane@x.com", claims.Subject)
	assert.Equal(t, PurposeAccess, claims.Purpose)
}

func TestParseToken_WrongPurpose(t *testing.T) {
	initTestJWT()

	token, err := GenerateToken(42, "jane@x.com", PurposeReset, time.Hour)
	require.NoError(t, err)

	// Valid signature and expiry, but scoped to resets
	_, err = ParseToken(token, PurposeAccess)
	assert.ErrorIs(t, err, ErrWrongPurpose)

	_, err = ParseToken(token, PurposeReset)
	assert.NoError(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	initTestJWT()

	token, err := GenerateToken(42, "jane@x.com", PurposeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, PurposeAccess)
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	initTestJWT()
	token, err := GenerateToken(42, "jane@x.com", PurposeAccess, time.Hour)
	require.NoError(t, err)

	InitJWT(&config.Config{JWT: config.JWTConfig{Secret: "other-secret"}})
	_, err = ParseToken(token, PurposeAccess)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	initTestJWT()
	_, err := ParseToken("not.a.token", PurposeAccess)
	assert.Error(t, err)
}

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", JWTAuth(), func(c *gin.Context) {
		c.JSON(200, gin.H{
			"user_id": GetCurrentUserID(c),
			"email":   GetCurrentUserEmail(c),
		})
	})
	return router
}

func getWithAuth(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	initTestJWT()
	router := authTestRouter()

	token, err := GenerateToken(7, "jane@x.com", PurposeAccess, time.Hour)
	require.NoError(t, err)

	w := getWithAuth(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), "jane@x.com")
}

func TestJWTAuth_RejectsResetToken(t *testing.T) {
	initTestJWT()
	router := authTestRouter()

	// A reset token never unlocks protected routes
	token, err := GenerateToken(7, "jane@x.com", PurposeReset, time.Hour)
	require.NoError(t, err)

	w := getWithAuth(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid authentication credentials")
}

func TestJWTAuth_HeaderShapes(t *testing.T) {
	initTestJWT()
	router := authTestRouter()

	token, err := GenerateToken(7, "jane@x.com", PurposeAccess, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no scheme", token},
		{"wrong scheme", "Basic " + token},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := getWithAuth(router, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestGetCurrentUserID_Unset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uint(0), GetCurrentUserID(c))
	assert.Equal(t, "", GetCurrentUserEmail(c))
}
