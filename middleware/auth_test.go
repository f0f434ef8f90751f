package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openhouse/auth"
)

func signinRouter(tokens *auth.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequireSignin(tokens))
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userId"))
	})
	return router
}

func TestRequireSigninAcceptsValidToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	router := signinRouter(tokens)

	token, err := tokens.SignSession("64f0c1d2e3a4b5c6d7e8f901", auth.AccessTokenTTL)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "64f0c1d2e3a4b5c6d7e8f901", w.Body.String())
}

func TestRequireSigninRejectsMissingHeader(t *testing.T) {
	router := signinRouter(auth.NewTokenService("test-secret"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}

func TestRequireSigninRejectsMalformedHeader(t *testing.T) {
	router := signinRouter(auth.NewTokenService("test-secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSigninRejectsExpiredToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	router := signinRouter(tokens)

	token, err := tokens.SignSession("64f0c1d2e3a4b5c6d7e8f901", -time.Minute)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSigninRejectsForeignToken(t *testing.T) {
	router := signinRouter(auth.NewTokenService("test-secret"))

	other := auth.NewTokenService("another-secret")
	token, err := other.SignSession("64f0c1d2e3a4b5c6d7e8f901", auth.AccessTokenTTL)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
