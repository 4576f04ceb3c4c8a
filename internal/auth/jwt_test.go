package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

var testAuthConfig = models.AuthConfig{
	JWTSecret:   "test-secret",
	APIUser:     "operator",
	APIPassword: "hunter2",
}

func TestManager_TokenRoundTrip(t *testing.T) {
	m, err := NewManager(testAuthConfig)
	require.NoError(t, err)

	token, err := m.GenerateToken("operator")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Username)
}

func TestManager_RejectsWrongSecret(t *testing.T) {
	m1, err := NewManager(testAuthConfig)
	require.NoError(t, err)
	m2, err := NewManager(models.AuthConfig{JWTSecret: "other-secret"})
	require.NoError(t, err)

	token, err := m1.GenerateToken("operator")
	require.NoError(t, err)

	_, err = m2.ValidateToken(token)
	assert.Error(t, err)
}

func TestManager_RequiresSecret(t *testing.T) {
	_, err := NewManager(models.AuthConfig{})
	assert.Error(t, err)
}

func TestMiddleware_RejectsMissingAndBadTokens(t *testing.T) {
	m, err := NewManager(testAuthConfig)
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := GetClaimsFromContext(r.Context())
		require.NoError(t, err)
		assert.Equal(t, "operator", claims.Username)
		w.WriteHeader(http.StatusOK)
	})
	handler := m.Middleware(next)

	// No header
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token reaches the inner handler with claims attached
	token, err := m.GenerateToken("operator")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	m, err := NewManager(testAuthConfig)
	require.NoError(t, err)
	handler := LoginHandler(m, testAuthConfig)

	do := func(body interface{}) *httptest.ResponseRecorder {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(encoded))
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := do(LoginRequest{Username: "operator", Password: "hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "operator", resp.Username)

	assert.Equal(t, http.StatusUnauthorized, do(LoginRequest{Username: "operator", Password: "wrong"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(LoginRequest{Username: "intruder", Password: "hunter2"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(LoginRequest{}).Code)
}
