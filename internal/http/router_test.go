package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/you/scaletrack/internal/http/handlers"
	"github.com/you/scaletrack/internal/http/middleware"
	"github.com/you/scaletrack/internal/infrastructure/auth"
	"github.com/you/scaletrack/internal/infrastructure/repositories"
	"github.com/you/scaletrack/internal/services"
)

// setupTestServer wires the real service stack (bcrypt, JWT, sqlite, redis)
// behind the router, the same way app.Run does in production.
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&repositories.DBUser{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(rdb, 48*time.Hour)
	passwordSvc := auth.NewPasswordService()
	tokenSvc := auth.NewJWTService("integration-secret", "scaletrack-test", 48*time.Hour)
	authSvc := services.NewAuthService(userRepo, sessionRepo, passwordSvc, tokenSvc)

	return BuildRouter(handlers.NewAuthHandlers(authSvc), middleware.NewAuthMW(tokenSvc, sessionRepo))
}

func postJSON(t *testing.T, r *gin.Engine, path string, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getWithToken(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func extractToken(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Data struct {
			Token     string    `json:"token"`
			ExpiresAt time.Time `json:"expires_at"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)
	return body.Data.Token
}

func TestRouter_Health(t *testing.T) {
	r := setupTestServer(t)
	w := getWithToken(r, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RegisterLoginRoundtrip(t *testing.T) {
	r := setupTestServer(t)

	reg := postJSON(t, r, "/auth/register", map[string]string{
		"username":         "alice",
		"password":         "Str0ng!Pw",
		"securityQuestion": "Pet name?",
		"securityAnswer":   "Rex ",
	})
	require.Equal(t, http.StatusCreated, reg.Code, reg.Body.String())

	var regBody struct {
		Data struct {
			Token     string    `json:"token"`
			ExpiresAt time.Time `json:"expires_at"`
			User      struct {
				ID       uint   `json:"id"`
				Username string `json:"username"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(reg.Body.Bytes(), &regBody))
	assert.Equal(t, "alice", regBody.Data.User.Username)
	assert.NotZero(t, regBody.Data.User.ID)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), regBody.Data.ExpiresAt, time.Minute)
	assert.NotContains(t, reg.Body.String(), "$2a$", "response must not leak bcrypt hashes")

	// Duplicate registration conflicts regardless of the other fields
	dup := postJSON(t, r, "/auth/register", map[string]string{
		"username":         "alice",
		"password":         "OtherPw1!",
		"securityQuestion": "Other question?",
		"securityAnswer":   "other",
	})
	assert.Equal(t, http.StatusConflict, dup.Code)

	// Login with the same credentials succeeds with a fresh token
	login := postJSON(t, r, "/auth/login", map[string]string{
		"username": "alice",
		"password": "Str0ng!Pw",
	})
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())
	assert.NotEqual(t, regBody.Data.Token, extractToken(t, login))
}

func TestRouter_LoginTwiceBothSessionsValid(t *testing.T) {
	r := setupTestServer(t)

	reg := postJSON(t, r, "/auth/register", map[string]string{
		"username":         "alice",
		"password":         "Str0ng!Pw",
		"securityQuestion": "Pet name?",
		"securityAnswer":   "Rex",
	})
	require.Equal(t, http.StatusCreated, reg.Code)

	first := extractToken(t, postJSON(t, r, "/auth/login", map[string]string{"username": "alice", "password": "Str0ng!Pw"}))
	second := extractToken(t, postJSON(t, r, "/auth/login", map[string]string{"username": "alice", "password": "Str0ng!Pw"}))

	require.NotEqual(t, first, second)
	assert.Equal(t, http.StatusOK, getWithToken(r, "/auth/me", first).Code)
	assert.Equal(t, http.StatusOK, getWithToken(r, "/auth/me", second).Code)
}

func TestRouter_ResetPasswordFlow(t *testing.T) {
	r := setupTestServer(t)

	reg := postJSON(t, r, "/auth/register", map[string]string{
		"username":         "alice",
		"password":         "Str0ng!Pw",
		"securityQuestion": "Pet name?",
		"securityAnswer":   "Rex ",
	})
	require.Equal(t, http.StatusCreated, reg.Code)
	oldToken := extractToken(t, reg)

	// Wrong answer is rejected and the password still works
	wrong := postJSON(t, r, "/auth/reset-password", map[string]string{
		"username":       "alice",
		"securityAnswer": "fido",
		"newPassword":    "NewPw1!",
	})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusOK,
		postJSON(t, r, "/auth/login", map[string]string{"username": "alice", "password": "Str0ng!Pw"}).Code)

	// Unknown user is distinguished from a wrong answer
	missing := postJSON(t, r, "/auth/reset-password", map[string]string{
		"username":       "nobody",
		"securityAnswer": "rex",
		"newPassword":    "NewPw1!",
	})
	assert.Equal(t, http.StatusNotFound, missing.Code)

	// Trimmed, lower-cased variant of the original answer succeeds
	reset := postJSON(t, r, "/auth/reset-password", map[string]string{
		"username":       "alice",
		"securityAnswer": " rex",
		"newPassword":    "NewPw1!",
	})
	require.Equal(t, http.StatusOK, reset.Code, reset.Body.String())
	assert.NotContains(t, reset.Body.String(), "token")

	// Every pre-reset token is revoked even though its signature is valid
	assert.Equal(t, http.StatusUnauthorized, getWithToken(r, "/auth/me", oldToken).Code)

	// Old password fails, new password logs in with a working session
	assert.Equal(t, http.StatusUnauthorized,
		postJSON(t, r, "/auth/login", map[string]string{"username": "alice", "password": "Str0ng!Pw"}).Code)

	login := postJSON(t, r, "/auth/login", map[string]string{"username": "alice", "password": "NewPw1!"})
	require.Equal(t, http.StatusOK, login.Code)
	assert.Equal(t, http.StatusOK, getWithToken(r, "/auth/me", extractToken(t, login)).Code)
}

func TestRouter_LogoutRevokesOnlyOwnSession(t *testing.T) {
	r := setupTestServer(t)

	reg := postJSON(t, r, "/auth/register", map[string]string{
		"username":         "alice",
		"password":         "Str0ng!Pw",
		"securityQuestion": "Pet name?",
		"securityAnswer":   "Rex",
	})
	require.Equal(t, http.StatusCreated, reg.Code)
	keep := extractToken(t, reg)

	drop := extractToken(t, postJSON(t, r, "/auth/login", map[string]string{"username": "alice", "password": "Str0ng!Pw"}))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+drop)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, getWithToken(r, "/auth/me", drop).Code)
	assert.Equal(t, http.StatusOK, getWithToken(r, "/auth/me", keep).Code)
}

func TestRouter_MeRequiresSession(t *testing.T) {
	r := setupTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, getWithToken(r, "/auth/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, getWithToken(r, "/auth/me", "forged-token").Code)
}
