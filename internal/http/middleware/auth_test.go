package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/scaletrack/domain"
	"github.com/you/scaletrack/internal/mocks"
)

func setupProtectedRoute(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewAuthMW(tokenSvc, sessionRepo)
	r := gin.New()
	r.GET("/protected", mw.WithSession(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func performGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validClaims() *domain.TokenClaims {
	now := time.Now()
	return &domain.TokenClaims{
		UserID:    1,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(48 * time.Hour).Unix(),
	}
}

func TestAuthMW_ValidSession(t *testing.T) {
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.ValidateFunc = func(token string) (*domain.TokenClaims, error) {
		require.Equal(t, "good-token", token)
		return validClaims(), nil
	}

	sessionRepo := mocks.NewMockSessionRepository()
	sessionRepo.FindByTokenFunc = func(ctx context.Context, token string) (*domain.Session, error) {
		return &domain.Session{UserID: 1, Token: token, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	w := performGet(setupProtectedRoute(tokenSvc, sessionRepo), "Bearer good-token")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":1`)
}

func TestAuthMW_MissingOrMalformedHeader(t *testing.T) {
	r := setupProtectedRoute(mocks.NewMockTokenService(), mocks.NewMockSessionRepository())

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic abc123"},
		{name: "bare token", header: "sometoken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performGet(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMW_InvalidToken(t *testing.T) {
	// Default mock Validate rejects everything.
	w := performGet(setupProtectedRoute(mocks.NewMockTokenService(), mocks.NewMockSessionRepository()), "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMW_RevokedSessionRejected(t *testing.T) {
	// The signature and embedded expiry are still valid, but the session row
	// is gone (revoked by a password reset). The request must be rejected:
	// the store, not the signature, is the revocation authority.
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.ValidateFunc = func(token string) (*domain.TokenClaims, error) {
		return validClaims(), nil
	}

	sessionRepo := mocks.NewMockSessionRepository()
	sessionRepo.FindByTokenFunc = func(ctx context.Context, token string) (*domain.Session, error) {
		return nil, domain.ErrSessionNotFound
	}

	w := performGet(setupProtectedRoute(tokenSvc, sessionRepo), "Bearer revoked-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Session invalid or expired")
}

func TestAuthMW_SessionUserMismatch(t *testing.T) {
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.ValidateFunc = func(token string) (*domain.TokenClaims, error) {
		return validClaims(), nil
	}

	sessionRepo := mocks.NewMockSessionRepository()
	sessionRepo.FindByTokenFunc = func(ctx context.Context, token string) (*domain.Session, error) {
		return &domain.Session{UserID: 99, Token: token, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	w := performGet(setupProtectedRoute(tokenSvc, sessionRepo), "Bearer mismatched-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
