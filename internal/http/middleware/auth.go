package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/scaletrack/domain"
)

// AuthMW wraps the token service and session repository for middleware
type AuthMW struct {
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) *AuthMW {
	return &AuthMW{
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
	}
}

// WithSession returns middleware that authenticates a bearer token. The
// signature check only proves the token was not tampered with; the session
// store is the authority for revocation, so a token whose session row is gone
// (expired or revoked by a password reset) is rejected even if its signature
// and embedded expiry are still valid.
func (mw *AuthMW) WithSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "unauthorized", "message": "Authorization header required"}})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "unauthorized", "message": "Invalid authorization header format"}})
			c.Abort()
			return
		}

		token := tokenParts[1]

		claims, err := mw.tokenSvc.Validate(token)
		if err != nil {
			switch err {
			case domain.ErrTokenExpired:
				c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "unauthorized", "message": "Token expired"}})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "unauthorized", "message": "Invalid token"}})
			}
			c.Abort()
			return
		}

		session, err := mw.sessionRepo.FindByToken(c.Request.Context(), token)
		if err != nil || session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "unauthorized", "message": "Session invalid or expired"}})
			c.Abort()
			return
		}

		if session.UserID != claims.UserID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "unauthorized", "message": "Session user mismatch"}})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("session_token", token)
		c.Next()
	}
}
