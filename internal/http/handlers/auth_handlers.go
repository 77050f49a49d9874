package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/scaletrack/domain"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Username         string `json:"username" binding:"required"`
	Password         string `json:"password" binding:"required,min=6"`
	SecurityQuestion string `json:"securityQuestion" binding:"required"`
	SecurityAnswer   string `json:"securityAnswer" binding:"required"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetPasswordRequest represents a password reset request
type ResetPasswordRequest struct {
	Username       string `json:"username" binding:"required"`
	SecurityAnswer string `json:"securityAnswer" binding:"required"`
	NewPassword    string `json:"newPassword" binding:"required,min=6"`
}

func errorBody(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}

func authResultBody(result *domain.AuthResult) gin.H {
	return gin.H{
		"data": gin.H{
			"user":       result.User,
			"token":      result.Token,
			"expires_at": result.ExpiresAt,
		},
	}
}

// Register handles account registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("validation_error", err.Error()))
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Password, req.SecurityQuestion, req.SecurityAnswer)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, errorBody("username_taken", "Username already taken"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorBody("storage_error", "Failed to register user"))
		return
	}

	c.JSON(http.StatusCreated, authResultBody(result))
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("validation_error", err.Error()))
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// One status and one message for every credential failure so the
		// response cannot be used to probe for usernames.
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, errorBody("invalid_credentials", "Invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorBody("storage_error", "Login failed"))
		return
	}

	c.JSON(http.StatusOK, authResultBody(result))
}

// ResetPassword handles password reset via security question
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("validation_error", err.Error()))
		return
	}

	err := h.authSvc.ResetPassword(c.Request.Context(), req.Username, req.SecurityAnswer, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, errorBody("user_not_found", "User not found"))
		case errors.Is(err, domain.ErrInvalidSecurityAnswer):
			c.JSON(http.StatusUnauthorized, errorBody("invalid_security_answer", "Invalid security answer"))
		case errors.Is(err, domain.ErrPartialRevocation):
			// The password was changed; some sessions survived the purge.
			c.JSON(http.StatusInternalServerError, errorBody("partial_revocation",
				"Password was changed but some sessions could not be revoked"))
		default:
			c.JSON(http.StatusInternalServerError, errorBody("storage_error", "Failed to reset password"))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Password reset successfully. Please log in with your new password.",
		},
	})
}

// Me handles getting the user profile (requires a live session)
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, errorBody("unauthorized", "User ID not found in context"))
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), userID.(uint))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, errorBody("user_not_found", "User not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorBody("storage_error", "Failed to get user profile"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": user}})
}

// Logout handles user logout (requires a live session)
func (h *AuthHandlers) Logout(c *gin.Context) {
	token, exists := c.Get("session_token")
	if !exists {
		c.JSON(http.StatusBadRequest, errorBody("validation_error", "Session token not found"))
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), token.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("storage_error", "Logout failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
		},
	})
}
