package mocks

import (
	"context"

	"github.com/you/scaletrack/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, username, password, securityQuestion, securityAnswer string) (*domain.AuthResult, error)
	LoginFunc          func(ctx context.Context, username, password string) (*domain.AuthResult, error)
	ResetPasswordFunc  func(ctx context.Context, username, securityAnswer, newPassword string) error
	LogoutFunc         func(ctx context.Context, token string) error
	GetUserProfileFunc func(ctx context.Context, userID uint) (*domain.PublicUser, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register creates a new account
func (m *MockAuthService) Register(ctx context.Context, username, password, securityQuestion, securityAnswer string) (*domain.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, password, securityQuestion, securityAnswer)
	}
	return nil, domain.ErrStorage
}

// Login authenticates an account
func (m *MockAuthService) Login(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return nil, domain.ErrInvalidCredentials
}

// ResetPassword changes a password after answering the security question
func (m *MockAuthService) ResetPassword(ctx context.Context, username, securityAnswer, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, username, securityAnswer, newPassword)
	}
	return domain.ErrUserNotFound
}

// Logout removes one session
func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

// GetUserProfile returns the public projection of a user
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.PublicUser, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
