package mocks

import (
	"fmt"
	"time"

	"github.com/you/scaletrack/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	IssueFunc    func(userID uint) (string, time.Time, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)

	issued int
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Issue creates a signed token for the user
func (m *MockTokenService) Issue(userID uint) (string, time.Time, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(userID)
	}
	// Default behavior: distinct fake token per call, 48h window
	m.issued++
	return fmt.Sprintf("token_%d_%d", userID, m.issued), time.Now().Add(48 * time.Hour), nil
}

// Validate parses and checks a token
func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	// Default behavior: invalid
	return nil, domain.ErrTokenInvalid
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
