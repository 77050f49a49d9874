package mocks

import (
	"strings"

	"github.com/you/scaletrack/domain"
)

// MockPasswordService implements domain.PasswordService interface for testing
type MockPasswordService struct {
	HashFunc            func(plaintext string) (string, error)
	VerifyFunc          func(hashed, plaintext string) bool
	NormalizeAnswerFunc func(answer string) string
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash hashes a plaintext value
func (m *MockPasswordService) Hash(plaintext string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(plaintext)
	}
	// Default behavior: deterministic fake hash
	return "hashed_" + plaintext, nil
}

// Verify checks a plaintext value against a hash
func (m *MockPasswordService) Verify(hashed, plaintext string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashed, plaintext)
	}
	// Default behavior: match against the deterministic fake hash
	return hashed == "hashed_"+plaintext
}

// NormalizeAnswer canonicalizes a security answer
func (m *MockPasswordService) NormalizeAnswer(answer string) string {
	if m.NormalizeAnswerFunc != nil {
		return m.NormalizeAnswerFunc(answer)
	}
	// Default behavior: same normalization as the real service
	return strings.ToLower(strings.TrimSpace(answer))
}

// Compile-time interface compliance verification
var _ domain.PasswordService = (*MockPasswordService)(nil)
