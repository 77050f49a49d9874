package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/you/scaletrack/domain"
)

// PasswordServiceImpl implements domain.PasswordService
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service
func NewPasswordService() domain.PasswordService {
	return &PasswordServiceImpl{
		cost: bcrypt.DefaultCost,
	}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(plaintext string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService
func (p *PasswordServiceImpl) Verify(hashed, plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	return err == nil
}

// NormalizeAnswer implements domain.PasswordService. Security answers are
// compared case and whitespace insensitively; callers must normalize before
// hashing and before verifying. Passwords stay byte-exact.
func (p *PasswordServiceImpl) NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
