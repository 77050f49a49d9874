package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	// Create inserts the user. A duplicate username is reported as
	// ErrUsernameTaken by the store's uniqueness constraint, not by any
	// read-before-write check.
	Create(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	UpdatePasswordHash(ctx context.Context, userID uint, passwordHash string) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	// DeleteByUser removes every session belonging to the user and returns
	// how many were deleted. A partial failure returns the count together
	// with ErrPartialRevocation so the caller can surface it.
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
	// DeleteExpired prunes sessions whose expiry has passed and returns the
	// number removed.
	DeleteExpired(ctx context.Context) (int64, error)
}

// AuthService defines authentication business logic
type AuthService interface {
	Register(ctx context.Context, username, password, securityQuestion, securityAnswer string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	ResetPassword(ctx context.Context, username, securityAnswer, newPassword string) error
	Logout(ctx context.Context, token string) error
	GetUserProfile(ctx context.Context, userID uint) (*PublicUser, error)
}

// PasswordService defines password and security-answer hashing operations
type PasswordService interface {
	Hash(plaintext string) (string, error)
	Verify(hashed, plaintext string) bool
	// NormalizeAnswer canonicalizes a security answer (trimmed, lower-cased)
	// so answer comparison is case and whitespace insensitive. Passwords are
	// never normalized.
	NormalizeAnswer(answer string) string
}

// TokenService defines bearer token operations
type TokenService interface {
	// Issue creates a signed token carrying the user id, valid for the
	// configured session window. The returned expiry equals the expiry
	// embedded in the token.
	Issue(userID uint) (token string, expiresAt time.Time, err error)
	Validate(token string) (*TokenClaims, error)
}

// TokenClaims represents the claims carried by an issued token
type TokenClaims struct {
	UserID    uint  `json:"user_id"`
	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`
}
