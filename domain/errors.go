package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrInvalidSecurityAnswer = errors.New("invalid security answer")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Storage errors
var (
	// ErrStorage covers any collaborator failure the caller cannot act on
	// beyond retrying the whole operation.
	ErrStorage = errors.New("storage failure")

	// ErrPartialRevocation means a bulk session revocation deleted some but
	// not all of a user's sessions. The password change that triggered the
	// revocation has already been applied when this is returned.
	ErrPartialRevocation = errors.New("session revocation partially failed")
)
