package domain

import "time"

// Preferences is the per-user settings blob. The dashboard reads and writes
// it freely; this core only seeds the defaults at registration.
type Preferences struct {
	Theme             string `json:"theme"`
	MovingAverageDays int    `json:"moving_average_days"`
}

// DefaultPreferences returns the settings every new account starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:             "light",
		MovingAverageDays: 7,
	}
}

// User represents an account in the system
type User struct {
	ID                 uint
	Username           string
	PasswordHash       string
	SecurityQuestion   string
	SecurityAnswerHash string
	Preferences        Preferences
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PublicUser is the projection of a User that may leave the service.
// It never carries the password or security-answer hash.
type PublicUser struct {
	ID          uint        `json:"id"`
	Username    string      `json:"username"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		Preferences: u.Preferences,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User      *PublicUser
	Token     string
	ExpiresAt time.Time
}

// Session represents a live authorization grant. Token doubles as the
// session's storage key and the signed artifact held by the client.
type Session struct {
	UserID    uint
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
