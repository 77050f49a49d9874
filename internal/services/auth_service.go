package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/you/scaletrack/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, username, password, securityQuestion, securityAnswer string) (*domain.AuthResult, error) {
	// Pre-check for a taken username. The store's uniqueness constraint is
	// the authority; this only short-circuits the common case before the
	// expensive hashing work.
	existingUser, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existingUser != nil {
		return nil, domain.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	answerHash, err := s.passwordSvc.Hash(s.passwordSvc.NormalizeAnswer(securityAnswer))
	if err != nil {
		return nil, fmt.Errorf("failed to hash security answer: %w", err)
	}

	user := &domain.User{
		Username:           username,
		PasswordHash:       passwordHash,
		SecurityQuestion:   securityQuestion,
		SecurityAnswerHash: answerHash,
		Preferences:        domain.DefaultPreferences(),
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	// No token is issued when the insert fails: a session must never exist
	// for a user row that was not created.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueSession(ctx, user)
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	// Unknown username and wrong password return the same error so responses
	// cannot be used to enumerate accounts.
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, username, securityAnswer, newPassword string) error {
	// Unlike login, this flow distinguishes an unknown user: the caller has
	// already identified the account in a prior step of the product flow.
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	answer := s.passwordSvc.NormalizeAnswer(securityAnswer)
	if !s.passwordSvc.Verify(user.SecurityAnswerHash, answer) {
		return domain.ErrInvalidSecurityAnswer
	}

	newHash, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Revoke every live session unconditionally. The password has already
	// been changed at this point, so a partial or total deletion failure is
	// surfaced rather than swallowed.
	deleted, err := s.sessionRepo.DeleteByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrPartialRevocation) {
			log.Printf("SESSION_REVOCATION_PARTIAL: user_id=%d deleted=%d error=%v timestamp=%s",
				user.ID, deleted, err, time.Now().UTC().Format(time.RFC3339))
			return fmt.Errorf("password changed but revocation incomplete: %w", domain.ErrPartialRevocation)
		}
		log.Printf("SESSION_REVOCATION_FAILED: user_id=%d error=%v timestamp=%s",
			user.ID, err, time.Now().UTC().Format(time.RFC3339))
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	log.Printf("PASSWORD_RESET: user_id=%d username=%s sessions_revoked=%d timestamp=%s",
		user.ID, user.Username, deleted, time.Now().UTC().Format(time.RFC3339))
	return nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.PublicUser, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// issueSession mints a token and persists its session row. Register and Login
// share this tail: one new session per successful call, prior sessions left
// untouched. If the session write fails after registration created the user
// row, the row is not rolled back; the account is usable via a later Login.
func (s *AuthServiceImpl) issueSession(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	token, expiresAt, err := s.tokenSvc.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	session := &domain.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &domain.AuthResult{
		User:      user.Public(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
