// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oakmund/taskfolio/internal/models"
	"github.com/oakmund/taskfolio/internal/repository"
	"github.com/oakmund/taskfolio/pkg/auth"
)

type AuthService struct {
	users           *repository.UserRepository
	passwordManager *auth.PasswordManager
	tokenManager    *auth.TokenManager
	queryTimeout    time.Duration
}

func NewAuthService(users *repository.UserRepository, tokenManager *auth.TokenManager, queryTimeout time.Duration) *AuthService {
	return &AuthService{
		users:           users,
		passwordManager: auth.NewPasswordManager(),
		tokenManager:    tokenManager,
		queryTimeout:    queryTimeout,
	}
}

// SignUp validates the credentials and creates a new account. All validation
// happens before any store round-trip.
func (s *AuthService) SignUp(ctx context.Context, email, password, confirm string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := auth.ValidateEmail(email); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.passwordManager.ValidatePassword(password); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailTaken
	}

	hashedPassword, err := s.passwordManager.HashPassword(password)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	slog.Info("user_registered", "user_id", user.ID)
	return nil
}

// SignIn checks the credentials and returns a signed session token. The
// caller is responsible for carrying it in the session cookie.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("login_failed", "email", email, "reason", "user not found")
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.passwordManager.ComparePassword(user.PasswordHash, password); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid password")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenManager.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	slog.Info("login_success", "user_id", user.ID)
	return token, nil
}
