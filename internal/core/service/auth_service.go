package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

// MinPasswordLength applies to signup and password reset.
const MinPasswordLength = 8

// AuthService implements signup, login and password reset.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.CredentialStore
	tokens ports.TokenService
	logger zerolog.Logger
	now    func() time.Time

	// dummyCredential is verified against when an email is unknown so that
	// login takes the same time whether or not the account exists.
	dummyCredential string
}

func NewAuthService(users ports.UserRepository, hasher ports.CredentialStore, tokens ports.TokenService, logger zerolog.Logger) (*AuthService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("auth service: %w: %w", domain.ErrInternal, err)
	}
	return &AuthService{
		users:           users,
		hasher:          hasher,
		tokens:          tokens,
		logger:          logger,
		now:             time.Now,
		dummyCredential: dummy,
	}, nil
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: %w: %w", domain.ErrInternal, err)
	}

	now := s.now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			s.logger.Error().Err(err).Msg("failed to create user")
		}
		return nil, err
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user signed up")
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.Verify(password, s.dummyCredential)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up user for login")
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

// RequestPasswordReset only confirms the account exists. Delivering a reset
// link is left to an outside mailer.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.NewValidationError("email", "is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Msg("failed to look up user for password reset")
		}
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset requested")
	return nil
}

// ResetPassword replaces the credential of the user named by token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("password reset with invalid token")
		return domain.ErrUnauthenticated
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("reset password: %w: %w", domain.ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash, s.now().UTC()); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUnauthenticated
		}
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to update password")
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("password reset")
	return nil
}

func (s *AuthService) issue(userID string) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w: %w", domain.ErrInternal, err)
	}
	return token, nil
}

func checkPassword(password string) error {
	if len(password) < MinPasswordLength {
		return domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	return nil
}
