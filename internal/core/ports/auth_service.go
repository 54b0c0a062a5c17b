package ports

import (
	"context"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
)

// SignupInput carries the fields needed to open an account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// RequestPasswordReset reports domain.ErrUserNotFound for unknown emails.
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// CredentialStore hashes and verifies passwords.
type CredentialStore interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, credential string) bool
}

// TokenService issues and verifies signed, time-limited identity tokens.
type TokenService interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}
