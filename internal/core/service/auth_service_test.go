package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
	"github.com/sohhamm/personal-finance-app/internal/core/ports"
	"github.com/sohhamm/personal-finance-app/internal/pkg/password"
	"github.com/sohhamm/personal-finance-app/internal/pkg/token"
)

type stubUserRepo struct {
	users   map[string]*domain.User
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, userID, hash string, at time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	return nil
}

var cheapParams = password.Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newTestAuthService(t *testing.T, repo *stubUserRepo) (*AuthService, *token.Service) {
	t.Helper()
	tokens := token.NewService("secret", time.Hour)
	svc, err := NewAuthService(repo, password.NewHasher(cheapParams), tokens, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc, tokens
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(t, repo)

	res, err := svc.Signup(context.Background(), signupInput("alice@example.com"))
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if res.User.ID == "" {
		t.Fatalf("expected generated user id")
	}
	if res.User.PasswordHash == "password123" {
		t.Fatalf("expected password to be hashed")
	}
	if !password.NewHasher(cheapParams).Verify("password123", res.User.PasswordHash) {
		t.Fatalf("stored credential does not verify")
	}

	sub, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if sub != res.User.ID {
		t.Fatalf("expected subject %s, got %s", res.User.ID, sub)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo())

	cases := []struct {
		name  string
		in    signupCase
		field string
	}{
		{"missing name", signupCase{"", "a@example.com", "password123"}, "name"},
		{"missing email", signupCase{"A", " ", "password123"}, "email"},
		{"short password", signupCase{"A", "a@example.com", "short"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.in.input())
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %s, got %s", tc.field, verr.Field)
			}
		})
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo())

	if _, err := svc.Signup(context.Background(), signupInput("bob@example.com")); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := svc.Signup(context.Background(), signupInput("bob@example.com")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(t, repo)

	signed, err := svc.Signup(context.Background(), signupInput("carol@example.com"))
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "carol@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if sub, err := tokens.Verify(res.Token); err != nil || sub != signed.User.ID {
		t.Fatalf("unexpected token subject %q: %v", sub, err)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo())

	_, _ = svc.Signup(context.Background(), signupInput("dave@example.com"))
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpassword"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo())

	if _, err := svc.Login(context.Background(), "ghost@example.com", "password123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = domain.ErrStorageUnavailable
	svc, _ := newTestAuthService(t, repo)

	if _, err := svc.Login(context.Background(), "eve@example.com", "password123"); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo())
	_, _ = svc.Signup(context.Background(), signupInput("frank@example.com"))

	if err := svc.RequestPasswordReset(context.Background(), "frank@example.com"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := svc.RequestPasswordReset(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(t, repo)

	res, err := svc.Signup(context.Background(), signupInput("gina@example.com"))
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), res.Token, "new-password"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "gina@example.com", "password123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.Login(context.Background(), "gina@example.com", "new-password"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestAuthService_ResetPassword_InvalidToken(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo())

	if err := svc.ResetPassword(context.Background(), "not-a-token", "new-password"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	foreign, _ := token.NewService("other-secret", time.Hour).Issue(uuid.NewString())
	if err := svc.ResetPassword(context.Background(), foreign, "new-password"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for foreign token, got %v", err)
	}
}

func TestAuthService_ResetPassword_UnknownSubject(t *testing.T) {
	svc, tokens := newTestAuthService(t, newStubUserRepo())

	orphan, _ := tokens.Issue(uuid.NewString())
	if err := svc.ResetPassword(context.Background(), orphan, "new-password"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

type signupCase struct {
	name, email, password string
}

func (c signupCase) input() ports.SignupInput {
	return ports.SignupInput{Name: c.name, Email: c.email, Password: c.password}
}

func signupInput(email string) ports.SignupInput {
	return signupCase{"Test User", email, "password123"}.input()
}
