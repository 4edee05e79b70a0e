package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	domainErrors "github.com/polkiloo/secondfamilies/internal/domain/errors"
	"github.com/polkiloo/secondfamilies/internal/domain/model"
	pkgAuth "github.com/polkiloo/secondfamilies/internal/pkg/auth"
	testhelpers "github.com/polkiloo/secondfamilies/internal/test"
	"github.com/polkiloo/secondfamilies/internal/usecase"
)

func newAuth(repo *testhelpers.UserRepositoryStub) *usecase.AuthUseCase {
	return usecase.NewAuthUseCase(repo, testhelpers.HasherStub{}, testhelpers.StrategyStub{})
}

func registration(email, password string) model.Registration {
	return model.Registration{Email: email, Password: password, FirstName: "Alice", LastName: "Smith"}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuth(repo)

	ctx := context.Background()
	user, token, err := uc.Register(ctx, registration("  Alice@Example.COM ", "password"))
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected user to have ID assigned")
	}
	if token != "token:"+user.ID {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("expected user stored under normalized email: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
	if stored.FirstName != "Alice" || stored.LastName != "Smith" {
		t.Fatalf("profile not stored: %+v", stored)
	}
}

func TestAuthUseCaseRegisterAssignsDistinctIDs(t *testing.T) {
	uc := newAuth(testhelpers.NewUserRepositoryStub())
	first, _, err := uc.Register(context.Background(), registration(testhelpers.RandomEmail(), "secret"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	second, _, err := uc.Register(context.Background(), registration(testhelpers.RandomEmail(), "secret"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, got %q twice", first.ID)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	uc := newAuth(testhelpers.NewUserRepositoryStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, registration("bob@example.com", "secret")); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, registration("BOB@example.com", "secret")); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := newAuth(testhelpers.NewUserRepositoryStub())
	if _, _, err := uc.Register(context.Background(), registration("  ", "password")); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Register(context.Background(), registration("user@example.com", "")); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
}

func TestAuthUseCaseRegisterFailures(t *testing.T) {
	cases := []struct {
		name     string
		hasher   testhelpers.HasherStub
		strategy testhelpers.StrategyStub
		repoErr  error
	}{
		{
			name:   "hasher",
			hasher: testhelpers.HasherStub{HashFn: func(string) (string, error) { return "", fmt.Errorf("hash error") }},
		},
		{
			name:    "repository",
			repoErr: fmt.Errorf("db down"),
		},
		{
			name:     "token",
			strategy: testhelpers.StrategyStub{IssueFn: func(string) (string, error) { return "", fmt.Errorf("cannot issue token") }},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := testhelpers.NewUserRepositoryStub()
			repo.Err = tc.repoErr
			uc := usecase.NewAuthUseCase(repo, tc.hasher, tc.strategy)
			if _, _, err := uc.Register(context.Background(), registration("user@example.com", "pass")); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuth(repo)

	ctx := context.Background()
	user, _, err := uc.Register(ctx, registration("carol@example.com", "123456"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol@example.com", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "absent@example.com", "123456"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "", ""); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for empty input, got %v", err)
	}

	got, token, err := uc.Authenticate(ctx, " CAROL@example.com", "123456")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if got.ID != user.ID || token != "token:"+user.ID {
		t.Fatalf("unexpected authenticate result %q %q", got.ID, token)
	}
}

func TestAuthUseCaseAuthenticateRepositoryError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuth(repo)
	if _, _, err := uc.Register(context.Background(), registration("user@example.com", "pass")); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	repo.Err = fmt.Errorf("storage unavailable")
	if _, _, err := uc.Authenticate(context.Background(), "user@example.com", "pass"); err == nil || err.Error() != "storage unavailable" {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := newAuth(testhelpers.NewUserRepositoryStub())

	id, err := uc.ParseToken("token:user-42")
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if id != "user-42" {
		t.Fatalf("expected id user-42, got %q", id)
	}

	for _, token := range []string{"", "bad-token", "token:reset|user-42|abcd"} {
		if _, err := uc.ParseToken(token); err != pkgAuth.ErrInvalidToken {
			t.Fatalf("token %q: expected invalid token error, got %v", token, err)
		}
	}
}

func TestAuthUseCaseFindByEmail(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	repo.Add(model.User{ID: "u1", Email: "dana@example.com"})
	uc := newAuth(repo)

	users, err := uc.FindByEmail(context.Background(), " Dana@Example.com ")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if len(users) != 1 || users[0].ID != "u1" {
		t.Fatalf("unexpected users %+v", users)
	}

	got, err := uc.GetByID(context.Background(), "u1")
	if err != nil || got.Email != "dana@example.com" {
		t.Fatalf("get by id: %+v %v", got, err)
	}
}

func TestAuthUseCasePasswordReset(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuth(repo)
	ctx := context.Background()

	user, _, err := uc.Register(ctx, registration("erin@example.com", "old-pass"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, token, err := uc.RequestPasswordReset(ctx, "ERIN@example.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("reset issued for %q, want %q", got.ID, user.ID)
	}
	if !strings.HasPrefix(token, "token:reset|"+user.ID+"|") {
		t.Fatalf("unexpected reset token %q", token)
	}
	if _, err := uc.ParseToken(token); err == nil {
		t.Fatal("reset token must not be accepted as a session token")
	}

	if err := uc.ResetPassword(ctx, token, "new-pass"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "erin@example.com", "new-pass"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}

	if err := uc.ResetPassword(ctx, token, "another"); !errors.Is(err, domainErrors.ErrInvalidResetToken) {
		t.Fatalf("expected reused token to be rejected, got %v", err)
	}
}

func TestAuthUseCasePasswordResetRejects(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuth(repo)
	ctx := context.Background()

	if _, _, err := uc.RequestPasswordReset(ctx, "nobody@example.com"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown email, got %v", err)
	}

	cases := map[string]string{
		"garbage":        "garbage",
		"session token":  "token:user-1",
		"unknown user":   "token:reset|missing|0011223344556677",
		"malformed body": "token:reset|only-id",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if err := uc.ResetPassword(ctx, token, "new-pass"); !errors.Is(err, domainErrors.ErrInvalidResetToken) {
				t.Fatalf("expected invalid reset token, got %v", err)
			}
		})
	}

	if err := uc.ResetPassword(ctx, "token:reset|a|b", ""); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for empty password, got %v", err)
	}
}
