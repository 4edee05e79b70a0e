package test

import (
	"context"
	"errors"

	"github.com/polkiloo/secondfamilies/internal/domain/model"
	pkgAuth "github.com/polkiloo/secondfamilies/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides. Without
// overrides tokens are "token:" + subject.
type StrategyStub struct {
	IssueFn func(string) (string, error)
	ParseFn func(string) (string, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(subject string) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(subject)
	}
	return "token:" + subject, nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if len(token) <= len("token:") || token[:len("token:")] != "token:" {
		return "", pkgAuth.ErrInvalidToken
	}
	return token[len("token:"):], nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	ID      string
	Err     error
	ParseFn func(string) (string, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.ID, nil
}

// AuthFacadeStub simulates account operations used by handlers.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, model.Registration) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (string, error)
	CurrentUserFn  func(context.Context, string) (*model.User, error)
	ForgotFn       func(context.Context, string) error
	ResetFn        func(context.Context, string, string) error
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, reg model.Registration) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, reg)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return "token", nil
}

// ParseToken returns stored identifier for authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "user-1", nil
}

// CurrentUser returns the signed-in account.
func (s AuthFacadeStub) CurrentUser(ctx context.Context, id string) (*model.User, error) {
	if s.CurrentUserFn != nil {
		return s.CurrentUserFn(ctx, id)
	}
	return &model.User{ID: id, Email: "donor@example.com", FirstName: "Jane", LastName: "Doe"}, nil
}

// RequestPasswordReset accepts every request by default.
func (s AuthFacadeStub) RequestPasswordReset(ctx context.Context, email string) error {
	if s.ForgotFn != nil {
		return s.ForgotFn(ctx, email)
	}
	return nil
}

// ResetPassword accepts every token by default.
func (s AuthFacadeStub) ResetPassword(ctx context.Context, token, password string) error {
	if s.ResetFn != nil {
		return s.ResetFn(ctx, token, password)
	}
	return nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
