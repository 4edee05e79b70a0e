package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/secondfamilies/internal/domain/errors"
	"github.com/polkiloo/secondfamilies/internal/domain/model"
	"github.com/polkiloo/secondfamilies/internal/domain/repository"
	pkgAuth "github.com/polkiloo/secondfamilies/internal/pkg/auth"
)

const resetPrefix = "reset|"

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
	newID  func() string
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy, newID: uuid.NewString}
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account and returns its auth token.
func (u *AuthUseCase) Register(ctx context.Context, reg model.Registration) (*model.User, string, error) {
	email := NormalizeEmail(reg.Email)
	if email == "" || reg.Password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(reg.Password)
	if err != nil {
		return nil, "", err
	}

	usr := &model.User{
		ID:           u.newID(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		Address:      strings.TrimSpace(reg.Address),
		PhoneNumber:  strings.TrimSpace(reg.PhoneNumber),
	}
	if err := u.users.Create(ctx, usr); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts user ID from provided token. Password reset tokens are
// rejected.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	subject, err := u.tokens.ParseToken(token)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(subject, resetPrefix) {
		return "", pkgAuth.ErrInvalidToken
	}
	return subject, nil
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// FindByEmail returns every account registered under email.
func (u *AuthUseCase) FindByEmail(ctx context.Context, email string) ([]model.User, error) {
	return u.users.ListByEmail(ctx, NormalizeEmail(email))
}

// RequestPasswordReset issues a reset token for the account with email.
// The token is bound to the current password hash, so it stops working
// once the password changes.
func (u *AuthUseCase) RequestPasswordReset(ctx context.Context, email string) (*model.User, string, error) {
	usr, err := u.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, "", err
	}
	token, err := u.tokens.IssueToken(resetPrefix + usr.ID + "|" + fingerprint(usr.PasswordHash))
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// ResetPassword replaces the password of the account the token was issued for.
func (u *AuthUseCase) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		return domainErrors.ErrInvalidCredentials
	}
	subject, err := u.tokens.ParseToken(token)
	if err != nil {
		return domainErrors.ErrInvalidResetToken
	}
	parts := strings.Split(strings.TrimPrefix(subject, resetPrefix), "|")
	if !strings.HasPrefix(subject, resetPrefix) || len(parts) != 2 {
		return domainErrors.ErrInvalidResetToken
	}

	usr, err := u.users.GetByID(ctx, parts[0])
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrInvalidResetToken
		}
		return err
	}
	if fingerprint(usr.PasswordHash) != parts[1] {
		return domainErrors.ErrInvalidResetToken
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	return u.users.UpdatePassword(ctx, usr.ID, hash)
}

func fingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}
