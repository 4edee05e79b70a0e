package test

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/secondfamilies/internal/domain/errors"
	"github.com/polkiloo/secondfamilies/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[string]*model.User
	// Extra holds additional accounts returned by ListByEmail, used to
	// simulate ambiguous owner lookups.
	Extra []model.User
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[string]*model.User),
	}
}

// Add stores user directly, bypassing Create.
func (s *UserRepositoryStub) Add(user model.User) *model.User {
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[string]*model.User)
	}
	u := user
	s.Users[u.Email] = &u
	s.ByID[u.ID] = &u
	return &u
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) error {
	if s.Err != nil {
		return s.Err
	}
	if _, exists := s.Users[user.Email]; exists {
		return domainErrors.ErrAlreadyExists
	}
	user.CreatedAt = time.Unix(0, 0).UTC()
	s.Add(*user)
	return nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByEmail returns the stored match plus configured extras.
func (s *UserRepositoryStub) ListByEmail(ctx context.Context, email string) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.User
	if user, ok := s.Users[email]; ok {
		out = append(out, *user)
	}
	for _, u := range s.Extra {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UpdatePassword replaces the stored hash.
func (s *UserRepositoryStub) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

// DonationRepositoryStub records inserted donations.
type DonationRepositoryStub struct {
	InsertFn func(context.Context, *model.Donation) (int64, error)
	Inserted []model.Donation
}

// Insert stores a copy of donation and returns its 1-based position.
func (s *DonationRepositoryStub) Insert(ctx context.Context, donation *model.Donation) (int64, error) {
	if s.InsertFn != nil {
		return s.InsertFn(ctx, donation)
	}
	s.Inserted = append(s.Inserted, *donation)
	id := int64(len(s.Inserted))
	donation.ID = id
	return id, nil
}
