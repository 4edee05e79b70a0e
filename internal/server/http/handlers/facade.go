package handlers

import (
	"context"

	"github.com/polkiloo/secondfamilies/internal/domain/model"
	"github.com/polkiloo/secondfamilies/internal/usecase"
)

// AuthFacade describes account capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, reg model.Registration) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (string, error)
	CurrentUser(ctx context.Context, id string) (*model.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// DonationFacade encapsulates donation operations exposed via HTTP.
type DonationFacade interface {
	CurrentUser(ctx context.Context, id string) (*model.User, error)
	SubmitMonetaryDonation(ctx context.Context, form usecase.DonationForm, donor usecase.Donor) (*usecase.Submission, error)
	SubmitGoodsDonation(ctx context.Context, form usecase.DonationForm, uploads []model.Upload, donor usecase.Donor) (*usecase.Submission, error)
	ConfirmSuccess(ctx context.Context, sessionID string) (bool, error)
}

// HealthFacade reports backing store availability.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// CharityFacade aggregates the full set of operations used across handlers.
type CharityFacade interface {
	AuthFacade
	DonationFacade
	HealthFacade
}
