package app

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	domainErrors "github.com/polkiloo/secondfamilies/internal/domain/errors"
	"github.com/polkiloo/secondfamilies/internal/domain/model"
	"github.com/polkiloo/secondfamilies/internal/usecase"
)

// ResetPath is the page password reset links point at.
const ResetPath = "/account/reset-password"

// ResetMailer delivers password reset links.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, name, link string) error
}

// HealthChecker reports backing store availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CharityFacade exposes account and donation operations to the HTTP layer.
type CharityFacade struct {
	auth      *usecase.AuthUseCase
	donations *usecase.DonationUseCase
	mailer    ResetMailer
	health    HealthChecker
	baseURL   string
	logger    *slog.Logger
}

// NewCharityFacade constructs CharityFacade.
func NewCharityFacade(auth *usecase.AuthUseCase, donations *usecase.DonationUseCase, mailer ResetMailer, health HealthChecker, baseURL string, logger *slog.Logger) *CharityFacade {
	return &CharityFacade{
		auth:      auth,
		donations: donations,
		mailer:    mailer,
		health:    health,
		baseURL:   baseURL,
		logger:    logger,
	}
}

func (f *CharityFacade) Register(ctx context.Context, reg model.Registration) (string, error) {
	_, token, err := f.auth.Register(ctx, reg)
	return token, err
}

func (f *CharityFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *CharityFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *CharityFacade) CurrentUser(ctx context.Context, id string) (*model.User, error) {
	return f.auth.GetByID(ctx, id)
}

// RequestPasswordReset mails a reset link. Unknown addresses are logged and
// reported as success so the form does not reveal which accounts exist.
func (f *CharityFacade) RequestPasswordReset(ctx context.Context, email string) error {
	usr, token, err := f.auth.RequestPasswordReset(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			f.logger.Info("password reset for unknown email ignored")
			return nil
		}
		return err
	}
	link := f.baseURL + ResetPath + "?" + url.Values{"token": {token}}.Encode()
	return f.mailer.SendPasswordReset(ctx, usr.Email, usr.FullName(), link)
}

func (f *CharityFacade) ResetPassword(ctx context.Context, token, password string) error {
	return f.auth.ResetPassword(ctx, token, password)
}

func (f *CharityFacade) SubmitMonetaryDonation(ctx context.Context, form usecase.DonationForm, donor usecase.Donor) (*usecase.Submission, error) {
	return f.donations.SubmitMonetaryDonation(ctx, form, donor)
}

func (f *CharityFacade) SubmitGoodsDonation(ctx context.Context, form usecase.DonationForm, uploads []model.Upload, donor usecase.Donor) (*usecase.Submission, error) {
	return f.donations.SubmitGoodsDonation(ctx, form, uploads, donor)
}

func (f *CharityFacade) ConfirmSuccess(ctx context.Context, sessionID string) (bool, error) {
	return f.donations.ConfirmSuccess(ctx, sessionID)
}

func (f *CharityFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
