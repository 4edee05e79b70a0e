package test

import (
	"context"
	"sync"

	"github.com/polkiloo/secondfamilies/internal/domain/model"
	"github.com/polkiloo/secondfamilies/internal/notify"
	"github.com/polkiloo/secondfamilies/internal/usecase"
)

// DonationFacadeStub provides controllable behaviour for donation endpoints.
type DonationFacadeStub struct {
	MonetaryFn func(context.Context, usecase.DonationForm, usecase.Donor) (*usecase.Submission, error)
	GoodsFn    func(context.Context, usecase.DonationForm, []model.Upload, usecase.Donor) (*usecase.Submission, error)
	ConfirmFn  func(context.Context, string) (bool, error)
}

// SubmitMonetaryDonation delegates to override or redirects to a fixed URL.
func (s DonationFacadeStub) SubmitMonetaryDonation(ctx context.Context, form usecase.DonationForm, donor usecase.Donor) (*usecase.Submission, error) {
	if s.MonetaryFn != nil {
		return s.MonetaryFn(ctx, form, donor)
	}
	return &usecase.Submission{DonationID: 1, RedirectURL: "https://pay.example.com/?amount=" + form.Amount}, nil
}

// SubmitGoodsDonation delegates to override or redirects to the success page.
func (s DonationFacadeStub) SubmitGoodsDonation(ctx context.Context, form usecase.DonationForm, uploads []model.Upload, donor usecase.Donor) (*usecase.Submission, error) {
	if s.GoodsFn != nil {
		return s.GoodsFn(ctx, form, uploads, donor)
	}
	return &usecase.Submission{DonationID: 1, RedirectURL: usecase.SuccessPath}, nil
}

// ConfirmSuccess reports a sent confirmation by default.
func (s DonationFacadeStub) ConfirmSuccess(ctx context.Context, sessionID string) (bool, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, sessionID)
	}
	return true, nil
}

// CharityFacadeStub aggregates facade dependencies for HTTP layer tests.
type CharityFacadeStub struct {
	AuthFacadeStub
	DonationFacadeStub
	HealthFn func(context.Context) error
}

// HealthCheck reports healthy unless overridden.
func (s CharityFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// NotificationCall records one SendDonationNotification invocation.
type NotificationCall struct {
	Donation    model.Donation
	Kind        notify.Kind
	Attachments []model.Attachment
}

// NotifierStub records donation notifications.
type NotifierStub struct {
	Err   error
	mu    sync.Mutex
	Calls []NotificationCall
}

// SendDonationNotification records the call and returns the configured error.
func (s *NotifierStub) SendDonationNotification(_ context.Context, donation model.Donation, kind notify.Kind, attachments []model.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, NotificationCall{Donation: donation, Kind: kind, Attachments: attachments})
	return s.Err
}

// ResetMailCall records one SendPasswordReset invocation.
type ResetMailCall struct {
	Email, Name, Link string
}

// ResetMailerStub records password reset emails.
type ResetMailerStub struct {
	Err   error
	Calls []ResetMailCall
}

// SendPasswordReset records the call and returns the configured error.
func (s *ResetMailerStub) SendPasswordReset(_ context.Context, email, name, link string) error {
	s.Calls = append(s.Calls, ResetMailCall{Email: email, Name: name, Link: link})
	return s.Err
}
