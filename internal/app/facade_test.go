package app

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/secondfamilies/internal/domain/errors"
	"github.com/polkiloo/secondfamilies/internal/domain/model"
	"github.com/polkiloo/secondfamilies/internal/session"
	"github.com/polkiloo/secondfamilies/internal/staging"
	testhelpers "github.com/polkiloo/secondfamilies/internal/test"
	"github.com/polkiloo/secondfamilies/internal/usecase"
)

type healthStub struct{ err error }

func (h healthStub) HealthCheck(context.Context) error { return h.err }

type facadeEnv struct {
	facade    *CharityFacade
	users     *testhelpers.UserRepositoryStub
	donations *testhelpers.DonationRepositoryStub
	notifier  *testhelpers.NotifierStub
	mailer    *testhelpers.ResetMailerStub
	sessions  *session.MemoryStore
}

func newFacade(t *testing.T, health HealthChecker) *facadeEnv {
	t.Helper()
	env := &facadeEnv{
		users:     testhelpers.NewUserRepositoryStub(),
		donations: &testhelpers.DonationRepositoryStub{},
		notifier:  &testhelpers.NotifierStub{},
		mailer:    &testhelpers.ResetMailerStub{},
		sessions:  session.NewMemoryStore(time.Minute),
	}
	area, err := staging.NewArea(t.TempDir(), staging.Options{})
	if err != nil {
		t.Fatalf("new area: %v", err)
	}
	authUC := usecase.NewAuthUseCase(env.users, testhelpers.HasherStub{}, testhelpers.StrategyStub{})
	donationUC := usecase.NewDonationUseCase(usecase.DonationDeps{
		Identity:  authUC,
		Donations: env.donations,
		Notifier:  env.notifier,
		Staging:   area,
		Sessions:  env.sessions,
		Payment:   usecase.PaymentOptions{URL: "https://pay.example.com/webscr", Merchant: "m@example.com", Currency: "USD"},
		Logger:    discardLogger(),
	})
	env.facade = NewCharityFacade(authUC, donationUC, env.mailer, health, "https://secondfamilies.org", discardLogger())
	return env
}

func TestCharityFacadeAuth(t *testing.T) {
	env := newFacade(t, nil)
	ctx := context.Background()

	token, err := env.facade.Register(ctx, model.Registration{Email: "user@example.com", Password: "secret1", FirstName: "U"})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	id, err := env.facade.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}

	usr, err := env.facade.CurrentUser(ctx, id)
	if err != nil || usr.Email != "user@example.com" {
		t.Fatalf("current user: %+v %v", usr, err)
	}

	if _, err := env.facade.Authenticate(ctx, "user@example.com", "secret1"); err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if _, err := env.facade.Authenticate(ctx, "user@example.com", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestCharityFacadePasswordReset(t *testing.T) {
	env := newFacade(t, nil)
	ctx := context.Background()
	if _, err := env.facade.Register(ctx, model.Registration{Email: "reset@example.com", Password: "secret1", FirstName: "Rita", LastName: "Reset"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := env.facade.RequestPasswordReset(ctx, "reset@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(env.mailer.Calls) != 1 {
		t.Fatalf("expected one reset mail, got %d", len(env.mailer.Calls))
	}
	call := env.mailer.Calls[0]
	if call.Email != "reset@example.com" || call.Name != "Rita Reset" {
		t.Fatalf("unexpected reset mail %+v", call)
	}
	if !strings.HasPrefix(call.Link, "https://secondfamilies.org/account/reset-password?token=") {
		t.Fatalf("unexpected link %q", call.Link)
	}
	link, err := url.Parse(call.Link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}

	if err := env.facade.ResetPassword(ctx, link.Query().Get("token"), "brand-new"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, err := env.facade.Authenticate(ctx, "reset@example.com", "brand-new"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
}

func TestCharityFacadePasswordResetUnknownEmail(t *testing.T) {
	env := newFacade(t, nil)
	if err := env.facade.RequestPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("unknown email must not be reported, got %v", err)
	}
	if len(env.mailer.Calls) != 0 {
		t.Fatalf("expected no mail for unknown email, got %d", len(env.mailer.Calls))
	}
}

func TestCharityFacadePasswordResetMailError(t *testing.T) {
	env := newFacade(t, nil)
	ctx := context.Background()
	_, _ = env.facade.Register(ctx, model.Registration{Email: "m@example.com", Password: "secret1", FirstName: "M"})
	env.mailer.Err = errors.New("smtp down")
	if err := env.facade.RequestPasswordReset(ctx, "m@example.com"); !errors.Is(err, env.mailer.Err) {
		t.Fatalf("expected mail error, got %v", err)
	}
}

func TestCharityFacadeDonations(t *testing.T) {
	env := newFacade(t, nil)
	ctx := context.Background()
	env.users.Add(model.User{ID: "owner", Email: "owner@example.com", FirstName: "O"})
	donor := usecase.Donor{SessionID: "sid", Email: "owner@example.com"}

	sub, err := env.facade.SubmitMonetaryDonation(ctx, usecase.DonationForm{Amount: "20"}, donor)
	if err != nil {
		t.Fatalf("monetary: %v", err)
	}
	if !strings.HasPrefix(sub.RedirectURL, "https://pay.example.com/webscr?") {
		t.Fatalf("unexpected redirect %q", sub.RedirectURL)
	}

	sent, err := env.facade.ConfirmSuccess(ctx, "sid")
	if err != nil || !sent {
		t.Fatalf("confirm: %v %v", sent, err)
	}

	sub, err = env.facade.SubmitGoodsDonation(ctx, usecase.DonationForm{Item: "Bed"}, nil, donor)
	if err != nil {
		t.Fatalf("goods: %v", err)
	}
	if sub.RedirectURL != usecase.SuccessPath {
		t.Fatalf("unexpected goods redirect %q", sub.RedirectURL)
	}
	if len(env.donations.Inserted) != 2 || len(env.notifier.Calls) != 2 {
		t.Fatalf("expected two records and two mails, got %d and %d", len(env.donations.Inserted), len(env.notifier.Calls))
	}
}

func TestCharityFacadeHealthCheck(t *testing.T) {
	if err := newFacade(t, nil).facade.HealthCheck(context.Background()); err != nil {
		t.Fatalf("nil checker must be healthy, got %v", err)
	}
	down := errors.New("db down")
	if err := newFacade(t, healthStub{err: down}).facade.HealthCheck(context.Background()); !errors.Is(err, down) {
		t.Fatalf("expected health error, got %v", err)
	}
}
