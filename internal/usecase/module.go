package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/secondfamilies/internal/archive"
	"github.com/polkiloo/secondfamilies/internal/config"
	"github.com/polkiloo/secondfamilies/internal/domain/repository"
	"github.com/polkiloo/secondfamilies/internal/notify"
	"github.com/polkiloo/secondfamilies/internal/session"
	"github.com/polkiloo/secondfamilies/internal/staging"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	newDonationUseCase,
)

type donationParams struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	Auth      *AuthUseCase
	Donations repository.DonationRepository
	Notifier  *notify.Service
	Staging   *staging.Area
	Archive   *archive.Archive `optional:"true"`
	Sessions  session.Store
}

func newDonationUseCase(p donationParams) *DonationUseCase {
	deps := DonationDeps{
		Identity:    p.Auth,
		Donations:   p.Donations,
		Notifier:    p.Notifier,
		Staging:     p.Staging,
		Sessions:    p.Sessions,
		Payment:     PaymentOptionsFromConfig(p.Config),
		StageSingle: p.Config.StageSingleUpload,
		Logger:      p.Logger,
	}
	// A nil *Archive must not become a non-nil interface value.
	if p.Archive != nil {
		deps.Archive = p.Archive
	}
	return NewDonationUseCase(deps)
}

// PaymentOptionsFromConfig derives payment redirect settings.
func PaymentOptionsFromConfig(cfg *config.Config) PaymentOptions {
	return PaymentOptions{
		URL:       cfg.PaymentURL,
		Merchant:  cfg.MerchantAddress,
		ReturnURL: cfg.PublicBaseURL + SuccessPath,
		CancelURL: cfg.PublicBaseURL + "/",
		Currency:  cfg.CurrencyCode,
	}
}
