package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/secondfamilies/internal/domain/errors"
	"github.com/polkiloo/secondfamilies/internal/domain/model"
	"github.com/polkiloo/secondfamilies/internal/domain/repository"
	"github.com/polkiloo/secondfamilies/internal/notify"
	"github.com/polkiloo/secondfamilies/internal/session"
	"github.com/polkiloo/secondfamilies/internal/staging"
)

// SuccessPath is where donors land once a donation is complete.
const SuccessPath = "/donate/success"

const paymentItemName = "Donate to SecondFamilies"

// Identity resolves and creates donor accounts.
type Identity interface {
	FindByEmail(ctx context.Context, email string) ([]model.User, error)
	Register(ctx context.Context, reg model.Registration) (*model.User, string, error)
}

// Notifier sends donation emails.
type Notifier interface {
	SendDonationNotification(ctx context.Context, donation model.Donation, kind notify.Kind, attachments []model.Attachment) error
}

// StagingArea allocates per-submission attachment scopes.
type StagingArea interface {
	New() (*staging.Scope, error)
}

// PhotoArchive keeps a durable copy of staged photos.
type PhotoArchive interface {
	Store(ctx context.Context, group string, files []model.Attachment) ([]string, error)
}

// PaymentOptions configures the payment redirect.
type PaymentOptions struct {
	URL       string
	Merchant  string
	ReturnURL string
	CancelURL string
	Currency  string
}

// DonationForm is the raw donation submission.
type DonationForm struct {
	FirstName       string
	LastName        string
	Address         string
	PhoneNumber     string
	Email           string
	Password        string
	ConfirmPassword string
	Amount          string
	Allocation      string
	Item            string
	Quantity        string
	ImageURL        string
	NeedPickup      string
	CanDropOff      string
	DatePickDrop    string
	AmazonWishList  string
}

// Donor identifies who is submitting. Email is empty for anonymous visitors.
type Donor struct {
	SessionID string
	Email     string
}

// Submission is the outcome of an accepted donation.
type Submission struct {
	DonationID  int64
	RedirectURL string
	// User and Token are set when the submission created a new account.
	User  *model.User
	Token string
}

type credentials struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6,max=72"`
	ConfirmPassword string `validate:"eqfield=Password"`
	FirstName       string `validate:"required"`
}

// DonationDeps groups DonationUseCase collaborators.
type DonationDeps struct {
	Identity    Identity
	Donations   repository.DonationRepository
	Notifier    Notifier
	Staging     StagingArea
	Archive     PhotoArchive
	Sessions    session.Store
	Payment     PaymentOptions
	StageSingle bool
	Logger      *slog.Logger
}

// DonationUseCase drives monetary and goods donation submissions.
type DonationUseCase struct {
	identity    Identity
	donations   repository.DonationRepository
	notifier    Notifier
	staging     StagingArea
	archive     PhotoArchive
	sessions    session.Store
	payment     PaymentOptions
	stageSingle bool
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewDonationUseCase constructs DonationUseCase.
func NewDonationUseCase(d DonationDeps) *DonationUseCase {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DonationUseCase{
		identity:    d.Identity,
		donations:   d.Donations,
		notifier:    d.Notifier,
		staging:     d.Staging,
		archive:     d.Archive,
		sessions:    d.Sessions,
		payment:     d.Payment,
		stageSingle: d.StageSingle,
		validate:    validator.New(),
		logger:      logger,
	}
}

// SubmitMonetaryDonation records a monetary donation, stores the hand-off for
// the success page and returns the payment redirect.
func (u *DonationUseCase) SubmitMonetaryDonation(ctx context.Context, form DonationForm, donor Donor) (*Submission, error) {
	amount, err := parseAmount(form.Amount)
	if err != nil {
		return nil, err
	}

	sub := &Submission{}
	owner, err := u.resolveOwner(ctx, form, donor, sub)
	if err != nil {
		return nil, err
	}

	record := buildRecord(form, owner, model.DonationTypeMonetary)
	record.Amount = strconv.Itoa(amount)
	id, err := u.donations.Insert(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("insert donation: %w", err)
	}
	sub.DonationID = id

	handoff := model.Handoff{Email: record.Email, FirstName: record.FirstName, LastName: record.LastName}
	if err := u.sessions.SaveHandoff(ctx, donor.SessionID, handoff); err != nil {
		return nil, fmt.Errorf("save handoff: %w", err)
	}

	sub.RedirectURL = u.paymentURL(amount)
	u.logger.Info("monetary donation accepted",
		slog.Int64("donation_id", id),
		slog.String("user_id", owner.ID),
	)
	return sub, nil
}

// SubmitGoodsDonation stages the uploaded photos, records the donation and
// sends the receipt with the photos attached.
func (u *DonationUseCase) SubmitGoodsDonation(ctx context.Context, form DonationForm, uploads []model.Upload, donor Donor) (*Submission, error) {
	scope, err := u.staging.New()
	if err != nil {
		return nil, fmt.Errorf("open staging scope: %w", err)
	}
	defer u.finishScope(scope)

	if err := scope.Clear(); err != nil {
		return nil, err
	}
	if files := nonEmpty(uploads); len(files) > 1 || (u.stageSingle && len(files) > 0) {
		if _, err := scope.Stage(files); err != nil {
			return nil, err
		}
	}

	sub := &Submission{}
	owner, err := u.resolveOwner(ctx, form, donor, sub)
	if err != nil {
		return nil, err
	}

	attachments, err := scope.ListAll()
	if err != nil {
		return nil, err
	}

	record := buildRecord(form, owner, model.DonationTypeGoods)
	if len(attachments) > 0 && u.archive != nil {
		urls, err := u.archive.Store(ctx, scope.ID(), attachments)
		if err != nil {
			u.logger.Warn("photo archive failed", slog.String("scope", scope.ID()), slog.String("error", err.Error()))
		} else if record.ImageURL == "" && len(urls) > 0 {
			record.ImageURL = urls[0]
		}
	}

	id, err := u.donations.Insert(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("insert donation: %w", err)
	}
	sub.DonationID = id

	if err := u.notifier.SendDonationNotification(ctx, record, notify.KindGoodsReceipt, attachments); err != nil {
		return nil, err
	}

	sub.RedirectURL = SuccessPath
	u.logger.Info("goods donation accepted",
		slog.Int64("donation_id", id),
		slog.String("user_id", owner.ID),
		slog.Int("attachments", len(attachments)),
	)
	return sub, nil
}

// ConfirmSuccess consumes the hand-off left by a monetary donation and sends
// the confirmation. It reports whether a confirmation was sent.
func (u *DonationUseCase) ConfirmSuccess(ctx context.Context, sessionID string) (bool, error) {
	h, err := u.sessions.TakeHandoff(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("take handoff: %w", err)
	}
	if h == nil {
		return false, nil
	}

	donation := model.Donation{Email: h.Email, FirstName: h.FirstName, LastName: h.LastName}
	if err := u.notifier.SendDonationNotification(ctx, donation, notify.KindMonetaryConfirmation, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (u *DonationUseCase) resolveOwner(ctx context.Context, form DonationForm, donor Donor, sub *Submission) (*model.User, error) {
	if donor.Email != "" {
		users, err := u.identity.FindByEmail(ctx, donor.Email)
		if err != nil {
			return nil, fmt.Errorf("find owner: %w", err)
		}
		if len(users) != 1 {
			return nil, domainErrors.ErrOwnerNotFound
		}
		return &users[0], nil
	}

	creds := credentials{
		Email:           strings.TrimSpace(form.Email),
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
		FirstName:       strings.TrimSpace(form.FirstName),
	}
	if err := u.validate.Struct(creds); err != nil {
		return nil, err
	}

	usr, token, err := u.identity.Register(ctx, model.Registration{
		Email:       creds.Email,
		Password:    creds.Password,
		FirstName:   creds.FirstName,
		LastName:    form.LastName,
		Address:     form.Address,
		PhoneNumber: form.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}
	sub.User = usr
	sub.Token = token
	return usr, nil
}

// finishScope removes the scope owned by this submission only. Scopes left by
// crashed requests are swept by the janitor.
func (u *DonationUseCase) finishScope(scope *staging.Scope) {
	if err := scope.Release(); err != nil {
		u.logger.Warn("release staging scope failed", slog.String("scope", scope.ID()), slog.String("error", err.Error()))
	}
}

func (u *DonationUseCase) paymentURL(amount int) string {
	q := url.Values{}
	q.Set("cmd", "_xclick")
	q.Set("business", u.payment.Merchant)
	q.Set("return", u.payment.ReturnURL)
	q.Set("cancel_return", u.payment.CancelURL)
	q.Set("currency_code", u.payment.Currency)
	q.Set("amount", strconv.Itoa(amount))
	q.Set("item_name", paymentItemName)
	q.Set("discount_amount", "0")
	q.Set("tax", "0")
	return u.payment.URL + "?" + q.Encode()
}

func parseAmount(raw string) (int, error) {
	amount, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || amount <= 0 {
		return 0, domainErrors.ErrInvalidAmount
	}
	return amount, nil
}

func nonEmpty(uploads []model.Upload) []model.Upload {
	out := make([]model.Upload, 0, len(uploads))
	for _, up := range uploads {
		if up.Filename == "" && up.Size == 0 {
			continue
		}
		out = append(out, up)
	}
	return out
}

func buildRecord(form DonationForm, owner *model.User, kind model.DonationType) model.Donation {
	return model.Donation{
		UserID:         owner.ID,
		FirstName:      orElse(form.FirstName, owner.FirstName),
		LastName:       orElse(form.LastName, owner.LastName),
		Address:        orElse(form.Address, owner.Address),
		PhoneNumber:    orElse(form.PhoneNumber, owner.PhoneNumber),
		Email:          orElse(form.Email, owner.Email),
		Amount:         strings.TrimSpace(form.Amount),
		Allocation:     strings.TrimSpace(form.Allocation),
		Item:           strings.TrimSpace(form.Item),
		Quantity:       strings.TrimSpace(form.Quantity),
		ImageURL:       strings.TrimSpace(form.ImageURL),
		NeedPickup:     strings.TrimSpace(form.NeedPickup),
		CanDropOff:     strings.TrimSpace(form.CanDropOff),
		DatePickDrop:   strings.TrimSpace(form.DatePickDrop),
		DonationType:   kind,
		Status:         model.DonationStatusPending,
		AmazonWishList: strings.TrimSpace(form.AmazonWishList),
	}
}

func orElse(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
