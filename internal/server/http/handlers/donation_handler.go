package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/secondfamilies/internal/domain/errors"
	"github.com/polkiloo/secondfamilies/internal/domain/model"
	pkgAuth "github.com/polkiloo/secondfamilies/internal/pkg/auth"
	"github.com/polkiloo/secondfamilies/internal/server/http/dto"
	"github.com/polkiloo/secondfamilies/internal/server/http/middleware"
	"github.com/polkiloo/secondfamilies/internal/staging"
	"github.com/polkiloo/secondfamilies/internal/usecase"
)

const (
	pageDonate = "donate"
	pageGoods  = "donate_goods"
)

var errBadForm = errors.New("malformed form submission")

// badForm keeps validation failures as they are and marks anything else as
// an unreadable submission.
func badForm(err error) error {
	if fieldErrors(err) != nil {
		return err
	}
	return fmt.Errorf("%w: %v", errBadForm, err)
}

var pageTitles = map[string]string{
	pageDonate: "Donate",
	pageGoods:  "Donate Goods & Items",
}

// DonationHandler serves the monetary and goods donation flows.
type DonationHandler struct {
	facade        DonationFacade
	logger        *slog.Logger
	secureCookies bool
}

// NewDonationHandler creates DonationHandler instance.
func NewDonationHandler(facade DonationFacade, logger *slog.Logger, secureCookies bool) *DonationHandler {
	return &DonationHandler{facade: facade, logger: logger, secureCookies: secureCookies}
}

// DonatePage handles GET /donate.
func (h *DonationHandler) DonatePage(c *gin.Context) {
	h.formPage(c, pageDonate)
}

// GoodsPage handles GET /donate/goods.
func (h *DonationHandler) GoodsPage(c *gin.Context) {
	h.formPage(c, pageGoods)
}

func (h *DonationHandler) formPage(c *gin.Context, page string) {
	form := dto.DonationForm{}
	if id := CurrentUserID(c); id != "" {
		usr, err := h.facade.CurrentUser(c.Request.Context(), id)
		if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
			renderInternalError(c, h.logger, err)
			return
		}
		if usr != nil {
			form = dto.DonationForm{
				FirstName:   usr.FirstName,
				LastName:    usr.LastName,
				Address:     usr.Address,
				PhoneNumber: usr.PhoneNumber,
				Email:       usr.Email,
			}
		}
	}
	render(c, http.StatusOK, page, gin.H{"Title": pageTitles[page], "Form": form})
}

// Donate handles POST /donate and redirects to the payment provider.
func (h *DonationHandler) Donate(c *gin.Context) {
	var form dto.DonationForm
	if err := c.ShouldBind(&form); err != nil {
		h.rejected(c, pageDonate, form, badForm(err))
		return
	}

	donor, err := h.donor(c)
	if err != nil {
		h.rejected(c, pageDonate, form, err)
		return
	}

	sub, err := h.facade.SubmitMonetaryDonation(c.Request.Context(), form.Submission(), donor)
	if err != nil {
		h.rejected(c, pageDonate, form, err)
		return
	}
	h.accepted(c, sub)
}

// DonateGoods handles POST /donate/goods with optional photo uploads.
func (h *DonationHandler) DonateGoods(c *gin.Context) {
	var form dto.DonationForm
	if err := c.ShouldBind(&form); err != nil {
		h.rejected(c, pageGoods, form, badForm(err))
		return
	}

	uploads, err := formUploads(c)
	if err != nil {
		h.rejected(c, pageGoods, form, badForm(err))
		return
	}

	donor, err := h.donor(c)
	if err != nil {
		h.rejected(c, pageGoods, form, err)
		return
	}

	sub, err := h.facade.SubmitGoodsDonation(c.Request.Context(), form.Submission(), uploads, donor)
	if err != nil {
		h.rejected(c, pageGoods, form, err)
		return
	}
	h.accepted(c, sub)
}

// Success handles GET /donate/success.
func (h *DonationHandler) Success(c *gin.Context) {
	sent, err := h.facade.ConfirmSuccess(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		renderInternalError(c, h.logger, err)
		return
	}
	render(c, http.StatusOK, "success", gin.H{"Title": "Thank you", "Sent": sent})
}

func (h *DonationHandler) donor(c *gin.Context) (usecase.Donor, error) {
	donor := usecase.Donor{SessionID: middleware.SessionID(c)}
	id := CurrentUserID(c)
	if id == "" {
		return donor, nil
	}
	usr, err := h.facade.CurrentUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return donor, domainErrors.ErrOwnerNotFound
		}
		return donor, err
	}
	donor.Email = usr.Email
	return donor, nil
}

func (h *DonationHandler) accepted(c *gin.Context, sub *usecase.Submission) {
	if sub.Token != "" {
		middleware.SetAuthCookie(c, sub.Token, h.secureCookies)
	}
	c.Redirect(http.StatusFound, sub.RedirectURL)
}

func (h *DonationHandler) rejected(c *gin.Context, page string, form dto.DonationForm, err error) {
	data := gin.H{"Title": pageTitles[page], "Form": form.Redacted()}
	status := http.StatusBadRequest
	switch {
	case fieldErrors(err) != nil:
		data["Errors"] = fieldErrors(err)
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		data["Errors"] = map[string]string{"Amount": "Please enter a whole amount greater than zero."}
	case errors.Is(err, staging.ErrInvalidFilename):
		data["Message"] = "One of the photos has an invalid file name."
	case errors.Is(err, pkgAuth.ErrPasswordTooLong), errors.Is(err, domainErrors.ErrInvalidCredentials):
		data["Message"] = "The account details are invalid."
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		status = http.StatusConflict
		data["Message"] = "An account with this email already exists. Please log in to donate."
	case errors.Is(err, domainErrors.ErrOwnerNotFound):
		status = http.StatusUnprocessableEntity
		data["Message"] = "We could not find your donor account. Please log in again."
	case errors.Is(err, errBadForm):
		data["Message"] = "The form could not be read. Please try again."
	default:
		renderInternalError(c, h.logger, err)
		return
	}
	render(c, status, page, data)
}

func formUploads(c *gin.Context) ([]model.Upload, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	files := mf.File[dto.UploadField]
	uploads := make([]model.Upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, model.Upload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return uploads, nil
}
