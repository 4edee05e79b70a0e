package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/secondfamilies/internal/domain/errors"
	pkgAuth "github.com/polkiloo/secondfamilies/internal/pkg/auth"
	"github.com/polkiloo/secondfamilies/internal/server/http/dto"
	"github.com/polkiloo/secondfamilies/internal/server/http/middleware"
)

// AccountHandler processes registration, login and password reset.
type AccountHandler struct {
	facade        AuthFacade
	logger        *slog.Logger
	secureCookies bool
}

// NewAccountHandler creates AccountHandler instance.
func NewAccountHandler(facade AuthFacade, logger *slog.Logger, secureCookies bool) *AccountHandler {
	return &AccountHandler{facade: facade, logger: logger, secureCookies: secureCookies}
}

// RegisterPage handles GET /account/register.
func (h *AccountHandler) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "register", gin.H{"Title": "Register", "Form": dto.RegisterForm{}})
}

// Register handles POST /account/register.
func (h *AccountHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		h.registerFailed(c, form, http.StatusBadRequest, err)
		return
	}

	token, err := h.facade.Register(c.Request.Context(), form.Registration())
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			h.registerFailed(c, form, http.StatusConflict, err)
		case errors.Is(err, domainErrors.ErrInvalidCredentials), errors.Is(err, pkgAuth.ErrPasswordTooLong):
			h.registerFailed(c, form, http.StatusBadRequest, err)
		default:
			renderInternalError(c, h.logger, err)
		}
		return
	}

	middleware.SetAuthCookie(c, token, h.secureCookies)
	c.Redirect(http.StatusFound, "/")
}

func (h *AccountHandler) registerFailed(c *gin.Context, form dto.RegisterForm, status int, err error) {
	form.Password, form.ConfirmPassword = "", ""
	errs := fieldErrors(err)
	data := gin.H{"Title": "Register", "Form": form, "Errors": errs}
	switch {
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		data["Message"] = "Email '" + form.Email + "' is already taken."
	case errors.Is(err, pkgAuth.ErrPasswordTooLong):
		data["Message"] = "The password is too long."
	case len(errs) == 0:
		data["Message"] = "The registration details are invalid."
	}
	render(c, status, "register", data)
}

// LoginPage handles GET /account/login.
func (h *AccountHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login", gin.H{"Title": "Log in", "Form": dto.LoginForm{ReturnURL: c.Query("returnUrl")}})
}

// Login handles POST /account/login.
func (h *AccountHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password = ""
		render(c, http.StatusBadRequest, "login", gin.H{"Title": "Log in", "Form": form, "Errors": fieldErrors(err)})
		return
	}

	token, err := h.facade.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			form.Password = ""
			render(c, http.StatusUnauthorized, "login", gin.H{"Title": "Log in", "Form": form, "Message": "Invalid login attempt."})
			return
		}
		renderInternalError(c, h.logger, err)
		return
	}

	middleware.SetAuthCookie(c, token, h.secureCookies)
	target := "/"
	if isLocalURL(form.ReturnURL) {
		target = form.ReturnURL
	}
	c.Redirect(http.StatusFound, target)
}

// Logout handles POST /account/logout.
func (h *AccountHandler) Logout(c *gin.Context) {
	middleware.ClearAuthCookie(c, h.secureCookies)
	c.Redirect(http.StatusFound, "/")
}

// ForgotPasswordPage handles GET /account/forgot-password.
func (h *AccountHandler) ForgotPasswordPage(c *gin.Context) {
	render(c, http.StatusOK, "forgot", gin.H{"Title": "Forgot your password?", "Form": dto.ForgotPasswordForm{}})
}

// ForgotPassword handles POST /account/forgot-password. The confirmation is
// shown whether or not the address belongs to an account.
func (h *AccountHandler) ForgotPassword(c *gin.Context) {
	var form dto.ForgotPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "forgot", gin.H{"Title": "Forgot your password?", "Form": form, "Errors": fieldErrors(err)})
		return
	}
	if err := h.facade.RequestPasswordReset(c.Request.Context(), form.Email); err != nil {
		renderInternalError(c, h.logger, err)
		return
	}
	render(c, http.StatusOK, "forgot", gin.H{"Title": "Forgot password confirmation", "Sent": true})
}

// ResetPasswordPage handles GET /account/reset-password.
func (h *AccountHandler) ResetPasswordPage(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		render(c, http.StatusBadRequest, "reset", gin.H{"Title": "Reset password", "Message": "A token must be supplied for password reset."})
		return
	}
	render(c, http.StatusOK, "reset", gin.H{"Title": "Reset password", "Form": dto.ResetPasswordForm{Token: token}})
}

// ResetPassword handles POST /account/reset-password.
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var form dto.ResetPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password, form.ConfirmPassword = "", ""
		render(c, http.StatusBadRequest, "reset", gin.H{"Title": "Reset password", "Form": form, "Errors": fieldErrors(err)})
		return
	}

	err := h.facade.ResetPassword(c.Request.Context(), form.Token, form.Password)
	if err != nil {
		form.Password, form.ConfirmPassword = "", ""
		switch {
		case errors.Is(err, domainErrors.ErrInvalidResetToken):
			render(c, http.StatusBadRequest, "reset", gin.H{"Title": "Reset password", "Form": form, "Message": "This reset link is invalid or has already been used."})
		case errors.Is(err, pkgAuth.ErrPasswordTooLong), errors.Is(err, domainErrors.ErrInvalidCredentials):
			render(c, http.StatusBadRequest, "reset", gin.H{"Title": "Reset password", "Form": form, "Message": "The new password is not acceptable."})
		default:
			renderInternalError(c, h.logger, err)
		}
		return
	}

	render(c, http.StatusOK, "reset", gin.H{"Title": "Reset password confirmation", "Done": true})
}
