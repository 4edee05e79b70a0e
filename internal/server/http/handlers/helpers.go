package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/polkiloo/secondfamilies/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(middleware.UserIDContextKey)
}

func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["SignedIn"] = CurrentUserID(c) != ""
	c.HTML(status, name, data)
}

func renderInternalError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Error("request failed",
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	_ = c.Error(err)
	render(c, http.StatusInternalServerError, "error", gin.H{"Title": "Error"})
}

var fieldLabels = map[string]string{
	"Email":           "Email",
	"Password":        "Password",
	"ConfirmPassword": "Confirm password",
	"FirstName":       "First name",
	"Token":           "Reset token",
}

// fieldErrors maps validation failures to per-field messages. It returns nil
// for errors that are not validation failures.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = fieldMessage(fe)
		}
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s field is not a valid e-mail address.", label)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters long.", label, fe.Param())
	case "max":
		return fmt.Sprintf("The %s must be at most %s characters long.", label, fe.Param())
	case "eqfield":
		return "The password and confirmation password do not match."
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}

// isLocalURL reports whether target stays on this site.
func isLocalURL(target string) bool {
	if target == "" || !strings.HasPrefix(target, "/") {
		return false
	}
	return !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, `/\`)
}
