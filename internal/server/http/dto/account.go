package dto

import "github.com/polkiloo/secondfamilies/internal/domain/model"

// RegisterForm is the account registration form.
type RegisterForm struct {
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `form:"confirm_password" binding:"eqfield=Password"`
	FirstName       string `form:"first_name" binding:"required"`
	LastName        string `form:"last_name"`
	Address         string `form:"address"`
	PhoneNumber     string `form:"phone_number"`
}

// Registration converts the form into the account registration request.
func (f RegisterForm) Registration() model.Registration {
	return model.Registration{
		Email:       f.Email,
		Password:    f.Password,
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Address:     f.Address,
		PhoneNumber: f.PhoneNumber,
	}
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Email     string `form:"email" binding:"required,email"`
	Password  string `form:"password" binding:"required"`
	ReturnURL string `form:"returnUrl"`
}

// ForgotPasswordForm requests a reset link.
type ForgotPasswordForm struct {
	Email string `form:"email" binding:"required,email"`
}

// ResetPasswordForm sets a new password with a mailed token.
type ResetPasswordForm struct {
	Token           string `form:"token" binding:"required"`
	Password        string `form:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `form:"confirm_password" binding:"eqfield=Password"`
}
