package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOwnerNotFound      = errors.New("donation owner not found")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidResetToken  = errors.New("invalid password reset token")
)
