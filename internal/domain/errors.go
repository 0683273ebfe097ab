package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAccountExists      = errors.New("account already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrRateLimited        = errors.New("rate limited")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenWrongType     = errors.New("token has wrong type")
	ErrInvalidOTP         = errors.New("invalid or expired code")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation error")
)
