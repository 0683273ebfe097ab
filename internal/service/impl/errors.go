package impl

import "errors"

var (
	ErrEmptyPassword = errors.New("empty password")
	ErrInvalidHash   = errors.New("malformed password hash")
)
