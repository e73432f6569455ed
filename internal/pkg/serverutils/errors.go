package serverutils

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("access denied")
	ErrUnauthorized = errors.New("unauthorized")
)
