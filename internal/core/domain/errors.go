package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrPasswordMismatch   = fmt.Errorf("%w: passwords don't match", ErrValidation)
	ErrInvalidID          = fmt.Errorf("%w: invalid id", ErrValidation)
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("account already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrProductNotFound    = errors.New("product not found")
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrNotFound           = errors.New("not found")
)
