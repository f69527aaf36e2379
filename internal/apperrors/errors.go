package apperrors

import (
	"errors"
)

var (
	ErrLoginTaken       = errors.New("login already taken")
	ErrPasswordTooWeak  = errors.New("password too weak")
	ErrIdentityNotFound = errors.New("identity not found")

	ErrAccountNotFound = errors.New("account not found")
	ErrProfileNotFound = errors.New("game profile not found")

	ErrLoginTokenNotFound   = errors.New("login token not found")
	ErrConnectTokenNotFound = errors.New("connect token not found")

	ErrLoginDenied = errors.New("login denied")
)
