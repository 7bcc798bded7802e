package errors

import (
	"errors"
)

var (
	ErrEmailAlreadyInUse   = errors.New("email already in use")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrUserNotFound        = errors.New("user not found")
	ErrUnauthenticated     = errors.New("not authenticated")
)
