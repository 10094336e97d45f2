package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials indicates wrong username/password combination.
	// Unknown user and bad password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or its signature does not verify
	ErrTokenInvalid = errors.New("token invalid")

	// ErrServiceUnavailable indicates the backing store could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
