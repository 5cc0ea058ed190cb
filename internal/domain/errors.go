package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrUserAlreadyExists is returned when attempting to register with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUsername    = errors.New("username must be between 3 and 30 characters")
	ErrInvalidPassword    = errors.New("password must be at least 6 characters")
	ErrInvalidTitle       = errors.New("task title cannot exceed 200 characters")
	// ErrUnauthenticated is returned when a task operation is called without an identity.
	ErrUnauthenticated = errors.New("unauthenticated")
)
