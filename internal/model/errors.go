package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user account is not active")

	// Role related errors
	ErrRoleNotFound = errors.New("role not found")
	ErrRoleInUse    = errors.New("role is referenced by existing users")

	// Product related errors
	ErrProductNotFound = errors.New("product not found")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
