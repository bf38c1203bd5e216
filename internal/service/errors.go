package service

import "errors"

// Auth errors
var (
	ErrMissingFields       = errors.New("required fields missing")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong     = errors.New("password must be at most 72 bytes")
	ErrEmailTaken          = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrMissingRefreshToken = errors.New("refresh token missing")
)

// Account lifecycle errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidRole     = errors.New("invalid role")
	ErrSelfRoleChange  = errors.New("admin cannot change their own role")
	ErrSelfDisable     = errors.New("admin cannot disable their own account")
	ErrSelfDelete      = errors.New("admin cannot delete their own account")
	ErrAlreadyDisabled = errors.New("user is already disabled")
	ErrAlreadyActive   = errors.New("user is already active")
)

// News errors
var (
	ErrNewsNotFound = errors.New("news not found")
	ErrSlugTaken    = errors.New("news with similar title already exists")
)

// bcrypt only accepts up to 72 bytes of input.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)
