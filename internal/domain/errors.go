package domain

import "errors"

// Account invariant errors
var (
	ErrLastAdmin = errors.New("cannot remove the last admin")
)

// News validation errors
var (
	ErrInvalidCategory = errors.New("invalid category")
)
