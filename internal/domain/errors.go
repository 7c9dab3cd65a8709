package domain

import "errors"

// Input validation errors
var (
	ErrEmailRequired    = errors.New("email is required")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrNameRequired     = errors.New("name is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrInvalidAge       = errors.New("age must be between 0 and 150")
)
