package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound = errors.New("not found")

	// Input validation on the client side. The backend remains the authority.
	ErrorValidation = errors.New("validation error")

	// Session errors.
	ErrorNotAuthenticated = errors.New("not authenticated")
	ErrInvalidToken       = errors.New("invalid token")
)
