package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrBookingNotFound = errors.New("booking not found")
)

var (
	ErrDuplicateEmail = errors.New("email is already registered")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrUnauthorized   = errors.New("authentication required")
)

var (
	ErrOTPExpired        = errors.New("otp has expired")
	ErrOTPMismatch       = errors.New("otp does not match")
	ErrBookingNotPending = errors.New("booking is not pending verification")
)

var ErrValidation = errors.New("validation error")
