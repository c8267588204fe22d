package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "PENDING"
	BookingStatusVerified BookingStatus = "VERIFIED"
	BookingStatusExpired  BookingStatus = "EXPIRED"
)

// Booking carries its OTP challenge from the moment it is inserted: hash, salt
// and deadline are set once at creation and may only be replaced wholesale by a
// resend while the booking is still PENDING. The plaintext code is never stored.
type Booking struct {
	ID           string
	UserID       string
	BookingDate  time.Time
	Amount       int64
	OTPHash      string
	OTPSalt      string
	OTPExpiresAt time.Time
	Status       BookingStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (b *Booking) IsVerified() bool {
	return b.Status == BookingStatusVerified
}
