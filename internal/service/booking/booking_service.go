package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xxsannx/pineus-tilu-booking/internal/domain"
	"github.com/xxsannx/pineus-tilu-booking/internal/email"
	"github.com/xxsannx/pineus-tilu-booking/internal/kafka"
	"github.com/xxsannx/pineus-tilu-booking/internal/otp"
	"github.com/xxsannx/pineus-tilu-booking/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	VerifyBooking(ctx context.Context, userID, bookingID, code string) (*domain.Booking, error)
	ResendOTP(ctx context.Context, userID, bookingID string) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

type Cache interface {
	GetBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	SetBookings(ctx context.Context, userID string, bookings []domain.Booking) error
	InvalidateBookings(ctx context.Context, userID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	users              repository.UserRepository
	codec              otp.Codec
	cache              Cache
	producer           Producer
	mailer             Mailer
	notificationsTopic string
	otpTTL             time.Duration
	now                func() time.Time
}

type CreateBookingInput struct {
	UserID      string
	BookingDate time.Time
	Amount      int64
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithNow overrides the clock, used to simulate expiry in tests.
func WithNow(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	users repository.UserRepository,
	codec otp.Codec,
	cache Cache,
	producer Producer,
	mailer Mailer,
	otpTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings: bookings,
		users:    users,
		codec:    codec,
		cache:    cache,
		producer: producer,
		mailer:   mailer,
		otpTTL:   otpTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking inserts a PENDING booking with a fresh OTP challenge and mails
// the plaintext code to the owner's registered address. The code lives in the
// mail body and nowhere else; only its salted hash is persisted.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.BookingDate.IsZero() {
		return nil, fmt.Errorf("%w: booking date is required", domain.ErrValidation)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	code, salt, err := s.issueChallenge()
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		BookingDate:  input.BookingDate,
		Amount:       input.Amount,
		OTPHash:      s.codec.Hash(code, salt),
		OTPSalt:      salt,
		OTPExpiresAt: s.now().Add(s.otpTTL),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.sendOTP(ctx, user.Email, code)
	s.publish(ctx, kafka.EventBookingCreated, booking, user.Email)
	s.invalidate(ctx, user.ID)

	return booking, nil
}

// VerifyBooking runs the challenge check for a booking owned by userID.
// A booking that is already VERIFIED reports success regardless of the
// supplied code: the transition happened exactly once and cannot regress.
func (s *BookingService) VerifyBooking(ctx context.Context, userID, bookingID, code string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	if booking.Status == domain.BookingStatusVerified {
		return booking, nil
	}
	if booking.Status == domain.BookingStatusExpired || s.now().After(booking.OTPExpiresAt) {
		return nil, domain.ErrOTPExpired
	}
	if !s.codec.Match(code, booking.OTPSalt, booking.OTPHash) {
		return nil, domain.ErrOTPMismatch
	}

	ok, err := s.bookings.MarkVerified(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race: a concurrent request verified first, or the sweep
		// expired the row between the read and the update.
		current, err := s.bookings.GetByIDAndUser(ctx, bookingID, userID)
		if err != nil {
			return nil, err
		}
		if current.Status == domain.BookingStatusVerified {
			return current, nil
		}
		return nil, domain.ErrOTPExpired
	}

	booking.Status = domain.BookingStatusVerified

	if user, err := s.users.GetByID(ctx, userID); err == nil {
		s.publish(ctx, kafka.EventBookingVerified, booking, user.Email)
	}
	s.invalidate(ctx, userID)

	return booking, nil
}

// ResendOTP reissues the challenge on a still-PENDING booking and mails the
// new code. The old hash, salt and deadline are replaced in one update.
func (s *BookingService) ResendOTP(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, domain.ErrBookingNotPending
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	code, salt, err := s.issueChallenge()
	if err != nil {
		return nil, err
	}

	hash := s.codec.Hash(code, salt)
	expiresAt := s.now().Add(s.otpTTL)

	ok, err := s.bookings.UpdateChallenge(ctx, bookingID, userID, hash, salt, expiresAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrBookingNotPending
	}

	booking.OTPHash = hash
	booking.OTPSalt = salt
	booking.OTPExpiresAt = expiresAt

	s.sendOTP(ctx, user.Email, code)
	s.invalidate(ctx, userID)

	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetBookings(ctx, userID); err == nil && cached != nil {
			return cached, nil
		}
	}

	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetBookings(ctx, userID, bookings)
	}
	return bookings, nil
}

// ExpirePendingBookings sweeps PENDING bookings past their OTP deadline to
// EXPIRED and announces each one. Driven by the worker ticker.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.ExpirePendingBefore(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for i := range expired {
		b := &expired[i]
		owner := ""
		if user, err := s.users.GetByID(ctx, b.UserID); err == nil {
			owner = user.Email
		}
		s.publish(ctx, kafka.EventBookingExpired, b, owner)
		s.invalidate(ctx, b.UserID)
	}
	return expired, nil
}

func (s *BookingService) issueChallenge() (code, salt string, err error) {
	code, err = s.codec.GenerateCode()
	if err != nil {
		return "", "", err
	}
	salt, err = s.codec.GenerateSalt()
	if err != nil {
		return "", "", err
	}
	return code, salt, nil
}

func (s *BookingService) sendOTP(ctx context.Context, to, code string) {
	if s.mailer == nil {
		return
	}
	ttl := int(s.otpTTL.Minutes())
	if err := s.mailer.Send(ctx, to, "Your Booking OTP Code", email.OTPBody(code, ttl)); err != nil {
		log.Printf("WARNING: failed to send OTP email to %s: %v", to, err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, ownerEmail string) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		Email:        ownerEmail,
		BookingDate:  booking.BookingDate,
		Amount:       booking.Amount,
		Status:       string(booking.Status),
		OTPExpiresAt: booking.OTPExpiresAt,
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.ID, err)
	}
}

func (s *BookingService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateBookings(ctx, userID)
}

var _ BookingUseCase = (*BookingService)(nil)
