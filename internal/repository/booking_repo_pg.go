package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xxsannx/pineus-tilu-booking/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByIDAndUser(ctx context.Context, id, userID string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	MarkVerified(ctx context.Context, id, userID string) (bool, error)
	UpdateChallenge(ctx context.Context, id, userID, otpHash, otpSalt string, expiresAt time.Time) (bool, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, booking_date, amount, otp_hash, otp_salt, otp_expires_at, status, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	booking.Status = domain.BookingStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO bookings (id, user_id, booking_date, amount, otp_hash, otp_salt, otp_expires_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		booking.ID, booking.UserID, booking.BookingDate, booking.Amount,
		booking.OTPHash, booking.OTPSalt, booking.OTPExpiresAt, booking.Status).
		Scan(&booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 AND user_id=$2`, id, userID)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// MarkVerified flips a booking to VERIFIED only while it is still PENDING, so
// concurrent verification attempts resolve to exactly one winner. The false
// return means the row was already VERIFIED, EXPIRED, or gone.
func (r *PGBookingRepository) MarkVerified(ctx context.Context, id, userID string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE id=$2 AND user_id=$3 AND status=$4`,
		domain.BookingStatusVerified, id, userID, domain.BookingStatusPending)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// UpdateChallenge replaces the OTP secret state on a still-PENDING booking.
func (r *PGBookingRepository) UpdateChallenge(ctx context.Context, id, userID, otpHash, otpSalt string, expiresAt time.Time) (bool, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET otp_hash=$1, otp_salt=$2, otp_expires_at=$3, updated_at=now()
		WHERE id=$4 AND user_id=$5 AND status=$6`,
		otpHash, otpSalt, expiresAt, id, userID, domain.BookingStatusPending)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE status=$2 AND otp_expires_at <= $3
		RETURNING `+bookingColumns,
		domain.BookingStatusExpired, domain.BookingStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.BookingDate, &b.Amount, &b.OTPHash, &b.OTPSalt, &b.OTPExpiresAt, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
