package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xxsannx/pineus-tilu-booking/config"
	"github.com/xxsannx/pineus-tilu-booking/internal/domain"
)

type RedisCache struct {
	client      *redis.Client
	bookingsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, bookingsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		bookingsTTL: bookingsTTL,
	}
}

func (c *RedisCache) GetBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	data, err := c.client.Get(ctx, bookingsKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *RedisCache) SetBookings(ctx context.Context, userID string, bookings []domain.Booking) error {
	payload, err := json.Marshal(bookings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, bookingsKey(userID), payload, c.bookingsTTL).Err()
}

// InvalidateBookings drops the cached list after any write to the user's bookings.
func (c *RedisCache) InvalidateBookings(ctx context.Context, userID string) error {
	return c.client.Del(ctx, bookingsKey(userID)).Err()
}

func bookingsKey(userID string) string {
	return fmt.Sprintf("cache:bookings:%s", userID)
}
