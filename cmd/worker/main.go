package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/xxsannx/pineus-tilu-booking/config"
	"github.com/xxsannx/pineus-tilu-booking/internal/cache"
	"github.com/xxsannx/pineus-tilu-booking/internal/email"
	"github.com/xxsannx/pineus-tilu-booking/internal/kafka"
	"github.com/xxsannx/pineus-tilu-booking/internal/otp"
	"github.com/xxsannx/pineus-tilu-booking/internal/repository"
	"github.com/xxsannx/pineus-tilu-booking/internal/service/booking"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.BookingsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	mailer := email.NewSender(cfg.SMTP)

	userRepo := repository.NewUserRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		userRepo,
		otp.NewHMACCodec(),
		redisCache,
		producer,
		mailer,
		time.Duration(cfg.Booking.OTPTTLMinutes)*time.Minute,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			notify(ctx, mailer, event)
			return nil
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-expireTicker.C:
			expired, err := bookingService.ExpirePendingBookings(ctx)
			if err != nil {
				log.Printf("expire bookings error: %v", err)
				continue
			}
			if len(expired) > 0 {
				log.Printf("expired %d bookings", len(expired))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}

// notify emails lifecycle notices. The created event needs no mail here: the
// OTP mail already went out from the API process.
func notify(ctx context.Context, mailer *email.Sender, event kafka.BookingEvent) {
	if event.Email == "" {
		return
	}

	date := event.BookingDate.Format("2006-01-02")

	var subject, body string
	switch event.Type {
	case kafka.EventBookingVerified:
		subject = "Your Booking Is Verified"
		body = email.VerifiedBody(date)
	case kafka.EventBookingExpired:
		subject = "Booking Verification Expired"
		body = email.ExpiredBody(date)
	default:
		return
	}

	if err := mailer.Send(ctx, event.Email, subject, body); err != nil {
		log.Printf("WARNING: failed to send %s notice to %s: %v", event.Type, event.Email, err)
	}
}
