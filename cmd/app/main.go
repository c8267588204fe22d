package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xxsannx/pineus-tilu-booking/config"
	"github.com/xxsannx/pineus-tilu-booking/internal/bootstrap"
	"github.com/xxsannx/pineus-tilu-booking/internal/cache"
	"github.com/xxsannx/pineus-tilu-booking/internal/email"
	"github.com/xxsannx/pineus-tilu-booking/internal/kafka"
	"github.com/xxsannx/pineus-tilu-booking/internal/otp"
	"github.com/xxsannx/pineus-tilu-booking/internal/repository"
	"github.com/xxsannx/pineus-tilu-booking/internal/service/auth"
	"github.com/xxsannx/pineus-tilu-booking/internal/service/booking"
	"github.com/xxsannx/pineus-tilu-booking/internal/session"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.BookingsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	sessions := session.NewStore()
	mailer := email.NewSender(cfg.SMTP)

	userRepo := repository.NewUserRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	authService := auth.NewAuthService(userRepo, sessions, cfg.Booking.PasswordHashCost)
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

	router := bootstrap.NewRouter(sessions, authService, bookingService)

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
