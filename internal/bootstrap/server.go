package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxsannx/pineus-tilu-booking/api"
	"github.com/xxsannx/pineus-tilu-booking/config"
	"github.com/xxsannx/pineus-tilu-booking/internal/service/auth"
	"github.com/xxsannx/pineus-tilu-booking/internal/service/booking"
	"github.com/xxsannx/pineus-tilu-booking/internal/session"
)

// NewRouter assembles the gin engine: public auth routes plus the
// session-guarded booking routes.
func NewRouter(sessions *session.Store, authSvc auth.AuthUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {
	router := gin.Default()

	root := router.Group("/api")
	api.NewAuthHandler(authSvc).Register(root)

	protected := root.Group("")
	protected.Use(api.RequireLogin(sessions))
	api.NewBookingHandler(bookingSvc).Register(protected)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

// Run serves HTTP and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
