package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventbooking/config"
	_ "eventbooking/docs"
	"eventbooking/internal/adapters/auth"
	"eventbooking/internal/adapters/broker"
	"eventbooking/internal/adapters/email"
	"eventbooking/internal/adapters/session"
	httpdelivery "eventbooking/internal/delivery/http"
	"eventbooking/internal/delivery/http/controllers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"
	"eventbooking/internal/repository/postgres"
	"eventbooking/internal/seed"
	"eventbooking/internal/services"

	_ "github.com/lib/pq"
)

// @title Event Booking API
// @version 1.0
// @description Browse events and their occurrences, check seat availability and manage reservations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token from /api/auth/login, as "Bearer <token>".
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	if cfg.SeedOnBoot {
		if _, err := seed.NewLoader(db, hasher, logger).Run(ctx); err != nil {
			return err
		}
	}

	revoker := newRevoker(ctx, cfg, logger)
	publisher, closePublisher := newPublisher(cfg, logger)
	defer closePublisher()

	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.SESRegion,
			AccessKeyID:        cfg.Mail.SESAccessKeyID,
			SecretAccessKey:    cfg.Mail.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Mail.InsecureSkipVerify,
		},
	}, logger)
	notifier := services.NewNotificationService(mailer, renderer, logger)

	eventRepo := postgres.NewEventRepository(db)
	occurrenceRepo := postgres.NewOccurrenceRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	tokens := auth.NewJWTSessions(cfg.JWTSecret)

	catalogService := services.NewCatalogService(eventRepo, occurrenceRepo, cfg.RequestTimeout)
	reservationService := services.NewReservationService(postgres.NewTxManager(db), reservationRepo, occurrenceRepo,
		eventRepo, userRepo, notifier, publisher, logger, cfg.RequestTimeout)
	userService := services.NewUserService(userRepo, hasher, tokens, tokens, revoker, notifier, cfg.SessionExpiry, logger)

	pages, err := controllers.ParsePages()
	if err != nil {
		return err
	}
	cookie := controllers.SessionCookie{Name: cfg.CookieName, Secure: cfg.CookieSecure}
	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Catalog:     controllers.NewCatalogController(logger, catalogService),
		Reservation: controllers.NewReservationController(logger, reservationService),
		Auth:        controllers.NewAuthController(logger, userService, cookie),
		Pages:       controllers.NewPageController(logger, catalogService, reservationService, userService, cookie, pages),
	})

	var handler http.Handler = middleware.LoadSession(userService, cfg.CookieName, logger, mux)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRevoker uses Redis when REDIS_URL is set and reachable, otherwise an
// in-process list that does not survive restarts.
func newRevoker(ctx context.Context, cfg *config.Config, logger *slog.Logger) domain.TokenRevoker {
	if cfg.RedisURL == "" {
		return session.NewMemoryRevoker()
	}
	client, err := session.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, revoked sessions kept in memory", "err", err)
		return session.NewMemoryRevoker()
	}
	return session.NewRedisRevoker(client)
}

// newPublisher uses RabbitMQ when AMQP_URL is set and reachable. The returned
// func closes the connection.
func newPublisher(cfg *config.Config, logger *slog.Logger) (domain.ReservationEventPublisher, func()) {
	if cfg.AMQPURL == "" {
		return broker.NoopPublisher{}, func() {}
	}
	p, err := broker.DialAMQP(cfg.AMQPURL, logger)
	if err != nil {
		logger.Warn("amqp unavailable, reservation events are not published", "err", err)
		return broker.NoopPublisher{}, func() {}
	}
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Warn("close amqp publisher", "err", err)
		}
	}
}
