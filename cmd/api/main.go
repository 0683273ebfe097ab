package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rh-platform/internal/config"
	"rh-platform/internal/events"
	"rh-platform/internal/observability/logging"
	"rh-platform/internal/observability/metrics"
	"rh-platform/internal/service"
	impl "rh-platform/internal/service/impl"
	"rh-platform/internal/store"
	transport "rh-platform/internal/transport/http"
	"rh-platform/pkg/db"
)

const serviceName = "api"

func main() {
	cfg, err := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)

	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.MustRegister(serviceName)

	// 1) DB
	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	st := store.New(gdb)
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	// 2) Services
	ev := events.LogEmitter{Logger: logger}
	pw := impl.NewPasswordServiceArgon2id()
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		SignupTTL:  cfg.SignupTTL,
		SigningKey: []byte(cfg.SigningKey),
	})

	var mail service.EmailService = impl.LogEmailService{Logger: logger}
	if cfg.EmailConfigured() {
		mail = impl.NewSMTPEmailService(impl.SMTPConfig{
			Host:     cfg.EmailHost,
			Port:     cfg.EmailPort,
			User:     cfg.EmailUser,
			Password: cfg.EmailPassword,
			From:     cfg.EmailFrom,
		})
	} else {
		logger.Warn("EMAIL_HOST not set, one-time codes will be logged instead of mailed")
	}

	otps := impl.NewOTPServiceImpl(st, pw, mail, ev, impl.OTPConfig{
		TTL:         cfg.OTPTTL,
		Cooldown:    cfg.OTPCooldown,
		MaxAttempts: cfg.OTPMaxAttempts,
	})
	admin := impl.NewAdminServiceImpl(st, pw)
	if _, err := admin.EnsureSuperadmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	// 3) HTTP router
	router := transport.NewRouter(transport.Services{
		Auth:    impl.NewAuthServiceImpl(st, pw, ts, otps, ev),
		Profile: impl.NewProfileServiceImpl(st),
		Leads:   impl.NewLeadServiceImpl(st, ev),
		Admin:   admin,
	}, transport.Options{
		CORSOrigins:           cfg.CORSOrigins,
		RateLimitPerMinute:    cfg.RateLimitPerMinute,
		OTPRateLimitPerMinute: cfg.OTPRateLimitPerMinute,
		TrustProxy:            cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", "addr", srv.Addr, "issuer", cfg.Issuer)
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
