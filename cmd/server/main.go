package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"issueTracking/internal/auth"
	"issueTracking/internal/config"
	"issueTracking/internal/db"
	grpcserver "issueTracking/internal/grpc"
	"issueTracking/internal/httpapi"
	"issueTracking/internal/service"
	"issueTracking/internal/throttle"
	"issueTracking/repository"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log.Level)
	slog.SetDefault(log)
	log.Info("configuration loaded", "config", cfg.String())

	// Open DB
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Error("close db", "error", err)
		}
	}()
	store := repository.NewStore(d)

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	opts := []service.AuthOption{service.WithAdminOnlyRegistration(cfg.Auth.RegistrationRequiresAdmin)}
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := throttle.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		cancel()
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts = append(opts, service.WithLoginThrottle(throttle.New(rdb, throttle.Options{
			MaxFailures: cfg.Redis.MaxFailures,
			Window:      cfg.Redis.FailureWindow,
		})))
		log.Info("login throttling enabled", "redis", cfg.Redis.Addr)
	}

	rec := service.NewAuditRecorder(log)
	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.Deps{
		Auth:     service.NewAuthService(store.Users, auth.NewCredentialStore(cfg.Auth.BcryptCost), tokens, log, opts...),
		Issues:   service.NewIssueService(store, rec),
		Tags:     service.NewTagService(store, rec),
		Projects: service.NewProjectService(store, rec),
		Audit:    service.NewAuditService(store),
		Tokens:   tokens,
		Store:    store,
		Log:      log,
	})
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	httpErr := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
	}()
	log.Info("http server listening", "address", cfg.HTTP.Address)

	// Start gRPC
	shutdownGRPC, err := grpcserver.StartGRPC(cfg, tokens, store, log)
	if err != nil {
		return err
	}
	log.Info("grpc server listening", "address", cfg.GRPC.Address)

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigc:
		log.Info("shutting down", "signal", sig.String())
	case err := <-httpErr:
		log.Error("http server failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	if err := shutdownGRPC(ctx); err != nil {
		log.Error("grpc shutdown", "error", err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
