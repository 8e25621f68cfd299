package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"articlehub/internal/activity"
	"articlehub/internal/auth"
	"articlehub/internal/config"
	"articlehub/internal/db"
	"articlehub/internal/email"
	"articlehub/internal/jobs"
	"articlehub/internal/metrics"
	"articlehub/internal/models"
	"articlehub/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	logger := setupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.SessionSecret == "" {
		logger.Warn("SESSION_SECRET is not set, OIDC session cookies use a weak key")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return err
	}
	logger.Info("migrations completed successfully")

	if err := bootstrap(ctx, database, logger); err != nil {
		return err
	}

	metrics.Init(database)

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	// Activity log sinks: postgres always, RabbitMQ when configured
	sinks := []activity.Sink{activity.NewDBSink(database)}
	if cfg.IsRabbitMQEnabled() {
		publisher, err := activity.NewPublisher(activity.PublisherConfig{
			URL:        cfg.RabbitMQURL,
			Exchange:   cfg.RabbitMQExchange,
			RoutingKey: cfg.RabbitMQRoutingKey,
			QueueName:  cfg.RabbitMQQueue,
		}, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}
	recorder := activity.NewRecorder(logger, cfg.ActivityTimeout, sinks...)
	notifier := email.NewNotifier(cfg, logger)

	if cfg.ActivityRetention > 0 {
		pruner := jobs.NewActivityPruner(database, cfg.ActivityPruneInterval, cfg.ActivityRetention)
		go pruner.Start(ctx)
	}

	srv := server.New(cfg, logger)
	srv.RegisterRoutes(ctx, server.Dependencies{
		DB:       database,
		Tokens:   tokens,
		Activity: recorder,
		Notifier: notifier,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	cancel()
	if err := srv.Shutdown(); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer drainCancel()
	if err := recorder.Close(drainCtx); err != nil {
		logger.Warn("activity events still in flight at shutdown", "error", err)
	}
	notifier.Wait()
	return nil
}

// bootstrap seeds categories and promotes the accounts listed in the
// optional YAML file.
func bootstrap(ctx context.Context, database *db.DB, logger *slog.Logger) error {
	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		return err
	}
	if yamlCfg == nil {
		return nil
	}

	if err := database.SeedCategories(ctx, yamlCfg.CategoryNames()); err != nil {
		return err
	}

	for _, promotion := range []struct {
		role   models.Role
		emails []string
	}{
		{models.RoleAdmin, yamlCfg.AdminEmails()},
		{models.RoleModerator, yamlCfg.ModeratorEmails()},
	} {
		n, err := database.PromoteUsersByEmail(ctx, promotion.emails, promotion.role)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("bootstrapped accounts", "role", promotion.role.String(), "count", n)
		}
	}
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
