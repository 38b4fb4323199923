package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/green-campus/internal/api/http"
	"github.com/spec-kit/green-campus/internal/api/http/handlers"
	"github.com/spec-kit/green-campus/internal/auth"
	"github.com/spec-kit/green-campus/internal/config"
	"github.com/spec-kit/green-campus/internal/events"
	"github.com/spec-kit/green-campus/internal/mailer"
	"github.com/spec-kit/green-campus/internal/observability"
	"github.com/spec-kit/green-campus/internal/persistence"
	"github.com/spec-kit/green-campus/internal/ratelimit"
	"github.com/spec-kit/green-campus/internal/repository"
	"github.com/spec-kit/green-campus/internal/service"
	"github.com/spec-kit/green-campus/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := persistence.SelectBackend(ctx, *cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.String("backend", string(cfg.Storage.Backend)), zap.Error(err))
	}
	defer backend.Close(context.Background())

	repos, err := repository.New(backend)
	if err != nil {
		logger.Fatal("failed to build repositories", zap.Error(err))
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var sendLimiter ratelimit.Limiter
	if redis != nil {
		sendLimiter = ratelimit.NewRedisLimiter(redis.Client, "greencampus:send", cfg.RateLimit.SendPerMinute, time.Minute)
	} else {
		sendLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.SendPerMinute, cfg.RateLimit.Burst)
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	waitWorkers := worker.Start(ctx, worker.Options{
		Notifications:  service.NewNotificationService(dispatcher, logger, metrics),
		Storage:        backend,
		Metrics:        metrics,
		Logger:         logger,
		ReportInterval: time.Duration(cfg.App.StatusReportSeconds) * time.Second,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:     repos.Users,
		TokenManager: tokens,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	messageService := service.NewMessageService(service.MessageDependencies{
		MessageRepo: repos.Messages,
		Mailer:      mailer.New(cfg.Mail),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	dashboardService := service.NewDashboardService(repos.Dashboard, dispatcher, logger)

	if err := service.NewBootstrap(repos.Users, cfg.Bootstrap, logger).EnsureDefaultUsers(ctx); err != nil {
		logger.Warn("default users not fully created", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.CORS.AllowOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, backend, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Messages:       handlers.NewMessagesHandler(messageService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		SendLimiter:    sendLimiter,
		Logger:         logger,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.ShutdownWithTimeout(10 * time.Second)
	cancel()
	waitWorkers()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
