package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/pic-backend/internal/api/http"
	"github.com/spec-kit/pic-backend/internal/api/http/handlers"
	"github.com/spec-kit/pic-backend/internal/auth"
	"github.com/spec-kit/pic-backend/internal/config"
	"github.com/spec-kit/pic-backend/internal/events"
	"github.com/spec-kit/pic-backend/internal/observability"
	"github.com/spec-kit/pic-backend/internal/persistence"
	"github.com/spec-kit/pic-backend/internal/repository"
	"github.com/spec-kit/pic-backend/internal/service"
	"github.com/spec-kit/pic-backend/internal/worker"
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

	for _, key := range cfg.InsecureDefaults() {
		logger.Warn("using insecure default; set it before any production use", zap.String("key", key))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	notifications := worker.NewNotificationWorker(events.NewInMemoryDispatcher(), cfg.Forms.EventQueueSize, logger)
	worker.StartNotificationWorker(notifications, service.NewNotificationService(notifications, logger))
	var dispatcher events.Dispatcher = notifications

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   repository.NewUserRepository(pool),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	formService := service.NewFormService(service.FormDependencies{
		FormRepo:         repository.NewFormRepository(pool),
		FormResponseRepo: repository.NewFormResponseRepository(pool),
		AnswerRepo:       repository.NewAnswerRepository(pool),
		Locker:           service.NewSubmissionLocker(redis, cfg.Forms.SubmissionLockTTL(), logger),
		Dispatcher:       dispatcher,
		Logger:           logger,
	})

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(httptransport.AppOptions{
		Name:             cfg.App.Name,
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
		RequestTimeout:   cfg.App.RequestTimeout(),
		Logger:           logger,
		Metrics:          metrics,
	})

	var redisPinger handlers.Pinger
	if redis.Enabled() {
		redisPinger = redis
	}
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisPinger, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Forms:          handlers.NewFormsHandler(formService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer drainCancel()
	if err := notifications.Stop(drainCtx); err != nil {
		logger.Warn("notification drain", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
