package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/volunteer-service/internal/api/http"
	"github.com/spec-kit/volunteer-service/internal/api/http/handlers"
	"github.com/spec-kit/volunteer-service/internal/auth"
	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/events"
	"github.com/spec-kit/volunteer-service/internal/notify"
	"github.com/spec-kit/volunteer-service/internal/observability"
	"github.com/spec-kit/volunteer-service/internal/persistence"
	"github.com/spec-kit/volunteer-service/internal/ratelimit"
	"github.com/spec-kit/volunteer-service/internal/repository"
	"github.com/spec-kit/volunteer-service/internal/service"
	"github.com/spec-kit/volunteer-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	mailer, err := notify.NewMailer(ctx, cfg.Notification, logger)
	if err != nil {
		logger.Fatal("failed to configure mailer", zap.Error(err))
	}

	volunteerRepo := repository.NewVolunteerRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	noteRepo := repository.NewNoteRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes, clock)
	loginLimiter := ratelimit.NewLoginLimiter(redis.ClientHandle(), cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginLockout(), logger)
	signupLimiter := ratelimit.NewIPLimiter(cfg.RateLimit.SignupPerMinute, cfg.RateLimit.SignupBurst, clock)

	volunteerService := service.NewVolunteerService(service.VolunteerDependencies{
		VolunteerRepo: volunteerRepo,
		Catalog:       domain.DefaultCatalog(),
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Clock:         clock,
	})
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		AdminRepo:         adminRepo,
		PasswordResetRepo: resetRepo,
		TokenManager:      tokens,
		Limiter:           loginLimiter,
		Dispatcher:        dispatcher,
		Metrics:           metrics,
		Clock:             clock,
		Logger:            logger,
	})
	adminService := service.NewAdminService(adminRepo, cfg.Auth.BcryptCost)
	noteService := service.NewNoteService(noteRepo, volunteerRepo)
	notificationService := service.NewNotificationService(dispatcher, mailer, logger, metrics, cfg.Notification, cfg.Auth.PasswordResetTTLMinutes)

	worker.StartNotificationWorker(notificationService, mailer, logger)

	app := httptransport.NewApp(cfg.App)
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Public:         handlers.NewPublicHandler(volunteerService),
		Auth:           handlers.NewAuthHandler(authService),
		Volunteers:     handlers.NewVolunteersHandler(volunteerService),
		Notes:          handlers.NewNotesHandler(noteService),
		AdminUsers:     handlers.NewAdminUsersHandler(adminService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, adminRepo).Handle,
		SignupLimiter:  signupLimiter,
		Metrics:        metrics,
		StaticDir:      cfg.App.StaticDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
