package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/image-platform/internal/api/http"
	"github.com/spec-kit/image-platform/internal/api/http/handlers"
	"github.com/spec-kit/image-platform/internal/auth"
	"github.com/spec-kit/image-platform/internal/config"
	"github.com/spec-kit/image-platform/internal/credits"
	"github.com/spec-kit/image-platform/internal/events"
	"github.com/spec-kit/image-platform/internal/observability"
	"github.com/spec-kit/image-platform/internal/persistence"
	"github.com/spec-kit/image-platform/internal/repository"
	"github.com/spec-kit/image-platform/internal/service"
	"github.com/spec-kit/image-platform/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	configRepo := repository.NewAPIConfigRepository(pool)
	imageRepo := repository.NewImageRepository(pool)
	generationRepo := repository.NewGenerationRepository(pool)
	styleTagRepo := repository.NewStyleTagRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	revoked := auth.NewRevocationList(redis.Client)

	ledger := credits.NewLedger(userRepo, credits.Allowances{
		Free:       cfg.Credits.FreeDaily,
		Pro:        cfg.Credits.ProDaily,
		Enterprise: cfg.Credits.EnterpriseDaily,
	})

	authService := service.NewAuthService(cfg.Auth, userRepo, revoked, dispatcher, logger)
	userService := service.NewUserService(userRepo, ledger, logger, cfg.Auth.BcryptCost)
	generationService := service.NewGenerationService(generationRepo, styleTagRepo, ledger, dispatcher, logger, cfg.Credits)
	configService := service.NewAPIConfigService(configRepo, logger, cfg.Credits.FreeConfigLimit)
	imageService := service.NewImageService(imageRepo, logger)
	styleService := service.NewStyleTagService(styleTagRepo, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo, revoked)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Generations:    handlers.NewGenerationsHandler(generationService),
		Configs:        handlers.NewConfigsHandler(configService),
		Images:         handlers.NewImagesHandler(imageService),
		Styles:         handlers.NewStylesHandler(styleService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
