package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apihttp "github.com/ops-kit/netops-service/internal/api/http"
	"github.com/ops-kit/netops-service/internal/api/http/handlers"
	"github.com/ops-kit/netops-service/internal/config"
	"github.com/ops-kit/netops-service/internal/events"
	"github.com/ops-kit/netops-service/internal/observability"
	"github.com/ops-kit/netops-service/internal/persistence"
	"github.com/ops-kit/netops-service/internal/repository"
	"github.com/ops-kit/netops-service/internal/service"
	"github.com/ops-kit/netops-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load failed: " + err.Error())
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic("logger init failed: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(rootCtx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(rootCtx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	rd := persistence.NewRedis(cfg.Redis, logger)
	defer rd.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	auditRepo := repository.NewTicketAuditRepository(pool)
	priorityRepo := repository.NewPriorityRepository(pool)
	typeRepo := repository.NewTicketTypeRepository(pool)
	sourceRepo := repository.NewTicketSourceRepository(pool)
	assetRepo := repository.NewAssetRepository(pool)
	categoryRepo := repository.NewAssetCategoryRepository(pool)
	alertRepo := repository.NewAlertRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	predictionRepo := repository.NewPredictionRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	publisher := events.NewRedisPublisher(rd.Client, cfg.Redis.EventChannel, logger)
	publisher.RegisterAll(dispatcher)

	ticketSvc := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		AuditRepo:    auditRepo,
		PriorityRepo: priorityRepo,
		TypeRepo:     typeRepo,
		SourceRepo:   sourceRepo,
		Dispatcher:   dispatcher,
	})
	registrySvc := service.NewRegistryService(priorityRepo, typeRepo, sourceRepo)
	assetSvc := service.NewAssetService(assetRepo, categoryRepo)
	alertSvc := service.NewAlertService(alertRepo, assetRepo, dispatcher)
	reportSvc := service.NewReportService(reportRepo, categoryRepo, cfg.Reporting)
	predictionSvc := service.NewPredictionService(predictionRepo, reportRepo, cfg.Prediction, logger)

	if cfg.Prediction.Enabled {
		worker.StartPredictionWorker(rootCtx, predictionSvc, cfg.Prediction.Interval(), logger)
	}

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: apihttp.NewErrorHandler(logger, metrics),
	})
	apihttp.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Tickets:     handlers.NewTicketsHandler(ticketSvc),
		Registry:    handlers.NewRegistryHandler(registrySvc),
		Assets:      handlers.NewAssetsHandler(assetSvc),
		Alerts:      handlers.NewAlertsHandler(alertSvc),
		Reports:     handlers.NewReportsHandler(reportSvc),
		Predictions: handlers.NewPredictionsHandler(predictionSvc),
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rd),
		Debug:       handlers.NewDebugHandler(metrics),
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
