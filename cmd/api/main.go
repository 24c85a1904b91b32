package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/storage"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/civic-kit/complaint-service/internal/api/http"
	"github.com/civic-kit/complaint-service/internal/api/http/handlers"
	"github.com/civic-kit/complaint-service/internal/classify"
	"github.com/civic-kit/complaint-service/internal/config"
	"github.com/civic-kit/complaint-service/internal/escalation"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/evidence"
	"github.com/civic-kit/complaint-service/internal/observability"
	"github.com/civic-kit/complaint-service/internal/persistence"
	"github.com/civic-kit/complaint-service/internal/repository"
	"github.com/civic-kit/complaint-service/internal/service"
	"github.com/civic-kit/complaint-service/internal/worker"
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

	if cfg.Ledger.Driver == config.LedgerDriverPostgres && !pg.Enabled() {
		logger.Fatal("postgres ledger selected but POSTGRES_DSN not provided")
	}
	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var gcsClient *storage.Client
	if cfg.NeedsGCS() {
		gcsClient, err = persistence.NewGCSClient(ctx, logger)
		if err != nil {
			logger.Fatal("failed to create cloud storage client", zap.Error(err))
		}
		defer gcsClient.Close() //nolint:errcheck
	}

	var ledger repository.LedgerStore
	switch cfg.Ledger.Driver {
	case config.LedgerDriverGCS:
		ledger = repository.NewGCSLedger(gcsClient, cfg.Ledger.GCSBucket, cfg.Ledger.GCSObject, logger)
	case config.LedgerDriverPostgres:
		ledger = repository.NewPostgresLedger(pg.PoolHandle())
	default:
		logger.Warn("using in-memory complaint ledger; records are lost on restart")
		ledger = repository.NewMemoryLedger()
	}

	var evidenceStore evidence.Store
	if cfg.Evidence.Driver == config.EvidenceDriverGCS {
		evidenceStore = evidence.NewGCSStore(gcsClient, cfg.Evidence.GCSBucket, cfg.Evidence.URLTTL())
	} else {
		evidenceStore = evidence.NewMemoryStore()
	}
	if redis.Enabled() {
		evidenceStore = evidence.NewURLCache(evidenceStore, redis.Client, cfg.Evidence.URLTTL(), logger)
	}

	rules := classify.DefaultRuleSet()
	if cfg.Classifier.RulesPath != "" {
		rules, err = classify.LoadRuleSet(cfg.Classifier.RulesPath)
		if err != nil {
			logger.Fatal("failed to load classifier rules", zap.Error(err))
		}
	}

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	intakeService := service.NewIntakeService(service.IntakeDependencies{
		Ledger:     ledger,
		Evidence:   evidenceStore,
		Classifier: classify.NewClassifier(rules),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	triageService := service.NewTriageService(service.TriageDependencies{
		Ledger:     ledger,
		Detector:   escalation.NewDetector(),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Ledger.Driver, pg, redis),
		Complaints: handlers.NewComplaintsHandler(intakeService),
		Authority:  handlers.NewAuthorityHandler(triageService),
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
