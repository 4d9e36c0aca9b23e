package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookgo/clock"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fleetflow/support-engine/internal/api/http"
	"github.com/fleetflow/support-engine/internal/api/http/handlers"
	"github.com/fleetflow/support-engine/internal/classifier"
	"github.com/fleetflow/support-engine/internal/config"
	"github.com/fleetflow/support-engine/internal/events"
	"github.com/fleetflow/support-engine/internal/observability"
	"github.com/fleetflow/support-engine/internal/resolution"
	"github.com/fleetflow/support-engine/internal/seed"
	"github.com/fleetflow/support-engine/internal/service"
	"github.com/fleetflow/support-engine/internal/store"
	"github.com/fleetflow/support-engine/internal/worker"
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

	metrics := observability.NewMetrics()
	clk := clock.New()
	dispatcher := events.NewInMemoryDispatcher()

	ticketStore := store.NewTicketStore(clk)
	chatStore := store.NewChatStore(clk)
	knowledgeStore := store.NewKnowledgeStore()
	knowledgeStore.Seed(seed.Articles(clk))

	resolverSeed := cfg.Engine.RandomSeed
	if resolverSeed == 0 {
		resolverSeed = time.Now().UnixNano()
	}
	resolver := resolution.NewSimulatedResolver(resolverSeed, knowledgeStore)

	supportService := service.NewSupportService(cfg.Engine, service.Dependencies{
		Tickets:    ticketStore,
		Chats:      chatStore,
		Knowledge:  knowledgeStore,
		Classifier: classifier.NewKeywordClassifier(),
		Resolver:   resolver,
		Dispatcher: dispatcher,
		Clock:      clk,
		Logger:     logger,
		Metrics:    metrics,
		Agents:     seed.Agents(),
	})

	if cfg.App.DemoMode {
		seed.DemoTickets(ticketStore, clk, logger)
	}

	scheduler := worker.NewScheduler(cfg.Scheduler, supportService, clk, logger)
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version),
		Support: handlers.NewSupportHandler(supportService),
		Events:  handlers.NewEventsHandler(dispatcher, logger),
		Metrics: metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	scheduler.Stop()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
