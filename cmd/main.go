package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gourmet/internal/api"
	"gourmet/internal/chat"
	"gourmet/internal/config"
	"gourmet/internal/database"
	"gourmet/internal/events"
	"gourmet/internal/logging"
	"gourmet/internal/menu"
	"gourmet/internal/models/providers"
	"gourmet/internal/monitoring"
	"gourmet/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort > 0 {
		cfg.Metrics.Port = *metricsPort
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	catalog, err := initializeMenu(cfg)
	if err != nil {
		logger.Fatalw("Failed to load menu", "error", err)
	}

	// Initialize database
	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatalw("Failed to initialize database", "error", err)
	}
	defer db.Close()
	orders := database.NewOrderStore(db, logger)

	publisher, err := initializePublisher(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to initialize event publisher", "error", err)
	}
	defer publisher.Close()

	// Initialize metrics collector
	collector := monitoring.NewCollector(monitoring.NewMonitor())

	completion, completer := initializeChat(cfg, logger)

	hub := api.NewOrderHub(logger)
	defer hub.Close()

	sessions := session.NewManager(session.ManagerConfig{
		Secret:   []byte(cfg.Auth.Secret),
		TokenTTL: cfg.Auth.TokenTTL,
		IdleTTL:  cfg.Auth.SessionIdleTTL,

		OnCountChange: collector.SetActiveSessions,
	}, session.Options{
		Catalog:      catalog,
		Completer:    collector.InstrumentCompleter(completer),
		AutoProgress: cfg.Order.AutoProgress,
		Steps:        cfg.Order.Steps,
		Observers: []session.OrderObserver{
			orders,
			events.NewNotifier(publisher, logger),
			collector,
			hub,
		},
		Logger: logger,
	})
	defer sessions.Close()
	go sessions.Run(ctx, cfg.Auth.SweepInterval)

	// Initialize API server
	a := api.New(api.Deps{
		Catalog:    catalog,
		Sessions:   sessions,
		Collector:  collector,
		Hub:        hub,
		Completion: completion,
		Orders:     orders,
		Logger:     logger,
	})

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = startMetricsServer(cfg.Metrics, collector, logger)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		hub.Close()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("API server shutdown error", "error", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Errorw("Metrics server shutdown error", "error", err)
			}
		}

		cancel()
	}()

	logger.Infow("Starting API server", "port", cfg.Server.Port, "env", cfg.Env)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("API server error", "error", err)
	}
}

func initializeMenu(cfg *config.Config) (*menu.Catalog, error) {
	if cfg.Menu.Path == "" {
		return menu.Default(), nil
	}
	return menu.LoadFile(cfg.Menu.Path)
}

func initializePublisher(cfg *config.Config, logger *zap.SugaredLogger) (events.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return events.NewLogPublisher(logger), nil
	}
	return events.NewKafkaPublisher(cfg.Kafka.Publisher(), logger)
}

// initializeChat returns the completer behind the standalone completion
// route (nil unless an LLM is configured) and the one sessions chat with.
// A provider that cannot be built leaves chat answering with the fallback.
func initializeChat(cfg *config.Config, logger *zap.SugaredLogger) (*chat.LLMCompleter, chat.Completer) {
	switch cfg.Chat.Mode {
	case config.ChatModeHTTP:
		logger.Infow("Using remote chat completion", "endpoint", cfg.Chat.Endpoint)
		return nil, chat.NewHTTPCompleter(cfg.Chat.Endpoint, cfg.Chat.APIKey, cfg.Chat.Timeout)
	case config.ChatModeLLM:
		provider, err := providers.NewRegistry().Build(cfg.LLM)
		if err != nil {
			logger.Warnw("LLM provider unavailable, chat will use the fallback reply",
				"provider", cfg.LLM.Provider, "error", err)
			return nil, nil
		}
		logger.Infow("Using LLM chat completion", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
		completion := chat.NewLLMCompleter(provider)
		return completion, completion
	default:
		logger.Info("Chat completion disabled")
		return nil, nil
	}
}

func startMetricsServer(cfg config.MetricsConfig, collector *monitoring.Collector, logger *zap.SugaredLogger) *http.Server {
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}

	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET(path, gin.WrapH(collector.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: metricsRouter,
	}

	go func() {
		logger.Infow("Starting metrics server", "port", cfg.Port, "path", path)
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("Metrics server error", "error", err)
		}
	}()
	return metricsServer
}
