package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
	"github.com/andreasstove999/artisan-marketplace/internal/config"
	"github.com/andreasstove999/artisan-marketplace/internal/db"
	"github.com/andreasstove999/artisan-marketplace/internal/events"
	httpapi "github.com/andreasstove999/artisan-marketplace/internal/http"
	"github.com/andreasstove999/artisan-marketplace/internal/logging"
	"github.com/andreasstove999/artisan-marketplace/internal/sequence"
	"github.com/andreasstove999/artisan-marketplace/internal/storyteller"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(logging.Options{
		Service:     "storefront-api",
		Env:         cfg.AppEnv,
		Level:       cfg.LogLevel,
		Development: cfg.AppEnv == "dev",
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		repo catalog.Repository
		seq  sequence.Sequencer
	)
	if cfg.UsesPostgres() {
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				logger.Fatal("run migrations", zap.Error(err))
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			logger.Fatal("connect database", zap.Error(err))
		}
		defer pool.Close()
		repo = catalog.NewPostgresRepository(pool)
		seq = sequence.NewRepository(pool)
		logger.Info("using postgres store")
	} else {
		repo = catalog.NewMemoryRepository()
		seq = sequence.NewCounter()
		logger.Info("using in-memory store")
	}

	if cfg.SeedDemoData {
		if err := catalog.Seed(ctx, repo); err != nil {
			logger.Fatal("seed demo data", zap.Error(err))
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatal("dial rabbitmq", zap.Error(err))
		}
		defer conn.Close()
		p, err := events.NewPublisher(conn, seq, events.PublisherOptions{Producer: "storefront-api"})
		if err != nil {
			logger.Fatal("create event publisher", zap.Error(err))
		}
		publisher = p
	} else {
		logger.Info("RABBITMQ_URL not set, cart events disabled")
	}

	var model storyteller.Model = storyteller.Unavailable{}
	if cfg.GeminiAPIKey != "" {
		m, err := storyteller.NewGenAIModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal("create genai client", zap.Error(err))
		}
		model = m
	} else {
		logger.Warn("GEMINI_API_KEY not set, story generation unavailable")
	}

	h := httpapi.NewHandler(httpapi.Deps{
		Repo:    repo,
		Stories: storyteller.NewGenerator(model, logger.Named("storyteller")),
		Events:  publisher,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: httpapi.NewRouter(h, httpapi.RouterOptions{
			Logger:           logger,
			CORSAllowOrigins: cfg.CORSAllowOrigins,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront-api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		logger.Warn("publisher close", zap.Error(err))
	}
}
