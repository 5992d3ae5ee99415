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

	"github.com/archivalatlas/atlas/internal/config"
	"github.com/archivalatlas/atlas/internal/handler"
	"github.com/archivalatlas/atlas/internal/httpserver"
	"github.com/archivalatlas/atlas/internal/repository"
	"github.com/archivalatlas/atlas/internal/service"
	"github.com/archivalatlas/atlas/pkg/cache"
	"github.com/archivalatlas/atlas/pkg/db"
	"github.com/archivalatlas/atlas/pkg/logger"
	"github.com/archivalatlas/atlas/pkg/mq"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/base.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pool, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer pool.Close()

	// Redis and RabbitMQ are optional; the services run without them.
	var graphCache service.Cache
	if cfg.Redis.Enabled {
		c, err := cache.New(cfg.Redis.Config, log)
		if err != nil {
			log.Fatal("Redis initialization failed", zap.Error(err))
		}
		defer c.Close()
		graphCache = c
	}

	var publisher service.Publisher
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("MQ initialization failed", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	}

	projectRepo := repository.NewProjectRepository(pool, log)
	personRepo := repository.NewProjectPersonRepository(pool, log)
	outputRepo := repository.NewProjectOutputRepository(pool, log)
	projectConnRepo := repository.NewProjectConnectionRepository(pool, log)
	archiveRepo := repository.NewArchiveRepository(pool, log)
	itemRepo := repository.NewItemRepository(pool, log)
	annotationRepo := repository.NewAnnotationRepository(pool, log)
	itemConnRepo := repository.NewItemConnectionRepository(pool, log)
	recordingRepo := repository.NewVoiceRecordingRepository(pool, log)

	portfolioService := service.NewPortfolioService(
		projectRepo, personRepo, outputRepo, projectConnRepo,
		graphCache, publisher, cfg.GraphTTL(), log,
	)
	archiveService := service.NewArchiveService(
		archiveRepo, itemRepo, annotationRepo, itemConnRepo, recordingRepo,
		graphCache, publisher, cfg.GraphTTL(), log,
	)

	portfolioHandler := handler.NewPortfolioHandler(portfolioService, log)
	archiveHandler := handler.NewArchiveHandler(archiveService, log)
	seedHandler := handler.NewSeedHandler(pool, log)

	router := httpserver.NewRouter(portfolioHandler, archiveHandler, seedHandler, log, pool)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
