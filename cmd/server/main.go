package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/PablitoBueno/agroManager/internal/auth"
	"github.com/PablitoBueno/agroManager/internal/config"
	"github.com/PablitoBueno/agroManager/internal/es"
	"github.com/PablitoBueno/agroManager/internal/handlers"
	"github.com/PablitoBueno/agroManager/internal/logging"
	loggingmw "github.com/PablitoBueno/agroManager/internal/middleware/logging"
	"github.com/PablitoBueno/agroManager/internal/mykafka"
	httpserver "github.com/PablitoBueno/agroManager/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg.MustValidate()

	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, auth.NewRevocationList())

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		Tokens:            tokens,
		AuthHandler:       &handlers.AuthHandler{DB: db, Tokens: tokens, Producer: producer},
		CultureHandler:    &handlers.CultureHandler{DB: db},
		ProductionHandler: &handlers.ProductionHandler{DB: db, Producer: producer},
		StockHandler:      &handlers.StockHandler{DB: db, ES: esClient, Index: cfg.ESIndex, Producer: producer},
		StatsHandler:      &handlers.StatsHandler{DB: db},
		SearchHandler:     &handlers.SearchHandler{ES: esClient, Index: cfg.ESIndex},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "addr", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
