package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/foodorder/food-order-api/internal/config"
	"github.com/foodorder/food-order-api/internal/es"
	"github.com/foodorder/food-order-api/internal/handlers"
	"github.com/foodorder/food-order-api/internal/logging"
	mwlogging "github.com/foodorder/food-order-api/internal/middleware/logging"
	"github.com/foodorder/food-order-api/internal/mykafka"
	"github.com/foodorder/food-order-api/internal/repo"
	"github.com/foodorder/food-order-api/internal/service"
	"github.com/foodorder/food-order-api/internal/tokens"
	httpserver "github.com/foodorder/food-order-api/internal/transport/http"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	ctx := context.Background()
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	if err := config.SeedRoles(db); err != nil {
		log.Fatalf("role seed: %v", err)
	}

	producer := mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS}, cfg.KAFKA_TOPIC)

	esClient, err := es.NewClient(cfg.ES_URL, cfg.ES_USER, cfg.ES_PASSWORD)
	if err != nil {
		log.Fatalf("elasticsearch init: %v", err)
	}

	store := repo.New(db)
	issuer := tokens.Issuer{
		AccessSecret:  []byte(cfg.JWT_SECRET),
		RefreshSecret: []byte(cfg.REFRESH_SECRET),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}

	searchSvc := &service.SearchService{ES: esClient, Index: cfg.ES_INDEX}
	authSvc := &service.AuthService{Users: store, Tokens: store, Issuer: issuer, Events: producer}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		mwlogging.WithContextLogger(logger),
		mwlogging.RequestLogger(logger),
	)
	e.HTTPErrorHandler = httpserver.ErrorHandler()

	deps := httpserver.Deps{
		DB:                db,
		Repo:              store,
		Issuer:            issuer,
		AuthHandler:       &handlers.AuthHandler{Auth: authSvc},
		CouponHandler:     &handlers.CouponHandler{Coupons: &service.CouponService{Repo: store, Index: searchSvc}},
		SliderHandler:     &handlers.SliderHandler{Sliders: &service.SliderService{Repo: store, Index: searchSvc}},
		CategoryHandler:   &handlers.CategoryHandler{Categories: &service.CategoryService{Repo: store, Index: searchSvc}},
		RoleHandler:       &handlers.RoleHandler{Roles: &service.RoleService{Repo: store}},
		PermissionHandler: &handlers.PermissionHandler{Permissions: &service.PermissionService{Repo: store}},
		SearchHandler:     &handlers.SearchHandler{SearchSvc: searchSvc},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.SERVER_PORT),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
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
