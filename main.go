// File: fastpark/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fastpark/config"
	"fastpark/cron"
	"fastpark/handlers"
	"fastpark/middleware"
	"fastpark/routes"
	"fastpark/services/clock"
	"fastpark/services/inventory"
	"fastpark/services/notification"
	"fastpark/services/parking"
	"fastpark/services/simulation"
	"fastpark/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	// Every parking intent and timer callback runs on this loop.
	loop := clock.NewLoop(logger.Named("loop"), 256)
	loopCtx, stopLoop := context.WithCancel(context.Background())
	go loop.Run(loopCtx)

	src := simulation.NewRandSource(cfg.RandomSeed)
	inv := inventory.New(inventory.Generate(inventory.DefaultLayout(), src), src, cfg.RefreshFlipChance, logger.Named("inventory"))

	sinks := notification.Multi{notification.NewLogSink(logger.Named("events"))}
	if cfg.SnapshotCacheEnabled {
		client, err := utils.GetCacheClient()
		if err != nil {
			logger.Warn("main: snapshot cache unreachable, will keep retrying via health monitor", zap.Error(err))
		}
		sinks = append(sinks, notification.NewCacheSink(client, cfg.SnapshotCachePrefix, cfg.SnapshotTTL(), logger.Named("cache")))
		utils.StartHealthMonitor(rootCtx, []utils.Pinger{client}, utils.HealthCheckInterval)
	}

	svc, err := parking.NewDefaultParkingService(parking.Dependencies{
		Inventory:    inv,
		Scheduler:    loop,
		Source:       src,
		Sink:         sinks,
		Logger:       logger.Named("parking"),
		Flow:         cfg.FlowSettings(),
		Session:      cfg.SessionSettings(),
		ReceiptDelay: cfg.ReceiptDelay(),
	})
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize parking service: %v", err)
	}

	refresher, err := cron.StartInventoryRefresher(cfg.InventoryRefreshSpec, loop, func() {
		svc.RefreshInventory()
	}, logger.Named("cron"))
	if err != nil {
		logger.Sugar().Fatalf("main: failed to start inventory refresher: %v", err)
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger.Named("ratelimit")))

	parkingHandler := handlers.NewParkingHandler(svc, loop)
	handlerBundle := handlers.NewHandlerBundle(parkingHandler, handlers.HealthHandler(cfg.SnapshotCacheEnabled))
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	<-refresher.Stop().Done()
	if err := loop.Do(ctx, svc.Close); err != nil {
		logger.Warn("main: parking service did not close cleanly", zap.Error(err))
	}
	stopLoop()

	logger.Sugar().Info("main: server stopped gracefully")
}
