package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cozycomfort/distribution/internal/adapter/handler"
	"github.com/cozycomfort/distribution/internal/adapter/storage"
	"github.com/cozycomfort/distribution/internal/adapter/upstream"
	"github.com/cozycomfort/distribution/internal/config"
	"github.com/cozycomfort/distribution/internal/core/domain"
	"github.com/cozycomfort/distribution/internal/core/service"
	"github.com/cozycomfort/distribution/internal/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file, using environment")
	}
	cfg := config.Load()
	metrics.Register()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL: durable inventory, orders, line items
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logrus.Fatalf("failed to open mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		logrus.Fatalf("failed to ping mysql: %v", err)
	}
	logrus.Info("connected to mysql")

	store := storage.NewMySQLStore(db, cfg.DistributorID)
	if err := store.Bootstrap(ctx); err != nil {
		logrus.Fatalf("failed to bootstrap schema: %v", err)
	}
	if err := store.SeedInventory(ctx, storage.DefaultSeed(cfg.DistributorID, time.Now())); err != nil {
		logrus.Fatalf("failed to seed inventory: %v", err)
	}

	// Redis: reservation fast path
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("failed to connect redis: %v", err)
	}
	logrus.Info("connected to redis")

	inventory := storage.NewRedisInventory(rdb)

	// Sync reservable stock from the durable rows
	records, err := store.ListInventory(ctx, cfg.DistributorID)
	if err != nil {
		logrus.Fatalf("failed to load inventory: %v", err)
	}
	for _, rec := range records {
		if err := inventory.SetStock(ctx, rec.DistributorID, rec.ProductID, rec.Quantity); err != nil {
			logrus.Fatalf("failed to sync stock for product %d: %v", rec.ProductID, err)
		}
		logrus.WithFields(logrus.Fields{
			"product_id": rec.ProductID,
			"quantity":   rec.Quantity,
		}).Info("synced stock to redis")
	}

	manufacturer := upstream.NewManufacturerAPI(cfg.ManufacturerBaseURL, cfg.ManufacturerTimeout)

	fulfillment := service.NewFulfillmentService(
		inventory, store, manufacturer, store,
		domain.DefaultPriceList(), cfg.DistributorID, cfg.QueueSize,
	)

	// Manufacturer submission workers
	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			service.SubmitWorker(id, fulfillment.Submissions(), manufacturer, cfg.ManufacturerTimeout)
		}(i)
	}
	logrus.Infof("started %d submission workers", cfg.WorkerCount)

	mux := http.NewServeMux()
	handler.NewHTTPHandler(fulfillment).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logrus.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logrus.Errorf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logrus.Info("HTTP server stopped")

	// Drain pending manufacturer submissions
	fulfillment.Close()
	wg.Wait()
	logrus.Info("submission workers stopped")

	rdb.Close()
	db.Close()
	logrus.Info("connections closed")
}
