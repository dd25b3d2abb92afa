package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/ecommerce-orders/internal/adapter/handler"
	"github.com/rl1809/ecommerce-orders/internal/adapter/storage"
	"github.com/rl1809/ecommerce-orders/internal/config"
	"github.com/rl1809/ecommerce-orders/internal/core/service"
	"github.com/rl1809/ecommerce-orders/internal/obs"
)

func main() {
	obs.InitLogger()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		slog.Error("failed to open mysql", "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		slog.Error("failed to ping mysql", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to mysql")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to redis")

	cache := storage.NewRedisAdapter(rdb, cfg.OrderCacheTTL)
	customers := storage.NewCustomerMySQL(db)
	products := storage.NewProductMySQL(db)
	orders := storage.NewOrderMySQL(db)

	orderService := service.NewOrderService(orders, products, customers, cache)
	productService := service.NewProductService(products)
	customerService := service.NewCustomerService(customers)

	httpHandler := handler.NewHTTPHandler(orderService, productService, customerService)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.NewRouter(httpHandler),
	}

	go func() {
		slog.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	slog.Info("HTTP server stopped")

	rdb.Close()
	db.Close()
	slog.Info("connections closed")
}
