package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"dev-event-hub/config"
	"dev-event-hub/internal/cache"
	"dev-event-hub/internal/database"
	"dev-event-hub/internal/handler"
	"dev-event-hub/internal/middleware"
	"dev-event-hub/internal/notify"
	"dev-event-hub/internal/queue"
	"dev-event-hub/internal/repository"
	"dev-event-hub/internal/service"
	"dev-event-hub/internal/storage"
	"dev-event-hub/internal/worker"
	"dev-event-hub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	defer logger.Sync()
	log := logger.WithComponent("server")

	cfg := config.LoadConfig()
	// .env 載入後才知道最終的 LOG_LEVEL
	logger.SetLevel(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	bookingQueue, err := newBookingQueue(ctx, cfg, rdb)
	if err != nil {
		log.Fatal("Failed to initialize booking queue", zap.Error(err))
	}

	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	eventCache := cache.NewRedisEventCache(rdb, cfg.Cache.EventTTL)
	uploader := storage.NewS3ImageUploader(storage.NewS3Client(&cfg.Storage), &cfg.Storage)
	mailer := notify.NewMailer(&cfg.Mail)

	eventService := service.NewEventService(eventRepo, eventCache, uploader)
	bookingService := service.NewBookingService(bookingRepo, eventRepo, bookingQueue, mailer)

	if err := worker.NewBookingWorker(bookingService, bookingQueue).Start(ctx); err != nil {
		log.Fatal("Failed to start booking worker", zap.Error(err))
	}

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.Recovery())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	handler.NewEventHandler(eventService).RegisterRoutes(router)
	handler.NewBookingHandler(bookingService).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newBookingQueue(ctx context.Context, cfg *config.Config, rdb *redis.Client) (queue.BookingQueue, error) {
	if cfg.Queue.Driver == "redis" {
		return queue.NewRedisStreamBookingQueue(ctx, rdb, cfg.Queue.ConsumerID, &queue.RedisStreamBookingQueueConfig{
			MaxRetryCount: cfg.Queue.MaxRetryCount,
		})
	}
	return queue.NewBookingQueue(cfg.Queue.BufferSize, &queue.MemoryBookingQueueConfig{
		MaxRetryCount: cfg.Queue.MaxRetryCount,
		RetryBackoff:  cfg.Queue.RetryBackoff,
	}), nil
}
