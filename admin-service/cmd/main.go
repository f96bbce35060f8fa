package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"catalogadmin/admin-service/internal/app/admin/config"
	"catalogadmin/admin-service/internal/app/admin/filter"
	"catalogadmin/admin-service/internal/app/admin/handler"
	"catalogadmin/admin-service/internal/app/admin/infrastructure"
	http2 "catalogadmin/admin-service/internal/app/admin/infrastructure/http"
	"catalogadmin/admin-service/internal/app/admin/infrastructure/messaging"
	"catalogadmin/admin-service/internal/app/admin/infrastructure/storage"
	"catalogadmin/admin-service/internal/app/admin/processor"
	"catalogadmin/admin-service/internal/app/admin/session"
	"catalogadmin/admin-service/internal/app/admin/util"
	"catalogadmin/pkg/logger"
)

const serviceName = "admin-service"

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	// .env необязателен, переменные окружения имеют приоритет
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Init(serviceName, "info")
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	// === ЛОГИРОВАНИЕ ===
	logger.Init(serviceName, cfg.Log.Level)
	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, serviceName, cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Log.LogstashAddr).Msg("Logstash unavailable, logging to stdout only")
		}
	}

	// === CATALOG API ===
	catalogClient := http2.NewCatalogClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	if cfg.Catalog.Token != "" {
		catalogClient.SetAuthToken(cfg.Catalog.Token)
	}
	logger.Info().Str("url", cfg.Catalog.BaseURL).Msg("Catalog API client initialized")

	// === КЕШ КАТЕГОРИЙ (REDIS) ===
	var cache util.CategoryCache = util.NoopCache{}
	if cfg.Redis.Enabled() {
		redisClient, err := util.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		cache = redisClient
		logger.Info().Str("addr", cfg.Redis.Address()).Msg("Successfully connected to Redis")
	}
	defer cache.Close()

	// === УВЕДОМЛЕНИЯ ===
	// Лог пишется всегда, Kafka - если заданы брокеры
	notifiers := []infrastructure.Notifier{messaging.NewLogNotifier()}
	if cfg.Kafka.Enabled() {
		notifiers = append(notifiers, messaging.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka notifier initialized")
	}
	notifier := messaging.NewMultiNotifier(notifiers...)
	defer notifier.Close()

	// === ЗАГРУЗКА ИЗОБРАЖЕНИЙ (MINIO) ===
	var uploader infrastructure.ImageUploader
	if cfg.Minio.Enabled() {
		minioUploader, err := storage.NewMinioUploader(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.Secure)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize MinIO uploader")
		}
		uploader = minioUploader
		logger.Info().Str("endpoint", cfg.Minio.Endpoint).Str("bucket", cfg.Minio.Bucket).Msg("MinIO uploader initialized")
	}

	// === СЕССИЯ АДМИНИСТРАТОРА ===
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	adminSession := session.New(session.Dependencies{
		API:      catalogClient,
		Cache:    cache,
		Notifier: notifier,
		Uploader: uploader,
		Location: filter.NewMemoryLocation(cfg.Session.InitialLocation),
	})
	if err := adminSession.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start admin session")
	}

	// === ПЕРИОДИЧЕСКОЕ ОБНОВЛЕНИЕ ===
	var refresher *processor.CronRefresher
	if cfg.Refresh.Enabled() {
		refresher = processor.NewCronRefresher(adminSession)
		if err := refresher.Start(cfg.Refresh.Schedule); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start list refresher")
		}
	}

	// === HTTP СЕРВЕР ===
	router := handler.SetupRoutes(handler.NewAdminHandler(adminSession), cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Address()).Msg("Starting Admin Service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Admin Service...")

	if refresher != nil {
		refresher.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	stop()
	adminSession.Stop()

	logger.Info().Msg("Admin Service stopped gracefully")
}
