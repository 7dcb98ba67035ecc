package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"agendavel/internal/api"
	"agendavel/internal/config"
	"agendavel/internal/database"
	"agendavel/internal/domain"
	"agendavel/internal/events"
	"agendavel/internal/export"
	"agendavel/internal/google"
	"agendavel/internal/logging"
	"agendavel/internal/metrics"
	"agendavel/internal/models"
	"agendavel/internal/notify"
	"agendavel/internal/repository"
	"agendavel/internal/service"
	"agendavel/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	locations, err := loadLocations(&logger)
	if err != nil {
		return err
	}

	if err := prepareDirectories(cfg); err != nil {
		return err
	}

	db, err := initDatabase(cfg, locations, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	occupancyCache := initOccupancyCache(cfg, redisClient, &logger)

	sheetsService := initGoogleSheets(cfg, &logger)

	var syncWorker domain.SyncWorker
	if sheetsService != nil {
		retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
		w := worker.NewSyncWorker(db, sheetsService, redisClient, retryPolicy, &logger)
		go w.Start(ctx)
		syncWorker = w
	}

	eventBus := events.NewEventBus()
	if err := initNotifier(cfg, eventBus, &logger); err != nil {
		return err
	}

	bookingService := service.NewBookingService(db, occupancyCache, eventBus, syncWorker, cfg.Scheduling.MaxBookingDays, &logger)
	exporter := export.NewExporter(cfg.Exports.Path, &logger)
	httpServer := api.NewHTTPServer(cfg.API, bookingService, exporter, &logger)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func loadLocations(logger *zerolog.Logger) ([]models.Location, error) {
	locationsPath := os.Getenv("LOCATIONS_PATH")
	if locationsPath == "" {
		locationsPath = "configs/locations.yaml"
	}
	data, err := os.ReadFile(locationsPath)
	if err != nil {
		logger.Error().Err(err).Str("locations_path", locationsPath).Msg("read locations")
		return nil, err
	}

	var locationsConfig struct {
		Locations []models.Location `yaml:"locations"`
	}
	if err := yaml.Unmarshal(data, &locationsConfig); err != nil {
		logger.Error().Err(err).Str("locations_path", locationsPath).Msg("parse locations")
		return nil, err
	}

	if err := config.ValidateLocations(locationsConfig.Locations); err != nil {
		logger.Error().Err(err).Msg("locations validation failed")
		return nil, err
	}

	return locationsConfig.Locations, nil
}

func prepareDirectories(cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("create database dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		return fmt.Errorf("create exports dir: %w", err)
	}
	return nil
}

func initDatabase(cfg *config.Config, locations []models.Location, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	if err := db.SeedLocations(context.Background(), locations); err != nil {
		logger.Error().Err(err).Msg("seed locations")
		return nil, err
	}
	return db, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initOccupancyCache builds the redis-backed cache with an in-memory
// fallback. Without redis the failover trips to memory on first use.
func initOccupancyCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.OccupancyCache {
	ttl := time.Duration(cfg.Scheduling.SlotCacheTTLSeconds) * time.Second
	primary := repository.NewRedisOccupancyCache(redisClient, ttl)
	fallback := repository.NewMemoryOccupancyCache(ttl)
	return repository.NewFailoverOccupancyCache(primary, fallback, logger)
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadSheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadSheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sheetsService.TestConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("google sheets unreachable, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func initNotifier(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) error {
	if cfg.Telegram.BotToken == "" {
		return nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("create telegram bot")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	notifier := notify.NewNotifier(botAPI, cfg.Telegram.StaffChatID, logger)
	notifier.SubscribeTo(bus)
	logger.Info().Int64("staff_chat_id", cfg.Telegram.StaffChatID).Msg("staff notifications enabled")
	return nil
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
