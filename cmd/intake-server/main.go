// cmd/intake-server/main.go
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recruitment-intake/internal/backend"
	"recruitment-intake/internal/board"
	"recruitment-intake/internal/common/config"
	"recruitment-intake/internal/common/database"
	"recruitment-intake/internal/common/logger"
	"recruitment-intake/internal/common/observability"
	"recruitment-intake/internal/draft"
	"recruitment-intake/internal/httpapi"
	"recruitment-intake/internal/intake"
	"recruitment-intake/internal/journal"
	"recruitment-intake/internal/media"
	"recruitment-intake/internal/notify"
	"recruitment-intake/internal/search"
	"recruitment-intake/internal/session"
	"recruitment-intake/internal/storage"
	"recruitment-intake/internal/submit"
	"recruitment-intake/pkg/catalog"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")

	zapLog.Info("Starting intake server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Draft store: Redis when configured, in-memory otherwise ---
	var drafts draft.Store
	if cfg.Database.Redis.Address != "" {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		drafts = draft.NewRedisStore(redis, cfg.Draft.KeyPrefix, time.Duration(cfg.Draft.TTLHours)*time.Hour)
	} else {
		zapLog.Warn("no redis configured, drafts will not survive a restart")
		drafts = draft.NewMemoryStore()
	}

	// --- Submission journal: optional, needs PostgreSQL ---
	var journalStore *journal.Store
	if cfg.Database.Postgres.Host != "" {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		journalStore = journal.NewStore(pg, log)
	}

	// --- Confirmation notifications: optional ---
	var notifier submit.Notifier
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		svc, err := notify.NewService(ctx, cfg.Notifications, log)
		if err != nil {
			zapLog.Fatal("notification service init failed", zap.Error(err))
		}
		notifier = svc
	}

	// --- Recording artifact store: optional, needs MinIO ---
	var blobs storage.BlobStore
	if cfg.Storage.Endpoint != "" {
		var store *storage.MinioStore
		err = retryWithBackoff(func() error {
			var err error
			store, err = storage.NewMinioStore(ctx, cfg.Storage)
			return err
		}, 10, 2*time.Second, zapLog, "MinIO connection")

		if err != nil {
			zapLog.Fatal("minio failed after retries", zap.Error(err))
		}
		zapLog.Info("MinIO connected successfully")
		blobs = store
	}

	// --- Recruitment backend client ---
	backendClient := backend.NewClient(cfg.Backend, log)

	// --- Profile search gateway ---
	var searchGateway search.Gateway
	switch cfg.Search.Gateway {
	case "elasticsearch":
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")

		searchGateway = search.NewESGateway(esClient.Client, cfg.Database.Elasticsearch.Index, cfg.Search.PageSize, log)
	default:
		searchGateway = search.NewRestGateway(backendClient)
	}

	// --- Option catalog: optional ---
	var options *catalog.OptionCatalog
	if cfg.Catalog.Path != "" {
		options, err = catalog.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			zapLog.Fatal("catalog load failed", zap.Error(err), zap.String("path", cfg.Catalog.Path))
		}
	}

	capture := media.NewPushHub()

	// A typed nil pointer must not reach the interface-valued parameter.
	var submitJournal submit.Journal
	if journalStore != nil {
		submitJournal = journalStore
	}

	manager := intake.NewManager(drafts, backendClient, submitJournal, notifier, capture, intake.ManagerConfig{
		Draft: cfg.Draft,
		Media: cfg.Media,
	}, log)
	defer manager.Close()

	server := httpapi.NewServer(*cfg, httpapi.Deps{
		Manager:       manager,
		Sessions:      session.NewService(cfg.Session),
		Board:         board.NewService(backendClient, log),
		Backend:       backendClient,
		SearchGateway: searchGateway,
		Blobs:         blobs,
		Journal:       journalStore,
		Thumbnailer:   media.NoopThumbnailer{},
		Capture:       capture,
		Catalog:       options,
		Observability: obs,
		Logger:        log,
	})

	zapLog.Info("intake server listening",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	if err := server.Run(ctx); err != nil {
		zapLog.Fatal("server exited", zap.Error(err))
	}
	zapLog.Info("intake server stopped")
}
