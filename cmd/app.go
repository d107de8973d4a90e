package cmd

import (
	"context"
	"fmt"
	"time"

	"listing-sync/core/config"
	"listing-sync/core/database"
	"listing-sync/core/logger"
	"listing-sync/core/reconcile"
	"listing-sync/core/storage"
	"listing-sync/feature/encar"
	"listing-sync/feature/insurance"
	"listing-sync/feature/integrity"
	"listing-sync/feature/listings"
	"listing-sync/feature/listings/history"
	"listing-sync/feature/notion"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles the wired components shared by the commands.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	storage   storage.Client
	encar     *encar.Client
	notion    *notion.Client
	store     *notion.Store
	insurance *insurance.Service
	listings  *listings.Service
	integrity *integrity.Service
}

// loadConfig loads the configuration and builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// bootstrap wires every component. The run history database and the archive
// bucket are optional: when unreachable the service runs without them.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, l, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: l}

	conditions, err := reconcile.ParseConditions(cfg.Sync.Conditions)
	if err != nil {
		return nil, fmt.Errorf("invalid insurance conditions: %w", err)
	}

	a.encar = encar.NewClient(cfg.Encar, l)
	a.insurance, err = insurance.NewService(a.encar, conditions, cfg.Encar.Concurrency, l)
	if err != nil {
		return nil, err
	}
	a.notion = notion.NewClient(cfg.Notion, l)
	a.store = notion.NewStore(a.notion, cfg.Notion.DatabaseID, cfg.Notion.Concurrency, l)

	var runs listings.RunRepository
	if conn, err := database.Connect(cfg.Database); err != nil {
		l.Warn("Run history database unavailable", zap.Error(err))
	} else {
		repo := history.NewRepository(conn)
		if err := repo.Migrate(); err != nil {
			l.Warn("Run history migration failed", zap.Error(err))
		} else {
			a.db = conn
			runs = repo
		}
	}

	var opts []listings.Option
	if client, err := storage.NewClient(cfg.Storage); err != nil {
		l.Warn("Object storage unavailable", zap.Error(err))
	} else {
		a.storage = client
		bucketCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Storage.TimeoutSeconds)*time.Second)
		err := storage.EnsureBucket(bucketCtx, client, cfg.Storage.Bucket, cfg.Storage.Region)
		cancel()
		if err != nil {
			l.Warn("Run archive disabled", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		} else {
			opts = append(opts, listings.WithArchiver(listings.NewArchiver(client, cfg.Storage.Bucket, l)))
		}
	}

	source := encar.NewSource(a.encar, a.insurance, l)
	a.listings = listings.NewService(cfg.Sync, source, a.store, a.store, runs, l, opts...)
	a.integrity = integrity.NewService(a.storage, cfg.Storage.Bucket, a.db, a.notion, cfg.Notion.DatabaseID, l)

	return a, nil
}
