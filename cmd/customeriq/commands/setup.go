package commands

import (
	"fmt"

	"github.com/lumehq/customeriq/backend/internal/analytics"
	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/segmentconfig"
	"github.com/lumehq/customeriq/backend/internal/store"
	"github.com/lumehq/customeriq/backend/internal/store/sqlitesrc"
	"github.com/lumehq/customeriq/backend/pkg/config"
	"github.com/lumehq/customeriq/backend/pkg/database"
	"github.com/lumehq/customeriq/backend/pkg/logger"
	"github.com/lumehq/customeriq/backend/pkg/redis"
)

// runtime bundles everything a command needs: config, logger and the
// analytics service wired to the configured data source.
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	service *analytics.Service

	closers []func()
}

// newRuntime loads config and wires the analytics service. A SQLITE_PATH
// selects the offline file source; otherwise Postgres is used, with result
// persistence and the optional Redis cache.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "console"
	}
	log := logger.New(cfg)

	params, err := loadParams(cfg)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, log: log}

	var (
		customers    contracts.CustomerRepository
		transactions contracts.TransactionRepository
		segments     contracts.SegmentRepository
		cache        *redis.Cache
	)

	if cfg.Analytics.SQLitePath != "" {
		src, err := sqlitesrc.Open(cfg.Analytics.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite source: %w", err)
		}
		rt.closers = append(rt.closers, func() { src.Close() })

		customers = src
		transactions = src.Transactions()
		log.WithField("path", cfg.Analytics.SQLitePath).Info("Using SQLite data source")
	} else {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		rt.closers = append(rt.closers, db.Close)

		customers = store.NewCustomerRepository(db.Pool)
		transactions = store.NewTransactionRepository(db.Pool)
		segments = store.NewSegmentRepository(db.Pool)
		log.Info("Connected to database")

		client, err := redis.New(cfg)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, caching disabled")
		} else if client.Enabled() {
			rt.closers = append(rt.closers, func() { client.Close() })
			cache = redis.NewCache(client, "analytics")
		}
	}

	rt.service = analytics.New(cfg, params, customers, transactions, segments, cache, log)
	return rt, nil
}

// loadParams resolves the segmentation parameter profile. The --params flag
// overrides SEGMENT_PARAMS_FILE; both fall back to the built-in defaults.
func loadParams(cfg *config.Config) (*segmentconfig.Config, error) {
	path := paramsFile
	if path == "" {
		path = cfg.Analytics.ParamsFile
	}
	if path == "" {
		return segmentconfig.Default(), nil
	}

	params, _, err := segmentconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load params %s: %w", path, err)
	}
	return params, nil
}

// Close releases all held resources in reverse acquisition order.
func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}
