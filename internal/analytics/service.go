// Package analytics wires the data repositories to the segmentation, cohort
// and journey engines and caches computed results for the API.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/lumehq/customeriq/backend/internal/cohort"
	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/journey"
	"github.com/lumehq/customeriq/backend/internal/segment"
	"github.com/lumehq/customeriq/backend/internal/segmentconfig"
	"github.com/lumehq/customeriq/backend/pkg/config"
	"github.com/lumehq/customeriq/backend/pkg/logger"
	"github.com/lumehq/customeriq/backend/pkg/redis"
)

// Cache keys for computed results.
const (
	cacheKeySegments  = "segments"
	cacheKeyRetention = "retention"
	cacheKeyJourney   = "journey"
)

// Progress reports how far a recompute has advanced. Percent is 0-100.
type Progress struct {
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
}

// ProgressFunc receives progress events during Refresh. May be nil.
type ProgressFunc func(Progress)

// Service orchestrates analytics runs over the configured repositories.
type Service struct {
	cfg    *config.Config
	params *segmentconfig.Config

	customers    contracts.CustomerRepository
	transactions contracts.TransactionRepository
	segments     contracts.SegmentRepository // nil for read-only sources

	cache *redis.Cache // nil when Redis is disabled

	engine    *segment.Engine
	cohorts   *cohort.Builder
	sequencer *journey.Sequencer
	logger    *logger.Logger
}

// New builds a service around the given repositories. segRepo and cache may
// be nil; persistence and caching are then skipped.
func New(
	cfg *config.Config,
	params *segmentconfig.Config,
	customers contracts.CustomerRepository,
	transactions contracts.TransactionRepository,
	segRepo contracts.SegmentRepository,
	cache *redis.Cache,
	log *logger.Logger,
) *Service {
	return &Service{
		cfg:          cfg,
		params:       params,
		customers:    customers,
		transactions: transactions,
		segments:     segRepo,
		cache:        cache,
		engine:       segment.NewEngine(params, log),
		cohorts:      cohort.NewBuilder(params, log),
		sequencer:    journey.NewSequencer(params, log),
		logger:       log,
	}
}

// Params returns the active segmentation parameters.
func (s *Service) Params() *segmentconfig.Config {
	return s.params
}

// Segments computes (or serves from cache) the current segmentation result.
func (s *Service) Segments(ctx context.Context) (*contracts.SegmentationResult, error) {
	var cached contracts.SegmentationResult
	if s.cacheGet(ctx, cacheKeySegments, &cached) {
		return &cached, nil
	}

	customers, err := s.customers.List(ctx, s.cfg.Analytics.CustomerLimit)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	result := s.engine.Segment(ctx, customers)
	s.cacheSet(ctx, cacheKeySegments, result)
	return result, nil
}

// Retention computes (or serves from cache) the cohort retention matrix.
func (s *Service) Retention(ctx context.Context) (*contracts.RetentionResult, error) {
	var cached contracts.RetentionResult
	if s.cacheGet(ctx, cacheKeyRetention, &cached) {
		return &cached, nil
	}

	txns, err := s.transactions.List(ctx, s.cfg.Analytics.TransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	result := s.cohorts.Build(ctx, txns)
	s.cacheSet(ctx, cacheKeyRetention, result)
	return result, nil
}

// Journey computes (or serves from cache) the purchase sequence breakdown.
func (s *Service) Journey(ctx context.Context) (*contracts.SequenceResult, error) {
	var cached contracts.SequenceResult
	if s.cacheGet(ctx, cacheKeyJourney, &cached) {
		return &cached, nil
	}

	txns, err := s.transactions.List(ctx, s.cfg.Analytics.TransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	result := s.sequencer.Build(ctx, txns)
	s.cacheSet(ctx, cacheKeyJourney, result)
	return result, nil
}

// LatestRun returns the most recent persisted segmentation run, or nil when
// persistence is not configured.
func (s *Service) LatestRun(ctx context.Context) (*contracts.SegmentationResult, error) {
	if s.segments == nil {
		return nil, nil
	}
	return s.segments.GetLatestRun(ctx)
}

// RefreshSummary reports what a full recompute produced.
type RefreshSummary struct {
	RunAt      time.Time              `json:"run_at"`
	Status     contracts.ResultStatus `json:"status"`
	Customers  int                    `json:"customers"`
	Cohorts    int                    `json:"cohorts"`
	Sequences  int                    `json:"sequences"`
	Persisted  bool                   `json:"persisted"`
	DurationMS int64                  `json:"duration_ms"`
}

// Refresh recomputes all analytics from source data, persists the
// segmentation run when a segment repository is configured, and replaces
// cached results. Progress events fire at each stage boundary.
func (s *Service) Refresh(ctx context.Context, report ProgressFunc) (*RefreshSummary, error) {
	start := time.Now()
	emit := func(stage string, pct float64) {
		if report != nil {
			report(Progress{Stage: stage, Percent: pct})
		}
	}

	emit("loading customers", 0)
	customers, err := s.customers.List(ctx, s.cfg.Analytics.CustomerLimit)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	emit("loading transactions", 15)
	txns, err := s.transactions.List(ctx, s.cfg.Analytics.TransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	emit("segmenting", 30)
	segResult := s.engine.Segment(ctx, customers)

	emit("building cohorts", 55)
	retResult := s.cohorts.Build(ctx, txns)

	emit("sequencing journeys", 70)
	seqResult := s.sequencer.Build(ctx, txns)

	persisted := false
	if s.segments != nil && segResult.Status != contracts.StatusEmpty {
		emit("persisting", 85)
		if err := s.segments.SaveBatch(ctx, segResult.RunAt, segResult.Assignments); err != nil {
			return nil, fmt.Errorf("persist segmentation run: %w", err)
		}
		persisted = true
	}

	s.cacheSet(ctx, cacheKeySegments, segResult)
	s.cacheSet(ctx, cacheKeyRetention, retResult)
	s.cacheSet(ctx, cacheKeyJourney, seqResult)
	emit("done", 100)

	summary := &RefreshSummary{
		RunAt:      segResult.RunAt,
		Status:     segResult.Status,
		Customers:  len(segResult.Assignments),
		Persisted:  persisted,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if retResult.Matrix != nil {
		summary.Cohorts = len(retResult.Matrix.Cohorts)
	}
	if seqResult.Breakdown != nil {
		summary.Sequences = seqResult.Breakdown.Horizon
	}

	s.logger.WithFields(map[string]interface{}{
		"status":      string(summary.Status),
		"customers":   summary.Customers,
		"cohorts":     summary.Cohorts,
		"persisted":   summary.Persisted,
		"duration_ms": summary.DurationMS,
	}).Info("Analytics refresh completed")

	return summary, nil
}

func (s *Service) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
		return false
	}
	return hit
}

func (s *Service) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.Redis.CacheTTL); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}
