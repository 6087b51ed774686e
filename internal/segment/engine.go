package segment

import (
	"context"
	"fmt"
	"time"

	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/segmentconfig"
	"github.com/lumehq/customeriq/backend/pkg/logger"
)

// Engine computes one SegmentationResult from a customer snapshot. It holds
// no state between invocations, never mutates its input, and always returns
// a usable result: unexpected failures degrade the whole population to the
// default segment instead of surfacing as an error.
type Engine struct {
	cfg      *segmentconfig.Config
	scorer   *RFMScorer
	behavior *BehaviorSegmenter
	logger   *logger.Logger
}

// NewEngine creates an engine for one parameter set.
func NewEngine(cfg *segmentconfig.Config, log *logger.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		scorer:   NewRFMScorer(cfg),
		behavior: NewBehaviorSegmenter(cfg),
		logger:   log,
	}
}

// Segment assigns every customer in the snapshot. The three outcomes are
// explicit: StatusEmpty for a snapshot with no customers, StatusDegraded
// when scoring failed as a whole, StatusOK otherwise.
func (e *Engine) Segment(ctx context.Context, customers []contracts.CustomerRecord) *contracts.SegmentationResult {
	runAt := time.Now().UTC()

	if len(customers) == 0 {
		return &contracts.SegmentationResult{
			Status: contracts.StatusEmpty,
			Reason: "no customers in snapshot",
			RunAt:  runAt,
		}
	}

	assignments, err := e.compute(customers)
	if err != nil {
		e.logger.WithError(err).Warn("Segmentation degraded to default segment")
		return e.degraded(customers, err, runAt)
	}

	e.logger.WithFields(map[string]interface{}{
		"customers": len(customers),
		"profile":   e.cfg.Meta.ProfileID,
	}).Info("Segmentation completed")

	return &contracts.SegmentationResult{
		Status:      contracts.StatusOK,
		RunAt:       runAt,
		Assignments: assignments,
	}
}

// compute runs the full scoring path. A panic anywhere in scoring is
// converted to an error so the caller can take the degraded branch.
func (e *Engine) compute(customers []contracts.CustomerRecord) (assignments []contracts.SegmentAssignment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("segmentation panic: %v", r)
		}
	}()

	if err := segmentconfig.Validate(e.cfg); err != nil {
		return nil, fmt.Errorf("invalid segmentation parameters: %w", err)
	}

	scores := e.scorer.Score(customers)
	tiers := e.behavior.CLVTiers(customers)

	assignments = make([]contracts.SegmentAssignment, len(customers))
	for i := range customers {
		c := &customers[i]
		sc := scores[i]

		seg := e.scorer.SegmentFor(sc.Composite())
		if sc.AllMissing {
			// No recency, frequency or monetary signal at all: the composite
			// is meaningless, so the customer degrades to Unknown instead of
			// being dropped.
			seg = contracts.SegmentUnknown
		}

		assignments[i] = contracts.SegmentAssignment{
			CustomerID:      c.CustomerID,
			RecencyScore:    sc.Recency,
			FrequencyScore:  sc.Frequency,
			MonetaryScore:   sc.Monetary,
			RFMScore:        sc.Composite(),
			Segment:         seg,
			BehaviorSegment: e.behavior.BehaviorSegment(c),
			CLVTier:         tiers[i],
			ChurnRisk:       e.behavior.ChurnRisk(c),
			LifecycleStage:  e.behavior.LifecycleStage(c),
			IsChurned:       e.behavior.IsChurned(c),
			DateAnomaly:     c.HasDateAnomaly(),
		}
	}
	return assignments, nil
}

// degraded assigns the whole population the default segment with neutral
// scores. The fixed-edge buckets run against the default parameter set,
// since the configured one may be what failed; the quartile tier is left
// unset.
func (e *Engine) degraded(customers []contracts.CustomerRecord, cause error, runAt time.Time) *contracts.SegmentationResult {
	fallback := NewBehaviorSegmenter(segmentconfig.Default())
	neutral := segmentconfig.Default().RFM.NeutralScore

	assignments := make([]contracts.SegmentAssignment, len(customers))
	for i := range customers {
		c := &customers[i]
		assignments[i] = contracts.SegmentAssignment{
			CustomerID:      c.CustomerID,
			RecencyScore:    neutral,
			FrequencyScore:  neutral,
			MonetaryScore:   neutral,
			RFMScore:        neutral * 3,
			Segment:         contracts.SegmentLoyalCustomers,
			BehaviorSegment: fallback.BehaviorSegment(c),
			ChurnRisk:       fallback.ChurnRisk(c),
			LifecycleStage:  fallback.LifecycleStage(c),
			IsChurned:       fallback.IsChurned(c),
			DateAnomaly:     c.HasDateAnomaly(),
		}
	}

	return &contracts.SegmentationResult{
		Status:      contracts.StatusDegraded,
		Reason:      cause.Error(),
		RunAt:       runAt,
		Assignments: assignments,
	}
}
