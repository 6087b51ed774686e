package cohort

import (
	"context"
	"time"

	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/segmentconfig"
	"github.com/lumehq/customeriq/backend/pkg/logger"
)

// Builder groups customers by acquisition month and measures how many of
// them are still transacting N calendar months later. Retention rates are
// relative to each cohort's month-0 size and must never be compared as
// absolute cross-cohort counts.
type Builder struct {
	cfg    *segmentconfig.Config
	logger *logger.Logger
}

// NewBuilder creates a retention matrix builder.
func NewBuilder(cfg *segmentconfig.Config, log *logger.Logger) *Builder {
	return &Builder{cfg: cfg, logger: log}
}

// Build computes the retention matrix from a transaction snapshot. Rows
// with an unparseable date or an empty customer id are excluded outright,
// never defaulted; a snapshot with no valid rows yields the explicit empty
// branch rather than a malformed matrix.
func (b *Builder) Build(ctx context.Context, txns []contracts.TransactionRecord) *contracts.RetentionResult {
	valid := make([]contracts.TransactionRecord, 0, len(txns))
	for i := range txns {
		if txns[i].HasValidDate() && txns[i].CustomerID != "" {
			valid = append(valid, txns[i])
		}
	}

	if len(valid) == 0 {
		b.logger.Warn("No valid transactions for retention analysis")
		return &contracts.RetentionResult{
			Status: contracts.StatusEmpty,
			Reason: "no transactions with valid dates",
		}
	}

	// First purchase date per customer.
	firstPurchase := make(map[string]time.Time, len(valid))
	for i := range valid {
		t := &valid[i]
		if first, ok := firstPurchase[t.CustomerID]; !ok || t.OrderDate.Before(first) {
			firstPurchase[t.CustomerID] = t.OrderDate
		}
	}

	// Distinct customers per (cohort month, elapsed months).
	type cell struct {
		cohort  time.Time
		elapsed int
	}
	seen := make(map[cell]map[string]struct{})
	maxElapsed := 0
	for i := range valid {
		t := &valid[i]
		first := firstPurchase[t.CustomerID]
		elapsed := contracts.MonthsBetween(contracts.MonthOf(first), t.OrderMonth())
		if limit := b.cfg.Cohort.MaxElapsedMonths; limit > 0 && elapsed > limit {
			continue
		}

		key := cell{cohort: contracts.MonthOf(first), elapsed: elapsed}
		if seen[key] == nil {
			seen[key] = make(map[string]struct{})
		}
		seen[key][t.CustomerID] = struct{}{}
		if elapsed > maxElapsed {
			maxElapsed = elapsed
		}
	}

	matrix := &contracts.RetentionMatrix{
		MaxElapsed: maxElapsed,
		Active:     make(map[time.Time][]int),
	}
	for key, customers := range seen {
		counts, ok := matrix.Active[key.cohort]
		if !ok {
			counts = make([]int, maxElapsed+1) // zero-filled
			matrix.Active[key.cohort] = counts
			matrix.Cohorts = append(matrix.Cohorts, key.cohort)
		}
		counts[key.elapsed] = len(customers)
	}
	matrix.SortCohorts()

	b.logger.WithFields(map[string]interface{}{
		"transactions": len(valid),
		"cohorts":      len(matrix.Cohorts),
		"max_elapsed":  maxElapsed,
	}).Info("Retention matrix built")

	return &contracts.RetentionResult{
		Status: contracts.StatusOK,
		Matrix: matrix,
	}
}
