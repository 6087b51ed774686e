package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumehq/customeriq/backend/internal/contracts"
)

// SegmentRepository persists segmentation runs so the API and scheduled
// jobs can serve the latest assignments without recomputing.
type SegmentRepository struct {
	pool *pgxpool.Pool
}

// NewSegmentRepository creates a new segment repository.
func NewSegmentRepository(pool *pgxpool.Pool) *SegmentRepository {
	return &SegmentRepository{pool: pool}
}

// SaveBatch upserts the assignments of one run.
func (r *SegmentRepository) SaveBatch(ctx context.Context, runDate time.Time, assignments []contracts.SegmentAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	query := `
		INSERT INTO segment_runs (
			run_date, customer_id, recency_score, frequency_score, monetary_score,
			rfm_score, segment, behavior_segment, clv_tier, churn_risk,
			lifecycle_stage, is_churned
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (run_date, customer_id) DO UPDATE SET
			recency_score = EXCLUDED.recency_score,
			frequency_score = EXCLUDED.frequency_score,
			monetary_score = EXCLUDED.monetary_score,
			rfm_score = EXCLUDED.rfm_score,
			segment = EXCLUDED.segment,
			behavior_segment = EXCLUDED.behavior_segment,
			clv_tier = EXCLUDED.clv_tier,
			churn_risk = EXCLUDED.churn_risk,
			lifecycle_stage = EXCLUDED.lifecycle_stage,
			is_churned = EXCLUDED.is_churned
	`

	for i := range assignments {
		a := &assignments[i]
		_, err := r.pool.Exec(ctx, query,
			runDate, a.CustomerID, a.RecencyScore, a.FrequencyScore, a.MonetaryScore,
			a.RFMScore, string(a.Segment), string(a.BehaviorSegment), string(a.CLVTier),
			string(a.ChurnRisk), string(a.LifecycleStage), a.IsChurned,
		)
		if err != nil {
			return fmt.Errorf("save assignment %s: %w", a.CustomerID, err)
		}
	}
	return nil
}

type pgxRow interface {
	Scan(dest ...interface{}) error
}

// latestRunDate scans MAX(run_date). An empty table yields NULL, reported
// as ok=false rather than a scan error.
func latestRunDate(row pgxRow) (time.Time, bool, error) {
	var runDate sql.NullTime
	if err := row.Scan(&runDate); err != nil {
		return time.Time{}, false, fmt.Errorf("latest run date: %w", err)
	}
	return runDate.Time, runDate.Valid, nil
}

// GetLatestRun returns the most recent persisted run, or nil when no run
// has been persisted yet.
func (r *SegmentRepository) GetLatestRun(ctx context.Context) (*contracts.SegmentationResult, error) {
	runDate, ok, err := latestRunDate(r.pool.QueryRow(ctx, `SELECT MAX(run_date) FROM segment_runs`))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT customer_id, recency_score, frequency_score, monetary_score,
		       rfm_score, segment, behavior_segment, clv_tier, churn_risk,
		       lifecycle_stage, is_churned
		FROM segment_runs
		WHERE run_date = $1
		ORDER BY customer_id
	`, runDate)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	result := &contracts.SegmentationResult{
		Status: contracts.StatusOK,
		RunAt:  runDate,
	}
	for rows.Next() {
		var (
			a                                       contracts.SegmentAssignment
			segment, behavior, clv, churn, lifecycle string
		)
		if err := rows.Scan(
			&a.CustomerID, &a.RecencyScore, &a.FrequencyScore, &a.MonetaryScore,
			&a.RFMScore, &segment, &behavior, &clv, &churn, &lifecycle, &a.IsChurned,
		); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		a.Segment = contracts.Segment(segment)
		a.BehaviorSegment = contracts.BehaviorSegment(behavior)
		a.CLVTier = contracts.CLVTier(clv)
		a.ChurnRisk = contracts.ChurnRisk(churn)
		a.LifecycleStage = contracts.LifecycleStage(lifecycle)
		result.Assignments = append(result.Assignments, a)
	}
	return result, rows.Err()
}
