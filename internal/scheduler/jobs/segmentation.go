// Package jobs holds the scheduled analytics jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/lumehq/customeriq/backend/internal/analytics"
	"github.com/lumehq/customeriq/backend/pkg/logger"
)

// SegmentationJob recomputes and persists all analytics every night, so the
// API serves fresh results without on-demand recomputes during the day.
type SegmentationJob struct {
	service *analytics.Service
	logger  *logger.Logger
}

// NewSegmentationJob creates the nightly segmentation job.
func NewSegmentationJob(service *analytics.Service, log *logger.Logger) *SegmentationJob {
	return &SegmentationJob{
		service: service,
		logger:  log,
	}
}

// Name returns the job name
func (j *SegmentationJob) Name() string {
	return "nightly-segmentation"
}

// Schedule runs at 02:00 every day.
func (j *SegmentationJob) Schedule() string {
	return "0 0 2 * * *"
}

// Run executes a full analytics refresh.
func (j *SegmentationJob) Run(ctx context.Context) error {
	summary, err := j.service.Refresh(ctx, nil)
	if err != nil {
		return fmt.Errorf("nightly segmentation refresh: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"status":    string(summary.Status),
		"customers": summary.Customers,
		"persisted": summary.Persisted,
	}).Info("Nightly segmentation finished")

	return nil
}
