package contracts

import (
	"context"
	"time"
)

// CustomerRepository loads the customer snapshot the engine runs against.
type CustomerRepository interface {
	// List returns up to limit customer rows; limit <= 0 means no cap.
	List(ctx context.Context, limit int) ([]CustomerRecord, error)
	Count(ctx context.Context) (int64, error)
}

// TransactionRepository loads the transaction snapshot.
type TransactionRepository interface {
	// List returns up to limit rows ordered by customer, date, transaction id.
	List(ctx context.Context, limit int) ([]TransactionRecord, error)
	ListByDateRange(ctx context.Context, from, to time.Time, limit int) ([]TransactionRecord, error)
	Count(ctx context.Context) (int64, error)
}

// SegmentRepository persists the assignments of a segmentation run.
type SegmentRepository interface {
	SaveBatch(ctx context.Context, runDate time.Time, assignments []SegmentAssignment) error
	GetLatestRun(ctx context.Context) (*SegmentationResult, error)
}
