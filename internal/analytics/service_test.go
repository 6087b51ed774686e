package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/segmentconfig"
	"github.com/lumehq/customeriq/backend/pkg/config"
	"github.com/lumehq/customeriq/backend/pkg/logger"
)

type fakeCustomerRepo struct {
	customers []contracts.CustomerRecord
	err       error
}

func (f *fakeCustomerRepo) List(ctx context.Context, limit int) ([]contracts.CustomerRecord, error) {
	return f.customers, f.err
}

func (f *fakeCustomerRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.customers)), f.err
}

type fakeTransactionRepo struct {
	txns []contracts.TransactionRecord
}

func (f *fakeTransactionRepo) List(ctx context.Context, limit int) ([]contracts.TransactionRecord, error) {
	return f.txns, nil
}

func (f *fakeTransactionRepo) ListByDateRange(ctx context.Context, from, to time.Time, limit int) ([]contracts.TransactionRecord, error) {
	return f.txns, nil
}

func (f *fakeTransactionRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.txns)), nil
}

type fakeSegmentRepo struct {
	saved []contracts.SegmentAssignment
}

func (f *fakeSegmentRepo) SaveBatch(ctx context.Context, runDate time.Time, assignments []contracts.SegmentAssignment) error {
	f.saved = assignments
	return nil
}

func (f *fakeSegmentRepo) GetLatestRun(ctx context.Context) (*contracts.SegmentationResult, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:  "error",
		LogFormat: "json",
		Redis:     config.RedisConfig{CacheTTL: time.Minute},
	}
}

func testCustomers(n int) []contracts.CustomerRecord {
	customers := make([]contracts.CustomerRecord, n)
	for i := range customers {
		orders := i%7 + 1
		spent := 250 + float64(i)*120
		days := 5 + i*6
		customers[i] = contracts.CustomerRecord{
			CustomerID:         fmt.Sprintf("C%03d", i),
			TotalOrders:        &orders,
			TotalSpent:         &spent,
			DaysSinceLastOrder: &days,
		}
	}
	return customers
}

func testTransactions() []contracts.TransactionRecord {
	return []contracts.TransactionRecord{
		{TransactionID: "T1", CustomerID: "C1", OrderDate: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), FinalAmountINR: 100, Category: "Books"},
		{TransactionID: "T2", CustomerID: "C1", OrderDate: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), FinalAmountINR: 200, Category: "Fashion"},
		{TransactionID: "T3", CustomerID: "C2", OrderDate: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), FinalAmountINR: 300, Category: "Books"},
	}
}

func newTestService(customers *fakeCustomerRepo, segments contracts.SegmentRepository) *Service {
	cfg := testConfig()
	return New(
		cfg,
		segmentconfig.Default(),
		customers,
		&fakeTransactionRepo{txns: testTransactions()},
		segments,
		nil,
		logger.New(cfg),
	)
}

func TestService_Refresh(t *testing.T) {
	segments := &fakeSegmentRepo{}
	svc := newTestService(&fakeCustomerRepo{customers: testCustomers(30)}, segments)

	var events []Progress
	summary, err := svc.Refresh(context.Background(), func(p Progress) {
		events = append(events, p)
	})
	require.NoError(t, err)

	assert.Equal(t, contracts.StatusOK, summary.Status)
	assert.Equal(t, 30, summary.Customers)
	assert.True(t, summary.Persisted)
	assert.Len(t, segments.saved, 30)

	require.NotEmpty(t, events)
	assert.Equal(t, 100.0, events[len(events)-1].Percent)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].Percent, events[i-1].Percent)
	}
}

func TestService_RefreshWithoutPersistence(t *testing.T) {
	svc := newTestService(&fakeCustomerRepo{customers: testCustomers(10)}, nil)

	summary, err := svc.Refresh(context.Background(), nil)
	require.NoError(t, err)

	assert.False(t, summary.Persisted)
}

func TestService_RefreshEmptySnapshotNotPersisted(t *testing.T) {
	segments := &fakeSegmentRepo{}
	svc := newTestService(&fakeCustomerRepo{}, segments)

	summary, err := svc.Refresh(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, contracts.StatusEmpty, summary.Status)
	assert.False(t, summary.Persisted)
	assert.Empty(t, segments.saved)
}

func TestService_SegmentsPropagatesLoadError(t *testing.T) {
	svc := newTestService(&fakeCustomerRepo{err: errors.New("connection refused")}, nil)

	_, err := svc.Segments(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load customers")
}

func TestService_RetentionAndJourney(t *testing.T) {
	svc := newTestService(&fakeCustomerRepo{customers: testCustomers(10)}, nil)

	retention, err := svc.Retention(context.Background())
	require.NoError(t, err)
	require.Equal(t, contracts.StatusOK, retention.Status)
	assert.Len(t, retention.Matrix.Cohorts, 1)

	journey, err := svc.Journey(context.Background())
	require.NoError(t, err)
	require.Equal(t, contracts.StatusOK, journey.Status)
	assert.Equal(t, map[int]int{1: 1, 2: 1}, journey.Breakdown.OrdersPerCustomer)
}
