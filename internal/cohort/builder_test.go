package cohort

import (
	"context"
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

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

func txn(id, customer string, date time.Time) contracts.TransactionRecord {
	return contracts.TransactionRecord{
		TransactionID: id,
		CustomerID:    customer,
		OrderDate:     date,
	}
}

func TestBuilder_EmptySnapshot(t *testing.T) {
	b := NewBuilder(segmentconfig.Default(), testLogger())

	result := b.Build(context.Background(), nil)

	assert.Equal(t, contracts.StatusEmpty, result.Status)
	assert.Nil(t, result.Matrix)
}

func TestBuilder_InvalidRowsExcluded(t *testing.T) {
	b := NewBuilder(segmentconfig.Default(), testLogger())

	txns := []contracts.TransactionRecord{
		txn("T1", "C1", time.Time{}), // unparseable date
		txn("T2", "", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)), // no customer
	}

	result := b.Build(context.Background(), txns)

	assert.Equal(t, contracts.StatusEmpty, result.Status)
}

func TestBuilder_RetentionRates(t *testing.T) {
	b := NewBuilder(segmentconfig.Default(), testLogger())

	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)

	// Five customers acquired in January, two of them back in February.
	var txns []contracts.TransactionRecord
	for i := 1; i <= 5; i++ {
		txns = append(txns, txn(fmt.Sprintf("T%d", i), fmt.Sprintf("C%d", i), jan))
	}
	txns = append(txns,
		txn("T6", "C1", feb),
		txn("T7", "C2", feb),
	)

	result := b.Build(context.Background(), txns)

	require.Equal(t, contracts.StatusOK, result.Status)
	m := result.Matrix
	require.NotNil(t, m)

	cohort := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, []time.Time{cohort}, m.Cohorts)
	assert.Equal(t, 5, m.CohortSize(cohort))

	rate0, ok := m.Rate(cohort, 0)
	require.True(t, ok)
	assert.Equal(t, 100.0, rate0, "month 0 is always 100%")

	rate1, ok := m.Rate(cohort, 1)
	require.True(t, ok)
	assert.Equal(t, 40.0, rate1)
}

func TestBuilder_RepeatOrdersCountOnce(t *testing.T) {
	b := NewBuilder(segmentconfig.Default(), testLogger())

	jan := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	feb2 := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)

	txns := []contracts.TransactionRecord{
		txn("T1", "C1", jan),
		txn("T2", "C1", feb1),
		txn("T3", "C1", feb2), // same customer, same elapsed month
	}

	result := b.Build(context.Background(), txns)

	require.Equal(t, contracts.StatusOK, result.Status)
	cohort := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, result.Matrix.ActiveCount(cohort, 1), "distinct customers per cell")
}

func TestBuilder_GapMonthsZeroFilled(t *testing.T) {
	b := NewBuilder(segmentconfig.Default(), testLogger())

	txns := []contracts.TransactionRecord{
		txn("T1", "C1", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
		txn("T2", "C1", time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)), // skips Feb and Mar
	}

	result := b.Build(context.Background(), txns)

	require.Equal(t, contracts.StatusOK, result.Status)
	m := result.Matrix
	cohort := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, m.MaxElapsed)
	assert.Equal(t, 0, m.ActiveCount(cohort, 1))
	assert.Equal(t, 0, m.ActiveCount(cohort, 2))
	assert.Equal(t, 1, m.ActiveCount(cohort, 3))

	rate, ok := m.Rate(cohort, 2)
	require.True(t, ok)
	assert.Equal(t, 0.0, rate, "gap months are defined zero-rate cells")
}

func TestBuilder_YearBoundaryElapsed(t *testing.T) {
	b := NewBuilder(segmentconfig.Default(), testLogger())

	txns := []contracts.TransactionRecord{
		txn("T1", "C1", time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC)),
		txn("T2", "C1", time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)),
	}

	result := b.Build(context.Background(), txns)

	require.Equal(t, contracts.StatusOK, result.Status)
	cohort := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	// Nov 2023 -> Feb 2024 is three calendar months regardless of day.
	assert.Equal(t, 1, result.Matrix.ActiveCount(cohort, 3))
}

func TestBuilder_MaxElapsedCap(t *testing.T) {
	cfg := segmentconfig.Default()
	cfg.Cohort.MaxElapsedMonths = 2
	b := NewBuilder(cfg, testLogger())

	txns := []contracts.TransactionRecord{
		txn("T1", "C1", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
		txn("T2", "C1", time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)), // elapsed 5, beyond cap
	}

	result := b.Build(context.Background(), txns)

	require.Equal(t, contracts.StatusOK, result.Status)
	assert.Equal(t, 0, result.Matrix.MaxElapsed)
}
