package contracts

import (
	"sort"
	"time"
)

// RetentionMatrix is the cohort-by-elapsed-month activity table. Cohort
// keys are month-truncated UTC timestamps; every cohort row is zero-filled
// out to MaxElapsed. The whole matrix survives a JSON round trip, so cached
// and exported copies keep their counts.
type RetentionMatrix struct {
	Cohorts    []time.Time         `json:"cohorts"` // ascending
	MaxElapsed int                 `json:"max_elapsed"`
	Active     map[time.Time][]int `json:"active"` // cohort -> counts indexed by elapsed month
}

// CohortRetentionCell is one cell of the matrix in record form.
type CohortRetentionCell struct {
	CohortPeriod        time.Time `json:"cohort_period"`
	ElapsedPeriods      int       `json:"elapsed_periods"`
	ActiveCustomerCount int       `json:"active_customer_count"`
	RetentionRate       float64   `json:"retention_rate"`
	RateDefined         bool      `json:"rate_defined"`
}

// CohortSize returns the month-0 population of a cohort.
func (m *RetentionMatrix) CohortSize(cohort time.Time) int {
	counts, ok := m.Active[cohort]
	if !ok || len(counts) == 0 {
		return 0
	}
	return counts[0]
}

// ActiveCount returns the distinct-customer count for a cell; missing cells
// are zero.
func (m *RetentionMatrix) ActiveCount(cohort time.Time, elapsed int) int {
	counts, ok := m.Active[cohort]
	if !ok || elapsed < 0 || elapsed >= len(counts) {
		return 0
	}
	return counts[elapsed]
}

// Rate returns the retention rate for a cell as a percentage. The second
// return is false when the month-0 denominator is zero, in which case the
// cell is undefined rather than an error.
func (m *RetentionMatrix) Rate(cohort time.Time, elapsed int) (float64, bool) {
	size := m.CohortSize(cohort)
	if size == 0 {
		return 0, false
	}
	return float64(m.ActiveCount(cohort, elapsed)) / float64(size) * 100, true
}

// Cells flattens the matrix into cell records, ordered by cohort then
// elapsed period.
func (m *RetentionMatrix) Cells() []CohortRetentionCell {
	cells := make([]CohortRetentionCell, 0, len(m.Cohorts)*(m.MaxElapsed+1))
	for _, cohort := range m.Cohorts {
		for t := 0; t <= m.MaxElapsed; t++ {
			rate, defined := m.Rate(cohort, t)
			cells = append(cells, CohortRetentionCell{
				CohortPeriod:        cohort,
				ElapsedPeriods:      t,
				ActiveCustomerCount: m.ActiveCount(cohort, t),
				RetentionRate:       rate,
				RateDefined:         defined,
			})
		}
	}
	return cells
}

// SortCohorts orders the cohort index ascending. Builders call this once
// after filling the matrix.
func (m *RetentionMatrix) SortCohorts() {
	sort.Slice(m.Cohorts, func(i, j int) bool { return m.Cohorts[i].Before(m.Cohorts[j]) })
}

// RetentionResult wraps the matrix with the explicit empty branch for
// snapshots that contain no valid transaction rows.
type RetentionResult struct {
	Status ResultStatus     `json:"status"`
	Reason string           `json:"reason,omitempty"`
	Matrix *RetentionMatrix `json:"matrix,omitempty"`
}
