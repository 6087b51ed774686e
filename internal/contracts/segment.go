package contracts

import "time"

// Segment is the composite RFM segment label.
type Segment string

const (
	SegmentChampions          Segment = "Champions"
	SegmentLoyalCustomers     Segment = "Loyal Customers"
	SegmentPotentialLoyalists Segment = "Potential Loyalists"
	SegmentAtRisk             Segment = "At Risk"
	SegmentLostCustomers      Segment = "Lost Customers"
	SegmentUnknown            Segment = "Unknown"
)

// BehaviorSegment is the order-value marketing bucket.
type BehaviorSegment string

const (
	BehaviorBudget  BehaviorSegment = "Budget"
	BehaviorValue   BehaviorSegment = "Value"
	BehaviorPremium BehaviorSegment = "Premium"
	BehaviorLuxury  BehaviorSegment = "Luxury"
)

// CLVTier is the total-spend quartile tier. Empty means the quartile cut
// could not be formed ("insufficient data"), which callers must tolerate.
type CLVTier string

const (
	CLVLow    CLVTier = "Low CLV"
	CLVMedium CLVTier = "Medium CLV"
	CLVHigh   CLVTier = "High CLV"
	CLVVIP    CLVTier = "VIP"
)

// ChurnRisk is the days-since-last-order bucket.
type ChurnRisk string

const (
	ChurnVeryLow  ChurnRisk = "Very Low"
	ChurnLow      ChurnRisk = "Low"
	ChurnMedium   ChurnRisk = "Medium"
	ChurnHigh     ChurnRisk = "High"
	ChurnVeryHigh ChurnRisk = "Very High"
)

// LifecycleStage groups customers by how recently they ordered.
type LifecycleStage string

const (
	LifecycleActive  LifecycleStage = "Active"
	LifecycleWarm    LifecycleStage = "Warm"
	LifecycleCooling LifecycleStage = "Cooling"
	LifecycleDormant LifecycleStage = "Dormant"
)

// SegmentAssignment is the engine output for a single customer. It is
// recomputed from the current snapshot on every run; nothing is persisted
// by the engine itself.
type SegmentAssignment struct {
	CustomerID string `json:"customer_id"`

	RecencyScore   int `json:"recency_score"`   // 1..5
	FrequencyScore int `json:"frequency_score"` // 1..5
	MonetaryScore  int `json:"monetary_score"`  // 1..5
	RFMScore       int `json:"rfm_score"`       // 3..15

	Segment         Segment         `json:"segment"`
	BehaviorSegment BehaviorSegment `json:"behavior_segment"`
	CLVTier         CLVTier         `json:"clv_tier,omitempty"`
	ChurnRisk       ChurnRisk       `json:"churn_risk"`
	LifecycleStage  LifecycleStage  `json:"lifecycle_stage"`
	IsChurned       bool            `json:"is_churned"`
	DateAnomaly     bool            `json:"date_anomaly,omitempty"`
}

// ResultStatus tags which path the engine took. The degraded and empty
// paths are explicit branches rather than swallowed exceptions so callers
// and tests can assert which one fired.
type ResultStatus string

const (
	StatusOK       ResultStatus = "ok"
	StatusDegraded ResultStatus = "degraded"
	StatusEmpty    ResultStatus = "empty"
)

// SegmentationResult is the full output of one engine invocation.
type SegmentationResult struct {
	Status      ResultStatus        `json:"status"`
	Reason      string              `json:"reason,omitempty"`
	RunAt       time.Time           `json:"run_at"`
	Assignments []SegmentAssignment `json:"assignments"`
}

// Get returns the assignment for a customer id.
func (r *SegmentationResult) Get(customerID string) (*SegmentAssignment, bool) {
	for i := range r.Assignments {
		if r.Assignments[i].CustomerID == customerID {
			return &r.Assignments[i], true
		}
	}
	return nil, false
}

// Count returns the number of assigned customers.
func (r *SegmentationResult) Count() int {
	return len(r.Assignments)
}

// SegmentCounts returns the population per composite segment.
func (r *SegmentationResult) SegmentCounts() map[Segment]int {
	counts := make(map[Segment]int)
	for i := range r.Assignments {
		counts[r.Assignments[i].Segment]++
	}
	return counts
}

// ChurnRate returns the share of churned customers as a percentage.
func (r *SegmentationResult) ChurnRate() float64 {
	if len(r.Assignments) == 0 {
		return 0
	}
	churned := 0
	for i := range r.Assignments {
		if r.Assignments[i].IsChurned {
			churned++
		}
	}
	return float64(churned) / float64(len(r.Assignments)) * 100
}
