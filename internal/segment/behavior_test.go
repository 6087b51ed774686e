package segment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/segmentconfig"
)

func TestBehaviorSegment(t *testing.T) {
	b := NewBehaviorSegmenter(segmentconfig.Default())

	tests := []struct {
		avg  float64
		want contracts.BehaviorSegment
	}{
		{0, contracts.BehaviorBudget},
		{499.99, contracts.BehaviorBudget},
		{500, contracts.BehaviorValue}, // lower edge belongs to the tier above
		{1499.99, contracts.BehaviorValue},
		{1500, contracts.BehaviorPremium},
		{2999.99, contracts.BehaviorPremium},
		{3000, contracts.BehaviorLuxury},
		{100000, contracts.BehaviorLuxury},
	}

	for _, tt := range tests {
		c := contracts.CustomerRecord{CustomerID: "C", AvgOrderValue: floatPtr(tt.avg)}
		assert.Equal(t, tt.want, b.BehaviorSegment(&c), "avg %v", tt.avg)
	}
}

func TestBehaviorSegment_DerivedFromSpend(t *testing.T) {
	b := NewBehaviorSegmenter(segmentconfig.Default())

	// avg_order_value missing but derivable: 4000 / 2 = 2000 -> Premium.
	c := contracts.CustomerRecord{
		CustomerID:  "C",
		TotalOrders: intPtr(2),
		TotalSpent:  floatPtr(4000),
	}
	assert.Equal(t, contracts.BehaviorPremium, b.BehaviorSegment(&c))

	// Nothing derivable counts as zero spend.
	empty := contracts.CustomerRecord{CustomerID: "E"}
	assert.Equal(t, contracts.BehaviorBudget, b.BehaviorSegment(&empty))
}

func TestCLVTiers_Quartiles(t *testing.T) {
	b := NewBehaviorSegmenter(segmentconfig.Default())

	customers := make([]contracts.CustomerRecord, 8)
	for i := range customers {
		customers[i] = contracts.CustomerRecord{
			CustomerID: fmt.Sprintf("C%d", i),
			TotalSpent: floatPtr(float64(i+1) * 100), // 100 .. 800
		}
	}

	tiers := b.CLVTiers(customers)

	require.Len(t, tiers, 8)
	want := []contracts.CLVTier{
		contracts.CLVLow, contracts.CLVLow,
		contracts.CLVMedium, contracts.CLVMedium,
		contracts.CLVHigh, contracts.CLVHigh,
		contracts.CLVVIP, contracts.CLVVIP,
	}
	assert.Equal(t, want, tiers)
}

func TestCLVTiers_InsufficientSpread(t *testing.T) {
	b := NewBehaviorSegmenter(segmentconfig.Default())

	customers := []contracts.CustomerRecord{
		{CustomerID: "A", TotalSpent: floatPtr(100)},
		{CustomerID: "B", TotalSpent: floatPtr(100)},
		{CustomerID: "C", TotalSpent: floatPtr(200)},
	}

	tiers := b.CLVTiers(customers)

	require.Len(t, tiers, 3)
	for _, tier := range tiers {
		assert.Empty(t, tier, "tiers stay unset below four distinct values")
	}
}

func TestChurnRisk(t *testing.T) {
	b := NewBehaviorSegmenter(segmentconfig.Default())

	tests := []struct {
		days *int
		want contracts.ChurnRisk
	}{
		{intPtr(0), contracts.ChurnVeryLow},
		{intPtr(30), contracts.ChurnVeryLow}, // inclusive upper bound
		{intPtr(31), contracts.ChurnLow},
		{intPtr(60), contracts.ChurnLow},
		{intPtr(90), contracts.ChurnMedium},
		{intPtr(180), contracts.ChurnHigh},
		{intPtr(181), contracts.ChurnVeryHigh},
		{nil, contracts.ChurnVeryHigh}, // missing substitutes 365
	}

	for _, tt := range tests {
		c := contracts.CustomerRecord{CustomerID: "C", DaysSinceLastOrder: tt.days}
		assert.Equal(t, tt.want, b.ChurnRisk(&c), "days %v", tt.days)
	}
}

func TestLifecycleStage(t *testing.T) {
	b := NewBehaviorSegmenter(segmentconfig.Default())

	tests := []struct {
		days *int
		want contracts.LifecycleStage
	}{
		{intPtr(10), contracts.LifecycleActive},
		{intPtr(30), contracts.LifecycleActive},
		{intPtr(31), contracts.LifecycleWarm},
		{intPtr(90), contracts.LifecycleWarm},
		{intPtr(91), contracts.LifecycleCooling},
		{intPtr(180), contracts.LifecycleCooling},
		{intPtr(181), contracts.LifecycleDormant},
		{nil, contracts.LifecycleDormant},
	}

	for _, tt := range tests {
		c := contracts.CustomerRecord{CustomerID: "C", DaysSinceLastOrder: tt.days}
		assert.Equal(t, tt.want, b.LifecycleStage(&c), "days %v", tt.days)
	}
}

func TestIsChurned(t *testing.T) {
	b := NewBehaviorSegmenter(segmentconfig.Default())

	active := contracts.CustomerRecord{CustomerID: "A", DaysSinceLastOrder: intPtr(90)}
	churned := contracts.CustomerRecord{CustomerID: "B", DaysSinceLastOrder: intPtr(91)}
	unknown := contracts.CustomerRecord{CustomerID: "C"}

	assert.False(t, b.IsChurned(&active))
	assert.True(t, b.IsChurned(&churned))
	assert.True(t, b.IsChurned(&unknown), "missing recency counts as churned")
}
