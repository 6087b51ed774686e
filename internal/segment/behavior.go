package segment

import (
	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/segmentconfig"
)

// BehaviorSegmenter derives the coarse marketing buckets that do not depend
// on RFM: fixed order-value tiers, spend quartile tiers and churn-risk
// buckets.
type BehaviorSegmenter struct {
	cfg     *segmentconfig.Config
	sampler Sampler
}

// NewBehaviorSegmenter creates a segmenter for one parameter set.
func NewBehaviorSegmenter(cfg *segmentconfig.Config) *BehaviorSegmenter {
	return &BehaviorSegmenter{
		cfg: cfg,
		sampler: Sampler{
			MaxPopulation: cfg.Sampling.MaxPopulation,
			Seed:          cfg.Sampling.Seed,
		},
	}
}

// BehaviorSegment buckets a customer by average order value with fixed,
// left-closed edges. A missing value counts as zero, so unknown customers
// land in Budget.
func (b *BehaviorSegmenter) BehaviorSegment(c *contracts.CustomerRecord) contracts.BehaviorSegment {
	avg, ok := c.EffectiveAvgOrderValue()
	if !ok {
		avg = 0
	}
	switch {
	case avg >= b.cfg.Behavior.LuxuryMin:
		return contracts.BehaviorLuxury
	case avg >= b.cfg.Behavior.PremiumMin:
		return contracts.BehaviorPremium
	case avg >= b.cfg.Behavior.ValueMin:
		return contracts.BehaviorValue
	default:
		return contracts.BehaviorBudget
	}
}

// CLVTiers cuts total_spent into population quartiles, ascending Low CLV
// through VIP. When the population cannot form four distinct quartile bins
// the tiers are left unset, which callers treat as "insufficient data"
// rather than an error.
func (b *BehaviorSegmenter) CLVTiers(customers []contracts.CustomerRecord) []contracts.CLVTier {
	tiers := make([]contracts.CLVTier, len(customers))

	spent := make([]float64, len(customers))
	for i := range customers {
		if customers[i].TotalSpent != nil {
			spent[i] = *customers[i].TotalSpent
		}
	}

	bins := b.cfg.CLV.Bins
	if distinctCount(spent) < bins {
		return tiers
	}

	edges := quantileEdges(b.sampler.Pick(spent), bins)
	if len(edges)-1 < bins {
		// Duplicate quartile boundaries: not enough spread for 4 tiers.
		return tiers
	}

	labels := []contracts.CLVTier{contracts.CLVLow, contracts.CLVMedium, contracts.CLVHigh, contracts.CLVVIP}
	for i, v := range spent {
		tiers[i] = labels[cutIndex(v, edges)]
	}
	return tiers
}

// ChurnRisk buckets days_since_last_order by the configured inclusive upper
// edges. A missing value substitutes the configured stand-in (365 by
// default), so customers with unknown recency are conservatively treated as
// the highest risk.
func (b *BehaviorSegmenter) ChurnRisk(c *contracts.CustomerRecord) contracts.ChurnRisk {
	days := b.daysSinceLastOrder(c)
	labels := []contracts.ChurnRisk{
		contracts.ChurnVeryLow,
		contracts.ChurnLow,
		contracts.ChurnMedium,
		contracts.ChurnHigh,
		contracts.ChurnVeryHigh,
	}
	for i, edge := range b.cfg.Churn.Edges {
		if days <= edge {
			return labels[i]
		}
	}
	return labels[len(labels)-1]
}

// LifecycleStage maps recency onto the lifecycle ladder used by the
// retention playbook: Active within the first churn edge, Warm within the
// third, Cooling within the fourth, Dormant beyond.
func (b *BehaviorSegmenter) LifecycleStage(c *contracts.CustomerRecord) contracts.LifecycleStage {
	days := b.daysSinceLastOrder(c)
	edges := b.cfg.Churn.Edges
	switch {
	case days <= edges[0]:
		return contracts.LifecycleActive
	case days <= edges[2]:
		return contracts.LifecycleWarm
	case days <= edges[3]:
		return contracts.LifecycleCooling
	default:
		return contracts.LifecycleDormant
	}
}

// IsChurned applies the flat churned/active cut (90 days by default).
func (b *BehaviorSegmenter) IsChurned(c *contracts.CustomerRecord) bool {
	return b.daysSinceLastOrder(c) > b.cfg.Churn.ChurnedAfterDays
}

func (b *BehaviorSegmenter) daysSinceLastOrder(c *contracts.CustomerRecord) int {
	if c.DaysSinceLastOrder == nil {
		return b.cfg.Churn.MissingDays
	}
	return *c.DaysSinceLastOrder
}
