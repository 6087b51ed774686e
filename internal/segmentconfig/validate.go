package segmentconfig

import "fmt"

// ValidationError reports a parameter constraint violation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints. A failing config never reaches
// the engine; the engine additionally treats an invalid config at scoring
// time as the trigger for its degraded path.
func Validate(cfg *Config) error {
	if cfg.Meta.ProfileID == "" {
		return ValidationError{"meta.profile_id", "required"}
	}

	// RFM
	if cfg.RFM.Bins < 2 {
		return ValidationError{"rfm.bins", "must be >= 2"}
	}
	if cfg.RFM.NeutralScore < 1 || cfg.RFM.NeutralScore > cfg.RFM.Bins {
		return ValidationError{"rfm.neutral_score", fmt.Sprintf("must be in [1, %d]", cfg.RFM.Bins)}
	}
	maxComposite := cfg.RFM.Bins * 3
	thresholds := []struct {
		field string
		value int
	}{
		{"rfm.champions_min", cfg.RFM.ChampionsMin},
		{"rfm.loyal_customers_min", cfg.RFM.LoyalCustomersMin},
		{"rfm.potential_loyalists_min", cfg.RFM.PotentialLoyalistsMin},
		{"rfm.at_risk_min", cfg.RFM.AtRiskMin},
	}
	prev := maxComposite + 1
	for _, t := range thresholds {
		if t.value < 3 || t.value > maxComposite {
			return ValidationError{t.field, fmt.Sprintf("must be in [3, %d]", maxComposite)}
		}
		if t.value >= prev {
			return ValidationError{t.field, "thresholds must be strictly descending"}
		}
		prev = t.value
	}

	// Behavior
	if cfg.Behavior.ValueMin <= 0 {
		return ValidationError{"behavior.value_min", "must be > 0"}
	}
	if cfg.Behavior.PremiumMin <= cfg.Behavior.ValueMin {
		return ValidationError{"behavior.premium_min", "must be > value_min"}
	}
	if cfg.Behavior.LuxuryMin <= cfg.Behavior.PremiumMin {
		return ValidationError{"behavior.luxury_min", "must be > premium_min"}
	}

	// CLV
	if cfg.CLV.Bins != 4 {
		return ValidationError{"clv.bins", "must be 4 (quartile tiers)"}
	}

	// Churn
	if len(cfg.Churn.Edges) != 4 {
		return ValidationError{"churn.edges", "exactly 4 edges required (5 risk buckets)"}
	}
	for i, edge := range cfg.Churn.Edges {
		if edge <= 0 {
			return ValidationError{"churn.edges", "edges must be > 0"}
		}
		if i > 0 && edge <= cfg.Churn.Edges[i-1] {
			return ValidationError{"churn.edges", "edges must be strictly ascending"}
		}
	}
	if cfg.Churn.MissingDays <= cfg.Churn.Edges[len(cfg.Churn.Edges)-1] {
		return ValidationError{"churn.missing_days", "must exceed the last edge"}
	}
	if cfg.Churn.ChurnedAfterDays <= 0 {
		return ValidationError{"churn.churned_after_days", "must be > 0"}
	}

	// Cohort
	if cfg.Cohort.MaxElapsedMonths < 0 {
		return ValidationError{"cohort.max_elapsed_months", "must be >= 0"}
	}

	// Journey
	if cfg.Journey.Horizon < 1 {
		return ValidationError{"journey.horizon", "must be >= 1"}
	}
	if cfg.Journey.TopCategories < 1 {
		return ValidationError{"journey.top_categories", "must be >= 1"}
	}

	// Sampling. Zero disables the cap; a positive cap must cover at least
	// one row per bin.
	if cfg.Sampling.MaxPopulation < 0 {
		return ValidationError{"sampling.max_population", "must be >= 0"}
	}
	if cfg.Sampling.MaxPopulation > 0 && cfg.Sampling.MaxPopulation < cfg.RFM.Bins {
		return ValidationError{"sampling.max_population", "must cover at least one row per bin"}
	}

	return nil
}
