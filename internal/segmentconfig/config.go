package segmentconfig

// Config holds every tunable of the segmentation engine. The three
// dashboard variants of this logic drifted apart over time; all of them are
// now expressed as one config so a caller picks edges and labels instead of
// forking the code.
type Config struct {
	Meta     Meta     `yaml:"meta" json:"meta"`
	RFM      RFM      `yaml:"rfm" json:"rfm"`
	Behavior Behavior `yaml:"behavior" json:"behavior"`
	CLV      CLV      `yaml:"clv" json:"clv"`
	Churn    Churn    `yaml:"churn" json:"churn"`
	Cohort   Cohort   `yaml:"cohort" json:"cohort"`
	Journey  Journey  `yaml:"journey" json:"journey"`
	Sampling Sampling `yaml:"sampling" json:"sampling"`
}

// Meta identifies the parameter set.
type Meta struct {
	ProfileID string `yaml:"profile_id" json:"profile_id"`
	Version   string `yaml:"version" json:"version"`
}

// RFM controls quantile scoring and composite segment thresholds.
type RFM struct {
	Bins int `yaml:"bins" json:"bins"` // quantile groups per dimension

	// NeutralScore is assigned when a raw value is missing.
	NeutralScore int `yaml:"neutral_score" json:"neutral_score"`

	// Composite thresholds, evaluated highest first.
	ChampionsMin          int `yaml:"champions_min" json:"champions_min"`
	LoyalCustomersMin     int `yaml:"loyal_customers_min" json:"loyal_customers_min"`
	PotentialLoyalistsMin int `yaml:"potential_loyalists_min" json:"potential_loyalists_min"`
	AtRiskMin             int `yaml:"at_risk_min" json:"at_risk_min"`
}

// Behavior controls the fixed avg-order-value buckets. Edges are the lower
// bounds of Value, Premium and Luxury; intervals are closed on the left.
type Behavior struct {
	ValueMin   float64 `yaml:"value_min" json:"value_min"`
	PremiumMin float64 `yaml:"premium_min" json:"premium_min"`
	LuxuryMin  float64 `yaml:"luxury_min" json:"luxury_min"`
}

// CLV controls the total-spent quartile cut.
type CLV struct {
	Bins int `yaml:"bins" json:"bins"`
}

// Churn controls the days-since-last-order buckets. Each edge is an
// inclusive upper bound; the last bucket is open-ended.
type Churn struct {
	Edges []int `yaml:"edges" json:"edges"` // e.g. [30, 60, 90, 180]

	// MissingDays substitutes for an unknown recency before bucketing, so
	// customers with no known last order land in the highest-risk bucket.
	MissingDays int `yaml:"missing_days" json:"missing_days"`

	// ChurnedAfterDays is the flat churned/active cut.
	ChurnedAfterDays int `yaml:"churned_after_days" json:"churned_after_days"`
}

// Cohort controls the retention matrix builder.
type Cohort struct {
	// MaxElapsedMonths caps the matrix width; 0 means unbounded.
	MaxElapsedMonths int `yaml:"max_elapsed_months" json:"max_elapsed_months"`
}

// Journey controls purchase sequencing.
type Journey struct {
	Horizon       int `yaml:"horizon" json:"horizon"`               // sequence positions reported
	TopCategories int `yaml:"top_categories" json:"top_categories"` // categories per position
}

// Sampling bounds quantile-edge computation on large populations.
type Sampling struct {
	MaxPopulation int   `yaml:"max_population" json:"max_population"` // 0 disables the cap
	Seed          int64 `yaml:"seed" json:"seed"`
}

// Default returns the parameter set the production dashboards ran with.
func Default() *Config {
	return &Config{
		Meta: Meta{
			ProfileID: "ecommerce_v1",
			Version:   "1.0.0",
		},
		RFM: RFM{
			Bins:                  5,
			NeutralScore:          3,
			ChampionsMin:          13,
			LoyalCustomersMin:     10,
			PotentialLoyalistsMin: 8,
			AtRiskMin:             6,
		},
		Behavior: Behavior{
			ValueMin:   500,
			PremiumMin: 1500,
			LuxuryMin:  3000,
		},
		CLV: CLV{
			Bins: 4,
		},
		Churn: Churn{
			Edges:            []int{30, 60, 90, 180},
			MissingDays:      365,
			ChurnedAfterDays: 90,
		},
		Cohort: Cohort{
			MaxElapsedMonths: 0,
		},
		Journey: Journey{
			Horizon:       10,
			TopCategories: 10,
		},
		Sampling: Sampling{
			MaxPopulation: 5000,
			Seed:          42,
		},
	}
}
