package segmentconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := Validate(cfg); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}

	if cfg.RFM.Bins != 5 {
		t.Errorf("expected 5 bins, got %d", cfg.RFM.Bins)
	}
	if cfg.RFM.ChampionsMin != 13 || cfg.RFM.AtRiskMin != 6 {
		t.Errorf("unexpected thresholds: %+v", cfg.RFM)
	}
	if cfg.Behavior.ValueMin != 500 || cfg.Behavior.LuxuryMin != 3000 {
		t.Errorf("unexpected behavior edges: %+v", cfg.Behavior)
	}
	if len(cfg.Churn.Edges) != 4 || cfg.Churn.Edges[3] != 180 {
		t.Errorf("unexpected churn edges: %v", cfg.Churn.Edges)
	}
	if cfg.Sampling.MaxPopulation != 5000 || cfg.Sampling.Seed != 42 {
		t.Errorf("unexpected sampling: %+v", cfg.Sampling)
	}
}

func TestLoad(t *testing.T) {
	yaml := `
meta:
  profile_id: test_profile
  version: "2.0.0"
rfm:
  bins: 5
  neutral_score: 3
  champions_min: 13
  loyal_customers_min: 10
  potential_loyalists_min: 8
  at_risk_min: 6
behavior:
  value_min: 500
  premium_min: 1500
  luxury_min: 3000
clv:
  bins: 4
churn:
  edges: [30, 60, 90, 180]
  missing_days: 365
  churned_after_days: 90
cohort:
  max_elapsed_months: 24
journey:
  horizon: 10
  top_categories: 10
sampling:
  max_population: 5000
  seed: 42
`
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, raw, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(raw) == 0 {
		t.Error("expected raw yaml bytes")
	}

	if cfg.Meta.ProfileID != "test_profile" {
		t.Errorf("expected profile_id=test_profile, got %s", cfg.Meta.ProfileID)
	}
	if cfg.Cohort.MaxElapsedMonths != 24 {
		t.Errorf("expected max_elapsed_months=24, got %d", cfg.Cohort.MaxElapsedMonths)
	}
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	yaml := `
meta:
  profile_id: test
  typo_field: oops
`
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Load(path); err == nil {
		t.Error("expected unknown field to fail decoding")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing profile id", func(c *Config) { c.Meta.ProfileID = "" }},
		{"bins too small", func(c *Config) { c.RFM.Bins = 1 }},
		{"neutral out of range", func(c *Config) { c.RFM.NeutralScore = 9 }},
		{"thresholds not descending", func(c *Config) { c.RFM.LoyalCustomersMin = 14 }},
		{"threshold above max", func(c *Config) { c.RFM.ChampionsMin = 16 }},
		{"behavior edges unordered", func(c *Config) { c.Behavior.PremiumMin = 400 }},
		{"clv bins wrong", func(c *Config) { c.CLV.Bins = 5 }},
		{"too few churn edges", func(c *Config) { c.Churn.Edges = []int{30, 60} }},
		{"churn edges unordered", func(c *Config) { c.Churn.Edges = []int{30, 20, 90, 180} }},
		{"missing days too low", func(c *Config) { c.Churn.MissingDays = 100 }},
		{"horizon zero", func(c *Config) { c.Journey.Horizon = 0 }},
		{"sample below bins", func(c *Config) { c.Sampling.MaxPopulation = 3 }},
		{"sample cap negative", func(c *Config) { c.Sampling.MaxPopulation = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateUncappedSampling(t *testing.T) {
	// Zero means no sampling cap, matching how the sampler reads the field.
	cfg := Default()
	cfg.Sampling.MaxPopulation = 0

	if err := Validate(cfg); err != nil {
		t.Errorf("expected uncapped sampling to validate, got %v", err)
	}
}

func TestHash(t *testing.T) {
	cfg := Default()

	hash, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	hash2, _ := Hash(cfg)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}

	cfg.RFM.ChampionsMin = 14
	changed, _ := Hash(cfg)
	if changed == hash {
		t.Error("hash must change with parameters")
	}
}
