package segment

import (
	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/segmentconfig"
)

// labelOrder says how bin indexes map to scores for a dimension. Recency is
// the only dimension where a low raw value is good, so its labels descend.
type labelOrder int

const (
	ascendingLabels  labelOrder = iota // worst bin scores 1
	descendingLabels                   // worst bin scores bins
)

// RFMScorer maps raw recency/frequency/monetary values to 1..bins scores
// and the composite segment. Bin edges are recomputed from the current
// population on every call; there is no trained or persisted quantile model.
type RFMScorer struct {
	cfg     *segmentconfig.Config
	sampler Sampler
}

// NewRFMScorer creates a scorer for one parameter set.
func NewRFMScorer(cfg *segmentconfig.Config) *RFMScorer {
	return &RFMScorer{
		cfg: cfg,
		sampler: Sampler{
			MaxPopulation: cfg.Sampling.MaxPopulation,
			Seed:          cfg.Sampling.Seed,
		},
	}
}

// rfmScores carries the per-dimension scores for one customer. AllMissing
// marks customers whose three raw inputs were all absent; they keep neutral
// scores but degrade to the Unknown segment.
type rfmScores struct {
	Recency    int
	Frequency  int
	Monetary   int
	AllMissing bool
}

// Composite returns the summed RFM score.
func (s rfmScores) Composite() int {
	return s.Recency + s.Frequency + s.Monetary
}

// Score computes scores for the whole population. The three dimensions are
// binned independently; a customer missing one dimension keeps the neutral
// score there and stays in the output.
func (s *RFMScorer) Score(customers []contracts.CustomerRecord) []rfmScores {
	n := len(customers)

	recency := make([]float64, n)
	frequency := make([]float64, n)
	monetary := make([]float64, n)
	recencyOK := make([]bool, n)
	frequencyOK := make([]bool, n)
	monetaryOK := make([]bool, n)

	for i := range customers {
		c := &customers[i]
		if c.DaysSinceLastOrder != nil {
			recency[i] = float64(*c.DaysSinceLastOrder)
			recencyOK[i] = true
		}
		if c.TotalOrders != nil {
			frequency[i] = float64(*c.TotalOrders)
			frequencyOK[i] = true
		}
		if c.TotalSpent != nil {
			monetary[i] = *c.TotalSpent
			monetaryOK[i] = true
		}
	}

	rScores := s.scoreDimension(recency, recencyOK, descendingLabels)
	fScores := s.scoreDimension(frequency, frequencyOK, ascendingLabels)
	mScores := s.scoreDimension(monetary, monetaryOK, ascendingLabels)

	out := make([]rfmScores, n)
	for i := range out {
		out[i] = rfmScores{
			Recency:    rScores[i],
			Frequency:  fScores[i],
			Monetary:   mScores[i],
			AllMissing: !recencyOK[i] && !frequencyOK[i] && !monetaryOK[i],
		}
	}
	return out
}

// scoreDimension bins one dimension. At least bins distinct values gets a
// quantile cut (equal population); fewer falls back to equal-width bins over
// the observed range; a constant distribution lands everyone on the middle
// label. Missing values score neutral.
func (s *RFMScorer) scoreDimension(values []float64, present []bool, ord labelOrder) []int {
	bins := s.cfg.RFM.Bins
	neutral := s.cfg.RFM.NeutralScore

	scores := make([]int, len(values))
	for i := range scores {
		scores[i] = neutral
	}

	clean := make([]float64, 0, len(values))
	for i, v := range values {
		if present[i] {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return scores
	}

	var edges []float64
	if distinctCount(clean) >= bins {
		edges = quantileEdges(s.sampler.Pick(clean), bins)
	} else {
		min, max := minMax(clean)
		edges = equalWidthEdges(min, max, bins)
	}

	if len(edges) < 2 {
		// Constant distribution: middle label for everyone present.
		mid := s.labelFor(bins/2, bins, ord)
		for i := range values {
			if present[i] {
				scores[i] = mid
			}
		}
		return scores
	}

	for i, v := range values {
		if !present[i] {
			continue
		}
		scores[i] = s.labelFor(cutIndex(v, edges), bins, ord)
	}
	return scores
}

// labelFor maps a bin index to a score. When duplicate quantile boundaries
// collapse bins, indexes stay within the effective bin count, so the labels
// are consumed from the start of the defined order.
func (s *RFMScorer) labelFor(idx, bins int, ord labelOrder) int {
	if ord == descendingLabels {
		return bins - idx
	}
	return idx + 1
}

// SegmentFor maps a composite score to its segment, highest band first.
func (s *RFMScorer) SegmentFor(composite int) contracts.Segment {
	switch {
	case composite >= s.cfg.RFM.ChampionsMin:
		return contracts.SegmentChampions
	case composite >= s.cfg.RFM.LoyalCustomersMin:
		return contracts.SegmentLoyalCustomers
	case composite >= s.cfg.RFM.PotentialLoyalistsMin:
		return contracts.SegmentPotentialLoyalists
	case composite >= s.cfg.RFM.AtRiskMin:
		return contracts.SegmentAtRisk
	default:
		return contracts.SegmentLostCustomers
	}
}
