package journey

import (
	"context"
	"sort"

	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/segmentconfig"
	"github.com/lumehq/customeriq/backend/pkg/logger"
)

// Sequencer ranks each customer's transactions into a 1-based purchase
// sequence and reports what is bought at each position, up to a configured
// horizon.
type Sequencer struct {
	cfg    *segmentconfig.Config
	logger *logger.Logger
}

// NewSequencer creates a purchase sequencer.
func NewSequencer(cfg *segmentconfig.Config, log *logger.Logger) *Sequencer {
	return &Sequencer{cfg: cfg, logger: log}
}

// Build computes the sequence breakdown from a transaction snapshot. Rows
// with an unparseable date or an empty customer id are excluded. Per
// customer, transactions sort by order date ascending with transaction id
// as the tie-break, so same-timestamp orders rank deterministically.
func (s *Sequencer) Build(ctx context.Context, txns []contracts.TransactionRecord) *contracts.SequenceResult {
	valid := make([]contracts.TransactionRecord, 0, len(txns))
	for i := range txns {
		if txns[i].HasValidDate() && txns[i].CustomerID != "" {
			valid = append(valid, txns[i])
		}
	}

	if len(valid) == 0 {
		s.logger.Warn("No valid transactions for journey analysis")
		return &contracts.SequenceResult{
			Status: contracts.StatusEmpty,
			Reason: "no transactions with valid dates",
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		a, b := &valid[i], &valid[j]
		if a.CustomerID != b.CustomerID {
			return a.CustomerID < b.CustomerID
		}
		if !a.OrderDate.Equal(b.OrderDate) {
			return a.OrderDate.Before(b.OrderDate)
		}
		return a.TransactionID < b.TransactionID
	})

	horizon := s.cfg.Journey.Horizon
	breakdown := &contracts.SequenceBreakdown{
		Horizon:           horizon,
		CategoryCounts:    make(map[int]map[string]int),
		AvgOrderValue:     make(map[int]float64),
		OrdersPerCustomer: make(map[int]int),
	}

	amountSums := make(map[int]float64)
	amountCounts := make(map[int]int)

	seq := 0
	prevCustomer := ""
	for i := range valid {
		t := &valid[i]
		if t.CustomerID != prevCustomer {
			if prevCustomer != "" {
				breakdown.OrdersPerCustomer[seq]++
			}
			prevCustomer = t.CustomerID
			seq = 0
		}
		seq++

		if seq > horizon {
			continue
		}
		if breakdown.CategoryCounts[seq] == nil {
			breakdown.CategoryCounts[seq] = make(map[string]int)
		}
		breakdown.CategoryCounts[seq][t.Category]++
		amountSums[seq] += t.FinalAmountINR
		amountCounts[seq]++
	}
	breakdown.OrdersPerCustomer[seq]++

	for position, count := range amountCounts {
		breakdown.AvgOrderValue[position] = amountSums[position] / float64(count)
	}

	s.logger.WithFields(map[string]interface{}{
		"transactions": len(valid),
		"horizon":      horizon,
	}).Info("Purchase sequencing completed")

	return &contracts.SequenceResult{
		Status:    contracts.StatusOK,
		Breakdown: breakdown,
	}
}
