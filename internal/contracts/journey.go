package contracts

import "sort"

// CategoryCount is a category with its transaction count at one purchase
// sequence position.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// SequenceBreakdown reports what customers buy on their 1st, 2nd, ... Nth
// order, up to Horizon.
type SequenceBreakdown struct {
	Horizon int `json:"horizon"`

	// CategoryCounts maps order_sequence -> category -> transaction count.
	CategoryCounts map[int]map[string]int `json:"category_counts"`

	// AvgOrderValue maps order_sequence -> mean final amount.
	AvgOrderValue map[int]float64 `json:"avg_order_value"`

	// OrdersPerCustomer maps total order count -> number of customers.
	OrdersPerCustomer map[int]int `json:"orders_per_customer"`
}

// TopCategories returns the n most frequent categories at a sequence
// position, descending by count with alphabetical tie-break.
func (b *SequenceBreakdown) TopCategories(sequence, n int) []CategoryCount {
	counts := b.CategoryCounts[sequence]
	out := make([]CategoryCount, 0, len(counts))
	for cat, c := range counts {
		out = append(out, CategoryCount{Category: cat, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// SequenceResult wraps the breakdown with the explicit empty branch.
type SequenceResult struct {
	Status    ResultStatus       `json:"status"`
	Reason    string             `json:"reason,omitempty"`
	Breakdown *SequenceBreakdown `json:"breakdown,omitempty"`
}
