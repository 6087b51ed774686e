package contracts

import "time"

// CustomerRecord is one row of the customer snapshot handed to the engine.
// The engine never mutates it. Fields that can be NULL or unparseable in the
// source tables are pointers; nil means missing.
type CustomerRecord struct {
	CustomerID         string     `json:"customer_id"`
	TotalOrders        *int       `json:"total_orders"`
	TotalSpent         *float64   `json:"total_spent"`
	AvgOrderValue      *float64   `json:"avg_order_value"`
	DaysSinceLastOrder *int       `json:"days_since_last_order"`
	FirstOrderDate     *time.Time `json:"first_order_date"`
	LastOrderDate      *time.Time `json:"last_order_date"`
	LifetimeDays       *int       `json:"customer_lifetime_days"`
}

// EffectiveAvgOrderValue returns the average order value, deriving it from
// total_spent / total_orders when the source column is missing. The second
// return is false when no value can be derived at all.
func (c *CustomerRecord) EffectiveAvgOrderValue() (float64, bool) {
	if c.AvgOrderValue != nil {
		return *c.AvgOrderValue, true
	}
	if c.TotalSpent != nil && c.TotalOrders != nil && *c.TotalOrders > 0 {
		return *c.TotalSpent / float64(*c.TotalOrders), true
	}
	return 0, false
}

// HasDateAnomaly reports first_order_date > last_order_date. Such records
// are flagged for the caller, not rejected or clamped.
func (c *CustomerRecord) HasDateAnomaly() bool {
	if c.FirstOrderDate == nil || c.LastOrderDate == nil {
		return false
	}
	return c.FirstOrderDate.After(*c.LastOrderDate)
}
