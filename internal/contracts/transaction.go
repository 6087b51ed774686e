package contracts

import "time"

// TransactionRecord is one order line from the transactions snapshot.
// A zero OrderDate marks a row whose source date could not be parsed; such
// rows are excluded from cohort and journey computations entirely.
type TransactionRecord struct {
	TransactionID  string    `json:"transaction_id"`
	CustomerID     string    `json:"customer_id"`
	OrderDate      time.Time `json:"order_date"`
	FinalAmountINR float64   `json:"final_amount_inr"`
	Category       string    `json:"category"`
}

// HasValidDate reports whether the order date was parseable.
func (t *TransactionRecord) HasValidDate() bool {
	return !t.OrderDate.IsZero()
}

// OrderMonth returns the order date truncated to calendar month (UTC).
func (t *TransactionRecord) OrderMonth() time.Time {
	return MonthOf(t.OrderDate)
}

// MonthOf truncates a timestamp to the first day of its calendar month in UTC.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween returns the whole-calendar-month difference between two
// timestamps, ignoring the day component. The result is negative when b is
// before a.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
