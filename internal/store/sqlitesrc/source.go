// Package sqlitesrc reads customer and transaction snapshots from a local
// SQLite analytics export, for offline runs without a Postgres instance.
package sqlitesrc

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lumehq/customeriq/backend/internal/contracts"
)

// Source is a read-only data source over a SQLite file. It implements the
// same repository contracts as the Postgres store.
type Source struct {
	db *sql.DB
}

// Open opens the SQLite file and verifies it is reachable.
func Open(path string) (*Source, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &Source{db: db}, nil
}

// NewFromDB wraps an existing handle; used by tests.
func NewFromDB(db *sql.DB) *Source {
	return &Source{db: db}
}

// Close closes the underlying handle.
func (s *Source) Close() error {
	return s.db.Close()
}

// List returns up to limit customer rows. limit <= 0 disables the cap.
func (s *Source) List(ctx context.Context, limit int) ([]contracts.CustomerRecord, error) {
	query := `
		SELECT customer_id, total_orders, total_spent, avg_order_value,
		       days_since_last_order, first_order_date, last_order_date,
		       customer_lifetime_days
		FROM customers
		ORDER BY customer_id
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []contracts.CustomerRecord
	for rows.Next() {
		var (
			c            contracts.CustomerRecord
			totalOrders  sql.NullInt64
			totalSpent   sql.NullFloat64
			avgOrder     sql.NullFloat64
			daysSince    sql.NullInt64
			firstOrder   sql.NullString
			lastOrder    sql.NullString
			lifetimeDays sql.NullInt64
		)
		if err := rows.Scan(
			&c.CustomerID, &totalOrders, &totalSpent, &avgOrder,
			&daysSince, &firstOrder, &lastOrder, &lifetimeDays,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}

		if totalOrders.Valid {
			v := int(totalOrders.Int64)
			c.TotalOrders = &v
		}
		if totalSpent.Valid {
			v := totalSpent.Float64
			c.TotalSpent = &v
		}
		if avgOrder.Valid {
			v := avgOrder.Float64
			c.AvgOrderValue = &v
		}
		if daysSince.Valid {
			v := int(daysSince.Int64)
			c.DaysSinceLastOrder = &v
		}
		if t, ok := parseDate(firstOrder); ok {
			c.FirstOrderDate = &t
		}
		if t, ok := parseDate(lastOrder); ok {
			c.LastOrderDate = &t
		}
		if lifetimeDays.Valid {
			v := int(lifetimeDays.Int64)
			c.LifetimeDays = &v
		}

		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Count returns the total customer count.
func (s *Source) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count)
	return count, err
}

// Transactions returns a transaction view over the same file.
func (s *Source) Transactions() *TransactionSource {
	return &TransactionSource{db: s.db}
}

// TransactionSource implements contracts.TransactionRepository over the
// SQLite file.
type TransactionSource struct {
	db *sql.DB
}

// List returns up to limit transactions ordered by customer, date and
// transaction id. limit <= 0 disables the cap.
func (s *TransactionSource) List(ctx context.Context, limit int) ([]contracts.TransactionRecord, error) {
	query := `
		SELECT transaction_id, customer_id, order_date, final_amount_inr, category
		FROM transactions
		ORDER BY customer_id, order_date, transaction_id
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// ListByDateRange returns transactions within [from, to].
func (s *TransactionSource) ListByDateRange(ctx context.Context, from, to time.Time, limit int) ([]contracts.TransactionRecord, error) {
	query := `
		SELECT transaction_id, customer_id, order_date, final_amount_inr, category
		FROM transactions
		WHERE order_date BETWEEN ? AND ?
		ORDER BY customer_id, order_date, transaction_id
	`
	args := []interface{}{from.Format("2006-01-02"), to.Format("2006-01-02")}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// Count returns the total transaction count.
func (s *TransactionSource) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	return count, err
}

func (s *TransactionSource) query(ctx context.Context, query string, args ...interface{}) ([]contracts.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []contracts.TransactionRecord
	for rows.Next() {
		var (
			t         contracts.TransactionRecord
			orderDate sql.NullString
			amount    sql.NullFloat64
			category  sql.NullString
		)
		if err := rows.Scan(&t.TransactionID, &t.CustomerID, &orderDate, &amount, &category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		// Unparseable dates leave OrderDate zero; downstream builders drop
		// such rows from cohort and journey computations.
		if parsed, ok := parseDate(orderDate); ok {
			t.OrderDate = parsed
		}
		if amount.Valid {
			t.FinalAmountINR = amount.Float64
		}
		if category.Valid {
			t.Category = category.String
		}

		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// dateLayouts covers the formats seen in dashboard exports.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(v sql.NullString) (time.Time, bool) {
	if !v.Valid || v.String == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v.String); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
