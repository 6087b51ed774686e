package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumehq/customeriq/backend/internal/contracts"
)

// CustomerRepository implements contracts.CustomerRepository over Postgres.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new customer repository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// List returns up to limit customer rows. limit <= 0 disables the cap.
func (r *CustomerRepository) List(ctx context.Context, limit int) ([]contracts.CustomerRecord, error) {
	query := `
		SELECT customer_id, total_orders, total_spent, avg_order_value,
		       days_since_last_order, first_order_date, last_order_date,
		       customer_lifetime_days
		FROM customers
		ORDER BY customer_id
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
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
			firstOrder   sql.NullTime
			lastOrder    sql.NullTime
			lifetimeDays sql.NullInt64
		)
		if err := rows.Scan(
			&c.CustomerID, &totalOrders, &totalSpent, &avgOrder,
			&daysSince, &firstOrder, &lastOrder, &lifetimeDays,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}

		c.TotalOrders = nullableInt(totalOrders)
		c.TotalSpent = nullableFloat(totalSpent)
		c.AvgOrderValue = nullableFloat(avgOrder)
		c.DaysSinceLastOrder = nullableInt(daysSince)
		c.FirstOrderDate = nullableTime(firstOrder)
		c.LastOrderDate = nullableTime(lastOrder)
		c.LifetimeDays = nullableInt(lifetimeDays)

		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Count returns the total customer count.
func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count)
	return count, err
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
