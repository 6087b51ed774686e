package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumehq/customeriq/backend/internal/contracts"
)

// TransactionRepository implements contracts.TransactionRepository over
// Postgres.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `transaction_id, customer_id, order_date, final_amount_inr, category`

// List returns up to limit transactions ordered by customer, date and
// transaction id. limit <= 0 disables the cap.
func (r *TransactionRepository) List(ctx context.Context, limit int) ([]contracts.TransactionRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		ORDER BY customer_id, order_date, transaction_id
	`, transactionColumns)
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListByDateRange returns transactions within [from, to].
func (r *TransactionRepository) ListByDateRange(ctx context.Context, from, to time.Time, limit int) ([]contracts.TransactionRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE order_date BETWEEN $1 AND $2
		ORDER BY customer_id, order_date, transaction_id
	`, transactionColumns)
	args := []interface{}{from, to}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions by range: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Count returns the total transaction count.
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	return count, err
}

type pgxRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanTransactions(rows pgxRows) ([]contracts.TransactionRecord, error) {
	var txns []contracts.TransactionRecord
	for rows.Next() {
		var (
			t         contracts.TransactionRecord
			orderDate sql.NullTime
			amount    sql.NullFloat64
			category  sql.NullString
		)
		if err := rows.Scan(&t.TransactionID, &t.CustomerID, &orderDate, &amount, &category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		// A NULL date leaves OrderDate zero; downstream builders exclude
		// such rows rather than defaulting them.
		if orderDate.Valid {
			t.OrderDate = orderDate.Time
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
