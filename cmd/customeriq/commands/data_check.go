package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/lumehq/customeriq/backend/internal/store/sqlitesrc"
	"github.com/lumehq/customeriq/backend/pkg/config"
	"github.com/lumehq/customeriq/backend/pkg/database"
)

// dataCheckCmd represents the data check command
var dataCheckCmd = &cobra.Command{
	Use:   "data-check",
	Short: "Check data source state",
	Long: `Checks the configured data source before running analytics.

Checked:
- customer snapshot size and field coverage
- transaction count and covered date range
- persisted segmentation runs (Postgres only)

Example:
  go run ./cmd/customeriq data-check`,
	RunE: runDataCheck,
}

func init() {
	rootCmd.AddCommand(dataCheckCmd)
}

const checkRule = "──────────────────────────────────────────────────"

func runDataCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CustomerIQ Data Check ===")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Analytics.SQLitePath != "" {
		return checkSQLite(cfg.Analytics.SQLitePath)
	}
	return checkPostgres(cfg)
}

func checkSQLite(path string) error {
	fmt.Printf("SQLite source: %s\n%s\n", path, checkRule)

	src, err := sqlitesrc.Open(path)
	if err != nil {
		return fmt.Errorf("open sqlite source: %w", err)
	}
	defer src.Close()

	tables, err := src.Inspect(context.Background())
	if err != nil {
		return fmt.Errorf("inspect sqlite source: %w", err)
	}

	if len(tables) == 0 {
		fmt.Println("  no tables found")
		return nil
	}

	for _, t := range tables {
		fmt.Printf("  %-16s %8d rows  (%s)\n", t.Name, t.RowCount, strings.Join(t.Columns, ", "))
		if t.MinOrderDate != "" {
			fmt.Printf("  %-16s order_date %s .. %s\n", "", t.MinOrderDate, t.MaxOrderDate)
		}
	}
	return nil
}

func checkPostgres(cfg *config.Config) error {
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	checkCustomers(ctx, db.Pool)
	checkTransactions(ctx, db.Pool)
	checkSegmentRuns(ctx, db.Pool)

	return nil
}

func checkCustomers(ctx context.Context, pool *pgxpool.Pool) {
	fmt.Println("Customer snapshot (customers)")
	fmt.Println(checkRule)

	var total, withOrders, withDates int64
	pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total)
	pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE total_orders IS NOT NULL`).Scan(&withOrders)
	pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE last_order_date IS NOT NULL`).Scan(&withDates)

	fmt.Printf("  total: %d\n", total)
	if total > 0 {
		fmt.Printf("  with order counts: %d (%.1f%%)\n", withOrders, pct(withOrders, total))
		fmt.Printf("  with last order date: %d (%.1f%%)\n", withDates, pct(withDates, total))
	} else {
		fmt.Println("  no customers - segmentation will return an empty result")
	}
	fmt.Println()
}

func checkTransactions(ctx context.Context, pool *pgxpool.Pool) {
	fmt.Println("Transactions (transactions)")
	fmt.Println(checkRule)

	var total int64
	var customers int64
	pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total)
	pool.QueryRow(ctx, `SELECT COUNT(DISTINCT customer_id) FROM transactions`).Scan(&customers)

	fmt.Printf("  total: %d\n", total)
	fmt.Printf("  customers: %d\n", customers)

	if total > 0 {
		var minDate, maxDate time.Time
		pool.QueryRow(ctx, `SELECT MIN(order_date), MAX(order_date) FROM transactions WHERE order_date IS NOT NULL`).Scan(&minDate, &maxDate)
		fmt.Printf("  period: %s .. %s\n", minDate.Format("2006-01-02"), maxDate.Format("2006-01-02"))

		var undated int64
		pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE order_date IS NULL`).Scan(&undated)
		if undated > 0 {
			fmt.Printf("  missing order_date: %d (dropped from cohort and journey runs)\n", undated)
		}
	} else {
		fmt.Println("  no transactions - cohort and journey runs will return empty results")
	}
	fmt.Println()
}

func checkSegmentRuns(ctx context.Context, pool *pgxpool.Pool) {
	fmt.Println("Segmentation runs (segment_runs)")
	fmt.Println(checkRule)

	var total int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM segment_runs`).Scan(&total); err != nil {
		fmt.Println("  table missing - run `segment` once to create history")
		fmt.Println()
		return
	}

	fmt.Printf("  persisted assignments: %d\n", total)
	if total > 0 {
		var latest time.Time
		pool.QueryRow(ctx, `SELECT MAX(run_date) FROM segment_runs`).Scan(&latest)
		fmt.Printf("  latest run: %s\n", latest.Format("2006-01-02 15:04:05"))
	}
	fmt.Println()
}

func pct(part, total int64) float64 {
	return float64(part) / float64(total) * 100
}
