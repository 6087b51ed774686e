package sqlitesrc

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"customer_id", "total_orders", "total_spent", "avg_order_value",
		"days_since_last_order", "first_order_date", "last_order_date",
		"customer_lifetime_days",
	}).
		AddRow("C1", 10, 5000.0, 500.0, 12, "2023-01-15", "2024-06-01", 503).
		AddRow("C2", nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery("SELECT customer_id, total_orders").WillReturnRows(rows)

	src := NewFromDB(db)
	customers, err := src.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, customers, 2)

	c1 := customers[0]
	assert.Equal(t, "C1", c1.CustomerID)
	require.NotNil(t, c1.TotalOrders)
	assert.Equal(t, 10, *c1.TotalOrders)
	require.NotNil(t, c1.TotalSpent)
	assert.Equal(t, 5000.0, *c1.TotalSpent)
	require.NotNil(t, c1.FirstOrderDate)
	assert.Equal(t, 2023, c1.FirstOrderDate.Year())

	// NULL columns stay nil rather than defaulting to zero.
	c2 := customers[1]
	assert.Nil(t, c2.TotalOrders)
	assert.Nil(t, c2.TotalSpent)
	assert.Nil(t, c2.DaysSinceLastOrder)
	assert.Nil(t, c2.LastOrderDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_ListWithLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT customer_id, total_orders").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{
			"customer_id", "total_orders", "total_spent", "avg_order_value",
			"days_since_last_order", "first_order_date", "last_order_date",
			"customer_lifetime_days",
		}))

	src := NewFromDB(db)
	customers, err := src.List(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, customers)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionSource_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"transaction_id", "customer_id", "order_date", "final_amount_inr", "category",
	}).
		AddRow("T1", "C1", "2024-01-05 10:30:00", 1250.5, "Electronics").
		AddRow("T2", "C1", "not-a-date", 300.0, "Books").
		AddRow("T3", "C2", nil, 99.0, nil)

	mock.ExpectQuery("SELECT transaction_id, customer_id").WillReturnRows(rows)

	src := NewFromDB(db).Transactions()
	txns, err := src.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.True(t, txns[0].HasValidDate())
	assert.Equal(t, 1250.5, txns[0].FinalAmountINR)
	assert.Equal(t, "Electronics", txns[0].Category)

	// Unparseable and NULL dates come through as zero times, to be dropped
	// by the cohort and journey builders.
	assert.False(t, txns[1].HasValidDate())
	assert.False(t, txns[2].HasValidDate())
	assert.Empty(t, txns[2].Category)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	src := NewFromDB(db)
	count, err := src.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestSource_Inspect(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT name FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("transactions"))

	mock.ExpectQuery("PRAGMA table_info").
		WillReturnRows(sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(0, "transaction_id", "TEXT", 1, nil, 1).
			AddRow(1, "order_date", "TEXT", 0, nil, 0))

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(120))

	mock.ExpectQuery("SELECT MIN\\(order_date\\), MAX\\(order_date\\)").
		WillReturnRows(sqlmock.NewRows([]string{"min", "max"}).AddRow("2023-01-01", "2024-06-30"))

	src := NewFromDB(db)
	tables, err := src.Inspect(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 1)

	info := tables[0]
	assert.Equal(t, "transactions", info.Name)
	assert.Equal(t, int64(120), info.RowCount)
	assert.Equal(t, []string{"transaction_id", "order_date"}, info.Columns)
	assert.Equal(t, "2023-01-01", info.MinOrderDate)
	assert.Equal(t, "2024-06-30", info.MaxOrderDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}
