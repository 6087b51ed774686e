package sqlitesrc

import (
	"context"
	"database/sql"
	"fmt"
)

// TableInfo describes one table inside the SQLite file.
type TableInfo struct {
	Name     string   `json:"name"`
	RowCount int64    `json:"row_count"`
	Columns  []string `json:"columns"`
	// MinOrderDate and MaxOrderDate are set only for tables carrying an
	// order_date column.
	MinOrderDate string `json:"min_order_date,omitempty"`
	MaxOrderDate string `json:"max_order_date,omitempty"`
}

// Inspect enumerates user tables with row counts, column names and, where an
// order_date column exists, the covered date range. Used by the data-check
// command to sanity check an export before running analytics on it.
func (s *Source) Inspect(ctx context.Context) ([]TableInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var tables []TableInfo
	for _, name := range names {
		info, err := s.inspectTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", name, err)
		}
		tables = append(tables, info)
	}
	return tables, nil
}

func (s *Source) inspectTable(ctx context.Context, name string) (TableInfo, error) {
	info := TableInfo{Name: name}

	cols, err := s.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, name))
	if err != nil {
		return info, err
	}
	defer cols.Close()

	hasOrderDate := false
	for cols.Next() {
		var (
			cid       int
			colName   string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := cols.Scan(&cid, &colName, &colType, &notNull, &dfltValue, &pk); err != nil {
			return info, err
		}
		info.Columns = append(info.Columns, colName)
		if colName == "order_date" {
			hasOrderDate = true
		}
	}
	if err := cols.Err(); err != nil {
		return info, err
	}

	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q`, name)).Scan(&info.RowCount); err != nil {
		return info, err
	}

	if hasOrderDate && info.RowCount > 0 {
		var min, max sql.NullString
		err := s.db.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT MIN(order_date), MAX(order_date) FROM %q`, name),
		).Scan(&min, &max)
		if err != nil {
			return info, err
		}
		if min.Valid {
			info.MinOrderDate = min.String
		}
		if max.Valid {
			info.MaxOrderDate = max.String
		}
	}

	return info, nil
}
