package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const sampleRows = 5

// sampledTables are dumped row by row after the table listing.
var sampledTables = []string{"user", "complaint", "repair", "replacement"}

type viewer struct {
	conn *gorm.DB
	out  io.Writer
}

// Dump prints every table with its columns, then the first rows of the
// sampled tables. A failing table is reported and the dump moves on; the
// collected failures are returned together.
func (v *viewer) Dump(ctx context.Context) error {
	conn := v.conn.WithContext(ctx)
	tables, err := conn.Migrator().GetTables()
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	sort.Strings(tables)

	fmt.Fprintf(v.out, "Tables (%d):\n", len(tables))
	var errs error
	for _, table := range tables {
		if err := v.describe(conn, table); err != nil {
			fmt.Fprintf(v.out, "  %s: error: %v\n", table, err)
			errs = multierr.Append(errs, fmt.Errorf("describe %s: %w", table, err))
		}
	}

	for _, table := range sampledTables {
		fmt.Fprintf(v.out, "\n%s (first %d rows):\n", table, sampleRows)
		if err := v.sample(conn, table); err != nil {
			fmt.Fprintf(v.out, "  error: %v\n", err)
			errs = multierr.Append(errs, fmt.Errorf("sample %s: %w", table, err))
		}
	}
	return errs
}

func (v *viewer) describe(conn *gorm.DB, table string) error {
	columns, err := conn.Migrator().ColumnTypes(table)
	if err != nil {
		return err
	}
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("%s %s", col.Name(), strings.ToLower(col.DatabaseTypeName())))
	}
	fmt.Fprintf(v.out, "  %s: %s\n", table, strings.Join(parts, ", "))
	return nil
}

func (v *viewer) sample(conn *gorm.DB, table string) error {
	if !conn.Migrator().HasTable(table) {
		return fmt.Errorf("table %q does not exist", table)
	}
	var rows []map[string]any
	if err := conn.Table(table).Order("id").Limit(sampleRows).Find(&rows).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(v.out, "  (empty)")
		return nil
	}
	for _, row := range rows {
		fmt.Fprintf(v.out, "  %s\n", formatRow(row))
	}
	return nil
}

// formatRow prints columns in name order, never the stored password hash.
func formatRow(row map[string]any) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		value := row[k]
		if k == "password" {
			value = "***"
		}
		if b, ok := value.([]byte); ok {
			value = string(b)
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, value))
	}
	return strings.Join(parts, " ")
}
