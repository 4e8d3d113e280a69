package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"dbkit/core/reconcile"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultBatchSize is used when no batch size is configured.
const DefaultBatchSize = 500

// TableStore implements reconcile.TableStore on a gorm connection.
type TableStore struct {
	db        *gorm.DB
	batchSize int
}

var _ reconcile.TableStore = (*TableStore)(nil)

// NewTableStore wraps db. A non-positive batchSize means DefaultBatchSize.
func NewTableStore(db *gorm.DB, batchSize int) *TableStore {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &TableStore{db: db, batchSize: batchSize}
}

// Transaction runs fn with a store bound to a single transaction. The
// transaction is rolled back when fn returns an error or panics.
func (s *TableStore) Transaction(ctx context.Context, fn func(tx *TableStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TableStore{db: tx, batchSize: s.batchSize})
	})
}

func (s *TableStore) TableExists(ctx context.Context, table string) (bool, error) {
	return s.db.WithContext(ctx).Migrator().HasTable(table), nil
}

func (s *TableStore) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	return s.db.WithContext(ctx).Migrator().HasColumn(table, column), nil
}

func (s *TableStore) ListColumns(ctx context.Context, table string) ([]string, error) {
	columns, err := GetTableColumns(s.db.WithContext(ctx), table)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(columns))
	for _, col := range columns {
		names = append(names, col.Field)
	}
	return names, nil
}

func (s *TableStore) AddNullableTextColumn(ctx context.Context, table, column string) error {
	db := s.db.WithContext(ctx)
	if db.Migrator().HasColumn(table, column) {
		return nil
	}
	return db.Exec("ALTER TABLE ? ADD COLUMN ? TEXT NULL", clause.Table{Name: table}, clause.Column{Name: column}).Error
}

func (s *TableStore) SelectAll(ctx context.Context, table string) ([]reconcile.Row, error) {
	rows, err := s.db.WithContext(ctx).Table(table).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return scanRows(rows)
}

func (s *TableStore) SelectWhereIn(ctx context.Context, table, column string, values []any) ([]reconcile.Row, error) {
	if len(values) == 0 {
		return []reconcile.Row{}, nil
	}
	rows, err := s.db.WithContext(ctx).Table(table).
		Where(clause.IN{Column: clause.Column{Name: column}, Values: values}).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return scanRows(rows)
}

// Update writes payload to the rows selected by filters. Only rows where at
// least one payload column differs are touched, so the count is the number of
// rows actually changed on every dialect.
func (s *TableStore) Update(ctx context.Context, table string, filters []reconcile.Filter, payload reconcile.Row) (int64, error) {
	if len(payload) == 0 {
		return 0, nil
	}

	tx := s.db.WithContext(ctx).Table(table)
	for _, f := range filters {
		if f.Value == nil {
			// IN (NULL) never matches.
			return 0, nil
		}
		tx = tx.Where(clause.IN{Column: clause.Column{Name: f.Column}, Values: []interface{}{f.Value}})
	}

	expr, args := s.differs(payload)
	tx = tx.Where(expr, args...)

	result := tx.Updates(map[string]interface{}(payload))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// differs builds "(a differs from ? OR b differs from ? ...)" with a null-safe
// comparison for the current dialect.
func (s *TableStore) differs(payload reconcile.Row) (string, []interface{}) {
	var pattern string
	switch s.db.Dialector.Name() {
	case "mysql":
		pattern = "NOT (? <=> ?)"
	case "postgres":
		pattern = "? IS DISTINCT FROM ?"
	default:
		pattern = "? IS NOT ?"
	}

	cols := make([]string, 0, len(payload))
	for col := range payload {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	parts := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)*2)
	for _, col := range cols {
		parts = append(parts, pattern)
		args = append(args, clause.Column{Name: col}, payload[col])
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func (s *TableStore) BulkInsert(ctx context.Context, table string, rows []reconcile.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	values := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, map[string]interface{}(row))
	}

	result := s.db.WithContext(ctx).Table(table).CreateInBatches(values, s.batchSize)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// scanRows reads every row into a column-keyed map. Driver byte slices are
// converted to strings so values compare and serialise naturally.
func scanRows(rows *sql.Rows) ([]reconcile.Row, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	out := make([]reconcile.Row, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(reconcile.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
