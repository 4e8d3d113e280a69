package reconcile

import "context"

// TableStore defines the relational operations the reconcile engine needs.
// The engine never talks to a database directly; core/database provides the
// gorm-backed implementation and tests use an in-memory one.
type TableStore interface {
	// TableExists reports whether the named table exists.
	TableExists(ctx context.Context, table string) (bool, error)

	// ColumnExists reports whether table has the given column.
	ColumnExists(ctx context.Context, table, column string) (bool, error)

	// ListColumns returns the column names of table in schema order.
	ListColumns(ctx context.Context, table string) ([]string, error)

	// AddNullableTextColumn adds a nullable TEXT column.
	// It must be a no-op when the column already exists.
	AddNullableTextColumn(ctx context.Context, table, column string) error

	// SelectAll loads every row of table in storage order.
	SelectAll(ctx context.Context, table string) ([]Row, error)

	// SelectWhereIn loads the rows of table whose column value is one of values.
	SelectWhereIn(ctx context.Context, table, column string, values []any) ([]Row, error)

	// Update writes payload to every row matching all filters and returns the
	// number of rows whose stored values actually changed.
	Update(ctx context.Context, table string, filters []Filter, payload Row) (int64, error)

	// BulkInsert inserts rows in a single statement (or store-defined batches)
	// and returns the number of rows inserted.
	BulkInsert(ctx context.Context, table string, rows []Row) (int64, error)
}

// Filter restricts an update to rows whose Column holds Value.
type Filter struct {
	Column string
	Value  any
}
