package database

import (
	"context"
	"errors"
	"testing"

	"dbkit/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableStore_Schema(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	store := NewTableStore(db, 0)

	require.NoError(t, db.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)").Error)

	exists, err := store.TableExists(ctx, "items")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.TableExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	has, err := store.ColumnExists(ctx, "items", "name")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.ColumnExists(ctx, "items", "label")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.AddNullableTextColumn(ctx, "items", "label"))
	require.NoError(t, store.AddNullableTextColumn(ctx, "items", "label"))

	cols, err := store.ListColumns(ctx, "items")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "label"}, cols)
}

func TestTableStore_Rows(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	store := NewTableStore(db, 2)

	require.NoError(t, db.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, sku TEXT, qty INTEGER)").Error)

	n, err := store.BulkInsert(ctx, "items", []reconcile.Row{
		{"sku": "a", "qty": 1},
		{"sku": "b", "qty": 2},
		{"sku": "c"},
		{"sku": "d", "qty": 4},
		{"sku": "e", "qty": 5},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	all, err := store.SelectAll(ctx, "items")
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "a", all[0]["sku"])
	assert.Nil(t, all[2]["qty"])

	some, err := store.SelectWhereIn(ctx, "items", "sku", []any{"b", "d", "zz"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, int64(2), some[0]["qty"])

	none, err := store.SelectWhereIn(ctx, "items", "sku", nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	changed, err := store.Update(ctx, "items", []reconcile.Filter{{Column: "sku", Value: "a"}}, reconcile.Row{"qty": 1})
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed, "unchanged rows are not counted")

	changed, err = store.Update(ctx, "items", []reconcile.Filter{{Column: "sku", Value: "a"}}, reconcile.Row{"qty": 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	changed, err = store.Update(ctx, "items", []reconcile.Filter{{Column: "sku", Value: "c"}}, reconcile.Row{"qty": 3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed, "NULL to value is a change")

	changed, err = store.Update(ctx, "items", []reconcile.Filter{{Column: "sku", Value: nil}}, reconcile.Row{"qty": 3})
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed)

	empty, err := store.BulkInsert(ctx, "items", nil)
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestTableStore_Transaction(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	store := NewTableStore(db, 0)

	require.NoError(t, db.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, sku TEXT)").Error)

	err := store.Transaction(ctx, func(tx *TableStore) error {
		if _, err := tx.BulkInsert(ctx, "items", []reconcile.Row{{"sku": "a"}}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	assert.EqualError(t, err, "abort")

	rows, err := store.SelectAll(ctx, "items")
	require.NoError(t, err)
	assert.Empty(t, rows, "insert rolled back")
}

func TestTableStore_UpdateMySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewTableStore(db, 0)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products` SET `name`=\\? WHERE `sku` = \\? AND .*NOT \\(`name` <=> \\?\\)").
		WithArgs("B", "A", "B").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := store.Update(context.Background(), "products",
		[]reconcile.Filter{{Column: "sku", Value: "A"}},
		reconcile.Row{"name": "B"},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableStore_ReconcileEndToEnd(t *testing.T) {
	ctx := context.Background()

	t.Run("InsertOnly", func(t *testing.T) {
		db := setupSQLite(t)
		store := NewTableStore(db, 0)
		require.NoError(t, db.Exec("CREATE TABLE base (id INTEGER PRIMARY KEY, x INTEGER)").Error)
		require.NoError(t, db.Exec("CREATE TABLE src (id INTEGER PRIMARY KEY, x INTEGER)").Error)
		require.NoError(t, db.Exec("INSERT INTO base (id, x) VALUES (1, 1)").Error)
		require.NoError(t, db.Exec("INSERT INTO src (id, x) VALUES (1, 1), (2, 5)").Error)

		r, err := reconcile.New(ctx, store, reconcile.Spec{
			BaseTable: "base", MergeTable: "src",
			Pivots: []reconcile.Pair{{Base: "id", Merge: "id"}},
		}, nil)
		require.NoError(t, err)
		require.NoError(t, r.Run(ctx))
		require.Len(t, r.Unmatched(), 1)

		outcome, err := reconcile.NewMerger(r).Merge(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), outcome.RowsUpdated)
		assert.Equal(t, int64(1), outcome.RowsInserted)
	})

	t.Run("MappedColumn", func(t *testing.T) {
		db := setupSQLite(t)
		store := NewTableStore(db, 0)
		require.NoError(t, db.Exec("CREATE TABLE base (id INTEGER PRIMARY KEY, name TEXT)").Error)
		require.NoError(t, db.Exec("CREATE TABLE src (id INTEGER PRIMARY KEY, remoteName TEXT)").Error)
		require.NoError(t, db.Exec("INSERT INTO base (id, name) VALUES (1, 'A')").Error)
		require.NoError(t, db.Exec("INSERT INTO src (id, remoteName) VALUES (1, 'hello')").Error)

		r, err := reconcile.New(ctx, store, reconcile.Spec{
			BaseTable: "base", MergeTable: "src",
			Pivots:  []reconcile.Pair{{Base: "id", Merge: "id"}},
			Columns: []reconcile.Pair{{Base: "localName", Merge: "remoteName"}},
		}, nil)
		require.NoError(t, err)
		require.NoError(t, r.Run(ctx))
		assert.Equal(t, []reconcile.Change{{New: "hello", Missing: true}}, r.Report()["localName"])

		outcome, err := reconcile.NewMerger(r).Merge(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"localName"}, outcome.ColumnsAdded)
		assert.Equal(t, int64(1), outcome.RowsUpdated)

		rows, err := store.SelectAll(ctx, "base")
		require.NoError(t, err)
		assert.Equal(t, "hello", rows[0]["localName"])

		require.NoError(t, r.Run(ctx))
		assert.Empty(t, r.Report())
	})

	t.Run("PrimaryKeyStripped", func(t *testing.T) {
		db := setupSQLite(t)
		store := NewTableStore(db, 0)
		require.NoError(t, db.Exec("CREATE TABLE base (id INTEGER PRIMARY KEY, code TEXT, v INTEGER)").Error)
		require.NoError(t, db.Exec("CREATE TABLE src (id INTEGER PRIMARY KEY, code TEXT, v INTEGER)").Error)
		require.NoError(t, db.Exec("INSERT INTO base (id, code, v) VALUES (10, 'A', 1)").Error)
		require.NoError(t, db.Exec("INSERT INTO src (id, code, v) VALUES (99, 'A', 2), (100, 'B', 3)").Error)

		r, err := reconcile.New(ctx, store, reconcile.Spec{
			BaseTable: "base", MergeTable: "src",
			Pivots: []reconcile.Pair{{Base: "code", Merge: "code"}},
		}, nil)
		require.NoError(t, err)

		outcome, err := reconcile.NewMerger(r).Merge(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), outcome.RowsUpdated)
		assert.Equal(t, int64(1), outcome.RowsInserted)

		rows, err := store.SelectAll(ctx, "base")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, int64(10), rows[0]["id"])
		assert.Equal(t, int64(2), rows[0]["v"])
		assert.Equal(t, "B", rows[1]["code"])
		assert.NotEqual(t, int64(100), rows[1]["id"])
	})
}
