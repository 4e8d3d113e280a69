package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func setupSQLite(t *testing.T) *gorm.DB {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestGetTableColumns(t *testing.T) {
	db := setupSQLite(t)

	err := db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, Name TEXT NOT NULL, description TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_items")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	assert.Equal(t, "id", columns[0].Field)
	assert.Equal(t, "integer", columns[0].Type)
	assert.Equal(t, "PRI", columns[0].Key)
	assert.Equal(t, "Name", columns[1].Field, "column case is preserved")
	assert.Equal(t, "NO", columns[1].Null)
	assert.Equal(t, "text", columns[2].Type)
	assert.Equal(t, "YES", columns[2].Null)

	// PRAGMA table_info returns no rows for a missing table.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "INT(11)", "NO", "PRI", nil, "auto_increment").
		AddRow("Title", "VARCHAR(255)", "YES", "", nil, "")
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `products`")).WillReturnRows(rows)

	columns, err := GetTableColumns(db, "products")
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, "int(11)", columns[0].Type)
	assert.Equal(t, "Title", columns[1].Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPrimaryKey_SQLite(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, db.Exec("CREATE TABLE with_pk (code TEXT PRIMARY KEY, name TEXT)").Error)
	require.NoError(t, db.Exec("CREATE TABLE compound (a TEXT, b TEXT, PRIMARY KEY (b, a))").Error)
	require.NoError(t, db.Exec("CREATE TABLE no_pk (name TEXT)").Error)

	pk, err := GetPrimaryKey(ctx, db, "with_pk", "")
	require.NoError(t, err)
	assert.Equal(t, "code", pk)

	pk, err = GetPrimaryKey(ctx, db, "compound", "")
	require.NoError(t, err)
	assert.Equal(t, "b", pk)

	_, err = GetPrimaryKey(ctx, db, "no_pk", "")
	assert.ErrorIs(t, err, ErrNoPrimaryKey)
}

func TestGetPrimaryKey_MySQL(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SELECT k.column_name FROM information_schema.table_constraints t")

	t.Run("ExplicitSchema", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(query).
			WithArgs("shop", "products").
			WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("product_id"))

		pk, err := GetPrimaryKey(ctx, db, "products", "shop")
		require.NoError(t, err)
		assert.Equal(t, "product_id", pk)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CurrentDatabase", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT DATABASE()")).
			WillReturnRows(sqlmock.NewRows([]string{"DATABASE()"}).AddRow("shop"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT SCHEMA_NAME from Information_schema.SCHEMATA where SCHEMA_NAME LIKE ?")).
			WithArgs("shop%", "shop").
			WillReturnRows(sqlmock.NewRows([]string{"SCHEMA_NAME"}).AddRow("shop"))
		mock.ExpectQuery(query).
			WithArgs("shop", "products").
			WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))

		pk, err := GetPrimaryKey(ctx, db, "products", "")
		require.NoError(t, err)
		assert.Equal(t, "id", pk)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoPrimaryKey", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(query).
			WithArgs("shop", "logs").
			WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

		_, err := GetPrimaryKey(ctx, db, "logs", "shop")
		assert.ErrorIs(t, err, ErrNoPrimaryKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
