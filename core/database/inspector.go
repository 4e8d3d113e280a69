package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoPrimaryKey is returned when a table has no primary key constraint.
var ErrNoPrimaryKey = errors.New("table has no primary key")

// ColumnInfo matches the output of SHOW COLUMNS.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
}

type sqliteColumn struct {
	Cid       int
	Name      string
	Type      string
	Notnull   int
	DfltValue *string
	Pk        int
}

func sqliteColumns(db *gorm.DB, tableName string) ([]sqliteColumn, error) {
	var cols []sqliteColumn
	if err := db.Raw("PRAGMA table_info(?)", clause.Table{Name: tableName}).Scan(&cols).Error; err != nil {
		return nil, err
	}
	return cols, nil
}

// GetTableColumns retrieves the column definitions for a given table in schema
// order. Column names keep their case; types are lowercased.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo
	if db.Dialector.Name() == "sqlite" {
		cols, err := sqliteColumns(db, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range cols {
			info := ColumnInfo{
				Field:   col.Name,
				Type:    strings.ToLower(col.Type),
				Null:    "YES",
				Default: col.DfltValue,
			}
			if col.Notnull == 1 {
				info.Null = "NO"
			}
			if col.Pk > 0 {
				info.Key = "PRI"
			}
			columns = append(columns, info)
		}
		return columns, nil
	}

	err := db.Raw("SHOW COLUMNS FROM ?", clause.Table{Name: tableName}).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
	}
	return columns, nil
}

// GetPrimaryKey returns the first primary-key column of table.
// On MySQL an empty schema means the connection's current database.
func GetPrimaryKey(ctx context.Context, db *gorm.DB, tableName, schema string) (string, error) {
	db = db.WithContext(ctx)

	if db.Dialector.Name() == "sqlite" {
		cols, err := sqliteColumns(db, tableName)
		if err != nil {
			return "", fmt.Errorf("failed to inspect table %s: %w", tableName, err)
		}
		best := ""
		bestPos := 0
		for _, col := range cols {
			if col.Pk > 0 && (bestPos == 0 || col.Pk < bestPos) {
				best, bestPos = col.Name, col.Pk
			}
		}
		if best == "" {
			return "", fmt.Errorf("%w: %s", ErrNoPrimaryKey, tableName)
		}
		return best, nil
	}

	if schema == "" {
		schema = db.Migrator().CurrentDatabase()
	}
	if schema == "" {
		return "", fmt.Errorf("no schema given and no database selected for table %s", tableName)
	}

	var names []string
	err := db.Raw(
		"SELECT k.column_name FROM information_schema.table_constraints t "+
			"JOIN information_schema.key_column_usage k USING (constraint_name, table_schema, table_name) "+
			"WHERE t.constraint_type = 'PRIMARY KEY' AND t.table_schema = ? AND t.table_name = ? "+
			"ORDER BY k.ordinal_position",
		schema, tableName,
	).Scan(&names).Error
	if err != nil {
		return "", fmt.Errorf("failed to look up primary key of %s.%s: %w", schema, tableName, err)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: %s.%s", ErrNoPrimaryKey, schema, tableName)
	}
	return names[0], nil
}
