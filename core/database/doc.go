// Package database handles database connections, schema inspection and the
// gorm-backed table store used by reconciliation.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to configure
// MySQL or SQLite connections from the application's configuration.
//
// # Connect
//
// Connect opens the configured driver. SQLite is limited to a single open
// connection so that ":memory:" databases are shared by every query.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns and GetPrimaryKey resolves its
// primary key, through PRAGMA table_info on SQLite and SHOW COLUMNS /
// information_schema on MySQL.
//
// # Table Store
//
// TableStore reads and writes tables as untyped rows. Update only touches rows
// whose values actually differ, so the returned count is the number of rows changed.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	store := database.NewTableStore(db, cfg.Database.BatchSize)
//	rows, err := store.SelectAll(ctx, "products")
package database
