// Package query builds gorm queries from declarative filter maps and provides
// date scopes.
//
// A filter map is keyed by either a comparison operator or a null sentinel:
//
//	{
//	    "=":       {"status": "active", "owner_id": "`manager_id`"},
//	    ">=":      {"price": 10},
//	    "null":    ["deleted_at"],
//	    "notNull": ["published_at"],
//	}
//
// Operators take an object of column/value comparisons. Sentinels ("null",
// "NULL", "notNull") take a list of columns. Values are bound as parameters; a
// backtick-quoted value names another column.
//
// Date scopes (Year, Month, Day) filter a date column on its calendar parts and
// default missing parts to the current date.
package query
