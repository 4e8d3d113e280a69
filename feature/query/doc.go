// Package query exposes dynamic table queries over HTTP.
//
// POST /query/{table} takes a filter map as its JSON body, for example
//
//	{"=": {"status": "paid"}, "notNull": ["shipped_at"]}
//
// and optional date_column, year, month, day and limit query parameters.
package query
