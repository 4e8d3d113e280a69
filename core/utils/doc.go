// Package utils holds the small scalar helpers shared by the store adapter, the
// reconcile engine and the HTTP layer.
//
// Values read through database/sql arrive as whatever the driver prefers
// ([]byte from MySQL text columns, int64 from SQLite, time.Time with parseTime).
// The helpers here fold those onto a handful of Go types so that comparisons and
// report rendering behave the same on every dialect.
//
//   - LooseEqual: coercive equality used for diff detection ("1" == 1).
//   - ToString / ToInt / ToBool: lenient conversions for reports and flags.
package utils
