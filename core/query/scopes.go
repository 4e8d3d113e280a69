package query

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Now is the clock used for defaulted date parts.
var Now = time.Now

type datePart int

const (
	partYear datePart = iota
	partMonth
	partDay
)

// Year keeps rows whose column falls in year. A zero year means the current one.
func Year(column string, year int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		y, _, _ := resolveDate(0, 0, year)
		return wherePart(db, column, partYear, y)
	}
}

// Month keeps rows whose column falls in month of year. Zero arguments
// default to the current month and year.
func Month(column string, month, year int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		y, m, _ := resolveDate(0, month, year)
		db = wherePart(db, column, partMonth, m)
		return wherePart(db, column, partYear, y)
	}
}

// Day keeps rows whose column falls on the given date. Zero arguments default
// to today's day, month and year.
func Day(column string, day, month, year int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		y, m, d := resolveDate(day, month, year)
		db = wherePart(db, column, partDay, d)
		db = wherePart(db, column, partMonth, m)
		return wherePart(db, column, partYear, y)
	}
}

// resolveDate fills zero parts from Now at the time the scope is applied.
func resolveDate(day, month, year int) (int, int, int) {
	now := Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if day == 0 {
		day = now.Day()
	}
	return year, month, day
}

func wherePart(db *gorm.DB, column string, part datePart, value int) *gorm.DB {
	col := clause.Column{Name: column}

	switch db.Dialector.Name() {
	case "sqlite":
		format := map[datePart]string{partYear: "%Y", partMonth: "%m", partDay: "%d"}[part]
		return db.Where("CAST(strftime('"+format+"', ?) AS INTEGER) = ?", col, value)
	case "postgres":
		field := map[datePart]string{partYear: "YEAR", partMonth: "MONTH", partDay: "DAY"}[part]
		return db.Where("EXTRACT("+field+" FROM ?) = ?", col, value)
	default:
		fn := map[datePart]string{partYear: "YEAR", partMonth: "MONTH", partDay: "DAY"}[part]
		return db.Where(fn+"(?) = ?", col, value)
	}
}
