package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrTableNotFound is returned when the queried table does not exist.
	ErrTableNotFound = errors.New("table not found")
	// ErrInvalidOperator is returned for an operator outside the allow-list.
	ErrInvalidOperator = errors.New("invalid operator")
	// ErrInvalidCondition is returned when a condition has the wrong shape.
	ErrInvalidCondition = errors.New("invalid condition")
)

// Null sentinels.
const (
	Null    = "null"
	NotNull = "notNull"
)

var operators = map[string]string{
	"=":        "=",
	"!=":       "<>",
	"<>":       "<>",
	"<":        "<",
	"<=":       "<=",
	">":        ">",
	">=":       ">=",
	"like":     "LIKE",
	"not like": "NOT LIKE",
}

// Comparison is one "left <op> right" term.
type Comparison struct {
	Column string
	Value  any
}

// Condition is one entry of a dynamic query: either an operator applied to a
// set of comparisons, or a null sentinel applied to a list of columns.
type Condition struct {
	Operator    string
	Comparisons []Comparison
	Columns     []string
}

// IsSentinel reports whether the condition is a null check.
func (c Condition) IsSentinel() bool {
	return isSentinel(c.Operator)
}

func isSentinel(op string) bool {
	return op == Null || op == strings.ToUpper(Null) || op == NotNull
}

func sqlOperator(op string) (string, error) {
	if sql, ok := operators[strings.ToLower(strings.TrimSpace(op))]; ok {
		return sql, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOperator, op)
}

// ParseConditions converts a decoded filter map into ordered conditions.
// Associative values become comparisons and lists become sentinel column lists.
func ParseConditions(raw map[string]any) ([]Condition, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]Condition, 0, len(keys))
	for _, key := range keys {
		switch v := raw[key].(type) {
		case map[string]any:
			if isSentinel(key) {
				return nil, fmt.Errorf("%w: %q expects a list of columns", ErrInvalidCondition, key)
			}
			if _, err := sqlOperator(key); err != nil {
				return nil, err
			}
			cols := make([]string, 0, len(v))
			for col := range v {
				cols = append(cols, col)
			}
			sort.Strings(cols)
			cond := Condition{Operator: key}
			for _, col := range cols {
				cond.Comparisons = append(cond.Comparisons, Comparison{Column: col, Value: v[col]})
			}
			conds = append(conds, cond)
		case []any:
			if !isSentinel(key) {
				return nil, fmt.Errorf("%w: %q expects an object of comparisons", ErrInvalidCondition, key)
			}
			cond := Condition{Operator: key}
			for _, item := range v {
				col, ok := item.(string)
				if !ok || col == "" {
					return nil, fmt.Errorf("%w: %q columns must be names", ErrInvalidCondition, key)
				}
				cond.Columns = append(cond.Columns, col)
			}
			conds = append(conds, cond)
		case []string:
			if !isSentinel(key) {
				return nil, fmt.Errorf("%w: %q expects an object of comparisons", ErrInvalidCondition, key)
			}
			conds = append(conds, Condition{Operator: key, Columns: append([]string(nil), v...)})
		default:
			return nil, fmt.Errorf("%w: unsupported value for %q", ErrInvalidCondition, key)
		}
	}
	return conds, nil
}

// Dynamic returns a query on table filtered by conds, in order.
// The table must exist.
func Dynamic(ctx context.Context, db *gorm.DB, table string, conds []Condition) (*gorm.DB, error) {
	if !db.WithContext(ctx).Migrator().HasTable(table) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	tx := db.WithContext(ctx).Table(table)
	for _, cond := range conds {
		var err error
		tx, err = apply(tx, cond)
		if err != nil {
			return nil, err
		}
	}
	return tx, nil
}

func apply(tx *gorm.DB, cond Condition) (*gorm.DB, error) {
	if cond.IsSentinel() {
		check := "IS NULL"
		if cond.Operator == NotNull {
			check = "IS NOT NULL"
		}
		for _, col := range cond.Columns {
			tx = tx.Where("? "+check, clause.Column{Name: col})
		}
		return tx, nil
	}

	op, err := sqlOperator(cond.Operator)
	if err != nil {
		return nil, err
	}
	for _, cmp := range cond.Comparisons {
		tx = tx.Where("? "+op+" ?", clause.Column{Name: cmp.Column}, operand(cmp.Value))
	}
	return tx, nil
}

// operand turns a backtick-quoted string into a column reference.
func operand(v any) any {
	s, ok := v.(string)
	if ok && len(s) > 2 && strings.HasPrefix(s, "`") && strings.HasSuffix(s, "`") {
		return clause.Column{Name: s[1 : len(s)-1]}
	}
	return v
}

// Rows runs tx and returns every row as a column-keyed map. A positive limit
// caps the number of rows.
func Rows(tx *gorm.DB, limit int) ([]map[string]any, error) {
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	rows, err := tx.Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	out := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(map[string]any, len(columns))
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
