package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrTableNotFound is returned when a configured table does not exist.
	ErrTableNotFound = errors.New("table not found")
	// ErrColumnNotFound is returned when a pivot or mapped column does not exist.
	ErrColumnNotFound = errors.New("column not found")
	// ErrPivotNotSet is returned by Run when no pivot has been configured.
	ErrPivotNotSet = errors.New("pivot not set")
	// ErrStore matches every *StoreError via errors.Is.
	ErrStore = errors.New("store error")
)

// StoreError wraps a failure reported by the TableStore.
type StoreError struct {
	// Op is the store operation that failed (select, update, insert, alter...).
	Op string
	// Table is the table the operation targeted.
	Table string
	// Err is the underlying store error.
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s on %s failed: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStore) hold for any StoreError.
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func storeErr(op, table string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Table: table, Err: err}
}

func tableNotFound(table string) error {
	return fmt.Errorf("%w: %s", ErrTableNotFound, table)
}

func columnNotFound(table, column string) error {
	return fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, column)
}
