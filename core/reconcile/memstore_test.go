package reconcile

import (
	"context"
	"fmt"

	"dbkit/core/utils"
)

// memTable is an in-memory table used by the tests.
type memTable struct {
	columns []string
	rows    []Row
}

func (t *memTable) has(column string) bool {
	for _, c := range t.columns {
		if c == column {
			return true
		}
	}
	return false
}

// memStore is a TableStore over plain maps. It records writes and counts reads
// so tests can assert what reached the store.
type memStore struct {
	tables map[string]*memTable

	reads     int
	updates   []Row
	inserts   []Row
	failWrite error
}

func newMemStore() *memStore {
	return &memStore{tables: make(map[string]*memTable)}
}

func (s *memStore) create(name string, columns []string, rows ...Row) {
	t := &memTable{columns: append([]string(nil), columns...)}
	for _, r := range rows {
		t.rows = append(t.rows, s.fill(t, r))
	}
	s.tables[name] = t
}

func (s *memStore) fill(t *memTable, r Row) Row {
	out := make(Row, len(t.columns))
	for _, c := range t.columns {
		out[c] = r[c]
	}
	return out
}

func (s *memStore) table(name string) (*memTable, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("no such table: %s", name)
	}
	return t, nil
}

func (s *memStore) TableExists(_ context.Context, table string) (bool, error) {
	_, ok := s.tables[table]
	return ok, nil
}

func (s *memStore) ColumnExists(_ context.Context, table, column string) (bool, error) {
	t, err := s.table(table)
	if err != nil {
		return false, err
	}
	return t.has(column), nil
}

func (s *memStore) ListColumns(_ context.Context, table string) ([]string, error) {
	t, err := s.table(table)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), t.columns...), nil
}

func (s *memStore) AddNullableTextColumn(_ context.Context, table, column string) error {
	t, err := s.table(table)
	if err != nil {
		return err
	}
	if t.has(column) {
		return nil
	}
	t.columns = append(t.columns, column)
	for _, r := range t.rows {
		r[column] = nil
	}
	return nil
}

func (s *memStore) SelectAll(_ context.Context, table string) ([]Row, error) {
	s.reads++
	t, err := s.table(table)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *memStore) SelectWhereIn(_ context.Context, table, column string, values []any) ([]Row, error) {
	s.reads++
	t, err := s.table(table)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0)
	for _, r := range t.rows {
		for _, v := range values {
			if r[column] != nil && utils.LooseEqual(r[column], v) {
				out = append(out, r.Clone())
				break
			}
		}
	}
	return out, nil
}

func (s *memStore) Update(_ context.Context, table string, filters []Filter, payload Row) (int64, error) {
	if s.failWrite != nil {
		return 0, s.failWrite
	}
	t, err := s.table(table)
	if err != nil {
		return 0, err
	}
	for col := range payload {
		if !t.has(col) {
			return 0, fmt.Errorf("unknown column %s", col)
		}
	}
	s.updates = append(s.updates, payload.Clone())

	var changed int64
	for _, r := range t.rows {
		if !matchesFilters(r, filters) {
			continue
		}
		differs := false
		for col, v := range payload {
			if (r[col] == nil) != (v == nil) || !utils.LooseEqual(r[col], v) {
				differs = true
			}
			r[col] = v
		}
		if differs {
			changed++
		}
	}
	return changed, nil
}

func matchesFilters(r Row, filters []Filter) bool {
	for _, f := range filters {
		if f.Value == nil || r[f.Column] == nil || !utils.LooseEqual(r[f.Column], f.Value) {
			return false
		}
	}
	return true
}

func (s *memStore) BulkInsert(_ context.Context, table string, rows []Row) (int64, error) {
	if s.failWrite != nil {
		return 0, s.failWrite
	}
	t, err := s.table(table)
	if err != nil {
		return 0, err
	}
	for _, r := range rows {
		for col := range r {
			if !t.has(col) {
				return 0, fmt.Errorf("unknown column %s", col)
			}
		}
	}
	for _, r := range rows {
		s.inserts = append(s.inserts, r.Clone())
		t.rows = append(t.rows, s.fill(t, r))
	}
	return int64(len(rows)), nil
}
