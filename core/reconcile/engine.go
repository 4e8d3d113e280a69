package reconcile

import (
	"context"
	"time"

	"dbkit/core/utils"

	"go.uber.org/zap"
)

// Reconciler loads a base and a merge table, partitions rows into matched and
// unmatched sets and builds a per-column diff report.
//
// A Reconciler is not safe for concurrent use.
type Reconciler struct {
	store  TableStore
	logger *zap.Logger

	baseTable  string
	mergeTable string
	pivots     *PivotMapper
	columns    []Pair
	primaryKey string

	mergeColumns    []string
	baseCollection  []Row
	mergeCollection []Row
	matched         []Row
	unmatched       []Row
	report          DiffReport
	ran             bool
	built           time.Time
}

// Tables creates a Reconciler for base and merge, failing with ErrTableNotFound
// if either table is missing. No rows are read.
func Tables(ctx context.Context, store TableStore, baseTable, mergeTable string) (*Reconciler, error) {
	for _, table := range []string{baseTable, mergeTable} {
		exists, err := store.TableExists(ctx, table)
		if err != nil {
			return nil, storeErr("table lookup", table, err)
		}
		if !exists {
			return nil, tableNotFound(table)
		}
	}

	return &Reconciler{
		store:      store,
		logger:     zap.NewNop(),
		baseTable:  baseTable,
		mergeTable: mergeTable,
		primaryKey: DefaultPrimaryKey,
		report:     DiffReport{},
	}, nil
}

// New builds and fully configures a Reconciler from a Spec.
func New(ctx context.Context, store TableStore, spec Spec, logger *zap.Logger) (*Reconciler, error) {
	r, err := Tables(ctx, store, spec.BaseTable, spec.MergeTable)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		r.SetLogger(logger)
	}
	if spec.PrimaryKey != "" {
		r.SetPrimaryKey(spec.PrimaryKey)
	}
	if len(spec.Pivots) > 0 {
		if err := r.Pivots(ctx, spec.Pivots...); err != nil {
			return nil, err
		}
	}
	if len(spec.Columns) > 0 {
		if err := r.Columns(ctx, spec.Columns...); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SetLogger replaces the no-op logger.
func (r *Reconciler) SetLogger(l *zap.Logger) {
	r.logger = l.With(zap.String("base", r.baseTable), zap.String("merge", r.mergeTable))
}

// SetPrimaryKey changes the primary-key column name (default "id").
func (r *Reconciler) SetPrimaryKey(name string) {
	r.primaryKey = name
}

// Pivot uses the same column name on both tables to correlate rows.
func (r *Reconciler) Pivot(ctx context.Context, name string) error {
	return r.Pivots(ctx, Pair{Base: name, Merge: name})
}

// Pivots sets one or more column pairs that must all be equal for two rows to match.
func (r *Reconciler) Pivots(ctx context.Context, pairs ...Pair) error {
	if len(pairs) == 0 {
		return ErrPivotNotSet
	}
	for _, pair := range pairs {
		if err := r.requireColumn(ctx, r.mergeTable, pair.Merge); err != nil {
			return err
		}
		if err := r.requireColumn(ctx, r.baseTable, pair.Base); err != nil {
			return err
		}
	}
	r.pivots = NewPivotMapper(pairs...)
	return nil
}

// Columns restricts comparison and write-back to the given base<-merge pairs.
// Base-side columns may be missing; they are created by the schema synchronizer.
func (r *Reconciler) Columns(ctx context.Context, pairs ...Pair) error {
	for _, pair := range pairs {
		if err := r.requireColumn(ctx, r.mergeTable, pair.Merge); err != nil {
			return err
		}
	}
	r.columns = append([]Pair(nil), pairs...)
	return nil
}

func (r *Reconciler) requireColumn(ctx context.Context, table, column string) error {
	exists, err := r.store.ColumnExists(ctx, table, column)
	if err != nil {
		return storeErr("column lookup", table, err)
	}
	if !exists {
		return columnNotFound(table, column)
	}
	return nil
}

// Run loads both collections, partitions them and rebuilds the report.
// Previous results are discarded.
func (r *Reconciler) Run(ctx context.Context) error {
	if r.pivots == nil {
		return ErrPivotNotSet
	}

	mergeColumns, err := r.store.ListColumns(ctx, r.mergeTable)
	if err != nil {
		return storeErr("list columns", r.mergeTable, err)
	}

	mergeRows, err := r.store.SelectAll(ctx, r.mergeTable)
	if err != nil {
		return storeErr("select", r.mergeTable, err)
	}

	// Only base rows whose first pivot value appears in the merge table are loaded.
	first := r.pivots.pairs[0]
	values := distinctValues(mergeRows, first.Merge)
	var baseRows []Row
	if len(values) > 0 {
		baseRows, err = r.store.SelectWhereIn(ctx, r.baseTable, first.Base, values)
		if err != nil {
			return storeErr("select", r.baseTable, err)
		}
	}

	r.mergeColumns = mergeColumns
	r.mergeCollection = mergeRows
	r.baseCollection = baseRows
	r.matched = r.findMatched(baseRows, mergeRows)
	r.unmatched = r.findUnmatched(mergeRows, baseRows)
	r.report = r.buildReport()
	r.ran = true
	r.built = time.Now()

	r.logger.Info("Tables reconciled",
		zap.Int("merge_rows", len(mergeRows)),
		zap.Int("base_rows", len(baseRows)),
		zap.Int("matched", len(r.matched)),
		zap.Int("unmatched", len(r.unmatched)),
		zap.Int("changed_columns", len(r.report)),
	)

	return nil
}

// findMatched keeps the base rows that have at least one merge counterpart.
func (r *Reconciler) findMatched(baseRows, mergeRows []Row) []Row {
	matched := make([]Row, 0)
	for _, base := range baseRows {
		if r.firstMatch(base, mergeRows) != nil {
			matched = append(matched, base)
		}
	}
	return matched
}

// findUnmatched keeps the merge rows that no loaded base row corresponds to.
func (r *Reconciler) findUnmatched(mergeRows, baseRows []Row) []Row {
	unmatched := make([]Row, 0)
	for _, merge := range mergeRows {
		found := false
		for _, base := range baseRows {
			if r.pivots.Matches(base, merge) {
				found = true
				break
			}
		}
		if !found {
			unmatched = append(unmatched, merge)
		}
	}
	return unmatched
}

// firstMatch returns the first merge row, in load order, matching base.
func (r *Reconciler) firstMatch(base Row, mergeRows []Row) Row {
	for _, merge := range mergeRows {
		if r.pivots.Matches(base, merge) {
			return merge
		}
	}
	return nil
}

func (r *Reconciler) buildReport() DiffReport {
	report := DiffReport{}
	for _, base := range r.matched {
		if merge := r.firstMatch(base, r.mergeCollection); merge != nil {
			r.diffRow(report, base, merge)
		}
	}
	return report
}

// diffRow appends to report every compared column where merge differs from base
// and returns the number of changes added.
func (r *Reconciler) diffRow(report DiffReport, base, merge Row) int {
	merge = r.stripPrimaryKey(merge.Clone())

	n := 0
	for _, pair := range r.comparedPairs() {
		newValue, ok := merge[pair.Merge]
		if !ok {
			continue
		}
		oldValue, exists := base[pair.Base]
		if !exists {
			report[pair.Base] = append(report[pair.Base], Change{New: newValue, Missing: true})
			n++
			continue
		}
		if !utils.LooseEqual(oldValue, newValue) {
			report[pair.Base] = append(report[pair.Base], Change{Old: oldValue, New: newValue})
			n++
		}
	}
	return n
}

// comparedPairs is the column map, or every merge column under its own name.
func (r *Reconciler) comparedPairs() []Pair {
	if len(r.columns) > 0 {
		return r.columns
	}
	pairs := make([]Pair, 0, len(r.mergeColumns))
	for _, col := range r.mergeColumns {
		pairs = append(pairs, Pair{Base: col, Merge: col})
	}
	return pairs
}

// keepsPrimaryKey is true when the primary key is explicitly pivoted or mapped.
func (r *Reconciler) keepsPrimaryKey() bool {
	if r.pivots != nil && involves(r.pivots.pairs, r.primaryKey) {
		return true
	}
	return involves(r.columns, r.primaryKey)
}

// stripPrimaryKey removes the primary key from row (which must be a copy).
func (r *Reconciler) stripPrimaryKey(row Row) Row {
	if r.primaryKey != "" && !r.keepsPrimaryKey() {
		delete(row, r.primaryKey)
	}
	return row
}

// distinctValues collects the non-null values of column, first occurrence first.
func distinctValues(rows []Row, column string) []any {
	seen := make(map[string]struct{})
	values := make([]any, 0, len(rows))
	for _, row := range rows {
		v, ok := row[column]
		if !ok || v == nil {
			continue
		}
		key := utils.ToString(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		values = append(values, v)
	}
	return values
}

// BaseTable returns the destination table name.
func (r *Reconciler) BaseTable() string { return r.baseTable }

// MergeTable returns the source table name.
func (r *Reconciler) MergeTable() string { return r.mergeTable }

// PrimaryKey returns the configured primary-key column.
func (r *Reconciler) PrimaryKey() string { return r.primaryKey }

// PivotPairs returns the configured pivot pairs, or nil.
func (r *Reconciler) PivotPairs() []Pair {
	if r.pivots == nil {
		return nil
	}
	return r.pivots.Pairs()
}

// ColumnPairs returns the configured column map, or nil.
func (r *Reconciler) ColumnPairs() []Pair {
	return append([]Pair(nil), r.columns...)
}

// HasRun reports whether Run has completed at least once.
func (r *Reconciler) HasRun() bool { return r.ran }

// Report returns the diff report of the last Run.
func (r *Reconciler) Report() DiffReport { return r.report }

// BasicReport returns the number of changes per column of the last Run.
func (r *Reconciler) BasicReport() BasicReport { return r.report.Basic() }

// Matched returns the base rows with a merge counterpart.
func (r *Reconciler) Matched() []Row { return r.matched }

// Unmatched returns the merge rows without a base counterpart (the new items).
func (r *Reconciler) Unmatched() []Row { return r.unmatched }

// BaseCollection returns the base rows loaded by the last Run.
func (r *Reconciler) BaseCollection() []Row { return r.baseCollection }

// MergeCollection returns the merge rows loaded by the last Run.
func (r *Reconciler) MergeCollection() []Row { return r.mergeCollection }

// Snapshot captures the results of the last Run.
func (r *Reconciler) Snapshot() *Snapshot {
	return &Snapshot{
		BaseTable:  r.baseTable,
		MergeTable: r.mergeTable,
		Pivots:     r.PivotPairs(),
		Columns:    r.ColumnPairs(),
		Report:     r.report,
		Summary:    r.report.Basic(),
		Matched:    r.matched,
		Unmatched:  r.unmatched,
		Built:      r.built,
	}
}
