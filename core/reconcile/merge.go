package reconcile

import (
	"context"

	"go.uber.org/zap"
)

// Merger writes a reconciliation back into the base table: matched rows are
// updated from the merge table and unmatched merge rows are inserted.
//
// There is no transaction around a merge. A failure part-way leaves the earlier
// schema changes and row writes in place; wrap the store in a transaction when
// atomicity is needed.
type Merger struct {
	r      *Reconciler
	schema *SchemaSynchronizer

	rowsUpdated  int64
	rowsInserted int64
	columnsAdded []string
}

// NewMerger creates a merger for r.
func NewMerger(r *Reconciler) *Merger {
	return &Merger{r: r, schema: NewSchemaSynchronizer(r)}
}

// RowsUpdated returns the rows changed by the last MergeMatched.
func (m *Merger) RowsUpdated() int64 { return m.rowsUpdated }

// RowsInserted returns the rows inserted by the last MergeUnmatched.
func (m *Merger) RowsInserted() int64 { return m.rowsInserted }

func (m *Merger) ensureRun(ctx context.Context) error {
	if m.r.ran {
		return nil
	}
	m.r.logger.Debug("Reconciler has not run yet, running before merge")
	return m.r.Run(ctx)
}

func (m *Merger) ensureColumns(ctx context.Context) error {
	added, err := m.schema.EnsureColumns(ctx)
	m.columnsAdded = append(m.columnsAdded, added...)
	return err
}

// Plan reports what Merge would do. Nothing is written.
func (m *Merger) Plan(ctx context.Context) (*MergePlan, error) {
	if err := m.ensureRun(ctx); err != nil {
		return nil, err
	}
	missing, err := m.schema.MissingColumns(ctx)
	if err != nil {
		return nil, err
	}

	changed := 0
	for _, base := range m.r.matched {
		if m.r.rowChanges(base) > 0 {
			changed++
		}
	}

	return &MergePlan{
		MissingColumns: missing,
		RowsToUpdate:   changed,
		RowsToInsert:   len(m.r.unmatched),
		Summary:        m.r.report.Basic(),
	}, nil
}

// MergeMatched updates the base table from every merge row, filtering on the
// pivot values. Merge rows without a counterpart simply change nothing.
func (m *Merger) MergeMatched(ctx context.Context) (int64, error) {
	if err := m.ensureRun(ctx); err != nil {
		return 0, err
	}
	if err := m.ensureColumns(ctx); err != nil {
		return 0, err
	}

	var total int64
	for _, row := range m.r.mergeCollection {
		payload := m.r.updatePayload(row)
		if len(payload) == 0 {
			continue
		}
		n, err := m.r.store.Update(ctx, m.r.baseTable, m.r.pivots.Filters(row), payload)
		if err != nil {
			m.rowsUpdated = total
			return total, storeErr("update", m.r.baseTable, err)
		}
		total += n
	}

	m.rowsUpdated = total
	m.r.logger.Info("Matched rows merged", zap.Int64("rows_updated", total))
	return total, nil
}

// MergeUnmatched inserts every unmatched merge row in one bulk insert.
func (m *Merger) MergeUnmatched(ctx context.Context) (int64, error) {
	if err := m.ensureRun(ctx); err != nil {
		return 0, err
	}
	if err := m.ensureColumns(ctx); err != nil {
		return 0, err
	}

	rows := make([]Row, 0, len(m.r.unmatched))
	for _, row := range m.r.unmatched {
		rows = append(rows, m.r.insertPayload(row))
	}

	if len(rows) == 0 {
		m.rowsInserted = 0
		return 0, nil
	}

	n, err := m.r.store.BulkInsert(ctx, m.r.baseTable, rows)
	if err != nil {
		return 0, storeErr("insert", m.r.baseTable, err)
	}

	m.rowsInserted = n
	m.r.logger.Info("Unmatched rows inserted", zap.Int64("rows_inserted", n))
	return n, nil
}

// MergeOptions selects the passes run by MergeWith.
type MergeOptions struct {
	// SkipMatched leaves existing base rows untouched.
	SkipMatched bool
	// SkipUnmatched inserts nothing.
	SkipUnmatched bool
}

// Merge runs MergeMatched followed by MergeUnmatched.
func (m *Merger) Merge(ctx context.Context) (MergeOutcome, error) {
	return m.MergeWith(ctx, MergeOptions{})
}

// MergeWith runs the passes selected by opts, matched rows first.
func (m *Merger) MergeWith(ctx context.Context, opts MergeOptions) (MergeOutcome, error) {
	m.columnsAdded = nil
	outcome := MergeOutcome{}

	if !opts.SkipMatched {
		updated, err := m.MergeMatched(ctx)
		outcome.RowsUpdated = updated
		if err != nil {
			outcome.ColumnsAdded = m.columnsAdded
			return outcome, err
		}
	}
	if !opts.SkipUnmatched {
		inserted, err := m.MergeUnmatched(ctx)
		outcome.RowsInserted = inserted
		if err != nil {
			outcome.ColumnsAdded = m.columnsAdded
			return outcome, err
		}
	}

	outcome.ColumnsAdded = m.columnsAdded
	if outcome.ColumnsAdded == nil {
		outcome.ColumnsAdded = []string{}
	}
	return outcome, nil
}

// updatePayload projects a merge row for an update of the base table.
func (r *Reconciler) updatePayload(row Row) Row {
	if len(r.columns) == 0 {
		return r.stripPrimaryKey(row.Clone())
	}
	payload := make(Row, len(r.columns))
	for _, pair := range r.columns {
		payload[pair.Base] = row[pair.Merge]
	}
	return r.stripPrimaryKey(payload)
}

// insertPayload projects a merge row for insertion: pivot values are written
// under their base names, then mapped columns (or the whole row).
func (r *Reconciler) insertPayload(row Row) Row {
	var payload Row
	if len(r.columns) == 0 {
		payload = row.Clone()
	} else {
		payload = make(Row, len(r.columns)+len(r.pivots.pairs))
		for _, pair := range r.columns {
			payload[pair.Base] = row[pair.Merge]
		}
	}
	for _, pair := range r.pivots.pairs {
		payload[pair.Base] = row[pair.Merge]
	}
	return r.stripPrimaryKey(payload)
}

// rowChanges counts the changes a matched base row contributes to the report.
func (r *Reconciler) rowChanges(base Row) int {
	merge := r.firstMatch(base, r.mergeCollection)
	if merge == nil {
		return 0
	}
	return r.diffRow(DiffReport{}, base, merge)
}
