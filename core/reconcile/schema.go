package reconcile

import (
	"context"

	"go.uber.org/zap"
)

// SchemaSynchronizer makes sure the base table can hold every column a merge writes.
//
// Missing columns are always created as nullable TEXT: source column types are
// not introspected and TEXT holds any scalar losslessly. Existing columns are
// never altered, narrowed or renamed.
type SchemaSynchronizer struct {
	r *Reconciler
}

// NewSchemaSynchronizer creates a synchronizer for the reconciler's tables and mapping.
func NewSchemaSynchronizer(r *Reconciler) *SchemaSynchronizer {
	return &SchemaSynchronizer{r: r}
}

// requiredColumns lists the base columns the merge may write, without duplicates.
func (s *SchemaSynchronizer) requiredColumns(ctx context.Context) ([]string, error) {
	var cols []string
	if len(s.r.columns) > 0 {
		for _, pair := range s.r.columns {
			cols = append(cols, pair.Base)
		}
	} else {
		listed, err := s.r.store.ListColumns(ctx, s.r.mergeTable)
		if err != nil {
			return nil, storeErr("list columns", s.r.mergeTable, err)
		}
		cols = listed
	}

	seen := make(map[string]struct{}, len(cols))
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		if _, dup := seen[col]; dup {
			continue
		}
		seen[col] = struct{}{}
		out = append(out, col)
	}
	return out, nil
}

// MissingColumns returns the required columns the base table does not have yet.
func (s *SchemaSynchronizer) MissingColumns(ctx context.Context) ([]string, error) {
	required, err := s.requiredColumns(ctx)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, col := range required {
		exists, err := s.r.store.ColumnExists(ctx, s.r.baseTable, col)
		if err != nil {
			return nil, storeErr("column lookup", s.r.baseTable, err)
		}
		if !exists {
			missing = append(missing, col)
		}
	}
	return missing, nil
}

// EnsureColumns adds every missing required column and returns the names added.
// Calling it again once the schema is in sync adds nothing.
func (s *SchemaSynchronizer) EnsureColumns(ctx context.Context) ([]string, error) {
	missing, err := s.MissingColumns(ctx)
	if err != nil {
		return nil, err
	}

	added := make([]string, 0, len(missing))
	for _, col := range missing {
		if err := s.r.store.AddNullableTextColumn(ctx, s.r.baseTable, col); err != nil {
			return added, storeErr("add column", s.r.baseTable, err)
		}
		added = append(added, col)
		s.r.logger.Info("Added column to base table", zap.String("column", col))
	}
	return added, nil
}
