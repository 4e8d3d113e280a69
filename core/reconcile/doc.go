// Package reconcile compares two tables with compatible schemas and merges the
// differences from one into the other.
//
// The base table is the destination and the merge table the source. Rows are
// correlated through one or more pivot column pairs; every pair must hold
// loosely equal values (so "1" equals 1) for two rows to describe the same entity.
//
// # Components
//
//  1. Reconciler: loads the merge table and the base rows whose first pivot value
//     occurs in it, partitions them into matched base rows and unmatched merge
//     rows, and builds a per-column DiffReport.
//
//  2. SchemaSynchronizer: adds every column the merge would write that the base
//     table lacks, always as nullable TEXT.
//
//  3. Merger: updates matched rows and bulk-inserts unmatched ones. The primary
//     key is stripped from every payload unless it is part of the pivots or the
//     column map.
//
//  4. Cache and exports: snapshots of a run can be cached with a TTL and uploaded
//     to object storage as JSON.
//
// All storage access goes through the TableStore interface, implemented on gorm
// by core/database.
//
// # Usage Example
//
//	r, err := reconcile.New(ctx, store, reconcile.Spec{
//	    BaseTable:  "products",
//	    MergeTable: "products_import",
//	    Pivots:     []reconcile.Pair{{Base: "sku", Merge: "sku"}},
//	}, logger)
//	if err != nil {
//	    return err
//	}
//	if err := r.Run(ctx); err != nil {
//	    return err
//	}
//	outcome, err := reconcile.NewMerger(r).Merge(ctx)
package reconcile
