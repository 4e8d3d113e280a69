package difftables

import (
	"context"
	"errors"
	"fmt"

	"dbkit/core/database"
	"dbkit/core/reconcile"
	"dbkit/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoPrimaryKey makes the service look up each base table's primary key.
const AutoPrimaryKey = "auto"

var (
	// ErrNoDatabase is returned when the server runs without a database connection.
	ErrNoDatabase = errors.New("database not connected")
	// ErrExportDisabled is returned when report exports are not configured.
	ErrExportDisabled = errors.New("report export is disabled")
)

// MergeRequest selects what a merge does besides writing rows.
type MergeRequest struct {
	reconcile.MergeOptions
	// DryRun returns the plan without writing anything.
	DryRun bool
	// Atomic runs the schema changes and writes in one transaction.
	Atomic bool
	// Export uploads the pre-merge report to object storage.
	Export bool
}

// MergeResult is the outcome of a merge request.
type MergeResult struct {
	Plan    *reconcile.MergePlan    `json:"plan,omitempty"`
	Outcome *reconcile.MergeOutcome `json:"outcome,omitempty"`
	Export  string                  `json:"export,omitempty"`
}

// Service runs reconciliations against the connected database.
type Service struct {
	db     *gorm.DB
	store  *database.TableStore
	client storage.Client
	bucket string
	cfg    reconcile.Config
	cache  *reconcile.Cache
	logger *zap.Logger
}

// NewService creates a difftables service. client may be nil when exports are disabled.
func NewService(db *gorm.DB, batchSize int, client storage.Client, bucket string, cfg reconcile.Config, logger *zap.Logger) *Service {
	s := &Service{
		db:     db,
		client: client,
		bucket: bucket,
		cfg:    cfg,
		cache:  reconcile.NewCache(),
		logger: logger,
	}
	if db != nil {
		s.store = database.NewTableStore(db, batchSize)
	}
	return s
}

// resolve fills defaults into spec and validates it.
func (s *Service) resolve(ctx context.Context, spec reconcile.Spec) (reconcile.Spec, error) {
	if s.store == nil {
		return spec, ErrNoDatabase
	}
	if spec.BaseTable == "" || spec.MergeTable == "" {
		return spec, fmt.Errorf("%w: base and merge tables are required", errInvalidRequest)
	}
	if len(spec.Pivots) == 0 {
		return spec, reconcile.ErrPivotNotSet
	}

	if spec.PrimaryKey == "" {
		spec.PrimaryKey = s.cfg.PrimaryKey
	}
	if spec.PrimaryKey == AutoPrimaryKey {
		pk, err := database.GetPrimaryKey(ctx, s.db, spec.BaseTable, "")
		if err != nil {
			s.logger.Debug("Primary key lookup failed, using default",
				zap.String("table", spec.BaseTable), zap.Error(err))
			pk = reconcile.DefaultPrimaryKey
		}
		spec.PrimaryKey = pk
	}
	return spec, nil
}

func (s *Service) reconciler(ctx context.Context, store reconcile.TableStore, spec reconcile.Spec) (*reconcile.Reconciler, error) {
	return reconcile.New(ctx, store, spec, s.logger)
}

// Report returns the reconciliation snapshot of spec, served from cache while fresh.
func (s *Service) Report(ctx context.Context, spec reconcile.Spec) (*reconcile.Snapshot, error) {
	spec, err := s.resolve(ctx, spec)
	if err != nil {
		return nil, err
	}

	return s.cache.GetOrRun(ctx, spec.CacheKey(), s.cfg.CacheTTL(), func(ctx context.Context) (*reconcile.Snapshot, error) {
		r, err := s.reconciler(ctx, s.store, spec)
		if err != nil {
			return nil, err
		}
		if err := r.Run(ctx); err != nil {
			return nil, err
		}
		return r.Snapshot(), nil
	})
}

// NewItems returns the merge rows that have no counterpart in the base table.
func (s *Service) NewItems(ctx context.Context, spec reconcile.Spec) ([]reconcile.Row, error) {
	snap, err := s.Report(ctx, spec)
	if err != nil {
		return nil, err
	}
	return snap.Unmatched, nil
}

// Merge applies spec to the base table, or only plans it when DryRun is set.
func (s *Service) Merge(ctx context.Context, spec reconcile.Spec, req MergeRequest) (*MergeResult, error) {
	spec, err := s.resolve(ctx, spec)
	if err != nil {
		return nil, err
	}
	if req.Export && s.client == nil {
		return nil, ErrExportDisabled
	}

	r, err := s.reconciler(ctx, s.store, spec)
	if err != nil {
		return nil, err
	}
	if err := r.Run(ctx); err != nil {
		return nil, err
	}

	result := &MergeResult{}
	if req.DryRun {
		plan, err := reconcile.NewMerger(r).Plan(ctx)
		if err != nil {
			return nil, err
		}
		result.Plan = plan
		return result, nil
	}

	if req.Export {
		object, err := reconcile.ExportReport(ctx, s.client, s.bucket, s.cfg.ReportPrefix, r.Snapshot())
		if err != nil {
			return nil, err
		}
		result.Export = object
	}

	var outcome reconcile.MergeOutcome
	if req.Atomic {
		err = s.store.Transaction(ctx, func(tx *database.TableStore) error {
			txr, err := s.reconciler(ctx, tx, spec)
			if err != nil {
				return err
			}
			outcome, err = reconcile.NewMerger(txr).MergeWith(ctx, req.MergeOptions)
			return err
		})
	} else {
		outcome, err = reconcile.NewMerger(r).MergeWith(ctx, req.MergeOptions)
	}
	s.cache.Invalidate(spec.CacheKey())
	if err != nil {
		return nil, err
	}

	s.logger.Info("Tables merged",
		zap.String("base", spec.BaseTable),
		zap.String("merge", spec.MergeTable),
		zap.Int64("rows_updated", outcome.RowsUpdated),
		zap.Int64("rows_inserted", outcome.RowsInserted),
		zap.Strings("columns_added", outcome.ColumnsAdded),
	)
	result.Outcome = &outcome
	return result, nil
}

// Export uploads the current report of spec and returns the object name.
func (s *Service) Export(ctx context.Context, spec reconcile.Spec) (string, error) {
	if s.client == nil {
		return "", ErrExportDisabled
	}
	snap, err := s.Report(ctx, spec)
	if err != nil {
		return "", err
	}
	return reconcile.ExportReport(ctx, s.client, s.bucket, s.cfg.ReportPrefix, snap)
}

// ListExports lists the exported reports, newest first.
func (s *Service) ListExports(ctx context.Context) ([]reconcile.ExportInfo, error) {
	if s.client == nil {
		return nil, ErrExportDisabled
	}
	return reconcile.ListExports(ctx, s.client, s.bucket, s.cfg.ReportPrefix)
}

// LoadExport returns an exported report.
func (s *Service) LoadExport(ctx context.Context, object string) (*reconcile.Snapshot, error) {
	if s.client == nil {
		return nil, ErrExportDisabled
	}
	return reconcile.LoadExport(ctx, s.client, s.bucket, object)
}

// DeleteExport removes an exported report.
func (s *Service) DeleteExport(ctx context.Context, object string) error {
	if s.client == nil {
		return ErrExportDisabled
	}
	return reconcile.DeleteExport(ctx, s.client, s.bucket, object)
}
