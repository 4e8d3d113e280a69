package query

import (
	"context"
	"errors"
	"fmt"

	dyn "dbkit/core/query"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultLimit caps result sets when the request does not.
const DefaultLimit = 1000

// ErrNoDatabase is returned when the feature runs without a database.
var ErrNoDatabase = errors.New("database not configured")

// Request describes one dynamic query.
type Request struct {
	Table      string
	Conditions map[string]any
	// DateColumn enables the calendar filter. The narrowest part given wins:
	// Day, then Month, then Year. Missing parts default to today.
	DateColumn string
	Year       int
	Month      int
	Day        int
	Limit      int
}

// Service runs dynamic queries.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new query service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Query returns the rows of req.Table matching req.
func (s *Service) Query(ctx context.Context, req Request) ([]map[string]any, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}

	conds, err := dyn.ParseConditions(req.Conditions)
	if err != nil {
		return nil, err
	}

	tx, err := dyn.Dynamic(ctx, s.db, req.Table, conds)
	if err != nil {
		return nil, err
	}
	if req.DateColumn != "" {
		tx = tx.Scopes(dateScope(req))
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := dyn.Rows(tx, limit)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", req.Table, err)
	}

	s.logger.Debug("Dynamic query",
		zap.String("table", req.Table),
		zap.Int("conditions", len(conds)),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

func dateScope(req Request) func(*gorm.DB) *gorm.DB {
	switch {
	case req.Day > 0:
		return dyn.Day(req.DateColumn, req.Day, req.Month, req.Year)
	case req.Month > 0:
		return dyn.Month(req.DateColumn, req.Month, req.Year)
	default:
		return dyn.Year(req.DateColumn, req.Year)
	}
}
