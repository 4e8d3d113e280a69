package difftables

import (
	"dbkit/core/reconcile"
	"dbkit/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the difftables feature.
func NewFeature(db *gorm.DB, batchSize int, client storage.Client, bucket string, cfg reconcile.Config, logger *zap.Logger) *Feature {
	svc := NewService(db, batchSize, client, bucket, cfg, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "difftables"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
