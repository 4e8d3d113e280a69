package redirect

import (
	"dbkit/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature sends requests that matched no route to a fixed location.
// It must be registered after every other feature.
type Feature struct {
	target string
	logger *zap.Logger
}

// NewFeature creates the redirect feature. An empty target disables it.
func NewFeature(target string, logger *zap.Logger) *Feature {
	return &Feature{target: target, logger: logger}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "redirect"
}

// IsEnabled reports whether a redirect target is configured.
func (f *Feature) IsEnabled() bool {
	return f.target != ""
}

// Load installs the catch-all handler.
func (f *Feature) Load(app fiber.Router) error {
	app.Use(func(c *fiber.Ctx) error {
		logger.WithRayID(f.logger, c).Debug("Redirecting unknown path",
			zap.String("path", c.Path()),
			zap.String("target", f.target),
		)
		return c.Redirect(f.target, fiber.StatusFound)
	})
	return nil
}
