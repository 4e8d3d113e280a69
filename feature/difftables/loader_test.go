package difftables

import (
	"testing"

	"dbkit/core/reconcile"
	"dbkit/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	feature := NewFeature(nil, 0, new(mocks.Client), "dbkit", reconcile.Config{}, zap.NewNop())

	assert.Equal(t, "difftables", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
