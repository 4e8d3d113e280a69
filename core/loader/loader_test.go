package loader

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (f *fakeFeature) Name() string    { return f.name }
func (f *fakeFeature) IsEnabled() bool { return f.enabled }
func (f *fakeFeature) Load(app fiber.Router) error {
	if f.err != nil {
		return f.err
	}
	f.loaded = true
	app.Get("/"+f.name, func(c *fiber.Ctx) error { return c.SendString(f.name) })
	return nil
}

func TestManager_LoadAll(t *testing.T) {
	app := fiber.New()
	on := &fakeFeature{name: "on", enabled: true}
	off := &fakeFeature{name: "off"}

	mgr := NewManager(nil)
	mgr.Register(on)
	mgr.Register(off)
	require.NoError(t, mgr.LoadAll(app))

	assert.True(t, on.loaded)
	assert.False(t, off.loaded)
	assert.Len(t, mgr.Features(), 2)

	resp, err := app.Test(httptest.NewRequest("GET", "/on", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/off", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestManager_LoadAllErrors(t *testing.T) {
	t.Run("LoadFails", func(t *testing.T) {
		mgr := NewManager(nil)
		mgr.Register(&fakeFeature{name: "broken", enabled: true, err: errors.New("boom")})
		err := mgr.LoadAll(fiber.New())
		assert.ErrorContains(t, err, "broken")
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("Duplicate", func(t *testing.T) {
		mgr := NewManager(nil)
		mgr.Register(&fakeFeature{name: "a", enabled: true})
		mgr.Register(&fakeFeature{name: "a", enabled: true})
		assert.ErrorContains(t, mgr.LoadAll(fiber.New()), "registered twice")
	})
}
