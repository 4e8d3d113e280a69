package query

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dbkit/core/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupOrders(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, db.Exec(`CREATE TABLE orders (
		id INTEGER PRIMARY KEY,
		status TEXT,
		price INTEGER,
		shipped_at TEXT,
		created_at TEXT
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO orders (id, status, price, shipped_at, created_at) VALUES
		(1, 'paid', 5,  '2024-03-02', '2024-03-01 10:00:00'),
		(2, 'paid', 20, NULL,         '2024-03-15 10:00:00'),
		(3, 'open', 30, NULL,         '2023-12-31 23:59:59')`).Error)
	return db
}

func setupTestApp(t *testing.T) *fiber.App {
	app := fiber.New()
	NewHandler(NewService(setupOrders(t), zap.NewNop())).RegisterRoutes(app)
	return app
}

func post(t *testing.T, app *fiber.App, url, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func ids(t *testing.T, body map[string]any) []float64 {
	t.Helper()
	var out []float64
	for _, row := range body["rows"].([]any) {
		out = append(out, row.(map[string]any)["id"].(float64))
	}
	return out
}

func TestHandleQuery(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		name string
		url  string
		body string
		want []float64
	}{
		{"NoBody", "/query/orders", "", []float64{1, 2, 3}},
		{"Equal", "/query/orders", `{"=": {"status": "paid"}}`, []float64{1, 2}},
		{"Combined", "/query/orders", `{"=": {"status": "paid"}, "null": ["shipped_at"]}`, []float64{2}},
		{"Range", "/query/orders", `{">=": {"price": 20}}`, []float64{2, 3}},
		{"Limit", "/query/orders?limit=1", `{}`, []float64{1}},
		{"NonNumericLimit", "/query/orders?limit=abc", `{}`, []float64{1, 2, 3}},
		{"Year", "/query/orders?date_column=created_at&year=2023", `{}`, []float64{3}},
		{"Month", "/query/orders?date_column=created_at&year=2024&month=3", `{"notNull": ["shipped_at"]}`, []float64{1}},
		{"Day", "/query/orders?date_column=created_at&year=2024&month=3&day=15", `{}`, []float64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := post(t, app, tt.url, tt.body)
			require.Equal(t, http.StatusOK, code, body)
			assert.Equal(t, float64(len(tt.want)), body["count"])
			assert.Equal(t, tt.want, ids(t, body))
		})
	}
}

func TestHandleQuery_Errors(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		name string
		url  string
		body string
		want int
	}{
		{"MissingTable", "/query/nope", `{}`, fiber.StatusNotFound},
		{"BadOperator", "/query/orders", `{"drop": {"id": 1}}`, fiber.StatusBadRequest},
		{"BadShape", "/query/orders", `{"=": ["status"]}`, fiber.StatusBadRequest},
		{"BadJSON", "/query/orders", `{`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := post(t, app, tt.url, tt.body)
			assert.Equal(t, tt.want, code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleQuery_NoDatabase(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(nil, zap.NewNop())).RegisterRoutes(app)

	code, _ := post(t, app, "/query/orders", `{}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
}

func TestLoader(t *testing.T) {
	feature := NewFeature(nil, zap.NewNop())
	assert.Equal(t, "query", feature.Name())
	assert.False(t, feature.IsEnabled())

	feature = NewFeature(setupOrders(t), zap.NewNop())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
