package query

import (
	"errors"

	"dbkit/core/logger"
	dyn "dbkit/core/query"
	"dbkit/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for dynamic queries.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the query routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/query/:table", h.HandleQuery)
}

func status(err error) int {
	switch {
	case errors.Is(err, dyn.ErrTableNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, dyn.ErrInvalidOperator), errors.Is(err, dyn.ErrInvalidCondition):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNoDatabase):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleQuery runs a filter map against a table.
// @Summary Dynamic Query
// @Description Filter a table with an operator-keyed JSON object. Values are bound; backtick-quoted values name columns.
// @Tags query
// @Accept json
// @Produce json
// @Param table path string true "Table name"
// @Param date_column query string false "Date column for the calendar filter"
// @Param year query int false "Year"
// @Param month query int false "Month"
// @Param day query int false "Day"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} map[string]interface{} "Rows"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Table Not Found"
// @Router /query/{table} [post]
func (h *Handler) HandleQuery(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	conditions := map[string]any{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&conditions); err != nil {
			l.Debug("Invalid query body", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	rows, err := h.service.Query(c.UserContext(), Request{
		Table:      c.Params("table"),
		Conditions: conditions,
		DateColumn: c.Query("date_column"),
		Year:       utils.ToInt(c.Query("year")),
		Month:      utils.ToInt(c.Query("month")),
		Day:        utils.ToInt(c.Query("day")),
		Limit:      utils.ToInt(c.Query("limit")),
	})
	if err != nil {
		code := status(err)
		if code >= fiber.StatusInternalServerError {
			l.Error("Dynamic query failed", zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"count": len(rows),
		"rows":  rows,
	})
}
