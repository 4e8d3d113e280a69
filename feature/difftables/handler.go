package difftables

import (
	"errors"
	"strings"

	"dbkit/core/logger"
	"dbkit/core/reconcile"
	"dbkit/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var errInvalidRequest = errors.New("invalid request")

// Handler handles HTTP requests for table reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the difftables routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/difftables")
	group.Get("/report", h.HandleReport)
	group.Get("/new-items", h.HandleNewItems)
	group.Post("/merge", h.HandleMerge)
	group.Post("/exports", h.HandleExport)
	group.Get("/exports", h.HandleListExports)
	group.Get("/exports/*", h.HandleGetExport)
	group.Delete("/exports/*", h.HandleDeleteExport)
}

// mergeBody is the JSON body of POST /difftables/merge.
type mergeBody struct {
	reconcile.Spec
	SkipMatched   bool `json:"skip_matched"`
	SkipUnmatched bool `json:"skip_unmatched"`
	DryRun        bool `json:"dry_run"`
	Atomic        bool `json:"atomic"`
	Export        bool `json:"export"`
}

// specFromQuery reads base, merge, pivot, column and primary_key query
// parameters. pivot and column may repeat or hold comma-separated pairs.
func specFromQuery(c *fiber.Ctx) reconcile.Spec {
	return reconcile.Spec{
		BaseTable:  c.Query("base"),
		MergeTable: c.Query("merge"),
		Pivots:     reconcile.ParsePairs(multiQuery(c, "pivot")),
		Columns:    reconcile.ParsePairs(multiQuery(c, "column")),
		PrimaryKey: c.Query("primary_key"),
	}
}

func multiQuery(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		out = append(out, strings.Split(string(raw), ",")...)
	}
	return out
}

// status maps service errors to HTTP status codes.
func status(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrTableNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrColumnNotFound),
		errors.Is(err, reconcile.ErrPivotNotSet),
		errors.Is(err, errInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNoDatabase), errors.Is(err, ErrExportDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	code := status(err)
	l := logger.WithRayID(h.service.logger, c)
	if code >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// HandleReport returns the diff report of two tables.
// @Summary Diff Report
// @Description Compare a merge table against a base table. detail=basic returns only the per-column change counts.
// @Tags difftables
// @Produce json
// @Param base query string true "Base (destination) table"
// @Param merge query string true "Merge (source) table"
// @Param pivot query []string true "Pivot pair base[:merge]"
// @Param column query []string false "Column pair base[:merge]"
// @Param primary_key query string false "Primary key column"
// @Param detail query string false "full (default) or basic"
// @Param new_items query bool false "Include the merge rows without a base counterpart"
// @Success 200 {object} map[string]interface{} "Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Table Not Found"
// @Router /difftables/report [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	snap, err := h.service.Report(c.UserContext(), specFromQuery(c))
	if err != nil {
		return h.fail(c, "Diff report failed", err)
	}

	resp := fiber.Map{
		"base":      snap.BaseTable,
		"merge":     snap.MergeTable,
		"summary":   snap.Summary,
		"matched":   len(snap.Matched),
		"unmatched": len(snap.Unmatched),
		"built":     snap.Built,
	}
	if c.Query("detail") != "basic" {
		resp["report"] = snap.Report
	}
	if utils.ToBool(c.Query("new_items")) {
		resp["new_items"] = snap.Unmatched
	}
	return c.JSON(resp)
}

// HandleNewItems returns the merge rows missing from the base table.
// @Summary New Items
// @Description List merge-table rows without a counterpart in the base table.
// @Tags difftables
// @Produce json
// @Param base query string true "Base (destination) table"
// @Param merge query string true "Merge (source) table"
// @Param pivot query []string true "Pivot pair base[:merge]"
// @Success 200 {object} map[string]interface{} "New Items"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /difftables/new-items [get]
func (h *Handler) HandleNewItems(c *fiber.Ctx) error {
	items, err := h.service.NewItems(c.UserContext(), specFromQuery(c))
	if err != nil {
		return h.fail(c, "New items lookup failed", err)
	}
	return c.JSON(fiber.Map{
		"count": len(items),
		"items": items,
	})
}

// HandleMerge merges the merge table into the base table.
// @Summary Merge Tables
// @Description Update matched rows and insert new ones. dry_run returns the plan only.
// @Tags difftables
// @Accept json
// @Produce json
// @Success 200 {object} MergeResult "Merge Result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Table Not Found"
// @Router /difftables/merge [post]
func (h *Handler) HandleMerge(c *fiber.Ctx) error {
	var body mergeBody
	if err := c.BodyParser(&body); err != nil {
		return h.fail(c, "Invalid merge body", errors.Join(errInvalidRequest, err))
	}

	result, err := h.service.Merge(c.UserContext(), body.Spec, MergeRequest{
		MergeOptions: reconcile.MergeOptions{
			SkipMatched:   body.SkipMatched,
			SkipUnmatched: body.SkipUnmatched,
		},
		DryRun: body.DryRun,
		Atomic: body.Atomic,
		Export: body.Export,
	})
	if err != nil {
		return h.fail(c, "Merge failed", err)
	}
	return c.JSON(result)
}

// HandleExport uploads the current report to object storage.
// @Summary Export Report
// @Tags difftables
// @Produce json
// @Param base query string true "Base (destination) table"
// @Param merge query string true "Merge (source) table"
// @Param pivot query []string true "Pivot pair base[:merge]"
// @Success 201 {object} map[string]string "Export"
// @Failure 503 {object} map[string]string "Export Disabled"
// @Router /difftables/exports [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	object, err := h.service.Export(c.UserContext(), specFromQuery(c))
	if err != nil {
		return h.fail(c, "Report export failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"object": object})
}

// HandleListExports lists exported reports.
// @Summary List Exports
// @Tags difftables
// @Produce json
// @Success 200 {array} reconcile.ExportInfo "Exports"
// @Router /difftables/exports [get]
func (h *Handler) HandleListExports(c *fiber.Ctx) error {
	exports, err := h.service.ListExports(c.UserContext())
	if err != nil {
		return h.fail(c, "Listing exports failed", err)
	}
	return c.JSON(exports)
}

// HandleGetExport returns an exported report.
// @Summary Get Export
// @Tags difftables
// @Produce json
// @Param object path string true "Object name"
// @Success 200 {object} reconcile.Snapshot "Report"
// @Router /difftables/exports/{object} [get]
func (h *Handler) HandleGetExport(c *fiber.Ctx) error {
	snap, err := h.service.LoadExport(c.UserContext(), c.Params("*"))
	if err != nil {
		return h.fail(c, "Loading export failed", err)
	}
	return c.JSON(snap)
}

// HandleDeleteExport removes an exported report.
// @Summary Delete Export
// @Tags difftables
// @Param object path string true "Object name"
// @Success 204 "Deleted"
// @Router /difftables/exports/{object} [delete]
func (h *Handler) HandleDeleteExport(c *fiber.Ctx) error {
	if err := h.service.DeleteExport(c.UserContext(), c.Params("*")); err != nil {
		return h.fail(c, "Deleting export failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
