package listings

import (
	"errors"

	"listing-sync/core/logger"
	"listing-sync/feature/listings/history"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for listing reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the listing routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/listings")
	group.Get("/plan", h.HandlePlan)
	group.Post("/sync", h.HandleSync)
	group.Get("/runs", h.HandleRuns)
	group.Get("/runs/:id", h.HandleRun)
	group.Get("/runs/:id/archive", h.HandleArchive)
}

// HandlePlan returns the reconcile plan without executing it.
// @Summary Plan Reconciliation
// @Description Compares the live feed with the stored records and returns the planned actions. Snapshots are cached for a short time.
// @Tags listings
// @Produce json
// @Success 200 {object} reconcile.ReconcilePlan "Reconcile Plan"
// @Failure 400 {object} map[string]string "Target not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /listings/plan [get]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, err := h.service.Plan(c.Context())
	if err != nil {
		if errors.Is(err, ErrTargetNotConfigured) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Plan failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(plan)
}

// HandleSync runs a reconciliation pass.
// @Summary Run Sync
// @Description Loads a fresh snapshot, plans and executes it. Failed actions do not stop the others; the run is recorded either way.
// @Tags listings
// @Produce json
// @Param dry_run query bool false "Plan and archive only"
// @Param sync query bool false "Create, update and mark unavailable (default from config)"
// @Param purge query bool false "Trash expired records (default from config)"
// @Success 200 {object} history.SyncRun "Sync Run"
// @Failure 400 {object} map[string]string "Target not configured"
// @Failure 409 {object} map[string]string "Sync in progress"
// @Failure 502 {object} map[string]interface{} "Run finished with failures"
// @Router /listings/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	defaults := h.service.DefaultOptions()
	opts := SyncOptions{
		DryRun:  c.QueryBool("dry_run", false),
		DoSync:  c.QueryBool("sync", defaults.DoSync),
		DoPurge: c.QueryBool("purge", defaults.DoPurge),
	}

	run, err := h.service.Sync(c.Context(), opts)
	switch {
	case err == nil:
		return c.JSON(run)
	case errors.Is(err, ErrTargetNotConfigured):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrSyncInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case run != nil:
		l.Warn("Sync finished with failures", zap.String("run_id", run.ID), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error(), "run": run})
	default:
		l.Error("Sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// HandleRuns lists recent runs.
// @Summary List Runs
// @Tags listings
// @Produce json
// @Param limit query int false "Maximum number of runs" default(20)
// @Success 200 {array} history.SyncRun "Sync Runs"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /listings/runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	runs, err := h.service.Runs(c.Context(), c.QueryInt("limit", history.DefaultListLimit))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Listing runs failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}

// HandleRun returns one run.
// @Summary Get Run
// @Tags listings
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} history.SyncRun "Sync Run"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /listings/runs/{id} [get]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	run, err := h.service.Run(c.Context(), c.Params("id"))
	if err != nil {
		return h.lookupError(c, err)
	}
	return c.JSON(run)
}

// HandleArchive returns the snapshot and plan archived for a run.
// @Summary Get Run Archive
// @Tags listings
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} listings.RunArchive "Run Archive"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 503 {object} map[string]string "Archive disabled"
// @Router /listings/runs/{id}/archive [get]
func (h *Handler) HandleArchive(c *fiber.Ctx) error {
	archive, err := h.service.Archive(c.Context(), c.Params("id"))
	if err != nil {
		return h.lookupError(c, err)
	}
	return c.JSON(archive)
}

func (h *Handler) lookupError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, history.ErrNotFound), errors.Is(err, ErrArchiveNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrArchiveDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error("Run lookup failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
