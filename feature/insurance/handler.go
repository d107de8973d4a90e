package insurance

import (
	"errors"

	"listing-sync/core/logger"
	"listing-sync/core/reconcile"
	"listing-sync/feature/encar"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for insurance checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the insurance routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/insurance")
	group.Get("/:carID", h.HandleCheck)
}

// HandleCheck checks one listing's insurance history.
// @Summary Check Insurance History
// @Description Fetches the insurance history of a listing and evaluates the configured conditions, or the ones given in the query.
// @Tags insurance
// @Produce json
// @Param carID path string true "Listing ID"
// @Param conditions query string false "Condition list, e.g. general==정상;owner_changed<=2"
// @Success 200 {object} insurance.Report "Insurance Report"
// @Failure 400 {object} map[string]string "Invalid conditions"
// @Failure 502 {object} map[string]string "Marketplace unavailable"
// @Router /insurance/{carID} [get]
func (h *Handler) HandleCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	carID := c.Params("carID")

	conditions := h.service.Conditions()
	if raw := c.Query("conditions"); raw != "" {
		parsed, err := reconcile.ParseConditions(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		conditions = parsed
	}

	report, err := h.service.CheckWith(c.Context(), carID, conditions)
	if err != nil {
		if reconcile.IsConfigurationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		var statusErr *encar.StatusError
		if errors.As(err, &statusErr) || errors.Is(err, encar.ErrNoInsuranceData) || errors.Is(err, encar.ErrMalformedInsurance) {
			l.Warn("Insurance lookup failed", zap.String("car_id", carID), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Insurance check failed", zap.String("car_id", carID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}
