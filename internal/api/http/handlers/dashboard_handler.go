package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/green-campus/internal/api/dto"
	"github.com/spec-kit/green-campus/internal/service"
	apperrors "github.com/spec-kit/green-campus/pkg/util"
)

// DashboardHandler serves the campus metrics dataset.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Get GET /api/dashboard.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	dashboard, err := h.service.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"dashboard": dto.NewDashboard(dashboard)})
}

// Update PUT /api/dashboard.
func (h *DashboardHandler) Update(c *fiber.Ctx) error {
	identity, err := adminIdentity(c, "Unauthorized - Admin only")
	if err != nil {
		return err
	}
	var req dto.Dashboard
	if len(c.Body()) == 0 {
		return apperrors.NewValidationError("No data provided", nil)
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid dashboard payload", nil)
	}
	if req.Empty() {
		return apperrors.NewValidationError("No data provided", nil)
	}
	if err := h.service.Update(c.UserContext(), req.ToDomain(), identity); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Dashboard updated successfully"})
}
