package handlers

import (
	"github.com/gofiber/fiber/v2"

	"salepoint/internal/domain"
	applog "salepoint/internal/log"
	"salepoint/internal/services"
)

type DashboardHandler struct {
	Reports *services.ReportService
}

// GET /dashboard
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	d, err := h.Reports.Dashboard(u.IsManager())
	if err != nil {
		applog.Error(c, "dashboard.load.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the dashboard"})
	}
	return render(c, "dashboard", fiber.Map{
		"LowStock":    d.LowStock,
		"Today":       d.Today,
		"Month":       d.Month,
		"TopProducts": d.TopProducts,
	})
}
