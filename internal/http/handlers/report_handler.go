package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "salepoint/internal/log"
	"salepoint/internal/services"
)

type ReportHandler struct {
	Reports *services.ReportService
}

// GET /sales/reports
func (h *ReportHandler) SalesReport(c *fiber.Ctx) error {
	r, err := h.Reports.SalesReport()
	if err != nil {
		applog.Error(c, "reports.sales.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load reports"})
	}
	return render(c, "sales_reports", fiber.Map{
		"Overall":     r.Overall,
		"Today":       r.Today,
		"Month":       r.Month,
		"TopProducts": r.TopProducts,
	})
}
