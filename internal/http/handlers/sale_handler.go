package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"salepoint/internal/apperr"
	"salepoint/internal/domain"
	applog "salepoint/internal/log"
	"salepoint/internal/services"
	"salepoint/internal/validate"
)

type SaleHandler struct {
	Sales   *services.SaleService
	Catalog *services.CatalogService
}

// GET /sales
func (h *SaleHandler) List(c *fiber.Ctx) error {
	sales, err := h.Sales.ListLatest(100)
	if err != nil {
		applog.Error(c, "sales.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load sales"})
	}
	return render(c, "sales", fiber.Map{"Sales": sales})
}

// POST /sales/new — opens an empty sale and jumps into item entry.
func (h *SaleHandler) New(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	saleID, err := h.Sales.Open(u.ID)
	if err != nil {
		applog.Error(c, "sales.open.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not start a sale"})
	}
	applog.Audit(c, "sales.open", map[string]any{"sale_id": saleID})
	return c.Redirect("/sales/add-item/" + saleID)
}

// renderItemEntry shows the item-entry page: the product catalog to pick
// from plus the lines already on the sale.
func (h *SaleHandler) renderItemEntry(c *fiber.Ctx, saleID, errMsg string, status int) error {
	products, err := h.Catalog.ListProducts()
	if err != nil {
		applog.Error(c, "sales.items.load.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	view, err := h.Sales.View(saleID)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Sale not found"})
	}
	if status == 0 {
		status = 200
	}
	c.Status(status)
	return render(c, "add_sale_item", fiber.Map{
		"SaleID":   saleID,
		"Products": products,
		"Sale":     view.Sale,
		"Items":    view.Items,
		"Err":      errMsg,
	})
}

// GET /sales/add-item/:id
func (h *SaleHandler) AddItemForm(c *fiber.Ctx) error {
	saleID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Sale not found"})
	}
	return h.renderItemEntry(c, saleID, "", 200)
}

// POST /sales/add-item/:id
func (h *SaleHandler) AddItem(c *fiber.Ctx) error {
	saleID, okSale := validate.ID(c.Params("id"))
	productID, okProd := validate.ID(c.FormValue("product_id"))
	if !okSale || !okProd {
		return c.Status(400).SendString("invalid input")
	}
	qty := validate.Qty(c.FormValue("quantity"))

	err := h.Sales.AddOrIncrease(saleID, productID, qty)
	switch {
	case err == nil:
		applog.Audit(c, "sales.item.add", map[string]any{"sale_id": saleID, "product_id": productID, "qty": qty})
		return c.Redirect("/sales/add-item/" + saleID)
	case errors.Is(err, apperr.ErrValidation):
		return h.renderItemEntry(c, saleID, "Quantity must be at least 1.", 400)
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Sale or product not found"})
	default:
		if ise, ok := apperr.AsInsufficientStock(err); ok {
			return h.renderItemEntry(c, saleID, fmt.Sprintf("Not enough stock. Available: %d", ise.Available), 400)
		}
		applog.Error(c, "sales.item.add.fail", err, map[string]any{"sale_id": saleID, "product_id": productID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not add the item"})
	}
}

// POST /sales/item/increase/:sale/:product
func (h *SaleHandler) Increase(c *fiber.Ctx) error {
	saleID, okSale := validate.ID(c.Params("sale"))
	productID, okProd := validate.ID(c.Params("product"))
	if !okSale || !okProd {
		return c.Status(400).SendString("invalid input")
	}
	if err := h.Sales.IncreaseByOne(saleID, productID); err != nil {
		if ise, ok := apperr.AsInsufficientStock(err); ok {
			return h.renderItemEntry(c, saleID, fmt.Sprintf("Not enough stock. Available: %d", ise.Available), 400)
		}
		applog.Error(c, "sales.item.increase.fail", err, map[string]any{"sale_id": saleID, "product_id": productID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not update the item"})
	}
	applog.Audit(c, "sales.item.increase", map[string]any{"sale_id": saleID, "product_id": productID})
	return c.Redirect("/sales/add-item/" + saleID)
}

// POST /sales/item/decrease/:sale/:product
func (h *SaleHandler) Decrease(c *fiber.Ctx) error {
	saleID, okSale := validate.ID(c.Params("sale"))
	productID, okProd := validate.ID(c.Params("product"))
	if !okSale || !okProd {
		return c.Status(400).SendString("invalid input")
	}
	if err := h.Sales.DecreaseByOne(saleID, productID); err != nil {
		applog.Error(c, "sales.item.decrease.fail", err, map[string]any{"sale_id": saleID, "product_id": productID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not update the item"})
	}
	applog.Audit(c, "sales.item.decrease", map[string]any{"sale_id": saleID, "product_id": productID})
	return c.Redirect("/sales/add-item/" + saleID)
}

// POST /sales/item/remove/:sale/:product
func (h *SaleHandler) Remove(c *fiber.Ctx) error {
	saleID, okSale := validate.ID(c.Params("sale"))
	productID, okProd := validate.ID(c.Params("product"))
	if !okSale || !okProd {
		return c.Status(400).SendString("invalid input")
	}
	if err := h.Sales.RemoveLine(saleID, productID); err != nil {
		applog.Error(c, "sales.item.remove.fail", err, map[string]any{"sale_id": saleID, "product_id": productID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not remove the item"})
	}
	applog.Audit(c, "sales.item.remove", map[string]any{"sale_id": saleID, "product_id": productID})
	return c.Redirect("/sales/add-item/" + saleID)
}

// GET /sales/view/:id
func (h *SaleHandler) View(c *fiber.Ctx) error {
	saleID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Sale not found"})
	}
	view, err := h.Sales.View(saleID)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Sale not found"})
	}
	return render(c, "view_sale", fiber.Map{"Sale": view.Sale, "Items": view.Items})
}
