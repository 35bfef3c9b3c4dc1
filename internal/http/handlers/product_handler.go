package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"salepoint/internal/apperr"
	applog "salepoint/internal/log"
	"salepoint/internal/services"
	"salepoint/internal/validate"
)

type ProductHandler struct {
	Catalog   *services.CatalogService
	Suppliers *services.SupplierService
}

// GET /products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.ListProducts()
	if err != nil {
		applog.Error(c, "products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "products", fiber.Map{"Products": products})
}

// GET /products/add
func (h *ProductHandler) AddForm(c *fiber.Ctx) error {
	suppliers, err := h.Suppliers.List()
	if err != nil {
		applog.Error(c, "products.form.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load suppliers"})
	}
	return render(c, "product_form", fiber.Map{"Suppliers": suppliers})
}

func (h *ProductHandler) readInput(c *fiber.Ctx) (services.ProductInput, bool) {
	name, okName := validate.Name(c.FormValue("name"))
	sku, okSKU := validate.SKU(c.FormValue("sku"))
	price, okPrice := validate.Price(c.FormValue("price"))
	qty, okQty := validate.StockQty(c.FormValue("quantity"))
	if !okName || !okSKU || !okPrice || !okQty {
		return services.ProductInput{}, false
	}
	return services.ProductInput{
		Name:       name,
		SKU:        sku,
		Price:      price,
		Quantity:   qty,
		SupplierID: c.FormValue("supplier_id"),
	}, true
}

// POST /products/add
func (h *ProductHandler) Add(c *fiber.Ctx) error {
	in, ok := h.readInput(c)
	if !ok {
		suppliers, _ := h.Suppliers.List()
		return c.Status(400).Render("product_form", fiber.Map{
			"Suppliers": suppliers,
			"Err":       "Name, SKU, price (> 0) and quantity (>= 0) are required.",
		})
	}
	id, err := h.Catalog.CreateProduct(in)
	if err != nil {
		applog.Error(c, "products.add.fail", err, map[string]any{"sku": in.SKU})
		suppliers, _ := h.Suppliers.List()
		return c.Status(400).Render("product_form", fiber.Map{
			"Suppliers": suppliers,
			"Err":       "Could not save the product. Is the SKU unique?",
		})
	}
	applog.Audit(c, "products.add", map[string]any{"product_id": id, "sku": in.SKU})
	return c.Redirect("/products")
}

// GET /products/edit/:id
func (h *ProductHandler) EditForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	suppliers, _ := h.Suppliers.List()
	return render(c, "product_form", fiber.Map{"P": p, "Suppliers": suppliers})
}

// POST /products/edit/:id
func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	in, okIn := h.readInput(c)
	if !okID || !okIn {
		return c.Status(400).SendString("invalid input")
	}
	if err := h.Catalog.UpdateProduct(id, in); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
		}
		applog.Error(c, "products.edit.fail", err, map[string]any{"product_id": id})
		return c.Status(400).SendString("could not update product")
	}
	applog.Audit(c, "products.edit", map[string]any{"product_id": id})
	return c.Redirect("/products")
}

// POST /products/delete/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid id")
	}
	if err := h.Catalog.DeleteProduct(id); err != nil {
		applog.Error(c, "products.delete.fail", err, map[string]any{"product_id": id})
		return c.Status(400).SendString("could not delete product")
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": id})
	return c.Redirect("/products")
}
