package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"salepoint/internal/apperr"
	applog "salepoint/internal/log"
	"salepoint/internal/services"
	"salepoint/internal/validate"
)

type SupplierHandler struct {
	Suppliers *services.SupplierService
}

// GET /suppliers
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	suppliers, err := h.Suppliers.List()
	if err != nil {
		applog.Error(c, "suppliers.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load suppliers"})
	}
	return render(c, "suppliers", fiber.Map{"Suppliers": suppliers})
}

// GET /suppliers/add
func (h *SupplierHandler) AddForm(c *fiber.Ctx) error {
	return render(c, "supplier_form", fiber.Map{})
}

// POST /suppliers/add
func (h *SupplierHandler) Add(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	contact := c.FormValue("contact_info")
	if !ok || contact == "" {
		return c.Status(400).Render("supplier_form", fiber.Map{"Err": "Both fields are required."})
	}
	id, err := h.Suppliers.Create(name, contact)
	if err != nil {
		applog.Error(c, "suppliers.add.fail", err, nil)
		return c.Status(400).Render("supplier_form", fiber.Map{"Err": "Could not save the supplier."})
	}
	applog.Audit(c, "suppliers.add", map[string]any{"supplier_id": id})
	return c.Redirect("/suppliers")
}

// GET /suppliers/edit/:id
func (h *SupplierHandler) EditForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Supplier not found"})
	}
	s, err := h.Suppliers.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Supplier not found"})
	}
	return render(c, "supplier_form", fiber.Map{"S": s})
}

// POST /suppliers/edit/:id
func (h *SupplierHandler) Edit(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	name, okName := validate.Name(c.FormValue("name"))
	contact := c.FormValue("contact_info")
	if !okID || !okName || contact == "" {
		return c.Status(400).SendString("invalid input")
	}
	if err := h.Suppliers.Update(id, name, contact); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "Supplier not found"})
		}
		applog.Error(c, "suppliers.edit.fail", err, map[string]any{"supplier_id": id})
		return c.Status(400).SendString("could not update supplier")
	}
	applog.Audit(c, "suppliers.edit", map[string]any{"supplier_id": id})
	return c.Redirect("/suppliers")
}

// POST /suppliers/delete/:id
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid id")
	}
	if err := h.Suppliers.Delete(id); err != nil {
		applog.Error(c, "suppliers.delete.fail", err, map[string]any{"supplier_id": id})
		return c.Status(400).SendString("could not delete supplier")
	}
	applog.Audit(c, "suppliers.delete", map[string]any{"supplier_id": id})
	return c.Redirect("/suppliers")
}
