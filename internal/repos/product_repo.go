package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"salepoint/internal/apperr"
	"salepoint/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// Row used by the catalog pages (supplier name joined; empty when the
// supplier is gone).
type ProductRow struct {
	domain.Product
	SupplierName string `db:"supplier_name"`
}

func (r *ProductRepo) List() ([]ProductRow, error) {
	var out []ProductRow
	err := r.db.Select(&out, `
	  SELECT p.id, p.name, p.sku, p.price, p.quantity, p.supplier_id,
	         p.created_at, COALESCE(p.updated_at,'') AS updated_at,
	         COALESCE(s.name,'') AS supplier_name
	  FROM products p
	  LEFT JOIN suppliers s ON s.id = p.supplier_id
	  ORDER BY p.created_at DESC, p.name
	`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	return getProduct(r.db, id)
}

// GetIn reads a product through the caller's transaction.
func (r *ProductRepo) GetIn(ext sqlx.Ext, id string) (domain.Product, error) {
	return getProduct(ext, id)
}

func getProduct(q sqlx.Queryer, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.Get(q, &p, `
	  SELECT id, name, sku, price, quantity, supplier_id,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE id = ?
	`, id)
	return p, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, sku, price, quantity, supplier_id)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.SKU, p.Price, p.Quantity, p.SupplierID)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET name=?, sku=?, price=?, quantity=?, supplier_id=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.Name, p.SKU, p.Price, p.Quantity, p.SupplierID, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	return err
}

// Reserve atomically subtracts qty units if enough stock exists. The guard
// lives in the WHERE clause, never in application code, so concurrent
// reservations cannot lose updates. Zero rows affected means insufficient
// stock; the current quantity is re-read for the error.
func (r *ProductRepo) Reserve(ext sqlx.Ext, productID string, qty int) error {
	res, err := ext.Exec(`
		UPDATE products
		SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity >= ?
	`, qty, productID, qty)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var avail int
		if err := sqlx.Get(ext, &avail, `SELECT quantity FROM products WHERE id=?`, productID); err != nil {
			if err == sql.ErrNoRows {
				return apperr.ErrNotFound
			}
			return err
		}
		return &apperr.InsufficientStockError{ProductID: productID, Available: avail}
	}
	return nil
}

// Release puts qty units back, unconditionally.
func (r *ProductRepo) Release(ext sqlx.Ext, productID string, qty int) error {
	res, err := ext.Exec(`
		UPDATE products
		SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
