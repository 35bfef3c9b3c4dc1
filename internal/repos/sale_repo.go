package repos

import (
	"github.com/jmoiron/sqlx"

	"salepoint/internal/domain"
)

type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

// ---------- Sales list ----------
type SaleSummary struct {
	ID        string  `db:"id"`
	Username  string  `db:"username"`
	Total     float64 `db:"total_amount"`
	CreatedAt string  `db:"created_at"`
}

// ---------- Sale detail (used by /sales/view/:id) ----------
type SaleItemRow struct {
	ProductID   string  `db:"product_id"`
	ProductName string  `db:"product_name"`
	SKU         string  `db:"sku"`
	Qty         int     `db:"quantity_sold"`
	ItemPrice   float64 `db:"item_price"`
	LineTotal   float64 `db:"line_total"`
}

func (r *SaleRepo) Create(ext sqlx.Ext, id, userID string) error {
	_, err := ext.Exec(`
	  INSERT INTO sales(id, user_id, total_amount) VALUES(?, ?, 0)
	`, id, userID)
	return err
}

// GetIn reads the sale header through the caller's transaction.
func (r *SaleRepo) GetIn(ext sqlx.Ext, saleID string) (domain.Sale, error) {
	var s domain.Sale
	err := sqlx.Get(ext, &s, `
	  SELECT id, user_id, total_amount, created_at FROM sales WHERE id = ?
	`, saleID)
	return s, err
}

func (r *SaleRepo) Get(saleID string) (domain.Sale, error) { return r.GetIn(r.db, saleID) }

// Item reads one line through the caller's transaction.
// Returns sql.ErrNoRows when the line does not exist.
func (r *SaleRepo) Item(ext sqlx.Ext, saleID, productID string) (domain.SaleItem, error) {
	var it domain.SaleItem
	err := sqlx.Get(ext, &it, `
	  SELECT sale_id, product_id, quantity_sold, item_price
	  FROM sale_items
	  WHERE sale_id = ? AND product_id = ?
	`, saleID, productID)
	return it, err
}

func (r *SaleRepo) InsertItem(ext sqlx.Ext, saleID, productID string, qty int, price float64) error {
	_, err := ext.Exec(`
	  INSERT INTO sale_items(sale_id, product_id, quantity_sold, item_price)
	  VALUES(?, ?, ?, ?)
	`, saleID, productID, qty, price)
	return err
}

// BumpItem adjusts a line quantity by delta (positive or negative).
func (r *SaleRepo) BumpItem(ext sqlx.Ext, saleID, productID string, delta int) error {
	_, err := ext.Exec(`
	  UPDATE sale_items
	  SET quantity_sold = quantity_sold + ?
	  WHERE sale_id = ? AND product_id = ?
	`, delta, saleID, productID)
	return err
}

func (r *SaleRepo) DeleteItem(ext sqlx.Ext, saleID, productID string) error {
	_, err := ext.Exec(`
	  DELETE FROM sale_items WHERE sale_id = ? AND product_id = ?
	`, saleID, productID)
	return err
}

// AddToTotal moves the denormalized sale total by delta. The delta is
// computed against the stored snapshot price, never the live catalog price.
func (r *SaleRepo) AddToTotal(ext sqlx.Ext, saleID string, delta float64) error {
	_, err := ext.Exec(`
	  UPDATE sales SET total_amount = total_amount + ? WHERE id = ?
	`, delta, saleID)
	return err
}

// View returns the sale header with the seller's username plus its lines
// joined with product name/SKU, ordered by product name for display.
func (r *SaleRepo) View(saleID string) (SaleSummary, []SaleItemRow, error) {
	var s SaleSummary
	if err := r.db.Get(&s, `
	  SELECT sl.id, u.username, sl.total_amount, sl.created_at
	  FROM sales sl
	  JOIN users u ON u.id = sl.user_id
	  WHERE sl.id = ?
	`, saleID); err != nil {
		return SaleSummary{}, nil, err
	}

	var items []SaleItemRow
	if err := r.db.Select(&items, `
	  SELECT si.product_id, p.name AS product_name, p.sku,
	         si.quantity_sold, si.item_price,
	         (si.quantity_sold * si.item_price) AS line_total
	  FROM sale_items si
	  JOIN products p ON p.id = si.product_id
	  WHERE si.sale_id = ?
	  ORDER BY p.name
	`, saleID); err != nil {
		return SaleSummary{}, nil, err
	}

	return s, items, nil
}

func (r *SaleRepo) ListLatest(limit int) ([]SaleSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []SaleSummary
	err := r.db.Select(&out, `
	  SELECT sl.id, u.username, sl.total_amount, sl.created_at
	  FROM sales sl
	  JOIN users u ON u.id = sl.user_id
	  ORDER BY datetime(sl.created_at) DESC, sl.id DESC
	  LIMIT ?
	`, limit)
	return out, err
}
