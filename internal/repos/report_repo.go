package repos

import "github.com/jmoiron/sqlx"

type ReportRepo struct{ db *sqlx.DB }

func NewReportRepo(db *sqlx.DB) *ReportRepo { return &ReportRepo{db: db} }

type SalesSummary struct {
	Count  int     `db:"sales_count"`
	Amount float64 `db:"total_amount"`
}

type ProductTotal struct {
	ProductName string  `db:"product_name"`
	TotalQty    int     `db:"total_qty"`
	TotalAmount float64 `db:"total_amount"`
}

type LowStockRow struct {
	ProductName string `db:"product_name"`
	SKU         string `db:"sku"`
	Quantity    int    `db:"quantity"`
}

type RevenueSummary struct {
	Revenue float64 `db:"revenue"`
	Items   int     `db:"items"`
}

// LowStock lists products under the given threshold, scarcest first.
func (r *ReportRepo) LowStock(threshold int) ([]LowStockRow, error) {
	var out []LowStockRow
	err := r.db.Select(&out, `
	  SELECT name AS product_name, sku, quantity
	  FROM products
	  WHERE quantity < ?
	  ORDER BY quantity ASC, name
	`, threshold)
	return out, err
}

func (r *ReportRepo) TodaySales() (SalesSummary, error) {
	var s SalesSummary
	err := r.db.Get(&s, `
	  SELECT COUNT(*) AS sales_count, COALESCE(SUM(total_amount),0) AS total_amount
	  FROM sales
	  WHERE DATE(created_at) = DATE('now')
	`)
	return s, err
}

func (r *ReportRepo) MonthSales() (SalesSummary, error) {
	var s SalesSummary
	err := r.db.Get(&s, `
	  SELECT COUNT(*) AS sales_count, COALESCE(SUM(total_amount),0) AS total_amount
	  FROM sales
	  WHERE strftime('%Y-%m', created_at) = strftime('%Y-%m', 'now')
	`)
	return s, err
}

// TopProducts ranks products by units sold across all sales.
func (r *ReportRepo) TopProducts(limit int) ([]ProductTotal, error) {
	if limit <= 0 {
		limit = 5
	}
	var out []ProductTotal
	err := r.db.Select(&out, `
	  SELECT p.name AS product_name,
	         SUM(si.quantity_sold) AS total_qty,
	         SUM(si.quantity_sold * si.item_price) AS total_amount
	  FROM sale_items si
	  JOIN products p ON p.id = si.product_id
	  GROUP BY si.product_id
	  ORDER BY total_qty DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *ReportRepo) OverallRevenue() (RevenueSummary, error) {
	var s RevenueSummary
	err := r.db.Get(&s, `
	  SELECT COALESCE(SUM(si.quantity_sold * si.item_price),0) AS revenue,
	         COALESCE(SUM(si.quantity_sold),0) AS items
	  FROM sale_items si
	`)
	return s, err
}

func (r *ReportRepo) TodayRevenue() (RevenueSummary, error) {
	var s RevenueSummary
	err := r.db.Get(&s, `
	  SELECT COALESCE(SUM(si.quantity_sold * si.item_price),0) AS revenue,
	         COALESCE(SUM(si.quantity_sold),0) AS items
	  FROM sale_items si
	  JOIN sales sl ON sl.id = si.sale_id
	  WHERE DATE(sl.created_at) = DATE('now')
	`)
	return s, err
}

func (r *ReportRepo) MonthRevenue() (RevenueSummary, error) {
	var s RevenueSummary
	err := r.db.Get(&s, `
	  SELECT COALESCE(SUM(si.quantity_sold * si.item_price),0) AS revenue,
	         COALESCE(SUM(si.quantity_sold),0) AS items
	  FROM sale_items si
	  JOIN sales sl ON sl.id = si.sale_id
	  WHERE strftime('%Y-%m', sl.created_at) = strftime('%Y-%m', 'now')
	`)
	return s, err
}
