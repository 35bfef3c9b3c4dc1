package domain

import "database/sql"

type Supplier struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	ContactInfo string `db:"contact_info"`
	CreatedAt   string `db:"created_at"`
}

type Product struct {
	ID         string         `db:"id"`
	Name       string         `db:"name"`
	SKU        string         `db:"sku"`
	Price      float64        `db:"price"`
	Quantity   int            `db:"quantity"`
	SupplierID sql.NullString `db:"supplier_id"` // weak reference; supplier may be gone
	CreatedAt  string         `db:"created_at"`
	UpdatedAt  string         `db:"updated_at"`
}

type Sale struct {
	ID        string  `db:"id"`
	UserID    string  `db:"user_id"`
	Total     float64 `db:"total_amount"`
	CreatedAt string  `db:"created_at"`
}

// SaleItem is one line of a sale. ItemPrice is the catalog price captured
// when the line was first created; later quantity changes never re-read it.
type SaleItem struct {
	SaleID    string  `db:"sale_id"`
	ProductID string  `db:"product_id"`
	Qty       int     `db:"quantity_sold"`
	ItemPrice float64 `db:"item_price"`
}
