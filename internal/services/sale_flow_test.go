package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"salepoint/internal/apperr"
	"salepoint/internal/repos"
	"salepoint/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// one shared in-memory database across the pool
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE users(id TEXT PRIMARY KEY, username TEXT UNIQUE, name TEXT,
	  password_hash TEXT, role TEXT, created_at TEXT);
	CREATE TABLE suppliers(id TEXT PRIMARY KEY, name TEXT, contact_info TEXT, created_at TEXT);
	CREATE TABLE products(id TEXT PRIMARY KEY, name TEXT, sku TEXT UNIQUE,
	  price NUMERIC, quantity INTEGER CHECK (quantity >= 0), supplier_id TEXT,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE sales(id TEXT PRIMARY KEY, user_id TEXT,
	  total_amount NUMERIC NOT NULL DEFAULT 0, created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE sale_items(sale_id TEXT, product_id TEXT,
	  quantity_sold INTEGER CHECK (quantity_sold >= 1), item_price NUMERIC,
	  PRIMARY KEY(sale_id, product_id));

	INSERT INTO users(id,username,name,password_hash,role)
	  VALUES ('u-test','tester','Tester','x','CASHIER');
	INSERT INTO products(id,name,sku,price,quantity)
	  VALUES ('p-widget','Widget','WDG-1',10.00,5),
	         ('p-gadget','Gadget','GDG-1',25.00,2);
	`
	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}

func newSaleService(db *sqlx.DB) *services.SaleService {
	return services.NewSaleService(db, repos.NewSaleRepo(db), repos.NewProductRepo(db))
}

func stockOf(t *testing.T, db *sqlx.DB, productID string) int {
	t.Helper()
	var q int
	require.NoError(t, db.Get(&q, `SELECT quantity FROM products WHERE id=?`, productID))
	return q
}

func totalOf(t *testing.T, db *sqlx.DB, saleID string) float64 {
	t.Helper()
	var v float64
	require.NoError(t, db.Get(&v, `SELECT total_amount FROM sales WHERE id=?`, saleID))
	return v
}

func lineSum(t *testing.T, db *sqlx.DB, saleID string) float64 {
	t.Helper()
	var v float64
	require.NoError(t, db.Get(&v,
		`SELECT COALESCE(SUM(quantity_sold * item_price),0) FROM sale_items WHERE sale_id=?`, saleID))
	return v
}

// requireConsistent checks the cross-entity invariant: the denormalized sale
// total always equals the sum of its line totals.
func requireConsistent(t *testing.T, db *sqlx.DB, saleID string) {
	t.Helper()
	require.InDelta(t, lineSum(t, db, saleID), totalOf(t, db, saleID), 1e-9)
}

func TestSaleFlow_AddIncreaseDecreaseToRemoval(t *testing.T) {
	db := memdb(t)
	svc := newSaleService(db)

	saleID, err := svc.Open("u-test")
	require.NoError(t, err)
	require.InDelta(t, 0.0, totalOf(t, db, saleID), 1e-9)

	// Add 3 of a 5-stock, 10.00 product.
	require.NoError(t, svc.AddOrIncrease(saleID, "p-widget", 3))
	require.Equal(t, 2, stockOf(t, db, "p-widget"))
	require.InDelta(t, 30.00, totalOf(t, db, saleID), 1e-9)
	requireConsistent(t, db, saleID)

	// +1 -> qty 4, stock 1, total 40.
	require.NoError(t, svc.IncreaseByOne(saleID, "p-widget"))
	require.Equal(t, 1, stockOf(t, db, "p-widget"))
	require.InDelta(t, 40.00, totalOf(t, db, saleID), 1e-9)

	// -1 -> qty 3, stock 2, total 30.
	require.NoError(t, svc.DecreaseByOne(saleID, "p-widget"))
	require.Equal(t, 2, stockOf(t, db, "p-widget"))
	require.InDelta(t, 30.00, totalOf(t, db, saleID), 1e-9)
	requireConsistent(t, db, saleID)

	// Three more decreases walk the line down to 1 and then delete it
	// outright instead of leaving a zero-quantity row.
	require.NoError(t, svc.DecreaseByOne(saleID, "p-widget"))
	require.NoError(t, svc.DecreaseByOne(saleID, "p-widget"))
	require.NoError(t, svc.DecreaseByOne(saleID, "p-widget"))

	view, err := svc.View(saleID)
	require.NoError(t, err)
	require.Empty(t, view.Items)
	require.Equal(t, 5, stockOf(t, db, "p-widget"))
	require.InDelta(t, 0.00, totalOf(t, db, saleID), 1e-9)
	requireConsistent(t, db, saleID)
}

func TestAddOrIncrease_InsufficientStockLeavesStateUntouched(t *testing.T) {
	db := memdb(t)
	svc := newSaleService(db)

	saleID, err := svc.Open("u-test")
	require.NoError(t, err)

	err = svc.AddOrIncrease(saleID, "p-widget", 10)
	ise, ok := apperr.AsInsufficientStock(err)
	require.True(t, ok, "want InsufficientStockError, got %v", err)
	require.Equal(t, 5, ise.Available)

	require.Equal(t, 5, stockOf(t, db, "p-widget"))
	require.InDelta(t, 0.0, totalOf(t, db, saleID), 1e-9)
	view, err := svc.View(saleID)
	require.NoError(t, err)
	require.Empty(t, view.Items)
}

func TestAddOrIncrease_Preconditions(t *testing.T) {
	db := memdb(t)
	svc := newSaleService(db)

	saleID, err := svc.Open("u-test")
	require.NoError(t, err)

	require.ErrorIs(t, svc.AddOrIncrease(saleID, "p-widget", 0), apperr.ErrValidation)
	require.ErrorIs(t, svc.AddOrIncrease(saleID, "p-widget", -3), apperr.ErrValidation)
	require.ErrorIs(t, svc.AddOrIncrease(saleID, "p-ghost", 1), apperr.ErrNotFound)
	require.ErrorIs(t, svc.AddOrIncrease("s-ghost", "p-widget", 1), apperr.ErrNotFound)
}

func TestAddOrIncrease_PriceSnapshotSticks(t *testing.T) {
	db := memdb(t)
	svc := newSaleService(db)

	saleID, err := svc.Open("u-test")
	require.NoError(t, err)
	require.NoError(t, svc.AddOrIncrease(saleID, "p-widget", 1))

	// Catalog price changes after the line exists.
	_, err = db.Exec(`UPDATE products SET price=15.00 WHERE id='p-widget'`)
	require.NoError(t, err)

	// Growing the line keeps charging the original 10.00 snapshot.
	require.NoError(t, svc.AddOrIncrease(saleID, "p-widget", 1))
	require.NoError(t, svc.IncreaseByOne(saleID, "p-widget"))
	require.InDelta(t, 30.00, totalOf(t, db, saleID), 1e-9)

	view, err := svc.View(saleID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.InDelta(t, 10.00, view.Items[0].ItemPrice, 1e-9)

	// A brand-new line on a second sale snapshots the new price.
	saleID2, err := svc.Open("u-test")
	require.NoError(t, err)
	require.NoError(t, svc.AddOrIncrease(saleID2, "p-widget", 1))
	require.InDelta(t, 15.00, totalOf(t, db, saleID2), 1e-9)
}

func TestIncreaseByOne_MissingLineIsNoOp(t *testing.T) {
	db := memdb(t)
	svc := newSaleService(db)

	saleID, err := svc.Open("u-test")
	require.NoError(t, err)

	require.NoError(t, svc.IncreaseByOne(saleID, "p-widget"))
	require.Equal(t, 5, stockOf(t, db, "p-widget"))
	require.InDelta(t, 0.0, totalOf(t, db, saleID), 1e-9)
}

func TestIncreaseByOne_OutOfStock(t *testing.T) {
	db := memdb(t)
	svc := newSaleService(db)

	saleID, err := svc.Open("u-test")
	require.NoError(t, err)
	require.NoError(t, svc.AddOrIncrease(saleID, "p-gadget", 2)) // drains stock to 0

	err = svc.IncreaseByOne(saleID, "p-gadget")
	ise, ok := apperr.AsInsufficientStock(err)
	require.True(t, ok, "want InsufficientStockError, got %v", err)
	require.Equal(t, 0, ise.Available)

	// Rejected operation left everything as it was.
	require.Equal(t, 0, stockOf(t, db, "p-gadget"))
	require.InDelta(t, 50.00, totalOf(t, db, saleID), 1e-9)
	requireConsistent(t, db, saleID)
}

func TestDecreaseAndRemove_MissingLineIsNoOp(t *testing.T) {
	db := memdb(t)
	svc := newSaleService(db)

	saleID, err := svc.Open("u-test")
	require.NoError(t, err)

	require.NoError(t, svc.DecreaseByOne(saleID, "p-widget"))
	require.NoError(t, svc.RemoveLine(saleID, "p-widget"))
	require.Equal(t, 5, stockOf(t, db, "p-widget"))
	require.InDelta(t, 0.0, totalOf(t, db, saleID), 1e-9)
}

func TestRemoveLine_RestoresAllUnits(t *testing.T) {
	db := memdb(t)
	svc := newSaleService(db)

	saleID, err := svc.Open("u-test")
	require.NoError(t, err)
	require.NoError(t, svc.AddOrIncrease(saleID, "p-widget", 4))
	require.NoError(t, svc.AddOrIncrease(saleID, "p-gadget", 1))

	require.NoError(t, svc.RemoveLine(saleID, "p-widget"))
	require.Equal(t, 5, stockOf(t, db, "p-widget"))
	require.InDelta(t, 25.00, totalOf(t, db, saleID), 1e-9)
	requireConsistent(t, db, saleID)

	view, err := svc.View(saleID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, "p-gadget", view.Items[0].ProductID)
}

// Units are conserved across sales: what left the shelf is exactly what sits
// on sale lines, and removals put it back.
func TestStockConservationAcrossSales(t *testing.T) {
	db := memdb(t)
	svc := newSaleService(db)

	saleA, err := svc.Open("u-test")
	require.NoError(t, err)
	saleB, err := svc.Open("u-test")
	require.NoError(t, err)

	require.NoError(t, svc.AddOrIncrease(saleA, "p-widget", 2))
	require.NoError(t, svc.AddOrIncrease(saleB, "p-widget", 3))
	require.Equal(t, 0, stockOf(t, db, "p-widget"))

	var sold int
	require.NoError(t, db.Get(&sold,
		`SELECT COALESCE(SUM(quantity_sold),0) FROM sale_items WHERE product_id='p-widget'`))
	require.Equal(t, 5, sold)

	require.NoError(t, svc.RemoveLine(saleA, "p-widget"))
	require.Equal(t, 2, stockOf(t, db, "p-widget"))
	requireConsistent(t, db, saleA)
	requireConsistent(t, db, saleB)
}

func TestView_JoinsProductNameAndSKU(t *testing.T) {
	db := memdb(t)
	svc := newSaleService(db)

	saleID, err := svc.Open("u-test")
	require.NoError(t, err)
	require.NoError(t, svc.AddOrIncrease(saleID, "p-gadget", 1))
	require.NoError(t, svc.AddOrIncrease(saleID, "p-widget", 2))

	view, err := svc.View(saleID)
	require.NoError(t, err)
	require.Equal(t, "tester", view.Sale.Username)
	require.Len(t, view.Items, 2)
	// Ordered by product name: Gadget before Widget.
	require.Equal(t, "Gadget", view.Items[0].ProductName)
	require.Equal(t, "GDG-1", view.Items[0].SKU)
	require.InDelta(t, 25.00, view.Items[0].LineTotal, 1e-9)
	require.Equal(t, "Widget", view.Items[1].ProductName)
	require.InDelta(t, 20.00, view.Items[1].LineTotal, 1e-9)

	_, err = svc.View("s-ghost")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
