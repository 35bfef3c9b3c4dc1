package repos_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"salepoint/internal/apperr"
	"salepoint/internal/repos"
)

func stockdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// one shared in-memory database across the pool
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE products(
	  id TEXT PRIMARY KEY,
	  name TEXT, sku TEXT,
	  price NUMERIC,
	  quantity INTEGER CHECK (quantity >= 0),
	  supplier_id TEXT, created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT
	);
	INSERT INTO products(id,name,sku,price,quantity)
	  VALUES ('p-1','Widget','WDG-1',10.0,6);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestReserveAndRelease(t *testing.T) {
	db := stockdb(t)
	r := repos.NewProductRepo(db)

	if err := r.Reserve(db, "p-1", 4); err != nil {
		t.Fatal(err)
	}
	p, err := r.Get("p-1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Quantity != 2 {
		t.Fatalf("want quantity=2 after reserve, got %d", p.Quantity)
	}

	if err := r.Release(db, "p-1", 3); err != nil {
		t.Fatal(err)
	}
	p, _ = r.Get("p-1")
	if p.Quantity != 5 {
		t.Fatalf("want quantity=5 after release, got %d", p.Quantity)
	}
}

func TestReserveInsufficientStock(t *testing.T) {
	db := stockdb(t)
	r := repos.NewProductRepo(db)

	err := r.Reserve(db, "p-1", 7)
	ise, ok := apperr.AsInsufficientStock(err)
	if !ok {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if ise.Available != 6 {
		t.Fatalf("want available=6, got %d", ise.Available)
	}

	// Conditional update must not have touched the row.
	p, err := r.Get("p-1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Quantity != 6 {
		t.Fatalf("stock changed on rejected reserve: %d", p.Quantity)
	}
}

func TestReserveUnknownProduct(t *testing.T) {
	db := stockdb(t)
	r := repos.NewProductRepo(db)

	if err := r.Reserve(db, "p-missing", 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := r.Release(db, "p-missing", 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestReserveExactRemainder(t *testing.T) {
	db := stockdb(t)
	r := repos.NewProductRepo(db)

	if err := r.Reserve(db, "p-1", 6); err != nil {
		t.Fatal(err)
	}
	p, _ := r.Get("p-1")
	if p.Quantity != 0 {
		t.Fatalf("want quantity=0, got %d", p.Quantity)
	}

	// The floor holds: nothing left to reserve.
	err := r.Reserve(db, "p-1", 1)
	ise, ok := apperr.AsInsufficientStock(err)
	if !ok || ise.Available != 0 {
		t.Fatalf("want InsufficientStockError(available=0), got %v", err)
	}
}
