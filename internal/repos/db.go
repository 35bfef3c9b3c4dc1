package repos

import (
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A plain :memory: DSN gives every pool connection its own database;
	// cap the pool so schema and queries share one.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo catalog if DB is empty (idempotent; safe to run every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('MANAGER','CASHIER')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Suppliers
CREATE TABLE IF NOT EXISTS suppliers(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  contact_info TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Products. supplier_id is a weak reference: deleting a supplier keeps the
-- product and nulls the link.
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  sku TEXT NOT NULL UNIQUE,
  price NUMERIC NOT NULL CHECK (price > 0),
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  supplier_id TEXT NULL REFERENCES suppliers(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_supplier ON products(supplier_id);

-- Sales
CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  total_amount NUMERIC NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);

CREATE TABLE IF NOT EXISTS sale_items(
  sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  quantity_sold INTEGER NOT NULL CHECK (quantity_sold >= 1),
  item_price NUMERIC NOT NULL,
  PRIMARY KEY (sale_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_sale_items_product ON sale_items(product_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM suppliers`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo suppliers/products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO suppliers(id,name,contact_info) VALUES
	  ('sup-acme','Acme Wholesale','orders@acme.test'),
	  ('sup-brew','Brewline Coffee Co.','sales@brewline.test'),
	  ('sup-fresh','Freshfield Farms','contact@freshfield.test')`)

	tx.MustExec(`INSERT INTO products(id,name,sku,price,quantity,supplier_id) VALUES
	  ('prd-espresso','Espresso Beans 1kg','ESP-1KG',18.50,40,'sup-brew'),
	  ('prd-filter','Paper Filters 100pk','FLT-100',4.25,120,'sup-brew'),
	  ('prd-honey','Wildflower Honey 500g','HNY-500',7.90,25,'sup-fresh'),
	  ('prd-mug','Stoneware Mug','MUG-STD',11.00,60,'sup-acme'),
	  ('prd-oats','Rolled Oats 750g','OAT-750',3.60,8,'sup-fresh')`)

	return tx.Commit()
}

// seedUsers ensures one MANAGER and two CASHIERs exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Username, Name, Role, Hash string
	}
	mk := func(id, username, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Username: username, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-maria", "maria", "Maria", "MANAGER", "Passw0rd!"),
		mk("u-carlos", "carlos", "Carlos", "CASHIER", "Passw0rd!"),
		mk("u-dana", "dana", "Dana", "CASHIER", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,username,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(username) DO NOTHING
		`, x.ID, x.Username, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
