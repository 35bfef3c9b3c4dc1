package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"salepoint/internal/apperr"
	"salepoint/internal/repos"
)

// SaleService mutates a sale's line items while keeping three denormalized
// figures in lockstep: the line quantity, the product stock level and the
// sale total. Every mutating operation applies its sub-writes in one
// transaction; a failure on any path rolls all of them back.
type SaleService struct {
	DB    *sqlx.DB
	Sales *repos.SaleRepo
	Prods *repos.ProductRepo
}

func NewSaleService(db *sqlx.DB, sales *repos.SaleRepo, prods *repos.ProductRepo) *SaleService {
	return &SaleService{DB: db, Sales: sales, Prods: prods}
}

// Open creates an empty sale (total 0) owned by userID.
func (s *SaleService) Open(userID string) (string, error) {
	id := uuid.NewString()
	if err := s.Sales.Create(s.DB, id, userID); err != nil {
		return "", fmt.Errorf("create sale: %w", err)
	}
	return id, nil
}

// AddOrIncrease puts qty units of a product on the sale. The first add of a
// product creates the line and snapshots the catalog price; later adds grow
// the existing line and keep charging the snapshot, even if the catalog
// price changed in between.
func (s *SaleService) AddOrIncrease(saleID, productID string, qty int) error {
	if qty < 1 {
		return apperr.ErrValidation
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.Sales.GetIn(tx, saleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("load sale: %w", err)
	}

	p, err := s.Prods.GetIn(tx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("load product: %w", err)
	}
	if p.Quantity < qty {
		return &apperr.InsufficientStockError{ProductID: productID, Available: p.Quantity}
	}

	if err := s.Prods.Reserve(tx, productID, qty); err != nil {
		return err
	}

	price := p.Price
	item, err := s.Sales.Item(tx, saleID, productID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := s.Sales.InsertItem(tx, saleID, productID, qty, price); err != nil {
			return fmt.Errorf("insert line: %w", err)
		}
	case err != nil:
		return fmt.Errorf("load line: %w", err)
	default:
		price = item.ItemPrice
		if err := s.Sales.BumpItem(tx, saleID, productID, qty); err != nil {
			return fmt.Errorf("grow line: %w", err)
		}
	}

	if err := s.Sales.AddToTotal(tx, saleID, float64(qty)*price); err != nil {
		return fmt.Errorf("update total: %w", err)
	}
	return tx.Commit()
}

// IncreaseByOne adds one unit to an existing line. A missing line is a
// no-op: increase only makes sense after a prior add, so a stray request
// (stale page, double submit) changes nothing. The stored snapshot price
// drives the total adjustment.
func (s *SaleService) IncreaseByOne(saleID, productID string) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	item, err := s.Sales.Item(tx, saleID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load line: %w", err)
	}

	if err := s.Prods.Reserve(tx, productID, 1); err != nil {
		return err
	}
	if err := s.Sales.BumpItem(tx, saleID, productID, 1); err != nil {
		return fmt.Errorf("grow line: %w", err)
	}
	if err := s.Sales.AddToTotal(tx, saleID, item.ItemPrice); err != nil {
		return fmt.Errorf("update total: %w", err)
	}
	return tx.Commit()
}

// DecreaseByOne takes one unit off an existing line, restoring it to stock.
// A line at quantity 1 is removed instead of being left at zero. A missing
// line is a no-op.
func (s *SaleService) DecreaseByOne(saleID, productID string) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	item, err := s.Sales.Item(tx, saleID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load line: %w", err)
	}

	// Never leave a zero-quantity line behind.
	if item.Qty == 1 {
		if err := s.removeItem(tx, item.SaleID, item.ProductID, item.Qty, item.ItemPrice); err != nil {
			return err
		}
		return tx.Commit()
	}

	if err := s.Sales.BumpItem(tx, saleID, productID, -1); err != nil {
		return fmt.Errorf("shrink line: %w", err)
	}
	if err := s.Prods.Release(tx, productID, 1); err != nil {
		return err
	}
	if err := s.Sales.AddToTotal(tx, saleID, -item.ItemPrice); err != nil {
		return fmt.Errorf("update total: %w", err)
	}
	return tx.Commit()
}

// RemoveLine deletes a line, restoring all its units to stock. A missing
// line is a no-op.
func (s *SaleService) RemoveLine(saleID, productID string) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	item, err := s.Sales.Item(tx, saleID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load line: %w", err)
	}

	if err := s.removeItem(tx, item.SaleID, item.ProductID, item.Qty, item.ItemPrice); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SaleService) removeItem(tx *sqlx.Tx, saleID, productID string, qty int, price float64) error {
	if err := s.Sales.DeleteItem(tx, saleID, productID); err != nil {
		return fmt.Errorf("delete line: %w", err)
	}
	if err := s.Prods.Release(tx, productID, qty); err != nil {
		return err
	}
	if err := s.Sales.AddToTotal(tx, saleID, -float64(qty)*price); err != nil {
		return fmt.Errorf("update total: %w", err)
	}
	return nil
}

type SaleView struct {
	Sale  repos.SaleSummary
	Items []repos.SaleItemRow
}

// View returns the sale header and its lines joined with product name/SKU.
func (s *SaleService) View(saleID string) (SaleView, error) {
	sale, items, err := s.Sales.View(saleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SaleView{}, apperr.ErrNotFound
		}
		return SaleView{}, fmt.Errorf("load sale view: %w", err)
	}
	return SaleView{Sale: sale, Items: items}, nil
}

func (s *SaleService) ListLatest(limit int) ([]repos.SaleSummary, error) {
	return s.Sales.ListLatest(limit)
}
