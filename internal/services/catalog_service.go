package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"salepoint/internal/apperr"
	"salepoint/internal/domain"
	"salepoint/internal/repos"
)

// CatalogService owns product CRUD for the manager pages. Stock mutations
// during a sale go through SaleService, never here.
type CatalogService struct {
	Prods *repos.ProductRepo
	Sups  *repos.SupplierRepo
}

func NewCatalogService(prods *repos.ProductRepo, sups *repos.SupplierRepo) *CatalogService {
	return &CatalogService{Prods: prods, Sups: sups}
}

type ProductInput struct {
	Name       string
	SKU        string
	Price      float64
	Quantity   int
	SupplierID string // optional
}

func (in ProductInput) validate() error {
	if in.Name == "" || in.SKU == "" || in.Price <= 0 || in.Quantity < 0 {
		return apperr.ErrValidation
	}
	return nil
}

func supplierRef(id string) sql.NullString {
	if id == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: id, Valid: true}
}

func (s *CatalogService) ListProducts() ([]repos.ProductRow, error) {
	return s.Prods.List()
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, apperr.ErrNotFound
	}
	return p, err
}

func (s *CatalogService) CreateProduct(in ProductInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	p := domain.Product{
		ID:         id,
		Name:       in.Name,
		SKU:        in.SKU,
		Price:      in.Price,
		Quantity:   in.Quantity,
		SupplierID: supplierRef(in.SupplierID),
	}
	if err := s.Prods.Create(p); err != nil {
		return "", fmt.Errorf("create product: %w", err)
	}
	return id, nil
}

func (s *CatalogService) UpdateProduct(id string, in ProductInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	p := domain.Product{
		ID:         id,
		Name:       in.Name,
		SKU:        in.SKU,
		Price:      in.Price,
		Quantity:   in.Quantity,
		SupplierID: supplierRef(in.SupplierID),
	}
	return s.Prods.Update(p)
}

func (s *CatalogService) DeleteProduct(id string) error {
	return s.Prods.Delete(id)
}
