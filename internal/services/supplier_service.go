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

type SupplierService struct {
	Sups *repos.SupplierRepo
}

func NewSupplierService(sups *repos.SupplierRepo) *SupplierService {
	return &SupplierService{Sups: sups}
}

func (s *SupplierService) List() ([]domain.Supplier, error) {
	return s.Sups.List()
}

func (s *SupplierService) Get(id string) (domain.Supplier, error) {
	sup, err := s.Sups.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Supplier{}, apperr.ErrNotFound
	}
	return sup, err
}

func (s *SupplierService) Create(name, contact string) (string, error) {
	if name == "" || contact == "" {
		return "", apperr.ErrValidation
	}
	id := uuid.NewString()
	if err := s.Sups.Create(domain.Supplier{ID: id, Name: name, ContactInfo: contact}); err != nil {
		return "", fmt.Errorf("create supplier: %w", err)
	}
	return id, nil
}

func (s *SupplierService) Update(id, name, contact string) error {
	if name == "" || contact == "" {
		return apperr.ErrValidation
	}
	return s.Sups.Update(domain.Supplier{ID: id, Name: name, ContactInfo: contact})
}

// Delete removes the supplier; products that referenced it stay and simply
// lose the link.
func (s *SupplierService) Delete(id string) error {
	return s.Sups.Delete(id)
}
