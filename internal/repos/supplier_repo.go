package repos

import (
	"github.com/jmoiron/sqlx"

	"salepoint/internal/apperr"
	"salepoint/internal/domain"
)

type SupplierRepo struct{ db *sqlx.DB }

func NewSupplierRepo(db *sqlx.DB) *SupplierRepo { return &SupplierRepo{db: db} }

func (r *SupplierRepo) List() ([]domain.Supplier, error) {
	var out []domain.Supplier
	err := r.db.Select(&out, `
	  SELECT id, name, COALESCE(contact_info,'') AS contact_info, created_at
	  FROM suppliers
	  ORDER BY name
	`)
	return out, err
}

func (r *SupplierRepo) Get(id string) (domain.Supplier, error) {
	var s domain.Supplier
	err := r.db.Get(&s, `
	  SELECT id, name, COALESCE(contact_info,'') AS contact_info, created_at
	  FROM suppliers
	  WHERE id = ?
	`, id)
	return s, err
}

func (r *SupplierRepo) Create(s domain.Supplier) error {
	_, err := r.db.Exec(`
	  INSERT INTO suppliers(id, name, contact_info) VALUES(?, ?, ?)
	`, s.ID, s.Name, s.ContactInfo)
	return err
}

func (r *SupplierRepo) Update(s domain.Supplier) error {
	res, err := r.db.Exec(`
	  UPDATE suppliers SET name=?, contact_info=? WHERE id=?
	`, s.Name, s.ContactInfo, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes the supplier only. Products keep existing with a nulled
// supplier link (ON DELETE SET NULL).
func (r *SupplierRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM suppliers WHERE id=?`, id)
	return err
}
