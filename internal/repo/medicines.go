package repo

import (
	"database/sql"
	"errors"
	"fmt"

	"healia/clinic/domain"
)

func (s *Store) AddMedicine(m *domain.Medicine) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	now := s.now()
	res, err := s.db.Exec(
		`INSERT INTO medicines (name, category, type, stock, price, expiry_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Category, m.Type, m.Stock, m.Price, m.ExpiryDate, now,
	)
	if err != nil {
		return 0, fmt.Errorf("add medicine: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add medicine: %w", err)
	}
	m.ID = id
	m.CreatedAt = now
	s.notify(ColMedicines)
	return id, nil
}

func (s *Store) GetMedicine(id int64) (*domain.Medicine, error) {
	var m domain.Medicine
	err := s.db.Get(&m, `SELECT id, name, category, type, stock, price, expiry_date, created_at FROM medicines WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("medicine %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get medicine %d: %w", id, err)
	}
	return &m, nil
}

// ListMedicines returns the full inventory in insertion order.
func (s *Store) ListMedicines() ([]domain.Medicine, error) {
	var out []domain.Medicine
	if err := s.db.Select(&out, `SELECT id, name, category, type, stock, price, expiry_date, created_at FROM medicines ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return out, nil
}

func (s *Store) SearchMedicines(query string) ([]domain.Medicine, error) {
	like := "%" + query + "%"
	var out []domain.Medicine
	err := s.db.Select(&out,
		`SELECT id, name, category, type, stock, price, expiry_date, created_at FROM medicines
         WHERE name LIKE ? COLLATE NOCASE ORDER BY id LIMIT 25`, like)
	if err != nil {
		return nil, fmt.Errorf("search medicines: %w", err)
	}
	return out, nil
}

// UpdateMedicine merges partial fields into an existing medicine.
func (s *Store) UpdateMedicine(id int64, fields map[string]interface{}) error {
	allowed := map[string]bool{"name": true, "category": true, "type": true, "stock": true, "price": true, "expiry_date": true}
	return s.updateRow("medicines", ColMedicines, id, fields, allowed)
}

// SetMedicineStock replaces the stock level. Negative levels are rejected;
// stock is never replenished implicitly by any other operation.
func (s *Store) SetMedicineStock(id int64, stock int64) error {
	if stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	return s.UpdateMedicine(id, map[string]interface{}{"stock": stock})
}
