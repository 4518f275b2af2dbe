package repo

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"healia/clinic/domain"
)

// AddPatient validates and persists a new patient, assigning its id and
// creation timestamp.
func (s *Store) AddPatient(p *domain.Patient) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	now := s.now()
	res, err := s.db.Exec(
		`INSERT INTO patients (name, age, contact, address, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Age, p.Contact, p.Address, now,
	)
	if err != nil {
		return 0, fmt.Errorf("add patient: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add patient: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	s.notify(ColPatients)
	return id, nil
}

func (s *Store) GetPatient(id int64) (*domain.Patient, error) {
	var p domain.Patient
	err := s.db.Get(&p, `SELECT id, name, age, contact, address, created_at FROM patients WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get patient %d: %w", id, err)
	}
	return &p, nil
}

// UpdatePatient merges partial fields into an existing patient.
func (s *Store) UpdatePatient(id int64, fields map[string]interface{}) error {
	allowed := map[string]bool{"name": true, "age": true, "contact": true, "address": true}
	return s.updateRow("patients", ColPatients, id, fields, allowed)
}

// ListPatients returns every patient in insertion order.
func (s *Store) ListPatients() ([]domain.Patient, error) {
	var out []domain.Patient
	if err := s.db.Select(&out, `SELECT id, name, age, contact, address, created_at FROM patients ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}

func (s *Store) CountPatients() (int64, error) {
	var n int64
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM patients`); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

// SearchPatients matches a substring of the name (case-insensitive) or the
// contact number.
func (s *Store) SearchPatients(query string) ([]domain.Patient, error) {
	if query == "" {
		return []domain.Patient{}, nil
	}
	like := "%" + query + "%"
	var out []domain.Patient
	err := s.db.Select(&out,
		`SELECT id, name, age, contact, address, created_at FROM patients
         WHERE name LIKE ? COLLATE NOCASE OR contact LIKE ? ORDER BY id`, like, like)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return out, nil
}

// PatientsByIDs resolves a set of ids in one query (set-membership lookup).
func (s *Store) PatientsByIDs(ids []int64) ([]domain.Patient, error) {
	if len(ids) == 0 {
		return []domain.Patient{}, nil
	}
	query, args, err := sqlx.In(`SELECT id, name, age, contact, address, created_at FROM patients WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("patients by ids: %w", err)
	}
	query = s.db.Rebind(query)
	var out []domain.Patient
	if err := s.db.Select(&out, query, args...); err != nil {
		return nil, fmt.Errorf("patients by ids: %w", err)
	}
	return out, nil
}

// PatientsCreatedBetween returns patients registered within the inclusive
// calendar-day range.
func (s *Store) PatientsCreatedBetween(start, end string) ([]domain.Patient, error) {
	var out []domain.Patient
	err := s.db.Select(&out,
		`SELECT id, name, age, contact, address, created_at FROM patients
         WHERE substr(created_at, 1, 10) BETWEEN ? AND ? ORDER BY id`, start, end)
	if err != nil {
		return nil, fmt.Errorf("patients created between: %w", err)
	}
	return out, nil
}
