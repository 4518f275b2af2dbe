// Package repo provides the typed per-collection operations over the embedded
// store. Every read goes to the database; nothing is cached here. Mutations
// are durable as soon as the call returns and are announced to the notifier
// so live queries can re-run.
package repo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"healia/clinic/domain"
)

// Collection names used for change notification and subscription dependencies.
const (
	ColPatients      = "patients"
	ColAppointments  = "appointments"
	ColPrescriptions = "prescriptions"
	ColRecords       = "medical_records"
	ColMedicines     = "medicines"
	ColBills         = "bills"
)

// Collections lists every entity collection.
func Collections() []string {
	return []string{ColPatients, ColAppointments, ColPrescriptions, ColRecords, ColMedicines, ColBills}
}

var (
	// ErrNotFound is returned when an operation references a missing id.
	ErrNotFound = errors.New("not found")
	// ErrValidation wraps caller-supplied data that violates an invariant.
	ErrValidation = errors.New("validation failed")
)

// Notifier receives the name of each mutated collection. The live bus
// implements it; tests may pass nil.
type Notifier interface {
	Notify(collection string)
}

// Store bundles the database handle with the change notifier.
type Store struct {
	db  *sqlx.DB
	bus Notifier
}

func New(db *sqlx.DB, bus Notifier) *Store {
	return &Store{db: db, bus: bus}
}

func (s *Store) notify(collection string) {
	if s.bus != nil {
		s.bus.Notify(collection)
	}
}

// now stamps timestamps in local wall-clock time so their YYYY-MM-DD prefix
// always agrees with today() and the day-keyed queries built on it.
func (s *Store) now() string {
	return time.Now().Format(time.RFC3339)
}

func today() string {
	return time.Now().Format(domain.DateOnly)
}

// updateRow merges partial fields into an existing row. Unknown fields are
// rejected so callers cannot write arbitrary columns.
func (s *Store) updateRow(table, collection string, id int64, fields map[string]interface{}, allowed map[string]bool) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !allowed[col] {
			return fmt.Errorf("%w: field %q is not updatable", ErrValidation, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	set := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for _, col := range cols {
		set = append(set, col+" = ?")
		args = append(args, fields[col])
	}
	args = append(args, id)

	res, err := s.db.Exec(
		fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(set, ", ")),
		args...,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	s.notify(collection)
	return nil
}

func (s *Store) patientExists(id int64) (bool, error) {
	var exists bool
	if err := s.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM patients WHERE id = ?)`, id); err != nil {
		return false, fmt.Errorf("check patient %d: %w", id, err)
	}
	return exists, nil
}

// requirePatient rejects writes whose patient_id would dangle.
func (s *Store) requirePatient(id int64) error {
	ok, err := s.patientExists(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: patient %d does not exist", ErrValidation, id)
	}
	return nil
}
