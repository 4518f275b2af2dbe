package repo

import (
	"fmt"

	"healia/clinic/domain"
)

func (s *Store) AddPrescription(p *domain.Prescription) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.requirePatient(p.PatientID); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(
		`INSERT INTO prescriptions (patient_id, medicines, date, notes) VALUES (?, ?, ?, ?)`,
		p.PatientID, p.Medicines, p.Date, p.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("add prescription: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add prescription: %w", err)
	}
	p.ID = id
	s.notify(ColPrescriptions)
	return id, nil
}

// PrescriptionsByPatient returns a patient's prescriptions newest-first.
func (s *Store) PrescriptionsByPatient(patientID int64) ([]domain.Prescription, error) {
	var out []domain.Prescription
	err := s.db.Select(&out,
		`SELECT id, patient_id, medicines, date, notes FROM prescriptions
         WHERE patient_id = ? ORDER BY id DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("prescriptions for patient %d: %w", patientID, err)
	}
	return out, nil
}
