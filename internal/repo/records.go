package repo

import (
	"fmt"

	"healia/clinic/domain"
)

func (s *Store) AddMedicalRecord(r *domain.MedicalRecord) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.requirePatient(r.PatientID); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(
		`INSERT INTO medical_records (patient_id, scan_url, date, description) VALUES (?, ?, ?, ?)`,
		r.PatientID, r.ScanURL, r.Date, r.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("add medical record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add medical record: %w", err)
	}
	r.ID = id
	s.notify(ColRecords)
	return id, nil
}

// MedicalRecordsByPatient returns a patient's records newest-first.
func (s *Store) MedicalRecordsByPatient(patientID int64) ([]domain.MedicalRecord, error) {
	var out []domain.MedicalRecord
	err := s.db.Select(&out,
		`SELECT id, patient_id, scan_url, date, description FROM medical_records
         WHERE patient_id = ? ORDER BY id DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("medical records for patient %d: %w", patientID, err)
	}
	return out, nil
}
