package repo

import (
	"fmt"

	"healia/clinic/domain"
)

// AddAppointment validates and persists a new appointment. Dates before the
// current day are rejected and nothing is written.
func (s *Store) AddAppointment(a *domain.Appointment) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if a.AppointmentDate < today() {
		return 0, fmt.Errorf("%w: appointment date %s is before today", ErrValidation, a.AppointmentDate)
	}
	if err := s.requirePatient(a.PatientID); err != nil {
		return 0, err
	}
	now := s.now()
	res, err := s.db.Exec(
		`INSERT INTO appointments (patient_id, appointment_date, fees, payment_method, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.PatientID, a.AppointmentDate, a.Fees, a.PaymentMethod, now,
	)
	if err != nil {
		return 0, fmt.Errorf("add appointment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add appointment: %w", err)
	}
	a.ID = id
	a.CreatedAt = now
	s.notify(ColAppointments)
	return id, nil
}

// AppointmentsOn returns the appointments whose date equals the given
// calendar day, in insertion order.
func (s *Store) AppointmentsOn(date string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := s.db.Select(&out,
		`SELECT id, patient_id, appointment_date, fees, payment_method, created_at
         FROM appointments WHERE appointment_date = ? ORDER BY id`, date)
	if err != nil {
		return nil, fmt.Errorf("appointments on %s: %w", date, err)
	}
	return out, nil
}

// AppointmentsByPatient returns a patient's appointments newest-first.
func (s *Store) AppointmentsByPatient(patientID int64) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := s.db.Select(&out,
		`SELECT id, patient_id, appointment_date, fees, payment_method, created_at
         FROM appointments WHERE patient_id = ? ORDER BY id DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("appointments for patient %d: %w", patientID, err)
	}
	return out, nil
}

func (s *Store) CountAppointmentsOn(date string) (int64, error) {
	var n int64
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM appointments WHERE appointment_date = ?`, date); err != nil {
		return 0, fmt.Errorf("count appointments on %s: %w", date, err)
	}
	return n, nil
}

// AppointmentFeesOn returns the stored fee values for a day as raw text so
// callers can coerce malformed values defensively.
func (s *Store) AppointmentFeesOn(date string) ([]string, error) {
	var out []string
	err := s.db.Select(&out,
		`SELECT CAST(fees AS TEXT) FROM appointments WHERE appointment_date = ?`, date)
	if err != nil {
		return nil, fmt.Errorf("appointment fees on %s: %w", date, err)
	}
	return out, nil
}
