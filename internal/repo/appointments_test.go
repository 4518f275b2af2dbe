package repo

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"healia/clinic/domain"
)

func TestAddAppointmentRejectsPastDate(t *testing.T) {
	s, _ := newTestStore(t)
	p := addTestPatient(t, s)

	yesterday := time.Now().AddDate(0, 0, -1).Format(domain.DateOnly)
	_, err := s.AddAppointment(&domain.Appointment{
		PatientID:       p.ID,
		AppointmentDate: yesterday,
		Fees:            200,
		PaymentMethod:   domain.PaymentCash,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Nothing persisted.
	appts, err := s.AppointmentsOn(yesterday)
	if err != nil {
		t.Fatalf("appointments on: %v", err)
	}
	if len(appts) != 0 {
		t.Errorf("rejected appointment was persisted: %+v", appts)
	}
}

func TestAddAppointmentRejectsDanglingPatient(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddAppointment(&domain.Appointment{
		PatientID:       42,
		AppointmentDate: time.Now().Format(domain.DateOnly),
		Fees:            200,
		PaymentMethod:   domain.PaymentCash,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for missing patient, got %v", err)
	}
}

func TestAppointmentsOnIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	p := addTestPatient(t, s)

	day := time.Now().Format(domain.DateOnly)
	a := &domain.Appointment{PatientID: p.ID, AppointmentDate: day, Fees: 200, PaymentMethod: domain.PaymentCash}
	if _, err := s.AddAppointment(a); err != nil {
		t.Fatalf("add appointment: %v", err)
	}

	first, err := s.AppointmentsOn(day)
	if err != nil {
		t.Fatalf("appointments on: %v", err)
	}
	if len(first) != 1 || first[0].ID != a.ID || first[0].Fees != 200 {
		t.Fatalf("unexpected result set: %+v", first)
	}

	second, err := s.AppointmentsOn(day)
	if err != nil {
		t.Fatalf("appointments on: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated fetch differs: %+v vs %+v", first, second)
	}
}

func TestAppointmentsByPatientNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	p := addTestPatient(t, s)

	today := time.Now().Format(domain.DateOnly)
	tomorrow := time.Now().AddDate(0, 0, 1).Format(domain.DateOnly)
	for _, day := range []string{today, tomorrow} {
		if _, err := s.AddAppointment(&domain.Appointment{
			PatientID: p.ID, AppointmentDate: day, Fees: 100, PaymentMethod: domain.PaymentOnline,
		}); err != nil {
			t.Fatalf("add appointment: %v", err)
		}
	}

	got, err := s.AppointmentsByPatient(p.ID)
	if err != nil {
		t.Fatalf("appointments by patient: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(got))
	}
	if got[0].ID < got[1].ID {
		t.Errorf("expected newest-first ordering, got ids %d, %d", got[0].ID, got[1].ID)
	}
}
