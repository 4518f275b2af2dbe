// Package views assembles the denormalized, read-only compositions the UI
// consumes: appointments joined with patient identity, per-patient history,
// daily revenue, stock alerts, and the visit trend.
package views

import (
	"strconv"
	"time"

	"healia/clinic/domain"
	"healia/clinic/internal/repo"
)

const lowStockThreshold = 10

// Service builds views by composing repository reads. It holds no state of
// its own.
type Service struct {
	store *repo.Store
}

func New(store *repo.Store) *Service {
	return &Service{store: store}
}

// AppointmentEntry is an appointment joined with its patient. Patient is nil
// when the registry entry is missing.
type AppointmentEntry struct {
	domain.Appointment
	Patient *domain.Patient `json:"patient"`
}

// History is everything known about one patient, each slice newest-first.
// Purchased flattens the line items of every bill.
type History struct {
	Appointments  []domain.Appointment   `json:"appointments"`
	Prescriptions []domain.Prescription  `json:"prescriptions"`
	Records       []domain.MedicalRecord `json:"records"`
	Bills         []domain.Bill          `json:"bills"`
	Purchased     []domain.BillItem      `json:"purchased_medicines"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Summary backs the dashboard cards.
type Summary struct {
	TotalPatients      int64             `json:"total_patients"`
	TodaysAppointments int               `json:"todays_appointments"`
	RevenueToday       float64           `json:"revenue_today"`
	Alerts             []domain.Medicine `json:"alerts"`
	Trend              []TrendPoint      `json:"trend"`
}

func today() string {
	return time.Now().Format(domain.DateOnly)
}

// AppointmentsForDate joins the day's appointments with their patients.
func (s *Service) AppointmentsForDate(date string) ([]AppointmentEntry, error) {
	appts, err := s.store.AppointmentsOn(date)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(appts))
	for i, a := range appts {
		ids[i] = a.PatientID
	}
	patients, err := s.store.PatientsByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Patient, len(patients))
	for _, p := range patients {
		byID[p.ID] = p
	}

	out := make([]AppointmentEntry, len(appts))
	for i, a := range appts {
		entry := AppointmentEntry{Appointment: a}
		if p, ok := byID[a.PatientID]; ok {
			patient := p
			entry.Patient = &patient
		}
		out[i] = entry
	}
	return out, nil
}

// TodaysAppointments is AppointmentsForDate for the current wall-clock day.
func (s *Service) TodaysAppointments() ([]AppointmentEntry, error) {
	return s.AppointmentsForDate(today())
}

// PatientHistory gathers the four per-patient collections. The reads are
// independent; a mutation landing between them can produce a torn snapshot,
// which is accepted for this single-desk workload.
func (s *Service) PatientHistory(patientID int64) (*History, error) {
	appts, err := s.store.AppointmentsByPatient(patientID)
	if err != nil {
		return nil, err
	}
	prescriptions, err := s.store.PrescriptionsByPatient(patientID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.MedicalRecordsByPatient(patientID)
	if err != nil {
		return nil, err
	}
	bills, err := s.store.BillsByPatient(patientID)
	if err != nil {
		return nil, err
	}

	var purchased []domain.BillItem
	for _, b := range bills {
		purchased = append(purchased, b.Items...)
	}

	return &History{
		Appointments:  appts,
		Prescriptions: prescriptions,
		Records:       records,
		Bills:         bills,
		Purchased:     purchased,
	}, nil
}

// RevenueToday sums today's appointment fees and bill totals. Values that do
// not parse as numbers contribute zero.
func (s *Service) RevenueToday() (float64, error) {
	day := today()
	fees, err := s.store.AppointmentFeesOn(day)
	if err != nil {
		return 0, err
	}
	totals, err := s.store.BillTotalsOn(day)
	if err != nil {
		return 0, err
	}
	var revenue float64
	for _, v := range fees {
		revenue += coerceNumeric(v)
	}
	for _, v := range totals {
		revenue += coerceNumeric(v)
	}
	return revenue, nil
}

// StockAlerts returns every medicine that is low on stock or expires within
// one month, in insertion order.
func (s *Service) StockAlerts() ([]domain.Medicine, error) {
	medicines, err := s.store.ListMedicines()
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().AddDate(0, 1, 0)
	alerts := []domain.Medicine{}
	for _, m := range medicines {
		if m.Stock < lowStockThreshold {
			alerts = append(alerts, m)
			continue
		}
		expiry, err := time.Parse(domain.DateOnly, m.ExpiryDate)
		if err != nil {
			continue
		}
		if expiry.Before(cutoff) {
			alerts = append(alerts, m)
		}
	}
	return alerts, nil
}

// VisitTrend counts appointments for each of the trailing seven calendar
// days, oldest first.
func (s *Service) VisitTrend() ([]TrendPoint, error) {
	now := time.Now()
	out := make([]TrendPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(domain.DateOnly)
		n, err := s.store.CountAppointmentsOn(day)
		if err != nil {
			return nil, err
		}
		out = append(out, TrendPoint{Date: day, Count: n})
	}
	return out, nil
}

// DashboardSummary aggregates the dashboard cards in one call.
func (s *Service) DashboardSummary() (*Summary, error) {
	totalPatients, err := s.store.CountPatients()
	if err != nil {
		return nil, err
	}
	todays, err := s.TodaysAppointments()
	if err != nil {
		return nil, err
	}
	revenue, err := s.RevenueToday()
	if err != nil {
		return nil, err
	}
	alerts, err := s.StockAlerts()
	if err != nil {
		return nil, err
	}
	trend, err := s.VisitTrend()
	if err != nil {
		return nil, err
	}
	return &Summary{
		TotalPatients:      totalPatients,
		TodaysAppointments: len(todays),
		RevenueToday:       revenue,
		Alerts:             alerts,
		Trend:              trend,
	}, nil
}

func coerceNumeric(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
