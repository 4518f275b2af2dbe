package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"healia/clinic/domain"
)

func urlID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) addPatient(w http.ResponseWriter, r *http.Request) {
	var p domain.Patient
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.store.AddPatient(&p); err != nil {
		h.fail(w, err, "unable to add patient")
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) listPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.store.ListPatients()
	if err != nil {
		h.fail(w, err, "unable to list patients")
		return
	}
	respondJSON(w, http.StatusOK, patients)
}

func (h *Handler) getPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid patient id")
		return
	}
	p, err := h.store.GetPatient(id)
	if err != nil {
		h.fail(w, err, "unable to fetch patient")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) searchPatients(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	patients, err := h.store.SearchPatients(query)
	if err != nil {
		h.fail(w, err, "unable to search patients")
		return
	}
	respondJSON(w, http.StatusOK, patients)
}

func (h *Handler) updatePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid patient id")
		return
	}
	var fields map[string]interface{}
	if err := decodeJSON(r, &fields); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.UpdatePatient(id, fields); err != nil {
		h.fail(w, err, "unable to update patient")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) patientHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid patient id")
		return
	}
	history, err := h.views.PatientHistory(id)
	if err != nil {
		h.fail(w, err, "unable to load patient history")
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (h *Handler) patientPrescriptions(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid patient id")
		return
	}
	prescriptions, err := h.store.PrescriptionsByPatient(id)
	if err != nil {
		h.fail(w, err, "unable to load prescriptions")
		return
	}
	respondJSON(w, http.StatusOK, prescriptions)
}

func (h *Handler) patientRecords(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid patient id")
		return
	}
	records, err := h.store.MedicalRecordsByPatient(id)
	if err != nil {
		h.fail(w, err, "unable to load medical records")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *Handler) addAppointment(w http.ResponseWriter, r *http.Request) {
	var a domain.Appointment
	if err := decodeJSON(r, &a); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.store.AddAppointment(&a); err != nil {
		h.fail(w, err, "unable to add appointment")
		return
	}
	respondJSON(w, http.StatusCreated, a)
}

func (h *Handler) appointmentsForDate(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if _, err := parseDate(date); err != nil {
		respondError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}
	entries, err := h.views.AppointmentsForDate(date)
	if err != nil {
		h.fail(w, err, "unable to load appointments")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) todaysAppointments(w http.ResponseWriter, r *http.Request) {
	entries, err := h.views.TodaysAppointments()
	if err != nil {
		h.fail(w, err, "unable to load appointments")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) addPrescription(w http.ResponseWriter, r *http.Request) {
	var p domain.Prescription
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.store.AddPrescription(&p); err != nil {
		h.fail(w, err, "unable to add prescription")
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) addMedicalRecord(w http.ResponseWriter, r *http.Request) {
	var rec domain.MedicalRecord
	if err := decodeJSON(r, &rec); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.store.AddMedicalRecord(&rec); err != nil {
		h.fail(w, err, "unable to add medical record")
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}
