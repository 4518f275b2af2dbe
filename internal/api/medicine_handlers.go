package api

import (
	"net/http"
	"strings"

	"healia/clinic/domain"
)

func (h *Handler) addMedicine(w http.ResponseWriter, r *http.Request) {
	var m domain.Medicine
	if err := decodeJSON(r, &m); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.store.AddMedicine(&m); err != nil {
		h.fail(w, err, "unable to add medicine")
		return
	}
	respondJSON(w, http.StatusCreated, m)
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.ListMedicines()
	if err != nil {
		h.fail(w, err, "unable to list medicines")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) searchMedicines(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	medicines, err := h.store.SearchMedicines(query)
	if err != nil {
		h.fail(w, err, "unable to search medicines")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) stockAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.views.StockAlerts()
	if err != nil {
		h.fail(w, err, "unable to fetch alerts")
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

func (h *Handler) updateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	var payload struct {
		Stock int64 `json:"stock"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.SetMedicineStock(id, payload.Stock); err != nil {
		h.fail(w, err, "unable to update stock")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "stock updated"})
}
