package api

import (
	"net/http"

	"healia/clinic/internal/repo"
	"healia/clinic/internal/report"
)

type billRequest struct {
	PatientID int64           `json:"patient_id"`
	Items     []repo.BillLine `json:"items"`
}

func (h *Handler) createBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	bill, err := h.store.CreateBill(req.PatientID, req.Items)
	if err != nil {
		h.fail(w, err, "unable to generate bill")
		return
	}
	respondJSON(w, http.StatusCreated, bill)
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.store.ListBills()
	if err != nil {
		h.fail(w, err, "unable to list bills")
		return
	}
	respondJSON(w, http.StatusOK, bills)
}

func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	bill, err := h.store.GetBill(id)
	if err != nil {
		h.fail(w, err, "unable to fetch bill")
		return
	}
	respondJSON(w, http.StatusOK, bill)
}

func (h *Handler) markBillPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	if err := h.store.MarkBillPaid(id); err != nil {
		h.fail(w, err, "unable to update bill")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "paid"})
}

func (h *Handler) billInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	pdf, err := h.reports.Invoice(id)
	if err != nil {
		h.fail(w, err, "unable to generate invoice")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.InvoiceFilename(id)+`"`)
	if err := pdf.Output(w); err != nil {
		h.log.Error().Err(err).Msg("unable to write invoice")
	}
}
