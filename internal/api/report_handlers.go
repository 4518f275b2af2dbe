package api

import (
	"net/http"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"healia/clinic/domain"
	"healia/clinic/internal/database"
)

func (h *Handler) reportRange(w http.ResponseWriter, r *http.Request) (start, end string, ok bool) {
	start = strings.TrimSpace(r.URL.Query().Get("start"))
	end = strings.TrimSpace(r.URL.Query().Get("end"))
	if _, err := parseDate(start); err != nil {
		respondError(w, http.StatusBadRequest, "start must be in YYYY-MM-DD format")
		return "", "", false
	}
	if _, err := parseDate(end); err != nil {
		respondError(w, http.StatusBadRequest, "end must be in YYYY-MM-DD format")
		return "", "", false
	}
	return start, end, true
}

func (h *Handler) servePDF(w http.ResponseWriter, pdf *gofpdf.Fpdf, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := pdf.Output(w); err != nil {
		h.log.Error().Err(err).Msg("unable to write report")
	}
}

func (h *Handler) billsReport(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.reportRange(w, r)
	if !ok {
		return
	}
	pdf, err := h.reports.BillsReport(start, end)
	if err != nil {
		h.fail(w, err, "unable to generate bills report")
		return
	}
	h.servePDF(w, pdf, "bills-report.pdf")
}

func (h *Handler) patientsReport(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.reportRange(w, r)
	if !ok {
		return
	}
	pdf, err := h.reports.PatientsReport(start, end)
	if err != nil {
		h.fail(w, err, "unable to generate patients report")
		return
	}
	h.servePDF(w, pdf, "patients-report.pdf")
}

// adminReset destroys and recreates the entire store. All-or-nothing; there
// is no per-collection variant.
func (h *Handler) adminReset(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if err := database.Reset(h.db); err != nil {
		h.fail(w, err, "unable to clear database")
		return
	}
	h.notifyAll()
	respondJSON(w, http.StatusOK, map[string]string{"status": "database cleared"})
}
