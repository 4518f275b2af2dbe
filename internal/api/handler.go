package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"healia/clinic/domain"
	"healia/clinic/internal/auth"
	"healia/clinic/internal/live"
	"healia/clinic/internal/repo"
	"healia/clinic/internal/report"
	"healia/clinic/internal/views"
)

type ctxKey string

const ctxClaims ctxKey = "claims"

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db      *sqlx.DB
	store   *repo.Store
	views   *views.Service
	reports *report.Generator
	auth    *auth.Service
	bus     *live.Bus
	log     zerolog.Logger
}

// New constructs a Handler and the services it fronts.
func New(db *sqlx.DB, secret string, bus *live.Bus, logger zerolog.Logger) *Handler {
	store := repo.New(db, bus)
	return &Handler{
		db:      db,
		store:   store,
		views:   views.New(store),
		reports: report.New(store),
		auth:    auth.New(db, secret),
		bus:     bus,
		log:     logger,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Post("/auth/login", h.login)

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Post("/auth/logout", h.logout)
		pr.Get("/auth/session", h.session)

		pr.Route("/patients", func(r chi.Router) {
			r.Post("/", h.addPatient)
			r.Get("/", h.listPatients)
			r.Get("/search", h.searchPatients)
			r.Get("/{id}", h.getPatient)
			r.Put("/{id}", h.updatePatient)
			r.Get("/{id}/history", h.patientHistory)
			r.Get("/{id}/prescriptions", h.patientPrescriptions)
			r.Get("/{id}/records", h.patientRecords)
		})

		pr.Route("/appointments", func(r chi.Router) {
			r.Post("/", h.addAppointment)
			r.Get("/", h.appointmentsForDate)
			r.Get("/today", h.todaysAppointments)
		})

		pr.Post("/prescriptions", h.addPrescription)
		pr.Post("/records", h.addMedicalRecord)

		pr.Route("/medicines", func(r chi.Router) {
			r.Post("/", h.addMedicine)
			r.Get("/", h.listMedicines)
			r.Get("/search", h.searchMedicines)
			r.Get("/alerts", h.stockAlerts)
			r.Post("/{id}/stock", h.updateStock)
		})

		pr.Route("/bills", func(r chi.Router) {
			r.Post("/", h.createBill)
			r.Get("/", h.listBills)
			r.Get("/{id}", h.getBill)
			r.Post("/{id}/paid", h.markBillPaid)
			r.Get("/{id}/invoice", h.billInvoice)
		})

		pr.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", h.dashboardSummary)
			r.Get("/live", h.liveDashboard)
		})

		pr.Route("/reports", func(r chi.Router) {
			r.Get("/bills.pdf", h.billsReport)
			r.Get("/patients.pdf", h.patientsReport)
		})

		pr.Post("/admin/reset", h.adminReset)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Middleware

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("latency", time.Since(start)).
				Str("remote_ip", r.RemoteAddr).
				Msg("request")
		})
	}
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _, err := h.bearerClaims(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), ctxClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) bearerClaims(r *http.Request) (*auth.Claims, string, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return nil, "", errors.New("missing bearer token")
	}
	tokenString := strings.TrimSpace(header[len("Bearer "):])
	claims, err := h.auth.ParseToken(tokenString)
	if err != nil {
		return nil, "", errors.New("invalid token")
	}
	return claims, tokenString, nil
}

func (h *Handler) claims(r *http.Request) *auth.Claims {
	c, _ := r.Context().Value(ctxClaims).(*auth.Claims)
	return c
}

func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	claims := h.claims(r)
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "missing role")
		return false
	}
	for _, role := range allowed {
		if claims.Role == role {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "insufficient permissions")
	return false
}

// Helpers

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateOnly, s)
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// fail maps the error taxonomy onto HTTP statuses. Validation and not-found
// failures carry their detail; everything else surfaces only the action that
// failed.
func (h *Handler) fail(w http.ResponseWriter, err error, action string) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, repo.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repo.ErrValidation), errors.As(err, &verrs):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		h.log.Error().Err(err).Msg(action)
		respondError(w, http.StatusInternalServerError, action)
	}
}
