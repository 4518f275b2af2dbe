package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"healia/clinic/internal/repo"
)

func (h *Handler) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.views.DashboardSummary()
	if err != nil {
		h.fail(w, err, "unable to load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// liveDashboard streams dashboard summaries over SSE. A fresh summary is
// pushed whenever any collection changes; closing the request tears the
// subscription down.
func (h *Handler) liveDashboard(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub := h.bus.Subscribe(func(ctx context.Context) (interface{}, error) {
		return h.views.DashboardSummary()
	}, repo.Collections()...)
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case v, open := <-sub.Updates():
			if !open {
				return
			}
			payload, err := json.Marshal(v)
			if err != nil {
				h.log.Error().Err(err).Msg("unable to encode dashboard update")
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
