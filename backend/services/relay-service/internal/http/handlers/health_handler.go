package handlers

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string     `json:"status"`
	LastCycle *time.Time `json:"last_cycle,omitempty"`
}

// NewHealthHandler returns GET /health handler. The relay is unhealthy once no cycle has finished
// within maxAge; before the first cycle it reports starting with 200. A zero maxAge disables the staleness check.
func NewHealthHandler(source StatusSource, maxAge time.Duration, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		last, ok := source.Last()
		if !ok {
			writeJSON(w, http.StatusOK, healthResponse{Status: "starting"})
			return
		}
		finished := last.FinishedAt
		resp := healthResponse{Status: "ok", LastCycle: &finished}
		if maxAge > 0 && now().Sub(finished) > maxAge {
			resp.Status = "stale"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
