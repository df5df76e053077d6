package handlers

import (
	"encoding/json"
	"net/http"

	"powerrelay/backend/services/relay-service/internal/service"
)

// StatusSource provides the latest cycle status.
type StatusSource interface {
	Last() (service.CycleStatus, bool)
	Cycles() int64
}

type statusResponse struct {
	Cycles int64               `json:"cycles"`
	Last   service.CycleStatus `json:"last"`
}

// NewStatusHandler returns GET /status handler. It answers 204 until the first cycle finished.
func NewStatusHandler(source StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		last, ok := source.Last()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{Cycles: source.Cycles(), Last: last})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
