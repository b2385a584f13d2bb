package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finzo/backend/internal/contracts"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		// Marshal before writing the header so an unencodable payload
		// still produces a well-formed error response.
		body = []byte(`{"error":"Internal server error"}`)
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondEngineError maps domain errors onto HTTP statuses: a rejected
// profile is the caller's fault, missing market data is ours.
func respondEngineError(w http.ResponseWriter, err error) {
	if contracts.IsInvalidProfile(err) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, contracts.ErrDataUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "Market data not yet collected")
		return
	}
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
