package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/restopos/restopos/internal/validation"
)

// Success responses are wrapped in a data envelope; errors carry a message
// the client can show directly.
type dataEnvelope struct {
	Data interface{} `json:"data"`
	Meta *pageMeta   `json:"meta,omitempty"`
}

type pageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type errorEnvelope struct {
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, dataEnvelope{Data: data})
}

func respondPage(w http.ResponseWriter, status int, data interface{}, page, limit, total int) {
	respondJSON(w, status, dataEnvelope{Data: data, Meta: &pageMeta{Page: page, Limit: limit, Total: total}})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorEnvelope{Message: message})
}

func respondValidation(w http.ResponseWriter, result validation.Result) {
	respondJSON(w, http.StatusUnprocessableEntity, errorEnvelope{
		Message: "Validation failed",
		Errors:  result,
	})
}
