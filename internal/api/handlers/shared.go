package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// respondError sends a structured error response with message and detail.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	errorResponse := map[string]string{
		"error": message,
	}
	if err != nil {
		errorResponse["detail"] = err.Error()
	}
	respondJSON(w, status, errorResponse)
}
