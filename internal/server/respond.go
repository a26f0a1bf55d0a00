package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// errorBody is the uniform error payload. Every non-2xx response carries a
// machine-readable code and a human-readable message, nothing else.
type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: write response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorBody{Code: code, Error: message})
}

// respondInternal hides the underlying error from the client.
func respondInternal(w http.ResponseWriter, err error) {
	log.Printf("server: internal error: %v", err)
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error")
}
