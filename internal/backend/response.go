package backend

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error body, shaped like the Python backend's {"detail": ...}
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// WriteJSON writes data as a JSON response with statusCode
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with detail
func WriteError(w http.ResponseWriter, statusCode int, detail string) {
	WriteJSON(w, statusCode, ErrorResponse{Detail: detail})
}
