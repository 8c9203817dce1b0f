package web

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SendJSON writes data with the given status.
func SendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// SendError sends an error response
func SendError(w http.ResponseWriter, message string, status int) {
	SendJSON(w, status, Response{Success: false, Message: message})
}

// SendSuccess sends a success response
func SendSuccess(w http.ResponseWriter, status int, data interface{}) {
	SendJSON(w, status, Response{Success: true, Data: data})
}
