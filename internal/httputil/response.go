// Package httputil provides the JSON response helpers shared by the API
// handlers.
package httputil

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// WriteJSON encodes v as the response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("httputil: encoding response: %v", err)
	}
}

// WriteJSONOK encodes v with status 200.
func WriteJSONOK(w http.ResponseWriter, v interface{}) {
	WriteJSON(w, http.StatusOK, v)
}

// WriteJSONError sends the standard error envelope, a JSON object carrying
// the message and the numeric status.
func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]interface{}{
		"error":  msg,
		"status": status,
	})
}

// BadRequest reports a 400 with a formatted message.
func BadRequest(w http.ResponseWriter, format string, args ...interface{}) {
	WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// NotFound reports a 404 with a formatted message.
func NotFound(w http.ResponseWriter, format string, args ...interface{}) {
	WriteJSONError(w, http.StatusNotFound, fmt.Sprintf(format, args...))
}

// NotImplemented reports a 501 with a formatted message.
func NotImplemented(w http.ResponseWriter, format string, args ...interface{}) {
	WriteJSONError(w, http.StatusNotImplemented, fmt.Sprintf(format, args...))
}

// InternalServerError reports a 500 with a formatted message.
func InternalServerError(w http.ResponseWriter, format string, args ...interface{}) {
	WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf(format, args...))
}

// MethodNotAllowed sets the Allow header and reports a 405.
func MethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	WriteJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
}
