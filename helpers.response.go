package main

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the envelope sent to the web client whenever a
// request could not be served. Upstream error bodies are never passed
// through unparsed: the message is always extracted and rewrapped here.
// The tried list is only populated when every backend candidate failed,
// so operators can see which URLs were probed and why each one failed.
type ErrorResponse struct {
	RequestID string         `json:"requestid,omitempty"`
	Error     string         `json:"error"`
	Tried     []ProbeAttempt `json:"tried,omitempty"`
}

// WriteJSON sends any payload to the client as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteRaw forwards an upstream JSON body to the client unchanged.
func WriteRaw(w http.ResponseWriter, status int, data []byte) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_, err := w.Write(data)
	return err
}

// WriteError sends the normalized error envelope to the client.
func WriteError(w http.ResponseWriter, requestID string, status int, message string) error {
	return WriteJSON(w, status, &ErrorResponse{RequestID: requestID, Error: message})
}

// WriteGatewayError translates a gateway failure into the error envelope,
// keeping the upstream status and any probe diagnostics it carries.
func WriteGatewayError(w http.ResponseWriter, requestID string, gerr *GatewayError) error {
	return WriteJSON(w, gerr.Status, &ErrorResponse{RequestID: requestID, Error: gerr.Message, Tried: gerr.Tried})
}
