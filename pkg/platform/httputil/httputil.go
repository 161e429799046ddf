// Package httputil holds small helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "docseva/pkg/domain-errors"
)

// errorBody is the wire shape for all error responses.
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSON serializes v with the given status. Encoding failures are silently
// dropped; by then the status line has already been written.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a coded error onto an HTTP response. Validation failures
// include the field→reason map so clients can annotate their forms.
func WriteError(w http.ResponseWriter, err error) {
	status := dErrors.ToHTTPStatus(err)
	body := errorBody{Error: string(dErrors.CodeOf(err))}

	var coded *dErrors.Error
	if errors.As(err, &coded) {
		body.Message = coded.Message()
		body.Fields = coded.Fields()
	}
	WriteJSON(w, status, body)
}

// DecodeJSON decodes a request body into v, rejecting unknown junk bodies with
// a coded bad-request error.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
