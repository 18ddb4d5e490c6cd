// Package httpx renders the single response envelope used across the API:
// {"status":"success","data":...} or {"status":"error","message":...,"errors":[...]}.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/blog-publishing-api/internal/apperr"
)

type successEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorEnvelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Success(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, successEnvelope{Status: "success", Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error maps any error through the apperr taxonomy to a status code and the
// error envelope. Unknown errors render as a generic 500.
func Error(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	WriteJSON(w, ae.HTTPStatus(), errorEnvelope{
		Status:  "error",
		Message: ae.Message,
		Errors:  ae.Fields,
	})
}

// DecodeJSON decodes a request body, rejecting malformed JSON as a
// validation failure before any store work happens.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &apperr.Error{Kind: apperr.KindValidation, Message: "invalid request body"}
	}
	return nil
}
