package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
)

type errorBody struct {
	Message string               `json:"message"`
	Errors  []catalog.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}

// writeInvalid answers 400 and lists field errors when err carries them.
func writeInvalid(w http.ResponseWriter, msg string, err error) {
	body := errorBody{Message: msg}
	var ve *catalog.ValidationError
	if errors.As(err, &ve) {
		body.Errors = ve.Fields
	}
	writeJSON(w, http.StatusBadRequest, body)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

// pathParam returns the decoded value of a route parameter. chi matches on
// the escaped path when the request carries one, so ids holding reserved
// characters such as "/" arrive still escaped.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name)
		return "", false
	}
	return v, true
}
