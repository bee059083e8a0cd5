package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// httpError carries a status code to the response writer.
type httpError struct {
	Code    int
	Message string
}

func (e *httpError) Error() string { return e.Message }

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	var he *httpError
	if errors.As(err, &he) {
		writeJSON(w, he.Code, map[string]string{"error": he.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// decodeJSON reads a JSON body no larger than limit bytes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !isJSON(ct) {
		return &httpError{Code: http.StatusUnsupportedMediaType, Message: "Content-Type must be application/json"}
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return &httpError{Code: http.StatusRequestEntityTooLarge, Message: "request body too large"}
		}
		return &httpError{Code: http.StatusBadRequest, Message: "invalid JSON payload: " + err.Error()}
	}
	return nil
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "application/json")
}
