package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/errors"
	"github.com/julianstephens/pillbox/internal/logger"
	"github.com/julianstephens/pillbox/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the tracker's error taxonomy onto status codes.
func writeError(w http.ResponseWriter, err error) {
	var verr *errors.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: verr.Field})
	case errors.Is(err, errors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func badRequest(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Field: field})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badRequest(w, "", "invalid json")
		return false
	}
	return true
}

// dateParam reads a YYYY-MM-DD query parameter, defaulting to today.
func (s *server) dateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return s.startOfToday(), nil
	}
	return s.parseDate(name, raw)
}

func (s *server) parseDate(field, raw string) (time.Time, error) {
	d, err := time.ParseInLocation(constants.DateFormat, raw, s.opts.Location)
	if err != nil {
		return time.Time{}, errors.Invalid(field, "must be YYYY-MM-DD")
	}
	return d, nil
}

func (s *server) now() time.Time {
	return s.opts.Tracker.Now().In(s.opts.Location)
}

func (s *server) startOfToday() time.Time {
	return models.StartOfDay(s.now())
}
