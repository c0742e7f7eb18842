package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/errors"
	"github.com/julianstephens/pillbox/internal/logger"
	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/provision"
	"github.com/julianstephens/pillbox/internal/tracker"
)

type recordRequest struct {
	MedicationID string    `json:"medicationId"`
	Timestamp    time.Time `json:"timestamp"`
	Taken        *bool     `json:"taken"`
}

type recordResponse struct {
	ID string `json:"id"`
}

func (s *server) recordConsumption(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Taken == nil {
		badRequest(w, "taken", "taken is required")
		return
	}
	id, err := s.opts.Tracker.RecordConsumption(req.MedicationID, req.Timestamp, *req.Taken)
	if id == "" {
		writeError(w, err)
		return
	}
	if err != nil {
		logger.Warn("Consumption kept in memory but not saved", "medication", req.MedicationID, "error", err)
	}
	s.acknowledge(req.MedicationID, req.Timestamp, *req.Taken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordResponse{ID: id})
}

type updateRecordRequest struct {
	Taken *bool `json:"taken"`
}

func (s *server) updateConsumption(w http.ResponseWriter, r *http.Request) {
	var req updateRecordRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Taken == nil {
		badRequest(w, "taken", "taken is required")
		return
	}
	recordID := chi.URLParam(r, "recordID")
	err := s.opts.Tracker.UpdateConsumption(recordID, *req.Taken)
	if err != nil && !errors.Is(err, errors.ErrStorage) {
		writeError(w, err)
		return
	}
	if rec, ok := s.opts.Tracker.Record(recordID); ok {
		s.acknowledge(rec.MedicationID, rec.Timestamp, *req.Taken)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) history(w http.ResponseWriter, r *http.Request) {
	records, err := s.opts.Tracker.History(chi.URLParam(r, "medID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type matchResponse struct {
	Matched  bool              `json:"matched"`
	Status   models.DoseStatus `json:"status"`
	Taken    bool              `json:"taken,omitempty"`
	RecordID string            `json:"recordId,omitempty"`
}

func toMatchResponse(m *models.Match) matchResponse {
	resp := matchResponse{Status: models.StatusOf(m)}
	if m != nil {
		resp.Matched = true
		resp.Taken = m.Taken
		resp.RecordID = m.RecordID
	}
	return resp
}

func (s *server) match(w http.ResponseWriter, r *http.Request) {
	medID := chi.URLParam(r, "medID")
	if _, err := s.opts.Tracker.GetMedication(medID); err != nil {
		writeError(w, err)
		return
	}
	date, err := s.dateParam(r, "date")
	if err != nil {
		writeError(w, err)
		return
	}
	raw := r.URL.Query().Get("time")
	if _, err := models.ParseTimeOfDay(raw); err != nil {
		badRequest(w, "time", "time must be HH:MM")
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(s.opts.Tracker.MatchOccurrence(medID, raw, date)))
}

type checkInRequest struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Taken *bool  `json:"taken"`
}

func (s *server) checkIn(w http.ResponseWriter, r *http.Request) {
	medID := chi.URLParam(r, "medID")
	var req checkInRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Taken == nil {
		badRequest(w, "taken", "taken is required")
		return
	}
	date := s.startOfToday()
	if req.Date != "" {
		d, err := s.parseDate("date", req.Date)
		if err != nil {
			writeError(w, err)
			return
		}
		date = d
	}

	m, err := s.opts.Tracker.CheckIn(medID, req.Time, date, *req.Taken)
	if err != nil && m == nil {
		writeError(w, err)
		return
	}
	if err != nil {
		logger.Warn("Check-in kept in memory but not saved", "medication", medID, "error", err)
	}
	s.acknowledge(medID, date, *req.Taken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(m))
}

// acknowledge resolves the in-process reminder for medID when the check-in concerns today.
func (s *server) acknowledge(medID string, at time.Time, taken bool) {
	if s.opts.Scanner == nil || !models.SameDate(at.In(s.opts.Location), s.now()) {
		return
	}
	s.opts.Scanner.Acknowledge(medID, taken)
}

type doseResponse struct {
	MedicationID string            `json:"medicationId"`
	Name         string            `json:"name"`
	Dose         string            `json:"dose"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	Status       models.DoseStatus `json:"status"`
	RecordID     string            `json:"recordId,omitempty"`
}

func (s *server) today(w http.ResponseWriter, r *http.Request) {
	date, err := s.dateParam(r, "date")
	if err != nil {
		writeError(w, err)
		return
	}
	views := s.opts.Tracker.DosesOn(date)
	out := make([]doseResponse, 0, len(views))
	for _, v := range views {
		d := doseResponse{
			MedicationID: v.Medication.ID,
			Name:         v.Medication.Name,
			Dose:         v.Medication.FormatDose(),
			Date:         v.Date.Format(constants.DateFormat),
			Time:         v.Time.String(),
			Status:       v.Status,
		}
		if v.Match != nil {
			d.RecordID = v.Match.RecordID
		}
		out = append(out, d)
	}
	writeJSON(w, http.StatusOK, out)
}

type adherenceResponse struct {
	tracker.Adherence
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
}

func (s *server) adherence(w http.ResponseWriter, r *http.Request) {
	to, err := s.dateParam(r, "to")
	if err != nil {
		writeError(w, err)
		return
	}
	from := to.AddDate(0, 0, -6)
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = s.parseDate("from", raw); err != nil {
			writeError(w, err)
			return
		}
	}
	a, err := s.opts.Tracker.Adherence(chi.URLParam(r, "medID"), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adherenceResponse{
		Adherence: a,
		From:      from.Format(constants.DateFormat),
		To:        to.Format(constants.DateFormat),
		Rate:      a.Rate(),
	})
}

type travelRequest struct {
	Start         string   `json:"start"`
	End           string   `json:"end"`
	BufferDays    *int     `json:"bufferDays"`
	MedicationIDs []string `json:"medicationIds"`
}

type travelResponse struct {
	TotalDays int                `json:"totalDays"`
	Entries   []models.PlanEntry `json:"entries"`
}

func (s *server) travel(w http.ResponseWriter, r *http.Request) {
	var req travelRequest
	if !decode(w, r, &req) {
		return
	}
	start, err := s.parseDate("start", req.Start)
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := s.parseDate("end", req.End)
	if err != nil {
		writeError(w, err)
		return
	}
	buffer := s.opts.BufferDays
	if req.BufferDays != nil {
		buffer = *req.BufferDays
	}

	meds := s.opts.Tracker.Medications()
	if len(req.MedicationIDs) > 0 {
		meds = meds[:0:0]
		for _, id := range req.MedicationIDs {
			med, err := s.opts.Tracker.GetMedication(id)
			if err != nil {
				writeError(w, err)
				return
			}
			meds = append(meds, med)
		}
	}

	entries, err := provision.Calculate(provision.Request{Start: start, End: end, BufferDays: buffer, Medications: meds})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, travelResponse{
		TotalDays: provision.TripDays(start, end) + buffer,
		Entries:   entries,
	})
}
