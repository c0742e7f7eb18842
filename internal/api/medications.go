package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/provision"
)

type medicationResponse struct {
	models.Medication
	DaysRemaining *int            `json:"daysRemaining,omitempty"`
	StockLevel    provision.Level `json:"stockLevel"`
	LowQuantity   bool            `json:"lowQuantity"`
}

func (s *server) toMedicationResponse(med models.Medication) medicationResponse {
	resp := medicationResponse{
		Medication:  med,
		StockLevel:  provision.StockLevel(med, s.opts.LowStockDays),
		LowQuantity: provision.LowQuantity(med),
	}
	if days, ok := provision.DaysRemaining(med); ok {
		resp.DaysRemaining = &days
	}
	return resp
}

func (s *server) listMedications(w http.ResponseWriter, _ *http.Request) {
	meds := s.opts.Tracker.Medications()
	out := make([]medicationResponse, 0, len(meds))
	for _, m := range meds {
		out = append(out, s.toMedicationResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) createMedication(w http.ResponseWriter, r *http.Request) {
	var med models.Medication
	if !decode(w, r, &med) {
		return
	}
	created, err := s.opts.Tracker.AddMedication(med)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.toMedicationResponse(created))
}

func (s *server) getMedication(w http.ResponseWriter, r *http.Request) {
	med, err := s.opts.Tracker.GetMedication(chi.URLParam(r, "medID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toMedicationResponse(med))
}

func (s *server) updateMedication(w http.ResponseWriter, r *http.Request) {
	var med models.Medication
	if !decode(w, r, &med) {
		return
	}
	med.ID = chi.URLParam(r, "medID")
	if err := s.opts.Tracker.UpdateMedication(med); err != nil {
		writeError(w, err)
		return
	}
	updated, err := s.opts.Tracker.GetMedication(med.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toMedicationResponse(updated))
}

func (s *server) deleteMedication(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Tracker.DeleteMedication(chi.URLParam(r, "medID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) stock(w http.ResponseWriter, _ *http.Request) {
	meds := s.opts.Tracker.Medications()
	out := make([]medicationResponse, 0, len(meds))
	for _, m := range meds {
		resp := s.toMedicationResponse(m)
		if resp.StockLevel == provision.LevelLow || resp.StockLevel == provision.LevelCritical || resp.LowQuantity {
			out = append(out, resp)
		}
	}
	writeJSON(w, http.StatusOK, out)
}
