package tracker

import (
	"strings"
	"time"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/errors"
	"github.com/julianstephens/pillbox/internal/ledger"
	"github.com/julianstephens/pillbox/internal/models"
)

// State is the complete tracker data set. Commands never modify a State in
// place; Apply returns the successor.
type State struct {
	Medications []models.Medication
	Ledger      ledger.Ledger
}

// Medication returns the medication with the given id.
func (s State) Medication(id string) (models.Medication, bool) {
	for _, m := range s.Medications {
		if m.ID == id {
			return m, true
		}
	}
	return models.Medication{}, false
}

func (s State) medicationIndex(id string) int {
	for i, m := range s.Medications {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Command is a single state transition. dirty lists the store keys it changes.
type Command interface {
	Apply(State) (State, error)
	dirty() []string
}

type AddMedication struct {
	Medication models.Medication
}

func (c AddMedication) Apply(s State) (State, error) {
	if err := validateMedication(c.Medication); err != nil {
		return s, err
	}
	if s.medicationIndex(c.Medication.ID) >= 0 {
		return s, errors.Invalid("id", "medication %s already exists", c.Medication.ID)
	}

	meds := make([]models.Medication, len(s.Medications), len(s.Medications)+1)
	copy(meds, s.Medications)
	s.Medications = append(meds, c.Medication)
	return s, nil
}

func (c AddMedication) dirty() []string { return []string{constants.KeyMedications} }

type UpdateMedication struct {
	Medication models.Medication
	At         time.Time
}

// Apply replaces the stored medication wholesale, keeping its creation time.
func (c UpdateMedication) Apply(s State) (State, error) {
	idx := s.medicationIndex(c.Medication.ID)
	if idx < 0 {
		return s, errors.NotFound("medication", c.Medication.ID)
	}
	if err := validateMedication(c.Medication); err != nil {
		return s, err
	}

	updated := c.Medication
	updated.CreatedAt = s.Medications[idx].CreatedAt
	at := c.At
	updated.UpdatedAt = &at

	meds := make([]models.Medication, len(s.Medications))
	copy(meds, s.Medications)
	meds[idx] = updated
	s.Medications = meds
	return s, nil
}

func (c UpdateMedication) dirty() []string { return []string{constants.KeyMedications} }

type DeleteMedication struct {
	ID string
}

// Apply removes the medication and every consumption record that references it.
func (c DeleteMedication) Apply(s State) (State, error) {
	idx := s.medicationIndex(c.ID)
	if idx < 0 {
		return s, errors.NotFound("medication", c.ID)
	}

	meds := make([]models.Medication, 0, len(s.Medications)-1)
	meds = append(meds, s.Medications[:idx]...)
	meds = append(meds, s.Medications[idx+1:]...)

	s.Medications = meds
	s.Ledger = s.Ledger.DeleteMedication(c.ID)
	return s, nil
}

func (c DeleteMedication) dirty() []string {
	return []string{constants.KeyMedications, constants.KeyConsumptionHistory}
}

type RecordConsumption struct {
	Record models.ConsumptionRecord
}

func (c RecordConsumption) Apply(s State) (State, error) {
	if strings.TrimSpace(c.Record.ID) == "" {
		return s, errors.Invalid("id", "record id cannot be empty")
	}
	if c.Record.Timestamp.IsZero() {
		return s, errors.Invalid("timestamp", "timestamp is required")
	}
	if s.medicationIndex(c.Record.MedicationID) < 0 {
		return s, errors.NotFound("medication", c.Record.MedicationID)
	}
	s.Ledger = s.Ledger.Record(c.Record)
	return s, nil
}

func (c RecordConsumption) dirty() []string { return []string{constants.KeyConsumptionHistory} }

type UpdateConsumption struct {
	RecordID string
	Taken    bool
}

func (c UpdateConsumption) Apply(s State) (State, error) {
	l, err := s.Ledger.UpdateTaken(c.RecordID, c.Taken)
	if err != nil {
		return s, err
	}
	s.Ledger = l
	return s, nil
}

func (c UpdateConsumption) dirty() []string { return []string{constants.KeyConsumptionHistory} }

func validateMedication(m models.Medication) error {
	if strings.TrimSpace(m.ID) == "" {
		return errors.Invalid("id", "medication id cannot be empty")
	}
	if err := m.Validate(); err != nil {
		return &errors.ValidationError{Field: "medication", Reason: err.Error(), Err: err}
	}
	return nil
}
