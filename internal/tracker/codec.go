package tracker

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/ledger"
	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/storage"
)

// loadState reads both collections. Missing keys are treated as empty.
func loadState(store storage.Provider) (State, error) {
	var s State

	if err := loadJSON(store, constants.KeyMedications, &s.Medications); err != nil {
		return State{}, err
	}

	var records []models.ConsumptionRecord
	if err := loadJSON(store, constants.KeyConsumptionHistory, &records); err != nil {
		return State{}, err
	}
	s.Ledger = ledger.Ledger(records)

	return s, nil
}

func loadJSON(store storage.Provider, key string, dst interface{}) error {
	raw, ok, err := store.Get(key)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// saveKeys writes the given keys of s back to the store.
func saveKeys(store storage.Provider, s State, keys []string) error {
	for _, key := range keys {
		var value interface{}
		switch key {
		case constants.KeyMedications:
			value = nonNilMeds(s.Medications)
		case constants.KeyConsumptionHistory:
			value = nonNilRecords(s.Ledger)
		default:
			return fmt.Errorf("unknown store key %q", key)
		}

		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		if err := store.Set(key, string(data)); err != nil {
			return err
		}
	}
	return nil
}

func nonNilMeds(m []models.Medication) []models.Medication {
	if m == nil {
		return []models.Medication{}
	}
	return m
}

func nonNilRecords(l ledger.Ledger) []models.ConsumptionRecord {
	if l == nil {
		return []models.ConsumptionRecord{}
	}
	return l
}
