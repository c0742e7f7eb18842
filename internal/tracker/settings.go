package tracker

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/storage"
)

// LoadSettings reads the settings map, applying defaults for anything unset.
func LoadSettings(store storage.Provider) (models.Settings, error) {
	raw, ok, err := store.Get(constants.KeySettings)
	if err != nil {
		return models.Settings{}, err
	}
	if !ok || raw == "" {
		return models.DefaultSettings(), nil
	}

	var data map[string]string
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return models.Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return models.MapToSettings(data)
}

// SaveSettings persists every setting.
func SaveSettings(store storage.Provider, settings models.Settings) error {
	data, err := json.Marshal(models.SettingsToMap(settings))
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return store.Set(constants.KeySettings, string(data))
}
