package models

// PlanEntry is one medication's line in a travel plan. It is derived and never stored.
type PlanEntry struct {
	MedicationID     string  `json:"medicationId"`
	Name             string  `json:"name"`
	Unit             Unit    `json:"unit"`
	DosesPerDay      int     `json:"dosesPerDay"`
	UnitsPerDose     float64 `json:"unitsPerDose"`
	TotalDays        int     `json:"totalDays"`
	TotalUnitsNeeded float64 `json:"totalUnitsNeeded"`
	CurrentStock     int     `json:"currentStock"`
	Sufficient       bool    `json:"sufficient"`
}

// Shortfall returns how many units are missing, or zero when stock suffices.
func (p PlanEntry) Shortfall() float64 {
	if p.Sufficient {
		return 0
	}
	return p.TotalUnitsNeeded - float64(p.CurrentStock)
}
