// Package provision computes how much of each medication is needed to cover a
// date range, and how long the current stock will last.
package provision

import (
	"math"
	"strings"
	"time"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/errors"
	"github.com/julianstephens/pillbox/internal/models"
)

type Request struct {
	Start       time.Time
	End         time.Time
	BufferDays  int
	Medications []models.Medication
}

// Calculate returns one plan entry per requested medication, in request order.
// Start and End are compared as calendar dates in Start's location.
func Calculate(req Request) ([]models.PlanEntry, error) {
	start := models.StartOfDay(req.Start)
	end := models.StartOfDay(req.End.In(req.Start.Location()))

	if end.Before(start) {
		return nil, errors.InvalidRange(start.Format(constants.DateFormat), end.Format(constants.DateFormat))
	}
	if req.BufferDays < 0 {
		return nil, errors.Invalid("bufferDays", "must not be negative, got %d", req.BufferDays)
	}

	totalDays := TripDays(start, end) + req.BufferDays

	entries := make([]models.PlanEntry, 0, len(req.Medications))
	for _, med := range req.Medications {
		dosesPerDay := DosesPerDay(med)
		total := float64(dosesPerDay*totalDays) * med.Dosage
		stock := med.Stock()

		entries = append(entries, models.PlanEntry{
			MedicationID:     med.ID,
			Name:             med.Name,
			Unit:             med.Unit,
			DosesPerDay:      dosesPerDay,
			UnitsPerDose:     med.Dosage,
			TotalDays:        totalDays,
			TotalUnitsNeeded: total,
			CurrentStock:     stock,
			Sufficient:       float64(stock) >= total,
		})
	}
	return entries, nil
}

// TripDays counts the calendar days from start to end, both included.
func TripDays(start, end time.Time) int {
	s := models.StartOfDay(start)
	e := models.StartOfDay(end.In(start.Location()))
	// Build UTC dates so DST transitions never shorten a day
	su := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	eu := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	return int(eu.Sub(su).Hours()/24) + 1
}

// DosesPerDay uses the schedule's distinct times, falling back to the free-text frequency.
func DosesPerDay(med models.Medication) int {
	if n := len(med.Schedule.Normalize().Times); n > 0 {
		return n
	}
	return FrequencyDoses(med.Frequency)
}

// FrequencyDoses classifies legacy frequency text. Unrecognized text yields zero.
func FrequencyDoses(text string) int {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "daily":
		return 1
	case "twice daily":
		return 2
	case "three times daily":
		return 3
	case "four times daily":
		return 4
	default:
		return 0
	}
}

// DaysRemaining estimates how many whole days the stock lasts. The second
// result is false when stock or dosage is unknown.
func DaysRemaining(med models.Medication) (int, bool) {
	if med.Quantity == nil || *med.Quantity <= 0 || med.Dosage <= 0 {
		return 0, false
	}
	daily := len(med.Schedule.Normalize().Times)
	if daily == 0 {
		daily = 1
	}
	return int(math.Floor(float64(*med.Quantity) / (med.Dosage * float64(daily)))), true
}

type Level string

const (
	LevelUnknown  Level = "unknown"
	LevelOK       Level = "ok"
	LevelLow      Level = "low"
	LevelCritical Level = "critical"
)

// StockLevel grades the days of supply left. lowDays <= 0 uses the default threshold.
func StockLevel(med models.Medication, lowDays int) Level {
	if lowDays <= 0 {
		lowDays = constants.LowStockDays
	}
	days, ok := DaysRemaining(med)
	switch {
	case !ok:
		return LevelUnknown
	case days < constants.CriticalStockDays:
		return LevelCritical
	case days < lowDays:
		return LevelLow
	default:
		return LevelOK
	}
}

// LowQuantity flags a known stock below the absolute dashboard threshold.
func LowQuantity(med models.Medication) bool {
	return med.Quantity != nil && *med.Quantity > 0 && *med.Quantity < constants.LowQuantityThreshold
}
