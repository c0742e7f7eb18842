package provision

import (
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/pillbox/internal/errors"
	"github.com/julianstephens/pillbox/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculate_InsufficientStock(t *testing.T) {
	med := models.Medication{
		ID:       "m1",
		Name:     "Amoxicillin",
		Dosage:   1,
		Unit:     models.UnitCapsule,
		Quantity: models.IntPtr(10),
		Schedule: models.DailySchedule("08:00", "20:00"),
	}

	entries, err := Calculate(Request{
		Start:       date(2024, 3, 1),
		End:         date(2024, 3, 5),
		BufferDays:  1,
		Medications: []models.Medication{med},
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}

	e := entries[0]
	if e.DosesPerDay != 2 || e.TotalDays != 6 || e.TotalUnitsNeeded != 12 {
		t.Errorf("entry = %+v, want 2 doses/day, 6 days, 12 units", e)
	}
	if e.Sufficient {
		t.Error("stock of 10 should not cover 12 units")
	}
	if e.Shortfall() != 2 {
		t.Errorf("Shortfall() = %v, want 2", e.Shortfall())
	}
}

func TestCalculate_SingleDayTrip(t *testing.T) {
	med := models.Medication{ID: "m1", Dosage: 2, Unit: models.UnitTablet, Quantity: models.IntPtr(2), Schedule: models.DailySchedule("09:00")}
	entries, err := Calculate(Request{Start: date(2024, 3, 1), End: date(2024, 3, 1), Medications: []models.Medication{med}})
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].TotalDays != 1 || entries[0].TotalUnitsNeeded != 2 || !entries[0].Sufficient {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestCalculate_UnknownStockIsZero(t *testing.T) {
	med := models.Medication{ID: "m1", Dosage: 1, Unit: models.UnitPill, Schedule: models.DailySchedule("09:00")}
	entries, err := Calculate(Request{Start: date(2024, 3, 1), End: date(2024, 3, 2), Medications: []models.Medication{med}})
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].CurrentStock != 0 || entries[0].Sufficient {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestCalculate_FrequencyFallback(t *testing.T) {
	med := models.Medication{ID: "m1", Dosage: 1, Unit: models.UnitPill, Quantity: models.IntPtr(100), Frequency: "Three times daily"}
	entries, err := Calculate(Request{Start: date(2024, 3, 1), End: date(2024, 3, 3), Medications: []models.Medication{med}})
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].DosesPerDay != 3 || entries[0].TotalUnitsNeeded != 9 {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestCalculate_Errors(t *testing.T) {
	_, err := Calculate(Request{Start: date(2024, 3, 5), End: date(2024, 3, 1)})
	if !errors.Is(err, errors.ErrInvalidRange) || !errors.Is(err, errors.ErrValidation) {
		t.Errorf("inverted range error = %v", err)
	}

	_, err = Calculate(Request{Start: date(2024, 3, 1), End: date(2024, 3, 2), BufferDays: -1})
	if !errors.Is(err, errors.ErrValidation) {
		t.Errorf("negative buffer error = %v", err)
	}
}

func TestCalculate_Pure(t *testing.T) {
	req := Request{
		Start:      date(2024, 3, 1),
		End:        date(2024, 3, 10),
		BufferDays: 2,
		Medications: []models.Medication{
			{ID: "a", Dosage: 1.5, Unit: models.UnitML, Quantity: models.IntPtr(40), Schedule: models.DailySchedule("08:00")},
			{ID: "b", Dosage: 1, Unit: models.UnitPill, Quantity: models.IntPtr(5), Frequency: "twice daily"},
		},
	}
	first, err := Calculate(req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Calculate(req)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	if *req.Medications[1].Quantity != 5 {
		t.Error("input mutated")
	}
}

func TestTripDaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone data unavailable")
	}
	start := time.Date(2024, 3, 9, 0, 0, 0, 0, ny)
	end := time.Date(2024, 3, 11, 0, 0, 0, 0, ny)
	if got := TripDays(start, end); got != 3 {
		t.Errorf("TripDays() = %d, want 3", got)
	}
}

func TestFrequencyDoses(t *testing.T) {
	tests := map[string]int{
		"daily":             1,
		"twice daily":       2,
		"three times daily": 3,
		"four times daily":  4,
		"as needed":         0,
		"":                  0,
	}
	for text, want := range tests {
		if got := FrequencyDoses(text); got != want {
			t.Errorf("FrequencyDoses(%q) = %d, want %d", text, got, want)
		}
	}
}

func TestDaysRemainingAndStockLevel(t *testing.T) {
	tests := []struct {
		name      string
		med       models.Medication
		wantDays  int
		wantKnown bool
		wantLevel Level
	}{
		{
			name:      "plenty",
			med:       models.Medication{Dosage: 1, Quantity: models.IntPtr(30), Schedule: models.DailySchedule("08:00")},
			wantDays:  30,
			wantKnown: true,
			wantLevel: LevelOK,
		},
		{
			name:      "low",
			med:       models.Medication{Dosage: 1, Quantity: models.IntPtr(10), Schedule: models.DailySchedule("08:00", "20:00")},
			wantDays:  5,
			wantKnown: true,
			wantLevel: LevelLow,
		},
		{
			name:      "critical",
			med:       models.Medication{Dosage: 2, Quantity: models.IntPtr(9), Schedule: models.DailySchedule("08:00", "20:00")},
			wantDays:  2,
			wantKnown: true,
			wantLevel: LevelCritical,
		},
		{
			name:      "no schedule defaults to one dose",
			med:       models.Medication{Dosage: 1, Quantity: models.IntPtr(8)},
			wantDays:  8,
			wantKnown: true,
			wantLevel: LevelOK,
		},
		{
			name:      "unknown stock",
			med:       models.Medication{Dosage: 1},
			wantLevel: LevelUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, known := DaysRemaining(tt.med)
			if days != tt.wantDays || known != tt.wantKnown {
				t.Errorf("DaysRemaining() = %d, %v; want %d, %v", days, known, tt.wantDays, tt.wantKnown)
			}
			if got := StockLevel(tt.med, 0); got != tt.wantLevel {
				t.Errorf("StockLevel() = %s, want %s", got, tt.wantLevel)
			}
		})
	}
}

func TestLowQuantity(t *testing.T) {
	if !LowQuantity(models.Medication{Quantity: models.IntPtr(4)}) {
		t.Error("4 units should be low")
	}
	if LowQuantity(models.Medication{Quantity: models.IntPtr(5)}) {
		t.Error("5 units should not be low")
	}
	if LowQuantity(models.Medication{}) {
		t.Error("unknown quantity should not be low")
	}
}
