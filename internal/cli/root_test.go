package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jmhodges/clock"

	"github.com/julianstephens/pillbox/internal/errors"
	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/storage"
)

func setupTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	fc := clock.NewFake()
	fc.Set(time.Date(2024, 3, 4, 8, 5, 0, 0, time.UTC))

	out := &bytes.Buffer{}
	ctx := &Context{Store: storage.NewMemoryStore(), Out: out, Clock: fc}

	s := models.DefaultSettings()
	s.Timezone = "UTC"
	if err := ctx.SaveSettings(s); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	return ctx, out
}

func TestContext_ParseDate(t *testing.T) {
	ctx, _ := setupTestContext(t)

	tests := []struct {
		in   string
		want string
	}{
		{"", "2024-03-04"},
		{"today", "2024-03-04"},
		{"Yesterday", "2024-03-03"},
		{"tomorrow", "2024-03-05"},
		{"2024-02-29", "2024-02-29"},
	}
	for _, tt := range tests {
		got, err := ctx.ParseDate(tt.in)
		if err != nil {
			t.Errorf("ParseDate(%q) error: %v", tt.in, err)
			continue
		}
		if got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
		}
		if got.Hour() != 0 || got.Minute() != 0 {
			t.Errorf("ParseDate(%q) should be midnight, got %s", tt.in, got)
		}
	}

	if _, err := ctx.ParseDate("03/04/2024"); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected validation error for bad date, got %v", err)
	}
}

func TestContext_FindMedication(t *testing.T) {
	ctx, _ := setupTestContext(t)
	tr, err := ctx.Tracker()
	if err != nil {
		t.Fatalf("failed to open tracker: %v", err)
	}

	aspirin, err := tr.AddMedication(models.Medication{Name: "Aspirin", Dosage: 1, Unit: models.UnitPill})
	if err != nil {
		t.Fatalf("failed to add medication: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := tr.AddMedication(models.Medication{Name: "Vitamin D", Dosage: 1, Unit: models.UnitCapsule}); err != nil {
			t.Fatalf("failed to add medication: %v", err)
		}
	}

	for _, ref := range []string{aspirin.ID, "aspirin", aspirin.ID[:8]} {
		med, err := ctx.FindMedication(ref)
		if err != nil {
			t.Errorf("FindMedication(%q) error: %v", ref, err)
			continue
		}
		if med.ID != aspirin.ID {
			t.Errorf("FindMedication(%q) = %s, want %s", ref, med.ID, aspirin.ID)
		}
	}

	if _, err := ctx.FindMedication("vitamin d"); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected ambiguous match to be a validation error, got %v", err)
	}
	if _, err := ctx.FindMedication("ibuprofen"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestContext_Ask(t *testing.T) {
	ctx, _ := setupTestContext(t)

	var asked string
	ctx.Confirm = func(title string) (bool, error) {
		asked = title
		return false, nil
	}

	ok, err := ctx.Ask("Delete?", true)
	if err != nil || !ok {
		t.Errorf("Ask with yes should confirm without prompting, got %v, %v", ok, err)
	}
	if asked != "" {
		t.Errorf("prompt should not run when yes is set")
	}

	ok, err = ctx.Ask("Delete?", false)
	if err != nil || ok {
		t.Errorf("Ask should return the prompt answer, got %v, %v", ok, err)
	}
	if asked != "Delete?" {
		t.Errorf("prompt title = %q", asked)
	}
}

func TestContext_NowUsesConfiguredTimezone(t *testing.T) {
	if _, err := time.LoadLocation("America/New_York"); err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	ctx, _ := setupTestContext(t)

	s, err := ctx.Settings()
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	s.Timezone = "America/New_York"
	if err := ctx.SaveSettings(s); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	if got := ctx.Now().Location().String(); got != "America/New_York" {
		t.Errorf("Now() location = %s", got)
	}
	if got := ctx.Now().Hour(); got != 3 {
		t.Errorf("Now() hour = %d, want 3", got)
	}
}

func TestBuildSchedule(t *testing.T) {
	s, err := BuildSchedule(nil, nil)
	if err != nil || len(s.Times) != 0 {
		t.Errorf("no times should give an empty schedule, got %+v, %v", s, err)
	}

	if _, err := BuildSchedule(nil, []string{"mon"}); err == nil {
		t.Errorf("days without times should fail")
	}

	s, err = BuildSchedule([]string{"08:00", "20:00"}, nil)
	if err != nil {
		t.Fatalf("BuildSchedule error: %v", err)
	}
	if s.Type != models.ScheduleDaily || len(s.Times) != 2 {
		t.Errorf("unexpected daily schedule %+v", s)
	}

	s, err = BuildSchedule([]string{"09:00"}, []string{"mon", " Friday "})
	if err != nil {
		t.Fatalf("BuildSchedule error: %v", err)
	}
	if s.Type != models.ScheduleSpecificDays || len(s.Days) != 2 || s.Days[0] != "monday" || s.Days[1] != "friday" {
		t.Errorf("unexpected weekly schedule %+v", s)
	}

	if _, err := BuildSchedule([]string{"09:00"}, []string{"funday"}); err == nil {
		t.Errorf("unknown weekday should fail")
	}
}

func TestFormatStock(t *testing.T) {
	med := models.Medication{Name: "Aspirin", Dosage: 1, Unit: models.UnitTablet}
	if got := FormatStock(med); got != "unknown" {
		t.Errorf("FormatStock(nil quantity) = %q", got)
	}
	med.Quantity = models.IntPtr(12)
	if got := FormatStock(med); got != "12 tablets" {
		t.Errorf("FormatStock = %q, want 12 tablets", got)
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("ShortID = %q", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID(short) = %q", got)
	}
}

func TestTable(t *testing.T) {
	out := Table([]string{"Name", "Stock"}, [][]string{{"Aspirin", "12"}})
	for _, want := range []string{"Name", "Stock", "Aspirin", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}
