package meds

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmhodges/clock"

	"github.com/julianstephens/pillbox/internal/cli"
	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/storage/sqlite"
	"github.com/julianstephens/pillbox/internal/tracker"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	fc := clock.NewFake()
	fc.Set(time.Date(2024, 3, 4, 8, 5, 0, 0, time.UTC))
	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, Out: out, Clock: fc}

	s := models.DefaultSettings()
	s.Timezone = "UTC"
	if err := ctx.SaveSettings(s); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, out, cleanup
}

func addAspirin(t *testing.T, ctx *cli.Context) models.Medication {
	t.Helper()
	cmd := &MedAddCmd{
		Name:     "Aspirin",
		Dosage:   1,
		Unit:     "tablets",
		Quantity: models.IntPtr(10),
		Times:    []string{"08:00", "20:00"},
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add command failed: %v", err)
	}
	med, err := ctx.FindMedication("Aspirin")
	if err != nil {
		t.Fatalf("added medication not found: %v", err)
	}
	return med
}

func TestMedAddCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	med := addAspirin(t, ctx)

	if med.Unit != models.UnitTablet {
		t.Errorf("unit = %s, want tablet", med.Unit)
	}
	if med.Quantity == nil || *med.Quantity != 10 {
		t.Errorf("quantity = %v, want 10", med.Quantity)
	}
	if med.Schedule.Type != models.ScheduleDaily || len(med.Schedule.Times) != 2 {
		t.Errorf("unexpected schedule %+v", med.Schedule)
	}
	if !strings.Contains(out.String(), "Added medication: Aspirin") {
		t.Errorf("unexpected output: %s", out.String())
	}

	// Persisted, not just cached
	reopened, err := tracker.Open(ctx.Store)
	if err != nil {
		t.Fatalf("failed to reopen tracker: %v", err)
	}
	if len(reopened.Medications()) != 1 {
		t.Errorf("expected 1 persisted medication, got %d", len(reopened.Medications()))
	}
}

func TestMedAddCmd_Invalid(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		name string
		cmd  MedAddCmd
	}{
		{"unknown unit", MedAddCmd{Name: "Aspirin", Dosage: 1, Unit: "bucket"}},
		{"days without times", MedAddCmd{Name: "Aspirin", Dosage: 1, Unit: "pill", Days: []string{"mon"}}},
		{"bad time", MedAddCmd{Name: "Aspirin", Dosage: 1, Unit: "pill", Times: []string{"25:00"}}},
		{"zero dosage", MedAddCmd{Name: "Aspirin", Dosage: 0, Unit: "pill"}},
		{"empty name", MedAddCmd{Name: "  ", Dosage: 1, Unit: "pill"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Errorf("expected error")
			}
		})
	}

	tr, err := ctx.Tracker()
	if err != nil {
		t.Fatalf("failed to open tracker: %v", err)
	}
	if n := len(tr.Medications()); n != 0 {
		t.Errorf("invalid adds should not persist, got %d medications", n)
	}
}

func TestMedEditCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()
	med := addAspirin(t, ctx)

	qty := 30
	category := "pain"
	cmd := &MedEditCmd{Medication: "aspirin", Quantity: &qty, Category: &category, Times: []string{"09:00"}, Days: []string{"mon", "thu"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("edit command failed: %v", err)
	}

	updated, err := ctx.FindMedication(med.ID)
	if err != nil {
		t.Fatalf("medication not found after edit: %v", err)
	}
	if updated.Quantity == nil || *updated.Quantity != 30 {
		t.Errorf("quantity = %v, want 30", updated.Quantity)
	}
	if updated.Category != "pain" {
		t.Errorf("category = %q", updated.Category)
	}
	if updated.Schedule.Type != models.ScheduleSpecificDays || len(updated.Schedule.Days) != 2 {
		t.Errorf("unexpected schedule %+v", updated.Schedule)
	}
	if updated.Name != "Aspirin" || updated.Dosage != 1 {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if !strings.Contains(out.String(), "Updated medication: Aspirin") {
		t.Errorf("unexpected output: %s", out.String())
	}

	reset := &MedEditCmd{Medication: med.ID, ClearQuantity: true, ClearSchedule: true}
	if err := reset.Run(ctx); err != nil {
		t.Fatalf("edit command failed: %v", err)
	}
	updated, _ = ctx.FindMedication(med.ID)
	if updated.Quantity != nil {
		t.Errorf("quantity should be cleared, got %d", *updated.Quantity)
	}
	if len(updated.Schedule.Times) != 0 {
		t.Errorf("schedule should be cleared, got %+v", updated.Schedule)
	}
}

func TestMedEditCmd_NotFound(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	name := "x"
	cmd := &MedEditCmd{Medication: "missing", Name: &name}
	if err := cmd.Run(ctx); err == nil {
		t.Errorf("expected error for unknown medication")
	}
}

func TestMedDeleteCmd_Cancelled(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()
	med := addAspirin(t, ctx)

	ctx.Confirm = func(string) (bool, error) { return false, nil }
	if err := (&MedDeleteCmd{Medication: med.ID}).Run(ctx); err != nil {
		t.Fatalf("delete command failed: %v", err)
	}
	if !strings.Contains(out.String(), "Delete cancelled.") {
		t.Errorf("unexpected output: %s", out.String())
	}
	if _, err := ctx.FindMedication(med.ID); err != nil {
		t.Errorf("medication should still exist: %v", err)
	}
}

func TestMedDeleteCmd(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()
	med := addAspirin(t, ctx)

	tr, err := ctx.Tracker()
	if err != nil {
		t.Fatalf("failed to open tracker: %v", err)
	}
	if _, err := tr.RecordConsumption(med.ID, ctx.Now(), true); err != nil {
		t.Fatalf("failed to record consumption: %v", err)
	}

	ctx.Confirm = func(string) (bool, error) {
		t.Errorf("prompt should not run with --yes")
		return false, nil
	}
	if err := (&MedDeleteCmd{Medication: "Aspirin", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete command failed: %v", err)
	}

	if len(tr.Medications()) != 0 {
		t.Errorf("medication should be deleted")
	}
	if _, err := tr.History(med.ID); err == nil {
		t.Errorf("history of a deleted medication should not be found")
	}
}

func TestMedListCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&MedListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list command failed: %v", err)
	}
	if !strings.Contains(out.String(), "No medications found") {
		t.Errorf("unexpected output for empty list: %s", out.String())
	}

	med := addAspirin(t, ctx)
	out.Reset()
	if err := (&MedListCmd{ShowIDs: true}).Run(ctx); err != nil {
		t.Fatalf("list command failed: %v", err)
	}
	for _, want := range []string{"Aspirin", med.ID, "10 tablets", "low"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := (&MedListCmd{Category: "vitamins"}).Run(ctx); err != nil {
		t.Fatalf("list command failed: %v", err)
	}
	if !strings.Contains(out.String(), `No medications in category "vitamins"`) {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestMedShowCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()
	addAspirin(t, ctx)

	if err := (&MedShowCmd{Medication: "aspirin"}).Run(ctx); err != nil {
		t.Fatalf("show command failed: %v", err)
	}
	for _, want := range []string{"Aspirin", "daily at 08:00, 20:00", "10 tablets", "5 days", "2024-03-04 08:05"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("show output missing %q:\n%s", want, out.String())
		}
	}
}
