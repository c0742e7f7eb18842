package doses

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

// 2024-03-04 is a Monday
var testNow = time.Date(2024, 3, 4, 8, 5, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, *tracker.Tracker) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	fc := clock.NewFake()
	fc.Set(testNow)
	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, Out: out, Clock: fc}

	s := models.DefaultSettings()
	s.Timezone = "UTC"
	if err := ctx.SaveSettings(s); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	tr, err := ctx.Tracker()
	if err != nil {
		t.Fatalf("failed to open tracker: %v", err)
	}
	return ctx, out, tr
}

func addMedication(t *testing.T, tr *tracker.Tracker, name string, times ...string) models.Medication {
	t.Helper()
	med := models.Medication{Name: name, Dosage: 1, Unit: models.UnitPill, Quantity: models.IntPtr(20)}
	if len(times) > 0 {
		med.Schedule = models.DailySchedule(times...)
	}
	added, err := tr.AddMedication(med)
	if err != nil {
		t.Fatalf("failed to add medication: %v", err)
	}
	return added
}

func today() time.Time {
	return models.StartOfDay(testNow)
}

func TestTakeCmd_NearestOccurrence(t *testing.T) {
	ctx, out, tr := setupTestDB(t)
	med := addMedication(t, tr, "Aspirin", "08:00", "20:00")

	if err := (&TakeCmd{Medication: "Aspirin", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("take command failed: %v", err)
	}

	m := tr.MatchOccurrence(med.ID, "08:00", today())
	if m == nil || !m.Taken {
		t.Fatalf("08:00 occurrence should be taken, got %+v", m)
	}
	if tr.MatchOccurrence(med.ID, "20:00", today()) != nil {
		t.Errorf("20:00 occurrence should be untouched")
	}
	if !strings.Contains(out.String(), "Marked Aspirin 08:00 on 2024-03-04 as taken") {
		t.Errorf("unexpected output: %s", out.String())
	}

	history, err := tr.History(med.ID)
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 1 || !history[0].Timestamp.Equal(testNow) {
		t.Errorf("check-in inside the window should be stamped now, got %+v", history)
	}
}

func TestSkipCmd_ExplicitTime(t *testing.T) {
	ctx, out, tr := setupTestDB(t)
	med := addMedication(t, tr, "Aspirin", "08:00", "20:00")

	if err := (&SkipCmd{Medication: med.ID, Time: "20:00", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("skip command failed: %v", err)
	}

	m := tr.MatchOccurrence(med.ID, "20:00", today())
	if m == nil || m.Taken {
		t.Fatalf("20:00 occurrence should be skipped, got %+v", m)
	}
	history, _ := tr.History(med.ID)
	want := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)
	if len(history) != 1 || !history[0].Timestamp.Equal(want) {
		t.Errorf("check-in outside the window should be stamped at the scheduled time, got %+v", history)
	}
	if !strings.Contains(out.String(), "as skipped") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestTakeCmd_UpdatesExistingCheckIn(t *testing.T) {
	ctx, _, tr := setupTestDB(t)
	med := addMedication(t, tr, "Aspirin", "08:00")

	if err := (&SkipCmd{Medication: "Aspirin", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("skip command failed: %v", err)
	}
	if err := (&TakeCmd{Medication: "Aspirin", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("take command failed: %v", err)
	}

	history, _ := tr.History(med.ID)
	if len(history) != 1 {
		t.Fatalf("second check-in should update the record, got %d records", len(history))
	}
	if !history[0].Taken {
		t.Errorf("record should now be taken")
	}
}

func TestTakeCmd_OtherDateNeedsTime(t *testing.T) {
	ctx, _, tr := setupTestDB(t)
	addMedication(t, tr, "Aspirin", "08:00", "20:00")

	err := (&TakeCmd{Medication: "Aspirin", Date: "yesterday"}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "pass --time") {
		t.Errorf("expected --time hint, got %v", err)
	}

	if err := (&TakeCmd{Medication: "Aspirin", Date: "yesterday", Time: "20:00"}).Run(ctx); err != nil {
		t.Fatalf("take command failed: %v", err)
	}
}

func TestTakeCmd_Unscheduled(t *testing.T) {
	ctx, out, tr := setupTestDB(t)
	med := addMedication(t, tr, "Ibuprofen")

	if err := (&TakeCmd{Medication: "ibuprofen", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("take command failed: %v", err)
	}
	history, _ := tr.History(med.ID)
	if len(history) != 1 || !history[0].Taken {
		t.Errorf("expected one taken record, got %+v", history)
	}
	if !strings.Contains(out.String(), "Logged Ibuprofen as taken at 08:05") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestTakeCmd_InvalidTime(t *testing.T) {
	ctx, _, tr := setupTestDB(t)
	addMedication(t, tr, "Aspirin", "08:00")

	if err := (&TakeCmd{Medication: "Aspirin", Date: "today", Time: "8am"}).Run(ctx); err == nil {
		t.Errorf("expected error for malformed time")
	}
	if err := (&TakeCmd{Medication: "Nope", Date: "today"}).Run(ctx); err == nil {
		t.Errorf("expected error for unknown medication")
	}
}

func TestTodayCmd(t *testing.T) {
	ctx, out, tr := setupTestDB(t)

	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatalf("today command failed: %v", err)
	}
	if !strings.Contains(out.String(), "No doses scheduled") {
		t.Errorf("unexpected output: %s", out.String())
	}

	med := addMedication(t, tr, "Aspirin", "08:00", "20:00")
	if _, err := tr.CheckIn(med.ID, "08:00", today(), true); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	out.Reset()
	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatalf("today command failed: %v", err)
	}
	for _, want := range []string{"Mon 2024-03-04", "Aspirin", "08:00", "20:00", "taken", "pending"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("today output missing %q:\n%s", want, out.String())
		}
	}
}

func TestHistoryCmd(t *testing.T) {
	ctx, out, tr := setupTestDB(t)
	med := addMedication(t, tr, "Aspirin", "08:00")

	if err := (&HistoryCmd{Medication: "Aspirin", Limit: 20}).Run(ctx); err != nil {
		t.Fatalf("history command failed: %v", err)
	}
	if !strings.Contains(out.String(), "No consumption recorded") {
		t.Errorf("unexpected output: %s", out.String())
	}

	for i := 1; i <= 3; i++ {
		ts := testNow.AddDate(0, 0, -i)
		if _, err := tr.RecordConsumption(med.ID, ts, i != 2); err != nil {
			t.Fatalf("failed to record consumption: %v", err)
		}
	}

	out.Reset()
	if err := (&HistoryCmd{Medication: "Aspirin", Limit: 2}).Run(ctx); err != nil {
		t.Fatalf("history command failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "2024-03-03 08:05") || !strings.Contains(got, "2024-03-02 08:05") {
		t.Errorf("history should show the newest records:\n%s", got)
	}
	if strings.Contains(got, "2024-03-01") {
		t.Errorf("history should respect --limit:\n%s", got)
	}
	if !strings.Contains(got, "skipped") {
		t.Errorf("history should show skipped records:\n%s", got)
	}
}

func TestAdherenceCmd(t *testing.T) {
	ctx, out, tr := setupTestDB(t)
	med := addMedication(t, tr, "Aspirin", "08:00")
	addMedication(t, tr, "Ibuprofen")

	yesterday := today().AddDate(0, 0, -1)
	if _, err := tr.CheckIn(med.ID, "08:00", yesterday, true); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	if err := (&AdherenceCmd{To: "today", Days: 3}).Run(ctx); err != nil {
		t.Fatalf("adherence command failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Adherence 2024-03-02 to 2024-03-04") {
		t.Errorf("unexpected header:\n%s", got)
	}
	if !strings.Contains(got, "Aspirin") {
		t.Errorf("adherence should list scheduled medications:\n%s", got)
	}
	if strings.Contains(got, "Ibuprofen") {
		t.Errorf("unscheduled medications have nothing to report:\n%s", got)
	}
	// 03-02 missed, 03-03 taken, 03-04 08:00 still inside its window
	if !strings.Contains(got, "50%") {
		t.Errorf("expected a 50%% rate:\n%s", got)
	}
}

func TestAdherenceCmd_InvalidRange(t *testing.T) {
	ctx, _, tr := setupTestDB(t)
	addMedication(t, tr, "Aspirin", "08:00")

	if err := (&AdherenceCmd{Medication: "Aspirin", From: "2024-03-10", To: "2024-03-01"}).Run(ctx); err == nil {
		t.Errorf("expected error for inverted range")
	}
}
