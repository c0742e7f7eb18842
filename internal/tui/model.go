package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/tracker"
	"github.com/julianstephens/pillbox/internal/tui/components/doses"
	"github.com/julianstephens/pillbox/internal/tui/components/medlist"
	"github.com/julianstephens/pillbox/internal/tui/components/supply"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateMedications
	StateSupply
)

var tabTitles = []string{"Today", "Medications", "Supply"}

// refreshInterval keeps pending/missed statuses current while the dashboard is open.
const refreshInterval = time.Minute

type tickMsg time.Time

type Model struct {
	tracker  *tracker.Tracker
	settings models.Settings
	loc      *time.Location
	date     time.Time
	state    SessionState
	keys     KeyMap
	help     help.Model
	doses    doses.Model
	meds     medlist.Model
	supply   supply.Model
	status   string
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(tr *tracker.Tracker, settings models.Settings, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	m := Model{
		tracker:  tr,
		settings: settings,
		loc:      loc,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		doses:    doses.New(0, 0),
		meds:     medlist.New(0, 0),
		supply:   supply.New(0, 0),
	}
	m.date = m.today()
	m.refresh()
	return m
}

func (m Model) today() time.Time {
	return models.StartOfDay(m.tracker.Now().In(m.loc))
}

// refresh rebuilds every tab from the tracker's current state.
func (m *Model) refresh() {
	meds := m.tracker.Medications()
	m.doses.SetDoses(m.tracker.DosesOn(m.date), m.date)
	m.meds.SetMedications(meds, m.settings.LowStockDays)
	m.supply.SetMedications(meds, m.settings.LowStockDays)
}

// State reports the visible tab.
func (m Model) State() SessionState {
	return m.state
}

// Date is the day shown on the Today tab.
func (m Model) Date() time.Time {
	return m.date
}

// Status is the last feedback line, empty when there is none.
func (m Model) Status() string {
	return m.status
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateToday {
		keys = append(keys, m.doses.Keys().Take, m.doses.Keys().Skip, m.keys.PrevDay, m.keys.NextDay)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}

	var actions []key.Binding
	if m.state == StateToday {
		actions = []key.Binding{m.doses.Keys().Take, m.doses.Keys().Skip, m.keys.PrevDay, m.keys.NextDay, m.keys.Today}
	}
	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}
