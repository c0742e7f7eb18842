package doses

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/tracker"
)

// CheckInMsg asks the parent model to mark an occurrence taken or skipped.
type CheckInMsg struct {
	MedicationID string
	Name         string
	Time         models.TimeOfDay
	Date         time.Time
	Taken        bool
}

type Item struct {
	Dose tracker.DoseView
}

func (i Item) Title() string {
	return fmt.Sprintf("%s  %s", i.Dose.Time, i.Dose.Medication.Name)
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | %s %s", i.Dose.Medication.FormatDose(), statusIcon(i.Dose.Status), i.Dose.Status)
	if i.Dose.Medication.Instructions != "" {
		desc += " | " + i.Dose.Medication.Instructions
	}
	return desc
}

func (i Item) FilterValue() string { return i.Dose.Medication.Name }

func statusIcon(s models.DoseStatus) string {
	switch s {
	case models.DoseTaken:
		return "✓"
	case models.DoseSkipped:
		return "–"
	case models.DoseMissed:
		return "✗"
	default:
		return "·"
	}
}

type KeyMap struct {
	Take key.Binding
	Skip key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Take: key.NewBinding(
			key.WithKeys("t", "enter"),
			key.WithHelp("t", "take"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
	date time.Time
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return Model{list: l, keys: DefaultKeyMap()}
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m *Model) SetDoses(views []tracker.DoseView, date time.Time) {
	selected := m.list.Index()
	items := make([]list.Item, len(views))
	for i, v := range views {
		items[i] = Item{Dose: v}
	}
	m.list.SetItems(items)
	if selected < len(items) {
		m.list.Select(selected)
	}
	m.date = date
}

// Selected returns the highlighted dose, if any.
func (m Model) Selected() (tracker.DoseView, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Dose, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Take):
			return m, m.checkIn(true)
		case key.Matches(msg, m.keys.Skip):
			return m, m.checkIn(false)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) checkIn(taken bool) tea.Cmd {
	dose, ok := m.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return CheckInMsg{
			MedicationID: dose.Medication.ID,
			Name:         dose.Medication.Name,
			Time:         dose.Time,
			Date:         dose.Date,
			Taken:        taken,
		}
	}
}

func (m Model) View() string {
	header := m.date.Format("Monday, January 2 2006")
	if len(m.list.Items()) == 0 {
		return header + "\n\n  No doses scheduled."
	}
	return header + "\n\n" + m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height-2)
}
