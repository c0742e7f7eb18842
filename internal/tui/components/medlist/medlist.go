package medlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/provision"
)

type Item struct {
	Med   models.Medication
	Level provision.Level
}

func (i Item) Title() string {
	if i.Med.Category != "" {
		return fmt.Sprintf("%s (%s)", i.Med.Name, i.Med.Category)
	}
	return i.Med.Name
}

func (i Item) Description() string {
	stock := "stock unknown"
	if i.Med.Quantity != nil {
		stock = fmt.Sprintf("%d %s left", *i.Med.Quantity, i.Med.Unit.Plural(float64(*i.Med.Quantity)))
	}
	desc := fmt.Sprintf("%s | %s | %s", i.Med.FormatDose(), i.Med.Schedule.Format(), stock)
	if i.Level == provision.LevelLow || i.Level == provision.LevelCritical {
		desc += " | " + string(i.Level)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Med.Name }

type Model struct {
	list list.Model
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Medications"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return Model{list: l}
}

func (m *Model) SetMedications(meds []models.Medication, lowDays int) {
	items := make([]list.Item, len(meds))
	for i, med := range meds {
		items[i] = Item{Med: med, Level: provision.StockLevel(med, lowDays)}
	}
	m.list.SetItems(items)
}

// Items exposes the rendered medications in list order.
func (m Model) Items() []Item {
	out := make([]Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if item, ok := it.(Item); ok {
			out = append(out, item)
		}
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No medications yet.\n  Add one with 'pillbox med add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
