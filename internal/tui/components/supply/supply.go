package supply

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/provision"
)

var (
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Width(24)

	stockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	levelStyles = map[provision.Level]lipgloss.Style{
		provision.LevelOK:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		provision.LevelLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		provision.LevelCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		provision.LevelUnknown:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
	}
)

type Model struct {
	viewport viewport.Model
	meds     []models.Medication
	lowDays  int
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.meds) == 0 {
		return "No medications to track."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetMedications(meds []models.Medication, lowDays int) {
	m.meds = meds
	m.lowDays = lowDays
	m.Render()
}

// Content is the rendered outlook, one line per medication.
func (m Model) Content() string {
	var b strings.Builder
	for _, med := range m.meds {
		level := provision.StockLevel(med, m.lowDays)
		stock := "unknown"
		if med.Quantity != nil {
			stock = fmt.Sprintf("%d %s", *med.Quantity, med.Unit.Plural(float64(*med.Quantity)))
		}
		outlook := string(level)
		if days, ok := provision.DaysRemaining(med); ok {
			outlook = fmt.Sprintf("%d days (%s)", days, level)
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			nameStyle.Render(med.Name),
			stockStyle.Render(stock),
			levelStyles[level].Render(outlook),
		)
	}
	return b.String()
}

func (m *Model) Render() {
	m.viewport.SetContent(m.Content())
}
