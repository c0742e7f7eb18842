package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/pillbox/internal/models"
	"github.com/julianstephens/pillbox/internal/provision"
)

var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	OKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// StatusBadge colors a dose status.
func StatusBadge(s models.DoseStatus) string {
	switch s {
	case models.DoseTaken:
		return OKStyle.Render("✓ taken")
	case models.DoseSkipped:
		return WarnStyle.Render("– skipped")
	case models.DoseMissed:
		return ErrorStyle.Render("✗ missed")
	default:
		return MutedStyle.Render("· pending")
	}
}

func LevelBadge(l provision.Level) string {
	switch l {
	case provision.LevelCritical:
		return ErrorStyle.Render(string(l))
	case provision.LevelLow:
		return WarnStyle.Render(string(l))
	case provision.LevelOK:
		return OKStyle.Render(string(l))
	default:
		return MutedStyle.Render(string(l))
	}
}

// Table renders rows under a bold header with a rounded border.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(MutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			return cellStyle
		})
	return t.Render()
}
