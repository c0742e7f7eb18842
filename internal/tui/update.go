package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/errors"
	"github.com/julianstephens/pillbox/internal/logger"
	"github.com/julianstephens/pillbox/internal/tui/components/doses"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		contentHeight := msg.Height - v - 4
		m.doses.SetSize(msg.Width-h, contentHeight)
		m.meds.SetSize(msg.Width-h, contentHeight)
		m.supply.SetSize(msg.Width-h, contentHeight)
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tick()

	case doses.CheckInMsg:
		m.checkIn(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if err := m.tracker.Load(); err != nil {
				m.setError(err)
			} else {
				m.status = "Reloaded"
				m.err = nil
			}
			m.refresh()
			return m, nil
		}

		if m.state == StateToday {
			switch {
			case key.Matches(msg, m.keys.PrevDay):
				m.date = m.date.AddDate(0, 0, -1)
				m.refresh()
				return m, nil
			case key.Matches(msg, m.keys.NextDay):
				m.date = m.date.AddDate(0, 0, 1)
				m.refresh()
				return m, nil
			case key.Matches(msg, m.keys.Today):
				m.date = m.today()
				m.refresh()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.doses, cmd = m.doses.Update(msg)
	case StateMedications:
		m.meds, cmd = m.meds.Update(msg)
	case StateSupply:
		m.supply, cmd = m.supply.Update(msg)
	}
	return m, cmd
}

func (m *Model) checkIn(msg doses.CheckInMsg) {
	verb := "taken"
	if !msg.Taken {
		verb = "skipped"
	}
	_, err := m.tracker.CheckIn(msg.MedicationID, msg.Time.String(), msg.Date, msg.Taken)
	m.refresh()
	if err != nil {
		m.setError(err)
		if !errors.Is(err, errors.ErrStorage) {
			return
		}
	} else {
		m.err = nil
	}
	m.status = fmt.Sprintf("Marked %s %s on %s as %s", msg.Name, msg.Time, msg.Date.Format(constants.DateFormat), verb)
}

func (m *Model) setError(err error) {
	logger.Error("Dashboard action failed", "error", err)
	m.err = err
	m.status = ""
}
