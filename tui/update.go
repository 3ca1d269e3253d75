package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ta.SetWidth(max(20, min(60, msg.Width-6)))
		return m, nil

	case posterMsg:
		// Results from superseded requests are dropped.
		if msg.seq == m.seq {
			m.pending = false
		}
		if msg.err != nil {
			m.err = msg.err
			m.status = "generation failed"
		} else if msg.seq == m.seq || m.scene == nil {
			m.scene, m.dims, m.elapsed, m.err = msg.scene, msg.dims, msg.elapsed, nil
			m.count++
			m.status = "poster ready"
		}
		return m, m.waitForPoster()

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, keys.Regenerate):
			m.status = "neu"
			return m, m.schedule(m.ta.Value())
		case key.Matches(msg, keys.Print):
			if m.scene == nil {
				m.status = "nothing to print yet"
				return m, nil
			}
			if err := m.gen.print(m.scene); err != nil {
				m.err = err
				return m, nil
			}
			m.status = "sent to printer"
			return m, nil
		case key.Matches(msg, keys.Save):
			if m.scene == nil {
				m.status = "nothing to save yet"
				return m, nil
			}
			path, err := m.gen.save(m.scene)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.status = fmt.Sprintf("saved %s", path)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	if v := m.ta.Value(); v != m.lastIn {
		return m, tea.Batch(cmd, m.schedule(v))
	}
	return m, cmd
}
