package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/plakat/layout"
)

func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render("plakat") + dimStyle.Render(" ─ generative typographic posters")
	b.WriteString(header + "\n\n")

	b.WriteString(boxStyle.Render(m.ta.View()))
	b.WriteString("\n")

	text := m.ta.Value()
	paper := m.gen.opts.Engine.Paper()
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d chars · %.0f mm", utf8.RuneCountInString(text), layout.CanvasHeightMM(text, paper))))
	b.WriteString("\n\n")

	b.WriteString(m.statsView())
	b.WriteString("\n")

	status := m.status
	if m.pending {
		status = m.spin.View() + " generating"
	}
	b.WriteString(dimStyle.Render(status))
	if m.err != nil {
		b.WriteString("  " + errStyle.Render(m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(keys))

	out := appStyle.Render(b.String())
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}

func (m Model) statsView() string {
	if m.scene == nil {
		return dimStyle.Render("no poster yet")
	}
	recipe := m.scene.Recipe
	if recipe == "" {
		recipe = "placeholder"
	}
	rows := [][2]string{
		{"recipe", recipe},
		{"primitives", fmt.Sprintf("%d (%d text, %d shapes)", m.scene.Len(), len(m.scene.Texts()), len(m.scene.Shapes()))},
		{"canvas", fmt.Sprintf("%.0f × %.0f px", m.dims.WidthPx, m.dims.HeightPx)},
		{"elapsed", m.elapsed.String()},
		{"posters", fmt.Sprintf("%d", m.count)},
	}
	if p := m.gen.opts.PreviewPath; p != "" {
		rows = append(rows, [2]string{"preview", p})
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = labelStyle.Render(r[0]) + r[1]
	}
	return strings.Join(lines, "\n")
}
