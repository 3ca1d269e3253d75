// Package tui is the interactive poster editor behind `plakat watch`.
// Every edit schedules a debounced regeneration; the newest poster is
// written to a preview file that a browser or image viewer can reload.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ByLCY/plakat/host"
	"github.com/ByLCY/plakat/layout"
	"github.com/ByLCY/plakat/renderer"
	"github.com/ByLCY/plakat/schedule"
)

// Options wires the editor to the engine and its outputs.
type Options struct {
	Engine *layout.Engine
	// Preview renders every new poster into PreviewPath.
	Preview     renderer.Renderer
	PreviewPath string
	// Print renders the current poster for the printer (usually PDF).
	Print   renderer.Renderer
	Printer *host.Printer
	// SaveDir receives ctrl+s snapshots. Defaults to the preview directory.
	SaveDir  string
	Debounce time.Duration
	Text     string // initial text
}

// posterMsg carries a finished generation back into the update loop.
type posterMsg struct {
	seq     int
	text    string
	scene   *layout.Scene
	dims    layout.Dimensions
	elapsed time.Duration
	err     error
}

// generator holds everything shared between the model copies and the
// debounced jobs.
type generator struct {
	ctx      context.Context
	opts     Options
	debounce *schedule.Debouncer
	results  chan posterMsg
}

type Model struct {
	width  int
	height int

	ta      textarea.Model
	spin    spinner.Model
	help    help.Model
	gen     *generator
	lastIn  string
	seq     int // requests issued
	pending bool

	scene   *layout.Scene
	dims    layout.Dimensions
	elapsed time.Duration
	count   int // posters generated
	status  string
	err     error
}

// New builds the editor model. ctx bounds every generation it schedules.
func New(ctx context.Context, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "type something..."
	ta.CharLimit = 400
	ta.ShowLineNumbers = false
	ta.SetWidth(40)
	ta.SetHeight(4)
	ta.Focus()
	ta.SetValue(opts.Text)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	m := Model{
		ta:   ta,
		spin: sp,
		help: help.New(),
		gen: &generator{
			ctx:      ctx,
			opts:     opts,
			debounce: schedule.New(opts.Debounce),
			results:  make(chan posterMsg, 1),
		},
		status: "ready",
	}
	m.schedule(opts.Text)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForPoster(), m.spin.Tick)
}

// schedule asks the debouncer for a regeneration of text. A job that has
// not started yet is dropped in favour of this one.
func (m *Model) schedule(text string) tea.Cmd {
	m.seq++
	m.lastIn = text
	m.pending = true
	seq := m.seq
	g := m.gen
	g.debounce.Trigger(func() {
		msg := g.generate(seq, text)
		select {
		case g.results <- msg:
		case <-g.ctx.Done():
		}
	})
	return m.spin.Tick
}

func (m Model) waitForPoster() tea.Cmd {
	results := m.gen.results
	return func() tea.Msg { return <-results }
}

func (g *generator) generate(seq int, text string) posterMsg {
	start := time.Now()
	scene, dims, err := g.opts.Engine.Compose(g.ctx, text)
	if err != nil {
		return posterMsg{seq: seq, text: text, err: err}
	}
	msg := posterMsg{seq: seq, text: text, scene: scene, dims: dims}
	if g.opts.Preview != nil && g.opts.PreviewPath != "" {
		if err := writeDoc(g.opts.Preview, scene, g.opts.PreviewPath); err != nil {
			msg.err = err
		}
	}
	msg.elapsed = time.Since(start)
	return msg
}

func (g *generator) print(scene *layout.Scene) error {
	if g.opts.Printer == nil || g.opts.Print == nil {
		return fmt.Errorf("no printer configured")
	}
	doc, err := g.opts.Print.Render(scene)
	if err != nil {
		return fmt.Errorf("render for print: %w", err)
	}
	g.opts.Printer.Print(g.ctx, doc)
	return nil
}

func (g *generator) save(scene *layout.Scene) (string, error) {
	if g.opts.Preview == nil {
		return "", fmt.Errorf("no preview renderer configured")
	}
	dir := g.opts.SaveDir
	if dir == "" {
		dir = filepath.Dir(g.opts.PreviewPath)
	}
	path := filepath.Join(dir, fmt.Sprintf("plakat-%s%s", scene.ID[:8], extFor(g.opts.Preview)))
	return path, writeDoc(g.opts.Preview, scene, path)
}

func writeDoc(r renderer.Renderer, scene *layout.Scene, path string) error {
	doc, err := r.Render(scene)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, doc, 0o644)
}

func extFor(r renderer.Renderer) string {
	switch r.ContentType() {
	case "image/svg+xml":
		return ".svg"
	case "image/png":
		return ".png"
	default:
		return ".pdf"
	}
}

// Close stops any regeneration that has not started yet.
func (m Model) Close() { m.gen.debounce.Stop() }
