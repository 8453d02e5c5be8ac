package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/dynamo"
	"github.com/san-kum/rigid2d/internal/metrics"
	"github.com/san-kum/rigid2d/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	gravityStep     = 0.01
)

type TickMsg time.Time

// Builder produces a fresh simulation for the scene. The model calls it
// on start and on every reset.
type Builder func() (*sim.Simulation, error)

// Model drives one Tick per frame and draws every body by index.
type Model struct {
	build          Builder
	sim            *sim.Simulation
	name           string
	fps            int
	canvas         *Canvas
	view           Viewport
	running        bool
	showHelp       bool
	theme          Theme
	styles         styles
	energyHistory  []float64
	contactHistory []float64
}

func NewModel(name string, build Builder, fps int) (Model, error) {
	if fps <= 0 {
		fps = 60
	}
	m := Model{
		build:   build,
		name:    name,
		fps:     fps,
		canvas:  NewCanvas(width, height),
		running: true,
		theme:   ThemeCyberpunk,
		styles:  newStyles(ThemeCyberpunk),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	s, err := m.build()
	if err != nil {
		return err
	}
	m.sim = s
	m.view = fitView(s, m.canvas)
	m.energyHistory = make([]float64, 0, historyCapacity)
	m.contactHistory = make([]float64, 0, historyCapacity)
	return nil
}

// fitView frames the boundary, or the initial bodies when there is none.
func fitView(s *sim.Simulation, c *Canvas) Viewport {
	f := s.Frame()
	lo, hi, ok := f.Bounds()
	if bd := s.Config().Boundary; bd != nil {
		r := dynamo.Vec2{X: bd.Radius, Y: bd.Radius}
		blo, bhi := bd.Center.Sub(r), bd.Center.Add(r)
		if !ok || bd.Mode == collision.Contain {
			lo, hi = blo, bhi
		} else {
			lo = dynamo.Vec2{X: min(lo.X, blo.X), Y: min(lo.Y, blo.Y)}
			hi = dynamo.Vec2{X: max(hi.X, bhi.X), Y: max(hi.Y, bhi.Y)}
		}
	} else if ok {
		// leave room for bodies that drift
		pad := max(hi.X-lo.X, hi.Y-lo.Y)
		lo = lo.Sub(dynamo.Vec2{X: pad, Y: pad})
		hi = hi.Add(dynamo.Vec2{X: pad, Y: pad})
	}
	return NewViewport(lo, hi, c.DotsWide(), c.DotsHigh())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "r":
			if err := m.reset(); err != nil {
				return m, tea.Quit
			}
		case "up", "k":
			m.sim.SetGravity(m.sim.Gravity() + gravityStep)
		case "down", "j":
			m.sim.SetGravity(m.sim.Gravity() - gravityStep)
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.sim.Tick()
	f := m.sim.Frame()
	m.energyHistory = appendBounded(m.energyHistory, metrics.TotalKineticEnergy(&f))
	m.contactHistory = appendBounded(m.contactHistory, float64(f.Stats.Contacts()))
}

func appendBounded(h []float64, v float64) []float64 {
	if len(h) >= historyCapacity {
		h = h[1:]
	}
	return append(h, v)
}

func (m Model) draw() {
	m.canvas.Clear()

	if bd := m.sim.Config().Boundary; bd != nil {
		cx, cy := m.view.Project(bd.Center)
		m.canvas.DrawCircle(cx, cy, m.view.Length(bd.Radius))
	}
	for i := 0; i < m.sim.NumCircles(); i++ {
		c := m.sim.Circle(i)
		cx, cy := m.view.Project(c.Position)
		m.canvas.DrawCircle(cx, cy, m.view.Length(c.Radius))
	}
	for i := 0; i < m.sim.NumRects(); i++ {
		r := m.sim.Rect(i)
		x0, y0 := m.view.Project(r.Min())
		x1, y1 := m.view.Project(r.Max())
		m.canvas.DrawRect(x0, y0, x1, y1)
	}
}

func (m Model) View() string {
	m.draw()
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	if m.running {
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	stats := m.sim.Stats()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.sim.TickCount()))
	row("Gravity", fmt.Sprintf("%.3f", m.sim.Gravity()))
	row("Bodies", fmt.Sprintf("%d circles, %d rects", m.sim.NumCircles(), m.sim.NumRects()))
	row("Contacts", fmt.Sprintf("%d (%d boundary)", stats.Contacts(), stats.BoundaryContacts))
	row("Overlap", fmt.Sprintf("%.2f", stats.MaxOverlap))
	if stats.Degenerate > 0 {
		row("Degenerate", fmt.Sprintf("%d", stats.Degenerate))
	}
	row("", Sparkline(m.contactHistory, 24))

	s.WriteString(st.help.Render("─────────────────────\nSP:Pause N:Step R:Reset\n↑↓:Gravity T:Theme Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Single tick while paused ║
║  R        - Rebuild the scene        ║
║  Up/K     - Gravity +0.01            ║
║  Down/J   - Gravity -0.01            ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run opens the live view in the alternate screen and blocks until quit.
func Run(name string, build Builder, fps int) error {
	m, err := NewModel(name, build, fps)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
