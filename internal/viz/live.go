package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gbledt/drake/internal/kinematics"
	"github.com/gbledt/drake/internal/rigid"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const coordStep = 0.05

// Live is an interactive bubbletea viewer: arrow keys adjust the selected
// generalized coordinate, tab cycles through the dofs, and every change
// re-renders the chain through the cached forward kinematics engine.
type Live struct {
	model  *rigid.Model
	engine *kinematics.Engine
	q, qd  []float64
	sel    int
	canvas *Canvas
	errMsg string
}

// NewLive returns a viewer over a reduced model.
func NewLive(m *rigid.Model) *Live {
	return &Live{
		model:  m,
		engine: kinematics.NewEngine(m),
		q:      make([]float64, m.NB),
		qd:     make([]float64, m.NB),
		canvas: NewCanvas(70, 20),
	}
}

func (l *Live) Init() tea.Cmd { return nil }

func (l *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - 2
		h := msg.Height - 5
		if w > 10 && h > 5 {
			l.canvas = NewCanvas(w, h)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return l, tea.Quit
		case "tab":
			if l.model.NB > 0 {
				l.sel = (l.sel + 1) % l.model.NB
			}
		case "left", "h":
			l.adjust(-coordStep)
		case "right", "l":
			l.adjust(coordStep)
		case "up", "k":
			l.adjust(10 * coordStep)
		case "down", "j":
			l.adjust(-10 * coordStep)
		case "r":
			for i := range l.q {
				l.q[i] = 0
			}
		}
	}
	return l, nil
}

func (l *Live) adjust(delta float64) {
	if l.sel < len(l.q) {
		l.q[l.sel] += delta
	}
}

func (l *Live) View() string {
	l.errMsg = ""
	if err := l.engine.Update(l.q, l.qd); err != nil {
		l.errMsg = err.Error()
	}
	l.canvas.Clear()
	DrawChain(l.canvas, l.model)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(l.model.Name))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %s view, %d dof", l.model.Plane.Name, l.model.NB)))
	sb.WriteByte('\n')
	sb.WriteString(l.canvas.String())

	for i, v := range l.q {
		entry := fmt.Sprintf("q%d=%+.2f", i+1, v)
		if i == l.sel {
			entry = activeStyle.Render(entry)
		} else {
			entry = dimStyle.Render(entry)
		}
		sb.WriteString(entry)
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	if l.errMsg != "" {
		sb.WriteString(errStyle.Render(l.errMsg))
		sb.WriteByte('\n')
	}
	sb.WriteString(dimStyle.Render("tab select dof  arrows adjust  r reset  q quit"))
	return sb.String()
}

// RunLive starts the viewer and blocks until it quits.
func RunLive(m *rigid.Model) error {
	_, err := tea.NewProgram(NewLive(m), tea.WithAltScreen()).Run()
	return err
}
