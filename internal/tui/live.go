// Package tui renders a live trajectory view in the terminal while the body
// integrates in (scaled) real time.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/sixdof/internal/rigid"
	"github.com/san-kum/sixdof/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

const historyLen = 120

type model struct {
	name  string
	body  *rigid.Body
	loads sim.LoadModel
	cfg   sim.Config

	running bool
	paused  bool
	done    bool
	stepErr error
	speed   float64

	altHistory   []float64
	speedHistory []float64
	lastFrame    time.Time
	fps          float64

	width  int
	height int
}

func newModel(name string, body *rigid.Body, loads sim.LoadModel, cfg sim.Config) *model {
	return &model{
		name:         name,
		body:         body,
		loads:        loads,
		cfg:          cfg,
		running:      true,
		speed:        1.0,
		altHistory:   make([]float64, 0, historyLen),
		speedHistory: make([]float64, 0, historyLen),
		width:        80,
		height:       24,
	}
}

func (m model) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.running && !m.paused && !m.done && m.stepErr == nil {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				dt := now.Sub(m.lastFrame).Seconds()
				if dt > 0 {
					m.fps = 1.0 / dt
				}
			}
			m.lastFrame = now

			steps := int(m.speed * 0.016 / m.cfg.Dt)
			if steps < 1 {
				steps = 1
			}
			for i := 0; i < steps; i++ {
				m.step()
				if m.done || m.stepErr != nil {
					break
				}
			}
		}
		if m.running {
			return m, tick()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		m.running = false
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "+", "=":
		m.speed = math.Min(m.speed*2, 64)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

func (m *model) step() {
	t := m.body.Elapsed()
	if t >= m.cfg.Duration {
		m.done = true
		return
	}

	force, torque := m.loads.Loads(m.body, t)
	if err := m.body.Step(force, torque, m.cfg.Dt); err != nil {
		m.stepErr = err
		return
	}

	m.altHistory = append(m.altHistory, m.body.Position().Z)
	if len(m.altHistory) > historyLen {
		m.altHistory = m.altHistory[1:]
	}
	m.speedHistory = append(m.speedHistory, r3.Norm(m.body.Velocity()))
	if len(m.speedHistory) > historyLen {
		m.speedHistory = m.speedHistory[1:]
	}
}

func (m model) View() string {
	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	switch {
	case m.stepErr != nil:
		statusIcon = red.Render("✕")
		statusText = red.Render(m.stepErr.Error())
	case m.done:
		statusIcon = dim.Render("○")
		statusText = dim.Render("finished")
	case m.paused:
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n", statusIcon, cyan.Render(m.name), statusText))

	t := m.body.Elapsed()
	progress := t / m.cfg.Duration
	if progress > 1 {
		progress = 1
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	timeStr := fmt.Sprintf("%.1fs/%.0fs", t, m.cfg.Duration)
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s  %s\n\n", bar, dim.Render(timeStr),
		dim.Render(fmt.Sprintf("%.0ffps", m.fps)), dim.Render(fmt.Sprintf("x%.2g", m.speed))))

	if len(m.altHistory) > 1 {
		plotWidth := m.width - 16
		if plotWidth < 40 {
			plotWidth = 40
		}
		graph := asciigraph.Plot(m.altHistory,
			asciigraph.Height(10),
			asciigraph.Width(plotWidth),
			asciigraph.Caption("altitude [m]"))
		for _, line := range strings.Split(graph, "\n") {
			b.WriteString("   " + line + "\n")
		}
		b.WriteString("\n")
	}

	pos := m.body.Position()
	vel := m.body.Velocity()
	omega := m.body.AngularVelocity()
	b.WriteString("   " + dim.Render("pos ") + white.Render(fmt.Sprintf("%8.1f %8.1f %8.1f", pos.X, pos.Y, pos.Z)) + "\n")
	b.WriteString("   " + dim.Render("vel ") + white.Render(fmt.Sprintf("%8.2f %8.2f %8.2f", vel.X, vel.Y, vel.Z)) + "\n")
	b.WriteString("   " + dim.Render("ω   ") + white.Render(fmt.Sprintf("%8.3f %8.3f %8.3f", omega.X, omega.Y, omega.Z)) + "\n")
	b.WriteString("   " + dim.Render("mass") + white.Render(fmt.Sprintf("%8.3f kg", m.body.Mass())) + "\n")

	if len(m.speedHistory) > 1 {
		b.WriteString(fmt.Sprintf("\n   %s %s\n", dim.Render("|v|"), cyan.Render(sparkline(m.speedHistory, 32))))
	}

	b.WriteString("\n" + dim.Render("   space pause  ± speed  0 reset speed  q quit") + "\n")

	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// RunLive drives the body interactively until the duration elapses or the
// user quits.
func RunLive(name string, body *rigid.Body, loads sim.LoadModel, cfg sim.Config) error {
	p := tea.NewProgram(newModel(name, body, loads, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
