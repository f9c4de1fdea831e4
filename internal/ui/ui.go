// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-galaxy/internal/canvas"
	"github.com/litescript/ls-galaxy/internal/logging"
	"github.com/litescript/ls-galaxy/internal/state"
	"github.com/litescript/ls-galaxy/internal/version"
	"github.com/litescript/ls-galaxy/internal/viewer"
)

// Focus targets, in tab order.
const (
	focusN = iota
	focusD
	focusPhi
	focusActivate
	focusCount
)

// Msg types for Bubble Tea
type (
	// AnimTickMsg drives the pending spinner.
	AnimTickMsg time.Time

	// ResultMsg carries a finished request back to the UI goroutine.
	ResultMsg struct {
		Result viewer.Result
	}
)

// Options configures a new Model.
type Options struct {
	// Viewport size in pixels
	Width  int
	Height int

	// Initial input values
	N   string
	D   string
	Phi string

	LoadingLabel bool
	Colors       viewer.ColorSource
	Logger       *logging.Logger
	Stats        *state.Manager
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	ctx    context.Context
	viewer *viewer.Viewer
	stats  *state.Manager

	// Elements handed to the viewer
	grid   *canvas.Grid
	fields [3]*InputField
	alert  *AlertBox

	// UI state
	focus    int
	width    int
	height   int
	ready    bool
	animTick int
}

// New creates the root model and the viewer it hosts.
func New(ctx context.Context, source viewer.Source, opts Options) (Model, error) {
	if opts.Stats == nil {
		opts.Stats = state.NewManager(state.DefaultConfig())
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	m := Model{
		ctx:   ctx,
		stats: opts.Stats,
		grid:  canvas.NewGrid(opts.Width, opts.Height),
		fields: [3]*InputField{
			NewInputField("n", opts.N),
			NewInputField("d", opts.D),
			NewInputField("phi", opts.Phi),
		},
		alert: &AlertBox{},
		focus: focusActivate,
	}

	vopts := []viewer.Option{
		viewer.WithLoadingLabel(opts.LoadingLabel),
		viewer.WithLogger(opts.Logger),
		viewer.WithStats(opts.Stats),
	}
	if opts.Colors != nil {
		vopts = append(vopts, viewer.WithColors(opts.Colors))
	}

	v, err := viewer.New(viewer.Elements{
		Viewport: m.grid,
		N:        m.fields[focusN],
		D:        m.fields[focusD],
		Phi:      m.fields[focusPhi],
		Alerter:  m.alert,
	}, source, vopts...)
	if err != nil {
		return Model{}, fmt.Errorf("create viewer: %w", err)
	}
	m.viewer = v

	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return animTickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case AnimTickMsg:
		m.animTick++
		return m, animTickCmd()

	case ResultMsg:
		m.viewer.Complete(msg.Result)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The alert is modal: only dismissal keys get through
	if m.alert.Visible() {
		switch msg.String() {
		case "enter", "esc", " ":
			m.alert.Dismiss()
		}
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % focusCount
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + focusCount - 1) % focusCount
		return m, nil
	case "enter", "ctrl+r":
		return m, m.activate()
	}

	if m.focus == focusActivate {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case " ":
			return m, m.activate()
		}
		return m, nil
	}

	m.fields[m.focus].HandleKey(msg)
	return m, nil
}

// activate is the "click": it starts a request and returns the command
// that waits for it. The trigger stays live while requests are pending.
func (m Model) activate() tea.Cmd {
	req := m.viewer.Begin()
	return fetchCmd(m.ctx, m.viewer, req)
}

func fetchCmd(ctx context.Context, v *viewer.Viewer, req viewer.Request) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Result: v.Fetch(ctx, req)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderInputs())
	b.WriteString("\n\n")
	b.WriteString(m.renderViewport())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := "LS-GALAXY"
	var b strings.Builder
	b.WriteString("  ")
	runes := []rune(title)
	for i, r := range runes {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(gradientColor(i, len(runes))))
		b.WriteString(style.Render(string(r)))
	}
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  spiral galaxy viewer · v%s", version.Version)))
	return b.String()
}

func (m Model) renderInputs() string {
	parts := make([]string, 0, len(m.fields)+1)
	for i, f := range m.fields {
		parts = append(parts, f.View(m.focus == i))
	}

	button := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("60"))
	if m.focus == focusActivate {
		button = button.Background(lipgloss.Color("#7B2CBF")).Bold(true)
	}
	parts = append(parts, button.Render("Generate"))

	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderViewport() string {
	if m.alert.Visible() {
		w := max(m.grid.Cols(), 24)
		return lipgloss.Place(w, m.grid.Rows(), lipgloss.Center, lipgloss.Center, m.alert.View(w))
	}
	return m.grid.Render()
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	snap := m.stats.Snapshot()

	var status string
	switch {
	case m.stats.Pending():
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" generating (%d in flight)", snap.InFlight))
	case snap.LastError != nil:
		status = errorStyle.Render("last request failed")
	case snap.Rendered > 0:
		status = dimStyle.Render(fmt.Sprintf("%d systems in %s", snap.LastPoints, snap.LastDuration.Round(time.Millisecond)))
	default:
		status = dimStyle.Render("press enter to generate")
	}

	if snap.Discarded > 0 {
		status += dimStyle.Render(fmt.Sprintf(" · %d stale dropped", snap.Discarded))
	}

	help := dimStyle.Render("tab: next field | enter: generate | q: quit")
	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

// gradientColor returns a hex color along a blue -> magenta -> pink sweep.
func gradientColor(i, n int) string {
	t := 0.0
	if n > 1 {
		t = float64(i) / float64(n-1)
	}

	// Blue (#3B82F6) -> Magenta (#D946EF) -> Pink (#EC4899)
	var r, g, b float64
	if t < 0.5 {
		u := t / 0.5
		r = 59 + u*(217-59)
		g = 130 + u*(70-130)
		b = 246 + u*(239-246)
	} else {
		u := (t - 0.5) / 0.5
		r = 217 + u*(236-217)
		g = 70 + u*(72-70)
		b = 239 + u*(153-239)
	}

	return fmt.Sprintf("#%02X%02X%02X", int(r), int(g), int(b))
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// Focused returns the index of the focused control.
func (m Model) Focused() int {
	return m.focus
}

// Viewport returns the grid the viewer draws on.
func (m Model) Viewport() *canvas.Grid {
	return m.grid
}

// Alert returns the modal alert box.
func (m Model) Alert() *AlertBox {
	return m.alert
}

// Field returns the input field at i (0 = n, 1 = d, 2 = phi).
func (m Model) Field(i int) *InputField {
	return m.fields[i]
}

// ErrNotReady reports that stdin or stdout is not a terminal that can host the UI.
var ErrNotReady = errors.New("ui: terminal is not interactive")
