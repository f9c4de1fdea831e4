package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-galaxy/internal/galaxy"
	"github.com/litescript/ls-galaxy/internal/viewer"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, src viewer.SourceFunc) Model {
	t.Helper()
	m, err := New(context.Background(), src, Options{
		Width:  40,
		Height: 20,
		N:      "100",
		D:      "1",
		Phi:    "0",
		Colors: viewer.FixedColors(viewer.Red),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModel_FocusCycles(t *testing.T) {
	m := newTestModel(t, nil)

	if m.Focused() != focusActivate {
		t.Fatalf("initial focus = %d, want activate", m.Focused())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Focused() != focusN {
		t.Errorf("focus after tab = %d, want n", m.Focused())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Focused() != focusActivate {
		t.Errorf("focus after shift+tab = %d, want activate", m.Focused())
	}
}

func TestModel_EnterFetchesAndRenders(t *testing.T) {
	var gotQuery string
	src := viewer.SourceFunc(func(ctx context.Context, p galaxy.Params) galaxy.FetchResult {
		gotQuery = p.Query()
		return galaxy.FetchResult{Systems: []galaxy.StarSystem{
			{Coordinates: [2]float64{0, 0}},
			{Coordinates: [2]float64{-5, 3}},
		}}
	})
	m := newTestModel(t, src)

	// Edit n: focus it, clear, type 50
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m, _ = update(t, m, keyRunes("50"))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should return a fetch command")
	}

	if !strings.Contains(m.View(), "generating (1 in flight)") {
		t.Errorf("footer should show the pending request:\n%s", m.View())
	}

	// The loading label is not enabled in these options
	if len(m.Viewport().Labels()) != 0 {
		t.Errorf("labels = %v, want none", m.Viewport().Labels())
	}

	msg := cmd()
	result, ok := msg.(ResultMsg)
	if !ok {
		t.Fatalf("command returned %T, want ResultMsg", msg)
	}
	if gotQuery != "n=50&d=1&phi=0" {
		t.Errorf("query = %q, want n=50&d=1&phi=0", gotQuery)
	}

	m, _ = update(t, m, result)

	grid := m.Viewport()
	if grid.Painted() != 2 {
		t.Errorf("Painted = %d, want 2", grid.Painted())
	}
	if grid.At(20, 10) != viewer.Red || grid.At(15, 13) != viewer.Red {
		t.Error("systems not painted at center-offset positions")
	}
	if !strings.Contains(m.View(), "2 systems") {
		t.Errorf("footer should report 2 systems:\n%s", m.View())
	}
}

func TestModel_FailureShowsModalAlert(t *testing.T) {
	src := viewer.SourceFunc(func(ctx context.Context, p galaxy.Params) galaxy.FetchResult {
		return galaxy.FetchResult{Error: errors.New("unexpected status code: 500")}
	})
	m := newTestModel(t, src)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())

	if !m.Alert().Visible() {
		t.Fatal("alert should be visible after a failure")
	}
	if !strings.Contains(m.View(), "unexpected status code: 500") {
		t.Errorf("view should show the error message:\n%s", m.View())
	}

	// Input is blocked while the alert is open
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if cmd != nil || m.Focused() != focusActivate {
		t.Error("keys other than dismiss should be swallowed")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Alert().Visible() {
		t.Error("enter should dismiss the alert")
	}
}

func TestModel_StaleResponseIgnored(t *testing.T) {
	calls := 0
	src := viewer.SourceFunc(func(ctx context.Context, p galaxy.Params) galaxy.FetchResult {
		calls++
		return galaxy.FetchResult{Systems: []galaxy.StarSystem{{Coordinates: [2]float64{float64(calls), 0}}}}
	})
	m := newTestModel(t, src)

	// Two clicks before either request resolves
	m, first := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, second := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	secondMsg := second()
	firstMsg := first()

	m, _ = update(t, m, secondMsg)
	m, _ = update(t, m, firstMsg)

	grid := m.Viewport()
	if grid.Painted() != 1 {
		t.Fatalf("Painted = %d, want 1", grid.Painted())
	}
	// The second command ran first, so it saw calls == 1
	if grid.At(21, 10) == nil {
		t.Error("viewport should show the newest request's render")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := newTestModel(t, nil)

	_, cmd := update(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("q on the button should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce QuitMsg")
	}

	// In a field q is just text
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd = update(t, m, keyRunes("q"))
	if cmd != nil {
		t.Error("q in a field should not quit")
	}
	if m.Field(focusN).Value() != "100q" {
		t.Errorf("n = %q, want 100q", m.Field(focusN).Value())
	}
}

func TestModel_ViewBeforeReady(t *testing.T) {
	m, err := New(context.Background(), viewer.SourceFunc(nil), Options{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if m.View() != "Initializing..." {
		t.Errorf("View = %q before window size", m.View())
	}
}

func TestGradientColor(t *testing.T) {
	if got := gradientColor(0, 9); got != "#3B82F6" {
		t.Errorf("start = %s, want #3B82F6", got)
	}
	if got := gradientColor(8, 9); got != "#EC4899" {
		t.Errorf("end = %s, want #EC4899", got)
	}
}
