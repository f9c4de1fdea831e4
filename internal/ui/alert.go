package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// AlertBox is the modal failure dialog. It implements viewer.Alerter.
// While a message is shown the model swallows input until it is dismissed.
type AlertBox struct {
	mu      sync.Mutex
	message string
	shown   bool
}

// Alert shows message, replacing any message already on screen.
func (a *AlertBox) Alert(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.message = message
	a.shown = true
}

// Visible reports whether the dialog is open.
func (a *AlertBox) Visible() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shown
}

// Message returns the current message.
func (a *AlertBox) Message() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.message
}

// Dismiss closes the dialog.
func (a *AlertBox) Dismiss() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shown = false
}

// View renders the dialog box, sized to fit within width columns.
func (a *AlertBox) View(width int) string {
	boxWidth := min(max(width-4, 20), 60)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E84A27"))
	bodyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Width(boxWidth - 4)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#E84A27")).
		Padding(0, 1).
		Width(boxWidth)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Error"),
		bodyStyle.Render(a.Message()),
		"",
		hintStyle.Render("enter/esc: OK"),
	)
	return box.Render(content)
}
