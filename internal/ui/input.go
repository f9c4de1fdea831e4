package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InputField is a single-line text input. It implements viewer.Field.
// The viewer reads Value at activation time, so a field is shared by
// pointer between the model and the viewer.
type InputField struct {
	Label  string
	value  []rune
	cursor int
}

// NewInputField creates a field with an initial value and the cursor at the end.
func NewInputField(label, value string) *InputField {
	r := []rune(value)
	return &InputField{Label: label, value: r, cursor: len(r)}
}

// Value returns the current text exactly as typed.
func (f *InputField) Value() string {
	return string(f.value)
}

// SetValue replaces the text and moves the cursor to the end.
func (f *InputField) SetValue(s string) {
	f.value = []rune(s)
	f.cursor = len(f.value)
}

// HandleKey applies an editing key. It reports whether the key was used.
// Any printable rune is accepted; the server decides what is valid.
func (f *InputField) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		runes := msg.Runes
		if msg.Type == tea.KeySpace {
			runes = []rune{' '}
		}
		f.insert(runes)
	case tea.KeyBackspace:
		if f.cursor > 0 {
			f.value = append(f.value[:f.cursor-1], f.value[f.cursor:]...)
			f.cursor--
		}
	case tea.KeyDelete:
		if f.cursor < len(f.value) {
			f.value = append(f.value[:f.cursor], f.value[f.cursor+1:]...)
		}
	case tea.KeyLeft:
		if f.cursor > 0 {
			f.cursor--
		}
	case tea.KeyRight:
		if f.cursor < len(f.value) {
			f.cursor++
		}
	case tea.KeyHome, tea.KeyCtrlA:
		f.cursor = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		f.cursor = len(f.value)
	case tea.KeyCtrlU:
		f.value = f.value[:0]
		f.cursor = 0
	default:
		return false
	}
	return true
}

func (f *InputField) insert(runes []rune) {
	v := make([]rune, 0, len(f.value)+len(runes))
	v = append(v, f.value[:f.cursor]...)
	v = append(v, runes...)
	v = append(v, f.value[f.cursor:]...)
	f.value = v
	f.cursor += len(runes)
}

// View renders the field; focused fields show the cursor.
func (f *InputField) View(focused bool) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	boxStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	if focused {
		labelStyle = labelStyle.Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
		boxStyle = boxStyle.Foreground(lipgloss.Color("229"))
	}

	var b strings.Builder
	b.WriteString(string(f.value[:f.cursor]))
	if focused {
		b.WriteString("▏")
	}
	b.WriteString(string(f.value[f.cursor:]))

	text := b.String()
	if text == "" {
		text = " "
	}
	return labelStyle.Render(f.Label+" ") + boxStyle.Render("["+text+"]")
}
