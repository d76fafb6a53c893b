package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	label string
	input textinput.Model
}

// form is a vertical stack of numeric text inputs with one focused field.
type form struct {
	fields []field
	focus  int
}

func newForm(labels ...string) form {
	f := form{fields: make([]field, 0, len(labels))}
	for _, l := range labels {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 20
		ti.Placeholder = "0"
		f.fields = append(f.fields, field{label: l, input: ti})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f form) Update(msg tea.Msg) (form, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down", "enter":
			return f.move(1), nil
		case "shift+tab", "up":
			return f.move(-1), nil
		}
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd
}

func (f form) move(delta int) form {
	n := len(f.fields)
	if n == 0 {
		return f
	}
	f.fields[f.focus].input.Blur()
	f.focus = ((f.focus+delta)%n + n) % n
	f.fields[f.focus].input.Focus()
	return f
}

// number parses field i. ok is false for an empty field; bad is true for text
// that is not a number.
func (f form) number(i int) (v float64, ok bool, bad bool) {
	s := strings.TrimSpace(strings.ReplaceAll(f.fields[i].input.Value(), ",", ""))
	if s == "" {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, true
	}
	return v, true, false
}

func (f form) orZero(i int) float64 {
	v, _, _ := f.number(i)
	return v
}

func (f form) View(t Theme) string {
	var b strings.Builder
	for i, fl := range f.fields {
		label := t.Label.Render(fl.label)
		if i == f.focus {
			label = t.Focused.Render("> " + fl.label)
		}
		b.WriteString(label)
		b.WriteString(fl.input.View())
		if _, _, bad := f.number(i); bad {
			b.WriteString(t.Warn.Render("  not a number"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
