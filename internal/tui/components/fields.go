package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/picks/internal/tui/styles"
)

// formWidth is the inner width of form modals
const formWidth = 48

// field is one labelled input of a form. Exactly one of input/area is used.
type field struct {
	label    string
	required bool
	multi    bool
	input    textinput.Model
	area     textarea.Model
}

func newInputField(label, placeholder string, required bool, limit int) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = formWidth - 2
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	return field{label: label, required: required, input: ti}
}

func newAreaField(label, placeholder string, limit int) field {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = limit
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetWidth(formWidth)
	ta.SetHeight(3)
	return field{label: label, multi: true, area: ta}
}

func (f field) Value() string {
	if f.multi {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *field) SetValue(v string) {
	if f.multi {
		f.area.SetValue(v)
		return
	}
	f.input.SetValue(v)
	f.input.CursorEnd()
}

func (f *field) focus() tea.Cmd {
	if f.multi {
		return f.area.Focus()
	}
	return f.input.Focus()
}

func (f *field) blur() {
	if f.multi {
		f.area.Blur()
		return
	}
	f.input.Blur()
}

func (f field) update(msg tea.Msg) (field, tea.Cmd) {
	var cmd tea.Cmd
	if f.multi {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return f, cmd
}

// fieldSet handles focus cycling and rendering shared by the form modals
type fieldSet struct {
	fields []field
	focus  int
}

func (s *fieldSet) reset(values ...string) tea.Cmd {
	for i := range s.fields {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		s.fields[i].SetValue(v)
		s.fields[i].blur()
	}
	s.focus = 0
	return s.fields[0].focus()
}

func (s *fieldSet) blurAll() {
	for i := range s.fields {
		s.fields[i].blur()
	}
}

func (s *fieldSet) move(delta int) tea.Cmd {
	s.fields[s.focus].blur()
	s.focus = (s.focus + delta + len(s.fields)) % len(s.fields)
	return s.fields[s.focus].focus()
}

// formAction is what a key press asks the form to do
type formAction int

const (
	actionNone formAction = iota
	actionSubmit
	actionCancel
)

// handleKey routes a key to the focused field. Enter submits from a
// single-line field and inserts a newline in a multi-line one; ctrl+s
// submits from anywhere.
func (s *fieldSet) handleKey(msg tea.KeyMsg) (tea.Cmd, formAction) {
	switch msg.String() {
	case "tab", "down":
		if msg.String() == "down" && s.fields[s.focus].multi {
			break
		}
		return s.move(1), actionNone
	case "shift+tab", "up":
		if msg.String() == "up" && s.fields[s.focus].multi {
			break
		}
		return s.move(-1), actionNone
	case "ctrl+s":
		return nil, actionSubmit
	case "enter":
		if !s.fields[s.focus].multi {
			return nil, actionSubmit
		}
	case "esc":
		return nil, actionCancel
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].update(msg)
	return cmd, actionNone
}

func (s fieldSet) view() string {
	var b strings.Builder
	for i, f := range s.fields {
		label := f.label
		if f.required {
			label += " *"
		}
		if i == s.focus {
			b.WriteString(styles.FocusedLabelStyle.Render(label))
		} else {
			b.WriteString(styles.LabelStyle.Render(label))
		}
		b.WriteString("\n")
		if f.multi {
			b.WriteString(f.area.View())
		} else {
			b.WriteString(f.input.View())
		}
		if i < len(s.fields)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// renderFormModal frames a form with title, description, error and buttons
func renderFormModal(title, description, body string, err error, submit string, canSubmit bool, cancelable bool) string {
	parts := []string{
		styles.ModalTitleStyle.Render(title),
		styles.SubtitleStyle.Render(styles.WordWrap(description, formWidth)),
		"",
		body,
		"",
	}
	if err != nil {
		parts = append(parts, styles.ErrorStyle.Render(styles.WordWrap(err.Error(), formWidth)), "")
	}

	button := styles.DisabledButtonStyle.Render(submit)
	if canSubmit {
		button = styles.ButtonStyle.Render(submit)
	}
	hints := button + "  " + styles.Key("ctrl+s", "save") + "  " + styles.Key("tab", "next")
	if cancelable {
		hints += "  " + styles.Key("esc", "cancel")
	}
	parts = append(parts, hints)

	return styles.ModalStyle.Width(formWidth + 6).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
