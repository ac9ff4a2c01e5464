package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

// FormModel renders the input fields of one payload kind
type FormModel struct {
	kind    qrformat.Kind
	fields  []formField
	cursor  int
	focused bool
	width   int
}

type formField struct {
	desc   qrformat.FieldDescriptor
	input  textinput.Model
	area   textarea.Model
	option int
}

var placeholders = map[qrformat.InputKind]string{
	qrformat.InputURL:    "https://",
	qrformat.InputTel:    "+1 555 0100",
	qrformat.InputEmail:  "name@example.com",
	qrformat.InputNumber: "0.00",
}

// NewFormModel builds the form for kind
func NewFormModel(kind qrformat.Kind) FormModel {
	m := FormModel{width: 40}
	m.SetKind(kind)
	return m
}

// SetKind rebuilds the fields from the registry, discarding the old values
func (m *FormModel) SetKind(kind qrformat.Kind) {
	m.kind = kind
	m.cursor = 0
	m.fields = nil

	for _, desc := range qrformat.SchemaFor(kind) {
		f := formField{desc: desc}
		switch desc.Input {
		case qrformat.InputTextarea:
			area := textarea.New()
			area.ShowLineNumbers = false
			area.CharLimit = 1000
			area.SetHeight(3)
			area.SetWidth(m.inputWidth())
			f.area = area
		case qrformat.InputSelect:
			for i, opt := range desc.Options {
				if opt == desc.Default {
					f.option = i
				}
			}
		default:
			input := textinput.New()
			input.Placeholder = placeholders[desc.Input]
			input.CharLimit = 300
			input.Width = m.inputWidth()
			if desc.Input == qrformat.InputPassword {
				input.EchoMode = textinput.EchoPassword
				input.EchoCharacter = '•'
			}
			f.input = input
		}
		m.fields = append(m.fields, f)
	}

	if m.focused {
		m.focusCurrent()
	}
}

// Kind returns the kind the form was built for
func (m FormModel) Kind() qrformat.Kind {
	return m.kind
}

// SetSize sets the component width
func (m *FormModel) SetSize(width int) {
	m.width = width
	for i := range m.fields {
		switch m.fields[i].desc.Input {
		case qrformat.InputTextarea:
			m.fields[i].area.SetWidth(m.inputWidth())
		case qrformat.InputSelect:
		default:
			m.fields[i].input.Width = m.inputWidth()
		}
	}
}

func (m FormModel) inputWidth() int {
	w := m.width - 6
	if w < 10 {
		w = 10
	}
	return w
}

// Focus gives keyboard focus to the current field
func (m *FormModel) Focus() tea.Cmd {
	m.focused = true
	return m.focusCurrent()
}

// Blur removes keyboard focus
func (m *FormModel) Blur() {
	m.focused = false
	for i := range m.fields {
		m.blurField(i)
	}
}

// Focused reports whether the form owns the keyboard
func (m FormModel) Focused() bool {
	return m.focused
}

func (m *FormModel) focusCurrent() tea.Cmd {
	if len(m.fields) == 0 {
		return nil
	}
	for i := range m.fields {
		if i != m.cursor {
			m.blurField(i)
		}
	}
	f := &m.fields[m.cursor]
	switch f.desc.Input {
	case qrformat.InputTextarea:
		return f.area.Focus()
	case qrformat.InputSelect:
		return nil
	default:
		return f.input.Focus()
	}
}

func (m *FormModel) blurField(i int) {
	switch m.fields[i].desc.Input {
	case qrformat.InputTextarea:
		m.fields[i].area.Blur()
	case qrformat.InputSelect:
	default:
		m.fields[i].input.Blur()
	}
}

// Value returns the raw value of field id
func (m FormModel) Value(id string) string {
	for _, f := range m.fields {
		if f.desc.ID == id {
			return f.value()
		}
	}
	return ""
}

// Values returns every field value keyed by id
func (m FormModel) Values() map[string]string {
	out := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		out[f.desc.ID] = f.value()
	}
	return out
}

// Getter exposes the form as an encoder value source
func (m FormModel) Getter() qrformat.Getter {
	return qrformat.MapGetter(m.Values())
}

// SetValue fills field id; select values must name an option
func (m *FormModel) SetValue(id, value string) error {
	for i := range m.fields {
		f := &m.fields[i]
		if f.desc.ID != id {
			continue
		}
		switch f.desc.Input {
		case qrformat.InputTextarea:
			f.area.SetValue(value)
		case qrformat.InputSelect:
			for j, opt := range f.desc.Options {
				if opt == value {
					f.option = j
					return nil
				}
			}
			return fmt.Errorf("'%s' is not an option of %s", value, id)
		default:
			f.input.SetValue(value)
		}
		return nil
	}
	return fmt.Errorf("unknown field '%s'", id)
}

func (f formField) value() string {
	switch f.desc.Input {
	case qrformat.InputTextarea:
		return f.area.Value()
	case qrformat.InputSelect:
		if len(f.desc.Options) == 0 {
			return ""
		}
		return f.desc.Options[f.option]
	default:
		return f.input.Value()
	}
}

func (m *FormModel) move(delta int) tea.Cmd {
	if len(m.fields) == 0 {
		return nil
	}
	m.cursor = (m.cursor + delta + len(m.fields)) % len(m.fields)
	return m.focusCurrent()
}

// Update handles key input while the form is focused
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	if !m.focused || len(m.fields) == 0 {
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	f := &m.fields[m.cursor]
	switch key.String() {
	case "tab", "down":
		if key.String() == "down" && f.desc.Input == qrformat.InputTextarea {
			break
		}
		return m, m.move(1)
	case "shift+tab", "up":
		if key.String() == "up" && f.desc.Input == qrformat.InputTextarea {
			break
		}
		return m, m.move(-1)
	case "enter":
		if f.desc.Input != qrformat.InputTextarea {
			return m, m.move(1)
		}
	}

	var cmd tea.Cmd
	switch f.desc.Input {
	case qrformat.InputTextarea:
		f.area, cmd = f.area.Update(msg)
	case qrformat.InputSelect:
		switch key.String() {
		case "left", "h":
			f.option = (f.option + len(f.desc.Options) - 1) % len(f.desc.Options)
		case "right", "l", " ":
			f.option = (f.option + 1) % len(f.desc.Options)
		}
	default:
		f.input, cmd = f.input.Update(msg)
	}
	return m, cmd
}

// View renders the form
func (m FormModel) View() string {
	var b strings.Builder

	b.WriteString(CardTitleStyle.Render(m.kind.Label()))
	b.WriteString("\n")

	for i, f := range m.fields {
		active := m.focused && i == m.cursor

		label := f.desc.Label
		if f.desc.Required {
			label += " *"
		}
		if active {
			b.WriteString(InputLabelFocusedStyle.Render(label))
		} else {
			b.WriteString(InputLabelStyle.Render(label))
		}
		b.WriteString("\n")

		var field string
		switch f.desc.Input {
		case qrformat.InputTextarea:
			field = f.area.View()
		case qrformat.InputSelect:
			field = renderOptions(f.desc.Options, f.option, active)
		default:
			field = f.input.View()
		}

		box := InputStyle
		if active {
			box = InputFocusedStyle
		}
		b.WriteString(box.Width(m.inputWidth() + 2).Render(field))
		b.WriteString("\n")
	}

	return b.String()
}

func renderOptions(options []string, selected int, active bool) string {
	parts := make([]string, len(options))
	for i, opt := range options {
		if i == selected {
			parts[i] = SelectedOptionStyle.Render(opt)
		} else {
			parts[i] = TextMuted.Render(opt)
		}
	}
	line := strings.Join(parts, " ")
	if active {
		line = "◀ " + line + " ▶"
	}
	return line
}
