package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	inputCharLimit    = 255
	inputWidth        = 50
	areaCharLimit     = 4000
	areaHeight        = 5
	passwordCharLimit = 128
)

// formField is one labelled input: a single-line textinput or, when
// multiline, a textarea.
type formField struct {
	key       string
	label     string
	multiline bool
	input     textinput.Model
	area      textarea.Model
}

func newTextField(key, label, placeholder string) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = inputCharLimit
	ti.Width = inputWidth
	return formField{key: key, label: label, input: ti}
}

func newPasswordField(key, label string) formField {
	f := newTextField(key, label, label)
	f.input.CharLimit = passwordCharLimit
	f.input.EchoMode = textinput.EchoPassword
	return f
}

func newAreaField(key, label, placeholder string) formField {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = areaCharLimit
	ta.ShowLineNumbers = false
	ta.SetWidth(inputWidth + inputOffset)
	ta.SetHeight(areaHeight)
	return formField{key: key, label: label, multiline: true, area: ta}
}

func (f *formField) value() string {
	if f.multiline {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *formField) setValue(v string) {
	if f.multiline {
		f.area.SetValue(v)
		return
	}
	f.input.SetValue(v)
}

func (f *formField) focus() tea.Cmd {
	if f.multiline {
		return f.area.Focus()
	}
	return f.input.Focus()
}

func (f *formField) blur() {
	if f.multiline {
		f.area.Blur()
		return
	}
	f.input.Blur()
}

func (f *formField) focused() bool {
	if f.multiline {
		return f.area.Focused()
	}
	return f.input.Focused()
}

func (f *formField) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.multiline {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return cmd
}

func (f *formField) view() string {
	if f.multiline {
		return f.area.View()
	}
	return f.input.View()
}

// fieldSet is an ordered group of fields with one focused at a time.
type fieldSet struct {
	fields  []formField
	focused int
}

func newFieldSet(fields ...formField) fieldSet {
	s := fieldSet{fields: fields}
	s.focusIndex(0)
	return s
}

func (s *fieldSet) focusIndex(i int) tea.Cmd {
	if len(s.fields) == 0 {
		return nil
	}
	for j := range s.fields {
		s.fields[j].blur()
	}
	s.focused = (i + len(s.fields)) % len(s.fields)
	return s.fields[s.focused].focus()
}

func (s *fieldSet) next() tea.Cmd { return s.focusIndex(s.focused + 1) }

func (s *fieldSet) prev() tea.Cmd { return s.focusIndex(s.focused - 1) }

func (s *fieldSet) onLast() bool { return s.focused == len(s.fields)-1 }

func (s *fieldSet) current() *formField {
	if len(s.fields) == 0 {
		return nil
	}
	return &s.fields[s.focused]
}

func (s *fieldSet) field(key string) *formField {
	for i := range s.fields {
		if s.fields[i].key == key {
			return &s.fields[i]
		}
	}
	return nil
}

// value returns the trimmed value of key, or "" when there is no such field.
func (s *fieldSet) value(key string) string {
	if f := s.field(key); f != nil {
		return strings.TrimSpace(f.value())
	}
	return ""
}

// raw returns the untrimmed value of key.
func (s *fieldSet) raw(key string) string {
	if f := s.field(key); f != nil {
		return f.value()
	}
	return ""
}

func (s *fieldSet) setValue(key, v string) {
	if f := s.field(key); f != nil {
		f.setValue(v)
	}
}

// reset clears every value and focuses the first field.
func (s *fieldSet) reset() tea.Cmd {
	for i := range s.fields {
		s.fields[i].setValue("")
	}
	return s.focusIndex(0)
}

func (s *fieldSet) blurAll() {
	for i := range s.fields {
		s.fields[i].blur()
	}
}

// update forwards msg to the focused field.
func (s *fieldSet) update(msg tea.Msg) tea.Cmd {
	if f := s.current(); f != nil {
		return f.update(msg)
	}
	return nil
}

// handleKey moves focus with tab/shift+tab and submits with ctrl+s or with
// enter on the last single-line field. Enter elsewhere moves to the next
// field, except inside a textarea where it inserts a newline.
func (s *fieldSet) handleKey(msg tea.KeyMsg, submit func() tea.Cmd) (tea.Cmd, bool) {
	switch msg.String() {
	case keyTab:
		return s.next(), true
	case keyShiftTab:
		return s.prev(), true
	case keySubmit:
		return submit(), true
	case keyEnter:
		if f := s.current(); f != nil && f.multiline {
			return nil, false
		}
		if s.onLast() {
			return submit(), true
		}
		return s.next(), true
	}
	return nil, false
}

// view renders every field with its label and any messages in errs keyed by
// the field key or by an indexed sub-key such as "ingredients[0].unit".
func (s *fieldSet) view(errs map[string]string) string {
	var b strings.Builder
	for i := range s.fields {
		f := &s.fields[i]
		label := f.label
		if i == s.focused {
			label = focusedStyle.Render(label)
		} else {
			label = labelStyle.Render(label)
		}
		b.WriteString(label + "\n")
		b.WriteString(f.view() + "\n")
		for _, msg := range fieldMessages(errs, f.key) {
			b.WriteString(errorStyle.Render("  "+msg) + "\n")
		}
	}
	return b.String()
}

func fieldMessages(errs map[string]string, key string) []string {
	if len(errs) == 0 {
		return nil
	}
	var keys []string
	for k := range errs {
		if k == key || strings.HasPrefix(k, key+"[") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, errs[k])
	}
	return out
}
