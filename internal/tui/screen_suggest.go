package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/service"
)

func (m *model) openSuggest() tea.Cmd {
	m.state = suggestScreen
	m.err = nil
	m.suggestion = nil
	return m.suggestInput.Focus()
}

func (m *model) updateSuggestScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.suggestInput.Blur()
			return m, m.goHome()
		case keySubmit:
			return m, m.submitSuggest()
		}
	}
	var cmd tea.Cmd
	m.suggestInput, cmd = m.suggestInput.Update(msg)
	return m, cmd
}

// submitSuggest rejects an empty ingredient list without a request.
func (m *model) submitSuggest() tea.Cmd {
	if m.suggesting {
		return nil
	}
	ingredients := service.ParseIngredientList(m.suggestInput.Value())
	if len(ingredients) == 0 {
		m.err = service.ErrNoIngredients
		return nil
	}
	m.err = nil
	m.suggesting = true
	return tea.Batch(m.suggestCmd(ingredients), m.spinner.Tick)
}

func (m *model) handleSuggestion(msg suggestionMsg) tea.Cmd {
	m.suggesting = false
	if msg.err != nil {
		return m.handleError(msg.err)
	}
	m.err = nil
	m.suggestion = msg.suggestion
	return nil
}

func (m *model) viewSuggestScreen() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI recipe suggester") + "\n")
	b.WriteString(subtleStyle.Render("List what you have, separated by commas or new lines.") + "\n\n")
	b.WriteString(m.suggestInput.View() + "\n")
	if m.suggesting {
		b.WriteString("\n" + m.spinner.View() + " Thinking...\n")
	}
	s := m.suggestion
	if s == nil {
		return b.String()
	}
	b.WriteString("\n" + titleStyle.Render(s.Name) + "\n")
	if len(s.Ingredients) > 0 {
		b.WriteString(labelStyle.Render("Ingredients") + "\n")
		for _, ing := range s.Ingredients {
			b.WriteString("  - " + ing + "\n")
		}
	}
	if len(s.Steps) > 0 {
		b.WriteString(labelStyle.Render("Steps") + "\n")
		for i, step := range s.Steps {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}
	return b.String()
}
