package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned when the user leaves a prompt with ctrl+c or esc.
var ErrAborted = errors.New("aborted by user")

// teaPrompter asks questions with one small bubbletea program per question.
type teaPrompter struct {
	in  io.Reader
	out io.Writer
}

func newTeaPrompter(in io.Reader, out io.Writer) *teaPrompter {
	return &teaPrompter{in: in, out: out}
}

func (p *teaPrompter) Ask(question string) (string, error) {
	final, err := tea.NewProgram(newInputModel(question), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", fmt.Errorf("error running prompt: %w", err)
	}
	m := final.(inputModel)
	if m.aborted {
		return "", ErrAborted
	}
	return m.value, nil
}

func (p *teaPrompter) Choose(title string, options []string) (string, error) {
	final, err := tea.NewProgram(newChoiceModel(title, options), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", fmt.Errorf("error running prompt: %w", err)
	}
	m := final.(choiceModel)
	if m.aborted {
		return "", ErrAborted
	}
	return m.options[m.cursor], nil
}

type inputModel struct {
	question  string
	textInput textinput.Model
	value     string
	done      bool
	aborted   bool
}

func newInputModel(question string) inputModel {
	ti := textinput.New()
	ti.Placeholder = "..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 80
	return inputModel{question: question, textInput: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyCtrlJ:
			m.value = strings.TrimSpace(m.textInput.Value())
			m.done = true
			return m, tea.Sequence(tea.Printf("%s %s", questionStyle.Render(m.question), faintStyle.Render(m.value)), tea.Quit)
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n%s\n", questionStyle.Render(m.question), m.textInput.View(), faintStyle.Render("(enter to confirm, esc to quit)"))
}

type choiceModel struct {
	title   string
	options []string
	cursor  int
	done    bool
	aborted bool
}

func newChoiceModel(title string, options []string) choiceModel {
	return choiceModel{title: title, options: options}
}

func (m choiceModel) Init() tea.Cmd {
	return nil
}

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.aborted = true
		return m, tea.Quit
	case tea.KeyEnter:
		return m.choose()
	case tea.KeyUp:
		m.move(-1)
	case tea.KeyDown, tea.KeyTab:
		m.move(1)
	case tea.KeyRunes:
		switch s := key.String(); s {
		case "k":
			m.move(-1)
		case "j":
			m.move(1)
		default:
			if len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(m.options) {
				m.cursor = int(s[0] - '1')
				return m.choose()
			}
		}
	}
	return m, nil
}

func (m *choiceModel) move(delta int) {
	n := len(m.options)
	m.cursor = ((m.cursor+delta)%n + n) % n
}

func (m choiceModel) choose() (tea.Model, tea.Cmd) {
	m.done = true
	return m, tea.Sequence(tea.Printf("%s %s", questionStyle.Render(m.title), faintStyle.Render(m.options[m.cursor])), tea.Quit)
}

func (m choiceModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	var b strings.Builder
	b.WriteString(questionStyle.Render(m.title))
	b.WriteString("\n")
	for i, option := range m.options {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render(fmt.Sprintf("> %d. %s", i+1, option)))
		} else {
			b.WriteString(fmt.Sprintf("  %d. %s", i+1, option))
		}
		b.WriteString("\n")
	}
	b.WriteString(faintStyle.Render("(arrows or j/k to move, enter to select, esc to quit)"))
	b.WriteString("\n")
	return b.String()
}
