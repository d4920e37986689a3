package chooser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user leaves without choosing
var ErrCancelled = errors.New("no panel chosen")

var (
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

type model struct {
	input    textinput.Model
	names    []string
	matches  []string
	selected int
	height   int
	chosen   string
	done     bool
}

func newModel(names []string) model {
	ti := textinput.New()
	ti.Prompt = "Choose a panel? "
	ti.Focus()
	return model{
		input:   ti,
		names:   names,
		matches: Rank("", names),
		height:  24,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.done = true
			return m, tea.Quit
		case "enter":
			if len(m.matches) > 0 {
				m.chosen = m.matches[m.selected]
			}
			m.done = true
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "ctrl+n", "tab":
			if m.selected < m.visible()-1 {
				m.selected++
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.matches = Rank(m.input.Value(), m.names)
		m.selected = 0
	}
	return m, cmd
}

// visible is the number of matches that fit below the prompt
func (m model) visible() int {
	return min(len(m.matches), max(m.height-1, 1))
}

func (m model) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	for i := 0; i < m.visible(); i++ {
		if i == m.selected {
			b.WriteString(selectedStyle.Render(m.matches[i]))
		} else {
			b.WriteString(m.matches[i])
		}
		b.WriteByte('\n')
	}
	if len(m.names) == 0 {
		b.WriteString(dimStyle.Render("no panels configured, run graphina setup"))
		b.WriteByte('\n')
	}
	return b.String()
}

// Choose runs the interactive picker and returns the chosen name
func Choose(names []string, opts ...tea.ProgramOption) (string, error) {
	final, err := tea.NewProgram(newModel(names), opts...).Run()
	if err != nil {
		return "", fmt.Errorf("chooser: %w", err)
	}
	m, ok := final.(model)
	if !ok || m.chosen == "" {
		return "", ErrCancelled
	}
	return m.chosen, nil
}
