// Package tui is a full-screen alternative to the console menu for picking an
// installed Python version.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/keith-taylor/pyinit/pyenv"
)

type (
	picker struct {
		help      help.Model
		versions  []string
		requested string
		fallback  string
		chosen    string
		index     int
		aborted   bool
	}

	pickerKeyMap struct{}

	Chooser struct {
		in         *os.File
		out        io.Writer
		console    pyenv.Chooser
		isTerminal func(uintptr) bool
	}
)

var (
	keys = struct {
		up       key.Binding
		down     key.Binding
		choose   key.Binding
		fallback key.Binding
		help     key.Binding
		quit     key.Binding
	}{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "use version"),
		),
		fallback: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "use default"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		quit: key.NewBinding(
			key.WithKeys("esc", "q", "ctrl+c"),
			key.WithHelp("esc/q", "abort"),
		),
	}

	palette = struct {
		magenta lipgloss.Color
		yellow  lipgloss.Color
	}{
		magenta: lipgloss.Color("212"),
		yellow:  lipgloss.Color("184"),
	}

	highlightedStyle = lipgloss.NewStyle().Foreground(palette.magenta)
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(palette.yellow)
)

func (pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.choose, keys.fallback, keys.help, keys.quit}
}

func (pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.up, keys.down, keys.choose},
		{keys.fallback, keys.help, keys.quit},
	}
}

func newPicker(installed []string, requested, fallback string) picker {
	p := picker{
		help:      help.New(),
		versions:  installed,
		requested: requested,
		fallback:  fallback,
	}

	for i, v := range installed {
		if v == fallback {
			p.index = i
		}
	}

	return p
}

func (p picker) Init() tea.Cmd {
	return nil
}

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.help.Width = msg.Width

		return p, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			p.aborted = true

			return p, tea.Quit
		case key.Matches(msg, keys.up):
			if p.index > 0 {
				p.index -= 1
			}
		case key.Matches(msg, keys.down):
			if p.index < len(p.versions)-1 {
				p.index += 1
			}
		case key.Matches(msg, keys.choose):
			if len(p.versions) > 0 {
				p.chosen = p.versions[p.index]
			}

			return p, tea.Quit
		case key.Matches(msg, keys.fallback):
			p.chosen = p.fallback

			return p, tea.Quit
		case key.Matches(msg, keys.help):
			p.help.ShowAll = !p.help.ShowAll
		default:
		}
	}

	return p, nil
}

func (p picker) View() string {
	if p.chosen != "" || p.aborted {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Python version '%s' is not currently installed in pyenv.", p.requested)))
	b.WriteString("\n\nPick one of the installed versions:\n\n")

	for i, v := range p.versions {
		if v == p.fallback {
			v += " (default)"
		}

		if i == p.index {
			b.WriteString(highlightedStyle.Render("> " + v))
		} else {
			b.WriteString("  " + v)
		}

		b.WriteRune('\n')
	}

	b.WriteRune('\n')
	b.WriteString(p.help.View(pickerKeyMap{}))
	b.WriteRune('\n')

	return b.String()
}

// NewChooser returns a chooser that runs the picker on in and out. When in is
// not a terminal it delegates to console instead.
func NewChooser(in *os.File, out io.Writer, console pyenv.Chooser) *Chooser {
	return &Chooser{
		in:      in,
		out:     out,
		console: console,
		isTerminal: func(fd uintptr) bool {
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}
}

// Choose implements [pyenv.Chooser].
// Non-nil returned error wraps [pyenv.ErrAborted], or comes from the console chooser.
func (c *Chooser) Choose(installed []string, requested, fallback string) (string, error) {
	if !c.isTerminal(c.in.Fd()) {
		return c.console.Choose(installed, requested, fallback)
	}

	m, err := tea.NewProgram(newPicker(installed, requested, fallback), tea.WithInput(c.in), tea.WithOutput(c.out)).Run()
	if err != nil {
		return "", fmt.Errorf("%w: version picker failed: %s", pyenv.ErrAborted, err.Error())
	}

	p, ok := m.(picker)
	if !ok || p.aborted || p.chosen == "" {
		return "", fmt.Errorf("%w: no version selected", pyenv.ErrAborted)
	}

	return p.chosen, nil
}
