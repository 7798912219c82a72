// Package prompt hands a detected challenge to the operator of a visible
// browser run. It shows a spinner until the operator confirms the challenge
// is solved or aborts.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/challenge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB3BA")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8E6CF"))
)

// ErrAborted means the operator gave up on the challenge.
var ErrAborted = errors.New("operator aborted challenge")

type model struct {
	spinner spinner.Model
	finding string
	done    bool
	aborted bool
}

func newModel(finding *challenge.Finding) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	desc := "challenge"
	if finding != nil {
		desc = finding.String()
	}

	return model{spinner: s, finding: desc}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		return "Re-checking the page...\n"
	}
	if m.aborted {
		return "Aborted.\n"
	}
	return fmt.Sprintf("%s\n%s Solve it in the browser window: %s\n%s\n",
		titleStyle.Render("Challenge detected"),
		m.spinner.View(),
		m.finding,
		hintStyle.Render("enter: continue • q: abort"),
	)
}

// Resolver waits for the operator on a terminal.
type Resolver struct {
	in  io.Reader
	out io.Writer
}

// NewResolver creates a resolver reading keys from in and drawing to out.
func NewResolver(in io.Reader, out io.Writer) *Resolver {
	return &Resolver{in: in, out: out}
}

// Resolve blocks until the operator presses enter, aborts, or ctx ends.
func (r *Resolver) Resolve(ctx context.Context, finding *challenge.Finding) error {
	p := tea.NewProgram(
		newModel(finding),
		tea.WithInput(r.in),
		tea.WithOutput(r.out),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to run challenge prompt: %w", err)
	}

	if m, ok := final.(model); ok && m.aborted {
		return fmt.Errorf("%w: %w", challenge.ErrChallengeDetected, ErrAborted)
	}
	return nil
}
