package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Color Palette
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // failures
	mintGreen   = lipgloss.Color("#A8E6CF") // success
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	successStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Bold(true)

	failureStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	skippedStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedGray).
			Padding(0, 1)
)

// Render formats the report as a bordered terminal summary.
func Render(r *Report) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Trello Provisioning Run"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Run:      "), r.RunID)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Email:    "), r.Email)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Workspace:"), r.Workspace)
	if r.Driver != "" {
		mode := "visible"
		if r.Headless {
			mode = "headless"
		}
		fmt.Fprintf(&b, "%s %s (%s)\n", labelStyle.Render("Browser:  "), r.Driver, mode)
	}
	b.WriteString("\n")

	for _, step := range r.Steps {
		b.WriteString(renderStep(step))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch r.Status {
	case StatusSuccess:
		b.WriteString(successStyle.Render("✓ PROVISIONING COMPLETED"))
	case StatusFailed:
		b.WriteString(failureStyle.Render("✗ PROVISIONING FAILED"))
		if r.Error != "" {
			b.WriteString("\n")
			b.WriteString(r.Error)
		}
	default:
		b.WriteString(labelStyle.Render(string(r.Status)))
	}
	if r.Duration != "" {
		fmt.Fprintf(&b, "\n%s", labelStyle.Render("Duration: "+r.Duration))
	}
	if r.LogPath != "" {
		fmt.Fprintf(&b, "\n%s", labelStyle.Render("Log:      "+r.LogPath))
	}

	return boxStyle.Render(b.String())
}

func renderStep(step StepResult) string {
	var icon string
	switch step.Status {
	case StatusSuccess:
		icon = successStyle.Render("✓")
	case StatusSkipped:
		icon = skippedStyle.Render("-")
	default:
		icon = failureStyle.Render("✗")
	}

	line := fmt.Sprintf("%s %-18s %s", icon, step.Name,
		labelStyle.Render(fmt.Sprintf("%d attempt(s), %s", step.Attempts, step.Duration.Round(time.Millisecond))))
	if step.Strategy != "" {
		line += labelStyle.Render(" via " + step.Strategy)
	}
	if step.Error != "" {
		line += "\n    " + failureStyle.Render(step.Error)
	}
	return line
}
