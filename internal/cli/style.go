package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tskr-dev/tskr/pkg/models"
)

// Style definitions for list and detail output.
var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	claimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	urgencyHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	urgencyMed  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	urgencyLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	priorityHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	priorityMed  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	priorityLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// priorityMarker renders the short priority code with its color, or a
// neutral marker for no priority.
func priorityMarker(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return priorityHigh.Render("H")
	case models.PriorityMedium:
		return priorityMed.Render("M")
	case models.PriorityLow:
		return priorityLow.Render("L")
	default:
		return dimStyle.Render("-")
	}
}

// urgencyText colors the urgency score by magnitude.
func urgencyText(urgency float64) string {
	s := fmt.Sprintf("%.2f", urgency)
	switch {
	case urgency >= 15:
		return urgencyHigh.Render(s)
	case urgency >= 10:
		return urgencyMed.Render(s)
	case urgency >= 5:
		return urgencyLow.Render(s)
	default:
		return s
	}
}
