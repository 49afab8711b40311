package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"qiitawatch/internal/alert"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("70"))
	crumbStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	alertBox      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).BorderForeground(lipgloss.Color("196"))
)

func clip(line string, width int) string {
	if width <= 0 {
		return line
	}
	return ansi.Truncate(line, width, "…")
}

func renderList(lines []string, cursor, width, height int) string {
	if len(lines) == 0 {
		return mutedStyle.Render("  (empty)")
	}
	if height < 1 {
		height = 1
	}

	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
	}

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := clip("  "+lines[i], width)
		if i == cursor {
			line = selectedStyle.Render(clip("> "+lines[i], width))
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func renderAlert(c alert.Case, width, height int) string {
	buttons := "[esc] " + c.PrimaryButton()
	if label, ok := c.SecondaryButton(); ok {
		buttons += "   [y] " + label
	}
	body := fmt.Sprintf("%s\n\n%s\n\n%s", titleStyle.Render(c.Title()), c.Message(), mutedStyle.Render(buttons))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, alertBox.Render(body))
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
