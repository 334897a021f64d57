package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleChoice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("123"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindDialogue
	kindChoice
	kindCombat
	kindSystem
	kindError
)

// classifyLine maps an output line from the game to its style kind,
// going by the phrasing conventions of the cli.Game renderer.
func classifyLine(line string) lineKind {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(trimmed, "1.") || strings.HasPrefix(trimmed, "2.") ||
		strings.HasPrefix(trimmed, "3.") || strings.HasPrefix(trimmed, "4.") ||
		strings.HasPrefix(trimmed, "5.") || strings.HasPrefix(trimmed, "6.") ||
		strings.HasPrefix(trimmed, "7.") || strings.HasPrefix(trimmed, "8.") ||
		strings.HasPrefix(trimmed, "9."):
		return kindChoice
	case strings.HasPrefix(line, "Combat!") || strings.HasPrefix(line, "Victory!") ||
		strings.HasPrefix(line, "Round ") || strings.Contains(line, " hits ") ||
		strings.Contains(line, " misses ") || strings.HasPrefix(line, "The party has fallen"):
		return kindCombat
	case strings.HasSuffix(line, ":"):
		return kindDialogue
	case strings.HasPrefix(line, "You can't") || strings.HasPrefix(line, "The way is blocked"):
		return kindError
	default:
		return kindNarrative
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
