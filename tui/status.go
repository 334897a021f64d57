package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/antares-rpg/antares/engine/state"
)

// renderStatusBar produces a full-width inverted status line: location
// and clock on the left, party health and purse on the right.
func (m Model) renderStatusBar() string {
	gs := m.game.State

	location := "nowhere"
	if cur, ok := gs.World.Current(); ok {
		location = cur.Name
	}
	pos := gs.World.PartyPos

	left := fmt.Sprintf(" %s (%d,%d) %s | Day %d %02d:%02d",
		location, pos.X, pos.Y, gs.World.PartyFacing,
		gs.Time.Day, gs.Time.Hour, gs.Time.Minute)
	if gs.Mode != state.ModeExploration {
		left += " | " + strings.ToUpper(string(gs.Mode))
	}

	right := fmt.Sprintf("%s | Gold %d ", partyHealth(gs), gs.Party.Gold)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// partyHealth compacts the party into "Hero 20/20, Olga 5/18" form,
// falling back to a count when the names do not fit.
func partyHealth(gs *state.GameState) string {
	var parts []string
	for _, ch := range gs.Party.Members {
		parts = append(parts, fmt.Sprintf("%s %d/%d", ch.Name, ch.HP.Current, ch.HP.Base))
	}
	joined := strings.Join(parts, ", ")
	if len(joined) > 60 {
		return fmt.Sprintf("%d/%d up", gs.Party.AliveCount(), len(gs.Party.Members))
	}
	return joined
}
