package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/antares-rpg/antares/engine"
	"github.com/antares-rpg/antares/engine/dialogue"
	"github.com/antares-rpg/antares/engine/save"
	"github.com/antares-rpg/antares/engine/state"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Game      *Game
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given game.
func New(g *Game) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Game:    g,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".antares", "saves"),
	}
}

// Run starts the playtest loop. It shows the campaign banner, describes
// the starting tile, then loops: prompt, input, dispatch, output.
func (c *CLI) Run() {
	camp := c.Game.State.Campaign.Campaign
	c.printLine(camp.Name + " v" + camp.Version)
	if camp.Description != "" {
		c.printLine(camp.Description)
	}
	c.printLine("")
	c.printLines(c.Game.Look())

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.printLines(c.Game.Step(input))
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should
// exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}
	if c.Game.State.Mode != state.ModeExploration {
		c.printSystem("You can only save while exploring.")
		return
	}

	c.Game.State.RNGPosition = c.Game.RNG.Position()
	data, err := save.Save(c.Game.State)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	gs, err := save.Restore(sd, c.Game.State.Campaign)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.Game.State = gs
	c.Game.Runner = dialogue.NewRunner(gs)
	c.Game.RNG = engine.RestoreRNG(gs.RNGSeed, gs.RNGPosition)
	c.Game.Combat = nil
	c.printSystem(fmt.Sprintf("Game loaded from %s (day %d).", name, gs.Time.Day))

	c.printLines(c.Game.Look())
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  - Save game (default: quicksave)",
		"  /load [name]  - Load game (default: quicksave)",
		"  /quit         - Exit game",
		"  /help         - Show this help",
		"  /state        - Debug: dump current state",
		"",
		"Exploration:",
		"  look (l)      - Describe your surroundings",
		"  forward (f)   - Step ahead",
		"  left / right  - Turn in place",
		"  back          - Turn around",
		"  talk (t)      - Talk to whoever is ahead of you",
		"  party (p)     - Party status",
		"  quests (q)    - Active quest log",
		"  wait (z)      - Let an hour pass",
		"  rest          - Camp and recover",
		"  again (g)     - Repeat your last command",
		"",
		"In dialogue: type the number of a choice, or 'leave'.",
		"In combat: attack [n], flee, pass, look.",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	gs := c.Game.State
	c.printSystem(fmt.Sprintf("Mode: %s", gs.Mode))
	c.printSystem(fmt.Sprintf("Map %d at (%d,%d) facing %s",
		gs.World.CurrentMap, gs.World.PartyPos.X, gs.World.PartyPos.Y, gs.World.PartyFacing))
	c.printSystem(fmt.Sprintf("Day %d %02d:%02d", gs.Time.Day, gs.Time.Hour, gs.Time.Minute))
	c.printSystem(fmt.Sprintf("Gold: %d  Gems: %d  RNG: %d@%d",
		gs.Party.Gold, gs.Party.Gems, gs.RNGSeed, c.Game.RNG.Position()))
	if len(gs.Flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", gs.Flags))
	}
}

func (c *CLI) printLines(lines []string) {
	for _, line := range lines {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
