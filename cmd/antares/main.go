// Antares is a tile-based party RPG engine with campaigns authored in Lua.
// Usage: antares [--version] [--plain] [--seed <n>] [--debug|-d] <campaign_directory>
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/antares-rpg/antares/cli"
	"github.com/antares-rpg/antares/engine/state"
	"github.com/antares-rpg/antares/loader"
	"github.com/antares-rpg/antares/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	debug := debugFromEnv()
	var campaignDir string
	var baseDir string
	seed := time.Now().UnixNano()

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("antares %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--debug", "-d":
			debug = true
		case "--base-dir":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--base-dir requires a path\n")
				os.Exit(1)
			}
			i++
			baseDir = args[i]
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
				os.Exit(1)
			}
			seed = n
		default:
			if campaignDir == "" {
				campaignDir = args[i]
			}
		}
	}

	if campaignDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: antares [--version] [--plain] [--seed <n>] [--base-dir <path>] [--debug|-d] <campaign_directory>\n")
		os.Exit(1)
	}

	db, report, err := loader.Load(campaignDir, loader.Options{BaseDir: baseDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading campaign: %v\n", err)
		os.Exit(1)
	}
	if debug {
		for _, issue := range report.Issues {
			fmt.Fprintf(os.Stderr, "load: %s\n", issue)
		}
	}
	if report.HasErrors() {
		fmt.Fprintf(os.Stderr, "Campaign has load errors; run antares-validate %s for details.\n", campaignDir)
		os.Exit(1)
	}

	gs, err := state.NewGameState(db, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting campaign: %v\n", err)
		os.Exit(1)
	}
	game := cli.NewGame(gs)

	// Use the plain CLI if --plain or stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New(game)
		c.Run()
		return
	}

	if err := tui.Run(game); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// debugFromEnv reads the ANTARES_DEBUG toggle.
func debugFromEnv() bool {
	switch os.Getenv("ANTARES_DEBUG") {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
