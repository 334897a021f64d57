// antares-validate checks Antares campaigns for structural and
// cross-reference problems without starting the game.
// Usage: antares-validate [--all] [--campaigns-dir <path>] [--verbose|-v] [--json] [--errors-only|-e] [--debug|-d] [campaign_directory...]
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/antares-rpg/antares/loader"
	"github.com/antares-rpg/antares/validate"
)

func main() {
	all := false
	verbose := false
	asJSON := false
	errorsOnly := false
	debug := false
	campaignsDir := "campaigns"
	var dirs []string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--all":
			all = true
		case "--campaigns-dir":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--campaigns-dir requires a path\n")
				os.Exit(1)
			}
			i++
			campaignsDir = args[i]
		case "--verbose", "-v":
			verbose = true
		case "--json":
			asJSON = true
		case "--errors-only", "-e":
			errorsOnly = true
		case "--debug", "-d":
			debug = true
		default:
			dirs = append(dirs, args[i])
		}
	}

	if all {
		found, err := findCampaigns(campaignsDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		dirs = append(dirs, found...)
	}
	if len(dirs) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: antares-validate [--all] [--campaigns-dir <path>] [--verbose|-v] [--json] [--errors-only|-e] [--debug|-d] <campaign_directory>...\n")
		os.Exit(1)
	}

	failed := false
	for _, dir := range dirs {
		if len(dirs) > 1 && !asJSON {
			fmt.Printf("== %s\n", dir)
		}
		if !validateCampaign(dir, verbose, asJSON, errorsOnly, debug) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// validateCampaign loads one campaign and reports its diagnostics.
// Returns false when the campaign is invalid or unreadable.
func validateCampaign(dir string, verbose, asJSON, errorsOnly, debug bool) bool {
	// The validator opens content for any engine version; version skew
	// surfaces as a diagnostic, not a refusal.
	db, report, err := loader.Load(dir, loader.Options{SkipVersionCheck: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", dir, err)
		return false
	}
	if debug {
		for _, issue := range report.Issues {
			fmt.Fprintf(os.Stderr, "load: %s\n", issue)
		}
	}

	// Load-time problems and cross-reference problems merge into one
	// diagnostic list.
	ds := validate.FromLoadReport(report)
	ds = append(ds, validate.Validate(db)...)
	if errorsOnly {
		ds = validate.Filter(ds, validate.SeverityError)
	}

	if asJSON {
		if err := validate.RenderJSON(os.Stdout, ds); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return false
		}
	} else {
		validate.RenderText(os.Stdout, ds, verbose)
	}

	return !validate.HasErrors(ds)
}

// findCampaigns lists the subdirectories of root that hold a campaign
// manifest.
func findCampaigns(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading campaigns dir: %w", err)
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if _, err := os.Stat(filepath.Join(dir, "campaign.lua")); err == nil {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}
