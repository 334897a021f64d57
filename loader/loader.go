// Package loader composes a campaign from its on-disk Lua files into an
// immutable content database. Campaign data is authored as declarative
// constructor calls executed in a sandboxed VM; the VM is discarded
// after loading and nothing Lua survives into the runtime.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/antares-rpg/antares/content"
	lua "github.com/yuin/gopher-lua"
)

// Options tunes a load.
type Options struct {
	// BaseDir is the global data directory consulted for files the
	// campaign does not provide. Empty disables the fallback.
	BaseDir string
	// SkipVersionCheck loads campaigns regardless of engine_version.
	// Authoring tools use it to open content targeting other engines.
	SkipVersionCheck bool
}

// Issue is one aggregated non-fatal load problem.
type Issue struct {
	// Fatal issues (duplicates, invariant violations) make the snapshot
	// unsafe to ship; non-fatal ones (unknown fields) are advisory.
	Fatal   bool
	File    string
	Context string
	Message string
}

func (i Issue) String() string {
	if i.File != "" {
		return fmt.Sprintf("%s: %s: %s", i.File, i.Context, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Context, i.Message)
}

// Report aggregates the duplicate and invariant errors found while
// composing a snapshot. Per the propagation policy, these do not abort
// the load: the caller inspects the report and decides.
type Report struct {
	Issues []Issue
}

// HasErrors reports whether any fatal issue was recorded.
func (r *Report) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Fatal {
			return true
		}
	}
	return false
}

func (r *Report) errorf(file, context, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Fatal: true, File: file, Context: context, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(file, context, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{File: file, Context: context, Message: fmt.Sprintf(format, args...)})
}

// Load reads the campaign at dir, composes it with the base data
// directory, and returns the snapshot plus a report of aggregated
// issues. I/O, parse, version, and config errors abort with a non-nil
// error; duplicate-ID and invariant problems land in the report
// alongside a usable snapshot.
func Load(dir string, opts Options) (*content.Database, *Report, error) {
	report := &Report{}

	manifestPath := filepath.Join(dir, "campaign.lua")
	if _, err := os.Stat(manifestPath); err != nil {
		return nil, nil, fmt.Errorf("campaign manifest %s: %w", manifestPath, err)
	}

	L := newSandboxedVM()
	defer L.Close()

	coll := newCollector()
	registerAPI(L, coll)

	// Manifest first: it names the data files everything else comes from.
	if err := L.DoFile(manifestPath); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", manifestPath, err)
	}
	if coll.campaign == nil {
		return nil, nil, fmt.Errorf("%s: no Campaign{} definition found", manifestPath)
	}

	db := content.NewDatabase()
	campaign, err := compileCampaign(coll.campaign, report)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", manifestPath, err)
	}
	db.Campaign = campaign

	if !opts.SkipVersionCheck {
		if err := db.Campaign.CompatibleEngine(); err != nil {
			return nil, nil, err
		}
	}

	// Optional config.lua: absent means defaults, invalid means failure.
	if err := loadConfig(L, coll, dir, db); err != nil {
		return nil, nil, err
	}

	// Data files, campaign directory first with base-directory fallback.
	// Missing files load as empty registries.
	paths := db.Campaign.Data
	dataFiles := []string{
		paths.Classes, paths.Races, paths.Items, paths.Spells,
		paths.Creatures, paths.Monsters, paths.Npcs, paths.Quests,
		paths.Dialogues, paths.Characters,
	}
	for _, rel := range dataFiles {
		if rel == "" {
			continue
		}
		path, ok := resolveDataFile(dir, opts.BaseDir, rel)
		if !ok {
			continue
		}
		if err := L.DoFile(path); err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	// Per-map files under the maps directory.
	if paths.MapsDir != "" {
		if err := loadMapFiles(L, coll, dir, opts.BaseDir, paths.MapsDir); err != nil {
			return nil, nil, err
		}
	}

	// Compile the collected tables into registries. Duplicates and
	// invariant violations aggregate into the report.
	if err := compileAll(coll, db, report); err != nil {
		return nil, nil, err
	}

	return db, report, nil
}

// resolveDataFile finds a data file in the campaign directory, falling
// back to the base directory. The second result is false when the file
// exists in neither.
func resolveDataFile(dir, baseDir, rel string) (string, bool) {
	path := filepath.Join(dir, rel)
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	if baseDir != "" {
		path = filepath.Join(baseDir, rel)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// loadMapFiles executes every .lua file in the maps directory in sorted
// order. Base-directory maps load first so campaign maps can shadow
// them by ID; the collector records where the base entries end so the
// compiler can tell shadowing apart from in-campaign duplicates.
func loadMapFiles(L *lua.LState, coll *collector, dir, baseDir, mapsDir string) error {
	for _, root := range []string{baseDir, dir} {
		if root == "" {
			continue
		}
		if root == dir {
			coll.baseMapCount = len(coll.maps)
		}
		mapDir := filepath.Join(root, mapsDir)
		entries, err := os.ReadDir(mapDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("reading maps directory %s: %w", mapDir, err)
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
				files = append(files, e.Name())
			}
		}
		sort.Strings(files)
		for _, f := range files {
			path := filepath.Join(mapDir, f)
			if err := L.DoFile(path); err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}
	return nil
}

// loadConfig executes config.lua when present and applies it over the
// defaults. A syntactically or semantically invalid config fails the
// load; a missing file does not.
func loadConfig(L *lua.LState, coll *collector, dir string, db *content.Database) error {
	configPath := filepath.Join(dir, "config.lua")
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", configPath, err)
	}
	if err := L.DoFile(configPath); err != nil {
		return fmt.Errorf("parsing %s: %w", configPath, err)
	}
	if coll.config == nil {
		return fmt.Errorf("%s: no Config{} definition found", configPath)
	}
	cfg, err := compileGameConfig(coll.config)
	if err != nil {
		return fmt.Errorf("%s: %w", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", configPath, err)
	}
	db.Config = cfg
	return nil
}

// newSandboxedVM creates a Lua state with only the safe libraries and
// the dangerous base globals removed. Campaign files are data, not
// programs; they get arithmetic and table helpers, nothing more.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "print",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("random", lua.LNil)
		mathTbl.RawSetString("randomseed", lua.LNil)
	}
	return L
}
