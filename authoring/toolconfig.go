package authoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// maxRecentFiles bounds the recent-files list.
const maxRecentFiles = 10

// DisplayConfig holds editor presentation settings.
type DisplayConfig struct {
	ShowGrid     bool `json:"show_grid"`
	ShowEventIDs bool `json:"show_event_ids"`
	DarkTheme    bool `json:"dark_theme"`
}

// ValidationConfig holds the save-time validation policy.
type ValidationConfig struct {
	BlockOnErrors  bool `json:"block_on_errors"`
	ValidateOnOpen bool `json:"validate_on_open"`
}

// ToolConfig is the authoring tools' user configuration, stored at
// ~/.config/antares/tools.json.
type ToolConfig struct {
	Editor       string           `json:"editor"`
	CampaignsDir string           `json:"campaigns_dir"`
	Display      DisplayConfig    `json:"display"`
	Validation   ValidationConfig `json:"validation"`
	RecentFiles  []string         `json:"recent_files"`
}

// DefaultToolConfig returns the documented defaults.
func DefaultToolConfig() ToolConfig {
	return ToolConfig{
		Editor:       "",
		CampaignsDir: "campaigns",
		Display:      DisplayConfig{ShowGrid: true, DarkTheme: true},
		Validation:   ValidationConfig{BlockOnErrors: true, ValidateOnOpen: true},
	}
}

// ToolConfigPath returns the per-user config file location.
func ToolConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "antares", "tools.json"), nil
}

// LoadToolConfig reads the user config, returning defaults when the
// file does not exist yet.
func LoadToolConfig(path string) (ToolConfig, error) {
	cfg := DefaultToolConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading tool config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultToolConfig(), fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(cfg.RecentFiles) > maxRecentFiles {
		cfg.RecentFiles = cfg.RecentFiles[:maxRecentFiles]
	}
	return cfg, nil
}

// SaveToolConfig writes the config, creating the directory if needed.
func SaveToolConfig(path string, cfg ToolConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// AddRecentFile records a newly opened campaign at the front of the
// list, deduplicating and keeping at most ten entries.
func (c *ToolConfig) AddRecentFile(path string) {
	out := []string{path}
	for _, f := range c.RecentFiles {
		if f != path {
			out = append(out, f)
		}
	}
	if len(out) > maxRecentFiles {
		out = out[:maxRecentFiles]
	}
	c.RecentFiles = out
}
