package content

import (
	"fmt"
	"strings"

	"github.com/antares-rpg/antares/types"
)

// EngineVersion is the version of this engine, checked against the
// engine_version field of campaign manifests.
const EngineVersion = "0.9.0"

// DataPaths names the data files of a campaign, relative to its root.
// Empty entries fall back to the defaults below; files that do not exist
// load as empty registries so partial campaigns stay loadable during
// authoring.
type DataPaths struct {
	Items      string
	Spells     string
	Monsters   string
	Classes    string
	Races      string
	Npcs       string
	Creatures  string
	Quests     string
	Dialogues  string
	Characters string
	MapsDir    string
}

// DefaultDataPaths returns the conventional file layout.
func DefaultDataPaths() DataPaths {
	return DataPaths{
		Items:      "items.lua",
		Spells:     "spells.lua",
		Monsters:   "monsters.lua",
		Classes:    "classes.lua",
		Races:      "races.lua",
		Npcs:       "npcs.lua",
		Creatures:  "creatures.lua",
		Quests:     "quests.lua",
		Dialogues:  "dialogues.lua",
		Characters: "characters.lua",
		MapsDir:    "maps",
	}
}

// CampaignConfig carries gameplay tuning for a campaign.
type CampaignConfig struct {
	MaxPartySize        int
	DifficultyMult      float64
	ExperienceRate      float64
	GoldRate            float64
	RandomEncounterRate float64
	RestHealingRate     float64
}

// DefaultCampaignConfig returns neutral tuning with a party of six.
func DefaultCampaignConfig() CampaignConfig {
	return CampaignConfig{
		MaxPartySize:        6,
		DifficultyMult:      1.0,
		ExperienceRate:      1.0,
		GoldRate:            1.0,
		RandomEncounterRate: 1.0,
		RestHealingRate:     1.0,
	}
}

// Campaign is the manifest of a content package.
type Campaign struct {
	ID               types.CampaignID
	Name             string
	Version          string
	Author           string
	Description      string
	EngineVersion    string
	RequiredFeatures []string
	StartingMap      types.MapID
	StartingPosition types.Position
	StartingFacing   types.Direction
	// StartingInnkeeper is the inn the party begins at; empty for none.
	StartingInnkeeper types.NpcID
	Config            CampaignConfig
	Data              DataPaths
}

// CompatibleEngine reports whether the manifest's engine_version is
// compatible with this engine: major and minor must match, patch is
// ignored. An empty engine_version is accepted for authoring
// convenience.
func (c *Campaign) CompatibleEngine() error {
	if c.EngineVersion == "" {
		return nil
	}
	if !versionsCompatible(c.EngineVersion, EngineVersion) {
		return fmt.Errorf("campaign %q requires engine %s, this engine is %s",
			c.ID, c.EngineVersion, EngineVersion)
	}
	return nil
}

// versionsCompatible compares major.minor of two semantic versions.
func versionsCompatible(a, b string) bool {
	return majorMinor(a) == majorMinor(b)
}

func majorMinor(v string) string {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) < 2 {
		return v
	}
	return parts[0] + "." + parts[1]
}

// ShadowQuality levels for the renderer config.
type ShadowQuality string

const (
	ShadowLow    ShadowQuality = "low"
	ShadowMedium ShadowQuality = "medium"
	ShadowHigh   ShadowQuality = "high"
)

// GraphicsConfig is the graphics section of config.lua.
type GraphicsConfig struct {
	ResolutionWidth  int
	ResolutionHeight int
	Fullscreen       bool
	Vsync            bool
	MsaaSamples      int
	ShadowQuality    ShadowQuality
}

// AudioConfig is the audio section of config.lua. Volumes are 0 to 1.
type AudioConfig struct {
	Master      float64
	Music       float64
	Sfx         float64
	Ambient     float64
	EnableAudio bool
}

// ControlsConfig maps actions to key names.
type ControlsConfig struct {
	Bindings         map[string][]string
	MovementCooldown float64
}

// CameraConfig is the first-person camera section of config.lua.
type CameraConfig struct {
	Mode           string
	EyeHeight      float64
	Fov            float64
	NearClip       float64
	FarClip        float64
	SmoothRotation bool
	RotationSpeed  float64
	LightHeight    float64
	LightIntensity float64
	LightRange     float64
	ShadowsEnabled bool
}

// GameConfig is the optional per-campaign config.lua. Absent sections
// use these defaults; present-but-invalid values are load errors.
type GameConfig struct {
	Graphics GraphicsConfig
	Audio    AudioConfig
	Controls ControlsConfig
	Camera   CameraConfig
}

// DefaultGameConfig returns the documented defaults.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Graphics: GraphicsConfig{
			ResolutionWidth:  1280,
			ResolutionHeight: 720,
			Fullscreen:       false,
			Vsync:            true,
			MsaaSamples:      4,
			ShadowQuality:    ShadowMedium,
		},
		Audio: AudioConfig{
			Master:      0.8,
			Music:       0.7,
			Sfx:         0.8,
			Ambient:     0.6,
			EnableAudio: true,
		},
		Controls: ControlsConfig{
			Bindings: map[string][]string{
				"move_forward":  {"W", "Up"},
				"move_backward": {"S", "Down"},
				"turn_left":     {"A", "Left"},
				"turn_right":    {"D", "Right"},
				"interact":      {"E", "Return"},
			},
			MovementCooldown: 0.2,
		},
		Camera: CameraConfig{
			Mode:           "first_person",
			EyeHeight:      1.6,
			Fov:            70.0,
			NearClip:       0.1,
			FarClip:        100.0,
			SmoothRotation: true,
			RotationSpeed:  8.0,
			LightHeight:    2.0,
			LightIntensity: 800.0,
			LightRange:     12.0,
			ShadowsEnabled: true,
		},
	}
}

// Validate rejects semantically invalid configuration: zero resolution,
// out-of-range volumes, bad MSAA sample counts.
func (g *GameConfig) Validate() error {
	if g.Graphics.ResolutionWidth <= 0 || g.Graphics.ResolutionHeight <= 0 {
		return fmt.Errorf("graphics resolution %dx%d is invalid",
			g.Graphics.ResolutionWidth, g.Graphics.ResolutionHeight)
	}
	switch g.Graphics.MsaaSamples {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("msaa_samples must be 1, 2, 4, or 8 (got %d)", g.Graphics.MsaaSamples)
	}
	switch g.Graphics.ShadowQuality {
	case ShadowLow, ShadowMedium, ShadowHigh:
	default:
		return fmt.Errorf("unknown shadow_quality %q", g.Graphics.ShadowQuality)
	}
	for name, v := range map[string]float64{
		"master":  g.Audio.Master,
		"music":   g.Audio.Music,
		"sfx":     g.Audio.Sfx,
		"ambient": g.Audio.Ambient,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("audio %s volume %v outside [0, 1]", name, v)
		}
	}
	if g.Controls.MovementCooldown < 0 {
		return fmt.Errorf("movement_cooldown must not be negative")
	}
	if g.Camera.Fov <= 0 || g.Camera.Fov >= 180 {
		return fmt.Errorf("camera fov %v outside (0, 180)", g.Camera.Fov)
	}
	if g.Camera.NearClip <= 0 || g.Camera.FarClip <= g.Camera.NearClip {
		return fmt.Errorf("camera clip planes invalid: near %v, far %v",
			g.Camera.NearClip, g.Camera.FarClip)
	}
	return nil
}

// CampaignReference is the minimal identity persisted in save files.
// The campaign itself is never serialized; on load it is re-read from
// disk and compatibility-checked against Version.
type CampaignReference struct {
	ID      types.CampaignID `json:"id"`
	Version string           `json:"version"`
	Name    string           `json:"name"`
}

// Compatible reports whether a stored reference matches a loaded
// campaign: same ID, and same major.minor version.
func (r CampaignReference) Compatible(c *Campaign) error {
	if r.ID != c.ID {
		return fmt.Errorf("save references campaign %q, loaded campaign is %q", r.ID, c.ID)
	}
	if !versionsCompatible(r.Version, c.Version) {
		return fmt.Errorf("save was made with campaign version %s, loaded version is %s",
			r.Version, c.Version)
	}
	return nil
}
