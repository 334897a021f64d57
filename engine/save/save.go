// Package save implements JSON serialization of a playthrough. Saves
// carry the mutable state plus a campaign reference; the campaign data
// itself is re-loaded from disk and compatibility-checked on restore.
package save

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/engine/state"
	"github.com/antares-rpg/antares/types"
)

// FormatVersion identifies the save file layout.
const FormatVersion = "1"

// SaveData is the JSON-serializable save format. Map content is not
// persisted, only which map the party is on and which they have seen.
type SaveData struct {
	Format   string                    `json:"format"`
	Campaign content.CampaignReference `json:"campaign"`

	CurrentMap  types.MapID     `json:"current_map"`
	PartyPos    types.Position  `json:"party_pos"`
	PartyFacing types.Direction `json:"party_facing"`
	VisitedMaps []types.MapID   `json:"visited_maps"`

	Party  *state.Party                           `json:"party"`
	Roster *state.Roster                          `json:"roster"`
	Flags  map[string]bool                        `json:"flags"`
	Quests map[types.QuestID]*state.QuestProgress `json:"quests"`
	Time   types.GameTime                         `json:"time"`

	RNGSeed     int64 `json:"rng_seed"`
	RNGPosition int64 `json:"rng_position"`
}

// Save serializes the game state to JSON bytes.
func Save(gs *state.GameState) ([]byte, error) {
	data := SaveData{
		Format: FormatVersion,
		Campaign: content.CampaignReference{
			ID:      gs.Campaign.Campaign.ID,
			Version: gs.Campaign.Campaign.Version,
			Name:    gs.Campaign.Campaign.Name,
		},
		CurrentMap:  gs.World.CurrentMap,
		PartyPos:    gs.World.PartyPos,
		PartyFacing: gs.World.PartyFacing,
		Party:       gs.Party,
		Roster:      gs.Roster,
		Flags:       gs.Flags,
		Quests:      gs.Quests,
		Time:        gs.Time,
		RNGSeed:     gs.RNGSeed,
		RNGPosition: gs.RNGPosition,
	}
	for id := range gs.World.VisitedMaps {
		data.VisitedMaps = append(data.VisitedMaps, id)
	}
	sort.Slice(data.VisitedMaps, func(i, j int) bool {
		return data.VisitedMaps[i] < data.VisitedMaps[j]
	})
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData. The campaign is not
// attached here; Restore does that against a freshly loaded database.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("parsing save: %w", err)
	}
	if sd.Format != FormatVersion {
		return nil, fmt.Errorf("unsupported save format %q", sd.Format)
	}
	// Ensure maps are never nil after load.
	if sd.Flags == nil {
		sd.Flags = map[string]bool{}
	}
	if sd.Quests == nil {
		sd.Quests = map[types.QuestID]*state.QuestProgress{}
	}
	if sd.Party == nil {
		sd.Party = state.NewParty(6)
	}
	if sd.Roster == nil {
		sd.Roster = &state.Roster{}
	}
	return &sd, nil
}

// Restore rebuilds a game state from save data on top of a loaded
// campaign database. The save's campaign reference must match the
// database's identity and major.minor version.
func Restore(sd *SaveData, db *content.Database) (*state.GameState, error) {
	if err := sd.Campaign.Compatible(&db.Campaign); err != nil {
		return nil, err
	}
	gs, err := state.NewGameState(db, sd.RNGSeed)
	if err != nil {
		return nil, err
	}
	if _, ok := gs.World.Map(sd.CurrentMap); !ok {
		return nil, fmt.Errorf("save references map %d which the campaign no longer has", sd.CurrentMap)
	}

	gs.Party = sd.Party
	gs.Roster = sd.Roster
	gs.Flags = sd.Flags
	gs.Quests = sd.Quests
	gs.Time = sd.Time
	gs.RNGSeed = sd.RNGSeed
	gs.RNGPosition = sd.RNGPosition

	gs.World.VisitedMaps = map[types.MapID]bool{}
	for _, id := range sd.VisitedMaps {
		gs.World.VisitedMaps[id] = true
	}
	gs.World.SetCurrent(sd.CurrentMap)
	gs.World.PartyPos = sd.PartyPos
	gs.World.PartyFacing = sd.PartyFacing
	return gs, nil
}
