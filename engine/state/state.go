package state

import (
	"fmt"
	"sort"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/types"
	"github.com/antares-rpg/antares/world"
)

// GameMode is the top-level interaction mode.
type GameMode string

const (
	ModeExploration GameMode = "exploration"
	ModeDialogue    GameMode = "dialogue"
	ModeCombat      GameMode = "combat"
)

// QuestProgress tracks one active or completed quest. Counts line up
// with the quest definition's objectives by index.
type QuestProgress struct {
	QuestID   types.QuestID `json:"quest_id"`
	Counts    []int         `json:"counts"`
	Completed bool          `json:"completed"`
}

// GameState is the complete mutable state of one playthrough. Campaign
// points at the loaded database and is never serialized; save files
// carry a CampaignReference instead and the campaign is re-loaded.
type GameState struct {
	Campaign *content.Database `json:"-"`

	World  *world.World                     `json:"world"`
	Party  *Party                           `json:"party"`
	Roster *Roster                          `json:"roster"`
	Flags  map[string]bool                  `json:"flags"`
	Quests map[types.QuestID]*QuestProgress `json:"quests"`
	Time   types.GameTime                   `json:"time"`
	Mode   GameMode                         `json:"mode"`

	RNGSeed     int64 `json:"rng_seed"`
	RNGPosition int64 `json:"rng_position"`
}

// NewGameState starts a playthrough of the given campaign: the starting
// party is instantiated, the world positioned at the campaign's
// starting map, and the clock set to day 1, 8 AM.
func NewGameState(db *content.Database, seed int64) (*GameState, error) {
	gs := &GameState{
		Campaign: db,
		World:    world.NewWorld(),
		Party:    NewParty(db.Campaign.Config.MaxPartySize),
		Roster:   &Roster{},
		Flags:    map[string]bool{},
		Quests:   map[types.QuestID]*QuestProgress{},
		Time:     types.NewGameTime(1, 8, 0),
		Mode:     ModeExploration,
		RNGSeed:  seed,
	}

	db.Maps.All(func(_ types.MapID, m *world.Map) bool {
		gs.World.AddMap(m)
		return true
	})
	if _, ok := gs.World.Map(db.Campaign.StartingMap); !ok {
		return nil, fmt.Errorf("starting map %d not in campaign", db.Campaign.StartingMap)
	}
	gs.World.SetCurrent(db.Campaign.StartingMap)
	gs.World.PartyPos = db.Campaign.StartingPosition
	gs.World.PartyFacing = db.Campaign.StartingFacing

	// Characters flagged for the starting party join it; everyone else
	// waits in the roster for recruitment.
	db.Characters.All(func(_ types.CharacterDefID, def content.CharacterDef) bool {
		ch := NewCharacter(def)
		if def.StartsInParty {
			if err := gs.Party.AddMember(ch); err != nil {
				gs.Roster.Add(ch)
			}
		} else {
			gs.Roster.Add(ch)
		}
		return true
	})
	return gs, nil
}

// Recruit moves a roster character into the party.
func (gs *GameState) Recruit(id types.CharacterDefID) error {
	if !gs.Roster.Has(id) {
		return fmt.Errorf("character %q is not in the roster", id)
	}
	if len(gs.Party.Members) >= gs.Party.MaxSize {
		return fmt.Errorf("%w: limit is %d", ErrPartyFull, gs.Party.MaxSize)
	}
	c, _ := gs.Roster.Remove(id)
	return gs.Party.AddMember(c)
}

// Dismiss moves a party member back to the roster.
func (gs *GameState) Dismiss(id types.CharacterDefID) error {
	c, ok := gs.Party.RemoveMember(id)
	if !ok {
		return fmt.Errorf("character %q is not in the party", id)
	}
	gs.Roster.Add(c)
	return nil
}

// Flag returns a flag's value; unset flags read false.
func (gs *GameState) Flag(name string) bool {
	return gs.Flags[name]
}

// SetFlag sets or clears a flag.
func (gs *GameState) SetFlag(name string, value bool) {
	gs.Flags[name] = value
}

// StartQuest activates a quest. Starting an already-known quest is a
// no-op so repeatable dialogues stay safe.
func (gs *GameState) StartQuest(id types.QuestID) {
	if _, known := gs.Quests[id]; known {
		return
	}
	var counts []int
	if q, ok := gs.Campaign.Quests.Get(id); ok {
		counts = make([]int, len(q.Objectives))
	}
	gs.Quests[id] = &QuestProgress{QuestID: id, Counts: counts}
}

// AdvanceQuest increments an objective counter on an active quest.
func (gs *GameState) AdvanceQuest(id types.QuestID, objective int) {
	p, ok := gs.Quests[id]
	if !ok || p.Completed || objective < 0 || objective >= len(p.Counts) {
		return
	}
	p.Counts[objective]++
}

// CompleteQuest marks an active quest done and grants its reward.
func (gs *GameState) CompleteQuest(id types.QuestID) {
	p, ok := gs.Quests[id]
	if !ok || p.Completed {
		return
	}
	p.Completed = true
	if q, ok := gs.Campaign.Quests.Get(id); ok {
		gs.Party.Gold += q.Reward.Gold
		gs.Party.AwardExperience(q.Reward.Experience)
		for _, it := range q.Reward.Items {
			gs.Party.GiveItem(it)
		}
	}
}

// IsQuestActive reports whether the quest is started and not completed.
func (gs *GameState) IsQuestActive(id types.QuestID) bool {
	p, ok := gs.Quests[id]
	return ok && !p.Completed
}

// IsQuestCompleted reports whether the quest is done.
func (gs *GameState) IsQuestCompleted(id types.QuestID) bool {
	p, ok := gs.Quests[id]
	return ok && p.Completed
}

// ActiveQuests returns the in-progress quest IDs in ascending order.
func (gs *GameState) ActiveQuests() []types.QuestID {
	var ids []types.QuestID
	for id, p := range gs.Quests {
		if !p.Completed {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
