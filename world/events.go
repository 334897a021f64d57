package world

import "github.com/antares-rpg/antares/types"

// EventKind discriminates the MapEvent variants.
type EventKind uint8

const (
	EventEncounter EventKind = iota
	EventTreasure
	EventTeleport
	EventTrap
	EventSign
	EventNpcDialogue
	EventRecruitableCharacter
	EventEnterInn
	EventFurniture
)

// String returns the lowercase kind name used by the campaign files.
func (k EventKind) String() string {
	switch k {
	case EventEncounter:
		return "encounter"
	case EventTreasure:
		return "treasure"
	case EventTeleport:
		return "teleport"
	case EventTrap:
		return "trap"
	case EventSign:
		return "sign"
	case EventNpcDialogue:
		return "npc_dialogue"
	case EventRecruitableCharacter:
		return "recruitable_character"
	case EventEnterInn:
		return "enter_inn"
	case EventFurniture:
		return "furniture"
	}
	return "unknown"
}

// ParseEventKind maps a campaign-file kind name to its EventKind.
func ParseEventKind(s string) (EventKind, bool) {
	switch s {
	case "encounter":
		return EventEncounter, true
	case "treasure":
		return EventTreasure, true
	case "teleport":
		return EventTeleport, true
	case "trap":
		return EventTrap, true
	case "sign":
		return EventSign, true
	case "npc_dialogue":
		return EventNpcDialogue, true
	case "recruitable_character":
		return EventRecruitableCharacter, true
	case "enter_inn":
		return EventEnterInn, true
	case "furniture":
		return EventFurniture, true
	}
	return 0, false
}

// FurnitureType is the prop spawned by a furniture event.
type FurnitureType uint8

const (
	FurnitureTable FurnitureType = iota
	FurnitureChair
	FurnitureBed
	FurnitureChest
	FurnitureBarrel
	FurnitureShelf
	FurnitureThrone
	FurnitureAltar
	FurnitureBrazier
	FurnitureFountain
)

// String returns the lowercase furniture name used by the campaign files.
func (f FurnitureType) String() string {
	switch f {
	case FurnitureChair:
		return "chair"
	case FurnitureBed:
		return "bed"
	case FurnitureChest:
		return "chest"
	case FurnitureBarrel:
		return "barrel"
	case FurnitureShelf:
		return "shelf"
	case FurnitureThrone:
		return "throne"
	case FurnitureAltar:
		return "altar"
	case FurnitureBrazier:
		return "brazier"
	case FurnitureFountain:
		return "fountain"
	default:
		return "table"
	}
}

// ParseFurnitureType maps a furniture name to its type. Unknown names
// parse as FurnitureTable.
func ParseFurnitureType(s string) FurnitureType {
	switch s {
	case "chair":
		return FurnitureChair
	case "bed":
		return FurnitureBed
	case "chest":
		return FurnitureChest
	case "barrel":
		return FurnitureBarrel
	case "shelf":
		return FurnitureShelf
	case "throne":
		return FurnitureThrone
	case "altar":
		return FurnitureAltar
	case "brazier":
		return FurnitureBrazier
	case "fountain":
		return FurnitureFountain
	default:
		return FurnitureTable
	}
}

// FurnitureEvent is the payload of EventFurniture placements.
type FurnitureEvent struct {
	Type      FurnitureType `json:"type"`
	RotationY float64       `json:"rotation_y"`
	Scale     float64       `json:"scale"` // 1.0 when unset
	Material  string        `json:"material"`
	Lit       bool          `json:"lit"`
	Locked    bool          `json:"locked"`
	Blocking  bool          `json:"blocking"`
	ColorTint *ColorTint    `json:"color_tint,omitempty"`
}

// MapEvent is a positional gameplay trigger. Kind selects the variant;
// the payload fields for other variants are zero. Name and Description
// are required for every variant (the validator flags empty ones).
type MapEvent struct {
	Kind        EventKind `json:"kind"`
	Name        string    `json:"name"`
	Description string    `json:"description"`

	// Encounter
	MonsterGroup []types.MonsterID `json:"monster_group,omitempty"`

	// Treasure
	Loot []types.ItemID `json:"loot,omitempty"`
	Gold int            `json:"gold,omitempty"`

	// Teleport
	Destination types.Position `json:"destination,omitempty"`
	TargetMap   types.MapID    `json:"target_map,omitempty"`

	// Trap
	Damage int    `json:"damage,omitempty"`
	Effect string `json:"effect,omitempty"`

	// Sign
	Text string `json:"text,omitempty"`

	// NpcDialogue and EnterInn
	NpcID types.NpcID `json:"npc_id,omitempty"`

	// RecruitableCharacter
	CharacterID types.CharacterDefID `json:"character_id,omitempty"`
	DialogueID  *types.DialogueID    `json:"dialogue_id,omitempty"`

	// Furniture
	Furniture *FurnitureEvent `json:"furniture,omitempty"`
}

// EncounterTable configures random encounters for a map.
type EncounterTable struct {
	// Chance per step of triggering an encounter, 0 to 1.
	EncounterRate float64 `json:"encounter_rate"`
	// Monster groups available in this area.
	Groups [][]types.MonsterID `json:"groups,omitempty"`
}
