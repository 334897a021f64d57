// Package content defines the campaign entity types and the typed,
// cross-referenced registries that hold them. A ContentDatabase is
// constructed by the loader and read-only afterwards; authoring sessions
// work on a Clone.
package content

import (
	"github.com/antares-rpg/antares/types"
)

// ItemCategory classifies items for equipment and usage rules.
type ItemCategory string

const (
	ItemWeapon     ItemCategory = "weapon"
	ItemArmor      ItemCategory = "armor"
	ItemShield     ItemCategory = "shield"
	ItemAccessory  ItemCategory = "accessory"
	ItemConsumable ItemCategory = "consumable"
	ItemScroll     ItemCategory = "scroll"
	ItemMisc       ItemCategory = "misc"
)

// Item is an item definition.
type Item struct {
	ID          types.ItemID
	Name        string
	Description string
	Category    ItemCategory
	Cost        int
	Damage      types.DiceRoll // weapons
	ACBonus     int            // armor and shields
	SpellID     types.SpellID  // scrolls; zero when none
	Cursed      bool
	// Classes allowed to equip this item. Empty means no restriction.
	AllowedClasses []types.ClassID
}

// SpellSchool partitions spells by casting tradition.
type SpellSchool string

const (
	SchoolCleric   SpellSchool = "cleric"
	SchoolSorcerer SpellSchool = "sorcerer"
)

// SpellContext restricts where a spell may be cast.
type SpellContext string

const (
	ContextAnytime    SpellContext = "anytime"
	ContextCombatOnly SpellContext = "combat_only"
	ContextNonCombat  SpellContext = "non_combat"
	ContextOutdoor    SpellContext = "outdoor_only"
	ContextIndoor     SpellContext = "indoor_only"
)

// SpellTarget describes what a spell may be aimed at.
type SpellTarget string

const (
	TargetSelf            SpellTarget = "self"
	TargetSingleCharacter SpellTarget = "single_character"
	TargetParty           SpellTarget = "party"
	TargetSingleMonster   SpellTarget = "single_monster"
	TargetMonsterGroup    SpellTarget = "monster_group"
	TargetAllMonsters     SpellTarget = "all_monsters"
)

// Spell is a spell definition.
type Spell struct {
	ID          types.SpellID
	Name        string
	Description string
	School      SpellSchool
	Level       int // spell level within the school, 1-based
	SPCost      int
	GemCost     int
	Context     SpellContext
	Target      SpellTarget
	Damage      types.DiceRoll // zero for non-damaging spells
	Condition   string         // condition inflicted or cured, if any
}

// Attack is one entry in a monster's attack list.
type Attack struct {
	Name      string
	Damage    types.DiceRoll
	Condition string // condition inflicted on hit, if any
}

// LootEntry is a chance-gated item drop.
type LootEntry struct {
	ItemID types.ItemID
	Chance int // percent, 1-100
}

// LootTable is a monster's reward block. Experience lives here, never at
// the top level of the monster: the validator rejects the legacy
// experience_value field.
type LootTable struct {
	Experience int
	Gold       types.DiceRoll
	Gems       types.DiceRoll
	Items      []LootEntry
}

// MonsterAI selects monster behavior in combat.
type MonsterAI string

const (
	AIAggressive MonsterAI = "aggressive"
	AIDefensive  MonsterAI = "defensive"
	AICaster     MonsterAI = "caster"
	AICowardly   MonsterAI = "cowardly"
)

// Monster is a monster definition.
type Monster struct {
	ID          types.MonsterID
	Name        string
	Description string
	Stats       types.Stats
	HP          types.AttributePair
	AC          types.AttributePair
	Speed       int
	Attacks     []Attack
	Loot        LootTable
	Resistances map[string]int // element -> percent
	AI          MonsterAI
	// VisualID references a creature definition; nil renders the
	// default billboard.
	VisualID *types.CreatureID
	// CanFlee marks monsters that may run from combat.
	CanFlee bool
}

// Class is a character class definition.
type Class struct {
	ID          types.ClassID
	Name        string
	Description string
	// HitDice rolled per level for HP.
	HitDice types.DiceRoll
	// SpellSchool is empty for non-casters.
	SpellSchool SpellSchool
	// SpellLevelOffset delays spell access for hybrid casters: the
	// character level required for a spell is its level plus this
	// offset (0 for pure casters).
	SpellLevelOffset int
	// SPStatDivisor scales spell points from the casting stat.
	SPStatDivisor int
}

// IsCaster reports whether the class can cast at all.
func (c Class) IsCaster() bool {
	return c.SpellSchool != ""
}

// Race is a race definition.
type Race struct {
	ID          types.RaceID
	Name        string
	Description string
	// StatBonuses adjust base stats at creation, keyed by lowercase
	// stat name.
	StatBonuses map[string]int
	// Resistances by element, percent.
	Resistances map[string]int
}

// NPC is a non-player character definition. Placement on maps is
// separate (world.NpcPlacement); the definition is position-free.
type NPC struct {
	ID          types.NpcID
	Name        string
	Description string
	PortraitID  int
	DialogueID  *types.DialogueID
	CreatureID  *types.CreatureID
	Sprite      string
	QuestIDs    []types.QuestID
	Faction     string
	IsMerchant  bool
	IsInnkeeper bool
}

// MeshTransform positions one mesh part of a creature visual.
type MeshTransform struct {
	Translate [3]float64
	RotateY   float64
	Scale     float64
}

// Creature is a pure-presentation visual definition: the mesh set used
// to render a monster or NPC. It has no gameplay effect.
type Creature struct {
	ID             types.CreatureID
	Name           string
	Meshes         []string
	MeshTransforms []MeshTransform
	Scale          float64
	ColorTint      *[3]float64
}

// ObjectiveKind discriminates quest objectives.
type ObjectiveKind string

const (
	ObjectiveKillMonster    ObjectiveKind = "kill_monster"
	ObjectiveCollectItem    ObjectiveKind = "collect_item"
	ObjectiveVisitMap       ObjectiveKind = "visit_map"
	ObjectiveTalkToNpc      ObjectiveKind = "talk_to_npc"
	ObjectiveFinishDialogue ObjectiveKind = "finish_dialogue"
)

// QuestObjective is one step of a quest. Exactly one target field is
// meaningful per kind.
type QuestObjective struct {
	Kind        ObjectiveKind
	Description string
	MonsterID   types.MonsterID
	ItemID      types.ItemID
	MapID       types.MapID
	NpcID       types.NpcID
	DialogueID  types.DialogueID
	Count       int
}

// QuestReward is granted on quest completion.
type QuestReward struct {
	Experience int
	Gold       int
	Items      []types.ItemID
}

// Quest is a quest definition.
type Quest struct {
	ID            types.QuestID
	Name          string
	Description   string
	Objectives    []QuestObjective
	Reward        QuestReward
	Prerequisites []types.QuestID
}

// Sex of a character.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// Alignment of a character.
type Alignment string

const (
	AlignGood    Alignment = "good"
	AlignNeutral Alignment = "neutral"
	AlignEvil    Alignment = "evil"
)

// CharacterDef is a pre-made character shipped with a campaign, used
// for the starting party and recruitment events.
type CharacterDef struct {
	ID            types.CharacterDefID
	Name          string
	RaceID        types.RaceID
	ClassID       types.ClassID
	Sex           Sex
	Alignment     Alignment
	Level         int
	Stats         types.Stats
	HP            types.AttributePair
	SP            types.AttributePair
	AC            types.AttributePair
	Inventory     []types.ItemID
	StartsInParty bool
}
