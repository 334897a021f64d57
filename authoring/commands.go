package authoring

import (
	"cmp"
	"fmt"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/types"
	"github.com/antares-rpg/antares/world"
)

// Command is one undoable edit. Commands carry their own inverse data:
// Execute records whatever Undo needs to restore the prior state.
type Command interface {
	Execute(db *content.Database) error
	Undo(db *content.Database)
	Description() string
}

// putCommand inserts or replaces one entry, remembering what it
// displaced.
type putCommand[K cmp.Ordered, V any] struct {
	kind  string
	id    K
	value V
	prev  V
	had   bool
	reg   func(*content.Database) *content.Registry[K, V]
}

func (c *putCommand[K, V]) Execute(db *content.Database) error {
	r := c.reg(db)
	c.prev, c.had = r.Get(c.id)
	r.Put(c.id, c.value)
	return nil
}

func (c *putCommand[K, V]) Undo(db *content.Database) {
	r := c.reg(db)
	if c.had {
		r.Put(c.id, c.prev)
	} else {
		r.Delete(c.id)
	}
}

func (c *putCommand[K, V]) Description() string {
	return fmt.Sprintf("put %s %v", c.kind, c.id)
}

// deleteCommand removes one entry, remembering it for Undo.
type deleteCommand[K cmp.Ordered, V any] struct {
	kind string
	id   K
	prev V
	had  bool
	reg  func(*content.Database) *content.Registry[K, V]
}

func (c *deleteCommand[K, V]) Execute(db *content.Database) error {
	r := c.reg(db)
	c.prev, c.had = r.Get(c.id)
	if !c.had {
		return fmt.Errorf("%s %v does not exist", c.kind, c.id)
	}
	r.Delete(c.id)
	return nil
}

func (c *deleteCommand[K, V]) Undo(db *content.Database) {
	if c.had {
		c.reg(db).Put(c.id, c.prev)
	}
}

func (c *deleteCommand[K, V]) Description() string {
	return fmt.Sprintf("delete %s %v", c.kind, c.id)
}

// Registry accessors shared by the command constructors.
var (
	itemsReg      = func(db *content.Database) *content.Registry[types.ItemID, content.Item] { return db.Items }
	spellsReg     = func(db *content.Database) *content.Registry[types.SpellID, content.Spell] { return db.Spells }
	monstersReg   = func(db *content.Database) *content.Registry[types.MonsterID, content.Monster] { return db.Monsters }
	classesReg    = func(db *content.Database) *content.Registry[types.ClassID, content.Class] { return db.Classes }
	racesReg      = func(db *content.Database) *content.Registry[types.RaceID, content.Race] { return db.Races }
	npcsReg       = func(db *content.Database) *content.Registry[types.NpcID, content.NPC] { return db.Npcs }
	creaturesReg  = func(db *content.Database) *content.Registry[types.CreatureID, content.Creature] { return db.Creatures }
	questsReg     = func(db *content.Database) *content.Registry[types.QuestID, content.Quest] { return db.Quests }
	dialoguesReg  = func(db *content.Database) *content.Registry[types.DialogueID, content.DialogueTree] { return db.Dialogues }
	charactersReg = func(db *content.Database) *content.Registry[types.CharacterDefID, content.CharacterDef] {
		return db.Characters
	}
	mapsReg = func(db *content.Database) *content.Registry[types.MapID, *world.Map] { return db.Maps }
)

// PutItem creates or replaces an item definition.
func PutItem(id types.ItemID, v content.Item) Command {
	return &putCommand[types.ItemID, content.Item]{kind: "item", id: id, value: v, reg: itemsReg}
}

// DeleteItem removes an item definition.
func DeleteItem(id types.ItemID) Command {
	return &deleteCommand[types.ItemID, content.Item]{kind: "item", id: id, reg: itemsReg}
}

// PutSpell creates or replaces a spell definition.
func PutSpell(id types.SpellID, v content.Spell) Command {
	return &putCommand[types.SpellID, content.Spell]{kind: "spell", id: id, value: v, reg: spellsReg}
}

// DeleteSpell removes a spell definition.
func DeleteSpell(id types.SpellID) Command {
	return &deleteCommand[types.SpellID, content.Spell]{kind: "spell", id: id, reg: spellsReg}
}

// PutMonster creates or replaces a monster definition.
func PutMonster(id types.MonsterID, v content.Monster) Command {
	return &putCommand[types.MonsterID, content.Monster]{kind: "monster", id: id, value: v, reg: monstersReg}
}

// DeleteMonster removes a monster definition.
func DeleteMonster(id types.MonsterID) Command {
	return &deleteCommand[types.MonsterID, content.Monster]{kind: "monster", id: id, reg: monstersReg}
}

// PutClass creates or replaces a class definition.
func PutClass(id types.ClassID, v content.Class) Command {
	return &putCommand[types.ClassID, content.Class]{kind: "class", id: id, value: v, reg: classesReg}
}

// DeleteClass removes a class definition.
func DeleteClass(id types.ClassID) Command {
	return &deleteCommand[types.ClassID, content.Class]{kind: "class", id: id, reg: classesReg}
}

// PutRace creates or replaces a race definition.
func PutRace(id types.RaceID, v content.Race) Command {
	return &putCommand[types.RaceID, content.Race]{kind: "race", id: id, value: v, reg: racesReg}
}

// DeleteRace removes a race definition.
func DeleteRace(id types.RaceID) Command {
	return &deleteCommand[types.RaceID, content.Race]{kind: "race", id: id, reg: racesReg}
}

// PutNpc creates or replaces an NPC definition.
func PutNpc(id types.NpcID, v content.NPC) Command {
	return &putCommand[types.NpcID, content.NPC]{kind: "npc", id: id, value: v, reg: npcsReg}
}

// DeleteNpc removes an NPC definition.
func DeleteNpc(id types.NpcID) Command {
	return &deleteCommand[types.NpcID, content.NPC]{kind: "npc", id: id, reg: npcsReg}
}

// PutCreature creates or replaces a creature visual definition.
func PutCreature(id types.CreatureID, v content.Creature) Command {
	return &putCommand[types.CreatureID, content.Creature]{kind: "creature", id: id, value: v, reg: creaturesReg}
}

// DeleteCreature removes a creature visual definition.
func DeleteCreature(id types.CreatureID) Command {
	return &deleteCommand[types.CreatureID, content.Creature]{kind: "creature", id: id, reg: creaturesReg}
}

// PutQuest creates or replaces a quest definition.
func PutQuest(id types.QuestID, v content.Quest) Command {
	return &putCommand[types.QuestID, content.Quest]{kind: "quest", id: id, value: v, reg: questsReg}
}

// DeleteQuest removes a quest definition.
func DeleteQuest(id types.QuestID) Command {
	return &deleteCommand[types.QuestID, content.Quest]{kind: "quest", id: id, reg: questsReg}
}

// PutDialogue creates or replaces a dialogue tree.
func PutDialogue(id types.DialogueID, v content.DialogueTree) Command {
	return &putCommand[types.DialogueID, content.DialogueTree]{kind: "dialogue", id: id, value: v, reg: dialoguesReg}
}

// DeleteDialogue removes a dialogue tree.
func DeleteDialogue(id types.DialogueID) Command {
	return &deleteCommand[types.DialogueID, content.DialogueTree]{kind: "dialogue", id: id, reg: dialoguesReg}
}

// PutCharacter creates or replaces a pre-made character definition.
func PutCharacter(id types.CharacterDefID, v content.CharacterDef) Command {
	return &putCommand[types.CharacterDefID, content.CharacterDef]{kind: "character", id: id, value: v, reg: charactersReg}
}

// DeleteCharacter removes a pre-made character definition.
func DeleteCharacter(id types.CharacterDefID) Command {
	return &deleteCommand[types.CharacterDefID, content.CharacterDef]{kind: "character", id: id, reg: charactersReg}
}

// PutMap creates or replaces a map. The map is deep-copied so later
// edits to the original cannot corrupt the undo history.
func PutMap(id types.MapID, m *world.Map) Command {
	return &putCommand[types.MapID, *world.Map]{kind: "map", id: id, value: content.CloneMap(m), reg: mapsReg}
}

// DeleteMap removes a map.
func DeleteMap(id types.MapID) Command {
	return &deleteCommand[types.MapID, *world.Map]{kind: "map", id: id, reg: mapsReg}
}

// SetTileCommand mutates one tile in place, remembering the old tile.
type SetTileCommand struct {
	MapID types.MapID
	Pos   types.Position
	Tile  world.Tile

	prev world.Tile
}

func (c *SetTileCommand) Execute(db *content.Database) error {
	m, ok := db.Maps.Get(c.MapID)
	if !ok {
		return fmt.Errorf("map %d does not exist", c.MapID)
	}
	t := m.Tile(c.Pos)
	if t == nil {
		return fmt.Errorf("position (%d,%d) is outside map %d", c.Pos.X, c.Pos.Y, c.MapID)
	}
	c.prev = *t
	*t = c.Tile
	return nil
}

func (c *SetTileCommand) Undo(db *content.Database) {
	if m, ok := db.Maps.Get(c.MapID); ok {
		if t := m.Tile(c.Pos); t != nil {
			*t = c.prev
		}
	}
}

func (c *SetTileCommand) Description() string {
	return fmt.Sprintf("set tile (%d,%d) on map %d", c.Pos.X, c.Pos.Y, c.MapID)
}

func (c *putCommand[K, V]) dirtyKind() string    { return c.kind }
func (c *deleteCommand[K, V]) dirtyKind() string { return c.kind }
func (c *SetTileCommand) dirtyKind() string      { return "map" }

// commandKind maps a command to the dirty-flag kind it touches.
func commandKind(cmd Command) string {
	if k, ok := cmd.(interface{ dirtyKind() string }); ok {
		return k.dirtyKind()
	}
	return "other"
}
