package content

import (
	"cmp"
	"fmt"
	"sort"

	"github.com/antares-rpg/antares/types"
	"github.com/antares-rpg/antares/world"
)

// Registry is an ID-keyed table for one kind of entity. Iteration is in
// ascending ID order so every consumer sees a deterministic sequence.
type Registry[K cmp.Ordered, V any] struct {
	kind    string
	entries map[K]V
}

// NewRegistry returns an empty registry; kind names the entity type in
// duplicate-ID errors ("item", "monster", ...).
func NewRegistry[K cmp.Ordered, V any](kind string) *Registry[K, V] {
	return &Registry[K, V]{kind: kind, entries: map[K]V{}}
}

// Kind returns the entity-kind name.
func (r *Registry[K, V]) Kind() string {
	return r.kind
}

// Insert adds an entry, rejecting duplicate IDs.
func (r *Registry[K, V]) Insert(id K, v V) error {
	if _, exists := r.entries[id]; exists {
		return &DuplicateIDError{Kind: r.kind, ID: fmt.Sprint(id)}
	}
	r.entries[id] = v
	return nil
}

// Put adds or replaces an entry. Authoring sessions use it; the loader
// always goes through Insert.
func (r *Registry[K, V]) Put(id K, v V) {
	r.entries[id] = v
}

// Delete removes an entry and reports whether it was present.
func (r *Registry[K, V]) Delete(id K) bool {
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

// Get returns the entry with the given ID.
func (r *Registry[K, V]) Get(id K) (V, bool) {
	v, ok := r.entries[id]
	return v, ok
}

// Has reports whether an entry with the given ID exists.
func (r *Registry[K, V]) Has(id K) bool {
	_, ok := r.entries[id]
	return ok
}

// Count returns the number of entries.
func (r *Registry[K, V]) Count() int {
	return len(r.entries)
}

// IDs returns all IDs in ascending order.
func (r *Registry[K, V]) IDs() []K {
	ids := make([]K, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// All iterates entries in ascending ID order.
func (r *Registry[K, V]) All(yield func(K, V) bool) {
	for _, id := range r.IDs() {
		if !yield(id, r.entries[id]) {
			return
		}
	}
}

// DuplicateIDError reports two entities sharing an ID in one registry.
type DuplicateIDError struct {
	Kind string
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s ID: %s", e.Kind, e.ID)
}

// Database is the typed in-memory snapshot of a campaign. The loader
// constructs it; afterwards it is read-only and safe to share by
// reference across goroutines.
type Database struct {
	Campaign   Campaign
	Config     GameConfig
	Items      *Registry[types.ItemID, Item]
	Spells     *Registry[types.SpellID, Spell]
	Monsters   *Registry[types.MonsterID, Monster]
	Classes    *Registry[types.ClassID, Class]
	Races      *Registry[types.RaceID, Race]
	Npcs       *Registry[types.NpcID, NPC]
	Creatures  *Registry[types.CreatureID, Creature]
	Quests     *Registry[types.QuestID, Quest]
	Dialogues  *Registry[types.DialogueID, DialogueTree]
	Characters *Registry[types.CharacterDefID, CharacterDef]
	Maps       *Registry[types.MapID, *world.Map]

	// SchemaIssues records legacy or malformed fields the loader
	// tolerated, for the validator to surface as diagnostics.
	SchemaIssues []SchemaIssue
}

// SchemaIssue is one legacy or malformed field found while loading.
type SchemaIssue struct {
	Context string // "monster 3", "item 12"
	Field   string
	Message string
}

// NewDatabase returns an empty database with default config.
func NewDatabase() *Database {
	return &Database{
		Config:     DefaultGameConfig(),
		Items:      NewRegistry[types.ItemID, Item]("item"),
		Spells:     NewRegistry[types.SpellID, Spell]("spell"),
		Monsters:   NewRegistry[types.MonsterID, Monster]("monster"),
		Classes:    NewRegistry[types.ClassID, Class]("class"),
		Races:      NewRegistry[types.RaceID, Race]("race"),
		Npcs:       NewRegistry[types.NpcID, NPC]("npc"),
		Creatures:  NewRegistry[types.CreatureID, Creature]("creature"),
		Quests:     NewRegistry[types.QuestID, Quest]("quest"),
		Dialogues:  NewRegistry[types.DialogueID, DialogueTree]("dialogue"),
		Characters: NewRegistry[types.CharacterDefID, CharacterDef]("character"),
		Maps:       NewRegistry[types.MapID, *world.Map]("map"),
	}
}

// Clone deep-copies the database for an authoring session. Maps are the
// only registry holding pointers; their grids, placements, and events
// are copied so edits never leak into the loaded snapshot.
func (db *Database) Clone() *Database {
	out := NewDatabase()
	out.Campaign = db.Campaign
	out.Config = db.Config
	out.Campaign.RequiredFeatures = append([]string(nil), db.Campaign.RequiredFeatures...)
	out.SchemaIssues = append([]SchemaIssue(nil), db.SchemaIssues...)

	db.Items.All(func(id types.ItemID, v Item) bool {
		v.AllowedClasses = append([]types.ClassID(nil), v.AllowedClasses...)
		out.Items.Put(id, v)
		return true
	})
	db.Spells.All(func(id types.SpellID, v Spell) bool {
		out.Spells.Put(id, v)
		return true
	})
	db.Monsters.All(func(id types.MonsterID, v Monster) bool {
		v.Attacks = append([]Attack(nil), v.Attacks...)
		v.Loot.Items = append([]LootEntry(nil), v.Loot.Items...)
		v.Resistances = copyMap(v.Resistances)
		out.Monsters.Put(id, v)
		return true
	})
	db.Classes.All(func(id types.ClassID, v Class) bool {
		out.Classes.Put(id, v)
		return true
	})
	db.Races.All(func(id types.RaceID, v Race) bool {
		v.StatBonuses = copyMap(v.StatBonuses)
		v.Resistances = copyMap(v.Resistances)
		out.Races.Put(id, v)
		return true
	})
	db.Npcs.All(func(id types.NpcID, v NPC) bool {
		v.QuestIDs = append([]types.QuestID(nil), v.QuestIDs...)
		out.Npcs.Put(id, v)
		return true
	})
	db.Creatures.All(func(id types.CreatureID, v Creature) bool {
		v.Meshes = append([]string(nil), v.Meshes...)
		v.MeshTransforms = append([]MeshTransform(nil), v.MeshTransforms...)
		out.Creatures.Put(id, v)
		return true
	})
	db.Quests.All(func(id types.QuestID, v Quest) bool {
		v.Objectives = append([]QuestObjective(nil), v.Objectives...)
		v.Prerequisites = append([]types.QuestID(nil), v.Prerequisites...)
		v.Reward.Items = append([]types.ItemID(nil), v.Reward.Items...)
		out.Quests.Put(id, v)
		return true
	})
	db.Dialogues.All(func(id types.DialogueID, v DialogueTree) bool {
		out.Dialogues.Put(id, cloneDialogue(v))
		return true
	})
	db.Characters.All(func(id types.CharacterDefID, v CharacterDef) bool {
		v.Inventory = append([]types.ItemID(nil), v.Inventory...)
		out.Characters.Put(id, v)
		return true
	})
	db.Maps.All(func(id types.MapID, m *world.Map) bool {
		out.Maps.Put(id, CloneMap(m))
		return true
	})
	return out
}

// CloneMap deep-copies a map's grid, placements, and events.
func CloneMap(m *world.Map) *world.Map {
	cp := *m
	cp.Tiles = make([][]world.Tile, len(m.Tiles))
	for y, row := range m.Tiles {
		cp.Tiles[y] = append([]world.Tile(nil), row...)
	}
	cp.Placements = append([]world.NpcPlacement(nil), m.Placements...)
	cp.Events = make(map[types.Position]world.MapEvent, len(m.Events))
	for pos, e := range m.Events {
		cp.Events[pos] = e
	}
	cp.Encounters.Groups = make([][]types.MonsterID, len(m.Encounters.Groups))
	for i, g := range m.Encounters.Groups {
		cp.Encounters.Groups[i] = append([]types.MonsterID(nil), g...)
	}
	return &cp
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
