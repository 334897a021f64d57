// Package state owns the mutable runtime state of a playthrough: the
// party and roster of characters, shared resources, flags, the quest
// log, and the game clock. The loaded content database is referenced
// read-only; nothing here mutates it.
package state

import (
	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/types"
)

// Character is the runtime instance of a character definition. The
// definition stays immutable in the database; everything that changes
// during play lives here.
type Character struct {
	ID         types.CharacterDefID `json:"id"`
	Name       string               `json:"name"`
	RaceID     types.RaceID         `json:"race_id"`
	ClassID    types.ClassID        `json:"class_id"`
	Sex        content.Sex          `json:"sex"`
	Alignment  content.Alignment    `json:"alignment"`
	Level      int                  `json:"level"`
	Experience int                  `json:"experience"`
	Stats      types.Stats          `json:"stats"`
	HP         types.AttributePair  `json:"hp"`
	SP         types.AttributePair  `json:"sp"`
	AC         types.AttributePair  `json:"ac"`
	Conditions types.ConditionSet   `json:"conditions"`
	Inventory  []types.ItemID       `json:"inventory"`
}

// NewCharacter instantiates a definition for play.
func NewCharacter(def content.CharacterDef) *Character {
	return &Character{
		ID:        def.ID,
		Name:      def.Name,
		RaceID:    def.RaceID,
		ClassID:   def.ClassID,
		Sex:       def.Sex,
		Alignment: def.Alignment,
		Level:     def.Level,
		Stats:     def.Stats,
		HP:        def.HP,
		SP:        def.SP,
		AC:        def.AC,
		Inventory: append([]types.ItemID(nil), def.Inventory...),
	}
}

// IsDead reports whether the character is dead, stoned, or eradicated.
func (c *Character) IsDead() bool {
	return c.Conditions.IsDead()
}

// IsUnconscious reports whether the character is down but not dead.
func (c *Character) IsUnconscious() bool {
	return c.Conditions.Has(types.Unconscious) && !c.IsDead()
}

// CanAct reports whether the character may take a turn.
func (c *Character) CanAct() bool {
	return c.Conditions.CanAct()
}

// TakeDamage reduces current HP. At zero the character falls
// unconscious; at -10 or below they die.
func (c *Character) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	c.HP.Modify(-amount)
	if c.HP.Current <= -10 {
		c.Conditions.Set(types.Dead)
	} else if c.HP.Current <= 0 {
		c.Conditions.Set(types.Unconscious)
	}
}

// Heal restores current HP up to base. Healing a downed character above
// zero brings them back to consciousness; it never raises the dead.
func (c *Character) Heal(amount int) {
	if amount <= 0 || c.IsDead() {
		return
	}
	c.HP.Current += amount
	if c.HP.Current > c.HP.Base {
		c.HP.Current = c.HP.Base
	}
	if c.HP.Current > 0 {
		c.Conditions.Clear(types.Unconscious)
	}
}

// HasItem reports whether the item is in this character's inventory.
func (c *Character) HasItem(id types.ItemID) bool {
	for _, it := range c.Inventory {
		if it == id {
			return true
		}
	}
	return false
}

// RemoveItem takes one instance of the item from the inventory and
// reports whether one was present.
func (c *Character) RemoveItem(id types.ItemID) bool {
	for i, it := range c.Inventory {
		if it == id {
			c.Inventory = append(c.Inventory[:i], c.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// MaxSpellPoints derives the SP pool from the casting stat: personality
// for cleric schools, intellect for sorcerer schools, scaled by the
// class divisor and level. Non-casters have no pool.
func MaxSpellPoints(c *Character, class content.Class) int {
	if !class.IsCaster() || class.SPStatDivisor <= 0 {
		return 0
	}
	var stat int
	switch class.SpellSchool {
	case content.SchoolCleric:
		stat = c.Stats.Personality.Current
	case content.SchoolSorcerer:
		stat = c.Stats.Intellect.Current
	}
	return (stat / class.SPStatDivisor) * c.Level
}
