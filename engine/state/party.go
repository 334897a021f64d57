package state

import (
	"errors"
	"fmt"

	"github.com/antares-rpg/antares/types"
)

// ErrPartyFull is returned when adding a member past the size limit.
var ErrPartyFull = errors.New("party is full")

// Party is the active adventuring group plus its shared resources.
// Gold, gems, and food are pooled; only inventories are per character.
type Party struct {
	Members []*Character `json:"members"`
	MaxSize int          `json:"max_size"`
	Gold    int          `json:"gold"`
	Gems    int          `json:"gems"`
	Food    int          `json:"food"`
}

// NewParty returns an empty party with the given size limit.
func NewParty(maxSize int) *Party {
	return &Party{MaxSize: maxSize}
}

// AddMember appends a character, enforcing the size limit.
func (p *Party) AddMember(c *Character) error {
	if len(p.Members) >= p.MaxSize {
		return fmt.Errorf("%w: limit is %d", ErrPartyFull, p.MaxSize)
	}
	p.Members = append(p.Members, c)
	return nil
}

// RemoveMember removes and returns the character with the given ID.
func (p *Party) RemoveMember(id types.CharacterDefID) (*Character, bool) {
	for i, m := range p.Members {
		if m.ID == id {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return m, true
		}
	}
	return nil, false
}

// Member returns the character with the given ID, if present.
func (p *Party) Member(id types.CharacterDefID) (*Character, bool) {
	for _, m := range p.Members {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// AliveCount returns the number of members still standing.
func (p *Party) AliveCount() int {
	n := 0
	for _, m := range p.Members {
		if !m.IsDead() && !m.IsUnconscious() {
			n++
		}
	}
	return n
}

// IsDefeated reports whether no member can fight on.
func (p *Party) IsDefeated() bool {
	return p.AliveCount() == 0
}

// HighestLevel returns the highest member level, 0 for an empty party.
func (p *Party) HighestLevel() int {
	level := 0
	for _, m := range p.Members {
		if m.Level > level {
			level = m.Level
		}
	}
	return level
}

// HasItem reports whether any member carries the item.
func (p *Party) HasItem(id types.ItemID) bool {
	for _, m := range p.Members {
		if m.HasItem(id) {
			return true
		}
	}
	return false
}

// GiveItem places the item in the first member's inventory.
func (p *Party) GiveItem(id types.ItemID) bool {
	if len(p.Members) == 0 {
		return false
	}
	p.Members[0].Inventory = append(p.Members[0].Inventory, id)
	return true
}

// TakeItem removes one instance of the item from whichever member
// carries it and reports whether one was found.
func (p *Party) TakeItem(id types.ItemID) bool {
	for _, m := range p.Members {
		if m.RemoveItem(id) {
			return true
		}
	}
	return false
}

// SpendGold deducts the amount if the pool covers it.
func (p *Party) SpendGold(amount int) bool {
	if amount > p.Gold {
		return false
	}
	p.Gold -= amount
	return true
}

// SpendGems deducts the amount if the pool covers it.
func (p *Party) SpendGems(amount int) bool {
	if amount > p.Gems {
		return false
	}
	p.Gems -= amount
	return true
}

// AwardExperience splits experience evenly among living members.
func (p *Party) AwardExperience(total int) {
	alive := p.AliveCount()
	if alive == 0 || total <= 0 {
		return
	}
	share := total / alive
	for _, m := range p.Members {
		if !m.IsDead() && !m.IsUnconscious() {
			m.Experience += share
		}
	}
}

// Roster holds recruited characters who are not currently in the party.
// A character is always in exactly one of party or roster.
type Roster struct {
	Characters []*Character `json:"characters"`
}

// Add appends a character to the roster.
func (r *Roster) Add(c *Character) {
	r.Characters = append(r.Characters, c)
}

// Remove removes and returns the character with the given ID.
func (r *Roster) Remove(id types.CharacterDefID) (*Character, bool) {
	for i, c := range r.Characters {
		if c.ID == id {
			r.Characters = append(r.Characters[:i], r.Characters[i+1:]...)
			return c, true
		}
	}
	return nil, false
}

// Has reports whether the roster holds the character.
func (r *Roster) Has(id types.CharacterDefID) bool {
	for _, c := range r.Characters {
		if c.ID == id {
			return true
		}
	}
	return false
}
