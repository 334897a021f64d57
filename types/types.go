// Package types defines the primitive value model shared by every layer
// of the Antares engine: identifiers, positions, directions, dice,
// attribute pairs, condition bits, and game time. Only pure arithmetic
// lives here; rolling dice against an RNG is the engine's job.
package types

// Numeric identifier spaces. All IDs are locally unique within a
// campaign. Documented ranges (monster visuals 1-50, NPC visuals 51-200)
// are authoring conventions, not enforced here.
type (
	// ItemID identifies an item definition.
	ItemID uint8
	// SpellID identifies a spell. High byte is the school, low byte the
	// spell number within the school.
	SpellID uint16
	// MonsterID identifies a monster definition.
	MonsterID uint8
	// MapID identifies a map.
	MapID uint16
	// DialogueID identifies a dialogue tree.
	DialogueID uint32
	// NodeID identifies a node within a dialogue tree.
	NodeID uint32
	// QuestID identifies a quest.
	QuestID uint32
	// CreatureID identifies a creature visual definition.
	CreatureID uint32
)

// String identifier spaces.
type (
	// ClassID identifies a character class (e.g. "knight").
	ClassID = string
	// RaceID identifies a race (e.g. "human").
	RaceID = string
	// NpcID identifies an NPC definition.
	NpcID = string
	// CampaignID identifies a campaign.
	CampaignID = string
	// CharacterDefID identifies a pre-made character definition.
	CharacterDefID = string
)

// Position is an integer tile coordinate on a map.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewPosition returns the position (x, y).
func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

// ManhattanDistance returns |dx| + |dy| to another position.
func (p Position) ManhattanDistance(o Position) int {
	dx := p.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Direction is a cardinal facing. North decreases Y, South increases it.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	}
	return "Unknown"
}

// TurnLeft returns the direction 90 degrees counter-clockwise.
func (d Direction) TurnLeft() Direction {
	return (d + 3) % 4
}

// TurnRight returns the direction 90 degrees clockwise.
func (d Direction) TurnRight() Direction {
	return (d + 1) % 4
}

// Forward returns the position one step ahead of pos in this direction.
func (d Direction) Forward(pos Position) Position {
	switch d {
	case North:
		return Position{X: pos.X, Y: pos.Y - 1}
	case East:
		return Position{X: pos.X + 1, Y: pos.Y}
	case South:
		return Position{X: pos.X, Y: pos.Y + 1}
	default:
		return Position{X: pos.X - 1, Y: pos.Y}
	}
}

// DiceRoll is a roll specification in XdY+Z notation.
type DiceRoll struct {
	Count int `json:"count"`
	Sides int `json:"sides"`
	Bonus int `json:"bonus"`
}

// NewDiceRoll describes count dice of the given sides plus a flat bonus.
func NewDiceRoll(count, sides, bonus int) DiceRoll {
	return DiceRoll{Count: count, Sides: sides, Bonus: bonus}
}

// Min returns the smallest possible result, clamped at 0.
func (d DiceRoll) Min() int {
	return clampNonNegative(d.Count + d.Bonus)
}

// Max returns the largest possible result, clamped at 0.
func (d DiceRoll) Max() int {
	return clampNonNegative(d.Count*d.Sides + d.Bonus)
}

// Average returns the expected result rounded down, clamped at 0.
func (d DiceRoll) Average() int {
	avgPerDie := (float64(d.Sides) + 1.0) / 2.0
	return clampNonNegative(int(float64(d.Count)*avgPerDie) + d.Bonus)
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// AttributePair is a {base, current} value pair. Base is the authored
// value; Current is the effective value mutated by transient effects.
type AttributePair struct {
	Base    int `json:"base"`
	Current int `json:"current"`
}

// NewAttributePair returns a pair with current initialized to base.
func NewAttributePair(base int) AttributePair {
	return AttributePair{Base: base, Current: base}
}

// Reset sets current back to base.
func (a *AttributePair) Reset() {
	a.Current = a.Base
}

// Modify adjusts current by delta, saturating at the int bounds.
func (a *AttributePair) Modify(delta int) {
	next := a.Current + delta
	if delta > 0 && next < a.Current {
		next = maxInt
	} else if delta < 0 && next > a.Current {
		next = minInt
	}
	a.Current = next
}

const (
	maxInt = int(^uint(0) >> 1)
	minInt = -maxInt - 1
)

// Condition is a status effect bit.
type Condition uint16

const (
	Poisoned Condition = 1 << iota
	Diseased
	Silenced
	Blinded
	Paralyzed
	Asleep
	Unconscious
	Dead
	Stone
	Eradicated
)

// incapacitating are the conditions that prevent any action.
const incapacitating = Paralyzed | Asleep | Unconscious | Dead | Stone | Eradicated

// ConditionSet is a bitset of active conditions.
type ConditionSet uint16

// Set adds a condition.
func (c *ConditionSet) Set(cond Condition) {
	*c |= ConditionSet(cond)
}

// Clear removes a condition.
func (c *ConditionSet) Clear(cond Condition) {
	*c &^= ConditionSet(cond)
}

// Has reports whether the condition is active.
func (c ConditionSet) Has(cond Condition) bool {
	return c&ConditionSet(cond) != 0
}

// ClearAll removes every condition.
func (c *ConditionSet) ClearAll() {
	*c = 0
}

// IsEmpty reports whether no conditions are active.
func (c ConditionSet) IsEmpty() bool {
	return c == 0
}

// CanAct reports whether the bearer may take actions this turn.
func (c ConditionSet) CanAct() bool {
	return c&ConditionSet(incapacitating) == 0
}

// IsSilenced reports whether spell casting is blocked.
func (c ConditionSet) IsSilenced() bool {
	return c.Has(Silenced)
}

// IsIncapacitated reports whether the bearer is unable to act at all.
func (c ConditionSet) IsIncapacitated() bool {
	return !c.CanAct()
}

// IsDead reports whether the bearer is dead, stoned, or eradicated.
func (c ConditionSet) IsDead() bool {
	return c.Has(Dead) || c.Has(Stone) || c.Has(Eradicated)
}

// conditionNames maps each bit to its display name, in bit order.
var conditionNames = []struct {
	cond Condition
	name string
}{
	{Poisoned, "Poisoned"},
	{Diseased, "Diseased"},
	{Silenced, "Silenced"},
	{Blinded, "Blinded"},
	{Paralyzed, "Paralyzed"},
	{Asleep, "Asleep"},
	{Unconscious, "Unconscious"},
	{Dead, "Dead"},
	{Stone, "Stone"},
	{Eradicated, "Eradicated"},
}

// Names returns the active condition names in bit order.
func (c ConditionSet) Names() []string {
	var names []string
	for _, e := range conditionNames {
		if c.Has(e.cond) {
			names = append(names, e.name)
		}
	}
	return names
}

// GameTime tracks the in-game clock. Days are 1-based.
type GameTime struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// NewGameTime returns a GameTime at the given day, hour, and minute.
func NewGameTime(day, hour, minute int) GameTime {
	return GameTime{Day: day, Hour: hour, Minute: minute}
}

// AdvanceMinutes moves the clock forward, rolling over hours and days.
func (t *GameTime) AdvanceMinutes(minutes int) {
	total := t.Minute + minutes
	t.Minute = total % 60
	hours := t.Hour + total/60
	t.Hour = hours % 24
	t.Day += hours / 24
}

// AdvanceHours moves the clock forward by whole hours.
func (t *GameTime) AdvanceHours(hours int) {
	t.AdvanceMinutes(hours * 60)
}

// AdvanceDays moves the clock forward by whole days.
func (t *GameTime) AdvanceDays(days int) {
	t.Day += days
}

// IsNight reports whether the time is between 6 PM and 6 AM.
func (t GameTime) IsNight() bool {
	return t.Hour >= 18 || t.Hour < 6
}

// IsDay reports whether the time is between 6 AM and 6 PM.
func (t GameTime) IsDay() bool {
	return !t.IsNight()
}
