// Package combat implements the turn-based combat core: initiative,
// turn scheduling, attack resolution, fleeing, and loot. The package
// mutates only its participants; applying rewards to the party is the
// caller's move.
package combat

import (
	"fmt"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/engine"
	"github.com/antares-rpg/antares/engine/state"
	"github.com/antares-rpg/antares/types"
)

// Status is the single combat outcome state.
type Status string

const (
	NotStarted Status = "not_started"
	InProgress Status = "in_progress"
	Victory    Status = "victory"
	Defeat     Status = "defeat"
	Fled       Status = "fled"
)

// Handicap biases initiative toward one side.
type Handicap string

const (
	Even             Handicap = "even"
	PartyAdvantage   Handicap = "party_advantage"
	MonsterAdvantage Handicap = "monster_advantage"
)

// handicapBias is the initiative bonus granted by an advantage.
const handicapBias = 2

// MonsterInstance is one monster in this fight. The definition stays
// shared and read-only; hit points and conditions are per instance.
type MonsterInstance struct {
	Def        content.Monster
	HP         types.AttributePair
	Conditions types.ConditionSet
}

// NewMonsterInstance spawns a fresh instance of a definition.
func NewMonsterInstance(def content.Monster) *MonsterInstance {
	return &MonsterInstance{Def: def, HP: def.HP}
}

// IsDead reports whether the monster is out of the fight. Monsters die
// at zero, there is no unconscious threshold for them.
func (m *MonsterInstance) IsDead() bool {
	return m.HP.Current <= 0 || m.Conditions.IsDead()
}

// CanAct reports whether the monster may take a turn.
func (m *MonsterInstance) CanAct() bool {
	return !m.IsDead() && m.Conditions.CanAct()
}

// Combatant is one participant: exactly one of Player or Monster is
// set. Dead participants stay in the list and are skipped by
// scheduling.
type Combatant struct {
	Player  *state.Character
	Monster *MonsterInstance
}

// IsPlayer reports which side the combatant fights on.
func (c Combatant) IsPlayer() bool {
	return c.Player != nil
}

// Name returns the display name.
func (c Combatant) Name() string {
	if c.Player != nil {
		return c.Player.Name
	}
	return c.Monster.Def.Name
}

// IsDown reports whether the combatant is out of the fight.
func (c Combatant) IsDown() bool {
	if c.Player != nil {
		return c.Player.IsDead() || c.Player.IsUnconscious()
	}
	return c.Monster.IsDead()
}

// CanAct reports whether the combatant may take its turn.
func (c Combatant) CanAct() bool {
	if c.Player != nil {
		return c.Player.CanAct()
	}
	return c.Monster.CanAct()
}

func (c Combatant) speed() int {
	if c.Player != nil {
		return c.Player.Stats.Speed.Current
	}
	return c.Monster.Def.Speed
}

func (c Combatant) accuracy() int {
	if c.Player != nil {
		return c.Player.Stats.Accuracy.Current
	}
	return c.Monster.Def.Stats.Accuracy.Current
}

func (c Combatant) armorClass() int {
	if c.Player != nil {
		return c.Player.AC.Current
	}
	return c.Monster.Def.AC.Current
}

// Combat is one encounter. Create with New, then Start.
type Combat struct {
	Participants []Combatant
	TurnOrder    []int
	Round        int
	CurrentTurn  int
	Status       Status
	Handicap     Handicap

	rng *engine.RNG
}

// New assembles an encounter from the party and monster definitions.
func New(party []*state.Character, monsters []content.Monster, handicap Handicap, rng *engine.RNG) *Combat {
	c := &Combat{Status: NotStarted, Handicap: handicap, rng: rng}
	for _, p := range party {
		c.Participants = append(c.Participants, Combatant{Player: p})
	}
	for _, m := range monsters {
		c.Participants = append(c.Participants, Combatant{Monster: NewMonsterInstance(m)})
	}
	return c
}

// Start computes the turn order and opens round 1. Initiative is speed
// plus the handicap bias; the sort is stable so ties resolve by
// participant index.
func (c *Combat) Start() {
	c.TurnOrder = make([]int, len(c.Participants))
	for i := range c.TurnOrder {
		c.TurnOrder[i] = i
	}
	init := make([]int, len(c.Participants))
	for i, p := range c.Participants {
		init[i] = p.speed()
		if p.IsPlayer() && c.Handicap == PartyAdvantage {
			init[i] += handicapBias
		}
		if !p.IsPlayer() && c.Handicap == MonsterAdvantage {
			init[i] += handicapBias
		}
	}
	// Insertion sort keeps equal initiatives in index order.
	for i := 1; i < len(c.TurnOrder); i++ {
		for j := i; j > 0 && init[c.TurnOrder[j]] > init[c.TurnOrder[j-1]]; j-- {
			c.TurnOrder[j], c.TurnOrder[j-1] = c.TurnOrder[j-1], c.TurnOrder[j]
		}
	}
	c.Status = InProgress
	c.Round = 1
	c.CurrentTurn = 0
	c.skipDowned()
}

// Current returns the combatant whose turn it is.
func (c *Combat) Current() Combatant {
	return c.Participants[c.TurnOrder[c.CurrentTurn]]
}

// AdvanceTurn moves to the next able participant. Wrapping the order
// increments the round.
func (c *Combat) AdvanceTurn() {
	if c.Status != InProgress {
		return
	}
	c.step()
	c.skipDowned()
}

func (c *Combat) step() {
	c.CurrentTurn++
	if c.CurrentTurn >= len(c.TurnOrder) {
		c.CurrentTurn = 0
		c.Round++
	}
}

// skipDowned advances past participants who cannot act. Bounded by one
// full cycle so an all-downed fight cannot spin.
func (c *Combat) skipDowned() {
	for i := 0; i < len(c.TurnOrder); i++ {
		if c.Current().CanAct() {
			return
		}
		c.step()
	}
}

// CheckCombatEnd resolves the status from the casualty counts and
// returns it. A fight both sides lost counts as a defeat.
func (c *Combat) CheckCombatEnd() Status {
	if c.Status != InProgress {
		return c.Status
	}
	if c.AlivePartyCount() == 0 {
		c.Status = Defeat
	} else if c.AliveMonsterCount() == 0 {
		c.Status = Victory
	}
	return c.Status
}

// AlivePartyCount returns the number of party members still up.
func (c *Combat) AlivePartyCount() int {
	n := 0
	for _, p := range c.Participants {
		if p.IsPlayer() && !p.IsDown() {
			n++
		}
	}
	return n
}

// AliveMonsterCount returns the number of monsters still up.
func (c *Combat) AliveMonsterCount() int {
	n := 0
	for _, p := range c.Participants {
		if !p.IsPlayer() && !p.IsDown() {
			n++
		}
	}
	return n
}

// CanFlee reports whether the party may attempt to run. Surprised
// parties (monster advantage) are pinned for the first round.
func (c *Combat) CanFlee() bool {
	if c.Status != InProgress {
		return false
	}
	if c.Handicap == MonsterAdvantage && c.Round == 1 {
		return false
	}
	return true
}

// Flee attempts to run from the fight: speed check against a d20,
// easier with party advantage. Success ends the combat as Fled.
func (c *Combat) Flee() (bool, error) {
	if !c.CanFlee() {
		return false, fmt.Errorf("cannot flee this round")
	}
	target := c.rng.Roll(20)
	if c.Handicap == PartyAdvantage {
		target -= handicapBias
	}
	fastest := 0
	for _, p := range c.Participants {
		if p.IsPlayer() && !p.IsDown() && p.speed() > fastest {
			fastest = p.speed()
		}
	}
	if fastest >= target {
		c.Status = Fled
		return true, nil
	}
	return false, nil
}

// AttackResult describes one resolved attack.
type AttackResult struct {
	Attacker   string
	Defender   string
	AttackName string
	Hit        bool
	Roll       int
	Damage     int
	Condition  string
}

// Attack resolves a player attack with the given weapon damage against
// the participant at defender.
func (c *Combat) Attack(attacker, defender int, weapon types.DiceRoll) (AttackResult, error) {
	if err := c.checkAttack(attacker, defender); err != nil {
		return AttackResult{}, err
	}
	return c.resolve(c.Participants[attacker], c.Participants[defender], "attack", weapon, ""), nil
}

// MonsterAttack resolves the monster at attacker acting against the
// participant at defender, picking uniformly among its attacks.
func (c *Combat) MonsterAttack(attacker, defender int) (AttackResult, error) {
	if err := c.checkAttack(attacker, defender); err != nil {
		return AttackResult{}, err
	}
	mon := c.Participants[attacker].Monster
	if mon == nil {
		return AttackResult{}, fmt.Errorf("participant %d is not a monster", attacker)
	}
	atk := content.Attack{Name: "strike", Damage: types.NewDiceRoll(1, 4, 0)}
	if len(mon.Def.Attacks) > 0 {
		weights := make([]int, len(mon.Def.Attacks))
		for i := range weights {
			weights[i] = 1
		}
		atk = mon.Def.Attacks[c.rng.WeightedSelect(weights)]
	}
	return c.resolve(c.Participants[attacker], c.Participants[defender], atk.Name, atk.Damage, atk.Condition), nil
}

func (c *Combat) checkAttack(attacker, defender int) error {
	if c.Status != InProgress {
		return fmt.Errorf("combat is not in progress")
	}
	if attacker < 0 || attacker >= len(c.Participants) || defender < 0 || defender >= len(c.Participants) {
		return fmt.Errorf("participant index out of range")
	}
	if !c.Participants[attacker].CanAct() {
		return fmt.Errorf("%s cannot act", c.Participants[attacker].Name())
	}
	if c.Participants[defender].IsDown() {
		return fmt.Errorf("%s is already down", c.Participants[defender].Name())
	}
	return nil
}

// resolve rolls to hit (d20 plus an accuracy bonus against 10 plus the
// defender's AC) and applies damage and any rider condition.
func (c *Combat) resolve(attacker, defender Combatant, name string, damage types.DiceRoll, condition string) AttackResult {
	res := AttackResult{
		Attacker:   attacker.Name(),
		Defender:   defender.Name(),
		AttackName: name,
	}
	res.Roll = c.rng.Roll(20) + attacker.accuracy()/3
	if res.Roll < 10+defender.armorClass() {
		return res
	}
	res.Hit = true
	res.Damage = c.rng.RollDice(damage)
	if defender.Player != nil {
		defender.Player.TakeDamage(res.Damage)
	} else {
		defender.Monster.HP.Modify(-res.Damage)
	}
	if condition != "" && !defender.IsDown() {
		if cond, ok := parseCondition(condition); ok {
			res.Condition = condition
			if defender.Player != nil {
				defender.Player.Conditions.Set(cond)
			} else {
				defender.Monster.Conditions.Set(cond)
			}
		}
	}
	return res
}

// parseCondition maps an attack's condition name to its bit.
func parseCondition(name string) (types.Condition, bool) {
	switch name {
	case "Poisoned":
		return types.Poisoned, true
	case "Diseased":
		return types.Diseased, true
	case "Silenced":
		return types.Silenced, true
	case "Blinded":
		return types.Blinded, true
	case "Paralyzed":
		return types.Paralyzed, true
	case "Asleep":
		return types.Asleep, true
	case "Unconscious":
		return types.Unconscious, true
	case "Dead":
		return types.Dead, true
	case "Stone":
		return types.Stone, true
	case "Eradicated":
		return types.Eradicated, true
	}
	return 0, false
}

// LootResult is the reward from a won fight.
type LootResult struct {
	Experience int
	Gold       int
	Gems       int
	Items      []types.ItemID
}

// Loot rolls the reward tables of every dead monster. Call after a
// Victory; applying the result to the party is the caller's move.
func (c *Combat) Loot() LootResult {
	var out LootResult
	for _, p := range c.Participants {
		if p.IsPlayer() || !p.Monster.IsDead() {
			continue
		}
		loot := p.Monster.Def.Loot
		out.Experience += loot.Experience
		out.Gold += c.rng.RollDice(loot.Gold)
		out.Gems += c.rng.RollDice(loot.Gems)
		for _, entry := range loot.Items {
			if c.rng.Chance(entry.Chance) {
				out.Items = append(out.Items, entry.ItemID)
			}
		}
	}
	return out
}
