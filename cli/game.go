// Package cli provides the plain-terminal playtest loop: command
// dispatch over the game state plus terminal I/O and meta-command
// handling. The Game type is the shared command processor; the TUI
// drives it too.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/engine"
	"github.com/antares-rpg/antares/engine/combat"
	"github.com/antares-rpg/antares/engine/dialogue"
	"github.com/antares-rpg/antares/engine/state"
	"github.com/antares-rpg/antares/types"
	"github.com/antares-rpg/antares/world"
)

// stepMinutes is the clock cost of one tile of movement.
const stepMinutes = 5

// Game turns player input lines into output lines against the game
// state. It owns the dialogue runner, the active combat, and the RNG.
type Game struct {
	State  *state.GameState
	Runner *dialogue.Runner
	RNG    *engine.RNG
	Combat *combat.Combat
}

// NewGame wires a command processor to a fresh or restored game state.
func NewGame(gs *state.GameState) *Game {
	return &Game{
		State:  gs,
		Runner: dialogue.NewRunner(gs),
		RNG:    engine.RestoreRNG(gs.RNGSeed, gs.RNGPosition),
	}
}

// Step processes one input line and returns the output lines. Dispatch
// follows the game mode: dialogue and combat capture all input until
// they end.
func (g *Game) Step(input string) []string {
	input = strings.TrimSpace(strings.ToLower(input))
	switch g.State.Mode {
	case state.ModeDialogue:
		return g.stepDialogue(input)
	case state.ModeCombat:
		return g.stepCombat(input)
	default:
		return g.stepExploration(input)
	}
}

func (g *Game) stepExploration(input string) []string {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}
	switch parts[0] {
	case "look", "l":
		return g.Look()
	case "forward", "f":
		return g.moveForward()
	case "left":
		g.State.World.TurnLeft()
		return []string{"You face " + g.State.World.PartyFacing.String() + "."}
	case "right":
		g.State.World.TurnRight()
		return []string{"You face " + g.State.World.PartyFacing.String() + "."}
	case "back":
		g.State.World.TurnLeft()
		g.State.World.TurnLeft()
		return []string{"You turn around and face " + g.State.World.PartyFacing.String() + "."}
	case "talk", "t":
		return g.talk()
	case "party", "p":
		return g.partyStatus()
	case "quests", "q":
		return g.questLog()
	case "wait", "z":
		g.State.Time.AdvanceHours(1)
		return []string{"An hour passes. " + g.clock()}
	case "rest":
		return g.rest()
	default:
		return []string{"You can't do that here. Type /help for commands."}
	}
}

// Look describes the current map, the party's position, and what lies
// directly ahead.
func (g *Game) Look() []string {
	m, ok := g.State.World.Current()
	if !ok {
		return []string{"You are nowhere."}
	}
	out := []string{m.Name}
	if m.Description != "" {
		out = append(out, m.Description)
	}
	pos := g.State.World.PartyPos
	out = append(out, fmt.Sprintf("You stand at (%d,%d) facing %s. %s",
		pos.X, pos.Y, g.State.World.PartyFacing, g.clock()))

	ahead := g.State.World.PositionAhead()
	if p, ok := m.PlacementAt(ahead); ok {
		if npc, ok := g.State.Campaign.Npcs.Get(p.NpcID); ok {
			out = append(out, npc.Name+" stands before you.")
		}
	} else if m.IsBlocked(ahead) {
		out = append(out, "The way ahead is blocked.")
	}
	if e, ok := m.Event(pos); ok && e.Kind == world.EventSign {
		out = append(out, "A sign reads: "+e.Text)
	}
	return out
}

func (g *Game) moveForward() []string {
	m, ok := g.State.World.Current()
	if !ok {
		return []string{"You are nowhere."}
	}
	if !g.State.World.StepForward() {
		return []string{"The way is blocked."}
	}
	g.State.Time.AdvanceMinutes(stepMinutes)

	if e, ok := m.Event(g.State.World.PartyPos); ok {
		return g.triggerEvent(m, e)
	}
	// Random encounters only fire on uneventful steps.
	if out := g.maybeEncounter(m); len(out) > 0 {
		return out
	}
	return g.Look()
}

// triggerEvent resolves the event on the tile the party just entered.
func (g *Game) triggerEvent(m *world.Map, e world.MapEvent) []string {
	switch e.Kind {
	case world.EventEncounter:
		out := []string{e.Description}
		return append(out, g.startCombat(e.MonsterGroup, combat.Even)...)

	case world.EventTreasure:
		out := []string{e.Description}
		if e.Gold > 0 {
			g.State.Party.Gold += e.Gold
			out = append(out, fmt.Sprintf("You find %d gold.", e.Gold))
		}
		for _, id := range e.Loot {
			if it, ok := g.State.Campaign.Items.Get(id); ok && g.State.Party.GiveItem(id) {
				out = append(out, "You find: "+it.Name+".")
				g.creditItem(id)
			}
		}
		m.RemoveEvent(g.State.World.PartyPos)
		return out

	case world.EventTeleport:
		if e.TargetMap != 0 {
			g.State.World.SetCurrent(e.TargetMap)
			g.creditVisit(e.TargetMap)
		}
		g.State.World.PartyPos = e.Destination
		return append([]string{e.Description}, g.Look()...)

	case world.EventTrap:
		out := []string{e.Description}
		for _, ch := range g.State.Party.Members {
			if ch.CanAct() {
				ch.TakeDamage(e.Damage)
				out = append(out, fmt.Sprintf("%s takes %d damage.", ch.Name, e.Damage))
				break
			}
		}
		return out

	case world.EventSign:
		return []string{"A sign reads: " + e.Text}

	case world.EventNpcDialogue:
		return g.startDialogueWith(e.NpcID, nil)

	case world.EventEnterInn:
		out := []string{e.Description}
		if npc, ok := g.State.Campaign.Npcs.Get(e.NpcID); ok {
			out = append(out, npc.Name+" welcomes you.")
		}
		return append(out, g.rest()...)

	case world.EventRecruitableCharacter:
		out := []string{e.Description}
		if e.DialogueID != nil {
			out = append(out, g.startDialogue(*e.DialogueID, "")...)
		}
		if err := g.State.Recruit(e.CharacterID); err != nil {
			return append(out, fmt.Sprintf("%s cannot join: %v.", e.CharacterID, err))
		}
		return append(out, fmt.Sprintf("%s joins the party.", e.CharacterID))

	case world.EventFurniture:
		return []string{e.Description}
	}
	return nil
}

// maybeEncounter rolls the map's random-encounter table after a step.
func (g *Game) maybeEncounter(m *world.Map) []string {
	t := m.Encounters
	if t.EncounterRate <= 0 || len(t.Groups) == 0 {
		return nil
	}
	if !g.RNG.Chance(int(t.EncounterRate * 100)) {
		return nil
	}
	weights := make([]int, len(t.Groups))
	for i := range weights {
		weights[i] = 1
	}
	group := t.Groups[g.RNG.WeightedSelect(weights)]
	return append([]string{"You are ambushed!"}, g.startCombat(group, combat.MonsterAdvantage)...)
}

func (g *Game) talk() []string {
	m, ok := g.State.World.Current()
	if !ok {
		return []string{"There is nobody here."}
	}
	p, ok := m.PlacementAt(g.State.World.PositionAhead())
	if !ok {
		return []string{"There is nobody to talk to."}
	}
	g.creditTalk(p.NpcID)
	return g.startDialogueWith(p.NpcID, p.DialogueOverride)
}

// startDialogueWith opens the NPC's dialogue, preferring the placement
// override over the NPC's default tree.
func (g *Game) startDialogueWith(id types.NpcID, override *types.DialogueID) []string {
	npc, ok := g.State.Campaign.Npcs.Get(id)
	if !ok {
		return []string{"There is nobody to talk to."}
	}
	treeID := override
	if treeID == nil {
		treeID = npc.DialogueID
	}
	if treeID == nil {
		return []string{npc.Name + " has nothing to say."}
	}
	return g.startDialogue(*treeID, npc.Name)
}

func (g *Game) startDialogue(treeID types.DialogueID, speaker string) []string {
	if err := g.Runner.Start(treeID, speaker); err != nil {
		return []string{fmt.Sprintf("Nothing happens (%v).", err)}
	}
	return g.dialogueScreen()
}

func (g *Game) stepDialogue(input string) []string {
	if input == "bye" || input == "leave" {
		g.Runner.End()
		return []string{"You end the conversation."}
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return []string{"Pick a numbered choice, or 'leave'."}
	}
	if err := g.Runner.SelectChoice(n - 1); err != nil {
		return []string{fmt.Sprintf("%v.", err)}
	}
	if !g.Runner.IsActive() {
		return []string{"The conversation ends."}
	}
	return g.dialogueScreen()
}

// dialogueScreen renders the current node and its numbered choices.
func (g *Game) dialogueScreen() []string {
	if !g.Runner.IsActive() {
		return []string{"The conversation ends."}
	}
	var out []string
	if s := g.Runner.Speaker(); s != "" {
		out = append(out, s+":")
	}
	out = append(out, g.Runner.Text())
	choices := g.Runner.Choices()
	if len(choices) == 0 {
		g.Runner.End()
		return append(out, "The conversation ends.")
	}
	for i, c := range choices {
		out = append(out, fmt.Sprintf("  %d. %s", i+1, c.Text))
	}
	return out
}

// startCombat spawns the monster group and opens the fight.
func (g *Game) startCombat(group []types.MonsterID, handicap combat.Handicap) []string {
	var defs []content.Monster
	var names []string
	for _, id := range group {
		if mon, ok := g.State.Campaign.Monsters.Get(id); ok {
			defs = append(defs, mon)
			names = append(names, mon.Name)
		}
	}
	if len(defs) == 0 {
		return nil
	}
	g.Combat = combat.New(g.State.Party.Members, defs, handicap, g.RNG)
	g.Combat.Start()
	g.State.Mode = state.ModeCombat

	out := []string{"Combat! You face: " + strings.Join(names, ", ") + "."}
	return append(out, g.runMonsterTurns()...)
}

func (g *Game) stepCombat(input string) []string {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}
	switch parts[0] {
	case "attack", "a":
		target := 1
		if len(parts) > 1 {
			if n, err := strconv.Atoi(parts[1]); err == nil {
				target = n
			}
		}
		return g.playerAttack(target)
	case "flee":
		return g.flee()
	case "pass":
		g.Combat.AdvanceTurn()
		return g.afterAction(nil)
	case "look", "l":
		return g.combatStatus()
	default:
		return []string{"Combat commands: attack [n], flee, pass, look."}
	}
}

// playerAttack strikes the nth living monster (1-based) with the
// current character's best weapon.
func (g *Game) playerAttack(target int) []string {
	cur := g.Combat.Current()
	if !cur.IsPlayer() {
		return []string{"It is not your turn."}
	}
	defender, ok := g.nthLivingMonster(target)
	if !ok {
		return []string{"No such target."}
	}
	attacker := g.Combat.TurnOrder[g.Combat.CurrentTurn]
	name, weapon := g.weaponFor(cur.Player)
	res, err := g.Combat.Attack(attacker, defender, weapon)
	if err != nil {
		return []string{fmt.Sprintf("%v.", err)}
	}
	out := []string{g.describeAttack(res, name)}
	g.Combat.AdvanceTurn()
	return g.afterAction(out)
}

func (g *Game) flee() []string {
	ok, err := g.Combat.Flee()
	if err != nil {
		return []string{fmt.Sprintf("%v.", err)}
	}
	if ok {
		g.endCombat()
		return []string{"You escape from the fight."}
	}
	g.Combat.AdvanceTurn()
	return g.afterAction([]string{"You fail to get away!"})
}

// afterAction settles the fight state after a player action: monsters
// take their turns, then either the outcome or the next prompt renders.
func (g *Game) afterAction(out []string) []string {
	if done := g.resolveOutcome(); done != nil {
		return append(out, done...)
	}
	out = append(out, g.runMonsterTurns()...)
	if done := g.resolveOutcome(); done != nil {
		return append(out, done...)
	}
	cur := g.Combat.Current()
	return append(out, fmt.Sprintf("Round %d: %s's turn.", g.Combat.Round, cur.Name()))
}

// runMonsterTurns plays every monster turn until a player is up or the
// fight is over. Monsters strike a random standing party member.
func (g *Game) runMonsterTurns() []string {
	var out []string
	// Bounded so a fight where nobody can act returns to the prompt.
	for turns := 0; turns < 2*len(g.Combat.TurnOrder); turns++ {
		if g.Combat.Status != combat.InProgress || g.Combat.Current().IsPlayer() {
			break
		}
		attacker := g.Combat.TurnOrder[g.Combat.CurrentTurn]
		defender, ok := g.randomLivingPlayer()
		if !ok {
			break
		}
		res, err := g.Combat.MonsterAttack(attacker, defender)
		if err == nil {
			out = append(out, g.describeAttack(res, res.AttackName))
		}
		g.Combat.AdvanceTurn()
		if g.Combat.CheckCombatEnd() != combat.InProgress {
			break
		}
	}
	return out
}

// resolveOutcome reports and applies the end of combat, or returns nil
// while the fight continues.
func (g *Game) resolveOutcome() []string {
	switch g.Combat.CheckCombatEnd() {
	case combat.Victory:
		loot := g.Combat.Loot()
		g.State.Party.AwardExperience(loot.Experience)
		g.State.Party.Gold += loot.Gold
		g.State.Party.Gems += loot.Gems
		for _, id := range loot.Items {
			g.State.Party.GiveItem(id)
			g.creditItem(id)
		}
		g.creditKills()
		out := []string{fmt.Sprintf("Victory! The party gains %d experience and %d gold.",
			loot.Experience, loot.Gold)}
		for _, id := range loot.Items {
			if it, ok := g.State.Campaign.Items.Get(id); ok {
				out = append(out, "Loot: "+it.Name+".")
			}
		}
		g.endCombat()
		return out
	case combat.Defeat:
		g.endCombat()
		return []string{"The party has fallen..."}
	case combat.Fled:
		g.endCombat()
		return []string{"You escape from the fight."}
	}
	return nil
}

func (g *Game) endCombat() {
	g.Combat = nil
	g.State.Mode = state.ModeExploration
}

func (g *Game) combatStatus() []string {
	out := []string{fmt.Sprintf("Round %d.", g.Combat.Round)}
	n := 0
	for _, p := range g.Combat.Participants {
		if p.IsPlayer() {
			continue
		}
		n++
		status := fmt.Sprintf("%d HP", p.Monster.HP.Current)
		if p.Monster.IsDead() {
			status = "dead"
		}
		out = append(out, fmt.Sprintf("  %d. %s (%s)", n, p.Name(), status))
	}
	return append(out, g.partyStatus()...)
}

func (g *Game) describeAttack(res combat.AttackResult, attackName string) string {
	if !res.Hit {
		return fmt.Sprintf("%s misses %s.", res.Attacker, res.Defender)
	}
	line := fmt.Sprintf("%s hits %s with %s for %d damage.",
		res.Attacker, res.Defender, attackName, res.Damage)
	if res.Condition != "" {
		line += " " + res.Defender + " is " + strings.ToLower(res.Condition) + "!"
	}
	return line
}

// nthLivingMonster maps a 1-based target number to a participant index.
func (g *Game) nthLivingMonster(n int) (int, bool) {
	seen := 0
	for i, p := range g.Combat.Participants {
		if p.IsPlayer() || p.IsDown() {
			continue
		}
		seen++
		if seen == n {
			return i, true
		}
	}
	return 0, false
}

func (g *Game) randomLivingPlayer() (int, bool) {
	var alive []int
	for i, p := range g.Combat.Participants {
		if p.IsPlayer() && !p.IsDown() {
			alive = append(alive, i)
		}
	}
	if len(alive) == 0 {
		return 0, false
	}
	weights := make([]int, len(alive))
	for i := range weights {
		weights[i] = 1
	}
	return alive[g.RNG.WeightedSelect(weights)], true
}

// weaponFor picks the character's hardest-hitting carried weapon, bare
// fists when unarmed.
func (g *Game) weaponFor(ch *state.Character) (string, types.DiceRoll) {
	name, damage := "fists", types.NewDiceRoll(1, 2, 0)
	best := -1
	for _, id := range ch.Inventory {
		it, ok := g.State.Campaign.Items.Get(id)
		if !ok || it.Category != content.ItemWeapon {
			continue
		}
		if avg := it.Damage.Average(); avg > best {
			best = avg
			name, damage = it.Name, it.Damage
		}
	}
	return name, damage
}

func (g *Game) partyStatus() []string {
	out := []string{fmt.Sprintf("Gold %d, gems %d, food %d.",
		g.State.Party.Gold, g.State.Party.Gems, g.State.Party.Food)}
	for _, ch := range g.State.Party.Members {
		line := fmt.Sprintf("  %s  Lv %d  HP %d/%d  SP %d/%d",
			ch.Name, ch.Level, ch.HP.Current, ch.HP.Base, ch.SP.Current, ch.SP.Base)
		if names := ch.Conditions.Names(); len(names) > 0 {
			line += "  [" + strings.Join(names, ", ") + "]"
		}
		out = append(out, line)
	}
	return out
}

func (g *Game) questLog() []string {
	ids := g.State.ActiveQuests()
	if len(ids) == 0 {
		return []string{"No active quests."}
	}
	out := []string{"Active quests:"}
	for _, id := range ids {
		q, ok := g.State.Campaign.Quests.Get(id)
		if !ok {
			continue
		}
		out = append(out, "  "+q.Name)
		p := g.State.Quests[id]
		for i, obj := range q.Objectives {
			count := 0
			if i < len(p.Counts) {
				count = p.Counts[i]
			}
			out = append(out, fmt.Sprintf("    - %s (%d/%d)", obj.Description, count, obj.Count))
		}
	}
	return out
}

// rest advances the clock to the next morning and restores the party.
func (g *Game) rest() []string {
	g.State.Time.AdvanceHours(8)
	for _, ch := range g.State.Party.Members {
		if ch.IsDead() {
			continue
		}
		ch.Heal(ch.HP.Base)
		if class, ok := g.State.Campaign.Classes.Get(ch.ClassID); ok {
			ch.SP.Current = state.MaxSpellPoints(ch, class)
		}
	}
	return []string{"The party rests. " + g.clock()}
}

func (g *Game) clock() string {
	t := g.State.Time
	phase := "day"
	if t.IsNight() {
		phase = "night"
	}
	return fmt.Sprintf("Day %d, %02d:%02d (%s).", t.Day, t.Hour, t.Minute, phase)
}

// Quest credit hooks. Each checks the active quests for a matching
// objective and completes the quest when every count is met.

func (g *Game) creditKills() {
	for _, p := range g.Combat.Participants {
		if p.IsPlayer() || !p.Monster.IsDead() {
			continue
		}
		g.creditObjective(func(obj content.QuestObjective) bool {
			return obj.Kind == content.ObjectiveKillMonster && obj.MonsterID == p.Monster.Def.ID
		})
	}
}

func (g *Game) creditItem(id types.ItemID) {
	g.creditObjective(func(obj content.QuestObjective) bool {
		return obj.Kind == content.ObjectiveCollectItem && obj.ItemID == id
	})
}

func (g *Game) creditVisit(id types.MapID) {
	g.creditObjective(func(obj content.QuestObjective) bool {
		return obj.Kind == content.ObjectiveVisitMap && obj.MapID == id
	})
}

func (g *Game) creditTalk(id types.NpcID) {
	g.creditObjective(func(obj content.QuestObjective) bool {
		return obj.Kind == content.ObjectiveTalkToNpc && obj.NpcID == id
	})
}

func (g *Game) creditObjective(match func(content.QuestObjective) bool) {
	for _, qid := range g.State.ActiveQuests() {
		q, ok := g.State.Campaign.Quests.Get(qid)
		if !ok {
			continue
		}
		for i, obj := range q.Objectives {
			if match(obj) {
				g.State.AdvanceQuest(qid, i)
			}
		}
		if g.questObjectivesMet(qid, q) {
			g.State.CompleteQuest(qid)
		}
	}
}

func (g *Game) questObjectivesMet(id types.QuestID, q content.Quest) bool {
	p, ok := g.State.Quests[id]
	if !ok || len(p.Counts) != len(q.Objectives) {
		return false
	}
	for i, obj := range q.Objectives {
		need := obj.Count
		if need <= 0 {
			need = 1
		}
		if p.Counts[i] < need {
			return false
		}
	}
	return true
}
