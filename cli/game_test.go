package cli

import (
	"strings"
	"testing"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/engine/state"
	"github.com/antares-rpg/antares/types"
	"github.com/antares-rpg/antares/world"
)

// testDB builds a small campaign: a 5x5 town with the mayor standing
// north of the start, a sign to the south, a goblin lair to the east,
// and a cellar reachable by teleport to the west.
func testDB() *content.Database {
	db := content.NewDatabase()
	db.Campaign = content.Campaign{
		ID: "test", Name: "Testfield", Version: "1.0.0",
		Description:      "A campaign for testing.",
		StartingMap:      1,
		StartingPosition: types.NewPosition(2, 2),
	}
	db.Campaign.Config = content.DefaultCampaignConfig()

	db.Items.Put(1, content.Item{
		ID: 1, Name: "Short Sword", Category: content.ItemWeapon,
		Damage: types.NewDiceRoll(1, 6, 2),
	})
	db.Monsters.Put(1, content.Monster{
		ID: 1, Name: "Goblin",
		HP: types.NewAttributePair(1), Speed: 1,
		Attacks: []content.Attack{{Name: "club", Damage: types.NewDiceRoll(1, 2, 0)}},
		Loot:    content.LootTable{Experience: 25},
	})
	db.Quests.Put(1, content.Quest{
		ID: 1, Name: "Goblin Trouble",
		Objectives: []content.QuestObjective{{
			Kind: content.ObjectiveKillMonster, MonsterID: 1, Count: 1,
			Description: "Slay the goblin",
		}},
		Reward: content.QuestReward{Gold: 50},
	})

	next := types.NodeID(2)
	db.Dialogues.Put(1, content.DialogueTree{
		ID: 1, RootNode: 1, SpeakerName: "The Mayor",
		Nodes: map[types.NodeID]content.DialogueNode{
			1: {ID: 1, Text: "Welcome, travelers.", Choices: []content.DialogueChoice{
				{Text: "Any work for us?", NextNode: &next},
				{Text: "Goodbye."},
			}},
			2: {ID: 2, Text: "Goblins plague our cellar.", IsTerminal: true, Choices: []content.DialogueChoice{
				{Text: "We will handle it.", Actions: []content.DialogueAction{
					{Type: "start_quest", Params: map[string]any{"quest": 1}},
				}},
			}},
		},
	})
	db.Npcs.Put("mayor", content.NPC{ID: "mayor", Name: "The Mayor", DialogueID: dlgID(1)})

	// An accurate, fast hero so combat rolls cannot miss.
	stats := types.NewStats(10)
	stats.Accuracy = types.NewAttributePair(30)
	stats.Speed = types.NewAttributePair(20)
	db.Characters.Put("hero", content.CharacterDef{
		ID: "hero", Name: "Hero", Level: 1, Stats: stats,
		HP: types.NewAttributePair(20), StartsInParty: true,
		Inventory: []types.ItemID{1},
	})

	town := world.NewMap(1, "Town", "A quiet town square.", 5, 5)
	town.AddPlacement(world.NewNpcPlacement("mayor", types.NewPosition(2, 1)))
	town.AddEvent(types.NewPosition(2, 3), world.MapEvent{
		Kind: world.EventSign, Name: "sign", Description: "A wooden sign.",
		Text: "Welcome to Testfield.",
	})
	town.AddEvent(types.NewPosition(3, 2), world.MapEvent{
		Kind: world.EventEncounter, Name: "lair", Description: "A goblin leaps out!",
		MonsterGroup: []types.MonsterID{1},
	})
	town.AddEvent(types.NewPosition(1, 2), world.MapEvent{
		Kind: world.EventTeleport, Name: "stairs", Description: "Stairs lead down.",
		TargetMap: 2, Destination: types.NewPosition(1, 1),
	})
	db.Maps.Put(1, town)
	db.Maps.Put(2, world.NewMap(2, "Cellar", "A damp cellar.", 3, 3))
	return db
}

func dlgID(id types.DialogueID) *types.DialogueID { return &id }

func newTestGame(t *testing.T) *Game {
	t.Helper()
	gs, err := state.NewGameState(testDB(), 7)
	if err != nil {
		t.Fatalf("NewGameState: %v", err)
	}
	return NewGame(gs)
}

func contains(lines []string, want string) bool {
	for _, line := range lines {
		if strings.Contains(line, want) {
			return true
		}
	}
	return false
}

func TestGame_LookAndTurn(t *testing.T) {
	g := newTestGame(t)

	out := g.Step("look")
	if !contains(out, "Town") || !contains(out, "quiet town square") {
		t.Errorf("look output = %v", out)
	}
	if !contains(out, "The Mayor stands before you.") {
		t.Errorf("mayor ahead not reported: %v", out)
	}

	out = g.Step("right")
	if !contains(out, "East") {
		t.Errorf("turn output = %v", out)
	}
	if g.State.World.PartyFacing != types.East {
		t.Errorf("facing = %v", g.State.World.PartyFacing)
	}

	out = g.Step("back")
	if g.State.World.PartyFacing != types.West {
		t.Errorf("facing after back = %v", g.State.World.PartyFacing)
	}
	_ = out
}

func TestGame_MovementBlockedByNpc(t *testing.T) {
	g := newTestGame(t)

	// Facing north, the mayor stands one tile ahead.
	out := g.Step("forward")
	if !contains(out, "blocked") {
		t.Errorf("stepping into an NPC should be blocked: %v", out)
	}
	if g.State.World.PartyPos != types.NewPosition(2, 2) {
		t.Errorf("party moved to %v", g.State.World.PartyPos)
	}
}

func TestGame_SignEvent(t *testing.T) {
	g := newTestGame(t)

	g.Step("back") // face south
	out := g.Step("forward")
	if !contains(out, "Welcome to Testfield.") {
		t.Errorf("sign text missing: %v", out)
	}
	if g.State.World.PartyPos != types.NewPosition(2, 3) {
		t.Errorf("party at %v", g.State.World.PartyPos)
	}
}

func TestGame_TeleportEvent(t *testing.T) {
	g := newTestGame(t)

	g.Step("left") // face west
	out := g.Step("forward")
	if g.State.World.CurrentMap != 2 {
		t.Fatalf("current map = %d, want 2", g.State.World.CurrentMap)
	}
	if g.State.World.PartyPos != types.NewPosition(1, 1) {
		t.Errorf("party at %v", g.State.World.PartyPos)
	}
	if !contains(out, "Cellar") {
		t.Errorf("destination not described: %v", out)
	}
	if !g.State.World.VisitedMaps[2] {
		t.Error("destination map not marked visited")
	}
}

func TestGame_DialogueFlow(t *testing.T) {
	g := newTestGame(t)

	out := g.Step("talk")
	if !contains(out, "The Mayor:") || !contains(out, "Welcome, travelers.") {
		t.Fatalf("dialogue start = %v", out)
	}
	if !contains(out, "1. Any work for us?") {
		t.Fatalf("choices missing: %v", out)
	}
	if g.State.Mode != state.ModeDialogue {
		t.Fatal("mode should be dialogue")
	}

	// Movement is captured by the dialogue.
	out = g.Step("forward")
	if !contains(out, "numbered choice") {
		t.Errorf("non-numeric input in dialogue = %v", out)
	}

	out = g.Step("1")
	if !contains(out, "Goblins plague our cellar.") {
		t.Fatalf("advance = %v", out)
	}

	out = g.Step("1")
	if !contains(out, "conversation ends") {
		t.Errorf("terminal choice = %v", out)
	}
	if g.State.Mode != state.ModeExploration {
		t.Error("mode should return to exploration")
	}
	if !g.State.IsQuestActive(1) {
		t.Error("choice action should have started the quest")
	}
}

func TestGame_DialogueGoodbyeEnds(t *testing.T) {
	g := newTestGame(t)

	g.Step("talk")
	out := g.Step("2")
	if !contains(out, "conversation ends") {
		t.Errorf("goodbye = %v", out)
	}
	if g.Runner.IsActive() {
		t.Error("runner should be inactive")
	}
}

func TestGame_CombatVictory(t *testing.T) {
	g := newTestGame(t)
	g.State.StartQuest(1)

	g.Step("right") // face east, toward the lair
	out := g.Step("forward")
	if !contains(out, "Combat! You face: Goblin.") {
		t.Fatalf("encounter = %v", out)
	}
	if g.State.Mode != state.ModeCombat {
		t.Fatal("mode should be combat")
	}

	// Accuracy 30 against AC 0 cannot miss, and the goblin has 1 HP.
	out = g.Step("attack")
	if !contains(out, "Hero hits Goblin with Short Sword") {
		t.Fatalf("attack = %v", out)
	}
	if !contains(out, "Victory!") {
		t.Fatalf("expected victory: %v", out)
	}
	if g.State.Mode != state.ModeExploration {
		t.Error("mode should return to exploration")
	}
	if g.Combat != nil {
		t.Error("combat should be cleared")
	}

	// The kill credits and completes the quest, paying its reward.
	if !g.State.IsQuestCompleted(1) {
		t.Error("kill quest should be completed")
	}
	if g.State.Party.Gold != 50 {
		t.Errorf("gold = %d, want 50 quest reward", g.State.Party.Gold)
	}
	if g.State.Party.Members[0].Experience < 25 {
		t.Errorf("experience = %d, want at least 25", g.State.Party.Members[0].Experience)
	}
}

func TestGame_CombatStatusAndBadTarget(t *testing.T) {
	g := newTestGame(t)
	g.Step("right")
	g.Step("forward")

	out := g.Step("look")
	if !contains(out, "Goblin") || !contains(out, "Hero") {
		t.Errorf("combat status = %v", out)
	}

	out = g.Step("attack 5")
	if !contains(out, "No such target.") {
		t.Errorf("bad target = %v", out)
	}
}

func TestGame_PartyAndQuestLog(t *testing.T) {
	g := newTestGame(t)

	out := g.Step("party")
	if !contains(out, "Hero") || !contains(out, "HP 20/20") {
		t.Errorf("party status = %v", out)
	}

	out = g.Step("quests")
	if !contains(out, "No active quests.") {
		t.Errorf("empty quest log = %v", out)
	}
	g.State.StartQuest(1)
	out = g.Step("quests")
	if !contains(out, "Goblin Trouble") || !contains(out, "Slay the goblin (0/1)") {
		t.Errorf("quest log = %v", out)
	}
}

func TestGame_RestHealsParty(t *testing.T) {
	g := newTestGame(t)
	hero := g.State.Party.Members[0]
	hero.TakeDamage(15)

	out := g.Step("rest")
	if hero.HP.Current != hero.HP.Base {
		t.Errorf("hp after rest = %d/%d", hero.HP.Current, hero.HP.Base)
	}
	if g.State.Time.Hour != 16 {
		t.Errorf("hour = %d, want 16", g.State.Time.Hour)
	}
	if !contains(out, "The party rests.") {
		t.Errorf("rest output = %v", out)
	}
}

func TestGame_UnknownCommand(t *testing.T) {
	g := newTestGame(t)
	out := g.Step("dance")
	if !contains(out, "/help") {
		t.Errorf("unknown command = %v", out)
	}
}
