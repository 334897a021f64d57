package combat

import (
	"errors"
	"testing"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/engine"
	"github.com/antares-rpg/antares/engine/state"
	"github.com/antares-rpg/antares/types"
)

func knight(name string, speed int) *state.Character {
	c := &state.Character{
		Name: name, ClassID: "knight", Level: 3,
		HP: types.NewAttributePair(20),
	}
	c.Stats.Speed = types.NewAttributePair(speed)
	return c
}

func goblin(speed int) content.Monster {
	return content.Monster{
		ID: 1, Name: "Goblin", Speed: speed,
		HP: types.NewAttributePair(8),
		Attacks: []content.Attack{
			{Name: "club", Damage: types.NewDiceRoll(1, 4, 0)},
		},
		Loot: content.LootTable{Experience: 10},
	}
}

func TestStart_InitiativeOrder(t *testing.T) {
	// Player speed 12, monsters speed 15 and 12. Descending initiative
	// with index tiebreak: monster(15), player(12, index 0), monster(12).
	c := New(
		[]*state.Character{knight("Roderick", 12)},
		[]content.Monster{goblin(15), goblin(12)},
		Even, engine.NewRNG(1),
	)
	c.Start()

	if c.Status != InProgress || c.Round != 1 {
		t.Fatalf("status=%s round=%d after start", c.Status, c.Round)
	}
	want := []int{1, 0, 2}
	for i, idx := range want {
		if c.TurnOrder[i] != idx {
			t.Fatalf("turn order = %v, want %v", c.TurnOrder, want)
		}
	}
}

func TestStart_HandicapBias(t *testing.T) {
	// Equal speeds: party advantage puts the player first even though
	// the monster has a lower index among equal initiatives.
	c := New(
		[]*state.Character{knight("Roderick", 10)},
		[]content.Monster{goblin(11)},
		PartyAdvantage, engine.NewRNG(1),
	)
	c.Start()
	if c.Current().Name() != "Roderick" {
		t.Errorf("party advantage should put the knight first, got %s", c.Current().Name())
	}

	c = New(
		[]*state.Character{knight("Roderick", 11)},
		[]content.Monster{goblin(10)},
		MonsterAdvantage, engine.NewRNG(1),
	)
	c.Start()
	// 11 vs 10+2: monster first.
	if c.Current().Name() != "Goblin" {
		t.Errorf("monster advantage should put the goblin first, got %s", c.Current().Name())
	}
}

func TestTurnOrder_CoversAllOnce(t *testing.T) {
	c := New(
		[]*state.Character{knight("A", 5), knight("B", 9)},
		[]content.Monster{goblin(7), goblin(3)},
		Even, engine.NewRNG(1),
	)
	c.Start()

	seen := map[int]bool{}
	for _, idx := range c.TurnOrder {
		if seen[idx] {
			t.Fatalf("index %d appears twice in %v", idx, c.TurnOrder)
		}
		seen[idx] = true
	}
	if len(seen) != 4 {
		t.Fatalf("turn order %v does not cover all participants", c.TurnOrder)
	}
}

func TestAdvanceTurn_SkipsDownedAndWrapsRounds(t *testing.T) {
	a := knight("A", 10)
	b := knight("B", 8)
	c := New([]*state.Character{a, b}, []content.Monster{goblin(6)}, Even, engine.NewRNG(1))
	c.Start()

	if c.Current().Name() != "A" {
		t.Fatalf("first turn = %s, want A", c.Current().Name())
	}

	b.TakeDamage(20) // B is unconscious, scheduling skips them
	c.AdvanceTurn()
	if c.Current().Name() != "Goblin" {
		t.Errorf("turn after A = %s, want Goblin (B skipped)", c.Current().Name())
	}

	c.AdvanceTurn()
	if c.Round != 2 {
		t.Errorf("round = %d, want 2 after wrap", c.Round)
	}
	if c.Current().Name() != "A" {
		t.Errorf("round 2 first turn = %s, want A", c.Current().Name())
	}
}

func TestCheckCombatEnd_VictoryWithDeadMonster(t *testing.T) {
	dead := goblin(5)
	dead.HP = types.AttributePair{Base: 8, Current: 0}
	c := New([]*state.Character{knight("Roderick", 10)}, []content.Monster{dead}, Even, engine.NewRNG(1))
	c.Start()

	if got := c.CheckCombatEnd(); got != Victory {
		t.Fatalf("status = %s, want victory", got)
	}
}

func TestCheckCombatEnd_Defeat(t *testing.T) {
	a := knight("A", 10)
	c := New([]*state.Character{a}, []content.Monster{goblin(5)}, Even, engine.NewRNG(1))
	c.Start()

	a.TakeDamage(50)
	if got := c.CheckCombatEnd(); got != Defeat {
		t.Fatalf("status = %s, want defeat", got)
	}
}

func TestCanFlee_MonsterAdvantagePinsRoundOne(t *testing.T) {
	c := New([]*state.Character{knight("A", 10)}, []content.Monster{goblin(5)}, MonsterAdvantage, engine.NewRNG(1))
	c.Start()

	if c.CanFlee() {
		t.Error("fleeing should be blocked in round 1 under monster advantage")
	}
	c.Round = 2
	if !c.CanFlee() {
		t.Error("fleeing should be allowed from round 2")
	}
}

func TestAttack_HitAndDamage(t *testing.T) {
	a := knight("A", 10)
	a.Stats.Accuracy = types.NewAttributePair(30) // +10, cannot miss AC 0
	c := New([]*state.Character{a}, []content.Monster{goblin(5)}, Even, engine.NewRNG(7))
	c.Start()

	res, err := c.Attack(0, 1, types.NewDiceRoll(1, 6, 2))
	if err != nil {
		t.Fatalf("Attack: %v", err)
	}
	if !res.Hit {
		t.Fatal("attack with +10 accuracy bonus vs AC 0 must hit")
	}
	if res.Damage < 3 || res.Damage > 8 {
		t.Errorf("1d6+2 damage = %d", res.Damage)
	}
	mon := c.Participants[1].Monster
	if mon.HP.Current != 8-res.Damage {
		t.Errorf("monster HP = %d, want %d", mon.HP.Current, 8-res.Damage)
	}
}

func TestAttack_GuaranteedMiss(t *testing.T) {
	a := knight("A", 10)
	armored := goblin(5)
	armored.AC = types.NewAttributePair(11) // 10+11 > max roll 20
	c := New([]*state.Character{a}, []content.Monster{armored}, Even, engine.NewRNG(7))
	c.Start()

	res, err := c.Attack(0, 1, types.NewDiceRoll(1, 6, 0))
	if err != nil {
		t.Fatalf("Attack: %v", err)
	}
	if res.Hit || res.Damage != 0 {
		t.Errorf("attack vs AC 11 with no bonus should miss, got %+v", res)
	}
}

func TestMonsterAttack_ConditionRider(t *testing.T) {
	rat := content.Monster{
		ID: 2, Name: "Giant Rat", Speed: 9,
		HP: types.NewAttributePair(4),
		Attacks: []content.Attack{
			{Name: "bite", Damage: types.NewDiceRoll(1, 3, 0), Condition: "Diseased"},
		},
	}
	rat.Stats.Accuracy = types.NewAttributePair(30)
	a := knight("A", 10)
	c := New([]*state.Character{a}, []content.Monster{rat}, Even, engine.NewRNG(3))
	c.Start()

	res, err := c.MonsterAttack(1, 0)
	if err != nil {
		t.Fatalf("MonsterAttack: %v", err)
	}
	if !res.Hit {
		t.Fatal("bite with +10 accuracy bonus vs AC 0 must hit")
	}
	if res.Condition != "Diseased" {
		t.Errorf("condition = %q, want Diseased", res.Condition)
	}
	if !a.Conditions.Has(types.Diseased) {
		t.Error("defender should be diseased")
	}
}

func TestAttack_RejectsDownedTargets(t *testing.T) {
	dead := goblin(5)
	dead.HP = types.AttributePair{Base: 8, Current: 0}
	c := New([]*state.Character{knight("A", 10)}, []content.Monster{dead}, Even, engine.NewRNG(1))
	c.Start()

	if _, err := c.Attack(0, 1, types.NewDiceRoll(1, 6, 0)); err == nil {
		t.Fatal("attacking a dead monster should fail")
	}
}

func TestLoot_RollsDeadMonsters(t *testing.T) {
	rich := goblin(5)
	rich.HP = types.AttributePair{Base: 8, Current: 0}
	rich.Loot = content.LootTable{
		Experience: 25,
		Gold:       types.NewDiceRoll(0, 0, 10),
		Items: []content.LootEntry{
			{ItemID: 3, Chance: 100},
			{ItemID: 4, Chance: 0},
		},
	}
	alive := goblin(6) // not dead, contributes nothing

	c := New([]*state.Character{knight("A", 10)}, []content.Monster{rich, alive}, Even, engine.NewRNG(9))
	c.Start()

	loot := c.Loot()
	if loot.Experience != 25 {
		t.Errorf("experience = %d, want 25", loot.Experience)
	}
	if loot.Gold != 10 {
		t.Errorf("gold = %d, want 10", loot.Gold)
	}
	if len(loot.Items) != 1 || loot.Items[0] != 3 {
		t.Errorf("items = %v, want [3]", loot.Items)
	}
}

func TestCanCast_Taxonomy(t *testing.T) {
	cleric := content.Class{ID: "cleric", SpellSchool: content.SchoolCleric, SPStatDivisor: 2}
	heal := content.Spell{
		ID: 1, Name: "First Aid", School: content.SchoolCleric,
		Level: 1, SPCost: 2, Context: content.ContextAnytime,
	}

	caster := func() *state.Character {
		c := &state.Character{Name: "Maren", ClassID: "cleric", Level: 3,
			HP: types.NewAttributePair(12), SP: types.NewAttributePair(10)}
		return c
	}

	tests := []struct {
		name   string
		mutate func(*state.Character) (content.Class, content.Spell, int, bool, bool)
		want   SpellFailReason
	}{
		{"unconscious", func(c *state.Character) (content.Class, content.Spell, int, bool, bool) {
			c.TakeDamage(12)
			return cleric, heal, 0, false, false
		}, FailUnconscious},
		{"silenced", func(c *state.Character) (content.Class, content.Spell, int, bool, bool) {
			c.Conditions.Set(types.Silenced)
			return cleric, heal, 0, false, false
		}, FailSilenced},
		{"wrong class", func(c *state.Character) (content.Class, content.Spell, int, bool, bool) {
			return content.Class{ID: "knight"}, heal, 0, false, false
		}, FailWrongClass},
		{"wrong school", func(c *state.Character) (content.Class, content.Spell, int, bool, bool) {
			s := heal
			s.School = content.SchoolSorcerer
			return cleric, s, 0, false, false
		}, FailWrongClass},
		{"level too low", func(c *state.Character) (content.Class, content.Spell, int, bool, bool) {
			s := heal
			s.Level = 5
			return cleric, s, 0, false, false
		}, FailLevelTooLow},
		{"hybrid offset", func(c *state.Character) (content.Class, content.Spell, int, bool, bool) {
			hybrid := cleric
			hybrid.SpellLevelOffset = 3
			return hybrid, heal, 0, false, false // needs level 4
		}, FailLevelTooLow},
		{"not enough sp", func(c *state.Character) (content.Class, content.Spell, int, bool, bool) {
			c.SP.Current = 1
			return cleric, heal, 0, false, false
		}, FailNotEnoughSP},
		{"not enough gems", func(c *state.Character) (content.Class, content.Spell, int, bool, bool) {
			s := heal
			s.GemCost = 2
			return cleric, s, 1, false, false
		}, FailNotEnoughGems},
		{"combat only", func(c *state.Character) (content.Class, content.Spell, int, bool, bool) {
			s := heal
			s.Context = content.ContextCombatOnly
			return cleric, s, 0, false, false
		}, FailCombatOnly},
		{"not in combat", func(c *state.Character) (content.Class, content.Spell, int, bool, bool) {
			s := heal
			s.Context = content.ContextNonCombat
			return cleric, s, 0, true, false
		}, FailNotInCombat},
		{"outdoor only", func(c *state.Character) (content.Class, content.Spell, int, bool, bool) {
			s := heal
			s.Context = content.ContextOutdoor
			return cleric, s, 0, false, false
		}, FailOutdoorOnly},
		{"indoor only", func(c *state.Character) (content.Class, content.Spell, int, bool, bool) {
			s := heal
			s.Context = content.ContextIndoor
			return cleric, s, 0, false, true
		}, FailIndoorOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := caster()
			class, spell, gems, inCombat, outdoors := tt.mutate(c)
			err := CanCast(c, class, spell, gems, inCombat, outdoors)
			var spellErr *SpellError
			if !errors.As(err, &spellErr) {
				t.Fatalf("expected a SpellError, got %v", err)
			}
			if spellErr.Reason != tt.want {
				t.Errorf("reason = %s, want %s", spellErr.Reason, tt.want)
			}
		})
	}

	// The happy path casts.
	c := caster()
	if err := CanCast(c, cleric, heal, 0, true, true); err != nil {
		t.Errorf("valid cast refused: %v", err)
	}
}

func TestCast_DeductsCosts(t *testing.T) {
	cleric := content.Class{ID: "cleric", SpellSchool: content.SchoolCleric}
	spell := content.Spell{
		ID: 1, Name: "Divine Ray", School: content.SchoolCleric,
		Level: 1, SPCost: 4, GemCost: 2,
	}
	caster := &state.Character{Name: "Maren", Level: 2,
		HP: types.NewAttributePair(12), SP: types.NewAttributePair(10)}
	party := state.NewParty(6)
	party.Gems = 5

	if err := Cast(caster, cleric, spell, party, false, false); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if caster.SP.Current != 6 {
		t.Errorf("SP = %d, want 6", caster.SP.Current)
	}
	if party.Gems != 3 {
		t.Errorf("gems = %d, want 3", party.Gems)
	}

	// A refused cast deducts nothing.
	caster.Conditions.Set(types.Silenced)
	if err := Cast(caster, cleric, spell, party, false, false); err == nil {
		t.Fatal("silenced cast should fail")
	}
	if caster.SP.Current != 6 || party.Gems != 3 {
		t.Error("refused cast must not deduct costs")
	}
}
