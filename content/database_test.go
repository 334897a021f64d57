package content

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/antares-rpg/antares/types"
	"github.com/antares-rpg/antares/world"
)

func TestRegistry_InsertAndLookup(t *testing.T) {
	r := NewRegistry[types.ItemID, Item]("item")

	if err := r.Insert(1, Item{ID: 1, Name: "Sword"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := r.Insert(2, Item{ID: 2, Name: "Shield"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if !r.Has(1) || !r.Has(2) {
		t.Error("Has() = false for inserted IDs")
	}
	if r.Has(3) {
		t.Error("Has(3) = true for absent ID")
	}
	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}

	item, ok := r.Get(1)
	if !ok || item.Name != "Sword" {
		t.Errorf("Get(1) = %+v, %v", item, ok)
	}
}

func TestRegistry_DuplicateID(t *testing.T) {
	r := NewRegistry[types.ItemID, Item]("item")
	if err := r.Insert(1, Item{ID: 1, Name: "First"}); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	err := r.Insert(1, Item{ID: 1, Name: "Second"})
	if err == nil {
		t.Fatal("expected duplicate ID error")
	}
	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("error type = %T, want *DuplicateIDError", err)
	}
	if dup.Kind != "item" || dup.ID != "1" {
		t.Errorf("DuplicateIDError = %+v", dup)
	}

	// The original entry survives.
	item, _ := r.Get(1)
	if item.Name != "First" {
		t.Errorf("entry after duplicate insert = %q, want First", item.Name)
	}
}

func TestRegistry_OrderedIteration(t *testing.T) {
	r := NewRegistry[types.MonsterID, Monster]("monster")
	for _, id := range []types.MonsterID{7, 1, 4, 2} {
		if err := r.Insert(id, Monster{ID: id}); err != nil {
			t.Fatal(err)
		}
	}

	var got []types.MonsterID
	r.All(func(id types.MonsterID, _ Monster) bool {
		got = append(got, id)
		return true
	})
	want := []types.MonsterID{1, 2, 4, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("iteration order = %v, want %v", got, want)
		}
	}
}

func TestDialogueTree_Validate(t *testing.T) {
	node2 := types.NodeID(2)
	missing := types.NodeID(99)

	tree := DialogueTree{ID: 1, Name: "Greeting", RootNode: 1}
	tree.AddNode(DialogueNode{ID: 1, Text: "Hello.", Choices: []DialogueChoice{
		{Text: "Continue", NextNode: &node2},
	}})
	tree.AddNode(DialogueNode{ID: 2, Text: "Bye.", IsTerminal: true})

	if problems := tree.Validate(); len(problems) != 0 {
		t.Errorf("valid tree reported problems: %v", problems)
	}

	// Broken choice target.
	tree.AddNode(DialogueNode{ID: 3, Text: "Dangling.", Choices: []DialogueChoice{
		{Text: "Nowhere", NextNode: &missing},
	}})
	if problems := tree.Validate(); len(problems) != 1 {
		t.Errorf("problems = %v, want one broken choice target", problems)
	}

	// Missing root.
	tree.RootNode = 42
	if problems := tree.Validate(); len(problems) != 2 {
		t.Errorf("problems = %v, want missing root plus broken target", problems)
	}

	// Terminal node with continuing choice.
	bad := DialogueTree{ID: 2, Name: "Bad", RootNode: 1}
	bad.AddNode(DialogueNode{ID: 1, Text: "x", IsTerminal: true, Choices: []DialogueChoice{
		{Text: "Onward", NextNode: &node2},
	}})
	bad.AddNode(DialogueNode{ID: 2, Text: "y"})
	found := false
	for _, p := range bad.Validate() {
		if p == "terminal node has a continuing choice: Onward" {
			found = true
		}
	}
	if !found {
		t.Error("terminal-with-choices not reported")
	}
}

func TestDialogueTree_ValidateOrderStable(t *testing.T) {
	tree := DialogueTree{ID: 3, Name: "Gate", RootNode: 1}
	tree.AddNode(DialogueNode{ID: 1, Text: "Hm."})
	for i := 2; i <= 9; i++ {
		missing := types.NodeID(100 + i)
		tree.AddNode(DialogueNode{ID: types.NodeID(i), Text: "x", Choices: []DialogueChoice{
			{Text: fmt.Sprintf("door %d", i), NextNode: &missing},
		}})
	}

	var want []string
	for i := 2; i <= 9; i++ {
		want = append(want, fmt.Sprintf("choice target node missing: door %d", i))
	}
	for run := 0; run < 50; run++ {
		if got := tree.Validate(); !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: problems = %v, want %v", run, got, want)
		}
	}
}

func TestCampaign_EngineCompatibility(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"", true}, // unset accepted during authoring
		{EngineVersion, true},
		{"0.9.7", true},  // patch ignored
		{"0.8.0", false}, // minor mismatch
		{"1.9.0", false}, // major mismatch
	}
	for _, tt := range tests {
		c := &Campaign{ID: "test", EngineVersion: tt.version}
		err := c.CompatibleEngine()
		if (err == nil) != tt.ok {
			t.Errorf("engine_version %q: err = %v, want ok=%v", tt.version, err, tt.ok)
		}
	}
}

func TestCampaignReference_Compatible(t *testing.T) {
	c := &Campaign{ID: "c1", Name: "First", Version: "1.0.0"}

	if err := (CampaignReference{ID: "c1", Version: "1.0.3"}).Compatible(c); err != nil {
		t.Errorf("patch difference rejected: %v", err)
	}
	if err := (CampaignReference{ID: "c1", Version: "1.1.0"}).Compatible(c); err == nil {
		t.Error("minor mismatch accepted")
	}
	if err := (CampaignReference{ID: "other", Version: "1.0.0"}).Compatible(c); err == nil {
		t.Error("different campaign ID accepted")
	}
}

func TestGameConfig_Validate(t *testing.T) {
	cfg := DefaultGameConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	zero := DefaultGameConfig()
	zero.Graphics.ResolutionWidth = 0
	if err := zero.Validate(); err == nil {
		t.Error("zero resolution accepted")
	}

	loud := DefaultGameConfig()
	loud.Audio.Music = 1.5
	if err := loud.Validate(); err == nil {
		t.Error("volume above 1 accepted")
	}

	msaa := DefaultGameConfig()
	msaa.Graphics.MsaaSamples = 3
	if err := msaa.Validate(); err == nil {
		t.Error("msaa 3 accepted")
	}

	clip := DefaultGameConfig()
	clip.Camera.FarClip = clip.Camera.NearClip
	if err := clip.Validate(); err == nil {
		t.Error("far clip <= near clip accepted")
	}
}

func TestDatabase_CloneIsIndependent(t *testing.T) {
	db := NewDatabase()
	db.Campaign = Campaign{ID: "c1", Name: "First", Version: "1.0.0"}
	if err := db.Items.Insert(1, Item{ID: 1, Name: "Sword"}); err != nil {
		t.Fatal(err)
	}
	m := world.NewMap(1, "Town", "", 4, 4)
	m.AddEvent(types.NewPosition(1, 1), world.MapEvent{
		Kind: world.EventSign, Name: "Sign", Description: "d", Text: "Welcome",
	})
	m.AddPlacement(world.NewNpcPlacement("mayor", types.NewPosition(2, 2)))
	if err := db.Maps.Insert(1, m); err != nil {
		t.Fatal(err)
	}

	clone := db.Clone()

	// Mutating the clone must not touch the original.
	clone.Items.Put(1, Item{ID: 1, Name: "Axe"})
	cm, _ := clone.Maps.Get(1)
	cm.Tiles[0][0] = world.NewTile(world.TerrainWater, world.WallNone)
	cm.AddEvent(types.NewPosition(3, 3), world.MapEvent{
		Kind: world.EventSign, Name: "New", Description: "d", Text: "x",
	})
	cm.Placements[0].NpcID = "usurper"

	orig, _ := db.Items.Get(1)
	if orig.Name != "Sword" {
		t.Error("clone edit leaked into original item registry")
	}
	om, _ := db.Maps.Get(1)
	if om.Tiles[0][0].Terrain == world.TerrainWater {
		t.Error("clone edit leaked into original map tiles")
	}
	if len(om.Events) != 1 {
		t.Error("clone edit leaked into original map events")
	}
	if om.Placements[0].NpcID != "mayor" {
		t.Error("clone edit leaked into original placements")
	}
}
