package save

import (
	"strings"
	"testing"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/engine/state"
	"github.com/antares-rpg/antares/types"
	"github.com/antares-rpg/antares/world"
)

func testCampaign() *content.Database {
	db := content.NewDatabase()
	db.Campaign = content.Campaign{
		ID: "c1", Name: "Greenfield", Version: "1.2.0",
		StartingMap:      1,
		StartingPosition: types.NewPosition(1, 1),
	}
	db.Campaign.Config = content.DefaultCampaignConfig()
	db.Maps.Put(1, world.NewMap(1, "Town", "", 5, 5))
	db.Maps.Put(2, world.NewMap(2, "Cellar", "", 4, 4))
	db.Quests.Put(1, content.Quest{
		ID: 1, Name: "Rats",
		Objectives: []content.QuestObjective{{Kind: content.ObjectiveKillMonster, MonsterID: 1, Count: 3}},
	})
	db.Characters.Put("hero", content.CharacterDef{
		ID: "hero", Name: "Hero", Level: 2,
		HP: types.NewAttributePair(20), StartsInParty: true,
	})
	return db
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := testCampaign()
	gs, err := state.NewGameState(db, 42)
	if err != nil {
		t.Fatalf("NewGameState: %v", err)
	}

	gs.Party.Gold = 250
	gs.SetFlag("met_mayor", true)
	gs.StartQuest(1)
	gs.AdvanceQuest(1, 0)
	gs.Time.AdvanceHours(30)
	gs.World.SetCurrent(2)
	gs.World.PartyPos = types.NewPosition(3, 2)
	gs.World.PartyFacing = types.West
	gs.RNGPosition = 17

	data, err := Save(gs)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sd.Campaign.ID != "c1" || sd.Campaign.Version != "1.2.0" || sd.Campaign.Name != "Greenfield" {
		t.Errorf("campaign reference = %+v", sd.Campaign)
	}

	restored, err := Restore(sd, db)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Party.Gold != 250 {
		t.Errorf("gold = %d, want 250", restored.Party.Gold)
	}
	if !restored.Flag("met_mayor") {
		t.Error("flag lost in round trip")
	}
	if !restored.IsQuestActive(1) || restored.Quests[1].Counts[0] != 1 {
		t.Error("quest progress lost in round trip")
	}
	if restored.World.CurrentMap != 2 || restored.World.PartyPos != types.NewPosition(3, 2) {
		t.Errorf("position = map %d %v", restored.World.CurrentMap, restored.World.PartyPos)
	}
	if restored.World.PartyFacing != types.West {
		t.Errorf("facing = %v, want West", restored.World.PartyFacing)
	}
	if !restored.World.VisitedMaps[1] || !restored.World.VisitedMaps[2] {
		t.Errorf("visited maps = %v", restored.World.VisitedMaps)
	}
	if restored.Time.Day != 2 || restored.Time.Hour != 14 {
		t.Errorf("time = %+v", restored.Time)
	}
	if restored.RNGSeed != 42 || restored.RNGPosition != 17 {
		t.Errorf("rng = %d@%d", restored.RNGSeed, restored.RNGPosition)
	}
	if len(restored.Party.Members) != 1 || restored.Party.Members[0].ID != "hero" {
		t.Errorf("party = %v", restored.Party.Members)
	}
}

func TestRestore_RejectsWrongCampaign(t *testing.T) {
	db := testCampaign()
	gs, _ := state.NewGameState(db, 1)
	data, _ := Save(gs)
	sd, _ := Load(data)

	other := testCampaign()
	other.Campaign.ID = "c2"
	if _, err := Restore(sd, other); err == nil {
		t.Fatal("restore into a different campaign should fail")
	}

	patched := testCampaign()
	patched.Campaign.Version = "1.2.9" // patch difference is fine
	if _, err := Restore(sd, patched); err != nil {
		t.Fatalf("patch-level version change should be compatible: %v", err)
	}

	minor := testCampaign()
	minor.Campaign.Version = "1.3.0"
	if _, err := Restore(sd, minor); err == nil {
		t.Fatal("minor version change should be incompatible")
	}
}

func TestLoad_BadData(t *testing.T) {
	if _, err := Load([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := Load([]byte(`{"format":"99"}`)); err == nil || !strings.Contains(err.Error(), "format") {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestRestore_MissingMap(t *testing.T) {
	db := testCampaign()
	gs, _ := state.NewGameState(db, 1)
	gs.World.SetCurrent(2)
	data, _ := Save(gs)
	sd, _ := Load(data)

	trimmed := testCampaign()
	trimmed.Maps.Delete(2)
	if _, err := Restore(sd, trimmed); err == nil {
		t.Fatal("restore onto a campaign missing the saved map should fail")
	}
}

func TestSave_CampaignNotSerialized(t *testing.T) {
	db := testCampaign()
	gs, _ := state.NewGameState(db, 1)
	data, err := Save(gs)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.Contains(string(data), "starting_map") || strings.Contains(string(data), "Registry") {
		t.Error("save should not embed campaign content")
	}
}
