package loader

import (
	"strings"
	"testing"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/types"
	"github.com/antares-rpg/antares/world"
)

func TestLoad_MinimalCampaign(t *testing.T) {
	db, report, err := Load("testdata/minimal", Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("unexpected report errors: %v", report.Issues)
	}

	if db.Campaign.ID != "minimal" {
		t.Errorf("campaign ID = %q, want minimal", db.Campaign.ID)
	}
	if db.Campaign.StartingMap != 1 {
		t.Errorf("starting map = %d, want 1", db.Campaign.StartingMap)
	}
	if db.Campaign.StartingPosition != types.NewPosition(1, 1) {
		t.Errorf("starting position = %+v", db.Campaign.StartingPosition)
	}

	m, ok := db.Maps.Get(1)
	if !ok {
		t.Fatal("map 1 not loaded")
	}
	if m.Width != 3 || m.Height != 3 {
		t.Errorf("map dimensions = %dx%d, want 3x3", m.Width, m.Height)
	}
	if m.Tiles[1][1].IsBlocked() {
		t.Error("center tile should be open ground")
	}
	if !m.Tiles[0][0].IsBlocked() {
		t.Error("corner wall should block")
	}

	// No config.lua means defaults.
	if db.Config.Graphics.ResolutionWidth != 1280 {
		t.Errorf("default resolution width = %d", db.Config.Graphics.ResolutionWidth)
	}
}

func TestLoad_FullCampaign(t *testing.T) {
	db, report, err := Load("testdata/full", Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("unexpected report errors: %v", report.Issues)
	}

	// Campaign manifest and tuning overlay.
	if db.Campaign.Name != "The Greenfield Vale" {
		t.Errorf("campaign name = %q", db.Campaign.Name)
	}
	if db.Campaign.StartingFacing != types.East {
		t.Errorf("starting facing = %v, want East", db.Campaign.StartingFacing)
	}
	if db.Campaign.StartingInnkeeper != "innkeeper" {
		t.Errorf("starting innkeeper = %q", db.Campaign.StartingInnkeeper)
	}
	if db.Campaign.Config.MaxPartySize != 4 {
		t.Errorf("max party size = %d, want 4", db.Campaign.Config.MaxPartySize)
	}
	if db.Campaign.Config.RandomEncounterRate != 0.5 {
		t.Errorf("random encounter rate = %v, want 0.5", db.Campaign.Config.RandomEncounterRate)
	}
	if db.Campaign.Config.GoldRate != 1.0 {
		t.Errorf("gold rate = %v, want default 1.0", db.Campaign.Config.GoldRate)
	}

	// Registry counts.
	for _, c := range []struct {
		kind string
		got  int
		want int
	}{
		{"items", db.Items.Count(), 3},
		{"spells", db.Spells.Count(), 2},
		{"monsters", db.Monsters.Count(), 2},
		{"classes", db.Classes.Count(), 2},
		{"races", db.Races.Count(), 2},
		{"npcs", db.Npcs.Count(), 2},
		{"creatures", db.Creatures.Count(), 1},
		{"quests", db.Quests.Count(), 1},
		{"dialogues", db.Dialogues.Count(), 1},
		{"characters", db.Characters.Count(), 2},
		{"maps", db.Maps.Count(), 2},
	} {
		if c.got != c.want {
			t.Errorf("%s count = %d, want %d", c.kind, c.got, c.want)
		}
	}

	// Item details.
	sword, _ := db.Items.Get(1)
	if sword.Name != "Short Sword" || sword.Category != content.ItemWeapon {
		t.Errorf("item 1 = %+v", sword)
	}
	if sword.Damage != types.NewDiceRoll(1, 6, 0) {
		t.Errorf("item 1 damage = %+v", sword.Damage)
	}
	if len(sword.AllowedClasses) != 1 || sword.AllowedClasses[0] != "knight" {
		t.Errorf("item 1 allowed classes = %v", sword.AllowedClasses)
	}
	scroll, _ := db.Items.Get(3)
	if scroll.SpellID != 257 {
		t.Errorf("scroll spell = %d, want 257", scroll.SpellID)
	}

	// Spell contexts.
	flame, _ := db.Spells.Get(257)
	if flame.Context != content.ContextCombatOnly || flame.School != content.SchoolSorcerer {
		t.Errorf("spell 257 = %+v", flame)
	}

	// Monster: stats, attacks, loot, visual reference.
	goblin, _ := db.Monsters.Get(1)
	if goblin.Stats.Might.Base != 8 {
		t.Errorf("goblin might = %d", goblin.Stats.Might.Base)
	}
	if goblin.HP.Current != 12 {
		t.Errorf("goblin hp = %d", goblin.HP.Current)
	}
	if len(goblin.Attacks) != 1 || goblin.Attacks[0].Name != "Club" {
		t.Errorf("goblin attacks = %+v", goblin.Attacks)
	}
	if goblin.Loot.Experience != 10 {
		t.Errorf("goblin loot experience = %d", goblin.Loot.Experience)
	}
	if len(goblin.Loot.Items) != 1 || goblin.Loot.Items[0].Chance != 25 {
		t.Errorf("goblin loot items = %+v", goblin.Loot.Items)
	}
	if goblin.VisualID == nil || *goblin.VisualID != 12 {
		t.Errorf("goblin visual = %v", goblin.VisualID)
	}
	if !goblin.CanFlee {
		t.Error("goblin should be able to flee")
	}
	rat, _ := db.Monsters.Get(2)
	if rat.Attacks[0].Condition != "Diseased" {
		t.Errorf("rat bite condition = %q", rat.Attacks[0].Condition)
	}
	if rat.AI != content.AIAggressive {
		t.Errorf("rat AI should default to aggressive, got %q", rat.AI)
	}

	// Class spell access.
	cleric, _ := db.Classes.Get("cleric")
	if !cleric.IsCaster() || cleric.SPStatDivisor != 2 {
		t.Errorf("cleric = %+v", cleric)
	}
	knight, _ := db.Classes.Get("knight")
	if knight.IsCaster() {
		t.Error("knight should not be a caster")
	}

	// Race bonuses.
	dwarf, _ := db.Races.Get("dwarf")
	if dwarf.StatBonuses["endurance"] != 2 || dwarf.StatBonuses["speed"] != -1 {
		t.Errorf("dwarf bonuses = %v", dwarf.StatBonuses)
	}

	// NPC references.
	mayor, _ := db.Npcs.Get("mayor")
	if mayor.DialogueID == nil || *mayor.DialogueID != 1 {
		t.Errorf("mayor dialogue = %v", mayor.DialogueID)
	}
	if len(mayor.QuestIDs) != 1 || mayor.QuestIDs[0] != 1 {
		t.Errorf("mayor quests = %v", mayor.QuestIDs)
	}
	olga, _ := db.Npcs.Get("innkeeper")
	if !olga.IsInnkeeper {
		t.Error("innkeeper flag not set")
	}

	// Creature meshes.
	mesh, _ := db.Creatures.Get(12)
	if len(mesh.Meshes) != 2 || len(mesh.MeshTransforms) != 2 {
		t.Errorf("creature 12 = %+v", mesh)
	}
	if mesh.MeshTransforms[1].Translate[1] != 1.2 {
		t.Errorf("transform translate = %v", mesh.MeshTransforms[1].Translate)
	}

	// Quest structure.
	quest, _ := db.Quests.Get(1)
	if len(quest.Objectives) != 1 {
		t.Fatalf("quest objectives = %+v", quest.Objectives)
	}
	obj := quest.Objectives[0]
	if obj.Kind != content.ObjectiveKillMonster || obj.MonsterID != 2 || obj.Count != 3 {
		t.Errorf("objective = %+v", obj)
	}
	if quest.Reward.Gold != 25 || len(quest.Reward.Items) != 1 {
		t.Errorf("reward = %+v", quest.Reward)
	}

	// Dialogue tree: nodes, choices, conditions, actions.
	tree, _ := db.Dialogues.Get(1)
	if tree.RootNode != 1 || !tree.Repeatable {
		t.Errorf("tree = %+v", tree)
	}
	if tree.AssociatedQuest == nil || *tree.AssociatedQuest != 1 {
		t.Errorf("associated quest = %v", tree.AssociatedQuest)
	}
	root, ok := tree.Node(1)
	if !ok {
		t.Fatal("root node missing")
	}
	if len(root.Actions) != 1 || root.Actions[0].Type != "set_flag" {
		t.Errorf("root actions = %+v", root.Actions)
	}
	if root.Actions[0].Params["flag"] != "met_mayor" {
		t.Errorf("set_flag params = %v", root.Actions[0].Params)
	}
	if len(root.Choices) != 2 {
		t.Fatalf("root choices = %+v", root.Choices)
	}
	work := root.Choices[0]
	if work.NextNode == nil || *work.NextNode != 2 {
		t.Errorf("work choice next = %v", work.NextNode)
	}
	if len(work.Conditions) != 1 || work.Conditions[0].Type != "flag_not" {
		t.Errorf("work conditions = %+v", work.Conditions)
	}
	bye := root.Choices[1]
	if bye.NextNode != nil {
		t.Error("goodbye choice should end the dialogue")
	}
	if len(bye.Actions) != 1 || bye.Actions[0].Type != "end_dialogue" {
		t.Errorf("goodbye actions = %+v", bye.Actions)
	}
	node2, _ := tree.Node(2)
	if !node2.IsTerminal {
		t.Error("node 2 should be terminal")
	}
	if node2.Actions[0].Type != "start_quest" || node2.Actions[0].Params["quest"] != 1 {
		t.Errorf("node 2 actions = %+v", node2.Actions)
	}

	// Characters.
	roderick, _ := db.Characters.Get("sir_roderick")
	if !roderick.StartsInParty || roderick.ClassID != "knight" {
		t.Errorf("roderick = %+v", roderick)
	}
	if roderick.Stats.Might.Base != 14 {
		t.Errorf("roderick might = %d", roderick.Stats.Might.Base)
	}
	if len(roderick.Inventory) != 2 {
		t.Errorf("roderick inventory = %v", roderick.Inventory)
	}

	// Config overlay on defaults.
	if db.Config.Graphics.ResolutionWidth != 1920 || db.Config.Graphics.MsaaSamples != 8 {
		t.Errorf("graphics config = %+v", db.Config.Graphics)
	}
	if db.Config.Graphics.ShadowQuality != content.ShadowHigh {
		t.Errorf("shadow quality = %q", db.Config.Graphics.ShadowQuality)
	}
	if db.Config.Audio.Music != 0.5 {
		t.Errorf("music volume = %v", db.Config.Audio.Music)
	}
	if !db.Config.Graphics.Vsync {
		t.Error("vsync default should survive a partial config")
	}
	if db.Config.Camera.Fov != 75.0 {
		t.Errorf("fov = %v", db.Config.Camera.Fov)
	}
}

func TestLoad_FullCampaignMaps(t *testing.T) {
	db, _, err := Load("testdata/full", Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	town, _ := db.Maps.Get(1)
	if !town.Outdoor {
		t.Error("town should be outdoor")
	}

	// Grid characters.
	if town.Tiles[1][1].Terrain != world.TerrainGrass {
		t.Errorf("tile (1,1) terrain = %v, want grass", town.Tiles[1][1].Terrain)
	}
	if !town.Tiles[2][4].IsBlocked() {
		t.Error("water tile should block")
	}

	// Tile overrides: torch wall with custom visual on the door cell.
	torch := town.Tiles[3][2]
	if torch.Wall != world.WallTorch {
		t.Errorf("tile (2,3) wall = %v, want torch", torch.Wall)
	}
	if torch.Visual.Height == nil || *torch.Visual.Height != 3.0 {
		t.Errorf("tile (2,3) visual height = %v", torch.Visual.Height)
	}
	if torch.Visual.ColorTint == nil || torch.Visual.ColorTint.G != 0.8 {
		t.Errorf("tile (2,3) tint = %v", torch.Visual.ColorTint)
	}
	grass := town.Tiles[1][1]
	if grass.Visual.GrassDensity == nil || *grass.Visual.GrassDensity != world.GrassHigh {
		t.Errorf("tile (1,1) grass density = %v", grass.Visual.GrassDensity)
	}

	// Placements.
	if len(town.Placements) != 2 {
		t.Fatalf("placements = %+v", town.Placements)
	}
	mayor, ok := town.PlacementAt(types.NewPosition(2, 1))
	if !ok || mayor.NpcID != "mayor" || mayor.Facing != types.South {
		t.Errorf("mayor placement = %+v", mayor)
	}
	olga, _ := town.PlacementAt(types.NewPosition(4, 3))
	if olga.DialogueOverride == nil || *olga.DialogueOverride != 1 {
		t.Errorf("innkeeper dialogue override = %v", olga.DialogueOverride)
	}

	// Events.
	sign, ok := town.Event(types.NewPosition(1, 2))
	if !ok || sign.Kind != world.EventSign || sign.Text != "Welcome to Greenfield." {
		t.Errorf("sign event = %+v", sign)
	}
	stairs, _ := town.Event(types.NewPosition(4, 1))
	if stairs.Kind != world.EventTeleport || stairs.TargetMap != 2 {
		t.Errorf("teleport event = %+v", stairs)
	}
	if stairs.Destination != types.NewPosition(1, 1) {
		t.Errorf("teleport destination = %+v", stairs.Destination)
	}
	barrel, _ := town.Event(types.NewPosition(3, 3))
	if barrel.Kind != world.EventFurniture || barrel.Furniture == nil {
		t.Fatalf("furniture event = %+v", barrel)
	}
	if barrel.Furniture.Type != world.FurnitureBarrel || !barrel.Furniture.Blocking {
		t.Errorf("furniture payload = %+v", barrel.Furniture)
	}

	// Encounter table.
	if town.Encounters.EncounterRate != 0.1 || len(town.Encounters.Groups) != 2 {
		t.Errorf("encounters = %+v", town.Encounters)
	}

	cellar, _ := db.Maps.Get(2)
	nest, _ := cellar.Event(types.NewPosition(2, 2))
	if nest.Kind != world.EventEncounter || len(nest.MonsterGroup) != 3 {
		t.Errorf("nest event = %+v", nest)
	}
}

func TestLoad_DuplicateIDs_Reported(t *testing.T) {
	db, report, err := Load("testdata/duplicate_ids", Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !report.HasErrors() {
		t.Fatal("expected duplicate ID errors in the report")
	}

	found := false
	for _, issue := range report.Issues {
		if issue.Fatal && strings.Contains(issue.Message, "duplicate item ID: 1") {
			found = true
		}
	}
	if !found {
		t.Errorf("duplicate not reported: %v", report.Issues)
	}

	// First definition wins; the rest of the file still loads.
	first, _ := db.Items.Get(1)
	if first.Name != "First Sword" {
		t.Errorf("item 1 = %q, want First Sword", first.Name)
	}
	if !db.Items.Has(2) {
		t.Error("item 2 should load despite the duplicate")
	}
}

func TestLoad_LegacyExperienceField(t *testing.T) {
	db, report, err := Load("testdata/legacy_monster", Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	found := false
	for _, issue := range db.SchemaIssues {
		if issue.Context == "monster 1" && issue.Field == "experience_value" {
			found = true
		}
	}
	if !found {
		t.Errorf("legacy field not recorded: %+v", db.SchemaIssues)
	}

	// The schema issue claims the key; it must not also surface as an
	// unknown-field warning.
	for _, issue := range report.Issues {
		if strings.Contains(issue.Message, `"experience_value"`) {
			t.Errorf("legacy field double-reported: %s", issue)
		}
	}

	// The value is still honored so old content plays.
	ghoul, _ := db.Monsters.Get(1)
	if ghoul.Loot.Experience != 15 {
		t.Errorf("ghoul experience = %d, want 15", ghoul.Loot.Experience)
	}
}

func TestLoad_BadLuaSyntax_Fails(t *testing.T) {
	_, _, err := Load("testdata/bad_lua", Options{})
	if err == nil {
		t.Fatal("expected error for bad Lua syntax")
	}
}

func TestLoad_NoCampaignDef_Fails(t *testing.T) {
	_, _, err := Load("testdata/no_campaign", Options{})
	if err == nil {
		t.Fatal("expected error for missing Campaign{} definition")
	}
	if !strings.Contains(err.Error(), "no Campaign{} definition") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestLoad_MissingDirectory_Fails(t *testing.T) {
	_, _, err := Load("testdata/does_not_exist", Options{})
	if err == nil {
		t.Fatal("expected error for missing campaign directory")
	}
}

func TestLoad_VersionMismatch(t *testing.T) {
	_, _, err := Load("testdata/wrong_version", Options{})
	if err == nil {
		t.Fatal("expected engine version error")
	}
	if !strings.Contains(err.Error(), "requires engine") {
		t.Errorf("error = %q", err.Error())
	}

	// Authoring tools can bypass the check.
	db, _, err := Load("testdata/wrong_version", Options{SkipVersionCheck: true})
	if err != nil {
		t.Fatalf("SkipVersionCheck load failed: %v", err)
	}
	if db.Campaign.EngineVersion != "0.1.0" {
		t.Errorf("engine version = %q", db.Campaign.EngineVersion)
	}
}

func TestLoad_InvalidConfig_Fails(t *testing.T) {
	_, _, err := Load("testdata/bad_config", Options{})
	if err == nil {
		t.Fatal("expected config validation error")
	}
	if !strings.Contains(err.Error(), "msaa_samples") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestLoad_BaseDirFallback(t *testing.T) {
	db, report, err := Load("testdata/overlay/campaign", Options{BaseDir: "testdata/overlay/base"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("unexpected report errors: %v", report.Issues)
	}

	// items.lua is absent from the campaign, present in the base dir.
	dagger, ok := db.Items.Get(1)
	if !ok || dagger.Name != "Base Dagger" {
		t.Errorf("item 1 = %+v, %v", dagger, ok)
	}

	// Both directories define map 1; the campaign's version wins.
	if db.Maps.Count() != 1 {
		t.Errorf("maps count = %d, want 1", db.Maps.Count())
	}
	m, _ := db.Maps.Get(1)
	if m.Name != "Campaign Meadow" {
		t.Errorf("map 1 = %q, want the campaign's version", m.Name)
	}
}

func TestSandbox_BlocksHostAccess(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	if err := L.DoString(`os.execute("echo pwned")`); err == nil {
		t.Error("os.execute should not be reachable")
	}
	if err := L.DoString(`io.open("/etc/passwd")`); err == nil {
		t.Error("io.open should not be reachable")
	}
	if err := L.DoString(`dofile("x.lua")`); err == nil {
		t.Error("dofile should be removed")
	}
	if err := L.DoString(`local t = {1, 2}; return table.concat(t)`); err != nil {
		t.Errorf("table library should stay available: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	db, _, err := Load("testdata/full", Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	dir := t.TempDir()
	if err := Save(db, dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	again, report, err := Load(dir, Options{})
	if err != nil {
		t.Fatalf("reloading saved campaign failed: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("reload report errors: %v", report.Issues)
	}

	if again.Campaign.ID != db.Campaign.ID || again.Campaign.Version != db.Campaign.Version {
		t.Errorf("campaign identity changed: %+v", again.Campaign)
	}
	if again.Campaign.Config.MaxPartySize != 4 {
		t.Errorf("campaign config lost: %+v", again.Campaign.Config)
	}

	for _, c := range []struct {
		kind string
		got  int
		want int
	}{
		{"items", again.Items.Count(), db.Items.Count()},
		{"spells", again.Spells.Count(), db.Spells.Count()},
		{"monsters", again.Monsters.Count(), db.Monsters.Count()},
		{"classes", again.Classes.Count(), db.Classes.Count()},
		{"races", again.Races.Count(), db.Races.Count()},
		{"npcs", again.Npcs.Count(), db.Npcs.Count()},
		{"creatures", again.Creatures.Count(), db.Creatures.Count()},
		{"quests", again.Quests.Count(), db.Quests.Count()},
		{"dialogues", again.Dialogues.Count(), db.Dialogues.Count()},
		{"characters", again.Characters.Count(), db.Characters.Count()},
		{"maps", again.Maps.Count(), db.Maps.Count()},
	} {
		if c.got != c.want {
			t.Errorf("%s count after round trip = %d, want %d", c.kind, c.got, c.want)
		}
	}

	goblin, _ := again.Monsters.Get(1)
	if goblin.Loot.Experience != 10 || len(goblin.Loot.Items) != 1 {
		t.Errorf("goblin loot after round trip = %+v", goblin.Loot)
	}
	if goblin.VisualID == nil || *goblin.VisualID != 12 {
		t.Errorf("goblin visual after round trip = %v", goblin.VisualID)
	}

	tree, _ := again.Dialogues.Get(1)
	root, _ := tree.Node(1)
	if len(root.Choices) != 2 {
		t.Errorf("dialogue choices after round trip = %+v", root.Choices)
	}
	if root.Actions[0].Type != "set_flag" || root.Actions[0].Params["flag"] != "met_mayor" {
		t.Errorf("dialogue actions after round trip = %+v", root.Actions)
	}

	town, _ := again.Maps.Get(1)
	if town.Name != "Greenfield Town" || !town.Outdoor {
		t.Errorf("town after round trip = %+v", town)
	}
	torch := town.Tiles[3][2]
	if torch.Wall != world.WallTorch {
		t.Errorf("torch wall after round trip = %v", torch.Wall)
	}
	if torch.Visual.Height == nil || *torch.Visual.Height != 3.0 {
		t.Errorf("torch visual after round trip = %+v", torch.Visual)
	}
	stairs, ok := town.Event(types.NewPosition(4, 1))
	if !ok || stairs.TargetMap != 2 || stairs.Destination != types.NewPosition(1, 1) {
		t.Errorf("teleport after round trip = %+v", stairs)
	}
	if town.Encounters.EncounterRate != 0.1 || len(town.Encounters.Groups) != 2 {
		t.Errorf("encounters after round trip = %+v", town.Encounters)
	}
	if len(town.Placements) != 2 {
		t.Errorf("placements after round trip = %+v", town.Placements)
	}
}
