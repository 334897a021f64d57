package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/types"
	"github.com/antares-rpg/antares/world"
)

// Save writes the database back to dir as campaign files in the same
// dialect Load reads. Loading the written files reproduces the
// database; authoring sessions persist through this path.
func Save(db *content.Database, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating campaign directory: %w", err)
	}

	files := map[string]string{
		"campaign.lua":              encodeCampaign(&db.Campaign),
		db.Campaign.Data.Classes:    encodeClasses(db),
		db.Campaign.Data.Races:      encodeRaces(db),
		db.Campaign.Data.Items:      encodeItems(db),
		db.Campaign.Data.Spells:     encodeSpells(db),
		db.Campaign.Data.Creatures:  encodeCreatures(db),
		db.Campaign.Data.Monsters:   encodeMonsters(db),
		db.Campaign.Data.Npcs:       encodeNpcs(db),
		db.Campaign.Data.Quests:     encodeQuests(db),
		db.Campaign.Data.Dialogues:  encodeDialogues(db),
		db.Campaign.Data.Characters: encodeCharacters(db),
	}
	for name, body := range files {
		if name == "" || body == "" {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	if db.Maps.Count() > 0 {
		mapsDir := filepath.Join(dir, db.Campaign.Data.MapsDir)
		if err := os.MkdirAll(mapsDir, 0o755); err != nil {
			return fmt.Errorf("creating maps directory: %w", err)
		}
		var mapErr error
		db.Maps.All(func(id types.MapID, m *world.Map) bool {
			path := filepath.Join(mapsDir, fmt.Sprintf("map_%03d.lua", id))
			if err := os.WriteFile(path, []byte(encodeMap(m)), 0o644); err != nil {
				mapErr = fmt.Errorf("writing %s: %w", path, err)
				return false
			}
			return true
		})
		if mapErr != nil {
			return mapErr
		}
	}
	return nil
}

// lw is a line writer accumulating indented Lua source.
type lw struct {
	b      strings.Builder
	indent int
}

func (w *lw) line(format string, args ...any) {
	w.b.WriteString(strings.Repeat("  ", w.indent))
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *lw) open(format string, args ...any) {
	w.line(format, args...)
	w.indent++
}

func (w *lw) close(suffix string) {
	w.indent--
	w.line("}%s", suffix)
}

func (w *lw) String() string {
	return w.b.String()
}

// q quotes a string as a Lua literal.
func q(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\t", `\t`,
	)
	return `"` + r.Replace(s) + `"`
}

func encodeDice(d types.DiceRoll) string {
	return fmt.Sprintf("dice(%d, %d, %d)", d.Count, d.Sides, d.Bonus)
}

func encodeStrings(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = q(s)
	}
	return "{ " + strings.Join(quoted, ", ") + " }"
}

func encodeIntMap(w *lw, key string, m map[string]int) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s = %d", k, m[k])
	}
	w.line("%s = { %s },", key, strings.Join(parts, ", "))
}

func encodeCampaign(c *content.Campaign) string {
	w := &lw{}
	w.open("Campaign {")
	w.line("id = %s,", q(c.ID))
	w.line("name = %s,", q(c.Name))
	w.line("version = %s,", q(c.Version))
	if c.Author != "" {
		w.line("author = %s,", q(c.Author))
	}
	if c.Description != "" {
		w.line("description = %s,", q(c.Description))
	}
	if c.EngineVersion != "" {
		w.line("engine_version = %s,", q(c.EngineVersion))
	}
	if len(c.RequiredFeatures) > 0 {
		w.line("required_features = %s,", encodeStrings(c.RequiredFeatures))
	}
	w.line("starting_map = %d,", c.StartingMap)
	w.line("starting_position = { x = %d, y = %d },", c.StartingPosition.X, c.StartingPosition.Y)
	w.line("starting_facing = %s,", q(strings.ToLower(c.StartingFacing.String())))
	if c.StartingInnkeeper != "" {
		w.line("starting_innkeeper = %s,", q(c.StartingInnkeeper))
	}
	w.open("config = {")
	w.line("max_party_size = %d,", c.Config.MaxPartySize)
	w.line("difficulty_multiplier = %s,", luaFloat(c.Config.DifficultyMult))
	w.line("experience_rate = %s,", luaFloat(c.Config.ExperienceRate))
	w.line("gold_rate = %s,", luaFloat(c.Config.GoldRate))
	w.line("random_encounter_rate = %s,", luaFloat(c.Config.RandomEncounterRate))
	w.line("rest_healing_rate = %s,", luaFloat(c.Config.RestHealingRate))
	w.close(",")
	w.close("")
	return w.String()
}

// luaFloat formats a float without trailing noise, keeping at least one
// decimal so the value reads as a float.
func luaFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func encodeItems(db *content.Database) string {
	w := &lw{}
	db.Items.All(func(id types.ItemID, it content.Item) bool {
		w.open("Item(%d) {", id)
		w.line("name = %s,", q(it.Name))
		if it.Description != "" {
			w.line("description = %s,", q(it.Description))
		}
		w.line("category = %s,", q(string(it.Category)))
		w.line("cost = %d,", it.Cost)
		if it.Damage != (types.DiceRoll{}) {
			w.line("damage = %s,", encodeDice(it.Damage))
		}
		if it.ACBonus != 0 {
			w.line("ac_bonus = %d,", it.ACBonus)
		}
		if it.SpellID != 0 {
			w.line("spell = %d,", it.SpellID)
		}
		if it.Cursed {
			w.line("cursed = true,")
		}
		if len(it.AllowedClasses) > 0 {
			w.line("allowed_classes = %s,", encodeStrings(it.AllowedClasses))
		}
		w.close("")
		w.line("")
		return true
	})
	return w.String()
}

func encodeSpells(db *content.Database) string {
	w := &lw{}
	db.Spells.All(func(id types.SpellID, sp content.Spell) bool {
		w.open("Spell(%d) {", id)
		w.line("name = %s,", q(sp.Name))
		if sp.Description != "" {
			w.line("description = %s,", q(sp.Description))
		}
		w.line("school = %s,", q(string(sp.School)))
		w.line("level = %d,", sp.Level)
		w.line("sp_cost = %d,", sp.SPCost)
		if sp.GemCost != 0 {
			w.line("gem_cost = %d,", sp.GemCost)
		}
		w.line("context = %s,", q(string(sp.Context)))
		w.line("target = %s,", q(string(sp.Target)))
		if sp.Damage != (types.DiceRoll{}) {
			w.line("damage = %s,", encodeDice(sp.Damage))
		}
		if sp.Condition != "" {
			w.line("condition = %s,", q(sp.Condition))
		}
		w.close("")
		w.line("")
		return true
	})
	return w.String()
}

func encodeStats(w *lw, s types.Stats) {
	w.line("stats = { might = %d, intellect = %d, personality = %d, endurance = %d, speed = %d, accuracy = %d, luck = %d },",
		s.Might.Base, s.Intellect.Base, s.Personality.Base, s.Endurance.Base,
		s.Speed.Base, s.Accuracy.Base, s.Luck.Base)
}

func encodeMonsters(db *content.Database) string {
	w := &lw{}
	db.Monsters.All(func(id types.MonsterID, mo content.Monster) bool {
		w.open("Monster(%d) {", id)
		w.line("name = %s,", q(mo.Name))
		if mo.Description != "" {
			w.line("description = %s,", q(mo.Description))
		}
		encodeStats(w, mo.Stats)
		w.line("hp = %d,", mo.HP.Base)
		w.line("ac = %d,", mo.AC.Base)
		w.line("speed = %d,", mo.Speed)
		if len(mo.Attacks) > 0 {
			w.open("attacks = {")
			for _, a := range mo.Attacks {
				if a.Condition != "" {
					w.line("{ name = %s, damage = %s, condition = %s },", q(a.Name), encodeDice(a.Damage), q(a.Condition))
				} else {
					w.line("{ name = %s, damage = %s },", q(a.Name), encodeDice(a.Damage))
				}
			}
			w.close(",")
		}
		w.open("loot = {")
		w.line("experience = %d,", mo.Loot.Experience)
		if mo.Loot.Gold != (types.DiceRoll{}) {
			w.line("gold = %s,", encodeDice(mo.Loot.Gold))
		}
		if mo.Loot.Gems != (types.DiceRoll{}) {
			w.line("gems = %s,", encodeDice(mo.Loot.Gems))
		}
		if len(mo.Loot.Items) > 0 {
			w.open("items = {")
			for _, e := range mo.Loot.Items {
				w.line("{ item = %d, chance = %d },", e.ItemID, e.Chance)
			}
			w.close(",")
		}
		w.close(",")
		encodeIntMap(w, "resistances", mo.Resistances)
		w.line("ai = %s,", q(string(mo.AI)))
		if mo.VisualID != nil {
			w.line("visual = %d,", *mo.VisualID)
		}
		if mo.CanFlee {
			w.line("can_flee = true,")
		}
		w.close("")
		w.line("")
		return true
	})
	return w.String()
}

func encodeClasses(db *content.Database) string {
	w := &lw{}
	db.Classes.All(func(id types.ClassID, c content.Class) bool {
		w.open("Class %s {", q(id))
		w.line("name = %s,", q(c.Name))
		if c.Description != "" {
			w.line("description = %s,", q(c.Description))
		}
		w.line("hit_dice = %s,", encodeDice(c.HitDice))
		if c.SpellSchool != "" {
			w.line("spell_school = %s,", q(string(c.SpellSchool)))
			w.line("spell_level_offset = %d,", c.SpellLevelOffset)
			w.line("sp_stat_divisor = %d,", c.SPStatDivisor)
		}
		w.close("")
		w.line("")
		return true
	})
	return w.String()
}

func encodeRaces(db *content.Database) string {
	w := &lw{}
	db.Races.All(func(id types.RaceID, r content.Race) bool {
		w.open("Race %s {", q(id))
		w.line("name = %s,", q(r.Name))
		if r.Description != "" {
			w.line("description = %s,", q(r.Description))
		}
		encodeIntMap(w, "stat_bonuses", r.StatBonuses)
		encodeIntMap(w, "resistances", r.Resistances)
		w.close("")
		w.line("")
		return true
	})
	return w.String()
}

func encodeNpcs(db *content.Database) string {
	w := &lw{}
	db.Npcs.All(func(id types.NpcID, n content.NPC) bool {
		w.open("Npc %s {", q(id))
		w.line("name = %s,", q(n.Name))
		if n.Description != "" {
			w.line("description = %s,", q(n.Description))
		}
		if n.PortraitID != 0 {
			w.line("portrait = %d,", n.PortraitID)
		}
		if n.DialogueID != nil {
			w.line("dialogue = %d,", *n.DialogueID)
		}
		if n.CreatureID != nil {
			w.line("creature = %d,", *n.CreatureID)
		}
		if n.Sprite != "" {
			w.line("sprite = %s,", q(n.Sprite))
		}
		if len(n.QuestIDs) > 0 {
			parts := make([]string, len(n.QuestIDs))
			for i, qid := range n.QuestIDs {
				parts[i] = strconv.Itoa(int(qid))
			}
			w.line("quests = { %s },", strings.Join(parts, ", "))
		}
		if n.Faction != "" {
			w.line("faction = %s,", q(n.Faction))
		}
		if n.IsMerchant {
			w.line("merchant = true,")
		}
		if n.IsInnkeeper {
			w.line("innkeeper = true,")
		}
		w.close("")
		w.line("")
		return true
	})
	return w.String()
}

func encodeCreatures(db *content.Database) string {
	w := &lw{}
	db.Creatures.All(func(id types.CreatureID, c content.Creature) bool {
		w.open("Creature(%d) {", id)
		w.line("name = %s,", q(c.Name))
		if len(c.Meshes) > 0 {
			w.line("meshes = %s,", encodeStrings(c.Meshes))
		}
		if len(c.MeshTransforms) > 0 {
			w.open("transforms = {")
			for _, t := range c.MeshTransforms {
				w.line("{ translate = { %s, %s, %s }, rotate_y = %s, scale = %s },",
					luaFloat(t.Translate[0]), luaFloat(t.Translate[1]), luaFloat(t.Translate[2]),
					luaFloat(t.RotateY), luaFloat(t.Scale))
			}
			w.close(",")
		}
		w.line("scale = %s,", luaFloat(c.Scale))
		if c.ColorTint != nil {
			w.line("color_tint = { %s, %s, %s },",
				luaFloat(c.ColorTint[0]), luaFloat(c.ColorTint[1]), luaFloat(c.ColorTint[2]))
		}
		w.close("")
		w.line("")
		return true
	})
	return w.String()
}

func encodeQuests(db *content.Database) string {
	w := &lw{}
	db.Quests.All(func(id types.QuestID, qu content.Quest) bool {
		w.open("Quest(%d) {", id)
		w.line("name = %s,", q(qu.Name))
		if qu.Description != "" {
			w.line("description = %s,", q(qu.Description))
		}
		if len(qu.Objectives) > 0 {
			w.open("objectives = {")
			for _, o := range qu.Objectives {
				w.open("{")
				w.line("kind = %s,", q(string(o.Kind)))
				if o.Description != "" {
					w.line("description = %s,", q(o.Description))
				}
				switch o.Kind {
				case content.ObjectiveKillMonster:
					w.line("monster = %d,", o.MonsterID)
				case content.ObjectiveCollectItem:
					w.line("item = %d,", o.ItemID)
				case content.ObjectiveVisitMap:
					w.line("map = %d,", o.MapID)
				case content.ObjectiveTalkToNpc:
					w.line("npc = %s,", q(o.NpcID))
				case content.ObjectiveFinishDialogue:
					w.line("dialogue = %d,", o.DialogueID)
				}
				w.line("count = %d,", o.Count)
				w.close(",")
			}
			w.close(",")
		}
		w.open("reward = {")
		w.line("experience = %d,", qu.Reward.Experience)
		w.line("gold = %d,", qu.Reward.Gold)
		if len(qu.Reward.Items) > 0 {
			parts := make([]string, len(qu.Reward.Items))
			for i, it := range qu.Reward.Items {
				parts[i] = strconv.Itoa(int(it))
			}
			w.line("items = { %s },", strings.Join(parts, ", "))
		}
		w.close(",")
		if len(qu.Prerequisites) > 0 {
			parts := make([]string, len(qu.Prerequisites))
			for i, p := range qu.Prerequisites {
				parts[i] = strconv.Itoa(int(p))
			}
			w.line("prerequisites = { %s },", strings.Join(parts, ", "))
		}
		w.close("")
		w.line("")
		return true
	})
	return w.String()
}

func encodeVariant(typ string, params map[string]any) string {
	parts := []string{fmt.Sprintf("type = %s", q(typ))}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := params[k].(type) {
		case string:
			parts = append(parts, fmt.Sprintf("%s = %s", k, q(v)))
		case bool:
			parts = append(parts, fmt.Sprintf("%s = %t", k, v))
		case int:
			parts = append(parts, fmt.Sprintf("%s = %d", k, v))
		case float64:
			parts = append(parts, fmt.Sprintf("%s = %s", k, luaFloat(v)))
		}
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func encodeConditions(w *lw, key string, conds []content.DialogueCondition) {
	if len(conds) == 0 {
		return
	}
	w.open("%s = {", key)
	for _, c := range conds {
		w.line("%s,", encodeVariant(c.Type, c.Params))
	}
	w.close(",")
}

func encodeActions(w *lw, key string, actions []content.DialogueAction) {
	if len(actions) == 0 {
		return
	}
	w.open("%s = {", key)
	for _, a := range actions {
		w.line("%s,", encodeVariant(a.Type, a.Params))
	}
	w.close(",")
}

func encodeDialogues(db *content.Database) string {
	w := &lw{}
	db.Dialogues.All(func(id types.DialogueID, d content.DialogueTree) bool {
		w.open("Dialogue(%d) {", id)
		w.line("name = %s,", q(d.Name))
		if d.SpeakerName != "" {
			w.line("speaker = %s,", q(d.SpeakerName))
		}
		w.line("root = %d,", d.RootNode)
		if d.Repeatable {
			w.line("repeatable = true,")
		}
		if d.AssociatedQuest != nil {
			w.line("quest = %d,", *d.AssociatedQuest)
		}
		w.open("nodes = {")
		nodeIDs := make([]types.NodeID, 0, len(d.Nodes))
		for nid := range d.Nodes {
			nodeIDs = append(nodeIDs, nid)
		}
		sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })
		for _, nid := range nodeIDs {
			n := d.Nodes[nid]
			w.open("{")
			w.line("id = %d,", n.ID)
			w.line("text = %s,", q(n.Text))
			if n.SpeakerOverride != "" {
				w.line("speaker = %s,", q(n.SpeakerOverride))
			}
			if n.IsTerminal {
				w.line("terminal = true,")
			}
			encodeConditions(w, "conditions", n.Conditions)
			encodeActions(w, "actions", n.Actions)
			if len(n.Choices) > 0 {
				w.open("choices = {")
				for _, c := range n.Choices {
					w.open("{")
					w.line("text = %s,", q(c.Text))
					if c.NextNode != nil {
						w.line("next_node = %d,", *c.NextNode)
					}
					encodeConditions(w, "conditions", c.Conditions)
					encodeActions(w, "actions", c.Actions)
					w.close(",")
				}
				w.close(",")
			}
			w.close(",")
		}
		w.close(",")
		w.close("")
		w.line("")
		return true
	})
	return w.String()
}

func encodeCharacters(db *content.Database) string {
	w := &lw{}
	db.Characters.All(func(id types.CharacterDefID, ch content.CharacterDef) bool {
		w.open("Character %s {", q(id))
		w.line("name = %s,", q(ch.Name))
		w.line("race = %s,", q(ch.RaceID))
		w.line("class = %s,", q(ch.ClassID))
		if ch.Sex != "" {
			w.line("sex = %s,", q(string(ch.Sex)))
		}
		if ch.Alignment != "" {
			w.line("alignment = %s,", q(string(ch.Alignment)))
		}
		w.line("level = %d,", ch.Level)
		encodeStats(w, ch.Stats)
		w.line("hp = %d,", ch.HP.Base)
		w.line("sp = %d,", ch.SP.Base)
		w.line("ac = %d,", ch.AC.Base)
		if len(ch.Inventory) > 0 {
			parts := make([]string, len(ch.Inventory))
			for i, it := range ch.Inventory {
				parts[i] = strconv.Itoa(int(it))
			}
			w.line("inventory = { %s },", strings.Join(parts, ", "))
		}
		if ch.StartsInParty {
			w.line("starts_in_party = true,")
		}
		w.close("")
		w.line("")
		return true
	})
	return w.String()
}

// legendChar picks the grid character for a tile. Tiles whose state
// diverges from the legend's defaults get a tile_override as well.
func legendChar(t world.Tile) byte {
	switch t.Wall {
	case world.WallNormal:
		return '#'
	case world.WallDoor:
		return 'D'
	case world.WallTorch:
		return 'T'
	}
	switch t.Terrain {
	case world.TerrainGrass:
		return 'g'
	case world.TerrainWater:
		return '~'
	case world.TerrainLava:
		return 'l'
	case world.TerrainSwamp:
		return 's'
	case world.TerrainStone:
		return ','
	case world.TerrainDirt:
		return ':'
	case world.TerrainForest:
		return 'f'
	case world.TerrainMountain:
		return '^'
	default:
		return '.'
	}
}

// needsOverride reports whether the tile's state cannot be expressed by
// its grid character alone.
func needsOverride(t world.Tile) bool {
	def := world.NewTile(t.Terrain, t.Wall)
	// Walls on non-ground terrain need an override; the legend puts
	// walls on ground.
	wallOnTerrain := t.Wall != world.WallNone && t.Terrain != world.TerrainGround
	return t.Blocked != def.Blocked || t.IsSpecial || t.IsDark ||
		!t.Visual.IsZero() || wallOnTerrain
}

func encodeMap(m *world.Map) string {
	w := &lw{}
	w.open("Map(%d) {", m.ID)
	w.line("name = %s,", q(m.Name))
	if m.Description != "" {
		w.line("description = %s,", q(m.Description))
	}
	w.line("width = %d,", m.Width)
	w.line("height = %d,", m.Height)
	if m.Outdoor {
		w.line("outdoor = true,")
	}

	w.open("tiles = {")
	for y := 0; y < m.Height; y++ {
		row := make([]byte, m.Width)
		for x := 0; x < m.Width; x++ {
			row[x] = legendChar(m.Tiles[y][x])
		}
		w.line("%s,", q(string(row)))
	}
	w.close(",")

	var overrides []types.Position
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if needsOverride(m.Tiles[y][x]) {
				overrides = append(overrides, types.NewPosition(x, y))
			}
		}
	}
	if len(overrides) > 0 {
		w.open("tile_overrides = {")
		for _, pos := range overrides {
			encodeTileOverride(w, pos, m.Tiles[pos.Y][pos.X])
		}
		w.close(",")
	}

	if len(m.Placements) > 0 {
		w.open("npcs = {")
		for _, p := range m.Placements {
			s := fmt.Sprintf("{ npc = %s, x = %d, y = %d, facing = %s",
				q(p.NpcID), p.Position.X, p.Position.Y, q(strings.ToLower(p.Facing.String())))
			if p.DialogueOverride != nil {
				s += fmt.Sprintf(", dialogue = %d", *p.DialogueOverride)
			}
			w.line("%s },", s)
		}
		w.close(",")
	}

	if len(m.Events) > 0 {
		positions := make([]types.Position, 0, len(m.Events))
		for pos := range m.Events {
			positions = append(positions, pos)
		}
		sort.Slice(positions, func(i, j int) bool {
			if positions[i].Y != positions[j].Y {
				return positions[i].Y < positions[j].Y
			}
			return positions[i].X < positions[j].X
		})
		w.open("events = {")
		for _, pos := range positions {
			encodeEvent(w, pos, m.Events[pos])
		}
		w.close(",")
	}

	if m.Encounters.EncounterRate > 0 || len(m.Encounters.Groups) > 0 {
		w.open("encounters = {")
		w.line("rate = %s,", luaFloat(m.Encounters.EncounterRate))
		if len(m.Encounters.Groups) > 0 {
			w.open("groups = {")
			for _, g := range m.Encounters.Groups {
				parts := make([]string, len(g))
				for i, id := range g {
					parts[i] = strconv.Itoa(int(id))
				}
				w.line("{ %s },", strings.Join(parts, ", "))
			}
			w.close(",")
		}
		w.close(",")
	}

	w.close("")
	return w.String()
}

func encodeTileOverride(w *lw, pos types.Position, t world.Tile) {
	w.open("{")
	w.line("x = %d, y = %d,", pos.X, pos.Y)
	w.line("terrain = %s,", q(t.Terrain.String()))
	if t.Wall != world.WallNone {
		w.line("wall = %s,", q(t.Wall.String()))
	}
	def := world.NewTile(t.Terrain, t.Wall)
	if t.Blocked != def.Blocked {
		w.line("blocked = %t,", t.Blocked)
	}
	if t.IsSpecial {
		w.line("is_special = true,")
	}
	if t.IsDark {
		w.line("is_dark = true,")
	}
	if !t.Visual.IsZero() {
		encodeTileVisual(w, t.Visual)
	}
	w.close(",")
}

func encodeTileVisual(w *lw, v world.TileVisual) {
	w.open("visual = {")
	num := func(key string, p *float64) {
		if p != nil {
			w.line("%s = %s,", key, luaFloat(*p))
		}
	}
	num("height", v.Height)
	num("width_x", v.WidthX)
	num("width_z", v.WidthZ)
	num("scale", v.Scale)
	num("y_offset", v.YOffset)
	num("rotation_y", v.RotationY)
	num("foliage_density", v.FoliageDensity)
	num("snow_coverage", v.SnowCoverage)
	if v.ColorTint != nil {
		w.line("color_tint = { r = %s, g = %s, b = %s },",
			luaFloat(v.ColorTint.R), luaFloat(v.ColorTint.G), luaFloat(v.ColorTint.B))
	}
	if v.Sprite != nil {
		w.line("sprite = { sheet = %s, index = %d },", q(v.Sprite.SheetPath), v.Sprite.Index)
	}
	if v.GrassDensity != nil {
		w.line("grass_density = %s,", q(grassDensityName(*v.GrassDensity)))
	}
	if v.TreeType != nil {
		w.line("tree_type = %s,", q(treeTypeName(*v.TreeType)))
	}
	if v.RockVariant != nil {
		w.line("rock_variant = %s,", q(rockVariantName(*v.RockVariant)))
	}
	if v.WaterFlow != nil {
		w.line("water_flow = %s,", q(waterFlowName(*v.WaterFlow)))
	}
	w.close(",")
}

func grassDensityName(d world.GrassDensity) string {
	switch d {
	case world.GrassNone:
		return "none"
	case world.GrassLow:
		return "low"
	case world.GrassHigh:
		return "high"
	case world.GrassVeryHigh:
		return "very_high"
	default:
		return "medium"
	}
}

func treeTypeName(t world.TreeType) string {
	switch t {
	case world.TreePine:
		return "pine"
	case world.TreeDead:
		return "dead"
	case world.TreePalm:
		return "palm"
	case world.TreeWillow:
		return "willow"
	case world.TreeBirch:
		return "birch"
	case world.TreeShrub:
		return "shrub"
	default:
		return "oak"
	}
}

func rockVariantName(r world.RockVariant) string {
	switch r {
	case world.RockJagged:
		return "jagged"
	case world.RockLayered:
		return "layered"
	case world.RockCrystal:
		return "crystal"
	default:
		return "smooth"
	}
}

func waterFlowName(f world.WaterFlow) string {
	switch f {
	case world.FlowNorth:
		return "north"
	case world.FlowSouth:
		return "south"
	case world.FlowEast:
		return "east"
	case world.FlowWest:
		return "west"
	default:
		return "still"
	}
}

func encodeEvent(w *lw, pos types.Position, e world.MapEvent) {
	w.open("{")
	w.line("x = %d, y = %d,", pos.X, pos.Y)
	w.line("kind = %s,", q(e.Kind.String()))
	w.line("name = %s,", q(e.Name))
	w.line("description = %s,", q(e.Description))
	switch e.Kind {
	case world.EventEncounter:
		parts := make([]string, len(e.MonsterGroup))
		for i, id := range e.MonsterGroup {
			parts[i] = strconv.Itoa(int(id))
		}
		w.line("monsters = { %s },", strings.Join(parts, ", "))
	case world.EventTreasure:
		if len(e.Loot) > 0 {
			parts := make([]string, len(e.Loot))
			for i, id := range e.Loot {
				parts[i] = strconv.Itoa(int(id))
			}
			w.line("loot = { %s },", strings.Join(parts, ", "))
		}
		if e.Gold != 0 {
			w.line("gold = %d,", e.Gold)
		}
	case world.EventTeleport:
		w.line("target_map = %d,", e.TargetMap)
		w.line("destination = { x = %d, y = %d },", e.Destination.X, e.Destination.Y)
	case world.EventTrap:
		w.line("damage = %d,", e.Damage)
		if e.Effect != "" {
			w.line("effect = %s,", q(e.Effect))
		}
	case world.EventSign:
		w.line("text = %s,", q(e.Text))
	case world.EventNpcDialogue, world.EventEnterInn:
		w.line("npc = %s,", q(e.NpcID))
	case world.EventRecruitableCharacter:
		w.line("character = %s,", q(e.CharacterID))
		if e.DialogueID != nil {
			w.line("dialogue = %d,", *e.DialogueID)
		}
	case world.EventFurniture:
		if e.Furniture != nil {
			f := e.Furniture
			w.line("furniture = %s,", q(f.Type.String()))
			if f.RotationY != 0 {
				w.line("rotation_y = %s,", luaFloat(f.RotationY))
			}
			if f.Scale != 0 && f.Scale != 1.0 {
				w.line("scale = %s,", luaFloat(f.Scale))
			}
			if f.Material != "" {
				w.line("material = %s,", q(f.Material))
			}
			if f.Lit {
				w.line("lit = true,")
			}
			if f.Locked {
				w.line("locked = true,")
			}
			if f.Blocking {
				w.line("blocking = true,")
			}
			if f.ColorTint != nil {
				w.line("color_tint = { r = %s, g = %s, b = %s },",
					luaFloat(f.ColorTint.R), luaFloat(f.ColorTint.G), luaFloat(f.ColorTint.B))
			}
		}
	}
	w.close(",")
}
