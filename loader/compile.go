package loader

import (
	"fmt"
	"strings"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/types"
	lua "github.com/yuin/gopher-lua"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or the default if
// missing.
func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key, 0))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// hasField reports whether the key is present at all.
func hasField(tbl *lua.LTable, key string) bool {
	return tbl.RawGetString(key) != lua.LNil
}

// toGoValue converts a Lua value to a Go value recursively. Sequential
// integer-keyed tables become slices, everything else becomes maps.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// tableToIntMap converts a Lua table to a map[string]int.
func tableToIntMap(tbl *lua.LTable) map[string]int {
	if tbl == nil {
		return nil
	}
	m := map[string]int{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if n, ok := v.(lua.LNumber); ok {
				m[string(ks)] = int(n)
			}
		}
	})
	return m
}

// tableToStrings converts an array-style Lua table to a string slice.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// tableToInts converts an array-style Lua table to an int slice.
func tableToInts(tbl *lua.LTable) []int {
	if tbl == nil {
		return nil
	}
	var out []int
	for i := 1; i <= tbl.MaxN(); i++ {
		if n, ok := tbl.RawGetInt(i).(lua.LNumber); ok {
			out = append(out, int(n))
		}
	}
	return out
}

// eachArrayTable calls fn for each table element of an array-style table.
func eachArrayTable(tbl *lua.LTable, fn func(*lua.LTable)) {
	if tbl == nil {
		return
	}
	for i := 1; i <= tbl.MaxN(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			fn(t)
		}
	}
}

// warnUnknown records a warning for every top-level key not in allowed.
func warnUnknown(tbl *lua.LTable, context string, allowed map[string]bool, report *Report) {
	tbl.ForEach(func(k, _ lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if !allowed[string(ks)] {
				report.warnf("", context, "unknown field %q ignored", string(ks))
			}
		}
	})
}

// compileDice reads a {count, sides, bonus} table produced by dice().
func compileDice(tbl *lua.LTable, key string) types.DiceRoll {
	d := getTable(tbl, key)
	if d == nil {
		return types.DiceRoll{}
	}
	return types.DiceRoll{
		Count: getInt(d, "count"),
		Sides: getInt(d, "sides"),
		Bonus: getInt(d, "bonus"),
	}
}

// compilePosition reads an {x, y} table.
func compilePosition(tbl *lua.LTable, key string) types.Position {
	p := getTable(tbl, key)
	if p == nil {
		return types.Position{}
	}
	return types.NewPosition(getInt(p, "x"), getInt(p, "y"))
}

// parseDirection maps a lowercase direction name, defaulting to north.
func parseDirection(s string) types.Direction {
	switch strings.ToLower(s) {
	case "east":
		return types.East
	case "south":
		return types.South
	case "west":
		return types.West
	default:
		return types.North
	}
}

// compileStats reads a named-stat table into a Stats block. Missing
// stats default to zero.
func compileStats(tbl *lua.LTable, key string) types.Stats {
	s := getTable(tbl, key)
	if s == nil {
		return types.Stats{}
	}
	pair := func(name string) types.AttributePair {
		return types.NewAttributePair(getInt(s, name))
	}
	return types.Stats{
		Might:       pair("might"),
		Intellect:   pair("intellect"),
		Personality: pair("personality"),
		Endurance:   pair("endurance"),
		Speed:       pair("speed"),
		Accuracy:    pair("accuracy"),
		Luck:        pair("luck"),
	}
}

var campaignFields = map[string]bool{
	"id": true, "name": true, "version": true, "author": true,
	"description": true, "engine_version": true, "required_features": true,
	"starting_map": true, "starting_position": true, "starting_facing": true,
	"starting_innkeeper": true, "config": true, "data": true,
}

func compileCampaign(tbl *lua.LTable, report *Report) (content.Campaign, error) {
	c := content.Campaign{
		ID:                getString(tbl, "id"),
		Name:              getString(tbl, "name"),
		Version:           getString(tbl, "version"),
		Author:            getString(tbl, "author"),
		Description:       getString(tbl, "description"),
		EngineVersion:     getString(tbl, "engine_version"),
		RequiredFeatures:  tableToStrings(getTable(tbl, "required_features")),
		StartingMap:       types.MapID(getInt(tbl, "starting_map")),
		StartingPosition:  compilePosition(tbl, "starting_position"),
		StartingFacing:    parseDirection(getString(tbl, "starting_facing")),
		StartingInnkeeper: getString(tbl, "starting_innkeeper"),
		Config:            content.DefaultCampaignConfig(),
		Data:              content.DefaultDataPaths(),
	}
	if c.ID == "" {
		return c, fmt.Errorf("campaign id is required")
	}
	if c.Name == "" {
		return c, fmt.Errorf("campaign name is required")
	}
	warnUnknown(tbl, "campaign "+c.ID, campaignFields, report)

	if cfg := getTable(tbl, "config"); cfg != nil {
		c.Config.MaxPartySize = int(getNumber(cfg, "max_party_size", float64(c.Config.MaxPartySize)))
		c.Config.DifficultyMult = getNumber(cfg, "difficulty_multiplier", c.Config.DifficultyMult)
		c.Config.ExperienceRate = getNumber(cfg, "experience_rate", c.Config.ExperienceRate)
		c.Config.GoldRate = getNumber(cfg, "gold_rate", c.Config.GoldRate)
		c.Config.RandomEncounterRate = getNumber(cfg, "random_encounter_rate", c.Config.RandomEncounterRate)
		c.Config.RestHealingRate = getNumber(cfg, "rest_healing_rate", c.Config.RestHealingRate)
	}
	if data := getTable(tbl, "data"); data != nil {
		set := func(dst *string, key string) {
			if s := getString(data, key); s != "" {
				*dst = s
			}
		}
		set(&c.Data.Items, "items")
		set(&c.Data.Spells, "spells")
		set(&c.Data.Monsters, "monsters")
		set(&c.Data.Classes, "classes")
		set(&c.Data.Races, "races")
		set(&c.Data.Npcs, "npcs")
		set(&c.Data.Creatures, "creatures")
		set(&c.Data.Quests, "quests")
		set(&c.Data.Dialogues, "dialogues")
		set(&c.Data.Characters, "characters")
		set(&c.Data.MapsDir, "maps_dir")
	}
	return c, nil
}

func compileGameConfig(tbl *lua.LTable) (content.GameConfig, error) {
	cfg := content.DefaultGameConfig()

	if g := getTable(tbl, "graphics"); g != nil {
		if res := getTable(g, "resolution"); res != nil {
			dims := tableToInts(res)
			if len(dims) != 2 {
				return cfg, fmt.Errorf("graphics resolution must be {width, height}")
			}
			cfg.Graphics.ResolutionWidth = dims[0]
			cfg.Graphics.ResolutionHeight = dims[1]
		}
		cfg.Graphics.Fullscreen = getBool(g, "fullscreen", cfg.Graphics.Fullscreen)
		cfg.Graphics.Vsync = getBool(g, "vsync", cfg.Graphics.Vsync)
		cfg.Graphics.MsaaSamples = int(getNumber(g, "msaa_samples", float64(cfg.Graphics.MsaaSamples)))
		if s := getString(g, "shadow_quality"); s != "" {
			cfg.Graphics.ShadowQuality = content.ShadowQuality(s)
		}
	}
	if a := getTable(tbl, "audio"); a != nil {
		cfg.Audio.Master = getNumber(a, "master", cfg.Audio.Master)
		cfg.Audio.Music = getNumber(a, "music", cfg.Audio.Music)
		cfg.Audio.Sfx = getNumber(a, "sfx", cfg.Audio.Sfx)
		cfg.Audio.Ambient = getNumber(a, "ambient", cfg.Audio.Ambient)
		cfg.Audio.EnableAudio = getBool(a, "enabled", cfg.Audio.EnableAudio)
	}
	if c := getTable(tbl, "controls"); c != nil {
		if b := getTable(c, "bindings"); b != nil {
			b.ForEach(func(k, v lua.LValue) {
				action, ok := k.(lua.LString)
				if !ok {
					return
				}
				if keys, ok := v.(*lua.LTable); ok {
					cfg.Controls.Bindings[string(action)] = tableToStrings(keys)
				}
			})
		}
		cfg.Controls.MovementCooldown = getNumber(c, "movement_cooldown", cfg.Controls.MovementCooldown)
	}
	if cam := getTable(tbl, "camera"); cam != nil {
		if s := getString(cam, "mode"); s != "" {
			cfg.Camera.Mode = s
		}
		cfg.Camera.EyeHeight = getNumber(cam, "eye_height", cfg.Camera.EyeHeight)
		cfg.Camera.Fov = getNumber(cam, "fov", cfg.Camera.Fov)
		cfg.Camera.NearClip = getNumber(cam, "near_clip", cfg.Camera.NearClip)
		cfg.Camera.FarClip = getNumber(cam, "far_clip", cfg.Camera.FarClip)
		cfg.Camera.SmoothRotation = getBool(cam, "smooth_rotation", cfg.Camera.SmoothRotation)
		cfg.Camera.RotationSpeed = getNumber(cam, "rotation_speed", cfg.Camera.RotationSpeed)
		cfg.Camera.LightHeight = getNumber(cam, "light_height", cfg.Camera.LightHeight)
		cfg.Camera.LightIntensity = getNumber(cam, "light_intensity", cfg.Camera.LightIntensity)
		cfg.Camera.LightRange = getNumber(cam, "light_range", cfg.Camera.LightRange)
		cfg.Camera.ShadowsEnabled = getBool(cam, "shadows", cfg.Camera.ShadowsEnabled)
	}
	return cfg, nil
}

// compileAll converts collected tables into registries. Duplicate IDs
// and structural invariant violations aggregate into the report instead
// of aborting.
func compileAll(coll *collector, db *content.Database, report *Report) error {
	insert := func(context string, err error) {
		if err != nil {
			report.errorf("", context, "%s", err.Error())
		}
	}

	for _, raw := range coll.classes {
		c := compileClass(raw, report)
		insert("class "+raw.strID, db.Classes.Insert(c.ID, c))
	}
	for _, raw := range coll.races {
		r := compileRace(raw, report)
		insert("race "+raw.strID, db.Races.Insert(r.ID, r))
	}
	for _, raw := range coll.items {
		it := compileItem(raw, report)
		insert(fmt.Sprintf("item %d", raw.numID), db.Items.Insert(it.ID, it))
	}
	for _, raw := range coll.spells {
		sp := compileSpell(raw, report)
		insert(fmt.Sprintf("spell %d", raw.numID), db.Spells.Insert(sp.ID, sp))
	}
	for _, raw := range coll.creatures {
		cr := compileCreature(raw, report)
		insert(fmt.Sprintf("creature %d", raw.numID), db.Creatures.Insert(cr.ID, cr))
	}
	for _, raw := range coll.monsters {
		mo := compileMonster(raw, db, report)
		insert(fmt.Sprintf("monster %d", raw.numID), db.Monsters.Insert(mo.ID, mo))
	}
	for _, raw := range coll.npcs {
		n := compileNpc(raw, report)
		insert("npc "+raw.strID, db.Npcs.Insert(n.ID, n))
	}
	for _, raw := range coll.quests {
		q := compileQuest(raw, report)
		insert(fmt.Sprintf("quest %d", raw.numID), db.Quests.Insert(q.ID, q))
	}
	for _, raw := range coll.dialogues {
		d := compileDialogue(raw, report)
		context := fmt.Sprintf("dialogue %d", raw.numID)
		insert(context, db.Dialogues.Insert(d.ID, d))
		for _, p := range d.Validate() {
			report.errorf("", context, "%s", p)
		}
	}
	for _, raw := range coll.characters {
		ch := compileCharacter(raw, report)
		insert("character "+raw.strID, db.Characters.Insert(ch.ID, ch))
	}
	baseMaps := map[types.MapID]bool{}
	for i, raw := range coll.maps {
		m, err := compileMap(raw, report)
		context := fmt.Sprintf("map %d", raw.numID)
		if err != nil {
			return fmt.Errorf("compiling map %d: %w", raw.numID, err)
		}
		// Campaign maps shadow base-directory maps by ID; two campaign
		// maps with one ID are a duplicate.
		switch {
		case i < coll.baseMapCount:
			baseMaps[m.ID] = true
			insert(context, db.Maps.Insert(m.ID, m))
		case baseMaps[m.ID]:
			baseMaps[m.ID] = false
			db.Maps.Put(m.ID, m)
		default:
			insert(context, db.Maps.Insert(m.ID, m))
		}
		for _, p := range m.CheckInvariants() {
			report.errorf("", context, "%s", p)
		}
	}
	return nil
}

var itemFields = map[string]bool{
	"name": true, "description": true, "category": true, "cost": true,
	"damage": true, "ac_bonus": true, "spell": true, "cursed": true,
	"allowed_classes": true,
}

func compileItem(raw rawEntry, report *Report) content.Item {
	tbl := raw.table
	warnUnknown(tbl, fmt.Sprintf("item %d", raw.numID), itemFields, report)
	return content.Item{
		ID:             types.ItemID(raw.numID),
		Name:           getString(tbl, "name"),
		Description:    getString(tbl, "description"),
		Category:       content.ItemCategory(getString(tbl, "category")),
		Cost:           getInt(tbl, "cost"),
		Damage:         compileDice(tbl, "damage"),
		ACBonus:        getInt(tbl, "ac_bonus"),
		SpellID:        types.SpellID(getInt(tbl, "spell")),
		Cursed:         getBool(tbl, "cursed", false),
		AllowedClasses: tableToStrings(getTable(tbl, "allowed_classes")),
	}
}

var spellFields = map[string]bool{
	"name": true, "description": true, "school": true, "level": true,
	"sp_cost": true, "gem_cost": true, "context": true, "target": true,
	"damage": true, "condition": true,
}

func compileSpell(raw rawEntry, report *Report) content.Spell {
	tbl := raw.table
	warnUnknown(tbl, fmt.Sprintf("spell %d", raw.numID), spellFields, report)
	sp := content.Spell{
		ID:          types.SpellID(raw.numID),
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		School:      content.SpellSchool(getString(tbl, "school")),
		Level:       getInt(tbl, "level"),
		SPCost:      getInt(tbl, "sp_cost"),
		GemCost:     getInt(tbl, "gem_cost"),
		Context:     content.SpellContext(getString(tbl, "context")),
		Target:      content.SpellTarget(getString(tbl, "target")),
		Damage:      compileDice(tbl, "damage"),
		Condition:   getString(tbl, "condition"),
	}
	if sp.Context == "" {
		sp.Context = content.ContextAnytime
	}
	return sp
}

var monsterFields = map[string]bool{
	"name": true, "description": true, "stats": true, "hp": true,
	"ac": true, "speed": true, "attacks": true, "loot": true,
	"resistances": true, "ai": true, "visual": true, "can_flee": true,
	// Legacy key; the schema check below claims it, so it is not an
	// unknown field on top of that.
	"experience_value": true,
}

func compileMonster(raw rawEntry, db *content.Database, report *Report) content.Monster {
	tbl := raw.table
	context := fmt.Sprintf("monster %d", raw.numID)
	warnUnknown(tbl, context, monsterFields, report)

	// The old top-level experience field was folded into the loot table.
	// Keep loading it but record the issue for the validator.
	if hasField(tbl, "experience_value") {
		db.SchemaIssues = append(db.SchemaIssues, content.SchemaIssue{
			Context: context,
			Field:   "experience_value",
			Message: "experience belongs in the loot table, not at the monster top level",
		})
	}

	mo := content.Monster{
		ID:          types.MonsterID(raw.numID),
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Stats:       compileStats(tbl, "stats"),
		HP:          types.NewAttributePair(getInt(tbl, "hp")),
		AC:          types.NewAttributePair(getInt(tbl, "ac")),
		Speed:       getInt(tbl, "speed"),
		Resistances: tableToIntMap(getTable(tbl, "resistances")),
		AI:          content.MonsterAI(getString(tbl, "ai")),
		CanFlee:     getBool(tbl, "can_flee", false),
	}
	if mo.AI == "" {
		mo.AI = content.AIAggressive
	}
	if hasField(tbl, "visual") {
		id := types.CreatureID(getInt(tbl, "visual"))
		mo.VisualID = &id
	}
	eachArrayTable(getTable(tbl, "attacks"), func(a *lua.LTable) {
		mo.Attacks = append(mo.Attacks, content.Attack{
			Name:      getString(a, "name"),
			Damage:    compileDice(a, "damage"),
			Condition: getString(a, "condition"),
		})
	})
	if loot := getTable(tbl, "loot"); loot != nil {
		mo.Loot = content.LootTable{
			Experience: getInt(loot, "experience"),
			Gold:       compileDice(loot, "gold"),
			Gems:       compileDice(loot, "gems"),
		}
		eachArrayTable(getTable(loot, "items"), func(e *lua.LTable) {
			mo.Loot.Items = append(mo.Loot.Items, content.LootEntry{
				ItemID: types.ItemID(getInt(e, "item")),
				Chance: getInt(e, "chance"),
			})
		})
	} else if xp := getInt(tbl, "experience_value"); xp != 0 {
		mo.Loot.Experience = xp
	}
	return mo
}

var classFields = map[string]bool{
	"name": true, "description": true, "hit_dice": true,
	"spell_school": true, "spell_level_offset": true, "sp_stat_divisor": true,
}

func compileClass(raw rawEntry, report *Report) content.Class {
	tbl := raw.table
	warnUnknown(tbl, "class "+raw.strID, classFields, report)
	return content.Class{
		ID:               raw.strID,
		Name:             getString(tbl, "name"),
		Description:      getString(tbl, "description"),
		HitDice:          compileDice(tbl, "hit_dice"),
		SpellSchool:      content.SpellSchool(getString(tbl, "spell_school")),
		SpellLevelOffset: getInt(tbl, "spell_level_offset"),
		SPStatDivisor:    getInt(tbl, "sp_stat_divisor"),
	}
}

var raceFields = map[string]bool{
	"name": true, "description": true, "stat_bonuses": true, "resistances": true,
}

func compileRace(raw rawEntry, report *Report) content.Race {
	tbl := raw.table
	warnUnknown(tbl, "race "+raw.strID, raceFields, report)
	return content.Race{
		ID:          raw.strID,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		StatBonuses: tableToIntMap(getTable(tbl, "stat_bonuses")),
		Resistances: tableToIntMap(getTable(tbl, "resistances")),
	}
}

var npcFields = map[string]bool{
	"name": true, "description": true, "portrait": true, "dialogue": true,
	"creature": true, "sprite": true, "quests": true, "faction": true,
	"merchant": true, "innkeeper": true,
}

func compileNpc(raw rawEntry, report *Report) content.NPC {
	tbl := raw.table
	warnUnknown(tbl, "npc "+raw.strID, npcFields, report)
	n := content.NPC{
		ID:          raw.strID,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		PortraitID:  getInt(tbl, "portrait"),
		Sprite:      getString(tbl, "sprite"),
		Faction:     getString(tbl, "faction"),
		IsMerchant:  getBool(tbl, "merchant", false),
		IsInnkeeper: getBool(tbl, "innkeeper", false),
	}
	if hasField(tbl, "dialogue") {
		id := types.DialogueID(getInt(tbl, "dialogue"))
		n.DialogueID = &id
	}
	if hasField(tbl, "creature") {
		id := types.CreatureID(getInt(tbl, "creature"))
		n.CreatureID = &id
	}
	for _, q := range tableToInts(getTable(tbl, "quests")) {
		n.QuestIDs = append(n.QuestIDs, types.QuestID(q))
	}
	return n
}

var creatureFields = map[string]bool{
	"name": true, "meshes": true, "transforms": true, "scale": true,
	"color_tint": true,
}

func compileCreature(raw rawEntry, report *Report) content.Creature {
	tbl := raw.table
	warnUnknown(tbl, fmt.Sprintf("creature %d", raw.numID), creatureFields, report)
	cr := content.Creature{
		ID:     types.CreatureID(raw.numID),
		Name:   getString(tbl, "name"),
		Meshes: tableToStrings(getTable(tbl, "meshes")),
		Scale:  getNumber(tbl, "scale", 1.0),
	}
	eachArrayTable(getTable(tbl, "transforms"), func(t *lua.LTable) {
		mt := content.MeshTransform{
			RotateY: getNumber(t, "rotate_y", 0),
			Scale:   getNumber(t, "scale", 1.0),
		}
		if tr := getTable(t, "translate"); tr != nil {
			for i := 0; i < 3 && i < tr.MaxN(); i++ {
				if n, ok := tr.RawGetInt(i + 1).(lua.LNumber); ok {
					mt.Translate[i] = float64(n)
				}
			}
		}
		cr.MeshTransforms = append(cr.MeshTransforms, mt)
	})
	if tint := getTable(tbl, "color_tint"); tint != nil {
		var c [3]float64
		for i := 0; i < 3 && i < tint.MaxN(); i++ {
			if n, ok := tint.RawGetInt(i + 1).(lua.LNumber); ok {
				c[i] = float64(n)
			}
		}
		cr.ColorTint = &c
	}
	return cr
}

var questFields = map[string]bool{
	"name": true, "description": true, "objectives": true, "reward": true,
	"prerequisites": true,
}

func compileQuest(raw rawEntry, report *Report) content.Quest {
	tbl := raw.table
	warnUnknown(tbl, fmt.Sprintf("quest %d", raw.numID), questFields, report)
	q := content.Quest{
		ID:          types.QuestID(raw.numID),
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
	}
	eachArrayTable(getTable(tbl, "objectives"), func(o *lua.LTable) {
		obj := content.QuestObjective{
			Kind:        content.ObjectiveKind(getString(o, "kind")),
			Description: getString(o, "description"),
			MonsterID:   types.MonsterID(getInt(o, "monster")),
			ItemID:      types.ItemID(getInt(o, "item")),
			MapID:       types.MapID(getInt(o, "map")),
			NpcID:       getString(o, "npc"),
			DialogueID:  types.DialogueID(getInt(o, "dialogue")),
			Count:       getInt(o, "count"),
		}
		if obj.Count == 0 {
			obj.Count = 1
		}
		q.Objectives = append(q.Objectives, obj)
	})
	if r := getTable(tbl, "reward"); r != nil {
		q.Reward = content.QuestReward{
			Experience: getInt(r, "experience"),
			Gold:       getInt(r, "gold"),
		}
		for _, it := range tableToInts(getTable(r, "items")) {
			q.Reward.Items = append(q.Reward.Items, types.ItemID(it))
		}
	}
	for _, p := range tableToInts(getTable(tbl, "prerequisites")) {
		q.Prerequisites = append(q.Prerequisites, types.QuestID(p))
	}
	return q
}

var dialogueFields = map[string]bool{
	"name": true, "speaker": true, "root": true, "repeatable": true,
	"quest": true, "nodes": true,
}

func compileDialogue(raw rawEntry, report *Report) content.DialogueTree {
	tbl := raw.table
	warnUnknown(tbl, fmt.Sprintf("dialogue %d", raw.numID), dialogueFields, report)
	d := content.DialogueTree{
		ID:          types.DialogueID(raw.numID),
		Name:        getString(tbl, "name"),
		SpeakerName: getString(tbl, "speaker"),
		RootNode:    types.NodeID(getInt(tbl, "root")),
		Repeatable:  getBool(tbl, "repeatable", false),
		Nodes:       map[types.NodeID]content.DialogueNode{},
	}
	if hasField(tbl, "quest") {
		q := types.QuestID(getInt(tbl, "quest"))
		d.AssociatedQuest = &q
	}
	eachArrayTable(getTable(tbl, "nodes"), func(n *lua.LTable) {
		node := content.DialogueNode{
			ID:              types.NodeID(getInt(n, "id")),
			Text:            getString(n, "text"),
			SpeakerOverride: getString(n, "speaker"),
			IsTerminal:      getBool(n, "terminal", false),
			Conditions:      compileConditions(getTable(n, "conditions")),
			Actions:         compileActions(getTable(n, "actions")),
		}
		eachArrayTable(getTable(n, "choices"), func(c *lua.LTable) {
			choice := content.DialogueChoice{
				Text:       getString(c, "text"),
				Conditions: compileConditions(getTable(c, "conditions")),
				Actions:    compileActions(getTable(c, "actions")),
			}
			if hasField(c, "next_node") {
				next := types.NodeID(getInt(c, "next_node"))
				choice.NextNode = &next
			}
			node.Choices = append(node.Choices, choice)
		})
		d.AddNode(node)
	})
	return d
}

func compileConditions(tbl *lua.LTable) []content.DialogueCondition {
	var out []content.DialogueCondition
	eachArrayTable(tbl, func(c *lua.LTable) {
		out = append(out, content.DialogueCondition{
			Type:   getString(c, "type"),
			Params: variantParams(c),
		})
	})
	return out
}

func compileActions(tbl *lua.LTable) []content.DialogueAction {
	var out []content.DialogueAction
	eachArrayTable(tbl, func(a *lua.LTable) {
		out = append(out, content.DialogueAction{
			Type:   getString(a, "type"),
			Params: variantParams(a),
		})
	})
	return out
}

// variantParams extracts every field except the type tag.
func variantParams(tbl *lua.LTable) map[string]any {
	params := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && string(ks) != "type" {
			params[string(ks)] = toGoValue(v)
		}
	})
	return params
}

var characterFields = map[string]bool{
	"name": true, "race": true, "class": true, "sex": true,
	"alignment": true, "level": true, "stats": true, "hp": true,
	"sp": true, "ac": true, "inventory": true, "starts_in_party": true,
}

func compileCharacter(raw rawEntry, report *Report) content.CharacterDef {
	tbl := raw.table
	warnUnknown(tbl, "character "+raw.strID, characterFields, report)
	ch := content.CharacterDef{
		ID:            raw.strID,
		Name:          getString(tbl, "name"),
		RaceID:        getString(tbl, "race"),
		ClassID:       getString(tbl, "class"),
		Sex:           content.Sex(getString(tbl, "sex")),
		Alignment:     content.Alignment(getString(tbl, "alignment")),
		Level:         getInt(tbl, "level"),
		Stats:         compileStats(tbl, "stats"),
		HP:            types.NewAttributePair(getInt(tbl, "hp")),
		SP:            types.NewAttributePair(getInt(tbl, "sp")),
		AC:            types.NewAttributePair(getInt(tbl, "ac")),
		StartsInParty: getBool(tbl, "starts_in_party", false),
	}
	if ch.Level == 0 {
		ch.Level = 1
	}
	for _, it := range tableToInts(getTable(tbl, "inventory")) {
		ch.Inventory = append(ch.Inventory, types.ItemID(it))
	}
	return ch
}
