package loader

import (
	"fmt"

	"github.com/antares-rpg/antares/types"
	"github.com/antares-rpg/antares/world"
	lua "github.com/yuin/gopher-lua"
)

var mapFields = map[string]bool{
	"name": true, "description": true, "width": true, "height": true,
	"outdoor": true, "tiles": true, "tile_overrides": true, "npcs": true,
	"events": true, "encounters": true,
}

// tileLegend maps grid characters to terrain and wall. Walls sit on
// open ground.
var tileLegend = map[byte]struct {
	terrain world.TerrainType
	wall    world.WallType
}{
	'.': {world.TerrainGround, world.WallNone},
	'g': {world.TerrainGrass, world.WallNone},
	'~': {world.TerrainWater, world.WallNone},
	'l': {world.TerrainLava, world.WallNone},
	's': {world.TerrainSwamp, world.WallNone},
	',': {world.TerrainStone, world.WallNone},
	':': {world.TerrainDirt, world.WallNone},
	'f': {world.TerrainForest, world.WallNone},
	'^': {world.TerrainMountain, world.WallNone},
	'#': {world.TerrainGround, world.WallNormal},
	'D': {world.TerrainGround, world.WallDoor},
	'T': {world.TerrainGround, world.WallTorch},
}

// compileMap builds a map from its declaration: a character grid for
// the bulk of the tiles, overrides for the exceptions, then NPC
// placements and events.
func compileMap(raw rawEntry, report *Report) (*world.Map, error) {
	tbl := raw.table
	context := fmt.Sprintf("map %d", raw.numID)
	warnUnknown(tbl, context, mapFields, report)

	width := getInt(tbl, "width")
	height := getInt(tbl, "height")
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("dimensions %dx%d are invalid", width, height)
	}

	m := world.NewMap(
		types.MapID(raw.numID),
		getString(tbl, "name"),
		getString(tbl, "description"),
		width, height,
	)
	m.Outdoor = getBool(tbl, "outdoor", false)

	if grid := getTable(tbl, "tiles"); grid != nil {
		if err := applyGrid(m, grid); err != nil {
			return nil, err
		}
	}
	eachArrayTable(getTable(tbl, "tile_overrides"), func(o *lua.LTable) {
		applyTileOverride(m, o, context, report)
	})
	eachArrayTable(getTable(tbl, "npcs"), func(n *lua.LTable) {
		p := world.NewNpcPlacement(
			getString(n, "npc"),
			types.NewPosition(getInt(n, "x"), getInt(n, "y")),
		)
		if s := getString(n, "facing"); s != "" {
			p.Facing = parseDirection(s)
		}
		if hasField(n, "dialogue") {
			id := types.DialogueID(getInt(n, "dialogue"))
			p.DialogueOverride = &id
		}
		m.AddPlacement(p)
	})
	eachArrayTable(getTable(tbl, "events"), func(e *lua.LTable) {
		pos := types.NewPosition(getInt(e, "x"), getInt(e, "y"))
		event, ok := compileEvent(e)
		if !ok {
			report.warnf("", context, "unknown event kind %q at (%d,%d) ignored",
				getString(e, "kind"), pos.X, pos.Y)
			return
		}
		m.AddEvent(pos, event)
	})
	if enc := getTable(tbl, "encounters"); enc != nil {
		m.Encounters.EncounterRate = getNumber(enc, "rate", 0)
		eachArrayTable(getTable(enc, "groups"), func(g *lua.LTable) {
			var group []types.MonsterID
			for _, id := range tableToInts(g) {
				group = append(group, types.MonsterID(id))
			}
			m.Encounters.Groups = append(m.Encounters.Groups, group)
		})
	}
	return m, nil
}

// applyGrid fills the tile grid from row strings. Row count and lengths
// must match the declared dimensions exactly.
func applyGrid(m *world.Map, grid *lua.LTable) error {
	if grid.MaxN() != m.Height {
		return fmt.Errorf("grid has %d rows, height is %d", grid.MaxN(), m.Height)
	}
	for y := 0; y < m.Height; y++ {
		row, ok := grid.RawGetInt(y + 1).(lua.LString)
		if !ok {
			return fmt.Errorf("grid row %d is not a string", y)
		}
		if len(row) != m.Width {
			return fmt.Errorf("grid row %d has %d columns, width is %d", y, len(row), m.Width)
		}
		for x := 0; x < m.Width; x++ {
			cell, ok := tileLegend[row[x]]
			if !ok {
				return fmt.Errorf("grid row %d has unknown tile character %q", y, string(row[x]))
			}
			m.Tiles[y][x] = world.NewTile(cell.terrain, cell.wall)
		}
	}
	return nil
}

var tileOverrideFields = map[string]bool{
	"x": true, "y": true, "terrain": true, "wall": true, "blocked": true,
	"is_special": true, "is_dark": true, "visual": true,
}

func applyTileOverride(m *world.Map, o *lua.LTable, context string, report *Report) {
	pos := types.NewPosition(getInt(o, "x"), getInt(o, "y"))
	tile := m.Tile(pos)
	if tile == nil {
		report.errorf("", context, "tile override at (%d,%d) is out of bounds", pos.X, pos.Y)
		return
	}
	warnUnknown(o, fmt.Sprintf("%s tile (%d,%d)", context, pos.X, pos.Y), tileOverrideFields, report)

	if hasField(o, "terrain") || hasField(o, "wall") {
		terrain := tile.Terrain
		wall := tile.Wall
		if s := getString(o, "terrain"); s != "" {
			terrain = world.ParseTerrainType(s)
		}
		if hasField(o, "wall") {
			wall = world.ParseWallType(getString(o, "wall"))
		}
		*tile = world.NewTile(terrain, wall)
	}
	if hasField(o, "blocked") {
		tile.Blocked = getBool(o, "blocked", tile.Blocked)
	}
	tile.IsSpecial = getBool(o, "is_special", tile.IsSpecial)
	tile.IsDark = getBool(o, "is_dark", tile.IsDark)
	if v := getTable(o, "visual"); v != nil {
		tile.Visual = compileTileVisual(v)
	}
}

func compileTileVisual(tbl *lua.LTable) world.TileVisual {
	var v world.TileVisual
	num := func(key string) *float64 {
		if !hasField(tbl, key) {
			return nil
		}
		f := getNumber(tbl, key, 0)
		return &f
	}
	v.Height = num("height")
	v.WidthX = num("width_x")
	v.WidthZ = num("width_z")
	v.Scale = num("scale")
	v.YOffset = num("y_offset")
	v.RotationY = num("rotation_y")
	v.FoliageDensity = num("foliage_density")
	v.SnowCoverage = num("snow_coverage")

	if tint := getTable(tbl, "color_tint"); tint != nil {
		c := world.ColorTint{
			R: getNumber(tint, "r", 1),
			G: getNumber(tint, "g", 1),
			B: getNumber(tint, "b", 1),
		}
		v.ColorTint = &c
	}
	if sprite := getTable(tbl, "sprite"); sprite != nil {
		s := world.SpriteRef{
			SheetPath: getString(sprite, "sheet"),
			Index:     getInt(sprite, "index"),
		}
		v.Sprite = &s
	}
	if s := getString(tbl, "grass_density"); s != "" {
		d := parseGrassDensity(s)
		v.GrassDensity = &d
	}
	if s := getString(tbl, "tree_type"); s != "" {
		t := parseTreeType(s)
		v.TreeType = &t
	}
	if s := getString(tbl, "rock_variant"); s != "" {
		r := parseRockVariant(s)
		v.RockVariant = &r
	}
	if s := getString(tbl, "water_flow"); s != "" {
		w := parseWaterFlow(s)
		v.WaterFlow = &w
	}
	return v
}

func parseGrassDensity(s string) world.GrassDensity {
	switch s {
	case "none":
		return world.GrassNone
	case "low":
		return world.GrassLow
	case "high":
		return world.GrassHigh
	case "very_high":
		return world.GrassVeryHigh
	default:
		return world.GrassMedium
	}
}

func parseTreeType(s string) world.TreeType {
	switch s {
	case "pine":
		return world.TreePine
	case "dead":
		return world.TreeDead
	case "palm":
		return world.TreePalm
	case "willow":
		return world.TreeWillow
	case "birch":
		return world.TreeBirch
	case "shrub":
		return world.TreeShrub
	default:
		return world.TreeOak
	}
}

func parseRockVariant(s string) world.RockVariant {
	switch s {
	case "jagged":
		return world.RockJagged
	case "layered":
		return world.RockLayered
	case "crystal":
		return world.RockCrystal
	default:
		return world.RockSmooth
	}
}

func parseWaterFlow(s string) world.WaterFlow {
	switch s {
	case "north":
		return world.FlowNorth
	case "south":
		return world.FlowSouth
	case "east":
		return world.FlowEast
	case "west":
		return world.FlowWest
	default:
		return world.FlowStill
	}
}

// compileEvent builds a map event from its declaration. The second
// result is false for unknown kinds, which the caller skips with a
// warning so newer campaigns degrade gracefully.
func compileEvent(tbl *lua.LTable) (world.MapEvent, bool) {
	kind, ok := world.ParseEventKind(getString(tbl, "kind"))
	if !ok {
		return world.MapEvent{}, false
	}
	e := world.MapEvent{
		Kind:        kind,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
	}
	switch kind {
	case world.EventEncounter:
		for _, id := range tableToInts(getTable(tbl, "monsters")) {
			e.MonsterGroup = append(e.MonsterGroup, types.MonsterID(id))
		}
	case world.EventTreasure:
		for _, id := range tableToInts(getTable(tbl, "loot")) {
			e.Loot = append(e.Loot, types.ItemID(id))
		}
		e.Gold = getInt(tbl, "gold")
	case world.EventTeleport:
		e.TargetMap = types.MapID(getInt(tbl, "target_map"))
		e.Destination = compilePosition(tbl, "destination")
	case world.EventTrap:
		e.Damage = getInt(tbl, "damage")
		e.Effect = getString(tbl, "effect")
	case world.EventSign:
		e.Text = getString(tbl, "text")
	case world.EventNpcDialogue, world.EventEnterInn:
		e.NpcID = getString(tbl, "npc")
	case world.EventRecruitableCharacter:
		e.CharacterID = getString(tbl, "character")
		if hasField(tbl, "dialogue") {
			id := types.DialogueID(getInt(tbl, "dialogue"))
			e.DialogueID = &id
		}
	case world.EventFurniture:
		f := &world.FurnitureEvent{
			Type:      world.ParseFurnitureType(getString(tbl, "furniture")),
			RotationY: getNumber(tbl, "rotation_y", 0),
			Scale:     getNumber(tbl, "scale", 1.0),
			Material:  getString(tbl, "material"),
			Lit:       getBool(tbl, "lit", false),
			Locked:    getBool(tbl, "locked", false),
			Blocking:  getBool(tbl, "blocking", false),
		}
		if tint := getTable(tbl, "color_tint"); tint != nil {
			c := world.ColorTint{
				R: getNumber(tint, "r", 1),
				G: getNumber(tint, "g", 1),
				B: getNumber(tint, "b", 1),
			}
			f.ColorTint = &c
		}
		e.Furniture = f
	}
	return e, true
}
