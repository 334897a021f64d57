// Package world implements the tile-based map model: terrain and wall
// grids, per-tile visual metadata with terrain-aware defaults, NPC
// placements, and positional events.
package world

import "math"

// WallType is the wall occupying a tile edge.
type WallType uint8

const (
	WallNone WallType = iota
	WallNormal
	WallDoor
	WallTorch
)

// String returns the lowercase wall name used by the campaign files.
func (w WallType) String() string {
	switch w {
	case WallNormal:
		return "normal"
	case WallDoor:
		return "door"
	case WallTorch:
		return "torch"
	default:
		return "none"
	}
}

// ParseWallType maps a campaign-file wall name to its WallType.
// Unknown names parse as WallNone.
func ParseWallType(s string) WallType {
	switch s {
	case "normal":
		return WallNormal
	case "door":
		return WallDoor
	case "torch":
		return WallTorch
	default:
		return WallNone
	}
}

// TerrainType is the ground type of a tile.
type TerrainType uint8

const (
	TerrainGround TerrainType = iota
	TerrainGrass
	TerrainWater
	TerrainLava
	TerrainSwamp
	TerrainStone
	TerrainDirt
	TerrainForest
	TerrainMountain
)

// String returns the lowercase terrain name used by the campaign files.
func (t TerrainType) String() string {
	switch t {
	case TerrainGrass:
		return "grass"
	case TerrainWater:
		return "water"
	case TerrainLava:
		return "lava"
	case TerrainSwamp:
		return "swamp"
	case TerrainStone:
		return "stone"
	case TerrainDirt:
		return "dirt"
	case TerrainForest:
		return "forest"
	case TerrainMountain:
		return "mountain"
	default:
		return "ground"
	}
}

// ParseTerrainType maps a campaign-file terrain name to its TerrainType.
// Unknown names parse as TerrainGround.
func ParseTerrainType(s string) TerrainType {
	switch s {
	case "grass":
		return TerrainGrass
	case "water":
		return TerrainWater
	case "lava":
		return TerrainLava
	case "swamp":
		return TerrainSwamp
	case "stone":
		return TerrainStone
	case "dirt":
		return TerrainDirt
	case "forest":
		return TerrainForest
	case "mountain":
		return TerrainMountain
	default:
		return TerrainGround
	}
}

// GrassDensity controls blade count on grass tiles.
type GrassDensity uint8

const (
	GrassNone GrassDensity = iota
	GrassLow
	GrassMedium
	GrassHigh
	GrassVeryHigh
)

// TreeType is the tree variant on forest tiles.
type TreeType uint8

const (
	TreeOak TreeType = iota
	TreePine
	TreeDead
	TreePalm
	TreeWillow
	TreeBirch
	TreeShrub
)

// RockVariant is the rock formation on mountain tiles.
type RockVariant uint8

const (
	RockSmooth RockVariant = iota
	RockJagged
	RockLayered
	RockCrystal
)

// WaterFlow is the flow direction on water tiles.
type WaterFlow uint8

const (
	FlowStill WaterFlow = iota
	FlowNorth
	FlowSouth
	FlowEast
	FlowWest
)

// ColorTint multiplies the base material color per component.
type ColorTint struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Clamped returns the tint with each component clamped to [0, 1].
func (c ColorTint) Clamped() ColorTint {
	return ColorTint{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SpriteRef points at a sprite in a sheet; replaces the default mesh
// with a billboard when set.
type SpriteRef struct {
	SheetPath string `json:"sheet_path"`
	Index     int    `json:"index"`
}

// TileVisual is the optional per-tile rendering metadata. Every field is
// optional; nil means the terrain-and-wall default applies via the
// Effective* accessors.
type TileVisual struct {
	Height         *float64      `json:"height,omitempty"`
	WidthX         *float64      `json:"width_x,omitempty"`
	WidthZ         *float64      `json:"width_z,omitempty"`
	Scale          *float64      `json:"scale,omitempty"`
	YOffset        *float64      `json:"y_offset,omitempty"`
	RotationY      *float64      `json:"rotation_y,omitempty"`
	ColorTint      *ColorTint    `json:"color_tint,omitempty"`
	Sprite         *SpriteRef    `json:"sprite,omitempty"`
	GrassDensity   *GrassDensity `json:"grass_density,omitempty"`
	TreeType       *TreeType     `json:"tree_type,omitempty"`
	RockVariant    *RockVariant  `json:"rock_variant,omitempty"`
	WaterFlow      *WaterFlow    `json:"water_flow_direction,omitempty"`
	FoliageDensity *float64      `json:"foliage_density,omitempty"`
	SnowCoverage   *float64      `json:"snow_coverage,omitempty"`
}

// IsZero reports whether no field is set, meaning terrain defaults apply
// everywhere. Zero visuals are omitted when serializing maps.
func (v TileVisual) IsZero() bool {
	return v.Height == nil && v.WidthX == nil && v.WidthZ == nil &&
		v.Scale == nil && v.YOffset == nil && v.RotationY == nil &&
		v.ColorTint == nil && v.Sprite == nil && v.GrassDensity == nil &&
		v.TreeType == nil && v.RockVariant == nil && v.WaterFlow == nil &&
		v.FoliageDensity == nil && v.SnowCoverage == nil
}

// EffectiveHeight returns the mesh height, falling back to the
// terrain-and-wall default: walls, doors and torches are 2.5 units,
// mountains 3.0, forests 2.2, flat terrain 0.
func (v TileVisual) EffectiveHeight(terrain TerrainType, wall WallType) float64 {
	if v.Height != nil {
		return *v.Height
	}
	switch wall {
	case WallNormal, WallDoor, WallTorch:
		return 2.5
	}
	switch terrain {
	case TerrainMountain:
		return 3.0
	case TerrainForest:
		return 2.2
	default:
		return 0
	}
}

// EffectiveWidthX returns the X-axis width, defaulting to a full tile.
func (v TileVisual) EffectiveWidthX() float64 {
	if v.WidthX != nil {
		return *v.WidthX
	}
	return 1.0
}

// EffectiveWidthZ returns the Z-axis depth, defaulting to a full tile.
func (v TileVisual) EffectiveWidthZ() float64 {
	if v.WidthZ != nil {
		return *v.WidthZ
	}
	return 1.0
}

// EffectiveScale returns the uniform scale multiplier, defaulting to 1.
func (v TileVisual) EffectiveScale() float64 {
	if v.Scale != nil {
		return *v.Scale
	}
	return 1.0
}

// EffectiveYOffset returns the vertical offset, defaulting to 0.
func (v TileVisual) EffectiveYOffset() float64 {
	if v.YOffset != nil {
		return *v.YOffset
	}
	return 0
}

// EffectiveRotationY returns the Y-axis rotation in degrees.
func (v TileVisual) EffectiveRotationY() float64 {
	if v.RotationY != nil {
		return *v.RotationY
	}
	return 0
}

// RotationYRadians converts the effective rotation to radians.
func (v TileVisual) RotationYRadians() float64 {
	return v.EffectiveRotationY() * math.Pi / 180.0
}

// EffectiveGrassDensity defaults to GrassMedium.
func (v TileVisual) EffectiveGrassDensity() GrassDensity {
	if v.GrassDensity != nil {
		return *v.GrassDensity
	}
	return GrassMedium
}

// EffectiveTreeType defaults to TreeOak.
func (v TileVisual) EffectiveTreeType() TreeType {
	if v.TreeType != nil {
		return *v.TreeType
	}
	return TreeOak
}

// EffectiveRockVariant defaults to RockSmooth.
func (v TileVisual) EffectiveRockVariant() RockVariant {
	if v.RockVariant != nil {
		return *v.RockVariant
	}
	return RockSmooth
}

// EffectiveWaterFlow defaults to still water.
func (v TileVisual) EffectiveWaterFlow() WaterFlow {
	if v.WaterFlow != nil {
		return *v.WaterFlow
	}
	return FlowStill
}

// EffectiveFoliageDensity defaults to 1.0.
func (v TileVisual) EffectiveFoliageDensity() float64 {
	if v.FoliageDensity != nil {
		return *v.FoliageDensity
	}
	return 1.0
}

// EffectiveSnowCoverage defaults to 0.
func (v TileVisual) EffectiveSnowCoverage() float64 {
	if v.SnowCoverage != nil {
		return *v.SnowCoverage
	}
	return 0
}

// EffectiveColorTint returns the tint clamped to [0,1], defaulting to
// white (no tint).
func (v TileVisual) EffectiveColorTint() ColorTint {
	if v.ColorTint != nil {
		return v.ColorTint.Clamped()
	}
	return ColorTint{R: 1, G: 1, B: 1}
}

// MeshDimensions returns (width_x, height, width_z) with scale applied.
func (v TileVisual) MeshDimensions(terrain TerrainType, wall WallType) (float64, float64, float64) {
	scale := v.EffectiveScale()
	return v.EffectiveWidthX() * scale,
		v.EffectiveHeight(terrain, wall) * scale,
		v.EffectiveWidthZ() * scale
}

// MeshYPosition returns the Y coordinate of the mesh center:
// height*scale/2 + y_offset.
func (v TileVisual) MeshYPosition(terrain TerrainType, wall WallType) float64 {
	return v.EffectiveHeight(terrain, wall)*v.EffectiveScale()/2.0 + v.EffectiveYOffset()
}

// Tile is one cell of a map grid.
type Tile struct {
	Terrain   TerrainType `json:"terrain"`
	Wall      WallType    `json:"wall"`
	Blocked   bool        `json:"blocked"`
	IsSpecial bool        `json:"is_special"`
	IsDark    bool        `json:"is_dark"`
	Visited   bool        `json:"visited"`
	Visual    TileVisual  `json:"visual,omitempty"`
}

// NewTile returns a tile with the given terrain and wall. Water, lava,
// and mountain tiles start blocked, as do tiles with a normal wall.
func NewTile(terrain TerrainType, wall WallType) Tile {
	blocked := wall == WallNormal
	switch terrain {
	case TerrainWater, TerrainLava, TerrainMountain:
		blocked = true
	}
	return Tile{Terrain: terrain, Wall: wall, Blocked: blocked}
}

// IsBlocked reports whether the tile itself blocks movement, either by
// flag or by a wall that is not a passable door.
func (t Tile) IsBlocked() bool {
	return t.Blocked || t.Wall == WallNormal
}

// IsDoor reports whether the tile has a door wall.
func (t Tile) IsDoor() bool {
	return t.Wall == WallDoor
}

// HasLight reports whether the tile emits light.
func (t Tile) HasLight() bool {
	return t.Wall == WallTorch
}

// MarkVisited flags the tile as seen by the party.
func (t *Tile) MarkVisited() {
	t.Visited = true
}
