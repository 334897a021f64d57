package world

import (
	"fmt"
	"sort"

	"github.com/antares-rpg/antares/types"
)

// NpcPlacement positions an NPC on a map. Placed NPCs block movement.
type NpcPlacement struct {
	NpcID            types.NpcID       `json:"npc_id"`
	Position         types.Position    `json:"position"`
	Facing           types.Direction   `json:"facing"`
	DialogueOverride *types.DialogueID `json:"dialogue_override,omitempty"`
}

// NewNpcPlacement places an NPC at a position facing south.
func NewNpcPlacement(npcID types.NpcID, pos types.Position) NpcPlacement {
	return NpcPlacement{NpcID: npcID, Position: pos, Facing: types.South}
}

// Map is a tile grid with placed NPCs and positional events.
// Tiles are stored row-major: Tiles[y][x].
type Map struct {
	ID          types.MapID
	Name        string
	Description string
	Width       int
	Height      int
	Tiles       [][]Tile
	Placements  []NpcPlacement
	Events      map[types.Position]MapEvent
	Outdoor     bool
	Encounters  EncounterTable
}

// NewMap returns a map of the given dimensions filled with open ground.
func NewMap(id types.MapID, name, description string, width, height int) *Map {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = NewTile(TerrainGround, WallNone)
		}
	}
	return &Map{
		ID:          id,
		Name:        name,
		Description: description,
		Width:       width,
		Height:      height,
		Tiles:       tiles,
		Events:      map[types.Position]MapEvent{},
	}
}

// InBounds reports whether the position lies on the grid.
func (m *Map) InBounds(pos types.Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < m.Width && pos.Y < m.Height
}

// Tile returns the tile at pos, or nil if out of bounds.
func (m *Map) Tile(pos types.Position) *Tile {
	if !m.InBounds(pos) {
		return nil
	}
	return &m.Tiles[pos.Y][pos.X]
}

// IsBlocked reports whether pos cannot be entered: out of bounds, a
// blocked tile, a blocking wall, or an NPC standing there.
func (m *Map) IsBlocked(pos types.Position) bool {
	tile := m.Tile(pos)
	if tile == nil || tile.IsBlocked() {
		return true
	}
	for i := range m.Placements {
		if m.Placements[i].Position == pos {
			return true
		}
	}
	return false
}

// AddEvent places an event at pos, replacing any previous event there.
func (m *Map) AddEvent(pos types.Position, event MapEvent) {
	if m.Events == nil {
		m.Events = map[types.Position]MapEvent{}
	}
	m.Events[pos] = event
}

// Event returns the event at pos, if any.
func (m *Map) Event(pos types.Position) (MapEvent, bool) {
	e, ok := m.Events[pos]
	return e, ok
}

// RemoveEvent deletes and returns the event at pos.
func (m *Map) RemoveEvent(pos types.Position) (MapEvent, bool) {
	e, ok := m.Events[pos]
	if ok {
		delete(m.Events, pos)
	}
	return e, ok
}

// PlacementAt returns the NPC placement occupying pos, if any.
func (m *Map) PlacementAt(pos types.Position) (NpcPlacement, bool) {
	for i := range m.Placements {
		if m.Placements[i].Position == pos {
			return m.Placements[i], true
		}
	}
	return NpcPlacement{}, false
}

// AddPlacement appends an NPC placement. Callers are expected to keep
// positions unique; the loader and validator enforce it.
func (m *Map) AddPlacement(p NpcPlacement) {
	m.Placements = append(m.Placements, p)
}

// Teleports returns the teleport events on this map.
func (m *Map) Teleports() []MapEvent {
	var out []MapEvent
	for _, e := range m.Events {
		if e.Kind == EventTeleport {
			out = append(out, e)
		}
	}
	return out
}

// CheckInvariants verifies the structural invariants of the grid:
// row/column counts match the declared dimensions, event keys are in
// bounds, and placements are in bounds and unique. It returns a message
// per violation; event violations come out in row-major position order
// so repeated runs agree.
func (m *Map) CheckInvariants() []string {
	var problems []string
	if len(m.Tiles) != m.Height {
		problems = append(problems, fmt.Sprintf("tile row count %d does not match height %d", len(m.Tiles), m.Height))
	}
	for y, row := range m.Tiles {
		if len(row) != m.Width {
			problems = append(problems, fmt.Sprintf("tile row %d length %d does not match width %d", y, len(row), m.Width))
		}
	}
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
	for _, pos := range positions {
		if !m.InBounds(pos) {
			problems = append(problems, fmt.Sprintf("event at (%d,%d) is out of bounds", pos.X, pos.Y))
		}
	}
	seen := map[types.Position]bool{}
	for _, p := range m.Placements {
		if !m.InBounds(p.Position) {
			problems = append(problems, fmt.Sprintf("npc %q placed out of bounds at (%d,%d)", p.NpcID, p.Position.X, p.Position.Y))
		}
		if seen[p.Position] {
			problems = append(problems, fmt.Sprintf("npc %q shares position (%d,%d) with another placement", p.NpcID, p.Position.X, p.Position.Y))
		}
		seen[p.Position] = true
	}
	return problems
}

// World is the runtime view over the loaded maps plus the party's
// position and facing.
type World struct {
	Maps        map[types.MapID]*Map
	CurrentMap  types.MapID
	PartyPos    types.Position
	PartyFacing types.Direction
	VisitedMaps map[types.MapID]bool
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		Maps:        map[types.MapID]*Map{},
		VisitedMaps: map[types.MapID]bool{},
	}
}

// AddMap registers a map.
func (w *World) AddMap(m *Map) {
	w.Maps[m.ID] = m
}

// Map returns the map with the given ID, if present.
func (w *World) Map(id types.MapID) (*Map, bool) {
	m, ok := w.Maps[id]
	return m, ok
}

// Current returns the map the party is on, if any.
func (w *World) Current() (*Map, bool) {
	return w.Map(w.CurrentMap)
}

// SetCurrent moves the party to the given map and marks it visited.
func (w *World) SetCurrent(id types.MapID) {
	w.CurrentMap = id
	w.VisitedMaps[id] = true
}

// TurnLeft rotates the party counter-clockwise.
func (w *World) TurnLeft() {
	w.PartyFacing = w.PartyFacing.TurnLeft()
}

// TurnRight rotates the party clockwise.
func (w *World) TurnRight() {
	w.PartyFacing = w.PartyFacing.TurnRight()
}

// PositionAhead returns the tile directly in front of the party.
func (w *World) PositionAhead() types.Position {
	return w.PartyFacing.Forward(w.PartyPos)
}

// StepForward advances the party one tile forward if the destination is
// not blocked, marking the entered tile visited. It reports whether the
// party moved.
func (w *World) StepForward() bool {
	m, ok := w.Current()
	if !ok {
		return false
	}
	dest := w.PositionAhead()
	if m.IsBlocked(dest) {
		return false
	}
	w.PartyPos = dest
	if t := m.Tile(dest); t != nil {
		t.MarkVisited()
	}
	return true
}
