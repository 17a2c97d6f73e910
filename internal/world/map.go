package world

import (
	"errors"
	"fmt"

	"github.com/talgya/hexcrawl/internal/hex"
	"github.com/talgya/hexcrawl/internal/terrain"
	"github.com/talgya/hexcrawl/internal/travel"
)

// Gating failures for exploration and navigation. Matched with
// errors.Is; the message is displayable as-is.
var (
	// ErrNotFound means the referenced tile does not exist yet.
	ErrNotFound = errors.New("hex doesn't exist")
	// ErrStillGenerating means the tile's description is pending.
	ErrStillGenerating = errors.New("still generating")
	// ErrNotExplored means the navigate target was never explored.
	ErrNotExplored = errors.New("cannot navigate to unexplored hex")
)

// ScoutRadius is the reveal radius of a rest-and-scout action.
const ScoutRadius = 2

// Map is the sparse tile store plus the party's position and ledger.
type Map struct {
	Tiles           map[hex.Coord]*Tile
	CurrentPosition hex.Coord
	Travel          *travel.State

	classifier terrain.Classifier
	describer  Describer

	// Optional generation metadata, round-tripped through saves.
	TerrainSeed   *int64
	GeneratorName string
}

// NewMap creates an empty map. The classifier assigns terrain to new
// tiles; the describer (may be nil) fills in description text.
func NewMap(classifier terrain.Classifier, describer Describer, ledger *travel.State) *Map {
	return &Map{
		Tiles:      make(map[hex.Coord]*Tile),
		Travel:     ledger,
		classifier: classifier,
		describer:  describer,
	}
}

// Get returns the tile at a coordinate, or nil.
func (m *Map) Get(c hex.Coord) *Tile {
	return m.Tiles[c]
}

// TileCount returns the number of tiles created so far.
func (m *Map) TileCount() int {
	return len(m.Tiles)
}

// CreateTile creates the tile at c, consulting the classifier with the
// terrains of any neighbors that already exist. The tile starts with the
// placeholder description and is flagged as generating.
func (m *Map) CreateTile(c hex.Coord) *Tile {
	var neighborTerrains []terrain.Type
	for _, nc := range c.Neighbors() {
		if n, ok := m.Tiles[nc]; ok {
			neighborTerrains = append(neighborTerrains, n.Terrain)
		}
	}

	t := &Tile{
		Coord:               c,
		Terrain:             m.classifier.Pick(c, neighborTerrains),
		Description:         PlaceholderDescription,
		Generating:          true,
		DistanceFromCurrent: UnknownDistance,
	}
	m.Tiles[c] = t
	return t
}

// Initialize creates the starting area: the origin tile (explored and
// visible) plus its six neighbors (visible only), and enqueues all seven
// for description generation as a scouting batch.
func (m *Map) Initialize() {
	origin := hex.Coord{}
	start := m.CreateTile(origin)
	start.Explored = true
	start.Visible = true
	m.CurrentPosition = origin

	batch := []*Tile{start}
	for _, nc := range origin.Neighbors() {
		t := m.CreateTile(nc)
		t.Visible = true
		batch = append(batch, t)
	}

	m.enqueue(batch, BatchScouting)
	m.recalculateDistances()
}

// Explore moves the party onto a tile, marking it explored and growing
// the frontier: missing neighbors are created and made visible, and new
// tiles are enqueued for description generation. Fails without mutating
// anything when the tile is absent, still generating, or the ledger
// rejects the move.
func (m *Map) Explore(c hex.Coord) error {
	t, ok := m.Tiles[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, c)
	}
	if t.Generating {
		return fmt.Errorf("%w: %s", ErrStillGenerating, c)
	}
	if err := m.Travel.ConsumeFor(t.Terrain); err != nil {
		return err
	}

	t.Explored = true
	m.CurrentPosition = c

	var batch []*Tile
	for _, nc := range c.Neighbors() {
		if n, ok := m.Tiles[nc]; ok {
			n.Visible = true
			continue
		}
		n := m.CreateTile(nc)
		n.Visible = true
		batch = append(batch, n)
	}
	m.enqueue(batch, BatchScouting)

	m.recalculateDistances()
	return nil
}

// Navigate moves the party onto an already-explored tile. No new tiles
// are created; the move is still priced by the ledger.
func (m *Map) Navigate(c hex.Coord) error {
	t, ok := m.Tiles[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, c)
	}
	if !t.Explored {
		return fmt.Errorf("%w: %s", ErrNotExplored, c)
	}
	if err := m.Travel.ConsumeFor(t.Terrain); err != nil {
		return err
	}

	m.CurrentPosition = c
	for _, nc := range c.Neighbors() {
		if n, ok := m.Tiles[nc]; ok {
			n.Visible = true
		}
	}

	m.recalculateDistances()
	return nil
}

// RestAndScout takes a long rest, then reveals every tile within
// ScoutRadius of the current position, creating the missing ones and
// enqueuing them for description generation as a resting batch.
func (m *Map) RestAndScout() {
	m.Travel.Rest()

	var batch []*Tile
	for _, c := range m.CurrentPosition.WithinRadius(ScoutRadius) {
		if t, ok := m.Tiles[c]; ok {
			t.Visible = true
			continue
		}
		t := m.CreateTile(c)
		t.Visible = true
		batch = append(batch, t)
	}
	m.enqueue(batch, BatchResting)

	m.recalculateDistances()
}

// AdjacentExplored returns the neighbors of c that exist and are
// explored.
func (m *Map) AdjacentExplored(c hex.Coord) []hex.Coord {
	var result []hex.Coord
	for _, nc := range c.Neighbors() {
		if n, ok := m.Tiles[nc]; ok && n.Explored {
			result = append(result, nc)
		}
	}
	return result
}

// recalculateDistances recomputes every tile's distance from the current
// position. O(tile count) per move; acceptable at a few thousand tiles.
func (m *Map) recalculateDistances() {
	for c, t := range m.Tiles {
		t.DistanceFromCurrent = hex.Distance(m.CurrentPosition, c)
	}
}

func (m *Map) enqueue(batch []*Tile, kind BatchKind) {
	if len(batch) == 0 || m.describer == nil {
		// No describer wired: tiles keep the placeholder until one is.
		for _, t := range batch {
			t.Generating = false
		}
		return
	}
	m.describer.Start(batch, kind)
}
