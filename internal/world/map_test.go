package world_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexcrawl/internal/hex"
	"github.com/talgya/hexcrawl/internal/terrain"
	"github.com/talgya/hexcrawl/internal/travel"
	"github.com/talgya/hexcrawl/internal/world"
)

// fixedClassifier assigns the same terrain to every tile.
type fixedClassifier struct {
	t terrain.Type
}

func (f fixedClassifier) Pick(hex.Coord, []terrain.Type) terrain.Type { return f.t }

// recordingDescriber captures batches and completes them synchronously,
// the way the real queue does once its worker finishes.
type recordingDescriber struct {
	batches []world.BatchKind
	sizes   []int
}

func (d *recordingDescriber) Start(tiles []*world.Tile, kind world.BatchKind) bool {
	d.batches = append(d.batches, kind)
	d.sizes = append(d.sizes, len(tiles))
	for _, t := range tiles {
		t.Description = "described " + string(t.Terrain)
		t.Generating = false
	}
	return true
}

// quietSource never triggers the supply decay roll.
type quietSource struct{}

func (quietSource) Float() float64 { return 0.99 }
func (quietSource) IntN(n int) int { return 0 }

func newTestMap(t terrain.Type, d world.Describer) *world.Map {
	return world.NewMap(fixedClassifier{t}, d, travel.New(quietSource{}))
}

func TestInitializeCreatesStartingArea(t *testing.T) {
	d := &recordingDescriber{}
	m := newTestMap(terrain.Plains, d)
	m.Initialize()

	assert.Equal(t, 7, m.TileCount())
	assert.Equal(t, hex.Coord{}, m.CurrentPosition)

	origin := m.Get(hex.Coord{})
	require.NotNil(t, origin)
	assert.True(t, origin.Explored)
	assert.True(t, origin.Visible)
	assert.Equal(t, 0, origin.DistanceFromCurrent)

	for _, nc := range m.CurrentPosition.Neighbors() {
		n := m.Get(nc)
		require.NotNil(t, n)
		assert.True(t, n.Visible)
		assert.False(t, n.Explored)
		assert.Equal(t, 1, n.DistanceFromCurrent)
	}

	require.Len(t, d.batches, 1)
	assert.Equal(t, world.BatchScouting, d.batches[0])
	assert.Equal(t, 7, d.sizes[0])
}

func TestNilDescriberClearsGenerating(t *testing.T) {
	m := newTestMap(terrain.Plains, nil)
	m.Initialize()

	for _, tile := range m.Tiles {
		assert.False(t, tile.Generating)
		assert.Equal(t, world.PlaceholderDescription, tile.Description)
	}
}

func TestExploreGrowsFrontier(t *testing.T) {
	m := newTestMap(terrain.Plains, nil)
	m.Initialize()

	target := hex.Axial(1, 0)
	require.NoError(t, m.Explore(target))

	assert.Equal(t, target, m.CurrentPosition)
	assert.True(t, m.Get(target).Explored)
	// Three of the target's neighbors were missing, so the map grows
	// from 7 to 10 tiles, all visible.
	assert.Equal(t, 10, m.TileCount())
	for _, nc := range target.Neighbors() {
		require.NotNil(t, m.Get(nc))
		assert.True(t, m.Get(nc).Visible)
	}
	// Plains cost 1 of the 8-point budget.
	assert.InDelta(t, 7.0, m.Travel.MovementPoints, 1e-9)
	// Distances follow the new position.
	assert.Equal(t, 2, m.Get(hex.Axial(-1, 0)).DistanceFromCurrent)
}

func TestExploreUnknownCoordinate(t *testing.T) {
	m := newTestMap(terrain.Plains, nil)
	m.Initialize()

	err := m.Explore(hex.Axial(5, 5))
	assert.ErrorIs(t, err, world.ErrNotFound)
	assert.Equal(t, hex.Coord{}, m.CurrentPosition)
	assert.Equal(t, 7, m.TileCount())
}

func TestExploreWhileGenerating(t *testing.T) {
	m := newTestMap(terrain.Plains, nil)
	m.Initialize()

	target := hex.Axial(1, 0)
	m.Get(target).Generating = true

	err := m.Explore(target)
	assert.ErrorIs(t, err, world.ErrStillGenerating)
	assert.Equal(t, hex.Coord{}, m.CurrentPosition)
	assert.False(t, m.Get(target).Explored)
	assert.InDelta(t, 8.0, m.Travel.MovementPoints, 1e-9)
}

func TestExploreGatedByLedger(t *testing.T) {
	m := newTestMap(terrain.Mountains, nil)
	m.Initialize()
	m.Travel.MovementPoints = 1

	err := m.Explore(hex.Axial(1, 0))
	assert.ErrorIs(t, err, travel.ErrInsufficientMovement)
	assert.Equal(t, hex.Coord{}, m.CurrentPosition)
	assert.InDelta(t, 1.0, m.Travel.MovementPoints, 1e-9)
}

func TestExploreImpassableTerrain(t *testing.T) {
	m := newTestMap(terrain.Water, nil)
	m.Initialize()

	err := m.Explore(hex.Axial(1, 0))
	assert.ErrorIs(t, err, travel.ErrImpassable)
	assert.Equal(t, hex.Coord{}, m.CurrentPosition)
}

func TestNavigateRequiresExplored(t *testing.T) {
	m := newTestMap(terrain.Plains, nil)
	m.Initialize()

	err := m.Navigate(hex.Axial(1, 0))
	assert.ErrorIs(t, err, world.ErrNotExplored)

	err = m.Navigate(hex.Axial(5, 5))
	assert.ErrorIs(t, err, world.ErrNotFound)
}

func TestNavigateRetracesWithoutGrowing(t *testing.T) {
	m := newTestMap(terrain.Plains, nil)
	m.Initialize()
	require.NoError(t, m.Explore(hex.Axial(1, 0)))
	count := m.TileCount()

	require.NoError(t, m.Navigate(hex.Coord{}))
	assert.Equal(t, hex.Coord{}, m.CurrentPosition)
	assert.Equal(t, count, m.TileCount())
	assert.InDelta(t, 6.0, m.Travel.MovementPoints, 1e-9)
}

func TestRestAndScoutRevealsRadiusTwo(t *testing.T) {
	d := &recordingDescriber{}
	m := newTestMap(terrain.Plains, d)
	m.Initialize()

	m.RestAndScout()

	// 19 tiles within radius 2 of the origin.
	assert.Equal(t, 19, m.TileCount())
	for _, tile := range m.Tiles {
		assert.True(t, tile.Visible)
	}
	assert.Equal(t, m.Travel.MaxMovement, m.Travel.MovementPoints)
	assert.Equal(t, 1, m.Travel.DaysTraveled)
	assert.InDelta(t, 9.0, m.Travel.Supplies, 1e-9)

	require.Len(t, d.batches, 2)
	assert.Equal(t, world.BatchResting, d.batches[1])
	assert.Equal(t, 12, d.sizes[1]) // 19 minus the 7 initial tiles
}

func TestAdjacentExplored(t *testing.T) {
	m := newTestMap(terrain.Plains, nil)
	m.Initialize()
	require.NoError(t, m.Explore(hex.Axial(1, 0)))

	got := m.AdjacentExplored(hex.Axial(1, 0))
	require.Len(t, got, 1)
	assert.Equal(t, hex.Coord{}, got[0])
}

func TestCoherenceSeesExistingNeighbors(t *testing.T) {
	seen := 0
	m := world.NewMap(pickFunc(func(c hex.Coord, neighbors []terrain.Type) terrain.Type {
		seen += len(neighbors)
		return terrain.Plains
	}), nil, travel.New(quietSource{}))
	m.Initialize()

	// Origin is created alone, then each neighbor sees at least the
	// origin plus previously created siblings.
	assert.Greater(t, seen, 6)
}

// pickFunc adapts a function to the classifier interface.
type pickFunc func(hex.Coord, []terrain.Type) terrain.Type

func (f pickFunc) Pick(c hex.Coord, neighbors []terrain.Type) terrain.Type {
	return f(c, neighbors)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	d := &recordingDescriber{}
	m := newTestMap(terrain.Forest, d)
	m.Initialize()
	require.NoError(t, m.Explore(hex.Axial(1, 0)))
	m.RestAndScout()
	seed := int64(42)
	m.TerrainSeed = &seed
	m.GeneratorName = "noise"

	path := filepath.Join(t.TempDir(), "map.json")
	require.NoError(t, m.SaveJSON(path))

	restored := newTestMap(terrain.Forest, d)
	require.NoError(t, restored.LoadJSON(path))

	assert.Equal(t, m.CurrentPosition, restored.CurrentPosition)
	assert.Equal(t, m.TileCount(), restored.TileCount())
	require.NotNil(t, restored.TerrainSeed)
	assert.Equal(t, seed, *restored.TerrainSeed)
	assert.Equal(t, "noise", restored.GeneratorName)

	for c, orig := range m.Tiles {
		got := restored.Get(c)
		require.NotNil(t, got, "missing tile %s", c)
		assert.Equal(t, orig.Terrain, got.Terrain)
		assert.Equal(t, orig.Description, got.Description)
		assert.Equal(t, orig.Explored, got.Explored)
		assert.Equal(t, orig.Visible, got.Visible)
		assert.Equal(t, orig.DistanceFromCurrent, got.DistanceFromCurrent)
	}

	assert.Equal(t, m.Travel.Transport, restored.Travel.Transport)
	assert.InDelta(t, m.Travel.MovementPoints, restored.Travel.MovementPoints, 1e-9)
	assert.InDelta(t, m.Travel.Supplies, restored.Travel.Supplies, 1e-9)
	assert.Equal(t, m.Travel.DaysTraveled, restored.Travel.DaysTraveled)
}

func TestRestoreRejectsMissingKeys(t *testing.T) {
	m := newTestMap(terrain.Plains, nil)

	err := m.Restore([]byte(`{"hexes": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current_position")

	err = m.Restore([]byte(`{"current_position": [0,0,0]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hexes")
}

func TestRestoreRejectsBrokenCoordinates(t *testing.T) {
	m := newTestMap(terrain.Plains, nil)

	err := m.Restore([]byte(`{
		"current_position": [0, 0, 0],
		"hexes": [{"q": 1, "r": 1, "s": 1, "terrain": "plains"}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "q+r+s")

	err = m.Restore([]byte(`{
		"current_position": [1, 0, 0],
		"hexes": []
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current_position")
}

func TestRestoreWithoutTravelDataKeepsLedger(t *testing.T) {
	m := newTestMap(terrain.Plains, nil)
	m.Travel.Supplies = 25

	require.NoError(t, m.Restore([]byte(`{
		"current_position": [0, 0, 0],
		"hexes": [{"q": 0, "r": 0, "s": 0, "terrain": "plains",
			"description": "home", "explored": true, "visible": true}]
	}`)))

	assert.Equal(t, 25.0, m.Travel.Supplies)
	assert.Equal(t, 1, m.TileCount())
	assert.Equal(t, terrain.Plains, m.Get(hex.Coord{}).Terrain)
}
