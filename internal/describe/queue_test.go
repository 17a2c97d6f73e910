package describe_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexcrawl/internal/describe"
	"github.com/talgya/hexcrawl/internal/hex"
	"github.com/talgya/hexcrawl/internal/terrain"
	"github.com/talgya/hexcrawl/internal/world"
)

// pickFirst always selects the first canned variant.
type pickFirst struct{}

func (pickFirst) Float() float64 { return 0 }
func (pickFirst) IntN(n int) int { return 0 }

// fakeStore is an in-memory CacheStore.
type fakeStore struct {
	data map[string]string
	puts int
}

func storeKey(t terrain.Type, q, r int) string {
	return fmt.Sprintf("%s/%d/%d", t, q, r)
}

func newFakeStore() *fakeStore { return &fakeStore{data: make(map[string]string)} }

func (s *fakeStore) GetDescription(t terrain.Type, q, r int) (string, bool) {
	v, ok := s.data[storeKey(t, q, r)]
	return v, ok
}

func (s *fakeStore) PutDescription(t terrain.Type, q, r int, description string) error {
	s.data[storeKey(t, q, r)] = description
	s.puts++
	return nil
}

// generationServer fakes the Ollama endpoints: the probe always
// succeeds, generate responses come from the handler.
func generationServer(t *testing.T, generate http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/generate", generate)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func waitIdle(t *testing.T, q *describe.Queue) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for q.Running() {
		if time.Now().After(deadline) {
			t.Fatal("queue did not finish in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDescribeCachesServerResponses(t *testing.T) {
	var calls atomic.Int32
	srv := generationServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"response": "  A windswept ridge above the treeline.  "}`))
	})

	c := describe.NewClient(srv.URL, "test-model", pickFirst{}, nil)
	require.True(t, c.Available())

	got := c.Describe(terrain.Hills, hex.Axial(2, -1))
	assert.Equal(t, "A windswept ridge above the treeline.", got)

	// Second identical request is served from the in-memory cache.
	again := c.Describe(terrain.Hills, hex.Axial(2, -1))
	assert.Equal(t, got, again)
	assert.Equal(t, int32(1), calls.Load())

	// A different coordinate is a fresh generation.
	c.Describe(terrain.Hills, hex.Axial(3, 0))
	assert.Equal(t, int32(2), calls.Load())
}

func TestDescribeChecksStoreBeforeServer(t *testing.T) {
	var calls atomic.Int32
	srv := generationServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"response": "fresh"}`))
	})

	store := newFakeStore()
	require.NoError(t, store.PutDescription(terrain.Forest, 0, 0, "remembered grove"))
	store.puts = 0

	c := describe.NewClient(srv.URL, "test-model", pickFirst{}, store)

	assert.Equal(t, "remembered grove", c.Describe(terrain.Forest, hex.Coord{}))
	assert.Equal(t, int32(0), calls.Load())

	// Misses go to the server and are written back to the store.
	assert.Equal(t, "fresh", c.Describe(terrain.Forest, hex.Axial(1, 0)))
	assert.Equal(t, 1, store.puts)
}

func TestDescribeFallsBackWhenUnreachable(t *testing.T) {
	// Nothing listens here; the probe fails and the client stays local.
	c := describe.NewClient("http://127.0.0.1:1", "test-model", pickFirst{}, nil)
	assert.False(t, c.Available())

	got := c.Describe(terrain.Tundra, hex.Coord{})
	assert.Equal(t, "Frozen wastes stretch endlessly, beautiful and desolate. The wind cuts like ice.", got)

	// Terrains outside the canned table get the generic line.
	assert.Equal(t, "An unexplored region awaits discovery.", c.Describe(terrain.Type("void"), hex.Coord{}))
}

func TestDescribeMarksUnavailableOnServerError(t *testing.T) {
	srv := generationServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	c := describe.NewClient(srv.URL, "test-model", pickFirst{}, nil)
	require.True(t, c.Available())

	got := c.Describe(terrain.Desert, hex.Coord{})
	assert.Equal(t, "Sand dunes shift endlessly under the scorching sun. Mirages dance on the horizon.", got)
	assert.False(t, c.Available())
}

func makeTiles(ts ...terrain.Type) []*world.Tile {
	tiles := make([]*world.Tile, len(ts))
	for i, tt := range ts {
		tiles[i] = &world.Tile{
			Coord:       hex.Axial(i, 0),
			Terrain:     tt,
			Description: world.PlaceholderDescription,
			Generating:  true,
		}
	}
	return tiles
}

func TestQueueFillsBatchWithFallbacks(t *testing.T) {
	c := describe.NewClient("http://127.0.0.1:1", "test-model", pickFirst{}, nil)
	q := describe.NewQueue(c)

	tiles := makeTiles(terrain.Forest, terrain.Plains, terrain.Swamp)
	require.True(t, q.Start(tiles, world.BatchScouting))
	waitIdle(t, q)

	for _, tile := range tiles {
		assert.False(t, tile.Generating)
		assert.NotEqual(t, world.PlaceholderDescription, tile.Description)
	}

	p := q.Snapshot()
	assert.False(t, p.Running)
	assert.Equal(t, 3, p.Completed)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, world.BatchScouting, p.Kind)
	assert.NotEmpty(t, p.BatchID)
	assert.InDelta(t, 1.0, p.Fraction(), 1e-9)
}

func TestQueueRejectsSecondBatch(t *testing.T) {
	gate := make(chan struct{})
	srv := generationServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-gate
		w.Write([]byte(`{"response": "done"}`))
	})

	c := describe.NewClient(srv.URL, "test-model", pickFirst{}, nil)
	q := describe.NewQueue(c)

	first := makeTiles(terrain.Plains)
	require.True(t, q.Start(first, world.BatchScouting))

	// The worker is blocked inside the first item.
	assert.False(t, q.Start(makeTiles(terrain.Hills), world.BatchResting))
	assert.True(t, q.Running())

	close(gate)
	waitIdle(t, q)
	assert.Equal(t, "done", first[0].Description)

	// Idle again: a new batch is accepted.
	assert.True(t, q.Start(makeTiles(terrain.Hills), world.BatchResting))
	waitIdle(t, q)
}

func TestQueueCancelStopsBetweenItems(t *testing.T) {
	gate := make(chan struct{})
	srv := generationServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-gate
		w.Write([]byte(`{"response": "done"}`))
	})

	c := describe.NewClient(srv.URL, "test-model", pickFirst{}, nil)
	q := describe.NewQueue(c)

	tiles := makeTiles(terrain.Plains, terrain.Forest)
	require.True(t, q.Start(tiles, world.BatchScouting))

	// Worker is stuck inside item one; a short join times out.
	assert.False(t, q.Cancel(20*time.Millisecond))

	// Release the item: the started item completes, the next never runs.
	close(gate)
	assert.True(t, q.Cancel(5*time.Second))
	assert.Equal(t, "done", tiles[0].Description)
	assert.Equal(t, world.PlaceholderDescription, tiles[1].Description)
	assert.Equal(t, 1, q.Snapshot().Completed)
}

func TestCancelIdleQueueIsImmediate(t *testing.T) {
	c := describe.NewClient("http://127.0.0.1:1", "test-model", pickFirst{}, nil)
	q := describe.NewQueue(c)

	assert.True(t, q.Cancel(time.Millisecond))
}

func TestProgressFractionEmptyBatch(t *testing.T) {
	assert.InDelta(t, 1.0, describe.Progress{}.Fraction(), 1e-9)
}
