package describe

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/hexcrawl/internal/world"
)

// Queue runs description generation on a single background worker, one
// batch at a time. It implements world.Describer.
//
// While a batch runs, only the worker writes a tile's Description and
// Generating fields; readers see the placeholder until the worker is
// done with that tile. The cancel flag is the sole cross-goroutine
// control signal.
type Queue struct {
	client *Client

	cancel atomic.Bool

	mu           sync.Mutex
	running      bool
	completed    int
	total        int
	currentLabel string
	kind         world.BatchKind
	batchID      string
	done         chan struct{}
}

// NewQueue creates a queue over the given client.
func NewQueue(client *Client) *Queue {
	return &Queue{client: client}
}

// Progress is a read-only snapshot of the queue's state.
type Progress struct {
	Running      bool            `json:"running"`
	Completed    int             `json:"completed"`
	Total        int             `json:"total"`
	CurrentLabel string          `json:"current"`
	Kind         world.BatchKind `json:"type"`
	BatchID      string          `json:"batch_id"`
}

// Fraction returns completion as 0..1.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Completed) / float64(p.Total)
}

// Start begins generating descriptions for a batch of tiles. At most one
// batch is in flight: a second Start while one is running is a no-op
// returning false.
func (q *Queue) Start(tiles []*world.Tile, kind world.BatchKind) bool {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		slog.Debug("generation batch rejected, one already running", "kind", kind, "tiles", len(tiles))
		return false
	}
	q.running = true
	q.completed = 0
	q.total = len(tiles)
	q.currentLabel = ""
	q.kind = kind
	q.batchID = uuid.NewString()
	q.done = make(chan struct{})
	q.cancel.Store(false)
	done := q.done
	q.mu.Unlock()

	go q.run(tiles, done)
	return true
}

func (q *Queue) run(tiles []*world.Tile, done chan struct{}) {
	defer func() {
		q.mu.Lock()
		q.running = false
		q.mu.Unlock()
		close(done)
	}()

	for _, t := range tiles {
		// Cooperative cancellation: checked between items, so an item
		// already started always completes.
		if q.cancel.Load() {
			slog.Debug("generation batch cancelled", "completed", q.Snapshot().Completed)
			return
		}

		q.mu.Lock()
		q.currentLabel = fmt.Sprintf("%s at (%d, %d)", t.Terrain, t.Coord.Q, t.Coord.R)
		q.mu.Unlock()

		t.Generating = true
		t.Description = q.client.Describe(t.Terrain, t.Coord)
		t.Generating = false

		q.mu.Lock()
		q.completed++
		q.mu.Unlock()

		// Breathe between calls so a live server isn't hammered.
		if q.client.Available() {
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// Cancel requests cancellation and waits for the worker to stop, up to
// the timeout. Returns true once the worker has exited; false means the
// worker was still inside an item when the timeout elapsed.
func (q *Queue) Cancel(timeout time.Duration) bool {
	q.mu.Lock()
	running := q.running
	done := q.done
	q.mu.Unlock()

	if !running {
		return true
	}

	q.cancel.Store(true)
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Running reports whether a batch is in flight.
func (q *Queue) Running() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Snapshot returns a copy of the current progress.
func (q *Queue) Snapshot() Progress {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Progress{
		Running:      q.running,
		Completed:    q.completed,
		Total:        q.total,
		CurrentLabel: q.currentLabel,
		Kind:         q.kind,
		BatchID:      q.batchID,
	}
}
