// Package world owns the sparse hex-tile store: it grows the map on
// demand, drives exploration transitions, and answers visibility and
// distance queries.
package world

import (
	"github.com/talgya/hexcrawl/internal/hex"
	"github.com/talgya/hexcrawl/internal/terrain"
)

// PlaceholderDescription is the sentinel text a tile carries until the
// generation queue fills in real prose.
const PlaceholderDescription = "Awaiting description..."

// UnknownDistance marks a tile whose distance has not been computed yet.
const UnknownDistance = 999

// Tile is a single hex on the map. Created once when first referenced,
// never deleted; owned exclusively by the Map.
//
// Description and Generating are written by the generation worker while
// a batch runs; everything else is single-threaded game state.
type Tile struct {
	Coord       hex.Coord    `json:"coord"`
	Terrain     terrain.Type `json:"terrain"`
	Description string       `json:"description"`
	Explored    bool         `json:"explored"` // one-way false → true
	Visible     bool         `json:"visible"`  // toggled by proximity

	// Runtime-only, excluded from serialization.
	Generating          bool `json:"-"`
	DistanceFromCurrent int  `json:"-"`
}

// BatchKind labels a generation batch by the action that revealed the
// tiles.
type BatchKind string

const (
	BatchScouting BatchKind = "scouting"
	BatchResting  BatchKind = "resting"
)

// Describer receives newly revealed tiles and fills in their
// descriptions asynchronously. Start returns false when a batch is
// already in flight.
type Describer interface {
	Start(tiles []*Tile, kind BatchKind) bool
}
