package world

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/talgya/hexcrawl/internal/hex"
	"github.com/talgya/hexcrawl/internal/terrain"
	"github.com/talgya/hexcrawl/internal/travel"
)

// TileRecord is the persisted form of one tile. Generating and
// distance are runtime-only and never serialized.
type TileRecord struct {
	Q           int    `json:"q"`
	R           int    `json:"r"`
	S           int    `json:"s"`
	Terrain     string `json:"terrain"`
	Description string `json:"description"`
	Explored    bool   `json:"explored"`
	Visible     bool   `json:"visible"`
}

// SaveFile is the persisted map format.
type SaveFile struct {
	ID              string          `json:"id,omitempty"`
	CurrentPosition [3]int          `json:"current_position"`
	Hexes           []TileRecord    `json:"hexes"`
	TravelData      travel.SaveData `json:"travel_data"`

	// Optional generation metadata for reproducible regeneration.
	TerrainSeed *int64 `json:"terrain_seed,omitempty"`
	Seed        *int64 `json:"seed,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Generator   string `json:"generator,omitempty"`
}

// Snapshot captures the map into a SaveFile.
func (m *Map) Snapshot() SaveFile {
	sf := SaveFile{
		ID: uuid.NewString(),
		CurrentPosition: [3]int{
			m.CurrentPosition.Q, m.CurrentPosition.R, m.CurrentPosition.S,
		},
		Hexes:       make([]TileRecord, 0, len(m.Tiles)),
		TravelData:  m.Travel.Save(),
		TerrainSeed: m.TerrainSeed,
		Generator:   m.GeneratorName,
	}
	for _, t := range m.Tiles {
		sf.Hexes = append(sf.Hexes, TileRecord{
			Q:           t.Coord.Q,
			R:           t.Coord.R,
			S:           t.Coord.S,
			Terrain:     string(t.Terrain),
			Description: t.Description,
			Explored:    t.Explored,
			Visible:     t.Visible,
		})
	}
	return sf
}

// SaveJSON writes the map to a JSON file.
func (m *Map) SaveJSON(path string) error {
	data, err := json.MarshalIndent(m.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal map: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write map file: %w", err)
	}
	return nil
}

// LoadJSON replaces the map contents from a JSON file. Missing required
// keys (current_position, hexes) and coordinate-invariant violations
// fail fast with a diagnostic; optional metadata defaults gracefully.
func (m *Map) LoadJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read map file: %w", err)
	}
	return m.Restore(data)
}

// Restore replaces the map contents from raw save-file JSON.
func (m *Map) Restore(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse map file: %w", err)
	}
	for _, key := range []string{"current_position", "hexes"} {
		if _, ok := raw[key]; !ok {
			return fmt.Errorf("map file missing required key %q", key)
		}
	}

	var sf SaveFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse map file: %w", err)
	}

	tiles := make(map[hex.Coord]*Tile, len(sf.Hexes))
	for _, rec := range sf.Hexes {
		c := hex.Coord{Q: rec.Q, R: rec.R, S: rec.S}
		if !c.Valid() {
			return fmt.Errorf("map file: invalid coordinate %s: q+r+s != 0", c)
		}
		tiles[c] = &Tile{
			Coord:               c,
			Terrain:             terrain.Type(rec.Terrain),
			Description:         rec.Description,
			Explored:            rec.Explored,
			Visible:             rec.Visible,
			DistanceFromCurrent: UnknownDistance,
		}
	}

	pos := hex.Coord{
		Q: sf.CurrentPosition[0],
		R: sf.CurrentPosition[1],
		S: sf.CurrentPosition[2],
	}
	if !pos.Valid() {
		return fmt.Errorf("map file: invalid current_position %s: q+r+s != 0", pos)
	}

	m.Tiles = tiles
	m.CurrentPosition = pos
	m.TerrainSeed = sf.TerrainSeed
	m.GeneratorName = sf.Generator

	// travel_data is optional for backward compatibility with older
	// saves; absent means keep the current ledger.
	if _, ok := raw["travel_data"]; ok {
		m.Travel.Load(sf.TravelData)
	}

	m.recalculateDistances()
	return nil
}
