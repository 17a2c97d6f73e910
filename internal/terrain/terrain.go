// Package terrain defines the biome vocabulary, the immutable terrain and
// transport catalogs, and the noise-based classifier that assigns a biome
// to every hex coordinate.
package terrain

// Type is a biome tag assigned to a hex tile.
type Type string

// Basic vocabulary — the eight tags used by incremental exploration.
const (
	Forest    Type = "forest"
	Plains    Type = "plains"
	Mountains Type = "mountains"
	Water     Type = "water"
	Desert    Type = "desert"
	Swamp     Type = "swamp"
	Tundra    Type = "tundra"
	Hills     Type = "hills"
)

// Extended vocabulary — produced only by the noise generator.
const (
	DeepOcean     Type = "deep_ocean"
	Ocean         Type = "ocean"
	ShallowWater  Type = "shallow_water"
	Beach         Type = "beach"
	Savanna       Type = "savanna"
	Jungle        Type = "jungle"
	Ice           Type = "ice"
	Lake          Type = "lake"
	River         Type = "river"
	HighMountains Type = "high_mountains"
)

// Impassable is the sentinel movement cost. Any cost or transport
// modifier at or above it means the hex cannot be entered.
const Impassable = 999.0

// RGB is a display color for a terrain type.
type RGB struct {
	R, G, B uint8
}

// Range is an inclusive acceptance band for a generation parameter.
type Range struct {
	Min, Max float64
}

// Properties describes one terrain type: display color, narrative text,
// movement cost, and the environmental bands the generator draws it from.
type Properties struct {
	Color        RGB
	Description  string
	MovementCost float64
	Elevation    Range
	Moisture     Range
	Temperature  Range
}

// BasicTypes is the vocabulary used by the coherence classifier and the
// transport modifier tables.
var BasicTypes = []Type{Forest, Plains, Mountains, Water, Desert, Swamp, Tundra, Hills}

// Catalog is the read-only terrain table. Never mutated after init.
var Catalog = map[Type]Properties{
	Forest: {
		Color: RGB{34, 139, 34}, Description: "Dense woodland", MovementCost: 1.5,
		Elevation: Range{0.1, 0.5}, Moisture: Range{0.4, 0.8}, Temperature: Range{0.3, 0.7},
	},
	Plains: {
		Color: RGB{144, 238, 144}, Description: "Open grasslands", MovementCost: 1,
		Elevation: Range{0.05, 0.3}, Moisture: Range{0.2, 0.5}, Temperature: Range{0.2, 0.8},
	},
	Mountains: {
		Color: RGB{139, 137, 137}, Description: "Rocky peaks", MovementCost: 3,
		Elevation: Range{0.6, 0.85}, Moisture: Range{0.1, 0.5}, Temperature: Range{-0.2, 0.6},
	},
	Water: {
		Color: RGB{65, 105, 225}, Description: "Deep waters", MovementCost: Impassable,
		Elevation: Range{-1.0, -0.05}, Moisture: Range{0.8, 1.0}, Temperature: Range{-1.0, 1.0},
	},
	Desert: {
		Color: RGB{238, 203, 173}, Description: "Sandy dunes", MovementCost: 2,
		Elevation: Range{0.05, 0.4}, Moisture: Range{0.0, 0.2}, Temperature: Range{0.6, 1.0},
	},
	Swamp: {
		Color: RGB{47, 79, 79}, Description: "Murky wetlands", MovementCost: 3,
		Elevation: Range{0.0, 0.2}, Moisture: Range{0.6, 1.0}, Temperature: Range{0.4, 0.8},
	},
	Tundra: {
		Color: RGB{176, 224, 230}, Description: "Frozen wasteland", MovementCost: 2,
		Elevation: Range{0.05, 0.4}, Moisture: Range{0.2, 0.5}, Temperature: Range{-0.8, 0.0},
	},
	Hills: {
		Color: RGB{160, 82, 45}, Description: "Rolling hills", MovementCost: 1.5,
		Elevation: Range{0.3, 0.6}, Moisture: Range{0.2, 0.6}, Temperature: Range{0.1, 0.8},
	},
	DeepOcean: {
		Color: RGB{0, 43, 127}, Description: "Deep ocean waters", MovementCost: Impassable,
		Elevation: Range{-1.0, -0.5}, Moisture: Range{0.8, 1.0}, Temperature: Range{-1.0, 1.0},
	},
	Ocean: {
		Color: RGB{0, 89, 179}, Description: "Ocean waters", MovementCost: Impassable,
		Elevation: Range{-0.5, -0.2}, Moisture: Range{0.8, 1.0}, Temperature: Range{-1.0, 1.0},
	},
	ShallowWater: {
		Color: RGB{65, 105, 225}, Description: "Shallow coastal waters", MovementCost: 4,
		Elevation: Range{-0.2, -0.05}, Moisture: Range{0.7, 1.0}, Temperature: Range{-1.0, 1.0},
	},
	Beach: {
		Color: RGB{238, 214, 175}, Description: "Sandy beach", MovementCost: 1.2,
		Elevation: Range{-0.05, 0.05}, Moisture: Range{0.3, 0.6}, Temperature: Range{0.2, 1.0},
	},
	Savanna: {
		Color: RGB{196, 198, 93}, Description: "Dry grasslands", MovementCost: 1.2,
		Elevation: Range{0.05, 0.3}, Moisture: Range{0.2, 0.4}, Temperature: Range{0.6, 0.9},
	},
	Jungle: {
		Color: RGB{0, 100, 0}, Description: "Dense tropical forest", MovementCost: 2,
		Elevation: Range{0.05, 0.4}, Moisture: Range{0.7, 1.0}, Temperature: Range{0.7, 1.0},
	},
	Ice: {
		Color: RGB{240, 255, 255}, Description: "Permanent ice", MovementCost: 2.5,
		Elevation: Range{0.0, 1.0}, Moisture: Range{0.3, 0.7}, Temperature: Range{-1.0, -0.6},
	},
	Lake: {
		Color: RGB{100, 149, 237}, Description: "Freshwater lake", MovementCost: Impassable,
		Elevation: Range{0.1, 0.6}, Moisture: Range{0.8, 1.0}, Temperature: Range{-0.5, 0.9},
	},
	River: {
		Color: RGB{70, 130, 180}, Description: "Flowing river", MovementCost: 2,
		Elevation: Range{0.0, 0.8}, Moisture: Range{0.7, 1.0}, Temperature: Range{-0.5, 0.9},
	},
	HighMountains: {
		Color: RGB{255, 255, 255}, Description: "Impassable peaks", MovementCost: Impassable,
		Elevation: Range{0.85, 1.0}, Moisture: Range{0.0, 0.3}, Temperature: Range{-1.0, 0.2},
	},
}

// Known reports whether t is in the catalog.
func Known(t Type) bool {
	_, ok := Catalog[t]
	return ok
}

// MovementCost returns the base cost for entering t, or the impassable
// sentinel for unknown tags.
func MovementCost(t Type) float64 {
	p, ok := Catalog[t]
	if !ok {
		return Impassable
	}
	return p.MovementCost
}
