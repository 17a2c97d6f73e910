package terrain

// Pace is a travel speed setting.
type Pace string

const (
	PaceSlow   Pace = "slow"
	PaceNormal Pace = "normal"
	PaceFast   Pace = "fast"
)

// Paces lists every valid pace.
var Paces = []Pace{PaceSlow, PaceNormal, PaceFast}

// ValidPace reports whether p is a known pace.
func ValidPace(p Pace) bool {
	return p == PaceSlow || p == PaceNormal || p == PaceFast
}

// Transport is a mode of travel.
type Transport string

const (
	OnFoot  Transport = "on_foot"
	Horse   Transport = "horse"
	Boat    Transport = "boat"
	Airship Transport = "airship"
)

// TransportSpec describes one travel mode: base hexes per 8-hour day at
// each pace, per-terrain cost multipliers, and its rest behavior.
// Terrains missing from Modifiers use a multiplier of 1.0.
type TransportSpec struct {
	Name                string
	BaseHexesPer8h      map[Pace]float64
	Modifiers           map[Type]float64
	ExhaustionResistant bool // exhaustion accrues to the mount, not the party
	RequiresRest        bool // false: forced marches grant nothing
	Description         string
}

// Transports is the read-only transport catalog. Never mutated after init.
var Transports = map[Transport]TransportSpec{
	OnFoot: {
		Name:           "On Foot",
		BaseHexesPer8h: map[Pace]float64{PaceSlow: 6, PaceNormal: 8, PaceFast: 10},
		Modifiers: map[Type]float64{
			Forest: 1.0, Plains: 1.0, Mountains: 1.0, Water: Impassable,
			Desert: 1.0, Swamp: 1.0, Tundra: 1.0, Hills: 1.0,
		},
		ExhaustionResistant: false,
		RequiresRest:        true,
		Description:         "Standard travel by foot",
	},
	Horse: {
		Name:           "Horse",
		BaseHexesPer8h: map[Pace]float64{PaceSlow: 9, PaceNormal: 12, PaceFast: 15},
		Modifiers: map[Type]float64{
			Forest: 1.2, Plains: 0.8, Mountains: 1.5, Water: Impassable,
			Desert: 1.1, Swamp: 2.0, Tundra: 1.2, Hills: 0.9,
		},
		ExhaustionResistant: true,
		RequiresRest:        true,
		Description:         "Mounted on horseback - faster on open terrain",
	},
	Boat: {
		Name:           "Boat/Ship",
		BaseHexesPer8h: map[Pace]float64{PaceSlow: 8, PaceNormal: 12, PaceFast: 16},
		Modifiers: map[Type]float64{
			Forest: Impassable, Plains: Impassable, Mountains: Impassable, Water: 0.5,
			Desert: Impassable, Swamp: 2.0, Tundra: Impassable, Hills: Impassable,
		},
		ExhaustionResistant: true,
		RequiresRest:        false,
		Description:         "Water travel - can only traverse water and swamps",
	},
	Airship: {
		Name:           "Airship",
		BaseHexesPer8h: map[Pace]float64{PaceSlow: 12, PaceNormal: 20, PaceFast: 28},
		Modifiers: map[Type]float64{
			Forest: 0.8, Plains: 0.8, Mountains: 1.0, Water: 0.8,
			Desert: 0.9, Swamp: 0.8, Tundra: 1.1, Hills: 0.85,
		},
		ExhaustionResistant: true,
		RequiresRest:        false,
		Description:         "Magical flight - ignores most terrain obstacles",
	},
}

// ValidTransport reports whether t is a known travel mode.
func ValidTransport(t Transport) bool {
	_, ok := Transports[t]
	return ok
}

// Modifier returns the transport's cost multiplier for a terrain,
// defaulting to 1.0 for terrains absent from the table.
func (s TransportSpec) Modifier(t Type) float64 {
	if m, ok := s.Modifiers[t]; ok {
		return m
	}
	return 1.0
}
