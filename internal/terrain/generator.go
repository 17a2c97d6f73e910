// Noise-based terrain classification using layered opensimplex fields.
// A Generator is a pure function of (seed, coordinate): identical inputs
// always yield identical terrain, so maps regenerate exactly from a seed.
package terrain

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexcrawl/internal/hex"
)

// Noise layer seed strides relative to the world seed.
const (
	mountainSeedOffset    = 100
	moistureSeedOffset    = 1000
	temperatureSeedOffset = 2000
	detailSeedOffset      = 3000
)

const (
	baseScale = 0.015 // base spatial frequency for all layers
	mapExtent = 150.0 // reference radius for the island falloff
)

// Generator samples layered coherent-noise fields and classifies biomes.
type Generator struct {
	seed int64

	continental opensimplex.Noise
	mountains   opensimplex.Noise
	moisture    opensimplex.Noise
	temperature opensimplex.Noise
	detail      opensimplex.Noise
}

// NewGenerator creates a generator for the given world seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		seed:        seed,
		continental: opensimplex.New(seed),
		mountains:   opensimplex.New(seed + mountainSeedOffset),
		moisture:    opensimplex.New(seed + moistureSeedOffset),
		temperature: opensimplex.New(seed + temperatureSeedOffset),
		detail:      opensimplex.New(seed + detailSeedOffset),
	}
}

// Seed returns the world seed the generator was built from.
func (g *Generator) Seed() int64 { return g.seed }

// Sample holds the environmental fields at one point plus the biome
// they classify to.
type Sample struct {
	Elevation   float64 `json:"elevation"`
	Moisture    float64 `json:"moisture"`
	Temperature float64 `json:"temperature"`
	Terrain     Type    `json:"terrain"`
}

// Elevation samples the layered elevation field at a cartesian point.
// Continental, mountain, and detail layers blend 0.7/0.25/0.05, then the
// result is rescaled and given a radial falloff past 70% of the map
// extent to shape island-like landmasses. Output is clamped to [-1, 1].
func (g *Generator) Elevation(x, y float64) float64 {
	continental := octaveNoise(g.continental, x, y, 4, baseScale*0.3, 0.5, 2.0)
	mountains := octaveNoise(g.mountains, x, y, 6, baseScale*1.5, 0.7, 2.5)
	detail := octaveNoise(g.detail, x, y, 2, baseScale*5, 0.3, 3.0)

	elev := continental*0.7 + mountains*0.25 + detail*0.05
	elev = elev*1.2 + 0.1

	distFromCenter := math.Sqrt(x*x+y*y) / mapExtent
	if distFromCenter > 0.7 {
		elev -= (distFromCenter - 0.7) * 0.3
	}

	return clamp(elev, -1, 1)
}

// Moisture samples the moisture field at a point, adjusted for elevation:
// higher ground is drier, and the coastal band near sea level gets a
// humidity boost. Output is renormalized to [0, 1].
func (g *Generator) Moisture(x, y, elev float64) float64 {
	base := octaveNoise(g.moisture, x, y, 4, baseScale*1.5, 0.6, 2.0)

	elevMod := math.Max(0, 1-elev*1.5)
	if elev > -0.1 && elev < 0.1 {
		elevMod += 0.3
	}

	m := base*0.7 + elevMod*0.3
	return clamp((m+1)/2, 0, 1)
}

// Temperature samples temperature at a point: a three-zone latitude band
// (equatorial/temperate/arctic), small-scale noise, and elevation-driven
// cooling. Output is clamped to [-1, 1].
func (g *Generator) Temperature(x, y, elev float64) float64 {
	latitude := math.Abs(y / 30)
	var latTemp float64
	switch {
	case latitude < 0.3: // equatorial
		latTemp = 0.9
	case latitude < 0.6: // temperate
		latTemp = 0.5 - (latitude-0.3)*1.5
	default: // arctic
		latTemp = -0.2 - (latitude-0.6)*2.0
	}

	noise := octaveNoise(g.temperature, x, y, 3, baseScale*0.5, 0.4, 2.0)
	elevMod := -math.Max(0, elev) * 0.6

	return clamp(latTemp+noise*0.3+elevMod, -1, 1)
}

// At samples all fields at a hex coordinate and classifies the biome.
func (g *Generator) At(c hex.Coord) Sample {
	// Hex cube → cartesian: x = q + r/2, y = r * sqrt(3)/2.
	x := float64(c.Q) + float64(c.R)*0.5
	y := float64(c.R) * 0.866

	elev := g.Elevation(x, y)
	moist := g.Moisture(x, y, elev)
	temp := g.Temperature(x, y, elev)

	t := Classify(elev, moist, temp)

	// Lakes and rivers are injected with bounded probability where the
	// fields qualify. The rolls come from a stream keyed on (seed, q, r)
	// so the override is still a pure function of seed and coordinate.
	rng := rand.New(rand.NewSource(g.seed + int64(c.Q)*1000 + int64(c.R)))
	if elev > 0.1 && elev < 0.4 && moist > 0.8 && rng.Float64() < 0.1 {
		t = Lake
	} else if elev > 0.05 && elev < 0.6 && moist > 0.6 && rng.Float64() < 0.05 {
		t = River
	}

	return Sample{Elevation: elev, Moisture: moist, Temperature: temp, Terrain: t}
}

// Terrain classifies the biome at a hex coordinate.
func (g *Generator) Terrain(c hex.Coord) Type {
	return g.At(c).Terrain
}

// Classify maps (elevation, moisture, temperature) to a biome by the
// elevation-band decision table.
func Classify(elev, moist, temp float64) Type {
	switch {
	case elev < -0.5:
		return DeepOcean
	case elev < -0.2:
		return Ocean
	case elev < -0.05:
		return ShallowWater
	case elev < 0.05:
		// Coastal band.
		switch {
		case temp < -0.5:
			return Tundra
		case moist > 0.7:
			return Swamp
		default:
			return Beach
		}
	}

	switch {
	case elev > 0.85:
		return HighMountains
	case elev > 0.6:
		if temp < -0.3 {
			return HighMountains
		}
		return Mountains
	case elev > 0.3:
		// Highlands.
		switch {
		case temp < -0.5:
			return Tundra
		case temp < 0.0:
			if moist > 0.5 {
				return Forest
			}
			return Hills
		case moist < 0.3:
			return Desert
		case moist > 0.6:
			return Forest
		default:
			return Hills
		}
	}

	// Lowlands.
	switch {
	case temp < -0.7:
		return Ice
	case temp < -0.3:
		return Tundra
	case temp < 0.3:
		// Temperate.
		switch {
		case moist < 0.5:
			return Plains
		case moist < 0.8:
			return Forest
		default:
			return Swamp
		}
	default:
		// Warm/tropical.
		switch {
		case moist < 0.2:
			return Desert
		case moist < 0.7:
			return Savanna
		case moist < 0.9:
			return Jungle
		default:
			return Swamp
		}
	}
}

// octaveNoise layers multiple frequencies of simplex noise into a single
// fractal value in roughly [-1, 1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, frequency, persistence, lacunarity float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	freq := frequency

	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		freq *= lacunarity
	}

	return total / maxVal
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
