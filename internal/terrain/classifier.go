package terrain

import (
	"github.com/talgya/hexcrawl/internal/entropy"
	"github.com/talgya/hexcrawl/internal/hex"
)

// Coherence probability: chance a new tile copies an existing
// neighbor's terrain instead of drawing fresh.
const coherenceChance = 0.6

// Classifier assigns terrain to newly created tiles.
type Classifier interface {
	// Pick chooses a terrain for the tile at c given the terrains of
	// already-created neighbor tiles (possibly empty).
	Pick(c hex.Coord, neighbors []Type) Type
}

// CoherentClassifier is the simple exploration-time classifier: 60% of
// the time it copies a neighbor for spatially coherent regions, else it
// draws uniformly from the basic vocabulary. The coordinate is unused.
type CoherentClassifier struct {
	Rand entropy.Source
}

// NewCoherentClassifier builds a classifier over the given roll source.
func NewCoherentClassifier(src entropy.Source) *CoherentClassifier {
	return &CoherentClassifier{Rand: src}
}

// Pick implements Classifier.
func (c *CoherentClassifier) Pick(_ hex.Coord, neighbors []Type) Type {
	if len(neighbors) > 0 && c.Rand.Float() < coherenceChance {
		return neighbors[c.Rand.IntN(len(neighbors))]
	}
	return BasicTypes[c.Rand.IntN(len(BasicTypes))]
}

// NoiseClassifier adapts a Generator to the Classifier seam. Neighbor
// terrain is ignored — spatial coherence comes from the noise fields.
type NoiseClassifier struct {
	Gen *Generator
}

// Pick implements Classifier.
func (n *NoiseClassifier) Pick(c hex.Coord, _ []Type) Type {
	return n.Gen.Terrain(c)
}
