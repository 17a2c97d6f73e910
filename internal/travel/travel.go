// Package travel implements the movement-point ledger: pace and transport
// selection, terrain-priced movement, supplies, exhaustion, rest, and
// forced marches.
package travel

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/hexcrawl/internal/entropy"
	"github.com/talgya/hexcrawl/internal/terrain"
)

// Gating failures. Callers match with errors.Is and surface the message
// to the player; these are rule denials, never crashes.
var (
	// ErrImpassable means the terrain cannot be entered by the current
	// transport no matter how many points remain.
	ErrImpassable = errors.New("terrain is impassable")
	// ErrInsufficientMovement means the cost exceeds remaining points.
	ErrInsufficientMovement = errors.New("not enough movement points")
)

const (
	navigatorBonus    = 1.1
	rangerFootCap     = 1.0
	supplyDecayChance = 0.1
	supplyDecayAmount = 0.1
	restSupplyCost    = 1.0
	maxSupplies       = 30.0
	forcedMarchPoints = 2.0
	forcedMarchHours  = 2.0
	exhaustionChance  = 0.3
	fullDayHours      = 8.0
)

// Trait is a party capability toggle.
type Trait uint8

const (
	Ranger Trait = iota
	Navigator
	Outlander
)

// State is the per-session travel ledger.
type State struct {
	Pace            terrain.Pace
	Transport       terrain.Transport
	MovementPoints  float64
	MaxMovement     float64
	HoursTraveled   float64
	DaysTraveled    int
	Supplies        float64
	ExhaustionLevel int
	MountExhaustion int

	HasRanger    bool
	HasNavigator bool
	HasOutlander bool
	// FavoredTerrain is the ranger's favored terrain; empty means none.
	FavoredTerrain terrain.Type

	rng entropy.Source
}

// New creates a fresh ledger: on foot at normal pace with a full
// movement budget and 10 days of supplies. Stochastic rolls (supply
// decay, exhaustion checks) draw from src.
func New(src entropy.Source) *State {
	s := &State{
		Pace:      terrain.PaceNormal,
		Transport: terrain.OnFoot,
		Supplies:  10,
		rng:       src,
	}
	s.recompute(true)
	return s
}

// recompute derives MaxMovement from transport, pace, and the navigator
// bonus. Current points are rescaled to preserve the remaining fraction,
// except when restoreFull is set (immediately after a rest), which
// force-sets them to the new max.
func (s *State) recompute(restoreFull bool) {
	spec := terrain.Transports[s.Transport]
	base := spec.BaseHexesPer8h[s.Pace]
	if s.HasNavigator {
		base *= navigatorBonus
	}

	oldMax := s.MaxMovement
	s.MaxMovement = base
	if restoreFull || oldMax <= 0 {
		s.MovementPoints = base
	} else {
		s.MovementPoints = base * (s.MovementPoints / oldMax)
	}
}

// MovementCost prices entering a terrain under the current transport.
// A ranger halves the modifier on favored terrain, and on foot never
// pays more than one point — but gets no exemption from impassability.
func (s *State) MovementCost(t terrain.Type) float64 {
	base := terrain.MovementCost(t)
	spec := terrain.Transports[s.Transport]
	mod := spec.Modifier(t)

	if s.HasRanger && s.FavoredTerrain != "" && t == s.FavoredTerrain {
		mod *= 0.5
	}
	if mod >= terrain.Impassable {
		return terrain.Impassable
	}

	cost := base * mod
	if cost >= terrain.Impassable {
		return terrain.Impassable
	}
	if s.HasRanger && s.Transport == terrain.OnFoot {
		cost = math.Min(cost, rangerFootCap)
	}
	return cost
}

// CanEnter reports whether the party may enter the terrain right now.
// The returned error is ErrImpassable or ErrInsufficientMovement with a
// displayable message, or nil.
func (s *State) CanEnter(t terrain.Type) error {
	cost := s.MovementCost(t)
	if cost >= terrain.Impassable {
		return fmt.Errorf("%w: %s by %s", ErrImpassable, t, terrain.Transports[s.Transport].Name)
	}
	if cost > s.MovementPoints {
		return fmt.Errorf("%w: need %.1f, have %.1f", ErrInsufficientMovement, cost, s.MovementPoints)
	}
	return nil
}

// ConsumeFor spends movement for entering a terrain: decrements points,
// accrues travel hours proportional to the day's budget, and decays
// supplies with a fixed 10% chance per move. Fails with the CanEnter
// error without mutating anything.
func (s *State) ConsumeFor(t terrain.Type) error {
	if err := s.CanEnter(t); err != nil {
		return err
	}
	cost := s.MovementCost(t)
	s.MovementPoints -= cost
	s.HoursTraveled += (cost / s.MaxMovement) * fullDayHours

	if s.rng.Float() < supplyDecayChance {
		s.Supplies = math.Max(0, s.Supplies-supplyDecayAmount)
	}
	return nil
}

// Rest takes a long rest: movement restored to max, the travel clock
// reset, a day counted, both exhaustion counters eased, and a day of
// supplies consumed.
func (s *State) Rest() {
	s.recompute(true)
	s.HoursTraveled = 0
	s.DaysTraveled++

	if s.ExhaustionLevel > 0 {
		s.ExhaustionLevel--
	}
	if s.MountExhaustion > 0 {
		s.MountExhaustion--
	}
	s.Supplies = math.Max(0, s.Supplies-restSupplyCost)
}

// ForcedMarch pushes past the day's budget for +2 points and +2 hours.
// Returns false for transports that never need rest (they gain nothing
// from forcing). Marching when already past a full day risks exhaustion:
// a 30% roll against the mount for resistant transports, else the party.
func (s *State) ForcedMarch() bool {
	spec := terrain.Transports[s.Transport]
	if !spec.RequiresRest {
		return false
	}

	if s.HoursTraveled >= fullDayHours && s.rng.Float() < exhaustionChance {
		if spec.ExhaustionResistant {
			s.MountExhaustion++
		} else {
			s.ExhaustionLevel++
		}
	}

	s.MovementPoints += forcedMarchPoints
	s.HoursTraveled += forcedMarchHours
	return true
}

// ChangePace sets the travel pace. Unknown paces are a no-op returning
// false. Points rescale to keep the remaining fraction.
func (s *State) ChangePace(p terrain.Pace) bool {
	if !terrain.ValidPace(p) {
		return false
	}
	s.Pace = p
	s.recompute(false)
	return true
}

// ChangeTransport sets the travel mode. Unknown modes are a no-op
// returning false.
func (s *State) ChangeTransport(t terrain.Transport) bool {
	if !terrain.ValidTransport(t) {
		return false
	}
	s.Transport = t
	s.recompute(false)
	return true
}

// EffectiveExhaustion returns the counter that actually burdens the
// party: the mount's for exhaustion-resistant transports, else its own.
func (s *State) EffectiveExhaustion() int {
	if terrain.Transports[s.Transport].ExhaustionResistant {
		return s.MountExhaustion
	}
	return s.ExhaustionLevel
}

// Resupply adds days of supplies, clamped to the 30-day ceiling.
func (s *State) Resupply(days int) {
	s.Supplies = math.Min(maxSupplies, s.Supplies+float64(days))
}

// Toggle flips a party trait. Toggling the navigator recomputes the
// movement budget since the bonus changes MaxMovement.
func (s *State) Toggle(tr Trait) bool {
	switch tr {
	case Ranger:
		s.HasRanger = !s.HasRanger
	case Navigator:
		s.HasNavigator = !s.HasNavigator
		s.recompute(false)
	case Outlander:
		s.HasOutlander = !s.HasOutlander
	default:
		return false
	}
	return true
}

// SetFavoredTerrain sets the ranger's favored terrain. Empty clears it;
// unknown tags are rejected.
func (s *State) SetFavoredTerrain(t terrain.Type) bool {
	if t != "" && !terrain.Known(t) {
		return false
	}
	s.FavoredTerrain = t
	return true
}
