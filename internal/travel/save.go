package travel

import (
	"github.com/talgya/hexcrawl/internal/terrain"
)

// SaveData is the serialized form of the ledger, matching the
// travel_data block of the map save file.
type SaveData struct {
	Days            int     `json:"days"`
	Hours           float64 `json:"hours"`
	Movement        float64 `json:"movement"`
	Pace            string  `json:"pace"`
	Exhaustion      int     `json:"exhaustion"`
	Transport       string  `json:"transport"`
	Supplies        float64 `json:"supplies"`
	MountExhaustion int     `json:"mount_exhaustion"`
	HasRanger       bool    `json:"has_ranger"`
	HasNavigator    bool    `json:"has_navigator"`
	HasOutlander    bool    `json:"has_outlander"`
	FavoredTerrain  *string `json:"favored_terrain"`
}

// Save captures the ledger for serialization. MaxMovement is derived,
// not stored.
func (s *State) Save() SaveData {
	var favored *string
	if s.FavoredTerrain != "" {
		f := string(s.FavoredTerrain)
		favored = &f
	}
	return SaveData{
		Days:            s.DaysTraveled,
		Hours:           s.HoursTraveled,
		Movement:        s.MovementPoints,
		Pace:            string(s.Pace),
		Exhaustion:      s.ExhaustionLevel,
		Transport:       string(s.Transport),
		Supplies:        s.Supplies,
		MountExhaustion: s.MountExhaustion,
		HasRanger:       s.HasRanger,
		HasNavigator:    s.HasNavigator,
		HasOutlander:    s.HasOutlander,
		FavoredTerrain:  favored,
	}
}

// Load restores the ledger from saved data. Unknown pace or transport
// tags fall back to the defaults rather than failing the load. Movement
// points are kept as the saved absolute value, clamped to the derived
// maximum, so a save/load round trip is identity.
func (s *State) Load(d SaveData) {
	s.DaysTraveled = d.Days
	s.HoursTraveled = d.Hours
	s.ExhaustionLevel = d.Exhaustion
	s.MountExhaustion = d.MountExhaustion
	s.Supplies = d.Supplies
	s.HasRanger = d.HasRanger
	s.HasNavigator = d.HasNavigator
	s.HasOutlander = d.HasOutlander

	s.Pace = terrain.Pace(d.Pace)
	if !terrain.ValidPace(s.Pace) {
		s.Pace = terrain.PaceNormal
	}
	s.Transport = terrain.Transport(d.Transport)
	if !terrain.ValidTransport(s.Transport) {
		s.Transport = terrain.OnFoot
	}

	s.FavoredTerrain = ""
	if d.FavoredTerrain != nil {
		s.FavoredTerrain = terrain.Type(*d.FavoredTerrain)
	}

	// Derive the max for the restored transport/pace/navigator, then
	// reinstate the saved absolute points.
	s.MaxMovement = 0
	s.recompute(true)
	s.MovementPoints = d.Movement
	if s.MovementPoints > s.MaxMovement {
		s.MovementPoints = s.MaxMovement
	}
	if s.MovementPoints < 0 {
		s.MovementPoints = 0
	}
}
