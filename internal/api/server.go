// Package api serves the expedition over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (the expedition control plane).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/talgya/hexcrawl/internal/describe"
	"github.com/talgya/hexcrawl/internal/hex"
	"github.com/talgya/hexcrawl/internal/persistence"
	"github.com/talgya/hexcrawl/internal/terrain"
	"github.com/talgya/hexcrawl/internal/travel"
	"github.com/talgya/hexcrawl/internal/world"
)

// Server exposes the map, the travel ledger, and the generation queue.
// All map mutations run under one mutex: the interactive loop is
// single-threaded by design, HTTP just queues onto it.
type Server struct {
	Map      *world.Map
	Queue    *describe.Queue
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	mu sync.Mutex
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/map", s.handleMap)
	mux.HandleFunc("/api/v1/tile/", s.handleTile)
	mux.HandleFunc("/api/v1/generation", s.handleGeneration)
	mux.HandleFunc("/api/v1/expeditions", s.handleExpeditions)

	// Action endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/explore", s.adminOnly(s.handleExplore))
	mux.HandleFunc("/api/v1/navigate", s.adminOnly(s.handleNavigate))
	mux.HandleFunc("/api/v1/rest", s.adminOnly(s.handleRest))
	mux.HandleFunc("/api/v1/forced-march", s.adminOnly(s.handleForcedMarch))
	mux.HandleFunc("/api/v1/pace", s.adminOnly(s.handlePace))
	mux.HandleFunc("/api/v1/transport", s.adminOnly(s.handleTransport))
	mux.HandleFunc("/api/v1/resupply", s.adminOnly(s.handleResupply))
	mux.HandleFunc("/api/v1/trait", s.adminOnly(s.handleTrait))
	mux.HandleFunc("/api/v1/save", s.adminOnly(s.handleSave))
	mux.HandleFunc("/api/v1/load", s.adminOnly(s.handleLoad))

	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	handler := s.Handler()
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "action endpoints disabled (no HEXCRAWL_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	t := s.Map.Travel
	status := map[string]any{
		"position":        s.Map.CurrentPosition,
		"tiles":           s.Map.TileCount(),
		"pace":            t.Pace,
		"transport":       t.Transport,
		"movement_points": t.MovementPoints,
		"max_movement":    t.MaxMovement,
		"hours_traveled":  t.HoursTraveled,
		"days_traveled":   t.DaysTraveled,
		"supplies":        t.Supplies,
		"exhaustion":      t.EffectiveExhaustion(),
		"has_ranger":      t.HasRanger,
		"has_navigator":   t.HasNavigator,
		"has_outlander":   t.HasOutlander,
		"favored_terrain": t.FavoredTerrain,
		"generation":      s.Queue.Snapshot(),
	}
	s.mu.Unlock()
	writeJSON(w, status)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	type tileEntry struct {
		Q        int    `json:"q"`
		R        int    `json:"r"`
		S        int    `json:"s"`
		Terrain  string `json:"terrain"`
		Explored bool   `json:"explored"`
		Visible  bool   `json:"visible"`
		Distance int    `json:"distance"`
	}

	s.mu.Lock()
	tiles := make([]tileEntry, 0, s.Map.TileCount())
	for _, t := range s.Map.Tiles {
		tiles = append(tiles, tileEntry{
			Q:        t.Coord.Q,
			R:        t.Coord.R,
			S:        t.Coord.S,
			Terrain:  string(t.Terrain),
			Explored: t.Explored,
			Visible:  t.Visible,
			Distance: t.DistanceFromCurrent,
		})
	}
	pos := s.Map.CurrentPosition
	s.mu.Unlock()

	writeJSON(w, map[string]any{
		"current_position": pos,
		"tiles":            tiles,
	})
}

// handleTile returns one tile's detail: GET /api/v1/tile/{q}/{r}.
func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/tile/"), "/")
	if len(parts) != 2 {
		http.Error(w, "expected /api/v1/tile/{q}/{r}", http.StatusBadRequest)
		return
	}
	q, err1 := strconv.Atoi(parts[0])
	rr, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		http.Error(w, "coordinates must be integers", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	t := s.Map.Get(hex.Axial(q, rr))
	s.mu.Unlock()
	if t == nil {
		http.Error(w, "tile not found", http.StatusNotFound)
		return
	}

	props := terrain.Catalog[t.Terrain]
	writeJSON(w, map[string]any{
		"coord":       t.Coord,
		"terrain":     t.Terrain,
		"description": t.Description,
		"explored":    t.Explored,
		"visible":     t.Visible,
		"generating":  t.Generating,
		"distance":    t.DistanceFromCurrent,
		"move_cost":   props.MovementCost,
	})
}

func (s *Server) handleGeneration(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Queue.Snapshot())
}

func (s *Server) handleExpeditions(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeJSON(w, []persistence.Expedition{})
		return
	}
	list, err := s.DB.ListExpeditions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

// coordBody is the request body for movement actions.
type coordBody struct {
	Q int `json:"q"`
	R int `json:"r"`
	S int `json:"s"`
}

func (s *Server) readCoord(w http.ResponseWriter, r *http.Request) (hex.Coord, bool) {
	var body coordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return hex.Coord{}, false
	}
	c := hex.Coord{Q: body.Q, R: body.R, S: body.S}
	if !c.Valid() {
		http.Error(w, fmt.Sprintf("invalid coordinate %s: q+r+s != 0", c), http.StatusBadRequest)
		return hex.Coord{}, false
	}
	return c, true
}

// denial maps rule errors to 4xx with the displayable reason. Game-rule
// denials are never 5xx.
func denial(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	switch {
	case errors.Is(err, world.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, world.ErrNotExplored),
		errors.Is(err, travel.ErrImpassable),
		errors.Is(err, travel.ErrInsufficientMovement),
		errors.Is(err, world.ErrStillGenerating):
		status = http.StatusConflict
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	c, ok := s.readCoord(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	err := s.Map.Explore(c)
	s.mu.Unlock()
	if err != nil {
		denial(w, err)
		return
	}
	s.handleStatus(w, r)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	c, ok := s.readCoord(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	err := s.Map.Navigate(c)
	s.mu.Unlock()
	if err != nil {
		denial(w, err)
		return
	}
	s.handleStatus(w, r)
}

func (s *Server) handleRest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.Map.RestAndScout()
	s.mu.Unlock()
	s.handleStatus(w, r)
}

func (s *Server) handleForcedMarch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ok := s.Map.Travel.ForcedMarch()
	s.mu.Unlock()
	if !ok {
		denial(w, fmt.Errorf("%s does not benefit from forced marches",
			terrain.Transports[s.Map.Travel.Transport].Name))
		return
	}
	s.handleStatus(w, r)
}

func (s *Server) handlePace(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Pace string `json:"pace"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	ok := s.Map.Travel.ChangePace(terrain.Pace(body.Pace))
	s.mu.Unlock()
	if !ok {
		http.Error(w, fmt.Sprintf("unknown pace %q", body.Pace), http.StatusBadRequest)
		return
	}
	s.handleStatus(w, r)
}

func (s *Server) handleTransport(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Transport string `json:"transport"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	ok := s.Map.Travel.ChangeTransport(terrain.Transport(body.Transport))
	s.mu.Unlock()
	if !ok {
		http.Error(w, fmt.Sprintf("unknown transport %q", body.Transport), http.StatusBadRequest)
		return
	}
	s.handleStatus(w, r)
}

func (s *Server) handleResupply(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Days int `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if body.Days < 0 {
		http.Error(w, "days must be non-negative", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.Map.Travel.Resupply(body.Days)
	s.mu.Unlock()
	s.handleStatus(w, r)
}

func (s *Server) handleTrait(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Trait   string `json:"trait"`
		Favored string `json:"favored_terrain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.Map.Travel
	switch body.Trait {
	case "ranger":
		t.Toggle(travel.Ranger)
	case "navigator":
		t.Toggle(travel.Navigator)
	case "outlander":
		t.Toggle(travel.Outlander)
	case "favored_terrain":
		if !t.SetFavoredTerrain(terrain.Type(body.Favored)) {
			http.Error(w, fmt.Sprintf("unknown terrain %q", body.Favored), http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, fmt.Sprintf("unknown trait %q", body.Trait), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{
		"has_ranger":      t.HasRanger,
		"has_navigator":   t.HasNavigator,
		"has_outlander":   t.HasOutlander,
		"favored_terrain": t.FavoredTerrain,
		"max_movement":    t.MaxMovement,
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Path == "" {
		http.Error(w, "body must include a path", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	snap := s.Map.Snapshot()
	s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := os.WriteFile(body.Path, data, 0644); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if s.DB != nil {
		name := body.Name
		if name == "" {
			name = body.Path
		}
		if err := s.DB.RecordExpedition(snap.ID, name, body.Path); err != nil {
			slog.Warn("expedition index update failed", "error", err)
		}
	}
	writeJSON(w, map[string]any{"id": snap.ID, "path": body.Path, "hexes": len(snap.Hexes)})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Path == "" {
		http.Error(w, "body must include a path", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err := s.Map.LoadJSON(body.Path)
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.handleStatus(w, r)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
