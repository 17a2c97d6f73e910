// Package describe generates flavor text for revealed tiles: an
// Ollama-protocol client with a cache-first policy and a canned-text
// fallback, plus the single-worker queue that decouples generation from
// the interactive loop.
package describe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/talgya/hexcrawl/internal/entropy"
	"github.com/talgya/hexcrawl/internal/hex"
	"github.com/talgya/hexcrawl/internal/terrain"
)

const (
	// DefaultBaseURL is the local Ollama endpoint.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is the generation model requested from the server.
	DefaultModel = "qwen2.5:3b"

	generateTimeout = 10 * time.Second
	probeTimeout    = time.Second
)

// CacheStore is an optional persistent backing for the description
// cache. Lookups and writes must be cheap; failures are logged, never
// surfaced.
type CacheStore interface {
	GetDescription(t terrain.Type, q, r int) (string, bool)
	PutDescription(t terrain.Type, q, r int, description string) error
}

// Client requests tile descriptions from a local text-generation server,
// caching by (terrain, coordinate) and falling back to canned text when
// the server is unreachable.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	rng        entropy.Source

	mu        sync.Mutex
	available bool
	cache     map[string]string
	store     CacheStore
}

// NewClient creates a client and probes the server once. A nil store
// means in-memory caching only.
func NewClient(baseURL, model string, rng entropy.Source, store CacheStore) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	c := &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: generateTimeout},
		rng:        rng,
		cache:      make(map[string]string),
		store:      store,
	}
	c.available = c.probe()
	if !c.available {
		slog.Info("description server not detected, using fallback text", "url", baseURL)
	}
	return c
}

// Available reports whether the generation server responded to the last
// probe or call.
func (c *Client) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

// probe checks the server's model listing with a short timeout.
func (c *Client) probe() bool {
	probeClient := &http.Client{Timeout: probeTimeout}
	resp, err := probeClient.Get(c.baseURL + "/api/tags")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func cacheKey(t terrain.Type, c hex.Coord) string {
	return fmt.Sprintf("%s_%d_%d", t, c.Q, c.R)
}

// Describe returns a short description for a tile: cache first, then the
// generation server, then canned fallback text. Never fails; server
// unavailability is recovered locally.
func (c *Client) Describe(t terrain.Type, coord hex.Coord) string {
	key := cacheKey(t, coord)

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return cached
	}
	store := c.store
	available := c.available
	c.mu.Unlock()

	if store != nil {
		if cached, ok := store.GetDescription(t, coord.Q, coord.R); ok {
			c.mu.Lock()
			c.cache[key] = cached
			c.mu.Unlock()
			return cached
		}
	}

	if !available {
		return c.Fallback(t)
	}

	desc, err := c.generate(t, coord)
	if err != nil {
		slog.Debug("description generation failed", "terrain", t, "coord", coord.String(), "error", err)
		c.mu.Lock()
		c.available = false
		c.mu.Unlock()
		return c.Fallback(t)
	}

	c.mu.Lock()
	c.cache[key] = desc
	c.mu.Unlock()
	if store != nil {
		if err := store.PutDescription(t, coord.Q, coord.R, desc); err != nil {
			slog.Debug("description cache write failed", "error", err)
		}
	}
	return desc
}

// generateRequest is the Ollama /api/generate request body.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float64 `json:"temperature"`
	TopK        int     `json:"top_k"`
	TopP        float64 `json:"top_p"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *Client) generate(t terrain.Type, coord hex.Coord) (string, error) {
	hint := ""
	if props, ok := terrain.Catalog[t]; ok {
		hint = fmt.Sprintf(" (%s)", props.Description)
	}
	prompt := fmt.Sprintf(
		"Generate a brief, evocative description (2-3 sentences) for a hex tile in a fantasy map.\n"+
			"The terrain is: %s%s.\n"+
			"Location: hex coordinates (%d, %d).\n"+
			"Make it atmospheric and hint at potential discoveries or dangers.\n"+
			"Description:", t, hint, coord.Q, coord.R)

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			NumPredict:  50,
			Temperature: 0.7,
			TopK:        30,
			TopP:        0.85,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/api/generate", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("generate call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	desc := strings.TrimSpace(gr.Response)
	if desc == "" {
		return "", fmt.Errorf("empty response")
	}
	return desc, nil
}
