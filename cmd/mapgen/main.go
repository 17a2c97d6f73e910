// Command mapgen batch-generates a complete map from a world seed using
// the noise classifier and writes it in the map save-file format.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/hexcrawl/internal/entropy"
	"github.com/talgya/hexcrawl/internal/hex"
	"github.com/talgya/hexcrawl/internal/terrain"
	"github.com/talgya/hexcrawl/internal/travel"
	"github.com/talgya/hexcrawl/internal/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		seed   = flag.Int64("seed", 0, "world seed (0 = random)")
		width  = flag.Int("width", 40, "map width in hexes")
		height = flag.Int("height", 30, "map height in hexes")
		out    = flag.String("out", "map.json", "output file")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = rand.Int63()
	}

	gen := terrain.NewGenerator(*seed)
	counts := make(map[terrain.Type]int)

	records := make([]world.TileRecord, 0, *width**height)
	for r := -*height / 2; r < *height-*height/2; r++ {
		for q := -*width / 2; q < *width-*width/2; q++ {
			sample := gen.At(hex.Axial(q, r))
			counts[sample.Terrain]++

			records = append(records, world.TileRecord{
				Q:           q,
				R:           r,
				S:           -q - r,
				Terrain:     string(sample.Terrain),
				Description: terrain.Catalog[sample.Terrain].Description,
				Explored:    false,
				Visible:     true,
			})
		}
	}

	ledger := travel.New(entropy.Seeded(*seed))
	sf := world.SaveFile{
		ID:              uuid.NewString(),
		CurrentPosition: [3]int{0, 0, 0},
		Hexes:           records,
		TravelData:      ledger.Save(),
		TerrainSeed:     seed,
		Seed:            seed,
		Width:           *width,
		Height:          *height,
		Generator:       "noise",
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		slog.Error("marshal map", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		slog.Error("write map", "path", *out, "error", err)
		os.Exit(1)
	}

	// Terrain distribution, largest first.
	type tc struct {
		t terrain.Type
		n int
	}
	var dist []tc
	for t, n := range counts {
		dist = append(dist, tc{t, n})
	}
	sort.Slice(dist, func(i, j int) bool { return dist[i].n > dist[j].n })
	for _, d := range dist {
		slog.Info("terrain", "type", d.t, "count", d.n)
	}

	slog.Info("map generated",
		"seed", *seed,
		"hexes", humanize.Comma(int64(len(records))),
		"out", *out,
	)
}
