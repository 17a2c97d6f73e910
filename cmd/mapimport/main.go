// Command mapimport converts a map image into the map save-file format
// by sampling each grid cell's average color.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/hexcrawl/internal/entropy"
	"github.com/talgya/hexcrawl/internal/imageconv"
	"github.com/talgya/hexcrawl/internal/travel"
	"github.com/talgya/hexcrawl/internal/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		in   = flag.String("in", "", "source image (png or jpeg)")
		cols = flag.Int("cols", 20, "grid columns")
		rows = flag.Int("rows", 15, "grid rows")
		out  = flag.String("out", "map.json", "output file")
	)
	flag.Parse()

	if *in == "" {
		slog.Error("missing -in image path")
		os.Exit(1)
	}

	records, err := imageconv.Convert(*in, *cols, *rows)
	if err != nil {
		slog.Error("conversion failed", "error", err)
		os.Exit(1)
	}

	ledger := travel.New(entropy.Crypto())
	sf := world.SaveFile{
		ID:              uuid.NewString(),
		CurrentPosition: [3]int{0, 0, 0},
		Hexes:           records,
		TravelData:      ledger.Save(),
		Width:           *cols,
		Height:          *rows,
		Generator:       "image",
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

	slog.Info("image converted",
		"in", *in,
		"hexes", humanize.Comma(int64(len(records))),
		"out", *out,
	)
}
