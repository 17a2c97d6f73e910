// Command hexcrawl runs the hex-crawl expedition server: the sparse
// world map, the travel ledger, the description-generation queue, and
// the HTTP control surface.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexcrawl/internal/api"
	"github.com/talgya/hexcrawl/internal/describe"
	"github.com/talgya/hexcrawl/internal/entropy"
	"github.com/talgya/hexcrawl/internal/persistence"
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
		loadPath = flag.String("load", "", "map save file to resume from")
		seed     = flag.Int64("seed", 0, "world seed (0 = random, coherence-mode terrain)")
		port     = flag.Int("port", envInt("HEXCRAWL_PORT", 8080), "HTTP API port")
		dbPath   = flag.String("db", envStr("HEXCRAWL_DB", "data/hexcrawl.db"), "SQLite path for the description cache")
	)
	flag.Parse()

	ollamaURL := envStr("HEXCRAWL_OLLAMA_URL", describe.DefaultBaseURL)
	model := envStr("HEXCRAWL_MODEL", describe.DefaultModel)
	adminKey := os.Getenv("HEXCRAWL_ADMIN_KEY")

	slog.Info("hexcrawl starting")

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if n, err := db.DescriptionCount(); err == nil {
		slog.Info("database opened", "path", *dbPath, "cached_descriptions", humanize.Comma(int64(n)))
	}

	// ── Randomness ────────────────────────────────────────────────────
	// A seed gives a replayable session; otherwise rolls come from
	// crypto/rand.
	var rolls entropy.Source
	if *seed != 0 {
		rolls = entropy.Seeded(*seed)
	} else {
		rolls = entropy.Crypto()
	}

	// ── Generation pipeline ───────────────────────────────────────────
	client := describe.NewClient(ollamaURL, model, entropy.Locked(entropy.Crypto()), db)
	queue := describe.NewQueue(client)

	// ── World map ─────────────────────────────────────────────────────
	var classifier terrain.Classifier
	generatorName := "coherent"
	if *seed != 0 {
		classifier = &terrain.NoiseClassifier{Gen: terrain.NewGenerator(*seed)}
		generatorName = "noise"
	} else {
		classifier = terrain.NewCoherentClassifier(rolls)
	}

	ledger := travel.New(rolls)
	m := world.NewMap(classifier, queue, ledger)
	m.GeneratorName = generatorName
	if *seed != 0 {
		m.TerrainSeed = seed
	}

	if *loadPath != "" {
		if err := m.LoadJSON(*loadPath); err != nil {
			slog.Error("failed to load map", "path", *loadPath, "error", err)
			os.Exit(1)
		}
		slog.Info("map loaded",
			"path", *loadPath,
			"tiles", humanize.Comma(int64(m.TileCount())),
			"position", m.CurrentPosition.String(),
		)
	} else {
		m.Initialize()
		slog.Info("expedition started",
			"tiles", m.TileCount(),
			"generator", generatorName,
			"movement", ledger.MovementPoints,
		)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	server := &api.Server{
		Map:      m,
		Queue:    queue,
		DB:       db,
		Port:     *port,
		AdminKey: adminKey,
	}
	server.Start()

	// ── Wait for shutdown ─────────────────────────────────────────────
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	slog.Info("shutting down")
	if !queue.Cancel(2 * time.Second) {
		slog.Warn("generation worker did not stop in time")
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
