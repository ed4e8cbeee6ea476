package main

import (
	"context"
	"flag"
	"os"

	"noteful/internal/auth"
	"noteful/internal/config"
	"noteful/internal/logging"
	"noteful/internal/seed"
	"noteful/internal/store/sqlstore"
)

func main() {
	path := flag.String("file", "seed.yaml", "YAML seed file")
	reset := flag.Bool("reset", false, "delete all existing data before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "info", "console").Fatal().Err(err).Msg("Failed to load config")
	}
	log := logging.New(os.Stderr, cfg.LogLevel, "console")

	f, err := seed.LoadFile(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("Failed to read seed file")
	}

	store, err := sqlstore.New(cfg.DBDriver, cfg.DBConn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer store.Close()

	ctx := context.Background()
	if *reset {
		if err := store.Reset(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to reset database")
			store.Close()
			os.Exit(1)
		}
		log.Info().Msg("Reset database")
	}

	sum, err := seed.Run(ctx, store, auth.NewBcryptHasher(0), f)
	if err != nil {
		log.Error().Err(err).Msg("Seeding stopped")
		store.Close()
		os.Exit(1)
	}

	log.Info().
		Int("users", sum.Users).
		Int("folders", sum.Folders).
		Int("tags", sum.Tags).
		Int("notes", sum.Notes).
		Msg("Seeded database")
}
