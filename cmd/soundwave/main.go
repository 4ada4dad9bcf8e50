package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"soundwave/internal/logging"
	"soundwave/internal/objectstore"
	"soundwave/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logging.Setup(cfg.Logging)

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.DatabaseURL, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	dataStore := store.New(db)

	assets, err := objectstore.New(ctx, cfg.ObjectStore)
	if err != nil {
		log.Fatal().Err(err).Msg("object storage unavailable")
	}

	if err := bootstrapDemoData(ctx, db, dataStore); err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	handler := newHTTPHandler(cfg, dataStore, assets)

	log.Info().Str("addr", cfg.Addr).Msg("API listening")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
