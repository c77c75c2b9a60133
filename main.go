package main

import (
	"context"
	"log"
	"time"

	"healthmigrate/internal/config"
	"healthmigrate/internal/migrate"
	"healthmigrate/internal/mongodb"
	"healthmigrate/internal/storage"
)

func main() {
	// run owns the deferred cleanup so the connection is released even on
	// an aborted run; log.Fatalf only fires after the defers have run.
	if err := run(); err != nil {
		log.Fatalf("[MIGRATE] Aborted: %v", err)
	}
	log.Printf("[MIGRATE] Migration completed successfully")
}

func run() error {
	cfg := config.Load()
	ctx := context.Background()

	client, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database,
		time.Duration(cfg.Mongo.ConnectTimeoutSec)*time.Second)
	if err != nil {
		return err
	}
	defer client.Close()

	var store *storage.RunStore
	if cfg.RunLogPath != "" {
		store, err = storage.OpenRunStore(cfg.RunLogPath)
		if err != nil {
			// Advisory only — the migration still runs without history.
			log.Printf("[RUNLOG] Disabled: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	return migrate.Run(ctx, cfg, client, store)
}
