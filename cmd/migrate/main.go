package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ms-boxoffice/internal/config"
	"ms-boxoffice/internal/database"
	"ms-boxoffice/internal/database/migrations"
	eventsdb "ms-boxoffice/internal/events/db"
	events "ms-boxoffice/internal/events/service"
	"ms-boxoffice/internal/logger"
	seatsdb "ms-boxoffice/internal/seats/db"
	seats "ms-boxoffice/internal/seats/service"
)

func main() {
	down := flag.Bool("down", false, "roll back every schema migration")
	reset := flag.Bool("reset", false, "roll back and reapply every schema migration")
	showVersion := flag.Bool("version", false, "print the applied schema version and exit")
	seed := flag.Bool("seed", false, "seed the default seat layout and demo event")
	flag.Parse()

	_ = godotenv.Load() // Loads .env file if present
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx := context.Background()
	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open database: %v", err))
	}
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{AutoMigrate: true, DropExisting: *reset}, log)

	if *showVersion {
		version, dirty, ok, err := runner.Version(ctx)
		if err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
		if !ok {
			log.Info("MIGRATE", "No migration applied yet")
			return
		}
		log.Info("MIGRATE", fmt.Sprintf("Schema version %d (dirty: %t)", version, dirty))
		return
	}

	if *down {
		if err := runner.MigrateDown(ctx); err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
		log.Info("MIGRATE", "Schema rolled back")
		return
	}

	if err := runner.RunMigrations(ctx); err != nil {
		log.Fatal("MIGRATE", err.Error())
	}

	if *seed {
		created, err := seats.NewSeatService(&seatsdb.DB{Bun: bunDB}, nil, log).SeedDefault(ctx)
		if err != nil {
			log.Fatal("SEED", err.Error())
		}
		seeded, err := events.NewEventService(&eventsdb.DB{Bun: bunDB}, nil, log).SeedDemo(ctx)
		if err != nil {
			log.Fatal("SEED", err.Error())
		}
		log.Info("SEED", fmt.Sprintf("Seats created: %d, demo event created: %t", created, seeded))
	}
	log.Info("MIGRATE", "Schema is up to date")
}
