// Package main fills the catalog database with generated translations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"transcatalog/internal/config"
	"transcatalog/internal/db"
	"transcatalog/internal/logger"
	"transcatalog/internal/repository"
	"transcatalog/internal/seed"
	"transcatalog/internal/snowflake"
)

func main() {
	var cfg seed.Config
	flag.IntVar(&cfg.Count, "count", seed.DefaultCount, "number of translations to create")
	flag.IntVar(&cfg.BatchSize, "batch", seed.DefaultBatchSize, "rows per transaction")
	flag.Uint64Var(&cfg.Seed, "seed", 0, "random seed for reproducibility (0 = random)")
	flag.Parse()

	appCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Init(logger.ParseLevel(appCfg.LogLevel), appCfg.LogFormat)

	if err := snowflake.Init(appCfg.SnowflakeNode); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := db.Open(appCfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	n, err := seed.Run(ctx, repository.NewTranslationRepository(conn), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (wrote %d)\n", err, n)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d translations into %s\n", n, appCfg.DBPath)
}
