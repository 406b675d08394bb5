package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/project-tktt/empleos-bot/internal/common/extractor"
	"github.com/project-tktt/empleos-bot/internal/common/indexer"
	"github.com/project-tktt/empleos-bot/internal/common/joblog"
	"github.com/project-tktt/empleos-bot/internal/config"
	"github.com/project-tktt/empleos-bot/internal/module/listings"
	"github.com/project-tktt/empleos-bot/internal/module/worker"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting listing exporter")

	cfg, err := config.LoadWithFile(config.FilePath())
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := listings.NewLoader(
		joblog.NewProcessedLog(cfg.Paths.ProcessedLog),
		extractor.New(extractor.DefaultPaths()),
		worker.Config{Concurrency: cfg.Listings.Concurrency, Name: "Export"},
	)

	records, err := loader.Scheduled(ctx)
	if err != nil {
		log.Fatalf("Load listings: %v", err)
	}

	sinks, err := indexer.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Open sinks: %v", err)
	}

	err = sinks.BulkIndex(ctx, records)
	if closeErr := sinks.Close(); closeErr != nil {
		log.Printf("Close sinks: %v", closeErr)
	}
	if err != nil {
		log.Printf("Export failed: %v", err)
		os.Exit(1)
	}
	log.Printf("[Export] Wrote %d listings to %v", len(records), cfg.Export.Sinks)
}
