package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/project-tktt/empleos-bot/internal/common/extractor"
	"github.com/project-tktt/empleos-bot/internal/common/joblog"
	"github.com/project-tktt/empleos-bot/internal/common/markdown"
	"github.com/project-tktt/empleos-bot/internal/config"
	"github.com/project-tktt/empleos-bot/internal/module/digest"
	"github.com/project-tktt/empleos-bot/internal/module/listings"
	"github.com/project-tktt/empleos-bot/internal/module/worker"
	"github.com/project-tktt/empleos-bot/internal/reddit"
	"github.com/project-tktt/empleos-bot/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting digest publisher")

	cfg, err := config.LoadWithFile(config.FilePath())
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}
	if len(cfg.Digest.PostIDs) == 0 {
		log.Fatalf("No post ids configured (POST_IDS or post_ids in %s)", config.FilePath())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := reddit.NewClient(cfg.Reddit)
	if err := client.Login(ctx); err != nil {
		log.Fatalf("Reddit login: %v", err)
	}

	loader := listings.NewLoader(
		joblog.NewProcessedLog(cfg.Paths.ProcessedLog),
		extractor.New(extractor.DefaultPaths()),
		worker.Config{Concurrency: cfg.Listings.Concurrency, Name: "Digest"},
	)
	d := digest.New(client, markdown.NewFormatter(cfg.Footer), cfg.Digest, cfg.Listings.Retention)
	if err := d.Validate(); err != nil {
		log.Fatalf("Digest config: %v", err)
	}

	err = scheduler.Run(ctx, "Digest", cfg.Digest.Schedule, func(ctx context.Context) error {
		now := cfg.Now()
		recent, err := loader.Recent(ctx, now, cfg.Listings.Retention)
		if err != nil {
			return fmt.Errorf("load listings: %w", err)
		}
		return d.Publish(ctx, recent, now)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Digest failed: %v", err)
		os.Exit(1)
	}
}
