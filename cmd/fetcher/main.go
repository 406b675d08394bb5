package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/project-tktt/empleos-bot/internal/common/joblog"
	"github.com/project-tktt/empleos-bot/internal/config"
	"github.com/project-tktt/empleos-bot/internal/module/fetcher"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting listing fetcher")

	cfg, err := config.LoadWithFile(config.FilePath())
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := run(ctx, cfg)
	if err != nil {
		log.Printf("Fetch aborted after %d saved pages: %v", stats.Saved, err)
		os.Exit(1)
	}
	log.Printf("Fetch complete: %d categories, %d links, %d saved, %d already on disk",
		stats.Categories, stats.Links, stats.Saved, stats.Skipped)
}

func run(ctx context.Context, cfg *config.Config) (fetcher.Stats, error) {
	lock, err := joblog.AcquireLock(filepath.Join(cfg.Paths.LockDir, "fetcher"), cfg.Paths.LockMaxAge)
	if err != nil {
		return fetcher.Stats{}, err
	}
	defer lock.Release()

	f, err := fetcher.New(cfg.Fetcher, cfg.Paths.StatesRoot, joblog.NewProcessedLog(cfg.Paths.ProcessedLog), cfg.Now)
	if err != nil {
		return fetcher.Stats{}, fmt.Errorf("create fetcher: %w", err)
	}
	return f.Run(ctx)
}
