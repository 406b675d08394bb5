package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/project-tktt/empleos-bot/internal/common/dedup"
	"github.com/project-tktt/empleos-bot/internal/common/extractor"
	"github.com/project-tktt/empleos-bot/internal/common/joblog"
	"github.com/project-tktt/empleos-bot/internal/common/markdown"
	"github.com/project-tktt/empleos-bot/internal/config"
	"github.com/project-tktt/empleos-bot/internal/module/listings"
	"github.com/project-tktt/empleos-bot/internal/module/responder"
	"github.com/project-tktt/empleos-bot/internal/module/worker"
	"github.com/project-tktt/empleos-bot/internal/reddit"
	"github.com/project-tktt/empleos-bot/internal/scheduler"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting comment responder")

	cfg, err := config.LoadWithFile(config.FilePath())
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}
	if len(cfg.Responder.SubmissionIDs) == 0 {
		log.Fatalf("No submission ids configured (SUBMISSION_IDS or submission_ids in %s)", config.FilePath())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Responder failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	lock, err := joblog.AcquireLock(filepath.Join(cfg.Paths.LockDir, "responder"), cfg.Paths.LockMaxAge)
	if err != nil {
		return err
	}
	defer lock.Release()

	replies, closeReplies, err := openReplies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open reply log: %w", err)
	}
	defer closeReplies()

	client := reddit.NewClient(cfg.Reddit)
	if err := client.Login(ctx); err != nil {
		return fmt.Errorf("reddit login: %w", err)
	}

	loader := listings.NewLoader(
		joblog.NewProcessedLog(cfg.Paths.ProcessedLog),
		extractor.New(extractor.DefaultPaths()),
		worker.Config{Concurrency: cfg.Listings.Concurrency, Name: "Responder"},
	)
	bot := responder.New(client, replies, markdown.NewFormatter(cfg.Footer), cfg.Responder)

	return scheduler.Run(ctx, "Responder", cfg.Responder.Schedule, func(ctx context.Context) error {
		now := cfg.Now()
		recent, err := loader.Recent(ctx, now, cfg.Listings.Retention)
		if err != nil {
			return fmt.Errorf("load listings: %w", err)
		}
		_, err = bot.Run(ctx, recent, now)
		return err
	})
}

// openReplies returns the configured reply store. The Redis backend is seeded
// with the ids of the reply log file so switching backends never re-answers.
func openReplies(ctx context.Context, cfg *config.Config) (joblog.ReplyStore, func(), error) {
	file, err := joblog.OpenReplyLog(cfg.Paths.ReplyLog)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Responder.ReplyLogBackend {
	case "", "file":
		log.Printf("[Responder] Reply log %s holds %d ids", cfg.Paths.ReplyLog, file.Len())
		return file, func() {}, nil
	case "redis":
	default:
		return nil, nil, fmt.Errorf("unknown reply log backend %q", cfg.Responder.ReplyLogBackend)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("redis connection failed: %w", err)
	}

	set := dedup.NewReplySet(rdb, cfg.Redis.ReplyKey, 0)
	if err := set.Import(ctx, file.IDs()); err != nil {
		rdb.Close()
		return nil, nil, err
	}
	n, err := set.Len(ctx)
	if err != nil {
		rdb.Close()
		return nil, nil, err
	}
	log.Printf("[Responder] Redis reply set %s holds %d ids", cfg.Redis.ReplyKey, n)

	return set, func() { rdb.Close() }, nil
}
