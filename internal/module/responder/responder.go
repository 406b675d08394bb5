package responder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/project-tktt/empleos-bot/internal/common/joblog"
	"github.com/project-tktt/empleos-bot/internal/common/markdown"
	"github.com/project-tktt/empleos-bot/internal/config"
	"github.com/project-tktt/empleos-bot/internal/domain"
	"github.com/project-tktt/empleos-bot/internal/reddit"
)

// NoResultsMessage is sent when a query matches nothing
const NoResultsMessage = "Lo siento. No pude encontrar ofertas con los parámetros especificados."

// Thread is the part of the Reddit API the responder needs
type Thread interface {
	Comments(ctx context.Context, submissionID string) ([]reddit.Comment, error)
	Reply(ctx context.Context, commentID, text string) error
}

// Stats summarizes one responder run
type Stats struct {
	Seen     int
	Replied  int
	Invalid  int
	Failed   int
	Answered int // Already in the reply log
}

type Responder struct {
	thread  Thread
	replies joblog.ReplyStore
	format  *markdown.Formatter
	cfg     config.ResponderConfig
}

func New(thread Thread, replies joblog.ReplyStore, format *markdown.Formatter, cfg config.ResponderConfig) *Responder {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.Trigger == "" {
		cfg.Trigger = "!empleos"
	}
	return &Responder{thread: thread, replies: replies, format: format, cfg: cfg}
}

// Render builds the reply for already filtered rows and returns the row count
func (r *Responder) Render(rows []*domain.Listing, now time.Time) (string, int) {
	if len(rows) == 0 {
		return NoResultsMessage, 0
	}

	var b strings.Builder
	b.WriteString(markdown.TableHeader)
	for _, l := range rows {
		b.WriteString(r.format.Row(l))
	}
	b.WriteString(r.format.QueryFooter(now))
	return b.String(), len(rows)
}

// Answer parses a comment body and renders the reply for it
func (r *Responder) Answer(listings []*domain.Listing, body string, now time.Time) (string, int, error) {
	q, err := ParseCommand(body, r.cfg.Trigger)
	if err != nil {
		return "", 0, err
	}
	msg, n := r.Render(Filter(listings, q, r.cfg.MaxResults), now)
	return msg, n, nil
}

// Run answers every new command comment on the configured submissions.
// listings must be sorted by salary descending.
func (r *Responder) Run(ctx context.Context, listings []*domain.Listing, now time.Time) (Stats, error) {
	var stats Stats
	var errs []error

	for _, submission := range r.cfg.SubmissionIDs {
		comments, err := r.thread.Comments(ctx, submission)
		if err != nil {
			log.Printf("[Responder] List comments of %s: %v", submission, err)
			errs = append(errs, err)
			continue
		}

		for _, c := range comments {
			stats.Seen++
			if err := r.handle(ctx, listings, c, now, &stats); err != nil {
				// The reply log could not be written; stop before answering twice
				return stats, fmt.Errorf("record reply %s: %w", c.ID, err)
			}
		}
	}

	log.Printf("[Responder] Seen %d comments: replied %d, invalid %d, failed %d, already answered %d",
		stats.Seen, stats.Replied, stats.Invalid, stats.Failed, stats.Answered)
	return stats, errors.Join(errs...)
}

// handle returns an error only when the reply log fails
func (r *Responder) handle(ctx context.Context, listings []*domain.Listing, c reddit.Comment, now time.Time, stats *Stats) error {
	done, err := r.replies.Contains(ctx, c.ID)
	if err != nil {
		return err
	}
	if done {
		stats.Answered++
		return nil
	}
	if !strings.Contains(c.Body, r.cfg.Trigger) {
		return nil
	}

	msg, n, err := r.Answer(listings, c.Body, now)
	if err != nil {
		log.Printf("[Responder] Ignoring comment %s: %v", c.ID, err)
		stats.Invalid++
		return r.replies.Add(ctx, c.ID)
	}

	if err := r.thread.Reply(ctx, c.ID, msg); err != nil {
		log.Printf("[Responder] Reply to %s: %v", c.ID, err)
		stats.Failed++
		return nil
	}
	log.Printf("[Responder] Replied to %s with %d offers", c.ID, n)
	stats.Replied++
	return r.replies.Add(ctx, c.ID)
}
