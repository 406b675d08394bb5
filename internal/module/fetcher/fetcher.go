package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/project-tktt/empleos-bot/internal/common/extractor"
	"github.com/project-tktt/empleos-bot/internal/common/joblog"
	"github.com/project-tktt/empleos-bot/internal/config"
	"github.com/project-tktt/empleos-bot/internal/domain"
)

// Stats summarizes one fetcher run
type Stats struct {
	Categories int
	Links      int
	Saved      int
	Skipped    int // Already on disk
}

// Fetcher downloads new detail pages for every category
type Fetcher struct {
	cfg        config.FetcherConfig
	base       *url.URL
	root       string
	log        *joblog.ProcessedLog
	now        func() time.Time
	categories []domain.Category

	listing *colly.Collector
	detail  *colly.Collector
}

// New creates a fetcher saving pages under root. now gives the timestamp
// recorded in the processed log.
func New(cfg config.FetcherConfig, root string, pl *joblog.ProcessedLog, now func() time.Time) (*Fetcher, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if now == nil {
		now = time.Now
	}

	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.Timeout)
	c.WithTransport(newRetryTransport(http.DefaultTransport, cfg.MaxRetries))

	// Parallelism 1 with a fixed delay spaces every request, listing and detail alike
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       cfg.RequestDelay,
		Parallelism: 1,
	}); err != nil {
		return nil, fmt.Errorf("set limit rule: %w", err)
	}

	// Clones share the HTTP backend and its limits
	return &Fetcher{
		cfg:        cfg,
		base:       base,
		root:       root,
		log:        pl,
		now:        now,
		categories: domain.Categories(),
		listing:    c.Clone(),
		detail:     c.Clone(),
	}, nil
}

// WithCategories limits the run to the given categories
func (f *Fetcher) WithCategories(cats []domain.Category) *Fetcher {
	f.categories = cats
	return f
}

// PagePath returns where a listing page is stored
func (f *Fetcher) PagePath(cat domain.Category, id string) string {
	return filepath.Join(f.root, cat.Key, id+".html")
}

// Run fetches every category in order. The first transport failure ends the run.
// Pages answered with an error status are saved like any other.
func (f *Fetcher) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	for _, cat := range f.categories {
		if err := os.MkdirAll(filepath.Join(f.root, cat.Key), 0o755); err != nil {
			return stats, fmt.Errorf("create category folder: %w", err)
		}
	}

	for _, cat := range f.categories {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := f.fetchCategory(ctx, cat, &stats); err != nil {
			return stats, fmt.Errorf("category %s: %w", cat.Key, err)
		}
		stats.Categories++
	}

	log.Printf("[Fetcher] Done: %d categories, %d links, %d saved, %d already on disk",
		stats.Categories, stats.Links, stats.Saved, stats.Skipped)
	return stats, nil
}

func (f *Fetcher) fetchCategory(ctx context.Context, cat domain.Category, stats *Stats) error {
	listURL := f.base.JoinPath(cat.Slug).String()
	log.Printf("[Fetcher] Downloading %s", listURL)

	links, err := f.links(listURL)
	if err != nil {
		return err
	}
	stats.Links += len(links)

	for _, link := range links {
		path := f.PagePath(cat, link.ID)
		if _, err := os.Stat(path); err == nil {
			stats.Skipped++
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		detailURL, err := f.resolve(link.Href)
		if err != nil {
			return err
		}
		body, status, err := f.page(detailURL)
		if err != nil {
			return err
		}
		if status >= http.StatusBadRequest {
			log.Printf("[Fetcher] %s answered %d, saving body as is", detailURL, status)
		}

		if err := writePage(path, body); err != nil {
			return err
		}
		if err := f.log.Append(path, f.now()); err != nil {
			return err
		}
		stats.Saved++
		log.Printf("[Fetcher] Saved %s", path)
	}
	return nil
}

// links visits a category listing page and returns its detail links
func (f *Fetcher) links(listURL string) ([]extractor.Link, error) {
	var links []extractor.Link

	c := f.listing.Clone()
	c.ParseHTTPErrorResponse = true
	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode >= http.StatusBadRequest {
			log.Printf("[Fetcher] %s answered %d", listURL, r.StatusCode)
		}
	})
	c.OnHTML("html", func(e *colly.HTMLElement) {
		links = extractor.ListingLinks(e.DOM)
	})

	if err := c.Visit(listURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", listURL, err)
	}
	return links, nil
}

// page visits a detail page and returns its body and status. Only transport
// errors are returned; an error status still yields the body.
func (f *Fetcher) page(detailURL string) ([]byte, int, error) {
	var (
		body   []byte
		status int
	)

	c := f.detail.Clone()
	c.ParseHTTPErrorResponse = true
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		status = r.StatusCode
	})

	if err := c.Visit(detailURL); err != nil {
		return nil, 0, fmt.Errorf("visit %s: %w", detailURL, err)
	}
	return body, status, nil
}

func (f *Fetcher) resolve(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", href, err)
	}
	return f.base.ResolveReference(ref).String(), nil
}

// writePage stores body at path through a temp file in the same folder.
// A partial write never lands at path.
func writePage(path string, body []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".page-*")
	if err != nil {
		return fmt.Errorf("create temp page: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write page %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close page %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename page %s: %w", path, err)
	}
	return nil
}
