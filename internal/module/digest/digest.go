package digest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/project-tktt/empleos-bot/internal/common/markdown"
	"github.com/project-tktt/empleos-bot/internal/config"
	"github.com/project-tktt/empleos-bot/internal/domain"
)

// Editor replaces the body of an existing post
type Editor interface {
	EditPost(ctx context.Context, postID, text string) error
}

// ErrBudgetTooSmall means the intro alone does not fit the budget
var ErrBudgetTooSmall = errors.New("digest budget smaller than intro")

type Digest struct {
	editor    Editor
	format    *markdown.Formatter
	cfg       config.DigestConfig
	retention time.Duration
}

func New(editor Editor, format *markdown.Formatter, cfg config.DigestConfig, retention time.Duration) *Digest {
	return &Digest{editor: editor, format: format, cfg: cfg, retention: retention}
}

// Intro is the text above the table
func (d *Digest) Intro() string {
	days := int(d.retention.Hours() / 24)
	var b strings.Builder
	fmt.Fprintf(&b, "Las ofertas aqui presentes no son mayores a %d días.\n\n", days)
	if d.cfg.RefreshNote != "" {
		b.WriteString(d.cfg.RefreshNote)
		b.WriteString(" ")
	}
	b.WriteString("Ordenado por Salario Neto Mensual (MXN).\n\n")
	b.WriteString(markdown.TableHeader)
	return b.String()
}

// Validate checks that the intro fits within the budget
func (d *Digest) Validate() error {
	if n := utf8.RuneCountInString(d.Intro()); d.cfg.Budget < n {
		return fmt.Errorf("%w: budget %d, intro %d", ErrBudgetTooSmall, d.cfg.Budget, n)
	}
	return nil
}

// Build renders the digest. listings must be sorted by salary descending.
// Rows are added while the message stays within the budget; the first row that
// does not fit ends the table. The footer is always appended.
func (d *Digest) Build(listings []*domain.Listing, now time.Time) (msg string, rows int) {
	var b strings.Builder
	b.WriteString(d.Intro())
	size := utf8.RuneCountInString(b.String())

	for _, l := range listings {
		if l.Salary < d.cfg.MinSalary {
			continue
		}
		row := d.format.Row(l)
		n := utf8.RuneCountInString(row)
		if size+n > d.cfg.Budget {
			break
		}
		b.WriteString(row)
		size += n
		rows++
	}

	b.WriteString(d.format.DigestFooter(now))
	return b.String(), rows
}

// Publish edits every configured post with the digest. Nothing is edited
// when the budget cannot hold the intro.
func (d *Digest) Publish(ctx context.Context, listings []*domain.Listing, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	msg, rows := d.Build(listings, now)
	log.Printf("[Digest] Built digest with %d of %d offers (%d chars)", rows, len(listings), utf8.RuneCountInString(msg))

	var errs []error
	for _, id := range d.cfg.PostIDs {
		if err := d.editor.EditPost(ctx, id, msg); err != nil {
			log.Printf("[Digest] Edit post %s: %v", id, err)
			errs = append(errs, fmt.Errorf("edit post %s: %w", id, err))
			continue
		}
		log.Printf("[Digest] Updated post %s", id)
	}
	return errors.Join(errs...)
}
