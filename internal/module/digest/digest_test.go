package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/project-tktt/empleos-bot/internal/common/markdown"
	"github.com/project-tktt/empleos-bot/internal/config"
	"github.com/project-tktt/empleos-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEditor struct {
	edits map[string]string
	fail  map[string]bool
}

func (f *fakeEditor) EditPost(_ context.Context, id, text string) error {
	if f.fail[id] {
		return errors.New("forbidden")
	}
	if f.edits == nil {
		f.edits = make(map[string]string)
	}
	f.edits[id] = text
	return nil
}

var testNow = time.Date(2024, 3, 15, 8, 30, 0, 0, time.Local)

func newTestDigest(editor Editor, budget int) *Digest {
	format := markdown.NewFormatter(config.FooterConfig{HelpURL: "h", ContactURL: "c", SourceURL: "s"})
	return New(editor, format, config.DigestConfig{
		MinSalary:   8000,
		Budget:      budget,
		PostIDs:     []string{"p1", "p2"},
		RefreshNote: "Se actualiza cada 15 minutos.",
	}, 72*time.Hour)
}

func listings(n int) []*domain.Listing {
	out := make([]*domain.Listing, n)
	for i := range out {
		out[i] = &domain.Listing{
			Salary:   30000 - i*100,
			Title:    "Oferta Número " + fmt.Sprint(i) + " - Compañía",
			Location: "Querétaro, Querétaro",
			URL:      "http://x/" + fmt.Sprint(i),
		}
	}
	return out
}

func TestDigest_Intro(t *testing.T) {
	d := newTestDigest(nil, 39000)
	assert.Equal(t,
		"Las ofertas aqui presentes no son mayores a 3 días.\n\n"+
			"Se actualiza cada 15 minutos. Ordenado por Salario Neto Mensual (MXN).\n\n"+
			markdown.TableHeader,
		d.Intro())
}

func TestDigest_SalaryFloor(t *testing.T) {
	d := newTestDigest(nil, 39000)
	ls := []*domain.Listing{
		{Salary: 12000, Title: "A - X", Location: "Sonora", URL: "http://x/a"},
		{Salary: 8000, Title: "B - X", Location: "Sonora", URL: "http://x/b"},
		{Salary: 7999, Title: "C - X", Location: "Sonora", URL: "http://x/c"},
	}

	msg, rows := d.Build(ls, testNow)
	assert.Equal(t, 2, rows)
	assert.Contains(t, msg, "http://x/b")
	assert.NotContains(t, msg, "http://x/c")
}

func TestDigest_Budget(t *testing.T) {
	for _, budget := range []int{1000, 5000, 39000} {
		t.Run(fmt.Sprint(budget), func(t *testing.T) {
			d := newTestDigest(nil, budget)
			footer := d.format.DigestFooter(testNow)

			msg, rows := d.Build(listings(500), testNow)
			require.True(t, strings.HasSuffix(msg, footer), "footer is always appended")

			body := strings.TrimSuffix(msg, footer)
			assert.LessOrEqual(t, utf8.RuneCountInString(body), budget)
			assert.Equal(t, rows, strings.Count(body, "http://x/"))

			// The next row would not have fit
			if rows < 500 {
				next := d.format.Row(listings(500)[rows])
				assert.Greater(t, utf8.RuneCountInString(body)+utf8.RuneCountInString(next), budget)
			}
		})
	}
}

func TestDigest_BudgetTooSmall(t *testing.T) {
	editor := &fakeEditor{}
	d := newTestDigest(editor, 0)
	intro := utf8.RuneCountInString(d.Intro())

	d.cfg.Budget = intro
	require.NoError(t, d.Validate())
	msg, rows := d.Build(listings(3), testNow)
	assert.Zero(t, rows)
	assert.Equal(t, d.Intro()+d.format.DigestFooter(testNow), msg)

	d.cfg.Budget = intro - 1
	assert.ErrorIs(t, d.Validate(), ErrBudgetTooSmall)

	err := d.Publish(context.Background(), listings(3), testNow)
	assert.ErrorIs(t, err, ErrBudgetTooSmall)
	assert.Empty(t, editor.edits)
}

func TestDigest_Publish(t *testing.T) {
	editor := &fakeEditor{fail: map[string]bool{"p2": true}}
	d := newTestDigest(editor, 39000)

	err := d.Publish(context.Background(), listings(3), testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p2")

	require.Contains(t, editor.edits, "p1")
	assert.Contains(t, editor.edits["p1"], "^Última ^actualización: ^15-03-2024")
	assert.Contains(t, editor.edits["p1"], "$30,000")
}
