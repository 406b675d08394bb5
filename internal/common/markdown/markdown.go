// Package markdown renders listings as the Markdown tables posted to Reddit.
package markdown

import (
	"fmt"
	"strings"
	"time"

	"github.com/project-tktt/empleos-bot/internal/common/cleaner"
	"github.com/project-tktt/empleos-bot/internal/common/normalizer"
	"github.com/project-tktt/empleos-bot/internal/config"
	"github.com/project-tktt/empleos-bot/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TableHeader starts every listing table
const TableHeader = "Oferta | Empresa | Salario Neto Mensual | Ubicación\n--|--|--|--\n"

// Footer timestamps read like "15-03-2024 ^a ^las ^08:30:00"
const footerTime = "02-01-2006 ^a ^las ^15:04:05"

type Formatter struct {
	cleaner *cleaner.Cleaner
	printer *message.Printer
	links   config.FooterConfig
}

func NewFormatter(links config.FooterConfig) *Formatter {
	return &Formatter{
		cleaner: cleaner.NewCleaner(),
		printer: message.NewPrinter(language.English),
		links:   links,
	}
}

// Row renders one table row, newline included
func (f *Formatter) Row(l *domain.Listing) string {
	offer, company := normalizer.SplitTitle(l.Title)
	return fmt.Sprintf("[%s](%s) | %s | $%s | %s\n",
		f.cleaner.Cell(offer),
		f.cleaner.URL(l.URL),
		f.cleaner.Cell(company),
		f.Salary(l.Salary),
		f.cleaner.Cell(l.Location),
	)
}

// Salary formats with thousands separators: 9000 -> "9,000"
func (f *Formatter) Salary(n int) string {
	return f.printer.Sprintf("%d", n)
}

// QueryFooter closes a reply to a query command
func (f *Formatter) QueryFooter(now time.Time) string {
	var b strings.Builder
	b.WriteString("\n*****\n^Ofertas ^obtenidas ^el: ^")
	b.WriteString(now.Format(footerTime))
	b.WriteString(" ^|\n")
	fmt.Fprintf(&b, "[^Ayuda](%s) ^|\n", f.links.HelpURL)
	fmt.Fprintf(&b, "[^Contacto](%s) ^|\n", f.links.ContactURL)
	fmt.Fprintf(&b, "[^GitHub](%s)", f.links.SourceURL)
	return b.String()
}

// DigestFooter closes the digest post
func (f *Formatter) DigestFooter(now time.Time) string {
	var b strings.Builder
	b.WriteString("\n*****\n^Última ^actualización: ^")
	b.WriteString(now.Format(footerTime))
	b.WriteString(" ^|\n")
	fmt.Fprintf(&b, "^[Ayuda](%s) ^|\n", f.links.HelpURL)
	fmt.Fprintf(&b, "^[Contacto](%s) ^|\n", f.links.ContactURL)
	fmt.Fprintf(&b, "^[GitHub](%s)", f.links.SourceURL)
	return b.String()
}
