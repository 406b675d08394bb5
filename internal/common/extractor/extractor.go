package extractor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/project-tktt/empleos-bot/internal/common/normalizer"
	"github.com/project-tktt/empleos-bot/internal/domain"
	"golang.org/x/net/html"
)

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrAmbiguousNode = errors.New("more than one node matched")
)

// Field names reported in ParseError
const (
	FieldDocument = "document"
	FieldSalary   = "salary"
	FieldTitle    = "title"
	FieldLocation = "location"
	FieldURL      = "url"
	FieldHours    = "hours"
	FieldDays     = "days"
)

// ParseError reports which field made a page unusable
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Paths holds the structural lookups for a detail page.
// All fields except CanonicalURL are XPath expressions; CanonicalURL is a CSS selector
// whose "content" attribute holds the URL.
type Paths struct {
	Salary       string
	Title        string
	Location     string
	Hours        string
	Days         string
	CanonicalURL string
}

const detailRoot = "/html/body/div[1]/div[8]"

// DefaultPaths matches the detail page template of the listing site
func DefaultPaths() Paths {
	return Paths{
		Salary:       detailRoot + "/div[4]/div/div[2]/div/div[1]/div/div/span",
		Title:        detailRoot + "/div[1]/div/h3/small",
		Location:     detailRoot + "/div[4]/div/div[2]/div/div[2]/div/div/span",
		Days:         detailRoot + "/div[4]/div/div[2]/div/div[5]/div/div/span",
		Hours:        detailRoot + "/div[4]/div/div[2]/div/div[6]/div/div/span",
		CanonicalURL: "meta[property='og:url']",
	}
}

// Extractor turns saved detail pages into listings. It holds no mutable state
// and is safe for concurrent use.
type Extractor struct {
	paths Paths
}

// New creates an extractor for the given paths
func New(paths Paths) *Extractor {
	return &Extractor{paths: paths}
}

// Listing extracts salary, title, location and canonical URL
func (e *Extractor) Listing(r io.Reader) (*domain.Listing, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, &ParseError{Field: FieldDocument, Err: err}
	}

	salary, err := e.salary(doc)
	if err != nil {
		return nil, err
	}

	title, err := e.text(doc, FieldTitle, e.paths.Title)
	if err != nil {
		return nil, err
	}

	location, err := e.text(doc, FieldLocation, e.paths.Location)
	if err != nil {
		return nil, err
	}

	url, err := e.canonicalURL(doc)
	if err != nil {
		return nil, err
	}

	return &domain.Listing{
		Salary:   salary,
		Title:    title,
		Location: location,
		URL:      url,
	}, nil
}

// Scheduled extracts the tabular variant. Identity fields (ID, Category, Date)
// are left for the caller, which knows where the page came from.
func (e *Extractor) Scheduled(r io.Reader) (*domain.ScheduledListing, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, &ParseError{Field: FieldDocument, Err: err}
	}

	salary, err := e.salary(doc)
	if err != nil {
		return nil, err
	}

	title, err := e.text(doc, FieldTitle, e.paths.Title)
	if err != nil {
		return nil, err
	}

	hoursText, err := e.text(doc, FieldHours, e.paths.Hours)
	if err != nil {
		return nil, err
	}
	start, end, worked, err := normalizer.ParseHours(hoursText)
	if err != nil {
		return nil, &ParseError{Field: FieldHours, Err: err}
	}

	daysText, err := e.text(doc, FieldDays, e.paths.Days)
	if err != nil {
		return nil, err
	}

	location, err := e.text(doc, FieldLocation, e.paths.Location)
	if err != nil {
		return nil, err
	}
	state, municipality, err := normalizer.SplitLocation(location)
	if err != nil {
		return nil, &ParseError{Field: FieldLocation, Err: err}
	}

	return &domain.ScheduledListing{
		Offer:  normalizer.CleanOffer(title),
		Salary: salary,
		Schedule: domain.Schedule{
			StartHour:   start,
			EndHour:     end,
			HoursWorked: worked,
			Days:        normalizer.ParseDays(daysText),
		},
		State:        state,
		Municipality: municipality,
	}, nil
}

func (e *Extractor) salary(doc *html.Node) (int, error) {
	raw, err := e.text(doc, FieldSalary, e.paths.Salary)
	if err != nil {
		return 0, err
	}
	salary, err := normalizer.ParseSalary(raw)
	if err != nil {
		return 0, &ParseError{Field: FieldSalary, Err: err}
	}
	return salary, nil
}

// text returns the trimmed text of the single node matching expr
func (e *Extractor) text(doc *html.Node, field, expr string) (string, error) {
	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		return "", &ParseError{Field: field, Err: fmt.Errorf("compile xpath: %w", err)}
	}
	switch {
	case len(nodes) == 0:
		return "", &ParseError{Field: field, Err: ErrNodeNotFound}
	case len(nodes) > 1:
		return "", &ParseError{Field: field, Err: ErrAmbiguousNode}
	}

	text := strings.TrimSpace(htmlquery.InnerText(nodes[0]))
	if text == "" {
		return "", &ParseError{Field: field, Err: normalizer.ErrEmpty}
	}
	return text, nil
}

func (e *Extractor) canonicalURL(doc *html.Node) (string, error) {
	sel := goquery.NewDocumentFromNode(doc).Find(e.paths.CanonicalURL)
	switch {
	case sel.Length() == 0:
		return "", &ParseError{Field: FieldURL, Err: ErrNodeNotFound}
	case sel.Length() > 1:
		return "", &ParseError{Field: FieldURL, Err: ErrAmbiguousNode}
	}

	content, ok := sel.Attr("content")
	content = strings.TrimSpace(content)
	if !ok || content == "" {
		return "", &ParseError{Field: FieldURL, Err: normalizer.ErrEmpty}
	}
	return strings.ReplaceAll(content, "x//", "x/"), nil
}

// Reason maps an extraction error to a short label for drop counters
func Reason(err error) string {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return "other"
	}
	switch {
	case errors.Is(pe.Err, ErrNodeNotFound):
		return pe.Field + ": missing"
	case errors.Is(pe.Err, ErrAmbiguousNode):
		return pe.Field + ": ambiguous"
	default:
		return pe.Field + ": malformed"
	}
}
