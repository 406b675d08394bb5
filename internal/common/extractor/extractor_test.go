package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/project-tktt/empleos-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageFields struct {
	salary   string
	title    string
	location string
	days     string
	hours    string
	url      string
}

func validFields() pageFields {
	return pageFields{
		salary:   "$9,000.00",
		title:    "Analista de Datos - ACME",
		location: "Jalisco, Guadalajara",
		days:     "L Ma Mi J V",
		hours:    "08:00 - 17:00",
		url:      "https://www.empleo.gob.mx//detalleoferta?id=123",
	}
}

// detailPage renders the fields at the positions the site template uses
func detailPage(f pageFields) string {
	field := func(v string) string {
		return "<div><div><div><span>" + v + "</span></div></div></div>"
	}

	var b strings.Builder
	b.WriteString(`<html><head>`)
	if f.url != "" {
		b.WriteString(`<meta property="og:url" content="` + f.url + `">`)
	}
	b.WriteString(`</head><body><div>`)
	b.WriteString(strings.Repeat("<div></div>", 7))
	b.WriteString(`<div>`)
	b.WriteString(`<div><div><h3><small>` + f.title + `</small></h3></div></div>`)
	b.WriteString(`<div></div><div></div>`)
	b.WriteString(`<div><div><div></div><div><div>`)
	b.WriteString(field(f.salary))
	b.WriteString(field(f.location))
	b.WriteString(field("Tiempo completo"))
	b.WriteString(field("Licenciatura"))
	b.WriteString(field(f.days))
	b.WriteString(field(f.hours))
	b.WriteString(`</div></div></div></div>`)
	b.WriteString(`</div></div></body></html>`)
	return b.String()
}

func TestExtractor_Listing(t *testing.T) {
	e := New(DefaultPaths())

	got, err := e.Listing(strings.NewReader(detailPage(validFields())))
	require.NoError(t, err)

	want := &domain.Listing{
		Salary:   9000,
		Title:    "Analista de Datos - ACME",
		Location: "Jalisco, Guadalajara",
		URL:      "https://www.empleo.gob.mx/detalleoferta?id=123",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Listing() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractor_Scheduled(t *testing.T) {
	e := New(DefaultPaths())

	f := validFields()
	f.hours = "08:00 - 02:00"
	got, err := e.Scheduled(strings.NewReader(detailPage(f)))
	require.NoError(t, err)

	assert.Equal(t, "analista datos", got.Offer)
	assert.Equal(t, 9000, got.Salary)
	assert.Equal(t, 800, got.Schedule.StartHour)
	assert.Equal(t, 200, got.Schedule.EndHour)
	assert.InDelta(t, 18.0, got.Schedule.HoursWorked, 1e-9)
	assert.Equal(t, 5, got.Schedule.DaysWorked())
	assert.Equal(t, "Jalisco", got.State)
	assert.Equal(t, "Guadalajara", got.Municipality)
}

func TestExtractor_Failures(t *testing.T) {
	e := New(DefaultPaths())

	tests := []struct {
		name      string
		mutate    func(*pageFields)
		scheduled bool
		field     string
		sentinel  error
	}{
		{"empty salary", func(f *pageFields) { f.salary = "" }, false, FieldSalary, nil},
		{"non numeric salary", func(f *pageFields) { f.salary = "A convenir" }, false, FieldSalary, nil},
		{"empty title", func(f *pageFields) { f.title = "" }, false, FieldTitle, nil},
		{"missing url", func(f *pageFields) { f.url = "" }, false, FieldURL, ErrNodeNotFound},
		{"bad hours", func(f *pageFields) { f.hours = "Variable" }, true, FieldHours, nil},
		{"location without municipality", func(f *pageFields) { f.location = "Jalisco" }, true, FieldLocation, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			page := strings.NewReader(detailPage(f))

			var err error
			if tt.scheduled {
				_, err = e.Scheduled(page)
			} else {
				_, err = e.Listing(page)
			}
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			assert.Equal(t, tt.field, pe.Field)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestExtractor_NodeCardinality(t *testing.T) {
	e := New(DefaultPaths())

	_, err := e.Listing(strings.NewReader("<html><body><p>Oferta no disponible</p></body></html>"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Equal(t, "salary: missing", Reason(err))

	page := detailPage(validFields())
	page = strings.Replace(page, "</head>", `<meta property="og:url" content="https://x/other"></head>`, 1)
	_, err = e.Listing(strings.NewReader(page))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousNode)
	assert.Equal(t, "url: ambiguous", Reason(err))
}

func TestExtractor_CustomPaths(t *testing.T) {
	paths := DefaultPaths()
	paths.Salary = "//span[@class='sueldo']"
	e := New(paths)

	page := strings.Replace(detailPage(validFields()), "<body>", `<body><span class="sueldo">$12,500.75</span>`, 1)
	// The extra span shifts nothing: it is not a div.
	got, err := e.Listing(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, 12500, got.Salary)
}

func TestReason(t *testing.T) {
	assert.Equal(t, "other", Reason(errors.New("boom")))
	assert.Equal(t, "hours: malformed", Reason(&ParseError{Field: FieldHours, Err: errors.New("x")}))
}

func TestListingLinks(t *testing.T) {
	page := `<html><body>
<div><a href="/detalleoferta?oferta=999">fuera de la tabla</a></div>
<table>
  <tr><td><a href="/empleo/detalleoferta.do?method=init&id_oferta_empleo=101">Uno</a></td></tr>
  <tr><td><a href="/empleo/detalleoferta.do?method=init&id_oferta_empleo=102">Dos</a></td></tr>
  <tr><td><a href="/empleo/detalleoferta.do?method=init&id_oferta_empleo=101">Uno otra vez</a></td></tr>
  <tr><td><a href="/empleo/ayuda.do">Ayuda</a></td></tr>
</table>
<table><tr><td><a href="/empleo/detalleoferta.do?method=init&id_oferta_empleo=201">Segunda tabla</a></td></tr></table>
</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	got := ListingLinks(doc.Selection)
	want := []Link{
		{ID: "101", Href: "/empleo/detalleoferta.do?method=init&id_oferta_empleo=101"},
		{ID: "102", Href: "/empleo/detalleoferta.do?method=init&id_oferta_empleo=102"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListingLinks() mismatch (-want +got):\n%s", diff)
	}
}
