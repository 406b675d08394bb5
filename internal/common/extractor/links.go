package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const detailMarker = "detalleoferta"

// Link is a detail page reference found on a category listing page
type Link struct {
	ID   string
	Href string
}

// ListingLinks returns the detail links found in the first table of a
// listing page, in document order. Duplicate ids are reported once.
func ListingLinks(sel *goquery.Selection) []Link {
	var links []Link
	seen := make(map[string]bool)

	sel.Find("table").First().Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, detailMarker) {
			return
		}

		id := href[strings.LastIndex(href, "=")+1:]
		if id == "" || strings.ContainsAny(id, "/\\") || seen[id] {
			return
		}
		seen[id] = true
		links = append(links, Link{ID: id, Href: href})
	})

	return links
}
