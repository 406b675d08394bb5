package responder

import (
	"strings"

	"github.com/project-tktt/empleos-bot/internal/common/normalizer"
	"github.com/project-tktt/empleos-bot/internal/domain"
)

// Matches reports whether a listing satisfies every supplied constraint
func Matches(l *domain.Listing, q domain.Query) bool {
	if !strings.Contains(normalizer.Fold(l.Location), q.Location) {
		return false
	}
	if q.MinSalary != nil && l.Salary < *q.MinSalary {
		return false
	}
	if q.MaxSalary != nil && l.Salary > *q.MaxSalary {
		return false
	}
	if q.Tag != "" && !strings.Contains(normalizer.Fold(l.Title), q.Tag) {
		return false
	}
	return true
}

// Filter returns at most limit matching listings. listings must already be
// sorted by salary descending; that order is kept.
func Filter(listings []*domain.Listing, q domain.Query, limit int) []*domain.Listing {
	var out []*domain.Listing
	for _, l := range listings {
		if len(out) >= limit {
			break
		}
		if Matches(l, q) {
			out = append(out, l)
		}
	}
	return out
}
