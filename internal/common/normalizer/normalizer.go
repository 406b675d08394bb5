package normalizer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/project-tktt/empleos-bot/internal/domain"
)

var (
	ErrEmpty       = errors.New("empty value")
	ErrNegative    = errors.New("negative salary")
	ErrNotFinite   = errors.New("salary is not a finite number")
	ErrBadHours    = errors.New("malformed hour range")
	ErrBadLocation = errors.New("location is not \"state, municipality\"")
)

const (
	unnamedCompany  = "sin nombre"
	unnamedShortcut = "S/N"
)

// Both sides must stay the same length in runes so folding never grows a string
var accentReplacer = strings.NewReplacer(
	"á", "a", "Á", "A",
	"é", "e", "É", "E",
	"í", "i", "Í", "I",
	"ó", "o", "Ó", "O",
	"ú", "u", "Ú", "U",
)

var offerStopWords = map[string]bool{"a": true, "de": true, "en": true}

// CleanWord replaces accented vowels with their plain equivalents.
// Only used on values that are matched or keyed on, never on display text.
func CleanWord(s string) string {
	return accentReplacer.Replace(s)
}

// Fold lowercases and strips accents for locale-insensitive substring matching
func Fold(s string) string {
	return strings.ToLower(CleanWord(s))
}

// ParseSalary turns "$9,500.50" into 9500. Fractions are truncated.
func ParseSalary(s string) (int, error) {
	clean := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if clean == "" {
		return 0, ErrEmpty
	}

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("parse salary %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotFinite
	}
	if f < 0 {
		return 0, ErrNegative
	}
	if f > math.MaxInt32 {
		return 0, fmt.Errorf("parse salary %q: out of range", s)
	}
	return int(math.Trunc(f)), nil
}

// SplitTitle separates "<offer> - <company>" into a display offer and company
func SplitTitle(title string) (offer, company string) {
	parts := strings.Split(title, "-")
	offer = strings.TrimSpace(TitleCase(parts[0]))
	company = strings.TrimSpace(parts[len(parts)-1])

	if strings.Contains(strings.ToLower(company), unnamedCompany) {
		return offer, unnamedShortcut
	}
	return offer, TitleCase(company)
}

// CleanOffer reduces a title to a grouping key: offer part only, lowercase,
// without stop words, numbers or accents.
func CleanOffer(title string) string {
	offer, _, _ := strings.Cut(title, "-")
	offer = strings.TrimSpace(strings.ToLower(offer))

	words := strings.Split(offer, " ")
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if offerStopWords[w] || isDigits(w) {
			continue
		}
		kept = append(kept, w)
	}
	return CleanWord(strings.Join(kept, " "))
}

// TitleCase uppercases the first letter of every run of letters and
// lowercases the rest.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// ParseHours parses "H:MM - H:MM". Start and end are returned as HHMM
// integers; an end at or before the start is taken as the next day.
func ParseHours(s string) (start, end int, hours float64, err error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrBadHours, s)
	}

	startMin, err := parseClock(from)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrBadHours, s)
	}
	endMin, err := parseClock(to)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrBadHours, s)
	}

	start = startMin/60*100 + startMin%60
	end = endMin/60*100 + endMin%60

	elapsed := endMin - startMin
	if endMin <= startMin {
		elapsed += 24 * 60
	}
	return start, end, float64(elapsed) / 60, nil
}

// parseClock returns minutes since midnight for "H:MM". "24:00" is the only
// valid time in hour 24.
func parseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(m) != 2 || !isDigits(h) || !isDigits(m) {
		return 0, ErrBadHours
	}
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	if hour > 24 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, ErrBadHours
	}
	return hour*60 + minute, nil
}

// ParseDays maps the weekday abbreviations shown on the page to flags
func ParseDays(s string) domain.Days {
	return domain.Days{
		strings.Contains(s, "L"),
		strings.Contains(s, "Ma"),
		strings.Contains(s, "Mi"),
		strings.Contains(s, "J"),
		strings.Contains(s, "V"),
		strings.Contains(s, "S"),
		strings.Contains(s, "D"),
	}
}

// SplitLocation splits "state, municipality"
func SplitLocation(s string) (state, municipality string, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q", ErrBadLocation, s)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
