package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Count is the number of listings sharing one key
type Count struct {
	Key   string
	Count int
}

// countBy groups listings by key, most frequent first; ties by key
func countBy(keys []string) []Count {
	seen := make(map[string]int)
	for _, k := range keys {
		seen[k]++
	}
	out := make([]Count, 0, len(seen))
	for k, n := range seen {
		out = append(out, Count{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// StateCounts returns the offers per state, most frequent first
func (r *Report) StateCounts() []Count {
	keys := make([]string, len(r.listings))
	for i, l := range r.listings {
		keys[i] = l.State
	}
	return countBy(keys)
}

// Profession is one row of the professions table
type Profession struct {
	Offer        string
	MedianSalary int
	Count        int
}

// Professions returns the median salary per offer, most frequent first
func (r *Report) Professions() []Profession {
	groups := make(map[string][]float64)
	keys := make([]string, len(r.listings))
	for i, l := range r.listings {
		keys[i] = l.Offer
		groups[l.Offer] = append(groups[l.Offer], float64(l.Salary))
	}

	counts := countBy(keys)
	out := make([]Profession, len(counts))
	for i, c := range counts {
		out[i] = Profession{
			Offer:        c.Key,
			MedianSalary: int(Median(groups[c.Key])),
			Count:        c.Count,
		}
	}
	return out
}

// WriteProfessions writes medians.csv
func (r *Report) WriteProfessions() error {
	path := r.path(ProfessionsFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", ProfessionsFile, err)
	}
	defer f.Close()

	if err := writeProfessions(f, r.Professions()); err != nil {
		return err
	}
	return f.Close()
}

func writeProfessions(w io.Writer, rows []Profession) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"offer", "median_salary", "count"}); err != nil {
		return fmt.Errorf("write professions: %w", err)
	}
	for _, p := range rows {
		if err := cw.Write([]string{p.Offer, strconv.Itoa(p.MedianSalary), strconv.Itoa(p.Count)}); err != nil {
			return fmt.Errorf("write professions: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Share is the percentage of all listings falling in one group
type Share struct {
	Label   string
	Count   int
	Percent float64
}

// HoursShare returns the share of listings per hours-worked value
func (r *Report) HoursShare() []Share {
	keys := make([]string, len(r.listings))
	for i, l := range r.listings {
		keys[i] = strconv.FormatFloat(l.Schedule.HoursWorked, 'f', -1, 64)
	}
	total := float64(len(r.listings))

	counts := countBy(keys)
	out := make([]Share, len(counts))
	for i, c := range counts {
		out[i] = Share{Label: c.Key, Count: c.Count, Percent: float64(c.Count) * 100 / total}
	}
	return out
}

type bracket struct {
	label    string
	min, max int
}

// Inclusive bounds. Salaries above the last bracket are counted in none.
var salaryBrackets = []bracket{
	{"< $4,000", 0, 4000},
	{"$4,001 a $6,000", 4001, 6000},
	{"$6,001 a $8,000", 6001, 8000},
	{"$8,001 a $10,000", 8001, 10000},
	{"$10,001 a $15,000", 10001, 15000},
	{"> $15,000", 15001, 100000},
}

// SalaryBrackets returns the share of all listings in each salary bracket
func (r *Report) SalaryBrackets() []Share {
	total := float64(len(r.listings))
	out := make([]Share, len(salaryBrackets))
	for i, b := range salaryBrackets {
		n := 0
		for _, l := range r.listings {
			if l.Salary >= b.min && l.Salary <= b.max {
				n++
			}
		}
		out[i] = Share{Label: b.label, Count: n}
		if total > 0 {
			out[i].Percent = float64(n) * 100 / total
		}
	}
	return out
}

// PrintShares renders shares as a table
func PrintShares(w io.Writer, title, label string, shares []Share) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{label, "Count", "Percentage"})
	for _, s := range shares {
		t.AppendRow(table.Row{s.Label, s.Count, fmt.Sprintf("%.2f%%", s.Percent)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
