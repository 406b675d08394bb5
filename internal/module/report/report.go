package report

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/project-tktt/empleos-bot/internal/common/indexer"
	"github.com/project-tktt/empleos-bot/internal/domain"
)

// Output file names
const (
	ActivityFile     = "line1.png"
	SalaryHistFile   = "hist1.png"
	HoursHistFile    = "hist2.png"
	DaysHistFile     = "hist3.png"
	ScatterFile      = "scatter1.png"
	StatesFile       = "states_counts.png"
	MedianMapFile    = "map1.png"
	CountMapFile     = "map2.png"
	ProfessionsFile  = "medians.csv"
	salaryPlotMaxMXN = 20000
)

// Report renders charts and tables over a loaded export
type Report struct {
	listings []*domain.ScheduledListing
	outDir   string
}

func New(listings []*domain.ScheduledListing, outDir string) *Report {
	if outDir == "" {
		outDir = "."
	}
	return &Report{listings: listings, outDir: outDir}
}

// Load reads the CSV export at path
func Load(path, outDir string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	listings, skipped, err := indexer.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	if skipped > 0 {
		log.Printf("[Report] Skipped %d malformed rows in %s", skipped, path)
	}
	log.Printf("[Report] Loaded %d listings from %s", len(listings), path)

	return New(listings, outDir), nil
}

func (r *Report) Len() int {
	return len(r.listings)
}

func (r *Report) path(name string) string {
	return filepath.Join(r.outDir, name)
}

func (r *Report) salaries() []float64 {
	out := make([]float64, len(r.listings))
	for i, l := range r.listings {
		out[i] = float64(l.Salary)
	}
	return out
}

// plottable keeps the listings with 0 <= salary <= 20000
func (r *Report) plottable() []*domain.ScheduledListing {
	var out []*domain.ScheduledListing
	for _, l := range r.listings {
		if l.Salary >= 0 && l.Salary <= salaryPlotMaxMXN {
			out = append(out, l)
		}
	}
	return out
}
