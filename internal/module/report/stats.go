package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a numeric column
type Summary struct {
	Count  int
	Mean   float64
	Std    float64 // Sample standard deviation
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
	Median float64
}

// Describe summarizes values. An empty input gives a zero count and NaN fields.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan, Median: nan}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s := Summary{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		Std:   math.NaN(),
		Min:   floats.Min(sorted),
		Max:   floats.Max(sorted),
		Q25:   Percentile(sorted, 0.25),
		Q50:   Percentile(sorted, 0.50),
		Q75:   Percentile(sorted, 0.75),
	}
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Median = s.Q50
	return s
}

// Percentile interpolates linearly between the closest ranks of sorted:
// position (n-1)*p, as pandas and numpy do by default.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	hi := math.Ceil(h)
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

// Median of unsorted values
func Median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return Percentile(sorted, 0.5)
}

// Stats prints the salary summary
func (r *Report) Stats(w io.Writer) Summary {
	s := Describe(r.salaries())

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Statistic", "Salary"})
	t.AppendRows([]table.Row{
		{"count", s.Count},
		{"mean", fmt.Sprintf("%.2f", s.Mean)},
		{"std", fmt.Sprintf("%.2f", s.Std)},
		{"min", fmt.Sprintf("%.0f", s.Min)},
		{"25%", fmt.Sprintf("%.2f", s.Q25)},
		{"50%", fmt.Sprintf("%.2f", s.Q50)},
		{"75%", fmt.Sprintf("%.2f", s.Q75)},
		{"max", fmt.Sprintf("%.0f", s.Max)},
		{"median", fmt.Sprintf("%.2f", s.Median)},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
	return s
}
