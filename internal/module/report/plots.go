package report

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a chart would be empty
var ErrNoData = errors.New("no data to plot")

var barColor = color.RGBA{R: 76, G: 114, B: 176, A: 255}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// DailyCounts returns the number of listings per local day, with empty days
// between the first and the last one counted as zero.
func (r *Report) DailyCounts() ([]time.Time, []int) {
	if len(r.listings) == 0 {
		return nil, nil
	}

	perDay := make(map[time.Time]int)
	first, last := day(r.listings[0].Date), day(r.listings[0].Date)
	for _, l := range r.listings {
		d := day(l.Date)
		perDay[d]++
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}

	var days []time.Time
	var counts []int
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
		counts = append(counts, perDay[d])
	}
	return days, counts
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Activity plots the daily listing count
func (r *Report) Activity() error {
	days, counts := r.DailyCounts()
	if len(days) == 0 {
		return ErrNoData
	}

	xys := make(plotter.XYs, len(days))
	for i := range days {
		xys[i].X = float64(days[i].Unix())
		xys[i].Y = float64(counts[i])
	}

	p := plot.New()
	p.Title.Text = "Site Activity"
	p.X.Label.Text = days[0].Format("January 2006")
	p.Y.Label.Text = "Offers"
	p.X.Tick.Marker = plot.TimeTicks{Format: "02 Jan"}
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("activity line: %w", err)
	}
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	return save(p, 10*vg.Inch, 5*vg.Inch, r.path(ActivityFile))
}

func (r *Report) histogram(values plotter.Values, bins int, title, xLabel, file string) error {
	if len(values) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Offers"

	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return fmt.Errorf("%s histogram: %w", file, err)
	}
	h.FillColor = barColor
	p.Add(h)

	return save(p, 15*vg.Inch, 10*vg.Inch, r.path(file))
}

// SalaryHist plots the salary distribution between 0 and 20000
func (r *Report) SalaryHist() error {
	listings := r.plottable()
	values := make(plotter.Values, len(listings))
	for i, l := range listings {
		values[i] = float64(l.Salary)
	}
	return r.histogram(values, 20, "Salary Distribution", "Monthly Salary (MXN)", SalaryHistFile)
}

// HoursHist plots the hours worked distribution
func (r *Report) HoursHist() error {
	values := make(plotter.Values, len(r.listings))
	for i, l := range r.listings {
		values[i] = l.Schedule.HoursWorked
	}
	return r.histogram(values, 24, "Labour Hours Distribution", "Hours", HoursHistFile)
}

// DaysHist plots the days worked distribution
func (r *Report) DaysHist() error {
	values := make(plotter.Values, len(r.listings))
	for i, l := range r.listings {
		values[i] = float64(l.Schedule.DaysWorked())
	}
	return r.histogram(values, 7, "Labour Days Distribution", "Days", DaysHistFile)
}

// Scatter plots hours worked against salary for salaries between 0 and 20000
func (r *Report) Scatter() error {
	listings := r.plottable()
	if len(listings) == 0 {
		return ErrNoData
	}

	xys := make(plotter.XYs, len(listings))
	for i, l := range listings {
		xys[i].X = l.Schedule.HoursWorked
		xys[i].Y = float64(l.Salary)
	}

	p := plot.New()
	p.Title.Text = "Salary vs Hours Worked"
	p.X.Label.Text = "Hours"
	p.Y.Label.Text = "Salary"

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Color = color.RGBA{R: 76, G: 114, B: 176, A: 128}
	p.Add(s)

	return save(p, 15*vg.Inch, 10*vg.Inch, r.path(ScatterFile))
}

// States plots a horizontal bar per state with its offer count
func (r *Report) States() error {
	counts := r.StateCounts()
	if len(counts) == 0 {
		return ErrNoData
	}

	// The first bar is drawn at the bottom; reverse so the largest sits on top
	n := len(counts)
	values := make(plotter.Values, n)
	names := make([]string, n)
	labels := plotter.XYLabels{XYs: make(plotter.XYs, n), Labels: make([]string, n)}
	for i, c := range counts {
		j := n - 1 - i
		values[j] = float64(c.Count)
		names[j] = c.Key
		labels.XYs[j] = plotter.XY{X: float64(c.Count), Y: float64(j)}
		labels.Labels[j] = fmt.Sprint(c.Count)
	}

	p := plot.New()
	p.Title.Text = "Job Offers by State"

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return fmt.Errorf("state bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return fmt.Errorf("state labels: %w", err)
	}
	l.Offset = vg.Point{X: vg.Points(4), Y: -vg.Points(3)}
	p.Add(l)

	p.NominalY(names...)
	p.X.Max *= 1.1

	return save(p, 11*vg.Inch, 11*vg.Inch, r.path(StatesFile))
}
