package report

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/jonas-p/go-shp"
	"github.com/project-tktt/empleos-bot/internal/common/normalizer"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// RegionField is the shapefile attribute holding the state name
const RegionField = "ADMIN_NAME"

// Similarity needed to accept a fuzzy name match
const minNameSimilarity = 0.9

// The shapefile predates the 2016 rename
var regionAliases = map[string]string{
	"Ciudad de Mexico": "Distrito Federal",
}

var noDataColor = color.Gray{Y: 220}

// Region is one named polygon set of the shapefile
type Region struct {
	Name  string
	Rings [][]shp.Point
}

// ReadRegions loads the polygons of a shapefile. path may be the .shp file or
// a directory holding one.
func ReadRegions(path string) ([]Region, error) {
	shpPath, err := findShapefile(path)
	if err != nil {
		return nil, err
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer reader.Close()

	field := -1
	for i, f := range reader.Fields() {
		if strings.EqualFold(f.String(), RegionField) {
			field = i
			break
		}
	}
	if field < 0 {
		return nil, fmt.Errorf("shapefile %s has no %s attribute", shpPath, RegionField)
	}

	var regions []Region
	for reader.Next() {
		n, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		name := strings.TrimSpace(strings.Trim(reader.ReadAttribute(n, field), "\x00"))
		regions = append(regions, Region{Name: name, Rings: rings(poly)})
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile: %w", err)
	}
	return regions, nil
}

func findShapefile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat shapefile: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}
	matches, err := filepath.Glob(filepath.Join(path, "*.shp"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("no .shp file in %s", path)
	}
	return matches[0], nil
}

func rings(p *shp.Polygon) [][]shp.Point {
	out := make([][]shp.Point, 0, len(p.Parts))
	for i, start := range p.Parts {
		end := int32(len(p.Points))
		if i+1 < len(p.Parts) {
			end = p.Parts[i+1]
		}
		out = append(out, p.Points[start:end])
	}
	return out
}

// regionKey maps a listing state onto the shapefile naming
func regionKey(state string) string {
	name := normalizer.CleanWord(strings.TrimSpace(state))
	if alias, ok := regionAliases[name]; ok {
		return alias
	}
	return name
}

// RegionMatcher resolves listing states to region names. Names that do not
// match exactly fall back to the closest Jaro-Winkler match.
type RegionMatcher struct {
	names []string
	known map[string]bool
	cache map[string]string
}

func NewRegionMatcher(regions []Region) *RegionMatcher {
	m := &RegionMatcher{known: make(map[string]bool), cache: make(map[string]string)}
	for _, r := range regions {
		if !m.known[r.Name] {
			m.known[r.Name] = true
			m.names = append(m.names, r.Name)
		}
	}
	sort.Strings(m.names)
	return m
}

// Match returns the region for state, or false when nothing is close enough
func (m *RegionMatcher) Match(state string) (string, bool) {
	key := regionKey(state)
	if m.known[key] {
		return key, true
	}
	if name, ok := m.cache[key]; ok {
		return name, name != ""
	}

	best, bestScore := "", -1.0
	for _, name := range m.names {
		score := matchr.JaroWinkler(strings.ToLower(key), strings.ToLower(name), false)
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	if bestScore < minNameSimilarity {
		best = ""
	}
	m.cache[key] = best
	return best, best != ""
}

// RegionValues returns the median salary and the offer count per region
func (r *Report) RegionValues(m *RegionMatcher) (medians, counts map[string]float64) {
	groups := make(map[string][]float64)
	unmatched := make(map[string]bool)
	for _, l := range r.listings {
		name, ok := m.Match(l.State)
		if !ok {
			unmatched[l.State] = true
			continue
		}
		groups[name] = append(groups[name], float64(l.Salary))
	}
	for state := range unmatched {
		log.Printf("[Report] No region for state %q", state)
	}

	medians = make(map[string]float64, len(groups))
	counts = make(map[string]float64, len(groups))
	for name, salaries := range groups {
		medians[name] = Median(salaries)
		counts[name] = float64(len(salaries))
	}
	return medians, counts
}

// choropleth draws every region filled by its value
type choropleth struct {
	regions []Region
	values  map[string]float64
	colors  palette.ColorMap
}

func (c *choropleth) Plot(canvas draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&canvas)
	outline := draw.LineStyle{Color: color.White, Width: vg.Points(0.5)}

	for _, r := range c.regions {
		fill := color.Color(noDataColor)
		if v, ok := c.values[r.Name]; ok {
			if col, err := c.colors.At(v); err == nil {
				fill = col
			}
		}
		for _, ring := range r.Rings {
			pts := make([]vg.Point, len(ring))
			for i, pt := range ring {
				pts[i] = vg.Point{X: trX(pt.X), Y: trY(pt.Y)}
			}
			canvas.FillPolygon(fill, canvas.ClipPolygonXY(pts))
			canvas.StrokeLines(outline, canvas.ClipLinesXY(pts)...)
		}
	}
}

func (c *choropleth) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, r := range c.regions {
		for _, ring := range r.Rings {
			for _, pt := range ring {
				xmin, xmax = math.Min(xmin, pt.X), math.Max(xmax, pt.X)
				ymin, ymax = math.Min(ymin, pt.Y), math.Max(ymax, pt.Y)
			}
		}
	}
	return xmin, xmax, ymin, ymax
}

func (r *Report) choroplethMap(regions []Region, values map[string]float64, title, file string) error {
	if len(values) == 0 {
		return ErrNoData
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi <= lo {
		hi = lo + 1
	}
	colors := moreland.SmoothBlueRed()
	colors.SetMax(hi)
	colors.SetMin(lo)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%.0f - %.0f)", title, lo, hi)
	p.HideAxes()
	p.Add(&choropleth{regions: regions, values: values, colors: colors})

	return save(p, 12*vg.Inch, 8*vg.Inch, r.path(file))
}

// Maps renders the median salary and offer count choropleths
func (r *Report) Maps(shapes string) error {
	regions, err := ReadRegions(shapes)
	if err != nil {
		return err
	}

	medians, counts := r.RegionValues(NewRegionMatcher(regions))
	if err := r.choroplethMap(regions, medians, "Monthly Median Salary from Job Offers (MXN)", MedianMapFile); err != nil {
		return err
	}
	return r.choroplethMap(regions, counts, "Job Offers by State", CountMapFile)
}
