package indexer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/project-tktt/empleos-bot/internal/common/joblog"
	"github.com/project-tktt/empleos-bot/internal/domain"
)

// CSVHeader is the first row of the tabular export
var CSVHeader = []string{
	"date", "offer", "salary", "start_hour", "end_hour", "hours_worked",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"days_worked", "state", "municipality",
}

// CSVIndexer rewrites the export file on every BulkIndex
type CSVIndexer struct {
	path string
}

func NewCSVIndexer(path string) *CSVIndexer {
	return &CSVIndexer{path: path}
}

func (i *CSVIndexer) BulkIndex(_ context.Context, listings []*domain.ScheduledListing) error {
	f, err := os.Create(i.path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := WriteCSV(f, listings); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	return nil
}

func (i *CSVIndexer) Close() error {
	return nil
}

// WriteCSV writes the header followed by one row per listing
func WriteCSV(w io.Writer, listings []*domain.ScheduledListing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, l := range listings {
		row := []string{
			l.Date.Format(joblog.TimeLayout),
			l.Offer,
			strconv.Itoa(l.Salary),
			strconv.Itoa(l.Schedule.StartHour),
			strconv.Itoa(l.Schedule.EndHour),
			formatHours(l.Schedule.HoursWorked),
		}
		for _, worked := range l.Schedule.Days {
			row = append(row, flag(worked))
		}
		row = append(row, strconv.Itoa(l.Schedule.DaysWorked()), l.State, l.Municipality)

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// formatHours always keeps a decimal point: 9 -> "9.0"
func formatHours(h float64) string {
	s := strconv.FormatFloat(h, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ReadCSV parses an export written by WriteCSV. Rows that do not parse are
// skipped and counted.
func ReadCSV(r io.Reader) (listings []*domain.ScheduledListing, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range CSVHeader {
		if _, ok := cols[name]; !ok {
			return nil, 0, fmt.Errorf("read csv: missing column %q", name)
		}
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("read csv row: %w", err)
		}

		l, ok := parseRow(row, cols)
		if !ok {
			skipped++
			continue
		}
		listings = append(listings, l)
	}
	return listings, skipped, nil
}

func parseRow(row []string, cols map[string]int) (*domain.ScheduledListing, bool) {
	get := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	atoi := func(name string) (int, bool) {
		n, err := strconv.Atoi(get(name))
		return n, err == nil
	}

	date, err := time.ParseInLocation("2006-01-02 15:04:05", get("date"), time.Local)
	if err != nil {
		return nil, false
	}
	salary, ok1 := atoi("salary")
	start, ok2 := atoi("start_hour")
	end, ok3 := atoi("end_hour")
	hours, err := strconv.ParseFloat(get("hours_worked"), 64)
	if !ok1 || !ok2 || !ok3 || err != nil {
		return nil, false
	}

	var days domain.Days
	for i, name := range CSVHeader[6:13] {
		days[i] = get(name) == "1"
	}

	return &domain.ScheduledListing{
		Date:   date,
		Offer:  get("offer"),
		Salary: salary,
		Schedule: domain.Schedule{
			StartHour:   start,
			EndHour:     end,
			HoursWorked: hours,
			Days:        days,
		},
		State:        get("state"),
		Municipality: get("municipality"),
	}, true
}
