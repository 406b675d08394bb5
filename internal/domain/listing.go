package domain

import "time"

// Listing is one job posting extracted from a downloaded page
type Listing struct {
	Salary   int    `json:"salary"`
	Title    string `json:"title"`    // Raw "<offer> - <company>" heading
	Location string `json:"location"` // "state, municipality" or just the state
	URL      string `json:"url"`
}

// Weekday flags, Monday first
type Days [7]bool

// Count returns how many days are flagged
func (d Days) Count() int {
	n := 0
	for _, worked := range d {
		if worked {
			n++
		}
	}
	return n
}

// Schedule holds the working hours of a listing
type Schedule struct {
	StartHour   int     `json:"start_hour"` // HHMM, e.g. 830 for 8:30
	EndHour     int     `json:"end_hour"`
	HoursWorked float64 `json:"hours_worked"`
	Days        Days    `json:"days"`
}

// DaysWorked returns the number of working days
func (s Schedule) DaysWorked() int {
	return s.Days.Count()
}

// ScheduledListing is the tabular variant used by the exporter and the report
type ScheduledListing struct {
	ID           string    `json:"id"`       // Listing id, from the file name
	Category     string    `json:"category"` // Category key, from the folder name
	Date         time.Time `json:"date"`     // When the page was downloaded
	Offer        string    `json:"offer"`    // Cleaned offer name
	Salary       int       `json:"salary"`
	Schedule     Schedule  `json:"schedule"`
	State        string    `json:"state"`
	Municipality string    `json:"municipality"`
}

// LogEntry is one line of the processed log
type LogEntry struct {
	Path      string
	Timestamp time.Time
}

// Query holds the parsed parameters of a query command
type Query struct {
	Location  string // Folded, always present
	MinSalary *int
	MaxSalary *int
	Tag       string // Folded, empty when absent
}

// Source identifies the listing site
const Source = "empleo.gob.mx"
