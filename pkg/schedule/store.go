// Package schedule loads the bus timetable dataset and answers the
// route and time-of-day queries the dispatcher needs. The dataset is
// loaded once at startup and read-only afterwards.
package schedule

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Record is one timetable row. Time stays a raw 12-hour clock string
// ("11:45 AM"); malformed values are tolerated and coerced to midnight
// when sorting. A record missing fields is kept as-is and simply never
// matches route lookups on the missing field.
type Record struct {
	BusID       string `json:"bus_id" yaml:"bus_id"`
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Time        string `json:"time" yaml:"time"`
	Fare        string `json:"fare" yaml:"fare"`
}

type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
	Evening   Period = "evening"
	Night     Period = "night"
)

// Stops used by the simulated location feed, alongside route endpoints.
var waypoints = []string{"ISBT", "Bypass", "Main Road", "Kurukshetra", "Karnal", "Ambala", "Depot"}

type Store struct {
	records []Record
}

// Load reads the dataset at path, dispatching on extension (.json,
// .csv, .yaml/.yml). An empty path loads a built-in sample timetable;
// an unreadable file is an error the caller treats as fatal.
func Load(path string) (*Store, error) {
	if path == "" {
		return &Store{records: sampleRecords()}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var records []Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse json dataset %s: %w", path, err)
		}
	case ".csv":
		records, err = parseCSV(data)
		if err != nil {
			return nil, fmt.Errorf("parse csv dataset %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse yaml dataset %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", path)
	}

	return &Store{records: records}, nil
}

func parseCSV(data []byte) ([]Record, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, Record{
			BusID:       field(row, "bus_id"),
			Source:      field(row, "source"),
			Destination: field(row, "destination"),
			Time:        field(row, "time"),
			Fare:        field(row, "fare"),
		})
	}
	return records, nil
}

func sampleRecords() []Record {
	return []Record{
		{BusID: "202", Source: "Panipat", Destination: "Delhi", Time: "8:30 AM", Fare: "₹45"},
		{BusID: "702", Source: "Agra", Destination: "Lucknow", Time: "11:45 AM", Fare: "₹220"},
		{BusID: "1001", Source: "Agra", Destination: "Lucknow", Time: "6:15 PM", Fare: "₹250"},
	}
}

func (s *Store) Len() int { return len(s.records) }

// FindByNumber returns the first record whose BusID equals number
// exactly. No numeric normalization: "0702" and "702" are distinct.
func (s *Store) FindByNumber(number string) *Record {
	for i := range s.records {
		if s.records[i].BusID == number {
			return &s.records[i]
		}
	}
	return nil
}

// FindBetween returns route matches in load order, comparing both
// endpoints case-insensitively.
func (s *Store) FindBetween(source, destination string) []Record {
	src := strings.ToLower(strings.TrimSpace(source))
	dst := strings.ToLower(strings.TrimSpace(destination))

	var out []Record
	for _, r := range s.records {
		if strings.ToLower(r.Source) == src && strings.ToLower(r.Destination) == dst {
			out = append(out, r)
		}
	}
	return out
}

// NextDeparture returns the first route match departing at or after
// now's time-of-day, or the latest-departing match as a wrap-to-next-day
// fallback. Ties keep load order.
func (s *Store) NextDeparture(source, destination string, now time.Time) *Record {
	matches := s.FindBetween(source, destination)
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return clockMinutes(matches[i].Time) < clockMinutes(matches[j].Time)
	})

	nowMin := now.Hour()*60 + now.Minute()
	for i := range matches {
		if clockMinutes(matches[i].Time) >= nowMin {
			return &matches[i]
		}
	}
	return &matches[len(matches)-1]
}

// LastInPeriod returns the latest route match departing inside the
// period window, or nil when the route has no service in that window.
func (s *Store) LastInPeriod(source, destination string, period Period) *Record {
	matches := s.FindBetween(source, destination)

	var filtered []Record
	for _, r := range matches {
		if inPeriod(clockMinutes(r.Time)/60, period) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return clockMinutes(filtered[i].Time) < clockMinutes(filtered[j].Time)
	})
	return &filtered[len(filtered)-1]
}

// Half-open hour windows; night wraps midnight.
func inPeriod(hour int, p Period) bool {
	switch p {
	case Morning:
		return hour >= 5 && hour < 12
	case Afternoon:
		return hour >= 12 && hour < 17
	case Evening:
		return hour >= 17 && hour < 21
	case Night:
		return hour >= 21 || hour < 5
	}
	return true
}

// clockMinutes parses a 12-hour clock string into minutes past
// midnight. Malformed strings coerce to 0 so they sort first.
func clockMinutes(s string) int {
	t, err := time.Parse("3:04 PM", strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

// SimulateLocation returns a pseudo-random stop for the record. This is
// a deliberately unseeded stand-in for a live position feed; callers
// must not treat it as authoritative.
func (s *Store) SimulateLocation(r *Record) string {
	opts := make([]string, 0, len(waypoints)+2)
	if r.Source != "" {
		opts = append(opts, r.Source)
	}
	if r.Destination != "" {
		opts = append(opts, r.Destination)
	}
	opts = append(opts, waypoints...)
	return opts[rand.Intn(len(opts))]
}

// DelayMinutes simulates today's delay for a bus. Seeded from the
// number's digits so the same bus reports the same delay within a run,
// unlike SimulateLocation which stays non-deterministic.
func DelayMinutes(busNumber string) int {
	var seed int64
	for _, ch := range busNumber {
		if ch >= '0' && ch <= '9' {
			seed = seed*10 + int64(ch-'0')
		}
	}
	r := rand.New(rand.NewSource(seed))
	return r.Intn(21)
}
