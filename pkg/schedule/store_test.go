package schedule

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return &Store{records: []Record{
		{BusID: "202", Source: "Panipat", Destination: "Delhi", Time: "8:30 AM", Fare: "₹45"},
		{BusID: "702", Source: "Agra", Destination: "Lucknow", Time: "11:45 AM", Fare: "₹220"},
		{BusID: "1001", Source: "Agra", Destination: "Lucknow", Time: "6:15 PM", Fare: "₹250"},
	}}
}

func clock(t *testing.T, hhmm string) time.Time {
	t.Helper()
	ts, err := time.Parse("15:04", hhmm)
	if err != nil {
		t.Fatalf("parse clock %q: %v", hhmm, err)
	}
	return ts
}

func TestFindByNumberExactMatch(t *testing.T) {
	s := testStore(t)

	rec := s.FindByNumber("702")
	if rec == nil || rec.Source != "Agra" {
		t.Fatalf("FindByNumber(702) = %+v, want Agra record", rec)
	}
	if s.FindByNumber("999") != nil {
		t.Fatalf("FindByNumber(999) should be nil")
	}
	// No numeric normalization.
	if s.FindByNumber("0702") != nil {
		t.Fatalf("FindByNumber(0702) should be nil, got a match")
	}
}

func TestFindByNumberFirstMatchWins(t *testing.T) {
	s := &Store{records: []Record{
		{BusID: "500", Source: "A", Destination: "B", Time: "9:00 AM"},
		{BusID: "500", Source: "C", Destination: "D", Time: "1:00 PM"},
	}}
	rec := s.FindByNumber("500")
	if rec == nil || rec.Source != "A" {
		t.Fatalf("duplicate bus_id should resolve to first record, got %+v", rec)
	}
}

func TestFindBetweenCaseInsensitive(t *testing.T) {
	s := testStore(t)

	matches := s.FindBetween("agra", "LUCKNOW")
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].BusID != "702" || matches[1].BusID != "1001" {
		t.Fatalf("load order not preserved: %v", matches)
	}

	if got := s.FindBetween("Agra", "Delhi"); len(got) != 0 {
		t.Fatalf("unexpected matches for Agra->Delhi: %v", got)
	}
}

func TestNextDeparturePicksUpcoming(t *testing.T) {
	s := testStore(t)

	rec := s.NextDeparture("Agra", "Lucknow", clock(t, "10:00"))
	if rec == nil || rec.BusID != "702" {
		t.Fatalf("next at 10:00 = %+v, want 702", rec)
	}

	rec = s.NextDeparture("Agra", "Lucknow", clock(t, "12:00"))
	if rec == nil || rec.BusID != "1001" {
		t.Fatalf("next at 12:00 = %+v, want 1001", rec)
	}
}

func TestNextDepartureWrapsToLatest(t *testing.T) {
	s := testStore(t)

	// Past the last departure, fall back to the latest-departing bus.
	rec := s.NextDeparture("Agra", "Lucknow", clock(t, "23:00"))
	if rec == nil || rec.BusID != "1001" {
		t.Fatalf("next at 23:00 = %+v, want wrap to 1001", rec)
	}

	if s.NextDeparture("Delhi", "Agra", clock(t, "10:00")) != nil {
		t.Fatalf("NextDeparture on unserved route should be nil")
	}
}

func TestNextDepartureMalformedTimeSortsFirst(t *testing.T) {
	s := &Store{records: []Record{
		{BusID: "1", Source: "A", Destination: "B", Time: "garbage"},
		{BusID: "2", Source: "A", Destination: "B", Time: "9:00 AM"},
	}}
	rec := s.NextDeparture("A", "B", clock(t, "08:00"))
	if rec == nil || rec.BusID != "2" {
		t.Fatalf("malformed time should coerce to midnight and lose, got %+v", rec)
	}
}

func TestLastInPeriodMorningWindow(t *testing.T) {
	s := &Store{records: []Record{
		{BusID: "10", Source: "A", Destination: "B", Time: "6:00 AM"},
		{BusID: "11", Source: "A", Destination: "B", Time: "11:30 AM"},
		{BusID: "12", Source: "A", Destination: "B", Time: "12:05 PM"},
	}}

	rec := s.LastInPeriod("A", "B", Morning)
	if rec == nil || rec.BusID != "11" {
		t.Fatalf("last morning bus = %+v, want 11:30 AM record", rec)
	}

	// [12,17) belongs to afternoon.
	rec = s.LastInPeriod("A", "B", Afternoon)
	if rec == nil || rec.BusID != "12" {
		t.Fatalf("last afternoon bus = %+v, want 12:05 PM record", rec)
	}
}

func TestLastInPeriodEmptyWindowDistinctFromNoService(t *testing.T) {
	s := testStore(t)

	if s.LastInPeriod("Agra", "Lucknow", Night) != nil {
		t.Fatalf("route has no night service, want nil")
	}
	// Route itself still has matches.
	if len(s.FindBetween("Agra", "Lucknow")) == 0 {
		t.Fatalf("route should have service outside the period")
	}
}

func TestLastInPeriodNightWrapsMidnight(t *testing.T) {
	s := &Store{records: []Record{
		{BusID: "20", Source: "A", Destination: "B", Time: "11:30 PM"},
		{BusID: "21", Source: "A", Destination: "B", Time: "2:00 AM"},
	}}
	rec := s.LastInPeriod("A", "B", Night)
	if rec == nil || rec.BusID != "20" {
		t.Fatalf("last night bus = %+v, want 11:30 PM record", rec)
	}
}

func TestDelayMinutesDeterministic(t *testing.T) {
	a := DelayMinutes("702")
	b := DelayMinutes("702")
	if a != b {
		t.Fatalf("DelayMinutes not deterministic: %d vs %d", a, b)
	}
	if a < 0 || a > 20 {
		t.Fatalf("DelayMinutes out of range: %d", a)
	}
}

func TestSimulateLocationDrawsFromPool(t *testing.T) {
	s := testStore(t)
	rec := s.FindByNumber("702")

	pool := map[string]bool{"Agra": true, "Lucknow": true}
	for _, w := range waypoints {
		pool[w] = true
	}
	for i := 0; i < 50; i++ {
		loc := s.SimulateLocation(rec)
		if !pool[loc] {
			t.Fatalf("SimulateLocation returned %q, not in candidate pool", loc)
		}
	}
}

func TestLoadJSON(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "buses.json")
	data := `[{"bus_id":"702","source":"Agra","destination":"Lucknow","time":"11:45 AM","fare":"₹220"}]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 1 || s.FindByNumber("702") == nil {
		t.Fatalf("json dataset not loaded: %d records", s.Len())
	}
}

func TestLoadCSV(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "buses.csv")
	data := "bus_id,source,destination,time,fare\n702,Agra,Lucknow,11:45 AM,₹220\n202,Panipat,Delhi,8:30 AM,₹45\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("csv records = %d, want 2", s.Len())
	}
	rec := s.FindByNumber("202")
	if rec == nil || rec.Destination != "Delhi" {
		t.Fatalf("csv record 202 = %+v", rec)
	}
}

func TestLoadYAML(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "buses.yaml")
	data := "- bus_id: \"702\"\n  source: Agra\n  destination: Lucknow\n  time: 11:45 AM\n  fare: ₹220\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.FindByNumber("702") == nil {
		t.Fatalf("yaml dataset not loaded")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load("/nonexistent/buses.json"); err == nil {
		t.Fatalf("Load of missing file should fail")
	}
}

func TestLoadEmptyPathUsesSample(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if s.Len() == 0 {
		t.Fatalf("sample dataset is empty")
	}
}
