package complaints

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

var ticketIDRe = regexp.MustCompile(`^C-\d{4}$`)

func TestLodgeCreatesAndPersistsTicket(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "complaints.json")

	s := NewStore(path)
	ticket, err := s.Lodge("702", "complaint bus 702 driver rude")
	if err != nil {
		t.Fatalf("lodge: %v", err)
	}

	if !ticketIDRe.MatchString(ticket.TicketID) {
		t.Fatalf("ticket_id = %q, want C-#### form", ticket.TicketID)
	}
	if ticket.BusNumber != "702" {
		t.Fatalf("bus_number = %q", ticket.BusNumber)
	}
	if ticket.Time.IsZero() {
		t.Fatalf("ticket timestamp not set")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("complaints file missing: %v", err)
	}
}

func TestTicketsSurviveReload(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "complaints.json")

	s := NewStore(path)
	if _, err := s.Lodge("202", "seat broken"); err != nil {
		t.Fatalf("lodge first: %v", err)
	}
	if _, err := s.Lodge("702", "driver rude"); err != nil {
		t.Fatalf("lodge second: %v", err)
	}

	reloaded := NewStore(path)
	tickets := reloaded.All()
	if len(tickets) != 2 {
		t.Fatalf("len(tickets) after reload = %d, want 2", len(tickets))
	}
	if tickets[0].BusNumber != "202" || tickets[1].BusNumber != "702" {
		t.Fatalf("append order not preserved: %v", tickets)
	}
}

func TestLodgeRollsBackOnPersistFailure(t *testing.T) {
	// A directory at the store path makes every write fail.
	bad := filepath.Join(t.TempDir(), "complaints.json")
	if err := os.Mkdir(bad, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	s := NewStore(bad)
	if _, err := s.Lodge("702", "driver rude"); err == nil {
		t.Fatalf("Lodge should fail when the file cannot be written")
	}
	if len(s.All()) != 0 {
		t.Fatalf("failed Lodge left a ticket in memory: %v", s.All())
	}

	// A later lodge must not resurrect the rolled-back ticket.
	if _, err := s.Lodge("202", "seat broken"); err == nil {
		t.Fatalf("second Lodge should also fail")
	}
	if len(s.All()) != 0 {
		t.Fatalf("rolled-back tickets reappeared: %v", s.All())
	}
}

func TestStoreWithoutPathStaysInMemory(t *testing.T) {
	s := NewStore("")
	if _, err := s.Lodge("702", "late again"); err != nil {
		t.Fatalf("lodge: %v", err)
	}
	if len(s.All()) != 1 {
		t.Fatalf("in-memory ticket not kept")
	}
}
