// Package complaints persists lodged complaint tickets to a JSON file.
// Tickets are append-only; nothing in the bot mutates or deletes them.
package complaints

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Ticket struct {
	TicketID  string    `json:"ticket_id"`
	BusNumber string    `json:"bus_number"`
	Complaint string    `json:"complaint"`
	Time      time.Time `json:"time"`
}

type Store struct {
	mu      sync.RWMutex
	tickets []Ticket
	path    string
}

// NewStore opens the complaint collection at path, loading any existing
// tickets. A missing or unparseable file starts the collection empty.
func NewStore(path string) *Store {
	s := &Store{
		tickets: make([]Ticket, 0, 16),
		path:    path,
	}
	if path == "" {
		return s
	}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var tickets []Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return
	}
	s.tickets = tickets
}

// Lodge creates a ticket for the complaint, appends it and persists the
// collection. Ticket IDs are C-#### with a random 4-digit suffix;
// collisions are not checked. A persist failure rolls the append back,
// so a failed Lodge leaves no ticket behind.
func (s *Store) Lodge(busNumber, complaintText string) (Ticket, error) {
	t := Ticket{
		TicketID:  fmt.Sprintf("C-%04d", 1000+rand.Intn(9000)),
		BusNumber: busNumber,
		Complaint: complaintText,
		Time:      time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickets = append(s.tickets, t)
	if err := s.persistLocked(); err != nil {
		s.tickets = s.tickets[:len(s.tickets)-1]
		return Ticket{}, err
	}
	return t, nil
}

// All returns a copy of the lodged tickets in append order.
func (s *Store) All() []Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

// persistLocked writes the collection to disk. Caller holds mu.
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.tickets, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal complaints: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write complaints file: %w", err)
	}
	return nil
}
