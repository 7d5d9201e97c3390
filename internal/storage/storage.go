package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/elliotchance/orderedmap/v3"

	"wedding-invitation/internal/models"
)

// ErrGuestNotFound is returned when no RSVP has been recorded for a guest
var ErrGuestNotFound = errors.New("guest not found")

// Storage is the demo-mode RSVP ledger. Guests keep the order in which they
// first responded; the file holds them as a JSON array in that order.
type Storage struct {
	mu     sync.RWMutex
	guests *orderedmap.OrderedMap[string, models.Guest]
	path   string
	now    func() time.Time
}

// NewStorage opens the ledger at path, loading it when the file exists
func NewStorage(path string) (*Storage, error) {
	s := &Storage{
		guests: orderedmap.NewOrderedMap[string, models.Guest](),
		path:   path,
		now:    time.Now,
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err := s.Load(); err != nil {
		return nil, fmt.Errorf("failed to open ledger %s: %w", path, err)
	}
	return s, nil
}

// Record stores a guest's latest demo RSVP, adding the guest if needed
func (s *Storage) Record(guestID, name string, status models.GuestStatus, data map[string]any) error {
	if guestID == "" {
		return errors.New("guest id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.guests.Get(guestID)
	if !ok {
		g = models.Guest{ID: guestID}
	}
	if name != "" {
		g.Name = name
	}
	apply(&g, status, data, s.now())
	s.guests.Set(guestID, g)
	return s.saveLocked()
}

func apply(g *models.Guest, status models.GuestStatus, data map[string]any, now time.Time) {
	g.Status = status
	if status == models.GuestViewed {
		g.ViewedAt = now
		return
	}
	g.RespondedAt = now
	if data != nil {
		g.RSVPData = data
	}
}

// GetGuest returns the ledger entry for one guest
func (s *Storage) GetGuest(guestID string) (*models.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.guests.Get(guestID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGuestNotFound, guestID)
	}
	return &g, nil
}

// GetAllGuests returns every entry in response order
func (s *Storage) GetAllGuests() []models.Guest {
	return s.filter(func(models.Guest) bool { return true })
}

// GetGuestsByStatus returns the entries with the given status
func (s *Storage) GetGuestsByStatus(status models.GuestStatus) []models.Guest {
	return s.filter(func(g models.Guest) bool { return g.Status == status })
}

func (s *Storage) filter(keep func(models.Guest) bool) []models.Guest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Guest, 0, s.guests.Len())
	for el := s.guests.Front(); el != nil; el = el.Next() {
		if keep(el.Value) {
			out = append(out, el.Value)
		}
	}
	return out
}

// Save writes the ledger to disk
func (s *Storage) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked()
}

// saveLocked writes through a temp file so a crash never leaves half a ledger
func (s *Storage) saveLocked() error {
	list := make([]models.Guest, 0, s.guests.Len())
	for el := s.guests.Front(); el != nil; el = el.Next() {
		list = append(list, el.Value)
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Load replaces the in-memory ledger with the file's contents. An empty file
// is an empty ledger.
func (s *Storage) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	var list []models.Guest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("failed to decode ledger: %w", err)
		}
	}

	guests := orderedmap.NewOrderedMap[string, models.Guest]()
	for _, g := range list {
		if g.ID != "" {
			guests.Set(g.ID, g)
		}
	}

	s.mu.Lock()
	s.guests = guests
	s.mu.Unlock()
	return nil
}
