package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"agendabot/internal/domain"
)

// document is the whole persisted state: the full user map plus the full
// reminder list, serialized as one JSON file.
type document struct {
	Users     map[string]*domain.User `json:"users"`
	Reminders []*domain.Reminder      `json:"reminders"`
}

// Store is the default backend: a single JSON document loaded once at
// startup and rewritten in full after every mutating batch. It implements
// both domain.ReminderRepository and domain.UserRepository.
//
// A failed write is logged and swallowed: the in-memory state stays
// authoritative for the rest of the process lifetime.
type Store struct {
	path string

	mu  sync.Mutex
	doc document
}

// Open loads the document at path, creating an empty one if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		doc: document{
			Users: make(map[string]*domain.User),
		},
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("leer almacén: %w", err)
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("interpretar almacén: %w", err)
	}
	if s.doc.Users == nil {
		s.doc.Users = make(map[string]*domain.User)
	}
	return s, nil
}

func (s *Store) Create(ctx context.Context, reminder *domain.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Reminders = append(s.doc.Reminders, reminder)
	s.flushLocked()
	return nil
}

func (s *Store) GetPending(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []*domain.Reminder
	for _, r := range s.doc.Reminders {
		if !r.Done && !r.DueAt.After(now) {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

func (s *Store) MarkDone(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.doc.Reminders {
		if set[r.ID] {
			r.Done = true
		}
	}
	s.flushLocked()
	return nil
}

func (s *Store) ListUpcoming(ctx context.Context, owner string, until time.Time) ([]*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var upcoming []*domain.Reminder
	for _, r := range s.doc.Reminders {
		if !r.Done && r.Owner == owner && !r.DueAt.After(until) {
			upcoming = append(upcoming, r)
		}
	}
	return upcoming, nil
}

func (s *Store) Ensure(ctx context.Context, identity string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.doc.Users[identity]; ok {
		return user, nil
	}
	user := &domain.User{Identity: identity}
	s.doc.Users[identity] = user
	s.flushLocked()
	return user, nil
}

func (s *Store) Identities(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identities := make([]string, 0, len(s.doc.Users))
	for identity := range s.doc.Users {
		identities = append(identities, identity)
	}
	sort.Strings(identities)
	return identities, nil
}

// flushLocked rewrites the whole document. Callers hold s.mu.
func (s *Store) flushLocked() {
	data, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		slog.Error("no se pudo serializar el almacén", "error", err)
		return
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("no se pudo crear el directorio del almacén", "path", s.path, "error", err)
			return
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		slog.Error("no se pudo escribir el almacén", "path", s.path, "error", err)
	}
}
