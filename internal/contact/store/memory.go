package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"lowa/internal/contact/models"
	"lowa/pkg/platform/sentinel"
)

// ErrNotFound is returned when a contact does not exist.
var ErrNotFound = sentinel.ErrNotFound

// InMemory is an append-only contact store. It offers no update or delete.
type InMemory struct {
	mu       sync.RWMutex
	contacts map[uuid.UUID]models.Contact
}

func NewInMemory() *InMemory {
	return &InMemory{contacts: make(map[uuid.UUID]models.Contact)}
}

func (s *InMemory) Create(_ context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.contacts[contact.ID]; exists {
		return sentinel.ErrConflict
	}
	s.contacts[contact.ID] = *contact
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

// FindByIDs returns the contacts that exist among ids, keyed by id.
func (s *InMemory) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uuid.UUID]*models.Contact, len(ids))
	for _, id := range ids {
		if c, ok := s.contacts[id]; ok {
			out[id] = &c
		}
	}
	return out, nil
}

// ListAll returns every contact, oldest first.
func (s *InMemory) ListAll(_ context.Context) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contacts), nil
}
