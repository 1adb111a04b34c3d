package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"lowa/internal/listing/models"
	"lowa/pkg/platform/sentinel"
)

// ErrNotFound is returned when a listing does not exist.
var ErrNotFound = sentinel.ErrNotFound

// InMemory holds every listing and application collection. Like the SQL
// backend it is append-only.
type InMemory struct {
	mu                     sync.RWMutex
	invitations            map[uuid.UUID]models.Invitation
	visitorRequests        map[uuid.UUID]models.VisitorRequest
	localApplications      map[uuid.UUID]models.LocalApplication
	invitationApplications map[uuid.UUID]models.InvitationApplication
}

func NewInMemory() *InMemory {
	return &InMemory{
		invitations:            make(map[uuid.UUID]models.Invitation),
		visitorRequests:        make(map[uuid.UUID]models.VisitorRequest),
		localApplications:      make(map[uuid.UUID]models.LocalApplication),
		invitationApplications: make(map[uuid.UUID]models.InvitationApplication),
	}
}

func (s *InMemory) CreateInvitation(_ context.Context, inv *models.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.invitations[inv.ID]; exists {
		return sentinel.ErrConflict
	}
	s.invitations[inv.ID] = cloneInvitation(*inv)
	return nil
}

func (s *InMemory) FindInvitation(_ context.Context, id uuid.UUID) (*models.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invitations[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneInvitation(inv)
	return &out, nil
}

// ListInvitations returns every invitation, newest first.
func (s *InMemory) ListInvitations(_ context.Context) ([]*models.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Invitation, 0, len(s.invitations))
	for _, inv := range s.invitations {
		c := cloneInvitation(inv)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) CreateVisitorRequest(_ context.Context, req *models.VisitorRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.visitorRequests[req.ID]; exists {
		return sentinel.ErrConflict
	}
	s.visitorRequests[req.ID] = cloneVisitorRequest(*req)
	return nil
}

func (s *InMemory) FindVisitorRequest(_ context.Context, id uuid.UUID) (*models.VisitorRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.visitorRequests[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneVisitorRequest(req)
	return &out, nil
}

// ListVisitorRequests returns every visitor request, newest first.
func (s *InMemory) ListVisitorRequests(_ context.Context) ([]*models.VisitorRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.VisitorRequest, 0, len(s.visitorRequests))
	for _, req := range s.visitorRequests {
		c := cloneVisitorRequest(req)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) CreateLocalApplication(_ context.Context, app *models.LocalApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.visitorRequests[app.VisitorRequestID]; !exists {
		return ErrNotFound
	}
	if _, exists := s.localApplications[app.ID]; exists {
		return sentinel.ErrConflict
	}
	s.localApplications[app.ID] = *app
	return nil
}

// ListLocalApplications returns every local application, newest first.
func (s *InMemory) ListLocalApplications(_ context.Context) ([]*models.LocalApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.LocalApplication, 0, len(s.localApplications))
	for _, app := range s.localApplications {
		out = append(out, &app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) CreateInvitationApplication(_ context.Context, app *models.InvitationApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.invitations[app.InvitationID]; !exists {
		return ErrNotFound
	}
	if _, exists := s.invitationApplications[app.ID]; exists {
		return sentinel.ErrConflict
	}
	s.invitationApplications[app.ID] = *app
	return nil
}

// ListInvitationApplications returns every invitation application, newest first.
func (s *InMemory) ListInvitationApplications(_ context.Context) ([]*models.InvitationApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.InvitationApplication, 0, len(s.invitationApplications))
	for _, app := range s.invitationApplications {
		out = append(out, &app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneInvitation(inv models.Invitation) models.Invitation {
	inv.Availability = cloneAvailability(inv.Availability)
	return inv
}

func cloneVisitorRequest(req models.VisitorRequest) models.VisitorRequest {
	req.Availability = cloneAvailability(req.Availability)
	return req
}

func cloneAvailability(a models.Availability) models.Availability {
	a.Days = append([]string(nil), a.Days...)
	a.Slots = append([]string(nil), a.Slots...)
	return a
}
