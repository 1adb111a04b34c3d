package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"

	contactmodels "lowa/internal/contact/models"
	contactstore "lowa/internal/contact/store"
	"lowa/internal/listing/models"
	"lowa/internal/listing/store"
)

var errStoreDown = errors.New("connection refused")

// countingContacts wraps the in-memory contact store and can be told to fail.
type countingContacts struct {
	*contactstore.InMemory
	fail  bool
	calls int
}

func (c *countingContacts) Create(ctx context.Context, contact *contactmodels.Contact) error {
	c.calls++
	if c.fail {
		return errStoreDown
	}
	return c.InMemory.Create(ctx, contact)
}

// faultyListings wraps the in-memory listing store. failWrites breaks every
// record insert, failReads breaks single-record lookups and overrides lets
// a test change what a lookup returns after submission.
type faultyListings struct {
	*store.InMemory
	failWrites bool
	failReads  bool
	writes     int
	overrides  map[uuid.UUID]*models.VisitorRequest
	// afterList runs once the invitation snapshot is taken, before it is returned.
	afterList func()
}

func (f *faultyListings) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	f.writes++
	if f.failWrites {
		return errStoreDown
	}
	return f.InMemory.CreateInvitation(ctx, inv)
}

func (f *faultyListings) CreateVisitorRequest(ctx context.Context, vr *models.VisitorRequest) error {
	f.writes++
	if f.failWrites {
		return errStoreDown
	}
	return f.InMemory.CreateVisitorRequest(ctx, vr)
}

func (f *faultyListings) CreateLocalApplication(ctx context.Context, app *models.LocalApplication) error {
	f.writes++
	if f.failWrites {
		return errStoreDown
	}
	return f.InMemory.CreateLocalApplication(ctx, app)
}

func (f *faultyListings) CreateInvitationApplication(ctx context.Context, app *models.InvitationApplication) error {
	f.writes++
	if f.failWrites {
		return errStoreDown
	}
	return f.InMemory.CreateInvitationApplication(ctx, app)
}

func (f *faultyListings) FindVisitorRequest(ctx context.Context, id uuid.UUID) (*models.VisitorRequest, error) {
	if f.failReads {
		return nil, errStoreDown
	}
	if vr, ok := f.overrides[id]; ok {
		c := *vr
		return &c, nil
	}
	return f.InMemory.FindVisitorRequest(ctx, id)
}

func (f *faultyListings) FindInvitation(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	if f.failReads {
		return nil, errStoreDown
	}
	return f.InMemory.FindInvitation(ctx, id)
}

func (f *faultyListings) ListInvitations(ctx context.Context) ([]*models.Invitation, error) {
	if f.failReads {
		return nil, errStoreDown
	}
	records, err := f.InMemory.ListInvitations(ctx)
	if f.afterList != nil {
		f.afterList()
	}
	return records, err
}

// recordingTx runs fn directly and counts transactions.
type recordingTx struct {
	runs int
}

func (r *recordingTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.runs++
	return fn(ctx)
}

// mapCache is a ViewCache backed by JSON blobs in a map.
type mapCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	generations map[string]int64
	gets        int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte), generations: make(map[string]int64)}
}

func (c *mapCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *mapCache) Generation(_ context.Context, collection string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[collection], nil
}

func (c *mapCache) Invalidate(_ context.Context, collection string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[collection]++
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
