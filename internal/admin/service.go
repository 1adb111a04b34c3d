// Package admin is the operator side of the exchange: it joins listings,
// applications and contacts into a matching board, finds orphaned contacts
// and exports the board to object storage.
//
// Nothing here is mounted on the public HTTP surface. The operator CLI is
// the only caller.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	contactmodels "lowa/internal/contact/models"
	"lowa/internal/listing/models"
	dErrors "lowa/pkg/domain-errors"
	"lowa/pkg/requestcontext"
)

type ContactDirectory interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*contactmodels.Contact, error)
	ListAll(ctx context.Context) ([]*contactmodels.Contact, error)
}

// orphanLister is implemented by stores that can find orphans in one query.
type orphanLister interface {
	ListOrphaned(ctx context.Context) ([]*contactmodels.Contact, error)
}

type ListingReader interface {
	ListInvitations(ctx context.Context) ([]*models.Invitation, error)
	ListVisitorRequests(ctx context.Context) ([]*models.VisitorRequest, error)
	ListLocalApplications(ctx context.Context) ([]*models.LocalApplication, error)
	ListInvitationApplications(ctx context.Context) ([]*models.InvitationApplication, error)
}

// Uploader stores an exported board. Satisfied by *s3.Client.
type Uploader interface {
	PutObject(ctx context.Context, bucket, key, contentType string, data []byte) error
}

var ErrNoUploader = errors.New("no export target configured")

type Service struct {
	contacts ContactDirectory
	listings ListingReader
	uploader Uploader
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithUploader(u Uploader) Option {
	return func(s *Service) {
		s.uploader = u
	}
}

func NewService(contacts ContactDirectory, listings ListingReader, opts ...Option) *Service {
	s := &Service{contacts: contacts, listings: listings, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type snapshot struct {
	invitations            []*models.Invitation
	visitorRequests        []*models.VisitorRequest
	localApplications      []*models.LocalApplication
	invitationApplications []*models.InvitationApplication
}

func (s *Service) load(ctx context.Context) (*snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.invitations, err = s.listings.ListInvitations(gctx)
		return wrapLoad("invitations", err)
	})
	g.Go(func() (err error) {
		snap.visitorRequests, err = s.listings.ListVisitorRequests(gctx)
		return wrapLoad("visitor requests", err)
	})
	g.Go(func() (err error) {
		snap.localApplications, err = s.listings.ListLocalApplications(gctx)
		return wrapLoad("local applications", err)
	})
	g.Go(func() (err error) {
		snap.invitationApplications, err = s.listings.ListInvitationApplications(gctx)
		return wrapLoad("invitation applications", err)
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load board")
	}
	return &snap, nil
}

func wrapLoad(what string, err error) error {
	if err != nil {
		return fmt.Errorf("list %s: %w", what, err)
	}
	return nil
}

// referencedContacts returns every contact id the snapshot points at, in
// first-seen order.
func (snap *snapshot) referencedContacts() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, inv := range snap.invitations {
		add(inv.ContactID)
	}
	for _, req := range snap.visitorRequests {
		add(req.ContactID)
	}
	for _, app := range snap.localApplications {
		add(app.ContactID)
	}
	for _, app := range snap.invitationApplications {
		add(app.ContactID)
	}
	return ids
}

// Board joins every listing with its contact and its applications.
// Applications are ordered oldest first under each listing.
func (s *Service) Board(ctx context.Context) (*BoardResponse, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	contacts, err := s.contacts.FindByIDs(ctx, snap.referencedContacts())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contacts")
	}
	info := func(id uuid.UUID) string {
		if c, ok := contacts[id]; ok {
			return c.Info
		}
		s.logger.WarnContext(ctx, "listing references missing contact", "contact_id", id)
		return ""
	}

	invitationApps := make(map[uuid.UUID][]*InvitationApplicationEntry)
	for _, app := range snap.invitationApplications {
		invitationApps[app.InvitationID] = append(invitationApps[app.InvitationID], &InvitationApplicationEntry{
			ID:           app.ID,
			Message:      app.Message,
			Participants: app.Participants,
			AgeRange:     app.AgeRange,
			Gender:       app.Gender,
			Languages:    app.Languages,
			Contact:      info(app.ContactID),
			CreatedAt:    app.CreatedAt,
		})
	}
	localApps := make(map[uuid.UUID][]*LocalApplicationEntry)
	for _, app := range snap.localApplications {
		localApps[app.VisitorRequestID] = append(localApps[app.VisitorRequestID], &LocalApplicationEntry{
			ID:                 app.ID,
			InterestedLocation: app.InterestedLocation,
			Participants:       app.Participants,
			AgeRange:           app.AgeRange,
			Gender:             app.Gender,
			Languages:          app.Languages,
			Contact:            info(app.ContactID),
			CreatedAt:          app.CreatedAt,
		})
	}

	board := &BoardResponse{
		GeneratedAt:     requestcontext.Now(ctx).UTC(),
		Invitations:     make([]*InvitationEntry, 0, len(snap.invitations)),
		VisitorRequests: make([]*VisitorRequestEntry, 0, len(snap.visitorRequests)),
		Totals: BoardTotals{
			Invitations:            len(snap.invitations),
			VisitorRequests:        len(snap.visitorRequests),
			InvitationApplications: len(snap.invitationApplications),
			LocalApplications:      len(snap.localApplications),
		},
	}
	for _, inv := range snap.invitations {
		apps := invitationApps[inv.ID]
		sortOldestFirst(apps, func(e *InvitationApplicationEntry) int64 { return e.CreatedAt.UnixNano() })
		board.Invitations = append(board.Invitations, &InvitationEntry{
			InvitationAuthorView: inv.AuthorView(),
			Contact:              info(inv.ContactID),
			Applications:         nonNil(apps),
		})
	}
	for _, req := range snap.visitorRequests {
		apps := localApps[req.ID]
		sortOldestFirst(apps, func(e *LocalApplicationEntry) int64 { return e.CreatedAt.UnixNano() })
		board.VisitorRequests = append(board.VisitorRequests, &VisitorRequestEntry{
			VisitorRequestView: req.PublicView(),
			AvailableDays:      append([]string(nil), req.Availability.Days...),
			AvailableSlots:     append([]string(nil), req.Availability.Slots...),
			Contact:            info(req.ContactID),
			Applications:       nonNil(apps),
		})
	}
	return board, nil
}

func sortOldestFirst[T any](entries []T, at func(T) int64) {
	slices.SortStableFunc(entries, func(a, b T) int {
		switch x, y := at(a), at(b); {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Orphans lists contacts left behind by a submission whose record write
// failed. Stores that can answer in one query do so; otherwise every contact
// is diffed against the references held by listings and applications.
func (s *Service) Orphans(ctx context.Context) ([]OrphanEntry, error) {
	var orphans []*contactmodels.Contact
	if lister, ok := s.contacts.(orphanLister); ok {
		found, err := lister.ListOrphaned(ctx)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list orphaned contacts")
		}
		orphans = found
	} else {
		// Contacts first: a submission finishing between the two reads then
		// has its record seen and its contact not, never the reverse.
		all, err := s.contacts.ListAll(ctx)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contacts")
		}
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		referenced := make(map[uuid.UUID]struct{})
		for _, id := range snap.referencedContacts() {
			referenced[id] = struct{}{}
		}
		for _, c := range all {
			if _, ok := referenced[c.ID]; !ok {
				orphans = append(orphans, c)
			}
		}
	}

	out := make([]OrphanEntry, 0, len(orphans))
	for _, c := range orphans {
		out = append(out, OrphanEntry{
			ID:        c.ID,
			Type:      string(c.Type),
			Contact:   c.Info,
			CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}

// Export writes the board as JSON to bucket/key. An empty key is derived
// from the board's generation time.
func (s *Service) Export(ctx context.Context, bucket, key string) (string, error) {
	if s.uploader == nil {
		return "", ErrNoUploader
	}
	if bucket == "" {
		return "", dErrors.New(dErrors.CodeValidation, "bucket is required")
	}
	board, err := s.Board(ctx)
	if err != nil {
		return "", err
	}
	if key == "" {
		key = "boards/" + board.GeneratedAt.Format("20060102T150405Z") + ".json"
	}
	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode board: %w", err)
	}
	if err := s.uploader.PutObject(ctx, bucket, key, "application/json", data); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to upload board")
	}
	s.logger.InfoContext(ctx, "board exported",
		"bucket", bucket,
		"key", key,
		"invitations", board.Totals.Invitations,
		"visitor_requests", board.Totals.VisitorRequests,
	)
	return key, nil
}
