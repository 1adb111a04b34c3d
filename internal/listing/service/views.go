package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"

	"lowa/internal/listing/models"
	"lowa/pkg/platform/sentinel"
	"lowa/pkg/requestcontext"
)

// Cache keys for public views.
const (
	invitationsKey     = "views:invitations"
	visitorRequestsKey = "views:visitor_requests"
)

func invitationKey(id uuid.UUID) string     { return "views:invitation:" + id.String() }
func visitorRequestKey(id uuid.UUID) string { return "views:visitor_request:" + id.String() }

// ListInvitations returns public views, newest first. A failed read yields an
// empty list.
func (s *Service) ListInvitations(ctx context.Context) []models.InvitationView {
	var views []models.InvitationView
	key, cacheable := s.collectionKey(ctx, invitationsKey)
	if cacheable && s.cacheGet(ctx, "invitations", key, &views) {
		return views
	}

	records, err := s.listings.ListInvitations(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list invitations failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return []models.InvitationView{}
	}
	views = make([]models.InvitationView, len(records))
	for i, inv := range records {
		views[i] = inv.PublicView()
	}
	if cacheable {
		s.cacheSet(ctx, key, views)
	}
	return views
}

// GetInvitation returns the public view of one invitation. Any read failure
// is reported as not found.
func (s *Service) GetInvitation(ctx context.Context, id uuid.UUID) (models.InvitationView, error) {
	var view models.InvitationView
	if s.cacheGet(ctx, "invitation", invitationKey(id), &view) {
		return view, nil
	}
	inv, err := s.fetchInvitation(ctx, id)
	if err != nil {
		return models.InvitationView{}, err
	}
	view = inv.PublicView()
	s.cacheSet(ctx, invitationKey(id), view)
	return view, nil
}

// ListVisitorRequests returns public views, newest first. A failed read
// yields an empty list.
func (s *Service) ListVisitorRequests(ctx context.Context) []models.VisitorRequestView {
	var views []models.VisitorRequestView
	key, cacheable := s.collectionKey(ctx, visitorRequestsKey)
	if cacheable && s.cacheGet(ctx, "visitor_requests", key, &views) {
		return views
	}

	records, err := s.listings.ListVisitorRequests(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list visitor requests failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return []models.VisitorRequestView{}
	}
	views = make([]models.VisitorRequestView, len(records))
	for i, vr := range records {
		views[i] = vr.PublicView()
	}
	if cacheable {
		s.cacheSet(ctx, key, views)
	}
	return views
}

func (s *Service) GetVisitorRequest(ctx context.Context, id uuid.UUID) (models.VisitorRequestView, error) {
	var view models.VisitorRequestView
	if s.cacheGet(ctx, "visitor_request", visitorRequestKey(id), &view) {
		return view, nil
	}
	vr, err := s.fetchVisitorRequest(ctx, id)
	if err != nil {
		return models.VisitorRequestView{}, err
	}
	view = vr.PublicView()
	s.cacheSet(ctx, visitorRequestKey(id), view)
	return view, nil
}

func (s *Service) cacheGet(ctx context.Context, collection, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.WarnContext(ctx, "view cache read failed", "key", key, "error", err)
		hit = false
	}
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(collection, hit)
	}
	return hit
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.WarnContext(ctx, "view cache write failed", "key", key, "error", err)
	}
}

// collectionKey versions a collection key with its current generation. It
// must be resolved before the store read. false disables caching for the read.
func (s *Service) collectionKey(ctx context.Context, collection string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	gen, err := s.cache.Generation(ctx, collection)
	if errors.Is(err, sentinel.ErrUnavailable) {
		return "", false
	}
	if err != nil {
		s.logger.WarnContext(ctx, "view cache generation read failed", "collection", collection, "error", err)
		return "", false
	}
	return collection + ":" + strconv.FormatInt(gen, 10), true
}

// invalidate retires a collection's cached views after a new listing is
// stored. Single-record views never change and are left to expire.
func (s *Service) invalidate(ctx context.Context, collection string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, collection); err != nil {
		s.logger.WarnContext(ctx, "view cache invalidation failed", "collection", collection, "error", err)
	}
}
