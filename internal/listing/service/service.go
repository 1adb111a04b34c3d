package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"lowa/internal/audit"
	contactmodels "lowa/internal/contact/models"
	"lowa/internal/listing/models"
	"lowa/internal/platform/metrics"
	"lowa/pkg/requestcontext"
)

type ContactStore interface {
	Create(ctx context.Context, contact *contactmodels.Contact) error
}

type ListingStore interface {
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	FindInvitation(ctx context.Context, id uuid.UUID) (*models.Invitation, error)
	ListInvitations(ctx context.Context) ([]*models.Invitation, error)

	CreateVisitorRequest(ctx context.Context, req *models.VisitorRequest) error
	FindVisitorRequest(ctx context.Context, id uuid.UUID) (*models.VisitorRequest, error)
	ListVisitorRequests(ctx context.Context) ([]*models.VisitorRequest, error)

	CreateLocalApplication(ctx context.Context, app *models.LocalApplication) error
	CreateInvitationApplication(ctx context.Context, app *models.InvitationApplication) error
}

// TxRunner runs fn inside one database transaction. Stores pick the
// transaction up from the context passed to fn.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// ViewCache stores public views only. A miss or a cache error falls through
// to the store.
//
// Collection views are versioned: readers key their entry by the generation
// they observed before reading the store, and Invalidate advances the
// generation, so a list read that races a new listing can only populate an
// entry nobody reads again.
type ViewCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Generation(ctx context.Context, collection string) (int64, error)
	Invalidate(ctx context.Context, collection string) error
}

// Service runs the submission flows and serves public listing views.
type Service struct {
	contacts       ContactStore
	listings       ListingStore
	tx             TxRunner
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	cache          ViewCache
	tracer         trace.Tracer
	newID          func() uuid.UUID
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithTxRunner makes both phases of every submission run in one transaction.
// A nil runner keeps the two phases independent.
func WithTxRunner(tx TxRunner) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithViewCache(cache ViewCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithIDGenerator replaces uuid.New for contact and record identifiers.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

func New(contacts ContactStore, listings ListingStore, opts ...Option) *Service {
	s := &Service{
		contacts: contacts,
		listings: listings,
		logger:   slog.Default(),
		tracer:   otel.Tracer("lowa/listing"),
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	s.logger.InfoContext(ctx, string(event.Type),
		"record_id", event.RecordID,
		"contact_id", event.ContactID,
		"request_id", event.RequestID,
		"log_type", "audit",
	)
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event",
			"event_type", event.Type,
			"error", err,
		)
	}
}

func (s *Service) incSubmission(kind, outcome string) {
	if s.metrics != nil {
		s.metrics.IncSubmission(kind, outcome)
	}
}

func (s *Service) incValidationError(kind string) {
	if s.metrics != nil {
		s.metrics.IncValidationError(kind)
	}
}
