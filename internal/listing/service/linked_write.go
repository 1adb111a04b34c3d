package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"lowa/internal/audit"
	contactmodels "lowa/internal/contact/models"
	dErrors "lowa/pkg/domain-errors"
	"lowa/pkg/requestcontext"
)

// Failure points of a linked write. Both are wrapped in the internal
// "submission failed" error the caller receives.
var (
	ErrContactWrite = errors.New("contact write failed")
	ErrListingWrite = errors.New("listing write failed")
)

// Metric phase labels.
const (
	phaseContact = "contact"
	phaseRecord  = "record"
	phaseCommit  = "commit"
)

// recordWriter inserts the listing or application that owns contactID.
type recordWriter func(ctx context.Context, contactID uuid.UUID) error

type linkedSubmission struct {
	kind        string
	contactInfo string
	contactType contactmodels.ContactType
	write       recordWriter
}

// linkedWrite allocates a contact id, inserts the Contact, then inserts the
// owning record through sub.write. The record write is never attempted when
// the contact write fails. Without a TxRunner a failed record write leaves the
// Contact behind; it is counted and reported as orphaned.
func (s *Service) linkedWrite(ctx context.Context, sub linkedSubmission) (uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "listing.linked_write")
	defer span.End()
	span.SetAttributes(
		attribute.String("submission.kind", sub.kind),
		attribute.Bool("submission.atomic", s.tx != nil),
	)

	contactID := s.newID()
	contact, err := contactmodels.NewContact(contactID, sub.contactInfo, sub.contactType, requestcontext.Now(ctx))
	if err != nil {
		return uuid.Nil, err
	}

	run := func(ctx context.Context) error {
		if err := s.writeContact(ctx, contact); err != nil {
			return fmt.Errorf("%w: %w", ErrContactWrite, err)
		}
		if err := s.writeRecord(ctx, contactID, sub.write); err != nil {
			return fmt.Errorf("%w: %w", ErrListingWrite, err)
		}
		return nil
	}

	if s.tx != nil {
		err = s.tx.RunInTx(ctx, run)
	} else {
		err = run(ctx)
	}
	if err == nil {
		return contactID, nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "submission failed")
	s.recordFailure(ctx, sub.kind, contactID, err)
	s.incSubmission(sub.kind, "failed")
	return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInternal, "submission failed")
}

func (s *Service) writeContact(ctx context.Context, contact *contactmodels.Contact) error {
	ctx, span := s.tracer.Start(ctx, "contact.insert")
	defer span.End()
	if err := s.contacts.Create(ctx, contact); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "contact insert failed")
		return err
	}
	return nil
}

func (s *Service) writeRecord(ctx context.Context, contactID uuid.UUID, write recordWriter) error {
	ctx, span := s.tracer.Start(ctx, "record.insert")
	defer span.End()
	if err := write(ctx, contactID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record insert failed")
		return err
	}
	return nil
}

func (s *Service) recordFailure(ctx context.Context, kind string, contactID uuid.UUID, err error) {
	phase := phaseCommit
	switch {
	case errors.Is(err, ErrContactWrite):
		phase = phaseContact
	case errors.Is(err, ErrListingWrite):
		phase = phaseRecord
	}
	if s.metrics != nil {
		s.metrics.IncPhaseFailure(kind, phase)
	}

	s.logger.ErrorContext(ctx, "submission failed",
		"kind", kind,
		"phase", phase,
		"atomic", s.tx != nil,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)

	// Inside a transaction the contact insert was rolled back with the record.
	if phase != phaseRecord || s.tx != nil {
		return
	}
	if s.metrics != nil {
		s.metrics.IncOrphanedContact()
	}
	s.logger.WarnContext(ctx, "contact orphaned by failed record write",
		"kind", kind,
		"contact_id", contactID,
	)
	s.emit(ctx, audit.Event{
		Type:      audit.EventContactOrphaned,
		ContactID: contactID,
		Reason:    kind + " write failed",
	})
}
