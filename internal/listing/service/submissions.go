package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"lowa/internal/audit"
	contactmodels "lowa/internal/contact/models"
	"lowa/internal/listing/models"
	"lowa/internal/listing/store"
	dErrors "lowa/pkg/domain-errors"
	"lowa/pkg/requestcontext"
)

// Submission kinds, used as metric labels and log attributes.
const (
	KindInvitation            = "invitation"
	KindVisitorRequest        = "visitor_request"
	KindLocalApplication      = "local_application"
	KindInvitationApplication = "invitation_application"
)

// CreateInvitation validates req and stores the contact and the invitation.
// Success carries no identifiers back to the author.
func (s *Service) CreateInvitation(ctx context.Context, req *models.CreateInvitationRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.incValidationError(KindInvitation)
		return err
	}
	availability, err := models.EncodeAvailability(req.Days, req.TimeSlots)
	if err != nil {
		s.incValidationError(KindInvitation)
		return err
	}

	inv := &models.Invitation{
		ID:                s.newID(),
		Title:             req.Title,
		Availability:      availability,
		Location:          req.Location,
		Activity:          req.Activity,
		AgeRange:          req.AgeRange,
		Gender:            req.Gender,
		Languages:         req.Languages,
		PreferredGender:   req.PreferredGender,
		PreferredAgeRange: req.PreferredAgeRange,
		MaxParticipants:   *req.MaxParticipants,
		CreatedAt:         requestcontext.Now(ctx),
	}

	contactID, err := s.linkedWrite(ctx, linkedSubmission{
		kind:        KindInvitation,
		contactInfo: req.Contact,
		contactType: contactmodels.ContactTypeInvitation,
		write: func(ctx context.Context, contactID uuid.UUID) error {
			inv.ContactID = contactID
			return s.listings.CreateInvitation(ctx, inv)
		},
	})
	if err != nil {
		return err
	}

	s.completed(ctx, KindInvitation, audit.EventInvitationCreated, inv.ID, contactID, uuid.Nil)
	s.invalidate(ctx, invitationsKey)
	return nil
}

// CreateVisitorRequest validates req and stores the contact and the request.
func (s *Service) CreateVisitorRequest(ctx context.Context, req *models.CreateVisitorRequestRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.incValidationError(KindVisitorRequest)
		return err
	}
	availability, err := models.EncodeAvailability(req.Days, req.TimeSlots)
	if err != nil {
		s.incValidationError(KindVisitorRequest)
		return err
	}

	vr := &models.VisitorRequest{
		ID:               s.newID(),
		Title:            req.Title,
		Availability:     availability,
		Location:         req.Location,
		CompanionGenders: req.CompanionGenders,
		AgeRange:         req.AgeRange,
		Languages:        req.Languages,
		Participants:     *req.Participants,
		CreatedAt:        requestcontext.Now(ctx),
	}

	contactID, err := s.linkedWrite(ctx, linkedSubmission{
		kind:        KindVisitorRequest,
		contactInfo: req.Contact,
		contactType: contactmodels.ContactTypeVisitorRequest,
		write: func(ctx context.Context, contactID uuid.UUID) error {
			vr.ContactID = contactID
			return s.listings.CreateVisitorRequest(ctx, vr)
		},
	})
	if err != nil {
		return err
	}

	s.completed(ctx, KindVisitorRequest, audit.EventVisitorRequestCreated, vr.ID, contactID, uuid.Nil)
	s.invalidate(ctx, visitorRequestsKey)
	return nil
}

// SubmitLocalApplication records a resident's response to a visitor request.
// The application's participant count is copied from the request as it is
// read here; later changes to the request do not reach stored applications.
func (s *Service) SubmitLocalApplication(ctx context.Context, requestID uuid.UUID, req *models.SubmitLocalApplicationRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.incValidationError(KindLocalApplication)
		return err
	}

	target, err := s.fetchVisitorRequest(ctx, requestID)
	if err != nil {
		return err
	}

	app := &models.LocalApplication{
		ID:                 s.newID(),
		VisitorRequestID:   target.ID,
		InterestedLocation: req.InterestedLocation,
		Participants:       target.Participants,
		AgeRange:           req.AgeRange,
		Gender:             req.Gender,
		Languages:          req.Languages,
		CreatedAt:          requestcontext.Now(ctx),
	}

	contactID, err := s.linkedWrite(ctx, linkedSubmission{
		kind:        KindLocalApplication,
		contactInfo: req.Contact,
		contactType: contactmodels.ContactTypeApplication,
		write: func(ctx context.Context, contactID uuid.UUID) error {
			app.ContactID = contactID
			return s.listings.CreateLocalApplication(ctx, app)
		},
	})
	if err != nil {
		return err
	}

	s.completed(ctx, KindLocalApplication, audit.EventLocalApplicationCreated, app.ID, contactID, target.ID)
	return nil
}

// SubmitInvitationApplication records a visitor's response to an invitation.
// The visiting group may not be larger than the invitation allows.
func (s *Service) SubmitInvitationApplication(ctx context.Context, invitationID uuid.UUID, req *models.SubmitInvitationApplicationRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.incValidationError(KindInvitationApplication)
		return err
	}

	target, err := s.fetchInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if *req.Participants > target.MaxParticipants {
		s.incValidationError(KindInvitationApplication)
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("participants must not exceed %d for this invitation", target.MaxParticipants))
	}

	app := &models.InvitationApplication{
		ID:           s.newID(),
		InvitationID: target.ID,
		Message:      req.Message,
		Participants: *req.Participants,
		AgeRange:     req.AgeRange,
		Gender:       req.Gender,
		Languages:    req.Languages,
		CreatedAt:    requestcontext.Now(ctx),
	}

	contactID, err := s.linkedWrite(ctx, linkedSubmission{
		kind:        KindInvitationApplication,
		contactInfo: req.Contact,
		contactType: contactmodels.ContactTypeVisitorApplication,
		write: func(ctx context.Context, contactID uuid.UUID) error {
			app.ContactID = contactID
			return s.listings.CreateInvitationApplication(ctx, app)
		},
	})
	if err != nil {
		return err
	}

	s.completed(ctx, KindInvitationApplication, audit.EventInvitationApplicationCreated, app.ID, contactID, target.ID)
	return nil
}

func (s *Service) completed(ctx context.Context, kind string, eventType audit.EventType, recordID, contactID, targetID uuid.UUID) {
	s.incSubmission(kind, "submitted")
	s.emit(ctx, audit.Event{
		Type:      audit.EventContactCreated,
		RecordID:  recordID,
		ContactID: contactID,
	})
	s.emit(ctx, audit.Event{
		Type:      eventType,
		RecordID:  recordID,
		ContactID: contactID,
		TargetID:  targetID,
	})
}

// fetchVisitorRequest treats any read failure as an absent request.
func (s *Service) fetchVisitorRequest(ctx context.Context, id uuid.UUID) (*models.VisitorRequest, error) {
	vr, err := s.listings.FindVisitorRequest(ctx, id)
	if err != nil {
		s.logFetchFailure(ctx, KindVisitorRequest, id, err)
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "visitor request not found")
	}
	return vr, nil
}

// fetchInvitation treats any read failure as an absent invitation.
func (s *Service) fetchInvitation(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	inv, err := s.listings.FindInvitation(ctx, id)
	if err != nil {
		s.logFetchFailure(ctx, KindInvitation, id, err)
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "invitation not found")
	}
	return inv, nil
}

func (s *Service) logFetchFailure(ctx context.Context, kind string, id uuid.UUID, err error) {
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	s.logger.ErrorContext(ctx, "listing fetch failed",
		"kind", kind,
		"id", id,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}
