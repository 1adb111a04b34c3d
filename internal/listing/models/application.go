package models

import (
	"time"

	"github.com/google/uuid"
)

// LocalApplication is a resident's response to a VisitorRequest.
// Participants is a snapshot of the request's value at submission time.
type LocalApplication struct {
	ID                 uuid.UUID
	VisitorRequestID   uuid.UUID
	InterestedLocation string
	ContactID          uuid.UUID
	Participants       int
	AgeRange           AgeRange
	Gender             Gender
	Languages          string
	CreatedAt          time.Time
}

// InvitationApplication is a visitor's response to an Invitation.
// Participants is the applicant's own group size.
type InvitationApplication struct {
	ID           uuid.UUID
	InvitationID uuid.UUID
	Message      string
	ContactID    uuid.UUID
	Participants int
	AgeRange     AgeRange
	Gender       Gender
	Languages    string
	CreatedAt    time.Time
}
