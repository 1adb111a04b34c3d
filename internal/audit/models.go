package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventType names an action recorded on the audit stream.
type EventType string

const (
	EventContactCreated               EventType = "contact_created"
	EventContactOrphaned              EventType = "contact_orphaned"
	EventInvitationCreated            EventType = "invitation_created"
	EventVisitorRequestCreated        EventType = "visitor_request_created"
	EventLocalApplicationCreated      EventType = "local_application_created"
	EventInvitationApplicationCreated EventType = "invitation_application_created"
)

// Event is emitted from domain logic to capture key actions. It carries
// identifiers only: contact info and preference fields never enter the
// audit stream.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	// RecordID is the listing or application the event is about.
	RecordID  uuid.UUID `json:"record_id"`
	ContactID uuid.UUID `json:"contact_id"`
	// TargetID is the listing an application responds to.
	TargetID  uuid.UUID `json:"target_id"`
	RequestID string    `json:"request_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}
