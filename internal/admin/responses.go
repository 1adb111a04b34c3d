package admin

import (
	"time"

	"github.com/google/uuid"

	"lowa/internal/listing/models"
)

// BoardResponse is the operator's matching board: every listing with its
// contact and applications joined in.
type BoardResponse struct {
	GeneratedAt     time.Time              `json:"generated_at"`
	Invitations     []*InvitationEntry     `json:"invitations"`
	VisitorRequests []*VisitorRequestEntry `json:"visitor_requests"`
	Totals          BoardTotals            `json:"totals"`
}

type BoardTotals struct {
	Invitations            int `json:"invitations"`
	VisitorRequests        int `json:"visitor_requests"`
	InvitationApplications int `json:"invitation_applications"`
	LocalApplications      int `json:"local_applications"`
}

// InvitationEntry carries the author view, including preferences, so the
// operator can match applicants by hand.
type InvitationEntry struct {
	models.InvitationAuthorView
	Contact      string                        `json:"contact"`
	Applications []*InvitationApplicationEntry `json:"applications"`
}

type InvitationApplicationEntry struct {
	ID           uuid.UUID       `json:"id"`
	Message      string          `json:"message"`
	Participants int             `json:"participants"`
	AgeRange     models.AgeRange `json:"age_range"`
	Gender       models.Gender   `json:"gender"`
	Languages    string          `json:"languages"`
	Contact      string          `json:"contact"`
	CreatedAt    time.Time       `json:"created_at"`
}

type VisitorRequestEntry struct {
	models.VisitorRequestView
	AvailableDays  []string                 `json:"available_days"`
	AvailableSlots []string                 `json:"available_slots"`
	Contact        string                   `json:"contact"`
	Applications   []*LocalApplicationEntry `json:"applications"`
}

type LocalApplicationEntry struct {
	ID                 uuid.UUID       `json:"id"`
	InterestedLocation string          `json:"interested_location"`
	Participants       int             `json:"participants"`
	AgeRange           models.AgeRange `json:"age_range"`
	Gender             models.Gender   `json:"gender"`
	Languages          string          `json:"languages"`
	Contact            string          `json:"contact"`
	CreatedAt          time.Time       `json:"created_at"`
}

// OrphanEntry is a contact no listing or application references.
type OrphanEntry struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}
