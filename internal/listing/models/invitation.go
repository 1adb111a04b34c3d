package models

import (
	"time"

	"github.com/google/uuid"
)

// Invitation is a resident-authored listing.
//
// Invitations carry a ContactID and never the contact itself. The preferred_*
// fields are for manual matching only: PublicView drops them and is the only
// shape that leaves the service through the browse surface.
type Invitation struct {
	ID                uuid.UUID
	Title             string
	Availability      Availability
	Location          string
	Activity          string
	ContactID         uuid.UUID
	AgeRange          AgeRange
	Gender            Gender
	Languages         string
	PreferredGender   Gender
	PreferredAgeRange AgeRange
	MaxParticipants   int
	CreatedAt         time.Time
}

// InvitationView is what a browsing visitor sees.
type InvitationView struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Time            string    `json:"time"`
	Location        string    `json:"location"`
	Activity        string    `json:"activity"`
	AgeRange        AgeRange  `json:"age_range"`
	Gender          Gender    `json:"gender"`
	Languages       string    `json:"languages"`
	MaxParticipants int       `json:"max_participants"`
	CreatedAt       time.Time `json:"created_at"`
}

// InvitationAuthorView includes the preferences. It is only rendered by
// operator tooling.
type InvitationAuthorView struct {
	InvitationView
	AvailableDays     []string  `json:"available_days"`
	AvailableSlots    []string  `json:"available_slots"`
	ContactID         uuid.UUID `json:"contact_id"`
	PreferredGender   Gender    `json:"preferred_gender"`
	PreferredAgeRange AgeRange  `json:"preferred_age_range"`
}

func (i *Invitation) PublicView() InvitationView {
	return InvitationView{
		ID:              i.ID,
		Title:           i.Title,
		Time:            i.Availability.Display,
		Location:        i.Location,
		Activity:        i.Activity,
		AgeRange:        i.AgeRange,
		Gender:          i.Gender,
		Languages:       i.Languages,
		MaxParticipants: i.MaxParticipants,
		CreatedAt:       i.CreatedAt,
	}
}

func (i *Invitation) AuthorView() InvitationAuthorView {
	return InvitationAuthorView{
		InvitationView:    i.PublicView(),
		AvailableDays:     append([]string(nil), i.Availability.Days...),
		AvailableSlots:    append([]string(nil), i.Availability.Slots...),
		ContactID:         i.ContactID,
		PreferredGender:   i.PreferredGender,
		PreferredAgeRange: i.PreferredAgeRange,
	}
}
