package models

import (
	"time"

	"github.com/google/uuid"
)

// VisitorRequest is a visitor-authored listing. Participants is the size of
// the visiting group; applications copy it when they are submitted.
type VisitorRequest struct {
	ID               uuid.UUID
	Title            string
	Availability     Availability
	Location         string
	CompanionGenders string
	AgeRange         AgeRange
	Languages        string
	Participants     int
	ContactID        uuid.UUID
	CreatedAt        time.Time
}

// VisitorRequestView is what a browsing resident sees.
type VisitorRequestView struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Time             string    `json:"time"`
	Location         string    `json:"location"`
	CompanionGenders string    `json:"companion_genders"`
	AgeRange         AgeRange  `json:"age_range"`
	Languages        string    `json:"languages"`
	Participants     int       `json:"participants"`
	CreatedAt        time.Time `json:"created_at"`
}

func (r *VisitorRequest) PublicView() VisitorRequestView {
	return VisitorRequestView{
		ID:               r.ID,
		Title:            r.Title,
		Time:             r.Availability.Display,
		Location:         r.Location,
		CompanionGenders: r.CompanionGenders,
		AgeRange:         r.AgeRange,
		Languages:        r.Languages,
		Participants:     r.Participants,
		CreatedAt:        r.CreatedAt,
	}
}
