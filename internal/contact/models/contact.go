package models

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "lowa/pkg/domain-errors"
)

// ContactType records which submission flow created a contact.
type ContactType string

const (
	ContactTypeInvitation         ContactType = "invitation"
	ContactTypeApplication        ContactType = "application"
	ContactTypeVisitorRequest     ContactType = "visitor_request"
	ContactTypeVisitorApplication ContactType = "visitor_application"
)

func (t ContactType) IsValid() bool {
	switch t {
	case ContactTypeInvitation, ContactTypeApplication, ContactTypeVisitorRequest, ContactTypeVisitorApplication:
		return true
	}
	return false
}

// MaxInfoLength bounds the free-text contact field.
const MaxInfoLength = 200

// Contact holds a party's raw reachability information.
//
// Invariants:
//   - ID is allocated by the writer before any record references it
//   - Info is non-empty
//   - a Contact is written once and never updated or deleted
//
// Contact deliberately has no JSON encoding: it never leaves the service
// through the public HTTP surface.
type Contact struct {
	ID        uuid.UUID
	Info      string
	Type      ContactType
	CreatedAt time.Time
}

func NewContact(id uuid.UUID, info string, contactType ContactType, now time.Time) (*Contact, error) {
	if id == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeInternal, "contact id must be allocated before write")
	}
	if info == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "contact is required")
	}
	if utf8.RuneCountInString(info) > MaxInfoLength {
		return nil, dErrors.New(dErrors.CodeValidation, "contact must be 200 characters or less")
	}
	if !contactType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInternal, "unknown contact type")
	}
	return &Contact{
		ID:        id,
		Info:      info,
		Type:      contactType,
		CreatedAt: now,
	}, nil
}
