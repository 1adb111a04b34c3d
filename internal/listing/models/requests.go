package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	dErrors "lowa/pkg/domain-errors"
	pstrings "lowa/pkg/platform/strings"
)

// Field size limits, counted in characters.
const (
	maxTitleLength      = 100
	maxLocationLength   = 200
	maxActivityLength   = 500
	maxLanguagesLength  = 100
	maxContactLength    = 200
	maxMessageLength    = 1000
	maxCompanionsLength = 100
)

type CreateInvitationRequest struct {
	Title             string   `json:"title"`
	Days              []string `json:"days"`
	TimeSlots         []string `json:"time_slots"`
	Location          string   `json:"location"`
	Activity          string   `json:"activity"`
	Contact           string   `json:"contact"`
	AgeRange          AgeRange `json:"age_range"`
	Gender            Gender   `json:"gender"`
	Languages         string   `json:"languages"`
	PreferredGender   Gender   `json:"preferred_gender"`
	PreferredAgeRange AgeRange `json:"preferred_age_range"`
	MaxParticipants   *int     `json:"max_participants"`
	PrivacyAccepted   bool     `json:"privacy_accepted"`
}

func (r *CreateInvitationRequest) Normalize() {
	if r == nil {
		return
	}
	pstrings.TrimFields(&r.Title, &r.Location, &r.Activity, &r.Contact, &r.Languages)
	r.AgeRange = AgeRange(normalizeEnum(string(r.AgeRange), string(DefaultAgeRange)))
	r.Gender = Gender(normalizeEnum(string(r.Gender), string(DefaultGender)))
	r.PreferredGender = Gender(normalizeEnum(string(r.PreferredGender), string(DefaultPreferredGender)))
	r.PreferredAgeRange = AgeRange(normalizeEnum(string(r.PreferredAgeRange), string(DefaultPreferredAgeRange)))
	if r.MaxParticipants == nil {
		n := DefaultParticipants
		r.MaxParticipants = &n
	}
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *CreateInvitationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	if err := checkLengths(
		field{"title", r.Title, maxTitleLength},
		field{"location", r.Location, maxLocationLength},
		field{"activity", r.Activity, maxActivityLength},
		field{"languages", r.Languages, maxLanguagesLength},
		field{"contact", r.Contact, maxContactLength},
	); err != nil {
		return err
	}

	if err := checkRequired(
		field{name: "title", value: r.Title},
		field{name: "location", value: r.Location},
		field{name: "activity", value: r.Activity},
		field{name: "languages", value: r.Languages},
		field{name: "contact", value: r.Contact},
	); err != nil {
		return err
	}
	if !r.PrivacyAccepted {
		return errPrivacyNotAccepted
	}

	if !r.AgeRange.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "age_range must be one of 20s, 30s, 40s, 50+")
	}
	if !r.Gender.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "gender must be one of male, female, any")
	}
	if !r.PreferredGender.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "preferred_gender must be one of male, female, any")
	}
	if !r.PreferredAgeRange.IsValidPreference() {
		return dErrors.New(dErrors.CodeValidation, "preferred_age_range must be one of 20s, 30s, 40s, 50+, any")
	}

	if err := checkParticipants("max_participants", r.MaxParticipants); err != nil {
		return err
	}
	_, err := EncodeAvailability(r.Days, r.TimeSlots)
	return err
}

type CreateVisitorRequestRequest struct {
	Title            string   `json:"title"`
	Days             []string `json:"days"`
	TimeSlots        []string `json:"time_slots"`
	Location         string   `json:"location"`
	CompanionGenders string   `json:"companion_genders"`
	AgeRange         AgeRange `json:"age_range"`
	Languages        string   `json:"languages"`
	Participants     *int     `json:"participants"`
	Contact          string   `json:"contact"`
	PrivacyAccepted  bool     `json:"privacy_accepted"`
}

func (r *CreateVisitorRequestRequest) Normalize() {
	if r == nil {
		return
	}
	pstrings.TrimFields(&r.Title, &r.Location, &r.CompanionGenders, &r.Languages, &r.Contact)
	r.AgeRange = AgeRange(normalizeEnum(string(r.AgeRange), string(DefaultAgeRange)))
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *CreateVisitorRequestRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	if err := checkLengths(
		field{"title", r.Title, maxTitleLength},
		field{"location", r.Location, maxLocationLength},
		field{"companion_genders", r.CompanionGenders, maxCompanionsLength},
		field{"languages", r.Languages, maxLanguagesLength},
		field{"contact", r.Contact, maxContactLength},
	); err != nil {
		return err
	}

	if err := checkRequired(
		field{name: "title", value: r.Title},
		field{name: "location", value: r.Location},
		field{name: "languages", value: r.Languages},
		field{name: "contact", value: r.Contact},
	); err != nil {
		return err
	}
	if r.Participants == nil {
		return dErrors.New(dErrors.CodeValidation, "participants is required")
	}
	if !r.PrivacyAccepted {
		return errPrivacyNotAccepted
	}

	if !r.AgeRange.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "age_range must be one of 20s, 30s, 40s, 50+")
	}
	if err := checkParticipants("participants", r.Participants); err != nil {
		return err
	}
	_, err := EncodeAvailability(r.Days, r.TimeSlots)
	return err
}

// SubmitLocalApplicationRequest carries no participants field: the count is
// copied from the target request when the application is written.
type SubmitLocalApplicationRequest struct {
	InterestedLocation string   `json:"interested_location"`
	Contact            string   `json:"contact"`
	AgeRange           AgeRange `json:"age_range"`
	Gender             Gender   `json:"gender"`
	Languages          string   `json:"languages"`
	PrivacyAccepted    bool     `json:"privacy_accepted"`
}

func (r *SubmitLocalApplicationRequest) Normalize() {
	if r == nil {
		return
	}
	pstrings.TrimFields(&r.InterestedLocation, &r.Contact, &r.Languages)
	r.AgeRange = AgeRange(normalizeEnum(string(r.AgeRange), string(DefaultAgeRange)))
	r.Gender = Gender(normalizeEnum(string(r.Gender), string(DefaultGender)))
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *SubmitLocalApplicationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	if err := checkLengths(
		field{"interested_location", r.InterestedLocation, maxLocationLength},
		field{"languages", r.Languages, maxLanguagesLength},
		field{"contact", r.Contact, maxContactLength},
	); err != nil {
		return err
	}

	if err := checkRequired(
		field{name: "interested_location", value: r.InterestedLocation},
		field{name: "languages", value: r.Languages},
		field{name: "contact", value: r.Contact},
	); err != nil {
		return err
	}
	if !r.PrivacyAccepted {
		return errPrivacyNotAccepted
	}

	if !r.AgeRange.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "age_range must be one of 20s, 30s, 40s, 50+")
	}
	if !r.Gender.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "gender must be one of male, female, any")
	}
	return nil
}

// SubmitInvitationApplicationRequest is a visitor's answer to an invitation.
// The upper bound on Participants depends on the invitation and is checked by
// the service once the invitation is loaded.
type SubmitInvitationApplicationRequest struct {
	Message         string   `json:"message"`
	Contact         string   `json:"contact"`
	Participants    *int     `json:"participants"`
	AgeRange        AgeRange `json:"age_range"`
	Gender          Gender   `json:"gender"`
	Languages       string   `json:"languages"`
	PrivacyAccepted bool     `json:"privacy_accepted"`
}

func (r *SubmitInvitationApplicationRequest) Normalize() {
	if r == nil {
		return
	}
	pstrings.TrimFields(&r.Message, &r.Contact, &r.Languages)
	r.AgeRange = AgeRange(normalizeEnum(string(r.AgeRange), string(DefaultAgeRange)))
	r.Gender = Gender(normalizeEnum(string(r.Gender), string(DefaultGender)))
	if r.Participants == nil {
		n := MinParticipants
		r.Participants = &n
	}
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *SubmitInvitationApplicationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	if err := checkLengths(
		field{"message", r.Message, maxMessageLength},
		field{"languages", r.Languages, maxLanguagesLength},
		field{"contact", r.Contact, maxContactLength},
	); err != nil {
		return err
	}

	if err := checkRequired(
		field{name: "message", value: r.Message},
		field{name: "languages", value: r.Languages},
		field{name: "contact", value: r.Contact},
	); err != nil {
		return err
	}
	if !r.PrivacyAccepted {
		return errPrivacyNotAccepted
	}

	if !r.AgeRange.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "age_range must be one of 20s, 30s, 40s, 50+")
	}
	if !r.Gender.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "gender must be one of male, female, any")
	}
	return checkParticipants("participants", r.Participants)
}

var errPrivacyNotAccepted = dErrors.New(dErrors.CodeValidation, "privacy policy must be accepted")

type field struct {
	name  string
	value string
	max   int
}

func checkLengths(fields ...field) error {
	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > f.max {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be %d characters or less", f.name, f.max))
		}
	}
	return nil
}

func checkRequired(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return dErrors.New(dErrors.CodeValidation, f.name+" is required")
		}
	}
	return nil
}

func checkParticipants(name string, n *int) error {
	if n == nil || *n < MinParticipants || *n > MaxParticipants {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be between %d and %d", name, MinParticipants, MaxParticipants))
	}
	return nil
}

func normalizeEnum(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}
