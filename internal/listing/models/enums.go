package models

// AgeRange is a self-declared age bracket. AgeRangeAny is only meaningful as
// a preference.
type AgeRange string

const (
	AgeRange20s  AgeRange = "20s"
	AgeRange30s  AgeRange = "30s"
	AgeRange40s  AgeRange = "40s"
	AgeRange50up AgeRange = "50+"
	AgeRangeAny  AgeRange = "any"
)

// IsValid reports whether r is a concrete bracket a person can declare.
func (r AgeRange) IsValid() bool {
	switch r {
	case AgeRange20s, AgeRange30s, AgeRange40s, AgeRange50up:
		return true
	}
	return false
}

// IsValidPreference additionally accepts AgeRangeAny.
func (r AgeRange) IsValidPreference() bool {
	return r == AgeRangeAny || r.IsValid()
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderAny    Gender = "any"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderAny:
		return true
	}
	return false
}

// Participant bounds shared by listings and applications.
const (
	MinParticipants     = 1
	MaxParticipants     = 20
	DefaultParticipants = 4
)

// Form defaults applied when a submission omits the field.
const (
	DefaultAgeRange          = AgeRange20s
	DefaultGender            = GenderAny
	DefaultPreferredGender   = GenderAny
	DefaultPreferredAgeRange = AgeRangeAny
)
