package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvitation(t *testing.T) *Invitation {
	t.Helper()
	availability, err := EncodeAvailability([]string{"tuesday", "thursday"}, []string{"evening"})
	require.NoError(t, err)
	return &Invitation{
		ID:                uuid.New(),
		Title:             "Hanok tea evening",
		Availability:      availability,
		Location:          "Bukchon",
		Activity:          "Tea ceremony",
		ContactID:         uuid.New(),
		AgeRange:          AgeRange30s,
		Gender:            GenderFemale,
		Languages:         "Korean, English",
		PreferredGender:   GenderFemale,
		PreferredAgeRange: AgeRange30s,
		MaxParticipants:   3,
		CreatedAt:         time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
	}
}

func TestInvitationPublicViewOmitsPrivateFields(t *testing.T) {
	t.Run("view type has no preference or contact fields", func(t *testing.T) {
		viewType := reflect.TypeOf(InvitationView{})
		for i := range viewType.NumField() {
			name := strings.ToLower(viewType.Field(i).Name)
			assert.NotContains(t, name, "preferred")
			assert.NotContains(t, name, "contact")
		}
	})

	t.Run("serialized view has no preference or contact keys", func(t *testing.T) {
		inv := sampleInvitation(t)
		body, err := json.Marshal(inv.PublicView())
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(body, &decoded))
		for key := range decoded {
			assert.False(t, strings.HasPrefix(key, "preferred_"), "unexpected key %s", key)
			assert.NotContains(t, key, "contact")
		}
		assert.Equal(t, "Tuesday, Thursday / Evening", decoded["time"])
		assert.NotContains(t, string(body), inv.ContactID.String())
	})
}

func TestInvitationAuthorViewKeepsPreferences(t *testing.T) {
	inv := sampleInvitation(t)
	view := inv.AuthorView()

	assert.Equal(t, GenderFemale, view.PreferredGender)
	assert.Equal(t, AgeRange30s, view.PreferredAgeRange)
	assert.Equal(t, inv.ContactID, view.ContactID)
	assert.Equal(t, []string{"tuesday", "thursday"}, view.AvailableDays)
	assert.Equal(t, inv.PublicView(), view.InvitationView)

	view.AvailableDays[0] = "sunday"
	assert.Equal(t, "tuesday", inv.Availability.Days[0], "author view must not alias the record")
}

func TestVisitorRequestPublicView(t *testing.T) {
	availability, err := EncodeAvailability([]string{"saturday"}, []string{"afternoon"})
	require.NoError(t, err)
	req := &VisitorRequest{
		ID:               uuid.New(),
		Title:            "Looking for a market tour",
		Availability:     availability,
		Location:         "Mangwon",
		CompanionGenders: "male, female",
		AgeRange:         AgeRange20s,
		Languages:        "English",
		Participants:     3,
		ContactID:        uuid.New(),
	}

	body, err := json.Marshal(req.PublicView())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "Saturday / Afternoon", decoded["time"])
	assert.EqualValues(t, 3, decoded["participants"])
	assert.NotContains(t, decoded, "contact_id")
	assert.NotContains(t, string(body), req.ContactID.String())
}

// Listing and application records are persisted with a contact id only; none
// of them can hold raw contact information.
func TestRecordsCarryNoContactInfo(t *testing.T) {
	for _, record := range []any{Invitation{}, VisitorRequest{}, LocalApplication{}, InvitationApplication{}} {
		typ := reflect.TypeOf(record)
		for i := range typ.NumField() {
			f := typ.Field(i)
			if strings.Contains(strings.ToLower(f.Name), "contact") {
				assert.Equal(t, "ContactID", f.Name, "%s.%s", typ.Name(), f.Name)
				assert.Equal(t, reflect.TypeOf(uuid.UUID{}), f.Type)
			}
		}
	}
}
