//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	contactmodels "lowa/internal/contact/models"
	contactstore "lowa/internal/contact/store"
	"lowa/internal/listing/models"
	"lowa/internal/listing/store"
	"lowa/internal/platform/database"
	"lowa/pkg/platform/sentinel"
	"lowa/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg       *containers.PostgresContainer
	listings *store.PostgresStore
	contacts *contactstore.PostgresStore
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.listings = store.NewPostgres(s.pg.DB)
	s.contacts = contactstore.NewPostgres(s.pg.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(s.ctx))
}

func (s *PostgresStoreSuite) invitation(at time.Time) *models.Invitation {
	availability, err := models.EncodeAvailability([]string{"tuesday", "thursday"}, []string{"evening", "lateNight"})
	s.Require().NoError(err)
	return &models.Invitation{
		ID:                uuid.New(),
		Title:             "Jazz bar crawl",
		Availability:      availability,
		Location:          "Haebangchon",
		Activity:          "Live music",
		ContactID:         uuid.New(),
		AgeRange:          models.AgeRange30s,
		Gender:            models.GenderMale,
		Languages:         "English",
		PreferredGender:   models.GenderAny,
		PreferredAgeRange: models.AgeRange30s,
		MaxParticipants:   3,
		CreatedAt:         at.UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestInvitationRoundTrip() {
	base := time.Now()
	older := s.invitation(base.Add(-time.Hour))
	newer := s.invitation(base)
	s.Require().NoError(s.listings.CreateInvitation(s.ctx, older))
	s.Require().NoError(s.listings.CreateInvitation(s.ctx, newer))

	found, err := s.listings.FindInvitation(s.ctx, older.ID)
	s.Require().NoError(err)
	s.Equal(older.Availability, found.Availability)
	s.Equal("Tuesday, Thursday / Evening, Late Night", found.Availability.Display)
	s.Equal(models.AgeRange30s, found.PreferredAgeRange)

	list, err := s.listings.ListInvitations(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(newer.ID, list[0].ID)

	_, err = s.listings.FindInvitation(s.ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.listings.CreateInvitation(s.ctx, older), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestApplicationForUnknownListing() {
	err := s.listings.CreateLocalApplication(s.ctx, &models.LocalApplication{
		ID:                 uuid.New(),
		VisitorRequestID:   uuid.New(),
		InterestedLocation: "Hongdae",
		ContactID:          uuid.New(),
		Participants:       2,
		AgeRange:           models.AgeRange20s,
		Gender:             models.GenderAny,
		Languages:          "Korean",
		CreatedAt:          time.Now(),
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestApplicationParticipantBounds() {
	inv := s.invitation(time.Now())
	s.Require().NoError(s.listings.CreateInvitation(s.ctx, inv))

	for _, n := range []int{0, 21} {
		err := s.listings.CreateInvitationApplication(s.ctx, &models.InvitationApplication{
			ID:           uuid.New(),
			InvitationID: inv.ID,
			Message:      "Count us in",
			ContactID:    uuid.New(),
			Participants: n,
			AgeRange:     models.AgeRange30s,
			Gender:       models.GenderAny,
			Languages:    "English",
			CreatedAt:    time.Now(),
		})
		s.Error(err, "participants=%d", n)
	}

	availability, err := models.EncodeAvailability([]string{"sunday"}, []string{"morning"})
	s.Require().NoError(err)
	vr := &models.VisitorRequest{
		ID:           uuid.New(),
		Title:        "Temple stay",
		Availability: availability,
		Location:     "Jongno",
		AgeRange:     models.AgeRange20s,
		Languages:    "English",
		Participants: 2,
		ContactID:    uuid.New(),
		CreatedAt:    time.Now(),
	}
	s.Require().NoError(s.listings.CreateVisitorRequest(s.ctx, vr))
	err = s.listings.CreateLocalApplication(s.ctx, &models.LocalApplication{
		ID:                 uuid.New(),
		VisitorRequestID:   vr.ID,
		InterestedLocation: "Insadong",
		ContactID:          uuid.New(),
		Participants:       0,
		AgeRange:           models.AgeRange20s,
		Gender:             models.GenderAny,
		Languages:          "Korean",
		CreatedAt:          time.Now(),
	})
	s.Error(err)
}

func (s *PostgresStoreSuite) TestTransactionRollsBackContact() {
	runner := database.NewTxRunner(s.pg.DB, 5*time.Second)
	contact, err := contactmodels.NewContact(uuid.New(), "kakao: jazz_host", contactmodels.ContactTypeInvitation, time.Now())
	s.Require().NoError(err)

	listingErr := errors.New("listing insert failed")
	err = runner.RunInTx(s.ctx, func(ctx context.Context) error {
		if err := s.contacts.Create(ctx, contact); err != nil {
			return err
		}
		return listingErr
	})
	s.ErrorIs(err, listingErr)

	_, err = s.contacts.FindByID(s.ctx, contact.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestOrphanedContacts() {
	linked, err := contactmodels.NewContact(uuid.New(), "linked", contactmodels.ContactTypeInvitation, time.Now())
	s.Require().NoError(err)
	orphan, err := contactmodels.NewContact(uuid.New(), "orphan", contactmodels.ContactTypeInvitation, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.contacts.Create(s.ctx, linked))
	s.Require().NoError(s.contacts.Create(s.ctx, orphan))

	inv := s.invitation(time.Now())
	inv.ContactID = linked.ID
	s.Require().NoError(s.listings.CreateInvitation(s.ctx, inv))

	orphans, err := s.contacts.ListOrphaned(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(orphans, 1)
	s.Equal(orphan.ID, orphans[0].ID)

	byID, err := s.contacts.FindByIDs(s.ctx, []uuid.UUID{linked.ID, uuid.New()})
	s.Require().NoError(err)
	s.Len(byID, 1)
	s.Equal("linked", byID[linked.ID].Info)
}
