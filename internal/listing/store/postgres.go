package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"lowa/internal/listing/models"
	"lowa/internal/platform/database"
	"lowa/pkg/platform/sentinel"
	txcontext "lowa/pkg/platform/tx"
)

// PostgresStore persists listings and applications in PostgreSQL. Inserts
// join the transaction carried by the context when one is present.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const invitationColumns = `id, title, time, available_days, available_slots, location, activity, contact_id,
	age_range, gender, languages, preferred_gender, preferred_age_range, max_participants, created_at`

type invitationRow struct {
	ID                uuid.UUID      `db:"id"`
	Title             string         `db:"title"`
	Time              string         `db:"time"`
	AvailableDays     pq.StringArray `db:"available_days"`
	AvailableSlots    pq.StringArray `db:"available_slots"`
	Location          string         `db:"location"`
	Activity          string         `db:"activity"`
	ContactID         uuid.UUID      `db:"contact_id"`
	AgeRange          string         `db:"age_range"`
	Gender            string         `db:"gender"`
	Languages         string         `db:"languages"`
	PreferredGender   string         `db:"preferred_gender"`
	PreferredAgeRange string         `db:"preferred_age_range"`
	MaxParticipants   int            `db:"max_participants"`
	CreatedAt         time.Time      `db:"created_at"`
}

func (r invitationRow) toModel() *models.Invitation {
	return &models.Invitation{
		ID:    r.ID,
		Title: r.Title,
		Availability: models.Availability{
			Days:    []string(r.AvailableDays),
			Slots:   []string(r.AvailableSlots),
			Display: r.Time,
		},
		Location:          r.Location,
		Activity:          r.Activity,
		ContactID:         r.ContactID,
		AgeRange:          models.AgeRange(r.AgeRange),
		Gender:            models.Gender(r.Gender),
		Languages:         r.Languages,
		PreferredGender:   models.Gender(r.PreferredGender),
		PreferredAgeRange: models.AgeRange(r.PreferredAgeRange),
		MaxParticipants:   r.MaxParticipants,
		CreatedAt:         r.CreatedAt,
	}
}

func (s *PostgresStore) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	query := `INSERT INTO invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := txcontext.Execer(ctx, s.db).ExecContext(ctx, query,
		inv.ID,
		inv.Title,
		inv.Availability.Display,
		pq.StringArray(inv.Availability.Days),
		pq.StringArray(inv.Availability.Slots),
		inv.Location,
		inv.Activity,
		inv.ContactID,
		string(inv.AgeRange),
		string(inv.Gender),
		inv.Languages,
		string(inv.PreferredGender),
		string(inv.PreferredAgeRange),
		inv.MaxParticipants,
		inv.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindInvitation(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	var row invitationRow
	err := sqlscan.Get(ctx, txcontext.Execer(ctx, s.db), &row,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find invitation: %w", err)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) ListInvitations(ctx context.Context) ([]*models.Invitation, error) {
	var rows []invitationRow
	err := sqlscan.Select(ctx, s.db, &rows,
		`SELECT `+invitationColumns+` FROM invitations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	out := make([]*models.Invitation, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

const visitorRequestColumns = `id, title, time, available_days, available_slots, location, companion_genders,
	age_range, languages, participants, contact_id, created_at`

type visitorRequestRow struct {
	ID               uuid.UUID      `db:"id"`
	Title            string         `db:"title"`
	Time             string         `db:"time"`
	AvailableDays    pq.StringArray `db:"available_days"`
	AvailableSlots   pq.StringArray `db:"available_slots"`
	Location         string         `db:"location"`
	CompanionGenders string         `db:"companion_genders"`
	AgeRange         string         `db:"age_range"`
	Languages        string         `db:"languages"`
	Participants     int            `db:"participants"`
	ContactID        uuid.UUID      `db:"contact_id"`
	CreatedAt        time.Time      `db:"created_at"`
}

func (r visitorRequestRow) toModel() *models.VisitorRequest {
	return &models.VisitorRequest{
		ID:    r.ID,
		Title: r.Title,
		Availability: models.Availability{
			Days:    []string(r.AvailableDays),
			Slots:   []string(r.AvailableSlots),
			Display: r.Time,
		},
		Location:         r.Location,
		CompanionGenders: r.CompanionGenders,
		AgeRange:         models.AgeRange(r.AgeRange),
		Languages:        r.Languages,
		Participants:     r.Participants,
		ContactID:        r.ContactID,
		CreatedAt:        r.CreatedAt,
	}
}

func (s *PostgresStore) CreateVisitorRequest(ctx context.Context, req *models.VisitorRequest) error {
	query := `INSERT INTO visitor_requests (` + visitorRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := txcontext.Execer(ctx, s.db).ExecContext(ctx, query,
		req.ID,
		req.Title,
		req.Availability.Display,
		pq.StringArray(req.Availability.Days),
		pq.StringArray(req.Availability.Slots),
		req.Location,
		req.CompanionGenders,
		string(req.AgeRange),
		req.Languages,
		req.Participants,
		req.ContactID,
		req.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert visitor request: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindVisitorRequest(ctx context.Context, id uuid.UUID) (*models.VisitorRequest, error) {
	var row visitorRequestRow
	err := sqlscan.Get(ctx, txcontext.Execer(ctx, s.db), &row,
		`SELECT `+visitorRequestColumns+` FROM visitor_requests WHERE id = $1`, id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find visitor request: %w", err)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) ListVisitorRequests(ctx context.Context) ([]*models.VisitorRequest, error) {
	var rows []visitorRequestRow
	err := sqlscan.Select(ctx, s.db, &rows,
		`SELECT `+visitorRequestColumns+` FROM visitor_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list visitor requests: %w", err)
	}
	out := make([]*models.VisitorRequest, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

type localApplicationRow struct {
	ID                 uuid.UUID `db:"id"`
	VisitorRequestID   uuid.UUID `db:"visitor_request_id"`
	InterestedLocation string    `db:"interested_location"`
	ContactID          uuid.UUID `db:"contact_id"`
	Participants       int       `db:"participants"`
	AgeRange           string    `db:"age_range"`
	Gender             string    `db:"gender"`
	Languages          string    `db:"languages"`
	CreatedAt          time.Time `db:"created_at"`
}

func (s *PostgresStore) CreateLocalApplication(ctx context.Context, app *models.LocalApplication) error {
	query := `
		INSERT INTO local_applications (id, visitor_request_id, interested_location, contact_id,
			participants, age_range, gender, languages, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := txcontext.Execer(ctx, s.db).ExecContext(ctx, query,
		app.ID,
		app.VisitorRequestID,
		app.InterestedLocation,
		app.ContactID,
		app.Participants,
		string(app.AgeRange),
		string(app.Gender),
		app.Languages,
		app.CreatedAt,
	)
	if err != nil {
		switch {
		case database.IsForeignKeyViolation(err):
			return ErrNotFound
		case database.IsUniqueViolation(err):
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert local application: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListLocalApplications(ctx context.Context) ([]*models.LocalApplication, error) {
	var rows []localApplicationRow
	err := sqlscan.Select(ctx, s.db, &rows, `
		SELECT id, visitor_request_id, interested_location, contact_id, participants,
			age_range, gender, languages, created_at
		FROM local_applications ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list local applications: %w", err)
	}
	out := make([]*models.LocalApplication, len(rows))
	for i, r := range rows {
		out[i] = &models.LocalApplication{
			ID:                 r.ID,
			VisitorRequestID:   r.VisitorRequestID,
			InterestedLocation: r.InterestedLocation,
			ContactID:          r.ContactID,
			Participants:       r.Participants,
			AgeRange:           models.AgeRange(r.AgeRange),
			Gender:             models.Gender(r.Gender),
			Languages:          r.Languages,
			CreatedAt:          r.CreatedAt,
		}
	}
	return out, nil
}

type invitationApplicationRow struct {
	ID           uuid.UUID `db:"id"`
	InvitationID uuid.UUID `db:"invitation_id"`
	Message      string    `db:"message"`
	ContactID    uuid.UUID `db:"contact_id"`
	Participants int       `db:"participants"`
	AgeRange     string    `db:"age_range"`
	Gender       string    `db:"gender"`
	Languages    string    `db:"languages"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s *PostgresStore) CreateInvitationApplication(ctx context.Context, app *models.InvitationApplication) error {
	query := `
		INSERT INTO invitation_applications (id, invitation_id, message, contact_id,
			participants, age_range, gender, languages, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := txcontext.Execer(ctx, s.db).ExecContext(ctx, query,
		app.ID,
		app.InvitationID,
		app.Message,
		app.ContactID,
		app.Participants,
		string(app.AgeRange),
		string(app.Gender),
		app.Languages,
		app.CreatedAt,
	)
	if err != nil {
		switch {
		case database.IsForeignKeyViolation(err):
			return ErrNotFound
		case database.IsUniqueViolation(err):
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert invitation application: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListInvitationApplications(ctx context.Context) ([]*models.InvitationApplication, error) {
	var rows []invitationApplicationRow
	err := sqlscan.Select(ctx, s.db, &rows, `
		SELECT id, invitation_id, message, contact_id, participants,
			age_range, gender, languages, created_at
		FROM invitation_applications ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list invitation applications: %w", err)
	}
	out := make([]*models.InvitationApplication, len(rows))
	for i, r := range rows {
		out[i] = &models.InvitationApplication{
			ID:           r.ID,
			InvitationID: r.InvitationID,
			Message:      r.Message,
			ContactID:    r.ContactID,
			Participants: r.Participants,
			AgeRange:     models.AgeRange(r.AgeRange),
			Gender:       models.Gender(r.Gender),
			Languages:    r.Languages,
			CreatedAt:    r.CreatedAt,
		}
	}
	return out, nil
}
