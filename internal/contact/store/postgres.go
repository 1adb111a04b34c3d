package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"lowa/internal/contact/models"
	"lowa/internal/platform/database"
	"lowa/pkg/platform/sentinel"
	txcontext "lowa/pkg/platform/tx"
)

// PostgresStore persists contacts in PostgreSQL. Writes join the transaction
// carried by the context when one is present.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type contactRow struct {
	ID          uuid.UUID `db:"id"`
	ContactInfo string    `db:"contact_info"`
	ContactType string    `db:"contact_type"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r contactRow) toModel() *models.Contact {
	return &models.Contact{
		ID:        r.ID,
		Info:      r.ContactInfo,
		Type:      models.ContactType(r.ContactType),
		CreatedAt: r.CreatedAt,
	}
}

func (s *PostgresStore) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (id, contact_info, contact_type, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := txcontext.Execer(ctx, s.db).ExecContext(ctx, query,
		contact.ID,
		contact.Info,
		string(contact.Type),
		contact.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	var row contactRow
	err := sqlscan.Get(ctx, txcontext.Execer(ctx, s.db), &row,
		`SELECT id, contact_info, contact_type, created_at FROM contacts WHERE id = $1`, id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Contact, error) {
	out := make(map[uuid.UUID]*models.Contact, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	var rows []contactRow
	err := sqlscan.Select(ctx, s.db, &rows,
		`SELECT id, contact_info, contact_type, created_at FROM contacts WHERE id = ANY($1::uuid[])`,
		pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}
	for _, r := range rows {
		out[r.ID] = r.toModel()
	}
	return out, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Contact, error) {
	var rows []contactRow
	err := sqlscan.Select(ctx, s.db, &rows,
		`SELECT id, contact_info, contact_type, created_at FROM contacts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	out := make([]*models.Contact, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

// ListOrphaned returns contacts that no listing or application references.
func (s *PostgresStore) ListOrphaned(ctx context.Context) ([]*models.Contact, error) {
	query := `
		SELECT c.id, c.contact_info, c.contact_type, c.created_at
		FROM contacts c
		WHERE NOT EXISTS (SELECT 1 FROM invitations i WHERE i.contact_id = c.id)
		  AND NOT EXISTS (SELECT 1 FROM visitor_requests v WHERE v.contact_id = c.id)
		  AND NOT EXISTS (SELECT 1 FROM local_applications la WHERE la.contact_id = c.id)
		  AND NOT EXISTS (SELECT 1 FROM invitation_applications ia WHERE ia.contact_id = c.id)
		ORDER BY c.created_at
	`
	var rows []contactRow
	if err := sqlscan.Select(ctx, s.db, &rows, query); err != nil {
		return nil, fmt.Errorf("list orphaned contacts: %w", err)
	}
	out := make([]*models.Contact, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM contacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}
