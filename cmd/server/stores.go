package main

import (
	"context"
	"database/sql"
	"log/slog"

	contactstore "lowa/internal/contact/store"
	liststore "lowa/internal/listing/store"
	"lowa/internal/listing/service"
	"lowa/internal/platform/config"
	"lowa/internal/platform/database"
)

type backends struct {
	db       *sql.DB
	contacts service.ContactStore
	listings service.ListingStore
	tx       service.TxRunner
}

func (b backends) close() {
	if b.db != nil {
		_ = b.db.Close()
	}
}

// openStores selects PostgreSQL when a DSN is configured and the in-memory
// stores otherwise. Only PostgreSQL offers a transaction runner.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (backends, error) {
	if cfg.Database.DSN == "" {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		return backends{
			contacts: contactstore.NewInMemory(),
			listings: liststore.NewInMemory(),
		}, nil
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return backends{}, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return backends{}, err
		}
	}
	return backends{
		db:       db,
		contacts: contactstore.NewPostgres(db),
		listings: liststore.NewPostgres(db),
		tx:       database.NewTxRunner(db, cfg.Database.QueryTimeout),
	}, nil
}
