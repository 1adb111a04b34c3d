package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lowa/internal/admin"
	contactstore "lowa/internal/contact/store"
	liststore "lowa/internal/listing/store"
	"lowa/internal/platform/config"
	"lowa/internal/platform/database"
	"lowa/internal/platform/logger"
	"lowa/internal/platform/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is resolved once per invocation by the root command's PersistentPreRunE.
type env struct {
	cfg config.Config
	log *slog.Logger
}

func newRootCommand() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:           "lowa-operator",
		Short:         "Operator tooling for the lowa exchange",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			e.cfg = cfg
			// stdout carries command output, logs go to stderr.
			e.log = logger.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}

	cmd.AddCommand(newBoardCommand(e))
	cmd.AddCommand(newOrphansCommand(e))
	cmd.AddCommand(newExportCommand(e))
	cmd.AddCommand(newMigrateCommand(e))
	return cmd
}

func (e *env) openDB(ctx context.Context) (*sql.DB, error) {
	if e.cfg.Database.DSN == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return database.Open(ctx, e.cfg.Database)
}

func (e *env) withService(ctx context.Context, opts []admin.Option, fn func(*admin.Service) error) error {
	db, err := e.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	opts = append([]admin.Option{admin.WithLogger(e.log)}, opts...)
	svc := admin.NewService(contactstore.NewPostgres(db), liststore.NewPostgres(db), opts...)
	return fn(svc)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newBoardCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Print every listing with its contact and applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withService(cmd.Context(), nil, func(svc *admin.Service) error {
				board, err := svc.Board(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), board)
			})
		},
	}
}

func newOrphansCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "List contacts that no listing or application references",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withService(cmd.Context(), nil, func(svc *admin.Service) error {
				orphans, err := svc.Orphans(cmd.Context())
				if err != nil {
					return err
				}
				e.log.InfoContext(cmd.Context(), "orphaned contacts", "count", len(orphans))
				return writeJSON(cmd.OutOrStdout(), orphans)
			})
		},
	}
}

func newExportCommand(e *env) *cobra.Command {
	var bucket, key string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Upload the board as JSON to S3-compatible storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if bucket == "" {
				bucket = e.cfg.Export.Bucket
			}
			client, err := s3.NewClient(ctx, e.cfg.Export)
			if err != nil {
				return fmt.Errorf("s3 client: %w", err)
			}
			return e.withService(ctx, []admin.Option{admin.WithUploader(client)}, func(svc *admin.Service) error {
				written, err := svc.Export(ctx, bucket, key)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "s3://%s/%s\n", bucket, written)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination bucket (defaults to S3_EXPORT_BUCKET)")
	cmd.Flags().StringVar(&key, "key", "", "Object key (defaults to boards/<timestamp>.json)")
	return cmd
}

func newMigrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := e.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			e.log.InfoContext(cmd.Context(), "migrations applied")
			return nil
		},
	}
}
