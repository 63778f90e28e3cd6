package report

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver, registers as "sqlite".
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	sqlInsertRun = `INSERT INTO runs
		(id, root, max_depth, started_at, finished_at, folder_count, file_count, skipped_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	sqlInsertFile = `INSERT INTO files
		(run_id, seq, name, path, modified_at, created_at, length, version_major, version_minor,
		 title, subject, comment, keywords, author)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// SQLiteWriter appends each report as a new run to a SQLite database.
// The schema is created and upgraded on open.
type SQLiteWriter struct {
	path   string
	logger *slog.Logger

	// lastRunID is the id of the most recently written run.
	lastRunID string
}

func (w *SQLiteWriter) Write(ctx context.Context, r *Report) error {
	db, err := openReportDB(ctx, w.path, w.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	runID := uuid.NewString()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("report: beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, sqlInsertRun,
		runID, r.Root, r.MaxDepth, formatTime(r.Started), formatTime(r.Finished),
		r.Stats.Folders, r.Stats.Files, r.Stats.Skipped,
	); err != nil {
		return fmt.Errorf("report: inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, sqlInsertFile)
	if err != nil {
		return fmt.Errorf("report: preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range r.Rows {
		args := []any{
			runID, row.Seq, row.File.Name, row.File.Path,
			nullableTime(row.File.Modified), nullableTime(row.File.Created),
			row.File.Length, row.File.Version.Major, row.File.Version.Minor,
		}

		for _, v := range row.Properties.Values() {
			if row.HasProperties {
				args = append(args, v)
			} else {
				args = append(args, nil)
			}
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("report: inserting row %d: %w", row.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("report: committing run: %w", err)
	}

	w.lastRunID = runID
	w.logger.Info("wrote sqlite report",
		slog.String("path", w.path),
		slog.String("run_id", runID),
		slog.Int("rows", len(r.Rows)),
	)

	return nil
}

// LastRunID returns the id assigned by the most recent successful Write.
func (w *SQLiteWriter) LastRunID() string {
	return w.lastRunID
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}

	return formatTime(t)
}

// openReportDB opens the database at dbPath and applies pending migrations.
func openReportDB(ctx context.Context, dbPath string, logger *slog.Logger) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)",
		dbPath,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("report: opening database %s: %w", dbPath, err)
	}

	// Single writer.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// runMigrations applies all pending schema migrations to the database.
func runMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	// Strip the "migrations/" prefix so goose sees files at the root of the FS.
	subFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("report: creating migration sub-filesystem: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, subFS)
	if err != nil {
		return fmt.Errorf("report: creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("report: running migrations: %w", err)
	}

	for _, r := range results {
		logger.Debug("applied migration",
			slog.String("source", r.Source.Path),
			slog.Int64("duration_ms", r.Duration.Milliseconds()),
		)
	}

	return nil
}
