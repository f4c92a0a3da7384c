package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edgard/chatlens/internal/chatexport"
)

// Store defines the export persistence operations.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveExport writes the table and its records in one transaction and
	// returns the new export.
	SaveExport(ctx context.Context, sourceName string, table *chatexport.Table) (*Export, error)

	// GetExport returns the export with id, or nil, nil when absent.
	GetExport(ctx context.Context, id string) (*Export, error)

	// ListExports returns the most recent exports first.
	ListExports(ctx context.Context, limit int) ([]Export, error)

	// GetMessages returns the records of an export in chat order.
	GetMessages(ctx context.Context, exportID string) ([]MessageRow, error)

	// CountBySender returns per-sender record counts, busiest first.
	CountBySender(ctx context.Context, exportID string) ([]SenderCount, error)

	// DeleteExport removes an export and its records.
	DeleteExport(ctx context.Context, id string) error

	// RunSQLMaintenance compacts the database file.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveExport(ctx context.Context, sourceName string, table *chatexport.Table) (*Export, error) {
	export := &Export{
		ID:           uuid.NewString(),
		SourceName:   sourceName,
		Grammar:      table.Grammar(),
		Anchors:      table.Anchors(),
		Dropped:      table.Dropped(),
		MessageCount: table.Len(),
		CreatedAt:    time.Now().UTC(),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
		}
	}()

	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO exports (id, source_name, grammar, anchors, dropped, message_count, created_at)
        VALUES (:id, :source_name, :grammar, :anchors, :dropped, :message_count, :created_at);
    `, export)
	if err != nil {
		return nil, fmt.Errorf("failed to insert export %s: %w", export.ID, err)
	}

	stmt, err := tx.PrepareNamedContext(ctx, `
        INSERT INTO messages (export_id, seq, timestamp, sender, text, day_name, period)
        VALUES (:export_id, :seq, :timestamp, :sender, :text, :day_name, :period);
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range table.Messages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := MessageRow{
			ExportID:  export.ID,
			Seq:       i,
			Timestamp: m.Timestamp,
			Sender:    m.Sender,
			Text:      m.Text,
			DayName:   m.DayName,
			Period:    m.Period,
		}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return nil, fmt.Errorf("failed to insert message %d of export %s: %w", i, export.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Export saved",
		"export_id", export.ID,
		"source", sourceName,
		"messages", export.MessageCount)
	return export, nil
}

func (s *sqlxStore) GetExport(ctx context.Context, id string) (*Export, error) {
	var export Export
	err := s.db.GetContext(ctx, &export, `
        SELECT id, source_name, grammar, anchors, dropped, message_count, created_at
        FROM exports WHERE id = ?;
    `, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export %s: %w", id, err)
	}
	return &export, nil
}

func (s *sqlxStore) ListExports(ctx context.Context, limit int) ([]Export, error) {
	if limit <= 0 {
		limit = 20
	}
	var exports []Export
	err := s.db.SelectContext(ctx, &exports, `
        SELECT id, source_name, grammar, anchors, dropped, message_count, created_at
        FROM exports
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?;
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	return exports, nil
}

func (s *sqlxStore) GetMessages(ctx context.Context, exportID string) ([]MessageRow, error) {
	var rows []MessageRow
	err := s.db.SelectContext(ctx, &rows, `
        SELECT id, export_id, seq, timestamp, sender, text, day_name, period
        FROM messages
        WHERE export_id = ?
        ORDER BY seq;
    `, exportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages of export %s: %w", exportID, err)
	}
	return rows, nil
}

func (s *sqlxStore) CountBySender(ctx context.Context, exportID string) ([]SenderCount, error) {
	var counts []SenderCount
	err := s.db.SelectContext(ctx, &counts, `
        SELECT sender, COUNT(*) AS messages
        FROM messages
        WHERE export_id = ?
        GROUP BY sender
        ORDER BY messages DESC, MIN(seq);
    `, exportID)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages of export %s: %w", exportID, err)
	}
	return counts, nil
}

func (s *sqlxStore) DeleteExport(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM exports WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete export %s: %w", id, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		s.logger.DebugContext(ctx, "No export deleted", "export_id", id)
	}
	return nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// VACUUM cannot run inside a transaction.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
		}
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}
	s.logger.DebugContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}
