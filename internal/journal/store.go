// Package journal persists one row per accepted application. The backend
// owns the application record; the journal is this service's own audit
// trail for submissions it pushed through.
package journal

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"recruitment-intake/internal/common/database"
	"recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/common/logger"
)

// Entry is one journaled submission.
type Entry struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// Store writes and reads the submission journal.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

// NewStore creates a journal store over the shared postgres client.
func NewStore(client *database.PostgresClient, log logger.Logger) *Store {
	return &Store{
		db:     client.GetDB(),
		logger: log.WithFields(map[string]interface{}{"component": "journal"}),
	}
}

// NewStoreWithDB creates a journal store over a raw handle. Used by tests.
func NewStoreWithDB(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, logger: log}
}

// Record journals one accepted application.
func (s *Store) Record(ctx context.Context, applicationID, fullName, email string) error {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submission_journal (id, application_id, full_name, email, submitted_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id, applicationID, fullName, email, time.Now().UTC())
	if err != nil {
		return errors.NewJournalWriteFailedError(err)
	}

	s.logger.Info("submission journaled", map[string]interface{}{
		"id":            id,
		"applicationId": applicationID,
	})
	return nil
}

// Recent returns the latest n journal entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		n = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, full_name, email, submitted_at
		FROM submission_journal
		ORDER BY submitted_at DESC
		LIMIT $1`, n)
	if err != nil {
		return nil, errors.NewJournalWriteFailedError(err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.FullName, &e.Email, &e.SubmittedAt); err != nil {
			return nil, errors.NewJournalWriteFailedError(err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewJournalWriteFailedError(err)
	}
	return entries, nil
}
