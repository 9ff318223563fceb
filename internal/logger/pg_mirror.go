package logger

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PgMirror writes audit records to a Postgres table. It is a secondary
// sink: callers treat every failure as non-fatal.
type PgMirror struct {
	db *sql.DB
}

func NewPgMirror(dsn string) (*PgMirror, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit mirror: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping audit mirror: %w", err)
	}

	// The table is created lazily so the mirror works against a bare database.
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGSERIAL PRIMARY KEY,
		app_id TEXT NOT NULL,
		message TEXT NOT NULL,
		prompt_id TEXT,
		thread_id TEXT,
		user_id TEXT,
		caller TEXT,
		log_level_id INT NOT NULL,
		created_on_utc TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure audit_logs table: %w", err)
	}

	return &PgMirror{db: db}, nil
}

func (m *PgMirror) Write(record auditRecord) error {
	_, err := m.db.Exec(
		`INSERT INTO audit_logs (app_id, message, prompt_id, thread_id, user_id, caller, log_level_id, created_on_utc)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.AppID, record.Message, record.PromptID, record.ThreadID,
		record.UserID, record.Caller, record.LogLevelId, record.CreatedOnUtc,
	)
	return err
}

func (m *PgMirror) Close() error {
	return m.db.Close()
}
