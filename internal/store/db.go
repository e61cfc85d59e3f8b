package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults and applies the
// schema migration.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &DB{Client: db}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS classes (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS students (
		id         TEXT PRIMARY KEY,
		class_id   TEXT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		avatar_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_students_class ON students(class_id);

	CREATE TABLE IF NOT EXISTS attendance_records (
		class_id   TEXT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		date       DATE NOT NULL,
		status     TEXT NOT NULL DEFAULT 'Unmarked',
		PRIMARY KEY (class_id, student_id, date)
	);
	CREATE INDEX IF NOT EXISTS idx_attendance_class_date ON attendance_records(class_id, date);

	CREATE TABLE IF NOT EXISTS daily_notes (
		class_id TEXT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		date     DATE NOT NULL,
		notes    TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (class_id, date)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
