package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"classtrack/internal/model"
)

// Postgres implements Store on top of the pgx stdlib driver. Dates are
// stored as DATE columns and always read back through to_char so the
// canonical YYYY-MM-DD string survives any session timezone.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open connection.
func NewPostgres(db *DB) *Postgres {
	return &Postgres{db: db.Client}
}

func (p *Postgres) ListClasses(ctx context.Context) ([]model.Class, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, name FROM classes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (p *Postgres) GetClass(ctx context.Context, id string) (model.Class, error) {
	var c model.Class
	err := p.db.QueryRowContext(ctx, `SELECT id, name FROM classes WHERE id = $1`, id).
		Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Class{}, ErrNotFound
	}
	return c, err
}

func (p *Postgres) CreateClass(ctx context.Context, c model.Class) error {
	_, err := p.db.ExecContext(ctx, `INSERT INTO classes (id, name) VALUES ($1, $2)`, c.ID, c.Name)
	if isUniqueViolation(err) {
		return ErrDuplicateClass
	}
	return err
}

func (p *Postgres) DeleteClass(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) ListStudents(ctx context.Context, classID string) ([]model.Student, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, avatar_url FROM students WHERE class_id = $1 ORDER BY name
	`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.AvatarURL); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (p *Postgres) CreateStudent(ctx context.Context, classID string, s model.Student) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO students (id, class_id, name, avatar_url) VALUES ($1, $2, $3, $4)
	`, s.ID, classID, s.Name, s.AvatarURL)
	if isForeignKeyViolation(err) {
		return ErrNotFound
	}
	return err
}

// DeleteStudent relies on the ON DELETE CASCADE from attendance_records to
// students for the scrub: the student's rows vanish for every date while
// daily_notes and other students' rows stay in place.
func (p *Postgres) DeleteStudent(ctx context.Context, studentID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, studentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) GetAttendance(ctx context.Context, classID, date string) (model.DailyRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT student_id, status FROM attendance_records
		WHERE class_id = $1 AND date = $2
	`, classID, date)
	if err != nil {
		return model.DailyRecord{}, err
	}
	defer rows.Close()

	rec := model.DailyRecord{Attendance: map[string]model.Status{}}
	found := false
	for rows.Next() {
		var id string
		var st model.Status
		if err := rows.Scan(&id, &st); err != nil {
			return model.DailyRecord{}, err
		}
		rec.Attendance[id] = st
		found = true
	}
	if err := rows.Err(); err != nil {
		return model.DailyRecord{}, err
	}

	err = p.db.QueryRowContext(ctx, `
		SELECT notes FROM daily_notes WHERE class_id = $1 AND date = $2
	`, classID, date).Scan(&rec.Notes)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// record may still exist through attendance rows alone
	case err != nil:
		return model.DailyRecord{}, err
	default:
		found = true
	}

	if !found {
		return model.DailyRecord{}, ErrNoRecord
	}
	return rec, nil
}

func (p *Postgres) GetAttendanceHistory(ctx context.Context, classID string) ([]model.AttendanceRow, []model.NoteRow, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT student_id, to_char(date, 'YYYY-MM-DD'), status
		FROM attendance_records
		WHERE class_id = $1
		ORDER BY date DESC
	`, classID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var attendance []model.AttendanceRow
	for rows.Next() {
		var r model.AttendanceRow
		if err := rows.Scan(&r.StudentID, &r.Date, &r.Status); err != nil {
			return nil, nil, err
		}
		attendance = append(attendance, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	noteRows, err := p.db.QueryContext(ctx, `
		SELECT to_char(date, 'YYYY-MM-DD'), notes FROM daily_notes WHERE class_id = $1
	`, classID)
	if err != nil {
		return nil, nil, err
	}
	defer noteRows.Close()

	var notes []model.NoteRow
	for noteRows.Next() {
		var n model.NoteRow
		if err := noteRows.Scan(&n.Date, &n.Notes); err != nil {
			return nil, nil, err
		}
		notes = append(notes, n)
	}
	return attendance, notes, noteRows.Err()
}

// SaveAttendance is a full replace: prior rows for the key are dropped
// inside the same transaction that writes the new map and notes.
func (p *Postgres) SaveAttendance(ctx context.Context, classID, date string, rec model.DailyRecord) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM attendance_records WHERE class_id = $1 AND date = $2
	`, classID, date); err != nil {
		return err
	}
	for studentID, status := range rec.Attendance {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance_records (class_id, student_id, date, status)
			VALUES ($1, $2, $3, $4)
		`, classID, studentID, date, status); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("student %s: %w", studentID, ErrNotFound)
			}
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO daily_notes (class_id, date, notes)
		VALUES ($1, $2, $3)
		ON CONFLICT (class_id, date) DO UPDATE SET notes = EXCLUDED.notes
	`, classID, date, rec.Notes); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return err
	}
	return tx.Commit()
}

func (p *Postgres) ClearAttendance(ctx context.Context, classID, date string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM attendance_records WHERE class_id = $1 AND date = $2
	`, classID, date); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM daily_notes WHERE class_id = $1 AND date = $2
	`, classID, date); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
