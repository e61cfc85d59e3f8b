// Package store is the persistence boundary for classes, students and
// attendance history. Two implementations exist: Postgres for real
// deployments and Memory for dev mode and tests.
package store

import (
	"context"
	"errors"

	"classtrack/internal/model"
)

var (
	// ErrNotFound means the referenced class or student does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateClass means a class with that id already exists.
	ErrDuplicateClass = errors.New("class id already exists")

	// ErrNoRecord means no attendance was ever saved for that class and
	// date. Distinct from a saved record with nothing marked.
	ErrNoRecord = errors.New("no attendance record")
)

// Store is the persistence interface the registry and attendance services
// run on. All dates cross this boundary as canonical YYYY-MM-DD strings;
// the implementation owns any conversion from its storage representation.
type Store interface {
	ListClasses(ctx context.Context) ([]model.Class, error)
	GetClass(ctx context.Context, id string) (model.Class, error)
	CreateClass(ctx context.Context, c model.Class) error
	// DeleteClass removes the class and cascades its students and its
	// entire attendance history.
	DeleteClass(ctx context.Context, id string) error

	ListStudents(ctx context.Context, classID string) ([]model.Student, error)
	CreateStudent(ctx context.Context, classID string, s model.Student) error
	// DeleteStudent removes the student from its class roster and scrubs
	// its id from every attendance record of that class. Records stay in
	// place even when the scrub empties them; notes are untouched.
	DeleteStudent(ctx context.Context, studentID string) error

	// GetAttendance returns ErrNoRecord when nothing was saved for the key.
	GetAttendance(ctx context.Context, classID, date string) (model.DailyRecord, error)
	GetAttendanceHistory(ctx context.Context, classID string) ([]model.AttendanceRow, []model.NoteRow, error)
	// SaveAttendance fully replaces the record at (classID, date);
	// attendance rows and the notes row commit atomically together.
	SaveAttendance(ctx context.Context, classID, date string, rec model.DailyRecord) error
	// ClearAttendance deletes the (classID, date) entry. No-op when absent.
	ClearAttendance(ctx context.Context, classID, date string) error

	Ping(ctx context.Context) error
	Close() error
}
