// Package model holds the domain types shared by the registry, attendance
// and view layers: classes, students, per-day records and their summaries.
package model

import (
	"errors"
	"time"
)

// ErrValidation is returned for blank or malformed input before any
// mutation or store call happens.
var ErrValidation = errors.New("validation failed")

// Status is a student's attendance state for one day.
type Status string

const (
	StatusPresent  Status = "Present"
	StatusAbsent   Status = "Absent"
	StatusLate     Status = "Late"
	StatusUnmarked Status = "Unmarked"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusUnmarked:
		return true
	}
	return false
}

// Marked reports whether s carries an actual opinion. Unmarked is the
// implicit default and never counts as marked.
func (s Status) Marked() bool {
	return s.Valid() && s != StatusUnmarked
}

// Student belongs to exactly one class.
type Student struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// Class is a named group of students with a user-assigned id
// (normalized to uppercase on creation).
type Class struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Students []Student `json:"students,omitempty"`
}

// DailyRecord is one class's saved attendance map plus free-text notes for
// one calendar date. A record only exists if it was explicitly saved;
// an all-Unmarked record is still a record.
type DailyRecord struct {
	Attendance map[string]Status `json:"attendance"`
	Notes      string            `json:"notes"`
}

// Clone returns a deep copy so edit buffers never alias persisted maps.
func (r DailyRecord) Clone() DailyRecord {
	out := DailyRecord{Attendance: make(map[string]Status, len(r.Attendance)), Notes: r.Notes}
	for id, st := range r.Attendance {
		out.Attendance[id] = st
	}
	return out
}

// Equal is the structural equality used for dirty detection: both the
// attendance map and the notes string must match exactly.
func (r DailyRecord) Equal(other DailyRecord) bool {
	if r.Notes != other.Notes || len(r.Attendance) != len(other.Attendance) {
		return false
	}
	for id, st := range r.Attendance {
		if other.Attendance[id] != st {
			return false
		}
	}
	return true
}

// Empty reports whether the record carries nothing worth persisting.
func (r DailyRecord) Empty() bool {
	return len(r.Attendance) == 0 && r.Notes == ""
}

// DaySummary counts marked statuses for one day. Total is the marked
// count, not the roster size.
type DaySummary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Total   int `json:"total"`
}

// AttendanceRow is a flat history row; callers group rows by date.
type AttendanceRow struct {
	StudentID string `json:"studentId"`
	Date      string `json:"date"`
	Status    Status `json:"status"`
}

// NoteRow pairs a date with its notes text.
type NoteRow struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

// DateLayout is the canonical key format for all attendance dates.
// Every derivation (today, calendar cells, URL params) must produce
// exactly this shape or lookups silently miss.
const DateLayout = "2006-01-02"

// DateKey formats t as a canonical UTC date key.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Today returns the canonical key for the current UTC date.
func Today() string {
	return DateKey(time.Now())
}

// ValidDate reports whether s is a well-formed canonical date key.
func ValidDate(s string) bool {
	t, err := time.Parse(DateLayout, s)
	return err == nil && t.Format(DateLayout) == s
}
