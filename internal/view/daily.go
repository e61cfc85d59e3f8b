// Package view derives the daily sheet and the calendar from roster and
// history state. Everything here is a pure function over its inputs;
// nothing in this package holds persisted state of its own.
package view

import (
	"classtrack/internal/model"
)

// SheetEntry is one roster line on the editable daily sheet.
type SheetEntry struct {
	Student model.Student `json:"student"`
	Status  model.Status  `json:"status"`
}

// Sheet is the editable attendance sheet for one class and date.
type Sheet struct {
	Date    string       `json:"date"`
	Entries []SheetEntry `json:"entries"`
	Notes   string       `json:"notes"`
	// RecordExists reflects presence of a persisted entry only, never the
	// content of an edit buffer. It gates the destructive clear action.
	RecordExists bool `json:"recordExists"`
}

// DailySheet reconciles the current roster with the persisted record for
// date. Students are enumerated from the roster, not the record: a
// student added today starts Unmarked, and one removed today disappears
// even if a status was recorded for them.
func DailySheet(date string, roster []model.Student, rec model.DailyRecord, exists bool) Sheet {
	sheet := Sheet{Date: date, Entries: make([]SheetEntry, 0, len(roster)), RecordExists: exists}
	if exists {
		sheet.Notes = rec.Notes
	}
	for _, st := range roster {
		status := model.StatusUnmarked
		if exists {
			if saved, ok := rec.Attendance[st.ID]; ok && saved.Valid() {
				status = saved
			}
		}
		sheet.Entries = append(sheet.Entries, SheetEntry{Student: st, Status: status})
	}
	return sheet
}

// Toggle applies the press-to-clear rule: pressing the already-active
// status resets to Unmarked, anything else activates the pressed status.
func Toggle(current, pressed model.Status) model.Status {
	if current == pressed {
		return model.StatusUnmarked
	}
	return pressed
}

// EditBuffer holds in-progress edits against a loaded record. Nothing is
// persisted until the caller saves the snapshot; Cancel and Load discard
// the edits wholesale.
type EditBuffer struct {
	loaded model.DailyRecord
	edited model.DailyRecord
}

// NewEditBuffer starts a buffer over the loaded record.
func NewEditBuffer(loaded model.DailyRecord) *EditBuffer {
	return &EditBuffer{loaded: loaded.Clone(), edited: loaded.Clone()}
}

// Toggle presses a status button for one student.
func (b *EditBuffer) Toggle(studentID string, pressed model.Status) {
	if b.edited.Attendance == nil {
		b.edited.Attendance = map[string]model.Status{}
	}
	b.edited.Attendance[studentID] = Toggle(b.edited.Attendance[studentID], pressed)
}

// SetNotes replaces the notes text.
func (b *EditBuffer) SetNotes(notes string) {
	b.edited.Notes = notes
}

// Dirty compares the buffer against the originally loaded record by
// structural equality; any difference gates the save/cancel controls.
func (b *EditBuffer) Dirty() bool {
	return !b.loaded.Equal(b.edited)
}

// Snapshot returns the complete current buffer for a full-replace save.
func (b *EditBuffer) Snapshot() model.DailyRecord {
	return b.edited.Clone()
}

// Cancel discards edits, restoring the loaded record.
func (b *EditBuffer) Cancel() {
	b.edited = b.loaded.Clone()
}

// Commit marks the current edits as the new baseline after a successful
// save, so the buffer reads clean again.
func (b *EditBuffer) Commit() {
	b.loaded = b.edited.Clone()
}
