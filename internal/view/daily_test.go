package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"classtrack/internal/model"
)

func TestToggle_PressToClear(t *testing.T) {
	assert.Equal(t, model.StatusPresent, Toggle(model.StatusUnmarked, model.StatusPresent))
	assert.Equal(t, model.StatusAbsent, Toggle(model.StatusPresent, model.StatusAbsent))
	// pressing the active status again resets it
	assert.Equal(t, model.StatusUnmarked, Toggle(model.StatusPresent, model.StatusPresent))
}

func TestDailySheet_RosterDriven(t *testing.T) {
	roster := []model.Student{
		{ID: "S001", Name: "Alice"},
		{ID: "S002", Name: "Bob"},
	}
	rec := model.DailyRecord{
		Attendance: map[string]model.Status{
			"S001": model.StatusLate,
			"GONE": model.StatusPresent, // removed student, must not surface
		},
		Notes: "lab",
	}

	sheet := DailySheet("2026-03-10", roster, rec, true)
	assert.True(t, sheet.RecordExists)
	assert.Equal(t, "lab", sheet.Notes)
	assert.Len(t, sheet.Entries, 2)
	assert.Equal(t, model.StatusLate, sheet.Entries[0].Status)
	// student added after the save starts Unmarked
	assert.Equal(t, model.StatusUnmarked, sheet.Entries[1].Status)
}

func TestDailySheet_NoRecord(t *testing.T) {
	roster := []model.Student{
		{ID: "S001", Name: "Alice"},
		{ID: "S002", Name: "Bob"},
	}

	sheet := DailySheet("2026-03-10", roster, model.DailyRecord{}, false)
	assert.False(t, sheet.RecordExists)
	assert.Empty(t, sheet.Notes)
	for _, e := range sheet.Entries {
		assert.Equal(t, model.StatusUnmarked, e.Status)
	}
}

func TestEditBuffer_DirtyAndCancel(t *testing.T) {
	loaded := model.DailyRecord{
		Attendance: map[string]model.Status{"S001": model.StatusPresent},
		Notes:      "original",
	}
	buf := NewEditBuffer(loaded)
	assert.False(t, buf.Dirty())

	buf.Toggle("S001", model.StatusAbsent)
	assert.True(t, buf.Dirty())

	buf.Cancel()
	assert.False(t, buf.Dirty())
	assert.Equal(t, model.StatusPresent, buf.Snapshot().Attendance["S001"])
}

func TestEditBuffer_NotesDirty(t *testing.T) {
	buf := NewEditBuffer(model.DailyRecord{Attendance: map[string]model.Status{}, Notes: "a"})
	buf.SetNotes("b")
	assert.True(t, buf.Dirty())
	buf.SetNotes("a")
	assert.False(t, buf.Dirty())
}

func TestEditBuffer_ToggleTwiceReadsClean(t *testing.T) {
	loaded := model.DailyRecord{Attendance: map[string]model.Status{"S001": model.StatusUnmarked}}
	buf := NewEditBuffer(loaded)

	buf.Toggle("S001", model.StatusLate)
	buf.Toggle("S001", model.StatusLate)
	assert.Equal(t, model.StatusUnmarked, buf.Snapshot().Attendance["S001"])
	assert.False(t, buf.Dirty())
}

func TestEditBuffer_CommitResetsBaseline(t *testing.T) {
	buf := NewEditBuffer(model.DailyRecord{Attendance: map[string]model.Status{}})
	buf.Toggle("S001", model.StatusPresent)
	assert.True(t, buf.Dirty())

	buf.Commit()
	assert.False(t, buf.Dirty())
}

func TestEditBuffer_DoesNotAliasLoadedMap(t *testing.T) {
	loaded := model.DailyRecord{Attendance: map[string]model.Status{"S001": model.StatusPresent}}
	buf := NewEditBuffer(loaded)

	buf.Toggle("S001", model.StatusAbsent)
	assert.Equal(t, model.StatusPresent, loaded.Attendance["S001"])
}
