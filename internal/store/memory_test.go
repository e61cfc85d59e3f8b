package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/model"
)

func seedClass(t *testing.T, m *Memory, id, name string, students ...model.Student) {
	t.Helper()
	require.NoError(t, m.CreateClass(context.Background(), model.Class{ID: id, Name: name}))
	for _, s := range students {
		require.NoError(t, m.CreateStudent(context.Background(), id, s))
	}
}

func TestMemory_CreateClass_Duplicate(t *testing.T) {
	m := NewMemory()
	seedClass(t, m, "MATH301", "Algebra")

	err := m.CreateClass(context.Background(), model.Class{ID: "MATH301", Name: "Other"})
	assert.ErrorIs(t, err, ErrDuplicateClass)
}

func TestMemory_GetAttendance_AbsentSentinel(t *testing.T) {
	m := NewMemory()
	seedClass(t, m, "CS101", "Intro")

	_, err := m.GetAttendance(context.Background(), "CS101", "2026-01-15")
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestMemory_SaveAttendance_FullReplace(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seedClass(t, m, "CS101", "Intro")

	save := func(att map[string]model.Status) {
		require.NoError(t, m.SaveAttendance(ctx, "CS101", "2026-01-15", model.DailyRecord{Attendance: att}))
	}
	save(map[string]model.Status{"A": model.StatusPresent})
	save(map[string]model.Status{"A": model.StatusPresent, "B": model.StatusAbsent})
	save(map[string]model.Status{"B": model.StatusAbsent})

	rec, err := m.GetAttendance(ctx, "CS101", "2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, map[string]model.Status{"B": model.StatusAbsent}, rec.Attendance)
}

func TestMemory_ClearAttendance_ThenAbsent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seedClass(t, m, "CS101", "Intro")

	require.NoError(t, m.SaveAttendance(ctx, "CS101", "2026-01-15", model.DailyRecord{
		Attendance: map[string]model.Status{"A": model.StatusPresent},
		Notes:      "quiz day",
	}))
	require.NoError(t, m.ClearAttendance(ctx, "CS101", "2026-01-15"))

	_, err := m.GetAttendance(ctx, "CS101", "2026-01-15")
	assert.ErrorIs(t, err, ErrNoRecord)

	// last date gone means no dangling class entry either
	_, ok := m.history["CS101"]
	assert.False(t, ok)
}

func TestMemory_ClearAttendance_NoopWhenAbsent(t *testing.T) {
	m := NewMemory()
	seedClass(t, m, "CS101", "Intro")

	assert.NoError(t, m.ClearAttendance(context.Background(), "CS101", "2026-01-15"))
	assert.NoError(t, m.ClearAttendance(context.Background(), "NOPE", "2026-01-15"))
}

func TestMemory_DeleteClass_CascadesHistory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seedClass(t, m, "CS101", "Intro", model.Student{ID: "S001", Name: "Alice"})

	require.NoError(t, m.SaveAttendance(ctx, "CS101", "2026-01-15", model.DailyRecord{
		Attendance: map[string]model.Status{"S001": model.StatusPresent},
	}))
	require.NoError(t, m.DeleteClass(ctx, "CS101"))

	rows, notes, err := m.GetAttendanceHistory(ctx, "CS101")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, notes)

	assert.ErrorIs(t, m.DeleteClass(ctx, "CS101"), ErrNotFound)
}

func TestMemory_DeleteStudent_ScrubsAllDates(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seedClass(t, m, "CS101", "Intro",
		model.Student{ID: "S001", Name: "Alice"},
		model.Student{ID: "S002", Name: "Bob"},
	)

	for _, date := range []string{"2026-01-14", "2026-01-15"} {
		require.NoError(t, m.SaveAttendance(ctx, "CS101", date, model.DailyRecord{
			Attendance: map[string]model.Status{"S001": model.StatusPresent, "S002": model.StatusLate},
			Notes:      "notes " + date,
		}))
	}

	require.NoError(t, m.DeleteStudent(ctx, "S001"))

	for _, date := range []string{"2026-01-14", "2026-01-15"} {
		rec, err := m.GetAttendance(ctx, "CS101", date)
		require.NoError(t, err)
		assert.NotContains(t, rec.Attendance, "S001")
		assert.Equal(t, model.StatusLate, rec.Attendance["S002"])
		assert.Equal(t, "notes "+date, rec.Notes, "scrub must not touch notes")
	}

	students, err := m.ListStudents(ctx, "CS101")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "S002", students[0].ID)
}

func TestMemory_DeleteStudent_KeepsEmptiedRecord(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seedClass(t, m, "CS101", "Intro", model.Student{ID: "S001", Name: "Alice"})

	require.NoError(t, m.SaveAttendance(ctx, "CS101", "2026-01-15", model.DailyRecord{
		Attendance: map[string]model.Status{"S001": model.StatusPresent},
		Notes:      "still here",
	}))
	require.NoError(t, m.DeleteStudent(ctx, "S001"))

	// scrub is surgical, not a clear: the record survives with its notes
	rec, err := m.GetAttendance(ctx, "CS101", "2026-01-15")
	require.NoError(t, err)
	assert.Empty(t, rec.Attendance)
	assert.Equal(t, "still here", rec.Notes)
}

func TestMemory_ListOrdering(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seedClass(t, m, "PHY205", "Modern Physics")
	seedClass(t, m, "CS101", "Intro",
		model.Student{ID: "S002", Name: "Bob"},
		model.Student{ID: "S001", Name: "Alice"},
	)

	classes, err := m.ListClasses(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "CS101", classes[0].ID)

	students, err := m.ListStudents(ctx, "CS101")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Alice", students[0].Name)
}

func TestMemory_HistoryRows(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seedClass(t, m, "CS101", "Intro", model.Student{ID: "S001", Name: "Alice"})

	require.NoError(t, m.SaveAttendance(ctx, "CS101", "2026-01-14", model.DailyRecord{
		Attendance: map[string]model.Status{"S001": model.StatusPresent},
		Notes:      "old",
	}))
	require.NoError(t, m.SaveAttendance(ctx, "CS101", "2026-01-15", model.DailyRecord{
		Attendance: map[string]model.Status{"S001": model.StatusAbsent},
		Notes:      "new",
	}))

	rows, notes, err := m.GetAttendanceHistory(ctx, "CS101")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-01-15", rows[0].Date, "rows come newest first")
	require.Len(t, notes, 2)
	assert.Equal(t, "new", notes[0].Notes)
}

func TestMemory_SeedDemoData(t *testing.T) {
	m := NewMemory()
	m.SeedDemoData()

	classes, err := m.ListClasses(context.Background())
	require.NoError(t, err)
	assert.Len(t, classes, 2)

	// idempotent
	m.SeedDemoData()
	classes, err = m.ListClasses(context.Background())
	require.NoError(t, err)
	assert.Len(t, classes, 2)
}
