package view

import (
	"time"

	"classtrack/internal/model"
)

// Cell is one calendar grid slot. Leading offset cells before day 1 have
// Day 0 and no date; only days with a persisted record carry a summary.
type Cell struct {
	Day       int               `json:"day,omitempty"`
	Date      string            `json:"date,omitempty"`
	HasRecord bool              `json:"hasRecord"`
	Summary   *model.DaySummary `json:"summary,omitempty"`
}

// Summarize counts the marked statuses in a record. Unmarked entries are
// excluded everywhere; Total is the marked count, not the roster size.
func Summarize(rec model.DailyRecord) model.DaySummary {
	var sum model.DaySummary
	for _, status := range rec.Attendance {
		switch status {
		case model.StatusPresent:
			sum.Present++
		case model.StatusAbsent:
			sum.Absent++
		case model.StatusLate:
			sum.Late++
		}
		if status.Marked() {
			sum.Total++
		}
	}
	return sum
}

// MonthGrid builds the Sunday-first cell sequence for a month: blank
// cells for the days-of-week offset before day 1, then one cell per
// calendar day with its canonical date key. No trailing padding.
func MonthGrid(year int, month time.Month) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]Cell, 0, int(first.Weekday())+daysInMonth)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, Cell{})
	}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		cells = append(cells, Cell{Day: day, Date: model.DateKey(date)})
	}
	return cells
}

// Calendar attaches per-day summaries from the class's history to the
// month grid. history is keyed by canonical date string.
func Calendar(year int, month time.Month, history map[string]model.DailyRecord) []Cell {
	cells := MonthGrid(year, month)
	for i := range cells {
		if cells[i].Date == "" {
			continue
		}
		rec, ok := history[cells[i].Date]
		if !ok {
			continue
		}
		cells[i].HasRecord = true
		sum := Summarize(rec)
		cells[i].Summary = &sum
	}
	return cells
}

// GroupHistory folds flat store rows into the per-date record map the
// calendar consumes. Dates appearing only in notes still form a record.
func GroupHistory(rows []model.AttendanceRow, notes []model.NoteRow) map[string]model.DailyRecord {
	history := make(map[string]model.DailyRecord)
	for _, row := range rows {
		rec, ok := history[row.Date]
		if !ok {
			rec = model.DailyRecord{Attendance: map[string]model.Status{}}
		}
		rec.Attendance[row.StudentID] = row.Status
		history[row.Date] = rec
	}
	for _, n := range notes {
		rec, ok := history[n.Date]
		if !ok {
			rec = model.DailyRecord{Attendance: map[string]model.Status{}}
		}
		rec.Notes = n.Notes
		history[n.Date] = rec
	}
	return history
}
