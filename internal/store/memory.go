package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"classtrack/internal/model"
)

// Memory is an in-memory Store for dev mode and tests, selected with
// STORE_BACKEND=memory. Semantics mirror the Postgres implementation,
// including list ordering and cascade behavior.
type Memory struct {
	mu      sync.RWMutex
	classes map[string]*memClass
	// history is ClassID -> date key -> record. A class key exists here
	// only while at least one date entry remains.
	history map[string]map[string]model.DailyRecord
}

type memClass struct {
	id       string
	name     string
	students []model.Student
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		classes: make(map[string]*memClass),
		history: make(map[string]map[string]model.DailyRecord),
	}
}

func (m *Memory) ListClasses(ctx context.Context) ([]model.Class, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	classes := make([]model.Class, 0, len(m.classes))
	for _, c := range m.classes {
		classes = append(classes, model.Class{ID: c.id, Name: c.name})
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (m *Memory) GetClass(ctx context.Context, id string) (model.Class, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.classes[id]
	if !ok {
		return model.Class{}, ErrNotFound
	}
	return model.Class{ID: c.id, Name: c.name}, nil
}

func (m *Memory) CreateClass(ctx context.Context, c model.Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.classes[c.ID]; ok {
		return ErrDuplicateClass
	}
	m.classes[c.ID] = &memClass{id: c.ID, name: c.Name}
	return nil
}

func (m *Memory) DeleteClass(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.classes[id]; !ok {
		return ErrNotFound
	}
	delete(m.classes, id)
	delete(m.history, id)
	return nil
}

func (m *Memory) ListStudents(ctx context.Context, classID string) ([]model.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.classes[classID]
	if !ok {
		return nil, ErrNotFound
	}
	students := make([]model.Student, len(c.students))
	copy(students, c.students)
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (m *Memory) CreateStudent(ctx context.Context, classID string, s model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.classes[classID]
	if !ok {
		return ErrNotFound
	}
	c.students = append(c.students, s)
	return nil
}

func (m *Memory) DeleteStudent(ctx context.Context, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.classes {
		for i, s := range c.students {
			if s.ID != studentID {
				continue
			}
			c.students = append(c.students[:i], c.students[i+1:]...)
			// Scrub is surgical: the student's entry goes, the record and
			// its notes stay even when the attendance map ends up empty.
			for date, rec := range m.history[c.id] {
				delete(rec.Attendance, studentID)
				m.history[c.id][date] = rec
			}
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) GetAttendance(ctx context.Context, classID, date string) (model.DailyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.history[classID][date]
	if !ok {
		return model.DailyRecord{}, ErrNoRecord
	}
	return rec.Clone(), nil
}

func (m *Memory) GetAttendanceHistory(ctx context.Context, classID string) ([]model.AttendanceRow, []model.NoteRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dates := make([]string, 0, len(m.history[classID]))
	for date := range m.history[classID] {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	var attendance []model.AttendanceRow
	var notes []model.NoteRow
	for _, date := range dates {
		rec := m.history[classID][date]
		ids := make([]string, 0, len(rec.Attendance))
		for id := range rec.Attendance {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			attendance = append(attendance, model.AttendanceRow{StudentID: id, Date: date, Status: rec.Attendance[id]})
		}
		notes = append(notes, model.NoteRow{Date: date, Notes: rec.Notes})
	}
	return attendance, notes, nil
}

func (m *Memory) SaveAttendance(ctx context.Context, classID, date string, rec model.DailyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.classes[classID]; !ok {
		return ErrNotFound
	}
	if m.history[classID] == nil {
		m.history[classID] = make(map[string]model.DailyRecord)
	}
	m.history[classID][date] = rec.Clone()
	return nil
}

func (m *Memory) ClearAttendance(ctx context.Context, classID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	days, ok := m.history[classID]
	if !ok {
		return nil
	}
	delete(days, date)
	if len(days) == 0 {
		delete(m.history, classID)
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

// SeedDemoData loads the demo rosters used by the single-page UI in dev
// mode. No-op when any class already exists.
func (m *Memory) SeedDemoData() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.classes) > 0 {
		return
	}
	demo := []struct {
		id, name string
		students []string
	}{
		{"CS101", "Introduction to Computer Science", []string{"Alice Johnson", "Bob Williams", "Charlie Brown", "Diana Miller"}},
		{"PHY205", "Modern Physics", []string{"Kevin Thomas", "Laura Taylor", "Michael Moore"}},
	}
	n := 1
	for _, d := range demo {
		c := &memClass{id: d.id, name: d.name}
		for _, name := range d.students {
			id := fmt.Sprintf("S%03d", n)
			n++
			c.students = append(c.students, model.Student{
				ID:        id,
				Name:      name,
				AvatarURL: "https://picsum.photos/seed/" + id + "/100/100",
			})
		}
		m.classes[d.id] = c
	}
}
