// Package attendance owns the authoritative (class, date) -> DailyRecord
// mapping and its upsert/clear semantics.
package attendance

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"classtrack/internal/model"
	"classtrack/internal/notify"
	"classtrack/internal/store"
)

var (
	savesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classtrack_attendance_saves_total",
		Help: "Number of daily records saved.",
	})
	clearsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classtrack_attendance_clears_total",
		Help: "Number of daily records cleared.",
	})
)

// Service coordinates record saves, clears and reads.
type Service struct {
	store    store.Store
	notifier notify.Notifier
}

// NewService creates a service backed by a store.
func NewService(st store.Store, notifier notify.Notifier) *Service {
	return &Service{store: st, notifier: notifier}
}

// Save upserts the record at (classID, date), fully replacing any prior
// attendance map and notes. A save that would leave an empty map and
// empty notes deletes the entry instead; empty placeholder records never
// persist.
func (s *Service) Save(ctx context.Context, classID, date string, rec model.DailyRecord) error {
	classID = strings.ToUpper(strings.TrimSpace(classID))
	if !model.ValidDate(date) {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", model.ErrValidation)
	}
	for studentID, status := range rec.Attendance {
		if !status.Valid() {
			return fmt.Errorf("%w: unknown status %q for student %s", model.ErrValidation, status, studentID)
		}
	}
	if _, err := s.store.GetClass(ctx, classID); err != nil {
		return err
	}

	if rec.Empty() {
		return s.Clear(ctx, classID, date)
	}
	if err := s.store.SaveAttendance(ctx, classID, date, rec); err != nil {
		return err
	}
	savesTotal.Inc()
	s.toast(ctx, "Attendance and notes saved")
	return nil
}

// Clear deletes the (classID, date) entry. No-op when nothing was saved.
func (s *Service) Clear(ctx context.Context, classID, date string) error {
	classID = strings.ToUpper(strings.TrimSpace(classID))
	if !model.ValidDate(date) {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", model.ErrValidation)
	}
	if err := s.store.ClearAttendance(ctx, classID, date); err != nil {
		return err
	}
	clearsTotal.Inc()
	s.toast(ctx, "Record cleared")
	return nil
}

// Get returns the saved record or store.ErrNoRecord. Callers distinguish
// "never saved" from "saved with nothing marked" through that error.
func (s *Service) Get(ctx context.Context, classID, date string) (model.DailyRecord, error) {
	classID = strings.ToUpper(strings.TrimSpace(classID))
	if !model.ValidDate(date) {
		return model.DailyRecord{}, fmt.Errorf("%w: date must be YYYY-MM-DD", model.ErrValidation)
	}
	return s.store.GetAttendance(ctx, classID, date)
}

// History returns the class's flat attendance and note rows; callers
// group them by date.
func (s *Service) History(ctx context.Context, classID string) ([]model.AttendanceRow, []model.NoteRow, error) {
	classID = strings.ToUpper(strings.TrimSpace(classID))
	if _, err := s.store.GetClass(ctx, classID); err != nil {
		return nil, nil, err
	}
	return s.store.GetAttendanceHistory(ctx, classID)
}

func (s *Service) toast(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, notify.Info(message)); err != nil {
		log.Printf("toast publish failed: %v", err)
	}
}
