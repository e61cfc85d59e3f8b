// Package roster owns class and student lifecycles, including the
// cascades into attendance history.
package roster

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"classtrack/internal/model"
	"classtrack/internal/notify"
	"classtrack/internal/store"
)

// Service is the class/student registry.
type Service struct {
	store         store.Store
	notifier      notify.Notifier
	avatarBaseURL string
}

// NewService creates the registry. avatarBaseURL hosts the seeded avatar
// images (picsum-style /seed/<id>/100/100 paths).
func NewService(st store.Store, notifier notify.Notifier, avatarBaseURL string) *Service {
	if avatarBaseURL == "" {
		avatarBaseURL = "https://picsum.photos"
	}
	return &Service{store: st, notifier: notifier, avatarBaseURL: strings.TrimRight(avatarBaseURL, "/")}
}

// ListClasses returns all classes ordered by name, without rosters.
func (s *Service) ListClasses(ctx context.Context) ([]model.Class, error) {
	return s.store.ListClasses(ctx)
}

// GetClass returns one class without its roster.
func (s *Service) GetClass(ctx context.Context, id string) (model.Class, error) {
	return s.store.GetClass(ctx, strings.ToUpper(strings.TrimSpace(id)))
}

// AddClass registers a class. The id is normalized to uppercase here, not
// left to callers, so the case-insensitive uniqueness invariant holds no
// matter who calls.
func (s *Service) AddClass(ctx context.Context, id, name string) (model.Class, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	name = strings.TrimSpace(name)
	if id == "" {
		return model.Class{}, fmt.Errorf("%w: class id required", model.ErrValidation)
	}
	if name == "" {
		return model.Class{}, fmt.Errorf("%w: class name required", model.ErrValidation)
	}

	c := model.Class{ID: id, Name: name}
	if err := s.store.CreateClass(ctx, c); err != nil {
		return model.Class{}, err
	}
	s.toast(ctx, fmt.Sprintf("Subject %s registered", id))
	return c, nil
}

// RemoveClass deletes the class, its students and its entire attendance
// history. Safe to repeat; a second call reports not found without
// touching anything.
func (s *Service) RemoveClass(ctx context.Context, id string) error {
	id = strings.ToUpper(strings.TrimSpace(id))
	if err := s.store.DeleteClass(ctx, id); err != nil {
		return err
	}
	s.toast(ctx, fmt.Sprintf("Subject %s removed", id))
	return nil
}

// ListStudents returns the roster for a class ordered by name.
func (s *Service) ListStudents(ctx context.Context, classID string) ([]model.Student, error) {
	classID = strings.ToUpper(strings.TrimSpace(classID))
	if _, err := s.store.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	return s.store.ListStudents(ctx, classID)
}

// AddStudent registers a student on a class roster with a generated,
// system-wide-unique id and a seeded avatar URL.
func (s *Service) AddStudent(ctx context.Context, classID, name string) (model.Student, error) {
	classID = strings.ToUpper(strings.TrimSpace(classID))
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Student{}, fmt.Errorf("%w: student name required", model.ErrValidation)
	}
	if _, err := s.store.GetClass(ctx, classID); err != nil {
		return model.Student{}, err
	}

	st := model.Student{ID: newStudentID(), Name: name}
	st.AvatarURL = fmt.Sprintf("%s/seed/%s/100/100", s.avatarBaseURL, st.ID)
	if err := s.store.CreateStudent(ctx, classID, st); err != nil {
		return model.Student{}, err
	}
	s.toast(ctx, fmt.Sprintf("Student %s registered", st.Name))
	return st, nil
}

// RemoveStudent drops the student from its roster and scrubs its id from
// every daily record of that class. The records themselves survive the
// scrub, notes included.
func (s *Service) RemoveStudent(ctx context.Context, studentID string) error {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return fmt.Errorf("%w: student id required", model.ErrValidation)
	}
	if err := s.store.DeleteStudent(ctx, studentID); err != nil {
		return err
	}
	s.toast(ctx, "Student removed")
	return nil
}

func (s *Service) toast(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, notify.Info(message)); err != nil {
		log.Printf("toast publish failed: %v", err)
	}
}

// newStudentID generates an id unique across the whole system, not just
// one class. Uppercase to match the imported roster conventions.
func newStudentID() string {
	return "S" + strings.ToUpper(uuid.NewString()[:8])
}
