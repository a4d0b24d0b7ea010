package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"labattend/internal/model"
)

var (
	// ErrInvalid marks input the caller must fix.
	ErrInvalid = errors.New("invalid input")
	// ErrNotFound marks an id that names no session.
	ErrNotFound = errors.New("not found")
)

// Service applies defaults and validation on top of the repository.
type Service struct {
	repo     *Repository
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository) *Service {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &Service{
		repo:     repo,
		validate: v,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Today returns the current date in the layout stored on sessions and attendance.
func (s *Service) Today() string {
	return s.now().Format(model.DateLayout)
}

// ListSessions returns every session of kind k, newest first. Never nil.
func (s *Service) ListSessions(ctx context.Context, k model.Kind) ([]model.Session, error) {
	out, err := s.repo.ListSessions(ctx, k)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Session{}
	}
	return out, nil
}

// CreateSession stores a new session, filling omitted fields with the kind's defaults.
func (s *Service) CreateSession(ctx context.Context, k model.Kind, in model.SessionInput) (model.Session, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return model.Session{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if err := checkCapacity(in); err != nil {
		return model.Session{}, err
	}
	sess := model.Session{
		ID:        uuid.NewString(),
		Name:      *in.Name,
		Subject:   model.DefaultSubject,
		Date:      s.Today(),
		Time:      model.DefaultTime,
		Capacity:  k.DefaultCapacity,
		CreatedAt: s.now(),
	}
	merge(&sess, in)
	if err := s.repo.InsertSession(ctx, k, sess); err != nil {
		return model.Session{}, storeError(err)
	}
	sessionsCreated.WithLabelValues(k.Name()).Inc()
	return sess, nil
}

// UpdateSession overwrites only the fields present in in; omitted fields keep their stored values.
func (s *Service) UpdateSession(ctx context.Context, k model.Kind, id string, in model.SessionInput) (model.Session, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return model.Session{}, fmt.Errorf("%w: name cannot be blank", ErrInvalid)
	}
	if err := checkCapacity(in); err != nil {
		return model.Session{}, err
	}
	current, err := s.repo.GetSession(ctx, k, id)
	if err != nil {
		return model.Session{}, err
	}
	if current == nil {
		return model.Session{}, fmt.Errorf("%w: %s %s", ErrNotFound, k.Name(), id)
	}
	merge(current, in)
	ok, err := s.repo.UpdateSession(ctx, k, *current)
	if err != nil {
		return model.Session{}, storeError(err)
	}
	if !ok {
		return model.Session{}, fmt.Errorf("%w: %s %s", ErrNotFound, k.Name(), id)
	}
	return *current, nil
}

// DeleteSession removes a session without touching its attendance.
func (s *Service) DeleteSession(ctx context.Context, k model.Kind, id string) error {
	ok, err := s.repo.DeleteSession(ctx, k, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrNotFound, k.Name(), id)
	}
	sessionsDeleted.WithLabelValues(k.Name()).Inc()
	return nil
}

// RecordAttendance stores one attendance row against an existing session and returns its id.
func (s *Service) RecordAttendance(ctx context.Context, k model.Kind, in model.NewAttendance) (string, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalid, describe(err))
	}
	exists, err := s.repo.SessionExists(ctx, k, in.SessionID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: %s %s does not exist", ErrInvalid, k.Name(), in.SessionID)
	}
	id := uuid.NewString()
	if err := s.repo.InsertAttendance(ctx, k, id, in, s.now()); err != nil {
		return "", storeError(err)
	}
	attendanceRecorded.WithLabelValues(k.Name(), string(in.Status)).Inc()
	return id, nil
}

// ListLabAttendance returns matching lab attendance, newest first. Never nil.
func (s *Service) ListLabAttendance(ctx context.Context, f model.AttendanceFilter) ([]model.LabAttendance, error) {
	out, err := s.repo.ListLabAttendance(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.LabAttendance{}
	}
	return out, nil
}

// ListClassAttendance returns matching class attendance, newest first. Never nil.
func (s *Service) ListClassAttendance(ctx context.Context, f model.AttendanceFilter) ([]model.ClassAttendance, error) {
	out, err := s.repo.ListClassAttendance(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.ClassAttendance{}
	}
	return out, nil
}

// Dashboard summarises session totals and attendance for date (today when empty).
func (s *Service) Dashboard(ctx context.Context, date string) (model.Dashboard, error) {
	if date == "" {
		date = s.Today()
	}
	d := model.Dashboard{Date: date}
	var err error
	if d.TotalLabs, err = s.repo.CountSessions(ctx, model.LabKind); err != nil {
		return model.Dashboard{}, err
	}
	if d.TotalClasses, err = s.repo.CountSessions(ctx, model.ClassKind); err != nil {
		return model.Dashboard{}, err
	}
	if d.LabAttendance, err = s.repo.CountAttendanceByStatus(ctx, model.LabKind, date); err != nil {
		return model.Dashboard{}, err
	}
	if d.ClassAttendance, err = s.repo.CountAttendanceByStatus(ctx, model.ClassKind, date); err != nil {
		return model.Dashboard{}, err
	}
	return d, nil
}

// merge copies every non-nil field of in onto sess. A zero capacity is treated as omitted.
func merge(sess *model.Session, in model.SessionInput) {
	if in.Name != nil {
		sess.Name = *in.Name
	}
	if in.Subject != nil && *in.Subject != "" {
		sess.Subject = *in.Subject
	}
	if in.Date != nil && *in.Date != "" {
		sess.Date = *in.Date
	}
	if in.Time != nil && *in.Time != "" {
		sess.Time = *in.Time
	}
	if in.Capacity != nil && *in.Capacity != 0 {
		sess.Capacity = *in.Capacity
	}
}

func checkCapacity(in model.SessionInput) error {
	if in.Capacity != nil && *in.Capacity < 0 {
		return fmt.Errorf("%w: capacity cannot be negative", ErrInvalid)
	}
	return nil
}

// storeError turns SQLite constraint failures into ErrInvalid; anything else passes through.
func storeError(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s", ErrInvalid, se.Error())
	}
	return err
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "notblank":
			parts = append(parts, fieldName(fe.Field())+" is required")
		case "oneof":
			parts = append(parts, fieldName(fe.Field())+" must be one of: "+fe.Param())
		default:
			parts = append(parts, fieldName(fe.Field())+" is invalid")
		}
	}
	return strings.Join(parts, ", ")
}

func fieldName(f string) string {
	switch f {
	case "SessionID":
		return "session id"
	case "StudentName":
		return "studentName"
	case "StudentID":
		return "studentId"
	default:
		return strings.ToLower(f)
	}
}
