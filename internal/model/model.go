package model

import "time"

// Status is the attendance outcome for one student at one session.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

// Statuses lists every accepted status, in display order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusLate}

// Valid reports whether s is one of the accepted statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Session is a scheduled lab or class. Both share one shape.
type Session struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Subject   string    `json:"subject" db:"subject"`
	Date      string    `json:"date" db:"date"`
	Time      string    `json:"time" db:"time"` // "HH:MM-HH:MM"
	Capacity  int       `json:"capacity" db:"capacity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SessionInput carries caller-supplied session fields. Nil means omitted.
type SessionInput struct {
	Name     *string `json:"name"`
	Subject  *string `json:"subject"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Capacity *int    `json:"capacity"`
}

// LabAttendance is one recorded lab attendance row.
type LabAttendance struct {
	ID          string    `json:"id" db:"id"`
	LabID       string    `json:"labId" db:"lab_id"`
	StudentName string    `json:"studentName" db:"student_name"`
	StudentID   string    `json:"studentId" db:"student_id"`
	Status      Status    `json:"status" db:"status"`
	Date        string    `json:"date" db:"date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	LabName     *string   `json:"lab_name" db:"lab_name"` // nil once the lab is deleted
}

// ClassAttendance is one recorded class attendance row.
type ClassAttendance struct {
	ID          string    `json:"id" db:"id"`
	ClassID     string    `json:"classId" db:"class_id"`
	StudentName string    `json:"studentName" db:"student_name"`
	StudentID   string    `json:"studentId" db:"student_id"`
	Status      Status    `json:"status" db:"status"`
	Date        string    `json:"date" db:"date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	ClassName   *string   `json:"class_name" db:"class_name"`
}

// NewAttendance is the input for recording attendance against a session.
type NewAttendance struct {
	SessionID   string `validate:"required,notblank"`
	StudentName string `validate:"required,notblank"`
	StudentID   string `validate:"required,notblank"`
	Status      Status `validate:"required,oneof=present absent late"`
	Date        string `validate:"required,notblank"`
}

// AttendanceFilter narrows an attendance listing. Empty fields match everything.
type AttendanceFilter struct {
	SessionID string
	Date      string
}

// StatusCounts tallies attendance rows by status.
type StatusCounts struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
}

// Add counts n rows with status s.
func (c *StatusCounts) Add(s Status, n int) {
	c.Total += n
	switch s {
	case StatusPresent:
		c.Present += n
	case StatusAbsent:
		c.Absent += n
	case StatusLate:
		c.Late += n
	}
}

// Dashboard is the summary shown on the landing view for one date.
type Dashboard struct {
	Date            string       `json:"date"`
	TotalLabs       int          `json:"totalLabs"`
	TotalClasses    int          `json:"totalClasses"`
	LabAttendance   StatusCounts `json:"labAttendance"`
	ClassAttendance StatusCounts `json:"classAttendance"`
}
