package model

import "strings"

// Kind describes where a session type and its attendance live.
// Table and column names are fixed here and never come from requests.
type Kind struct {
	Label           string // "Lab" or "Class", used in response messages
	Table           string
	AttendanceTable string
	ForeignKey      string // attendance column and query parameter naming the session
	JoinedName      string // alias for the session name on attendance reads
	DefaultCapacity int
}

var (
	LabKind = Kind{
		Label:           "Lab",
		Table:           "labs",
		AttendanceTable: "lab_attendance",
		ForeignKey:      "lab_id",
		JoinedName:      "lab_name",
		DefaultCapacity: 40,
	}
	ClassKind = Kind{
		Label:           "Class",
		Table:           "classes",
		AttendanceTable: "class_attendance",
		ForeignKey:      "class_id",
		JoinedName:      "class_name",
		DefaultCapacity: 90,
	}
)

// Kinds lists every session kind.
var Kinds = []Kind{LabKind, ClassKind}

const (
	DefaultSubject = "General"
	DefaultTime    = "09:00-11:00"
	DateLayout     = "2006-01-02"
)

// Name is the lower-case label, e.g. "lab".
func (k Kind) Name() string {
	return strings.ToLower(k.Label)
}
