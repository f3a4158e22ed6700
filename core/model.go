package core

import (
	"time"

	"timeclock.app/timeclock/utils"
)

type EventKind string

const (
	KindIn  EventKind = "in"
	KindOut EventKind = "out"
)

func (k EventKind) Valid() bool {
	return k == KindIn || k == KindOut
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserRef is the minimal projection of a user stored on attendance
// events. Credentials never appear here.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// AttendanceEvent is a single clock-in or clock-out record. The ledger
// is an unordered bag of these; ordering is always imposed by sorting
// on Timestamp at read time.
type AttendanceEvent struct {
	ID        string    `json:"id"`
	User      UserRef   `json:"user"`
	Kind      EventKind `json:"type"`
	Timestamp string    `json:"timestamp"`
}

// Time parses the event timestamp. Events with an unparseable
// timestamp sort as the zero time.
func (e AttendanceEvent) Time() time.Time {
	t, err := utils.ParseISOTime(e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return *t
}
