package store

import "timeclock.app/timeclock/core"

// User is the credential-bearing account record. Attendance events
// only ever carry the core.UserRef projection of this.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      core.Role `json:"role"`
}

// Ref returns the minimal projection stored on attendance events.
func (u User) Ref() core.UserRef {
	return core.UserRef{ID: u.ID, Username: u.Username, Role: u.Role}
}

// UserStore persists the user collection, keyed by username, with
// full-collection replace semantics like the event store.
type UserStore interface {
	LoadAll() (map[string]User, error)
	SaveAll(users map[string]User) error
}
