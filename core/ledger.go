package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"timeclock.app/timeclock/utils"
)

// EventStore is the persistence contract the ledger depends on. Both
// operations act on the full collection: every mutation is a
// read-modify-write over all events, and SaveAll replaces the stored
// collection atomically.
type EventStore interface {
	LoadAll() ([]AttendanceEvent, error)
	SaveAll(events []AttendanceEvent) error
}

// Clock supplies the authoritative timestamp for new events. It may
// fail (e.g. the remote time API is down); the ledger then falls back
// to a local clock and proceeds.
type Clock interface {
	Now(ctx context.Context) (string, error)
}

// Ledger owns the append-only attendance event collection. It is
// stateless apart from the per-user write guard; shift state is always
// derived by replaying a user's events in timestamp order.
type Ledger struct {
	store EventStore
	clock Clock
	local Clock
	guard *WriteGuard
	log   *zap.Logger
}

func NewLedger(store EventStore, clock, local Clock, log *zap.Logger) *Ledger {
	return &Ledger{
		store: store,
		clock: clock,
		local: local,
		guard: NewWriteGuard(),
		log:   log,
	}
}

// now fetches the authoritative time, falling back to the local clock
// on failure. Single attempt, no retry.
func (l *Ledger) now(ctx context.Context) (string, error) {
	ts, err := l.clock.Now(ctx)
	if err == nil {
		return ts, nil
	}
	l.log.Warn("time authority unavailable, using local clock", zap.Error(err))
	return l.local.Now(ctx)
}

// replayOpenState walks a user's events in ascending timestamp order
// and reports whether the sequence ends on an open shift, along with
// the clock-in event that opened it.
func replayOpenState(events []AttendanceEvent) (bool, *AttendanceEvent) {
	sorted := append([]AttendanceEvent(nil), events...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Time().Before(sorted[j].Time())
	})

	var lastIn *AttendanceEvent
	open := false
	for i := range sorted {
		ev := &sorted[i]
		switch ev.Kind {
		case KindIn:
			lastIn = ev
			open = true
		case KindOut:
			// An out only closes a shift that is open and older.
			if lastIn != nil && ev.Time().After(lastIn.Time()) {
				open = false
				lastIn = nil
			}
		}
	}
	return open, lastIn
}

func (l *Ledger) userEvents(events []AttendanceEvent, userID string) []AttendanceEvent {
	return utils.Filter(events, func(ev AttendanceEvent) bool {
		return ev.User.ID == userID
	})
}

// OpenShift appends a clock-in event for the user. Fails with
// ErrAlreadyOpen if the user's ledger already resolves to an open
// shift, or ErrWriteInProgress if another open/close for the same user
// is in flight.
func (l *Ledger) OpenShift(ctx context.Context, user UserRef) (*AttendanceEvent, error) {
	return l.appendEvent(ctx, user, KindIn)
}

// CloseShift appends a clock-out event for the user. Fails with
// ErrNoOpenShift if there is no unmatched clock-in.
func (l *Ledger) CloseShift(ctx context.Context, user UserRef) (*AttendanceEvent, error) {
	return l.appendEvent(ctx, user, KindOut)
}

func (l *Ledger) appendEvent(ctx context.Context, user UserRef, kind EventKind) (*AttendanceEvent, error) {
	if !l.guard.TryAcquire(user.ID) {
		return nil, ErrWriteInProgress
	}
	defer l.guard.Release(user.ID)

	timestamp, err := l.now(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch timestamp: %w", err)
	}

	events, err := l.store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	open, _ := replayOpenState(l.userEvents(events, user.ID))
	if kind == KindIn && open {
		return nil, ErrAlreadyOpen
	}
	if kind == KindOut && !open {
		return nil, ErrNoOpenShift
	}

	event := AttendanceEvent{
		ID:        uuid.NewString(),
		User:      user,
		Kind:      kind,
		Timestamp: timestamp,
	}

	events = append(events, event)
	if err := l.store.SaveAll(events); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	l.log.Info("shift event recorded",
		zap.String("userId", user.ID),
		zap.String("kind", string(kind)),
		zap.String("eventId", event.ID),
	)
	return &event, nil
}

// Status is the derived shift state for one user.
type Status struct {
	HasRecords bool
	Active     bool
	// Shift is the clock-in that opened the active shift, when Active.
	Shift *AttendanceEvent
	// LastShift is the user's most recent clock-in when no shift is
	// active.
	LastShift *AttendanceEvent
}

// CurrentStatus derives the user's shift state from a lock-free read.
// It tolerates an empty store.
func (l *Ledger) CurrentStatus(userID string) (*Status, error) {
	events, err := l.store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	mine := l.userEvents(events, userID)
	if len(mine) == 0 {
		return &Status{}, nil
	}

	open, lastIn := replayOpenState(mine)
	status := &Status{HasRecords: true, Active: open}
	if open {
		status.Shift = lastIn
		return status, nil
	}

	// Most recent clock-in, if the user ever had one.
	ins := utils.Filter(mine, func(ev AttendanceEvent) bool { return ev.Kind == KindIn })
	sort.Slice(ins, func(i, j int) bool { return ins[i].Time().After(ins[j].Time()) })
	if len(ins) > 0 {
		status.LastShift = &ins[0]
	}
	return status, nil
}

// AllEvents returns the full ledger, for administrative review.
func (l *Ledger) AllEvents() ([]AttendanceEvent, error) {
	events, err := l.store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return events, nil
}

// EditEvent replaces an event's kind and timestamp in place, id
// preserved. No ledger consistency re-validation is performed: edits
// may intentionally create or resolve inconsistent sequences, which is
// accepted administrative override power.
func (l *Ledger) EditEvent(id string, kind EventKind, timestamp string) (*AttendanceEvent, error) {
	if timestamp == "" || !kind.Valid() {
		return nil, ErrInvalidInput
	}

	events, err := l.store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	idx := eventIndex(events, id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	events[idx].Kind = kind
	events[idx].Timestamp = timestamp

	if err := l.store.SaveAll(events); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	l.log.Info("attendance event edited", zap.String("eventId", id))
	return &events[idx], nil
}

// DeleteEvent removes an event permanently. No cascading correction of
// now-orphaned events.
func (l *Ledger) DeleteEvent(id string) (*AttendanceEvent, error) {
	events, err := l.store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	idx := eventIndex(events, id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	removed := events[idx]
	remaining := append(events[:idx:idx], events[idx+1:]...)

	if err := l.store.SaveAll(remaining); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	l.log.Info("attendance event deleted", zap.String("eventId", id))
	return &removed, nil
}

func eventIndex(events []AttendanceEvent, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}
