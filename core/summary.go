package core

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"timeclock.app/timeclock/utils"
)

// CompletedShift is one paired in/out interval. It carries both the
// opening event's identity (ID) and the closing event's (OutID) so
// either side of the pair can be addressed by an administrative edit.
type CompletedShift struct {
	ID         string    `json:"id"`
	User       UserRef   `json:"user"`
	Kind       EventKind `json:"type"`
	Timestamp  string    `json:"timestamp"`
	EndTime    string    `json:"endTime"`
	OutID      string    `json:"outId"`
	DurationMS int64     `json:"durationMs"`
	Hours      float64   `json:"hours"`
	Date       string    `json:"date"`
}

// UserSummary is the aggregate for one user over a date window.
// TotalHours/TotalMinutes are the integer floor decomposition of the
// summed interval durations, not a rounding.
type UserSummary struct {
	UserID        string           `json:"userId"`
	From          string           `json:"from"`
	To            string           `json:"to"`
	TotalHours    int              `json:"totalHours"`
	TotalMinutes  int              `json:"totalMinutes"`
	Shifts        []CompletedShift `json:"records"`
	UnmatchedIns  int              `json:"unmatchedIns"`
	UnmatchedOuts int              `json:"unmatchedOuts"`
}

const dateLayout = "2006-01-02"

// Summarize reconstructs worked intervals from the given events over
// the inclusive calendar-day range [from, to]. The to date is treated
// as end-of-day (23:59:59.999); from is used as the literal start of
// its instant. With a userID it returns that user's summary alone
// (an empty echo summary if the user has no events in range);
// otherwise one summary per user seen in range.
func Summarize(events []AttendanceEvent, from, to time.Time, userID string, log *zap.Logger) []UserSummary {
	to = endOfDay(to)

	inRange := utils.Filter(events, func(ev AttendanceEvent) bool {
		t := ev.Time()
		return !t.Before(from) && !t.After(to)
	})

	grouped := utils.GroupBy(inRange, func(ev AttendanceEvent) string { return ev.User.ID })

	var users []string
	if userID != "" {
		users = []string{userID}
	} else {
		for uid := range grouped {
			users = append(users, uid)
		}
		sort.Strings(users)
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, uid := range users {
		summaries = append(summaries, summarizeUser(uid, grouped[uid], from, to, log))
	}
	return summaries
}

func summarizeUser(userID string, events []AttendanceEvent, from, to time.Time, log *zap.Logger) UserSummary {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Time().Before(events[j].Time())
	})

	// FIFO pairing: the oldest pending clock-in pairs with the
	// earliest clock-out. Tolerates out-of-order timestamps for
	// sequential single-session work at the cost of misattributing
	// overlapping duplicate ins.
	var pending []AttendanceEvent
	var shifts []CompletedShift
	var total time.Duration
	unmatchedOuts := 0

	for _, ev := range events {
		switch ev.Kind {
		case KindIn:
			pending = append(pending, ev)
		case KindOut:
			if len(pending) == 0 {
				unmatchedOuts++
				continue
			}
			in := pending[0]
			pending = pending[1:]

			duration := ev.Time().Sub(in.Time())
			total += duration

			shifts = append(shifts, CompletedShift{
				ID:         in.ID,
				User:       in.User,
				Kind:       in.Kind,
				Timestamp:  in.Timestamp,
				EndTime:    ev.Timestamp,
				OutID:      ev.ID,
				DurationMS: duration.Milliseconds(),
				Hours:      duration.Hours(),
				Date:       in.Time().Format(dateLayout),
			})
		}
	}

	if len(pending) > 0 && log != nil {
		log.Warn("unmatched clock-in records excluded from summary",
			zap.String("userId", userID),
			zap.Int("count", len(pending)),
		)
	}

	return UserSummary{
		UserID:        userID,
		From:          from.Format(dateLayout),
		To:            to.Format(dateLayout),
		TotalHours:    int(total / time.Hour),
		TotalMinutes:  int(total % time.Hour / time.Minute),
		Shifts:        shifts,
		UnmatchedIns:  len(pending),
		UnmatchedOuts: unmatchedOuts,
	}
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}
