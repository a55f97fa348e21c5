// Package schedule holds the due-window selection rules for reminders.
// The store runs the same predicate in SQL against the database clock;
// these functions are the in-process counterpart used by the poller for
// deterministic ordering and by tests.
package schedule

import "time"

// NextFireTime computes when a reminder would next fire relative to now.
//
// One-time reminders (empty day set) fire at their absolute dueAt.
// Recurring reminders fire at today's date combined with dueAt's
// time-of-day, but only on a matching weekday; on other days the second
// return value is false. A recurring fire time earlier than now is still
// returned so callers can tell "already passed today" from "not today".
func NextFireTime(now, dueAt time.Time, days WeekdaySet) (time.Time, bool) {
	if len(days) == 0 {
		return dueAt, true
	}
	if !days.Contains(now.Weekday()) {
		return time.Time{}, false
	}
	tod := dueAt.In(now.Location())
	fire := time.Date(now.Year(), now.Month(), now.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), tod.Nanosecond(), now.Location())
	return fire, true
}

// DueWithin reports whether the reminder's next fire time falls inside
// [now, now+window], and returns that fire time. A zero window selects
// only reminders due at exactly now. A recurring reminder whose
// time-of-day has already passed today is excluded; it becomes eligible
// again on its next matching weekday.
func DueWithin(now time.Time, window time.Duration, dueAt time.Time, days WeekdaySet) (time.Time, bool) {
	fire, ok := NextFireTime(now, dueAt, days)
	if !ok {
		return time.Time{}, false
	}
	if fire.Before(now) || fire.After(now.Add(window)) {
		return time.Time{}, false
	}
	return fire, true
}
