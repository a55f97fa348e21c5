package schedule

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// WeekdaySet is the set of weekdays a recurring reminder fires on.
// Numbering follows time.Weekday and Postgres EXTRACT(DOW ...):
// 0=Sunday .. 6=Saturday. An empty set marks a one-time reminder.
//
// Stored as a Postgres integer[] so the due-soon query can match it
// with = ANY(due_day).
type WeekdaySet []time.Weekday

func (s WeekdaySet) Contains(d time.Weekday) bool {
	for _, w := range s {
		if w == d {
			return true
		}
	}
	return false
}

// Validate rejects out-of-range and duplicate weekday values.
func (s WeekdaySet) Validate() error {
	seen := map[time.Weekday]bool{}
	for _, w := range s {
		if w < time.Sunday || w > time.Saturday {
			return fmt.Errorf("weekday %d out of range 0-6", w)
		}
		if seen[w] {
			return fmt.Errorf("duplicate weekday %d", w)
		}
		seen[w] = true
	}
	return nil
}

// Value renders the set in Postgres array literal form, e.g. {1,3,5}.
func (s WeekdaySet) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "{}", nil
	}
	parts := make([]string, len(s))
	for i, w := range s {
		parts[i] = strconv.Itoa(int(w))
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func (s *WeekdaySet) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into WeekdaySet", src)
	}

	raw = strings.Trim(strings.TrimSpace(raw), "{}")
	if raw == "" {
		*s = WeekdaySet{}
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make(WeekdaySet, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("invalid weekday value %q: %w", p, err)
		}
		out = append(out, time.Weekday(n))
	}
	*s = out
	return nil
}

// GormDBDataType keeps the column a native integer[] on Postgres while
// letting sqlite-backed tests store the array literal as text.
func (WeekdaySet) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "integer[]"
	}
	return "text"
}
