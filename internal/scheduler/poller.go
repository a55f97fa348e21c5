// Package scheduler drives the recurring due-reminder poll: query the
// store for reminders firing inside the lookahead window, hand each to
// the delivery collaborator, survive anything that goes wrong.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/verdantapp/verdant-backend/internal/apps/reminders"
	"github.com/verdantapp/verdant-backend/internal/schedule"
)

// Store is the slice of the reminder service the poller needs.
type Store interface {
	DueSoon(ctx context.Context, windowSec int) ([]reminders.Reminder, error)
}

// Notifier delivers one due reminder. Implementations are expected to
// tolerate repeat deliveries: the poller keeps no watermark, so a
// reminder inside the window is re-delivered on every tick.
type Notifier interface {
	Notify(ctx context.Context, r reminders.Reminder) error
}

type Poller struct {
	store       Store
	notifier    Notifier
	windowSec   int
	tickTimeout time.Duration
}

func New(store Store, notifier Notifier, windowSec int, tickTimeout time.Duration) *Poller {
	return &Poller{
		store:       store,
		notifier:    notifier,
		windowSec:   windowSec,
		tickTimeout: tickTimeout,
	}
}

// Poll runs one tick: one due-soon query, one delivery attempt per
// reminder. A failed delivery never aborts the batch; a failed query
// is logged and reported so the caller can count it, but the loop
// itself continues on the next tick.
func (p *Poller) Poll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.tickTimeout)
	defer cancel()

	due, err := p.store.DueSoon(ctx, p.windowSec)
	if err != nil {
		slog.Error("due-reminder poll failed", "error", err, "window_sec", p.windowSec)
		return err
	}

	sortByFireTime(due, time.Now())

	var delivered, skipped, failed int
	for _, r := range due {
		if !r.IsActive {
			// Paused reminders still match the due query; they are
			// dropped here so pausing takes effect without touching
			// the schedule fields.
			skipped++
			continue
		}
		if err := p.notifier.Notify(ctx, r); err != nil {
			slog.Error("reminder delivery failed",
				"reminder_id", r.ID, "user_id", r.UserID, "error", err)
			failed++
			continue
		}
		delivered++
	}

	if len(due) > 0 {
		slog.Info("poll tick complete",
			"due", len(due), "delivered", delivered, "skipped", skipped, "failed", failed)
	}
	return nil
}

// sortByFireTime re-sorts the batch by computed next fire time with id
// as tie-break. The SQL already orders by fire time; this makes the
// tie-break deterministic regardless of backend.
func sortByFireTime(due []reminders.Reminder, now time.Time) {
	fireAt := func(r reminders.Reminder) time.Time {
		if t, ok := schedule.NextFireTime(now, r.DueAt, r.DueDay); ok {
			return t
		}
		return r.DueAt
	}
	sort.SliceStable(due, func(i, j int) bool {
		fi, fj := fireAt(due[i]), fireAt(due[j])
		if fi.Equal(fj) {
			return due[i].ID.String() < due[j].ID.String()
		}
		return fi.Before(fj)
	})
}

// CronSpec converts a poll interval in seconds to a cron expression,
// using the seconds-resolution format below one minute.
func CronSpec(intervalSec int) (string, bool) {
	if intervalSec < 60 {
		return fmt.Sprintf("*/%d * * * * *", intervalSec), true
	}
	minutes := intervalSec / 60
	return fmt.Sprintf("*/%d * * * *", minutes), false
}

// Start runs one poll immediately, so nothing waits a full cycle after
// a restart, then polls on the given cadence. Ticks that outlast the
// interval are skipped rather than overlapped.
func (p *Poller) Start(intervalSec int) (*cron.Cron, error) {
	spec, withSeconds := CronSpec(intervalSec)

	opts := []cron.Option{cron.WithChain(cron.SkipIfStillRunning(cronLogger{}))}
	if withSeconds {
		opts = append(opts, cron.WithSeconds())
	}

	c := cron.New(opts...)
	entryID, err := c.AddFunc(spec, func() {
		_ = p.Poll(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule poll job: %w", err)
	}

	slog.Info("scheduling due-reminder poll",
		"cron", spec, "interval_sec", intervalSec, "window_sec", p.windowSec)

	// The startup poll goes through the same wrapped job as scheduled
	// ticks, so the skip guard also covers the window between start and
	// the first cron fire.
	go c.Entry(entryID).WrappedJob.Run()

	c.Start()
	return c, nil
}

// cronLogger adapts slog to cron's logger interface.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Info(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{"error", err}, keysAndValues...)
	slog.Error(msg, args...)
}
