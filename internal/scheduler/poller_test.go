package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantapp/verdant-backend/internal/apps/reminders"
	"github.com/verdantapp/verdant-backend/internal/schedule"
)

type fakeStore struct {
	mu    sync.Mutex
	due   []reminders.Reminder
	err   error
	calls int
}

func (f *fakeStore) DueSoon(ctx context.Context, windowSec int) ([]reminders.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.due, f.err
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeNotifier struct {
	delivered []uuid.UUID
	failFor   map[uuid.UUID]error
}

func (f *fakeNotifier) Notify(ctx context.Context, r reminders.Reminder) error {
	if err, ok := f.failFor[r.ID]; ok {
		return err
	}
	f.delivered = append(f.delivered, r.ID)
	return nil
}

func newReminder(name string, dueAt time.Time) reminders.Reminder {
	return reminders.Reminder{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Name:     name,
		DueAt:    dueAt,
		IsActive: true,
	}
}

func TestPollDeliversAllDue(t *testing.T) {
	now := time.Now()
	a := newReminder("water fern", now.Add(10*time.Second))
	b := newReminder("mist orchid", now.Add(20*time.Second))

	store := &fakeStore{due: []reminders.Reminder{a, b}}
	notifier := &fakeNotifier{}
	p := New(store, notifier, 30, 5*time.Second)

	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, notifier.delivered)
}

func TestPollDeliveryFailureDoesNotAbortBatch(t *testing.T) {
	now := time.Now()
	a := newReminder("water fern", now.Add(5*time.Second))
	b := newReminder("mist orchid", now.Add(10*time.Second))
	c := newReminder("feed cactus", now.Add(15*time.Second))

	store := &fakeStore{due: []reminders.Reminder{a, b, c}}
	notifier := &fakeNotifier{failFor: map[uuid.UUID]error{b.ID: errors.New("sms gateway down")}}
	p := New(store, notifier, 30, 5*time.Second)

	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, []uuid.UUID{a.ID, c.ID}, notifier.delivered)
}

func TestPollStoreFailureIsReportedNotFatal(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	notifier := &fakeNotifier{}
	p := New(store, notifier, 30, 5*time.Second)

	err := p.Poll(context.Background())
	require.Error(t, err)
	assert.Empty(t, notifier.delivered)

	// next tick recovers once the store does
	store.err = nil
	store.due = []reminders.Reminder{newReminder("water fern", time.Now())}
	require.NoError(t, p.Poll(context.Background()))
	assert.Len(t, notifier.delivered, 1)
}

func TestPollSkipsInactiveReminders(t *testing.T) {
	now := time.Now()
	active := newReminder("water fern", now.Add(5*time.Second))
	paused := newReminder("mist orchid", now.Add(5*time.Second))
	paused.IsActive = false

	store := &fakeStore{due: []reminders.Reminder{paused, active}}
	notifier := &fakeNotifier{}
	p := New(store, notifier, 30, 5*time.Second)

	require.NoError(t, p.Poll(context.Background()))
	assert.Equal(t, []uuid.UUID{active.ID}, notifier.delivered)
}

func TestSortByFireTimeOrdersByComputedFireTime(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC) // Wednesday

	later := newReminder("later", now.Add(40*time.Second))
	sooner := newReminder("sooner", now.Add(10*time.Second))
	// recurring reminder whose time-of-day lands between the two
	recurring := newReminder("recurring", time.Date(2025, 1, 1, 9, 0, 25, 0, time.UTC))
	recurring.DueDay = schedule.WeekdaySet{time.Wednesday}

	due := []reminders.Reminder{later, recurring, sooner}
	sortByFireTime(due, now)

	assert.Equal(t, []string{"sooner", "recurring", "later"},
		[]string{due[0].Name, due[1].Name, due[2].Name})
}

func TestSortByFireTimeBreaksTiesByID(t *testing.T) {
	now := time.Now()
	at := now.Add(10 * time.Second)
	a := newReminder("a", at)
	b := newReminder("b", at)

	due := []reminders.Reminder{a, b}
	sortByFireTime(due, now)

	if a.ID.String() < b.ID.String() {
		assert.Equal(t, a.ID, due[0].ID)
	} else {
		assert.Equal(t, b.ID, due[0].ID)
	}
}

func TestStartPollsImmediately(t *testing.T) {
	store := &fakeStore{}
	p := New(store, &fakeNotifier{}, 30, 5*time.Second)

	// 59s cadence: any prompt call must come from the startup poll,
	// not a scheduled tick.
	c, err := p.Start(59)
	require.NoError(t, err)
	defer func() { <-c.Stop().Done() }()

	require.Eventually(t, func() bool { return store.callCount() >= 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestCronSpec(t *testing.T) {
	tests := []struct {
		intervalSec int
		want        string
		withSeconds bool
	}{
		{5, "*/5 * * * * *", true},
		{30, "*/30 * * * * *", true},
		{59, "*/59 * * * * *", true},
		{60, "*/1 * * * *", false},
		{120, "*/2 * * * *", false},
		{300, "*/5 * * * *", false},
	}
	for _, tt := range tests {
		spec, withSeconds := CronSpec(tt.intervalSec)
		assert.Equal(t, tt.want, spec, "interval %d", tt.intervalSec)
		assert.Equal(t, tt.withSeconds, withSeconds, "interval %d", tt.intervalSec)
	}
}
