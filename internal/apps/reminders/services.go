package reminders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantapp/verdant-backend/internal/database"
)

var (
	// ErrForbidden covers both "not found" and "not yours"; callers
	// cannot tell them apart and that is deliberate.
	ErrForbidden = errors.New("forbidden")

	// ErrNoRowsAffected means the row passed the ownership read but
	// vanished before the update landed.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// Columns a partial update may touch. user_id is deliberately absent:
// ownership is immutable.
var updatableColumns = []string{"name", "notes", "is_active", "due_at", "due_day", "is_proxy", "proxy"}

// Cache is the slice of the cache layer this service needs; nil means
// no caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) bool
	SetJSON(ctx context.Context, key string, v interface{})
	Invalidate(ctx context.Context, keys ...string)
}

type Service struct {
	db    *gorm.DB
	cache Cache
}

func NewService(db *gorm.DB, c Cache) *Service {
	return &Service{db: db, cache: c}
}

func userCacheKey(userID uuid.UUID) string {
	return "reminders:user:" + userID.String()
}

// Create inserts a reminder for the owner and returns the stored row.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateReminderRequest) (*Reminder, error) {
	r := Reminder{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     req.Name,
		Notes:    req.Notes,
		IsActive: req.IsActive,
		DueAt:    req.DueAt,
		DueDay:   req.DueDay,
		IsProxy:  req.IsProxy,
		Proxy:    req.Proxy,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&r).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	s.invalidate(ctx, userID)
	return &r, nil
}

// GetByID loads a reminder with ownership folded into the predicate,
// so the lookup and the eligibility check are one atomic read.
func (s *Service) GetByID(ctx context.Context, userID, id uuid.UUID) (*Reminder, error) {
	var r Reminder
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &r, nil
}

// ListByUser returns all reminders owned by the caller, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Reminder, error) {
	key := userCacheKey(userID)

	if s.cache != nil {
		var cached []Reminder
		if s.cache.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}

	var out []Reminder
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, key, out)
	}
	return out, nil
}

// Search filters the caller's reminders by name/notes substring.
func (s *Service) Search(ctx context.Context, userID uuid.UUID, searchValue string, limit, offset int) ([]Reminder, error) {
	var out []Reminder
	pattern := "%" + searchValue + "%"
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(notes) LIKE LOWER(?)", pattern, pattern).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search reminders: %w", err)
	}
	return out, nil
}

// Update applies only the supplied fields. Zero supplied fields is a
// no-op returning (nil, nil). The ownership read and the update run in
// one transaction, closing the check-then-act race.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateReminderRequest) (*Reminder, error) {
	set := database.NewUpdateSet(updatableColumns...)
	if req.Name != nil {
		_ = set.Set("name", *req.Name)
	}
	if req.Notes != nil {
		_ = set.Set("notes", *req.Notes)
	}
	if req.IsActive != nil {
		_ = set.Set("is_active", *req.IsActive)
	}
	if req.DueAt != nil {
		_ = set.Set("due_at", *req.DueAt)
	}
	if req.DueDay != nil {
		_ = set.Set("due_day", *req.DueDay)
	}
	if req.IsProxy != nil {
		_ = set.Set("is_proxy", *req.IsProxy)
	}
	if req.Proxy != nil {
		_ = set.Set("proxy", *req.Proxy)
	}

	if set.Empty() {
		return nil, nil
	}

	var out Reminder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r Reminder
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&r).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrForbidden
			}
			return err
		}

		res := tx.Model(&Reminder{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(set.Assignments())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoRowsAffected
		}

		return tx.Where("id = ?", id).First(&out).Error
	})
	if err != nil {
		if errors.Is(err, ErrForbidden) || errors.Is(err, ErrNoRowsAffected) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}

	s.invalidate(ctx, userID)
	return &out, nil
}

// Delete removes the reminder. Hard delete, ownership folded into the
// predicate.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&Reminder{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrForbidden
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return err
		}
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userCacheKey(userID))
	}
}

// dueSoonQuery selects reminders whose next fire time falls within the
// forward-looking window, against the database clock. One-time
// reminders use due_at directly; recurring ones combine today's date
// with due_at's time-of-day when today's DOW (0=Sunday..6=Saturday) is
// in due_day. Ordered by computed fire time, id as tie-break.
//
// Note: is_active is intentionally not filtered here; pausing a
// reminder hides it from delivery in the dispatcher, not the query.
const dueSoonQuery = `
SELECT id, user_id, name, notes, is_active, due_at, due_day, is_proxy, proxy, created_at, updated_at
FROM reminders
WHERE (
    (
        COALESCE(array_length(due_day, 1), 0) = 0
        AND due_at BETWEEN NOW() AND NOW() + (?::int * INTERVAL '1 second')
    )
    OR
    (
        COALESCE(array_length(due_day, 1), 0) > 0
        AND EXTRACT(DOW FROM NOW())::int = ANY(due_day)
        AND (date_trunc('day', NOW()) + due_at::time)
            BETWEEN NOW() AND NOW() + (?::int * INTERVAL '1 second')
    )
)
ORDER BY
    CASE
        WHEN COALESCE(array_length(due_day, 1), 0) > 0
            THEN (date_trunc('day', NOW()) + due_at::time)
        ELSE due_at
    END ASC,
    id ASC
`

// DueSoon returns reminders firing within the next windowSec seconds,
// ascending by next fire time. Read-only; "now" is resolved by the
// database so poller and store never disagree on the clock.
func (s *Service) DueSoon(ctx context.Context, windowSec int) ([]Reminder, error) {
	if windowSec < 0 {
		windowSec = 0
	}
	var out []Reminder
	err := s.db.WithContext(ctx).
		Raw(dueSoonQuery, windowSec, windowSec).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	return out, nil
}
