package reminders

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/verdantapp/verdant-backend/internal/phone"
	"github.com/verdantapp/verdant-backend/internal/schedule"
)

// Reminder is a watering/care reminder. An empty DueDay set means the
// reminder fires once at DueAt; a non-empty set means it recurs on
// those weekdays at DueAt's time-of-day.
type Reminder struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string              `gorm:"size:120;not null" json:"name"`
	Notes     string              `gorm:"type:text" json:"notes"`
	IsActive  bool                `json:"is_active"`
	DueAt     time.Time           `gorm:"not null;index" json:"due_at"`
	DueDay    schedule.WeekdaySet `json:"due_day"`
	IsProxy   bool                `json:"is_proxy"`
	Proxy     string              `gorm:"size:16" json:"proxy"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// --- Request DTOs ---

type CreateReminderRequest struct {
	Name     string              `json:"name"`
	Notes    string              `json:"notes"`
	IsActive bool                `json:"is_active"`
	DueAt    time.Time           `json:"due_at"`
	DueDay   schedule.WeekdaySet `json:"due_day"`
	IsProxy  bool                `json:"is_proxy"`
	Proxy    string              `json:"proxy"`
}

// Validate normalizes the proxy number in place and checks the
// schedule fields.
func (r *CreateReminderRequest) Validate() error {
	if r.Name == "" {
		r.Name = "Reminder"
	}
	if r.DueAt.IsZero() {
		return errors.New("due_at is required")
	}
	if err := r.DueDay.Validate(); err != nil {
		return err
	}
	return validateProxy(r.IsProxy, &r.Proxy)
}

type UpdateReminderRequest struct {
	Name     *string              `json:"name"`
	Notes    *string              `json:"notes"`
	IsActive *bool                `json:"is_active"`
	DueAt    *time.Time           `json:"due_at"`
	DueDay   *schedule.WeekdaySet `json:"due_day"`
	IsProxy  *bool                `json:"is_proxy"`
	Proxy    *string              `json:"proxy"`
}

func (r *UpdateReminderRequest) Validate() error {
	if r.DueAt != nil && r.DueAt.IsZero() {
		return errors.New("due_at cannot be zero")
	}
	if r.DueDay != nil {
		if err := r.DueDay.Validate(); err != nil {
			return err
		}
	}
	if r.Proxy != nil {
		normalized := phone.Normalize(*r.Proxy)
		if normalized != "" && !phone.Valid(normalized) {
			return errors.New("invalid phone number")
		}
		*r.Proxy = normalized
	}
	return nil
}

func validateProxy(isProxy bool, proxy *string) error {
	normalized := phone.Normalize(*proxy)
	if isProxy && normalized == "" {
		return errors.New("proxy number is required for proxy delivery")
	}
	if normalized != "" && !phone.Valid(normalized) {
		return errors.New("invalid phone number")
	}
	*proxy = normalized
	return nil
}
