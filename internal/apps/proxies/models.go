package proxies

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/verdantapp/verdant-backend/internal/phone"
)

// ProxyContact is a secondary delivery target: a person who receives
// a reminder on the owner's behalf (a neighbour watering plants while
// the owner travels, for instance).
type ProxyContact struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	PhoneNumber string    `gorm:"size:16;not null" json:"phone_number"`
	Relation    string    `gorm:"size:60" json:"relation"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Request DTOs ---

type CreateProxyRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Relation    string `json:"relation"`
	Notes       string `json:"notes"`
}

func (r *CreateProxyRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	r.PhoneNumber = phone.Normalize(r.PhoneNumber)
	if !phone.Valid(r.PhoneNumber) {
		return errors.New("invalid phone number")
	}
	return nil
}

type UpdateProxyRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
	Relation    *string `json:"relation"`
	Notes       *string `json:"notes"`
}

func (r *UpdateProxyRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return errors.New("name cannot be empty")
	}
	if r.PhoneNumber != nil {
		normalized := phone.Normalize(*r.PhoneNumber)
		if !phone.Valid(normalized) {
			return errors.New("invalid phone number")
		}
		*r.PhoneNumber = normalized
	}
	return nil
}
