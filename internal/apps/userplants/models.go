package userplants

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// UserPlant is a plant in somebody's collection. S3ID is the object
// key of its photo; responses carry a short-lived presigned URL
// derived from it.
type UserPlant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	S3ID      string    `gorm:"size:255" json:"s3_id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlantResponse is a UserPlant plus its resolved photo URL.
type PlantResponse struct {
	UserPlant
	PhotoURL string `json:"photo_url,omitempty"`
}

// --- Request DTOs ---

type CreateUserPlantRequest struct {
	S3ID  string `json:"s3_id" form:"s3ID"`
	Name  string `json:"name" form:"name"`
	Notes string `json:"notes" form:"notes"`
}

func (r *CreateUserPlantRequest) Validate() error {
	if r.Name == "" {
		return errors.New("a name must be provided")
	}
	return nil
}

type UpdateUserPlantRequest struct {
	S3ID  *string `json:"s3_id"`
	Name  *string `json:"name"`
	Notes *string `json:"notes"`
}

func (r *UpdateUserPlantRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return errors.New("name cannot be empty")
	}
	return nil
}
