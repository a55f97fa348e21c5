package proxies

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantapp/verdant-backend/internal/database"
)

var (
	ErrForbidden      = errors.New("forbidden")
	ErrNoRowsAffected = errors.New("no rows affected")
)

var updatableColumns = []string{"name", "phone_number", "relation", "notes"}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateProxyRequest) (*ProxyContact, error) {
	p := ProxyContact{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Relation:    req.Relation,
		Notes:       req.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&p).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy contact: %w", err)
	}
	return &p, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id uuid.UUID) (*ProxyContact, error) {
	var p ProxyContact
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proxy contact: %w", err)
	}
	return &p, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]ProxyContact, error) {
	var out []ProxyContact
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list proxy contacts: %w", err)
	}
	return out, nil
}

func (s *Service) Search(ctx context.Context, userID uuid.UUID, searchValue string, limit, offset int) ([]ProxyContact, error) {
	var out []ProxyContact
	pattern := "%" + searchValue + "%"
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("LOWER(name) LIKE LOWER(?) OR phone_number LIKE ? OR LOWER(notes) LIKE LOWER(?)", pattern, pattern, pattern).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search proxy contacts: %w", err)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateProxyRequest) (*ProxyContact, error) {
	set := database.NewUpdateSet(updatableColumns...)
	if req.Name != nil {
		_ = set.Set("name", *req.Name)
	}
	if req.PhoneNumber != nil {
		_ = set.Set("phone_number", *req.PhoneNumber)
	}
	if req.Relation != nil {
		_ = set.Set("relation", *req.Relation)
	}
	if req.Notes != nil {
		_ = set.Set("notes", *req.Notes)
	}

	if set.Empty() {
		return nil, nil
	}

	var out ProxyContact
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p ProxyContact
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrForbidden
			}
			return err
		}

		res := tx.Model(&ProxyContact{}).
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
		return nil, fmt.Errorf("failed to update proxy contact: %w", err)
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&ProxyContact{})
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
		return fmt.Errorf("failed to delete proxy contact: %w", err)
	}
	return nil
}
