// internal/services/blacklist_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keygate/keygate-backend/internal/database"
	"github.com/keygate/keygate-backend/internal/models"
	"github.com/keygate/keygate-backend/internal/utils"
)

var (
	ErrBlacklistNotFound  = errors.New("blacklist entry not found")
	ErrAlreadyBlacklisted = errors.New("user already blacklisted")
)

type BlacklistService struct {
	db *gorm.DB
}

type AddBlacklistRequest struct {
	UserID    string `json:"userId" validate:"required,max=100"`
	Type      string `json:"type" validate:"required,blacklist_type"`
	CreatorID string `json:"creatorId" validate:"required,max=100"`
}

func NewBlacklistService(db *gorm.DB) *BlacklistService {
	return &BlacklistService{db: db}
}

// Add creates a ban record. At most one entry may exist per (user, type);
// a duplicate is rejected.
func (s *BlacklistService) Add(req *AddBlacklistRequest) (*models.BlacklistEntry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.BlacklistEntry
	err := s.db.Where("user_id = ? AND type = ?", req.UserID, req.Type).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyBlacklisted
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	entry := &models.BlacklistEntry{
		UserID:    req.UserID,
		CreatorID: req.CreatorID,
		Type:      models.BlacklistType(req.Type),
	}

	if err := s.db.Create(entry).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyBlacklisted
		}
		return nil, fmt.Errorf("failed to create blacklist entry: %w", err)
	}

	return entry, nil
}

func (s *BlacklistService) Get(id uuid.UUID) (*models.BlacklistEntry, error) {
	var entry models.BlacklistEntry
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlacklistNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &entry, nil
}

func (s *BlacklistService) ListByUser(userID string) ([]models.BlacklistEntry, error) {
	var entries []models.BlacklistEntry
	if err := s.db.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch blacklist entries for user: %w", err)
	}
	return entries, nil
}

func (s *BlacklistService) Delete(id uuid.UUID) (*models.BlacklistEntry, error) {
	entry, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to delete blacklist entry: %w", err)
	}

	return entry, nil
}
