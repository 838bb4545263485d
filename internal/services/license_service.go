// internal/services/license_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keygate/keygate-backend/internal/database"
	"github.com/keygate/keygate-backend/internal/models"
	"github.com/keygate/keygate-backend/internal/utils"
)

var (
	ErrLicenseNotFound     = errors.New("license not found")
	ErrLicenseLimitReached = errors.New("maximum number of licenses reached")
	ErrKeySpaceExhausted   = errors.New("could not generate a unique license key")
)

// maxKeyAttempts bounds regeneration when a generated key collides with an
// existing one. Collisions are vanishingly rare at this key length.
const maxKeyAttempts = 5

type LicenseService struct {
	db *gorm.DB
}

type CreateLicenseRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	UserID    string    `json:"userId" validate:"required,max=100"`
	Duration  string    `json:"duration" validate:"required,duration"`
	CreatorID string    `json:"creatorId" validate:"required,max=100"`
}

type UpdateLicenseRequest struct {
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	HWID      *string    `json:"hwid,omitempty"`
	IP        *string    `json:"ip,omitempty"`
}

func NewLicenseService(db *gorm.DB) *LicenseService {
	return &LicenseService{db: db}
}

// Create issues a new unbound license. The per-(product, user) count is
// checked against the product's MaxLicenses before anything is persisted.
func (s *LicenseService) Create(req *CreateLicenseRequest) (*models.License, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	license := &models.License{
		ProductID: req.ProductID,
		UserID:    req.UserID,
		CreatorID: req.CreatorID,
		ExpiresAt: utils.ExpiryFromDuration(time.Now(), req.Duration),
	}

	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key, err := utils.GenerateLicenseKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate license key: %w", err)
		}
		license.Key = key

		// The limit check and the insert commit together, so two concurrent
		// issuances for the same user cannot both pass the count. Each key
		// attempt runs in its own transaction; a unique violation aborts the
		// transaction, so the retry must start a fresh one.
		err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
			var licenseCount int64
			if err := tx.Model(&models.License{}).
				Where("product_id = ? AND user_id = ?", req.ProductID, req.UserID).
				Count(&licenseCount).Error; err != nil {
				return fmt.Errorf("failed to count licenses: %w", err)
			}

			if licenseCount >= int64(product.MaxLicenses) {
				return ErrLicenseLimitReached
			}

			return tx.Create(license).Error
		})
		if err == nil {
			return license, nil
		}
		if errors.Is(err, ErrLicenseLimitReached) {
			return nil, err
		}
		if database.IsUniqueViolation(err) {
			continue
		}
		return nil, fmt.Errorf("failed to create license: %w", err)
	}

	return nil, ErrKeySpaceExhausted
}

func (s *LicenseService) Get(id uuid.UUID) (*models.License, error) {
	var license models.License
	if err := s.db.First(&license, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLicenseNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &license, nil
}

func (s *LicenseService) ListByUser(userID string) ([]models.License, error) {
	var licenses []models.License
	if err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Find(&licenses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch licenses for user: %w", err)
	}
	return licenses, nil
}

func (s *LicenseService) ListByProduct(productID uuid.UUID) ([]models.License, error) {
	var licenses []models.License
	if err := s.db.Where("product_id = ?", productID).Find(&licenses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch licenses for product: %w", err)
	}
	return licenses, nil
}

// Update applies an administrative edit. This is the only path that can reset
// a binding; the verification engine never clears hwid or ip.
func (s *LicenseService) Update(id uuid.UUID, req *UpdateLicenseRequest) (*models.License, error) {
	license, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.ExpiresAt != nil {
		updates["expires_at"] = req.ExpiresAt
	}
	if req.HWID != nil {
		updates["hwid"] = nullIfEmpty(*req.HWID)
	}
	if req.IP != nil {
		updates["ip"] = nullIfEmpty(*req.IP)
	}

	if len(updates) == 0 {
		return license, nil
	}

	if err := s.db.Model(license).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update license: %w", err)
	}

	return license, nil
}

func (s *LicenseService) Delete(id uuid.UUID) (*models.License, error) {
	license, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(license).Error; err != nil {
		return nil, fmt.Errorf("failed to delete license: %w", err)
	}

	return license, nil
}

// nullIfEmpty maps an empty string to NULL so an administrative update with
// "" unbinds the fingerprint instead of binding the empty string.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
