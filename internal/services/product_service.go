// internal/services/product_service.go
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
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Version     string `json:"version" validate:"required,max=100"`
	MaxLicenses int    `json:"maxLicenses" validate:"required,min=1"`
	Role        string `json:"role" validate:"required,max=100"`
	CreatorID   string `json:"creatorId" validate:"required,max=100"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Version     *string `json:"version,omitempty" validate:"omitempty,max=100"`
	MaxLicenses *int    `json:"maxLicenses,omitempty" validate:"omitempty,min=1"`
	Role        *string `json:"role,omitempty" validate:"omitempty,max=100"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) Create(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.Product
	err := s.db.Where("name = ? AND version = ?", req.Name, req.Version).First(&existing).Error
	if err == nil {
		return nil, ErrProductExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	product := &models.Product{
		Name:        req.Name,
		Version:     req.Version,
		MaxLicenses: req.MaxLicenses,
		Role:        req.Role,
		CreatorID:   req.CreatorID,
	}

	if err := s.db.Create(product).Error; err != nil {
		// The unique index closes the find-then-create race.
		if database.IsUniqueViolation(err) {
			return nil, ErrProductExists
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *ProductService) Get(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) GetWithLicenses(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Licenses").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) List(params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "version"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) Update(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Version != nil {
		updates["version"] = *req.Version
	}
	if req.MaxLicenses != nil {
		updates["max_licenses"] = *req.MaxLicenses
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}

	if len(updates) == 0 {
		return product, nil
	}

	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrProductExists
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

func (s *ProductService) Delete(id uuid.UUID) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(product).Error; err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	return product, nil
}
