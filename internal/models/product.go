// internal/models/product.go
package models

// Product is a piece of licensed software. Licenses are issued against a
// specific (name, version) pair, which is unique across the store.
type Product struct {
	BaseModel
	Name        string `json:"name" gorm:"size:255;not null;uniqueIndex:idx_products_name_version"`
	Version     string `json:"version" gorm:"size:100;not null;uniqueIndex:idx_products_name_version"`
	MaxLicenses int    `json:"maxLicenses" gorm:"not null"`
	Role        string `json:"role" gorm:"size:100;not null"`
	CreatorID   string `json:"creatorId" gorm:"size:100;not null"`

	// Relationships
	Licenses []License `json:"licenses,omitempty" gorm:"foreignKey:ProductID"`
}
