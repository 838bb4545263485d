// internal/models/license.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// License binds a key to one product and one owner. HWID and IP start out
// NULL (unbound) and are assigned exactly once by the verification engine;
// the key itself is immutable after creation.
type License struct {
	BaseModel
	ProductID     uuid.UUID  `json:"productId" gorm:"type:uuid;not null;index"`
	UserID        string     `json:"userId" gorm:"size:100;not null;index"`
	CreatorID     string     `json:"creatorId" gorm:"size:100;not null"`
	Key           string     `json:"key" gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	HWID          *string    `json:"hwid,omitempty" gorm:"column:hwid;size:255"`
	IP            *string    `json:"ip,omitempty" gorm:"column:ip;size:64"`
	TotalRequests int64      `json:"totalRequests" gorm:"not null;default:0"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Bound reports whether both fingerprints have been assigned.
func (l *License) Bound() bool {
	return l.HWID != nil && l.IP != nil
}

// Expired reports whether the license has an expiry in the past. A nil
// ExpiresAt means the license never expires.
func (l *License) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}
