// internal/models/audit.go
package models

import (
	"github.com/google/uuid"
)

// AuditLog records an administrative API request. Verification traffic is not
// recorded here; it is audited through the webhook trail instead.
type AuditLog struct {
	BaseModel
	ServiceID    string     `json:"serviceId" gorm:"size:100;index"`
	Action       string     `json:"action" gorm:"size:255;not null"`
	ResourceType string     `json:"resourceType" gorm:"size:100"`
	ResourceID   *uuid.UUID `json:"resourceId,omitempty" gorm:"type:uuid"`
	IPAddress    string     `json:"ipAddress" gorm:"size:64"`
	UserAgent    string     `json:"userAgent" gorm:"size:512"`
	RequestBody  JSONB      `json:"requestBody,omitempty" gorm:"type:jsonb"`
}
