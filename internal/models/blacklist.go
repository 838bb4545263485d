// internal/models/blacklist.go
package models

// BlacklistEntry bans a user's bound fingerprint of one type. At most one
// entry may exist per (user, type).
type BlacklistEntry struct {
	BaseModel
	UserID    string        `json:"userId" gorm:"size:100;not null;uniqueIndex:idx_blacklist_user_type"`
	CreatorID string        `json:"creatorId" gorm:"size:100;not null"`
	Type      BlacklistType `json:"type" gorm:"type:varchar(10);not null;uniqueIndex:idx_blacklist_user_type"`
}

func (BlacklistEntry) TableName() string {
	return "blacklist_entries"
}
