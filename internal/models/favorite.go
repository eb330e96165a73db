package models

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_site" json:"user_id"`
	SiteID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_site" json:"site_id"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Site      Site      `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE" json:"-"`
}
