package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a rated review of a site. One per (site, user).
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SiteID    uint      `gorm:"not null;uniqueIndex:idx_comments_site_user;index:idx_comments_site_rating,priority:1" json:"site_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comments_site_user" json:"user_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5;index:idx_comments_site_rating,priority:2" json:"rating"`
	Text      string    `gorm:"type:text" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Site      Site      `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE" json:"-"`
}
