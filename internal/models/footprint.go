package models

import (
	"time"

	"github.com/google/uuid"
)

// Footprint records that a user physically collected a site. The unique
// index on (user_id, site_id) is what keeps concurrent duplicate collections
// from both succeeding.
type Footprint struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_footprints_user_site;index:idx_footprints_user_collected,priority:1" json:"user_id"`
	SiteID      uint      `gorm:"not null;uniqueIndex:idx_footprints_user_site" json:"site_id"`
	CollectedAt time.Time `gorm:"not null;index:idx_footprints_user_collected,priority:2" json:"collected_at"`
	UserLat     float64   `json:"user_lat"`
	UserLon     float64   `json:"user_lon"`
	Distance    int       `gorm:"not null" json:"distance"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Site        Site      `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE" json:"-"`
}
