package models

import "time"

// Category classifies sites (Museum, Theatre, ...). The set is small and seeded.
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:20" json:"color"`
}

// Site is a point of interest imported from OpenStreetMap.
type Site struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Address     string    `gorm:"size:255" json:"address"`
	Lat         float64   `gorm:"not null" json:"lat"`
	Lon         float64   `gorm:"not null" json:"lon"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	Category    Category  `gorm:"foreignKey:CategoryID" json:"-"`
	Description string    `gorm:"type:text" json:"description"`
	OsmID       string    `gorm:"size:64;uniqueIndex" json:"osm_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
