package models

import "time"

// Group represents a named topic posts may be filed under.
// Groups are created out-of-band (seeder or admin SQL) and are
// immutable from the request handlers.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "groups"
}
