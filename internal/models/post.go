package models

import "time"

// Post is the central entity: an authored text entry, optionally filed
// under a group and optionally illustrated with an uploaded image.
type Post struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Text   string `gorm:"type:text;not null" json:"text"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user"`
	// GroupID is nil for ungrouped posts; reassigning back to nil is valid.
	GroupID *uint  `gorm:"index" json:"group_id,omitempty"`
	Group   *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	// Image is the stored file path of the optional attachment; empty means none.
	Image string `json:"image,omitempty"`
	// CreatedAt is the only sort key: listings are newest first.
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
