package models

import "maestro/src/types"

type Artist struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	Name     string  `json:"name,omitempty"`
	Slug     string  `gorm:"index" json:"slug,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
	UserID   uint    `json:"user_id,omitempty"`

	Events []*Event `gorm:"many2many:event_artists;" json:"events,omitempty"`

	types.Timestamps
}
