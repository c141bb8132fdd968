package models

import (
	"maestro/src/types"
)

type User struct {
	ID    uint       `gorm:"primarykey" json:"id"`
	UID   string     `gorm:"uniqueIndex" json:"uid,omitempty"`
	Name  string     `json:"name,omitempty"`
	Email string     `gorm:"uniqueIndex" json:"email,omitempty"`
	Role  types.Role `gorm:"default:'viewer'" json:"role,omitempty"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`
	Events   []Event   `gorm:"foreignKey:user_id" json:"events,omitempty"`

	types.Timestamps
}

func (u *User) IsAdmin() bool {
	return u.Role == types.ROLE_ADMIN
}

// CanOrganize reports whether the user may create and manage events.
func (u *User) CanOrganize() bool {
	return u.Role == types.ROLE_ORGANIZER || u.Role == types.ROLE_ARTIST || u.Role == types.ROLE_ADMIN
}
