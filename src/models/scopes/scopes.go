package scopes

import (
	"maestro/src/types"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func ForEvent(eventId uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("event_id = ?", eventId)
	}
}

func WithStatus(status types.BookingStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	}
}

// Live keeps only bookings that still hold a seat.
func Live(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", types.BOOKING_CANCELLED)
}
