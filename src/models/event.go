package models

import (
	"maestro/src/config"
	"maestro/src/types"
	"time"
)

// Event is the single explicit event type constructed once at the store
// boundary. Optional fields are nullable; a nil Price means free, a nil
// TicketCapacity means unlimited.
type Event struct {
	ID                  uint                       `gorm:"primarykey" json:"id"`
	Title               string                     `json:"title,omitempty"`
	Slug                string                     `gorm:"index" json:"slug,omitempty"`
	About               *string                    `json:"about,omitempty"`
	Date                string                     `json:"date,omitempty"`
	Time                string                     `json:"time,omitempty"`
	LocationName        string                     `json:"location_name,omitempty"`
	LocationLat         *float64                   `json:"location_lat,omitempty"`
	LocationLng         *float64                   `json:"location_lng,omitempty"`
	Price               *float64                   `json:"price,omitempty"`
	PriceTiers          types.PriceTiers           `gorm:"type:jsonb" json:"price_tiers,omitempty"`
	TicketCapacity      *int                       `json:"ticket_capacity,omitempty"`
	PaymentInstructions *types.PaymentInstructions `gorm:"type:jsonb" json:"payment_instructions,omitempty"`
	UserID              uint                       `json:"user_id,omitempty"`

	Owner    *User     `gorm:"foreignKey:user_id" json:"-"`
	Artists  []*Artist `gorm:"many2many:event_artists;" json:"artists,omitempty"`
	Bookings []Booking `gorm:"foreignKey:event_id" json:"-"`

	types.Timestamps
}

// StartsAt combines the stored date and local time-of-day. A missing or
// malformed time collapses to midnight so a bad row still sorts and expires.
func (e *Event) StartsAt() time.Time {
	t, err := time.ParseInLocation(
		config.DATE_PARSE_FORMAT+" "+config.TIME_PARSE_FORMAT,
		e.Date+" "+e.Time,
		time.Local,
	)
	if err != nil {
		d, derr := time.ParseInLocation(config.DATE_PARSE_FORMAT, e.Date, time.Local)
		if derr != nil {
			return time.Time{}
		}
		return d
	}
	return t
}

// IsPast reports whether the event's combined date+time is strictly before now.
func (e *Event) IsPast(now time.Time) bool {
	return e.StartsAt().Before(now)
}

// FindTier looks up a tier by its identifier within the event.
func (e *Event) FindTier(id string) *types.PriceTier {
	for i := range e.PriceTiers {
		if e.PriceTiers[i].ID == id {
			return &e.PriceTiers[i]
		}
	}
	return nil
}
