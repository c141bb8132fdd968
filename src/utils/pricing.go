package utils

import (
	"fmt"
	"maestro/src/models"
	"maestro/src/types"
	"strconv"
	"strings"
	"time"
)

const maxTicketsPerBooking = 10

// ParseTierPrice reads the free-text tier price field. Unparseable values
// mean the tier is free.
func ParseTierPrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(s, "$")), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// EvaluateBooking prices a booking request against an event and validates it
// against tier expiry, capacity and the event date. booked is the count of
// existing non-cancelled bookings, fetched by the caller. Pure: no I/O.
func EvaluateBooking(event *models.Event, tierID string, qty int, booked int64, now time.Time) (*types.Quote, *types.BookingRejection) {
	if qty < 1 {
		qty = 1
	}

	unitPrice := float64(0)
	if event.Price != nil {
		unitPrice = *event.Price
	}
	if tierID != "" {
		tier := event.FindTier(tierID)
		if tier == nil {
			return nil, &types.BookingRejection{
				Kind:    types.REJECT_TIER_NOT_FOUND,
				Message: fmt.Sprintf("ticket tier [%s] does not exist", tierID),
			}
		}
		if tier.EndDate != nil && now.After(*tier.EndDate) {
			return nil, &types.BookingRejection{
				Kind:    types.REJECT_TIER_EXPIRED,
				Message: fmt.Sprintf("ticket tier [%s] is no longer available", tier.Name),
			}
		}
		unitPrice = ParseTierPrice(tier.Price)
	}

	var remainingAfter *int
	if event.TicketCapacity != nil {
		remaining := *event.TicketCapacity - int(booked)
		if remaining <= 0 {
			return nil, &types.BookingRejection{
				Kind:    types.REJECT_SOLD_OUT,
				Message: "this event is sold out",
			}
		}
		if qty > remaining {
			return nil, &types.BookingRejection{
				Kind:    types.REJECT_CAPACITY_EXCEEDED,
				Message: fmt.Sprintf("only %d tickets left", remaining),
			}
		}
		after := remaining - qty
		remainingAfter = &after
	}

	if event.IsPast(now) {
		return nil, &types.BookingRejection{
			Kind:    types.REJECT_EVENT_PAST,
			Message: "this event has already taken place",
		}
	}

	return &types.Quote{
		UnitPrice:             unitPrice,
		TotalAmount:           unitPrice * float64(qty),
		IsFree:                unitPrice == 0,
		Qty:                   qty,
		RemainingAfterBooking: remainingAfter,
		TierID:                tierID,
	}, nil
}

// ClampTicketCount bounds a requested count to what the booking form may
// offer: at least 1, at most 10, never more than remaining capacity. Used for
// the read-only quote; submission validates instead of clamping.
func ClampTicketCount(requested int, remaining *int) int {
	max := maxTicketsPerBooking
	if remaining != nil && *remaining < max {
		max = *remaining
	}
	if max < 1 {
		max = 1
	}
	if requested < 1 {
		return 1
	}
	if requested > max {
		return max
	}
	return requested
}
