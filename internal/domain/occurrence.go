package domain

import (
	"context"
	"time"
)

// Occurrence is one scheduled date-time of an event. It may be cancelled.
// swagger:model Occurrence
type Occurrence struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	StartsAt  time.Time `json:"starts_at"`
	Cancelled bool      `json:"cancelled"`
}

// OccurrenceAvailability is an occurrence with the capacity of its venue and the
// sum of reserved quantities at the time of the read.
type OccurrenceAvailability struct {
	Occurrence *Occurrence `json:"occurrence"`
	Capacity   int         `json:"capacity"`
	Reserved   int         `json:"reserved"`
}

// AvailableSeats is capacity minus reserved. It is not clamped and goes negative
// when an occurrence is overbooked.
func (a *OccurrenceAvailability) AvailableSeats() int {
	return a.Capacity - a.Reserved
}

// OccurrenceRepository defines read access to occurrences and the seat aggregate.
type OccurrenceRepository interface {
	GetByID(ctx context.Context, id int64) (*Occurrence, error)
	GetAvailability(ctx context.Context, id int64) (*OccurrenceAvailability, error)
	ListAvailabilityByEventIDs(ctx context.Context, eventIDs []int64) (map[int64][]*OccurrenceAvailability, error)
}
