package domain

import (
	"context"
	"time"
)

// Reservation is a quantity of seats held by one user against one occurrence.
// swagger:model Reservation
type Reservation struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	OccurrenceID int64     `json:"occurrence_id"`
	Quantity     int       `json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewReservation returns a new Reservation. ID is set by the repository on create.
func NewReservation(userID, occurrenceID int64, quantity int, now time.Time) *Reservation {
	return &Reservation{
		UserID:       userID,
		OccurrenceID: occurrenceID,
		Quantity:     quantity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ReservationDetail is the denormalized view of a reservation used by the
// "my reservations" listing.
type ReservationDetail struct {
	ID           int64     `json:"id"`
	OccurrenceID int64     `json:"occurrence_id"`
	Quantity     int       `json:"quantity"`
	EventName    string    `json:"event_name"`
	VenueName    string    `json:"venue_name"`
	StartsAt     time.Time `json:"starts_at"`
	Cancelled    bool      `json:"cancelled"`
}

// ReservationRepository defines storage operations for reservations.
type ReservationRepository interface {
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id int64) (*Reservation, error)
	GetByUserAndOccurrence(ctx context.Context, userID, occurrenceID int64) (*Reservation, error)
	ListDetailsByUserID(ctx context.Context, userID int64) ([]*ReservationDetail, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int, updatedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

// Transactor runs fn inside a single database transaction. Repositories called
// with the context passed to fn take part in that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReservationService is the reservation command handler. Every method acts on
// behalf of an authenticated actor.
type ReservationService interface {
	// Create rejects a second reservation by the same actor for one occurrence.
	Create(ctx context.Context, actorID, occurrenceID int64, quantity int) (*Reservation, error)
	// QuickCreate is the simple booking flow. It checks cancellation but does not
	// check for an existing reservation.
	QuickCreate(ctx context.Context, actorID, occurrenceID int64, quantity int) (*Reservation, error)
	ListMine(ctx context.Context, actorID int64) ([]*ReservationDetail, error)
	Update(ctx context.Context, actorID, reservationID int64, quantity int) (*Reservation, error)
	Delete(ctx context.Context, actorID, reservationID int64) error
}

// Reservation event types published after a successful command.
const (
	ReservationCreated = "reservation.created"
	ReservationUpdated = "reservation.updated"
	ReservationDeleted = "reservation.deleted"
)

// ReservationEvent is the message published when a reservation changes.
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservation_id"`
	UserID        int64     `json:"user_id"`
	OccurrenceID  int64     `json:"occurrence_id"`
	Quantity      int       `json:"quantity"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ReservationEventPublisher publishes reservation events to a broker.
type ReservationEventPublisher interface {
	Publish(ctx context.Context, ev *ReservationEvent) error
}
