package domain

import "context"

// Event is a named show hosted at one venue.
// swagger:model Event
type Event struct {
	ID       int64   `json:"id"`
	VenueID  int64   `json:"venue_id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
}

// EventWithVenue bundles an event with the venue it references.
type EventWithVenue struct {
	Event *Event `json:"event"`
	Venue *Venue `json:"venue"`
}

// EventRepository defines read access to events. Events are seed data and are
// never mutated through the API.
type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*EventWithVenue, error)
	List(ctx context.Context, p PaginationParams) ([]*EventWithVenue, error)
	Count(ctx context.Context) (int, error)
}

// EventListing is an event with its venue name and every occurrence, each carrying
// the seat availability computed at read time.
type EventListing struct {
	ID          int64                     `json:"id"`
	Name        string                    `json:"name"`
	ImageURL    *string                   `json:"image_url"`
	VenueName   string                    `json:"venue_name"`
	Occurrences []*OccurrenceAvailability `json:"occurrences"`
}

// EventOccurrences is the per-event occurrence view.
type EventOccurrences struct {
	EventID      int64                     `json:"event_id"`
	EventName    string                    `json:"event_name"`
	VenueName    string                    `json:"venue_name"`
	VenueAddress string                    `json:"venue_address"`
	Occurrences  []*OccurrenceAvailability `json:"occurrences"`
}

// CatalogService exposes the public, read-only view of events and availability.
type CatalogService interface {
	ListEvents(ctx context.Context, p PaginationParams) ([]*EventListing, int, error)
	GetEventOccurrences(ctx context.Context, eventID int64) (*EventOccurrences, error)
	// AvailableSeats returns the availability of a single occurrence. It returns
	// ErrNotFound when the occurrence does not exist.
	AvailableSeats(ctx context.Context, occurrenceID int64) (*OccurrenceAvailability, error)
}
