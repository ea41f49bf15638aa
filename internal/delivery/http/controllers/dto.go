package controllers

import (
	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"
)

// OccurrenceResponse is one occurrence of an event with its current availability.
// Date-times use the DD-MM-YYYY HH:MM layout.
type OccurrenceResponse struct {
	ID             int64  `json:"id"`
	DateTime       string `json:"datetime"`
	Cancelled      bool   `json:"cancelled"`
	AvailableSeats int    `json:"available_seats"`
}

func newOccurrenceResponses(in []*domain.OccurrenceAvailability) []OccurrenceResponse {
	out := make([]OccurrenceResponse, 0, len(in))
	for _, a := range in {
		out = append(out, OccurrenceResponse{
			ID:             a.Occurrence.ID,
			DateTime:       helpers.FormatDateTime(a.Occurrence.StartsAt),
			Cancelled:      a.Occurrence.Cancelled,
			AvailableSeats: a.AvailableSeats(),
		})
	}
	return out
}

// EventResponse is an event of the public listing.
type EventResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	ImageURL    *string              `json:"image_url"`
	VenueName   string               `json:"venue_name"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
}

func newEventResponses(in []*domain.EventListing) []EventResponse {
	out := make([]EventResponse, 0, len(in))
	for _, e := range in {
		out = append(out, EventResponse{
			ID:          e.ID,
			Name:        e.Name,
			ImageURL:    e.ImageURL,
			VenueName:   e.VenueName,
			Occurrences: newOccurrenceResponses(e.Occurrences),
		})
	}
	return out
}

// EventOccurrencesResponse lists the occurrences of one event.
type EventOccurrencesResponse struct {
	EventID      int64                `json:"event_id"`
	EventName    string               `json:"event_name"`
	VenueName    string               `json:"venue_name"`
	VenueAddress string               `json:"venue_address"`
	Occurrences  []OccurrenceResponse `json:"occurrences"`
}

func newEventOccurrencesResponse(e *domain.EventOccurrences) EventOccurrencesResponse {
	return EventOccurrencesResponse{
		EventID:      e.EventID,
		EventName:    e.EventName,
		VenueName:    e.VenueName,
		VenueAddress: e.VenueAddress,
		Occurrences:  newOccurrenceResponses(e.Occurrences),
	}
}

// AvailabilityResponse is the seat count of one occurrence.
type AvailabilityResponse struct {
	OccurrenceID   int64 `json:"occurrence_id"`
	Capacity       int   `json:"capacity"`
	Reserved       int   `json:"reserved"`
	AvailableSeats int   `json:"available_seats"`
}

// ReservationResponse is one row of the caller's reservation list.
type ReservationResponse struct {
	ID           int64  `json:"id"`
	Event        string `json:"event"`
	Venue        string `json:"venue"`
	DateTime     string `json:"datetime"`
	Quantity     int    `json:"quantity"`
	Cancelled    bool   `json:"cancelled"`
	OccurrenceID int64  `json:"occurrence_id"`
}

func newReservationResponses(in []*domain.ReservationDetail) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(in))
	for _, d := range in {
		out = append(out, ReservationResponse{
			ID:           d.ID,
			Event:        d.EventName,
			Venue:        d.VenueName,
			DateTime:     helpers.FormatDateTime(d.StartsAt),
			Quantity:     d.Quantity,
			Cancelled:    d.Cancelled,
			OccurrenceID: d.OccurrenceID,
		})
	}
	return out
}

// ReservationCommandResponse confirms a reservation command.
type ReservationCommandResponse struct {
	Message     string              `json:"message"`
	Reservation *domain.Reservation `json:"reservation,omitempty"`
}
