package services

import (
	"context"
	"fmt"
	"time"

	"eventbooking/internal/domain"
)

type catalogService struct {
	eventRepo      domain.EventRepository
	occurrenceRepo domain.OccurrenceRepository
	contextTimeout time.Duration
}

func NewCatalogService(eventRepo domain.EventRepository,
	occurrenceRepo domain.OccurrenceRepository,
	timeout time.Duration,
) domain.CatalogService {
	return &catalogService{
		eventRepo:      eventRepo,
		occurrenceRepo: occurrenceRepo,
		contextTimeout: timeout,
	}
}

// ListEvents returns one page of events with every occurrence and its availability,
// plus the total number of events.
func (s *catalogService) ListEvents(ctx context.Context, p domain.PaginationParams) ([]*domain.EventListing, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	total, err := s.eventRepo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	events, err := s.eventRepo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.Event.ID)
	}
	byEvent, err := s.occurrenceRepo.ListAvailabilityByEventIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("list occurrences: %w", err)
	}

	listings := make([]*domain.EventListing, 0, len(events))
	for _, ev := range events {
		occ := byEvent[ev.Event.ID]
		if occ == nil {
			occ = []*domain.OccurrenceAvailability{}
		}
		listings = append(listings, &domain.EventListing{
			ID:          ev.Event.ID,
			Name:        ev.Event.Name,
			ImageURL:    ev.Event.ImageURL,
			VenueName:   ev.Venue.Name,
			Occurrences: occ,
		})
	}
	return listings, total, nil
}

func (s *catalogService) GetEventOccurrences(ctx context.Context, eventID int64) (*domain.EventOccurrences, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", eventID, err)
	}
	byEvent, err := s.occurrenceRepo.ListAvailabilityByEventIDs(ctx, []int64{eventID})
	if err != nil {
		return nil, fmt.Errorf("list occurrences: %w", err)
	}
	occ := byEvent[eventID]
	if occ == nil {
		occ = []*domain.OccurrenceAvailability{}
	}
	return &domain.EventOccurrences{
		EventID:      ev.Event.ID,
		EventName:    ev.Event.Name,
		VenueName:    ev.Venue.Name,
		VenueAddress: ev.Venue.Address,
		Occurrences:  occ,
	}, nil
}

func (s *catalogService) AvailableSeats(ctx context.Context, occurrenceID int64) (*domain.OccurrenceAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a, err := s.occurrenceRepo.GetAvailability(ctx, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("get availability %d: %w", occurrenceID, err)
	}
	return a, nil
}
