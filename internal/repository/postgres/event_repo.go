package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventbooking/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventWithVenueColumns = `e.id, e.venue_id, e.name, e.image_url, v.id, v.name, v.address, v.capacity`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEventWithVenue(s rowScanner) (*domain.EventWithVenue, error) {
	e := &domain.Event{}
	v := &domain.Venue{}
	var imageNull sql.NullString
	if err := s.Scan(&e.ID, &e.VenueID, &e.Name, &imageNull, &v.ID, &v.Name, &v.Address, &v.Capacity); err != nil {
		return nil, err
	}
	if imageNull.Valid {
		e.ImageURL = &imageNull.String
	}
	return &domain.EventWithVenue{Event: e, Venue: v}, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.EventWithVenue, error) {
	query := `
		SELECT ` + eventWithVenueColumns + `
		FROM events e
		JOIN venues v ON v.id = e.venue_id
		WHERE e.id = $1
	`
	ev, err := scanEventWithVenue(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}

func (r *eventRepository) List(ctx context.Context, p domain.PaginationParams) ([]*domain.EventWithVenue, error) {
	query := `
		SELECT ` + eventWithVenueColumns + `
		FROM events e
		JOIN venues v ON v.id = e.venue_id
		ORDER BY e.id
		LIMIT $1 OFFSET $2
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, p.PageSize, p.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*domain.EventWithVenue
	for rows.Next() {
		ev, err := scanEventWithVenue(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, ev)
	}
	return list, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}
