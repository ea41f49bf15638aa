package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventbooking/internal/domain"

	"github.com/lib/pq"
)

type occurrenceRepository struct {
	DB *sql.DB
}

func NewOccurrenceRepository(db *sql.DB) domain.OccurrenceRepository {
	return &occurrenceRepository{DB: db}
}

// availabilityQuery joins each occurrence to its venue capacity and the sum of
// reserved quantities. Occurrences with no reservations sum to zero.
const availabilityQuery = `
		SELECT o.id, o.event_id, o.starts_at, o.cancelled, v.capacity, COALESCE(SUM(r.quantity), 0)
		FROM occurrences o
		JOIN events e ON e.id = o.event_id
		JOIN venues v ON v.id = e.venue_id
		LEFT JOIN reservations r ON r.occurrence_id = o.id
`

func scanAvailability(s rowScanner) (*domain.OccurrenceAvailability, error) {
	o := &domain.Occurrence{}
	a := &domain.OccurrenceAvailability{Occurrence: o}
	if err := s.Scan(&o.ID, &o.EventID, &o.StartsAt, &o.Cancelled, &a.Capacity, &a.Reserved); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *occurrenceRepository) GetByID(ctx context.Context, id int64) (*domain.Occurrence, error) {
	query := `
		SELECT id, event_id, starts_at, cancelled
		FROM occurrences
		WHERE id = $1
	`
	o := &domain.Occurrence{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(&o.ID, &o.EventID, &o.StartsAt, &o.Cancelled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *occurrenceRepository) GetAvailability(ctx context.Context, id int64) (*domain.OccurrenceAvailability, error) {
	query := availabilityQuery + `
		WHERE o.id = $1
		GROUP BY o.id, v.capacity
	`
	a, err := scanAvailability(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListAvailabilityByEventIDs returns the occurrences of the given events keyed by
// event id, each list ordered by start time.
func (r *occurrenceRepository) ListAvailabilityByEventIDs(ctx context.Context, eventIDs []int64) (map[int64][]*domain.OccurrenceAvailability, error) {
	out := make(map[int64][]*domain.OccurrenceAvailability, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	query := availabilityQuery + `
		WHERE o.event_id = ANY($1)
		GROUP BY o.id, v.capacity
		ORDER BY o.starts_at, o.id
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		out[a.Occurrence.EventID] = append(out[a.Occurrence.EventID], a)
	}
	return out, rows.Err()
}
