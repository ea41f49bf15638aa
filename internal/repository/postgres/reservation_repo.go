package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventbooking/internal/domain"
)

type reservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(db *sql.DB) domain.ReservationRepository {
	return &reservationRepository{DB: db}
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `
		INSERT INTO reservations (user_id, occurrence_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return conn(ctx, r.DB).QueryRowContext(ctx, query,
		res.UserID, res.OccurrenceID, res.Quantity, res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
}

const reservationColumns = `id, user_id, occurrence_id, quantity, created_at, updated_at`

func scanReservation(s rowScanner) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	err := s.Scan(&res.ID, &res.UserID, &res.OccurrenceID, &res.Quantity, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = $1
	`
	return scanReservation(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
}

// GetByUserAndOccurrence returns the oldest reservation the user holds on the
// occurrence. Quick bookings may leave more than one.
func (r *reservationRepository) GetByUserAndOccurrence(ctx context.Context, userID, occurrenceID int64) (*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE user_id = $1 AND occurrence_id = $2
		ORDER BY id
		LIMIT 1
	`
	return scanReservation(conn(ctx, r.DB).QueryRowContext(ctx, query, userID, occurrenceID))
}

func (r *reservationRepository) ListDetailsByUserID(ctx context.Context, userID int64) ([]*domain.ReservationDetail, error) {
	query := `
		SELECT r.id, r.occurrence_id, r.quantity, e.name, v.name, o.starts_at, o.cancelled
		FROM reservations r
		JOIN occurrences o ON o.id = r.occurrence_id
		JOIN events e ON e.id = o.event_id
		JOIN venues v ON v.id = e.venue_id
		WHERE r.user_id = $1
		ORDER BY o.starts_at, r.id
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*domain.ReservationDetail
	for rows.Next() {
		d := &domain.ReservationDetail{}
		if err := rows.Scan(&d.ID, &d.OccurrenceID, &d.Quantity, &d.EventName, &d.VenueName, &d.StartsAt, &d.Cancelled); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *reservationRepository) UpdateQuantity(ctx context.Context, id int64, quantity int, updatedAt time.Time) error {
	query := `UPDATE reservations SET quantity = $1, updated_at = $2 WHERE id = $3`
	result, err := conn(ctx, r.DB).ExecContext(ctx, query, quantity, updatedAt, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
