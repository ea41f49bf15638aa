// Package seed loads the sample venues, events, occurrences, users and
// reservations into an empty database.
package seed

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"eventbooking/internal/domain"
)

//go:embed data/*.json
var dataFS embed.FS

// DateTimeLayout is the layout of date-times in the seed files.
const DateTimeLayout = "02-01-2006-15:04:05"

type seedTime struct{ time.Time }

func (t *seedTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return fmt.Errorf("parse seed date-time %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

type venueRecord struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity"`
}

type eventRecord struct {
	ID       int64   `json:"id"`
	VenueID  int64   `json:"venue_id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
}

type occurrenceRecord struct {
	ID        int64    `json:"id"`
	EventID   int64    `json:"event_id"`
	StartsAt  seedTime `json:"starts_at"`
	Cancelled bool     `json:"cancelled"`
}

type userRecord struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
}

type reservationRecord struct {
	ID           int64 `json:"id"`
	UserID       int64 `json:"user_id"`
	OccurrenceID int64 `json:"occurrence_id"`
	Quantity     int   `json:"quantity"`
}

// Data is the full set of seed records.
type Data struct {
	Venues       []venueRecord
	Events       []eventRecord
	Occurrences  []occurrenceRecord
	Users        []userRecord
	Reservations []reservationRecord
}

// Parse reads the five JSON collections from fsys, under data/.
func Parse(fsys fs.FS) (*Data, error) {
	d := &Data{}
	files := []struct {
		name string
		dst  any
	}{
		{"venues.json", &d.Venues},
		{"events.json", &d.Events},
		{"occurrences.json", &d.Occurrences},
		{"users.json", &d.Users},
		{"reservations.json", &d.Reservations},
	}
	for _, f := range files {
		raw, err := fs.ReadFile(fsys, "data/"+f.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.name, err)
		}
	}
	return d, nil
}

// Loader inserts the seed data when the users table is empty.
type Loader struct {
	DB     *sql.DB
	Hasher domain.PasswordHasher
	Logger *slog.Logger
	FS     fs.FS
	now    func() time.Time
}

func NewLoader(db *sql.DB, hasher domain.PasswordHasher, logger *slog.Logger) *Loader {
	return &Loader{DB: db, Hasher: hasher, Logger: logger, FS: dataFS, now: time.Now}
}

// Run seeds the database and reports whether anything was inserted. All records
// are written in one transaction.
func (l *Loader) Run(ctx context.Context) (seeded bool, err error) {
	var hasUsers bool
	if err := l.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users)`).Scan(&hasUsers); err != nil {
		return false, fmt.Errorf("check users: %w", err)
	}
	if hasUsers {
		l.Logger.InfoContext(ctx, "seed skipped, users table is not empty")
		return false, nil
	}

	data, err := Parse(l.FS)
	if err != nil {
		return false, err
	}
	users, err := l.hashUsers(data.Users)
	if err != nil {
		return false, err
	}

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, v := range data.Venues {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO venues (id, name, address, capacity) VALUES ($1, $2, $3, $4)`,
			v.ID, v.Name, v.Address, v.Capacity); err != nil {
			return false, fmt.Errorf("insert venue %d: %w", v.ID, err)
		}
	}
	for _, e := range data.Events {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO events (id, venue_id, name, image_url) VALUES ($1, $2, $3, $4)`,
			e.ID, e.VenueID, e.Name, e.ImageURL); err != nil {
			return false, fmt.Errorf("insert event %d: %w", e.ID, err)
		}
	}
	for _, o := range data.Occurrences {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO occurrences (id, event_id, starts_at, cancelled) VALUES ($1, $2, $3, $4)`,
			o.ID, o.EventID, o.StartsAt.Time, o.Cancelled); err != nil {
			return false, fmt.Errorf("insert occurrence %d: %w", o.ID, err)
		}
	}
	for _, u := range users {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO users (id, first_name, last_name, phone, email, password_hash, salt, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			u.ID, u.FirstName, u.LastName, u.Phone, u.Email, u.PasswordHash, u.Salt, u.CreatedAt); err != nil {
			return false, fmt.Errorf("insert user %d: %w", u.ID, err)
		}
	}
	now := l.now()
	for _, r := range data.Reservations {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO reservations (id, user_id, occurrence_id, quantity, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			r.ID, r.UserID, r.OccurrenceID, r.Quantity, now, now); err != nil {
			return false, fmt.Errorf("insert reservation %d: %w", r.ID, err)
		}
	}
	// Explicit ids leave the BIGSERIAL sequences behind.
	for _, table := range []string{"venues", "events", "occurrences", "users", "reservations"} {
		query := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))`, table, table)
		if _, err = tx.ExecContext(ctx, query); err != nil {
			return false, fmt.Errorf("advance %s sequence: %w", table, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed tx: %w", err)
	}

	l.Logger.InfoContext(ctx, "seed data loaded",
		"venues", len(data.Venues),
		"events", len(data.Events),
		"occurrences", len(data.Occurrences),
		"users", len(users),
		"reservations", len(data.Reservations),
	)
	return true, nil
}

func (l *Loader) hashUsers(records []userRecord) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(records))
	for _, r := range records {
		salt, err := l.Hasher.GenerateSalt()
		if err != nil {
			return nil, err
		}
		hash, err := l.Hasher.Hash(salt, r.Password)
		if err != nil {
			return nil, err
		}
		users = append(users, &domain.User{
			ID:           r.ID,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			Phone:        r.Phone,
			Email:        strings.ToLower(strings.TrimSpace(r.Email)),
			PasswordHash: hash,
			Salt:         salt,
			CreatedAt:    l.now(),
		})
	}
	return users, nil
}
