package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"eventbooking/internal/domain"

	"github.com/lib/pq"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (first_name, last_name, phone, email, password_hash, salt, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowContext(ctx, query,
		u.FirstName, u.LastName, u.Phone, u.Email, u.PasswordHash, u.Salt, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

const userColumns = `id, first_name, last_name, phone, email, password_hash, salt, created_at`

func scanUser(s rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var phoneNull sql.NullString
	if err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &phoneNull, &u.Email, &u.PasswordHash, &u.Salt, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if phoneNull.Valid {
		u.Phone = &phoneNull.String
	}
	return u, nil
}

// GetByEmail matches case-insensitively.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = $1
	`
	return scanUser(conn(ctx, r.DB).QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	return scanUser(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
}
