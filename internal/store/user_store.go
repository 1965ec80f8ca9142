package store

import (
	"context"

	users "github.com/AdamBeresnev/pose-backend/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserStore struct {
	db *sqlx.DB
}

const (
	getUserQuery        = "SELECT id, email, name, picture, provider, created_at FROM users WHERE id = ?"
	getUserByEmailQuery = "SELECT id, email, name, picture, provider, created_at FROM users WHERE email = ?"
	// The UNIQUE(email) constraint decides which of two racing inserts wins.
	createUserIfAbsentQuery = `
		INSERT INTO users (id, email, name, picture, provider, created_at) VALUES
		(:id, :email, :name, :picture, :provider, :created_at)
		ON CONFLICT(email) DO NOTHING
	`
)

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserQuery, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserByEmailQuery, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUserIfAbsent inserts user unless a row with the same email exists.
// It reports whether this call inserted the row.
func (s *UserStore) CreateUserIfAbsent(ctx context.Context, user *users.User) (bool, error) {
	res, err := s.db.NamedExecContext(ctx, createUserIfAbsentQuery, user)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
