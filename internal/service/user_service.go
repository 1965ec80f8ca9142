package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/pose-backend/internal/store"
	users "github.com/AdamBeresnev/pose-backend/internal/user"
	"github.com/AdamBeresnev/pose-backend/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailMissing = errors.New("identity has no email")
)

// Identity is a verified external identity handed over by an OAuth provider.
type Identity struct {
	Email    string
	Name     string
	Picture  string
	Provider string
}

type UserService struct {
	store *store.UserStore
	now   func() time.Time
}

func NewUserService(store *store.UserStore) *UserService {
	return &UserService{store: store, now: time.Now}
}

// LoginOrCreate returns the user registered under identity's email, creating
// it on first login. Existing rows are returned unchanged, so name and picture
// keep the values captured at signup.
func (s *UserService) LoginOrCreate(ctx context.Context, identity Identity) (*users.User, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, ErrEmailMissing
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	newUser := &users.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      utils.StringOrNil(identity.Name),
		Picture:   utils.StringOrNil(identity.Picture),
		Provider:  identity.Provider,
		CreatedAt: s.now().UTC(),
	}
	created, err := s.store.CreateUserIfAbsent(ctx, newUser)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if created {
		return newUser, nil
	}

	// Lost the race to a concurrent first login; return the winner's row.
	user, err = s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user after conflict: %w", err)
	}
	return user, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*users.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user by id: %w", err)
	}
	return user, nil
}
