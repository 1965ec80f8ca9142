package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/AdamBeresnev/pose-backend/internal/db"
	"github.com/AdamBeresnev/pose-backend/internal/store"
	users "github.com/AdamBeresnev/pose-backend/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.InitDB("file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_journal_mode=WAL")
	require.NoError(t, err, "Failed to open test DB")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")
	return database
}

func googleIdentity(email string) Identity {
	return Identity{
		Email:    email,
		Name:     "Ada Lovelace",
		Picture:  "https://example.com/ada.png",
		Provider: users.ProviderGoogle,
	}
}

func TestLoginOrCreateCreatesUser(t *testing.T) {
	database := setupTestDB(t)
	userService := NewUserService(store.NewUserStore(database))

	user, err := userService.LoginOrCreate(context.Background(), googleIdentity("ada@example.com"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	require.NotNil(t, user.Name)
	assert.Equal(t, "Ada Lovelace", *user.Name)
	require.NotNil(t, user.Picture)
	assert.Equal(t, "https://example.com/ada.png", *user.Picture)
	assert.Equal(t, users.ProviderGoogle, user.Provider)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestLoginOrCreateIsIdempotent(t *testing.T) {
	database := setupTestDB(t)
	userService := NewUserService(store.NewUserStore(database))
	ctx := context.Background()

	first, err := userService.LoginOrCreate(ctx, googleIdentity("ada@example.com"))
	require.NoError(t, err)

	changed := googleIdentity(" ADA@example.com ")
	changed.Name = "Countess of Lovelace"
	changed.Picture = ""
	second, err := userService.LoginOrCreate(ctx, changed)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// Repeat logins do not refresh the profile.
	assert.Equal(t, "Ada Lovelace", *second.Name)
	require.NotNil(t, second.Picture)
	assert.Equal(t, "https://example.com/ada.png", *second.Picture)
}

func TestLoginOrCreateDistinctEmails(t *testing.T) {
	database := setupTestDB(t)
	userService := NewUserService(store.NewUserStore(database))
	ctx := context.Background()

	seen := make(map[uuid.UUID]bool)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		user, err := userService.LoginOrCreate(ctx, googleIdentity(email))
		require.NoError(t, err)
		assert.False(t, seen[user.ID], "duplicate id for %s", email)
		seen[user.ID] = true
	}
}

func TestLoginOrCreateStoresEmptyProfileFieldsAsNull(t *testing.T) {
	database := setupTestDB(t)
	userService := NewUserService(store.NewUserStore(database))

	user, err := userService.LoginOrCreate(context.Background(), Identity{
		Email:    "anon@example.com",
		Provider: users.ProviderGoogle,
	})
	require.NoError(t, err)

	fetched, err := userService.FindByID(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Nil(t, fetched.Name)
	assert.Nil(t, fetched.Picture)
}

func TestLoginOrCreateRejectsMissingEmail(t *testing.T) {
	database := setupTestDB(t)
	userService := NewUserService(store.NewUserStore(database))

	_, err := userService.LoginOrCreate(context.Background(), googleIdentity("   "))
	assert.ErrorIs(t, err, ErrEmailMissing)
}

func TestLoginOrCreateConcurrentFirstLogins(t *testing.T) {
	database := setupTestDB(t)
	userService := NewUserService(store.NewUserStore(database))
	ctx := context.Background()

	const workers = 8
	ids := make([]uuid.UUID, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			user, err := userService.LoginOrCreate(ctx, googleIdentity("race@example.com"))
			errs[i] = err
			if err == nil {
				ids[i] = user.ID
			}
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int
	require.NoError(t, database.Get(&count, "SELECT COUNT(*) FROM users WHERE email = ?", "race@example.com"))
	assert.Equal(t, 1, count)
}

func TestFindByID(t *testing.T) {
	database := setupTestDB(t)
	userService := NewUserService(store.NewUserStore(database))
	ctx := context.Background()

	created, err := userService.LoginOrCreate(ctx, googleIdentity("ada@example.com"))
	require.NoError(t, err)

	found, err := userService.FindByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.Email, found.Email)

	_, err = userService.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = userService.FindByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
