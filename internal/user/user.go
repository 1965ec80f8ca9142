package users

import (
	"time"

	"github.com/google/uuid"
)

const ProviderGoogle = "google"

// User is both the users row and the public JSON shape returned by /auth/me.
type User struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Email     string    `db:"email"      json:"email"`
	Name      *string   `db:"name"       json:"name"`
	Picture   *string   `db:"picture"    json:"picture"`
	Provider  string    `db:"provider"   json:"provider"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
