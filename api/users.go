package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// swagger:model
type Users []User

// User is an authenticated operator of the API
// swagger:model
type User struct {
	ID uuid.UUID `json:"id"`

	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AppRole   string `json:"app_role"`

	// the entity a Customer-role user is limited to
	EntityID *uuid.UUID `json:"entity_id,omitempty"`

	LastLoginUTC time.Time `json:"last_login_utc"`
}
