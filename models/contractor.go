package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
)

// Contractors is a slice of Contractor objects
type Contractors []Contractor

// Contractor is the tenant owning all records reached through it
type Contractor struct {
	ID      uuid.UUID `db:"id"`
	Name    string    `db:"name" validate:"required"`
	Blocked bool      `db:"blocked"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// String can be helpful for serializing the model
func (c Contractor) String() string {
	jc, _ := json.Marshal(c)
	return string(jc)
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (c *Contractor) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(c), nil
}

func (c *Contractor) Create(tx *pop.Connection) error {
	return create(tx, c)
}

func (c *Contractor) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, c, id)
}

// LogoKey is the storage key of the contractor's logo. The variant suffix is
// "N" for the normal image and "I" for the inverted one.
func (c *Contractor) LogoKey(variant string) string {
	return fmt.Sprintf("logos/Logo_%s_%s", c.ID.String(), variant)
}
