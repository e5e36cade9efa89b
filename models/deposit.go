package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
)

// Deposits is a slice of Deposit objects
type Deposits []Deposit

// Deposit is a storage location for equipment that is out of service
type Deposit struct {
	ID           uuid.UUID `db:"id"`
	ContractorID uuid.UUID `db:"contractor_id" validate:"required"`

	Name string `db:"name" validate:"required"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (d *Deposit) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(d), nil
}

func (d *Deposit) Create(tx *pop.Connection) error {
	return create(tx, d)
}

func (d *Deposit) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, d, id)
}
