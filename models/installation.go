package models

import (
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
)

// Installations is a slice of Installation objects
type Installations []Installation

// Installation is one contract line item: the billable slot an equipment
// unit occupies, paid by the payer entity. The start date is seeded on
// first use and the line is closed by setting the end date.
type Installation struct {
	ID         uuid.UUID `db:"id"`
	ContractID uuid.UUID `db:"contract_id" validate:"required"`
	PayerID    uuid.UUID `db:"payer_id" validate:"required"`

	StartAt nulls.Time `db:"start_at"`
	EndAt   nulls.Time `db:"end_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (i *Installation) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(i), nil
}

func (i *Installation) Create(tx *pop.Connection) error {
	return create(tx, i)
}

func (i *Installation) Update(tx *pop.Connection) error {
	return update(tx, i)
}

func (i *Installation) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, i, id)
}

// IsOpen is true until the line item has been end-dated
func (i *Installation) IsOpen() bool {
	return !i.EndAt.Valid
}

// Close end-dates the line item as of the given date
func (i *Installation) Close(tx *pop.Connection, at time.Time) error {
	i.EndAt = nulls.NewTime(at)
	return i.Update(tx)
}

// SeedStart sets the start date on first use and leaves it alone after
func (i *Installation) SeedStart(tx *pop.Connection, at time.Time) error {
	if i.StartAt.Valid {
		return nil
	}
	i.StartAt = nulls.NewTime(at)
	return i.Update(tx)
}
