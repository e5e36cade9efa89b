package models

import (
	"errors"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
)

// Contracts is a slice of Contract objects
type Contracts []Contract

// Contract is the commercial agreement between a contractor and a customer
// entity. Installations are its line items. A contract with no end date is
// active.
type Contract struct {
	ID           uuid.UUID `db:"id"`
	ContractorID uuid.UUID `db:"contractor_id" validate:"required"`
	EntityID     uuid.UUID `db:"entity_id" validate:"required"`
	SubsidiaryID uuid.UUID `db:"subsidiary_id" validate:"required"`

	StartAt nulls.Time `db:"start_at"`
	EndAt   nulls.Time `db:"end_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (c *Contract) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(c), nil
}

func (c *Contract) Create(tx *pop.Connection) error {
	return create(tx, c)
}

func (c *Contract) Update(tx *pop.Connection) error {
	return update(tx, c)
}

func (c *Contract) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, c, id)
}

// IsActive is true until the contract has been end-dated
func (c *Contract) IsActive() bool {
	return !c.EndAt.Valid
}

// Terminate end-dates the contract as of the given date. Terminating an
// already ended contract is refused.
func (c *Contract) Terminate(tx *pop.Connection, at time.Time) error {
	if c.EndAt.Valid {
		return api.NewAppError(
			errors.New("contract is already terminated"),
			api.ErrorContractAlreadyTerminated, api.CategoryUser)
	}
	c.EndAt = nulls.NewTime(at)
	return c.Update(tx)
}

// ActiveInstallationCount counts the contract's line items still open
func (c *Contract) ActiveInstallationCount(tx *pop.Connection) (int, error) {
	count, err := tx.Where("contract_id = ? AND end_at IS NULL", c.ID).Count(&Installation{})
	if err != nil {
		return 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return count, nil
}
