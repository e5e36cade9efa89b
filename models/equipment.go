package models

import (
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
)

// Equipments is a slice of Equipment objects
type Equipments []Equipment

// Equipment is a tracker unit. It is linked to a vehicle and an
// installation while in service, or parked in a deposit between uses.
type Equipment struct {
	ID           uuid.UUID `db:"id"`
	ContractorID uuid.UUID `db:"contractor_id" validate:"required"`

	Serial string `db:"serial" validate:"required"`
	Model  string `db:"model"`

	// descriptors carried over on a replacement
	IButtonMemory int    `db:"ibutton_memory"`
	SiteWiring    string `db:"site_wiring"`

	VehicleID      nulls.UUID `db:"vehicle_id"`
	InstallationID nulls.UUID `db:"installation_id"`
	DepositID      nulls.UUID `db:"deposit_id"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (e *Equipment) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(e), nil
}

func (e *Equipment) Create(tx *pop.Connection) error {
	return create(tx, e)
}

func (e *Equipment) Update(tx *pop.Connection) error {
	return update(tx, e)
}

func (e *Equipment) GetID() uuid.UUID {
	return e.ID
}

func (e *Equipment) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, e, id)
}

// InService is true while the unit is linked to a vehicle
func (e *Equipment) InService() bool {
	return e.VehicleID.Valid
}

// ConvertToAPI converts a models.Equipment to an api.Equipment
func (e *Equipment) ConvertToAPI() api.Equipment {
	out := api.Equipment{
		ID:            e.ID,
		Serial:        e.Serial,
		Model:         e.Model,
		IButtonMemory: e.IButtonMemory,
		SiteWiring:    e.SiteWiring,
	}
	if e.VehicleID.Valid {
		id := e.VehicleID.UUID
		out.VehicleID = &id
	}
	if e.InstallationID.Valid {
		id := e.InstallationID.UUID
		out.InstallationID = &id
	}
	return out
}

// ConvertToAPI converts a models.Equipments to an api.Equipments
func (e Equipments) ConvertToAPI() api.Equipments {
	out := make(api.Equipments, len(e))
	for i := range e {
		out[i] = e[i].ConvertToAPI()
	}
	return out
}
