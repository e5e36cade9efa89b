package models

import (
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
)

// InstallationRecords is a slice of InstallationRecord objects
type InstallationRecords []InstallationRecord

// InstallationRecord is the physical history line: one equipment unit on
// one vehicle under one installation, from installed-at until
// uninstalled-at.
type InstallationRecord struct {
	ID             uuid.UUID `db:"id"`
	InstallationID uuid.UUID `db:"installation_id" validate:"required"`
	EquipmentID    uuid.UUID `db:"equipment_id" validate:"required"`
	VehicleID      uuid.UUID `db:"vehicle_id" validate:"required"`

	InstalledAt   time.Time  `db:"installed_at"`
	UninstalledAt nulls.Time `db:"uninstalled_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (r *InstallationRecord) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(r), nil
}

func (r *InstallationRecord) Create(tx *pop.Connection) error {
	return create(tx, r)
}

func (r *InstallationRecord) Update(tx *pop.Connection) error {
	return update(tx, r)
}

// OpenForEquipment loads the record still open for one equipment unit
func (r *InstallationRecord) OpenForEquipment(tx *pop.Connection, equipmentID uuid.UUID) error {
	err := tx.Where("equipment_id = ? AND uninstalled_at IS NULL", equipmentID).First(r)
	if err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return nil
}

// CloseAt ends the record. The uninstall date never lands before the
// install date, so a same-day or back-dated move yields a zero-duration
// record instead of a negative one.
func (r *InstallationRecord) CloseAt(tx *pop.Connection, at time.Time) error {
	uninstalledAt := domain.DateOnly(at)
	if installedAt := domain.DateOnly(r.InstalledAt); uninstalledAt.Before(installedAt) {
		uninstalledAt = installedAt
	}
	r.UninstalledAt = nulls.NewTime(uninstalledAt)
	return r.Update(tx)
}
