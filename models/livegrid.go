package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
)

// LiveGridRows is a slice of LiveGridRow objects
type LiveGridRows []LiveGridRow

// LiveGridRow is the denormalized projection one monitoring screen row is
// read from. It is keyed by equipment, upserted by the transfer listener
// and never part of a request transaction.
type LiveGridRow struct {
	ID           uuid.UUID `db:"id"`
	ContractorID uuid.UUID `db:"contractor_id"`
	EquipmentID  uuid.UUID `db:"equipment_id"`
	VehicleID    uuid.UUID `db:"vehicle_id"`

	Plate          string `db:"plate"`
	CustomerName   string `db:"customer_name"`
	SubsidiaryName string `db:"subsidiary_name"`
	PayerName      string `db:"payer_name"`

	UpdatedAt time.Time `db:"updated_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Upsert writes the row for its equipment key, replacing any previous one
func (l *LiveGridRow) Upsert(tx *pop.Connection) error {
	var existing LiveGridRow
	err := tx.Where("equipment_id = ?", l.EquipmentID).First(&existing)
	if err != nil {
		if domain.IsOtherThanNoRows(err) {
			return appErrorFromDB(err, api.ErrorQueryFailure)
		}
		return create(tx, l)
	}
	l.ID = existing.ID
	l.CreatedAt = existing.CreatedAt
	return update(tx, l)
}

// RefreshForEquipment rebuilds the projection row for one equipment unit
// from the current vehicle, customer and payer records.
func RefreshForEquipment(tx *pop.Connection, equipmentID uuid.UUID) error {
	var equipment Equipment
	if err := equipment.FindByID(tx, equipmentID); err != nil {
		return err
	}
	if !equipment.VehicleID.Valid || !equipment.InstallationID.Valid {
		// unit is out of service, drop any stale row
		err := tx.RawQuery("DELETE FROM live_grid_rows WHERE equipment_id = ?", equipmentID).Exec()
		if err != nil {
			return appErrorFromDB(err, api.ErrorDestroyFailure)
		}
		return nil
	}

	var vehicle Vehicle
	if err := vehicle.FindByID(tx, equipment.VehicleID.UUID); err != nil {
		return err
	}
	var customer Entity
	if err := customer.FindByID(tx, vehicle.EntityID); err != nil {
		return err
	}
	var sub Subsidiary
	if err := sub.FindByID(tx, vehicle.SubsidiaryID); err != nil {
		return err
	}

	var installation Installation
	if err := installation.FindByID(tx, equipment.InstallationID.UUID); err != nil {
		return err
	}
	var payer Entity
	if err := payer.FindByID(tx, installation.PayerID); err != nil {
		return err
	}

	row := LiveGridRow{
		ContractorID:   vehicle.ContractorID,
		EquipmentID:    equipment.ID,
		VehicleID:      vehicle.ID,
		Plate:          vehicle.Plate,
		CustomerName:   customer.Name,
		SubsidiaryName: sub.Name,
		PayerName:      payer.Name,
	}
	return row.Upsert(tx)
}
