package models

import (
	"time"

	"github.com/gobuffalo/nulls"

	"github.com/trackerp/fleet-api/api"
)

type transferFixtures struct {
	actor       User
	oldCustomer Entity
	newCustomer Entity
	vehicle     Vehicle
	equipment   Equipment
	oldContract Contract
	newContract Contract
	newLine     Installation
}

// setupTransfer builds one installed equipment unit and an open destination
// line item under a second customer in the same contractor.
func (ms *ModelSuite) setupTransfer() transferFixtures {
	f := transferFixtures{}
	f.actor = CreateUserFixtures(ms.DB, 1).Users[0]

	entities := CreateEntityFixtures(ms.DB, f.actor, FixturesConfig{
		NumberOfEntities:      2,
		SubsidiariesPerEntity: 1,
	}).Entities
	f.oldCustomer = entities[0]
	f.newCustomer = entities[1]

	vf := CreateVehicleFixtures(ms.DB, f.actor, f.oldCustomer, FixturesConfig{VehiclesPerEntity: 1})
	f.vehicle = vf.Vehicles[0]
	f.equipment = vf.Equipments[0]
	f.oldContract = vf.Contracts[0]

	f.newContract = Contract{
		ContractorID: f.actor.ContractorID,
		EntityID:     f.newCustomer.ID,
		SubsidiaryID: f.newCustomer.Subsidiaries[0].ID,
		StartAt:      nulls.NewTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	MustCreate(ms.DB, &f.newContract)

	f.newLine = Installation{
		ContractID: f.newContract.ID,
		PayerID:    f.newCustomer.ID,
	}
	MustCreate(ms.DB, &f.newLine)

	return f
}

func (ms *ModelSuite) transferInput(f transferFixtures) api.TransferInput {
	return api.TransferInput{
		EquipmentID:    f.equipment.ID,
		EntityID:       f.newCustomer.ID,
		SubsidiaryID:   f.newCustomer.Subsidiaries[0].ID,
		PayerID:        f.newCustomer.ID,
		InstallationID: f.newLine.ID,
		TransferAt:     "2026-06-15",
	}
}

func (ms *ModelSuite) TestTransfer_Execute() {
	f := ms.setupTransfer()

	transfer, err := NewTransfer(ms.DB, f.actor, ms.transferInput(f))
	ms.NoError(err)
	ms.NoError(transfer.Execute(ms.DB))

	// the prior history line is closed at the transfer date
	var prior InstallationRecord
	ms.NoError(ms.DB.Where("equipment_id = ? AND uninstalled_at IS NOT NULL", f.equipment.ID).
		First(&prior))
	ms.Equal("2026-06-15", prior.UninstalledAt.Time.Format("2006-01-02"))

	// a new open history line exists under the destination line item
	var fresh InstallationRecord
	ms.NoError(fresh.OpenForEquipment(ms.DB, f.equipment.ID))
	ms.Equal(f.newLine.ID, fresh.InstallationID)
	ms.Equal("2026-06-15", fresh.InstalledAt.Format("2006-01-02"))

	// the destination line item's start date got seeded
	var line Installation
	ms.NoError(line.FindByID(ms.DB, f.newLine.ID))
	ms.True(line.StartAt.Valid, "line item start date must be seeded on first use")
	ms.Equal("2026-06-15", line.StartAt.Time.Format("2006-01-02"))

	// the vehicle and the unit follow the new tuple
	var vehicle Vehicle
	ms.NoError(vehicle.FindByID(ms.DB, f.vehicle.ID))
	ms.Equal(f.newCustomer.ID, vehicle.EntityID)

	var equipment Equipment
	ms.NoError(equipment.FindByID(ms.DB, f.equipment.ID))
	ms.Equal(f.newLine.ID, equipment.InstallationID.UUID)

	// the monitoring projection reflects the new tuple
	var row LiveGridRow
	ms.NoError(ms.DB.Where("equipment_id = ?", f.equipment.ID).First(&row))
	ms.Equal(f.newCustomer.Name, row.CustomerName)
}

func (ms *ModelSuite) TestTransfer_Execute_datingRule() {
	f := ms.setupTransfer()

	// back-date the transfer to before the unit was installed
	input := ms.transferInput(f)
	input.TransferAt = "2024-12-25"

	transfer, err := NewTransfer(ms.DB, f.actor, input)
	ms.NoError(err)
	ms.NoError(transfer.Execute(ms.DB))

	var prior InstallationRecord
	ms.NoError(ms.DB.Where("equipment_id = ? AND uninstalled_at IS NOT NULL", f.equipment.ID).
		First(&prior))

	// install date was 2025-01-01, so the uninstall date clamps to it
	ms.Equal(prior.InstalledAt.Format("2006-01-02"),
		prior.UninstalledAt.Time.Format("2006-01-02"),
		"uninstall date must never land before the install date")
}

func (ms *ModelSuite) TestTransfer_Execute_terminateBlocksAbandonedCustomer() {
	f := ms.setupTransfer()

	input := ms.transferInput(f)
	input.Terminate = true

	transfer, err := NewTransfer(ms.DB, f.actor, input)
	ms.NoError(err)
	ms.NoError(transfer.Execute(ms.DB))

	var contract Contract
	ms.NoError(contract.FindByID(ms.DB, f.oldContract.ID))
	ms.False(contract.IsActive(), "terminate must end-date the contract")

	// terminate implies close unless notclose is set
	var line Installation
	ms.NoError(line.FindByID(ms.DB, f.equipment.InstallationID.UUID))
	ms.False(line.IsOpen(), "terminate must close the prior line item")

	var loser Entity
	ms.NoError(loser.FindByID(ms.DB, f.oldCustomer.ID))
	ms.True(loser.Blocked,
		"a customer left with no vehicles and no open installations must be blocked")
}

func (ms *ModelSuite) TestTransfer_Execute_terminateKeepsBusyCustomer() {
	f := ms.setupTransfer()

	// a second monitored vehicle keeps the losing customer in business
	CreateVehicleFixtures(ms.DB, f.actor, f.oldCustomer, FixturesConfig{VehiclesPerEntity: 1})

	input := ms.transferInput(f)
	input.Terminate = true

	transfer, err := NewTransfer(ms.DB, f.actor, input)
	ms.NoError(err)
	ms.NoError(transfer.Execute(ms.DB))

	var loser Entity
	ms.NoError(loser.FindByID(ms.DB, f.oldCustomer.ID))
	ms.False(loser.Blocked, "a customer with remaining vehicles must not be blocked")
}

func (ms *ModelSuite) TestTransfer_Execute_associationPayers() {
	f := ms.setupTransfer()

	association := Entity{
		ContractorID: f.actor.ContractorID,
		Name:         "Associação dos Transportadores",
		Association:  true,
	}
	MustCreate(ms.DB, &association)

	// route the destination line item through the association
	f.newLine.PayerID = association.ID
	ms.NoError(f.newLine.Update(ms.DB))

	input := ms.transferInput(f)
	input.PayerID = association.ID

	transfer, err := NewTransfer(ms.DB, f.actor, input)
	ms.NoError(err)
	ms.NoError(transfer.Execute(ms.DB))

	var joined Affiliation
	ms.NoError(ms.DB.Where("association_id = ? AND entity_id = ? AND end_at IS NULL",
		association.ID, f.newCustomer.ID).First(&joined))
	ms.Equal("2026-06-15", joined.StartAt.Format("2006-01-02"))
}

func (ms *ModelSuite) TestTransfer_sameDestinationRefused() {
	f := ms.setupTransfer()

	input := api.TransferInput{
		EquipmentID:    f.equipment.ID,
		EntityID:       f.oldCustomer.ID,
		SubsidiaryID:   f.oldCustomer.Subsidiaries[0].ID,
		PayerID:        f.oldCustomer.ID,
		InstallationID: f.equipment.InstallationID.UUID,
		TransferAt:     "2026-06-15",
	}
	_, err := NewTransfer(ms.DB, f.actor, input)
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorTransferSameDestination,
		Category: api.CategoryUser,
	}, err)
}

func (ms *ModelSuite) TestTransfer_invalidDateRefused() {
	f := ms.setupTransfer()

	input := ms.transferInput(f)
	input.TransferAt = "15/06/2026"

	_, err := NewTransfer(ms.DB, f.actor, input)
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorTransferInvalidDate,
		Category: api.CategoryUser,
	}, err)
}

func (ms *ModelSuite) TestReplacement_Execute() {
	f := ms.setupTransfer()
	deposit := CreateDepositFixture(ms.DB, f.actor)

	spare := Equipment{
		ContractorID: f.actor.ContractorID,
		Serial:       "SPARE-001",
		Model:        "TR-400",
	}
	MustCreate(ms.DB, &spare)

	input := api.ReplacementInput{
		OldEquipmentID: f.equipment.ID,
		NewEquipmentID: spare.ID,
		ReplacedAt:     "2026-03-10",
		DepositID:      deposit.ID,
	}
	replacement, err := NewReplacement(ms.DB, f.actor, input)
	ms.NoError(err)
	ms.NoError(replacement.Execute(ms.DB))

	var old Equipment
	ms.NoError(old.FindByID(ms.DB, f.equipment.ID))
	ms.False(old.InService(), "replaced unit must be out of service")
	ms.Equal(deposit.ID, old.DepositID.UUID, "replaced unit must be parked in the deposit")

	var fresh Equipment
	ms.NoError(fresh.FindByID(ms.DB, spare.ID))
	ms.Equal(f.vehicle.ID, fresh.VehicleID.UUID)
	ms.Equal(f.equipment.InstallationID.UUID, fresh.InstallationID.UUID,
		"replacement keeps the same installation")
	ms.Equal(f.equipment.IButtonMemory, fresh.IButtonMemory,
		"iButton memory descriptor must carry over")
	ms.Equal(f.equipment.SiteWiring, fresh.SiteWiring,
		"site wiring descriptor must carry over")

	var record InstallationRecord
	ms.NoError(record.OpenForEquipment(ms.DB, spare.ID))
	ms.Equal("2026-03-10", record.InstalledAt.Format("2006-01-02"))

	var row LiveGridRow
	ms.NoError(ms.DB.Where("equipment_id = ?", spare.ID).First(&row))
	ms.Equal(f.vehicle.Plate, row.Plate)
	err = ms.DB.Where("equipment_id = ?", old.ID).First(&LiveGridRow{})
	ms.Error(err, "the old unit's projection row must be gone")
}

func (ms *ModelSuite) TestReplacement_inUseRefused() {
	f := ms.setupTransfer()
	deposit := CreateDepositFixture(ms.DB, f.actor)

	other := CreateVehicleFixtures(ms.DB, f.actor, f.oldCustomer,
		FixturesConfig{VehiclesPerEntity: 1}).Equipments[0]

	input := api.ReplacementInput{
		OldEquipmentID: f.equipment.ID,
		NewEquipmentID: other.ID,
		ReplacedAt:     "2026-03-10",
		DepositID:      deposit.ID,
	}
	_, err := NewReplacement(ms.DB, f.actor, input)
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorReplacementEquipmentInUse,
		Category: api.CategoryUser,
	}, err)
}
