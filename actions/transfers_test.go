package actions

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gobuffalo/nulls"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/models"
)

func (as *ActionSuite) Test_transfersCreate() {
	actor, f := as.vehicleFixtures(1)
	equipment := f.Equipments[0]
	oldInstallation := f.Installations[0]
	oldEntity := f.Entities[0]
	oldSub := f.Subsidiaries[0]

	dest := models.CreateEntityFixtures(as.DB, actor, models.FixturesConfig{
		NumberOfEntities:      1,
		SubsidiariesPerEntity: 1,
	}).Entities[0]
	destSub := dest.Subsidiaries[0]

	destContract := models.Contract{
		ContractorID: actor.ContractorID,
		EntityID:     dest.ID,
		SubsidiaryID: destSub.ID,
		StartAt:      nulls.NewTime(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
	}
	models.MustCreate(as.DB, &destContract)

	destInstallation := models.Installation{
		ContractID: destContract.ID,
		PayerID:    dest.ID,
	}
	models.MustCreate(as.DB, &destInstallation)

	goodInput := api.TransferInput{
		EquipmentID:    equipment.ID,
		EntityID:       dest.ID,
		SubsidiaryID:   destSub.ID,
		PayerID:        dest.ID,
		InstallationID: destInstallation.ID,
		TransferAt:     "2025-06-01",
		Close:          true,
	}

	badDate := goodInput
	badDate.TransferAt = "junk"

	sameTuple := goodInput
	sameTuple.EntityID = oldEntity.ID
	sameTuple.SubsidiaryID = oldSub.ID
	sameTuple.PayerID = oldEntity.ID
	sameTuple.InstallationID = oldInstallation.ID

	tests := []struct {
		name         string
		input        api.TransferInput
		wantStatus   int
		wantContains []string
	}{
		{
			name:         "bad date",
			input:        badDate,
			wantStatus:   http.StatusBadRequest,
			wantContains: []string{string(api.ErrorTransferInvalidDate)},
		},
		{
			name:         "same destination",
			input:        sameTuple,
			wantStatus:   http.StatusBadRequest,
			wantContains: []string{string(api.ErrorTransferSameDestination)},
		},
		{
			name:       "good transfer",
			input:      goodInput,
			wantStatus: http.StatusOK,
			wantContains: []string{
				`"entity_id":"` + dest.ID.String(),
				`"subsidiary_id":"` + destSub.ID.String(),
			},
		},
	}
	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/transfers")
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
			res := req.Post(tt.input)

			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			as.verifyResponseData(tt.wantContains, body, "Transfers Create")
		})
	}

	// the equipment now sits on the destination line item
	var fromDB models.Equipment
	as.NoError(as.DB.Find(&fromDB, equipment.ID))
	as.Equal(destInstallation.ID, fromDB.InstallationID.UUID, "equipment not moved to new installation")

	// the prior line item is end-dated
	var closed models.Installation
	as.NoError(as.DB.Find(&closed, oldInstallation.ID))
	as.True(closed.EndAt.Valid, "old installation should be closed")

	// the physical history has a closed line and an open one
	var records models.InstallationRecords
	as.NoError(as.DB.Where("equipment_id = ?", equipment.ID).Order("created_at asc").All(&records))
	as.Len(records, 2, "expected two installation records")
	as.True(records[0].UninstalledAt.Valid, "first history line should be closed")
	as.False(records[1].UninstalledAt.Valid, "second history line should be open")
}

func (as *ActionSuite) Test_replacementsCreate() {
	actor, f := as.vehicleFixtures(1)
	oldEquipment := f.Equipments[0]
	vehicle := f.Vehicles[0]

	deposit := models.CreateDepositFixture(as.DB, actor)

	spare := models.Equipment{
		ContractorID: actor.ContractorID,
		Serial:       "SPARE-1",
		Model:        "TR-400",
		DepositID:    nulls.NewUUID(deposit.ID),
	}
	models.MustCreate(as.DB, &spare)

	goodInput := api.ReplacementInput{
		OldEquipmentID: oldEquipment.ID,
		NewEquipmentID: spare.ID,
		ReplacedAt:     "2025-07-15",
		DepositID:      deposit.ID,
	}

	inUse := goodInput
	inUse.NewEquipmentID = oldEquipment.ID
	inUse.OldEquipmentID = oldEquipment.ID

	tests := []struct {
		name         string
		input        api.ReplacementInput
		wantStatus   int
		wantContains []string
	}{
		{
			name:         "replacement already in service",
			input:        inUse,
			wantStatus:   http.StatusBadRequest,
			wantContains: []string{string(api.ErrorReplacementEquipmentInUse)},
		},
		{
			name:       "good swap",
			input:      goodInput,
			wantStatus: http.StatusOK,
			wantContains: []string{
				`"id":"` + vehicle.ID.String(),
			},
		},
	}
	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/replacements")
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
			res := req.Post(tt.input)

			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			as.verifyResponseData(tt.wantContains, body, "Replacements Create")
		})
	}

	var newFromDB models.Equipment
	as.NoError(as.DB.Find(&newFromDB, spare.ID))
	as.Equal(vehicle.ID, newFromDB.VehicleID.UUID, "spare should now sit on the vehicle")
	as.False(newFromDB.DepositID.Valid, "spare should have left the deposit")

	var oldFromDB models.Equipment
	as.NoError(as.DB.Find(&oldFromDB, oldEquipment.ID))
	as.False(oldFromDB.VehicleID.Valid, "old unit should be off the vehicle")
	as.Equal(deposit.ID, oldFromDB.DepositID.UUID, "old unit should be parked in the deposit")
}
