package actions

import (
	"github.com/gobuffalo/buffalo"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/models"
)

// swagger:operation POST /transfers Transfers TransfersCreate
// TransfersCreate
//
// move the equipment on a vehicle to a new customer/subsidiary/payer tuple.
// The prior installation record is closed, optional close/terminate flags
// end-date the prior installation and contract, association payer changes
// adjust affiliation windows, and the live grid projection is refreshed.
// Everything happens in the request transaction.
// ---
//
//	responses:
//	  '200':
//	    description: the vehicle after the transfer
func transfersCreate(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.TransferInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	transfer, err := models.NewTransfer(tx, actor, input)
	if err != nil {
		return reportError(c, err)
	}

	if err := transfer.Execute(tx); err != nil {
		return reportError(c, err)
	}

	domain.NewExtra(c, "equipment_id", input.EquipmentID)
	domain.NewExtra(c, "entity_id", input.EntityID)

	return renderOk(c, transfer.Vehicle.ConvertToAPI(tx, false))
}

// swagger:operation POST /replacements Transfers ReplacementsCreate
// ReplacementsCreate
//
// swap the tracker unit on a vehicle, parking the old unit in a deposit and
// installing the replacement under the same installation
// ---
//
//	responses:
//	  '200':
//	    description: the vehicle after the swap
func replacementsCreate(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.ReplacementInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	replacement, err := models.NewReplacement(tx, actor, input)
	if err != nil {
		return reportError(c, err)
	}

	if err := replacement.Execute(tx); err != nil {
		return reportError(c, err)
	}

	domain.NewExtra(c, "old_equipment_id", input.OldEquipmentID)
	domain.NewExtra(c, "new_equipment_id", input.NewEquipmentID)

	return renderOk(c, replacement.Vehicle.ConvertToAPI(tx, false))
}
