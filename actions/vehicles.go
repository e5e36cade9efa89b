package actions

import (
	"errors"
	"net/http"

	"github.com/gobuffalo/buffalo"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/models"
)

var errVehicleFromContext = errors.New("no vehicle found in context")

// swagger:operation GET /vehicles Vehicles VehiclesList
// VehiclesList
//
// grid listing of the vehicles under the actor's contractor
// ---
//
//	responses:
//	  '200':
//	    description: grid envelope with vehicle rows
func vehiclesList(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)
	params := api.NewGridParams(c.Params())

	var vehicles models.Vehicles
	rows, total, filtered, err := vehicles.RowsForGrid(tx, actor, params)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, api.NewGridResponse(params, total, filtered, rows))
}

// swagger:operation GET /vehicles/{id} Vehicles VehiclesView
// VehiclesView
//
// view one vehicle with its phone lists, attachments and linked equipment
// ---
//
//	responses:
//	  '200':
//	    description: a Vehicle
func vehiclesView(c buffalo.Context) error {
	tx := models.Tx(c)
	vehicle := getReferencedVehicleFromCtx(c)
	if vehicle == nil {
		return reportError(c, api.NewAppError(errVehicleFromContext, api.ErrorVehicleFromContext, api.CategoryInternal))
	}

	if err := vehicle.LoadChildren(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, vehicle.ConvertToAPI(tx, true))
}

// swagger:operation POST /vehicles Vehicles VehiclesCreate
// VehiclesCreate
//
// create a vehicle under a customer entity and subsidiary
// ---
//
//	responses:
//	  '200':
//	    description: the new Vehicle
func vehiclesCreate(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.VehicleInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	var vehicle models.Vehicle
	if err := vehicle.CreateFromInput(tx, actor, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, vehicle.ConvertToAPI(tx, true))
}

// swagger:operation PUT /vehicles/{id} Vehicles VehiclesUpdate
// VehiclesUpdate
//
// update a vehicle, reconciling both phone lists
// ---
//
//	responses:
//	  '200':
//	    description: the updated Vehicle
func vehiclesUpdate(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)
	vehicle := getReferencedVehicleFromCtx(c)
	if vehicle == nil {
		return reportError(c, api.NewAppError(errVehicleFromContext, api.ErrorVehicleFromContext, api.CategoryInternal))
	}

	var input api.VehicleInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if err := vehicle.UpdateFromInput(tx, actor, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, vehicle.ConvertToAPI(tx, true))
}

// swagger:operation DELETE /vehicles/{id} Vehicles VehiclesDelete
// VehiclesDelete
//
// delete a vehicle, its phone lists and its attachments
// ---
//
//	responses:
//	  '204':
//	    description: deleted
func vehiclesDelete(c buffalo.Context) error {
	tx := models.Tx(c)
	vehicle := getReferencedVehicleFromCtx(c)
	if vehicle == nil {
		return reportError(c, api.NewAppError(errVehicleFromContext, api.ErrorVehicleFromContext, api.CategoryInternal))
	}

	if err := vehicle.Destroy(tx); err != nil {
		return reportError(c, err)
	}

	return c.Render(http.StatusNoContent, nil)
}

// swagger:operation PUT /vehicles/{id}/monitored Vehicles VehiclesMonitored
// VehiclesMonitored
//
// toggle the monitored flag on a vehicle
// ---
//
//	responses:
//	  '200':
//	    description: the updated Vehicle
func vehiclesMonitored(c buffalo.Context) error {
	tx := models.Tx(c)
	vehicle := getReferencedVehicleFromCtx(c)
	if vehicle == nil {
		return reportError(c, api.NewAppError(errVehicleFromContext, api.ErrorVehicleFromContext, api.CategoryInternal))
	}

	var input api.VehicleMonitoredInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if err := vehicle.SetMonitored(tx, input.Monitored); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, vehicle.ConvertToAPI(tx, false))
}

// swagger:operation GET /vehicles/{id}/attachments Vehicles VehiclesAttachmentsList
// VehiclesAttachmentsList
//
// list the attachments on a vehicle with fresh file URLs
// ---
//
//	responses:
//	  '200':
//	    description: VehicleAttachments
func vehiclesAttachmentsList(c buffalo.Context) error {
	tx := models.Tx(c)
	vehicle := getReferencedVehicleFromCtx(c)
	if vehicle == nil {
		return reportError(c, api.NewAppError(errVehicleFromContext, api.ErrorVehicleFromContext, api.CategoryInternal))
	}

	var attachments models.VehicleAttachments
	if err := tx.Where("vehicle_id = ?", vehicle.ID).Order("created_at asc").All(&attachments); err != nil {
		return reportError(c, err)
	}
	for i := range attachments {
		if err := attachments[i].LoadFile(tx); err != nil {
			return reportError(c, err)
		}
	}

	return renderOk(c, attachments.ConvertToAPI(tx))
}

// swagger:operation POST /vehicles/{id}/attachments Vehicles VehiclesAttachmentsCreate
// VehiclesAttachmentsCreate
//
// attach a previously uploaded file to a vehicle
// ---
//
//	responses:
//	  '200':
//	    description: the new VehicleAttachment
func vehiclesAttachmentsCreate(c buffalo.Context) error {
	tx := models.Tx(c)
	vehicle := getReferencedVehicleFromCtx(c)
	if vehicle == nil {
		return reportError(c, api.NewAppError(errVehicleFromContext, api.ErrorVehicleFromContext, api.CategoryInternal))
	}

	var input api.VehicleAttachmentInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	var file models.File
	if err := file.Find(tx, input.FileID); err != nil {
		return reportError(c, err)
	}

	attachment := models.VehicleAttachment{
		VehicleID:    vehicle.ID,
		FileID:       file.ID,
		OriginalName: file.Name,
	}
	if err := attachment.Create(tx); err != nil {
		return reportError(c, err)
	}
	if err := attachment.LoadFile(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, attachment.ConvertToAPI(tx))
}

// swagger:operation DELETE /vehicle-attachments/{id} Vehicles VehiclesAttachmentsDelete
// VehiclesAttachmentsDelete
//
// detach a file from a vehicle and release it for cleanup
// ---
//
//	responses:
//	  '204':
//	    description: deleted
func vehiclesAttachmentsDelete(c buffalo.Context) error {
	tx := models.Tx(c)
	attachment := getReferencedAttachmentFromCtx(c)
	if attachment == nil {
		return reportError(c, api.NewAppError(errVehicleFromContext, api.ErrorVehicleFromContext, api.CategoryInternal))
	}

	if err := attachment.Destroy(tx); err != nil {
		return reportError(c, err)
	}

	return c.Render(http.StatusNoContent, nil)
}

// getReferencedVehicleFromCtx pulls the models.Vehicle resource from context
// that was put there by the AuthZ middleware
func getReferencedVehicleFromCtx(c buffalo.Context) *models.Vehicle {
	vehicle, ok := c.Value(domain.TypeVehicle).(*models.Vehicle)
	if !ok {
		return nil
	}
	return vehicle
}

// getReferencedAttachmentFromCtx pulls the models.VehicleAttachment resource
// from context that was put there by the AuthZ middleware
func getReferencedAttachmentFromCtx(c buffalo.Context) *models.VehicleAttachment {
	attachment, ok := c.Value(domain.TypeVehicleAttachment).(*models.VehicleAttachment)
	if !ok {
		return nil
	}
	return attachment
}
