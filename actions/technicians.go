package actions

import (
	"errors"
	"net/http"

	"github.com/gobuffalo/buffalo"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/models"
)

var errTechnicianFromContext = errors.New("no technician found in context")

// swagger:operation GET /technicians Technicians TechniciansList
// TechniciansList
//
// grid listing of the technicians under the actor's contractor
// ---
//
//	responses:
//	  '200':
//	    description: grid envelope with technician rows
func techniciansList(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)
	params := api.NewGridParams(c.Params())

	var technicians models.Technicians
	rows, total, filtered, err := technicians.RowsForGrid(tx, actor, params)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, api.NewGridResponse(params, total, filtered, rows))
}

// swagger:operation GET /technicians/{id} Technicians TechniciansView
// TechniciansView
//
// view one technician with its phone and mailing lists
// ---
//
//	responses:
//	  '200':
//	    description: a Technician
func techniciansView(c buffalo.Context) error {
	tx := models.Tx(c)
	technician := getReferencedTechnicianFromCtx(c)
	if technician == nil {
		return reportError(c, api.NewAppError(errTechnicianFromContext, api.ErrorTechnicianFromContext, api.CategoryInternal))
	}

	if err := technician.LoadChildren(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, technician.ConvertToAPI(tx, true))
}

// swagger:operation POST /technicians Technicians TechniciansCreate
// TechniciansCreate
//
// create a technician under a service provider
// ---
//
//	responses:
//	  '200':
//	    description: the new Technician
func techniciansCreate(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.TechnicianInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	var technician models.Technician
	if err := technician.CreateFromInput(tx, actor, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, technician.ConvertToAPI(tx, true))
}

// swagger:operation PUT /technicians/{id} Technicians TechniciansUpdate
// TechniciansUpdate
//
// update a technician, reconciling its phone and mailing lists
// ---
//
//	responses:
//	  '200':
//	    description: the updated Technician
func techniciansUpdate(c buffalo.Context) error {
	tx := models.Tx(c)
	technician := getReferencedTechnicianFromCtx(c)
	if technician == nil {
		return reportError(c, api.NewAppError(errTechnicianFromContext, api.ErrorTechnicianFromContext, api.CategoryInternal))
	}

	var input api.TechnicianInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if err := technician.UpdateFromInput(tx, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, technician.ConvertToAPI(tx, true))
}

// swagger:operation DELETE /technicians/{id} Technicians TechniciansDelete
// TechniciansDelete
//
// delete a technician and its contact lists
// ---
//
//	responses:
//	  '204':
//	    description: deleted
func techniciansDelete(c buffalo.Context) error {
	tx := models.Tx(c)
	technician := getReferencedTechnicianFromCtx(c)
	if technician == nil {
		return reportError(c, api.NewAppError(errTechnicianFromContext, api.ErrorTechnicianFromContext, api.CategoryInternal))
	}

	if err := technician.Destroy(tx); err != nil {
		return reportError(c, err)
	}

	return c.Render(http.StatusNoContent, nil)
}

// swagger:operation PUT /technicians/{id}/blocked Technicians TechniciansBlocked
// TechniciansBlocked
//
// toggle the blocked flag on a technician
// ---
//
//	responses:
//	  '200':
//	    description: the updated Technician
func techniciansBlocked(c buffalo.Context) error {
	tx := models.Tx(c)
	technician := getReferencedTechnicianFromCtx(c)
	if technician == nil {
		return reportError(c, api.NewAppError(errTechnicianFromContext, api.ErrorTechnicianFromContext, api.CategoryInternal))
	}

	var input api.TechnicianBlockedInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if err := technician.SetBlocked(tx, input.Blocked); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, technician.ConvertToAPI(tx, false))
}

// getReferencedTechnicianFromCtx pulls the models.Technician resource from
// context that was put there by the AuthZ middleware
func getReferencedTechnicianFromCtx(c buffalo.Context) *models.Technician {
	technician, ok := c.Value(domain.TypeTechnician).(*models.Technician)
	if !ok {
		return nil
	}
	return technician
}
