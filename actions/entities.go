package actions

import (
	"errors"
	"net/http"

	"github.com/gobuffalo/buffalo"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/models"
)

var errEntityFromContext = errors.New("no entity found in context")

// swagger:operation GET /entities Entities EntitiesList
// EntitiesList
//
// grid listing of the entities under the actor's contractor, paged and
// searched by the standard grid parameters
// ---
//
//	responses:
//	  '200':
//	    description: grid envelope with entity rows
func entitiesList(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)
	params := api.NewGridParams(c.Params())

	var entities models.Entities
	rows, total, filtered, err := entities.RowsForGrid(tx, actor, params)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, api.NewGridResponse(params, total, filtered, rows))
}

// swagger:operation GET /entities/{id} Entities EntitiesView
// EntitiesView
//
// view one entity with its subsidiaries and their contact lists
// ---
//
//	responses:
//	  '200':
//	    description: an Entity
func entitiesView(c buffalo.Context) error {
	tx := models.Tx(c)
	entity := getReferencedEntityFromCtx(c)
	if entity == nil {
		return reportError(c, api.NewAppError(errEntityFromContext, api.ErrorEntityFromContext, api.CategoryInternal))
	}

	if err := entity.LoadSubsidiaries(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, entity.ConvertToAPI(tx, true))
}

// swagger:operation POST /entities Entities EntitiesCreate
// EntitiesCreate
//
// create an entity with at least one subsidiary
// ---
//
//	responses:
//	  '200':
//	    description: the new Entity
func entitiesCreate(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.EntityInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	var entity models.Entity
	if err := entity.CreateFromInput(tx, actor, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, entity.ConvertToAPI(tx, true))
}

// swagger:operation PUT /entities/{id} Entities EntitiesUpdate
// EntitiesUpdate
//
// update an entity, reconciling its subsidiary tree against the
// submitted lists
// ---
//
//	responses:
//	  '200':
//	    description: the updated Entity
func entitiesUpdate(c buffalo.Context) error {
	tx := models.Tx(c)
	entity := getReferencedEntityFromCtx(c)
	if entity == nil {
		return reportError(c, api.NewAppError(errEntityFromContext, api.ErrorEntityFromContext, api.CategoryInternal))
	}

	var input api.EntityInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if err := entity.UpdateFromInput(tx, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, entity.ConvertToAPI(tx, true))
}

// swagger:operation DELETE /entities/{id} Entities EntitiesDelete
// EntitiesDelete
//
// delete an entity and everything hanging off of it
// ---
//
//	responses:
//	  '204':
//	    description: deleted
func entitiesDelete(c buffalo.Context) error {
	tx := models.Tx(c)
	entity := getReferencedEntityFromCtx(c)
	if entity == nil {
		return reportError(c, api.NewAppError(errEntityFromContext, api.ErrorEntityFromContext, api.CategoryInternal))
	}

	if err := entity.Destroy(tx); err != nil {
		return reportError(c, err)
	}

	return c.Render(http.StatusNoContent, nil)
}

// swagger:operation PUT /entities/{id}/blocked Entities EntitiesBlocked
// EntitiesBlocked
//
// toggle the blocked flag on an entity
// ---
//
//	responses:
//	  '200':
//	    description: the updated Entity
func entitiesBlocked(c buffalo.Context) error {
	tx := models.Tx(c)
	entity := getReferencedEntityFromCtx(c)
	if entity == nil {
		return reportError(c, api.NewAppError(errEntityFromContext, api.ErrorEntityFromContext, api.CategoryInternal))
	}

	var input api.EntityBlockedInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if err := entity.SetBlocked(tx, input.Blocked); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, entity.ConvertToAPI(tx, false))
}

// getReferencedEntityFromCtx pulls the models.Entity resource from context
// that was put there by the AuthZ middleware
func getReferencedEntityFromCtx(c buffalo.Context) *models.Entity {
	entity, ok := c.Value(domain.TypeEntity).(*models.Entity)
	if !ok {
		return nil
	}
	return entity
}
