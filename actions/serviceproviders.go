package actions

import (
	"errors"
	"net/http"

	"github.com/gobuffalo/buffalo"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/models"
)

var errProviderFromContext = errors.New("no service provider found in context")

// swagger:operation GET /service-providers ServiceProviders ServiceProvidersList
// ServiceProvidersList
//
// grid listing of the service providers under the actor's contractor
// ---
//
//	responses:
//	  '200':
//	    description: grid envelope with service provider rows
func serviceProvidersList(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)
	params := api.NewGridParams(c.Params())

	var providers models.ServiceProviders
	rows, total, filtered, err := providers.RowsForGrid(tx, actor, params)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, api.NewGridResponse(params, total, filtered, rows))
}

// swagger:operation GET /service-providers/{id} ServiceProviders ServiceProvidersView
// ServiceProvidersView
//
// view one service provider with its accounts, prices and displacement tiers
// ---
//
//	responses:
//	  '200':
//	    description: a ServiceProvider
func serviceProvidersView(c buffalo.Context) error {
	tx := models.Tx(c)
	provider := getReferencedProviderFromCtx(c)
	if provider == nil {
		return reportError(c, api.NewAppError(errProviderFromContext, api.ErrorServiceProviderFromContext, api.CategoryInternal))
	}

	if err := provider.LoadChildren(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, provider.ConvertToAPI(tx, true))
}

// swagger:operation POST /service-providers ServiceProviders ServiceProvidersCreate
// ServiceProvidersCreate
//
// create the provider supplement record on a provider-flagged entity
// ---
//
//	responses:
//	  '200':
//	    description: the new ServiceProvider
func serviceProvidersCreate(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.ServiceProviderInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	var provider models.ServiceProvider
	if err := provider.CreateFromInput(tx, actor, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, provider.ConvertToAPI(tx, true))
}

// swagger:operation PUT /service-providers/{id} ServiceProviders ServiceProvidersUpdate
// ServiceProvidersUpdate
//
// update a service provider, reconciling its account, price and tier lists
// ---
//
//	responses:
//	  '200':
//	    description: the updated ServiceProvider
func serviceProvidersUpdate(c buffalo.Context) error {
	tx := models.Tx(c)
	provider := getReferencedProviderFromCtx(c)
	if provider == nil {
		return reportError(c, api.NewAppError(errProviderFromContext, api.ErrorServiceProviderFromContext, api.CategoryInternal))
	}

	var input api.ServiceProviderInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if err := provider.UpdateFromInput(tx, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, provider.ConvertToAPI(tx, true))
}

// swagger:operation DELETE /service-providers/{id} ServiceProviders ServiceProvidersDelete
// ServiceProvidersDelete
//
// delete a service provider and its child lists
// ---
//
//	responses:
//	  '204':
//	    description: deleted
func serviceProvidersDelete(c buffalo.Context) error {
	tx := models.Tx(c)
	provider := getReferencedProviderFromCtx(c)
	if provider == nil {
		return reportError(c, api.NewAppError(errProviderFromContext, api.ErrorServiceProviderFromContext, api.CategoryInternal))
	}

	if err := provider.Destroy(tx); err != nil {
		return reportError(c, err)
	}

	return c.Render(http.StatusNoContent, nil)
}

// getReferencedProviderFromCtx pulls the models.ServiceProvider resource from
// context that was put there by the AuthZ middleware
func getReferencedProviderFromCtx(c buffalo.Context) *models.ServiceProvider {
	provider, ok := c.Value(domain.TypeServiceProvider).(*models.ServiceProvider)
	if !ok {
		return nil
	}
	return provider
}
