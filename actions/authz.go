package actions

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gobuffalo/buffalo"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/models"
)

// newAuthableResources maps the first URL path segment to an empty record of
// the corresponding type. AuthZ loads the record and asks it whether the
// actor may proceed.
func newAuthableResources() map[string]models.Authable {
	return map[string]models.Authable{
		domain.TypeEntity:            &models.Entity{},
		domain.TypeServiceProvider:   &models.ServiceProvider{},
		domain.TypeTechnician:        &models.Technician{},
		domain.TypeVehicle:           &models.Vehicle{},
		domain.TypeVehicleAttachment: &models.VehicleAttachment{},
		domain.TypeUser:              &models.User{},
	}
}

func AuthZ(next buffalo.Handler) buffalo.Handler {
	return func(c buffalo.Context) error {
		actor, ok := c.Value(domain.ContextKeyCurrentUser).(models.User)
		if !ok {
			err := fmt.Errorf("actor must be authenticated to proceed")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryUnauthorized))
		}

		rp := parseResourcePath(c.Request().URL.Path)
		if rp.id == uuid.Nil && rp.depth > 1 {
			err := fmt.Errorf("invalid resource ID, not a UUID")
			return reportError(c, api.NewAppError(err, api.ErrorInvalidResourceID, api.CategoryUser))
		}

		resource, isAuthable := newAuthableResources()[rp.name]
		if !isAuthable {
			return reportError(c, fmt.Errorf("resource expected to be authable but isn't"))
		}

		tx := models.Tx(c)
		if tx == nil {
			return reportError(c, fmt.Errorf("failed to intialize db connection"))
		}

		if rp.id != uuid.Nil {
			if err := resource.FindByID(tx, rp.id); err != nil {
				err = fmt.Errorf("failed to load resource: %s", err)
				appErr := api.NewAppError(err, api.ErrorResourceNotFound, api.CategoryNotFound)
				if domain.IsOtherThanNoRows(err) {
					appErr.Category = api.CategoryInternal
				}
				return reportError(c, appErr)
			}
		}

		p := permissionForRequest(c.Request().Method, rp.id != uuid.Nil)
		if !resource.IsActorAllowedTo(tx, actor, p, models.SubResource(rp.sub)) {
			err := fmt.Errorf("actor not allowed to perform that action on this resource")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryForbidden))
		}

		// put found resource into context if found
		if resource.GetID() != uuid.Nil {
			c.Set(rp.name, resource)
		}

		return next(c)
	}
}

func permissionForRequest(method string, hasID bool) models.Permission {
	switch method {
	case http.MethodGet:
		if hasID {
			return models.PermissionView
		}
		return models.PermissionList
	case http.MethodPost:
		return models.PermissionCreate
	case http.MethodPut:
		return models.PermissionUpdate
	case http.MethodDelete:
		return models.PermissionDelete
	}
	return models.PermissionDenied
}

type resourcePath struct {
	name  string
	id    uuid.UUID
	sub   string
	depth int
}

// parseResourcePath splits "/vehicles/<uuid>/transfer" into its resource name,
// record ID, and sub-resource. The sub-resource is only reported when the ID
// segment is a valid UUID.
func parseResourcePath(path string) resourcePath {
	var rp resourcePath
	if path == "" {
		return rp
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	rp.depth = len(parts)
	rp.name = parts[0]

	if rp.depth > 1 {
		rp.id = uuid.FromStringOrNil(parts[1])
	}
	if rp.depth > 2 && rp.id != uuid.Nil {
		rp.sub = parts[2]
	}
	return rp
}
