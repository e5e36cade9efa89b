package actions

import (
	"net/http"

	"github.com/gobuffalo/buffalo"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/models"
)

const (
	// logout http param for what is normally the bearer token
	LogoutToken = "token"
)

// swagger:operation GET /auth/logout Authentication AuthLogout
// AuthLogout
//
// Logout of application
// ---
//
//	parameters:
//	- name: token
//	  in: query
//	  required: true
//	  description: the user's bearer token
//	responses:
//	  '302':
//	    description: redirect to UI
func authDestroy(c buffalo.Context) error {
	tokenParam := c.Param(LogoutToken)
	if tokenParam == "" {
		return reportErrorAndClearSession(c, &api.AppError{
			HttpStatus: http.StatusBadRequest,
			Key:        api.ErrorDeletingAccessToken,
			Message:    LogoutToken + " is required to logout",
		})
	}

	var uat models.UserAccessToken
	tx := models.Tx(c)
	if err := uat.DeleteByAccessToken(tx, tokenParam); err != nil {
		return reportErrorAndClearSession(c, err)
	}

	c.Session().Clear()

	return c.Redirect(http.StatusFound, domain.Env.UIURL+"/logged-out")
}
