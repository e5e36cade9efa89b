package actions

import (
	"errors"

	"github.com/gobuffalo/buffalo"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/models"
)

var errUserFromContext = errors.New("no user found in context")

// swagger:operation GET /users Users UsersList
//
// UsersList
//
// list the users of the caller's contractor
//
// ---
// responses:
//   '200':
//     description: all users under the contractor
//     schema:
//       "$ref": "#/definitions/Users"
func usersList(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var users models.Users
	if err := users.AllForContractor(tx, actor.ContractorID); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, users.ConvertToAPI())
}

// swagger:operation GET /users/{id} Users UsersView
//
// UsersView
//
// view one user
//
// ---
// parameters:
//   - name: id
//     in: path
//     required: true
//     description: user ID
// responses:
//   '200':
//     description: the requested user
//     schema:
//       "$ref": "#/definitions/User"
func usersView(c buffalo.Context) error {
	user := getReferencedUserFromCtx(c)
	if user == nil {
		return reportError(c, api.NewAppError(errUserFromContext, api.ErrorUserFromContext, api.CategoryInternal))
	}

	return renderOk(c, user.ConvertToAPI())
}

// swagger:operation GET /users/me Users UsersMe
//
// UsersMe
//
// profile of the authenticated API caller
//
// ---
// responses:
//   '200':
//     description: the caller's own user record
//     schema:
//       "$ref": "#/definitions/User"
func usersMe(c buffalo.Context) error {
	user := models.CurrentUser(c)
	return renderOk(c, user.ConvertToAPI())
}

// getReferencedUserFromCtx pulls the models.User resource from context that was put there
// by the AuthZ middleware based on a url pattern of /users/{id}. This is NOT the authenticated
// API caller
func getReferencedUserFromCtx(c buffalo.Context) *models.User {
	user, ok := c.Value(domain.TypeUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}
