package actions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gobuffalo/buffalo"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
)

// registerCustomErrorHandler replaces buffalo's HTML 500 page with a JSON body
// shaped like every other error response.
func registerCustomErrorHandler(app *buffalo.App) {
	app.ErrorHandlers[http.StatusInternalServerError] = func(status int, origErr error, c buffalo.Context) error {
		c.Logger().Error(origErr)
		if domain.Env.GoEnv == domain.EnvDevelopment {
			debug.PrintStack()
		}

		res := c.Response()
		res.WriteHeader(status)
		res.Header().Set("content-type", "application/json")

		return json.NewEncoder(res).Encode(&api.AppError{
			HttpStatus: status,
			Key:        api.ErrorGenericInternalServer,
			DebugMsg:   fmt.Sprintf("(%T) %s", origErr, origErr),
			Message:    "An internal system error has occurred",
		})
	}
}
