package actions

import (
	"net/http"

	"github.com/gobuffalo/buffalo"
)

// swagger:operation GET /status Status Status
// Status
//
// liveness check, no auth and no database access
// ---
//
//	responses:
//	  '204':
//	    description: service is up
func statusHandler(c buffalo.Context) error {
	return c.Render(http.StatusNoContent, nil)
}
