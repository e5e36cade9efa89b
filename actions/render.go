package actions

import (
	"encoding/json"
	"net/http"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/buffalo/render"

	"github.com/trackerp/fleet-api/api"
)

var r = render.New(render.Options{
	DefaultContentType: "application/json",
})

// StrictBind hydrates a struct with values from a POST, returning an error if
// the request body contains fields not present in the struct
func StrictBind(c buffalo.Context, dest interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return &api.AppError{
			HttpStatus: http.StatusBadRequest,
			Key:        api.ErrorInvalidRequestBody,
			Category:   api.CategoryUser,
			Err:        err,
		}
	}
	return nil
}
