package actions

import (
	"net/http"

	"github.com/gobuffalo/buffalo"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/log"
)

// reportError logs an error with request details and renders it as JSON. A
// status in the 300 family renders a redirect to the UI instead.
func reportError(c buffalo.Context, err error) error {
	var appErr *api.AppError
	if e, ok := err.(*api.AppError); ok {
		appErr = e
	} else {
		appErr = &api.AppError{
			HttpStatus: http.StatusInternalServerError,
			Key:        api.ErrorUnknown,
			DebugMsg:   err.Error(),
		}
	}
	appErr.SetHttpStatusFromCategory()
	logErrorWithRequestData(c, appErr)

	appErr.LoadMessage()

	if domain.Env.GoEnv == domain.EnvDevelopment || domain.Env.GoEnv == domain.EnvTest {
		if appErr.Err != nil {
			appErr.DebugMsg = appErr.Err.Error()
		}
	} else {
		// don't leak debugging info outside of development
		appErr.Extras = map[string]interface{}{}
	}

	if appErr.HttpStatus >= 300 && appErr.HttpStatus <= 399 {
		if appErr.RedirectURL == "" {
			appErr.RedirectURL = domain.Env.UIURL + "/login?appError=" + appErr.Message
		}
		return c.Redirect(appErr.HttpStatus, appErr.RedirectURL)
	}
	return c.Render(appErr.HttpStatus, r.JSON(appErr))
}

// reportErrorAndClearSession is reportError plus a session wipe, for errors in auth flows.
func reportErrorAndClearSession(c buffalo.Context, err error) error {
	c.Session().Clear()
	return reportError(c, err)
}

func logErrorWithRequestData(c buffalo.Context, appErr *api.AppError) {
	extras := domain.MergeExtras([]map[string]interface{}{domain.GetExtras(c), appErr.Extras})
	extras["function"] = domain.GetFunctionName(3)
	extras["key"] = appErr.Key
	extras["status"] = appErr.HttpStatus
	extras["method"] = c.Request().Method
	extras["URI"] = c.Request().RequestURI
	extras["IP"] = c.Request().RemoteAddr

	appErr.Extras = extras
	log.WithFields(extras).Error(appErr.Error())
}

func renderOk(c buffalo.Context, v interface{}) error {
	return c.Render(http.StatusOK, r.JSON(v))
}
