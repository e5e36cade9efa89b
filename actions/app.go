// Fleet API
//
// Terms Of Service:
//
// there are no TOS at this moment, use at your own risk we take no responsibility
//
//     Schemes: https
//     Host: localhost
//     BasePath: /
//     Version: 0.0.1
//     License: MIT http://opensource.org/licenses/MIT
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     SecurityDefinitions:
//     bearerAuth:
//         type: apiKey
//         in: header
//         name: Authorization
//
// swagger:meta
package actions

import (
	"fmt"

	"github.com/gobuffalo/buffalo"
	paramlogger "github.com/gobuffalo/mw-paramlogger"

	"github.com/gobuffalo/buffalo-pop/v3/pop/popmw"
	contenttype "github.com/gobuffalo/mw-contenttype"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"

	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/job"
	"github.com/trackerp/fleet-api/listeners"
	"github.com/trackerp/fleet-api/log"
	"github.com/trackerp/fleet-api/models"
)

var app *buffalo.App

// App is where all routes and middleware for buffalo
// should be defined. This is the nerve center of your
// application.
//
// Routing, middleware, groups, etc... are declared TOP -> DOWN.
// This means if you add a middleware to `app` *after* declaring a
// group, that group will NOT have that new middleware. The same
// is true of resource declarations as well.
//
// It also means that routes are checked in the order they are declared.
// `ServeFiles` is a CATCH-ALL route, so it should always be
// placed last in the route declarations, as it will prevent routes
// declared after it to never be called.
func App() *buffalo.App {
	if app == nil {
		app = buffalo.New(buffalo.Options{
			Env:  domain.Env.GoEnv,
			Addr: fmt.Sprintf("0.0.0.0:%d", domain.Env.ServerPort),
			PreWares: []buffalo.PreWare{
				cors.New(cors.Options{
					AllowCredentials: true,
					AllowedOrigins:   []string{domain.Env.UIURL},
					AllowedMethods:   []string{"HEAD", "GET", "POST", "PUT", "PATCH", "DELETE"},
					AllowedHeaders:   []string{"*"},
				}).Handler,
			},
			SessionName:  "_fleet_api_session",
			SessionStore: sessions.NewCookieStore([]byte(domain.Env.SessionSecret)),
		})

		registerCustomErrorHandler(app)

		// Initialize and attach "sentry" to context
		app.Use(log.SentryMiddleware)

		// Log request parameters (filters apply).
		app.Use(paramlogger.ParameterLogger)

		// Set the request content type to JSON
		app.Use(contenttype.Set("application/json"))

		// Wraps each request in a transaction.
		app.Use(popmw.Transaction(models.DB))

		listeners.RegisterListeners()
		job.Init(&app.Worker)

		app.GET("/", HomeHandler)
		app.GET("/status", statusHandler)
		app.Middleware.Skip(popmw.Transaction(models.DB), statusHandler)

		// contractor logos are public, the contractor UUID is the capability
		app.GET("/logos/{id}/{variant}", logosView)

		// auth
		authGroup := app.Group("/auth")
		authGroup.GET("/logout", authDestroy)

		// authenticated routes that don't fit the {resource}/{id} authorization
		// pattern do their own access checks
		authnGroup := app.Group("")
		authnGroup.Use(AuthN)
		authnGroup.POST("/upload", uploadHandler)
		authnGroup.GET("/users/me", usersMe)
		authnGroup.POST("/transfers", transfersCreate)
		authnGroup.POST("/replacements", replacementsCreate)
		authnGroup.GET("/exports/vehicles", exportsVehicles)
		authnGroup.GET("/reports/{type}/{id}", reportsView)

		// entities
		entitiesGroup := app.Group("/" + domain.TypeEntity)
		entitiesGroup.Use(AuthN, AuthZ)
		entitiesGroup.GET("/", entitiesList)
		entitiesGroup.POST("/", entitiesCreate)
		entitiesGroup.GET("/{id}", entitiesView)
		entitiesGroup.PUT("/{id}", entitiesUpdate)
		entitiesGroup.DELETE("/{id}", entitiesDelete)
		entitiesGroup.PUT("/{id}/"+string(models.SubResourceBlocked), entitiesBlocked)

		// service providers
		providersGroup := app.Group("/" + domain.TypeServiceProvider)
		providersGroup.Use(AuthN, AuthZ)
		providersGroup.GET("/", serviceProvidersList)
		providersGroup.POST("/", serviceProvidersCreate)
		providersGroup.GET("/{id}", serviceProvidersView)
		providersGroup.PUT("/{id}", serviceProvidersUpdate)
		providersGroup.DELETE("/{id}", serviceProvidersDelete)

		// technicians
		techniciansGroup := app.Group("/" + domain.TypeTechnician)
		techniciansGroup.Use(AuthN, AuthZ)
		techniciansGroup.GET("/", techniciansList)
		techniciansGroup.POST("/", techniciansCreate)
		techniciansGroup.GET("/{id}", techniciansView)
		techniciansGroup.PUT("/{id}", techniciansUpdate)
		techniciansGroup.DELETE("/{id}", techniciansDelete)
		techniciansGroup.PUT("/{id}/"+string(models.SubResourceBlocked), techniciansBlocked)

		// vehicles
		vehiclesGroup := app.Group("/" + domain.TypeVehicle)
		vehiclesGroup.Use(AuthN, AuthZ)
		vehiclesGroup.GET("/", vehiclesList)
		vehiclesGroup.POST("/", vehiclesCreate)
		vehiclesGroup.GET("/{id}", vehiclesView)
		vehiclesGroup.PUT("/{id}", vehiclesUpdate)
		vehiclesGroup.DELETE("/{id}", vehiclesDelete)
		vehiclesGroup.PUT("/{id}/"+string(models.SubResourceMonitored), vehiclesMonitored)
		vehiclesGroup.GET("/{id}/"+string(models.SubResourceAttachments), vehiclesAttachmentsList)
		vehiclesGroup.POST("/{id}/"+string(models.SubResourceAttachments), vehiclesAttachmentsCreate)

		// vehicle attachments
		attachmentsGroup := app.Group("/" + domain.TypeVehicleAttachment)
		attachmentsGroup.Use(AuthN, AuthZ)
		attachmentsGroup.DELETE("/{id}", vehiclesAttachmentsDelete)

		// users
		usersGroup := app.Group("/" + domain.TypeUser)
		usersGroup.Use(AuthN, AuthZ)
		usersGroup.GET("/", usersList)
		usersGroup.GET("/{id}", usersView)
	}

	return app
}
