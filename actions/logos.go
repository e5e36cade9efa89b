package actions

import (
	"fmt"
	"net/http"

	"github.com/gobuffalo/buffalo"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/log"
	"github.com/trackerp/fleet-api/models"
	"github.com/trackerp/fleet-api/public"
	"github.com/trackerp/fleet-api/storage"
)

const fallbackLogoFile = "logo_unknown.png"

// swagger:operation GET /logos/{id}/{variant} Logos LogosView
// LogosView
//
// tenant logo by contractor UUID and variant, N for the normal image and I
// for the inverted one. Unknown contractors and missing uploads get the
// bundled placeholder so record screens never break.
// ---
//
//	responses:
//	  '302':
//	    description: redirect to the stored logo
//	  '200':
//	    description: the placeholder image
func logosView(c buffalo.Context) error {
	variant := c.Param("variant")
	if variant != "I" {
		variant = "N"
	}

	contractorID, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return fallbackLogo(c)
	}

	var contractor models.Contractor
	if err := contractor.FindByID(models.Tx(c), contractorID); err != nil {
		if domain.IsOtherThanNoRows(err) {
			return reportError(c, api.NewAppError(err, api.ErrorQueryFailure, api.CategoryInternal))
		}
		return fallbackLogo(c)
	}

	key := contractor.LogoKey(variant)
	found, err := storage.FileExists(key)
	if err != nil {
		log.Errorf("failed to check logo %s: %s", key, err)
		return fallbackLogo(c)
	}
	if !found {
		return fallbackLogo(c)
	}

	objectUrl, err := storage.GetFileURL(key)
	if err != nil {
		return reportError(c, api.NewAppError(err, api.ErrorLogoNotFound, api.CategoryInternal))
	}

	setLogoCacheHeader(c)
	return c.Redirect(http.StatusFound, objectUrl.Url)
}

func fallbackLogo(c buffalo.Context) error {
	content, err := public.EFS().ReadFile(fallbackLogoFile)
	if err != nil {
		return reportError(c, api.NewAppError(err, api.ErrorLogoNotFound, api.CategoryInternal))
	}

	setLogoCacheHeader(c)
	response := c.Response()
	response.Header().Set("Content-Type", "image/png")
	response.WriteHeader(http.StatusOK)
	_, err = response.Write(content)
	return err
}

func setLogoCacheHeader(c buffalo.Context) {
	maxAge := int(domain.LogoCacheDuration.Seconds())
	c.Response().Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
}
