package actions

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/models"
)

func (as *ActionSuite) Test_serviceProvidersCreate() {
	actor := models.CreateUserFixtures(as.DB, 1).Users[0]

	providerEntity := models.Entity{
		ContractorID:    actor.ContractorID,
		Name:            "Instalador Tecnico ME",
		ServiceProvider: true,
	}
	models.MustCreate(as.DB, &providerEntity)

	customerEntity := models.CreateEntityFixtures(as.DB, actor, models.FixturesConfig{
		NumberOfEntities:      1,
		SubsidiariesPerEntity: 1,
	}).Entities[0]

	goodInput := api.ServiceProviderInput{
		EntityID:       providerEntity.ID,
		OccupationArea: "installation",
		VisitFee:       7500,
		Accounts: []api.AccountInput{
			{Type: api.AccountTypePix, PixKeyType: api.PixKeyTypeEmail, PixKey: "pay@example.com"},
		},
		ServicePrices: []api.ServicePriceInput{
			{BillingType: "visit", Value: 7500},
		},
		DisplacementTiers: []api.DisplacementTierInput{
			{FromKm: 0, ToKm: 50, Value: 2500},
		},
	}

	badPix := goodInput
	badPix.Accounts = []api.AccountInput{
		{Type: api.AccountTypePix, PixKeyType: api.PixKeyTypeEmail, PixKey: "not-an-email"},
	}

	wrongEntity := goodInput
	wrongEntity.EntityID = customerEntity.ID

	tests := []struct {
		name         string
		input        api.ServiceProviderInput
		wantStatus   int
		wantContains []string
	}{
		{
			name:         "entity not flagged as provider",
			input:        wrongEntity,
			wantStatus:   http.StatusBadRequest,
			wantContains: []string{string(api.ErrorServiceProviderMissingEntity)},
		},
		{
			name:         "bad pix key",
			input:        badPix,
			wantStatus:   http.StatusBadRequest,
			wantContains: []string{string(api.ErrorValidation), "pix_key_invalid_email"},
		},
		{
			name:       "good input",
			input:      goodInput,
			wantStatus: http.StatusOK,
			wantContains: []string{
				`"occupation_area":"installation"`,
				`"entity_id":"` + providerEntity.ID.String(),
				`"pix_key":"pay@example.com"`,
			},
		},
	}
	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/service-providers")
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
			res := req.Post(tt.input)

			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			as.verifyResponseData(tt.wantContains, body, "Service Providers Create")
		})
	}
}

func (as *ActionSuite) Test_serviceProvidersList() {
	actor := models.CreateUserFixtures(as.DB, 1).Users[0]
	f := models.CreateServiceProviderFixture(as.DB, actor)
	provider := f.ServiceProviders[0]

	req := as.JSON("/service-providers")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
	res := req.Get()

	body := res.Body.String()
	as.Equal(http.StatusOK, res.Code, "incorrect status code returned, body: %s", body)
	as.Contains(body, provider.ID.String())
	as.Contains(body, f.Entities[0].Name)
}

func (as *ActionSuite) Test_serviceProvidersDelete() {
	actor := models.CreateUserFixtures(as.DB, 1).Users[0]
	f := models.CreateServiceProviderFixture(as.DB, actor)
	provider := f.ServiceProviders[0]

	req := as.JSON("/service-providers/" + provider.ID.String())
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
	res := req.Delete()

	as.Equal(http.StatusNoContent, res.Code)

	var remaining models.ServiceProviders
	as.NoError(as.DB.Where("id = ?", provider.ID).All(&remaining))
	as.Len(remaining, 0, "provider should be gone")

	// the underlying entity record stays
	var entity models.Entity
	as.NoError(as.DB.Find(&entity, f.Entities[0].ID))
}
