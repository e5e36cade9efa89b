package actions

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/models"
)

func (as *ActionSuite) Test_techniciansCreate() {
	actor := models.CreateUserFixtures(as.DB, 1).Users[0]
	provider := models.CreateServiceProviderFixture(as.DB, actor).ServiceProviders[0]

	otherActor := models.CreateUserFixtures(as.DB, 1).Users[0]
	otherProvider := models.CreateServiceProviderFixture(as.DB, otherActor).ServiceProviders[0]

	goodInput := api.TechnicianInput{
		ServiceProviderID: provider.ID,
		Name:              "Joao Batista",
		Document:          "529.982.247-25",
		VehicleMake:       "Fiat",
		VehicleModel:      "Fiorino",
		VehiclePlate:      "abc1d23",
		Phones: []api.PhoneInput{
			{Number: "+55 41 99999-0000"},
		},
	}

	badDocument := goodInput
	badDocument.Document = "111.111.111-11"

	foreignProvider := goodInput
	foreignProvider.ServiceProviderID = otherProvider.ID

	tests := []struct {
		name         string
		input        api.TechnicianInput
		wantStatus   int
		wantContains []string
	}{
		{
			name:         "bad document check digits",
			input:        badDocument,
			wantStatus:   http.StatusBadRequest,
			wantContains: []string{string(api.ErrorValidation)},
		},
		{
			name:         "provider under another contractor",
			input:        foreignProvider,
			wantStatus:   http.StatusNotFound,
			wantContains: []string{string(api.ErrorNotAuthorized)},
		},
		{
			name:       "good input",
			input:      goodInput,
			wantStatus: http.StatusOK,
			wantContains: []string{
				`"name":"Joao Batista"`,
				`"vehicle_plate":"ABC1D23"`,
				`"number":"+55 41 99999-0000"`,
			},
		},
	}
	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/technicians")
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
			res := req.Post(tt.input)

			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			as.verifyResponseData(tt.wantContains, body, "Technicians Create")
		})
	}
}

func (as *ActionSuite) Test_techniciansList() {
	actor := models.CreateUserFixtures(as.DB, 1).Users[0]
	provider := models.CreateServiceProviderFixture(as.DB, actor).ServiceProviders[0]

	technician := models.Technician{
		ServiceProviderID: provider.ID,
		Name:              "Marcos Pereira",
	}
	models.MustCreate(as.DB, &technician)

	otherActor := models.CreateUserFixtures(as.DB, 1).Users[0]
	otherProvider := models.CreateServiceProviderFixture(as.DB, otherActor).ServiceProviders[0]
	otherTechnician := models.Technician{
		ServiceProviderID: otherProvider.ID,
		Name:              "Alheio Distante",
	}
	models.MustCreate(as.DB, &otherTechnician)

	req := as.JSON("/technicians?draw=3")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
	res := req.Get()

	body := res.Body.String()
	as.Equal(http.StatusOK, res.Code, "incorrect status code returned, body: %s", body)
	as.Contains(body, `"draw":3`)
	as.Contains(body, `"recordsTotal":1`)
	as.Contains(body, technician.ID.String())
	as.NotContains(body, otherTechnician.ID.String())
}

func (as *ActionSuite) Test_techniciansBlocked() {
	actor := models.CreateUserFixtures(as.DB, 1).Users[0]
	provider := models.CreateServiceProviderFixture(as.DB, actor).ServiceProviders[0]

	technician := models.Technician{
		ServiceProviderID: provider.ID,
		Name:              "Marcos Pereira",
	}
	models.MustCreate(as.DB, &technician)

	req := as.JSON("/technicians/%s/blocked", technician.ID)
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
	res := req.Put(api.TechnicianBlockedInput{Blocked: true})

	body := res.Body.String()
	as.Equal(http.StatusOK, res.Code, "incorrect status code returned, body: %s", body)
	as.Contains(body, `"blocked":true`)

	var fromDB models.Technician
	as.NoError(fromDB.FindByID(as.DB, technician.ID))
	as.True(fromDB.Blocked, "blocked flag was not persisted")
}
