package actions

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/models"
)

func (as *ActionSuite) vehicleFixtures(nVehicles int) (models.User, models.Fixtures) {
	actor := models.CreateUserFixtures(as.DB, 1).Users[0]
	entity := models.CreateEntityFixtures(as.DB, actor, models.FixturesConfig{
		NumberOfEntities:      1,
		SubsidiariesPerEntity: 1,
	}).Entities[0]
	vf := models.CreateVehicleFixtures(as.DB, actor, entity, models.FixturesConfig{
		VehiclesPerEntity: nVehicles,
	})
	vf.Entities = models.Entities{entity}
	vf.Subsidiaries = entity.Subsidiaries
	return actor, vf
}

func (as *ActionSuite) Test_vehiclesList() {
	actor, f := as.vehicleFixtures(3)

	otherActor, otherFixtures := as.vehicleFixtures(1)
	_ = otherActor
	otherVehicle := otherFixtures.Vehicles[0]

	req := as.JSON("/vehicles?draw=2")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
	res := req.Get()

	body := res.Body.String()
	as.Equal(http.StatusOK, res.Code, "incorrect status code returned, body: %s", body)

	var page api.GridResponse
	as.NoError(as.decodeBody(res.Body.Bytes(), &page))
	as.Equal(2, page.Draw)
	as.Equal(3, page.RecordsTotal)

	for _, v := range f.Vehicles {
		as.Contains(body, v.Plate, "vehicle missing from grid page")
	}
	as.NotContains(body, otherVehicle.ID.String(), "other contractor's vehicle must not appear")
}

func (as *ActionSuite) Test_vehiclesCreate() {
	actor, f := as.vehicleFixtures(0)
	entity := f.Entities[0]
	sub := f.Subsidiaries[0]

	goodInput := api.VehicleInput{
		EntityID:     entity.ID,
		SubsidiaryID: sub.ID,
		Plate:        "XYZ9876",
		Vin:          "1M8GDM9AXKP042788",
		Make:         "VW",
		Model:        "Gol",
		ModelYear:    2020,
		OwnerName:    "Maria Silva",
		OwnerPhones:  []api.PhoneInput{{Number: "+55 41 99999-0001"}},
	}

	badVin := goodInput
	badVin.Vin = "1M8GDM9AXKP042789"

	tests := []struct {
		name         string
		input        api.VehicleInput
		wantStatus   int
		wantContains []string
	}{
		{
			name:         "bad vin check digit",
			input:        badVin,
			wantStatus:   http.StatusBadRequest,
			wantContains: []string{string(api.ErrorValidation)},
		},
		{
			name:       "good input",
			input:      goodInput,
			wantStatus: http.StatusOK,
			wantContains: []string{
				`"plate":"XYZ9876"`,
				`"vin":"1M8GDM9AXKP042788"`,
				`"entity_id":"` + entity.ID.String(),
			},
		},
	}
	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/vehicles")
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
			res := req.Post(tt.input)

			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			as.verifyResponseData(tt.wantContains, body, "Vehicles Create")
		})
	}
}

func (as *ActionSuite) Test_vehiclesMonitored() {
	actor, f := as.vehicleFixtures(1)
	vehicle := f.Vehicles[0]

	req := as.JSON("/vehicles/" + vehicle.ID.String() + "/monitored")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
	res := req.Put(api.VehicleMonitoredInput{Monitored: false})

	body := res.Body.String()
	as.Equal(http.StatusOK, res.Code, "incorrect status code returned, body: %s", body)
	as.Contains(body, `"monitored":false`)

	var fromDB models.Vehicle
	as.NoError(as.DB.Find(&fromDB, vehicle.ID))
	as.False(fromDB.Monitored, "monitored flag not persisted")
}

func (as *ActionSuite) Test_vehiclesAttachments() {
	actor, f := as.vehicleFixtures(1)
	vehicle := f.Vehicles[0]
	file := models.CreateFileFixtures(as.DB, 1, actor).Files[0]

	// attach
	req := as.JSON("/vehicles/" + vehicle.ID.String() + "/attachments")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
	res := req.Post(api.VehicleAttachmentInput{FileID: file.ID})

	body := res.Body.String()
	as.Equal(http.StatusOK, res.Code, "incorrect status code returned, body: %s", body)
	as.Contains(body, `"original_name":"`+file.Name+`"`)

	var attachment models.VehicleAttachment
	as.NoError(as.DB.Where("vehicle_id = ?", vehicle.ID).First(&attachment))

	// attaching the same file again must fail
	req = as.JSON("/vehicles/" + vehicle.ID.String() + "/attachments")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
	res = req.Post(api.VehicleAttachmentInput{FileID: file.ID})
	as.Equal(http.StatusBadRequest, res.Code)
	as.Contains(res.Body.String(), string(api.ErrorFileAlreadyLinked))

	// list
	req = as.JSON("/vehicles/" + vehicle.ID.String() + "/attachments")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
	res = req.Get()
	as.Equal(http.StatusOK, res.Code)
	as.Contains(res.Body.String(), attachment.ID.String())

	// delete
	req = as.JSON("/vehicle-attachments/" + attachment.ID.String())
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
	res = req.Delete()
	as.Equal(http.StatusNoContent, res.Code)

	var remaining models.VehicleAttachments
	as.NoError(as.DB.Where("vehicle_id = ?", vehicle.ID).All(&remaining))
	as.Len(remaining, 0, "attachment should be gone")
}

func (as *ActionSuite) Test_exportsVehicles() {
	actor, f := as.vehicleFixtures(2)
	_ = f

	req := as.JSON("/exports/vehicles")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)
	res := req.Get()

	as.Equal(http.StatusOK, res.Code)
	as.Equal(
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		res.Header().Get("Content-Type"))
	as.Contains(res.Header().Get("Content-Disposition"), "vehicles.xlsx")
	as.NotEmpty(res.Body.Bytes(), "spreadsheet body should not be empty")
}
