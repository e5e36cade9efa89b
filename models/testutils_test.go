package models

import (
	"testing"
)

func (ms *ModelSuite) TestCreateEntityFixtures() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]

	tests := []struct {
		name             string
		config           FixturesConfig
		wantEntities     int
		wantSubsidiaries int
	}{
		{
			name: "single entity, single subsidiary",
			config: FixturesConfig{
				NumberOfEntities:      1,
				SubsidiariesPerEntity: 1,
			},
			wantEntities:     1,
			wantSubsidiaries: 1,
		},
		{
			name: "multiple entities, multiple subsidiaries each",
			config: FixturesConfig{
				NumberOfEntities:      3,
				SubsidiariesPerEntity: 2,
			},
			wantEntities:     3,
			wantSubsidiaries: 6,
		},
	}
	for _, tt := range tests {
		ms.T().Run(tt.name, func(t *testing.T) {
			got := CreateEntityFixtures(ms.DB, actor, tt.config)
			ms.Equal(tt.wantEntities, len(got.Entities), "incorrect number of Entities")
			ms.Equal(tt.wantSubsidiaries, len(got.Subsidiaries), "incorrect number of Subsidiaries")

			ms.Equal(tt.config.SubsidiariesPerEntity, len(got.Entities[0].Subsidiaries),
				"Entity.Subsidiaries is not hydrated")
			ms.Equal(actor.ContractorID, got.Entities[0].ContractorID,
				"entity fixture landed in the wrong contractor")
		})
	}
}

func (ms *ModelSuite) TestCreateVehicleFixtures() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]
	entity := CreateEntityFixtures(ms.DB, actor, FixturesConfig{
		NumberOfEntities:      1,
		SubsidiariesPerEntity: 1,
	}).Entities[0]

	got := CreateVehicleFixtures(ms.DB, actor, entity, FixturesConfig{VehiclesPerEntity: 2})

	ms.Equal(2, len(got.Vehicles), "incorrect number of Vehicles")
	ms.Equal(2, len(got.Equipments), "incorrect number of Equipments")
	ms.Equal(2, len(got.Installations), "incorrect number of Installations")
	ms.Equal(1, len(got.Contracts), "incorrect number of Contracts")

	for i := range got.Equipments {
		ms.True(got.Equipments[i].InService(), "equipment fixture is not in service")

		var record InstallationRecord
		ms.NoError(record.OpenForEquipment(ms.DB, got.Equipments[i].ID),
			"equipment fixture has no open installation record")
	}
}
