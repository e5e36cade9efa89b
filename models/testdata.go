// +build development

package models

// InsertTestData seeds the baseline rows the action tests expect: one
// contractor with an admin user and a customer entity carrying a vehicle
// with installed equipment.
func InsertTestData() {
	user := CreateUserFixtures(DB, 1).Users[0]
	entity := CreateEntityFixtures(DB, user, FixturesConfig{
		NumberOfEntities:      1,
		SubsidiariesPerEntity: 1,
	}).Entities[0]
	CreateVehicleFixtures(DB, user, entity, FixturesConfig{VehiclesPerEntity: 1})
}
