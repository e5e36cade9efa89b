// +build development

// This build tag ensures that this file will not be included unless
//  the `development` tag is explicitly requested (which should be never)

package models

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"

	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/storage"
)

type FixturesConfig struct {
	NumberOfEntities      int
	SubsidiariesPerEntity int
	VehiclesPerEntity     int
}

// Fixtures hold slices of model objects created for test fixtures
type Fixtures struct {
	Contractors
	Entities
	Subsidiaries
	ServiceProviders
	Technicians
	Vehicles
	Equipments
	Deposits
	Contracts
	Installations
	Files
	UserAccessTokens
	Users
}

// TestBuffaloContext is a buffalo context user in tests
type TestBuffaloContext struct {
	buffalo.DefaultContext
	params map[interface{}]interface{}
}

// Value returns the value associated with the given key in the test context
func (b *TestBuffaloContext) Value(key interface{}) interface{} {
	return b.params[key]
}

// Set sets the value to be associated with the given key in the test context
func (b *TestBuffaloContext) Set(key string, val interface{}) {
	b.params[key] = val
}

// CreateTestContext sets the domain.ContextKeyCurrentUser to the user param in the TestBuffaloContext
func CreateTestContext(user User) buffalo.Context {
	ctx := &TestBuffaloContext{
		params: map[interface{}]interface{}{},
	}
	ctx.Set(domain.ContextKeyCurrentUser, user)
	return ctx
}

// CreateContractorFixture makes one tenant for everything else to hang off
func CreateContractorFixture(tx *pop.Connection) Contractor {
	contractor := Contractor{Name: "contractor " + randStr(8)}
	MustCreate(tx, &contractor)
	return contractor
}

// CreateUserFixtures generates any number of user records for testing, all
// admins under one new contractor. The access token for each user is the
// same as the user's Email.
func CreateUserFixtures(tx *pop.Connection, n int) Fixtures {
	contractor := CreateContractorFixture(tx)
	unique := domain.GetUUID().String()

	users := make(Users, n)
	accessTokenFixtures := make(UserAccessTokens, n)
	for i := range users {
		users[i].ContractorID = contractor.ID
		users[i].Email = fmt.Sprintf("user%d_%s@example.com", i, unique)
		iStr := strconv.Itoa(i)
		users[i].FirstName = "first" + iStr
		users[i].LastName = "last" + iStr
		users[i].LastLoginUTC = time.Now()
		users[i].AppRole = AppRoleAdmin
		MustCreate(tx, &users[i])

		accessTokenFixtures[i].UserID = users[i].ID
		accessTokenFixtures[i].TokenHash = HashAccessToken(users[i].Email)
		accessTokenFixtures[i].ExpiresAt = time.Now().UTC().Add(time.Minute * 60)
		accessTokenFixtures[i].LastUsedAt = nulls.NewTime(time.Now())
		MustCreate(tx, &accessTokenFixtures[i])
	}

	return Fixtures{
		Contractors:      Contractors{contractor},
		Users:            users,
		UserAccessTokens: accessTokenFixtures,
	}
}

// CreateEntityFixtures generates customer entities with subsidiaries under
// the given user's contractor.
// Uses FixturesConfig fields: NumberOfEntities, SubsidiariesPerEntity
func CreateEntityFixtures(tx *pop.Connection, actor User, config FixturesConfig) Fixtures {
	entities := make(Entities, config.NumberOfEntities)
	var subsidiaries Subsidiaries
	for i := range entities {
		entities[i].ContractorID = actor.ContractorID
		entities[i].Name = "entity " + randStr(8)
		entities[i].TradingName = "trading " + randStr(8)
		entities[i].Customer = true
		MustCreate(tx, &entities[i])

		for j := 0; j < config.SubsidiariesPerEntity; j++ {
			sub := Subsidiary{
				EntityID: entities[i].ID,
				Name:     fmt.Sprintf("branch %d %s", j, randStr(6)),
				City:     "Sao Paulo",
				State:    "SP",
			}
			MustCreate(tx, &sub)
			subsidiaries = append(subsidiaries, sub)
		}
		entities[i].Subsidiaries = subsidiaries[len(subsidiaries)-config.SubsidiariesPerEntity:]
	}

	return Fixtures{
		Entities:     entities,
		Subsidiaries: subsidiaries,
	}
}

// CreateServiceProviderFixture makes a provider entity with the supplement
// record, under the given user's contractor.
func CreateServiceProviderFixture(tx *pop.Connection, actor User) Fixtures {
	entity := Entity{
		ContractorID:    actor.ContractorID,
		Name:            "provider " + randStr(8),
		ServiceProvider: true,
	}
	MustCreate(tx, &entity)

	provider := ServiceProvider{
		EntityID:       entity.ID,
		OccupationArea: "installation",
		VisitFee:       5000,
	}
	MustCreate(tx, &provider)

	return Fixtures{
		Entities:         Entities{entity},
		ServiceProviders: ServiceProviders{provider},
	}
}

// CreateVehicleFixtures generates tracked vehicles with installed equipment
// under one customer entity, including the contract chain.
// Uses FixturesConfig fields: VehiclesPerEntity
func CreateVehicleFixtures(tx *pop.Connection, actor User, entity Entity, config FixturesConfig) Fixtures {
	var sub Subsidiary
	if err := tx.Where("entity_id = ?", entity.ID).First(&sub); err != nil {
		panic("entity fixture has no subsidiary, " + err.Error())
	}

	contract := Contract{
		ContractorID: actor.ContractorID,
		EntityID:     entity.ID,
		SubsidiaryID: sub.ID,
		StartAt:      nulls.NewTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	MustCreate(tx, &contract)

	vehicles := make(Vehicles, config.VehiclesPerEntity)
	equipments := make(Equipments, config.VehiclesPerEntity)
	installations := make(Installations, config.VehiclesPerEntity)
	for i := range vehicles {
		vehicles[i] = Vehicle{
			ContractorID: actor.ContractorID,
			EntityID:     entity.ID,
			SubsidiaryID: sub.ID,
			Plate:        fmt.Sprintf("ABC%04d", rand.Intn(10000)),
			Make:         "make " + randStr(5),
			Model:        "model " + randStr(5),
			OwnerName:    "owner " + randStr(8),
			Monitored:    true,
		}
		MustCreate(tx, &vehicles[i])

		installations[i] = Installation{
			ContractID: contract.ID,
			PayerID:    entity.ID,
			StartAt:    contract.StartAt,
		}
		MustCreate(tx, &installations[i])

		equipments[i] = Equipment{
			ContractorID:   actor.ContractorID,
			Serial:         randStr(12),
			Model:          "TR-300",
			IButtonMemory:  256,
			SiteWiring:     "under dash",
			VehicleID:      nulls.NewUUID(vehicles[i].ID),
			InstallationID: nulls.NewUUID(installations[i].ID),
		}
		MustCreate(tx, &equipments[i])

		record := InstallationRecord{
			InstallationID: installations[i].ID,
			EquipmentID:    equipments[i].ID,
			VehicleID:      vehicles[i].ID,
			InstalledAt:    contract.StartAt.Time,
		}
		MustCreate(tx, &record)
	}

	return Fixtures{
		Contracts:     Contracts{contract},
		Vehicles:      vehicles,
		Equipments:    equipments,
		Installations: installations,
	}
}

// CreateDepositFixture makes one equipment storage location
func CreateDepositFixture(tx *pop.Connection, actor User) Deposit {
	deposit := Deposit{
		ContractorID: actor.ContractorID,
		Name:         "deposit " + randStr(6),
	}
	MustCreate(tx, &deposit)
	return deposit
}

// CreateFileFixtures generates any number of file records for testing
//  all owned by the same user.
func CreateFileFixtures(tx *pop.Connection, n int, createdBy User) Fixtures {
	_ = storage.CreateS3Bucket()
	files := make(Files, n)
	for i := range files {
		f := File{
			ContractorID: createdBy.ContractorID,
			Content:      []byte("GIF87a"),
			Name:         fmt.Sprintf("file_%d.gif", i),
			CreatedByID:  createdBy.ID,
		}
		if err := f.Store(tx); err != nil {
			panic(fmt.Sprintf("failed to create file fixture, %s", err))
		}
		files[i] = f
	}

	return Fixtures{
		Files: files,
	}
}

// MustCreate saves a record to the database with validation. Panics if any error occurs.
func MustCreate(tx *pop.Connection, f interface{}) {
	// Use `create` instead of `tx.Create` to check validation rules
	err := create(tx, f)
	if err != nil {
		panic(fmt.Sprintf("error creating %T fixture, %s", f, err))
	}
}

func randStr(n int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = chars[rand.Int63()%int64(len(chars))]
	}
	return string(b)
}

func DestroyAll() {
	// children first, all the way up to the tenant
	for _, table := range []string{
		"live_grid_rows",
		"installation_records",
		"equipments",
		"installations",
		"contracts",
		"affiliations",
		"vehicle_attachments",
		"files",
		"vehicles",
		"technicians",
		"accounts",
		"service_prices",
		"displacement_tiers",
		"service_providers",
		"phones",
		"mailings",
		"contacts",
		"subsidiaries",
		"entities",
		"deposits",
		"user_access_tokens",
		"users",
		"contractors",
	} {
		if err := DB.RawQuery("DELETE FROM " + table).Exec(); err != nil {
			panic(err.Error())
		}
	}
}
