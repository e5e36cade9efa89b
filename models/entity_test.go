package models

import (
	"net/url"
	"strconv"
	"time"

	"github.com/trackerp/fleet-api/api"
)

func (ms *ModelSuite) TestEntity_CreateFromInput() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]

	input := api.EntityInput{
		Name:        "Transportadora Andrade",
		TradingName: "Andrade Log",
		Document:    "11.222.333/0001-81",
		Customer:    true,
		Subsidiaries: []api.SubsidiaryInput{
			{
				Name:       "Matriz",
				City:       "São Paulo",
				State:      "SP",
				PostalCode: "01310-100",
				Phones:     []api.PhoneInput{{Number: "(11) 3251-0000"}},
				Mailings:   []api.MailingInput{{Address: "contato@andrade.com.br"}},
				Contacts:   []api.ContactInput{{Name: "Marcos", Phone: "(11) 99888-0000"}},
			},
		},
	}

	var entity Entity
	ms.NoError(entity.CreateFromInput(ms.DB, actor, input))

	ms.Equal(actor.ContractorID, entity.ContractorID)
	ms.Equal("11222333000181", entity.Document, "document must be stored stripped")
	ms.Len(entity.Subsidiaries, 1)

	sub := entity.Subsidiaries[0]
	ms.NoError(sub.LoadChildren(ms.DB))
	ms.Len(sub.Phones, 1)
	ms.Len(sub.Mailings, 1)
	ms.Len(sub.Contacts, 1)
}

func (ms *ModelSuite) TestEntity_CreateFromInput_requiresSubsidiary() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]

	var entity Entity
	err := entity.CreateFromInput(ms.DB, actor, api.EntityInput{Name: "no branches"})
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorSubsidiaryLastRemaining,
		Category: api.CategoryUser,
	}, err)
}

func (ms *ModelSuite) TestEntity_UpdateFromInput_reconciles() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]
	entity := CreateEntityFixtures(ms.DB, actor, FixturesConfig{
		NumberOfEntities:      1,
		SubsidiariesPerEntity: 2,
	}).Entities[0]
	kept := entity.Subsidiaries[0]

	input := api.EntityInput{
		Name:     entity.Name,
		Customer: true,
		Subsidiaries: []api.SubsidiaryInput{
			{ID: kept.ID, Name: "renamed branch", City: kept.City, State: kept.State},
			{Name: "brand new branch", City: "Campinas", State: "SP"},
		},
		UpdatedAt: entity.UpdatedAt,
	}
	ms.NoError(entity.UpdateFromInput(ms.DB, input))

	var stored Subsidiaries
	ids, err := stored.IDsForEntity(ms.DB, entity.ID)
	ms.NoError(err)
	ms.Len(ids, 2, "one subsidiary added, one removed, one kept")

	var renamed Subsidiary
	ms.NoError(renamed.FindByID(ms.DB, kept.ID))
	ms.Equal("renamed branch", renamed.Name)

	removedID := entity.Subsidiaries[1].ID
	for _, id := range ids {
		ms.NotEqual(removedID, id, "dropped subsidiary must be deleted")
	}
}

func (ms *ModelSuite) TestEntity_UpdateFromInput_stale() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]
	entity := CreateEntityFixtures(ms.DB, actor, FixturesConfig{
		NumberOfEntities:      1,
		SubsidiariesPerEntity: 1,
	}).Entities[0]

	input := api.EntityInput{
		Name:         "someone else got here first",
		Customer:     true,
		Subsidiaries: []api.SubsidiaryInput{{ID: entity.Subsidiaries[0].ID, Name: "branch"}},
		UpdatedAt:    entity.UpdatedAt.Add(-time.Hour),
	}
	err := entity.UpdateFromInput(ms.DB, input)
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorRecordStale,
		Category: api.CategoryConflict,
	}, err)
}

func (ms *ModelSuite) TestEntity_UpdateFromInput_lastSubsidiary() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]
	entity := CreateEntityFixtures(ms.DB, actor, FixturesConfig{
		NumberOfEntities:      1,
		SubsidiariesPerEntity: 1,
	}).Entities[0]

	input := api.EntityInput{
		Name:      entity.Name,
		Customer:  true,
		UpdatedAt: entity.UpdatedAt,
	}
	err := entity.UpdateFromInput(ms.DB, input)
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorSubsidiaryLastRemaining,
		Category: api.CategoryUser,
	}, err)
}

func (ms *ModelSuite) TestEntities_RowsForGrid() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]
	fixtures := CreateEntityFixtures(ms.DB, actor, FixturesConfig{
		NumberOfEntities:      3,
		SubsidiariesPerEntity: 1,
	})

	target := fixtures.Entities[1]
	target.Name = "ACMÉ Frotas"
	ms.NoError(target.Update(ms.DB))

	// a second tenant's rows must never show up
	otherActor := CreateUserFixtures(ms.DB, 1).Users[0]
	CreateEntityFixtures(ms.DB, otherActor, FixturesConfig{
		NumberOfEntities:      2,
		SubsidiariesPerEntity: 1,
	})

	params := gridParams("name", "acme", api.BlockedFilterAll, 0, 10)

	var entities Entities
	rows, total, filtered, err := entities.RowsForGrid(ms.DB, actor, params)
	ms.NoError(err)
	ms.Equal(3, total, "recordsTotal must be the unfiltered tenant count")
	ms.Equal(1, filtered, "recordsFiltered must be the matched count")
	ms.Len(rows, 1)
	ms.Equal(target.ID, rows[0].ID, "accent-insensitive search missed the row")
}

func (ms *ModelSuite) TestEntities_RowsForGrid_blockedFilter() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]
	fixtures := CreateEntityFixtures(ms.DB, actor, FixturesConfig{
		NumberOfEntities:      2,
		SubsidiariesPerEntity: 1,
	})
	ms.NoError(fixtures.Entities[0].SetBlocked(ms.DB, true))

	var entities Entities
	rows, _, filtered, err := entities.RowsForGrid(ms.DB, actor,
		gridParams("", "", api.BlockedFilterOnly, 0, 10))
	ms.NoError(err)
	ms.Equal(1, filtered)
	ms.Len(rows, 1)
	ms.Equal(fixtures.Entities[0].ID, rows[0].ID)

	rows, _, filtered, err = entities.RowsForGrid(ms.DB, actor,
		gridParams("", "", api.BlockedFilterActive, 0, 10))
	ms.NoError(err)
	ms.Equal(1, filtered)
	ms.Equal(fixtures.Entities[1].ID, rows[0].ID)
}

func (ms *ModelSuite) TestEntity_Destroy_lastSubsidiaryRule() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]
	entity := CreateEntityFixtures(ms.DB, actor, FixturesConfig{
		NumberOfEntities:      1,
		SubsidiariesPerEntity: 2,
	}).Entities[0]

	ms.NoError(entity.Destroy(ms.DB))

	var gone Entity
	err := gone.FindByID(ms.DB, entity.ID)
	ms.Error(err, "destroyed entity must not be found")

	var orphans Subsidiaries
	ids, err := orphans.IDsForEntity(ms.DB, entity.ID)
	ms.NoError(err)
	ms.Len(ids, 0, "subsidiaries must be destroyed with the entity")
}

// gridParams builds grid query parameters the way the request layer does
func gridParams(field, value string, blocked api.BlockedFilter, start, length int) api.GridParams {
	values := url.Values{}
	values.Set("draw", "1")
	values.Set("start", strconv.Itoa(start))
	values.Set("length", strconv.Itoa(length))
	values.Set("searchField", field)
	values.Set("searchValue", value)
	values.Set("blocked", string(blocked))
	return api.NewGridParams(values)
}
