package models

import (
	"time"

	"github.com/gobuffalo/nulls"
)

func (ms *ModelSuite) affiliationFixtures() (User, Entity, Entity) {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]

	association := Entity{
		ContractorID: actor.ContractorID,
		Name:         "Associação " + randStr(6),
		Association:  true,
	}
	MustCreate(ms.DB, &association)

	customer := CreateEntityFixtures(ms.DB, actor, FixturesConfig{
		NumberOfEntities:      1,
		SubsidiariesPerEntity: 1,
	}).Entities[0]

	return actor, association, customer
}

func (ms *ModelSuite) TestAffiliationJoin_newWindow() {
	_, association, customer := ms.affiliationFixtures()
	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	joined, err := AffiliationJoin(ms.DB, association.ID, customer.ID,
		customer.Subsidiaries[0].ID, at)
	ms.NoError(err)
	ms.Equal(at, joined.StartAt)
	ms.False(joined.EndAt.Valid, "new membership must be open ended")
}

func (ms *ModelSuite) TestAffiliationJoin_graceMerge() {
	_, association, customer := ms.affiliationFixtures()
	subID := customer.Subsidiaries[0].ID

	closed := Affiliation{
		AssociationID: association.ID,
		EntityID:      customer.ID,
		SubsidiaryID:  subID,
		StartAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndAt:         nulls.NewTime(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)),
	}
	MustCreate(ms.DB, &closed)

	// rejoining 14 days after the window closed reopens it
	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	joined, err := AffiliationJoin(ms.DB, association.ID, customer.ID, subID, at)
	ms.NoError(err)
	ms.Equal(closed.ID, joined.ID, "a window within the grace must be reused")
	ms.False(joined.EndAt.Valid, "the reused window must be reopened")

	count, err := ms.DB.Where("association_id = ?", association.ID).Count(&Affiliation{})
	ms.NoError(err)
	ms.Equal(1, count, "no duplicate window may be created")
}

func (ms *ModelSuite) TestAffiliationJoin_beyondGrace() {
	_, association, customer := ms.affiliationFixtures()
	subID := customer.Subsidiaries[0].ID

	closed := Affiliation{
		AssociationID: association.ID,
		EntityID:      customer.ID,
		SubsidiaryID:  subID,
		StartAt:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndAt:         nulls.NewTime(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
	}
	MustCreate(ms.DB, &closed)

	// rejoining months later opens a fresh window
	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	joined, err := AffiliationJoin(ms.DB, association.ID, customer.ID, subID, at)
	ms.NoError(err)
	ms.NotEqual(closed.ID, joined.ID)

	count, err := ms.DB.Where("association_id = ?", association.ID).Count(&Affiliation{})
	ms.NoError(err)
	ms.Equal(2, count)
}

func (ms *ModelSuite) TestAffiliationUnjoin() {
	_, association, customer := ms.affiliationFixtures()
	subID := customer.Subsidiaries[0].ID

	open := Affiliation{
		AssociationID: association.ID,
		EntityID:      customer.ID,
		SubsidiaryID:  subID,
		StartAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	MustCreate(ms.DB, &open)

	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	ms.NoError(AffiliationUnjoin(ms.DB, association.ID, customer.ID, subID, at))

	var ended Affiliation
	ms.NoError(ms.DB.Find(&ended, open.ID))
	ms.True(ended.EndAt.Valid)
	ms.Equal("2026-06-14", ended.EndAt.Time.Format("2006-01-02"),
		"the membership must end the day before the transfer")
}

func (ms *ModelSuite) TestAffiliationUnjoin_startedAfterDate() {
	_, association, customer := ms.affiliationFixtures()
	subID := customer.Subsidiaries[0].ID

	open := Affiliation{
		AssociationID: association.ID,
		EntityID:      customer.ID,
		SubsidiaryID:  subID,
		StartAt:       time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	MustCreate(ms.DB, &open)

	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	ms.NoError(AffiliationUnjoin(ms.DB, association.ID, customer.ID, subID, at))

	var ended Affiliation
	ms.NoError(ms.DB.Find(&ended, open.ID))
	ms.Equal(ended.StartAt, ended.EndAt.Time,
		"a membership that began after the date collapses to zero days")
}

func (ms *ModelSuite) TestAffiliationUnjoin_noOpenWindow() {
	_, association, customer := ms.affiliationFixtures()

	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	ms.NoError(AffiliationUnjoin(ms.DB, association.ID, customer.ID,
		customer.Subsidiaries[0].ID, at), "unjoin without a membership is not an error")
}
