package models

import (
	"github.com/trackerp/fleet-api/api"
)

func (ms *ModelSuite) TestServiceProvider_CreateFromInput() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]
	entity := CreateServiceProviderFixture(ms.DB, actor).Entities[0]

	// the fixture provider is a different record, creating another against
	// the same entity exercises the full input path
	input := api.ServiceProviderInput{
		EntityID:       entity.ID,
		OccupationArea: "maintenance",
		VisitFee:       7500,
		Accounts: []api.AccountInput{
			{
				Type:       api.AccountTypePix,
				PixKeyType: api.PixKeyTypeEmail,
				PixKey:     "pagamentos@provider.com.br",
			},
		},
		ServicePrices: []api.ServicePriceInput{
			{BillingType: string(BillingTypeInstallation), Value: 12000},
		},
		DisplacementTiers: []api.DisplacementTierInput{
			{FromKm: 0, ToKm: 50, Value: 0},
			{FromKm: 50, ToKm: 200, Value: 8000},
		},
	}

	var provider ServiceProvider
	ms.NoError(provider.CreateFromInput(ms.DB, actor, input))
	ms.NoError(provider.LoadChildren(ms.DB))

	ms.Len(provider.Accounts, 1)
	ms.Len(provider.ServicePrices, 1)
	ms.Len(provider.DisplacementTiers, 2)
	ms.Equal(api.Currency(8000), provider.DisplacementTiers.FeeForDistance(120))
	ms.Equal(api.Currency(0), provider.DisplacementTiers.FeeForDistance(200),
		"ToKm is exclusive, 200km falls outside the band")
}

func (ms *ModelSuite) TestServiceProvider_CreateFromInput_wrongEntityType() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]
	customer := CreateEntityFixtures(ms.DB, actor, FixturesConfig{
		NumberOfEntities:      1,
		SubsidiariesPerEntity: 1,
	}).Entities[0]

	var provider ServiceProvider
	err := provider.CreateFromInput(ms.DB, actor, api.ServiceProviderInput{EntityID: customer.ID})
	ms.EqualAppError(api.AppError{
		Key:      api.ErrorServiceProviderMissingEntity,
		Category: api.CategoryUser,
	}, err)
}

func (ms *ModelSuite) TestServiceProvider_UpdateFromInput_reconciles() {
	actor := CreateUserFixtures(ms.DB, 1).Users[0]
	provider := CreateServiceProviderFixture(ms.DB, actor).ServiceProviders[0]

	seed := api.ServiceProviderInput{
		EntityID:       provider.EntityID,
		OccupationArea: provider.OccupationArea,
		VisitFee:       api.Currency(provider.VisitFee),
		ServicePrices: []api.ServicePriceInput{
			{BillingType: string(BillingTypeInstallation), Value: 10000},
			{BillingType: string(BillingTypeMaintenance), Value: 6000},
		},
		UpdatedAt: provider.UpdatedAt,
	}
	ms.NoError(provider.UpdateFromInput(ms.DB, seed))
	ms.NoError(provider.LoadChildren(ms.DB))
	ms.Len(provider.ServicePrices, 2)

	kept := provider.ServicePrices[0]
	resubmit := seed
	resubmit.ServicePrices = []api.ServicePriceInput{
		{ID: kept.ID, BillingType: string(kept.BillingType), Value: 11000},
	}
	resubmit.UpdatedAt = provider.UpdatedAt
	ms.NoError(provider.UpdateFromInput(ms.DB, resubmit))
	ms.NoError(provider.LoadChildren(ms.DB))

	ms.Len(provider.ServicePrices, 1, "the dropped price must be deleted")
	ms.Equal(kept.ID, provider.ServicePrices[0].ID)
	ms.Equal(11000, provider.ServicePrices[0].Value, "the kept price must be updated")
}
