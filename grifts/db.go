package grifts

import (
	"errors"
	"fmt"
	"time"

	"github.com/gobuffalo/grift/grift"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/models"
)

var _ = grift.Namespace("db", func() {
	grift.Desc("seed", "Seeds a database")
	_ = grift.Add("seed", func(c *grift.Context) error {
		if domain.IsProduction() {
			return errors.New("refusing to seed a production database")
		}

		countUsers := models.Users{}
		count, err := models.DB.Count(countUsers)
		if err != nil {
			return err
		}

		if count > 0 {
			fmt.Printf("\nINFO: It appears that the grifts have already been run, "+
				"since there are already %v users.\n", count)
			return nil
		}

		return models.DB.Transaction(func(tx *pop.Connection) error {
			contractor, err := createContractorFixture(tx)
			if err != nil {
				return err
			}

			if err := createUserFixtures(tx, contractor); err != nil {
				return err
			}

			fixEntities, err := createEntityFixtures(tx, contractor)
			if err != nil {
				return err
			}

			provider, err := createProviderFixtures(tx, contractor)
			if err != nil {
				return err
			}

			if err := createTechnicianFixtures(tx, provider); err != nil {
				return err
			}

			if err := createDepositFixtures(tx, contractor); err != nil {
				return err
			}

			return createFleetFixtures(tx, contractor, fixEntities)
		})
	})
})

func createContractorFixture(tx *pop.Connection) (models.Contractor, error) {
	contractor := models.Contractor{Name: "Rastrear Monitoramento LTDA"}
	if err := contractor.Create(tx); err != nil {
		return contractor, err
	}
	return contractor, nil
}

func createUserFixtures(tx *pop.Connection, contractor models.Contractor) error {
	userUUIDs := []string{
		"e5447366-26b2-4256-b2ab-58c92c3d54cc",
		"3d79902f-c204-4922-b479-57f0ec41eabe",
		"babcf980-e1f0-42d3-b2b0-2e4704159f4f",
	}

	fixUsers := []*models.User{
		{
			ID:        uuid.FromStringOrNil(userUUIDs[0]),
			Email:     "carlos_silva@example.org",
			FirstName: "Carlos",
			LastName:  "Silva",
			AppRole:   models.AppRoleAdmin,
		},
		{
			ID:        uuid.FromStringOrNil(userUUIDs[1]),
			Email:     "denise_moraes@example.org",
			FirstName: "Denise",
			LastName:  "Moraes",
			AppRole:   models.AppRoleStaff,
		},
		{
			ID:        uuid.FromStringOrNil(userUUIDs[2]),
			Email:     "rubens_castro@example.org",
			FirstName: "Rubens",
			LastName:  "Castro",
			AppRole:   models.AppRoleCustomer,
		},
	}

	for _, user := range fixUsers {
		user.ContractorID = contractor.ID
		user.LastLoginUTC = time.Now().UTC()
		if err := user.Create(tx); err != nil {
			return fmt.Errorf("error creating user fixture, %w", err)
		}
		if _, err := user.CreateAccessToken(tx); err != nil {
			return err
		}
	}

	return nil
}

func createEntityFixtures(tx *pop.Connection, contractor models.Contractor) (models.Entities, error) {
	entities := models.Entities{
		{
			Name:        "Transportadora Horizonte LTDA",
			TradingName: "Horizonte Cargas",
			Document:    "11.222.333/0001-81",
			Customer:    true,
		},
		{
			Name:        "Distribuidora Vale Verde SA",
			TradingName: "Vale Verde",
			Customer:    true,
		},
		{
			Name:        "Associacao dos Transportadores do Sul",
			Association: true,
		},
	}

	for i := range entities {
		entities[i].ContractorID = contractor.ID
		if err := entities[i].Create(tx); err != nil {
			return entities, fmt.Errorf("error creating entity fixture, %w", err)
		}

		sub := models.Subsidiary{
			EntityID:   entities[i].ID,
			Name:       "Matriz",
			City:       "Curitiba",
			State:      "PR",
			PostalCode: "80010-000",
		}
		if err := sub.Create(tx); err != nil {
			return entities, fmt.Errorf("error creating subsidiary fixture, %w", err)
		}
		entities[i].Subsidiaries = models.Subsidiaries{sub}
	}

	return entities, nil
}

func createProviderFixtures(tx *pop.Connection, contractor models.Contractor) (models.ServiceProvider, error) {
	entity := models.Entity{
		ContractorID:    contractor.ID,
		Name:            "Instalacoes Rastrec ME",
		TradingName:     "Rastrec",
		ServiceProvider: true,
	}
	if err := entity.Create(tx); err != nil {
		return models.ServiceProvider{}, fmt.Errorf("error creating provider entity fixture, %w", err)
	}

	provider := models.ServiceProvider{
		EntityID:       entity.ID,
		OccupationArea: "installation",
		VisitFee:       7500,
		Latitude:       -25.4284,
		Longitude:      -49.2733,
	}
	if err := provider.Create(tx); err != nil {
		return provider, fmt.Errorf("error creating service provider fixture, %w", err)
	}

	account := models.Account{
		ServiceProviderID: provider.ID,
		Type:              api.AccountTypePix,
		PixKeyType:        api.PixKeyTypeEmail,
		PixKey:            "financeiro@rastrec.example.org",
	}
	if err := account.Create(tx); err != nil {
		return provider, fmt.Errorf("error creating account fixture, %w", err)
	}

	prices := models.ServicePrices{
		{ServiceProviderID: provider.ID, BillingType: models.BillingTypeInstallation, Value: 15000},
		{ServiceProviderID: provider.ID, BillingType: models.BillingTypeMaintenance, Value: 9000},
	}
	for i := range prices {
		if err := prices[i].Create(tx); err != nil {
			return provider, fmt.Errorf("error creating service price fixture, %w", err)
		}
	}

	tiers := models.DisplacementTiers{
		{ServiceProviderID: provider.ID, FromKm: 0, ToKm: 50, Value: 0},
		{ServiceProviderID: provider.ID, FromKm: 50, ToKm: 200, Value: 12000},
	}
	for i := range tiers {
		if err := tiers[i].Create(tx); err != nil {
			return provider, fmt.Errorf("error creating displacement tier fixture, %w", err)
		}
	}

	return provider, nil
}

func createTechnicianFixtures(tx *pop.Connection, provider models.ServiceProvider) error {
	technicians := models.Technicians{
		{
			ServiceProviderID: provider.ID,
			Name:              "Marcos Pereira",
			VehicleMake:       "Fiat",
			VehicleModel:      "Strada",
			VehiclePlate:      "BCD2E34",
		},
		{
			ServiceProviderID: provider.ID,
			Name:              "Ana Lucia Prado",
		},
	}
	for i := range technicians {
		if err := technicians[i].Create(tx); err != nil {
			return fmt.Errorf("error creating technician fixture, %w", err)
		}
	}
	return nil
}

func createDepositFixtures(tx *pop.Connection, contractor models.Contractor) error {
	deposits := models.Deposits{
		{ContractorID: contractor.ID, Name: "Estoque Central"},
		{ContractorID: contractor.ID, Name: "Bancada de Manutencao"},
	}
	for i := range deposits {
		if err := deposits[i].Create(tx); err != nil {
			return fmt.Errorf("error creating deposit fixture, %w", err)
		}
	}
	return nil
}

func createFleetFixtures(tx *pop.Connection, contractor models.Contractor, entities models.Entities) error {
	customer := entities[0]
	sub := customer.Subsidiaries[0]

	contract := models.Contract{
		ContractorID: contractor.ID,
		EntityID:     customer.ID,
		SubsidiaryID: sub.ID,
		StartAt:      nulls.NewTime(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)),
	}
	if err := contract.Create(tx); err != nil {
		return fmt.Errorf("error creating contract fixture, %w", err)
	}

	vehicles := models.Vehicles{
		{
			Plate:     "BRA2E19",
			Vin:       "1M8GDM9AXKP042788",
			Make:      "Volvo",
			Model:     "FH 540",
			ModelYear: 2022,
			Color:     "Branco",
			OwnerName: "Transportadora Horizonte LTDA",
			Monitored: true,
		},
		{
			Plate:     "QXD7F21",
			Make:      "Scania",
			Model:     "R 450",
			ModelYear: 2020,
			Color:     "Vermelho",
			OwnerName: "Transportadora Horizonte LTDA",
			Monitored: true,
		},
	}

	for i := range vehicles {
		vehicles[i].ContractorID = contractor.ID
		vehicles[i].EntityID = customer.ID
		vehicles[i].SubsidiaryID = sub.ID
		if err := vehicles[i].Create(tx); err != nil {
			return fmt.Errorf("error creating vehicle fixture, %w", err)
		}

		installation := models.Installation{
			ContractID: contract.ID,
			PayerID:    customer.ID,
			StartAt:    contract.StartAt,
		}
		if err := installation.Create(tx); err != nil {
			return fmt.Errorf("error creating installation fixture, %w", err)
		}

		equipment := models.Equipment{
			ContractorID:   contractor.ID,
			Serial:         fmt.Sprintf("TRK-%06d", 100100+i),
			Model:          "TR-300",
			IButtonMemory:  256,
			SiteWiring:     "under dash",
			VehicleID:      nulls.NewUUID(vehicles[i].ID),
			InstallationID: nulls.NewUUID(installation.ID),
		}
		if err := equipment.Create(tx); err != nil {
			return fmt.Errorf("error creating equipment fixture, %w", err)
		}

		record := models.InstallationRecord{
			InstallationID: installation.ID,
			EquipmentID:    equipment.ID,
			VehicleID:      vehicles[i].ID,
			InstalledAt:    contract.StartAt.Time,
		}
		if err := record.Create(tx); err != nil {
			return fmt.Errorf("error creating installation record fixture, %w", err)
		}

		if err := models.RefreshForEquipment(tx, equipment.ID); err != nil {
			return fmt.Errorf("error refreshing live grid fixture, %w", err)
		}
	}

	return nil
}
