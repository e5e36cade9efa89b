package models

import (
	"testing"

	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
)

func (ms *ModelSuite) Test_validateModel_AccountPixKey() {
	providerID := domain.GetUUID()

	pix := func(keyType api.PixKeyType, key string) Account {
		return Account{
			ServiceProviderID: providerID,
			Type:              api.AccountTypePix,
			PixKeyType:        keyType,
			PixKey:            key,
		}
	}

	tests := []struct {
		name    string
		account Account
		wantErr bool
	}{
		{
			name: "bank account skips pix checks",
			account: Account{
				ServiceProviderID: providerID,
				Type:              api.AccountTypeBank,
				BankCode:          "341",
				Branch:            "0001",
				Number:            "12345-6",
				PixKeyType:        api.PixKeyTypeNone,
			},
			wantErr: false,
		},
		{
			name:    "cpf key with valid check digits",
			account: pix(api.PixKeyTypeCpfCnpj, "111.444.777-35"),
			wantErr: false,
		},
		{
			name:    "cpf key with bad check digits",
			account: pix(api.PixKeyTypeCpfCnpj, "111.444.777-34"),
			wantErr: true,
		},
		{
			name:    "cnpj key with valid check digits",
			account: pix(api.PixKeyTypeCpfCnpj, "11.222.333/0001-81"),
			wantErr: false,
		},
		{
			name:    "document key with a stray length",
			account: pix(api.PixKeyTypeCpfCnpj, "11144477735"),
			wantErr: true,
		},
		{
			name:    "email key",
			account: pix(api.PixKeyTypeEmail, "pay@example.com.br"),
			wantErr: false,
		},
		{
			name:    "email key without a domain",
			account: pix(api.PixKeyTypeEmail, "pay@"),
			wantErr: true,
		},
		{
			name:    "phone key at minimum length",
			account: pix(api.PixKeyTypePhone, "+5511987654321"),
			wantErr: false,
		},
		{
			name:    "phone key too short",
			account: pix(api.PixKeyTypePhone, "11987654321"),
			wantErr: true,
		},
		{
			name:    "random key",
			account: pix(api.PixKeyTypeRandom, "123e4567-e89b-12d3-a456-426614174000"),
			wantErr: false,
		},
		{
			name:    "random key empty",
			account: pix(api.PixKeyTypeRandom, ""),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		ms.T().Run(tt.name, func(t *testing.T) {
			vErrs := validateModel(&tt.account)
			if tt.wantErr {
				ms.True(vErrs.HasAny(), "expected a validation error, got none")
				return
			}
			ms.False(vErrs.HasAny(), "unexpected validation error: %s", flattenPopErrors(vErrs))
		})
	}
}

func (ms *ModelSuite) Test_validateModel_SubsidiaryStateRegistration() {
	sub := func(state, registration string) Subsidiary {
		return Subsidiary{
			EntityID:          domain.GetUUID(),
			Name:              "branch",
			State:             state,
			StateRegistration: registration,
		}
	}

	tests := []struct {
		name       string
		subsidiary Subsidiary
		wantErr    bool
	}{
		{
			name:       "empty registration is accepted",
			subsidiary: sub("SP", ""),
			wantErr:    false,
		},
		{
			name:       "exempt registration",
			subsidiary: sub("RJ", "ISENTO"),
			wantErr:    false,
		},
		{
			name:       "valid sp registration",
			subsidiary: sub("SP", "110.042.490.114"),
			wantErr:    false,
		},
		{
			name:       "sp registration with bad check digit",
			subsidiary: sub("SP", "110.042.490.113"),
			wantErr:    true,
		},
		{
			name:       "valid rj registration",
			subsidiary: sub("RJ", "99.370.03-3"),
			wantErr:    false,
		},
	}
	for _, tt := range tests {
		ms.T().Run(tt.name, func(t *testing.T) {
			vErrs := validateModel(&tt.subsidiary)
			ms.Equal(tt.wantErr, vErrs.HasAny(), flattenPopErrors(vErrs))
		})
	}
}

func (ms *ModelSuite) Test_validateModel_VehicleVin() {
	vehicle := func(vin string, year int) Vehicle {
		return Vehicle{
			ContractorID: domain.GetUUID(),
			EntityID:     domain.GetUUID(),
			SubsidiaryID: domain.GetUUID(),
			Plate:        "ABC1234",
			Vin:          vin,
			ModelYear:    year,
		}
	}

	tests := []struct {
		name    string
		vehicle Vehicle
		wantErr bool
	}{
		{
			name:    "empty vin is accepted",
			vehicle: vehicle("", 2020),
			wantErr: false,
		},
		{
			name:    "valid check digit",
			vehicle: vehicle("1M8GDM9AXKP042788", 1989),
			wantErr: false,
		},
		{
			name:    "wrong check digit",
			vehicle: vehicle("1M8GDM9A1KP042788", 1989),
			wantErr: true,
		},
		{
			name:    "pre-1981 vin is not checked",
			vehicle: vehicle("1M8GDM9A1KP042788", 1975),
			wantErr: false,
		},
	}
	for _, tt := range tests {
		ms.T().Run(tt.name, func(t *testing.T) {
			vErrs := validateModel(&tt.vehicle)
			ms.Equal(tt.wantErr, vErrs.HasAny(), flattenPopErrors(vErrs))
		})
	}
}

func (ms *ModelSuite) Test_validateModel_DisplacementTier() {
	tier := DisplacementTier{
		ServiceProviderID: domain.GetUUID(),
		FromKm:            50,
		ToKm:              20,
		Value:             1000,
	}
	ms.True(validateModel(&tier).HasAny(), "inverted band must not validate")

	tier.ToKm = 100
	ms.False(validateModel(&tier).HasAny(), "well-formed band must validate")
}

func (ms *ModelSuite) Test_validateModel_RequiredFields() {
	entity := Entity{}
	ms.True(validateModel(&entity).HasAny(), "empty entity must not validate")

	entity.ContractorID = domain.GetUUID()
	entity.Name = "ACME Rastreamento"
	ms.False(validateModel(&entity).HasAny())

	var nilID uuid.UUID
	ms.Equal(nilID, entity.ID, "validation must not assign an ID")
}
