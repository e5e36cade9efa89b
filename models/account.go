package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
)

var ValidAccountTypes = map[api.AccountType]struct{}{
	api.AccountTypeBank: {},
	api.AccountTypePix:  {},
}

var ValidPixKeyTypes = map[api.PixKeyType]struct{}{
	api.PixKeyTypeNone:    {},
	api.PixKeyTypeCpfCnpj: {},
	api.PixKeyTypeEmail:   {},
	api.PixKeyTypePhone:   {},
	api.PixKeyTypeRandom:  {},
}

// Accounts is a slice of Account objects
type Accounts []Account

// Account is a payment destination for a service provider, either a bank
// account or a PIX key.
type Account struct {
	ID                uuid.UUID `db:"id"`
	ServiceProviderID uuid.UUID `db:"service_provider_id" validate:"required"`

	Type     api.AccountType `db:"type" validate:"accountType"`
	BankCode string          `db:"bank_code"`
	Branch   string          `db:"branch"`
	Number   string          `db:"number"`

	PixKeyType api.PixKeyType `db:"pix_key_type" validate:"pixKeyType"`
	PixKey     string         `db:"pix_key"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (a *Account) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(a), nil
}

func (a *Account) Create(tx *pop.Connection) error {
	return create(tx, a)
}

func (a *Account) Update(tx *pop.Connection) error {
	return update(tx, a)
}

// IDsForProvider returns the persisted account keys under one provider
func (a *Accounts) IDsForProvider(tx *pop.Connection, providerID uuid.UUID) ([]uuid.UUID, error) {
	if err := tx.Select("id").Where("service_provider_id = ?", providerID).Order("created_at").All(a); err != nil {
		return nil, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	ids := make([]uuid.UUID, len(*a))
	for i, account := range *a {
		ids[i] = account.ID
	}
	return ids, nil
}

func (a *Account) applyInput(input api.AccountInput) {
	a.Type = input.Type
	a.BankCode = input.BankCode
	a.Branch = input.Branch
	a.Number = input.Number
	a.PixKeyType = input.PixKeyType
	a.PixKey = input.PixKey
	if a.Type != api.AccountTypePix {
		a.PixKeyType = api.PixKeyTypeNone
		a.PixKey = ""
	}
}

// reconcileAccounts diffs the submitted account list against the stored one
// for the given provider and applies the inserts, updates and deletes.
func reconcileAccounts(tx *pop.Connection, providerID uuid.UUID, incoming []api.AccountInput) error {
	incoming = dropBlank(incoming, func(in api.AccountInput) bool {
		return in.Number == "" && in.PixKey == ""
	})

	var stored Accounts
	persisted, err := stored.IDsForProvider(tx, providerID)
	if err != nil {
		return err
	}

	r := reconcile(incoming, persisted, func(in api.AccountInput) uuid.UUID { return in.ID })

	return r.apply(
		func(id uuid.UUID) error {
			if err := tx.RawQuery("DELETE FROM accounts WHERE id = ?", id).Exec(); err != nil {
				return appErrorFromDB(err, api.ErrorDestroyFailure)
			}
			return nil
		},
		func(in api.AccountInput) error {
			account := Account{ServiceProviderID: providerID}
			account.applyInput(in)
			return account.Create(tx)
		},
		func(in api.AccountInput) error {
			var account Account
			if err := find(tx, &account, in.ID); err != nil {
				return err
			}
			account.applyInput(in)
			return account.Update(tx)
		})
}

// ConvertToAPI converts a models.Accounts to an api.Accounts
func (a Accounts) ConvertToAPI() api.Accounts {
	out := make(api.Accounts, len(a))
	for i, account := range a {
		out[i] = api.Account{
			ID:         account.ID,
			Type:       account.Type,
			BankCode:   account.BankCode,
			Branch:     account.Branch,
			Number:     account.Number,
			PixKeyType: account.PixKeyType,
			PixKey:     account.PixKey,
		}
	}
	return out
}
