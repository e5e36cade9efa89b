package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
)

// BillingType names the service a price applies to
type BillingType string

const (
	BillingTypeInstallation   = BillingType("Installation")
	BillingTypeUninstallation = BillingType("Uninstallation")
	BillingTypeMaintenance    = BillingType("Maintenance")
	BillingTypeTransfer       = BillingType("Transfer")
)

var ValidBillingTypes = map[BillingType]struct{}{
	BillingTypeInstallation:   {},
	BillingTypeUninstallation: {},
	BillingTypeMaintenance:    {},
	BillingTypeTransfer:       {},
}

// ServicePrices is a slice of ServicePrice objects
type ServicePrices []ServicePrice

// ServicePrice is the amount a provider charges for one billing type
type ServicePrice struct {
	ID                uuid.UUID `db:"id"`
	ServiceProviderID uuid.UUID `db:"service_provider_id" validate:"required"`

	BillingType BillingType `db:"billing_type" validate:"billingType"`

	// value in cents
	Value int `db:"value" validate:"min=0"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (p *ServicePrice) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(p), nil
}

func (p *ServicePrice) Create(tx *pop.Connection) error {
	return create(tx, p)
}

func (p *ServicePrice) Update(tx *pop.Connection) error {
	return update(tx, p)
}

// IDsForProvider returns the persisted price keys under one provider
func (p *ServicePrices) IDsForProvider(tx *pop.Connection, providerID uuid.UUID) ([]uuid.UUID, error) {
	if err := tx.Select("id").Where("service_provider_id = ?", providerID).Order("created_at").All(p); err != nil {
		return nil, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	ids := make([]uuid.UUID, len(*p))
	for i, price := range *p {
		ids[i] = price.ID
	}
	return ids, nil
}

// reconcileServicePrices diffs the submitted price list against the stored
// one for the given provider and applies the inserts, updates and deletes.
func reconcileServicePrices(tx *pop.Connection, providerID uuid.UUID, incoming []api.ServicePriceInput) error {
	incoming = dropBlank(incoming, func(in api.ServicePriceInput) bool { return in.BillingType == "" })

	var stored ServicePrices
	persisted, err := stored.IDsForProvider(tx, providerID)
	if err != nil {
		return err
	}

	r := reconcile(incoming, persisted, func(in api.ServicePriceInput) uuid.UUID { return in.ID })

	return r.apply(
		func(id uuid.UUID) error {
			if err := tx.RawQuery("DELETE FROM service_prices WHERE id = ?", id).Exec(); err != nil {
				return appErrorFromDB(err, api.ErrorDestroyFailure)
			}
			return nil
		},
		func(in api.ServicePriceInput) error {
			price := ServicePrice{
				ServiceProviderID: providerID,
				BillingType:       BillingType(in.BillingType),
				Value:             int(in.Value),
			}
			return price.Create(tx)
		},
		func(in api.ServicePriceInput) error {
			var price ServicePrice
			if err := find(tx, &price, in.ID); err != nil {
				return err
			}
			price.BillingType = BillingType(in.BillingType)
			price.Value = int(in.Value)
			return price.Update(tx)
		})
}

// ConvertToAPI converts a models.ServicePrices to an api.ServicePrices
func (p ServicePrices) ConvertToAPI() api.ServicePrices {
	out := make(api.ServicePrices, len(p))
	for i, price := range p {
		out[i] = api.ServicePrice{
			ID:          price.ID,
			BillingType: string(price.BillingType),
			Value:       api.Currency(price.Value),
		}
	}
	return out
}
