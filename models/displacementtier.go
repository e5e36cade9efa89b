package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
)

// DisplacementTiers is a slice of DisplacementTier objects
type DisplacementTiers []DisplacementTier

// DisplacementTier is a distance-banded travel fee charged by a provider.
// FromKm is inclusive and ToKm exclusive, so adjacent bands share a bound.
type DisplacementTier struct {
	ID                uuid.UUID `db:"id"`
	ServiceProviderID uuid.UUID `db:"service_provider_id" validate:"required"`

	FromKm int `db:"from_km" validate:"min=0"`
	ToKm   int `db:"to_km"`

	// fee in cents
	Value int `db:"value" validate:"min=0"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (t *DisplacementTier) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(t), nil
}

func (t *DisplacementTier) Create(tx *pop.Connection) error {
	return create(tx, t)
}

func (t *DisplacementTier) Update(tx *pop.Connection) error {
	return update(tx, t)
}

// IDsForProvider returns the persisted tier keys under one provider
func (t *DisplacementTiers) IDsForProvider(tx *pop.Connection, providerID uuid.UUID) ([]uuid.UUID, error) {
	if err := tx.Select("id").Where("service_provider_id = ?", providerID).Order("from_km").All(t); err != nil {
		return nil, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	ids := make([]uuid.UUID, len(*t))
	for i, tier := range *t {
		ids[i] = tier.ID
	}
	return ids, nil
}

// FeeForDistance returns the travel fee for a distance in kilometers, or
// zero when no band covers it.
func (t DisplacementTiers) FeeForDistance(km int) api.Currency {
	for _, tier := range t {
		if km >= tier.FromKm && km < tier.ToKm {
			return api.Currency(tier.Value)
		}
	}
	return 0
}

// reconcileDisplacementTiers diffs the submitted tier list against the
// stored one for the given provider and applies the inserts, updates and
// deletes.
func reconcileDisplacementTiers(tx *pop.Connection, providerID uuid.UUID, incoming []api.DisplacementTierInput) error {
	incoming = dropBlank(incoming, func(in api.DisplacementTierInput) bool {
		return in.FromKm == 0 && in.ToKm == 0
	})

	sorted := make([]api.DisplacementTierInput, len(incoming))
	copy(sorted, incoming)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FromKm < sorted[j].FromKm })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].FromKm < sorted[i-1].ToKm {
			err := fmt.Errorf("displacement bands %d-%d and %d-%d overlap",
				sorted[i-1].FromKm, sorted[i-1].ToKm, sorted[i].FromKm, sorted[i].ToKm)
			return api.NewAppError(err, api.ErrorDisplacementTierOverlap, api.CategoryUser)
		}
	}

	var stored DisplacementTiers
	persisted, err := stored.IDsForProvider(tx, providerID)
	if err != nil {
		return err
	}

	r := reconcile(incoming, persisted, func(in api.DisplacementTierInput) uuid.UUID { return in.ID })

	return r.apply(
		func(id uuid.UUID) error {
			if err := tx.RawQuery("DELETE FROM displacement_tiers WHERE id = ?", id).Exec(); err != nil {
				return appErrorFromDB(err, api.ErrorDestroyFailure)
			}
			return nil
		},
		func(in api.DisplacementTierInput) error {
			tier := DisplacementTier{
				ServiceProviderID: providerID,
				FromKm:            in.FromKm,
				ToKm:              in.ToKm,
				Value:             int(in.Value),
			}
			return tier.Create(tx)
		},
		func(in api.DisplacementTierInput) error {
			var tier DisplacementTier
			if err := find(tx, &tier, in.ID); err != nil {
				return err
			}
			tier.FromKm = in.FromKm
			tier.ToKm = in.ToKm
			tier.Value = int(in.Value)
			return tier.Update(tx)
		})
}

// ConvertToAPI converts a models.DisplacementTiers to an api.DisplacementTiers
func (t DisplacementTiers) ConvertToAPI() api.DisplacementTiers {
	out := make(api.DisplacementTiers, len(t))
	for i, tier := range t {
		out[i] = api.DisplacementTier{
			ID:     tier.ID,
			FromKm: tier.FromKm,
			ToKm:   tier.ToKm,
			Value:  api.Currency(tier.Value),
		}
	}
	return out
}
