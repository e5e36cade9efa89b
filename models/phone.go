package models

import (
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
)

// Phones is a slice of Phone objects
type Phones []Phone

// Phone is one phone number belonging to a subsidiary, a technician or a
// vehicle owner. Exactly one of the owner keys is set.
type Phone struct {
	ID uuid.UUID `db:"id"`

	SubsidiaryID nulls.UUID `db:"subsidiary_id"`
	TechnicianID nulls.UUID `db:"technician_id"`
	VehicleID    nulls.UUID `db:"vehicle_id"`

	// distinguishes the owner's numbers from other contact numbers on a vehicle
	Kind string `db:"kind"`

	Number string `db:"number" validate:"required,max=20"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PhoneKind values used for a vehicle's two phone lists
const (
	PhoneKindOwner   = "owner"
	PhoneKindAnother = "another"
)

// PhoneOwner identifies the parent record a phone list hangs off of. Kind
// is only set for vehicle lists.
type PhoneOwner struct {
	SubsidiaryID uuid.UUID
	TechnicianID uuid.UUID
	VehicleID    uuid.UUID
	Kind         string
}

func (o PhoneOwner) whereClause() (string, []any) {
	switch {
	case o.SubsidiaryID != uuid.Nil:
		return "subsidiary_id = ?", []any{o.SubsidiaryID}
	case o.TechnicianID != uuid.Nil:
		return "technician_id = ?", []any{o.TechnicianID}
	default:
		return "vehicle_id = ? AND kind = ?", []any{o.VehicleID, o.Kind}
	}
}

func (o PhoneOwner) assign(p *Phone) {
	p.SubsidiaryID = nulls.UUID{}
	p.TechnicianID = nulls.UUID{}
	p.VehicleID = nulls.UUID{}
	p.Kind = ""
	switch {
	case o.SubsidiaryID != uuid.Nil:
		p.SubsidiaryID = nulls.NewUUID(o.SubsidiaryID)
	case o.TechnicianID != uuid.Nil:
		p.TechnicianID = nulls.NewUUID(o.TechnicianID)
	default:
		p.VehicleID = nulls.NewUUID(o.VehicleID)
		p.Kind = o.Kind
	}
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (p *Phone) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(p), nil
}

func (p *Phone) Create(tx *pop.Connection) error {
	return create(tx, p)
}

func (p *Phone) Update(tx *pop.Connection) error {
	return update(tx, p)
}

// IDsForOwner returns the persisted phone keys for one owner record
func (p *Phones) IDsForOwner(tx *pop.Connection, owner PhoneOwner) ([]uuid.UUID, error) {
	clause, args := owner.whereClause()
	if err := tx.Select("id").Where(clause, args...).Order("created_at").All(p); err != nil {
		return nil, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	ids := make([]uuid.UUID, len(*p))
	for i, phone := range *p {
		ids[i] = phone.ID
	}
	return ids, nil
}

// reconcilePhones diffs the submitted list against the stored one for the
// given owner and applies the inserts, updates and deletes.
func reconcilePhones(tx *pop.Connection, owner PhoneOwner, incoming []api.PhoneInput) error {
	incoming = dropBlank(incoming, func(in api.PhoneInput) bool { return in.Number == "" })

	var stored Phones
	persisted, err := stored.IDsForOwner(tx, owner)
	if err != nil {
		return err
	}

	r := reconcile(incoming, persisted, func(in api.PhoneInput) uuid.UUID { return in.ID })

	return r.apply(
		func(id uuid.UUID) error {
			if err := tx.RawQuery("DELETE FROM phones WHERE id = ?", id).Exec(); err != nil {
				return appErrorFromDB(err, api.ErrorDestroyFailure)
			}
			return nil
		},
		func(in api.PhoneInput) error {
			phone := Phone{Number: in.Number}
			owner.assign(&phone)
			return phone.Create(tx)
		},
		func(in api.PhoneInput) error {
			var phone Phone
			if err := find(tx, &phone, in.ID); err != nil {
				return err
			}
			phone.Number = in.Number
			return phone.Update(tx)
		})
}

// ConvertToAPI converts a models.Phones to an api.Phones
func (p Phones) ConvertToAPI() api.Phones {
	out := make(api.Phones, len(p))
	for i, phone := range p {
		out[i] = api.Phone{ID: phone.ID, Number: phone.Number}
	}
	return out
}
