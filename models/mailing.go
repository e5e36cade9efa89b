package models

import (
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
)

// Mailings is a slice of Mailing objects
type Mailings []Mailing

// Mailing is one email address belonging to a subsidiary, a technician or a
// vehicle owner. Exactly one of the owner keys is set.
type Mailing struct {
	ID uuid.UUID `db:"id"`

	SubsidiaryID nulls.UUID `db:"subsidiary_id"`
	TechnicianID nulls.UUID `db:"technician_id"`
	VehicleID    nulls.UUID `db:"vehicle_id"`

	Address string `db:"address" validate:"required,email"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// MailingOwner identifies the parent record a mailing list hangs off of
type MailingOwner struct {
	SubsidiaryID uuid.UUID
	TechnicianID uuid.UUID
	VehicleID    uuid.UUID
}

func (o MailingOwner) whereClause() (string, []any) {
	switch {
	case o.SubsidiaryID != uuid.Nil:
		return "subsidiary_id = ?", []any{o.SubsidiaryID}
	case o.TechnicianID != uuid.Nil:
		return "technician_id = ?", []any{o.TechnicianID}
	default:
		return "vehicle_id = ?", []any{o.VehicleID}
	}
}

func (o MailingOwner) assign(m *Mailing) {
	m.SubsidiaryID = nulls.UUID{}
	m.TechnicianID = nulls.UUID{}
	m.VehicleID = nulls.UUID{}
	switch {
	case o.SubsidiaryID != uuid.Nil:
		m.SubsidiaryID = nulls.NewUUID(o.SubsidiaryID)
	case o.TechnicianID != uuid.Nil:
		m.TechnicianID = nulls.NewUUID(o.TechnicianID)
	default:
		m.VehicleID = nulls.NewUUID(o.VehicleID)
	}
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (m *Mailing) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(m), nil
}

func (m *Mailing) Create(tx *pop.Connection) error {
	return create(tx, m)
}

func (m *Mailing) Update(tx *pop.Connection) error {
	return update(tx, m)
}

// IDsForOwner returns the persisted mailing keys for one owner record
func (m *Mailings) IDsForOwner(tx *pop.Connection, owner MailingOwner) ([]uuid.UUID, error) {
	clause, args := owner.whereClause()
	if err := tx.Select("id").Where(clause, args...).Order("created_at").All(m); err != nil {
		return nil, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	ids := make([]uuid.UUID, len(*m))
	for i, mailing := range *m {
		ids[i] = mailing.ID
	}
	return ids, nil
}

// reconcileMailings diffs the submitted list against the stored one for the
// given owner and applies the inserts, updates and deletes.
func reconcileMailings(tx *pop.Connection, owner MailingOwner, incoming []api.MailingInput) error {
	incoming = dropBlank(incoming, func(in api.MailingInput) bool { return in.Address == "" })

	var stored Mailings
	persisted, err := stored.IDsForOwner(tx, owner)
	if err != nil {
		return err
	}

	r := reconcile(incoming, persisted, func(in api.MailingInput) uuid.UUID { return in.ID })

	return r.apply(
		func(id uuid.UUID) error {
			if err := tx.RawQuery("DELETE FROM mailings WHERE id = ?", id).Exec(); err != nil {
				return appErrorFromDB(err, api.ErrorDestroyFailure)
			}
			return nil
		},
		func(in api.MailingInput) error {
			mailing := Mailing{Address: in.Address}
			owner.assign(&mailing)
			return mailing.Create(tx)
		},
		func(in api.MailingInput) error {
			var mailing Mailing
			if err := find(tx, &mailing, in.ID); err != nil {
				return err
			}
			mailing.Address = in.Address
			return mailing.Update(tx)
		})
}

// ConvertToAPI converts a models.Mailings to an api.Mailings
func (m Mailings) ConvertToAPI() api.Mailings {
	out := make(api.Mailings, len(m))
	for i, mailing := range m {
		out[i] = api.Mailing{ID: mailing.ID, Address: mailing.Address}
	}
	return out
}
