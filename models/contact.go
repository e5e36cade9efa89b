package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
)

// Contacts is a slice of Contact objects
type Contacts []Contact

// Contact is an extra named contact person under a subsidiary
type Contact struct {
	ID           uuid.UUID `db:"id"`
	SubsidiaryID uuid.UUID `db:"subsidiary_id" validate:"required"`

	Name   string `db:"name" validate:"required"`
	Phone  string `db:"phone" validate:"omitempty,max=20"`
	Email  string `db:"email" validate:"omitempty,email"`
	Remark string `db:"remark"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (c *Contact) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(c), nil
}

func (c *Contact) Create(tx *pop.Connection) error {
	return create(tx, c)
}

func (c *Contact) Update(tx *pop.Connection) error {
	return update(tx, c)
}

// IDsForSubsidiary returns the persisted contact keys under one subsidiary
func (c *Contacts) IDsForSubsidiary(tx *pop.Connection, subsidiaryID uuid.UUID) ([]uuid.UUID, error) {
	if err := tx.Select("id").Where("subsidiary_id = ?", subsidiaryID).Order("created_at").All(c); err != nil {
		return nil, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	ids := make([]uuid.UUID, len(*c))
	for i, contact := range *c {
		ids[i] = contact.ID
	}
	return ids, nil
}

// reconcileContacts diffs the submitted list against the stored one for the
// given subsidiary and applies the inserts, updates and deletes.
func reconcileContacts(tx *pop.Connection, subsidiaryID uuid.UUID, incoming []api.ContactInput) error {
	incoming = dropBlank(incoming, func(in api.ContactInput) bool { return in.Name == "" })

	var stored Contacts
	persisted, err := stored.IDsForSubsidiary(tx, subsidiaryID)
	if err != nil {
		return err
	}

	r := reconcile(incoming, persisted, func(in api.ContactInput) uuid.UUID { return in.ID })

	return r.apply(
		func(id uuid.UUID) error {
			if err := tx.RawQuery("DELETE FROM contacts WHERE id = ?", id).Exec(); err != nil {
				return appErrorFromDB(err, api.ErrorDestroyFailure)
			}
			return nil
		},
		func(in api.ContactInput) error {
			contact := Contact{
				SubsidiaryID: subsidiaryID,
				Name:         in.Name,
				Phone:        in.Phone,
				Email:        in.Email,
				Remark:       in.Remark,
			}
			return contact.Create(tx)
		},
		func(in api.ContactInput) error {
			var contact Contact
			if err := find(tx, &contact, in.ID); err != nil {
				return err
			}
			contact.Name = in.Name
			contact.Phone = in.Phone
			contact.Email = in.Email
			contact.Remark = in.Remark
			return contact.Update(tx)
		})
}

// ConvertToAPI converts a models.Contacts to an api.Contacts
func (c Contacts) ConvertToAPI() api.Contacts {
	out := make(api.Contacts, len(c))
	for i, contact := range c {
		out[i] = api.Contact{
			ID:     contact.ID,
			Name:   contact.Name,
			Phone:  contact.Phone,
			Email:  contact.Email,
			Remark: contact.Remark,
		}
	}
	return out
}
