package models

import (
	"errors"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
)

// Subsidiaries is a slice of Subsidiary objects
type Subsidiaries []Subsidiary

// Subsidiary is a branch/unit/title-holder record under an Entity
type Subsidiary struct {
	ID       uuid.UUID `db:"id"`
	EntityID uuid.UUID `db:"entity_id" validate:"required"`

	Name              string `db:"name" validate:"required"`
	Address           string `db:"address"`
	District          string `db:"district"`
	City              string `db:"city"`
	State             string `db:"state" validate:"omitempty,len=2"`
	PostalCode        string `db:"postalcode" validate:"omitempty,min=8,max=9"`
	StateRegistration string `db:"state_registration"`
	Blocked           bool   `db:"blocked"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Phones   Phones   `has_many:"phones" validate:"-"`
	Mailings Mailings `has_many:"mailings" validate:"-"`
	Contacts Contacts `has_many:"contacts" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (s *Subsidiary) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(s), nil
}

func (s *Subsidiary) Create(tx *pop.Connection) error {
	return create(tx, s)
}

func (s *Subsidiary) Update(tx *pop.Connection) error {
	return update(tx, s)
}

func (s *Subsidiary) GetID() uuid.UUID {
	return s.ID
}

func (s *Subsidiary) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, s, id)
}

// Destroy removes the subsidiary and all of its child collections
func (s *Subsidiary) Destroy(tx *pop.Connection) error {
	for _, table := range []string{"phones", "mailings", "contacts"} {
		if err := tx.RawQuery("DELETE FROM "+table+" WHERE subsidiary_id = ?", s.ID).Exec(); err != nil {
			return appErrorFromDB(err, api.ErrorDestroyFailure)
		}
	}
	return destroy(tx, s)
}

// IDsForEntity returns the persisted subsidiary keys under one entity
func (s *Subsidiaries) IDsForEntity(tx *pop.Connection, entityID uuid.UUID) ([]uuid.UUID, error) {
	if err := tx.Select("id").Where("entity_id = ?", entityID).Order("created_at").All(s); err != nil {
		return nil, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	ids := make([]uuid.UUID, len(*s))
	for i, sub := range *s {
		ids[i] = sub.ID
	}
	return ids, nil
}

// LoadChildren hydrates the phone, mailing and contact collections
func (s *Subsidiary) LoadChildren(tx *pop.Connection) error {
	if err := tx.Load(s, "Phones", "Mailings", "Contacts"); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return nil
}

// applyInput overwrites the editable fields from the request payload
func (s *Subsidiary) applyInput(input api.SubsidiaryInput) {
	s.Name = input.Name
	s.Address = input.Address
	s.District = input.District
	s.City = input.City
	s.State = input.State
	s.PostalCode = input.PostalCode
	s.StateRegistration = input.StateRegistration
}

// reconcileChildren diffs and applies the subsidiary's phone, mailing and
// contact lists inside the caller's transaction.
func (s *Subsidiary) reconcileChildren(tx *pop.Connection, input api.SubsidiaryInput) error {
	if s.ID == uuid.Nil {
		return errors.New("reconcileChildren called on an unsaved subsidiary")
	}

	if err := reconcilePhones(tx, PhoneOwner{SubsidiaryID: s.ID}, input.Phones); err != nil {
		return err
	}
	if err := reconcileMailings(tx, MailingOwner{SubsidiaryID: s.ID}, input.Mailings); err != nil {
		return err
	}
	return reconcileContacts(tx, s.ID, input.Contacts)
}

// ConvertToAPI converts a models.Subsidiary to an api.Subsidiary
func (s *Subsidiary) ConvertToAPI(tx *pop.Connection, hydrated bool) api.Subsidiary {
	out := api.Subsidiary{
		ID:                s.ID,
		EntityID:          s.EntityID,
		Name:              s.Name,
		Address:           s.Address,
		District:          s.District,
		City:              s.City,
		State:             s.State,
		PostalCode:        s.PostalCode,
		StateRegistration: s.StateRegistration,
		Blocked:           s.Blocked,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}

	if hydrated {
		out.Phones = s.Phones.ConvertToAPI()
		out.Mailings = s.Mailings.ConvertToAPI()
		out.Contacts = s.Contacts.ConvertToAPI()
	}

	return out
}

// ConvertToAPI converts a models.Subsidiaries to an api.Subsidiaries
func (s Subsidiaries) ConvertToAPI(tx *pop.Connection, hydrated bool) api.Subsidiaries {
	out := make(api.Subsidiaries, len(s))
	for i := range s {
		out[i] = s[i].ConvertToAPI(tx, hydrated)
	}
	return out
}
