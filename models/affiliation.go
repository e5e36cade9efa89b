package models

import (
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
)

// Affiliations is a slice of Affiliation objects
type Affiliations []Affiliation

// Affiliation is a time-bounded membership of a customer/subsidiary pair
// under an association entity.
type Affiliation struct {
	ID            uuid.UUID `db:"id"`
	AssociationID uuid.UUID `db:"association_id" validate:"required"`
	EntityID      uuid.UUID `db:"entity_id" validate:"required"`
	SubsidiaryID  uuid.UUID `db:"subsidiary_id" validate:"required"`

	StartAt time.Time  `db:"start_at"`
	EndAt   nulls.Time `db:"end_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (a *Affiliation) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(a), nil
}

func (a *Affiliation) Create(tx *pop.Connection) error {
	return create(tx, a)
}

func (a *Affiliation) Update(tx *pop.Connection) error {
	return update(tx, a)
}

// AffiliationJoin puts a customer/subsidiary pair under an association as
// of the given date. A window that already covers the date, or one whose
// bounds land within the 30-day grace of it, is reused instead of opening
// a duplicate.
func AffiliationJoin(tx *pop.Connection, associationID, entityID, subsidiaryID uuid.UUID, at time.Time) (Affiliation, error) {
	at = domain.DateOnly(at)
	grace := time.Duration(domain.AffiliationGraceDays) * domain.DurationDay

	var existing Affiliations
	err := tx.Where("association_id = ? AND entity_id = ? AND subsidiary_id = ?",
		associationID, entityID, subsidiaryID).Order("start_at").All(&existing)
	if err != nil {
		return Affiliation{}, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	for i := range existing {
		a := &existing[i]

		covers := !a.StartAt.After(at) && (!a.EndAt.Valid || !a.EndAt.Time.Before(at))
		if covers {
			if a.EndAt.Valid {
				a.EndAt = nulls.Time{}
				if err := a.Update(tx); err != nil {
					return Affiliation{}, err
				}
			}
			return *a, nil
		}

		// a closed window ending within the grace reopens
		if a.EndAt.Valid && at.Sub(a.EndAt.Time) <= grace && at.After(a.EndAt.Time) {
			a.EndAt = nulls.Time{}
			if err := a.Update(tx); err != nil {
				return Affiliation{}, err
			}
			return *a, nil
		}

		// a window starting shortly after the date stretches back to it
		if a.StartAt.After(at) && a.StartAt.Sub(at) <= grace {
			a.StartAt = at
			if err := a.Update(tx); err != nil {
				return Affiliation{}, err
			}
			return *a, nil
		}
	}

	joined := Affiliation{
		AssociationID: associationID,
		EntityID:      entityID,
		SubsidiaryID:  subsidiaryID,
		StartAt:       at,
	}
	if err := joined.Create(tx); err != nil {
		return Affiliation{}, err
	}
	return joined, nil
}

// AffiliationUnjoin ends the open membership of a customer/subsidiary pair
// under an association as of the given date. The window is back-dated to
// end the day before, or its start shortened when it began after the date.
// No open membership is not an error, the transfer goes on.
func AffiliationUnjoin(tx *pop.Connection, associationID, entityID, subsidiaryID uuid.UUID, at time.Time) error {
	at = domain.DateOnly(at)

	var open Affiliation
	err := tx.Where("association_id = ? AND entity_id = ? AND subsidiary_id = ? AND end_at IS NULL",
		associationID, entityID, subsidiaryID).First(&open)
	if err != nil {
		if domain.IsOtherThanNoRows(err) {
			return appErrorFromDB(err, api.ErrorQueryFailure)
		}
		return nil
	}

	endAt := at.Add(-domain.DurationDay)
	if open.StartAt.After(endAt) {
		// the membership started after the transfer date, collapse it
		open.StartAt = at
		endAt = at
	}
	open.EndAt = nulls.NewTime(endAt)
	return open.Update(tx)
}
