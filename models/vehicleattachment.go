package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
)

// VehicleAttachments is a slice of VehicleAttachment objects
type VehicleAttachments []VehicleAttachment

// VehicleAttachment links an uploaded file to a vehicle. The original
// upload name is kept for display, the stored name lives on the File row.
type VehicleAttachment struct {
	ID        uuid.UUID `db:"id"`
	VehicleID uuid.UUID `db:"vehicle_id" validate:"required"`
	FileID    uuid.UUID `db:"file_id" validate:"required"`

	OriginalName string `db:"original_name"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	File File `belongs_to:"file" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (a *VehicleAttachment) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(a), nil
}

func (a *VehicleAttachment) GetID() uuid.UUID {
	return a.ID
}

func (a *VehicleAttachment) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, a, id)
}

// IsActorAllowedTo defers to the vehicle the attachment hangs off of
func (a *VehicleAttachment) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource) bool {
	var vehicle Vehicle
	if err := vehicle.FindByID(tx, a.VehicleID); err != nil {
		return false
	}
	return vehicle.IsActorAllowedTo(tx, actor, p, sub)
}

// Create links the file to the vehicle and flags it so the unlinked-file
// sweep leaves it alone.
func (a *VehicleAttachment) Create(tx *pop.Connection) error {
	file := File{ID: a.FileID}
	if err := file.SetLinked(tx); err != nil {
		return err
	}
	return create(tx, a)
}

// Destroy removes the attachment row and releases the file for cleanup
func (a *VehicleAttachment) Destroy(tx *pop.Connection) error {
	file := File{ID: a.FileID}
	if err := file.ClearLinked(tx); err != nil {
		return appErrorFromDB(err, api.ErrorUpdateFailure)
	}
	return destroy(tx, a)
}

// LoadFile hydrates the file row with a fresh URL
func (a *VehicleAttachment) LoadFile(tx *pop.Connection) error {
	if err := a.File.Find(tx, a.FileID); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return a.File.RefreshURL(tx)
}

// ConvertToAPI converts a models.VehicleAttachment to an api.VehicleAttachment
func (a *VehicleAttachment) ConvertToAPI(tx *pop.Connection) api.VehicleAttachment {
	return api.VehicleAttachment{
		ID:           a.ID,
		VehicleID:    a.VehicleID,
		File:         a.File.ConvertToAPI(tx),
		OriginalName: a.OriginalName,
		CreatedAt:    a.CreatedAt,
	}
}

// ConvertToAPI converts a models.VehicleAttachments to an api.VehicleAttachments
func (a VehicleAttachments) ConvertToAPI(tx *pop.Connection) api.VehicleAttachments {
	out := make(api.VehicleAttachments, len(a))
	for i := range a {
		out[i] = a[i].ConvertToAPI(tx)
	}
	return out
}
