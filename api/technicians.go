package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// swagger:model
type Technicians []Technician

// Technician is a field worker belonging to a service provider. A
// sole-proprietor provider may be represented by a technician carrying the
// same document.
// swagger:model
type Technician struct {
	ID uuid.UUID `json:"id"`

	ServiceProviderID uuid.UUID `json:"service_provider_id"`
	Name              string    `json:"name"`
	Document          string    `json:"document"`

	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`
	VehiclePlate string `json:"vehicle_plate"`

	Blocked bool `json:"blocked"`

	Phones   Phones   `json:"phones,omitempty"`
	Mailings Mailings `json:"mailings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TechnicianInput represents payload for adding or updating a technician
// swagger:model
type TechnicianInput struct {
	ServiceProviderID uuid.UUID `json:"service_provider_id"`
	Name              string    `json:"name"`
	Document          string    `json:"document"`

	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`
	VehiclePlate string `json:"vehicle_plate"`

	Phones   []PhoneInput   `json:"phones"`
	Mailings []MailingInput `json:"mailings"`

	UpdatedAt time.Time `json:"updated_at"`
}

// TechnicianBlockedInput is the payload of the blocked toggle
// swagger:model
type TechnicianBlockedInput struct {
	Blocked bool `json:"blocked"`
}

// TechnicianRow is one row of the technicians grid
// swagger:model
type TechnicianRow struct {
	ID                uuid.UUID `json:"id"`
	ServiceProviderID uuid.UUID `json:"service_provider_id"`
	Name              string    `json:"name"`
	Document          string    `json:"document"`
	VehiclePlate      string    `json:"vehicle_plate"`
	Blocked           bool      `json:"blocked"`
}

// swagger:model
type TechnicianRows []TechnicianRow
