package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// swagger:model
type Vehicles []Vehicle

// Vehicle is a tracked asset belonging to a customer entity and subsidiary
// swagger:model
type Vehicle struct {
	ID uuid.UUID `json:"id"`

	EntityID     uuid.UUID `json:"entity_id"`
	SubsidiaryID uuid.UUID `json:"subsidiary_id"`

	Plate     string `json:"plate"`
	Vin       string `json:"vin"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	ModelYear int    `json:"model_year"`
	Color     string `json:"color"`

	OwnerName string `json:"owner_name"`
	Monitored bool   `json:"monitored"`

	OwnerPhones   Phones             `json:"owner_phones,omitempty"`
	AnotherPhones Phones             `json:"another_phones,omitempty"`
	Attachments   VehicleAttachments `json:"attachments,omitempty"`
	Equipments    Equipments         `json:"equipments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// swagger:model
type Equipments []Equipment

// Equipment is a tracker unit linked (not owned) to a vehicle
// swagger:model
type Equipment struct {
	ID uuid.UUID `json:"id"`

	Serial         string     `json:"serial"`
	Model          string     `json:"model"`
	IButtonMemory  int        `json:"ibutton_memory"`
	SiteWiring     string     `json:"site_wiring"`
	VehicleID      *uuid.UUID `json:"vehicle_id"`
	InstallationID *uuid.UUID `json:"installation_id"`
}

// swagger:model
type VehicleAttachments []VehicleAttachment

// VehicleAttachment is the metadata of a file attached to a vehicle
// swagger:model
type VehicleAttachment struct {
	ID uuid.UUID `json:"id"`

	VehicleID uuid.UUID `json:"vehicle_id"`
	File      File      `json:"file"`

	// the filename supplied at upload time, before a storage name was generated
	OriginalName string `json:"original_name"`

	CreatedAt time.Time `json:"created_at"`
}

// VehicleInput represents payload for adding or updating a vehicle
// swagger:model
type VehicleInput struct {
	EntityID     uuid.UUID `json:"entity_id"`
	SubsidiaryID uuid.UUID `json:"subsidiary_id"`

	Plate     string `json:"plate"`
	Vin       string `json:"vin"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	ModelYear int    `json:"model_year"`
	Color     string `json:"color"`

	OwnerName string `json:"owner_name"`

	OwnerPhones   []PhoneInput `json:"owner_phones"`
	AnotherPhones []PhoneInput `json:"another_phones"`

	UpdatedAt time.Time `json:"updated_at"`
}

// VehicleMonitoredInput toggles the monitored flag on a vehicle
// swagger:model
type VehicleMonitoredInput struct {
	Monitored bool `json:"monitored"`
}

// VehicleAttachmentInput attaches a previously uploaded file to a vehicle
// swagger:model
type VehicleAttachmentInput struct {
	FileID uuid.UUID `json:"file_id"`
}

// TransferInput moves the equipment on a vehicle to a new
// customer/subsidiary/payer tuple as of a transfer date
// swagger:model
type TransferInput struct {
	EquipmentID uuid.UUID `json:"equipment_id"`

	EntityID       uuid.UUID `json:"entity_id"`
	SubsidiaryID   uuid.UUID `json:"subsidiary_id"`
	PayerID        uuid.UUID `json:"payer_id"`
	InstallationID uuid.UUID `json:"installation_id"`

	// date (yyyy-mm-dd) the transfer takes effect
	TransferAt string `json:"transfer_at"`

	// end-date the prior installation line item
	Close bool `json:"close"`

	// keep the prior installation open even when Terminate is set
	NotClose bool `json:"notclose"`

	// end-date the prior contract
	Terminate bool `json:"terminate"`
}

// ReplacementInput swaps the tracker unit on a vehicle, keeping the contract
// swagger:model
type ReplacementInput struct {
	OldEquipmentID uuid.UUID `json:"old_equipment_id"`
	NewEquipmentID uuid.UUID `json:"new_equipment_id"`

	// date (yyyy-mm-dd) the swap takes effect
	ReplacedAt string `json:"replaced_at"`

	// deposit receiving the uninstalled unit
	DepositID uuid.UUID `json:"deposit_id"`
}

// VehicleRow is one row of the vehicles grid
// swagger:model
type VehicleRow struct {
	ID           uuid.UUID `json:"id"`
	Plate        string    `json:"plate"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	OwnerName    string    `json:"owner_name"`
	CustomerName string    `json:"customer_name"`
	Monitored    bool      `json:"monitored"`
}

// swagger:model
type VehicleRows []VehicleRow
