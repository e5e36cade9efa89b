package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// swagger:model
type Entities []Entity

// Entity represents a person or company registered under a contractor
// swagger:model
type Entity struct {
	// unique id (uuid) for entity
	//
	// swagger:strfmt uuid4
	// unique: true
	// example: 63d5b060-1460-4348-bdf0-ad03c105a8d5
	ID uuid.UUID `json:"id"`

	Name        string `json:"name"`
	TradingName string `json:"trading_name"`
	Document    string `json:"document"`

	Customer        bool `json:"customer"`
	Supplier        bool `json:"supplier"`
	ServiceProvider bool `json:"service_provider"`
	Association     bool `json:"association"`

	Blocked bool `json:"blocked"`

	Subsidiaries Subsidiaries `json:"subsidiaries,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// swagger:model
type Subsidiaries []Subsidiary

// Subsidiary is a branch/unit/title-holder record under an Entity
// swagger:model
type Subsidiary struct {
	ID uuid.UUID `json:"id"`

	EntityID          uuid.UUID `json:"entity_id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	District          string    `json:"district"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	PostalCode        string    `json:"postalcode"`
	StateRegistration string    `json:"state_registration"`
	Blocked           bool      `json:"blocked"`

	Phones   Phones   `json:"phones,omitempty"`
	Mailings Mailings `json:"mailings,omitempty"`
	Contacts Contacts `json:"contacts,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// swagger:model
type Phones []Phone

// swagger:model
type Phone struct {
	ID     uuid.UUID `json:"id"`
	Number string    `json:"number"`
}

// swagger:model
type Mailings []Mailing

// Mailing is an email address owned by a subsidiary, technician or vehicle owner
// swagger:model
type Mailing struct {
	ID      uuid.UUID `json:"id"`
	Address string    `json:"address"`
}

// swagger:model
type Contacts []Contact

// Contact is an extra named contact under a subsidiary
// swagger:model
type Contact struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
	Email  string    `json:"email"`
	Remark string    `json:"remark"`
}

// EntityInput represents payload for adding or updating an entity. Child
// records with a nil ID are created; persisted children missing from the
// lists are removed.
// swagger:model
type EntityInput struct {
	Name        string `json:"name"`
	TradingName string `json:"trading_name"`
	Document    string `json:"document"`

	Customer        bool `json:"customer"`
	Supplier        bool `json:"supplier"`
	ServiceProvider bool `json:"service_provider"`
	Association     bool `json:"association"`

	Subsidiaries []SubsidiaryInput `json:"subsidiaries"`

	// last-read modification stamp, checked against the stored record on update
	UpdatedAt time.Time `json:"updated_at"`
}

// swagger:model
type SubsidiaryInput struct {
	// nil for a new subsidiary
	ID uuid.UUID `json:"id"`

	Name              string `json:"name"`
	Address           string `json:"address"`
	District          string `json:"district"`
	City              string `json:"city"`
	State             string `json:"state"`
	PostalCode        string `json:"postalcode"`
	StateRegistration string `json:"state_registration"`

	Phones   []PhoneInput   `json:"phones"`
	Mailings []MailingInput `json:"mailings"`
	Contacts []ContactInput `json:"contacts"`
}

// swagger:model
type PhoneInput struct {
	ID     uuid.UUID `json:"id"`
	Number string    `json:"number"`
}

// swagger:model
type MailingInput struct {
	ID      uuid.UUID `json:"id"`
	Address string    `json:"address"`
}

// swagger:model
type ContactInput struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
	Email  string    `json:"email"`
	Remark string    `json:"remark"`
}

// EntityBlockedInput toggles the blocked flag on an entity
// swagger:model
type EntityBlockedInput struct {
	Blocked bool `json:"blocked"`
}

// EntityRow is one row of the entities grid
// swagger:model
type EntityRow struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	TradingName string    `json:"trading_name"`
	Document    string    `json:"document"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Blocked     bool      `json:"blocked"`
}

// swagger:model
type EntityRows []EntityRow
