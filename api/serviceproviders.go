package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// AccountType distinguishes a conventional bank account from a PIX key
type AccountType string

const (
	AccountTypeBank = AccountType("Bank")
	AccountTypePix  = AccountType("Pix")
)

// PixKeyType identifies the format of a PIX key
type PixKeyType int

const (
	PixKeyTypeNone    = PixKeyType(1)
	PixKeyTypeCpfCnpj = PixKeyType(2)
	PixKeyTypeEmail   = PixKeyType(3)
	PixKeyTypePhone   = PixKeyType(4)
	PixKeyTypeRandom  = PixKeyType(5)
)

// swagger:model
type ServiceProviders []ServiceProvider

// ServiceProvider is the supplementary record for an entity that performs field service
// swagger:model
type ServiceProvider struct {
	ID uuid.UUID `json:"id"`

	EntityID       uuid.UUID `json:"entity_id"`
	OccupationArea string    `json:"occupation_area"`

	// visit fee in cents
	VisitFee Currency `json:"visit_fee"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Accounts          Accounts          `json:"accounts,omitempty"`
	ServicePrices     ServicePrices     `json:"service_prices,omitempty"`
	DisplacementTiers DisplacementTiers `json:"displacement_tiers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// swagger:model
type Accounts []Account

// Account is a bank account or PIX key used to pay a service provider
// swagger:model
type Account struct {
	ID uuid.UUID `json:"id"`

	Type       AccountType `json:"type"`
	BankCode   string      `json:"bank_code"`
	Branch     string      `json:"branch"`
	Number     string      `json:"number"`
	PixKeyType PixKeyType  `json:"pixkeytypeid"`
	PixKey     string      `json:"pix_key"`
}

// swagger:model
type ServicePrices []ServicePrice

// ServicePrice is the value charged for one billing type
// swagger:model
type ServicePrice struct {
	ID uuid.UUID `json:"id"`

	BillingType string `json:"billing_type"`

	// value in cents
	Value Currency `json:"value"`
}

// swagger:model
type DisplacementTiers []DisplacementTier

// DisplacementTier is a distance-banded travel fee
// swagger:model
type DisplacementTier struct {
	ID uuid.UUID `json:"id"`

	// band bounds in kilometers, FromKm inclusive, ToKm exclusive
	FromKm int `json:"from_km"`
	ToKm   int `json:"to_km"`

	// fee in cents
	Value Currency `json:"value"`
}

// ServiceProviderInput represents payload for adding or updating a service provider
// swagger:model
type ServiceProviderInput struct {
	EntityID       uuid.UUID `json:"entity_id"`
	OccupationArea string    `json:"occupation_area"`
	VisitFee       Currency  `json:"visit_fee"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`

	Accounts          []AccountInput          `json:"accounts"`
	ServicePrices     []ServicePriceInput     `json:"service_prices"`
	DisplacementTiers []DisplacementTierInput `json:"displacement_tiers"`

	UpdatedAt time.Time `json:"updated_at"`
}

// swagger:model
type AccountInput struct {
	ID uuid.UUID `json:"id"`

	Type       AccountType `json:"type"`
	BankCode   string      `json:"bank_code"`
	Branch     string      `json:"branch"`
	Number     string      `json:"number"`
	PixKeyType PixKeyType  `json:"pixkeytypeid"`
	PixKey     string      `json:"pix_key"`
}

// swagger:model
type ServicePriceInput struct {
	ID uuid.UUID `json:"id"`

	BillingType string   `json:"billing_type"`
	Value       Currency `json:"value"`
}

// swagger:model
type DisplacementTierInput struct {
	ID uuid.UUID `json:"id"`

	FromKm int      `json:"from_km"`
	ToKm   int      `json:"to_km"`
	Value  Currency `json:"value"`
}

// ServiceProviderRow is one row of the service providers grid
// swagger:model
type ServiceProviderRow struct {
	ID             uuid.UUID `json:"id"`
	EntityID       uuid.UUID `json:"entity_id"`
	Name           string    `json:"name"`
	Document       string    `json:"document"`
	OccupationArea string    `json:"occupation_area"`
	Blocked        bool      `json:"blocked"`
}

// swagger:model
type ServiceProviderRows []ServiceProviderRow
