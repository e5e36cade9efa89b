package models

import (
	"errors"
	"strings"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
)

// ServiceProviders is a slice of ServiceProvider objects
type ServiceProviders []ServiceProvider

// ServiceProvider is the supplementary record for an entity that performs
// field service. The entity carries the name and document, this record
// carries the commercial terms.
type ServiceProvider struct {
	ID       uuid.UUID `db:"id"`
	EntityID uuid.UUID `db:"entity_id" validate:"required"`

	OccupationArea string `db:"occupation_area"`

	// visit fee in cents
	VisitFee int `db:"visit_fee" validate:"min=0"`

	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Accounts          Accounts          `has_many:"accounts" order_by:"created_at asc" validate:"-"`
	ServicePrices     ServicePrices     `has_many:"service_prices" order_by:"created_at asc" validate:"-"`
	DisplacementTiers DisplacementTiers `has_many:"displacement_tiers" order_by:"from_km asc" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (sp *ServiceProvider) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(sp), nil
}

func (sp *ServiceProvider) Create(tx *pop.Connection) error {
	return create(tx, sp)
}

func (sp *ServiceProvider) Update(tx *pop.Connection) error {
	return update(tx, sp)
}

func (sp *ServiceProvider) GetID() uuid.UUID {
	return sp.ID
}

func (sp *ServiceProvider) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, sp, id)
}

// FindByEntityID loads the provider record hanging off an entity
func (sp *ServiceProvider) FindByEntityID(tx *pop.Connection, entityID uuid.UUID) error {
	if err := tx.Where("entity_id = ?", entityID).First(sp); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return nil
}

// IsActorAllowedTo scopes providers through their entity's contractor
func (sp *ServiceProvider) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource) bool {
	if sp.ID == uuid.Nil {
		// collection route, rows are tenant-filtered in the query
		return actor.IsAdmin() || p == PermissionList
	}
	var entity Entity
	if err := entity.FindByID(tx, sp.EntityID); err != nil {
		return false
	}
	if entity.ContractorID != actor.ContractorID {
		return false
	}
	return actor.IsAdmin() || p == PermissionView
}

// CreateFromInput creates the provider and its payment, price and tier
// lists in one transaction. The target entity must belong to the actor's
// contractor and be flagged as a service provider.
func (sp *ServiceProvider) CreateFromInput(tx *pop.Connection, actor User, input api.ServiceProviderInput) error {
	var entity Entity
	if err := entity.FindByID(tx, input.EntityID); err != nil {
		return err
	}
	if entity.ContractorID != actor.ContractorID || !entity.ServiceProvider {
		return api.NewAppError(
			errors.New("entity is not flagged as a service provider"),
			api.ErrorServiceProviderMissingEntity, api.CategoryUser)
	}

	sp.EntityID = input.EntityID
	sp.applyInput(input)

	if err := sp.Create(tx); err != nil {
		return err
	}
	return sp.reconcileChildren(tx, input)
}

// UpdateFromInput rewrites the provider and reconciles its child lists
func (sp *ServiceProvider) UpdateFromInput(tx *pop.Connection, input api.ServiceProviderInput) error {
	if err := checkNotStale(sp.UpdatedAt, input.UpdatedAt); err != nil {
		return err
	}

	sp.applyInput(input)
	if err := sp.Update(tx); err != nil {
		return err
	}
	return sp.reconcileChildren(tx, input)
}

func (sp *ServiceProvider) applyInput(input api.ServiceProviderInput) {
	sp.OccupationArea = input.OccupationArea
	sp.VisitFee = int(input.VisitFee)
	sp.Latitude = input.Latitude
	sp.Longitude = input.Longitude
}

func (sp *ServiceProvider) reconcileChildren(tx *pop.Connection, input api.ServiceProviderInput) error {
	if err := reconcileAccounts(tx, sp.ID, input.Accounts); err != nil {
		return err
	}
	if err := reconcileServicePrices(tx, sp.ID, input.ServicePrices); err != nil {
		return err
	}
	return reconcileDisplacementTiers(tx, sp.ID, input.DisplacementTiers)
}

// Destroy removes the provider and its child lists. The entity record
// stays untouched.
func (sp *ServiceProvider) Destroy(tx *pop.Connection) error {
	for _, table := range []string{"accounts", "service_prices", "displacement_tiers"} {
		if err := tx.RawQuery("DELETE FROM "+table+" WHERE service_provider_id = ?", sp.ID).Exec(); err != nil {
			return appErrorFromDB(err, api.ErrorDestroyFailure)
		}
	}
	return destroy(tx, sp)
}

// LoadChildren hydrates the account, price and tier lists
func (sp *ServiceProvider) LoadChildren(tx *pop.Connection) error {
	if err := tx.Load(sp, "Accounts", "ServicePrices", "DisplacementTiers"); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return nil
}

var serviceProviderGridColumns = map[string]string{
	"name":            "e.name",
	"document":        "e.document",
	"occupation_area": "sp.occupation_area",
}

type serviceProviderGridRow struct {
	ID             uuid.UUID `db:"id"`
	EntityID       uuid.UUID `db:"entity_id"`
	Name           string    `db:"name"`
	Document       string    `db:"document"`
	OccupationArea string    `db:"occupation_area"`
	Blocked        bool      `db:"blocked"`
}

const serviceProviderGridFrom = ` FROM service_providers sp
	INNER JOIN entities e ON e.id = sp.entity_id`

// RowsForGrid returns one page of the service providers grid along with the
// unfiltered and filtered row counts for the actor's contractor.
func (sp *ServiceProviders) RowsForGrid(tx *pop.Connection, actor User, p api.GridParams) (api.ServiceProviderRows, int, int, error) {
	where := []string{"e.contractor_id = ?"}
	args := []any{actor.ContractorID}

	var total rowCount
	err := tx.RawQuery(
		"SELECT COUNT(*) AS count"+serviceProviderGridFrom+" WHERE "+strings.Join(where, " AND "),
		args...).First(&total)
	if err != nil {
		return nil, 0, 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	if clause := gridBlockedClause("e.blocked", p); clause != "" {
		where = append(where, clause)
	}
	if clause, searchArgs := gridSearchClause(serviceProviderGridColumns, p); clause != "" {
		where = append(where, clause)
		args = append(args, searchArgs...)
	}

	var filtered rowCount
	err = tx.RawQuery(
		"SELECT COUNT(*) AS count"+serviceProviderGridFrom+" WHERE "+strings.Join(where, " AND "),
		args...).First(&filtered)
	if err != nil {
		return nil, 0, 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	var rows []serviceProviderGridRow
	query := `SELECT sp.id, sp.entity_id, e.name, e.document, sp.occupation_area, e.blocked` +
		serviceProviderGridFrom + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY e.name LIMIT ? OFFSET ?"
	args = append(args, p.Length(), p.Start())
	if err := tx.RawQuery(query, args...).All(&rows); err != nil {
		return nil, 0, 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	out := make(api.ServiceProviderRows, len(rows))
	for i, row := range rows {
		out[i] = api.ServiceProviderRow{
			ID:             row.ID,
			EntityID:       row.EntityID,
			Name:           row.Name,
			Document:       row.Document,
			OccupationArea: row.OccupationArea,
			Blocked:        row.Blocked,
		}
	}
	return out, total.Count, filtered.Count, nil
}

// ConvertToAPI converts a models.ServiceProvider to an api.ServiceProvider
func (sp *ServiceProvider) ConvertToAPI(tx *pop.Connection, hydrated bool) api.ServiceProvider {
	out := api.ServiceProvider{
		ID:             sp.ID,
		EntityID:       sp.EntityID,
		OccupationArea: sp.OccupationArea,
		VisitFee:       api.Currency(sp.VisitFee),
		Latitude:       sp.Latitude,
		Longitude:      sp.Longitude,
		CreatedAt:      sp.CreatedAt,
		UpdatedAt:      sp.UpdatedAt,
	}

	if hydrated {
		out.Accounts = sp.Accounts.ConvertToAPI()
		out.ServicePrices = sp.ServicePrices.ConvertToAPI()
		out.DisplacementTiers = sp.DisplacementTiers.ConvertToAPI()
	}

	return out
}
