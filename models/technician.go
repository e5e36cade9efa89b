package models

import (
	"errors"
	"strings"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
)

// Technicians is a slice of Technician objects
type Technicians []Technician

// Technician is a field worker belonging to a service provider
type Technician struct {
	ID                uuid.UUID `db:"id"`
	ServiceProviderID uuid.UUID `db:"service_provider_id" validate:"required"`

	Name     string `db:"name" validate:"required"`
	Document string `db:"document" validate:"omitempty,brDocument"`

	VehicleMake  string `db:"vehicle_make"`
	VehicleModel string `db:"vehicle_model"`
	VehiclePlate string `db:"vehicle_plate"`

	Blocked bool `db:"blocked"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Phones   Phones   `has_many:"phones" order_by:"created_at asc" validate:"-"`
	Mailings Mailings `has_many:"mailings" order_by:"created_at asc" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (t *Technician) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(t), nil
}

func (t *Technician) Create(tx *pop.Connection) error {
	return create(tx, t)
}

func (t *Technician) Update(tx *pop.Connection) error {
	return update(tx, t)
}

func (t *Technician) GetID() uuid.UUID {
	return t.ID
}

func (t *Technician) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, t, id)
}

// IsActorAllowedTo scopes technicians through the provider's entity
func (t *Technician) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource) bool {
	if t.ID == uuid.Nil {
		// collection route, rows are tenant-filtered in the query
		return actor.IsAdmin() || p == PermissionList
	}
	var provider ServiceProvider
	if err := provider.FindByID(tx, t.ServiceProviderID); err != nil {
		return false
	}
	return provider.IsActorAllowedTo(tx, actor, p, sub)
}

// CreateFromInput creates the technician and its phone and mailing lists.
// The target provider must belong to the actor's contractor.
func (t *Technician) CreateFromInput(tx *pop.Connection, actor User, input api.TechnicianInput) error {
	var provider ServiceProvider
	if err := provider.FindByID(tx, input.ServiceProviderID); err != nil {
		return err
	}
	if !provider.IsActorAllowedTo(tx, actor, PermissionCreate, "") {
		return api.NewAppError(
			errors.New("provider is outside the actor's contractor"),
			api.ErrorNotAuthorized, api.CategoryForbidden)
	}

	t.ServiceProviderID = input.ServiceProviderID
	t.applyInput(input)

	if err := t.Create(tx); err != nil {
		return err
	}
	return t.reconcileChildren(tx, input)
}

// UpdateFromInput rewrites the technician and reconciles its child lists
func (t *Technician) UpdateFromInput(tx *pop.Connection, input api.TechnicianInput) error {
	if err := checkNotStale(t.UpdatedAt, input.UpdatedAt); err != nil {
		return err
	}

	t.applyInput(input)
	if err := t.Update(tx); err != nil {
		return err
	}
	return t.reconcileChildren(tx, input)
}

func (t *Technician) applyInput(input api.TechnicianInput) {
	t.Name = input.Name
	t.Document = domain.StripDocument(input.Document)
	t.VehicleMake = input.VehicleMake
	t.VehicleModel = input.VehicleModel
	t.VehiclePlate = strings.ToUpper(input.VehiclePlate)
}

func (t *Technician) reconcileChildren(tx *pop.Connection, input api.TechnicianInput) error {
	if err := reconcilePhones(tx, PhoneOwner{TechnicianID: t.ID}, input.Phones); err != nil {
		return err
	}
	return reconcileMailings(tx, MailingOwner{TechnicianID: t.ID}, input.Mailings)
}

// SetBlocked flips the blocked flag
func (t *Technician) SetBlocked(tx *pop.Connection, blocked bool) error {
	t.Blocked = blocked
	return t.Update(tx)
}

// Destroy removes the technician and its phone and mailing lists
func (t *Technician) Destroy(tx *pop.Connection) error {
	for _, table := range []string{"phones", "mailings"} {
		if err := tx.RawQuery("DELETE FROM "+table+" WHERE technician_id = ?", t.ID).Exec(); err != nil {
			return appErrorFromDB(err, api.ErrorDestroyFailure)
		}
	}
	return destroy(tx, t)
}

// LoadChildren hydrates the phone and mailing lists
func (t *Technician) LoadChildren(tx *pop.Connection) error {
	if err := tx.Load(t, "Phones", "Mailings"); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return nil
}

var technicianGridColumns = map[string]string{
	"name":          "t.name",
	"document":      "t.document",
	"vehicle_plate": "t.vehicle_plate",
}

type technicianGridRow struct {
	ID                uuid.UUID `db:"id"`
	ServiceProviderID uuid.UUID `db:"service_provider_id"`
	Name              string    `db:"name"`
	Document          string    `db:"document"`
	VehiclePlate      string    `db:"vehicle_plate"`
	Blocked           bool      `db:"blocked"`
}

const technicianGridFrom = ` FROM technicians t
	INNER JOIN service_providers sp ON sp.id = t.service_provider_id
	INNER JOIN entities e ON e.id = sp.entity_id`

// RowsForGrid returns one page of the technicians grid along with the
// unfiltered and filtered row counts for the actor's contractor.
func (t *Technicians) RowsForGrid(tx *pop.Connection, actor User, p api.GridParams) (api.TechnicianRows, int, int, error) {
	where := []string{"e.contractor_id = ?"}
	args := []any{actor.ContractorID}

	var total rowCount
	err := tx.RawQuery(
		"SELECT COUNT(*) AS count"+technicianGridFrom+" WHERE "+strings.Join(where, " AND "),
		args...).First(&total)
	if err != nil {
		return nil, 0, 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	if clause := gridBlockedClause("t.blocked", p); clause != "" {
		where = append(where, clause)
	}
	if clause, searchArgs := gridSearchClause(technicianGridColumns, p); clause != "" {
		where = append(where, clause)
		args = append(args, searchArgs...)
	}

	var filtered rowCount
	err = tx.RawQuery(
		"SELECT COUNT(*) AS count"+technicianGridFrom+" WHERE "+strings.Join(where, " AND "),
		args...).First(&filtered)
	if err != nil {
		return nil, 0, 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	var rows []technicianGridRow
	query := `SELECT t.id, t.service_provider_id, t.name, t.document, t.vehicle_plate, t.blocked` +
		technicianGridFrom + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY t.name LIMIT ? OFFSET ?"
	args = append(args, p.Length(), p.Start())
	if err := tx.RawQuery(query, args...).All(&rows); err != nil {
		return nil, 0, 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	out := make(api.TechnicianRows, len(rows))
	for i, row := range rows {
		out[i] = api.TechnicianRow{
			ID:                row.ID,
			ServiceProviderID: row.ServiceProviderID,
			Name:              row.Name,
			Document:          row.Document,
			VehiclePlate:      row.VehiclePlate,
			Blocked:           row.Blocked,
		}
	}
	return out, total.Count, filtered.Count, nil
}

// ConvertToAPI converts a models.Technician to an api.Technician
func (t *Technician) ConvertToAPI(tx *pop.Connection, hydrated bool) api.Technician {
	out := api.Technician{
		ID:                t.ID,
		ServiceProviderID: t.ServiceProviderID,
		Name:              t.Name,
		Document:          t.Document,
		VehicleMake:       t.VehicleMake,
		VehicleModel:      t.VehicleModel,
		VehiclePlate:      t.VehiclePlate,
		Blocked:           t.Blocked,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}

	if hydrated {
		out.Phones = t.Phones.ConvertToAPI()
		out.Mailings = t.Mailings.ConvertToAPI()
	}

	return out
}
