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

// Vehicles is a slice of Vehicle objects
type Vehicles []Vehicle

// Vehicle is a tracked asset belonging to a customer entity and subsidiary.
// Equipment units are linked to it, never owned by it, so a transfer moves
// the unit without touching the vehicle record.
type Vehicle struct {
	ID           uuid.UUID `db:"id"`
	ContractorID uuid.UUID `db:"contractor_id" validate:"required"`
	EntityID     uuid.UUID `db:"entity_id" validate:"required"`
	SubsidiaryID uuid.UUID `db:"subsidiary_id" validate:"required"`

	Plate     string `db:"plate" validate:"required,max=8"`
	Vin       string `db:"vin"`
	Make      string `db:"make"`
	Model     string `db:"model"`
	ModelYear int    `db:"model_year"`
	Color     string `db:"color"`

	OwnerName string `db:"owner_name"`
	Monitored bool   `db:"monitored"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	OwnerPhones   Phones             `db:"-"`
	AnotherPhones Phones             `db:"-"`
	Attachments   VehicleAttachments `has_many:"vehicle_attachments" order_by:"created_at asc" validate:"-"`
	Equipments    Equipments         `has_many:"equipments" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (v *Vehicle) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(v), nil
}

func (v *Vehicle) Create(tx *pop.Connection) error {
	return create(tx, v)
}

func (v *Vehicle) Update(tx *pop.Connection) error {
	return update(tx, v)
}

func (v *Vehicle) GetID() uuid.UUID {
	return v.ID
}

func (v *Vehicle) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, v, id)
}

// IsActorAllowedTo scopes vehicles to the actor's contractor and, for
// customer users, to their own entity.
func (v *Vehicle) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource) bool {
	if v.ID == uuid.Nil {
		// collection route, rows are tenant-filtered in the query
		return actor.IsAdmin() || p == PermissionList
	}
	if v.ContractorID != actor.ContractorID {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return p == PermissionView && actor.restrictedEntityID().UUID == v.EntityID
}

// CreateFromInput creates the vehicle and its phone lists. The target
// entity must be a customer under the actor's contractor and the subsidiary
// must belong to it.
func (v *Vehicle) CreateFromInput(tx *pop.Connection, actor User, input api.VehicleInput) error {
	entity, sub, err := customerDestination(tx, actor, input.EntityID, input.SubsidiaryID)
	if err != nil {
		return err
	}

	v.ContractorID = entity.ContractorID
	v.EntityID = entity.ID
	v.SubsidiaryID = sub.ID
	v.applyInput(input)

	if err := v.Create(tx); err != nil {
		return err
	}
	return v.reconcilePhones(tx, input)
}

// UpdateFromInput rewrites the vehicle and reconciles its phone lists
func (v *Vehicle) UpdateFromInput(tx *pop.Connection, actor User, input api.VehicleInput) error {
	if err := checkNotStale(v.UpdatedAt, input.UpdatedAt); err != nil {
		return err
	}

	entity, sub, err := customerDestination(tx, actor, input.EntityID, input.SubsidiaryID)
	if err != nil {
		return err
	}

	v.EntityID = entity.ID
	v.SubsidiaryID = sub.ID
	v.applyInput(input)

	if err := v.Update(tx); err != nil {
		return err
	}
	return v.reconcilePhones(tx, input)
}

func (v *Vehicle) applyInput(input api.VehicleInput) {
	v.Plate = strings.ToUpper(input.Plate)
	v.Vin = strings.ToUpper(input.Vin)
	v.Make = input.Make
	v.Model = input.Model
	v.ModelYear = input.ModelYear
	v.Color = input.Color
	v.OwnerName = input.OwnerName
}

func (v *Vehicle) reconcilePhones(tx *pop.Connection, input api.VehicleInput) error {
	owner := PhoneOwner{VehicleID: v.ID, Kind: PhoneKindOwner}
	if err := reconcilePhones(tx, owner, input.OwnerPhones); err != nil {
		return err
	}
	another := PhoneOwner{VehicleID: v.ID, Kind: PhoneKindAnother}
	return reconcilePhones(tx, another, input.AnotherPhones)
}

// SetMonitored flips the monitored flag
func (v *Vehicle) SetMonitored(tx *pop.Connection, monitored bool) error {
	v.Monitored = monitored
	return v.Update(tx)
}

// Destroy removes the vehicle, its phone lists and attachment rows. A
// vehicle with linked equipment fails on the foreign key.
func (v *Vehicle) Destroy(tx *pop.Connection) error {
	if err := tx.Load(v, "Attachments"); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	for i := range v.Attachments {
		if err := v.Attachments[i].Destroy(tx); err != nil {
			return err
		}
	}
	if err := tx.RawQuery("DELETE FROM phones WHERE vehicle_id = ?", v.ID).Exec(); err != nil {
		return appErrorFromDB(err, api.ErrorDestroyFailure)
	}
	return destroy(tx, v)
}

// LoadChildren hydrates phones, attachments and linked equipment
func (v *Vehicle) LoadChildren(tx *pop.Connection) error {
	err := tx.Where("vehicle_id = ? AND kind = ?", v.ID, PhoneKindOwner).
		Order("created_at").All(&v.OwnerPhones)
	if err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	err = tx.Where("vehicle_id = ? AND kind = ?", v.ID, PhoneKindAnother).
		Order("created_at").All(&v.AnotherPhones)
	if err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	if err := tx.Load(v, "Attachments", "Equipments"); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	for i := range v.Attachments {
		if err := v.Attachments[i].LoadFile(tx); err != nil {
			return err
		}
	}
	return nil
}

// ActiveCountForEntity counts monitored vehicles still under a customer.
// The vehicle given in excluding is left out of the count, so a vehicle on
// its way to another customer does not count as remaining. Pass uuid.Nil to
// count them all.
func ActiveCountForEntity(tx *pop.Connection, entityID, excluding uuid.UUID) (int, error) {
	count, err := tx.Where("entity_id = ? AND monitored = true AND id != ?", entityID, excluding).
		Count(&Vehicle{})
	if err != nil {
		return 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return count, nil
}

// customerDestination resolves and checks an entity/subsidiary pair as a
// valid vehicle home for the actor's contractor.
func customerDestination(tx *pop.Connection, actor User, entityID, subsidiaryID uuid.UUID) (Entity, Subsidiary, error) {
	var entity Entity
	if err := entity.FindByID(tx, entityID); err != nil {
		return Entity{}, Subsidiary{}, err
	}
	if entity.ContractorID != actor.ContractorID || !entity.Customer {
		return Entity{}, Subsidiary{}, api.NewAppError(
			errors.New("destination entity is not a customer in this contractor"),
			api.ErrorEntityInvalidType, api.CategoryUser)
	}
	if entity.Blocked {
		return Entity{}, Subsidiary{}, api.NewAppError(
			errors.New("destination entity is blocked"),
			api.ErrorEntityBlocked, api.CategoryUser)
	}

	var sub Subsidiary
	if err := sub.FindByID(tx, subsidiaryID); err != nil {
		return Entity{}, Subsidiary{}, err
	}
	if sub.EntityID != entity.ID {
		return Entity{}, Subsidiary{}, api.NewAppError(
			errors.New("subsidiary does not belong to the destination entity"),
			api.ErrorSubsidiaryNotUnderEntity, api.CategoryUser)
	}

	return entity, sub, nil
}

var vehicleGridColumns = map[string]string{
	"plate":      "v.plate",
	"make":       "v.make",
	"model":      "v.model",
	"owner_name": "v.owner_name",
	"customer":   "e.name",
}

type vehicleGridRow struct {
	ID           uuid.UUID `db:"id"`
	Plate        string    `db:"plate"`
	Make         string    `db:"make"`
	Model        string    `db:"model"`
	OwnerName    string    `db:"owner_name"`
	CustomerName string    `db:"customer_name"`
	Monitored    bool      `db:"monitored"`
}

const vehicleGridFrom = ` FROM vehicles v
	INNER JOIN entities e ON e.id = v.entity_id`

// RowsForGrid returns one page of the vehicles grid along with the
// unfiltered and filtered row counts for the actor's contractor. The
// blocked filter maps to the monitored flag, a "blocked" vehicle being one
// no longer monitored.
func (v *Vehicles) RowsForGrid(tx *pop.Connection, actor User, p api.GridParams) (api.VehicleRows, int, int, error) {
	where := []string{"v.contractor_id = ?"}
	args := []any{actor.ContractorID}
	if restricted := actor.restrictedEntityID(); restricted.Valid {
		where = append(where, "v.entity_id = ?")
		args = append(args, restricted.UUID)
	}

	var total rowCount
	err := tx.RawQuery(
		"SELECT COUNT(*) AS count"+vehicleGridFrom+" WHERE "+strings.Join(where, " AND "),
		args...).First(&total)
	if err != nil {
		return nil, 0, 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	switch p.Blocked() {
	case api.BlockedFilterOnly:
		where = append(where, "v.monitored = false")
	case api.BlockedFilterActive:
		where = append(where, "v.monitored = true")
	}
	if clause, searchArgs := gridSearchClause(vehicleGridColumns, p); clause != "" {
		where = append(where, clause)
		args = append(args, searchArgs...)
	}

	var filtered rowCount
	err = tx.RawQuery(
		"SELECT COUNT(*) AS count"+vehicleGridFrom+" WHERE "+strings.Join(where, " AND "),
		args...).First(&filtered)
	if err != nil {
		return nil, 0, 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	var rows []vehicleGridRow
	query := `SELECT v.id, v.plate, v.make, v.model, v.owner_name,
		e.name AS customer_name, v.monitored` +
		vehicleGridFrom + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY v.plate LIMIT ? OFFSET ?"
	args = append(args, p.Length(), p.Start())
	if err := tx.RawQuery(query, args...).All(&rows); err != nil {
		return nil, 0, 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	out := make(api.VehicleRows, len(rows))
	for i, row := range rows {
		out[i] = api.VehicleRow{
			ID:           row.ID,
			Plate:        row.Plate,
			Make:         row.Make,
			Model:        row.Model,
			OwnerName:    row.OwnerName,
			CustomerName: row.CustomerName,
			Monitored:    row.Monitored,
		}
	}
	return out, total.Count, filtered.Count, nil
}

// ConvertToAPI converts a models.Vehicle to an api.Vehicle
func (v *Vehicle) ConvertToAPI(tx *pop.Connection, hydrated bool) api.Vehicle {
	out := api.Vehicle{
		ID:           v.ID,
		EntityID:     v.EntityID,
		SubsidiaryID: v.SubsidiaryID,
		Plate:        v.Plate,
		Vin:          v.Vin,
		Make:         v.Make,
		Model:        v.Model,
		ModelYear:    v.ModelYear,
		Color:        v.Color,
		OwnerName:    v.OwnerName,
		Monitored:    v.Monitored,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}

	if hydrated {
		out.OwnerPhones = v.OwnerPhones.ConvertToAPI()
		out.AnotherPhones = v.AnotherPhones.ConvertToAPI()
		out.Attachments = v.Attachments.ConvertToAPI(tx)
		out.Equipments = v.Equipments.ConvertToAPI()
	}

	return out
}
