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

var errSubsidiaryRequired = errors.New("entity must keep at least one subsidiary")

// Entities is a slice of Entity objects
type Entities []Entity

// Entity is a person or company registered under a contractor. The type
// flags are not exclusive, one record may be customer and supplier at once.
type Entity struct {
	ID           uuid.UUID `db:"id"`
	ContractorID uuid.UUID `db:"contractor_id" validate:"required"`

	Name        string `db:"name" validate:"required"`
	TradingName string `db:"trading_name"`
	Document    string `db:"document" validate:"omitempty,brDocument"`

	Customer        bool `db:"customer"`
	Supplier        bool `db:"supplier"`
	ServiceProvider bool `db:"service_provider"`
	Association     bool `db:"association"`

	Blocked bool `db:"blocked"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Subsidiaries Subsidiaries `has_many:"subsidiaries" order_by:"created_at asc" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (e *Entity) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(e), nil
}

func (e *Entity) Create(tx *pop.Connection) error {
	return create(tx, e)
}

func (e *Entity) Update(tx *pop.Connection) error {
	return update(tx, e)
}

func (e *Entity) GetID() uuid.UUID {
	return e.ID
}

func (e *Entity) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, e, id)
}

// IsActorAllowedTo scopes entities to the actor's contractor and, for
// customer users, to their own entity.
func (e *Entity) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource) bool {
	if e.ID == uuid.Nil {
		// collection route, rows are tenant-filtered in the query
		return actor.IsAdmin() || p == PermissionList
	}
	if e.ContractorID != actor.ContractorID {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return p == PermissionView && actor.restrictedEntityID().UUID == e.ID
}

// CreateFromInput creates the entity and its full subsidiary tree in one
// transaction. At least one subsidiary is required so downstream records
// always have a branch to hang off of.
func (e *Entity) CreateFromInput(tx *pop.Connection, actor User, input api.EntityInput) error {
	if len(input.Subsidiaries) == 0 {
		return api.NewAppError(
			errSubsidiaryRequired, api.ErrorSubsidiaryLastRemaining, api.CategoryUser)
	}

	e.ContractorID = actor.ContractorID
	e.applyInput(input)

	if err := e.Create(tx); err != nil {
		return err
	}

	for _, subInput := range input.Subsidiaries {
		sub := Subsidiary{EntityID: e.ID}
		sub.applyInput(subInput)
		if err := sub.Create(tx); err != nil {
			return err
		}
		if err := sub.reconcileChildren(tx, subInput); err != nil {
			return err
		}
	}

	return tx.Load(e, "Subsidiaries")
}

// UpdateFromInput rewrites the entity and reconciles its subsidiary tree
// against the submitted lists. Subsidiaries absent from the payload are
// removed, as long as at least one remains.
func (e *Entity) UpdateFromInput(tx *pop.Connection, input api.EntityInput) error {
	if err := checkNotStale(e.UpdatedAt, input.UpdatedAt); err != nil {
		return err
	}
	if len(input.Subsidiaries) == 0 {
		return api.NewAppError(
			errSubsidiaryRequired, api.ErrorSubsidiaryLastRemaining, api.CategoryUser)
	}

	e.applyInput(input)
	if err := e.Update(tx); err != nil {
		return err
	}

	var stored Subsidiaries
	persisted, err := stored.IDsForEntity(tx, e.ID)
	if err != nil {
		return err
	}

	r := reconcile(input.Subsidiaries, persisted, func(in api.SubsidiaryInput) uuid.UUID { return in.ID })

	err = r.apply(
		func(id uuid.UUID) error {
			var sub Subsidiary
			if err := find(tx, &sub, id); err != nil {
				return err
			}
			return sub.Destroy(tx)
		},
		func(in api.SubsidiaryInput) error {
			sub := Subsidiary{EntityID: e.ID}
			sub.applyInput(in)
			if err := sub.Create(tx); err != nil {
				return err
			}
			return sub.reconcileChildren(tx, in)
		},
		func(in api.SubsidiaryInput) error {
			var sub Subsidiary
			if err := find(tx, &sub, in.ID); err != nil {
				return err
			}
			sub.applyInput(in)
			if err := sub.Update(tx); err != nil {
				return err
			}
			return sub.reconcileChildren(tx, in)
		})
	if err != nil {
		return err
	}

	return tx.Load(e, "Subsidiaries")
}

func (e *Entity) applyInput(input api.EntityInput) {
	e.Name = input.Name
	e.TradingName = input.TradingName
	e.Document = domain.StripDocument(input.Document)
	e.Customer = input.Customer
	e.Supplier = input.Supplier
	e.ServiceProvider = input.ServiceProvider
	e.Association = input.Association
}

// SetBlocked flips the blocked flag. Blocking an entity hides it from
// pickers but keeps all existing records intact.
func (e *Entity) SetBlocked(tx *pop.Connection, blocked bool) error {
	e.Blocked = blocked
	return e.Update(tx)
}

// Destroy removes the entity and its subsidiary tree. Referencing records
// such as vehicles or contracts make the delete fail on the foreign key.
func (e *Entity) Destroy(tx *pop.Connection) error {
	var subs Subsidiaries
	if err := tx.Where("entity_id = ?", e.ID).All(&subs); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	for i := range subs {
		if err := subs[i].Destroy(tx); err != nil {
			return err
		}
	}
	return destroy(tx, e)
}

// LoadSubsidiaries hydrates the subsidiary tree including child collections
func (e *Entity) LoadSubsidiaries(tx *pop.Connection) error {
	if err := tx.Load(e, "Subsidiaries"); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	for i := range e.Subsidiaries {
		if err := e.Subsidiaries[i].LoadChildren(tx); err != nil {
			return err
		}
	}
	return nil
}

var entityGridColumns = map[string]string{
	"name":         "e.name",
	"trading_name": "e.trading_name",
	"document":     "e.document",
	"city":         "s.city",
	"state":        "s.state",
}

type entityGridRow struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	TradingName string    `db:"trading_name"`
	Document    string    `db:"document"`
	City        string    `db:"city"`
	State       string    `db:"state"`
	Blocked     bool      `db:"blocked"`
}

const entityGridFrom = ` FROM entities e
	LEFT JOIN LATERAL (
		SELECT city, state FROM subsidiaries
		WHERE entity_id = e.id ORDER BY created_at LIMIT 1
	) s ON true`

// RowsForGrid returns one page of the entities grid along with the
// unfiltered and filtered row counts for the actor's contractor.
func (e *Entities) RowsForGrid(tx *pop.Connection, actor User, p api.GridParams) (api.EntityRows, int, int, error) {
	where := []string{"e.contractor_id = ?"}
	args := []any{actor.ContractorID}
	if restricted := actor.restrictedEntityID(); restricted.Valid {
		where = append(where, "e.id = ?")
		args = append(args, restricted.UUID)
	}

	var total rowCount
	err := tx.RawQuery(
		"SELECT COUNT(*) AS count"+entityGridFrom+" WHERE "+strings.Join(where, " AND "),
		args...).First(&total)
	if err != nil {
		return nil, 0, 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	if clause := gridBlockedClause("e.blocked", p); clause != "" {
		where = append(where, clause)
	}
	if clause, searchArgs := gridSearchClause(entityGridColumns, p); clause != "" {
		where = append(where, clause)
		args = append(args, searchArgs...)
	}

	var filtered rowCount
	err = tx.RawQuery(
		"SELECT COUNT(*) AS count"+entityGridFrom+" WHERE "+strings.Join(where, " AND "),
		args...).First(&filtered)
	if err != nil {
		return nil, 0, 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	var rows []entityGridRow
	query := `SELECT e.id, e.name, e.trading_name, e.document,
		COALESCE(s.city, '') AS city, COALESCE(s.state, '') AS state, e.blocked` +
		entityGridFrom + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY e.name LIMIT ? OFFSET ?"
	args = append(args, p.Length(), p.Start())
	if err := tx.RawQuery(query, args...).All(&rows); err != nil {
		return nil, 0, 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	out := make(api.EntityRows, len(rows))
	for i, row := range rows {
		out[i] = api.EntityRow{
			ID:          row.ID,
			Name:        row.Name,
			TradingName: row.TradingName,
			Document:    row.Document,
			City:        row.City,
			State:       row.State,
			Blocked:     row.Blocked,
		}
	}
	return out, total.Count, filtered.Count, nil
}

// ConvertToAPI converts a models.Entity to an api.Entity
func (e *Entity) ConvertToAPI(tx *pop.Connection, hydrated bool) api.Entity {
	out := api.Entity{
		ID:              e.ID,
		Name:            e.Name,
		TradingName:     e.TradingName,
		Document:        e.Document,
		Customer:        e.Customer,
		Supplier:        e.Supplier,
		ServiceProvider: e.ServiceProvider,
		Association:     e.Association,
		Blocked:         e.Blocked,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}

	if hydrated {
		out.Subsidiaries = e.Subsidiaries.ConvertToAPI(tx, true)
	}

	return out
}
