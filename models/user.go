package models

import (
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
)

type UserAppRole string

const (
	// AppRoleAdmin sees every record under its contractor
	AppRoleAdmin = UserAppRole("Admin")

	// AppRoleStaff sees every record under its contractor but cannot manage users
	AppRoleStaff = UserAppRole("Staff")

	// AppRoleCustomer is restricted to the rows of its own entity
	AppRoleCustomer = UserAppRole("Customer")
)

var validUserAppRoles = map[UserAppRole]struct{}{
	AppRoleAdmin:    {},
	AppRoleStaff:    {},
	AppRoleCustomer: {},
}

// Users is a slice of User objects
type Users []User

// User model
type User struct {
	ID           uuid.UUID   `db:"id"`
	ContractorID uuid.UUID   `db:"contractor_id" validate:"required"`
	Email        string      `db:"email" validate:"required"`
	FirstName    string      `db:"first_name"`
	LastName     string      `db:"last_name"`
	AppRole      UserAppRole `db:"app_role" validate:"appRole"`

	// EntityID scopes a Customer-role user to one entity's records
	EntityID nulls.UUID `db:"entity_id"`

	IsBlocked    bool      `db:"is_blocked"`
	LastLoginUTC time.Time `db:"last_login_utc"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (u *User) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(u), nil
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return tx.Find(u, id)
}

func (u *User) Create(tx *pop.Connection) error {
	return create(tx, u)
}

func (u *User) Save(tx *pop.Connection) error {
	return save(tx, u)
}

func (u *User) Update(tx *pop.Connection) error {
	return update(tx, u)
}

func (u *User) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource) bool {
	if u.ID == uuid.Nil {
		// collection route, rows are scoped to the actor's contractor in the query
		return actor.IsAdmin() || p == PermissionList
	}

	switch p {
	case PermissionView:
		return actor.ContractorID == u.ContractorID
	case PermissionList, PermissionCreate, PermissionDelete:
		return actor.IsAdmin() && actor.ContractorID == u.ContractorID
	case PermissionUpdate:
		return actor.ID == u.ID || (actor.IsAdmin() && actor.ContractorID == u.ContractorID)
	default:
		return false
	}
}

// IsAdmin is true for users that see every record under their contractor
func (u *User) IsAdmin() bool {
	return u.AppRole == AppRoleAdmin || u.AppRole == AppRoleStaff
}

// restrictedEntityID returns the entity a Customer-role user is limited to,
// or nulls.UUID{} for unrestricted roles
func (u *User) restrictedEntityID() nulls.UUID {
	if u.IsAdmin() {
		return nulls.UUID{}
	}
	return u.EntityID
}

// FindByEmail loads the user with the given email address
func (u *User) FindByEmail(tx *pop.Connection, email string) error {
	return tx.Where("email = ?", email).First(u)
}

// CreateAccessToken issues a new bearer token for the user and returns the
// plaintext token, which is never stored.
func (u *User) CreateAccessToken(tx *pop.Connection) (UserAccessToken, error) {
	uat := InitAccessToken()
	uat.UserID = u.ID
	if err := uat.Create(tx); err != nil {
		return uat, api.NewAppError(err, api.ErrorCreatingAccessToken, api.CategoryInternal)
	}
	return uat, nil
}

// AllForContractor loads every user under the given contractor
func (u *Users) AllForContractor(tx *pop.Connection, contractorID uuid.UUID) error {
	return tx.Where("contractor_id = ?", contractorID).Order("email asc").All(u)
}

// ConvertToAPI converts a models.User to an api.User
func (u *User) ConvertToAPI() api.User {
	return api.User{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		AppRole:      string(u.AppRole),
		EntityID:     convertUUIDToAPI(u.EntityID),
		LastLoginUTC: u.LastLoginUTC,
	}
}

// ConvertToAPI converts a models.Users to an api.Users
func (u Users) ConvertToAPI() api.Users {
	out := make(api.Users, len(u))
	for i := range u {
		out[i] = u[i].ConvertToAPI()
	}
	return out
}
