package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
)

// UserAccessToken is a bearer credential for one user. Only the sha256 of
// the token is stored; the plaintext exists in the issuing response alone.
type UserAccessToken struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id" validate:"required"`
	AccessToken string     `db:"-"`
	TokenHash   string     `db:"access_token" validate:"required"`
	ExpiresAt   time.Time  `db:"expires_at" validate:"required"`
	LastUsedAt  nulls.Time `db:"last_used_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`

	User *User `belongs_to:"users"`
}

// UserAccessTokens is a slice of UserAccessToken objects
type UserAccessTokens []UserAccessToken

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (u *UserAccessToken) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(u), nil
}

// FindByAccessToken hashes the plaintext token, looks up the matching row,
// and records the use in last_used_at.
// returns an api.AppError
func (u *UserAccessToken) FindByAccessToken(tx *pop.Connection, token string) error {
	if err := tx.Eager().Where("access_token = ?", HashAccessToken(token)).First(u); err != nil {
		if domain.IsOtherThanNoRows(err) {
			panic("database error trying to find user access token: " + err.Error())
		}
		return &api.AppError{
			Err:      err,
			Key:      api.ErrorFindingAccessToken,
			Category: api.CategoryUser,
			Message:  fmt.Sprintf("failed to find access token '%s...'", tokenPrefix(token)),
		}
	}

	u.LastUsedAt = nulls.NewTime(time.Now().UTC())
	return u.Update(tx)
}

// tokenPrefix gives the first few characters of a token, safe for log and
// error messages.
func tokenPrefix(token string) string {
	if len(token) > 5 {
		return token[:5]
	}
	return token
}

// DeleteByAccessToken finds the row matching the plaintext token and destroys it.
// returns an api.AppError
func (u *UserAccessToken) DeleteByAccessToken(tx *pop.Connection, token string) error {
	if appErr := u.FindByAccessToken(tx, token); appErr != nil {
		return appErr
	}
	if err := u.Destroy(tx); err != nil {
		panic("database error trying to destroy user access token: " + err.Error())
	}
	return nil
}

// DeleteIfExpired destroys the token if it is past its expiration, reporting
// whether it was expired.
func (u *UserAccessToken) DeleteIfExpired(tx *pop.Connection) (bool, error) {
	if u.ExpiresAt.After(time.Now()) {
		return false, nil
	}
	if err := u.Destroy(tx); err != nil {
		return true, fmt.Errorf("unable to delete expired userAccessToken, id: %v", u.ID)
	}
	return true, nil
}

func (u *UserAccessToken) Destroy(tx *pop.Connection) error {
	return tx.Destroy(u)
}

// GetUser returns the User associated with this access token
func (u *UserAccessToken) GetUser(tx *pop.Connection) (User, error) {
	if err := tx.Load(u, "User"); err != nil {
		return User{}, err
	}
	if u.User.Email == "" {
		return User{}, errors.New("no user associated with access token")
	}
	return *u.User, nil
}

// Create stores the UserAccessToken data as a new record in the database.
func (u *UserAccessToken) Create(tx *pop.Connection) error {
	return create(tx, u)
}

// Update updates the UserAccessToken data in the database.
func (u *UserAccessToken) Update(tx *pop.Connection) error {
	return update(tx, u)
}

// InitAccessToken mints a fresh token with the configured lifetime. The
// plaintext is printed to the console in development so it can be pasted
// into a client.
func InitAccessToken() UserAccessToken {
	token, _ := getRandomToken() // The init() function would have made sure there was no error

	if domain.Env.GoEnv == domain.EnvDevelopment {
		fmt.Printf("\n\ntoken: %s\n", token)
	}

	return UserAccessToken{
		AccessToken: token,
		TokenHash:   HashAccessToken(token),
		ExpiresAt:   time.Now().Add(time.Second * time.Duration(domain.Env.AccessTokenLifetimeSeconds)),
	}
}
