package models

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gobuffalo/events"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
)

// DB is a connection to the database to be used throughout the application.
var DB *pop.Connection

const tokenBytes = 32

type (
	Permission  int
	SubResource string
)

const (
	PermissionView Permission = iota
	PermissionList
	PermissionCreate
	PermissionUpdate
	PermissionDelete
	PermissionDenied
)

const (
	SubResourceNone        = SubResource("")
	SubResourceBlocked     = SubResource("blocked")
	SubResourceMonitored   = SubResource("monitored")
	SubResourceAttachments = SubResource("attachments")
)

type Authable interface {
	GetID() uuid.UUID
	FindByID(*pop.Connection, uuid.UUID) error
	IsActorAllowedTo(*pop.Connection, User, Permission, SubResource) bool
}

type Creatable interface {
	Create(*pop.Connection) error
}

type Updatable interface {
	Update(*pop.Connection) error
}

func init() {
	var err error
	env := domain.Env.GoEnv
	DB, err = pop.Connect(env)
	if err != nil {
		domain.ErrLogger.Printf("error connecting to database ... %v", err)
		log.Fatal(err)
	}
	pop.Debug = env == domain.EnvDevelopment

	// Just make sure we can use the crypto/rand library on our system
	if _, err = getRandomToken(); err != nil {
		log.Fatal(fmt.Errorf("error using crypto/rand ... %v", err))
	}

	// initialize model validation library
	mValidate = validator.New()

	// register custom validators for custom types
	for tag, vFunc := range fieldValidators {
		if err = mValidate.RegisterValidation(tag, vFunc, false); err != nil {
			log.Fatal(fmt.Errorf("failed to register validation for %s: %s", tag, err))
		}
	}

	// register struct-level validators
	mValidate.RegisterStructValidation(accountStructLevelValidation, Account{})
	mValidate.RegisterStructValidation(subsidiaryStructLevelValidation, Subsidiary{})
	mValidate.RegisterStructValidation(vehicleStructLevelValidation, Vehicle{})
	mValidate.RegisterStructValidation(displacementTierStructLevelValidation, DisplacementTier{})
}

func getRandomToken() (string, error) {
	rb := make([]byte, tokenBytes)

	_, err := rand.Read(rb)
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(rb), nil
}

// HashAccessToken returns a sha256.Sum256 of the input value
func HashAccessToken(accessToken string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(accessToken)))
}

// CurrentUser retrieves the current user from the context.
func CurrentUser(ctx context.Context) User {
	user, _ := ctx.Value(domain.ContextKeyCurrentUser).(User)
	return user
}

// Tx retrieves the database transaction from the context
func Tx(ctx context.Context) *pop.Connection {
	tx, ok := ctx.Value(domain.ContextKeyTx).(*pop.Connection)
	if !ok {
		domain.Logger.Print("no transaction found in context, called from: " + domain.GetFunctionName(2))
		return DB
	}
	return tx
}

func fieldByName(i any, name ...string) reflect.Value {
	if len(name) < 1 {
		return reflect.Value{}
	}
	f := reflect.ValueOf(i).Elem().FieldByName(name[0])
	if !f.IsValid() {
		return fieldByName(i, name[1:]...)
	}
	return f
}

func create(tx *pop.Connection, m any) error {
	uuidField := fieldByName(m, "ID")
	if uuidField.IsValid() && uuidField.Interface().(uuid.UUID).Version() == 0 {
		uuidField.Set(reflect.ValueOf(domain.GetUUID()))
	}

	valErrs, err := tx.ValidateAndCreate(m)
	if err != nil {
		return appErrorFromDB(err, api.ErrorCreateFailure)
	}

	if valErrs.HasAny() {
		return api.NewAppError(
			errors.New(flattenPopErrors(valErrs)),
			api.ErrorValidation,
			api.CategoryUser,
		)
	}
	return nil
}

func appErrorFromDB(err error, defaultKey api.ErrorKey) error {
	if err == nil {
		return nil
	}

	appErr := api.NewAppError(err, defaultKey, api.CategoryInternal)

	if !domain.IsOtherThanNoRows(err) {
		appErr.Category = api.CategoryUser
		appErr.Key = api.ErrorNoRows
		return appErr
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		appErr.Err = fmt.Errorf("%w Detail: %s", err, pgError.Detail)

		switch pgError.Code {
		case pgerrcode.ForeignKeyViolation:
			appErr.Key = api.ErrorForeignKeyViolation
			appErr.Category = api.CategoryUser
		case pgerrcode.UniqueViolation:
			appErr.Key = api.ErrorUniqueKeyViolation
			appErr.Category = api.CategoryUser
		}
	}

	return appErr
}

func find(tx *pop.Connection, m any, id uuid.UUID) error {
	err := tx.Find(m, id)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

func save(tx *pop.Connection, m any) error {
	uuidField := fieldByName(m, "ID")
	if uuidField.IsValid() && uuidField.Interface().(uuid.UUID).Version() == 0 {
		uuidField.Set(reflect.ValueOf(domain.GetUUID()))
	}

	valErrs, err := tx.ValidateAndSave(m)
	if err != nil {
		return api.NewAppError(err, api.ErrorSaveFailure, api.CategoryInternal)
	}

	if valErrs != nil && valErrs.HasAny() {
		return api.NewAppError(
			errors.New(flattenPopErrors(valErrs)),
			api.ErrorValidation,
			api.CategoryUser,
		)
	}

	return nil
}

func update(tx *pop.Connection, m any) error {
	valErrs, err := tx.ValidateAndUpdate(m)
	if err != nil {
		return appErrorFromDB(err, api.ErrorUpdateFailure)
	}

	if valErrs.HasAny() {
		return api.NewAppError(
			errors.New(flattenPopErrors(valErrs)),
			api.ErrorValidation,
			api.CategoryUser,
		)
	}
	return nil
}

func destroy(tx *pop.Connection, m any) error {
	err := tx.Destroy(m)
	return appErrorFromDB(err, api.ErrorDestroyFailure)
}

// checkNotStale compares the modification stamp supplied by the client with
// the one on the stored record. A mismatch means another request saved the
// record after the client last read it.
func checkNotStale(stored, supplied time.Time) error {
	if supplied.IsZero() {
		return nil
	}
	if stored.Truncate(time.Second).Equal(supplied.Truncate(time.Second)) {
		return nil
	}
	err := fmt.Errorf("record was modified at %s, after the submitted copy was read", stored)
	return api.NewAppError(err, api.ErrorRecordStale, api.CategoryConflict)
}

// This can include an event payload, which is a map[string]any
func emitEvent(e events.Event) {
	if err := events.Emit(e); err != nil {
		domain.ErrLogger.Printf("error emitting event %s ... %v", e.Kind, err)
	}
}

func convertUUIDToAPI(id nulls.UUID) *uuid.UUID {
	if id.Valid {
		return &id.UUID
	}
	return nil
}

func convertTimeToAPI(t nulls.Time) *time.Time {
	if t.Valid {
		return &t.Time
	}
	return nil
}
