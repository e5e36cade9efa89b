package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/envy"
	"github.com/gofrs/uuid"
	"github.com/kelseyhightower/envconfig"
)

var (
	// Logger is a plain instance of log.Logger, normally set to stdout
	Logger log.Logger

	// ErrLogger is an instance of ErrLogProxy, and is the only error logging
	// mechanism that can be used without access to the Buffalo context.
	ErrLogger ErrLogProxy
)

var extrasLock = sync.RWMutex{}

var AllowedFileUploadTypes = []string{
	"image/bmp",
	"image/gif",
	"image/jpeg",
	"image/png",
	"image/webp",
	"application/pdf",
}

// BuffaloContextType is a custom type used as a value key passed to context.WithValue as per the recommendations
// in the function docs for that function: https://golang.org/pkg/context/#WithValue
type BuffaloContextType string

// BuffaloContext is the key for the call to context.WithValue
const BuffaloContext = BuffaloContextType("BuffaloContext")

// Context keys
const (
	ContextKeyCurrentUser = "current_user"
	ContextKeyExtras      = "extras"
	ContextKeyTx          = "tx"

	EventPayloadID = "id"

	TypeEntity            = "entities"
	TypeServiceProvider   = "service-providers"
	TypeTechnician        = "technicians"
	TypeVehicle           = "vehicles"
	TypeVehicleAttachment = "vehicle-attachments"
	TypeUser              = "users"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

const (
	CurrencyFactor = 100
	DateFormat     = "2006-01-02"

	MaxFileSize = 1024 * 1024 * 10 // 10 Megabytes

	DurationDay  = time.Duration(time.Hour * 24)
	DurationWeek = time.Duration(DurationDay * 7)

	// LogoCacheDuration is how long browsers may cache a tenant logo
	LogoCacheDuration = 7 * DurationDay

	// AffiliationGraceDays is the window within which a new affiliation is
	// merged into an existing one instead of creating a duplicate
	AffiliationGraceDays = 30
)

// Event Kinds
const (
	EventApiEquipmentTransferred = "api:equipment:transferred"
	EventApiEquipmentReplaced    = "api:equipment:replaced"
)

func getBuffaloContext(ctx context.Context) buffalo.Context {
	bc, ok := ctx.Value(BuffaloContext).(buffalo.Context)
	if ok {
		return bc
	}

	// Doesn't have a BuffaloContext value, so it must be the actual BuffaloContext
	return ctx.(buffalo.Context)
}

// Env Holds the values of environment variables
var Env struct {
	GoEnv                      string `ignored:"true"`
	ApiBaseURL                 string `required:"true" split_words:"true"`
	AccessTokenLifetimeSeconds int    `default:"1166400" split_words:"true"` // 13.5 days
	AppName                    string `default:"Fleet" split_words:"true"`
	ServerPort                 int    `default:"3000" split_words:"true"`

	SessionSecret string `required:"true" split_words:"true"`
	UIURL         string `default:"http://missing.ui.url"`

	AwsRegion           string `split_words:"true"`
	AwsS3Endpoint       string `split_words:"true"`
	AwsS3DisableSSL     bool   `split_words:"true"`
	AwsS3Bucket         string `split_words:"true"`
	AwsS3ACL            string `default:"" split_words:"true"`
	AwsS3URLLifeMinutes int    `default:"10" split_words:"true"`
	AwsAccessKeyID      string `split_words:"true"`
	AwsSecretAccessKey  string `split_words:"true"`

	MaxFileDelete int `default:"10" split_words:"true"`

	ListenerDelayMilliseconds int `default:"1000" split_words:"true"`
	ListenerMaxRetries        int `default:"3" split_words:"true"`

	SentryDSN string `default:"" split_words:"true"`
}

func init() {
	readEnv()
	Logger.SetOutput(os.Stdout)
	ErrLogger.SetOutput(os.Stderr)
	ErrLogger.InitSentry()
}

// readEnv loads environment data into `Env`
func readEnv() {
	err := envconfig.Process("", &Env)
	if err != nil {
		log.Fatal(errors.New("error loading env vars: " + err.Error()))
	}

	// Doing this separately to avoid needing two environment variables for the same thing
	Env.GoEnv = envy.Get("GO_ENV", "development")
}

// IsProduction returns true when running against production systems
func IsProduction() bool {
	return Env.GoEnv == "production"
}

// ErrLogProxy is a "tee" that sends to Sentry and to the local logger,
// normally set to stderr. Sentry is disabled if `GoEnv` is "test" or no DSN
// is configured.
type ErrLogProxy struct {
	LocalLog      log.Logger
	sentryEnabled bool
}

func (e *ErrLogProxy) SetOutput(w io.Writer) {
	e.LocalLog.SetOutput(w)
}

func (e *ErrLogProxy) Printf(format string, a ...interface{}) {
	// Send to local logger
	e.LocalLog.Printf(format, a...)

	// Only send to remote log if not in test env
	if Env.GoEnv == "test" || !e.sentryEnabled {
		return
	}
	sentry.CaptureMessage(fmt.Sprintf(format, a...))
}

func (e *ErrLogProxy) InitSentry() {
	if Env.SentryDSN == "" {
		return
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         Env.SentryDSN,
		Environment: Env.GoEnv,
	}); err != nil {
		e.LocalLog.Printf("sentry.Init: %s", err)
		return
	}
	e.sentryEnabled = true
}

// NewExtra Sets a new key-value pair in the `extras` entry of the context
func NewExtra(ctx context.Context, key string, e interface{}) {
	c := getBuffaloContext(ctx)
	extras := getExtras(c)

	extrasLock.Lock()
	defer extrasLock.Unlock()
	extras[key] = e

	c.Set(ContextKeyExtras, extras)
}

func getExtras(c buffalo.Context) map[string]interface{} {
	extras, _ := c.Value(ContextKeyExtras).(map[string]interface{})
	if extras == nil {
		extras = map[string]interface{}{}
	}

	return extras
}

// GetExtras returns the extras accumulated on the request context, never nil
func GetExtras(ctx context.Context) map[string]interface{} {
	return getExtras(getBuffaloContext(ctx))
}

// GetUUID creates a new, unique version 4 (random) UUID and returns it
// as a uuid2.UUID. Errors are ignored.
func GetUUID() uuid.UUID {
	id, err := uuid.NewV4()
	if err != nil {
		ErrLogger.Printf("error creating new uuid ... %v", err)
	}
	return id
}

// RandomInsecureIntInRange returns a random integer between min and max. NOT
// cryptographically secure.
func RandomInsecureIntInRange(min, max int) int {
	if min >= max {
		panic("invalid parameters to RandomInsecureIntInRange: max of range must be greater than min.")
	}
	rand.Seed(time.Now().UnixNano())
	return rand.Intn(max-min+1) + min // #nosec G404
}

// GetBearerTokenFromRequest obtains the token from an Authorization header beginning
// with "Bearer". If not found, an empty string is returned.
func GetBearerTokenFromRequest(r *http.Request) string {
	authorizationHeader := r.Header.Get("Authorization")
	if authorizationHeader == "" {
		return ""
	}

	re := regexp.MustCompile(`^(?i)Bearer (.*)$`)
	matches := re.FindSubmatch([]byte(authorizationHeader))
	if len(matches) < 2 {
		return ""
	}

	return string(matches[1])
}

// IsOtherThanNoRows returns false if the error is nil or is just reporting that there
// were no rows in the result set for a sql query.
func IsOtherThanNoRows(err error) bool {
	if err == nil {
		return false
	}

	if strings.Contains(err.Error(), sql.ErrNoRows.Error()) {
		return false
	}

	return true
}

func MergeExtras(extras []map[string]interface{}) map[string]interface{} {
	allExtras := map[string]interface{}{}

	// I didn't think I would need this, but without it at least one test was failing
	// The code allowed a map[string]interface{} to get through (i.e. not in a slice)
	// without the compiler complaining
	if len(extras) == 1 {
		return extras[0]
	}

	for _, e := range extras {
		for k, v := range e {
			allExtras[k] = v
		}
	}

	return allExtras
}

// IsStringInSlice iterates over a slice of strings, looking for the given
// string. If found, true is returned. Otherwise, false is returned.
func IsStringInSlice(needle string, haystack []string) bool {
	for _, hs := range haystack {
		if needle == hs {
			return true
		}
	}

	return false
}

// DateOnly truncates a timestamp to midnight UTC of the same calendar day
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
