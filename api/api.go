package api

import (
	"net/http"
	"regexp"
	"strings"
)

type ErrorKey string

func (e ErrorKey) String() string {
	return string(e)
}

type ErrorCategory string

func (e ErrorCategory) String() string {
	return string(e)
}

// AppError holds information that is helpful in logging and reporting api errors
type AppError struct {
	Err error `json:"-"`

	// Don't change the value of these Key entries without making a corresponding change on the UI,
	// since these will be converted to human-friendly texts for presentation to the user
	Key ErrorKey `json:"key"`

	HttpStatus int `json:"status"`

	// detailed error message for debugging
	DebugMsg string `json:"debug_msg,omitempty"`

	Category ErrorCategory `json:"-"`

	Message string `json:"message"`

	// Extra data providing detail about the error condition, only provided in development mode
	Extras map[string]interface{} `json:"extras,omitempty"`

	// URL to redirect, if HttpStatus is in 300-series
	RedirectURL string `json:"-"`
}

func (a *AppError) Error() string {
	if a.Err == nil {
		return ""
	}
	return a.Err.Error()
}

func (a *AppError) Unwrap() error {
	return a.Err
}

// NewAppError returns a new AppError with its Err, Key and Category set
func NewAppError(err error, key ErrorKey, category ErrorCategory) *AppError {
	return &AppError{
		Err:      err,
		Key:      key,
		Category: category,
	}
}

// SetHttpStatusFromCategory assigns the appropriate HTTP status based on the error category, if not
// already set.
func (a *AppError) SetHttpStatusFromCategory() {
	if a.HttpStatus != 0 {
		return
	}

	switch a.Category {
	case CategoryInternal, CategoryDatabase:
		a.HttpStatus = http.StatusInternalServerError
	case CategoryForbidden, CategoryNotFound:
		a.HttpStatus = http.StatusNotFound
	case CategoryUnauthorized:
		a.HttpStatus = http.StatusUnauthorized
	case CategoryConflict:
		a.HttpStatus = http.StatusConflict
	default:
		a.HttpStatus = http.StatusBadRequest
	}
}

// LoadMessage assigns the user-facing error message from the Key, unless the
// HttpStatus is 500 in which case a standard message is used.
func (a *AppError) LoadMessage() {
	key := a.Key

	if a.HttpStatus == http.StatusInternalServerError {
		key = ErrorGenericInternalServer
	}

	a.Message = keyToReadableString(key.String())
}

// keyToReadableString takes a key like ErrorSomethingSomethingOther and returns Something something other
// although it will lose initial lowercase letters, if it has a non-initial uppercase letter
func keyToReadableString(key string) string {
	key = strings.TrimPrefix(key, "Error")

	re := regexp.MustCompile(`[A-Z][^A-Z]*`)
	words := re.FindAllString(key, -1)

	if len(words) == 0 {
		return key
	}

	// Lowercase all but first word
	for i := 1; i < len(words); i++ {
		words[i] = strings.ToLower(words[i])
	}

	return strings.Join(words, " ")
}
