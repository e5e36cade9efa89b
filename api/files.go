package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// swagger:model
type Files []File

// File is the metadata of a stored object, with a time-limited URL to fetch it
// swagger:model
type File struct {
	ID uuid.UUID `json:"id"`

	URL           string    `json:"url"`
	URLExpiration time.Time `json:"url_expiration"`
	Name          string    `json:"name"`
	Size          int       `json:"size"`
	ContentType   string    `json:"content_type"`
	CreatedByID   uuid.UUID `json:"created_by_id"`
}
