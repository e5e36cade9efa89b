package models

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
	_ "golang.org/x/image/webp" // enable decoding of WEBP images

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/log"
	"github.com/trackerp/fleet-api/storage"
)

// URLs handed to clients must remain fetchable at least this long.
const minimumFileLifespan = time.Minute * 5

// File is an object held in S3, uploaded ahead of the record that will own
// it. Linked tracks whether an owner has claimed it yet.
type File struct {
	ID            uuid.UUID `db:"id"`
	ContractorID  uuid.UUID `db:"contractor_id" validate:"required"`
	URL           string    `db:"url" validate:"required"`
	URLExpiration time.Time `db:"url_expiration"`
	Name          string    `db:"name" validate:"required"`
	Size          int       `db:"size" validate:"required,min=0"`
	ContentType   string    `db:"content_type" validate:"required"`
	Linked        bool      `db:"linked"`
	CreatedByID   uuid.UUID `db:"created_by_id" validate:"required"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Content []byte `db:"-"`
}

type Files []File

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (f *File) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(f), nil
}

// Store uploads Content to S3 under a tenant-scoped key and saves the
// metadata as a new file row. The content is normalized first: type sniffed
// when not given, EXIF stripped, extension corrected.
func (f *File) Store(tx *pop.Connection) error {
	if len(f.Content) > domain.MaxFileSize {
		err := fmt.Errorf("file too large (%d bytes), max is %d bytes", len(f.Content), domain.MaxFileSize)
		return api.NewAppError(err, api.ErrorStoreFileTooLarge, api.CategoryUser)
	}
	if f.Name == "" {
		return api.NewAppError(errors.New("filename is missing"), api.ErrorFilenameRequired, api.CategoryUser)
	}

	if f.ContentType == "" {
		detected := http.DetectContentType(f.Content)
		if !domain.IsStringInSlice(detected, domain.AllowedFileUploadTypes) {
			err := fmt.Errorf("invalid file type %s", detected)
			return api.NewAppError(err, api.ErrorStoreFileBadContentType, api.CategoryUser)
		}
		f.ContentType = detected
	}

	f.stripImageMetadata()
	f.normalizeExtension()
	f.ID = domain.GetUUID()
	f.Size = len(f.Content)

	url, err := storage.StoreFile(f.Path(), f.ContentType, f.Content)
	if err != nil {
		err = fmt.Errorf("error storing file %s: %w", f.ID, err)
		return api.NewAppError(err, api.ErrorUnableToStoreFile, api.CategoryInternal)
	}
	f.URL = url.Url
	f.URLExpiration = url.Expiration

	if err = f.Create(tx); err != nil {
		err = fmt.Errorf("error creating file %s: %w", f.ID, err)
		return api.NewAppError(err, api.ErrorUnableToStoreFile, api.CategoryInternal)
	}
	return nil
}

// stripImageMetadata drops EXIF data by re-encoding the image. WEBP is
// re-encoded as PNG since the webp package has no encoder.
func (f *File) stripImageMetadata() {
	img, _, err := image.Decode(bytes.NewReader(f.Content))
	if err != nil {
		return
	}

	buf := new(bytes.Buffer)
	var encErr error
	contentType := f.ContentType

	switch f.ContentType {
	case "image/jpg", "image/jpeg":
		encErr = jpeg.Encode(buf, img, nil)
	case "image/gif":
		encErr = gif.Encode(buf, img, nil)
	case "image/png":
		encErr = png.Encode(buf, img)
	case "image/webp":
		encErr = png.Encode(buf, img)
		contentType = "image/png"
	default:
		return
	}
	if encErr != nil {
		return
	}

	f.Content = buf.Bytes()
	f.ContentType = contentType
}

// normalizeExtension makes the file extension agree with the content type.
func (f *File) normalizeExtension() {
	ext, err := mime.ExtensionsByType(f.ContentType)
	if err != nil || len(ext) < 1 {
		return
	}
	f.Name = strings.TrimSuffix(f.Name, filepath.Ext(f.Name)) + ext[0]
}

// Find locates a file by ID. None of the struct members of f are used as
// input, but all are updated on success.
func (f *File) Find(tx *pop.Connection, id uuid.UUID) error {
	var file File
	if err := tx.Find(&file, id); err != nil {
		return err
	}
	*f = file
	return nil
}

// RefreshURL re-signs the URL when it has less than minimumFileLifespan left.
func (f *File) RefreshURL(tx *pop.Connection) error {
	if f.URLExpiration.After(time.Now().Add(minimumFileLifespan)) {
		return nil
	}

	newURL, err := storage.GetFileURL(f.Path())
	if err != nil {
		return err
	}
	f.URL = newURL.Url
	f.URLExpiration = newURL.Expiration
	return f.Update(tx)
}

// Create stores the File data as a new record in the database.
func (f *File) Create(tx *pop.Connection) error {
	return create(tx, f)
}

// Update writes the File data to an existing database record.
func (f *File) Update(tx *pop.Connection) error {
	return update(tx, f)
}

// DeleteUnlinked removes uploads that no record ever claimed, both from S3
// and from the file table. Only files untouched for four weeks are
// considered, and the batch is capped to limit the damage from a bad query.
func (f *Files) DeleteUnlinked(tx *pop.Connection) error {
	var files Files
	if err := tx.Select("id", "contractor_id", "name").
		Where("linked = FALSE AND updated_at < ?", time.Now().Add(-4*domain.DurationWeek)).
		All(&files); err != nil {
		return err
	}
	log.Info("unlinked files:", len(files))
	if len(files) > domain.Env.MaxFileDelete {
		return fmt.Errorf("attempted to delete too many files, MaxFileDelete=%d", domain.Env.MaxFileDelete)
	}
	if len(files) == 0 {
		return nil
	}

	nRemoved := 0
	for _, file := range files {
		if err := storage.RemoveFile(file.Path()); err != nil {
			log.Errorf("error removing from S3, id='%s', %s", file.ID.String(), err)
			continue
		}

		file := file
		if err := tx.Destroy(&file); err != nil {
			log.Errorf("file %s destroy error, %s", file.ID, err)
			continue
		}
		nRemoved++
	}

	if nRemoved < len(files) {
		log.Errorf("only removed %d of %d unlinked files", nRemoved, len(files))
	} else {
		log.Infof("removed %d unlinked files", nRemoved)
	}
	return nil
}

// SetLinked marks the file as claimed by a record. A file that is already
// linked cannot be claimed again. Only the ID of f needs to be set.
func (f *File) SetLinked(tx *pop.Connection) error {
	if err := tx.Reload(f); err != nil {
		panic(fmt.Sprintf("failed to load file for setting linked flag, %s", err))
	}
	if f.Linked {
		err := fmt.Errorf("cannot link file, it is already linked")
		return api.NewAppError(err, api.ErrorFileAlreadyLinked, api.CategoryUser)
	}
	f.Linked = true
	if err := tx.UpdateColumns(f, "linked", "updated_at"); err != nil {
		return appErrorFromDB(err, api.ErrorUpdateFailure)
	}
	return nil
}

// ClearLinked releases the file for garbage collection. Only the ID of f
// needs to be set.
func (f *File) ClearLinked(tx *pop.Connection) error {
	f.Linked = false
	return tx.UpdateColumns(f, "linked", "updated_at")
}

// FindByIDs finds all Files associated with the given IDs and loads them from the database
func (f *Files) FindByIDs(tx *pop.Connection, ids []uuid.UUID) error {
	return tx.Where("id in (?)", ids).All(f)
}

// ConvertToAPI converts a models.File to an api.File, re-signing the URL if
// it is close to expiring.
func (f *File) ConvertToAPI(tx *pop.Connection) api.File {
	if f == nil {
		return api.File{}
	}

	if err := f.RefreshURL(tx); err != nil {
		panic(err.Error())
	}
	return api.File{
		ID:            f.ID,
		URL:           f.URL,
		URLExpiration: f.URLExpiration,
		Name:          f.Name,
		Size:          f.Size,
		ContentType:   f.ContentType,
		CreatedByID:   f.CreatedByID,
	}
}

// Path combines the contractor, the ID and the filename to make the
// complete storage key. Keying by contractor keeps tenants out of each
// other's prefixes.
func (f *File) Path() string {
	return fmt.Sprintf("%s/%s/%s", f.ContractorID.String(), f.ID.String(), f.Name)
}
