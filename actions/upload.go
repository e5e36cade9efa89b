package actions

import (
	"fmt"
	"io"

	"github.com/gobuffalo/buffalo"

	"github.com/trackerp/fleet-api/api"
	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/models"
)

// fileFieldName is the multipart field name for the file upload.
const fileFieldName = "file"

// swagger:operation POST /upload Files UploadFile
// UploadFile
//
// stores a file so it can be attached to a record later. Files that are
// never linked get swept by the unlinked-file cleanup.
// ---
//
//	responses:
//	  '200':
//	    description: the stored File
func uploadHandler(c buffalo.Context) error {
	f, err := c.File(fileFieldName)
	if err != nil {
		err := fmt.Errorf("error getting uploaded file from context ... %w", err)
		return reportError(c, api.NewAppError(err, api.ErrorReceivingFile, api.CategoryInternal))
	}

	if f.Size > int64(domain.MaxFileSize) {
		err := fmt.Errorf("file upload size (%v) greater than max (%v)", f.Size, domain.MaxFileSize)
		return reportError(c, api.NewAppError(err, api.ErrorStoreFileTooLarge, api.CategoryUser))
	}

	content, err := io.ReadAll(f)
	if err != nil {
		err := fmt.Errorf("error reading uploaded file ... %w", err)
		return reportError(c, api.NewAppError(err, api.ErrorUnableToReadFile, api.CategoryInternal))
	}

	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	fileObject := models.File{
		Name:         f.Filename,
		Content:      content,
		ContractorID: actor.ContractorID,
		CreatedByID:  actor.ID,
	}
	if err := fileObject.Store(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, fileObject.ConvertToAPI(tx))
}
