package job

import (
	"time"

	"github.com/gobuffalo/buffalo/worker"
	"github.com/gobuffalo/pop/v6"

	"github.com/trackerp/fleet-api/log"
	"github.com/trackerp/fleet-api/models"
)

// purgeUnlinkedFilesHandler is the Worker handler that removes uploads
// nothing ever got attached to
func purgeUnlinkedFilesHandler(_ worker.Args) error {
	defer resubmitPurgeJob()

	err := models.DB.Transaction(func(tx *pop.Connection) error {
		var files models.Files
		return files.DeleteUnlinked(tx)
	})
	return err
}

func resubmitPurgeJob() {
	// Run twice a day, in case it errors out
	delay := time.Hour * 12

	if err := SubmitDelayed(PurgeUnlinkedFiles, delay, map[string]any{}); err != nil {
		log.Errorf("error resubmitting PurgeUnlinkedFiles job: %s", err)
	}
}
