package listeners

import (
	"github.com/gobuffalo/events"

	"github.com/trackerp/fleet-api/domain"
	"github.com/trackerp/fleet-api/log"
	"github.com/trackerp/fleet-api/models"
)

// equipmentTransferred writes an audit line for a tracker that moved to a
// different vehicle or owner. The monitoring projection is already refreshed
// inside the transfer transaction.
func equipmentTransferred(e events.Event) {
	if e.Kind != domain.EventApiEquipmentTransferred {
		return
	}

	defer panicRecover(e.Kind)

	var equipment models.Equipment
	if err := findObject(e.Payload, &equipment, e.Kind); err != nil {
		return
	}

	log.WithFields(map[string]any{
		"equipment_id":     equipment.ID,
		"equipment_serial": equipment.Serial,
		"vehicle_id":       equipment.VehicleID.UUID,
		"installation_id":  equipment.InstallationID.UUID,
	}).Info("equipment transferred")
}

// equipmentReplaced writes an audit line for a tracker swap. The payload
// carries the incoming unit, which inherits the old unit's assignment.
func equipmentReplaced(e events.Event) {
	if e.Kind != domain.EventApiEquipmentReplaced {
		return
	}

	defer panicRecover(e.Kind)

	var equipment models.Equipment
	if err := findObject(e.Payload, &equipment, e.Kind); err != nil {
		return
	}

	log.WithFields(map[string]any{
		"equipment_id":     equipment.ID,
		"equipment_serial": equipment.Serial,
		"vehicle_id":       equipment.VehicleID.UUID,
	}).Info("equipment replaced")
}
